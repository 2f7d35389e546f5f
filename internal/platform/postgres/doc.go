// Package postgres provides PostgreSQL implementations of the store
// interfaces. Stores accept a store.DBTX so that the same implementation
// serves both direct database access and service-managed transactions.
package postgres

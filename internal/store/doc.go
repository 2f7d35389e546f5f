// Package store defines the persistence interfaces for the domain entities,
// the shared store error taxonomy, and transaction helpers. Implementations
// live under internal/platform; services depend only on the interfaces here.
package store

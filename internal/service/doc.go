// Package service contains the application-specific use cases and business
// logic. It orchestrates interactions between domain objects and stores
// (defined in internal/store) to fulfill application features.
//
// Each service focuses on one domain area (profiles, questions, answers,
// notifications), receives its dependencies through constructor injection,
// and applies transactional boundaries when an operation spans multiple
// stores. Consistency-critical operations (voting, acceptance) run in
// serializable transactions through the store.Transactor; notification
// fan-out happens asynchronously through the events dispatcher and never
// affects the triggering command.
//
// The service layer depends on domain entities and store interfaces, never
// on specific infrastructure implementations.
package service

// Package store defines the persistence interfaces used by the scheduling
// engine: the card catalog, per-learner memory states, the rating history
// log, learner aggregates and the study selection queries. Implementations
// live in internal/platform/postgres.
package store

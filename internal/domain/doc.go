// Package domain contains the core entities of the scheduling engine: a
// learner's per-card memory state, rating events, catalog cards and the
// learner's aggregate statistics. It is independent of storage and transport.
package domain

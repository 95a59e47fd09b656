// Package storage opens the SQLite collection databases and provides the
// scan and format helpers the collection stores share.
//
// Timestamps are stored as UTC RFC3339Nano strings. Foreign keys are
// enforced at the connection level; a violation surfaces as a fatal error
// from the statement that caused it.
package storage

// Package memstore provides mutex-serialized in-memory implementations of
// the store interfaces. They back the service-level tests — including the
// concurrency tests for racing debits and double-sale prevention — without
// requiring a database.
package memstore

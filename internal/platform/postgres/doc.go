// Package postgres provides PostgreSQL implementations of the store
// interfaces defined in internal/store.
//
// Balance and ownership mutations are expressed as single conditional
// UPDATE statements so their invariants (non-negative balance, single
// owner) hold under concurrent requests without application-level locking.
package postgres

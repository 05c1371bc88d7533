// Package domain contains the core marketplace entities and their validation
// rules: accounts with non-negative wallet balances, and articles with a
// single owner and a positive price. It is independent of storage and
// transport concerns.
package domain

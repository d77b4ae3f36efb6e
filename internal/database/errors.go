package database

import "errors"

// ErrDependencyUnavailable is returned when no database handle could be
// obtained for a request: the pool is closed, the server refused the
// connection, or the acquired connection failed its ping.
var ErrDependencyUnavailable = errors.New("database unavailable")

// ErrQueryExecutionFailed is returned when a query, row iteration or
// scan fails on an otherwise healthy handle.
var ErrQueryExecutionFailed = errors.New("query execution failed")

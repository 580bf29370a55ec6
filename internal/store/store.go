// Package store adapts internal/domain values onto PostgreSQL, the way the
// teacher's internal/store package adapts its own domain types.
package store

import "mealplansolver/internal/db"

// DBTX re-exports db.DBTX so store files only import one package for their
// database handle type.
type DBTX = db.DBTX

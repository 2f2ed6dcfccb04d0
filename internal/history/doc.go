// Package history records finished downloads in a sqlite database.
//
// The database is created on first use and migrated on every Open. One row
// is written per download job, whatever its outcome.
package history

// Package aggregates owns the transaction boundaries for writes that must
// read, decide and save as one unit. Implementations compose the table-level
// repos from internal/data/repos.
package aggregates

// Package catalog reads media records from the indexer's SQLite database.
//
// The catalog is an external collaborator: reclaim only consumes rows that
// already carry a perceptual hash and never writes back. Records are immutable
// snapshots taken once at the start of a resolution run.
package catalog

// Package store is the wrapper-side capture database.
//
// One SQLite database holds the records scraped from one wrapper run, so
// the session report and any re-rendering work from a stable copy instead
// of a second pass over the child's stderr. The database is per-run state:
// the run command creates it in a temp location and removes it at exit,
// honoring the no-persistence rule. The report command can also be pointed
// at a database kept with --keep-db.
//
// Record IDs are content-addressed from (session, identity, sequence,
// label), so writing the same scraped stream twice is a no-op.
package store

// Package entries provides the client-side persistence layer for quicklog
// entries.
//
// # Overview
//
// The package defines a Repository interface for the append-only entry log and
// three implementations with identical observable behavior:
//
//   - SQLiteRepository: the default, over a *sql.DB opened with modernc.org/sqlite
//   - BoltRepository: over a go.etcd.io/bbolt file
//   - MemoryRepository: process-local, used when the durable store is unavailable
//
// # Recency
//
// ListRecent walks a timestamp index from its newest end and stops after limit
// rows, so its cost follows limit rather than the size of the log. Entries come
// back ordered by timestamp descending; equal timestamps are ordered by id
// descending (the later insert wins).
//
// # Schema
//
// Repositories assume the schema from internal/client/migrations is in place;
// opening and migrating the store is the job of internal/client/storage.
//
// Typical Usage
//
//	repo := entries.NewSQLiteRepository(db)
//	_ = repo.Insert(ctx, entry)      // entry.Id is set on success
//	recent, _ := repo.ListRecent(ctx, 10)
//	n, _ := repo.Count(ctx)
package entries

// Package migrations holds the versioned schema of the local quicklog store:
// embedded goose SQL files for the SQLite backend and an equivalent ordered
// list of bucket migrations for the bbolt backend. Both backends converge on
// SchemaVersion.
package migrations

import "embed"

// SchemaVersion is the schema version the code expects after migrating.
const SchemaVersion = 1

// SQL contains the goose migrations for the SQLite backend.
//
//go:embed *.sql
var SQL embed.FS

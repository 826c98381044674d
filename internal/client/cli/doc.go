// Package cli provides the quicklog command line: one-shot commands for
// capturing and listing entries and an interactive REPL.
//
// Each invocation loads the configuration, builds a logger tagged with a
// session id and opens the storage engine before the command runs. When the
// store cannot be opened and degraded mode is allowed, the CLI warns and
// continues on an in-memory store.
//
// Commands:
//
//	quicklog                        start the REPL
//	quicklog add <type> <content>   capture an entry of type issue, task or note
//	quicklog issue|task|note [text] shortcuts; without text, read multiline input
//	quicklog list                   show the --limit most recent entries
//	quicklog info                   show backend, path, schema version and size
//
// See Execute, NewRootCommand and runREPL.
package cli

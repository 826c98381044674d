package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/quicklog/internal/client/models"
)

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	Add(ctx context.Context, t models.EntryType, content string) error
	AddInteractive(ctx context.Context, t models.EntryType) error
	List(ctx context.Context, limit int) error
	Info(ctx context.Context) error
}

const replHelp = `Available commands:
  issue|task|note [text]  capture an entry (no text: multiline input)
  add <type> <text>       same as above with the type as an argument
  l, list [n]             show the n most recent entries
  info                    show store details
  help                    show this help
  exit | quit             leave the program`

// runREPL starts a simple read–eval–print loop.
//
// It reads a line from reader, parses the first token as the command and
// dispatches to methods on a. Unknown commands are reported back to the user.
// The loop exits on EOF or when the user types "exit" or "quit". The prompt
// is printed only when prompt is true.
//
// Errors returned by command handlers are ignored here; handlers report
// them to the user and the engine logs them.
func runREPL(ctx context.Context, a execIface, reader *bufio.Reader, w io.Writer, prompt bool) {
	for {
		if ctx.Err() != nil {
			return
		}
		if prompt {
			fmt.Fprint(w, "quicklog> ")
		}

		line, err := readLine(reader)
		if err != nil {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := strings.ToLower(parts[0]), parts[1:]

		switch cmd {
		case "help", "?":
			fmt.Fprintln(w, replHelp)

		case "issue", "task", "note":
			addFromREPL(ctx, a, models.EntryType(cmd), args)

		case "add":
			if len(args) == 0 {
				fmt.Fprintln(w, "Usage: add <issue|task|note> [text]")
				continue
			}
			t, err := models.ParseEntryType(args[0])
			if err != nil {
				fmt.Fprintln(w, err)
				continue
			}
			addFromREPL(ctx, a, t, args[1:])

		case "l", "list":
			limit := 0
			if len(args) > 0 {
				n, err := strconv.Atoi(args[0])
				if err != nil || n <= 0 {
					fmt.Fprintln(w, "Usage: list [n], n > 0")
					continue
				}
				limit = n
			}
			_ = a.List(ctx, limit)

		case "info":
			_ = a.Info(ctx)

		case "exit", "quit":
			fmt.Fprintln(w, "Bye!")
			return

		default:
			fmt.Fprintln(w, "Unknown command:", cmd)
		}
	}
}

func addFromREPL(ctx context.Context, a execIface, t models.EntryType, args []string) {
	if len(args) == 0 {
		_ = a.AddInteractive(ctx, t)
		return
	}
	_ = a.Add(ctx, t, strings.Join(args, " "))
}

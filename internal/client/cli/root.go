package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/dmitrijs2005/quicklog/internal/buildinfo"
	"github.com/dmitrijs2005/quicklog/internal/client/config"
	"github.com/dmitrijs2005/quicklog/internal/client/models"
	"github.com/dmitrijs2005/quicklog/internal/logging"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

// session holds what PersistentPreRunE builds for the command that runs.
type session struct {
	loader *config.Loader
	in     io.Reader
	errOut io.Writer

	app       *App
	logCloser io.Closer
}

func (s *session) open(cmd *cobra.Command) error {
	cfg, err := s.loader.Load()
	if err != nil {
		return err
	}

	base, closer, err := logging.New(cfg.LoggingOptions(), s.errOut)
	if err != nil {
		return err
	}
	s.logCloser = closer
	log := base.With("session", uuid.NewString())

	app, err := NewApp(cmd.Context(), cfg, log, s.in, cmd.OutOrStdout())
	if err != nil {
		return err
	}
	s.app = app

	if app.degraded {
		fmt.Fprintln(s.errOut, "warning: store unavailable, entries will be kept in memory only until exit")
	}
	return nil
}

func (s *session) close() {
	if s.app != nil {
		_ = s.app.Close()
		s.app = nil
	}
	if s.logCloser != nil {
		_ = s.logCloser.Close()
		s.logCloser = nil
	}
}

// NewRootCommand builds the quicklog command tree reading from in and
// writing to out and errOut. The returned cleanup releases the store and the
// log file once the command has run.
func NewRootCommand(in io.Reader, out, errOut io.Writer) (*cobra.Command, func()) {
	s := &session{in: in, errOut: errOut}

	root := &cobra.Command{
		Use:   "quicklog",
		Short: "Capture issues, tasks and notes in a local log",
		Long: `quicklog records short issue, task and note entries in a local store
and lists them back newest first. Without a subcommand it starts an
interactive prompt.`,
		Version:       buildinfo.String(),
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Name() == "help" {
				return nil
			}
			return s.open(cmd)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runInteractive(cmd, s.app)
		},
	}
	root.CompletionOptions.DisableDefaultCmd = true
	root.SetIn(in)
	root.SetOut(out)
	root.SetErr(errOut)

	s.loader = config.Bind(root.PersistentFlags())

	root.AddCommand(
		newAddCommand(s),
		newTypeCommand(s, models.EntryTypeIssue, "Record something that went wrong"),
		newTypeCommand(s, models.EntryTypeTask, "Record something that needs doing"),
		newTypeCommand(s, models.EntryTypeNote, "Record an observation"),
		newListCommand(s),
		newInfoCommand(s),
		newREPLCommand(s),
	)

	return root, s.close
}

func newAddCommand(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "add <issue|task|note> <content...>",
		Short: "Capture an entry",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := models.ParseEntryType(args[0])
			if err != nil {
				return err
			}
			return s.app.Add(cmd.Context(), t, strings.Join(args[1:], " "))
		},
	}
}

func newTypeCommand(s *session, t models.EntryType, short string) *cobra.Command {
	return &cobra.Command{
		Use:   string(t) + " [content...]",
		Short: short,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return s.app.AddInteractive(cmd.Context(), t)
			}
			return s.app.Add(cmd.Context(), t, strings.Join(args, " "))
		},
	}
}

func newListCommand(s *session) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls", "l"},
		Short:   "Show the most recent entries (see --limit)",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return s.app.List(cmd.Context(), 0)
		},
	}
}

func newInfoCommand(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Show store backend, location, schema version and size",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return s.app.Info(cmd.Context())
		},
	}
}

func newREPLCommand(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Start the interactive prompt",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runInteractive(cmd, s.app)
		},
	}
}

func runInteractive(cmd *cobra.Command, a *App) error {
	if a.interactive {
		fmt.Fprintf(a.out, "quicklog %s (type 'help' for commands)\n", buildinfo.Version)
		if a.degraded {
			fmt.Fprintln(a.out, "Running without a durable store: entries are lost on exit.")
		}
	}
	runREPL(cmd.Context(), a, a.reader, a.out, a.interactive)
	return nil
}

// Execute runs the command line args and returns the process exit code.
func Execute(ctx context.Context, args []string, in io.Reader, out, errOut io.Writer) int {
	root, cleanup := NewRootCommand(in, out, errOut)
	defer cleanup()

	root.SetArgs(args)
	if err := root.ExecuteContext(ctx); err != nil {
		var r *reportedError
		if !errors.As(err, &r) {
			fmt.Fprintln(errOut, "Error:", err)
		}
		return 1
	}
	return 0
}

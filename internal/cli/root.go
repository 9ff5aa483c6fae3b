// Package cli implements the taskshelf command-line interface.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mesh-intelligence/taskshelf/internal/logging"
	"github.com/mesh-intelligence/taskshelf/internal/paths"
	"github.com/mesh-intelligence/taskshelf/internal/sqlite"
	"github.com/mesh-intelligence/taskshelf/internal/syncer"
	"github.com/mesh-intelligence/taskshelf/internal/syncstate"
	"github.com/mesh-intelligence/taskshelf/pkg/qb"
	"github.com/mesh-intelligence/taskshelf/pkg/types"
)

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// rootFlags holds global flag values accessible to all subcommands.
type rootFlags struct {
	configDir string
	dataDir   string
	jsonMode  bool
	logLevel  string
}

// app is the state shared by the commands of one invocation.
type app struct {
	flags   rootFlags
	config  *viper.Viper
	log     zerolog.Logger
	backend *sqlite.Backend
}

// NewRootCmd creates the top-level "taskshelf" command with global flags
// and all subcommands registered.
func NewRootCmd() *cobra.Command {
	root, _ := newRoot()
	return root
}

func newRoot() (*cobra.Command, *app) {
	a := &app{log: zerolog.Nop()}

	root := &cobra.Command{
		Use:   "taskshelf",
		Short: "A local-first task list",
		Long: `taskshelf keeps tasks in a local SQLite database and mirrors them to a
shared folder on demand.`,
		Version:           Version,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}

	root.PersistentFlags().StringVar(&a.flags.configDir, "config-dir", "", "configuration directory (default: platform config dir)")
	root.PersistentFlags().StringVar(&a.flags.dataDir, "data-dir", "", "data directory (default: platform data dir)")
	root.PersistentFlags().BoolVar(&a.flags.jsonMode, "json", false, "output in JSON format")
	root.PersistentFlags().StringVar(&a.flags.logLevel, "log-level", "", "log level (trace, debug, info, warn, error)")

	root.AddCommand(
		newVersionCmd(),
		newInitCmd(a),
		newAddCmd(a),
		newListCmd(a),
		newShowCmd(a),
		newDoneCmd(a),
		newNotesCmd(a),
		newDeleteCmd(a),
		newLoginCmd(a),
		newLogoutCmd(a),
		newSyncCmd(a),
	)
	return root, a
}

// Execute runs the root command and exits with the appropriate code.
func Execute() {
	if err := run(context.Background(), os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, "taskshelf:", err)
		os.Exit(exitCode(err))
	}
}

// run executes one command line and detaches the backend whether or not the
// command succeeded.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	root, a := newRoot()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)
	return errors.Join(root.ExecuteContext(ctx), a.close())
}

// exitCode maps caller mistakes to exitUserError and everything else to
// exitSysError.
func exitCode(err error) int {
	switch {
	case err == nil:
		return exitSuccess
	case errors.Is(err, types.ErrNotFound),
		errors.Is(err, types.ErrInvalidID),
		errors.Is(err, types.ErrInvalidTitle),
		errors.Is(err, types.ErrInvalidImportance),
		errors.Is(err, types.ErrFilterNotFound),
		errors.Is(err, qb.ErrTemplateConflict),
		errors.Is(err, errUsage),
		errors.Is(err, syncer.ErrNotLoggedIn):
		return exitUserError
	default:
		return exitSysError
	}
}

// errUsage marks invalid flag values and arguments.
var errUsage = errors.New("invalid usage")

func usageErrorf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", errUsage, fmt.Sprintf(format, args...))
}

// setup loads config.yaml and builds the logger. The version command needs
// neither.
func (a *app) setup(cmd *cobra.Command, args []string) error {
	if cmd.Name() == "version" {
		return nil
	}
	configDir, err := paths.ResolveConfigDir(a.flags.configDir)
	if err != nil {
		return fmt.Errorf("resolve config dir: %w", err)
	}
	if a.config, err = loadConfig(configDir); err != nil {
		return err
	}

	level := a.flags.logLevel
	if level == "" {
		level = a.config.GetString(cfgKeyLogLevel)
	}
	a.log = logging.New(logging.Config{Level: level, Pretty: true, Output: cmd.ErrOrStderr()})
	return nil
}

// dataDir resolves the data directory: --data-dir flag > config.yaml
// data_dir > TASKSHELF_DATA_DIR env > platform default.
func (a *app) dataDir() (string, error) {
	return paths.ResolveDataDir(a.flags.dataDir, a.config.GetString(cfgKeyDataDir))
}

// open attaches the SQLite backend on first use.
func (a *app) open() (*sqlite.Backend, error) {
	if a.backend != nil {
		return a.backend, nil
	}
	dataDir, err := a.dataDir()
	if err != nil {
		return nil, fmt.Errorf("resolve data dir: %w", err)
	}
	cfg := types.Config{
		Backend: a.config.GetString(cfgKeyBackend),
		DataDir: dataDir,
	}
	backend := sqlite.NewBackend(sqlite.WithLogger(a.component("sqlite")))
	if err := backend.Attach(cfg); err != nil {
		return nil, fmt.Errorf("attach backend: %w", err)
	}
	a.backend = backend
	return backend, nil
}

func (a *app) close() error {
	if a.backend == nil {
		return nil
	}
	err := a.backend.Detach()
	a.backend = nil
	return err
}

func (a *app) tasks() (*sqlite.TasksTable, error) {
	backend, err := a.open()
	if err != nil {
		return nil, err
	}
	return backend.Tasks()
}

// tracker returns the sync state of the folder provider.
func (a *app) tracker() (*syncstate.Tracker, error) {
	backend, err := a.open()
	if err != nil {
		return nil, err
	}
	p, err := backend.Preferences()
	if err != nil {
		return nil, err
	}
	return syncstate.New(syncer.FolderIdentifier, p, syncstate.WithLogger(a.component("syncstate"))), nil
}

func (a *app) component(name string) zerolog.Logger {
	return a.log.With().Str("component", name).Logger()
}

func (a *app) out(cmd *cobra.Command) io.Writer {
	return cmd.OutOrStdout()
}

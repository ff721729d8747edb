package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"runtime/debug"
	"strings"
	"syscall"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/jvanvinkenroye/swb/config"
	"github.com/jvanvinkenroye/swb/misc"
	"github.com/jvanvinkenroye/swb/sru"
	"github.com/jvanvinkenroye/swb/state"
)

// initializeAppContext prepares application context before command execution but
// after command line has been parsed
func initializeAppContext(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	var err error

	if cmd.NArg() == 0 {
		// nothing to do, just return
		return ctx, nil
	}

	env := state.EnvFromContext(ctx)

	configFile := cmd.String("config")
	if env.Cfg, err = config.LoadConfiguration(configFile); err != nil {
		return ctx, fmt.Errorf("unable to prepare configuration: %w", err)
	}
	if mode := cmd.String("output"); len(mode) > 0 {
		m, err := config.ParseOutputMode(mode)
		if err != nil {
			return ctx, fmt.Errorf("unable to parse output mode: %w", err)
		}
		env.Cfg.Output.Mode = m
	}
	if cmd.Bool("debug") {
		if env.Rpt, err = env.Cfg.Reporting.Prepare(); err != nil {
			return ctx, fmt.Errorf("unable to prepare debug reporter: %w", err)
		}
		// save complete processed configuration if external configuration was provided
		if len(configFile) > 0 {
			// we do not want any of your secrets!
			if data, err := config.Dump(env.Cfg); err == nil {
				env.Rpt.StoreData(fmt.Sprintf("config/%s", filepath.Base(configFile)), data)
			}
		}
	}
	if env.Log, err = env.Cfg.Logging.Prepare(env.Rpt); err != nil {
		return ctx, fmt.Errorf("unable to prepare logs: %w", err)
	}
	env.RedirectStdLog()

	env.Log.Debug("Program started", zap.Strings("args", os.Args), zap.String("ver", misc.GetVersion()), zap.String("runtime", runtime.Version()), zap.String("hash", misc.GetGitHash()))

	if env.Rpt != nil {
		env.Log.Info("Creating debug report", zap.String("location", env.Rpt.Name()))
	}
	if len(configFile) == 0 && env.Log != nil {
		env.Log.Info("Using defaults (no configuration file)")
	}

	if err = env.PrepareClient(); err != nil {
		return ctx, fmt.Errorf("unable to prepare catalog client: %w", err)
	}
	env.Log.Debug("Catalog client ready", zap.String("url", env.Client.BaseURL()), zap.String("sru", env.Client.SRUVersion()))
	return ctx, nil
}

func destroyAppContext(ctx context.Context, cmd *cli.Command) (err error) {
	env := state.EnvFromContext(ctx)

	if env.Log != nil {
		env.Log.Debug("Program ended", zap.Duration("elapsed", env.Uptime()), zap.Strings("parsed args", cmd.Args().Slice()))
	}

	// close logging
	env.RestoreStdLog()

	// log is synced now and result can be used in report if necessary, errors
	// must be reported directly to stderr from now on
	if env.Rpt != nil {
		if er := env.Rpt.Close(); er != nil {
			err = multierr.Append(err, fmt.Errorf("unable to close debug report: %w", er))
		}
	}
	// reporting is closed now - remove empty panic file if any
	if env.Cfg != nil && len(env.Cfg.Logging.FileLogger.Destination) > 0 {
		debug.SetCrashOutput(nil, debug.CrashOptions{})
		fname := filepath.Join(filepath.Dir(env.Cfg.Logging.FileLogger.Destination), misc.GetAppName()+"-panic.log")
		if fi, er := os.Stat(fname); er == nil && fi.Size() == 0 {
			if er := os.Remove(fname); er != nil {
				err = multierr.Append(err, fmt.Errorf("unable to remove empty panic log file '%s': %w", fname, er))
			}
		}
	}
	return
}

// Ignore urfave/cli default error handling - for me cli.Exit() looks
// non-transparent and unnesessary. I will return regular errors from
// subcommands.
var errWasHandled bool

// this is called before appContext is destroyed, so we have a chance to
// properly log any error from subcommand
func exitErrHandler(ctx context.Context, _ *cli.Command, err error) {

	env := state.EnvFromContext(ctx)

	if env.Log != nil {
		env.Log.Error("Program ended with error", zap.Error(err))
		errWasHandled = true
	}
}

func usageErrorHandler(_ context.Context, _ *cli.Command, err error, _ bool) error {
	// do nothing special, error is reported either by exitErrHandler or on
	// exit directly to stderr.
	return err
}

func subcommandNotFoundHandler(ctx context.Context, _ *cli.Command, name string) {
	state.EnvFromContext(ctx).Log.Warn("Unknown command, nothing to do", zap.String("command", name))
}

func main() {

	// allow graceful shutdown on interrupt, search requests may sit in the
	// rate limiter or in retry backoff for a while.
	ctx, stop := signal.NotifyContext(state.ContextWithEnv(context.Background()), os.Interrupt, syscall.SIGTERM)

	app := &cli.Command{
		Name:            misc.GetAppName(),
		Usage:           "search client for German library union catalogs (SWB, K10plus and friends)",
		Version:         misc.GetVersion() + " (" + runtime.Version() + ") : " + misc.GetGitHash(),
		HideHelpCommand: true,
		Before:          initializeAppContext,
		After:           destroyAppContext,
		OnUsageError:    usageErrorHandler,
		ExitErrHandler:  exitErrHandler,
		CommandNotFound: subcommandNotFoundHandler,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, DefaultText: "", Usage: "load configuration from `FILE` (YAML)"},
			&cli.BoolFlag{Name: "debug", Aliases: []string{"d"}, Usage: "changes program behavior to help troubleshooting, produces report archive"},
			&cli.StringFlag{Name: "output", Aliases: []string{"o"}, DefaultText: "from configuration",
				Usage: "render results as `MODE` (supported modes: " + strings.Join(config.OutputModeNames(), ", ") + ")"},
		},
		Commands: []*cli.Command{
			{
				Name:         "search",
				Usage:        "Searches the catalog",
				OnUsageError: usageErrorHandler,
				Action:       runSearch,
				Flags: append([]cli.Flag{
					&cli.StringFlag{Name: "index", Aliases: []string{"i"}, Value: "all",
						Usage: "search `INDEX` (supported indices: " + strings.Join(sru.KnownIndexNames(), ", ") + " or any pica.* name)"},
				}, searchFlags()...),
				ArgsUsage: "TERM...",
				CustomHelpTemplate: fmt.Sprintf(`%s
TERM:
    search term(s), multiple terms are joined with spaces before the query is
    sent. The query is scoped to a single index selected with --index, run
    "%s indices" to see what the friendly index names stand for.
`, cli.CommandHelpTemplate, misc.GetAppName()),
			},
			{
				Name:         "isbn",
				Usage:        "Looks a book up by ISBN",
				OnUsageError: usageErrorHandler,
				Action:       runISBN,
				Flags:        searchFlags(),
				ArgsUsage:    "ISBN",
				CustomHelpTemplate: fmt.Sprintf(`%s
ISBN:
    ISBN-10 or ISBN-13, hyphens and spaces are ignored. Numbers that fail the
    checksum are still sent to the server verbatim, you will simply see the
    zero hit response for what was actually asked.
`, cli.CommandHelpTemplate),
			},
			{
				Name:         "issn",
				Usage:        "Looks a periodical up by ISSN",
				OnUsageError: usageErrorHandler,
				Action:       runISSN,
				Flags:        searchFlags(),
				ArgsUsage:    "ISSN",
			},
			{
				Name:         "related",
				Usage:        "Finds records related to a known record",
				OnUsageError: usageErrorHandler,
				Action:       runRelated,
				Flags: append([]cli.Flag{
					&cli.StringFlag{Name: "relation", Aliases: []string{"r"}, Required: true,
						Usage: "relation `TYPE` to follow (supported types: " + strings.Join(sru.KnownRelationNames(), ", ") + ")"},
					&cli.StringFlag{Name: "record-type", Aliases: []string{"t"}, Value: "bibliographic",
						Usage: "record `TYPE` to return (bibliographic, authority)"},
				}, searchFlags()...),
				ArgsUsage: "PPN",
				CustomHelpTemplate: fmt.Sprintf(`%s
PPN:
    PICA production number of the starting record, shown as "ppn" in search
    results. Related records are found through the K10plus linking fields,
    --relation parent walks up to the parent work, --relation child lists
    volumes of a multi-volume work and so on.
`, cli.CommandHelpTemplate),
			},
			{
				Name:         "scan",
				Usage:        "Browses an index around a term",
				OnUsageError: usageErrorHandler,
				Action:       runScan,
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "max", Aliases: []string{"n"}, DefaultText: "20", Usage: "maximum `NUMBER` of terms to return"},
					&cli.IntFlag{Name: "position", Aliases: []string{"p"}, DefaultText: "1", Usage: "`POSITION` of the requested term within the response"},
				},
				ArgsUsage: "CLAUSE",
				CustomHelpTemplate: fmt.Sprintf(`%s
CLAUSE:
    scan clause in index=term form, for example: pica.per=Eco

    The server lists index terms alphabetically around the given term, with
    the number of records behind each one.
`, cli.CommandHelpTemplate),
			},
			{
				Name:         "explain",
				Usage:        "Shows what the configured SRU endpoint supports",
				OnUsageError: usageErrorHandler,
				Action:       runExplain,
			},
			{
				Name:         "formats",
				Usage:        "Lists record formats the client can request",
				OnUsageError: usageErrorHandler,
				Action:       runFormats,
			},
			{
				Name:         "indices",
				Usage:        "Lists friendly search index names, sort fields and relation types",
				OnUsageError: usageErrorHandler,
				Action:       runIndices,
			},
			{
				Name:         "profiles",
				Usage:        "Lists preconfigured catalog endpoints",
				OnUsageError: usageErrorHandler,
				Action:       runProfiles,
			},
			{
				Name:  "dumpconfig",
				Usage: "Dumps either default or actual configuration (YAML)",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "default", Usage: "output default embedded configuration"},
				},
				OnUsageError: usageErrorHandler,
				Action:       outputConfiguration,
				ArgsUsage:    "DESTINATION",
				CustomHelpTemplate: fmt.Sprintf(`%s

DESTINATION:
    file name to write configuration to, if absent - STDOUT

Produces file with actual "active" configuration values wich is composition of
default values and values specified in configuration file. To see default
configuration embedded into the program use --default flag.
`, cli.CommandHelpTemplate),
			},
		},
	}

	var err error
	// NOTE: os.Exit is called at the end of main to set exit code, make sure
	// there are no other deffered functions after that
	defer func() {
		stop()
		if err != nil {
			// It may happen that log is either not set yet (argument parsing) or already closed,
			// report errors to stderr directly
			if !errWasHandled {
				fmt.Fprintf(os.Stderr, "Program ended with error: %v\n", err)
			}
			os.Exit(1)
		}
	}()
	err = app.Run(ctx, os.Args)
}

func outputConfiguration(ctx context.Context, cmd *cli.Command) error {

	env := state.EnvFromContext(ctx)
	if cmd.Args().Len() > 1 {
		env.Log.Warn("Malformed command line, too many destinations", zap.Strings("ignoring", cmd.Args().Slice()[1:]))
	}

	fname := cmd.Args().Get(0)

	var (
		err   error
		data  []byte
		state string
	)

	out := os.Stdout
	if len(fname) > 0 {
		out, err = os.Create(fname)
		if err != nil {
			return fmt.Errorf("unable to create destination file '%s': %w", fname, err)
		}
		defer out.Close()

	}

	if cmd.Bool("default") {
		state = "default"
		data, err = config.Prepare()
	} else {
		state = "actual"
		data, err = config.Dump(env.Cfg)
	}
	if err != nil {
		return fmt.Errorf("unable to get configuration: %w", err)
	}

	if len(fname) == 0 {
		fname = "STDOUT"
	}
	env.Log.Info("Outputing configuration", zap.String("state", state), zap.String("file", fname))

	_, err = out.Write(data)
	if err != nil {
		return fmt.Errorf("unable to write configuration: %w", err)
	}
	return nil
}

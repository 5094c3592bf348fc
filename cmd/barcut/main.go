// BarCut — 1D cutting planner for raw bars and boards
//
// Plans how to cut an inventory of raw bars into a mix of target lengths,
// biased toward goal percentages, and exports cut sheets, labels and DXF
// diagrams. A demand mode packs an explicit piece list onto one stock length.
//
// Build:
//   go build -o barcut ./cmd/barcut
//
// Usage:
//   barcut <command> [flags]
//   barcut help

package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/piwi3910/BarCut/internal/model"
	"github.com/piwi3910/BarCut/internal/project"
)

type command struct {
	summary string
	run     func(args []string, out io.Writer) error
}

var commands = map[string]command{
	"optimize":  {"cut the project inventory into its target lengths", cmdOptimize},
	"demand":    {"pack a demand list onto one stock length", cmdDemand},
	"compare":   {"compare what-if settings on the project", cmdCompare},
	"inventory": {"list or edit the project inventory", cmdInventory},
	"targets":   {"list or edit the project target lengths", cmdTargets},
	"history":   {"list logged optimization runs", cmdHistory},
	"template":  {"save or apply project templates", cmdTemplate},
	"backup":    {"export or import config, inventory and templates", cmdBackup},
}

func main() {
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
		With().Timestamp().Logger()
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	if err := run(os.Args[1:], os.Stdout); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		log.Error().Err(err).Msg("barcut failed")
		os.Exit(1)
	}
}

func run(args []string, out io.Writer) error {
	if len(args) == 0 || args[0] == "help" || args[0] == "-h" || args[0] == "--help" {
		usage(out)
		return nil
	}
	cmd, ok := commands[args[0]]
	if !ok {
		usage(out)
		return fmt.Errorf("unknown command %q", args[0])
	}
	return cmd.run(args[1:], out)
}

func usage(out io.Writer) {
	fmt.Fprintln(out, "Usage: barcut <command> [flags]")
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Commands:")
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(out, "  %-10s %s\n", name, commands[name].summary)
	}
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Run 'barcut <command> -h' for the flags of a command.")
}

// commonFlags are accepted by every command.
type commonFlags struct {
	configPath string
	verbose    bool
}

func addCommonFlags(fs *flag.FlagSet) *commonFlags {
	c := &commonFlags{}
	fs.StringVar(&c.configPath, "config", project.DefaultConfigPath(), "app config file (.json, .yaml)")
	fs.BoolVar(&c.verbose, "verbose", false, "debug logging")
	return c
}

// setup loads the app config and sets the log level from it, unless
// -verbose asks for debug output.
func (c *commonFlags) setup() (model.AppConfig, error) {
	cfg, err := project.LoadAppConfig(c.configPath)
	if err != nil {
		return cfg, fmt.Errorf("failed to load config %s: %w", c.configPath, err)
	}
	level := zerolog.InfoLevel
	if parsed, err := zerolog.ParseLevel(strings.ToLower(cfg.LogLevel)); err == nil && cfg.LogLevel != "" {
		level = parsed
	}
	if c.verbose {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)
	log.Debug().Str("config", c.configPath).Msg("Loaded config")
	return cfg, nil
}

package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	prisma "github.com/carlosnayan/prisma-go-inputs"
	"github.com/carlosnayan/prisma-go-inputs/catalog"
	"github.com/carlosnayan/prisma-go-inputs/inputs"
	"github.com/carlosnayan/prisma-go-inputs/internal/config"
	perrors "github.com/carlosnayan/prisma-go-inputs/internal/errors"
	"github.com/carlosnayan/prisma-go-inputs/internal/logger"
)

// RootOptions holds the global flags shared by every command.
type RootOptions struct {
	ConfigFile string
	SchemaPath string
	Verbose    bool
}

// NewRootCommand creates the prisma-inputs command tree.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	root := &cobra.Command{
		Use:     "prisma-inputs",
		Short:   "Validate Prisma-style query and mutation inputs",
		Version: prisma.Version,
		Long: `prisma-inputs derives the input grammar of a schema.prisma
(where filters, unique lookups, nested writes, aggregations, projections
and operation arguments) and checks JSON or YAML inputs against it.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := root.PersistentFlags()
	pf.StringVarP(&opts.ConfigFile, "config", "c", "", "Path to configuration file (default: prisma.conf)")
	pf.StringVarP(&opts.SchemaPath, "schema", "s", "", "Path to schema.prisma (default: prisma/schema.prisma)")
	pf.BoolVarP(&opts.Verbose, "verbose", "v", false, "Verbose mode (show detailed logs)")

	root.AddCommand(
		NewValidateCommand(opts),
		NewListCommand(opts),
		NewCheckCommand(opts),
		NewWatchCommand(opts),
	)
	return root
}

// Execute runs the CLI application.
func Execute() error {
	return NewRootCommand().Execute()
}

// environment is what a command needs after flags and prisma.conf are
// resolved.
type environment struct {
	cfg        *config.Config
	schemaPath string
	log        *logger.Logger
}

// load resolves the configuration. Without a --config flag a missing
// prisma.conf is not an error; defaults apply.
func (o *RootOptions) load(stderr io.Writer) (*environment, error) {
	cfg, err := o.loadConfig()
	if err != nil {
		return nil, err
	}

	levels := cfg.Log
	switch {
	case o.Verbose:
		levels = []string{"debug", "info", "warn", "error"}
	case len(levels) == 0:
		levels = []string{"warn", "error"}
	}
	log := logger.NewLogger(levels, stderr)
	logger.SetDefaultLogger(log)

	if cfg.Validation.Production {
		perrors.ProductionMode = true
	}

	schemaPath := o.SchemaPath
	if schemaPath == "" {
		schemaPath = cfg.GetSchemaPath()
	}
	return &environment{cfg: cfg, schemaPath: schemaPath, log: log}, nil
}

func (o *RootOptions) loadConfig() (*config.Config, error) {
	if o.ConfigFile != "" {
		return config.Load(o.ConfigFile)
	}
	wd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("cannot get working directory: %w", err)
	}
	if _, err := config.Find(wd); err != nil {
		return config.Parse("")
	}
	return config.Load("")
}

// registry parses the schema and defines its input grammar.
func (e *environment) registry() (*inputs.Registry, error) {
	cat, err := catalog.LoadFile(e.schemaPath)
	if err != nil {
		return nil, err
	}
	return inputs.New(cat, inputs.Options{
		Mode:     e.cfg.Mode(),
		MaxDepth: e.cfg.MaxDepth(),
		Logger:   e.log,
	})
}

package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"cramomatic/internal/api"
	"cramomatic/internal/config"
)

// app carries the state shared by every subcommand once the root has run.
type app struct {
	// global flags
	configPath  string
	inputsPath  string
	outputsPath string
	verbose     bool
	jsonOut     bool

	cfg    *config.Config
	logger *zap.Logger
	svc    *api.Service
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "cramomatic",
		Short: "Cram-o-matic recipe resolver and validator",
		Long: `Resolves four-ingredient Cram-o-matic recipes and checks whether a partly
chosen recipe can still produce a wanted item.

Ingredient slots are given in order; "_" leaves a slot open.`,
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.configPath, "config", "", "YAML config file")
	pf.StringVar(&a.inputsPath, "inputs", "", "ingredient table JSON (overrides the bundled one)")
	pf.StringVar(&a.outputsPath, "outputs", "", "output table JSON (overrides the bundled one)")
	pf.BoolVarP(&a.verbose, "verbose", "v", false, "debug logging")
	pf.BoolVar(&a.jsonOut, "json", false, "print JSON instead of text")

	root.AddCommand(
		a.computeCmd(),
		a.checkCmd(),
		a.optionsCmd(),
		a.outputsCmd(),
		a.itemsCmd(),
		a.tableCmd(),
		a.serveCmd(),
	)
	return root
}

func (a *app) setup(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if a.inputsPath != "" {
		cfg.Data.InputsPath = a.inputsPath
	}
	if a.outputsPath != "" {
		cfg.Data.OutputsPath = a.outputsPath
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	logger, err := cfg.BuildLogger(a.verbose)
	if err != nil {
		return err
	}
	tables, err := cfg.Tables()
	if err != nil {
		return fmt.Errorf("load tables: %w", err)
	}
	logger.Debug("tables loaded",
		zap.Int("items", len(tables.InputOptions())),
		zap.Int("outputs", len(tables.OutputOptions())),
	)

	a.cfg = cfg
	a.logger = logger
	a.svc = api.NewService(tables, logger, cfg.GetCacheTTL(), cfg.GetCacheCleanupInterval())
	return nil
}

// print writes v as indented JSON under --json, otherwise calls text.
func (a *app) print(w io.Writer, v any, text func(io.Writer)) error {
	if !a.jsonOut {
		text(w)
		return nil
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

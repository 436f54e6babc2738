// Package main provides the vcfcompare command-line tool.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/inodb/vcfcompare/internal/compare"
)

// Exit codes
const (
	ExitSuccess = 0
	ExitError   = 1
	ExitUsage   = 2
)

// Version information (set at build time)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var (
	cfgFile string
	verbose bool
	logger  = zap.NewNop()
)

// errUsage marks errors caused by bad invocations rather than bad
// inputs, so run can map them to the usage exit code.
var errUsage = errors.New("usage")

func main() {
	os.Exit(run())
}

func run() int {
	root := newRootCmd()
	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if errors.Is(err, errUsage) {
			return ExitUsage
		}
		return ExitError
	}
	return ExitSuccess
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "vcfcompare",
		Short: "Parse, validate and compare VCF call sets",
		Long: `vcfcompare reads VCF files with full header-schema awareness,
including bracket breakend notation for structural variants, validates
records against the declarations in their own headers, and compares
two call sets per variant class.`,
		Version:       fmt.Sprintf("%s (%s) built %s", version, commit, date),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := initConfig(); err != nil {
				return err
			}
			l, err := buildLogger(verbose)
			if err != nil {
				return fmt.Errorf("build logger: %w", err)
			}
			logger = l
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			logger.Sync()
		},
	}

	root.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default ~/.vcfcompare.yaml)")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	root.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return fmt.Errorf("%w: %v", errUsage, err)
	})

	root.AddCommand(
		newValidateCmd(),
		newCompareCmd(),
		newLoadCmd(),
		newQueryCmd(),
		newConfigCmd(),
	)

	return root
}

// exactArgs is cobra.ExactArgs with the error marked as a usage error.
func exactArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) != n {
			return fmt.Errorf("%w: %s expects %d argument(s), got %d", errUsage, cmd.Name(), n, len(args))
		}
		return nil
	}
}

func initConfig() error {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else if home, err := os.UserHomeDir(); err == nil {
		viper.AddConfigPath(home)
		viper.SetConfigType("yaml")
		viper.SetConfigName(".vcfcompare")
	}

	viper.SetDefault("log.level", "info")
	viper.SetDefault("compare.indel_window", compare.DefaultIndelWindow)
	viper.SetDefault("compare.sv_window", compare.DefaultSVWindow)
	viper.SetDefault("compare.weight_intervals", false)

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile == "" && errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}
	return nil
}

// buildLogger builds the process logger writing to stderr. The default
// level comes from log.level in the config file; --verbose switches to
// the console encoder at debug level.
func buildLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		cfg := zap.NewDevelopmentConfig()
		cfg.DisableStacktrace = true
		return cfg.Build()
	}
	level, err := zap.ParseAtomicLevel(viper.GetString("log.level"))
	if err != nil {
		level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = level
	cfg.DisableStacktrace = true
	return cfg.Build()
}

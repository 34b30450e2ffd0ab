// Package main implements the Quanta compiler binary.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/tebeka/atexit"

	"github.com/GriffinCanCode/quanta-compiler/pkg/config"
	"github.com/GriffinCanCode/quanta-compiler/pkg/driver"
	"github.com/GriffinCanCode/quanta-compiler/pkg/logger"
)

const version = "0.1.0"

var (
	flagDebug      bool
	flagConfig     string
	flagOutput     string
	flagEntry      string
	flagLevel      int
	flagStopAfter  string
	flagEmitIR     bool
	flagEmitOptIR  bool
	flagEmitBC     bool
	flagEmitOptBC  bool
	flagEnable     []string
	flagDisable    []string
	flagStripDebug bool
	flagStats      bool
	flagWerror     bool
	flagJobs       int
)

var rootCmd = &cobra.Command{
	Use:   "quanta",
	Short: "Quanta quantum circuit compiler",
	Long:  `Compile Quanta circuit descriptions into optimized executable bytecode.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if err := logger.Init(logger.Config{Debug: flagDebug}); err != nil {
			fmt.Fprintf(os.Stderr, "error initializing logger: %v\n", err)
			atexit.Exit(1)
		}
		atexit.Register(logger.Sync)
	},
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

var buildCmd = &cobra.Command{
	Use:   "build <file.qn> [more files...]",
	Short: "Compile circuit source files",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		opts, err := buildOptions(cmd)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			atexit.Exit(1)
		}

		units := make([]driver.Options, len(args))
		for i, input := range args {
			unit := opts
			unit.Input = input
			if len(args) > 1 {
				// Per-file outputs only; an explicit -o applies to single builds
				unit.Output = ""
			}
			units[i] = unit
		}

		results, err := driver.BatchCompile(context.Background(), units, flagJobs)
		for _, res := range results {
			if res != nil && flagStats {
				res.Report(os.Stdout)
			}
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			atexit.Exit(1)
		}
		atexit.Exit(0)
	},
}

var optimizeCmd = &cobra.Command{
	Use:   "optimize <file.qbc>",
	Short: "Re-optimize a previously generated bytecode file",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		opts, err := buildOptions(cmd)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			atexit.Exit(1)
		}
		opts.Input = args[0]

		res, err := driver.OptimizeBytecodeFile(context.Background(), opts)
		if res != nil && flagStats {
			res.Report(os.Stdout)
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			atexit.Exit(1)
		}
		atexit.Exit(0)
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show compiler version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("quanta compiler version %s\n", version)
	},
}

// buildOptions merges the config file (if given) with command-line flags;
// a flag that was explicitly set wins over the file value.
func buildOptions(cmd *cobra.Command) (driver.Options, error) {
	cfg := config.Config{}.WithDefaults()
	if flagConfig != "" {
		loaded, err := config.Load(flagConfig)
		if err != nil {
			return driver.Options{}, err
		}
		cfg = loaded
		if cfg.LogFile != "" {
			if err := logger.Init(logger.Config{Debug: flagDebug, LogFile: cfg.LogFile}); err != nil {
				return driver.Options{}, err
			}
		}
	}

	opts := driver.Options{
		Output:                flagOutput,
		Entry:                 flagEntry,
		Level:                 cfg.Level(),
		EmitIR:                cfg.Emit.IR,
		EmitOptimizedIR:       cfg.Emit.OptimizedIR,
		EmitBytecode:          cfg.Emit.Bytecode,
		EmitOptimizedBytecode: cfg.Emit.OptimizedBytecode,
		EnablePasses:          cfg.Passes.Enable,
		DisablePasses:         cfg.Passes.Disable,
		StripDebug:            cfg.StripDebugInfo,
		WarningsAsErrors:      cfg.WarningsAsErrors,
	}

	flags := cmd.Flags()
	if flags.Changed("opt-level") {
		opts.Level = flagLevel
	}
	if opts.Level < 0 || opts.Level > 3 {
		return driver.Options{}, fmt.Errorf("optimization level %d out of range 0-3", opts.Level)
	}
	if flags.Changed("emit-ir") {
		opts.EmitIR = flagEmitIR
	}
	if flags.Changed("emit-opt-ir") {
		opts.EmitOptimizedIR = flagEmitOptIR
	}
	if flags.Changed("emit-bytecode") {
		opts.EmitBytecode = flagEmitBC
	}
	if flags.Changed("emit-opt-bytecode") {
		opts.EmitOptimizedBytecode = flagEmitOptBC
	}
	if flags.Changed("enable-pass") {
		opts.EnablePasses = flagEnable
	}
	if flags.Changed("disable-pass") {
		opts.DisablePasses = flagDisable
	}
	if flags.Changed("strip-debug") {
		opts.StripDebug = flagStripDebug
	}
	if flags.Changed("werror") {
		opts.WarningsAsErrors = flagWerror
	}

	if flagStopAfter != "" {
		stage, ok := driver.StageFromName(flagStopAfter)
		if !ok {
			return driver.Options{}, fmt.Errorf("unknown stage %q (stages: %v)",
				flagStopAfter, driver.StageNames())
		}
		opts.StopAfter = stage
	}
	return opts, nil
}

func addPipelineFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.IntVarP(&flagLevel, "opt-level", "O", 2, "optimization level (0-3)")
	f.StringVarP(&flagOutput, "output", "o", "", "output file path")
	f.StringVar(&flagEntry, "entry", "", "entry circuit name")
	f.StringVar(&flagStopAfter, "stop-after", "", "stop the pipeline after the named stage")
	f.BoolVar(&flagEmitIR, "emit-ir", false, "write the IR text dump")
	f.BoolVar(&flagEmitOptIR, "emit-opt-ir", false, "write the optimized IR text dump")
	f.BoolVar(&flagEmitBC, "emit-bytecode", false, "write the raw bytecode file")
	f.BoolVar(&flagEmitOptBC, "emit-opt-bytecode", false, "write the optimized bytecode file")
	f.StringArrayVar(&flagEnable, "enable-pass", nil, "explicitly enable an optimization pass")
	f.StringArrayVar(&flagDisable, "disable-pass", nil, "explicitly disable an optimization pass")
	f.BoolVar(&flagStripDebug, "strip-debug", false, "strip debug info from generated bytecode")
	f.BoolVar(&flagStats, "stats", false, "print optimization statistics and stage timings")
	f.BoolVar(&flagWerror, "werror", false, "treat warnings as errors")
}

func main() {
	rootCmd.PersistentFlags().BoolVar(&flagDebug, "debug", false, "verbose debug logging")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "compiler config file (yaml)")

	addPipelineFlags(buildCmd)
	buildCmd.Flags().IntVarP(&flagJobs, "jobs", "j", 1, "parallel compilation jobs")
	addPipelineFlags(optimizeCmd)

	rootCmd.AddCommand(buildCmd)
	rootCmd.AddCommand(optimizeCmd)
	rootCmd.AddCommand(versionCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		atexit.Exit(1)
	}
	atexit.Exit(0)
}

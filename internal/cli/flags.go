package cli

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/stackprint/pkg/analyzer"
)

// analyzeFlags are the source selection flags shared by analyze and
// fingerprint. Values only override the config when set explicitly.
type analyzeFlags struct {
	extensions []string
	exclude    []string
	maxFiles   int
	workers    int
	timeout    time.Duration
}

func (f *analyzeFlags) register(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.StringSliceVar(&f.extensions, "ext", nil, "file extensions to analyze (e.g. js,tsx,py)")
	fl.StringSliceVar(&f.exclude, "exclude", nil, "directory names to skip")
	fl.IntVar(&f.maxFiles, "max-files", 0, "maximum number of files to analyze (0 = unlimited)")
	fl.IntVar(&f.workers, "workers", 0, "parallel parsers (default: number of CPUs)")
	fl.DurationVar(&f.timeout, "timeout", 0, "abort analysis after this duration (0 = no limit)")
}

// apply overlays explicitly set flags on base.
func (f *analyzeFlags) apply(cmd *cobra.Command, base analyzer.Config) analyzer.Config {
	fl := cmd.Flags()
	if fl.Changed("ext") {
		base.Extensions = f.extensions
	}
	if fl.Changed("exclude") {
		base.ExcludeDirs = f.exclude
	}
	if fl.Changed("max-files") {
		base.MaxFiles = f.maxFiles
	}
	if fl.Changed("workers") {
		base.Workers = f.workers
	}
	return base
}

// context bounds ctx by the --timeout flag when one was given.
func (f *analyzeFlags) context(ctx context.Context) (context.Context, context.CancelFunc) {
	if f.timeout > 0 {
		return context.WithTimeout(ctx, f.timeout)
	}
	return context.WithCancel(ctx)
}

package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/stackprint/pkg/fingerprint"
)

// fingerprintCommand creates the fingerprint command.
func (c *CLI) fingerprintCommand() *cobra.Command {
	var (
		flags   analyzeFlags
		output  string
		format  string
		noCache bool
		refresh bool
	)

	cmd := &cobra.Command{
		Use:   "fingerprint [dir]",
		Short: "Write the combined manifest and pattern fingerprint",
		Long: `Fingerprint a project: parse its manifest, analyze its sources and write
both as one JSON or YAML document.

Results are cached by manifest content, source file metadata and analysis
settings. Use --refresh to recompute, or --no-cache to skip the cache.`,
		Example: `  stackprint fingerprint
  stackprint fingerprint ./web -o web.json
  stackprint fingerprint . --format yaml --refresh`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != fingerprint.FormatJSON && format != fingerprint.FormatYAML {
				return fmt.Errorf("unsupported format %q (want json or yaml)", format)
			}
			dir := projectDir(args)
			cfg := flags.apply(cmd, c.config().Analyze)

			ctx, cancel := flags.context(cmd.Context())
			defer cancel()

			backend := ""
			if noCache {
				backend = "none"
			}
			runner, err := c.newRunner(ctx, backend)
			if err != nil {
				return err
			}
			defer runner.Close()

			prog := newProgress(loggerFromContext(ctx))
			spin := newSpinner(ctx, fmt.Sprintf("Fingerprinting %s...", dir))
			spin.Start()
			fp, cached, err := runner.Fingerprint(ctx, dir, fingerprint.Options{Config: cfg, Refresh: refresh})
			spin.Stop()
			if err != nil {
				return err
			}
			prog.done("Fingerprinted " + fp.Root)

			if output == "" || output == "-" {
				return fingerprint.Encode(os.Stdout, fp, format)
			}
			if err := writeFile(output, func(w io.Writer) error {
				return fingerprint.Encode(w, fp, format)
			}); err != nil {
				return err
			}
			printSuccess("Wrote fingerprint")
			printFile(output)
			printStats(fp.Patterns.FilesAnalyzed, len(fp.Manifest.Dependencies), cached)
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().StringVarP(&format, "format", "f", fingerprint.FormatJSON, "output format: json or yaml")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "recompute and overwrite the cached result")
	return cmd
}

// writeFile creates path and hands it to write, closing it afterwards.
func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

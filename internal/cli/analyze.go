package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/stackprint/pkg/analyzer"
)

// analyzeCommand creates the analyze command.
func (c *CLI) analyzeCommand() *cobra.Command {
	var flags analyzeFlags

	cmd := &cobra.Command{
		Use:   "analyze [dir]",
		Short: "Summarize frameworks, state management and coding style",
		Long: `Parse the JavaScript, TypeScript and Python sources of a project and
summarize the patterns they share.

Files that fail to parse are skipped. Vendored and generated directories
(node_modules, dist, .git, ...) are excluded by default.`,
		Example: `  stackprint analyze
  stackprint analyze ./web --ext ts,tsx --max-files 500
  stackprint analyze . --exclude node_modules,vendor --timeout 30s`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := projectDir(args)
			cfg := flags.apply(cmd, c.config().Analyze)

			ctx, cancel := flags.context(cmd.Context())
			defer cancel()
			logger := loggerFromContext(ctx)

			a := analyzer.New(nil, logger)
			spin := newSpinner(ctx, fmt.Sprintf("Analyzing %s...", dir))
			spin.Start()
			prog := newProgress(logger)
			p, err := a.Analyze(ctx, dir, cfg)
			spin.Stop()
			if err != nil {
				return err
			}
			prog.done(fmt.Sprintf("Analyzed %d files", p.FilesAnalyzed))

			if p.FilesAnalyzed == 0 {
				printWarning("No source files matched in %s", dir)
			}
			writePatterns(os.Stdout, p)
			return nil
		},
	}

	flags.register(cmd)
	return cmd
}

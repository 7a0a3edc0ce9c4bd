package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pagefuse/pagefuse/archive"
	"github.com/pagefuse/pagefuse/config"
	"github.com/pagefuse/pagefuse/inline"
)

func newInlineCmd(flags *rootFlags) *cobra.Command {
	var (
		zipPath string
		rawURL  string
		output  string
	)

	cmd := &cobra.Command{
		Use:   "inline",
		Short: "Combine one document and write the result to a file",
		Long: `Inline runs one combine operation without the HTTP service:
either --zip pointing at a ZIP bundle, or --url pointing at a live page.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if (zipPath == "") == (rawURL == "") {
				return errors.New("exactly one of --zip or --url is required")
			}

			cfg, err := loadConfig(flags)
			if err != nil {
				return err
			}
			logger := newLogger(cfg)

			combiner := inline.NewCombiner(inline.Options{
				FetchTimeout:      cfg.FetchTimeout(),
				UserAgent:         cfg.Fetch.UserAgent,
				MaxAssetSize:      cfg.Fetch.MaxAssetSize,
				MaxConcurrent:     cfg.Fetch.MaxConcurrent,
				BlockPrivateHosts: cfg.Fetch.BlockPrivateHosts,
				Logger:            logger,
			})

			var result *inline.Result
			if zipPath != "" {
				result, err = combineZipFile(combiner, cfg, zipPath)
			} else {
				result, err = combiner.CombineURL(cmd.Context(), rawURL)
			}
			if err != nil {
				return err
			}

			if err := os.WriteFile(output, result.HTML, 0o644); err != nil {
				return fmt.Errorf("write output: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%d assets inlined, %d skipped)\n",
				output, result.Inlined, result.Skipped)
			return nil
		},
	}

	cmd.Flags().StringVar(&zipPath, "zip", "", "ZIP bundle to combine")
	cmd.Flags().StringVar(&rawURL, "url", "", "URL to combine")
	cmd.Flags().StringVarP(&output, "output", "o", "combined.html", "output file")

	return cmd
}

// combineZipFile extracts the archive into a scratch directory and runs
// the bundle pipeline over it. The scratch directory is always removed.
func combineZipFile(combiner *inline.Combiner, cfg *config.Config, zipPath string) (*inline.Result, error) {
	workDir, err := os.MkdirTemp("", "pagefuse-*")
	if err != nil {
		return nil, fmt.Errorf("create work directory: %w", err)
	}
	defer os.RemoveAll(workDir)

	if err := archive.ExtractZip(zipPath, workDir, cfg.Server.MaxExtractedSize); err != nil {
		return nil, err
	}
	return combiner.CombineBundle(os.DirFS(workDir))
}

package main

import (
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/localpulse/gridscan/internal/report"
	"github.com/localpulse/gridscan/internal/scan"
)

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Run grid scans from a YAML definition file",
	Long: `Run every scan defined in a YAML batch file sequentially. A scan
that fails is logged and skipped; the rest of the batch continues. Each
result is written as JSON into the output directory.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		path, _ := cmd.Flags().GetString("file")
		outDir, _ := cmd.Flags().GetString("out-dir")

		reqs, err := scan.LoadBatchFile(path)
		if err != nil {
			return err
		}

		if err := os.MkdirAll(outDir, 0o755); err != nil {
			return eris.Wrapf(err, "batch: create output dir %s", outDir)
		}

		engine := newEngine()
		log := zap.L().With(zap.String("command", "batch"))
		log.Info("starting batch", zap.Int("scans", len(reqs)))

		var failed int
		for i, req := range reqs {
			if ctx.Err() != nil {
				log.Warn("batch canceled", zap.Int("remaining", len(reqs)-i))
				break
			}

			result, err := engine.Run(ctx, req, nil)
			if err != nil {
				log.Error("scan failed",
					zap.String("keyword", req.Keyword),
					zap.String("domain", req.TargetDomain),
					zap.Error(err),
				)
				failed++
				continue
			}

			outPath := filepath.Join(outDir, batchFileName(req, result.ID))
			f, err := os.Create(outPath)
			if err != nil {
				log.Error("write result failed", zap.String("path", outPath), zap.Error(err))
				failed++
				continue
			}
			writeErr := report.WriteJSON(f, result)
			_ = f.Close()
			if writeErr != nil {
				log.Error("write result failed", zap.String("path", outPath), zap.Error(writeErr))
				failed++
				continue
			}

			log.Info("scan complete",
				zap.String("keyword", req.Keyword),
				zap.String("domain", req.TargetDomain),
				zap.Float64("visibility_score", result.Aggregate.VisibilityScore),
				zap.String("path", outPath),
			)
		}

		log.Info("batch complete", zap.Int("total", len(reqs)), zap.Int("failed", failed))
		return nil
	},
}

// batchFileName builds a stable, filesystem-safe name for one scan's output.
func batchFileName(req scan.Request, id string) string {
	slug := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return r
		case r >= 'A' && r <= 'Z':
			return r + ('a' - 'A')
		default:
			return '-'
		}
	}, req.Keyword)
	if len(slug) > 40 {
		slug = slug[:40]
	}
	return slug + "-" + id[:8] + ".json"
}

func init() {
	batchCmd.Flags().String("file", "scans.yaml", "YAML batch definition file")
	batchCmd.Flags().String("out-dir", "results", "directory for per-scan JSON results")

	rootCmd.AddCommand(batchCmd)
}

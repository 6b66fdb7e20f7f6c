package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/localpulse/gridscan/internal/model"
	"github.com/localpulse/gridscan/internal/report"
	"github.com/localpulse/gridscan/internal/scan"
)

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Run a single grid scan",
	Long: `Run one grid scan for a keyword and target domain around a center
coordinate. Results go to stdout as JSON unless --output selects another
format; --out writes to a file instead.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		req, err := scanRequestFromFlags(cmd)
		if err != nil {
			return err
		}

		engine := newEngine()

		log := zap.L().With(zap.String("command", "scan"))
		result, err := engine.Run(ctx, req, func(completed, total int, point model.GridPoint) {
			log.Debug("point complete",
				zap.Int("completed", completed),
				zap.Int("total", total),
				zap.Int("row", point.Row),
				zap.Int("col", point.Col),
			)
		})
		if err != nil {
			return eris.Wrap(err, "scan")
		}

		return writeResult(cmd, result)
	},
}

func scanRequestFromFlags(cmd *cobra.Command) (scan.Request, error) {
	keyword, _ := cmd.Flags().GetString("keyword")
	domain, _ := cmd.Flags().GetString("domain")
	lat, _ := cmd.Flags().GetFloat64("lat")
	lng, _ := cmd.Flags().GetFloat64("lng")
	gridSize, _ := cmd.Flags().GetInt("grid-size")
	radius, _ := cmd.Flags().GetFloat64("radius")

	device := model.Device(cfg.Scan.Device)
	if device == "" {
		device = model.DeviceDesktop
	}

	return scan.Request{
		Keyword:      keyword,
		TargetDomain: domain,
		CenterLat:    lat,
		CenterLng:    lng,
		Config: model.GridConfig{
			GridSize:    gridSize,
			RadiusMiles: radius,
		},
		NumResults: cfg.Scan.NumResults,
		Device:     device,
	}, nil
}

func writeResult(cmd *cobra.Command, result *model.ScanResult) error {
	format, _ := cmd.Flags().GetString("output")
	outPath, _ := cmd.Flags().GetString("out")

	switch format {
	case "json", "":
		if outPath == "" {
			return report.WriteJSON(os.Stdout, result)
		}
		f, err := os.Create(outPath)
		if err != nil {
			return eris.Wrapf(err, "scan: create %s", outPath)
		}
		defer f.Close() //nolint:errcheck
		return report.WriteJSON(f, result)

	case "geojson":
		data, err := report.GeoJSON(result)
		if err != nil {
			return err
		}
		if outPath == "" {
			_, err = os.Stdout.Write(append(data, '\n'))
			return err
		}
		return os.WriteFile(outPath, data, 0o644)

	case "xlsx":
		if outPath == "" {
			outPath = "gridscan-" + result.ID + ".xlsx"
		}
		if err := report.WriteXLSX(outPath, result); err != nil {
			return err
		}
		zap.L().Info("wrote workbook", zap.String("path", outPath))
		return nil

	default:
		return eris.Errorf("scan: unknown output format %q (valid: json, geojson, xlsx)", format)
	}
}

func init() {
	scanCmd.Flags().String("keyword", "", "search keyword (required)")
	scanCmd.Flags().String("domain", "", "target business domain (required)")
	scanCmd.Flags().Float64("lat", 0, "center latitude (required)")
	scanCmd.Flags().Float64("lng", 0, "center longitude (required)")
	scanCmd.Flags().Int("grid-size", 5, "grid dimension: 3, 5, or 7")
	scanCmd.Flags().Float64("radius", 5, "scan radius in miles: 1, 3, 5, 10, 15, 25")
	scanCmd.Flags().String("output", "json", "output format: json, geojson, xlsx")
	scanCmd.Flags().String("out", "", "write output to file instead of stdout")

	_ = scanCmd.MarkFlagRequired("keyword")
	_ = scanCmd.MarkFlagRequired("domain")
	_ = scanCmd.MarkFlagRequired("lat")
	_ = scanCmd.MarkFlagRequired("lng")

	rootCmd.AddCommand(scanCmd)
}

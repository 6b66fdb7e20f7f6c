package report

import (
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/localpulse/gridscan/internal/model"
	"github.com/localpulse/gridscan/internal/rank"
)

// WriteXLSX writes a two-sheet workbook: a scan summary and the per-point
// rank breakdown.
func WriteXLSX(path string, result *model.ScanResult) error {
	file := xlsx.NewFile()

	if err := addSummarySheet(file, result); err != nil {
		return err
	}
	if err := addPointsSheet(file, result); err != nil {
		return err
	}

	if err := file.Save(path); err != nil {
		return eris.Wrapf(err, "report: save xlsx %s", path)
	}
	return nil
}

func addSummarySheet(file *xlsx.File, result *model.ScanResult) error {
	sheet, err := file.AddSheet("Summary")
	if err != nil {
		return eris.Wrap(err, "report: add summary sheet")
	}

	agg := result.Aggregate
	rows := [][2]string{
		{"Scan ID", result.ID},
		{"Keyword", result.Keyword},
		{"Target Domain", result.TargetDomain},
		{"Grid", fmt.Sprintf("%dx%d @ %g mi", result.Config.GridSize, result.Config.GridSize, result.Config.RadiusMiles)},
		{"Center", fmt.Sprintf("%.6f,%.6f", result.CenterLat, result.CenterLng)},
		{"Visibility Score", fmt.Sprintf("%.1f", agg.VisibilityScore)},
		{"Avg Rank", formatOptFloat(agg.AvgRank)},
		{"Best Rank", formatOptInt(agg.BestRank)},
		{"Worst Rank", formatOptInt(agg.WorstRank)},
		{"Points Ranking", fmt.Sprintf("%d / %d", agg.PointsRanking, agg.TotalPoints)},
		{"Points Top 3", fmt.Sprintf("%d", agg.PointsTop3)},
		{"Points Top 10", fmt.Sprintf("%d", agg.PointsTop10)},
		{"Points Top 20", fmt.Sprintf("%d", agg.PointsTop20)},
		{"Points Not Found", fmt.Sprintf("%d", agg.PointsNotFound)},
		{"Points In Local Pack", fmt.Sprintf("%d", agg.PointsInLocalPack)},
		{"Avg Local Pack Position", formatOptFloat(agg.AvgLocalPackPosition)},
		{"Failed Fetches", fmt.Sprintf("%d", result.Failed)},
	}

	for _, r := range rows {
		row := sheet.AddRow()
		row.AddCell().Value = r[0]
		row.AddCell().Value = r[1]
	}
	return nil
}

func addPointsSheet(file *xlsx.File, result *model.ScanResult) error {
	sheet, err := file.AddSheet("Points")
	if err != nil {
		return eris.Wrap(err, "report: add points sheet")
	}

	header := sheet.AddRow()
	for _, h := range []string{"Row", "Col", "Lat", "Lng", "Distance (mi)", "Organic Rank", "Tier", "Visibility", "In Local Pack", "Local Pack Rank", "Top Competitor"} {
		header.AddCell().Value = h
	}

	for i, p := range result.Points {
		row := sheet.AddRow()
		row.AddCell().SetInt(p.Row)
		row.AddCell().SetInt(p.Col)
		row.AddCell().SetFloat(p.Lat)
		row.AddCell().SetFloat(p.Lng)
		row.AddCell().SetFloat(p.DistanceFromCenter)

		if i >= len(result.Ranks) {
			continue
		}
		rr := result.Ranks[i]
		row.AddCell().Value = formatOptInt(rr.OrganicRank)
		row.AddCell().Value = rank.GetTier(rr.OrganicRank)
		row.AddCell().SetInt(rank.PointVisibilityScore(rr.OrganicRank))
		if rr.InLocalPack {
			row.AddCell().Value = "yes"
		} else {
			row.AddCell().Value = "no"
		}
		row.AddCell().Value = formatOptInt(rr.LocalPackRank)
		if len(rr.TopCompetitors) > 0 {
			row.AddCell().Value = rr.TopCompetitors[0].Domain
		} else {
			row.AddCell().Value = ""
		}
	}
	return nil
}

func formatOptInt(v *int) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%d", *v)
}

func formatOptFloat(v *float64) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%.1f", *v)
}

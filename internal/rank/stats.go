package rank

import "github.com/localpulse/gridscan/internal/model"

// CalculateAggregateStats reduces all per-point results for a scan into
// summary visibility statistics. The reduction is order-independent, so the
// batch executor owes no completion-ordering contract to this function.
//
// Average, best, and worst rank are computed only over points with an
// organic rank. The visibility score normalizes the sum of per-point scores
// against the theoretical maximum (every point ranked #1), so scores are
// comparable across scans with different grid sizes.
func CalculateAggregateStats(results []model.RankResult, totalPoints int) model.AggregateStats {
	stats := model.AggregateStats{
		TotalPoints: totalPoints,
	}
	if totalPoints <= 0 {
		return stats
	}

	var (
		rankSum  int
		scoreSum int
		lpSum    int
		lpCount  int
		best     *int
		worst    *int
	)

	for _, r := range results {
		scoreSum += PointVisibilityScore(r.OrganicRank)

		if r.OrganicRank != nil {
			rank := *r.OrganicRank
			stats.PointsRanking++
			rankSum += rank

			if best == nil || rank < *best {
				v := rank
				best = &v
			}
			if worst == nil || rank > *worst {
				v := rank
				worst = &v
			}
			if rank <= 3 {
				stats.PointsTop3++
			}
			if rank <= 10 {
				stats.PointsTop10++
			}
			if rank <= 20 {
				stats.PointsTop20++
			}
		}

		if r.InLocalPack {
			stats.PointsInLocalPack++
			if r.LocalPackRank != nil {
				lpSum += *r.LocalPackRank
				lpCount++
			}
		}
	}

	stats.PointsNotFound = totalPoints - stats.PointsRanking
	stats.BestRank = best
	stats.WorstRank = worst

	if stats.PointsRanking > 0 {
		avg := float64(rankSum) / float64(stats.PointsRanking)
		stats.AvgRank = &avg
	}
	if lpCount > 0 {
		avg := float64(lpSum) / float64(lpCount)
		stats.AvgLocalPackPosition = &avg
	}

	stats.VisibilityScore = float64(scoreSum) / float64(totalPoints*100) * 100

	return stats
}

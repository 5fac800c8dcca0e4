package analyzer

import (
	"time"

	"github.com/cleanfeed/sifter/internal/model"
)

// BatchStatistics summarizes a batch of analysis results.
type BatchStatistics struct {
	CategoryDistribution   map[model.Category]int        `json:"category_distribution"`
	ConfidenceDistribution map[model.ConfidenceLevel]int `json:"confidence_distribution"`
	Total                  int                           `json:"total"`
	PPLDetected            int                           `json:"ppl_detected"`
	DetectionRate          float64                       `json:"detection_rate"`
	AverageProbability     float64                       `json:"average_probability"`
	AverageDuration        time.Duration                 `json:"average_duration"`
}

// ComputeStatistics aggregates batch results. An empty batch yields the zero
// statistics with an initialized distribution map.
func ComputeStatistics(results []model.AnalysisResult) BatchStatistics {
	stats := BatchStatistics{
		Total:                  len(results),
		CategoryDistribution:   make(map[model.Category]int),
		ConfidenceDistribution: make(map[model.ConfidenceLevel]int),
	}
	if len(results) == 0 {
		return stats
	}

	var probabilitySum float64
	var durationSum time.Duration
	for _, r := range results {
		if r.IsPPL {
			stats.PPLDetected++
		}
		probabilitySum += r.PPLProbability
		durationSum += r.Duration
		stats.CategoryDistribution[r.Classification.Category]++
		stats.ConfidenceDistribution[r.ConfidenceLevel]++
	}

	stats.DetectionRate = float64(stats.PPLDetected) / float64(stats.Total)
	stats.AverageProbability = probabilitySum / float64(stats.Total)
	stats.AverageDuration = durationSum / time.Duration(stats.Total)

	return stats
}

package analyzer

import (
	"sort"

	"github.com/nao1215/seoscan/internal/model"
)

// maxScore is the score of a page without WARNING or worse findings.
const maxScore = 100

// ComputeHealth derives the health score from findings.
//
// Every CRITICAL finding costs 10 points, every ERROR 5 and every WARNING 2;
// GOOD and INFO findings are free. The score never drops below zero.
func ComputeHealth(findings []model.Finding) model.HealthScore {
	h := model.HealthScore{Score: maxScore}
	for _, f := range findings {
		h.Score -= f.Severity.Penalty()
		switch f.Severity {
		case model.SeverityCritical:
			h.CriticalCount++
		case model.SeverityError:
			h.ErrorCount++
		case model.SeverityWarning:
			h.WarningCount++
		}
	}
	h.Score = max(0, h.Score)
	h.TotalIssues = h.CriticalCount + h.ErrorCount + h.WarningCount
	return h
}

// CollectRecommendations returns the unique, non-empty recommendations of
// findings at WARNING or above, sorted.
func CollectRecommendations(findings []model.Finding) []string {
	seen := make(map[string]bool)
	out := make([]string, 0)
	for _, f := range findings {
		if f.Recommendation == "" || !f.Severity.IsActionable() || seen[f.Recommendation] {
			continue
		}
		seen[f.Recommendation] = true
		out = append(out, f.Recommendation)
	}
	sort.Strings(out)
	return out
}

// Package risk converts per-control compliance verdicts into a weighted
// risk score, category breakdown, prioritized recommendations and an audit
// readiness rating.
package risk

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/user/shieldagent/pkg/analyzer"
)

// Level is the risk tier derived from the weighted score
type Level string

const (
	LevelCritical Level = "critical"
	LevelHigh     Level = "high"
	LevelMedium   Level = "medium"
	LevelLow      Level = "low"
	LevelMinimal  Level = "minimal"
)

// Readiness is the coarse audit-readiness rating
type Readiness string

const (
	ReadinessReady       Readiness = "Ready"
	ReadinessAlmostReady Readiness = "Almost Ready"
	ReadinessNeedsWork   Readiness = "Needs Work"
	ReadinessNotReady    Readiness = "Not Ready"
)

// Gap is a deficiency identified during scoring. Unlike analyzer gaps these
// carry the control title and category for reporting.
type Gap struct {
	ControlID    string            `json:"control_id"`
	ControlTitle string            `json:"control_title"`
	Description  string            `json:"gap_description"`
	Severity     analyzer.Severity `json:"severity"`
	Category     string            `json:"category"`
}

// Score is the complete risk assessment for one batch of control results
type Score struct {
	OverallScore              float64            `json:"overall_score"`
	RiskLevel                 Level              `json:"risk_level"`
	CategoryScores            map[string]float64 `json:"category_scores"`
	CompliancePercentage      float64            `json:"compliance_percentage"`
	GapCount                  int                `json:"gap_count"`
	CriticalGaps              []Gap              `json:"critical_gaps"`
	Recommendations           []string           `json:"recommendations"`
	EstimatedRemediationHours int                `json:"estimated_remediation_hours"`
	AuditReadiness            Readiness          `json:"audit_readiness"`
}

// Trust Service Category weights based on auditor focus areas
var categoryWeights = map[string]float64{
	"Security":             0.35,
	"Availability":         0.20,
	"Processing Integrity": 0.15,
	"Confidentiality":      0.15,
	"Privacy":              0.15,
}

// Subcategories that fold into the Security Trust Service Category
var securitySubcategories = map[string]bool{
	"Control Environment":           true,
	"Communication and Information": true,
	"Risk Assessment":               true,
	"Monitoring Activities":         true,
	"Control Activities":            true,
	"Logical and Physical Access":   true,
	"System Operations":             true,
	"Change Management":             true,
	"Risk Mitigation":               true,
}

// HourClassifier estimates remediation hours for a gap description
type HourClassifier func(description string) int

// hourClasses are checked in order; the first matching keyword class wins
var hourClasses = []struct {
	keywords []string
	hours    int
}{
	{[]string{"policy", "document"}, 8},
	{[]string{"procedure", "process"}, 16},
	{[]string{"implement", "deploy", "configure"}, 40},
	{[]string{"training", "awareness"}, 24},
}

const defaultGapHours = 16

// KeywordHours classifies a gap description by naive case-insensitive
// substring matching. It is the default HourClassifier.
func KeywordHours(description string) int {
	lower := strings.ToLower(description)
	for _, class := range hourClasses {
		for _, kw := range class.keywords {
			if strings.Contains(lower, kw) {
				return class.hours
			}
		}
	}
	return defaultGapHours
}

// Calculator computes risk scores from control results. It holds no mutable
// state; Calculate is a pure function of its input.
type Calculator struct {
	// Hours estimates remediation effort per gap. Swappable so a better
	// classifier can replace the keyword heuristic without touching callers.
	Hours HourClassifier
}

func New() *Calculator {
	return &Calculator{Hours: KeywordHours}
}

// Calculate produces a full risk assessment from per-control results. An
// empty input yields the degenerate critical / Not Ready score.
func (c *Calculator) Calculate(controls []analyzer.ControlResult) Score {
	if len(controls) == 0 {
		return Score{
			OverallScore:         0,
			RiskLevel:            LevelCritical,
			CategoryScores:       map[string]float64{},
			CompliancePercentage: 0,
			CriticalGaps:         []Gap{},
			Recommendations:      []string{"No controls analyzed yet"},
			AuditReadiness:       ReadinessNotReady,
		}
	}

	categoryScores := calculateCategoryScores(controls)
	overall := weightedScore(categoryScores)
	level := riskLevel(overall)

	passing := 0
	for _, ctrl := range controls {
		if ctrl.Status == analyzer.StatusPass {
			passing++
		}
	}
	compliance := float64(passing) / float64(len(controls)) * 100

	gaps := identifyGaps(controls)
	var criticalGaps []Gap
	for _, g := range gaps {
		if g.Severity == analyzer.SeverityCritical {
			criticalGaps = append(criticalGaps, g)
		}
	}

	hours := 0
	classify := c.Hours
	if classify == nil {
		classify = KeywordHours
	}
	for _, g := range gaps {
		hours += classify(g.Description)
	}

	return Score{
		OverallScore:              round1(overall),
		RiskLevel:                 level,
		CategoryScores:            categoryScores,
		CompliancePercentage:      round1(compliance),
		GapCount:                  len(gaps),
		CriticalGaps:              criticalGaps,
		Recommendations:           recommendations(categoryScores, len(criticalGaps), compliance),
		EstimatedRemediationHours: hours,
		AuditReadiness:            auditReadiness(overall, len(criticalGaps), compliance),
	}
}

// controlScore converts a verdict into a 0-100 score. Confidence dampens
// the base toward the midpoint: a low-confidence pass is penalized and a
// low-confidence fail is weighted less severely.
func controlScore(ctrl analyzer.ControlResult) float64 {
	var base float64
	switch ctrl.Status {
	case analyzer.StatusPass:
		base = 100
	case analyzer.StatusNeedsReview:
		base = 50
	default:
		base = 0
	}

	adjusted := base * (0.5 + ctrl.Confidence*0.5)
	return math.Min(100, math.Max(0, adjusted))
}

// mainCategory folds a raw control category label into one of the five top
// level Trust Service Categories. Unrecognized labels default to Security.
func mainCategory(category string) string {
	switch {
	case category == "Security" || securitySubcategories[category]:
		return "Security"
	case category == "Availability":
		return "Availability"
	case strings.Contains(category, "Processing") || strings.Contains(category, "Integrity"):
		return "Processing Integrity"
	case category == "Confidentiality":
		return "Confidentiality"
	case category == "Privacy":
		return "Privacy"
	default:
		return "Security"
	}
}

func calculateCategoryScores(controls []analyzer.ControlResult) map[string]float64 {
	sums := make(map[string]float64)
	counts := make(map[string]int)
	for _, ctrl := range controls {
		cat := mainCategory(ctrl.Category)
		sums[cat] += controlScore(ctrl)
		counts[cat]++
	}

	scores := make(map[string]float64, len(sums))
	for cat, sum := range sums {
		scores[cat] = sum / float64(counts[cat])
	}
	return scores
}

// weightedScore averages category scores using the fixed weights,
// renormalized over only the categories actually present.
func weightedScore(categoryScores map[string]float64) float64 {
	totalWeight := 0.0
	weightedSum := 0.0
	for cat, score := range categoryScores {
		weight, ok := categoryWeights[cat]
		if !ok {
			weight = 0.1
		}
		weightedSum += score * weight
		totalWeight += weight
	}
	if totalWeight == 0 {
		return 0
	}
	return weightedSum / totalWeight
}

// riskLevel maps a score onto the five risk tiers. Boundaries are inclusive
// on the lower bound of each tier.
func riskLevel(score float64) Level {
	switch {
	case score >= 90:
		return LevelMinimal
	case score >= 75:
		return LevelLow
	case score >= 60:
		return LevelMedium
	case score >= 40:
		return LevelHigh
	default:
		return LevelCritical
	}
}

// identifyGaps collects one gap per listed gap string for every control
// with status fail or needs_review. A deficient control that lists no gap
// strings still contributes one generic gap referencing its summary.
func identifyGaps(controls []analyzer.ControlResult) []Gap {
	var gaps []Gap
	for _, ctrl := range controls {
		if ctrl.Status != analyzer.StatusFail && ctrl.Status != analyzer.StatusNeedsReview {
			continue
		}

		severity := analyzer.SeverityMedium
		if ctrl.Status == analyzer.StatusFail {
			severity = analyzer.SeverityCritical
		}

		for _, desc := range ctrl.Gaps {
			gaps = append(gaps, Gap{
				ControlID:    ctrl.ControlID,
				ControlTitle: ctrl.Title,
				Description:  desc,
				Severity:     severity,
				Category:     ctrl.Category,
			})
		}

		if len(ctrl.Gaps) == 0 {
			gaps = append(gaps, Gap{
				ControlID:    ctrl.ControlID,
				ControlTitle: ctrl.Title,
				Description:  fmt.Sprintf("Control needs attention: %s", ctrl.Summary),
				Severity:     severity,
				Category:     ctrl.Category,
			})
		}
	}
	return gaps
}

// recommendations builds the prioritized recommendation list, capped at 7
// entries: up to 3 for the weakest categories, one for critical gaps, then
// 3 canned entries chosen by compliance band.
func recommendations(categoryScores map[string]float64, criticalCount int, compliance float64) []string {
	type catScore struct {
		name  string
		score float64
	}
	sorted := make([]catScore, 0, len(categoryScores))
	for name, score := range categoryScores {
		sorted = append(sorted, catScore{name, score})
	}
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].score != sorted[j].score {
			return sorted[i].score < sorted[j].score
		}
		return sorted[i].name < sorted[j].name
	})

	var recs []string
	for i, cs := range sorted {
		if i >= 3 {
			break
		}
		if cs.score < 70 {
			recs = append(recs, fmt.Sprintf("Priority: Improve %s controls (current score: %.0f%%)", cs.name, cs.score))
		}
	}

	if criticalCount > 0 {
		recs = append(recs, fmt.Sprintf("Address %d critical gaps before audit", criticalCount))
	}

	switch {
	case compliance < 50:
		recs = append(recs,
			"Conduct comprehensive policy review",
			"Implement foundational security controls",
			"Develop employee security training program")
	case compliance < 75:
		recs = append(recs,
			"Document existing procedures formally",
			"Implement continuous monitoring",
			"Establish regular access reviews")
	default:
		recs = append(recs,
			"Maintain current compliance posture",
			"Implement metrics and KPIs tracking",
			"Continue security awareness training")
	}

	if len(recs) > 7 {
		recs = recs[:7]
	}
	return recs
}

// auditReadiness rates overall readiness; bands are checked in order and
// the first matching band wins.
func auditReadiness(score float64, criticalCount int, compliance float64) Readiness {
	switch {
	case score >= 85 && criticalCount == 0 && compliance >= 90:
		return ReadinessReady
	case score >= 70 && criticalCount <= 2 && compliance >= 75:
		return ReadinessAlmostReady
	case score >= 50 && compliance >= 50:
		return ReadinessNeedsWork
	default:
		return ReadinessNotReady
	}
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

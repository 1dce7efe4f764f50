package analyzer

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/user/shieldagent/pkg/catalog"
	"github.com/user/shieldagent/pkg/oracle"
)

// maxCorpusChars bounds the combined document text embedded in a single
// oracle prompt. Truncation keeps the beginning of the corpus so results
// stay deterministic.
const maxCorpusChars = 30000

const documentSeparator = "\n\n=== DOCUMENT ===\n\n"

const truncationMarker = "\n\n[Document truncated due to length...]"

// Evaluator checks one control at a time against a document corpus by
// querying the classification oracle.
type Evaluator struct {
	provider oracle.Provider
	log      *zap.Logger
}

func NewEvaluator(provider oracle.Provider, log *zap.Logger) *Evaluator {
	if log == nil {
		log = zap.NewNop()
	}
	return &Evaluator{provider: provider, log: log}
}

// Evaluate analyzes the document texts against a single control. It never
// fails: oracle errors become an error-status verdict and unparsable
// responses become a needs_review verdict, so one bad control cannot abort
// a batch.
func (e *Evaluator) Evaluate(ctx context.Context, control catalog.Control, documentTexts []string) Verdict {
	corpus := strings.Join(documentTexts, documentSeparator)
	if len(corpus) > maxCorpusChars {
		corpus = corpus[:maxCorpusChars] + truncationMarker
	}

	prompt := buildPrompt(control, corpus)

	response, err := e.provider.Generate(ctx, prompt)
	if err != nil {
		e.log.Warn("oracle call failed",
			zap.String("control_id", control.ID),
			zap.Error(err))
		return Verdict{
			Status:     StatusError,
			Confidence: 0.0,
			Summary:    fmt.Sprintf("Error during analysis: %v", err),
			Gaps:       []string{"Analysis could not be completed"},
			Raw:        err.Error(),
		}
	}

	verdict := parseVerdict(strings.TrimSpace(response))
	verdict.Raw = response
	return verdict
}

func buildPrompt(control catalog.Control, corpus string) string {
	return fmt.Sprintf(`You are a SOC 2 compliance expert analyzing documents for evidence of security controls.

CONTROL BEING EVALUATED:
- Control ID: %s
- Category: %s
- Title: %s
- Description: %s

ANALYSIS INSTRUCTIONS:
%s

DOCUMENTS TO ANALYZE:
%s

IMPORTANT: Respond ONLY with valid JSON in this exact format:
{
    "status": "pass" | "fail" | "needs_review",
    "confidence": 0.0 to 1.0,
    "summary": "Brief explanation of your findings",
    "evidence_quote": "Direct quote from document if found, or null",
    "gaps": ["List of identified gaps or missing elements"]
}`, control.ID, control.Category, control.Title, control.Description,
		control.CheckInstructions, corpus)
}

var (
	fencedJSONRe   = regexp.MustCompile("(?s)```(?:json)?\\s*\\n?(.*?)\\n?```")
	embeddedJSONRe = regexp.MustCompile(`(?s)\{.*\}`)
)

// parseVerdict extracts a structured verdict from an oracle response,
// tolerating markdown code fences and surrounding prose. If no JSON can be
// recovered it returns the default needs_review verdict.
func parseVerdict(text string) Verdict {
	if m := fencedJSONRe.FindStringSubmatch(text); m != nil {
		text = m[1]
	}

	if v, ok := decodeVerdict(text); ok {
		return v
	}
	if m := embeddedJSONRe.FindString(text); m != "" {
		if v, ok := decodeVerdict(m); ok {
			return v
		}
	}

	return Verdict{
		Status:     StatusNeedsReview,
		Confidence: 0.0,
		Summary:    "Could not parse AI response",
		Gaps:       []string{"Response parsing failed"},
	}
}

func decodeVerdict(text string) (Verdict, bool) {
	var raw struct {
		Status        string   `json:"status"`
		Confidence    float64  `json:"confidence"`
		Summary       string   `json:"summary"`
		EvidenceQuote string   `json:"evidence_quote"`
		Gaps          []string `json:"gaps"`
	}
	if err := json.Unmarshal([]byte(text), &raw); err != nil {
		return Verdict{}, false
	}

	confidence := raw.Confidence
	if confidence < 0 {
		confidence = 0
	}
	if confidence > 1 {
		confidence = 1
	}

	return Verdict{
		Status:        ParseStatus(raw.Status),
		Confidence:    confidence,
		Summary:       raw.Summary,
		EvidenceQuote: raw.EvidenceQuote,
		Gaps:          raw.Gaps,
	}, true
}

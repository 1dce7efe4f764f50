package analyzer

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/shieldagent/pkg/catalog"
)

// fakeProvider lets tests script oracle behavior per call
type fakeProvider struct {
	generate func(ctx context.Context, prompt string) (string, error)
}

func (f *fakeProvider) Generate(ctx context.Context, prompt string) (string, error) {
	return f.generate(ctx, prompt)
}

func (f *fakeProvider) ListModels(ctx context.Context) ([]string, error) {
	return nil, nil
}

func testControl() catalog.Control {
	return catalog.Control{
		ID:                "CC6.1",
		Category:          "Logical and Physical Access",
		Title:             "Logical Access Security",
		Description:       "The entity implements logical access security.",
		CheckInstructions: "Look for authentication mechanisms.",
	}
}

func TestParseVerdictFencedJSON(t *testing.T) {
	v := parseVerdict("```json\n{\"status\":\"fail\",\"confidence\":0.5}\n```")
	assert.Equal(t, StatusFail, v.Status)
	assert.Equal(t, 0.5, v.Confidence)
}

func TestParseVerdictBareFence(t *testing.T) {
	v := parseVerdict("```\n{\"status\": \"pass\", \"confidence\": 0.9, \"summary\": \"ok\"}\n```")
	assert.Equal(t, StatusPass, v.Status)
	assert.Equal(t, "ok", v.Summary)
}

func TestParseVerdictRawJSON(t *testing.T) {
	v := parseVerdict(`{"status":"needs_review","confidence":0.3,"gaps":["No MFA policy"]}`)
	assert.Equal(t, StatusNeedsReview, v.Status)
	assert.Equal(t, []string{"No MFA policy"}, v.Gaps)
}

func TestParseVerdictEmbeddedInProse(t *testing.T) {
	v := parseVerdict(`Here is my analysis: {"status":"pass","confidence":0.8,"summary":"good"} Hope this helps!`)
	assert.Equal(t, StatusPass, v.Status)
	assert.Equal(t, 0.8, v.Confidence)
}

func TestParseVerdictUnparsable(t *testing.T) {
	v := parseVerdict("I could not produce JSON for this request.")
	assert.Equal(t, StatusNeedsReview, v.Status)
	assert.Equal(t, 0.0, v.Confidence)
	assert.Equal(t, "Could not parse AI response", v.Summary)
	assert.Equal(t, []string{"Response parsing failed"}, v.Gaps)
}

func TestParseVerdictNormalizesUnknownStatus(t *testing.T) {
	v := parseVerdict(`{"status":"partial","confidence":0.7}`)
	assert.Equal(t, StatusNeedsReview, v.Status)
}

func TestParseVerdictClampsConfidence(t *testing.T) {
	v := parseVerdict(`{"status":"pass","confidence":1.7}`)
	assert.Equal(t, 1.0, v.Confidence)

	v = parseVerdict(`{"status":"fail","confidence":-0.2}`)
	assert.Equal(t, 0.0, v.Confidence)
}

func TestEvaluateBuildsPrompt(t *testing.T) {
	var captured string
	provider := &fakeProvider{generate: func(ctx context.Context, prompt string) (string, error) {
		captured = prompt
		return `{"status":"pass","confidence":0.9,"summary":"found evidence"}`, nil
	}}

	e := NewEvaluator(provider, nil)
	v := e.Evaluate(context.Background(), testControl(), []string{"doc one", "doc two"})

	require.Equal(t, StatusPass, v.Status)
	assert.Contains(t, captured, "Control ID: CC6.1")
	assert.Contains(t, captured, "Logical Access Security")
	assert.Contains(t, captured, "Look for authentication mechanisms.")
	assert.Contains(t, captured, "doc one\n\n=== DOCUMENT ===\n\ndoc two")
	assert.Contains(t, captured, `"status": "pass" | "fail" | "needs_review"`)
}

func TestEvaluateTruncatesCorpus(t *testing.T) {
	var captured string
	provider := &fakeProvider{generate: func(ctx context.Context, prompt string) (string, error) {
		captured = prompt
		return `{"status":"pass","confidence":1.0}`, nil
	}}

	e := NewEvaluator(provider, nil)
	big := strings.Repeat("a", maxCorpusChars+5000)
	e.Evaluate(context.Background(), testControl(), []string{big})

	assert.Contains(t, captured, truncationMarker)
	// Truncation keeps the beginning and drops the tail
	assert.NotContains(t, captured, strings.Repeat("a", maxCorpusChars+1))
}

func TestEvaluateSmallCorpusNotTruncated(t *testing.T) {
	var captured string
	provider := &fakeProvider{generate: func(ctx context.Context, prompt string) (string, error) {
		captured = prompt
		return `{"status":"pass","confidence":1.0}`, nil
	}}

	e := NewEvaluator(provider, nil)
	e.Evaluate(context.Background(), testControl(), []string{"short document"})

	assert.NotContains(t, captured, truncationMarker)
}

func TestEvaluateOracleFailureBecomesErrorVerdict(t *testing.T) {
	provider := &fakeProvider{generate: func(ctx context.Context, prompt string) (string, error) {
		return "", errors.New("rate limit exceeded")
	}}

	e := NewEvaluator(provider, nil)
	v := e.Evaluate(context.Background(), testControl(), []string{"doc"})

	assert.Equal(t, StatusError, v.Status)
	assert.Equal(t, 0.0, v.Confidence)
	assert.Contains(t, v.Summary, "rate limit exceeded")
	assert.Equal(t, []string{"Analysis could not be completed"}, v.Gaps)
}

func TestParseStatus(t *testing.T) {
	assert.Equal(t, StatusPass, ParseStatus("pass"))
	assert.Equal(t, StatusFail, ParseStatus("fail"))
	assert.Equal(t, StatusError, ParseStatus("error"))
	assert.Equal(t, StatusNeedsReview, ParseStatus("needs_review"))
	assert.Equal(t, StatusNeedsReview, ParseStatus("unknown"))
	assert.Equal(t, StatusNeedsReview, ParseStatus(""))
}

// Package analyzer drives AI compliance analysis: it evaluates a batch of
// documents against a set of SOC 2 controls and aggregates the verdicts
// into evidence items, gaps and summary counts.
package analyzer

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/user/shieldagent/pkg/catalog"
	"github.com/user/shieldagent/pkg/extract"
	"github.com/user/shieldagent/pkg/oracle"
)

// ErrEmptyControlSet is returned when an analysis is requested with no
// controls selected.
var ErrEmptyControlSet = errors.New("no controls selected for analysis")

// ProgressFunc reports incremental progress during a batch analysis. It is
// invoked synchronously and must not block.
type ProgressFunc func(current, total int, controlID string)

// Orchestrator runs the full analysis pipeline for a document batch. It is
// stateless across calls, so separate jobs may run concurrently on the same
// instance.
type Orchestrator struct {
	evaluator *Evaluator
	log       *zap.Logger
}

func NewOrchestrator(provider oracle.Provider, log *zap.Logger) *Orchestrator {
	if log == nil {
		log = zap.NewNop()
	}
	return &Orchestrator{
		evaluator: NewEvaluator(provider, log),
		log:       log,
	}
}

// gap strings the oracle uses as "no gaps" placeholders
var gapPlaceholders = map[string]bool{"": true, "None": true, "N/A": true}

// AnalyzeDocuments extracts text from every document, then evaluates each
// control sequentially against the combined corpus. Per-document and
// per-control failures are contained: a corrupt document contributes an
// inline error marker and a failed oracle call yields an error-status
// evidence item. Controls are evaluated one at a time to keep oracle
// concurrency bounded at a single in-flight call.
func (o *Orchestrator) AnalyzeDocuments(ctx context.Context, paths []string, controls []catalog.Control, progress ProgressFunc) (*Results, error) {
	if len(controls) == 0 {
		return nil, ErrEmptyControlSet
	}

	texts := make([]string, 0, len(paths))
	for _, path := range paths {
		text, err := extract.Text(path)
		if err != nil {
			o.log.Warn("document extraction failed",
				zap.String("path", path),
				zap.Error(err))
			text = fmt.Sprintf("[Error extracting %s: %v]", path, err)
		}
		texts = append(texts, text)
	}

	results := &Results{
		Summary: Summary{TotalControls: len(controls)},
	}

	for i, control := range controls {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		if progress != nil {
			progress(i, len(controls), control.ID)
		}

		verdict := o.evaluator.Evaluate(ctx, control, texts)
		o.log.Debug("control evaluated",
			zap.String("control_id", control.ID),
			zap.String("status", string(verdict.Status)),
			zap.Float64("confidence", verdict.Confidence))

		results.EvidenceItems = append(results.EvidenceItems, EvidenceItem{
			ControlID:     control.ID,
			Status:        verdict.Status,
			Confidence:    verdict.Confidence,
			Summary:       verdict.Summary,
			EvidenceQuote: verdict.EvidenceQuote,
			RawResponse:   verdict.Raw,
		})
		results.Controls = append(results.Controls, ControlResult{
			ControlID:  control.ID,
			Title:      control.Title,
			Category:   control.Category,
			Status:     verdict.Status,
			Confidence: verdict.Confidence,
			Summary:    verdict.Summary,
			Gaps:       verdict.Gaps,
		})

		switch verdict.Status {
		case StatusPass:
			results.Summary.Passing++
		case StatusFail:
			results.Summary.Failing++
		case StatusError:
			results.Summary.Errors++
		default:
			results.Summary.NeedsReview++
		}

		for _, desc := range verdict.Gaps {
			if gapPlaceholders[desc] {
				continue
			}
			severity := SeverityMedium
			if verdict.Status == StatusFail {
				severity = SeverityHigh
			}
			results.Gaps = append(results.Gaps, Gap{
				ControlID:   control.ID,
				Severity:    severity,
				Description: desc,
				Remediation: remediationFor(control.ID),
			})
		}
	}

	return results, nil
}

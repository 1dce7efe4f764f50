package analyzer

// Status is the verdict status for a single control
type Status string

const (
	StatusPass        Status = "pass"
	StatusFail        Status = "fail"
	StatusNeedsReview Status = "needs_review"
	StatusError       Status = "error"
)

// ParseStatus normalizes a status string from external data. Unknown values
// map to needs_review so a malformed oracle response cannot inject an
// out-of-range status into the pipeline.
func ParseStatus(s string) Status {
	switch Status(s) {
	case StatusPass, StatusFail, StatusNeedsReview, StatusError:
		return Status(s)
	default:
		return StatusNeedsReview
	}
}

// Severity grades an identified compliance gap
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityHigh     Severity = "high"
	SeverityMedium   Severity = "medium"
	SeverityLow      Severity = "low"
)

// Verdict is the structured result of evaluating one control against a
// document corpus
type Verdict struct {
	Status        Status   `json:"status"`
	Confidence    float64  `json:"confidence"`
	Summary       string   `json:"summary"`
	EvidenceQuote string   `json:"evidence_quote"`
	Gaps          []string `json:"gaps"`
	Raw           string   `json:"-"`
}

// EvidenceItem is the per-control analysis record handed to the evidence
// repository
type EvidenceItem struct {
	ControlID     string  `json:"control_id"`
	Status        Status  `json:"status"`
	Confidence    float64 `json:"confidence"`
	Summary       string  `json:"summary"`
	EvidenceQuote string  `json:"evidence_quote,omitempty"`
	RawResponse   string  `json:"raw_llm_response,omitempty"`
}

// Gap is a specific deficiency preventing a control from passing
type Gap struct {
	ControlID   string   `json:"control_id"`
	Severity    Severity `json:"severity"`
	Description string   `json:"description"`
	Remediation string   `json:"remediation_suggestion"`
}

// ControlResult combines a control's identity with its verdict. This is the
// shape consumed by the risk calculator and the remediation tracker.
type ControlResult struct {
	ControlID  string   `json:"control_id"`
	Title      string   `json:"title"`
	Category   string   `json:"category"`
	Status     Status   `json:"status"`
	Confidence float64  `json:"confidence"`
	Summary    string   `json:"summary"`
	Gaps       []string `json:"gaps"`
}

// Summary holds running counts for a batch analysis
type Summary struct {
	TotalControls int `json:"total_controls"`
	Passing       int `json:"passing"`
	Failing       int `json:"failing"`
	NeedsReview   int `json:"needs_review"`
	Errors        int `json:"errors"`
}

// Results is the complete output of a batch analysis
type Results struct {
	EvidenceItems []EvidenceItem  `json:"evidence_items"`
	Gaps          []Gap           `json:"gaps"`
	Controls      []ControlResult `json:"controls"`
	Summary       Summary         `json:"summary"`
}

package classify

// DepartmentScore is the finalized score for one department in a single
// classification run. Raw is the accumulated weight after the dominance
// pass; Normalized is Raw divided by the run's maximum, rounded to two
// decimals. Reasons explain every contributing signal in order.
type DepartmentScore struct {
	Code       string   `json:"code"`
	Name       string   `json:"name"`
	Raw        float64  `json:"raw"`
	Normalized float64  `json:"normalized"`
	Predicted  bool     `json:"predicted"`
	Reasons    []string `json:"reasons"`
}

// Result is the immutable outcome of classifying one document. Scores
// holds every catalog department in catalog order; Predicted holds the
// departments whose normalized score met the threshold, highest first.
// Diagnostic is set when classification degraded or failed; a failed run
// carries empty metadata and no predictions.
type Result struct {
	DocumentID string            `json:"document_id,omitempty"`
	Metadata   Metadata          `json:"metadata"`
	Scores     []DepartmentScore `json:"scores"`
	Predicted  []DepartmentScore `json:"predicted"`
	TextLength int               `json:"text_length"`
	Degraded   bool              `json:"degraded,omitempty"`
	Diagnostic string            `json:"diagnostic,omitempty"`
}

package schema

// PipelineState is a snapshot of an orchestrator's state machine.
// Current and Total are meaningful while analyzing, Batch once completed and
// Reason once failed.
type PipelineState struct {
	Phase   Phase          `json:"phase"`
	Current int            `json:"current,omitempty"`
	Total   int            `json:"total,omitempty"`
	Batch   *AnalysisBatch `json:"batch,omitempty"`
	Reason  string         `json:"reason,omitempty"`
	Status  string         `json:"status,omitempty"`
}

// Event is emitted to the subscriber of a single run.
// Progress events carry a 0-based Index; the terminal event carries either a
// Batch or a Reason.
type Event struct {
	Kind   EventKind      `json:"kind"`
	Index  int            `json:"index"`
	Total  int            `json:"total"`
	Path   string         `json:"path,omitempty"`
	Batch  *AnalysisBatch `json:"batch,omitempty"`
	Reason string         `json:"reason,omitempty"`
	Status string         `json:"status,omitempty"`
	Err    error          `json:"-"`
}

// IsTerminal reports whether the event ends the run.
func (e Event) IsTerminal() bool {
	return e.Kind == CompletedEvent || e.Kind == FailedEvent
}

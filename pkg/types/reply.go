package types

// AIReply is the normalized response from the AI chat backend. The backend
// sometimes answers with a bare string instead of this envelope; the
// normalizer in internal/summarize fills in placeholder values for that case.
type AIReply struct {
	// Answer is the summary text to deliver.
	Answer string `json:"answer" yaml:"answer"`

	// SessionID identifies the backend conversation, "unknown" when the
	// backend skipped the JSON envelope.
	SessionID string `json:"session_id" yaml:"session_id"`

	// ContextUsed reports whether the backend consulted stored context.
	ContextUsed bool `json:"context_used" yaml:"context_used"`

	// Trace carries the backend's agent step records. Informational only;
	// never delivered.
	Trace []TraceStep `json:"events,omitempty" yaml:"events,omitempty"`
}

// TraceStep is one agent step in the backend's reasoning trace. Tool and
// TargetAgent are free-form: the backend sends null, a string, or an object
// depending on the step kind.
type TraceStep struct {
	Step        int64  `json:"step" yaml:"step"`
	Agent       string `json:"agent" yaml:"agent"`
	Action      string `json:"action" yaml:"action"`
	Tool        any    `json:"tool,omitempty" yaml:"tool,omitempty"`
	TargetAgent any    `json:"target_agent,omitempty" yaml:"target_agent,omitempty"`
	Thought     string `json:"thought,omitempty" yaml:"thought,omitempty"`
}

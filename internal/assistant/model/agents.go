package model

import (
	"context"

	"github.com/cloudwego/eino/schema"
)

// Classification is the outcome of the intent-detection step.
type Classification struct {
	Stage    string
	Escalate bool
	Handoff  string
}

// StageClassifier labels the incoming message with a dialogue stage, or
// signals escalation. It receives a filtered history view: no tool-role
// entries, capped to the most recent turns.
type StageClassifier interface {
	Classify(ctx context.Context, message string, history []*schema.Message) (Classification, error)
}

// StepRequest carries everything a per-node extraction agent needs for one
// run: the inbound message, the agent history view and a snapshot of the
// current booking sub-state for prompt context.
type StepRequest struct {
	ThreadID string
	Message  string
	History  []*schema.Message
	Booking  BookingState
}

// StepResult is what a node agent produced. A structured Update and a
// user-visible Reply are mutually exclusive: when Update is non-nil the
// reply is suppressed and the engine re-enters routing. Escalate wins over
// both.
type StepResult struct {
	Reply    string
	Update   FieldUpdate
	Escalate bool
	Handoff  string

	// ToolTrace holds the assistant tool-call and tool-result messages the
	// agent generated, for durable history once the turn completes.
	ToolTrace []*schema.Message
}

// StepAgent runs one extraction/tool-call/reply cycle for a single node.
type StepAgent interface {
	Name() string
	Run(ctx context.Context, req StepRequest) (*StepResult, error)
}

package booking

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/compose"

	"github.com/agadjuka/LookTown-cloud.ru/internal/assistant/model"
	logx "github.com/agadjuka/LookTown-cloud.ru/pkg/logger"
)

// DefaultMaxInternalSteps bounds node chaining within one external turn.
// The structured-update loop converges because every pass fills or clears a
// missing field, but the cap makes termination a guarantee instead of a
// property of agent behavior.
const DefaultMaxInternalSteps = 12

// Config holds the collaborators of the booking sub-graph.
type Config struct {
	Analyzer         model.StepAgent
	ServiceManager   model.StepAgent
	SlotManager      model.StepAgent
	ContactCollector model.StepAgent
	Slots            SlotChecker
	Bookings         BookingCreator
	MaxInternalSteps int
}

// turnState is the sub-graph's local bookkeeping for a single external turn.
type turnState struct {
	Steps int
}

// Build compiles the booking sub-graph: a fresh pass starts at the analyzer
// every external turn, then routing chains slot-filling nodes until one of
// them queues a reply, escalates, or finalizes.
func Build(ctx context.Context, cfg Config) (compose.Runnable[*model.ConversationState, *model.ConversationState], error) {
	if cfg.Analyzer == nil || cfg.ServiceManager == nil || cfg.SlotManager == nil || cfg.ContactCollector == nil {
		return nil, fmt.Errorf("booking graph: step agents are not fully configured")
	}
	if cfg.Slots == nil || cfg.Bookings == nil {
		return nil, fmt.Errorf("booking graph: slot checker and booking creator are required")
	}

	n := &nodes{
		analyzer:         cfg.Analyzer,
		serviceManager:   cfg.ServiceManager,
		slotManager:      cfg.SlotManager,
		contactCollector: cfg.ContactCollector,
		slots:            cfg.Slots,
		bookings:         cfg.Bookings,
	}

	g := compose.NewGraph[*model.ConversationState, *model.ConversationState](
		compose.WithGenLocalState(func(ctx context.Context) *turnState {
			return &turnState{}
		}),
	)

	for _, spec := range n.specs() {
		g.AddLambdaNode(spec.name,
			compose.InvokableLambda(wrapNode(spec)),
			compose.WithStatePreHandler(newStepCounter(spec.name)),
		)
	}

	g.AddEdge(compose.START, NodeAnalyzer)
	g.AddEdge(NodeFinalizer, compose.END)

	targets := map[string]bool{
		NodeServiceManager:   true,
		NodeSlotManager:      true,
		NodeContactCollector: true,
		NodeFinalizer:        true,
		compose.END:          true,
	}
	for _, from := range []string{NodeAnalyzer, NodeServiceManager, NodeSlotManager, NodeContactCollector} {
		branch := compose.NewGraphBranch(routeCondition, targets)
		if err := g.AddBranch(from, branch); err != nil {
			return nil, fmt.Errorf("booking graph: add branch after %s: %w", from, err)
		}
	}

	maxSteps := cfg.MaxInternalSteps
	if maxSteps <= 0 {
		maxSteps = DefaultMaxInternalSteps
	}
	runnable, err := g.Compile(ctx, compose.WithMaxRunSteps(maxSteps))
	if err != nil {
		return nil, fmt.Errorf("booking graph: compile: %w", err)
	}
	logx.Debug().Int("max_steps", maxSteps).Msg("booking graph compiled")
	return runnable, nil
}

// routeCondition adapts the pure routing predicate to an eino branch.
func routeCondition(ctx context.Context, st *model.ConversationState) (string, error) {
	next := Route(st)
	logx.Debug().Str("thread_id", st.ThreadID).Str("next", next).Msg("booking route")
	return next, nil
}

// wrapNode enforces the declared silence capability: a silent node's output
// never carries a reply or history trace, except for the escalation
// hand-off which always passes through.
func wrapNode(spec nodeSpec) func(context.Context, *model.ConversationState) (*model.ConversationState, error) {
	if !spec.silent {
		return spec.run
	}
	return func(ctx context.Context, st *model.ConversationState) (*model.ConversationState, error) {
		answerBefore := st.Answer
		traceLen := len(st.ToolTrace)
		out, err := spec.run(ctx, st)
		if err != nil {
			return nil, err
		}
		if !out.ManagerAlert {
			out.Answer = answerBefore
			out.ToolTrace = out.ToolTrace[:traceLen]
		}
		return out, nil
	}
}

func newStepCounter(name string) func(context.Context, *model.ConversationState, *turnState) (*model.ConversationState, error) {
	return func(ctx context.Context, in *model.ConversationState, s *turnState) (*model.ConversationState, error) {
		s.Steps++
		logx.Debug().Str("node", name).Int("step", s.Steps).Msg("booking node entered")
		return in, nil
	}
}

package graph

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/compose"

	"github.com/agadjuka/LookTown-cloud.ru/internal/assistant/graph/nodes"
	"github.com/agadjuka/LookTown-cloud.ru/internal/assistant/graph/observers"
	"github.com/agadjuka/LookTown-cloud.ru/internal/assistant/model"
	logx "github.com/agadjuka/LookTown-cloud.ru/pkg/logger"
)

// Runner executes one external turn through the compiled dialogue graph.
type Runner interface {
	Invoke(ctx context.Context, st *model.ConversationState) (*model.ConversationState, error)
}

// Config holds everything needed to compose the top-level dialogue graph:
// the intent classifier, the compiled booking engine and one step agent per
// remaining stage.
type Config struct {
	Classifier    model.StageClassifier
	BookingEngine compose.Runnable[*model.ConversationState, *model.ConversationState]

	Cancellation model.StepAgent
	Reschedule   model.StepAgent
	ViewBookings model.StepAgent
	AboutSalon   model.StepAgent

	ClassifierHistoryLimit int
}

// GraphBuilder handles the construction of the dialogue graph.
type GraphBuilder struct {
	config *Config
	graph  *compose.Graph[*model.ConversationState, *model.ConversationState]
}

type graphRunner struct {
	runnable compose.Runnable[*model.ConversationState, *model.ConversationState]
}

func (r *graphRunner) Invoke(ctx context.Context, st *model.ConversationState) (*model.ConversationState, error) {
	return r.runnable.Invoke(ctx, st, compose.WithCallbacks(observers.NewAllCallbacks()))
}

// Build constructs, compiles and wraps the dialogue graph.
func Build(ctx context.Context, cfg Config) (Runner, error) {
	if cfg.Classifier == nil {
		return nil, fmt.Errorf("dialogue graph: classifier is nil")
	}
	if cfg.BookingEngine == nil {
		return nil, fmt.Errorf("dialogue graph: booking engine is nil")
	}
	if cfg.Cancellation == nil || cfg.Reschedule == nil || cfg.ViewBookings == nil || cfg.AboutSalon == nil {
		return nil, fmt.Errorf("dialogue graph: stage handlers are not fully configured")
	}

	builder := &GraphBuilder{
		config: &cfg,
		graph:  compose.NewGraph[*model.ConversationState, *model.ConversationState](),
	}

	builder.addNodes()
	builder.addEdges()

	if err := builder.addBranches(); err != nil {
		return nil, err
	}

	runnable, err := builder.compile(ctx)
	if err != nil {
		return nil, err
	}
	logx.Debug().Msg("dialogue graph built successfully")
	return &graphRunner{runnable: runnable}, nil
}

// addNodes adds the detector and one handler node per stage.
func (b *GraphBuilder) addNodes() {
	b.graph.AddLambdaNode(nodes.NodeStageDetector,
		nodes.NewStageDetectorNode(b.config.Classifier, b.config.ClassifierHistoryLimit),
	)
	b.graph.AddLambdaNode(nodes.NodeBooking,
		nodes.NewBookingNode(b.config.BookingEngine),
	)
	b.graph.AddLambdaNode(nodes.NodeCancellation,
		nodes.NewStageHandlerNode(nodes.NodeCancellation, b.config.Cancellation),
	)
	b.graph.AddLambdaNode(nodes.NodeReschedule,
		nodes.NewStageHandlerNode(nodes.NodeReschedule, b.config.Reschedule),
	)
	b.graph.AddLambdaNode(nodes.NodeViewBookings,
		nodes.NewStageHandlerNode(nodes.NodeViewBookings, b.config.ViewBookings),
	)
	b.graph.AddLambdaNode(nodes.NodeAboutSalon,
		nodes.NewStageHandlerNode(nodes.NodeAboutSalon, b.config.AboutSalon),
	)
}

// addEdges creates the unconditional flow connections.
func (b *GraphBuilder) addEdges() {
	edges := [][2]string{
		{compose.START, nodes.NodeStageDetector},
		{nodes.NodeBooking, compose.END},
		{nodes.NodeCancellation, compose.END},
		{nodes.NodeReschedule, compose.END},
		{nodes.NodeViewBookings, compose.END},
		{nodes.NodeAboutSalon, compose.END},
	}

	for _, edge := range edges {
		b.graph.AddEdge(edge[0], edge[1])
	}
}

// addBranches wires the dispatch branch from the detector to the handlers.
func (b *GraphBuilder) addBranches() error {
	dispatchBranch := compose.NewGraphBranch(
		nodes.NewDispatchCondition(),
		map[string]bool{
			nodes.NodeBooking:      true,
			nodes.NodeCancellation: true,
			nodes.NodeReschedule:   true,
			nodes.NodeViewBookings: true,
			nodes.NodeAboutSalon:   true,
			compose.END:            true,
		},
	)
	if err := b.graph.AddBranch(nodes.NodeStageDetector, dispatchBranch); err != nil {
		logx.Error().Err(err).Msg("error adding dispatch branch")
		return fmt.Errorf("error adding dispatch branch: %w", err)
	}
	return nil
}

func (b *GraphBuilder) compile(ctx context.Context) (compose.Runnable[*model.ConversationState, *model.ConversationState], error) {
	// the top-level graph is two hops deep; the cap only guards against
	// wiring mistakes
	runnable, err := b.graph.Compile(ctx, compose.WithMaxRunSteps(8))
	if err != nil {
		logx.Error().Err(err).Msg("error compiling dialogue graph")
		return nil, fmt.Errorf("error compiling dialogue graph: %w", err)
	}
	return runnable, nil
}

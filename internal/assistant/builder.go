package assistant

import (
	"context"
	"fmt"
	"time"

	"github.com/cloudwego/eino/components/tool"

	"github.com/agadjuka/LookTown-cloud.ru/internal/assistant/agents"
	"github.com/agadjuka/LookTown-cloud.ru/internal/assistant/conversations"
	"github.com/agadjuka/LookTown-cloud.ru/internal/assistant/graph"
	"github.com/agadjuka/LookTown-cloud.ru/internal/assistant/graph/booking"
	"github.com/agadjuka/LookTown-cloud.ru/internal/assistant/graph/nodes"
	"github.com/agadjuka/LookTown-cloud.ru/internal/assistant/graph/prompts"
	"github.com/agadjuka/LookTown-cloud.ru/internal/assistant/graph/tools"
	"github.com/agadjuka/LookTown-cloud.ru/internal/assistant/model"
	"github.com/agadjuka/LookTown-cloud.ru/internal/salon"
	logx "github.com/agadjuka/LookTown-cloud.ru/pkg/logger"
)

// BuildConfig holds everything needed to assemble the assistant end-to-end.
type BuildConfig struct {
	APIKey  string
	BaseURL string

	Classifier   model.ClassifierModelConfig
	Step         model.StepModelConfig
	Prompt       model.SalonPromptConfig
	Conversation model.ConversationConfig

	Salon       *salon.Salon
	History     model.HistoryRepository
	Checkpoints model.CheckpointRepository
}

// Build wires models, agents, both graphs and the persistence layer into a
// ready Assistant.
func Build(ctx context.Context, cfg BuildConfig) (*Assistant, error) {
	if cfg.Salon == nil {
		return nil, fmt.Errorf("salon backend is nil")
	}
	if cfg.History == nil || cfg.Checkpoints == nil {
		return nil, fmt.Errorf("repositories are not configured")
	}

	factory, err := agents.NewModelFactory(ctx, agents.ModelFactoryConfig{
		APIKey:        cfg.APIKey,
		BaseURL:       cfg.BaseURL,
		ClassifierCfg: &cfg.Classifier,
		StepCfg:       &cfg.Step,
	})
	if err != nil {
		return nil, err
	}

	classifierModel, err := factory.NewClassifierModel(ctx)
	if err != nil {
		return nil, err
	}
	classifier := agents.NewStageDetector(classifierModel, factory.ClassifierModelName(), cfg.Prompt)

	b := &agentBuilder{
		ctx:          ctx,
		factory:      factory,
		promptCfg:    cfg.Prompt,
		maxToolCalls: cfg.Conversation.Tools.MaxCalls,
	}

	analyzer := b.stepAgent("analyzer", tools.AnalyzerTools(), func(ctx context.Context, req model.StepRequest) (string, error) {
		return prompts.RenderAnalyzer(ctx, cfg.Prompt, req.Booking, time.Now())
	})
	serviceManager := b.stepAgent("service_manager", tools.ServiceManagerTools(cfg.Salon), func(ctx context.Context, req model.StepRequest) (string, error) {
		return prompts.RenderServiceManager(ctx, cfg.Prompt, req.Booking, time.Now())
	})
	slotManager := b.stepAgent("slot_manager", tools.SlotManagerTools(cfg.Salon), func(ctx context.Context, req model.StepRequest) (string, error) {
		return prompts.RenderSlotManager(ctx, cfg.Prompt, req.Booking, time.Now())
	})
	contactCollector := b.stepAgent("contact_collector", tools.ContactCollectorTools(), func(ctx context.Context, req model.StepRequest) (string, error) {
		return prompts.RenderContactCollector(ctx, cfg.Prompt, req.Booking, time.Now())
	})
	cancellation := b.stepAgent(nodes.NodeCancellation, tools.CancellationTools(cfg.Salon), func(ctx context.Context, req model.StepRequest) (string, error) {
		return prompts.RenderCancellation(ctx, cfg.Prompt, time.Now())
	})
	reschedule := b.stepAgent(nodes.NodeReschedule, tools.RescheduleTools(cfg.Salon), func(ctx context.Context, req model.StepRequest) (string, error) {
		return prompts.RenderReschedule(ctx, cfg.Prompt, time.Now())
	})
	viewBookings := b.stepAgent(nodes.NodeViewBookings, tools.ViewBookingTools(cfg.Salon), func(ctx context.Context, req model.StepRequest) (string, error) {
		return prompts.RenderViewBookings(ctx, cfg.Prompt)
	})
	aboutSalon := b.stepAgent(nodes.NodeAboutSalon, tools.AboutSalonTools(cfg.Salon), func(ctx context.Context, req model.StepRequest) (string, error) {
		return prompts.RenderAboutSalon(ctx, cfg.Prompt)
	})
	if b.err != nil {
		return nil, b.err
	}

	engine, err := booking.Build(ctx, booking.Config{
		Analyzer:         analyzer,
		ServiceManager:   serviceManager,
		SlotManager:      slotManager,
		ContactCollector: contactCollector,
		Slots:            tools.NewSalonSlotChecker(cfg.Salon),
		Bookings:         tools.NewSalonBookingCreator(cfg.Salon),
		MaxInternalSteps: cfg.Conversation.MaxInternalSteps,
	})
	if err != nil {
		return nil, err
	}

	runner, err := graph.Build(ctx, graph.Config{
		Classifier:             classifier,
		BookingEngine:          engine,
		Cancellation:           cancellation,
		Reschedule:             reschedule,
		ViewBookings:           viewBookings,
		AboutSalon:             aboutSalon,
		ClassifierHistoryLimit: cfg.Conversation.History.ClassifierLimit,
	})
	if err != nil {
		return nil, err
	}

	manager := conversations.NewManager(cfg.History, cfg.Conversation)
	logx.Debug().Msg("assistant built successfully")
	return New(runner, manager, cfg.Checkpoints), nil
}

// agentBuilder accumulates the first construction error so the wiring above
// stays flat.
type agentBuilder struct {
	ctx          context.Context
	factory      *agents.ModelFactory
	promptCfg    model.SalonPromptConfig
	maxToolCalls int
	err          error
}

func (b *agentBuilder) stepAgent(name string, toolset []tool.BaseTool, prompt agents.PromptFunc) model.StepAgent {
	if b.err != nil {
		return nil
	}
	infos, err := tools.GetToolInfos(b.ctx, toolset)
	if err != nil {
		b.err = fmt.Errorf("%s: %w", name, err)
		return nil
	}
	chat, err := b.factory.NewStepModel(b.ctx, infos)
	if err != nil {
		b.err = fmt.Errorf("%s: %w", name, err)
		return nil
	}
	agent, err := agents.NewAgent(b.ctx, agents.AgentConfig{
		Name:         name,
		Model:        chat,
		ModelName:    b.factory.StepModelName(),
		Tools:        toolset,
		Prompt:       prompt,
		MaxToolCalls: b.maxToolCalls,
	})
	if err != nil {
		b.err = fmt.Errorf("%s: %w", name, err)
		return nil
	}
	return agent
}

package agents

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino-ext/components/model/gemini"
	"github.com/cloudwego/eino/schema"
	"google.golang.org/genai"

	"github.com/agadjuka/LookTown-cloud.ru/internal/assistant/model"
	logx "github.com/agadjuka/LookTown-cloud.ru/pkg/logger"
)

// ModelFactoryConfig holds the configuration for chat model creation.
type ModelFactoryConfig struct {
	APIKey        string
	BaseURL       string
	ClassifierCfg *model.ClassifierModelConfig
	StepCfg       *model.StepModelConfig
}

// ModelFactory builds Gemini chat models over one shared client. Each agent
// gets its own model instance because tool binding is per model.
type ModelFactory struct {
	client        *genai.Client
	classifierCfg *model.ClassifierModelConfig
	stepCfg       *model.StepModelConfig
}

func NewModelFactory(ctx context.Context, cfg ModelFactoryConfig) (*ModelFactory, error) {
	if cfg.ClassifierCfg == nil || cfg.StepCfg == nil {
		return nil, fmt.Errorf("model configs are not fully set")
	}

	clientCfg := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.BaseURL != "" {
		clientCfg.HTTPOptions.BaseURL = cfg.BaseURL
	}

	client, err := genai.NewClient(ctx, clientCfg)
	if err != nil {
		logx.Error().Err(err).Msg("Error creating Gemini client")
		return nil, fmt.Errorf("error creating Gemini client: %w", err)
	}

	return &ModelFactory{
		client:        client,
		classifierCfg: cfg.ClassifierCfg,
		stepCfg:       cfg.StepCfg,
	}, nil
}

// ClassifierModelName returns the configured classifier model id.
func (f *ModelFactory) ClassifierModelName() string { return f.classifierCfg.Model }

// StepModelName returns the configured step-agent model id.
func (f *ModelFactory) StepModelName() string { return f.stepCfg.Model }

// NewClassifierModel creates the intent-classifier chat model. It never
// binds tools; classification is a plain completion.
func (f *ModelFactory) NewClassifierModel(ctx context.Context) (*gemini.ChatModel, error) {
	m, err := gemini.NewChatModel(ctx, &gemini.Config{
		Client:      f.client,
		Model:       f.classifierCfg.Model,
		Temperature: &f.classifierCfg.Temperature,
		MaxTokens:   &f.classifierCfg.MaxTokens,
	})
	if err != nil {
		logx.Error().Err(err).Msg("Error creating classifier model")
		return nil, fmt.Errorf("error creating classifier model: %w", err)
	}
	return m, nil
}

// NewStepModel creates a step-agent chat model and binds the given tools.
func (f *ModelFactory) NewStepModel(ctx context.Context, toolInfos []*schema.ToolInfo) (*gemini.ChatModel, error) {
	m, err := gemini.NewChatModel(ctx, &gemini.Config{
		Client:      f.client,
		Model:       f.stepCfg.Model,
		Temperature: &f.stepCfg.Temperature,
		MaxTokens:   &f.stepCfg.MaxTokens,
	})
	if err != nil {
		logx.Error().Err(err).Msg("Error creating step model")
		return nil, fmt.Errorf("error creating step model: %w", err)
	}
	if len(toolInfos) > 0 {
		if err := m.BindTools(toolInfos); err != nil {
			logx.Error().Err(err).Msg("Failed to bind tools")
			return nil, fmt.Errorf("failed to bind tools: %w", err)
		}
	}
	return m, nil
}

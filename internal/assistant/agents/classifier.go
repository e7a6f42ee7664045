package agents

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	chatmodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	"github.com/agadjuka/LookTown-cloud.ru/internal/assistant/graph/parsers"
	"github.com/agadjuka/LookTown-cloud.ru/internal/assistant/graph/prompts"
	"github.com/agadjuka/LookTown-cloud.ru/internal/assistant/model"
	logx "github.com/agadjuka/LookTown-cloud.ru/pkg/logger"
)

// StageDetector labels each inbound message with a dialogue stage using a
// lightweight completion, no tools bound.
type StageDetector struct {
	chat      chatmodel.BaseChatModel
	modelName string
	promptCfg model.SalonPromptConfig
}

func NewStageDetector(chat chatmodel.BaseChatModel, modelName string, promptCfg model.SalonPromptConfig) *StageDetector {
	return &StageDetector{chat: chat, modelName: modelName, promptCfg: promptCfg}
}

var managerWord = regexp.MustCompile(`\bmanager\b`)

func (d *StageDetector) Classify(ctx context.Context, message string, history []*schema.Message) (model.Classification, error) {
	system, err := prompts.RenderStageDetector(ctx, d.promptCfg)
	if err != nil {
		return model.Classification{}, fmt.Errorf("render stage detector prompt: %w", err)
	}

	msgs := make([]*schema.Message, 0, len(history)+2)
	msgs = append(msgs, schema.SystemMessage(system))
	msgs = append(msgs, history...)
	msgs = append(msgs, schema.UserMessage(message))

	out, err := d.chat.Generate(ctx, msgs)
	if err != nil {
		return model.Classification{}, fmt.Errorf("classifier generate: %w", err)
	}
	d.logUsage(out)

	label := parsers.ParseStageLabel(out.Content)
	if label != "" {
		logx.Debug().Str("stage", label).Msg("stage classified")
		return model.Classification{Stage: label}, nil
	}

	// the classifier answers "manager" when the client asks for a human
	if managerWord.MatchString(strings.ToLower(out.Content)) {
		logx.Info().Msg("classifier requested manager hand-off")
		return model.Classification{Escalate: true}, nil
	}

	// unknown label; the caller treats an empty stage as a classification
	// failure
	return model.Classification{}, nil
}

func (d *StageDetector) logUsage(out *schema.Message) {
	if !model.CostEnabled() || out == nil || out.ResponseMeta == nil || out.ResponseMeta.Usage == nil {
		return
	}
	pricing := model.ResolvePricing(d.modelName)
	inC, outC, totalC := model.ComputeCost(out.ResponseMeta.Usage, pricing)
	logx.Debug().
		Str("component", "stage_detector").
		Str("model", d.modelName).
		Int("prompt_tokens", out.ResponseMeta.Usage.PromptTokens).
		Int("completion_tokens", out.ResponseMeta.Usage.CompletionTokens).
		Int("total_tokens", out.ResponseMeta.Usage.TotalTokens).
		Float64("input_cost_usd", inC).
		Float64("output_cost_usd", outC).
		Float64("total_cost_usd", totalC).
		Msg("LLM usage")
}

var _ model.StageClassifier = (*StageDetector)(nil)

package agents

import (
	"context"
	"fmt"
	"strings"

	chatmodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/components/tool"
	"github.com/cloudwego/eino/schema"

	"github.com/agadjuka/LookTown-cloud.ru/internal/assistant/graph/parsers"
	"github.com/agadjuka/LookTown-cloud.ru/internal/assistant/graph/tools"
	"github.com/agadjuka/LookTown-cloud.ru/internal/assistant/model"
	logx "github.com/agadjuka/LookTown-cloud.ru/pkg/logger"
)

// PromptFunc renders the agent's system prompt for one run.
type PromptFunc func(ctx context.Context, req model.StepRequest) (string, error)

// AgentConfig describes one step agent.
type AgentConfig struct {
	Name         string
	Model        chatmodel.BaseChatModel
	ModelName    string
	Tools        []tool.BaseTool
	Prompt       PromptFunc
	MaxToolCalls int
}

// Agent is a single-node LLM agent: one system prompt, a bounded tool-call
// loop and a final response that is either a structured field update or a
// user-visible reply. Calling the manager tool short-circuits into an
// escalation.
type Agent struct {
	name         string
	chat         chatmodel.BaseChatModel
	modelName    string
	tools        map[string]tool.InvokableTool
	prompt       PromptFunc
	maxToolCalls int
}

func NewAgent(ctx context.Context, cfg AgentConfig) (*Agent, error) {
	if cfg.Name == "" || cfg.Model == nil || cfg.Prompt == nil {
		return nil, fmt.Errorf("agent config incomplete")
	}
	maxCalls := cfg.MaxToolCalls
	if maxCalls <= 0 {
		maxCalls = 6
	}

	indexed := make(map[string]tool.InvokableTool, len(cfg.Tools))
	for _, t := range cfg.Tools {
		info, err := t.Info(ctx)
		if err != nil {
			return nil, fmt.Errorf("tool info: %w", err)
		}
		inv, ok := t.(tool.InvokableTool)
		if !ok {
			return nil, fmt.Errorf("tool %s is not invokable", info.Name)
		}
		indexed[info.Name] = inv
	}

	return &Agent{
		name:         cfg.Name,
		chat:         cfg.Model,
		modelName:    cfg.ModelName,
		tools:        indexed,
		prompt:       cfg.Prompt,
		maxToolCalls: maxCalls,
	}, nil
}

func (a *Agent) Name() string { return a.name }

// Run executes one agent cycle: render prompt, loop through model turns and
// tool executions until the model answers in text, the tool budget runs out,
// or the manager tool is called.
func (a *Agent) Run(ctx context.Context, req model.StepRequest) (*model.StepResult, error) {
	system, err := a.prompt(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("render prompt for %s: %w", a.name, err)
	}

	msgs := make([]*schema.Message, 0, len(req.History)+2)
	msgs = append(msgs, schema.SystemMessage(system))
	msgs = append(msgs, req.History...)
	msgs = append(msgs, schema.UserMessage(req.Message))

	res := &model.StepResult{}
	toolCalls := 0
	budgetNoticeSent := false
	idSeq := 0

	for {
		out, err := a.chat.Generate(ctx, msgs)
		if err != nil {
			return nil, fmt.Errorf("%s generate: %w", a.name, err)
		}
		a.logUsage(req.ThreadID, out)

		if len(out.ToolCalls) == 0 {
			a.finishFromContent(req.ThreadID, out.Content, res)
			return res, nil
		}

		if budgetNoticeSent {
			// the model ignored the wrap-up notice; salvage any text it
			// produced instead of looping further
			logx.Warn().Str("agent", a.name).Str("thread_id", req.ThreadID).Msg("tool calls after budget notice, stopping")
			a.finishFromContent(req.ThreadID, out.Content, res)
			return res, nil
		}

		// Gemini may omit tool call IDs; assign stable ones so tool results
		// can reference them.
		for i := range out.ToolCalls {
			if strings.TrimSpace(out.ToolCalls[i].ID) == "" {
				idSeq++
				out.ToolCalls[i].ID = fmt.Sprintf("call_%d", idSeq)
			}
		}
		msgs = append(msgs, out)
		res.ToolTrace = append(res.ToolTrace, out)

		for _, tc := range out.ToolCalls {
			if tc.Function.Name == tools.ToolCallManager {
				res.Escalate = true
				res.Handoff = a.runManagerTool(ctx, tc.Function.Arguments)
				logx.Info().Str("agent", a.name).Str("thread_id", req.ThreadID).Msg("agent requested manager hand-off")
				return res, nil
			}

			result := a.executeTool(ctx, req.ThreadID, tc)
			toolMsg := &schema.Message{
				Role:       schema.Tool,
				Content:    result,
				ToolCallID: tc.ID,
			}
			msgs = append(msgs, toolMsg)
			res.ToolTrace = append(res.ToolTrace, toolMsg)
			toolCalls++
		}

		if toolCalls >= a.maxToolCalls {
			logx.Warn().
				Str("agent", a.name).
				Str("thread_id", req.ThreadID).
				Int("tool_calls", toolCalls).
				Msg("tool call limit reached")
			msgs = append(msgs, &schema.Message{
				Role: schema.System,
				Content: fmt.Sprintf(
					"SYSTEM NOTICE: You have reached the maximum tool call limit (%d). "+
						"Answer the client now using the information you've already gathered.",
					a.maxToolCalls,
				),
			})
			budgetNoticeSent = true
		}
	}
}

// finishFromContent interprets the model's final text: a JSON field update
// when one can be extracted, a plain reply otherwise.
func (a *Agent) finishFromContent(threadID, content string, res *model.StepResult) {
	if update := parsers.ExtractUpdate(content); update != nil {
		res.Update = update
		logx.Debug().Str("agent", a.name).Str("thread_id", threadID).Any("update", update).Msg("agent produced field update")
		return
	}
	res.Reply = strings.TrimSpace(content)
}

func (a *Agent) executeTool(ctx context.Context, threadID string, tc schema.ToolCall) string {
	t, ok := a.tools[tc.Function.Name]
	if !ok {
		// hallucinated or malformed tool call; give the model something
		// structured to recover with
		logx.Warn().
			Str("agent", a.name).
			Str("tool_name", tc.Function.Name).
			Str("arguments", tc.Function.Arguments).
			Msg("unknown tool call, returning fallback result")
		return fmt.Sprintf("{\"error\":\"unknown_tool\",\"name\":%q,\"note\":\"ignored\"}", tc.Function.Name)
	}

	result, err := t.InvokableRun(ctx, tc.Function.Arguments)
	if err != nil {
		logx.Warn().
			Err(err).
			Str("agent", a.name).
			Str("thread_id", threadID).
			Str("tool_name", tc.Function.Name).
			Msg("tool execution failed")
		return fmt.Sprintf("{\"error\":%q}", err.Error())
	}
	logx.Debug().Str("agent", a.name).Str("tool_name", tc.Function.Name).Msg("tool executed")
	return result
}

// runManagerTool executes the manager tool to obtain the client-facing
// hand-off text. Failures fall back to the default hand-off message.
func (a *Agent) runManagerTool(ctx context.Context, arguments string) string {
	t, ok := a.tools[tools.ToolCallManager]
	if !ok {
		return ""
	}
	raw, err := t.InvokableRun(ctx, arguments)
	if err != nil {
		return ""
	}
	return parsers.ExtractUserMessage(raw)
}

func (a *Agent) logUsage(threadID string, out *schema.Message) {
	if !model.CostEnabled() || out == nil || out.ResponseMeta == nil || out.ResponseMeta.Usage == nil {
		return
	}
	pricing := model.ResolvePricing(a.modelName)
	inC, outC, totalC := model.ComputeCost(out.ResponseMeta.Usage, pricing)
	logx.Debug().
		Str("agent", a.name).
		Str("thread_id", threadID).
		Str("model", a.modelName).
		Int("prompt_tokens", out.ResponseMeta.Usage.PromptTokens).
		Int("completion_tokens", out.ResponseMeta.Usage.CompletionTokens).
		Int("total_tokens", out.ResponseMeta.Usage.TotalTokens).
		Float64("input_cost_usd", inC).
		Float64("output_cost_usd", outC).
		Float64("total_cost_usd", totalC).
		Msg("LLM usage")
}

var _ model.StepAgent = (*Agent)(nil)

package tools

import (
	"context"

	"github.com/cloudwego/eino/components/tool"
	"github.com/cloudwego/eino/components/tool/utils"
	"github.com/cloudwego/eino/schema"

	"github.com/agadjuka/LookTown-cloud.ru/internal/salon"
)

// ===================================
// Info and escalation tools
// ===================================

type AboutSalonInput struct {
	Unused string `json:"unused,omitempty"`
}

type AboutSalonOutput struct {
	Name  string `json:"name"`
	About string `json:"about"`
}

func createAboutSalonTool(s *salon.Salon) tool.BaseTool {
	return utils.NewTool(
		&schema.ToolInfo{
			Name:        ToolAboutSalon,
			Desc:        "Get the salon's description: address, working hours and general information.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{}),
		},
		func(ctx context.Context, in *AboutSalonInput) (*AboutSalonOutput, error) {
			return &AboutSalonOutput{Name: s.Name(), About: s.About()}, nil
		},
	)
}

type CallManagerInput struct {
	Reason string `json:"reason,omitempty"`
}

type CallManagerOutput struct {
	Status      string `json:"status"`
	UserMessage string `json:"user_message"`
}

// createCallManagerTool hands the conversation to a human. Calling it ends
// the turn: the agent loop detects the call by name and escalates instead of
// feeding the result back to the model.
func createCallManagerTool() tool.BaseTool {
	return utils.NewTool(
		&schema.ToolInfo{
			Name: ToolCallManager,
			Desc: "Hand the conversation over to a human manager. Call this when the client explicitly asks for a human, is upset, or the request cannot be handled with the available tools.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"reason": {
					Type: "string",
					Desc: "Short reason for the hand-off, for the manager's context.",
				},
			}),
		},
		func(ctx context.Context, in *CallManagerInput) (*CallManagerOutput, error) {
			return &CallManagerOutput{
				Status:      "escalated",
				UserMessage: "Сейчас приглашу менеджера, он поможет вам. Пожалуйста, подождите немного.",
			}, nil
		},
	)
}

package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/components/tool"
	"github.com/cloudwego/eino/components/tool/utils"
	"github.com/cloudwego/eino/schema"

	"github.com/agadjuka/LookTown-cloud.ru/internal/assistant/model"
	"github.com/agadjuka/LookTown-cloud.ru/internal/salon"
)

// ===================================
// Schedule tools
// ===================================

type FindSlotsInput struct {
	ServiceID  int64  `json:"service_id"`
	MasterName string `json:"master_name,omitempty"`
	Date       string `json:"date,omitempty"`
	Period     string `json:"period,omitempty"`
}

type FindSlotsOutput struct {
	Slots []salon.Slot `json:"slots"`
	Total int          `json:"total"`
}

func createFindSlotsTool(s *salon.Salon) tool.BaseTool {
	return utils.NewTool(
		&schema.ToolInfo{
			Name: ToolFindSlots,
			Desc: "Find free appointment slots for a service. Optionally narrow by master, date and time of day. Without a date it returns options for the next three days. Each slot carries the exact time string to use for booking.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"service_id": {
					Type:     "number",
					Desc:     "Service id the client selected.",
					Required: true,
				},
				"master_name": {
					Type: "string",
					Desc: "Optional master name when the client asked for someone specific.",
				},
				"date": {
					Type: "string",
					Desc: "Optional date in YYYY-MM-DD format.",
				},
				"period": {
					Type: "string",
					Desc: "Optional time-of-day filter: morning, day, evening, 'after 15:00' or 'before 12:00'.",
				},
			}),
		},
		func(ctx context.Context, in *FindSlotsInput) (*FindSlotsOutput, error) {
			masterID, err := resolveMasterID(s, in.MasterName)
			if err != nil {
				return nil, err
			}
			slots, err := s.FindSlots(in.ServiceID, masterID, in.Date, in.Period)
			if err != nil {
				return nil, err
			}
			return &FindSlotsOutput{Slots: slots, Total: len(slots)}, nil
		},
	)
}

type CheckSlotInput struct {
	ServiceID  int64  `json:"service_id"`
	MasterName string `json:"master_name,omitempty"`
	SlotTime   string `json:"slot_time"`
}

type CheckSlotOutput struct {
	Available    bool         `json:"available"`
	Alternatives []salon.Slot `json:"alternatives,omitempty"`
}

func createCheckSlotTool(s *salon.Salon) tool.BaseTool {
	return utils.NewTool(
		&schema.ToolInfo{
			Name: ToolCheckSlot,
			Desc: "Check whether one concrete slot is still free. When it is taken, the result includes free alternatives for the same day.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"service_id": {
					Type:     "number",
					Desc:     "Service id the client selected.",
					Required: true,
				},
				"master_name": {
					Type: "string",
					Desc: "Optional master name when the client asked for someone specific.",
				},
				"slot_time": {
					Type:     "string",
					Desc:     "Slot time in 'YYYY-MM-DD HH:MM' format.",
					Required: true,
				},
			}),
		},
		func(ctx context.Context, in *CheckSlotInput) (*CheckSlotOutput, error) {
			at, err := model.ParseSlotTime(in.SlotTime)
			if err != nil {
				return nil, fmt.Errorf("bad slot_time %q: %w", in.SlotTime, err)
			}
			masterID, err := resolveMasterID(s, in.MasterName)
			if err != nil {
				return nil, err
			}
			ok, alternatives, err := s.CheckSlot(in.ServiceID, masterID, at)
			if err != nil {
				return nil, err
			}
			return &CheckSlotOutput{Available: ok, Alternatives: alternatives}, nil
		},
	)
}

func resolveMasterID(s *salon.Salon, name string) (*int64, error) {
	if strings.TrimSpace(name) == "" {
		return nil, nil
	}
	m, ok := s.MasterByName(name)
	if !ok {
		return nil, salon.ErrMasterNotFound
	}
	return &m.ID, nil
}

package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/components/tool"
	"github.com/cloudwego/eino/components/tool/utils"
	"github.com/cloudwego/eino/schema"

	"github.com/agadjuka/LookTown-cloud.ru/internal/salon"
)

// ===================================
// Catalog tools
// ===================================

type GetCategoriesInput struct {
	// no parameters, present so the tool has a concrete input type
	Unused string `json:"unused,omitempty"`
}

type GetCategoriesOutput struct {
	Categories []string `json:"categories"`
}

func createGetCategoriesTool(s *salon.Salon) tool.BaseTool {
	return utils.NewTool(
		&schema.ToolInfo{
			Name: ToolGetCategories,
			Desc: "List the salon's service categories. Use this when the client asks what the salon offers in general.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{}),
		},
		func(ctx context.Context, in *GetCategoriesInput) (*GetCategoriesOutput, error) {
			return &GetCategoriesOutput{Categories: s.Categories()}, nil
		},
	)
}

type FindServiceInput struct {
	Query    string `json:"query"`
	Category string `json:"category,omitempty"`
}

type FindServiceOutput struct {
	Services []salon.Service `json:"services"`
	Total    int             `json:"total"`
}

func createFindServiceTool(s *salon.Salon) tool.BaseTool {
	return utils.NewTool(
		&schema.ToolInfo{
			Name: ToolFindService,
			Desc: "Search salon services by free-text query and optional category. Returns id, name, category, price, duration and description for each match. Use the returned id when the client picks a service.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"query": {
					Type:     "string",
					Desc:     "Search keywords in Russian, e.g. маникюр, стрижка, окрашивание. May be empty when category is set.",
					Required: true,
				},
				"category": {
					Type: "string",
					Desc: "Optional exact category name from get_categories.",
				},
			}),
		},
		func(ctx context.Context, in *FindServiceInput) (*FindServiceOutput, error) {
			if strings.TrimSpace(in.Query) == "" && strings.TrimSpace(in.Category) == "" {
				return nil, fmt.Errorf("query or category is required")
			}
			matched := s.FindServices(in.Query, in.Category)
			return &FindServiceOutput{Services: matched, Total: len(matched)}, nil
		},
	)
}

type ViewServiceInput struct {
	ServiceID int64 `json:"service_id"`
}

type ViewServiceOutput struct {
	Service salon.Service  `json:"service"`
	Masters []salon.Master `json:"masters"`
}

func createViewServiceTool(s *salon.Salon) tool.BaseTool {
	return utils.NewTool(
		&schema.ToolInfo{
			Name: ToolViewService,
			Desc: "Get full details of one service by id, including the masters who perform it. Use this to answer questions about price, duration or who does the service.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"service_id": {
					Type:     "number",
					Desc:     "Service id from find_service results.",
					Required: true,
				},
			}),
		},
		func(ctx context.Context, in *ViewServiceInput) (*ViewServiceOutput, error) {
			svc, ok := s.ServiceByID(in.ServiceID)
			if !ok {
				return nil, salon.ErrServiceNotFound
			}
			return &ViewServiceOutput{Service: svc, Masters: s.MastersForService(in.ServiceID)}, nil
		},
	)
}

type ListMastersInput struct {
	ServiceID int64 `json:"service_id"`
}

type ListMastersOutput struct {
	Masters []salon.Master `json:"masters"`
}

func createListMastersTool(s *salon.Salon) tool.BaseTool {
	return utils.NewTool(
		&schema.ToolInfo{
			Name: ToolListMasters,
			Desc: "List the masters who perform a service. Use this when the client wants to choose a specific master.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"service_id": {
					Type:     "number",
					Desc:     "Service id from find_service results.",
					Required: true,
				},
			}),
		},
		func(ctx context.Context, in *ListMastersInput) (*ListMastersOutput, error) {
			if _, ok := s.ServiceByID(in.ServiceID); !ok {
				return nil, salon.ErrServiceNotFound
			}
			return &ListMastersOutput{Masters: s.MastersForService(in.ServiceID)}, nil
		},
	)
}

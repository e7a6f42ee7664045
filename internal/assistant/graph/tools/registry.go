package tools

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/components/tool"
	"github.com/cloudwego/eino/schema"

	"github.com/agadjuka/LookTown-cloud.ru/internal/salon"
)

// Tool names. Agents reference them when inspecting tool calls, most
// importantly ToolCallManager which short-circuits the turn into an
// escalation.
const (
	ToolGetCategories     = "get_categories"
	ToolFindService       = "find_service"
	ToolViewService       = "view_service"
	ToolListMasters       = "list_masters"
	ToolFindSlots         = "find_slots"
	ToolCheckSlot         = "check_slot"
	ToolGetClientRecords  = "get_client_records"
	ToolCancelBooking     = "cancel_booking"
	ToolRescheduleBooking = "reschedule_booking"
	ToolAboutSalon        = "about_salon"
	ToolCallManager       = "call_manager"
)

// ServiceManagerTools is the toolset for service selection and informational
// questions about the catalog.
func ServiceManagerTools(s *salon.Salon) []tool.BaseTool {
	return []tool.BaseTool{
		createGetCategoriesTool(s),
		createFindServiceTool(s),
		createViewServiceTool(s),
		createListMastersTool(s),
		createCallManagerTool(),
	}
}

// SlotManagerTools is the toolset for searching free slots.
func SlotManagerTools(s *salon.Salon) []tool.BaseTool {
	return []tool.BaseTool{
		createFindSlotsTool(s),
		createCheckSlotTool(s),
		createListMastersTool(s),
		createCallManagerTool(),
	}
}

// AnalyzerTools only allows escalation; the analyzer extracts entities from
// the message text without touching the backend.
func AnalyzerTools() []tool.BaseTool {
	return []tool.BaseTool{
		createCallManagerTool(),
	}
}

// ContactCollectorTools only allows escalation; contacts come from the
// conversation itself.
func ContactCollectorTools() []tool.BaseTool {
	return []tool.BaseTool{
		createCallManagerTool(),
	}
}

// CancellationTools is the toolset for the cancellation handler.
func CancellationTools(s *salon.Salon) []tool.BaseTool {
	return []tool.BaseTool{
		createGetClientRecordsTool(s),
		createCancelBookingTool(s),
		createCallManagerTool(),
	}
}

// RescheduleTools is the toolset for moving an existing appointment.
func RescheduleTools(s *salon.Salon) []tool.BaseTool {
	return []tool.BaseTool{
		createGetClientRecordsTool(s),
		createFindSlotsTool(s),
		createRescheduleBookingTool(s),
		createCallManagerTool(),
	}
}

// ViewBookingTools is the toolset for listing a client's appointments.
func ViewBookingTools(s *salon.Salon) []tool.BaseTool {
	return []tool.BaseTool{
		createGetClientRecordsTool(s),
		createCallManagerTool(),
	}
}

// AboutSalonTools is the toolset for general questions about the salon.
func AboutSalonTools(s *salon.Salon) []tool.BaseTool {
	return []tool.BaseTool{
		createAboutSalonTool(s),
		createGetCategoriesTool(s),
		createCallManagerTool(),
	}
}

// GetToolInfos extracts ToolInfo from the given tools for model binding.
func GetToolInfos(ctx context.Context, tools []tool.BaseTool) ([]*schema.ToolInfo, error) {
	infos := make([]*schema.ToolInfo, 0, len(tools))
	for _, t := range tools {
		info, err := t.Info(ctx)
		if err != nil {
			return nil, fmt.Errorf("get tool info: %w", err)
		}
		infos = append(infos, info)
	}
	return infos, nil
}

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
// Client record tools
// ===================================

// ClientRecord is the tool-facing view of a booking, with the service and
// master resolved to names.
type ClientRecord struct {
	BookingID   int64  `json:"booking_id"`
	ServiceName string `json:"service_name"`
	MasterName  string `json:"master_name"`
	SlotTime    string `json:"slot_time"`
}

type GetClientRecordsInput struct {
	Phone string `json:"phone"`
}

type GetClientRecordsOutput struct {
	Records []ClientRecord `json:"records"`
	Total   int            `json:"total"`
}

func createGetClientRecordsTool(s *salon.Salon) tool.BaseTool {
	return utils.NewTool(
		&schema.ToolInfo{
			Name: ToolGetClientRecords,
			Desc: "List the client's upcoming appointments by phone number. Ask for the phone number first if you don't have it.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"phone": {
					Type:     "string",
					Desc:     "Client phone number exactly as the client gave it.",
					Required: true,
				},
			}),
		},
		func(ctx context.Context, in *GetClientRecordsInput) (*GetClientRecordsOutput, error) {
			if strings.TrimSpace(in.Phone) == "" {
				return nil, fmt.Errorf("phone is required")
			}
			bookings := s.BookingsForPhone(in.Phone)
			records := make([]ClientRecord, 0, len(bookings))
			for _, b := range bookings {
				records = append(records, toClientRecord(s, b))
			}
			return &GetClientRecordsOutput{Records: records, Total: len(records)}, nil
		},
	)
}

type CancelBookingInput struct {
	BookingID int64 `json:"booking_id"`
}

type CancelBookingOutput struct {
	Canceled bool `json:"canceled"`
}

func createCancelBookingTool(s *salon.Salon) tool.BaseTool {
	return utils.NewTool(
		&schema.ToolInfo{
			Name: ToolCancelBooking,
			Desc: "Cancel an existing appointment by booking id. Confirm with the client which appointment to cancel before calling this.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"booking_id": {
					Type:     "number",
					Desc:     "Booking id from get_client_records.",
					Required: true,
				},
			}),
		},
		func(ctx context.Context, in *CancelBookingInput) (*CancelBookingOutput, error) {
			if err := s.CancelBooking(in.BookingID); err != nil {
				return nil, err
			}
			return &CancelBookingOutput{Canceled: true}, nil
		},
	)
}

type RescheduleBookingInput struct {
	BookingID int64  `json:"booking_id"`
	SlotTime  string `json:"slot_time"`
}

type RescheduleBookingOutput struct {
	Record ClientRecord `json:"record"`
}

func createRescheduleBookingTool(s *salon.Salon) tool.BaseTool {
	return utils.NewTool(
		&schema.ToolInfo{
			Name: ToolRescheduleBooking,
			Desc: "Move an existing appointment to a new time with the same master. Use find_slots first to offer free options.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"booking_id": {
					Type:     "number",
					Desc:     "Booking id from get_client_records.",
					Required: true,
				},
				"slot_time": {
					Type:     "string",
					Desc:     "New slot time in 'YYYY-MM-DD HH:MM' format.",
					Required: true,
				},
			}),
		},
		func(ctx context.Context, in *RescheduleBookingInput) (*RescheduleBookingOutput, error) {
			at, err := model.ParseSlotTime(in.SlotTime)
			if err != nil {
				return nil, fmt.Errorf("bad slot_time %q: %w", in.SlotTime, err)
			}
			b, err := s.RescheduleBooking(in.BookingID, at)
			if err != nil {
				return nil, err
			}
			return &RescheduleBookingOutput{Record: toClientRecord(s, *b)}, nil
		},
	)
}

func toClientRecord(s *salon.Salon, b salon.Booking) ClientRecord {
	rec := ClientRecord{
		BookingID: b.ID,
		SlotTime:  b.StartsAt.Format(model.SlotTimeLayout),
	}
	if svc, ok := s.ServiceByID(b.ServiceID); ok {
		rec.ServiceName = svc.Name
	}
	for _, m := range s.MastersForService(b.ServiceID) {
		if m.ID == b.MasterID {
			rec.MasterName = m.Name
			break
		}
	}
	return rec
}

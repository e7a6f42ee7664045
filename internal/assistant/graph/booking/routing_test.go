package booking

import (
	"testing"

	"github.com/cloudwego/eino/compose"
	"github.com/stretchr/testify/require"

	"github.com/agadjuka/LookTown-cloud.ru/internal/assistant/model"
)

func TestRouteOrder(t *testing.T) {
	tests := []struct {
		name  string
		state *model.ConversationState
		want  string
	}{
		{
			name:  "escalation ends the turn",
			state: &model.ConversationState{ManagerAlert: true, Booking: &model.BookingState{ServiceID: int64p(1)}},
			want:  compose.END,
		},
		{
			name:  "finalized ends the turn",
			state: &model.ConversationState{Booking: &model.BookingState{IsFinalized: true}},
			want:  compose.END,
		},
		{
			name:  "queued answer ends the turn",
			state: &model.ConversationState{Answer: "Когда вам удобно?", Booking: &model.BookingState{ServiceID: int64p(1)}},
			want:  compose.END,
		},
		{
			name:  "details question beats missing slot",
			state: &model.ConversationState{Booking: &model.BookingState{ServiceID: int64p(1), ServiceDetailsNeeded: true}},
			want:  NodeServiceManager,
		},
		{
			name:  "no service",
			state: &model.ConversationState{Booking: &model.BookingState{}},
			want:  NodeServiceManager,
		},
		{
			name:  "nil booking state",
			state: &model.ConversationState{},
			want:  NodeServiceManager,
		},
		{
			name:  "no slot",
			state: &model.ConversationState{Booking: &model.BookingState{ServiceID: int64p(1)}},
			want:  NodeSlotManager,
		},
		{
			name:  "unverified slot",
			state: &model.ConversationState{Booking: &model.BookingState{ServiceID: int64p(1), SlotTime: "2026-09-01 14:00"}},
			want:  NodeSlotManager,
		},
		{
			name: "no contacts",
			state: &model.ConversationState{Booking: &model.BookingState{
				ServiceID: int64p(1), SlotTime: "2026-09-01 14:00", SlotTimeVerified: true,
			}},
			want: NodeContactCollector,
		},
		{
			name: "partial contacts",
			state: &model.ConversationState{Booking: &model.BookingState{
				ServiceID: int64p(1), SlotTime: "2026-09-01 14:00", SlotTimeVerified: true, ClientName: "Анна",
			}},
			want: NodeContactCollector,
		},
		{
			name: "everything collected",
			state: &model.ConversationState{Booking: &model.BookingState{
				ServiceID: int64p(1), SlotTime: "2026-09-01 14:00", SlotTimeVerified: true,
				ClientName: "Анна", ClientPhone: "+79001234567",
			}},
			want: NodeFinalizer,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, Route(tt.state))
		})
	}
}

package booking

import (
	"github.com/cloudwego/eino/compose"

	"github.com/agadjuka/LookTown-cloud.ru/internal/assistant/model"
)

// Node names of the booking sub-graph.
const (
	NodeAnalyzer         = "analyzer"
	NodeServiceManager   = "service_manager"
	NodeSlotManager      = "slot_manager"
	NodeContactCollector = "contact_collector"
	NodeFinalizer        = "finalizer"
)

// Route picks the next node from the current turn state. It is a pure
// function of the snapshot (is_finalized, answer, service_details_needed,
// service_id, slot_time, slot_time_verified, contacts) and is evaluated in
// strict order: the first matching rule wins.
func Route(st *model.ConversationState) string {
	if st.ManagerAlert {
		return compose.END
	}
	b := st.Booking
	if b == nil {
		b = &model.BookingState{}
	}
	switch {
	case b.IsFinalized:
		return compose.END
	case st.Answer != "":
		// a reply is already queued; wait for the next user turn
		return compose.END
	case b.ServiceDetailsNeeded:
		// an informational question always gets an informational answer
		// before any slot-filling continues
		return NodeServiceManager
	case b.ServiceID == nil:
		return NodeServiceManager
	case b.SlotTime == "":
		return NodeSlotManager
	case !b.SlotTimeVerified:
		return NodeSlotManager
	case !b.HasContacts():
		return NodeContactCollector
	default:
		return NodeFinalizer
	}
}

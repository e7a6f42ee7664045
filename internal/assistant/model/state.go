package model

import (
	"time"

	"github.com/cloudwego/eino/schema"
)

// Dialogue stages the router dispatches on. The classifier must return one of
// these labels; anything else is treated as a classification failure.
const (
	StageBooking       = "booking"
	StageCancellation  = "cancellation_request"
	StageReschedule    = "reschedule"
	StageViewMyBooking = "view_my_booking"
	StageAboutSalon    = "about_salon"
)

// KnownStage reports whether the label is one of the dispatchable stages.
func KnownStage(stage string) bool {
	switch stage {
	case StageBooking, StageCancellation, StageReschedule, StageViewMyBooking, StageAboutSalon:
		return true
	}
	return false
}

// SlotTimeLayout is the wire format for appointment times.
const SlotTimeLayout = "2006-01-02 15:04"

// ParseSlotTime parses a slot time in SlotTimeLayout. Slot strings are wall
// times in the salon's location, so they parse in local time; a UTC parse
// would shift the instant against the schedule on non-UTC hosts.
func ParseSlotTime(s string) (time.Time, error) {
	return time.ParseInLocation(SlotTimeLayout, s, time.Local)
}

// IsDateOnly reports whether a slot time carries a midnight time-of-day
// component, which the extraction contract uses to mean "date known, time
// unspecified". Such values must never be stored as a concrete slot.
func IsDateOnly(slotTime string) bool {
	t, err := ParseSlotTime(slotTime)
	if err != nil {
		return false
	}
	return t.Hour() == 0 && t.Minute() == 0
}

// ConversationState is the per-thread dialogue state. The persistent part
// (ConversationID, Stage, Booking) is checkpointed between turns; the
// remaining fields are rebuilt at the start of every external turn and flow
// through the graphs as working state.
type ConversationState struct {
	ThreadID       string        `json:"thread_id"`
	ConversationID string        `json:"conversation_id"`
	Stage          string        `json:"stage,omitempty"`
	Booking        *BookingState `json:"booking,omitempty"`

	// Turn-scoped working fields, never checkpointed.
	Message      string            `json:"-"`
	History      []*schema.Message `json:"-"`
	Answer       string            `json:"-"`
	ManagerAlert bool              `json:"-"`
	AgentName    string            `json:"-"`

	// Messages produced by agent tool calls during this turn, appended to the
	// durable history once the turn reaches a stopping point.
	ToolTrace []*schema.Message `json:"-"`
}

// EnsureBooking returns the booking sub-state, allocating it on first entry
// to the booking stage.
func (s *ConversationState) EnsureBooking() *BookingState {
	if s.Booking == nil {
		s.Booking = &BookingState{}
	}
	return s.Booking
}

// Escalate records a manager hand-off. Once set for a turn it is never
// cleared: later nodes observe ManagerAlert and do not run.
func (s *ConversationState) Escalate(agentName, handoff string) {
	if s.ManagerAlert {
		return
	}
	s.ManagerAlert = true
	s.AgentName = agentName
	if handoff != "" {
		s.Answer = handoff
	} else {
		s.Answer = DefaultHandoffMessage
	}
}

// DefaultHandoffMessage is sent when escalation carries no custom text.
const DefaultHandoffMessage = "Я передала ваш вопрос менеджеру, он свяжется с вами в ближайшее время."

// BookingState is the nested slot-filling sub-state. Exactly one instance
// exists per thread; it survives across turns until finalized or reset by a
// topic change.
type BookingState struct {
	ServiceID            *int64 `json:"service_id,omitempty"`
	ServiceName          string `json:"service_name,omitempty"`
	MasterID             *int64 `json:"master_id,omitempty"`
	MasterName           string `json:"master_name,omitempty"`
	SlotTime             string `json:"slot_time,omitempty"`
	SlotTimeVerified     bool   `json:"slot_time_verified,omitempty"`
	ClientName           string `json:"client_name,omitempty"`
	ClientPhone          string `json:"client_phone,omitempty"`
	ServiceDetailsNeeded bool   `json:"service_details_needed,omitempty"`
	IsFinalized          bool   `json:"is_finalized,omitempty"`
}

// HasContacts reports whether both contact fields have been collected.
func (b *BookingState) HasContacts() bool {
	return b.ClientName != "" && b.ClientPhone != ""
}

// ReadyToFinalize reports whether every field required for booking creation
// is present and the slot has been verified against the schedule.
func (b *BookingState) ReadyToFinalize() bool {
	return b.ServiceID != nil && b.SlotTime != "" && b.SlotTimeVerified && b.HasContacts()
}

// Clone returns a deep copy of the sub-state.
func (b *BookingState) Clone() *BookingState {
	if b == nil {
		return nil
	}
	c := *b
	if b.ServiceID != nil {
		v := *b.ServiceID
		c.ServiceID = &v
	}
	if b.MasterID != nil {
		v := *b.MasterID
		c.MasterID = &v
	}
	return &c
}

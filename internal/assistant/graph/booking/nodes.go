package booking

import (
	"context"
	"fmt"
	"strings"

	"github.com/agadjuka/LookTown-cloud.ru/internal/assistant/model"
	logx "github.com/agadjuka/LookTown-cloud.ru/pkg/logger"
)

const restartReply = "Извините, произошла ошибка. Пожалуйста, начните бронирование заново."

// nodes bundles the collaborators the booking sub-graph nodes call out to.
type nodes struct {
	analyzer         model.StepAgent
	serviceManager   model.StepAgent
	slotManager      model.StepAgent
	contactCollector model.StepAgent
	slots            SlotChecker
	bookings         BookingCreator
}

// nodeSpec declares one sub-graph node. Silent nodes mutate state and route
// but never contribute a user-visible reply or history entries; the graph
// wrapper enforces that, so silence is a declared capability rather than a
// naming convention.
type nodeSpec struct {
	name   string
	silent bool
	run    func(ctx context.Context, st *model.ConversationState) (*model.ConversationState, error)
}

func (n *nodes) specs() []nodeSpec {
	return []nodeSpec{
		{name: NodeAnalyzer, silent: true, run: n.runAnalyzer},
		{name: NodeServiceManager, run: n.runServiceManager},
		{name: NodeSlotManager, run: n.runSlotManager},
		{name: NodeContactCollector, run: n.runContactCollector},
		{name: NodeFinalizer, run: n.runFinalizer},
	}
}

func stepRequest(st *model.ConversationState) model.StepRequest {
	req := model.StepRequest{
		ThreadID: st.ThreadID,
		Message:  st.Message,
		History:  st.History,
	}
	if st.Booking != nil {
		req.Booking = *st.Booking
	}
	return req
}

// runAnalyzer extracts booking entities from the message and merges them
// into the sub-state. It produces no reply; extraction failures leave the
// state untouched rather than aborting the turn.
func (n *nodes) runAnalyzer(ctx context.Context, st *model.ConversationState) (*model.ConversationState, error) {
	if st.ManagerAlert {
		return st, nil
	}
	b := st.EnsureBooking()

	res, err := n.analyzer.Run(ctx, stepRequest(st))
	if err != nil {
		logx.Error().Err(err).Str("thread_id", st.ThreadID).Msg("analyzer failed, continuing with unchanged state")
		return st, nil
	}
	if res.Escalate {
		// escalation wins even when the same response carried an update
		st.Escalate(n.analyzer.Name(), res.Handoff)
		return st, nil
	}
	if res.Update != nil {
		*b = Merge(*b, res.Update)
		logx.Debug().
			Str("thread_id", st.ThreadID).
			Any("update", res.Update).
			Msg("analyzer merged extraction into booking state")
	}
	return st, nil
}

// runServiceManager resolves a service selection or answers an informational
// question about a service. A structured service_id update suppresses the
// reply so routing re-runs immediately.
func (n *nodes) runServiceManager(ctx context.Context, st *model.ConversationState) (*model.ConversationState, error) {
	if st.ManagerAlert {
		return st, nil
	}
	b := st.EnsureBooking()

	res, err := n.serviceManager.Run(ctx, stepRequest(st))
	if err != nil {
		logx.Error().Err(err).Str("thread_id", st.ThreadID).Msg("service manager failed")
		st.Escalate(n.serviceManager.Name(), "")
		return st, nil
	}
	if res.Escalate {
		st.Escalate(n.serviceManager.Name(), res.Handoff)
		return st, nil
	}
	st.ToolTrace = append(st.ToolTrace, res.ToolTrace...)

	if res.Update != nil {
		*b = Merge(*b, res.Update)
		b.ServiceDetailsNeeded = false
		return st, nil
	}

	// any response, informational or clarifying, settles the question
	b.ServiceDetailsNeeded = false

	if strings.TrimSpace(res.Reply) == "" {
		logx.Error().Str("thread_id", st.ThreadID).Msg("service manager returned neither update nor reply")
		st.Escalate(n.serviceManager.Name(), "")
		return st, nil
	}
	st.Answer = res.Reply
	st.AgentName = n.serviceManager.Name()
	return st, nil
}

// runSlotManager has two modes. With a proposed but unverified slot it
// checks live availability: success verifies silently and falls through to
// routing, failure clears the slot and explains. Without a slot it lets the
// agent search and present candidates, or pick up the client's selection as
// a structured update.
func (n *nodes) runSlotManager(ctx context.Context, st *model.ConversationState) (*model.ConversationState, error) {
	if st.ManagerAlert {
		return st, nil
	}
	b := st.EnsureBooking()
	if b.ServiceID == nil {
		logx.Error().Str("thread_id", st.ThreadID).Msg("slot manager entered without a service")
		st.Answer = restartReply
		return st, nil
	}

	if b.SlotTime != "" && !b.SlotTimeVerified {
		at, err := model.ParseSlotTime(b.SlotTime)
		if err != nil {
			// unparseable slot came from a bad extraction; drop it and fall
			// back to search mode below
			logx.Warn().Str("slot_time", b.SlotTime).Msg("dropping unparseable slot time")
			b.SlotTime = ""
			b.SlotTimeVerified = false
		} else {
			check, err := n.slots.CheckSlot(ctx, *b.ServiceID, b.MasterID, at)
			if err != nil {
				logx.Error().Err(err).Str("thread_id", st.ThreadID).Msg("availability check failed")
				st.Escalate(NodeSlotManager, "")
				return st, nil
			}
			if check.Available {
				b.SlotTimeVerified = true
				return st, nil
			}
			b.SlotTime = ""
			b.SlotTimeVerified = false
			st.Answer = slotRejectedReply(at.Format("02.01.2006 в 15:04"), check.Alternatives)
			st.AgentName = NodeSlotManager
			return st, nil
		}
	}

	res, err := n.slotManager.Run(ctx, stepRequest(st))
	if err != nil {
		logx.Error().Err(err).Str("thread_id", st.ThreadID).Msg("slot manager failed")
		st.Escalate(n.slotManager.Name(), "")
		return st, nil
	}
	if res.Escalate {
		st.Escalate(n.slotManager.Name(), res.Handoff)
		return st, nil
	}
	st.ToolTrace = append(st.ToolTrace, res.ToolTrace...)

	if res.Update != nil {
		*b = Merge(*b, res.Update)
		return st, nil
	}
	if strings.TrimSpace(res.Reply) == "" {
		logx.Error().Str("thread_id", st.ThreadID).Msg("slot manager returned neither update nor reply")
		st.Escalate(n.slotManager.Name(), "")
		return st, nil
	}
	st.Answer = res.Reply
	st.AgentName = n.slotManager.Name()
	return st, nil
}

// runContactCollector requests or extracts the client's name and phone. A
// structured extraction suppresses the reply and re-enters routing.
func (n *nodes) runContactCollector(ctx context.Context, st *model.ConversationState) (*model.ConversationState, error) {
	if st.ManagerAlert {
		return st, nil
	}
	b := st.EnsureBooking()

	res, err := n.contactCollector.Run(ctx, stepRequest(st))
	if err != nil {
		logx.Error().Err(err).Str("thread_id", st.ThreadID).Msg("contact collector failed")
		st.Escalate(n.contactCollector.Name(), "")
		return st, nil
	}
	if res.Escalate {
		st.Escalate(n.contactCollector.Name(), res.Handoff)
		return st, nil
	}
	st.ToolTrace = append(st.ToolTrace, res.ToolTrace...)

	if res.Update != nil {
		*b = Merge(*b, res.Update)
		return st, nil
	}
	if strings.TrimSpace(res.Reply) == "" {
		logx.Error().Str("thread_id", st.ThreadID).Msg("contact collector returned neither update nor reply")
		st.Escalate(n.contactCollector.Name(), "")
		return st, nil
	}
	st.Answer = res.Reply
	st.AgentName = n.contactCollector.Name()
	return st, nil
}

// runFinalizer creates the booking. It is the only place is_finalized flips
// to true, and it terminates the turn regardless of outcome.
func (n *nodes) runFinalizer(ctx context.Context, st *model.ConversationState) (*model.ConversationState, error) {
	if st.ManagerAlert {
		return st, nil
	}
	b := st.EnsureBooking()
	if b.IsFinalized {
		return st, nil
	}
	if !b.ReadyToFinalize() {
		logx.Error().Str("thread_id", st.ThreadID).Msg("finalizer entered with incomplete booking state")
		st.Answer = restartReply
		return st, nil
	}
	at, err := model.ParseSlotTime(b.SlotTime)
	if err != nil {
		logx.Error().Err(err).Str("slot_time", b.SlotTime).Msg("finalizer got unparseable slot time")
		st.Escalate(NodeFinalizer, "")
		return st, nil
	}

	conf, err := n.bookings.Create(ctx, CreateRequest{
		ServiceID:   *b.ServiceID,
		MasterID:    b.MasterID,
		MasterName:  b.MasterName,
		ClientName:  b.ClientName,
		ClientPhone: b.ClientPhone,
		At:          at,
	})
	if err != nil {
		logx.Error().Err(err).Str("thread_id", st.ThreadID).Msg("booking creation failed")
		st.Escalate(NodeFinalizer, "")
		return st, nil
	}

	b.IsFinalized = true
	st.Answer = confirmationReply(conf)
	st.AgentName = NodeFinalizer
	logx.Info().
		Str("thread_id", st.ThreadID).
		Int64("booking_id", conf.BookingID).
		Msg("booking finalized")
	return st, nil
}

func slotRejectedReply(when string, alternatives []string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "К сожалению, %s уже занято.", when)
	if len(alternatives) > 0 {
		sb.WriteString(" В этот день свободно: ")
		if len(alternatives) > 5 {
			alternatives = alternatives[:5]
		}
		sb.WriteString(strings.Join(alternatives, ", "))
		sb.WriteString(". Подойдёт какой-то из этих вариантов?")
	} else {
		sb.WriteString(" Могу предложить другой день — когда вам удобно?")
	}
	return sb.String()
}

func confirmationReply(conf Confirmation) string {
	when := conf.At.Format("02.01.2006 в 15:04")
	master := ""
	if conf.MasterName != "" {
		master = fmt.Sprintf(" к мастеру %s", conf.MasterName)
	}
	return fmt.Sprintf("Готово! Я записала вас на %s %s%s. Будем вас ждать!", conf.ServiceName, when, master)
}

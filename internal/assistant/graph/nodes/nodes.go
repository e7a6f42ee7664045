package nodes

import (
	"context"

	"github.com/cloudwego/eino/compose"

	"github.com/agadjuka/LookTown-cloud.ru/internal/assistant/conversations"
	"github.com/agadjuka/LookTown-cloud.ru/internal/assistant/model"
	logx "github.com/agadjuka/LookTown-cloud.ru/pkg/logger"
)

// Node names of the top-level dialogue graph.
const (
	NodeStageDetector = "stage_detector"
	NodeBooking       = "handle_booking"
	NodeCancellation  = "handle_cancellation"
	NodeReschedule    = "handle_reschedule"
	NodeViewBookings  = "handle_view_my_booking"
	NodeAboutSalon    = "handle_about_salon"
)

// NewStageDetectorNode classifies the inbound message into a dialogue stage.
// The node is silent: it only mutates state. An unrecognized label escalates
// instead of guessing a handler, since misrouting a cancellation into a
// booking flow is worse than handing off.
func NewStageDetectorNode(classifier model.StageClassifier, classifierLimit int) *compose.Lambda {
	return compose.InvokableLambda(func(ctx context.Context, st *model.ConversationState) (*model.ConversationState, error) {
		if st.ManagerAlert {
			return st, nil
		}

		view := conversations.FilterForClassifier(st.History, classifierLimit)
		cls, err := classifier.Classify(ctx, st.Message, view)
		if err != nil {
			logx.Error().Err(err).Str("thread_id", st.ThreadID).Msg("stage classification failed")
			st.Escalate(NodeStageDetector, "")
			return st, nil
		}
		if cls.Escalate {
			st.Escalate(NodeStageDetector, cls.Handoff)
			return st, nil
		}
		if !model.KnownStage(cls.Stage) {
			logx.Error().Str("thread_id", st.ThreadID).Str("stage", cls.Stage).Msg("unknown stage label")
			st.Escalate(NodeStageDetector, "")
			return st, nil
		}

		st.Stage = cls.Stage
		logx.Debug().Str("thread_id", st.ThreadID).Str("stage", cls.Stage).Msg("stage detected")
		return st, nil
	})
}

// NewDispatchCondition routes the classified message to its stage handler.
func NewDispatchCondition() func(context.Context, *model.ConversationState) (string, error) {
	return func(ctx context.Context, st *model.ConversationState) (string, error) {
		if st.ManagerAlert {
			return compose.END, nil
		}
		switch st.Stage {
		case model.StageBooking:
			return NodeBooking, nil
		case model.StageCancellation:
			return NodeCancellation, nil
		case model.StageReschedule:
			return NodeReschedule, nil
		case model.StageViewMyBooking:
			return NodeViewBookings, nil
		case model.StageAboutSalon:
			return NodeAboutSalon, nil
		}
		// unreachable: the detector escalates on unknown labels
		return compose.END, nil
	}
}

// NewBookingNode hands the turn to the nested booking engine.
func NewBookingNode(engine compose.Runnable[*model.ConversationState, *model.ConversationState]) *compose.Lambda {
	return compose.InvokableLambda(func(ctx context.Context, st *model.ConversationState) (*model.ConversationState, error) {
		if st.ManagerAlert {
			return st, nil
		}
		return engine.Invoke(ctx, st)
	})
}

// NewStageHandlerNode wraps a single-shot step agent as a stage handler:
// run the agent once, queue its reply, escalate on any failure mode.
func NewStageHandlerNode(name string, agent model.StepAgent) *compose.Lambda {
	return compose.InvokableLambda(func(ctx context.Context, st *model.ConversationState) (*model.ConversationState, error) {
		if st.ManagerAlert {
			return st, nil
		}

		req := model.StepRequest{
			ThreadID: st.ThreadID,
			Message:  st.Message,
			History:  st.History,
		}
		if st.Booking != nil {
			req.Booking = *st.Booking
		}

		res, err := agent.Run(ctx, req)
		if err != nil {
			logx.Error().Err(err).Str("thread_id", st.ThreadID).Str("handler", name).Msg("stage handler failed")
			st.Escalate(agent.Name(), "")
			return st, nil
		}
		if res.Escalate {
			st.Escalate(agent.Name(), res.Handoff)
			return st, nil
		}
		st.ToolTrace = append(st.ToolTrace, res.ToolTrace...)

		if res.Reply == "" {
			logx.Error().Str("thread_id", st.ThreadID).Str("handler", name).Msg("stage handler returned no reply")
			st.Escalate(agent.Name(), "")
			return st, nil
		}
		st.Answer = res.Reply
		st.AgentName = agent.Name()
		return st, nil
	})
}

package assistant

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/agadjuka/LookTown-cloud.ru/internal/assistant/conversations"
	"github.com/agadjuka/LookTown-cloud.ru/internal/assistant/graph"
	"github.com/agadjuka/LookTown-cloud.ru/internal/assistant/model"
	logx "github.com/agadjuka/LookTown-cloud.ru/pkg/logger"
)

// Assistant orchestrates one external turn: load the checkpoint and history,
// run the dialogue graph, then persist the results. Nothing is written
// before the graph reaches a stopping point, so a failed turn leaves the
// stored state exactly as it was.
type Assistant struct {
	runner      graph.Runner
	manager     *conversations.Manager
	checkpoints model.CheckpointRepository
}

func New(runner graph.Runner, manager *conversations.Manager, checkpoints model.CheckpointRepository) *Assistant {
	return &Assistant{runner: runner, manager: manager, checkpoints: checkpoints}
}

// Process handles one client message for a thread and returns the reply.
func (a *Assistant) Process(ctx context.Context, threadID, message string) (string, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return "", fmt.Errorf("empty message")
	}

	st, err := a.checkpoints.Load(ctx, threadID)
	if err != nil {
		return "", fmt.Errorf("load checkpoint: %w", err)
	}
	if st == nil {
		st = &model.ConversationState{
			ThreadID:       threadID,
			ConversationID: uuid.NewString(),
		}
		logx.Info().Str("thread_id", threadID).Str("conversation_id", st.ConversationID).Msg("starting new conversation")
	}
	st.Message = message

	history, err := a.manager.LoadForTurn(ctx, st.ConversationID)
	if err != nil {
		return "", fmt.Errorf("load history: %w", err)
	}
	st.History = history

	out, err := a.runner.Invoke(ctx, st)
	if err != nil {
		return "", fmt.Errorf("run dialogue graph: %w", err)
	}
	if out.Answer == "" {
		// every legitimate stopping point queues a reply; reaching here means
		// a wiring defect, so hand off rather than go silent
		logx.Error().Str("thread_id", threadID).Str("stage", out.Stage).Msg("turn ended without an answer")
		out.Escalate("assistant", "")
	}

	if err := a.manager.AppendTurn(ctx, out.ConversationID, out); err != nil {
		return "", fmt.Errorf("append history: %w", err)
	}

	// a finalized booking is terminal; drop the sub-state so the next
	// booking request starts clean
	if out.Booking != nil && out.Booking.IsFinalized {
		out.Booking = nil
	}
	if err := a.checkpoints.Save(ctx, out); err != nil {
		return "", fmt.Errorf("save checkpoint: %w", err)
	}

	return out.Answer, nil
}

// Reset starts a fresh conversation for the thread. The previous history
// stays under the old conversation id until its TTL expires.
func (a *Assistant) Reset(ctx context.Context, threadID string) error {
	fresh := &model.ConversationState{
		ThreadID:       threadID,
		ConversationID: uuid.NewString(),
	}
	if err := a.checkpoints.Save(ctx, fresh); err != nil {
		return fmt.Errorf("save checkpoint: %w", err)
	}
	logx.Info().Str("thread_id", threadID).Str("conversation_id", fresh.ConversationID).Msg("conversation reset")
	return nil
}

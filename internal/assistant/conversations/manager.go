package conversations

import (
	"context"
	"strings"

	"github.com/cloudwego/eino/schema"

	"github.com/agadjuka/LookTown-cloud.ru/internal/assistant/model"
	logx "github.com/agadjuka/LookTown-cloud.ru/pkg/logger"
)

// Manager builds the history views the agents consume and funnels turn
// output back into the durable log.
type Manager struct {
	history         model.HistoryRepository
	agentLimit      int
	classifierLimit int
}

func NewManager(history model.HistoryRepository, cfg model.ConversationConfig) *Manager {
	return &Manager{
		history:         history,
		agentLimit:      cfg.History.AgentLimit,
		classifierLimit: cfg.History.ClassifierLimit,
	}
}

// LoadForTurn loads the working history view for one external turn: the
// most recent messages, capped so downstream prompts stay bounded.
func (m *Manager) LoadForTurn(ctx context.Context, conversationID string) ([]*schema.Message, error) {
	msgs, err := m.history.LoadRecent(ctx, conversationID, m.agentLimit)
	if err != nil {
		return nil, err
	}
	if total, err := m.history.Count(ctx, conversationID); err == nil && total > len(msgs) {
		logx.Debug().
			Str("conversation_id", conversationID).
			Int("total", total).
			Int("window", len(msgs)).
			Msg("history window truncated")
	}
	return msgs, nil
}

// ClassifierView filters a history view for the intent classifier:
// tool-role entries are stripped and the remainder capped to the most
// recent entries, so classification sees conversation flow rather than tool
// plumbing.
func (m *Manager) ClassifierView(history []*schema.Message) []*schema.Message {
	return FilterForClassifier(history, m.classifierLimit)
}

// FilterForClassifier strips tool-role messages and keeps at most limit of
// the remaining most recent entries.
func FilterForClassifier(history []*schema.Message, limit int) []*schema.Message {
	filtered := make([]*schema.Message, 0, len(history))
	for _, msg := range history {
		if msg == nil || msg.Role == schema.Tool {
			continue
		}
		filtered = append(filtered, msg)
	}
	return trimTail(filtered, limit)
}

// AppendTurn records a completed turn: the inbound user message, any tool
// traffic the agents produced, and the final assistant answer. It is called
// only after the node chain reaches a stopping point, so a crashed turn
// leaves no partial history behind.
func (m *Manager) AppendTurn(ctx context.Context, conversationID string, st *model.ConversationState) error {
	if err := m.history.Append(ctx, conversationID, schema.UserMessage(st.Message)); err != nil {
		return err
	}
	for _, msg := range st.ToolTrace {
		if msg == nil {
			continue
		}
		if err := m.history.Append(ctx, conversationID, msg); err != nil {
			return err
		}
	}
	if strings.TrimSpace(st.Answer) != "" {
		if err := m.history.Append(ctx, conversationID, schema.AssistantMessage(st.Answer, nil)); err != nil {
			return err
		}
	}
	return nil
}

// ====================== Helper function ======================
func trimTail(messages []*schema.Message, limit int) []*schema.Message {
	if limit <= 0 || len(messages) <= limit {
		return messages
	}
	return messages[len(messages)-limit:]
}

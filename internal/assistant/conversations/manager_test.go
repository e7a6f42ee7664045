package conversations

import (
	"context"
	"fmt"
	"testing"

	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/require"

	"github.com/agadjuka/LookTown-cloud.ru/internal/assistant/model"
)

type memoryHistory struct {
	messages   map[string][]*schema.Message
	countCalls int
}

func newMemoryHistory() *memoryHistory {
	return &memoryHistory{messages: map[string][]*schema.Message{}}
}

func (m *memoryHistory) Append(ctx context.Context, conversationID string, message *schema.Message) error {
	m.messages[conversationID] = append(m.messages[conversationID], message)
	return nil
}

func (m *memoryHistory) LoadRecent(ctx context.Context, conversationID string, limit int) ([]*schema.Message, error) {
	msgs := m.messages[conversationID]
	if limit > 0 && len(msgs) > limit {
		msgs = msgs[len(msgs)-limit:]
	}
	return msgs, nil
}

func (m *memoryHistory) Count(ctx context.Context, conversationID string) (int, error) {
	m.countCalls++
	return len(m.messages[conversationID]), nil
}

var _ model.HistoryRepository = (*memoryHistory)(nil)

func testConfig() model.ConversationConfig {
	var cfg model.ConversationConfig
	cfg.History.AgentLimit = 30
	cfg.History.ClassifierLimit = 3
	return cfg
}

func TestLoadForTurnCapsHistory(t *testing.T) {
	history := newMemoryHistory()
	ctx := context.Background()
	for i := 0; i < 40; i++ {
		require.NoError(t, history.Append(ctx, "c1", schema.UserMessage(fmt.Sprintf("msg %d", i))))
	}

	mgr := NewManager(history, testConfig())
	view, err := mgr.LoadForTurn(ctx, "c1")
	require.NoError(t, err)
	require.Len(t, view, 30)
	require.Equal(t, "msg 39", view[len(view)-1].Content)
	// the full log length is consulted so truncation is observable in logs
	require.Equal(t, 1, history.countCalls)
}

func TestClassifierViewStripsToolTraffic(t *testing.T) {
	full := []*schema.Message{
		schema.UserMessage("хочу маникюр"),
		{Role: schema.Assistant, ToolCalls: []schema.ToolCall{{ID: "call_1"}}},
		{Role: schema.Tool, Content: `{"services":[]}`, ToolCallID: "call_1"},
		schema.AssistantMessage("Есть классический и аппаратный.", nil),
		schema.UserMessage("классический"),
		nil,
	}

	mgr := NewManager(newMemoryHistory(), testConfig())
	view := mgr.ClassifierView(full)

	require.Len(t, view, 3) // capped at classifier limit
	for _, msg := range view {
		require.NotNil(t, msg)
		require.NotEqual(t, schema.Tool, msg.Role)
	}
	require.Equal(t, "классический", view[len(view)-1].Content)
}

func TestFilterForClassifierNoLimit(t *testing.T) {
	view := FilterForClassifier([]*schema.Message{
		schema.UserMessage("a"),
		{Role: schema.Tool, Content: "x"},
		schema.UserMessage("b"),
	}, 0)
	require.Len(t, view, 2)
}

func TestAppendTurnOrderAndContent(t *testing.T) {
	history := newMemoryHistory()
	ctx := context.Background()

	toolCall := &schema.Message{Role: schema.Assistant, ToolCalls: []schema.ToolCall{{ID: "call_1"}}}
	toolResult := &schema.Message{Role: schema.Tool, Content: `{"total":0}`, ToolCallID: "call_1"}

	mgr := NewManager(history, testConfig())
	err := mgr.AppendTurn(ctx, "c1", &model.ConversationState{
		Message:   "хочу маникюр",
		Answer:    "Есть классический и аппаратный.",
		ToolTrace: []*schema.Message{toolCall, nil, toolResult},
	})
	require.NoError(t, err)

	stored := history.messages["c1"]
	require.Len(t, stored, 4)
	require.Equal(t, schema.User, stored[0].Role)
	require.Equal(t, "хочу маникюр", stored[0].Content)
	require.Same(t, toolCall, stored[1])
	require.Same(t, toolResult, stored[2])
	require.Equal(t, schema.Assistant, stored[3].Role)
	require.Equal(t, "Есть классический и аппаратный.", stored[3].Content)
}

func TestAppendTurnSkipsEmptyAnswer(t *testing.T) {
	history := newMemoryHistory()
	mgr := NewManager(history, testConfig())

	err := mgr.AppendTurn(context.Background(), "c1", &model.ConversationState{Message: "привет"})
	require.NoError(t, err)
	require.Len(t, history.messages["c1"], 1)
}

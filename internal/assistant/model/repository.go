package model

import (
	"context"

	"github.com/cloudwego/eino/schema"
)

// HistoryRepository is the durable append-only message log, keyed by
// conversation id. Roles are restricted to user/assistant/tool/system.
type HistoryRepository interface {
	// Append adds a message to the conversation log.
	Append(ctx context.Context, conversationID string, message *schema.Message) error

	// LoadRecent retrieves up to limit most recent messages in order.
	// limit <= 0 loads the full log.
	LoadRecent(ctx context.Context, conversationID string, limit int) ([]*schema.Message, error)

	// Count returns the number of messages in the conversation log.
	Count(ctx context.Context, conversationID string) (int, error)
}

// CheckpointRepository persists the latest ConversationState between turns,
// keyed by the ThreadID the state carries. Load returns (nil, nil) when no
// checkpoint exists.
type CheckpointRepository interface {
	Load(ctx context.Context, threadID string) (*ConversationState, error)
	Save(ctx context.Context, state *ConversationState) error
}

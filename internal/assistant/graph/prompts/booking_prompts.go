package prompts

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"time"

	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/schema"

	"github.com/agadjuka/LookTown-cloud.ru/internal/assistant/model"
)

//go:embed template/analyzer.txt
var analyzerPrompt string

//go:embed template/service_manager.txt
var serviceManagerPrompt string

//go:embed template/slot_manager.txt
var slotManagerPrompt string

//go:embed template/contact_collector.txt
var contactCollectorPrompt string

// RenderAnalyzer renders the extraction-agent system prompt with the current
// booking snapshot and clock.
func RenderAnalyzer(ctx context.Context, cfg model.SalonPromptConfig, booking model.BookingState, now time.Time) (string, error) {
	return renderStep(ctx, analyzerPrompt, cfg, booking, now)
}

// RenderServiceManager renders the service-selection system prompt.
func RenderServiceManager(ctx context.Context, cfg model.SalonPromptConfig, booking model.BookingState, now time.Time) (string, error) {
	return renderStep(ctx, serviceManagerPrompt, cfg, booking, now)
}

// RenderSlotManager renders the slot-search system prompt.
func RenderSlotManager(ctx context.Context, cfg model.SalonPromptConfig, booking model.BookingState, now time.Time) (string, error) {
	return renderStep(ctx, slotManagerPrompt, cfg, booking, now)
}

// RenderContactCollector renders the contact-collection system prompt.
func RenderContactCollector(ctx context.Context, cfg model.SalonPromptConfig, booking model.BookingState, now time.Time) (string, error) {
	return renderStep(ctx, contactCollectorPrompt, cfg, booking, now)
}

// renderStep renders a booking-step system prompt via the Eino prompt
// component so prompt callbacks fire.
func renderStep(ctx context.Context, template string, cfg model.SalonPromptConfig, booking model.BookingState, now time.Time) (string, error) {
	snapshot, err := json.MarshalIndent(booking, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal booking snapshot: %w", err)
	}

	tpl := prompt.FromMessages(
		schema.GoTemplate,
		schema.SystemMessage(template),
	)
	msgs, err := tpl.Format(ctx, map[string]any{
		"SalonName":    cfg.SalonName,
		"Now":          now.Format("2006-01-02 15:04 (Monday)"),
		"BookingState": string(snapshot),
	})
	if err != nil {
		return "", fmt.Errorf("step prompt render: %w", err)
	}
	if len(msgs) == 0 || msgs[0] == nil {
		return "", fmt.Errorf("step prompt render: empty result")
	}
	return msgs[0].Content, nil
}

package prompts

import (
	"context"
	_ "embed"
	"fmt"
	"time"

	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/schema"

	"github.com/agadjuka/LookTown-cloud.ru/internal/assistant/model"
)

//go:embed template/stage_detector.txt
var stageDetectorPrompt string

//go:embed template/cancellation.txt
var cancellationPrompt string

//go:embed template/reschedule.txt
var reschedulePrompt string

//go:embed template/view_bookings.txt
var viewBookingsPrompt string

//go:embed template/about_salon.txt
var aboutSalonPrompt string

// RenderStageDetector renders the intent-classifier system prompt.
func RenderStageDetector(ctx context.Context, cfg model.SalonPromptConfig) (string, error) {
	return renderHandler(ctx, stageDetectorPrompt, cfg, nil)
}

// RenderCancellation renders the cancellation-handler system prompt.
func RenderCancellation(ctx context.Context, cfg model.SalonPromptConfig, now time.Time) (string, error) {
	return renderHandler(ctx, cancellationPrompt, cfg, &now)
}

// RenderReschedule renders the reschedule-handler system prompt.
func RenderReschedule(ctx context.Context, cfg model.SalonPromptConfig, now time.Time) (string, error) {
	return renderHandler(ctx, reschedulePrompt, cfg, &now)
}

// RenderViewBookings renders the view-bookings-handler system prompt.
func RenderViewBookings(ctx context.Context, cfg model.SalonPromptConfig) (string, error) {
	return renderHandler(ctx, viewBookingsPrompt, cfg, nil)
}

// RenderAboutSalon renders the about-salon-handler system prompt.
func RenderAboutSalon(ctx context.Context, cfg model.SalonPromptConfig) (string, error) {
	return renderHandler(ctx, aboutSalonPrompt, cfg, nil)
}

func renderHandler(ctx context.Context, template string, cfg model.SalonPromptConfig, now *time.Time) (string, error) {
	vars := map[string]any{
		"SalonName": cfg.SalonName,
	}
	if now != nil {
		vars["Now"] = now.Format("2006-01-02 15:04 (Monday)")
	}

	tpl := prompt.FromMessages(
		schema.GoTemplate,
		schema.SystemMessage(template),
	)
	msgs, err := tpl.Format(ctx, vars)
	if err != nil {
		return "", fmt.Errorf("handler prompt render: %w", err)
	}
	if len(msgs) == 0 || msgs[0] == nil {
		return "", fmt.Errorf("handler prompt render: empty result")
	}
	return msgs[0].Content, nil
}

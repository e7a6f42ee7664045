package agents

import (
	"context"
	"errors"
	"testing"

	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/require"

	"github.com/agadjuka/LookTown-cloud.ru/internal/assistant/model"
)

func newTestDetector(responses ...*schema.Message) (*StageDetector, *scriptedModel) {
	chat := &scriptedModel{responses: responses}
	return NewStageDetector(chat, "gemini-2.5-flash-lite", model.SalonPromptConfig{SalonName: "LookTown"}), chat
}

func TestClassifyStages(t *testing.T) {
	tests := []struct {
		response string
		want     string
	}{
		{"booking", model.StageBooking},
		{"cancellation_request", model.StageCancellation},
		{"reschedule — клиент хочет перенести", model.StageReschedule},
		{"view_my_booking", model.StageViewMyBooking},
		{`{"stage": "about_salon"}`, model.StageAboutSalon},
	}

	for _, tt := range tests {
		t.Run(tt.response, func(t *testing.T) {
			detector, _ := newTestDetector(schema.AssistantMessage(tt.response, nil))
			cls, err := detector.Classify(context.Background(), "сообщение", nil)
			require.NoError(t, err)
			require.Equal(t, tt.want, cls.Stage)
			require.False(t, cls.Escalate)
		})
	}
}

func TestClassifyManagerEscalates(t *testing.T) {
	detector, _ := newTestDetector(schema.AssistantMessage("manager", nil))
	cls, err := detector.Classify(context.Background(), "позовите человека", nil)
	require.NoError(t, err)
	require.True(t, cls.Escalate)
	require.Empty(t, cls.Stage)
}

func TestClassifyUnknownLabel(t *testing.T) {
	detector, _ := newTestDetector(schema.AssistantMessage("погода сегодня хорошая", nil))
	cls, err := detector.Classify(context.Background(), "какая погода?", nil)
	require.NoError(t, err)
	require.False(t, cls.Escalate)
	require.Empty(t, cls.Stage)
}

func TestClassifyPassesHistory(t *testing.T) {
	detector, chat := newTestDetector(schema.AssistantMessage("booking", nil))

	history := []*schema.Message{
		schema.UserMessage("привет"),
		schema.AssistantMessage("Здравствуйте!", nil),
	}
	_, err := detector.Classify(context.Background(), "запишите меня", history)
	require.NoError(t, err)

	sent := chat.inputs[0]
	require.Equal(t, schema.System, sent[0].Role)
	require.Equal(t, "привет", sent[1].Content)
	require.Equal(t, "запишите меня", sent[len(sent)-1].Content)
}

func TestClassifyModelError(t *testing.T) {
	chat := &scriptedModel{err: errors.New("quota exceeded")}
	detector := NewStageDetector(chat, "gemini-2.5-flash-lite", model.SalonPromptConfig{SalonName: "LookTown"})

	_, err := detector.Classify(context.Background(), "привет", nil)
	require.Error(t, err)
}

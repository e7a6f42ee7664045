package parsers

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/agadjuka/LookTown-cloud.ru/internal/assistant/model"
)

func TestParseStageLabelExact(t *testing.T) {
	require.Equal(t, model.StageBooking, ParseStageLabel("booking"))
	require.Equal(t, model.StageCancellation, ParseStageLabel("cancellation_request"))
	require.Equal(t, model.StageViewMyBooking, ParseStageLabel("  View_My_Booking \n"))
}

func TestParseStageLabelFirstWord(t *testing.T) {
	require.Equal(t, model.StageBooking, ParseStageLabel("booking — клиент хочет записаться"))
	require.Equal(t, model.StageReschedule, ParseStageLabel("reschedule (перенос записи)"))
}

func TestParseStageLabelLongestWins(t *testing.T) {
	// view_my_booking contains "booking" as a substring but not as a word;
	// the longer label must win
	require.Equal(t, model.StageViewMyBooking, ParseStageLabel("стадия: view_my_booking"))
}

func TestParseStageLabelJSONEnvelope(t *testing.T) {
	require.Equal(t, model.StageAboutSalon, ParseStageLabel(`{"stage": "about_salon"}`))
}

func TestParseStageLabelUnknown(t *testing.T) {
	require.Empty(t, ParseStageLabel(""))
	require.Empty(t, ParseStageLabel("что-то непонятное"))
	require.Empty(t, ParseStageLabel("manager"))
	require.Empty(t, ParseStageLabel(`{"stage": "weather"}`))
}

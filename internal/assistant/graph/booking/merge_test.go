package booking

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/agadjuka/LookTown-cloud.ru/internal/assistant/model"
)

func int64p(v int64) *int64 { return &v }

func TestMergeEmptyUpdateKeepsState(t *testing.T) {
	prev := model.BookingState{
		ServiceID:   int64p(10000001),
		ServiceName: "Маникюр классический",
		ClientName:  "Анна",
	}

	next := Merge(prev, model.FieldUpdate{})
	require.Equal(t, prev, next)

	next = Merge(prev, nil)
	require.Equal(t, prev, next)
}

func TestMergeCriticalNullResets(t *testing.T) {
	prev := model.BookingState{
		ServiceID:        int64p(10000001),
		ServiceName:      "Маникюр классический",
		MasterID:         int64p(501),
		MasterName:       "Анна",
		SlotTime:         "2026-09-01 14:00",
		SlotTimeVerified: true,
	}

	next := Merge(prev, model.FieldUpdate{"service_id": nil})
	require.Nil(t, next.ServiceID)
	require.Empty(t, next.SlotTime)
	require.False(t, next.SlotTimeVerified)
	require.Nil(t, next.MasterID)
	require.Empty(t, next.MasterName)
}

func TestMergeSlotNullClearsVerified(t *testing.T) {
	prev := model.BookingState{
		ServiceID:        int64p(10000001),
		SlotTime:         "2026-09-01 14:00",
		SlotTimeVerified: true,
	}

	next := Merge(prev, model.FieldUpdate{"slot_time": nil})
	require.Empty(t, next.SlotTime)
	require.False(t, next.SlotTimeVerified)
	require.Equal(t, int64(10000001), *next.ServiceID)
}

func TestMergeNonCriticalEmptyIgnored(t *testing.T) {
	prev := model.BookingState{
		ClientName:  "Анна",
		ClientPhone: "+79001234567",
	}

	next := Merge(prev, model.FieldUpdate{
		"client_name":  "",
		"client_phone": "   ",
	})
	require.Equal(t, "Анна", next.ClientName)
	require.Equal(t, "+79001234567", next.ClientPhone)
}

func TestMergeServiceChangeInvalidatesSlot(t *testing.T) {
	prev := model.BookingState{
		ServiceID:        int64p(10000001),
		SlotTime:         "2026-09-01 14:00",
		SlotTimeVerified: true,
	}

	next := Merge(prev, model.FieldUpdate{"service_id": float64(10000002)})
	require.Equal(t, int64(10000002), *next.ServiceID)
	require.Empty(t, next.SlotTime)
	require.False(t, next.SlotTimeVerified)

	// same service again is not a change
	next = Merge(prev, model.FieldUpdate{"service_id": float64(10000001)})
	require.Equal(t, "2026-09-01 14:00", next.SlotTime)
	require.True(t, next.SlotTimeVerified)
}

func TestMergeFirstServiceSelectionKeepsSlot(t *testing.T) {
	prev := model.BookingState{
		SlotTime: "2026-09-01 14:00",
	}

	next := Merge(prev, model.FieldUpdate{"service_id": float64(10000001)})
	require.Equal(t, int64(10000001), *next.ServiceID)
	require.Equal(t, "2026-09-01 14:00", next.SlotTime)
}

func TestMergeMasterChangeInvalidatesSlot(t *testing.T) {
	prev := model.BookingState{
		ServiceID:        int64p(10000001),
		MasterID:         int64p(501),
		MasterName:       "Анна",
		SlotTime:         "2026-09-01 14:00",
		SlotTimeVerified: true,
	}

	next := Merge(prev, model.FieldUpdate{"master_id": float64(502), "master_name": "Мария"})
	require.Equal(t, int64(502), *next.MasterID)
	require.Equal(t, "Мария", next.MasterName)
	require.Empty(t, next.SlotTime)
	require.False(t, next.SlotTimeVerified)
}

func TestMergeDateOnlySlotDropped(t *testing.T) {
	prev := model.BookingState{ServiceID: int64p(10000001)}

	next := Merge(prev, model.FieldUpdate{"slot_time": "2026-09-01 00:00"})
	require.Empty(t, next.SlotTime)
	require.False(t, next.SlotTimeVerified)
}

func TestMergeNewSlotResetsVerified(t *testing.T) {
	prev := model.BookingState{
		ServiceID:        int64p(10000001),
		SlotTime:         "2026-09-01 14:00",
		SlotTimeVerified: true,
	}

	next := Merge(prev, model.FieldUpdate{"slot_time": "2026-09-01 16:00"})
	require.Equal(t, "2026-09-01 16:00", next.SlotTime)
	require.False(t, next.SlotTimeVerified)
}

func TestMergeVerifiedNeverTrueWithoutSlot(t *testing.T) {
	prev := model.BookingState{ServiceID: int64p(10000001)}

	next := Merge(prev, model.FieldUpdate{"slot_time_verified": true})
	require.False(t, next.SlotTimeVerified)
}

func TestMergeFinalizedIsTerminal(t *testing.T) {
	prev := model.BookingState{
		ServiceID:   int64p(10000001),
		IsFinalized: true,
	}

	next := Merge(prev, model.FieldUpdate{"service_id": nil, "client_name": "Пётр"})
	require.Equal(t, prev, next)
}

func TestMergeQuotedNumericID(t *testing.T) {
	next := Merge(model.BookingState{}, model.FieldUpdate{"service_id": "10000003"})
	require.NotNil(t, next.ServiceID)
	require.Equal(t, int64(10000003), *next.ServiceID)
}

func TestMergeNonNumericIDDiscarded(t *testing.T) {
	next := Merge(model.BookingState{}, model.FieldUpdate{"service_id": "маникюр"})
	require.Nil(t, next.ServiceID)
}

func TestMergeServiceDetailsNeededFlag(t *testing.T) {
	next := Merge(model.BookingState{}, model.FieldUpdate{"service_details_needed": true})
	require.True(t, next.ServiceDetailsNeeded)

	next = Merge(next, model.FieldUpdate{"service_details_needed": false})
	require.False(t, next.ServiceDetailsNeeded)
}

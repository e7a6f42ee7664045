package booking

import (
	"github.com/agadjuka/LookTown-cloud.ru/internal/assistant/model"
	logx "github.com/agadjuka/LookTown-cloud.ru/pkg/logger"
)

// Merge applies an extraction-agent field update to the booking sub-state
// and returns the next state. The update distinguishes three cases per
// field: absent (leave the previous value alone), explicit null (reset) and
// an explicit value (overwrite).
//
// Critical fields (service_id, slot_time, master_id, master_name,
// slot_time_verified) honor explicit nulls as resets so a topic change can
// roll progress back deterministically. Non-critical fields (service_name,
// client_name, client_phone) only ever overwrite with a non-empty value, so
// a quiet turn never erases a name or phone number already collected.
func Merge(prev model.BookingState, update model.FieldUpdate) model.BookingState {
	// A finalized booking is terminal; nothing mutates it.
	if prev.IsFinalized {
		return prev
	}
	next := *prev.Clone()
	if len(update) == 0 {
		return next
	}

	// Explicit null service_id means the client abandoned the chosen
	// service: everything tied to it goes with it.
	if update.IsNull(model.FieldServiceID) {
		next.ServiceID = nil
		next.SlotTime = ""
		next.SlotTimeVerified = false
		next.MasterID = nil
		next.MasterName = ""
	}
	if update.IsNull(model.FieldSlotTime) {
		next.SlotTime = ""
		next.SlotTimeVerified = false
	}
	if update.IsNull(model.FieldMasterID) {
		next.MasterID = nil
		next.MasterName = ""
	}
	if update.IsNull(model.FieldMasterName) {
		next.MasterName = ""
	}

	if update.Has(model.FieldServiceID) && !update.IsNull(model.FieldServiceID) {
		if id, ok := update.Int64(model.FieldServiceID); ok {
			// Switching to a different service invalidates a previously
			// chosen time.
			if next.ServiceID != nil && *next.ServiceID != id {
				next.SlotTime = ""
				next.SlotTimeVerified = false
			}
			next.ServiceID = &id
		} else {
			logx.Warn().Any("value", update[model.FieldServiceID]).Msg("discarding non-numeric service_id")
		}
	}
	if update.Has(model.FieldMasterID) && !update.IsNull(model.FieldMasterID) {
		if id, ok := update.Int64(model.FieldMasterID); ok {
			if next.MasterID != nil && *next.MasterID != id {
				next.SlotTime = ""
				next.SlotTimeVerified = false
			}
			next.MasterID = &id
		} else {
			logx.Warn().Any("value", update[model.FieldMasterID]).Msg("discarding non-numeric master_id")
		}
	}
	if v, ok := update.String(model.FieldMasterName); ok {
		next.MasterName = v
	}

	if v, ok := update.String(model.FieldSlotTime); ok {
		switch {
		case model.IsDateOnly(v):
			// Midnight means "date named, time unspecified": not a bookable
			// slot, so the field stays as it was and slot search covers the
			// whole day.
			logx.Debug().Str("slot_time", v).Msg("date-only slot time, not storing")
		case v != next.SlotTime:
			next.SlotTime = v
			next.SlotTimeVerified = false
		}
	}
	if v, ok := update.Bool(model.FieldSlotTimeVerified); ok {
		next.SlotTimeVerified = v
	}

	if v, ok := update.String(model.FieldServiceName); ok {
		next.ServiceName = v
	}
	if v, ok := update.String(model.FieldClientName); ok {
		next.ClientName = v
	}
	if v, ok := update.String(model.FieldClientPhone); ok {
		next.ClientPhone = v
	}
	if v, ok := update.Bool(model.FieldServiceDetailsNeeded); ok {
		next.ServiceDetailsNeeded = v
	}

	// A verified flag without a slot is meaningless.
	if next.SlotTime == "" {
		next.SlotTimeVerified = false
	}
	return next
}

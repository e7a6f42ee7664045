package model

import (
	"strconv"
	"strings"
)

// Booking field names as they appear in extraction-agent JSON.
const (
	FieldServiceID            = "service_id"
	FieldServiceName          = "service_name"
	FieldMasterID             = "master_id"
	FieldMasterName           = "master_name"
	FieldSlotTime             = "slot_time"
	FieldSlotTimeVerified     = "slot_time_verified"
	FieldClientName           = "client_name"
	FieldClientPhone          = "client_phone"
	FieldServiceDetailsNeeded = "service_details_needed"
)

var bookingFields = map[string]bool{
	FieldServiceID:            true,
	FieldServiceName:          true,
	FieldMasterID:             true,
	FieldMasterName:           true,
	FieldSlotTime:             true,
	FieldSlotTimeVerified:     true,
	FieldClientName:           true,
	FieldClientPhone:          true,
	FieldServiceDetailsNeeded: true,
}

// IsBookingField reports whether the key belongs to the extraction contract.
func IsBookingField(name string) bool {
	return bookingFields[name]
}

// FieldUpdate is a partial booking-state update produced by an extraction
// agent. Key presence means the field was explicitly touched this turn; an
// explicit null value is a deliberate reset and must be distinguished from
// an absent key, which leaves the previous value alone.
type FieldUpdate map[string]any

// Has reports whether the field was explicitly touched.
func (u FieldUpdate) Has(field string) bool {
	_, ok := u[field]
	return ok
}

// IsNull reports whether the field was explicitly reset.
func (u FieldUpdate) IsNull(field string) bool {
	v, ok := u[field]
	return ok && v == nil
}

// String returns the field as a non-empty trimmed string.
func (u FieldUpdate) String(field string) (string, bool) {
	v, ok := u[field]
	if !ok || v == nil {
		return "", false
	}
	s, ok := v.(string)
	if !ok {
		return "", false
	}
	s = strings.TrimSpace(s)
	return s, s != ""
}

// Int64 returns the field as an integer id. JSON numbers decode as float64;
// numeric strings are accepted because extraction models occasionally quote
// ids.
func (u FieldUpdate) Int64(field string) (int64, bool) {
	v, ok := u[field]
	if !ok || v == nil {
		return 0, false
	}
	switch n := v.(type) {
	case float64:
		return int64(n), true
	case int64:
		return n, true
	case int:
		return int64(n), true
	case string:
		parsed, err := strconv.ParseInt(strings.TrimSpace(n), 10, 64)
		if err != nil {
			return 0, false
		}
		return parsed, true
	}
	return 0, false
}

// Bool returns the field as a boolean.
func (u FieldUpdate) Bool(field string) (bool, bool) {
	v, ok := u[field]
	if !ok || v == nil {
		return false, false
	}
	b, ok := v.(bool)
	return b, ok
}

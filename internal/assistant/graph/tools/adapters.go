package tools

import (
	"context"
	"fmt"
	"time"

	"github.com/agadjuka/LookTown-cloud.ru/internal/assistant/graph/booking"
	"github.com/agadjuka/LookTown-cloud.ru/internal/assistant/model"
	"github.com/agadjuka/LookTown-cloud.ru/internal/salon"
)

// SalonSlotChecker adapts the salon schedule to the booking engine's
// availability check.
type SalonSlotChecker struct {
	salon *salon.Salon
}

func NewSalonSlotChecker(s *salon.Salon) *SalonSlotChecker {
	return &SalonSlotChecker{salon: s}
}

func (c *SalonSlotChecker) CheckSlot(ctx context.Context, serviceID int64, masterID *int64, at time.Time) (booking.CheckResult, error) {
	ok, alternatives, err := c.salon.CheckSlot(serviceID, masterID, at)
	if err != nil {
		return booking.CheckResult{}, err
	}
	res := booking.CheckResult{Available: ok}
	for _, slot := range alternatives {
		t, err := model.ParseSlotTime(slot.Time)
		if err != nil {
			continue
		}
		res.Alternatives = append(res.Alternatives, fmt.Sprintf("%s (%s)", t.Format("15:04"), slot.MasterName))
	}
	return res, nil
}

// SalonBookingCreator adapts the salon backend to the booking engine's
// finalize step.
type SalonBookingCreator struct {
	salon *salon.Salon
}

func NewSalonBookingCreator(s *salon.Salon) *SalonBookingCreator {
	return &SalonBookingCreator{salon: s}
}

func (c *SalonBookingCreator) Create(ctx context.Context, req booking.CreateRequest) (booking.Confirmation, error) {
	b, err := c.salon.CreateBooking(req.ServiceID, req.MasterID, req.ClientName, req.ClientPhone, req.At)
	if err != nil {
		return booking.Confirmation{}, err
	}

	conf := booking.Confirmation{
		BookingID:  b.ID,
		MasterName: req.MasterName,
		At:         b.StartsAt,
	}
	if svc, ok := c.salon.ServiceByID(b.ServiceID); ok {
		conf.ServiceName = svc.Name
	}
	// the salon may have picked a master when the client had no preference
	if conf.MasterName == "" {
		for _, m := range c.salon.MastersForService(b.ServiceID) {
			if m.ID == b.MasterID {
				conf.MasterName = m.Name
				break
			}
		}
	}
	return conf, nil
}

var (
	_ booking.SlotChecker    = (*SalonSlotChecker)(nil)
	_ booking.BookingCreator = (*SalonBookingCreator)(nil)
)

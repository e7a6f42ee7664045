package salon

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"
)

var (
	ErrServiceNotFound = errors.New("service not found")
	ErrMasterNotFound  = errors.New("master not found")
	ErrBookingNotFound = errors.New("booking not found")
	ErrSlotTaken       = errors.New("slot is not available")
	ErrSlotInPast      = errors.New("slot is in the past")
)

// Service is a bookable salon service.
type Service struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Category    string  `json:"category"`
	Price       float64 `json:"price"`
	DurationMin int     `json:"duration_min"`
	Description string  `json:"description"`
}

// Master is a staff member and the set of services they perform.
type Master struct {
	ID         int64   `json:"id"`
	Name       string  `json:"name"`
	Grade      string  `json:"grade"`
	ServiceIDs []int64 `json:"service_ids"`
}

// Booking is a confirmed appointment.
type Booking struct {
	ID          int64     `json:"id"`
	ServiceID   int64     `json:"service_id"`
	MasterID    int64     `json:"master_id"`
	ClientName  string    `json:"client_name"`
	ClientPhone string    `json:"client_phone"`
	StartsAt    time.Time `json:"starts_at"`
	Canceled    bool      `json:"canceled"`
}

// Slot is one free appointment option.
type Slot struct {
	MasterID   int64  `json:"master_id"`
	MasterName string `json:"master_name"`
	Time       string `json:"time"` // "2006-01-02 15:04"
}

const slotLayout = "2006-01-02 15:04"

// Salon is the in-memory schedule and catalog backend the booking tools call
// into. All methods are safe for concurrent use.
type Salon struct {
	mu       sync.Mutex
	name     string
	about    string
	services []Service
	masters  []Master
	bookings map[int64]*Booking
	nextID   int64

	openHour  int
	closeHour int

	now func() time.Time
}

// Option configures a Salon.
type Option func(*Salon)

// WithClock overrides the time source, used by tests to pin "today".
func WithClock(now func() time.Time) Option {
	return func(s *Salon) { s.now = now }
}

// New creates a salon backend over the given catalog.
func New(name, about string, services []Service, masters []Master, opts ...Option) *Salon {
	s := &Salon{
		name:      name,
		about:     about,
		services:  services,
		masters:   masters,
		bookings:  map[int64]*Booking{},
		nextID:    1000,
		openHour:  10,
		closeHour: 20,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Salon) Name() string  { return s.name }
func (s *Salon) About() string { return s.about }

// Categories lists distinct service categories in catalog order.
func (s *Salon) Categories() []string {
	seen := map[string]bool{}
	var out []string
	for _, svc := range s.services {
		if !seen[svc.Category] {
			seen[svc.Category] = true
			out = append(out, svc.Category)
		}
	}
	return out
}

// FindServices searches the catalog by free-text query and optional category.
// An empty query within a category returns the whole category.
func (s *Salon) FindServices(query, category string) []Service {
	q := strings.ToLower(strings.TrimSpace(query))
	var out []Service
	for _, svc := range s.services {
		if category != "" && !strings.EqualFold(svc.Category, category) {
			continue
		}
		if q == "" ||
			strings.Contains(strings.ToLower(svc.Name), q) ||
			strings.Contains(strings.ToLower(svc.Category), q) ||
			strings.Contains(strings.ToLower(svc.Description), q) {
			out = append(out, svc)
		}
	}
	return out
}

// ServiceByID looks up one service.
func (s *Salon) ServiceByID(id int64) (Service, bool) {
	for _, svc := range s.services {
		if svc.ID == id {
			return svc, true
		}
	}
	return Service{}, false
}

// MastersForService lists staff performing the given service.
func (s *Salon) MastersForService(serviceID int64) []Master {
	var out []Master
	for _, m := range s.masters {
		for _, id := range m.ServiceIDs {
			if id == serviceID {
				out = append(out, m)
				break
			}
		}
	}
	return out
}

// MasterByName resolves a staff member by case-insensitive name match.
func (s *Salon) MasterByName(name string) (Master, bool) {
	name = strings.TrimSpace(name)
	for _, m := range s.masters {
		if strings.EqualFold(m.Name, name) {
			return m, true
		}
	}
	return Master{}, false
}

// FindSlots returns free hourly slots for a service, optionally narrowed to
// one master, a single date ("2006-01-02") and a time period (morning, day,
// evening, "after 15:00", "before 12:00"). With no date it scans the next
// three days starting tomorrow.
func (s *Salon) FindSlots(serviceID int64, masterID *int64, date, period string) ([]Slot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	masters, err := s.qualifyingMasters(serviceID, masterID)
	if err != nil {
		return nil, err
	}

	var days []time.Time
	if date != "" {
		d, err := time.ParseInLocation("2006-01-02", date, s.now().Location())
		if err != nil {
			return nil, fmt.Errorf("bad date %q: %w", date, err)
		}
		days = append(days, d)
	} else {
		today := s.today()
		for i := 1; i <= 3; i++ {
			days = append(days, today.AddDate(0, 0, i))
		}
	}

	fromHour, toHour := s.periodBounds(period)

	var out []Slot
	for _, day := range days {
		for hour := fromHour; hour < toHour; hour++ {
			at := time.Date(day.Year(), day.Month(), day.Day(), hour, 0, 0, 0, day.Location())
			if !at.After(s.now()) {
				continue
			}
			for _, m := range masters {
				if s.masterFree(m.ID, at) {
					out = append(out, Slot{MasterID: m.ID, MasterName: m.Name, Time: at.Format(slotLayout)})
				}
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Time < out[j].Time })
	return out, nil
}

// CheckSlot verifies real-time availability of one concrete slot. When the
// slot is taken it also returns free alternatives for the same day.
func (s *Salon) CheckSlot(serviceID int64, masterID *int64, at time.Time) (bool, []Slot, error) {
	s.mu.Lock()
	masters, err := s.qualifyingMasters(serviceID, masterID)
	if err != nil {
		s.mu.Unlock()
		return false, nil, err
	}

	ok := false
	if at.After(s.now()) && at.Hour() >= s.openHour && at.Hour() < s.closeHour {
		for _, m := range masters {
			if s.masterFree(m.ID, at) {
				ok = true
				break
			}
		}
	}
	s.mu.Unlock()

	if ok {
		return true, nil, nil
	}
	alternatives, err := s.FindSlots(serviceID, masterID, at.Format("2006-01-02"), "")
	if err != nil {
		return false, nil, err
	}
	return false, alternatives, nil
}

// CreateBooking books a concrete slot. When masterID is nil the first free
// qualifying master takes the appointment.
func (s *Salon) CreateBooking(serviceID int64, masterID *int64, clientName, clientPhone string, at time.Time) (*Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !at.After(s.now()) {
		return nil, ErrSlotInPast
	}
	masters, err := s.qualifyingMasters(serviceID, masterID)
	if err != nil {
		return nil, err
	}

	for _, m := range masters {
		if !s.masterFree(m.ID, at) {
			continue
		}
		s.nextID++
		b := &Booking{
			ID:          s.nextID,
			ServiceID:   serviceID,
			MasterID:    m.ID,
			ClientName:  clientName,
			ClientPhone: clientPhone,
			StartsAt:    at,
		}
		s.bookings[b.ID] = b
		return b, nil
	}
	return nil, ErrSlotTaken
}

// CancelBooking marks an existing booking canceled.
func (s *Salon) CancelBooking(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.bookings[id]
	if !ok || b.Canceled {
		return ErrBookingNotFound
	}
	b.Canceled = true
	return nil
}

// RescheduleBooking moves an existing booking to a new slot with the same
// master.
func (s *Salon) RescheduleBooking(id int64, at time.Time) (*Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.bookings[id]
	if !ok || b.Canceled {
		return nil, ErrBookingNotFound
	}
	if !at.After(s.now()) {
		return nil, ErrSlotInPast
	}
	if !s.masterFreeExcept(b.MasterID, at, id) {
		return nil, ErrSlotTaken
	}
	b.StartsAt = at
	return b, nil
}

// BookingsForPhone lists upcoming appointments for a client phone number.
func (s *Salon) BookingsForPhone(phone string) []Booking {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []Booking
	for _, b := range s.bookings {
		if b.Canceled || b.ClientPhone != phone || b.StartsAt.Before(s.now()) {
			continue
		}
		out = append(out, *b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartsAt.Before(out[j].StartsAt) })
	return out
}

func (s *Salon) qualifyingMasters(serviceID int64, masterID *int64) ([]Master, error) {
	if _, ok := s.ServiceByID(serviceID); !ok {
		return nil, ErrServiceNotFound
	}
	var out []Master
	for _, m := range s.masters {
		if masterID != nil && m.ID != *masterID {
			continue
		}
		for _, id := range m.ServiceIDs {
			if id == serviceID {
				out = append(out, m)
				break
			}
		}
	}
	if len(out) == 0 {
		return nil, ErrMasterNotFound
	}
	return out, nil
}

func (s *Salon) masterFree(masterID int64, at time.Time) bool {
	return s.masterFreeExcept(masterID, at, 0)
}

func (s *Salon) masterFreeExcept(masterID int64, at time.Time, exceptBookingID int64) bool {
	for _, b := range s.bookings {
		if b.Canceled || b.MasterID != masterID || b.ID == exceptBookingID {
			continue
		}
		if b.StartsAt.Equal(at) {
			return false
		}
	}
	return true
}

func (s *Salon) today() time.Time {
	n := s.now()
	return time.Date(n.Year(), n.Month(), n.Day(), 0, 0, 0, 0, n.Location())
}

func (s *Salon) periodBounds(period string) (int, int) {
	p := strings.ToLower(strings.TrimSpace(period))
	switch {
	case p == "morning":
		return s.openHour, 13
	case p == "day":
		return 13, 17
	case p == "evening":
		return 17, s.closeHour
	case strings.HasPrefix(p, "after "):
		if h, ok := parseHour(strings.TrimPrefix(p, "after ")); ok {
			return max(h, s.openHour), s.closeHour
		}
	case strings.HasPrefix(p, "before "):
		if h, ok := parseHour(strings.TrimPrefix(p, "before ")); ok {
			return s.openHour, min(h, s.closeHour)
		}
	}
	return s.openHour, s.closeHour
}

func parseHour(v string) (int, bool) {
	v = strings.TrimSpace(v)
	if i := strings.Index(v, ":"); i > 0 {
		v = v[:i]
	}
	var h int
	if _, err := fmt.Sscanf(v, "%d", &h); err != nil || h < 0 || h > 23 {
		return 0, false
	}
	return h, true
}

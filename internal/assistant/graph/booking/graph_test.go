package booking

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/agadjuka/LookTown-cloud.ru/internal/assistant/model"
)

type stubAgent struct {
	name    string
	results []*model.StepResult
	err     error
	calls   int
}

func (s *stubAgent) Name() string { return s.name }

func (s *stubAgent) Run(ctx context.Context, req model.StepRequest) (*model.StepResult, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	if len(s.results) == 0 {
		return &model.StepResult{}, nil
	}
	res := s.results[0]
	if len(s.results) > 1 {
		s.results = s.results[1:]
	}
	return res, nil
}

type stubChecker struct {
	available    bool
	alternatives []string
	err          error
	calls        int
}

func (s *stubChecker) CheckSlot(ctx context.Context, serviceID int64, masterID *int64, at time.Time) (CheckResult, error) {
	s.calls++
	if s.err != nil {
		return CheckResult{}, s.err
	}
	return CheckResult{Available: s.available, Alternatives: s.alternatives}, nil
}

type stubCreator struct {
	conf  Confirmation
	err   error
	calls int
}

func (s *stubCreator) Create(ctx context.Context, req CreateRequest) (Confirmation, error) {
	s.calls++
	if s.err != nil {
		return Confirmation{}, s.err
	}
	return s.conf, nil
}

type engineStubs struct {
	analyzer         *stubAgent
	serviceManager   *stubAgent
	slotManager      *stubAgent
	contactCollector *stubAgent
	checker          *stubChecker
	creator          *stubCreator
}

func newEngineStubs() *engineStubs {
	return &engineStubs{
		analyzer:         &stubAgent{name: "analyzer"},
		serviceManager:   &stubAgent{name: "service_manager"},
		slotManager:      &stubAgent{name: "slot_manager"},
		contactCollector: &stubAgent{name: "contact_collector"},
		checker:          &stubChecker{available: true},
		creator: &stubCreator{conf: Confirmation{
			BookingID:   1001,
			ServiceName: "Маникюр классический",
			MasterName:  "Анна",
			At:          time.Date(2026, 9, 1, 14, 0, 0, 0, time.UTC),
		}},
	}
}

func buildEngine(t *testing.T, s *engineStubs) func(*model.ConversationState) *model.ConversationState {
	t.Helper()
	engine, err := Build(context.Background(), Config{
		Analyzer:         s.analyzer,
		ServiceManager:   s.serviceManager,
		SlotManager:      s.slotManager,
		ContactCollector: s.contactCollector,
		Slots:            s.checker,
		Bookings:         s.creator,
	})
	require.NoError(t, err)
	return func(st *model.ConversationState) *model.ConversationState {
		out, err := engine.Invoke(context.Background(), st)
		require.NoError(t, err)
		return out
	}
}

func TestEngineFullFlowSingleTurn(t *testing.T) {
	s := newEngineStubs()
	s.analyzer.results = []*model.StepResult{{Update: model.FieldUpdate{
		"service_id":   float64(10000001),
		"service_name": "Маникюр классический",
		"slot_time":    "2026-09-01 14:00",
		"client_name":  "Анна",
		"client_phone": "+79001234567",
	}}}
	run := buildEngine(t, s)

	out := run(&model.ConversationState{ThreadID: "t1", Message: "запишите меня"})

	require.True(t, out.Booking.IsFinalized)
	require.True(t, out.Booking.SlotTimeVerified)
	require.Contains(t, out.Answer, "Маникюр классический")
	require.Contains(t, out.Answer, "01.09.2026 в 14:00")
	require.Equal(t, 1, s.checker.calls)
	require.Equal(t, 1, s.creator.calls)
	// everything was already collected, the other agents never ran
	require.Zero(t, s.serviceManager.calls)
	require.Zero(t, s.slotManager.calls)
	require.Zero(t, s.contactCollector.calls)
}

func TestEngineReplyEndsTurn(t *testing.T) {
	s := newEngineStubs()
	s.serviceManager.results = []*model.StepResult{{Reply: "У нас есть маникюр и педикюр. Что выбираете?"}}
	run := buildEngine(t, s)

	out := run(&model.ConversationState{ThreadID: "t1", Message: "хочу записаться"})

	require.Equal(t, "У нас есть маникюр и педикюр. Что выбираете?", out.Answer)
	require.Nil(t, out.Booking.ServiceID)
	require.False(t, out.ManagerAlert)
	require.Equal(t, 1, s.serviceManager.calls)
	require.Zero(t, s.slotManager.calls)
}

func TestEngineEscalationShortCircuits(t *testing.T) {
	s := newEngineStubs()
	s.analyzer.results = []*model.StepResult{{Escalate: true}}
	run := buildEngine(t, s)

	out := run(&model.ConversationState{ThreadID: "t1", Message: "позовите человека"})

	require.True(t, out.ManagerAlert)
	require.Equal(t, model.DefaultHandoffMessage, out.Answer)
	require.Zero(t, s.serviceManager.calls)
	require.Zero(t, s.slotManager.calls)
	require.Zero(t, s.contactCollector.calls)
	require.Zero(t, s.creator.calls)
}

func TestEngineEscalationWinsOverUpdate(t *testing.T) {
	s := newEngineStubs()
	s.analyzer.results = []*model.StepResult{{
		Escalate: true,
		Handoff:  "Передаю менеджеру.",
		Update:   model.FieldUpdate{"service_id": float64(10000001)},
	}}
	run := buildEngine(t, s)

	out := run(&model.ConversationState{ThreadID: "t1", Message: "ужасный сервис"})

	require.True(t, out.ManagerAlert)
	require.Equal(t, "Передаю менеджеру.", out.Answer)
	require.Nil(t, out.Booking.ServiceID)
}

func TestEngineStructuredUpdateLoopsBack(t *testing.T) {
	s := newEngineStubs()
	s.serviceManager.results = []*model.StepResult{{Update: model.FieldUpdate{
		"service_id":   float64(10000001),
		"service_name": "Маникюр классический",
	}}}
	s.slotManager.results = []*model.StepResult{{Reply: "Есть время завтра в 14:00 и 16:00."}}
	run := buildEngine(t, s)

	out := run(&model.ConversationState{ThreadID: "t1", Message: "маникюр, пожалуйста"})

	// service manager's update was merged silently, then routing re-ran and
	// the slot manager produced the reply
	require.Equal(t, 1, s.serviceManager.calls)
	require.Equal(t, 1, s.slotManager.calls)
	require.Equal(t, int64(10000001), *out.Booking.ServiceID)
	require.Equal(t, "Есть время завтра в 14:00 и 16:00.", out.Answer)
}

func TestEngineSlotTakenClearsAndOffersAlternatives(t *testing.T) {
	s := newEngineStubs()
	s.checker.available = false
	s.checker.alternatives = []string{"15:00 (Анна)", "17:00 (Мария)"}
	run := buildEngine(t, s)

	out := run(&model.ConversationState{
		ThreadID: "t1",
		Message:  "завтра в 14",
		Booking: &model.BookingState{
			ServiceID: int64p(10000001),
			SlotTime:  "2026-09-01 14:00",
		},
	})

	require.Empty(t, out.Booking.SlotTime)
	require.False(t, out.Booking.SlotTimeVerified)
	require.Contains(t, out.Answer, "01.09.2026 в 14:00")
	require.Contains(t, out.Answer, "15:00 (Анна)")
	// the agent never ran: the deterministic check produced the reply
	require.Zero(t, s.slotManager.calls)
}

func TestEngineVerifiedSlotFallsThroughToContacts(t *testing.T) {
	s := newEngineStubs()
	s.contactCollector.results = []*model.StepResult{{Reply: "Как вас зовут и по какому номеру с вами связаться?"}}
	run := buildEngine(t, s)

	out := run(&model.ConversationState{
		ThreadID: "t1",
		Message:  "давайте в 14:00",
		Booking: &model.BookingState{
			ServiceID: int64p(10000001),
			SlotTime:  "2026-09-01 14:00",
		},
	})

	require.True(t, out.Booking.SlotTimeVerified)
	require.Equal(t, 1, s.checker.calls)
	require.Equal(t, 1, s.contactCollector.calls)
	require.Equal(t, "Как вас зовут и по какому номеру с вами связаться?", out.Answer)
}

func TestEngineAgentErrorEscalates(t *testing.T) {
	s := newEngineStubs()
	s.serviceManager.err = errors.New("model unavailable")
	run := buildEngine(t, s)

	out := run(&model.ConversationState{ThreadID: "t1", Message: "хочу маникюр"})

	require.True(t, out.ManagerAlert)
	require.Equal(t, model.DefaultHandoffMessage, out.Answer)
}

func TestEngineAnalyzerErrorContinues(t *testing.T) {
	s := newEngineStubs()
	s.analyzer.err = errors.New("model unavailable")
	s.serviceManager.results = []*model.StepResult{{Reply: "Какую услугу вы хотите?"}}
	run := buildEngine(t, s)

	out := run(&model.ConversationState{ThreadID: "t1", Message: "привет"})

	require.False(t, out.ManagerAlert)
	require.Equal(t, "Какую услугу вы хотите?", out.Answer)
}

func TestEngineFinalizerCreateErrorEscalates(t *testing.T) {
	s := newEngineStubs()
	s.creator.err = errors.New("backend down")
	run := buildEngine(t, s)

	out := run(&model.ConversationState{
		ThreadID: "t1",
		Message:  "да, подтверждаю",
		Booking: &model.BookingState{
			ServiceID:        int64p(10000001),
			SlotTime:         "2026-09-01 14:00",
			SlotTimeVerified: true,
			ClientName:       "Анна",
			ClientPhone:      "+79001234567",
		},
	})

	require.True(t, out.ManagerAlert)
	require.False(t, out.Booking.IsFinalized)
}

func TestEngineUnparseableSlotFallsBackToSearch(t *testing.T) {
	s := newEngineStubs()
	s.slotManager.results = []*model.StepResult{{Reply: "Когда вам удобно?"}}
	run := buildEngine(t, s)

	out := run(&model.ConversationState{
		ThreadID: "t1",
		Message:  "запишите на когда-нибудь",
		Booking: &model.BookingState{
			ServiceID: int64p(10000001),
			SlotTime:  "завтра днём",
		},
	})

	require.Empty(t, out.Booking.SlotTime)
	require.Zero(t, s.checker.calls)
	require.Equal(t, 1, s.slotManager.calls)
	require.Equal(t, "Когда вам удобно?", out.Answer)
}

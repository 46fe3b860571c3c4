package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/brightdesk/portal/internal/models"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

// --- In-memory RegistrationRepository ---

// memRegRepo serializes whole transactions through a mutex, mirroring the
// row lock the real repository takes on the event.
type memRegRepo struct {
	mu     sync.Mutex
	regs   []models.Registration
	nextID uint
	now    time.Time
}

func newMemRegRepo() *memRegRepo {
	return &memRegRepo{nextID: 1, now: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}
}

func (m *memRegRepo) Create(ctx context.Context, tx *gorm.DB, reg *models.Registration) error {
	for _, r := range m.regs {
		if r.EventID == reg.EventID && r.UserID == reg.UserID {
			return gorm.ErrDuplicatedKey
		}
	}
	reg.ID = m.nextID
	m.nextID++
	reg.CreatedAt = m.now
	m.now = m.now.Add(time.Second)
	m.regs = append(m.regs, *reg)
	return nil
}

func (m *memRegRepo) FindByEventAndUser(ctx context.Context, tx *gorm.DB, eventID, userID uint) (*models.Registration, error) {
	for _, r := range m.regs {
		if r.EventID == eventID && r.UserID == userID {
			reg := r
			return &reg, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *memRegRepo) CountByState(ctx context.Context, tx *gorm.DB, eventID uint, state models.RegistrationState) (int64, error) {
	var n int64
	for _, r := range m.regs {
		if r.EventID == eventID && r.State == state {
			n++
		}
	}
	return n, nil
}

func (m *memRegRepo) UpdateState(ctx context.Context, tx *gorm.DB, regID uint, state models.RegistrationState) error {
	for i := range m.regs {
		if m.regs[i].ID == regID {
			m.regs[i].State = state
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (m *memRegRepo) Delete(ctx context.Context, tx *gorm.DB, regID uint) error {
	for i := range m.regs {
		if m.regs[i].ID == regID {
			m.regs = append(m.regs[:i], m.regs[i+1:]...)
			return nil
		}
	}
	return nil
}

func (m *memRegRepo) FindFirstWaitlisted(ctx context.Context, tx *gorm.DB, eventID uint) (*models.Registration, error) {
	var head *models.Registration
	for i := range m.regs {
		r := &m.regs[i]
		if r.EventID != eventID || r.State != models.StateWaitlist {
			continue
		}
		if head == nil ||
			r.CreatedAt.Before(head.CreatedAt) ||
			(r.CreatedAt.Equal(head.CreatedAt) && r.ID < head.ID) {
			head = r
		}
	}
	if head == nil {
		return nil, gorm.ErrRecordNotFound
	}
	reg := *head
	return &reg, nil
}

func (m *memRegRepo) FindByEventID(ctx context.Context, eventID uint, state *models.RegistrationState) ([]models.Registration, error) {
	var out []models.Registration
	for _, r := range m.regs {
		if r.EventID == eventID && (state == nil || r.State == *state) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *memRegRepo) InTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return fn(nil)
}

func (m *memRegRepo) GetDB() *gorm.DB { return nil }

// --- Mock EventRepository ---

type mockEventRepo struct {
	events map[uint]*models.Event
}

func (m *mockEventRepo) Create(ctx context.Context, event *models.Event) error { return nil }
func (m *mockEventRepo) FindByID(ctx context.Context, id uint) (*models.Event, error) {
	if e, ok := m.events[id]; ok {
		return e, nil
	}
	return nil, gorm.ErrRecordNotFound
}
func (m *mockEventRepo) FindByIDForUpdate(ctx context.Context, tx *gorm.DB, id uint) (*models.Event, error) {
	return m.FindByID(ctx, id)
}
func (m *mockEventRepo) FindAll(ctx context.Context) ([]models.Event, error) { return nil, nil }
func (m *mockEventRepo) Update(ctx context.Context, event *models.Event) error {
	return nil
}
func (m *mockEventRepo) Delete(ctx context.Context, id uint) error { return nil }

func intPtr(n int) *int { return &n }

func newRSVPFixture(capacity *int) (RSVPService, *memRegRepo) {
	regs := newMemRegRepo()
	events := &mockEventRepo{events: map[uint]*models.Event{
		1: {ID: 1, Slug: "all-hands", Title: "All Hands", Capacity: capacity},
	}}
	users := &mockUserRepo{byEmail: map[string]*models.User{
		"a@example.com": {ID: 10, Email: "a@example.com", Active: true},
		"b@example.com": {ID: 11, Email: "b@example.com", Active: true},
		"c@example.com": {ID: 12, Email: "c@example.com", Active: true},
	}}
	return NewRSVPService(regs, events, users, nil), regs
}

// --- Tests ---

func TestJoin_Confirmed(t *testing.T) {
	svc, _ := newRSVPFixture(intPtr(2))

	status, err := svc.Join(context.Background(), 1, 10)

	assert.NoError(t, err)
	assert.Equal(t, models.StateConfirmed, status.State)
	assert.Equal(t, int64(1), status.ConfirmedCount)
	assert.Equal(t, int64(0), status.WaitlistCount)
	assert.Empty(t, status.Notice)
}

func TestJoin_WaitlistedWhenFull(t *testing.T) {
	svc, _ := newRSVPFixture(intPtr(1))

	_, err := svc.Join(context.Background(), 1, 10)
	assert.NoError(t, err)

	status, err := svc.Join(context.Background(), 1, 11)

	assert.NoError(t, err)
	assert.Equal(t, models.StateWaitlist, status.State)
	assert.Equal(t, int64(1), status.ConfirmedCount)
	assert.Equal(t, int64(1), status.WaitlistCount)
	assert.NotEmpty(t, status.Notice)
}

func TestJoin_UnlimitedCapacity(t *testing.T) {
	svc, _ := newRSVPFixture(nil)

	for userID := uint(1); userID <= 25; userID++ {
		status, err := svc.Join(context.Background(), 1, userID)
		assert.NoError(t, err)
		assert.Equal(t, models.StateConfirmed, status.State)
	}

	status, err := svc.GetState(context.Background(), 1, 1)
	assert.NoError(t, err)
	assert.Equal(t, int64(25), status.ConfirmedCount)
	assert.Equal(t, int64(0), status.WaitlistCount)
}

func TestJoin_Idempotent(t *testing.T) {
	svc, regs := newRSVPFixture(intPtr(2))

	first, err := svc.Join(context.Background(), 1, 10)
	assert.NoError(t, err)
	second, err := svc.Join(context.Background(), 1, 10)
	assert.NoError(t, err)

	assert.Equal(t, first.State, second.State)
	assert.Equal(t, int64(1), second.ConfirmedCount)
	assert.Len(t, regs.regs, 1)
}

func TestJoin_EventNotFound(t *testing.T) {
	svc, _ := newRSVPFixture(intPtr(2))

	_, err := svc.Join(context.Background(), 99, 10)

	assert.ErrorIs(t, err, ErrEventNotFound)
}

func TestLeave_NoRegistrationIsNoOp(t *testing.T) {
	svc, _ := newRSVPFixture(intPtr(2))

	status, err := svc.Leave(context.Background(), 1, 10)

	assert.NoError(t, err)
	assert.Equal(t, StateNone, status.State)
	assert.Equal(t, int64(0), status.ConfirmedCount)
}

func TestLeave_ThenGetStateIsNone(t *testing.T) {
	svc, _ := newRSVPFixture(intPtr(2))

	_, err := svc.Join(context.Background(), 1, 10)
	assert.NoError(t, err)
	_, err = svc.Leave(context.Background(), 1, 10)
	assert.NoError(t, err)

	status, err := svc.GetState(context.Background(), 1, 10)
	assert.NoError(t, err)
	assert.Equal(t, StateNone, status.State)
}

// Capacity 2: A and B confirm, C waitlists, A leaves, C is promoted.
func TestLeave_PromotesEarliestWaitlisted(t *testing.T) {
	svc, _ := newRSVPFixture(intPtr(2))
	ctx := context.Background()

	const userA, userB, userC = 10, 11, 12

	for _, u := range []uint{userA, userB} {
		status, err := svc.Join(ctx, 1, u)
		assert.NoError(t, err)
		assert.Equal(t, models.StateConfirmed, status.State)
	}

	status, err := svc.Join(ctx, 1, userC)
	assert.NoError(t, err)
	assert.Equal(t, models.StateWaitlist, status.State)
	assert.Equal(t, int64(1), status.WaitlistCount)

	status, err = svc.Leave(ctx, 1, userA)
	assert.NoError(t, err)
	assert.Equal(t, StateNone, status.State)
	assert.Equal(t, int64(2), status.ConfirmedCount)
	assert.Equal(t, int64(0), status.WaitlistCount)

	cStatus, err := svc.GetState(ctx, 1, userC)
	assert.NoError(t, err)
	assert.Equal(t, models.StateConfirmed, cStatus.State)
}

func TestLeave_PromotionIsFIFO(t *testing.T) {
	svc, _ := newRSVPFixture(intPtr(1))
	ctx := context.Background()

	_, err := svc.Join(ctx, 1, 10) // confirmed
	assert.NoError(t, err)
	_, err = svc.Join(ctx, 1, 11) // first waitlisted
	assert.NoError(t, err)
	_, err = svc.Join(ctx, 1, 12) // second waitlisted
	assert.NoError(t, err)

	_, err = svc.Leave(ctx, 1, 10)
	assert.NoError(t, err)

	first, err := svc.GetState(ctx, 1, 11)
	assert.NoError(t, err)
	assert.Equal(t, models.StateConfirmed, first.State)

	second, err := svc.GetState(ctx, 1, 12)
	assert.NoError(t, err)
	assert.Equal(t, models.StateWaitlist, second.State)
}

func TestLeave_WaitlistedLeaveDoesNotPromote(t *testing.T) {
	svc, _ := newRSVPFixture(intPtr(1))
	ctx := context.Background()

	_, err := svc.Join(ctx, 1, 10)
	assert.NoError(t, err)
	_, err = svc.Join(ctx, 1, 11)
	assert.NoError(t, err)
	_, err = svc.Join(ctx, 1, 12)
	assert.NoError(t, err)

	status, err := svc.Leave(ctx, 1, 11)
	assert.NoError(t, err)
	assert.Equal(t, int64(1), status.ConfirmedCount)
	assert.Equal(t, int64(1), status.WaitlistCount)

	// 12 stays waitlisted: no confirmed seat was freed
	s, err := svc.GetState(ctx, 1, 12)
	assert.NoError(t, err)
	assert.Equal(t, models.StateWaitlist, s.State)
}

// 20 simultaneous joins against 3 seats: exactly 3 confirmed, the rest
// waitlisted, one row per user.
func TestJoin_ConcurrentJoinsRespectCapacity(t *testing.T) {
	const capacity = 3
	const users = 20
	svc, regs := newRSVPFixture(intPtr(capacity))

	var wg sync.WaitGroup
	for userID := uint(1); userID <= users; userID++ {
		wg.Add(1)
		go func(id uint) {
			defer wg.Done()
			_, err := svc.Join(context.Background(), 1, id)
			assert.NoError(t, err)
		}(userID)
	}
	wg.Wait()

	confirmed, _ := regs.CountByState(context.Background(), nil, 1, models.StateConfirmed)
	waitlisted, _ := regs.CountByState(context.Background(), nil, 1, models.StateWaitlist)
	assert.Equal(t, int64(capacity), confirmed)
	assert.Equal(t, int64(users-capacity), waitlisted)

	seen := make(map[uint]bool)
	for _, r := range regs.regs {
		assert.False(t, seen[r.UserID], "duplicate registration for user %d", r.UserID)
		seen[r.UserID] = true
	}
	assert.Len(t, regs.regs, users)
}

func TestCapacityNeverExceeded(t *testing.T) {
	svc, regs := newRSVPFixture(intPtr(3))
	ctx := context.Background()

	for userID := uint(1); userID <= 10; userID++ {
		_, err := svc.Join(ctx, 1, userID)
		assert.NoError(t, err)
	}

	confirmed, _ := regs.CountByState(ctx, nil, 1, models.StateConfirmed)
	waitlisted, _ := regs.CountByState(ctx, nil, 1, models.StateWaitlist)
	assert.Equal(t, int64(3), confirmed)
	assert.Equal(t, int64(7), waitlisted)
}

func TestSetState_AdminOverrideDoesNotPromote(t *testing.T) {
	svc, _ := newRSVPFixture(intPtr(1))
	ctx := context.Background()

	_, err := svc.Join(ctx, 1, 10) // confirmed
	assert.NoError(t, err)
	_, err = svc.Join(ctx, 1, 11) // waitlisted
	assert.NoError(t, err)

	// Admin demotes the confirmed user; nobody is auto-promoted.
	status, err := svc.SetState(ctx, 1, 10, models.StateWaitlist)
	assert.NoError(t, err)
	assert.Equal(t, models.StateWaitlist, status.State)
	assert.Equal(t, int64(0), status.ConfirmedCount)
	assert.Equal(t, int64(2), status.WaitlistCount)
}

func TestSetState_CreatesMissingRegistration(t *testing.T) {
	svc, regs := newRSVPFixture(intPtr(2))

	status, err := svc.SetState(context.Background(), 1, 10, models.StateConfirmed)

	assert.NoError(t, err)
	assert.Equal(t, models.StateConfirmed, status.State)
	assert.Len(t, regs.regs, 1)
}

func TestSetState_UnknownUser(t *testing.T) {
	svc, regs := newRSVPFixture(intPtr(2))

	_, err := svc.SetState(context.Background(), 1, 999, models.StateConfirmed)

	assert.ErrorIs(t, err, ErrUserNotFound)
	assert.Empty(t, regs.regs)
}

func TestGetState_EventNotFound(t *testing.T) {
	svc, _ := newRSVPFixture(intPtr(2))

	_, err := svc.GetState(context.Background(), 99, 10)

	assert.ErrorIs(t, err, ErrEventNotFound)
}

// --- Transition table ---

func TestTransition(t *testing.T) {
	cases := []struct {
		name     string
		current  models.RegistrationState
		action   RSVPAction
		seatFree bool
		next     models.RegistrationState
		effect   rsvpEffect
	}{
		{"join with seat", StateNone, ActionJoin, true, models.StateConfirmed, effectInsertConfirmed},
		{"join without seat", StateNone, ActionJoin, false, models.StateWaitlist, effectInsertWaitlist},
		{"join while confirmed", models.StateConfirmed, ActionJoin, true, models.StateConfirmed, effectNone},
		{"join while waitlisted", models.StateWaitlist, ActionJoin, false, models.StateWaitlist, effectNone},
		{"leave from none", StateNone, ActionLeave, false, StateNone, effectNone},
		{"leave from confirmed", models.StateConfirmed, ActionLeave, false, StateNone, effectDelete},
		{"leave from waitlist", models.StateWaitlist, ActionLeave, false, StateNone, effectDelete},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			next, effect, err := transition(tc.current, tc.action, tc.seatFree)
			assert.NoError(t, err)
			assert.Equal(t, tc.next, next)
			assert.Equal(t, tc.effect, effect)
		})
	}
}

func TestTransition_InvalidAction(t *testing.T) {
	_, _, err := transition(StateNone, RSVPAction("teleport"), true)
	assert.Error(t, err)
}

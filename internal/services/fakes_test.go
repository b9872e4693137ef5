package services

import (
	"context"
	"fmt"
	"time"

	"slotpoll/internal/domain"
)

// fakeEventRepo is an in-memory EventRepository for tests.
type fakeEventRepo struct {
	byID      map[string]*domain.Event
	nextID    int
	createErr error
}

func newFakeEventRepo() *fakeEventRepo {
	return &fakeEventRepo{byID: make(map[string]*domain.Event), nextID: 1}
}

func (f *fakeEventRepo) Create(ctx context.Context, e *domain.Event) error {
	if f.createErr != nil {
		return f.createErr
	}
	e.ID = fmt.Sprintf("ev-%d", f.nextID)
	f.nextID++
	f.byID[e.ID] = e
	return nil
}

func (f *fakeEventRepo) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	if e, ok := f.byID[id]; ok {
		return e, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeEventRepo) ListByOwnerID(ctx context.Context, ownerID string) ([]*domain.Event, error) {
	out := []*domain.Event{}
	for _, e := range f.byID {
		if e.OwnerID == ownerID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeEventRepo) Delete(ctx context.Context, id string) error {
	if _, ok := f.byID[id]; !ok {
		return domain.ErrNotFound
	}
	delete(f.byID, id)
	return nil
}

func (f *fakeEventRepo) DeleteEndedBefore(ctx context.Context, cutoffDate string) (int64, error) {
	var n int64
	for id, e := range f.byID {
		if e.EndDate < cutoffDate {
			delete(f.byID, id)
			n++
		}
	}
	return n, nil
}

// availabilityStore backs the participant and response fakes with one shared
// data set, the way both repositories share tables in Postgres.
type availabilityStore struct {
	participants []*domain.Participant
	responses    []*domain.SlotResponse
	nextID       int
	submitErr    error
}

func newAvailabilityStore() *availabilityStore {
	return &availabilityStore{nextID: 1}
}

type fakeParticipantRepo struct {
	s *availabilityStore
}

func (f *fakeParticipantRepo) SubmitResponses(ctx context.Context, eventID, identityKey, displayName string, answers []domain.SlotAnswer) (*domain.Participant, []*domain.SlotResponse, error) {
	if f.s.submitErr != nil {
		return nil, nil, f.s.submitErr
	}
	var p *domain.Participant
	for _, q := range f.s.participants {
		if q.EventID == eventID && q.IdentityKey == identityKey {
			p = q
			break
		}
	}
	if p == nil {
		p = &domain.Participant{
			ID:          fmt.Sprintf("part-%d", f.s.nextID),
			EventID:     eventID,
			IdentityKey: identityKey,
		}
		f.s.nextID++
		f.s.participants = append(f.s.participants, p)
	}
	p.DisplayName = displayName
	p.SubmittedAt = time.Now()

	kept := f.s.responses[:0]
	for _, r := range f.s.responses {
		if r.ParticipantID != p.ID {
			kept = append(kept, r)
		}
	}
	f.s.responses = kept

	created := make([]*domain.SlotResponse, 0, len(answers))
	for _, a := range answers {
		r := &domain.SlotResponse{
			ID:            fmt.Sprintf("resp-%d", f.s.nextID),
			EventID:       eventID,
			ParticipantID: p.ID,
			SlotID:        a.SlotID,
			Available:     a.Available,
			CreatedAt:     time.Now(),
		}
		f.s.nextID++
		f.s.responses = append(f.s.responses, r)
		created = append(created, r)
	}
	return p, created, nil
}

func (f *fakeParticipantRepo) ListByEventID(ctx context.Context, eventID string) ([]*domain.Participant, error) {
	out := []*domain.Participant{}
	for _, p := range f.s.participants {
		if p.EventID == eventID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeParticipantRepo) GetByEventAndIdentity(ctx context.Context, eventID, identityKey string) (*domain.Participant, error) {
	for _, p := range f.s.participants {
		if p.EventID == eventID && p.IdentityKey == identityKey {
			return p, nil
		}
	}
	return nil, domain.ErrNotFound
}

type fakeResponseRepo struct {
	s *availabilityStore
}

func (f *fakeResponseRepo) ListByEventID(ctx context.Context, eventID string) ([]*domain.SlotResponse, error) {
	out := []*domain.SlotResponse{}
	for _, r := range f.s.responses {
		if r.EventID == eventID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeResponseRepo) ListByParticipantID(ctx context.Context, participantID string) ([]*domain.SlotResponse, error) {
	out := []*domain.SlotResponse{}
	for _, r := range f.s.responses {
		if r.ParticipantID == participantID {
			out = append(out, r)
		}
	}
	return out, nil
}

// fakeCalendarSource serves canned busy intervals or a fixed error.
type fakeCalendarSource struct {
	busy []domain.BusyInterval
	err  error
}

func (f *fakeCalendarSource) GetBusyIntervals(ctx context.Context, feedURL string, from, to time.Time) ([]domain.BusyInterval, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.busy, nil
}

// fakeCache is an in-memory AggregationCache that records invalidations.
type fakeCache struct {
	entries       map[string]*domain.AggregationResult
	invalidations int
	getErr        error
	setErr        error
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: make(map[string]*domain.AggregationResult)}
}

func (f *fakeCache) Get(ctx context.Context, eventID string) (*domain.AggregationResult, bool, error) {
	if f.getErr != nil {
		return nil, false, f.getErr
	}
	r, ok := f.entries[eventID]
	return r, ok, nil
}

func (f *fakeCache) Set(ctx context.Context, eventID string, result *domain.AggregationResult, ttl time.Duration) error {
	if f.setErr != nil {
		return f.setErr
	}
	f.entries[eventID] = result
	return nil
}

func (f *fakeCache) Invalidate(ctx context.Context, eventID string) error {
	delete(f.entries, eventID)
	f.invalidations++
	return nil
}

// fakeUserRepo is an in-memory UserRepository for tests.
type fakeUserRepo struct {
	byID   map[string]*domain.User
	nextID int
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{byID: make(map[string]*domain.User), nextID: 1}
}

func (f *fakeUserRepo) Create(ctx context.Context, u *domain.User) error {
	for _, existing := range f.byID {
		if existing.Email == u.Email {
			return domain.ErrDuplicateEmail
		}
	}
	u.ID = fmt.Sprintf("user-%d", f.nextID)
	f.nextID++
	f.byID[u.ID] = u
	return nil
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	for _, u := range f.byID {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	if u, ok := f.byID[id]; ok {
		return u, nil
	}
	return nil, domain.ErrUserNotFound
}

// fakeHasher hashes with a visible prefix so tests can assert on it.
type fakeHasher struct{}

func (fakeHasher) Hash(password string) (string, error) {
	return "hashed:" + password, nil
}

func (fakeHasher) Compare(hash, password string) error {
	if hash != "hashed:"+password {
		return fmt.Errorf("password mismatch")
	}
	return nil
}

type fakeTokenIssuer struct {
	err error
}

func (f fakeTokenIssuer) Issue(userID, email string, expiry time.Duration) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return "token-" + userID, nil
}

// fakeEmailService records invitations and can fail for selected addresses.
type fakeEmailService struct {
	sent    []*domain.EventInvitationEmailData
	failFor map[string]bool
}

func newFakeEmailService() *fakeEmailService {
	return &fakeEmailService{failFor: make(map[string]bool)}
}

func (f *fakeEmailService) SendEventInvitation(ctx context.Context, data *domain.EventInvitationEmailData) error {
	if f.failFor[data.Email] {
		return fmt.Errorf("send failed")
	}
	f.sent = append(f.sent, data)
	return nil
}

package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/mentorloop/mentorship-service/internal/events"
	"github.com/mentorloop/mentorship-service/internal/models"
	"github.com/mentorloop/mentorship-service/internal/repositories"
	"github.com/mentorloop/mentorship-service/internal/validator"
)

// mockRepository is an in-memory Repository used by the service tests.
// Transactions are serialized and rolled back by snapshot, which mirrors
// what the booking code relies on from PostgreSQL.
type mockRepository struct {
	mu   sync.Mutex
	txMu sync.Mutex

	profiles map[string]models.Profile
	slots    map[uint]models.AvailabilitySlot
	requests map[uint]models.MentorshipRequest
	sessions map[uint]models.Session
	users    map[string]models.User

	nextSlotID    uint
	nextRequestID uint
	nextSessionID uint

	// Test hooks
	failStatusUpdate map[uint]error // UpdateStatusIf fails for these requests
	staleSlotReads   bool           // slot reads report consumed slots as free
}

func newMockRepository() *mockRepository {
	return &mockRepository{
		profiles:         make(map[string]models.Profile),
		slots:            make(map[uint]models.AvailabilitySlot),
		requests:         make(map[uint]models.MentorshipRequest),
		sessions:         make(map[uint]models.Session),
		users:            make(map[string]models.User),
		failStatusUpdate: make(map[uint]error),
	}
}

func (m *mockRepository) Profile() repositories.ProfileRepository { return &mockProfileRepo{m} }
func (m *mockRepository) Slot() repositories.SlotRepository       { return &mockSlotRepo{m} }
func (m *mockRepository) Request() repositories.RequestRepository { return &mockRequestRepo{m} }
func (m *mockRepository) Session() repositories.SessionRepository { return &mockSessionRepo{m} }
func (m *mockRepository) User() repositories.UserRepository       { return &mockUserRepo{m} }

func (m *mockRepository) WithTransaction(ctx context.Context, fn func(repositories.Repository) error) error {
	m.txMu.Lock()
	defer m.txMu.Unlock()

	snapshot := m.snapshot()
	if err := fn(m); err != nil {
		m.restore(snapshot)
		return err
	}
	return nil
}

func (m *mockRepository) Ping(ctx context.Context) error { return nil }
func (m *mockRepository) Close() error                   { return nil }

type repoSnapshot struct {
	profiles map[string]models.Profile
	slots    map[uint]models.AvailabilitySlot
	requests map[uint]models.MentorshipRequest
	sessions map[uint]models.Session
}

func (m *mockRepository) snapshot() repoSnapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	snap := repoSnapshot{
		profiles: make(map[string]models.Profile, len(m.profiles)),
		slots:    make(map[uint]models.AvailabilitySlot, len(m.slots)),
		requests: make(map[uint]models.MentorshipRequest, len(m.requests)),
		sessions: make(map[uint]models.Session, len(m.sessions)),
	}
	for k, v := range m.profiles {
		snap.profiles[k] = v
	}
	for k, v := range m.slots {
		snap.slots[k] = v
	}
	for k, v := range m.requests {
		snap.requests[k] = v
	}
	for k, v := range m.sessions {
		snap.sessions[k] = v
	}
	return snap
}

func (m *mockRepository) restore(snap repoSnapshot) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.profiles = snap.profiles
	m.slots = snap.slots
	m.requests = snap.requests
	m.sessions = snap.sessions
}

// ===== SEED HELPERS =====

func (m *mockRepository) addUser(id string, role models.UserRole, status models.UserStatus) *models.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	user := models.User{
		ID:       id,
		FullName: "User " + id,
		Email:    id + "@example.com",
		Role:     role,
		Status:   status,
	}
	m.users[id] = user
	return &user
}

func (m *mockRepository) addProfile(userID, bio, goals string, skills []string) *models.Profile {
	m.mu.Lock()
	defer m.mu.Unlock()
	profile := models.Profile{UserID: userID, Bio: bio, Goals: goals}
	_ = profile.SetSkills(skills)
	m.profiles[userID] = profile
	return &profile
}

func (m *mockRepository) addSlot(mentorID string, startAt, endAt time.Time, consumed bool) *models.AvailabilitySlot {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextSlotID++
	slot := models.AvailabilitySlot{
		ID:       m.nextSlotID,
		MentorID: mentorID,
		StartAt:  startAt,
		EndAt:    endAt,
		Consumed: consumed,
	}
	m.slots[slot.ID] = slot
	return &slot
}

func (m *mockRepository) addRequest(menteeID, mentorID string, status models.RequestStatus, createdAt time.Time) *models.MentorshipRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextRequestID++
	request := models.MentorshipRequest{
		ID:        m.nextRequestID,
		MenteeID:  menteeID,
		MentorID:  mentorID,
		Status:    status,
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}
	m.requests[request.ID] = request
	return &request
}

func (m *mockRepository) requestStatus(id uint) models.RequestStatus {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.requests[id].Status
}

func (m *mockRepository) slotConsumed(id uint) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.slots[id].Consumed
}

func (m *mockRepository) sessionCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// ===== PROFILE =====

type mockProfileRepo struct{ m *mockRepository }

func (r *mockProfileRepo) GetByUserID(ctx context.Context, tx *gorm.DB, userID string) (*models.Profile, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	profile, ok := r.m.profiles[userID]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return &profile, nil
}

func (r *mockProfileRepo) Upsert(ctx context.Context, tx *gorm.DB, profile *models.Profile) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	r.m.profiles[profile.UserID] = *profile
	return nil
}

func (r *mockProfileRepo) GetByUserIDs(ctx context.Context, tx *gorm.DB, userIDs []string) ([]*models.Profile, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	out := make([]*models.Profile, 0, len(userIDs))
	for _, id := range userIDs {
		if profile, ok := r.m.profiles[id]; ok {
			p := profile
			out = append(out, &p)
		}
	}
	return out, nil
}

func (r *mockProfileRepo) ExistsByUserID(ctx context.Context, tx *gorm.DB, userID string) (bool, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	_, ok := r.m.profiles[userID]
	return ok, nil
}

// ===== SLOT =====

type mockSlotRepo struct{ m *mockRepository }

func (r *mockSlotRepo) readSlot(slot models.AvailabilitySlot) *models.AvailabilitySlot {
	if r.m.staleSlotReads {
		slot.Consumed = false
	}
	return &slot
}

func (r *mockSlotRepo) Create(ctx context.Context, tx *gorm.DB, slot *models.AvailabilitySlot) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	r.m.nextSlotID++
	slot.ID = r.m.nextSlotID
	slot.CreatedAt = time.Now()
	r.m.slots[slot.ID] = *slot
	return nil
}

func (r *mockSlotRepo) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.AvailabilitySlot, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	slot, ok := r.m.slots[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return r.readSlot(slot), nil
}

func (r *mockSlotRepo) Delete(ctx context.Context, tx *gorm.DB, id uint) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	delete(r.m.slots, id)
	return nil
}

func (r *mockSlotRepo) List(ctx context.Context, tx *gorm.DB, filters repositories.SlotFilters) ([]*models.AvailabilitySlot, int64, error) {
	return r.collect(func(slot models.AvailabilitySlot) bool {
		if filters.MentorID != nil && slot.MentorID != *filters.MentorID {
			return false
		}
		if filters.Consumed != nil && slot.Consumed != *filters.Consumed {
			return false
		}
		return true
	})
}

func (r *mockSlotRepo) GetByMentor(ctx context.Context, tx *gorm.DB, mentorID string, filters repositories.SlotFilters) ([]*models.AvailabilitySlot, int64, error) {
	return r.collect(func(slot models.AvailabilitySlot) bool {
		if slot.MentorID != mentorID {
			return false
		}
		if filters.Consumed != nil && slot.Consumed != *filters.Consumed {
			return false
		}
		return true
	})
}

func (r *mockSlotRepo) collect(match func(models.AvailabilitySlot) bool) ([]*models.AvailabilitySlot, int64, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	out := make([]*models.AvailabilitySlot, 0)
	for _, slot := range r.m.slots {
		if match(slot) {
			s := slot
			out = append(out, &s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartAt.Before(out[j].StartAt) })
	return out, int64(len(out)), nil
}

func (r *mockSlotRepo) GetEarliestFree(ctx context.Context, tx *gorm.DB, mentorID string) (*models.AvailabilitySlot, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var earliest *models.AvailabilitySlot
	for _, slot := range r.m.slots {
		if slot.MentorID != mentorID {
			continue
		}
		if slot.Consumed && !r.m.staleSlotReads {
			continue
		}
		s := slot
		if earliest == nil || s.StartAt.Before(earliest.StartAt) {
			earliest = &s
		}
	}
	if earliest == nil {
		return nil, repositories.ErrNotFound
	}
	return r.readSlot(*earliest), nil
}

func (r *mockSlotRepo) CountFree(ctx context.Context, tx *gorm.DB, mentorID string) (int64, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var count int64
	for _, slot := range r.m.slots {
		if slot.MentorID == mentorID && !slot.Consumed {
			count++
		}
	}
	return count, nil
}

func (r *mockSlotRepo) ConsumeIfFree(ctx context.Context, tx *gorm.DB, id uint) (bool, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	slot, ok := r.m.slots[id]
	if !ok || slot.Consumed {
		return false, nil
	}
	slot.Consumed = true
	r.m.slots[id] = slot
	return true, nil
}

func (r *mockSlotRepo) HasOverlap(ctx context.Context, tx *gorm.DB, mentorID string, startAt, endAt time.Time) (bool, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, slot := range r.m.slots {
		if slot.MentorID == mentorID && slot.Overlaps(startAt, endAt) {
			return true, nil
		}
	}
	return false, nil
}

// ===== REQUEST =====

type mockRequestRepo struct{ m *mockRepository }

func (r *mockRequestRepo) Create(ctx context.Context, tx *gorm.DB, request *models.MentorshipRequest) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	r.m.nextRequestID++
	request.ID = r.m.nextRequestID
	if request.CreatedAt.IsZero() {
		request.CreatedAt = time.Now()
	}
	request.UpdatedAt = request.CreatedAt
	r.m.requests[request.ID] = *request
	return nil
}

func (r *mockRequestRepo) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.MentorshipRequest, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	request, ok := r.m.requests[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return &request, nil
}

func (r *mockRequestRepo) GetByIDWithDetails(ctx context.Context, tx *gorm.DB, id uint) (*models.MentorshipRequest, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	request, ok := r.m.requests[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	request.Mentee = r.m.users[request.MenteeID]
	request.Mentor = r.m.users[request.MentorID]
	for _, session := range r.m.sessions {
		if session.RequestID == id {
			s := session
			request.Session = &s
			break
		}
	}
	return &request, nil
}

func (r *mockRequestRepo) List(ctx context.Context, tx *gorm.DB, filters repositories.RequestFilters) ([]*models.MentorshipRequest, int64, error) {
	return r.collect(func(request models.MentorshipRequest) bool {
		if filters.Status != nil && request.Status != *filters.Status {
			return false
		}
		if filters.MenteeID != nil && request.MenteeID != *filters.MenteeID {
			return false
		}
		if filters.MentorID != nil && request.MentorID != *filters.MentorID {
			return false
		}
		return true
	})
}

func (r *mockRequestRepo) GetByMentee(ctx context.Context, tx *gorm.DB, menteeID string, filters repositories.RequestFilters) ([]*models.MentorshipRequest, int64, error) {
	return r.collect(func(request models.MentorshipRequest) bool {
		if request.MenteeID != menteeID {
			return false
		}
		return filters.Status == nil || request.Status == *filters.Status
	})
}

func (r *mockRequestRepo) GetByMentor(ctx context.Context, tx *gorm.DB, mentorID string, filters repositories.RequestFilters) ([]*models.MentorshipRequest, int64, error) {
	return r.collect(func(request models.MentorshipRequest) bool {
		if request.MentorID != mentorID {
			return false
		}
		return filters.Status == nil || request.Status == *filters.Status
	})
}

func (r *mockRequestRepo) collect(match func(models.MentorshipRequest) bool) ([]*models.MentorshipRequest, int64, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	out := make([]*models.MentorshipRequest, 0)
	for _, request := range r.m.requests {
		if match(request) {
			req := request
			out = append(out, &req)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, int64(len(out)), nil
}

func (r *mockRequestRepo) GetActiveByPair(ctx context.Context, tx *gorm.DB, menteeID, mentorID string) (*models.MentorshipRequest, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, request := range r.m.requests {
		if request.MenteeID == menteeID && request.MentorID == mentorID && request.Status.IsActive() {
			req := request
			return &req, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *mockRequestRepo) GetPendingOlderThan(ctx context.Context, tx *gorm.DB, cutoff time.Time, limit int) ([]*models.MentorshipRequest, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	out := make([]*models.MentorshipRequest, 0)
	for _, request := range r.m.requests {
		if request.Status == models.RequestPending && !request.CreatedAt.After(cutoff) {
			req := request
			out = append(out, &req)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *mockRequestRepo) UpdateStatusIf(ctx context.Context, tx *gorm.DB, id uint, from, to models.RequestStatus) (bool, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if err, ok := r.m.failStatusUpdate[id]; ok {
		return false, err
	}
	request, ok := r.m.requests[id]
	if !ok || request.Status != from {
		return false, nil
	}
	request.Status = to
	request.UpdatedAt = time.Now()
	r.m.requests[id] = request
	return true, nil
}

func (r *mockRequestRepo) GetStats(ctx context.Context, tx *gorm.DB, mentorID string) (*repositories.RequestStats, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	stats := &repositories.RequestStats{
		StatusBreakdown: make(map[models.RequestStatus]int),
	}
	for _, request := range r.m.requests {
		if request.MentorID != mentorID {
			continue
		}
		stats.TotalRequests++
		stats.StatusBreakdown[request.Status]++
	}
	if stats.TotalRequests > 0 {
		stats.AcceptRate = float64(stats.StatusBreakdown[models.RequestAccepted]) / float64(stats.TotalRequests)
	}
	return stats, nil
}

// ===== SESSION =====

type mockSessionRepo struct{ m *mockRepository }

func (r *mockSessionRepo) Create(ctx context.Context, tx *gorm.DB, session *models.Session) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, existing := range r.m.sessions {
		if existing.RequestID == session.RequestID || existing.SlotID == session.SlotID {
			return fmt.Errorf("duplicate session for request %d or slot %d", session.RequestID, session.SlotID)
		}
	}
	r.m.nextSessionID++
	session.ID = r.m.nextSessionID
	session.CreatedAt = time.Now()
	r.m.sessions[session.ID] = *session
	return nil
}

func (r *mockSessionRepo) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Session, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	session, ok := r.m.sessions[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return &session, nil
}

func (r *mockSessionRepo) GetByIDWithDetails(ctx context.Context, tx *gorm.DB, id uint) (*models.Session, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	session, ok := r.m.sessions[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	session.Slot = r.m.slots[session.SlotID]
	session.Mentor = r.m.users[session.MentorID]
	session.Mentee = r.m.users[session.MenteeID]
	return &session, nil
}

func (r *mockSessionRepo) GetByRequestID(ctx context.Context, tx *gorm.DB, requestID uint) (*models.Session, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, session := range r.m.sessions {
		if session.RequestID == requestID {
			s := session
			return &s, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *mockSessionRepo) Update(ctx context.Context, tx *gorm.DB, session *models.Session) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if _, ok := r.m.sessions[session.ID]; !ok {
		return repositories.ErrNotFound
	}
	r.m.sessions[session.ID] = *session
	return nil
}

func (r *mockSessionRepo) List(ctx context.Context, tx *gorm.DB, filters repositories.SessionFilters) ([]*models.Session, int64, error) {
	return r.collect(func(session models.Session) bool {
		if filters.MentorID != nil && session.MentorID != *filters.MentorID {
			return false
		}
		if filters.MenteeID != nil && session.MenteeID != *filters.MenteeID {
			return false
		}
		if filters.Rated != nil && (session.Rating != nil) != *filters.Rated {
			return false
		}
		return true
	})
}

func (r *mockSessionRepo) GetByParticipant(ctx context.Context, tx *gorm.DB, userID string, filters repositories.SessionFilters) ([]*models.Session, int64, error) {
	return r.collect(func(session models.Session) bool {
		return session.MentorID == userID || session.MenteeID == userID
	})
}

func (r *mockSessionRepo) collect(match func(models.Session) bool) ([]*models.Session, int64, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	out := make([]*models.Session, 0)
	for _, session := range r.m.sessions {
		if match(session) {
			s := session
			s.Slot = r.m.slots[s.SlotID]
			s.Mentor = r.m.users[s.MentorID]
			s.Mentee = r.m.users[s.MenteeID]
			out = append(out, &s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, int64(len(out)), nil
}

func (r *mockSessionRepo) GetMentorStats(ctx context.Context, tx *gorm.DB, mentorID string) (*repositories.MentorStats, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	stats := &repositories.MentorStats{}
	ratingSum := 0
	for _, slot := range r.m.slots {
		if slot.MentorID != mentorID {
			continue
		}
		stats.TotalSlots++
		if !slot.Consumed {
			stats.FreeSlots++
		}
	}
	for _, session := range r.m.sessions {
		if session.MentorID != mentorID {
			continue
		}
		stats.SessionCount++
		if session.Rating != nil {
			stats.RatedSessions++
			ratingSum += *session.Rating
		}
	}
	if stats.RatedSessions > 0 {
		stats.AverageRating = float64(ratingSum) / float64(stats.RatedSessions)
	}
	return stats, nil
}

// ===== USER =====

type mockUserRepo struct{ m *mockRepository }

func (r *mockUserRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	user, ok := r.m.users[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return &user, nil
}

func (r *mockUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, user := range r.m.users {
		if user.Email == email {
			u := user
			return &u, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *mockUserRepo) GetByIDs(ctx context.Context, ids []string) ([]*models.User, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	out := make([]*models.User, 0, len(ids))
	for _, id := range ids {
		if user, ok := r.m.users[id]; ok {
			u := user
			out = append(out, &u)
		}
	}
	return out, nil
}

func (r *mockUserRepo) List(ctx context.Context, filters repositories.UserFilters) ([]*models.User, int64, error) {
	return r.collect(func(user models.User) bool {
		return filters.Role == nil || user.Role == *filters.Role
	})
}

func (r *mockUserRepo) ListMentors(ctx context.Context, filters repositories.UserFilters) ([]*models.User, int64, error) {
	return r.collect(func(user models.User) bool {
		return user.IsActiveMentor()
	})
}

func (r *mockUserRepo) collect(match func(models.User) bool) ([]*models.User, int64, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	out := make([]*models.User, 0)
	for _, user := range r.m.users {
		if match(user) {
			u := user
			out = append(out, &u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, int64(len(out)), nil
}

func (r *mockUserRepo) ExistsByID(ctx context.Context, id string) (bool, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	_, ok := r.m.users[id]
	return ok, nil
}

func (r *mockUserRepo) HasRole(ctx context.Context, id string, role models.UserRole) (bool, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	user, ok := r.m.users[id]
	return ok && user.Role == role, nil
}

// ===== TEST WIRING =====

type testEnv struct {
	repo      *mockRepository
	publisher *events.MockEventPublisher
	notifier  NotificationEventService
	matcher   MatcherService
	profiles  ProfileService
	slots     SlotService
	sessions  SessionService
	scheduler SchedulerService
	requests  RequestService
	sweeper   SweeperService
}

func newTestEnv() *testEnv {
	repo := newMockRepository()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	v := validator.New()
	publisher := events.NewMockEventPublisher(logger)

	notifier := NewNotificationEventService(repo, publisher, logger, v)
	scheduler := NewSchedulerService(repo, nil, logger, v, nil, notifier)
	requests := NewRequestService(repo, nil, logger, v, scheduler, notifier)

	return &testEnv{
		repo:      repo,
		publisher: publisher,
		notifier:  notifier,
		matcher:   NewMatcherService(repo, nil, logger, v),
		profiles:  NewProfileService(repo, nil, logger, v),
		slots:     NewSlotService(repo, nil, logger, v),
		sessions:  NewSessionService(repo, nil, logger, v, notifier),
		scheduler: scheduler,
		requests:  requests,
		sweeper:   NewSweeperService(repo, nil, logger, requests, notifier, time.Hour, 48*time.Hour),
	}
}

func (e *testEnv) eventTypes() []string {
	published := e.publisher.GetPublishedEvents()
	types := make([]string, 0, len(published))
	for _, event := range published {
		types = append(types, event.Type)
	}
	return types
}

package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/noah-isme/mentor-availability-api/internal/models"
	appErrors "github.com/noah-isme/mentor-availability-api/pkg/errors"
)

// fixedNow is Wednesday 2025-01-08 10:00 UTC.
var fixedNow = time.Date(2025, 1, 8, 10, 0, 0, 0, time.UTC)

func testSettings() EngineSettings {
	return EngineSettings{
		Location:         time.UTC,
		MaxDuration:      60,
		DefaultStart:     9 * 60,
		DefaultDuration:  60,
		LookaheadDays:    14,
		MaxLookaheadDays: 30,
		Now:              func() time.Time { return fixedNow },
	}.withDefaults()
}

func strPtr(s string) *string { return &s }

func intPtr(n int) *int { return &n }

type templateRepoStub struct {
	mu      sync.Mutex
	rows    map[string]models.AvailabilityTemplate
	seq     int
	listErr error
	creates int
	updates int
	deletes int
}

func newTemplateRepoStub(rows ...models.AvailabilityTemplate) *templateRepoStub {
	s := &templateRepoStub{rows: map[string]models.AvailabilityTemplate{}}
	for _, row := range rows {
		s.rows[row.ID] = row
	}
	return s
}

func weeklyRow(id, mentorID, day, start, end string, tier *int) models.AvailabilityTemplate {
	return models.AvailabilityTemplate{ID: id, MentorID: mentorID, DayOfWeek: strPtr(day), StartTime: start, EndTime: end, GroupTier: tier}
}

func (s *templateRepoStub) ListByMentor(ctx context.Context, mentorID string) ([]models.AvailabilityTemplate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listErr != nil {
		return nil, s.listErr
	}
	var out []models.AvailabilityTemplate
	for _, row := range s.rows {
		if row.MentorID == mentorID {
			out = append(out, row)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].StartTime == out[j].StartTime {
			return out[i].ID < out[j].ID
		}
		return out[i].StartTime < out[j].StartTime
	})
	return out, nil
}

func (s *templateRepoStub) FindByID(ctx context.Context, mentorID, id string) (*models.AvailabilityTemplate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	row, ok := s.rows[id]
	if !ok || row.MentorID != mentorID {
		return nil, sql.ErrNoRows
	}
	return &row, nil
}

func (s *templateRepoStub) Create(ctx context.Context, tpl *models.AvailabilityTemplate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	s.creates++
	if tpl.ID == "" {
		tpl.ID = fmt.Sprintf("tpl-%d", s.seq)
	}
	tpl.CreatedAt = fixedNow
	tpl.UpdatedAt = fixedNow
	s.rows[tpl.ID] = *tpl
	return nil
}

func (s *templateRepoStub) Update(ctx context.Context, tpl *models.AvailabilityTemplate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	row, ok := s.rows[tpl.ID]
	if !ok || row.MentorID != tpl.MentorID {
		return sql.ErrNoRows
	}
	s.updates++
	tpl.UpdatedAt = fixedNow
	s.rows[tpl.ID] = *tpl
	return nil
}

func (s *templateRepoStub) Delete(ctx context.Context, mentorID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	row, ok := s.rows[id]
	if !ok || row.MentorID != mentorID {
		return sql.ErrNoRows
	}
	s.deletes++
	delete(s.rows, id)
	return nil
}

type pricingRepoStub struct {
	tiers      []models.GroupPricingTier
	err        error
	replaced   []models.GroupPricingTier
	replaceErr error
}

func (s *pricingRepoStub) ListByMentor(ctx context.Context, mentorID string) ([]models.GroupPricingTier, error) {
	return s.tiers, s.err
}

func (s *pricingRepoStub) Replace(ctx context.Context, mentorID string, tiers []models.GroupPricingTier) error {
	s.replaced = tiers
	return s.replaceErr
}

// sessionStoreStub round-trips values through JSON like the redis store does.
type sessionStoreStub struct {
	mu       sync.Mutex
	data     map[string][]byte
	locked   map[string]string
	puts     int
	deletes  int
	releases int
}

func newSessionStoreStub() *sessionStoreStub {
	return &sessionStoreStub{data: map[string][]byte{}, locked: map[string]string{}}
}

func (s *sessionStoreStub) Get(ctx context.Context, mentorID string, dest interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	payload, ok := s.data[mentorID]
	if !ok {
		return appErrors.ErrSessionNotFound
	}
	return json.Unmarshal(payload, dest)
}

func (s *sessionStoreStub) Put(ctx context.Context, mentorID string, snapshot interface{}, ttl time.Duration) error {
	payload, err := json.Marshal(snapshot)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.puts++
	s.data[mentorID] = payload
	return nil
}

func (s *sessionStoreStub) Delete(ctx context.Context, mentorID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deletes++
	delete(s.data, mentorID)
	return nil
}

func (s *sessionStoreStub) AcquireSaveLock(ctx context.Context, mentorID string, ttl time.Duration) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, held := s.locked[mentorID]; held {
		return "", false, nil
	}
	s.locked[mentorID] = "token-" + mentorID
	return s.locked[mentorID], true, nil
}

func (s *sessionStoreStub) ReleaseSaveLock(ctx context.Context, mentorID, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.releases++
	if s.locked[mentorID] == token {
		delete(s.locked, mentorID)
	}
	return nil
}

type bookingRepoStub struct {
	mu      sync.Mutex
	booked  map[int64]models.Booking
	created []models.Booking
}

func newBookingRepoStub(starts ...time.Time) *bookingRepoStub {
	s := &bookingRepoStub{booked: map[int64]models.Booking{}}
	for _, start := range starts {
		s.booked[start.Unix()] = models.Booking{StartInstant: start}
	}
	return s
}

func (s *bookingRepoStub) BookedStarts(ctx context.Context, mentorID string, from, to time.Time) ([]time.Time, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []time.Time
	for _, b := range s.booked {
		if !b.StartInstant.Before(from) && b.StartInstant.Before(to) {
			out = append(out, b.StartInstant)
		}
	}
	return out, nil
}

func (s *bookingRepoStub) Create(ctx context.Context, booking *models.Booking) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, taken := s.booked[booking.StartInstant.Unix()]; taken {
		return false, nil
	}
	booking.ID = fmt.Sprintf("booking-%d", len(s.created)+1)
	s.booked[booking.StartInstant.Unix()] = *booking
	s.created = append(s.created, *booking)
	return true, nil
}

type cacheRepoStub struct {
	mu       sync.Mutex
	data     map[string][]byte
	patterns []string
}

func newCacheRepoStub() *cacheRepoStub {
	return &cacheRepoStub{data: map[string][]byte{}}
}

func (s *cacheRepoStub) Get(ctx context.Context, key string, dest interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	payload, ok := s.data[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(payload, dest)
}

func (s *cacheRepoStub) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = payload
	return nil
}

func (s *cacheRepoStub) DeleteByPattern(ctx context.Context, pattern string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.patterns = append(s.patterns, pattern)
	prefix := strings.TrimSuffix(pattern, "*")
	for key := range s.data {
		if strings.HasPrefix(key, prefix) {
			delete(s.data, key)
		}
	}
	return nil
}

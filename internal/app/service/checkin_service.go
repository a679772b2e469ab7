package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"gymledger/internal/common"
	"gymledger/internal/domain/model"
	"gymledger/internal/domain/repository"
	"gymledger/internal/observability/metrics"
	"gymledger/internal/platform/config"

	"github.com/google/uuid"
)

// CalendarCache holds serialized month windows of the ledger. A nil cache
// disables caching entirely; cache failures degrade to the store.
type CalendarCache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

type CheckInService struct {
	checkInRepo repository.CheckInRepository
	userRepo    repository.UserRepository
	cache       CalendarCache
}

func NewCheckInService(
	checkInRepo repository.CheckInRepository,
	userRepo repository.UserRepository,
	cache CalendarCache,
) *CheckInService {
	return &CheckInService{
		checkInRepo: checkInRepo,
		userRepo:    userRepo,
		cache:       cache,
	}
}

type RecordCheckInRequest struct {
	Time string `json:"time"` // Free-text label like "07:30 AM", stored as-is
}

// Record creates today's check-in for the caller. The day key is the server's
// local midnight. A second attempt on the same day loses against the
// (user_id, date) unique index and comes back as a duplicate.
func (s *CheckInService) Record(ctx context.Context, userID string, req RecordCheckInRequest) (*model.CheckIn, error) {
	if userID == "" {
		return nil, common.ErrUnauthorized
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrUnauthorized
		}
		return nil, fmt.Errorf("failed to load caller: %w", err)
	}

	checkIn := &model.CheckIn{
		ID:     uuid.NewString(),
		UserID: userID,
		Date:   model.Midnight(time.Now()),
	}
	if req.Time != "" {
		checkIn.WorkoutTime = &req.Time
	}

	if err := s.checkInRepo.Create(ctx, checkIn); err != nil {
		if errors.Is(err, common.ErrConflict) {
			metrics.ObserveCheckInRecorded("duplicate")
			return nil, fmt.Errorf("you have already checked in today: %w", common.ErrConflict)
		}
		metrics.ObserveCheckInRecorded("error")
		return nil, fmt.Errorf("failed to record check-in: %w", err)
	}
	metrics.ObserveCheckInRecorded("ok")

	if user.Name != nil {
		checkIn.UserName = *user.Name
	}

	s.invalidateMonth(ctx, checkIn.Date)
	return checkIn, nil
}

// Remove deletes the caller's check-in for the given day (YYYY-MM-DD),
// defaulting to today. Removal is not idempotent: a second call reports that
// no check-in exists.
func (s *CheckInService) Remove(ctx context.Context, userID string, dateStr string) error {
	if userID == "" {
		return common.ErrUnauthorized
	}

	day := model.Midnight(time.Now())
	if dateStr != "" {
		parsed, err := time.ParseInLocation("2006-01-02", dateStr, time.Local)
		if err != nil {
			return fmt.Errorf("invalid date %q: %w", dateStr, common.ErrValidation)
		}
		day = parsed
	}

	if err := s.checkInRepo.Delete(ctx, userID, day); err != nil {
		if errors.Is(err, common.ErrNotFound) {
			metrics.ObserveCheckInRemoved("not_found")
			return fmt.Errorf("no check-in found for this day: %w", common.ErrNotFound)
		}
		metrics.ObserveCheckInRemoved("error")
		return fmt.Errorf("failed to remove check-in: %w", err)
	}
	metrics.ObserveCheckInRemoved("ok")

	s.invalidateMonth(ctx, day)
	return nil
}

// ListMonth returns every user's check-ins inside the inclusive month window,
// joined with the owner's display name, in ascending day order.
func (s *CheckInService) ListMonth(ctx context.Context, month, year int) ([]model.CheckIn, error) {
	if month < 1 || month > 12 || year < 1 {
		return nil, fmt.Errorf("month must be 1-12 and year positive: %w", common.ErrValidation)
	}

	key := monthKey(year, time.Month(month))
	if s.cache != nil {
		if data, ok, err := s.cache.Get(ctx, key); err == nil && ok {
			var cached []model.CheckIn
			if err := json.Unmarshal(data, &cached); err == nil {
				metrics.ObserveCalendarCache("hit")
				return cached, nil
			}
		}
		metrics.ObserveCalendarCache("miss")
	}

	first, last := model.MonthWindow(month, year)
	checkIns, err := s.checkInRepo.FindInRange(ctx, first, last)
	if err != nil {
		return nil, fmt.Errorf("failed to list check-ins: %w", err)
	}

	if s.cache != nil {
		if data, err := json.Marshal(checkIns); err == nil {
			if err := s.cache.Set(ctx, key, data, config.AppConfig.CalendarCacheTTL); err != nil {
				log.Printf("calendar cache set failed: %v", err)
			}
		}
	}
	return checkIns, nil
}

func (s *CheckInService) invalidateMonth(ctx context.Context, day time.Time) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, monthKey(day.Year(), day.Month())); err != nil {
		log.Printf("calendar cache invalidation failed: %v", err)
	}
}

func monthKey(year int, month time.Month) string {
	return fmt.Sprintf("checkins:%04d-%02d", year, int(month))
}

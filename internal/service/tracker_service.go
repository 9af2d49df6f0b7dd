// internal/service/tracker_service.go
package service

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/kasho-dev/WorkFlow-Pay/internal/domain"
	"github.com/kasho-dev/WorkFlow-Pay/internal/period"
	"github.com/kasho-dev/WorkFlow-Pay/internal/repository"
	"github.com/kasho-dev/WorkFlow-Pay/internal/salary"
	"github.com/kasho-dev/WorkFlow-Pay/internal/util"
	"github.com/kasho-dev/WorkFlow-Pay/pkg/db"
)

// ImportItem is one element of a bulk keystroke import.
type ImportItem struct {
	Date  time.Time
	Count int64
}

// TrackerService defines the business logic of the keystroke dashboard:
// user upserts, entry recording, and the derived weekly/monthly views.
type TrackerService interface {
	UpsertUser(ctx context.Context, email, name, currency string) (*domain.User, error)
	GetUserProfile(ctx context.Context, userID string) (*domain.User, []domain.Keystroke, error)
	RecordKeystrokes(ctx context.Context, userID string, count int64, date *time.Time) (*domain.Keystroke, salary.Calculation, error)
	ListKeystrokes(ctx context.Context, userID string, limit, offset int) ([]domain.Keystroke, int64, error)
	WeeklySummary(ctx context.Context, userID string, start, end *time.Time) (*domain.WeeklySummary, error)
	MonthlyAnalytics(ctx context.Context, userID string, year, month int) (*domain.MonthlyAnalytics, error)
	BulkImport(ctx context.Context, userID string, items []ImportItem) ([]domain.Keystroke, error)
	SaveMemo(ctx context.Context, userID, content string) (*domain.Memo, error)
	GetMemo(ctx context.Context, userID string) (*domain.Memo, error)
}

// trackerService implements the TrackerService interface.
type trackerService struct {
	dbBeginner    db.DBTxBeginner       // For starting transactions (e.g., *sqlx.DB)
	dbExecutor    repository.DBExecutor // For non-transactional reads (e.g., *sqlx.DB)
	userRepo      repository.UserRepository
	keystrokeRepo repository.KeystrokeRepository
	memoRepo      repository.MemoRepository
	beginTx       db.BeginTxFunc
	commitTx      db.CommitTxFunc
	rollbackTx    db.RollbackTxFunc

	weekStartsOn time.Weekday
	now          func() time.Time // injectable clock, defaults to time.Now
}

// NewTrackerService creates a new instance of TrackerService.
func NewTrackerService(
	dbBeginner db.DBTxBeginner,
	dbExecutor repository.DBExecutor,
	userRepo repository.UserRepository,
	keystrokeRepo repository.KeystrokeRepository,
	memoRepo repository.MemoRepository,
	beginTx db.BeginTxFunc,
	commitTx db.CommitTxFunc,
	rollbackTx db.RollbackTxFunc,
	weekStartsOn time.Weekday,
) TrackerService {
	return &trackerService{
		dbBeginner:    dbBeginner,
		dbExecutor:    dbExecutor,
		userRepo:      userRepo,
		keystrokeRepo: keystrokeRepo,
		memoRepo:      memoRepo,
		beginTx:       beginTx,
		commitTx:      commitTx,
		rollbackTx:    rollbackTx,
		weekStartsOn:  weekStartsOn,
		now:           time.Now,
	}
}

// UpsertUser creates a user keyed by email, or updates name and currency in
// place when a user with that email already exists.
func (s *trackerService) UpsertUser(ctx context.Context, email, name, currency string) (*domain.User, error) {
	if email == "" {
		return nil, util.Invalid("email", "must not be empty")
	}
	if name == "" {
		return nil, util.Invalid("name", "must not be empty")
	}

	txController, err := s.beginTx(ctx, s.dbBeginner)
	if err != nil {
		return nil, fmt.Errorf("upsert user: failed to begin transaction: %w", err)
	}
	defer s.rollbackTx(txController)

	txExecutor, ok := txController.(repository.DBExecutor)
	if !ok {
		return nil, fmt.Errorf("upsert user: transaction controller does not implement DBExecutor")
	}

	existing, err := s.userRepo.GetUserByEmail(ctx, txExecutor, email)
	switch {
	case err == nil:
		existing.Name = name
		if currency != "" {
			existing.Currency = currency
		}
		existing.UpdatedAt = s.now().UTC()
		if err := s.userRepo.UpdateUser(ctx, txExecutor, existing); err != nil {
			return nil, fmt.Errorf("upsert user: failed to update user: %w", err)
		}
	case util.IsError(err, util.ErrNotFound):
		existing = domain.NewUser(email, name, currency)
		if err := s.userRepo.CreateUser(ctx, txExecutor, existing); err != nil {
			return nil, fmt.Errorf("upsert user: failed to create user: %w", err)
		}
	default:
		return nil, fmt.Errorf("upsert user: failed to check existing user: %w", err)
	}

	if err := s.commitTx(txController); err != nil {
		return nil, fmt.Errorf("upsert user: failed to commit transaction: %w", err)
	}

	return existing, nil
}

// GetUserProfile returns the user together with their last 10 keystroke
// entries, most recent date first.
func (s *trackerService) GetUserProfile(ctx context.Context, userID string) (*domain.User, []domain.Keystroke, error) {
	user, err := s.userRepo.GetUserByID(ctx, s.dbExecutor, userID)
	if err != nil {
		if util.IsError(err, util.ErrNotFound) {
			return nil, nil, util.ErrUserNotFound
		}
		return nil, nil, fmt.Errorf("get user profile: failed to get user %s: %w", userID, err)
	}

	entries, _, err := s.keystrokeRepo.ListByUser(ctx, s.dbExecutor, userID, 10, 0)
	if err != nil {
		return nil, nil, fmt.Errorf("get user profile: failed to list recent keystrokes: %w", err)
	}

	return user, entries, nil
}

// RecordKeystrokes appends one keystroke entry for the user. The date
// defaults to now. The existence check and insert share a transaction so a
// row can never reference a user deleted in between.
func (s *trackerService) RecordKeystrokes(ctx context.Context, userID string, count int64, date *time.Time) (*domain.Keystroke, salary.Calculation, error) {
	if userID == "" {
		return nil, salary.Calculation{}, util.Invalid("userId", "must not be empty")
	}
	if count < 0 {
		return nil, salary.Calculation{}, util.Invalid("count", "must not be negative")
	}

	entryDate := s.now().UTC()
	if date != nil {
		entryDate = date.UTC()
	}

	txController, err := s.beginTx(ctx, s.dbBeginner)
	if err != nil {
		return nil, salary.Calculation{}, fmt.Errorf("record keystrokes: failed to begin transaction: %w", err)
	}
	defer s.rollbackTx(txController)

	txExecutor, ok := txController.(repository.DBExecutor)
	if !ok {
		return nil, salary.Calculation{}, fmt.Errorf("record keystrokes: transaction controller does not implement DBExecutor")
	}

	if _, err := s.userRepo.GetUserByID(ctx, txExecutor, userID); err != nil {
		if util.IsError(err, util.ErrNotFound) {
			return nil, salary.Calculation{}, util.ErrUserNotFound
		}
		return nil, salary.Calculation{}, fmt.Errorf("record keystrokes: failed to get user %s: %w", userID, err)
	}

	entry := domain.NewKeystroke(userID, count, entryDate)
	if err := s.keystrokeRepo.CreateKeystroke(ctx, txExecutor, entry); err != nil {
		return nil, salary.Calculation{}, fmt.Errorf("record keystrokes: failed to create entry: %w", err)
	}

	if err := s.commitTx(txController); err != nil {
		return nil, salary.Calculation{}, fmt.Errorf("record keystrokes: failed to commit transaction: %w", err)
	}

	// Single-entry response: per-entry rounding is fine here, the total is one entry.
	return entry, salary.CalculateEntry(count), nil
}

// ListKeystrokes returns a page of the user's entries, most recent date
// first, with limit/offset sanitized to the documented defaults.
func (s *trackerService) ListKeystrokes(ctx context.Context, userID string, limit, offset int) ([]domain.Keystroke, int64, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	if _, err := s.userRepo.GetUserByID(ctx, s.dbExecutor, userID); err != nil {
		if util.IsError(err, util.ErrNotFound) {
			return nil, 0, util.ErrUserNotFound
		}
		return nil, 0, fmt.Errorf("list keystrokes: failed to get user %s: %w", userID, err)
	}

	entries, totalCount, err := s.keystrokeRepo.ListByUser(ctx, s.dbExecutor, userID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list keystrokes: %w", err)
	}
	return entries, totalCount, nil
}

// WeeklySummary reduces the user's entries over [start, end] into a weekly
// total and its earnings. When no range is given, the configured calendar
// week containing now is used, normalized to day boundaries. Earnings apply
// the rate once to the summed total (sum-then-round), never per entry.
func (s *trackerService) WeeklySummary(ctx context.Context, userID string, start, end *time.Time) (*domain.WeeklySummary, error) {
	user, err := s.userRepo.GetUserByID(ctx, s.dbExecutor, userID)
	if err != nil {
		if util.IsError(err, util.ErrNotFound) {
			return nil, util.ErrUserNotFound
		}
		return nil, fmt.Errorf("weekly summary: failed to get user %s: %w", userID, err)
	}

	defaultStart, defaultEnd := period.WeekRange(s.now(), s.weekStartsOn)
	rangeStart, rangeEnd := defaultStart, defaultEnd
	if start != nil {
		rangeStart = period.StartOfDay(*start)
	}
	if end != nil {
		rangeEnd = period.EndOfDay(*end)
	}

	entries, err := s.keystrokeRepo.ListByUserInRange(ctx, s.dbExecutor, userID, rangeStart, rangeEnd)
	if err != nil {
		return nil, fmt.Errorf("weekly summary: %w", err)
	}

	var total int64
	for _, e := range entries {
		total += e.Count
	}

	return &domain.WeeklySummary{
		TotalKeystrokes: total,
		WeeklyEarnings:  salary.Calculate(total),
		Currency:        user.Currency,
	}, nil
}

// MonthlyAnalytics reduces the user's entries over the given 1-indexed
// month into totals, earnings and a per-day average.
//
// DaysWorked counts rows, not distinct dates: two entries on the same date
// both count, matching the reference behavior. The average rounds to the
// nearest integer, not truncated.
func (s *trackerService) MonthlyAnalytics(ctx context.Context, userID string, year, month int) (*domain.MonthlyAnalytics, error) {
	start, end, err := period.MonthRange(year, month)
	if err != nil {
		return nil, util.Invalid("month", err.Error())
	}

	if _, err := s.userRepo.GetUserByID(ctx, s.dbExecutor, userID); err != nil {
		if util.IsError(err, util.ErrNotFound) {
			return nil, util.ErrUserNotFound
		}
		return nil, fmt.Errorf("monthly analytics: failed to get user %s: %w", userID, err)
	}

	entries, err := s.keystrokeRepo.ListByUserInRange(ctx, s.dbExecutor, userID, start, end)
	if err != nil {
		return nil, fmt.Errorf("monthly analytics: %w", err)
	}

	var total int64
	for _, e := range entries {
		total += e.Count
	}
	daysWorked := int64(len(entries))

	var average int64
	if daysWorked > 0 {
		average = decimal.NewFromInt(total).DivRound(decimal.NewFromInt(daysWorked), 0).IntPart()
	}

	return &domain.MonthlyAnalytics{
		TotalKeystrokes:         total,
		ExpectedSalary:          salary.Calculate(total),
		DaysWorked:              daysWorked,
		AverageKeystrokesPerDay: average,
	}, nil
}

// BulkImport creates one entry per item, in input order. It is deliberately
// not transactional: a failure partway through leaves the entries created so
// far committed, and they are returned alongside the error so the caller can
// see the partial effect.
func (s *trackerService) BulkImport(ctx context.Context, userID string, items []ImportItem) ([]domain.Keystroke, error) {
	if len(items) == 0 {
		return nil, util.Invalid("keystrokesData", "must not be empty")
	}
	for i, item := range items {
		if item.Count < 0 {
			return nil, util.Invalid(fmt.Sprintf("keystrokesData[%d].count", i), "must not be negative")
		}
	}

	if _, err := s.userRepo.GetUserByID(ctx, s.dbExecutor, userID); err != nil {
		if util.IsError(err, util.ErrNotFound) {
			return nil, util.ErrUserNotFound
		}
		return nil, fmt.Errorf("bulk import: failed to get user %s: %w", userID, err)
	}

	imported := []domain.Keystroke{}
	for i, item := range items {
		entry := domain.NewKeystroke(userID, item.Count, item.Date)
		if err := s.keystrokeRepo.CreateKeystroke(ctx, s.dbExecutor, entry); err != nil {
			return imported, fmt.Errorf("bulk import: failed at item %d of %d: %w", i+1, len(items), err)
		}
		imported = append(imported, *entry)
	}

	return imported, nil
}

// SaveMemo creates or replaces the user's dashboard memo.
func (s *trackerService) SaveMemo(ctx context.Context, userID, content string) (*domain.Memo, error) {
	if _, err := s.userRepo.GetUserByID(ctx, s.dbExecutor, userID); err != nil {
		if util.IsError(err, util.ErrNotFound) {
			return nil, util.ErrUserNotFound
		}
		return nil, fmt.Errorf("save memo: failed to get user %s: %w", userID, err)
	}

	memo := domain.NewMemo(userID, content)
	if err := s.memoRepo.UpsertMemo(ctx, s.dbExecutor, memo); err != nil {
		return nil, fmt.Errorf("save memo: %w", err)
	}
	return memo, nil
}

// GetMemo retrieves the user's dashboard memo.
func (s *trackerService) GetMemo(ctx context.Context, userID string) (*domain.Memo, error) {
	memo, err := s.memoRepo.GetMemo(ctx, s.dbExecutor, userID)
	if err != nil {
		if util.IsError(err, util.ErrNotFound) {
			return nil, util.ErrNotFound
		}
		return nil, fmt.Errorf("get memo: %w", err)
	}
	return memo, nil
}

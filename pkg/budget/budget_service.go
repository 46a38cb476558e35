package budget

import (
	"context"
	"fmt"

	"github.com/budgetquest/budgetquest/internal/event_bus"
	"github.com/budgetquest/budgetquest/pkg/user"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

type Service interface {
	// GetBudget returns ErrBudgetNotFound when the user has not set up a budget yet.
	GetBudget(ctx context.Context) (Record, error)
	GetSummary(ctx context.Context) (Record, Summary, error)
	CreateBudget(ctx context.Context, record Record) (Record, Summary, error)
	UpdateBudget(ctx context.Context, record Record) (Record, Summary, error)
	RecordExpense(ctx context.Context, amount decimal.Decimal) (Record, Summary, error)
	// ResetPeriod starts a new budgeting week with nothing spent.
	ResetPeriod(ctx context.Context) (Record, Summary, error)
}

type ServiceImpl struct {
	repo     Repository
	eventBus *event_bus.EventBus
}

func NewService(repo Repository, eventBus *event_bus.EventBus) *ServiceImpl {
	return &ServiceImpl{repo: repo, eventBus: eventBus}
}

func (s *ServiceImpl) GetBudget(ctx context.Context) (Record, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return Record{}, fmt.Errorf("failed to get current user: %w", err)
	}
	return s.repo.Get(ctx, userId)
}

func (s *ServiceImpl) GetSummary(ctx context.Context) (Record, Summary, error) {
	record, err := s.GetBudget(ctx)
	if err != nil {
		return Record{}, Summary{}, err
	}
	return withSummary(record)
}

func (s *ServiceImpl) CreateBudget(ctx context.Context, record Record) (Record, Summary, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return Record{}, Summary{}, fmt.Errorf("failed to get current user: %w", err)
	}
	record.SpentThisPeriod = decimal.Zero
	if err := record.Validate(); err != nil {
		return Record{}, Summary{}, err
	}

	created, err := s.repo.Create(ctx, userId, normalize(record))
	if err != nil {
		return Record{}, Summary{}, err
	}
	log.Debugf("created budget for user %d", userId)
	return withSummary(created)
}

func (s *ServiceImpl) UpdateBudget(ctx context.Context, record Record) (Record, Summary, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return Record{}, Summary{}, fmt.Errorf("failed to get current user: %w", err)
	}
	if err := record.Validate(); err != nil {
		return Record{}, Summary{}, err
	}

	updated, err := s.repo.Update(ctx, userId, normalize(record))
	if err != nil {
		return Record{}, Summary{}, err
	}
	return withSummary(updated)
}

func (s *ServiceImpl) RecordExpense(ctx context.Context, amount decimal.Decimal) (Record, Summary, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return Record{}, Summary{}, fmt.Errorf("failed to get current user: %w", err)
	}
	if err := CheckAmount("expense amount", amount); err != nil {
		return Record{}, Summary{}, err
	}

	record, err := s.repo.ApplyExpense(ctx, userId, amount)
	if err != nil {
		return Record{}, Summary{}, err
	}
	record, summary, err := withSummary(record)
	if err != nil {
		return Record{}, Summary{}, err
	}

	// The expense is already committed; a failing subscriber must not undo it for the caller.
	err = s.eventBus.Publish(event_bus.NewEvent(ctx, event_bus.ExpenseRecordedEvent, event_bus.ExpenseRecorded{
		UserId:   userId,
		Amount:   RoundCents(amount),
		Spent:    summary.Spent,
		Leftover: summary.Leftover,
	}))
	if err != nil {
		log.Errorf("failed to publish expense recorded event: %v", err)
	}

	return record, summary, nil
}

func (s *ServiceImpl) ResetPeriod(ctx context.Context) (Record, Summary, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return Record{}, Summary{}, fmt.Errorf("failed to get current user: %w", err)
	}
	record, err := s.repo.ResetSpent(ctx, userId)
	if err != nil {
		return Record{}, Summary{}, err
	}
	log.Debugf("reset spending of user %d", userId)
	return withSummary(record)
}

// normalize rounds the entered amounts to cents, as they are stored.
func normalize(record Record) Record {
	record.Income = RoundCents(record.Income)
	record.Outcome = RoundCents(record.Outcome)
	record.SavingsTarget = RoundCents(record.SavingsTarget)
	return record
}

func withSummary(record Record) (Record, Summary, error) {
	summary, err := Summarize(record)
	if err != nil {
		return Record{}, Summary{}, err
	}
	return record, summary, nil
}

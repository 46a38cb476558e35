package budget

import (
	"context"
	"sync"

	"github.com/shopspring/decimal"
)

type StubBudgetRepository struct {
	mu      sync.Mutex
	budgets map[int]Record
}

func NewStubBudgetRepository() *StubBudgetRepository {
	return &StubBudgetRepository{budgets: map[int]Record{}}
}

func (s *StubBudgetRepository) Get(ctx context.Context, userId int) (Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	record, ok := s.budgets[userId]
	if !ok {
		return Record{}, ErrBudgetNotFound
	}
	return record, nil
}

func (s *StubBudgetRepository) Create(ctx context.Context, userId int, record Record) (Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.budgets[userId]; ok {
		return Record{}, ErrBudgetAlreadyExists
	}
	record.SpentThisPeriod = decimal.Zero
	s.budgets[userId] = record
	return record, nil
}

func (s *StubBudgetRepository) Update(ctx context.Context, userId int, record Record) (Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	current, ok := s.budgets[userId]
	if !ok {
		return Record{}, ErrBudgetNotFound
	}
	record.SpentThisPeriod = current.SpentThisPeriod
	s.budgets[userId] = record
	return record, nil
}

func (s *StubBudgetRepository) ApplyExpense(ctx context.Context, userId int, amount decimal.Decimal) (Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	current, ok := s.budgets[userId]
	if !ok {
		return Record{}, ErrBudgetNotFound
	}
	updated, err := ApplyExpense(current, amount)
	if err != nil {
		return Record{}, err
	}
	s.budgets[userId] = updated
	return updated, nil
}

func (s *StubBudgetRepository) ResetSpent(ctx context.Context, userId int) (Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	current, ok := s.budgets[userId]
	if !ok {
		return Record{}, ErrBudgetNotFound
	}
	current.SpentThisPeriod = decimal.Zero
	s.budgets[userId] = current
	return current, nil
}

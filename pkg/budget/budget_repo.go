package budget

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

type Repository interface {
	Get(ctx context.Context, userId int) (Record, error)
	// Create stores a new budget with nothing spent yet.
	Create(ctx context.Context, userId int, record Record) (Record, error)
	// Update replaces income, modifier, outcome and savings target. Spending is kept.
	Update(ctx context.Context, userId int, record Record) (Record, error)
	// ApplyExpense adds amount to the spending under a row lock, so concurrent
	// expenses of one user are serialized.
	ApplyExpense(ctx context.Context, userId int, amount decimal.Decimal) (Record, error)
	ResetSpent(ctx context.Context, userId int) (Record, error)
}

type RepositoryImpl struct {
	db *pgxpool.Pool
}

func NewBudgetRepo(db *pgxpool.Pool) *RepositoryImpl {
	return &RepositoryImpl{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (Record, error) {
	var record Record
	var divisor decimal.Decimal
	err := row.Scan(
		&record.Income,
		&divisor,
		&record.Outcome,
		&record.SavingsTarget,
		&record.SpentThisPeriod,
	)
	if err != nil {
		return Record{}, err
	}
	record.IncomeModifier, err = ParseIncomeModifier(divisor)
	if err != nil {
		return Record{}, err
	}
	return record, nil
}

const budgetColumns = `income, income_modifier, outcome, savings, spent`

func (r *RepositoryImpl) Get(ctx context.Context, userId int) (Record, error) {
	query := `SELECT ` + budgetColumns + ` FROM user_budget WHERE user_id = $1`
	record, err := scanRecord(r.db.QueryRow(ctx, query, userId))
	if errors.Is(err, pgx.ErrNoRows) {
		return Record{}, ErrBudgetNotFound
	}
	if err != nil {
		log.Errorf("failed to get budget of user %d: %v", userId, err)
		return Record{}, err
	}
	return record, nil
}

func (r *RepositoryImpl) Create(ctx context.Context, userId int, record Record) (Record, error) {
	divisor, err := record.IncomeModifier.Divisor()
	if err != nil {
		return Record{}, err
	}
	query := `INSERT INTO user_budget (user_id, income, income_modifier, outcome, savings, spent)
			  VALUES ($1, $2, $3, $4, $5, 0)
			  ON CONFLICT (user_id) DO NOTHING
			  RETURNING ` + budgetColumns
	created, err := scanRecord(r.db.QueryRow(ctx, query,
		userId,
		record.Income,
		divisor,
		record.Outcome,
		record.SavingsTarget,
	))
	if errors.Is(err, pgx.ErrNoRows) {
		return Record{}, ErrBudgetAlreadyExists
	}
	if err != nil {
		err := fmt.Errorf("could not create budget: %w", err)
		log.Error(err)
		return Record{}, err
	}
	return created, nil
}

func (r *RepositoryImpl) Update(ctx context.Context, userId int, record Record) (Record, error) {
	divisor, err := record.IncomeModifier.Divisor()
	if err != nil {
		return Record{}, err
	}
	query := `UPDATE user_budget
			  SET income = $1, income_modifier = $2, outcome = $3, savings = $4, updated = now()
			  WHERE user_id = $5
			  RETURNING ` + budgetColumns
	updated, err := scanRecord(r.db.QueryRow(ctx, query,
		record.Income,
		divisor,
		record.Outcome,
		record.SavingsTarget,
		userId,
	))
	if errors.Is(err, pgx.ErrNoRows) {
		return Record{}, ErrBudgetNotFound
	}
	if err != nil {
		err := fmt.Errorf("could not update budget: %w", err)
		log.Error(err)
		return Record{}, err
	}
	return updated, nil
}

func (r *RepositoryImpl) ApplyExpense(ctx context.Context, userId int, amount decimal.Decimal) (Record, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return Record{}, err
	}
	defer tx.Rollback(ctx)

	query := `SELECT ` + budgetColumns + ` FROM user_budget WHERE user_id = $1 FOR UPDATE`
	current, err := scanRecord(tx.QueryRow(ctx, query, userId))
	if errors.Is(err, pgx.ErrNoRows) {
		return Record{}, ErrBudgetNotFound
	}
	if err != nil {
		log.Errorf("failed to lock budget of user %d: %v", userId, err)
		return Record{}, err
	}

	updated, err := ApplyExpense(current, amount)
	if err != nil {
		return Record{}, err
	}

	_, err = tx.Exec(ctx, `UPDATE user_budget SET spent = $1, updated = now() WHERE user_id = $2`,
		updated.SpentThisPeriod, userId)
	if err != nil {
		err := fmt.Errorf("could not store expense: %w", err)
		log.Error(err)
		return Record{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return Record{}, err
	}
	return updated, nil
}

func (r *RepositoryImpl) ResetSpent(ctx context.Context, userId int) (Record, error) {
	query := `UPDATE user_budget SET spent = 0, updated = now() WHERE user_id = $1 RETURNING ` + budgetColumns
	record, err := scanRecord(r.db.QueryRow(ctx, query, userId))
	if errors.Is(err, pgx.ErrNoRows) {
		return Record{}, ErrBudgetNotFound
	}
	if err != nil {
		err := fmt.Errorf("could not reset spending: %w", err)
		log.Error(err)
		return Record{}, err
	}
	return record, nil
}

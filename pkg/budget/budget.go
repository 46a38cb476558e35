package budget

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidInput        = errors.New("invalid budget input")
	ErrBudgetNotFound      = errors.New("budget not configured")
	ErrBudgetAlreadyExists = errors.New("budget already configured")
)

// IncomeModifier tells how often the entered income is paid. Its divisor converts that
// income into a monthly-equivalent figure. The zero value is not a valid modifier.
type IncomeModifier int

const (
	Weekly IncomeModifier = iota + 1
	Biweekly
	Monthly
	Yearly
)

type modifierInfo struct {
	modifier IncomeModifier
	name     string
	divisor  decimal.Decimal
}

var incomeModifiers = []modifierInfo{
	{Weekly, "weekly", decimal.New(25, -2)},
	{Biweekly, "biweekly", decimal.New(5, -1)},
	{Monthly, "monthly", decimal.New(1, 0)},
	{Yearly, "yearly", decimal.New(12, 0)},
}

func lookupModifier(m IncomeModifier) (modifierInfo, bool) {
	for _, info := range incomeModifiers {
		if info.modifier == m {
			return info, true
		}
	}
	return modifierInfo{}, false
}

// Divisor returns the value the period income is divided by to get monthly income.
func (m IncomeModifier) Divisor() (decimal.Decimal, error) {
	info, ok := lookupModifier(m)
	if !ok {
		return decimal.Zero, fmt.Errorf("%w: unsupported income modifier %d", ErrInvalidInput, int(m))
	}
	return info.divisor, nil
}

func (m IncomeModifier) String() string {
	if info, ok := lookupModifier(m); ok {
		return info.name
	}
	return fmt.Sprintf("IncomeModifier(%d)", int(m))
}

// ParseIncomeModifier maps a stored divisor (0.25, 0.5, 1 or 12) back to its modifier.
func ParseIncomeModifier(divisor decimal.Decimal) (IncomeModifier, error) {
	for _, info := range incomeModifiers {
		if info.divisor.Equal(divisor) {
			return info.modifier, nil
		}
	}
	return 0, fmt.Errorf("%w: unsupported income modifier %s", ErrInvalidInput, divisor.String())
}

// IncomeModifierByName accepts "weekly", "biweekly", "monthly" or "yearly", case-insensitively.
func IncomeModifierByName(name string) (IncomeModifier, error) {
	for _, info := range incomeModifiers {
		if strings.EqualFold(info.name, name) {
			return info.modifier, nil
		}
	}
	return 0, fmt.Errorf("%w: unknown income frequency %q", ErrInvalidInput, name)
}

// Record is a user's budget: what comes in, fixed monthly expenses, what should be put aside,
// and what has been spent in the current weekly period.
type Record struct {
	Income          decimal.Decimal
	IncomeModifier  IncomeModifier
	Outcome         decimal.Decimal // fixed monthly expenses
	SavingsTarget   decimal.Decimal
	SpentThisPeriod decimal.Decimal
}

func (r Record) Validate() error {
	if _, err := r.IncomeModifier.Divisor(); err != nil {
		return err
	}
	for name, v := range map[string]decimal.Decimal{
		"income":  r.Income,
		"outcome": r.Outcome,
		"savings": r.SavingsTarget,
		"spent":   r.SpentThisPeriod,
	} {
		if err := CheckAmount(name, v); err != nil {
			return err
		}
	}
	return nil
}

const (
	// amounts stay below 10^maxAmountDigits, which fits the NUMERIC(14, 2) columns
	maxAmountDigits   = 12
	minAmountExponent = -20
)

// CheckAmount accepts non-negative amounts below one trillion with at most 20 decimal places.
// It only inspects the coefficient and exponent, so absurd inputs such as 1e2000000 are
// rejected before any arithmetic scales them.
func CheckAmount(name string, v decimal.Decimal) error {
	if v.IsNegative() {
		return fmt.Errorf("%w: %s must not be negative", ErrInvalidInput, name)
	}
	exp := v.Exponent()
	if exp < minAmountExponent {
		return fmt.Errorf("%w: %s has too many decimal places", ErrInvalidInput, name)
	}
	if exp > maxAmountDigits || (!v.IsZero() && v.NumDigits()+int(exp) > maxAmountDigits) {
		return fmt.Errorf("%w: %s is too large", ErrInvalidInput, name)
	}
	return nil
}

// Summary holds the derived figures shown to the user, each rounded to cents.
type Summary struct {
	MonthlyIncome      decimal.Decimal
	DisposableIncome   decimal.Decimal
	WeeklyDisposable   decimal.Decimal
	RecommendedSavings decimal.Decimal
	Spent              decimal.Decimal
	Leftover           decimal.Decimal
}

// OverBudget reports whether more was spent this week than the weekly disposable income.
func (s Summary) OverBudget() bool {
	return s.Leftover.IsNegative()
}

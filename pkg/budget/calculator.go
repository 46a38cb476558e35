package budget

import (
	"github.com/shopspring/decimal"
)

var (
	weeksPerMonth = decimal.New(4, 0)
	savingsShare  = decimal.New(25, -2)
	half          = decimal.New(5, -1)
)

// RoundCents rounds to two decimal places, ties toward positive infinity.
func RoundCents(d decimal.Decimal) decimal.Decimal {
	return d.Shift(2).Add(half).Floor().Shift(-2)
}

func DeriveMonthlyIncome(income decimal.Decimal, modifier IncomeModifier) (decimal.Decimal, error) {
	divisor, err := modifier.Divisor()
	if err != nil {
		return decimal.Zero, err
	}
	return income.Div(divisor), nil
}

// DeriveDisposableIncome is negative when fixed expenses and savings exceed the income.
func DeriveDisposableIncome(monthlyIncome, outcome, savingsTarget decimal.Decimal) decimal.Decimal {
	return monthlyIncome.Sub(outcome.Add(savingsTarget))
}

func DeriveWeeklyDisposable(disposableIncome decimal.Decimal) decimal.Decimal {
	return disposableIncome.Div(weeksPerMonth)
}

// DeriveRecommendedSavings suggests a quarter of what is left after fixed expenses, in whole units.
func DeriveRecommendedSavings(monthlyIncome, outcome decimal.Decimal) decimal.Decimal {
	return monthlyIncome.Sub(outcome).Mul(savingsShare).Floor()
}

// ApplyExpense adds amount, rounded to cents, to the spending of the current period.
// A zero amount is valid and leaves the record unchanged.
func ApplyExpense(record Record, amount decimal.Decimal) (Record, error) {
	if err := CheckAmount("expense amount", amount); err != nil {
		return record, err
	}
	spent := RoundCents(record.SpentThisPeriod.Add(RoundCents(amount)))
	if err := CheckAmount("spent", spent); err != nil {
		return record, err
	}
	record.SpentThisPeriod = spent
	return record, nil
}

func DeriveLeftover(weeklyDisposable, spentThisPeriod decimal.Decimal) decimal.Decimal {
	return weeklyDisposable.Sub(spentThisPeriod)
}

// Summarize runs the whole derivation chain for a record. Intermediate values keep full
// precision; only the returned figures are rounded.
func Summarize(record Record) (Summary, error) {
	monthly, err := DeriveMonthlyIncome(record.Income, record.IncomeModifier)
	if err != nil {
		return Summary{}, err
	}
	disposable := DeriveDisposableIncome(monthly, record.Outcome, record.SavingsTarget)
	weekly := DeriveWeeklyDisposable(disposable)

	return Summary{
		MonthlyIncome:      RoundCents(monthly),
		DisposableIncome:   RoundCents(disposable),
		WeeklyDisposable:   RoundCents(weekly),
		RecommendedSavings: DeriveRecommendedSavings(monthly, record.Outcome),
		Spent:              RoundCents(record.SpentThisPeriod),
		Leftover:           RoundCents(DeriveLeftover(weekly, record.SpentThisPeriod)),
	}, nil
}

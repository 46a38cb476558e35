package event_bus

import "github.com/shopspring/decimal"

const (
	BadgeAwardedEvent    EventType = "progression.badge.awarded"
	LevelReachedEvent    EventType = "progression.level.reached"
	ExpenseRecordedEvent EventType = "budget.expense.recorded"
)

type BadgeAwarded struct {
	UserId                int
	BadgeId               int
	BadgeName             string
	ExperiencePoints      int
	TotalExperiencePoints int
}

type LevelReached struct {
	UserId                int
	PreviousLevelId       int // 0 when the user had no resolvable level before
	LevelId               int
	TotalExperiencePoints int
}

type ExpenseRecorded struct {
	UserId   int
	Amount   decimal.Decimal
	Spent    decimal.Decimal
	Leftover decimal.Decimal
}

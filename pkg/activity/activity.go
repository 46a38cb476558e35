package activity

import "time"

type Kind string

const (
	KindBadgeAwarded    Kind = "badge_awarded"
	KindLevelReached    Kind = "level_reached"
	KindExpenseRecorded Kind = "expense_recorded"
)

type Entry struct {
	Id      int64
	UserId  int
	Kind    Kind
	Message string
	Created time.Time
}

const (
	DefaultLimit = 20
	MaxLimit     = 100
)

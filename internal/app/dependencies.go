package app

import (
	"github.com/budgetquest/budgetquest/internal/catalog"
	"github.com/budgetquest/budgetquest/internal/config"
	"github.com/budgetquest/budgetquest/internal/event_bus"
	"github.com/budgetquest/budgetquest/internal/utils"
	"github.com/budgetquest/budgetquest/pkg/activity"
	"github.com/budgetquest/budgetquest/pkg/budget"
	"github.com/budgetquest/budgetquest/pkg/course"
	"github.com/budgetquest/budgetquest/pkg/google"
	"github.com/budgetquest/budgetquest/pkg/progression"
	"github.com/budgetquest/budgetquest/pkg/user"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Dependencies holds all services and handlers for the application.
type Dependencies struct {
	Clock    utils.Clock
	EventBus *event_bus.EventBus

	UserService user.Service
	UserHandler *user.Handler

	GoogleVerifier    *google.TokenVerifier
	GoogleAuthHandler *google.AuthHandler

	BudgetService *budget.ServiceImpl
	BudgetHandler *budget.Handler

	ProgressionService *progression.ServiceImpl
	ProgressionHandler *progression.Handler

	CourseService *course.ServiceImpl
	CourseHandler *course.Handler

	ActivityService *activity.ServiceImpl
	ActivityHandler *activity.Handler

	CatalogImporter *catalog.Importer
}

// BuildDependencies initializes and wires all application services and handlers.
func BuildDependencies(db *pgxpool.Pool, cfg config.Application) *Dependencies {
	deps := &Dependencies{}

	deps.Clock = utils.SystemClock{}
	deps.EventBus = event_bus.NewEventBus()

	deps.UserService = user.NewUserService(user.NewUserRepo(db))
	deps.UserHandler = user.NewHandler(deps.UserService)

	deps.GoogleVerifier = google.NewTokenVerifier(cfg.Google.ClientId)
	deps.GoogleAuthHandler = google.NewAuthHandler(deps.GoogleVerifier, deps.UserService)

	deps.BudgetService = budget.NewService(budget.NewBudgetRepo(db), deps.EventBus)
	deps.BudgetHandler = budget.NewHandler(deps.BudgetService)

	deps.ProgressionService = progression.NewService(progression.NewProgressionRepo(db), deps.EventBus)
	deps.ProgressionHandler = progression.NewHandler(deps.ProgressionService, deps.UserService)

	deps.CourseService = course.NewService(course.NewCourseRepo(db), deps.ProgressionService)
	deps.CourseHandler = course.NewHandler(deps.CourseService)

	// subscribes to budget and progression events, so it must exist before the first request
	deps.ActivityService = activity.NewService(activity.NewActivityRepo(db), deps.EventBus, deps.Clock)
	deps.ActivityHandler = activity.NewHandler(deps.ActivityService)

	deps.CatalogImporter = catalog.NewImporter(deps.ProgressionService, deps.CourseService)

	return deps
}

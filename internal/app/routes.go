package app

import (
	"github.com/gorilla/mux"
)

// RegisterRoutes registers all API endpoints.
func RegisterRoutes(r *mux.Router, deps *Dependencies) {

	// Auth
	r.HandleFunc("/api/auth/google", deps.GoogleAuthHandler.SignIn).Methods("POST")

	// User
	r.HandleFunc("/api/user/current", deps.ProgressionHandler.CurrentProfile).Methods("GET")
	r.HandleFunc("/api/user/current", deps.UserHandler.DeleteCurrentUser).Methods("DELETE")
	r.HandleFunc("/api/user/current/badges", deps.ProgressionHandler.ListCurrentUserBadges).Methods("GET")

	// Budget
	r.HandleFunc("/api/budget", deps.BudgetHandler.GetBudget).Methods("GET")
	r.HandleFunc("/api/budget", deps.BudgetHandler.CreateBudget).Methods("POST")
	r.HandleFunc("/api/budget", deps.BudgetHandler.UpdateBudget).Methods("PUT")
	r.HandleFunc("/api/budget/expense", deps.BudgetHandler.RecordExpense).Methods("POST")
	r.HandleFunc("/api/budget/expense", deps.BudgetHandler.ResetPeriod).Methods("DELETE")
	r.HandleFunc("/api/budget/recommended-savings", deps.BudgetHandler.RecommendedSavings).Methods("GET")

	// Progression
	r.HandleFunc("/api/progress", deps.ProgressionHandler.GetProgress).Methods("GET")
	r.HandleFunc("/api/badge", deps.ProgressionHandler.ListBadges).Methods("GET")
	r.HandleFunc("/api/level", deps.ProgressionHandler.ListLevels).Methods("GET")

	// Courses
	r.HandleFunc("/api/course", deps.CourseHandler.ListCourses).Methods("GET")
	r.HandleFunc("/api/course/{courseId:[0-9]+}", deps.CourseHandler.GetCourse).Methods("GET")
	r.HandleFunc("/api/course/{courseId:[0-9]+}/completion", deps.CourseHandler.CompleteCourse).Methods("POST")

	// Activity
	r.HandleFunc("/api/activity", deps.ActivityHandler.ListActivity).Methods("GET")
}

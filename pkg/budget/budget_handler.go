package budget

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/budgetquest/budgetquest/internal/rest"
	"github.com/budgetquest/budgetquest/pkg/user"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

type BudgetRequestDTO struct {
	Income          decimal.Decimal `json:"income"`
	IncomeFrequency string          `json:"incomeFrequency" validate:"required,oneof=weekly biweekly monthly yearly"`
	Outcome         decimal.Decimal `json:"outcome"`
	Savings         decimal.Decimal `json:"savings"`
}

type ExpenseRequestDTO struct {
	Amount decimal.Decimal `json:"amount"`
}

type RecordDTO struct {
	Income          json.Number `json:"income"`
	IncomeFrequency string      `json:"incomeFrequency"`
	IncomeModifier  json.Number `json:"incomeModifier"`
	Outcome         json.Number `json:"outcome"`
	Savings         json.Number `json:"savings"`
	Spent           json.Number `json:"spent"`
}

type SummaryDTO struct {
	MonthlyIncome      json.Number `json:"monthlyIncome"`
	DisposableIncome   json.Number `json:"disposableIncome"`
	WeeklyDisposable   json.Number `json:"weeklyDisposable"`
	RecommendedSavings json.Number `json:"recommendedSavings"`
	Spent              json.Number `json:"spent"`
	Leftover           json.Number `json:"leftover"`
	OverBudget         bool        `json:"overBudget"`
}

// BudgetDTO carries Configured=false and nothing else when the user has no budget yet.
type BudgetDTO struct {
	Configured bool        `json:"configured"`
	Budget     *RecordDTO  `json:"budget,omitempty"`
	Summary    *SummaryDTO `json:"summary,omitempty"`
}

type RecommendedSavingsDTO struct {
	RecommendedSavings json.Number `json:"recommendedSavings"`
}

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// GetBudget godoc
// @Summary Get budget
// @Description Get the budget of the current user with its derived weekly figures, or configured=false when no budget is set up yet
// @Tags Budget
// @Produce json
// @Success 200 {object} BudgetDTO
// @Failure 403 {string} string "User not found"
// @Router /api/budget [get]
// @Security XUserId
func (h *Handler) GetBudget(w http.ResponseWriter, r *http.Request) {
	log.Debug("Getting budget")
	record, summary, err := h.service.GetSummary(r.Context())
	if errors.Is(err, ErrBudgetNotFound) {
		rest.WriteJSON(w, http.StatusOK, BudgetDTO{Configured: false})
		return
	}
	if err != nil {
		writeServiceError(w, err, "Failed to load budget")
		return
	}
	rest.WriteJSON(w, http.StatusOK, toBudgetDTO(record, summary))
}

// CreateBudget godoc
// @Summary Set up budget
// @Description First-time budget setup for the current user
// @Tags Budget
// @Accept json
// @Produce json
// @Param budget body BudgetRequestDTO true "Budget"
// @Success 201 {object} BudgetDTO
// @Failure 400 {object} rest.ErrorResponse
// @Failure 409 {object} rest.ErrorResponse
// @Router /api/budget [post]
// @Security XUserId
func (h *Handler) CreateBudget(w http.ResponseWriter, r *http.Request) {
	log.Debug("Creating budget")
	record, ok := decodeBudgetRequest(w, r)
	if !ok {
		return
	}
	created, summary, err := h.service.CreateBudget(r.Context(), record)
	if err != nil {
		writeServiceError(w, err, "Failed to create budget")
		return
	}
	rest.WriteJSON(w, http.StatusCreated, toBudgetDTO(created, summary))
}

// UpdateBudget godoc
// @Summary Update budget
// @Description Change income, income frequency, fixed expenses or savings target. Spending of the current week is kept.
// @Tags Budget
// @Accept json
// @Produce json
// @Param budget body BudgetRequestDTO true "Budget"
// @Success 200 {object} BudgetDTO
// @Failure 400 {object} rest.ErrorResponse
// @Failure 404 {object} rest.ErrorResponse
// @Router /api/budget [put]
// @Security XUserId
func (h *Handler) UpdateBudget(w http.ResponseWriter, r *http.Request) {
	log.Debug("Updating budget")
	record, ok := decodeBudgetRequest(w, r)
	if !ok {
		return
	}
	updated, summary, err := h.service.UpdateBudget(r.Context(), record)
	if err != nil {
		writeServiceError(w, err, "Failed to update budget")
		return
	}
	rest.WriteJSON(w, http.StatusOK, toBudgetDTO(updated, summary))
}

// RecordExpense godoc
// @Summary Record expense
// @Description Add an expense to the spending of the current week
// @Tags Budget
// @Accept json
// @Produce json
// @Param expense body ExpenseRequestDTO true "Expense"
// @Success 200 {object} BudgetDTO
// @Failure 400 {object} rest.ErrorResponse
// @Failure 404 {object} rest.ErrorResponse
// @Router /api/budget/expense [post]
// @Security XUserId
func (h *Handler) RecordExpense(w http.ResponseWriter, r *http.Request) {
	log.Debug("Recording expense")
	input, err := rest.DecodeAndValidate[ExpenseRequestDTO](w, r)
	if err != nil {
		return
	}
	record, summary, err := h.service.RecordExpense(r.Context(), input.Amount)
	if err != nil {
		writeServiceError(w, err, "Failed to record expense")
		return
	}
	rest.WriteJSON(w, http.StatusOK, toBudgetDTO(record, summary))
}

// ResetPeriod godoc
// @Summary Start a new week
// @Description Reset the spending of the current week to zero
// @Tags Budget
// @Produce json
// @Success 200 {object} BudgetDTO
// @Failure 404 {object} rest.ErrorResponse
// @Router /api/budget/expense [delete]
// @Security XUserId
func (h *Handler) ResetPeriod(w http.ResponseWriter, r *http.Request) {
	log.Debug("Resetting budget period")
	record, summary, err := h.service.ResetPeriod(r.Context())
	if err != nil {
		writeServiceError(w, err, "Failed to reset spending")
		return
	}
	rest.WriteJSON(w, http.StatusOK, toBudgetDTO(record, summary))
}

// RecommendedSavings godoc
// @Summary Recommended savings
// @Description Savings hint for a budget draft, a quarter of what remains after fixed expenses
// @Tags Budget
// @Produce json
// @Param income query number true "Income"
// @Param incomeFrequency query string true "weekly, biweekly, monthly or yearly"
// @Param outcome query number true "Fixed monthly expenses"
// @Success 200 {object} RecommendedSavingsDTO
// @Failure 400 {object} rest.ErrorResponse
// @Router /api/budget/recommended-savings [get]
// @Security XUserId
func (h *Handler) RecommendedSavings(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	income, err := parseAmount(query.Get("income"), "income")
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid income", err.Error())
		return
	}
	outcome, err := parseAmount(query.Get("outcome"), "outcome")
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid outcome", err.Error())
		return
	}
	modifier, err := IncomeModifierByName(query.Get("incomeFrequency"))
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid income frequency", err.Error())
		return
	}
	monthly, err := DeriveMonthlyIncome(income, modifier)
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid income frequency", err.Error())
		return
	}
	rest.WriteJSON(w, http.StatusOK, RecommendedSavingsDTO{
		RecommendedSavings: money(DeriveRecommendedSavings(monthly, outcome)),
	})
}

func parseAmount(raw string, name string) (decimal.Decimal, error) {
	v, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, err
	}
	return v, CheckAmount(name, v)
}

func decodeBudgetRequest(w http.ResponseWriter, r *http.Request) (Record, bool) {
	input, err := rest.DecodeAndValidate[BudgetRequestDTO](w, r)
	if err != nil {
		return Record{}, false
	}
	modifier, err := IncomeModifierByName(input.IncomeFrequency)
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Validation failed", err.Error())
		return Record{}, false
	}
	return Record{
		Income:         input.Income,
		IncomeModifier: modifier,
		Outcome:        input.Outcome,
		SavingsTarget:  input.Savings,
	}, true
}

func writeServiceError(w http.ResponseWriter, err error, message string) {
	switch {
	case errors.Is(err, user.ErrNoUser):
		rest.WriteError(w, http.StatusForbidden, "User not found", "")
	case errors.Is(err, ErrInvalidInput):
		rest.WriteError(w, http.StatusBadRequest, "Invalid budget", err.Error())
	case errors.Is(err, ErrBudgetNotFound):
		rest.WriteError(w, http.StatusNotFound, "Budget not configured", err.Error())
	case errors.Is(err, ErrBudgetAlreadyExists):
		rest.WriteError(w, http.StatusConflict, "Budget already configured", err.Error())
	default:
		log.Errorf("%s: %v", message, err)
		rest.WriteError(w, http.StatusInternalServerError, message, err.Error())
	}
}

func money(d decimal.Decimal) json.Number {
	return json.Number(d.StringFixed(2))
}

func toBudgetDTO(record Record, summary Summary) BudgetDTO {
	divisor, _ := record.IncomeModifier.Divisor()
	return BudgetDTO{
		Configured: true,
		Budget: &RecordDTO{
			Income:          money(record.Income),
			IncomeFrequency: record.IncomeModifier.String(),
			IncomeModifier:  json.Number(divisor.String()),
			Outcome:         money(record.Outcome),
			Savings:         money(record.SavingsTarget),
			Spent:           money(record.SpentThisPeriod),
		},
		Summary: &SummaryDTO{
			MonthlyIncome:      money(summary.MonthlyIncome),
			DisposableIncome:   money(summary.DisposableIncome),
			WeeklyDisposable:   money(summary.WeeklyDisposable),
			RecommendedSavings: money(summary.RecommendedSavings),
			Spent:              money(summary.Spent),
			Leftover:           money(summary.Leftover),
			OverBudget:         summary.OverBudget(),
		},
	}
}

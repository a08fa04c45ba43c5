package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"settleup-backend/config"
	"settleup-backend/settlement"
	"settleup-backend/utils"
	"strings"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"
)

const maxBatchSize = 100

type CalculateRequest struct {
	Expense  *settlement.Expense `json:"expense"`
	Strategy string              `json:"strategy"`
}

type SummaryRequest struct {
	Settlements []settlement.Settlement `json:"settlements"`
}

type ExpenseRequest struct {
	Expense *settlement.Expense `json:"expense"`
}

type BatchRequest struct {
	Expenses []*settlement.Expense `json:"expenses"`
	Strategy string                `json:"strategy"`
}

type PlanResponse struct {
	*settlement.Result
	Strategy settlement.Strategy `json:"strategy"`
	Summary  settlement.Summary  `json:"summary"`
}

type CompareResponse struct {
	Optimal PlanResponse `json:"optimal"`
	Hub     PlanResponse `json:"hub"`
	// TransfersSaved is how many fewer transfers optimal needs than hub.
	TransfersSaved int `json:"transfersSaved"`
}

// resolveStrategy falls back to the configured default for an empty name.
func resolveStrategy(name string) (settlement.Strategy, error) {
	if strings.TrimSpace(name) == "" {
		name = config.AppConfig.DefaultStrategy
	}
	return settlement.ParseStrategy(name)
}

func newPlanResponse(result *settlement.Result, strategy settlement.Strategy) PlanResponse {
	return PlanResponse{
		Result:   result,
		Strategy: strategy,
		Summary:  settlement.Summarize(result.Settlements),
	}
}

// respondCalcError maps core errors onto HTTP statuses.
func respondCalcError(c *gin.Context, err error) {
	var verr *settlement.ValidationError
	switch {
	case errors.As(err, &verr):
		utils.ErrorWithData(c, http.StatusUnprocessableEntity, verr.Error(), gin.H{"problems": verr.Problems})
	case errors.Is(err, settlement.ErrUnknownStrategy), errors.Is(err, settlement.ErrInvalidInput):
		utils.BadRequest(c, err.Error())
	default:
		utils.InternalError(c, "Failed to calculate settlements")
	}
}

// POST /api/settlements/calculate
func CalculateSettlements(c *gin.Context) {
	var req CalculateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, fmt.Sprintf("%v: %v", settlement.ErrInvalidInput, err))
		return
	}

	strategy, err := resolveStrategy(req.Strategy)
	if err != nil {
		respondCalcError(c, err)
		return
	}

	result, err := settlement.Calculate(req.Expense, strategy)
	if err != nil {
		respondCalcError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", newPlanResponse(result, strategy))
}

// POST /api/settlements/summary
func SummarizeSettlements(c *gin.Context) {
	var req SummaryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, fmt.Sprintf("%v: %v", settlement.ErrInvalidInput, err))
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", settlement.Summarize(req.Settlements))
}

// POST /api/settlements/compare
func CompareStrategies(c *gin.Context) {
	var req ExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, fmt.Sprintf("%v: %v", settlement.ErrInvalidInput, err))
		return
	}

	resp, err := compare(c.Request.Context(), req.Expense)
	if err != nil {
		respondCalcError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", resp)
}

func compare(ctx context.Context, expense *settlement.Expense) (*CompareResponse, error) {
	strategies := []settlement.Strategy{settlement.StrategyOptimal, settlement.StrategyHub}
	plans := make([]PlanResponse, len(strategies))

	g, ctx := errgroup.WithContext(ctx)
	for i, strategy := range strategies {
		i, strategy := i, strategy // per-iteration copy (go directive lowered to 1.21)
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			result, err := settlement.Calculate(expense, strategy)
			if err != nil {
				return err
			}
			plans[i] = newPlanResponse(result, strategy)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &CompareResponse{
		Optimal:        plans[0],
		Hub:            plans[1],
		TransfersSaved: plans[1].TotalSettlements - plans[0].TotalSettlements,
	}, nil
}

// POST /api/settlements/batch
func CalculateBatch(c *gin.Context) {
	var req BatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, fmt.Sprintf("%v: %v", settlement.ErrInvalidInput, err))
		return
	}
	if len(req.Expenses) > maxBatchSize {
		utils.BadRequest(c, fmt.Sprintf("batch too large: %d expenses (max %d)", len(req.Expenses), maxBatchSize))
		return
	}

	strategy, err := resolveStrategy(req.Strategy)
	if err != nil {
		respondCalcError(c, err)
		return
	}

	results, err := calculateBatch(c.Request.Context(), req.Expenses, strategy, config.AppConfig.BatchConcurrency)
	if err != nil {
		respondCalcError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", results)
}

// calculateBatch keeps results in request order.
func calculateBatch(ctx context.Context, expenses []*settlement.Expense, strategy settlement.Strategy, limit int) ([]PlanResponse, error) {
	results := make([]PlanResponse, len(expenses))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(limit, 1))
	for i, expense := range expenses {
		i, expense := i, expense // per-iteration copy (go directive lowered to 1.21)
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			result, err := settlement.Calculate(expense, strategy)
			if err != nil {
				return fmt.Errorf("expense %d: %w", i, err)
			}
			results[i] = newPlanResponse(result, strategy)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// POST /api/expenses/validate
func ValidateExpense(c *gin.Context) {
	var req ExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, fmt.Sprintf("%v: %v", settlement.ErrInvalidInput, err))
		return
	}
	if req.Expense == nil {
		respondCalcError(c, settlement.ErrInvalidInput)
		return
	}

	if err := settlement.Validate(*req.Expense); err != nil {
		respondCalcError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Expense is valid", gin.H{"problems": []string{}})
}

package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/agentbank/ledger/internal/adapter/http/models"
	"github.com/agentbank/ledger/internal/adapter/repository/repo_interfaces"
	"github.com/agentbank/ledger/internal/commons"
	"github.com/agentbank/ledger/internal/domain"
	"github.com/agentbank/ledger/internal/logger"
)

type GoalService struct {
	goalRepo    repo_interfaces.GoalRepository
	accountRepo repo_interfaces.AccountRepository
}

func NewGoalService(goalRepo repo_interfaces.GoalRepository, accountRepo repo_interfaces.AccountRepository) *GoalService {
	return &GoalService{goalRepo: goalRepo, accountRepo: accountRepo}
}

func (s *GoalService) Create(ctx context.Context, agentID string, req models.CreateGoalRequest) (commons.Response[models.GoalResponse], error) {
	logger.Info("goal service create request", logger.Fields{
		"agentId": agentID,
		"payload": logger.SanitizePayload(req),
	})

	if err := req.Validate(); err != nil {
		return fail[models.GoalResponse](err)
	}

	goal := domain.Goal{
		AgentID:      agentID,
		Name:         strings.TrimSpace(req.Name),
		TargetAmount: req.TargetAmount,
		Status:       domain.GoalStatusActive,
	}

	if req.LinkedAccountID != "" {
		linked, err := s.accountRepo.GetOwned(ctx, req.LinkedAccountID, agentID)
		if err != nil || !linked.IsActive() {
			if err != nil && !errors.Is(err, domain.ErrRecordNotFound) {
				return fail[models.GoalResponse](err)
			}
			return fail[models.GoalResponse](domain.NewError(domain.CodeAccountNotFound, "Linked account not found or not active"))
		}
		goal.LinkedAccountID = &linked.ID
	}

	if req.TargetDate != "" {
		target, err := parseTargetDate(req.TargetDate)
		if err != nil {
			return fail[models.GoalResponse](domain.NewError(domain.CodeInvalidDate, "Invalid target date format"))
		}
		if !target.After(time.Now().UTC()) {
			return fail[models.GoalResponse](domain.NewError(domain.CodeDateInPast, "Target date must be in the future"))
		}
		goal.TargetDate = &target
	}

	created, err := s.goalRepo.Create(ctx, goal)
	if err != nil {
		logger.Error("goal service create failed", err, logger.Fields{"agentId": agentID})
		return fail[models.GoalResponse](err)
	}

	view := models.NewGoalView(created)
	s.attachLinkedAccount(ctx, agentID, &view, created)

	message := fmt.Sprintf("Goal %q created! Target: $%s", created.Name, created.TargetAmount.StringFixed(2))
	return commons.SuccessResponse(message, models.GoalResponse{Goal: view}), nil
}

func (s *GoalService) List(ctx context.Context, agentID string, status string) (commons.Response[models.GoalListResponse], error) {
	var filter *domain.GoalStatus
	if parsed := domain.GoalStatus(status); parsed.Valid() {
		filter = &parsed
	}

	goals, err := s.goalRepo.List(ctx, agentID, filter)
	if err != nil {
		return fail[models.GoalListResponse](err)
	}

	accounts, err := s.accountRepo.ListByAgent(ctx, agentID, false)
	if err != nil {
		return fail[models.GoalListResponse](err)
	}
	linked := make(map[string]models.LinkedAccountView, len(accounts))
	for _, account := range accounts {
		linked[account.ID] = models.LinkedAccountView{
			ID:       account.ID,
			Type:     string(account.Type),
			Nickname: account.Nickname,
		}
	}

	summary := models.GoalSummary{}
	views := make([]models.GoalView, 0, len(goals))
	for _, goal := range goals {
		summary.Total++
		switch goal.Status {
		case domain.GoalStatusActive:
			summary.Active++
		case domain.GoalStatusCompleted:
			summary.Completed++
		}

		view := models.NewGoalView(goal)
		if goal.LinkedAccountID != nil {
			if account, ok := linked[*goal.LinkedAccountID]; ok {
				view.LinkedAccount = &account
			}
		}
		views = append(views, view)
	}

	response := models.GoalListResponse{Goals: views, Summary: summary}
	return commons.SuccessResponse("Goals", response), nil
}

func (s *GoalService) Update(ctx context.Context, agentID, goalID string, req models.UpdateGoalRequest) (commons.Response[models.GoalResponse], error) {
	logger.Info("goal service update request", logger.Fields{
		"agentId": agentID,
		"goalId":  goalID,
		"payload": logger.SanitizePayload(req),
	})

	goal, err := s.goalRepo.GetOwned(ctx, goalID, agentID)
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			return fail[models.GoalResponse](domain.NewError(domain.CodeGoalNotFound, "Goal not found"))
		}
		return fail[models.GoalResponse](err)
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return fail[models.GoalResponse](domain.NewError(domain.CodeInvalidName, "Goal name cannot be empty"))
		}
		if len(name) > 100 {
			return fail[models.GoalResponse](domain.NewError(domain.CodeNameTooLong, "Goal name must be 100 characters or less"))
		}
		goal.Name = name
	}

	completed := false
	if req.CurrentAmount != nil {
		amount := *req.CurrentAmount
		if amount.IsNegative() {
			return fail[models.GoalResponse](domain.NewError(domain.CodeInvalidAmount, "Current amount cannot be negative"))
		}
		if amount.GreaterThan(goal.TargetAmount) {
			return fail[models.GoalResponse](domain.NewError(domain.CodeExceedsTarget, "Current amount cannot exceed target amount"))
		}
		goal.CurrentAmount = amount
		if goal.Status == domain.GoalStatusActive && amount.GreaterThanOrEqual(goal.TargetAmount) {
			now := time.Now().UTC()
			goal.Status = domain.GoalStatusCompleted
			goal.CompletedAt = &now
			completed = true
		}
	}

	if req.Status != nil {
		status := domain.GoalStatus(*req.Status)
		if !status.Valid() {
			return fail[models.GoalResponse](domain.NewError(domain.CodeInvalidStatus, "Status must be: active, completed, or cancelled"))
		}
		if status == domain.GoalStatusActive && goal.Status != domain.GoalStatusActive && !completed {
			return fail[models.GoalResponse](domain.NewError(domain.CodeCannotReactivate, "Cannot reactivate a completed or cancelled goal"))
		}
		if status == domain.GoalStatusCompleted && goal.Status != domain.GoalStatusCompleted {
			now := time.Now().UTC()
			goal.CompletedAt = &now
			completed = true
		}
		goal.Status = status
	}

	updated, err := s.goalRepo.Update(ctx, goal)
	if err != nil {
		logger.Error("goal service update failed", err, logger.Fields{"agentId": agentID, "goalId": goalID})
		return fail[models.GoalResponse](err)
	}

	view := models.NewGoalView(updated)
	s.attachLinkedAccount(ctx, agentID, &view, updated)

	message := "Goal updated successfully"
	if completed && updated.Status == domain.GoalStatusCompleted {
		message = fmt.Sprintf("Congratulations! Goal %q completed!", updated.Name)
	}
	return commons.SuccessResponse(message, models.GoalResponse{Goal: view}), nil
}

// attachLinkedAccount decorates the view with the linked account's type
// and nickname. Lookup failures leave the view bare rather than failing
// the whole request.
func (s *GoalService) attachLinkedAccount(ctx context.Context, agentID string, view *models.GoalView, goal domain.Goal) {
	if goal.LinkedAccountID == nil {
		return
	}
	account, err := s.accountRepo.GetOwned(ctx, *goal.LinkedAccountID, agentID)
	if err != nil {
		return
	}
	view.LinkedAccount = &models.LinkedAccountView{
		ID:       account.ID,
		Type:     string(account.Type),
		Nickname: account.Nickname,
	}
}

func parseTargetDate(raw string) (time.Time, error) {
	if target, err := time.Parse(time.RFC3339, raw); err == nil {
		return target.UTC(), nil
	}
	target, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return time.Time{}, err
	}
	return target.UTC(), nil
}

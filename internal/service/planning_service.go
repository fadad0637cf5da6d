package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ndewijer/Stock-Trading-Simulator-Backend/internal/api/request"
	"github.com/ndewijer/Stock-Trading-Simulator-Backend/internal/apperrors"
	"github.com/ndewijer/Stock-Trading-Simulator-Backend/internal/model"
	"github.com/ndewijer/Stock-Trading-Simulator-Backend/internal/repository"
	"github.com/ndewijer/Stock-Trading-Simulator-Backend/internal/validation"
)

// GroupService handles trading groups.
type GroupService struct {
	groupRepo *repository.GroupRepository
}

// NewGroupService creates a new GroupService.
func NewGroupService(groupRepo *repository.GroupRepository) *GroupService {
	return &GroupService{groupRepo: groupRepo}
}

func (s *GroupService) GetGroups(ctx context.Context) ([]model.Group, error) {
	return s.groupRepo.GetGroups(ctx)
}

// CreateGroup creates a group, generating an ID when the request has none.
func (s *GroupService) CreateGroup(ctx context.Context, req request.CreateGroupRequest) (model.Group, error) {
	g := model.Group{Name: strings.TrimSpace(req.Name)}
	if req.ID != nil {
		g.ID = *req.ID
	}
	if err := s.groupRepo.InsertGroup(ctx, &g); err != nil {
		return model.Group{}, err
	}
	return g, nil
}

// TaskService handles tasks scheduled for groups.
type TaskService struct {
	taskRepo  *repository.TaskRepository
	groupRepo *repository.GroupRepository
}

// NewTaskService creates a new TaskService.
func NewTaskService(taskRepo *repository.TaskRepository, groupRepo *repository.GroupRepository) *TaskService {
	return &TaskService{taskRepo: taskRepo, groupRepo: groupRepo}
}

func (s *TaskService) GetTasks(ctx context.Context) ([]model.Task, error) {
	return s.taskRepo.GetTasks(ctx)
}

// CreateTask creates a task for an existing group.
// Returns ErrGroupNotFound if the group does not exist.
func (s *TaskService) CreateTask(ctx context.Context, req request.CreateTaskRequest) (model.Task, error) {
	start, end, err := validation.ParseRange("startDate", req.StartDate, "endDate", req.EndDate)
	if err != nil {
		return model.Task{}, err
	}

	exists, err := s.groupRepo.GroupExists(ctx, req.GroupID)
	if err != nil {
		return model.Task{}, err
	}
	if !exists {
		return model.Task{}, apperrors.ErrGroupNotFound
	}

	t := model.Task{
		GroupID:         req.GroupID,
		Name:            strings.TrimSpace(req.Name),
		StartDate:       start,
		EndDate:         end,
		EstimatedEffort: req.EstimatedEffort,
		Weekdays:        req.Weekdays,
	}
	if err := s.taskRepo.InsertTask(ctx, &t); err != nil {
		return model.Task{}, fmt.Errorf("failed to create task: %w", err)
	}
	return t, nil
}

// GetTasksForDay lists tasks active on day, each with its estimated effort
// divided evenly across its weekdays.
func (s *TaskService) GetTasksForDay(ctx context.Context, day time.Time) ([]model.Task, error) {
	tasks, err := s.taskRepo.GetTasksForDay(ctx, day.Format(time.DateOnly))
	if err != nil {
		return nil, err
	}
	for i := range tasks {
		if n := len(tasks[i].Weekdays); n > 0 {
			tasks[i].EstimatedEffort = tasks[i].EstimatedEffort / float64(n)
		}
	}
	return tasks, nil
}

// StrategyService handles stored strategy definitions.
type StrategyService struct {
	strategyRepo *repository.StrategyRepository
}

// NewStrategyService creates a new StrategyService.
func NewStrategyService(strategyRepo *repository.StrategyRepository) *StrategyService {
	return &StrategyService{strategyRepo: strategyRepo}
}

func (s *StrategyService) GetStrategies(ctx context.Context) ([]model.Strategy, error) {
	return s.strategyRepo.GetStrategies(ctx)
}

func (s *StrategyService) GetStrategy(ctx context.Context, id string) (model.Strategy, error) {
	return s.strategyRepo.GetStrategy(ctx, id)
}

// CreateStrategy stores a new strategy. Returns ErrDuplicateEntry if the name is taken.
func (s *StrategyService) CreateStrategy(ctx context.Context, req request.CreateStrategyRequest) (model.Strategy, error) {
	st := model.Strategy{
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		Parameters:  req.Parameters,
	}
	if st.Parameters == nil {
		st.Parameters = map[string]any{}
	}
	if err := s.strategyRepo.InsertStrategy(ctx, &st); err != nil {
		return model.Strategy{}, err
	}
	return st, nil
}

// UpdateStrategy applies the fields present in req to an existing strategy.
func (s *StrategyService) UpdateStrategy(ctx context.Context, id string, req request.UpdateStrategyRequest) (model.Strategy, error) {
	st, err := s.strategyRepo.GetStrategy(ctx, id)
	if err != nil {
		return model.Strategy{}, err
	}
	if req.Name != nil {
		st.Name = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		st.Description = *req.Description
	}
	if req.Parameters != nil {
		st.Parameters = req.Parameters
	}

	if err := s.strategyRepo.UpdateStrategy(ctx, st); err != nil {
		return model.Strategy{}, err
	}
	return st, nil
}

func (s *StrategyService) DeleteStrategy(ctx context.Context, id string) error {
	return s.strategyRepo.DeleteStrategy(ctx, id)
}

// GetStrategyStocks returns the symbols listed in the strategy's "stocks" parameter.
func (s *StrategyService) GetStrategyStocks(ctx context.Context, id string) ([]string, error) {
	st, err := s.strategyRepo.GetStrategy(ctx, id)
	if err != nil {
		return nil, err
	}

	stocks := []string{}
	list, _ := st.Parameters["stocks"].([]any)
	for _, v := range list {
		if sym, ok := v.(string); ok {
			stocks = append(stocks, strings.ToUpper(sym))
		}
	}
	return stocks, nil
}

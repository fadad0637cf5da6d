package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/ndewijer/Stock-Trading-Simulator-Backend/internal/api/request"
	"github.com/ndewijer/Stock-Trading-Simulator-Backend/internal/api/response"
	"github.com/ndewijer/Stock-Trading-Simulator-Backend/internal/apperrors"
	"github.com/ndewijer/Stock-Trading-Simulator-Backend/internal/service"
	"github.com/ndewijer/Stock-Trading-Simulator-Backend/internal/validation"
)

// PlanningHandler serves trading groups, their tasks and stored strategies.
type PlanningHandler struct {
	groupService    *service.GroupService
	taskService     *service.TaskService
	strategyService *service.StrategyService
}

// NewPlanningHandler creates a new PlanningHandler.
func NewPlanningHandler(
	groupService *service.GroupService,
	taskService *service.TaskService,
	strategyService *service.StrategyService,
) *PlanningHandler {
	return &PlanningHandler{
		groupService:    groupService,
		taskService:     taskService,
		strategyService: strategyService,
	}
}

// Groups handles GET /api/group
func (h *PlanningHandler) Groups(w http.ResponseWriter, r *http.Request) {
	groups, err := h.groupService.GetGroups(r.Context())
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToRetrieveGroups)
		return
	}
	response.RespondJSON(w, http.StatusOK, groups)
}

// CreateGroup handles POST /api/group
func (h *PlanningHandler) CreateGroup(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.CreateGroupRequest](r)
	if err != nil {
		respondBadRequest(w, err)
		return
	}
	if err := validation.ValidateCreateGroup(req); err != nil {
		respondValidation(w, err)
		return
	}

	group, err := h.groupService.CreateGroup(r.Context(), req)
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToRetrieveGroups)
		return
	}
	response.RespondJSON(w, http.StatusCreated, group)
}

// Tasks handles GET /api/task
func (h *PlanningHandler) Tasks(w http.ResponseWriter, r *http.Request) {
	tasks, err := h.taskService.GetTasks(r.Context())
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToRetrieveTasks)
		return
	}
	response.RespondJSON(w, http.StatusOK, tasks)
}

// CreateTask handles POST /api/task
//
// Error: 404 Not Found if the group does not exist
func (h *PlanningHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.CreateTaskRequest](r)
	if err != nil {
		respondBadRequest(w, err)
		return
	}
	if err := validation.ValidateCreateTask(req); err != nil {
		respondValidation(w, err)
		return
	}

	task, err := h.taskService.CreateTask(r.Context(), req)
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToRetrieveTasks)
		return
	}
	response.RespondJSON(w, http.StatusCreated, task)
}

// TasksForDay handles GET /api/task/day?day=
// Each task's estimated effort is reported per weekday.
func (h *PlanningHandler) TasksForDay(w http.ResponseWriter, r *http.Request) {
	day, err := queryTime(r, "day", true)
	if err != nil {
		respondValidation(w, err)
		return
	}

	tasks, err := h.taskService.GetTasksForDay(r.Context(), day)
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToRetrieveTasks)
		return
	}
	response.RespondJSON(w, http.StatusOK, tasks)
}

// Strategies handles GET /api/strategy
func (h *PlanningHandler) Strategies(w http.ResponseWriter, r *http.Request) {
	strategies, err := h.strategyService.GetStrategies(r.Context())
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToRetrieveStrategies)
		return
	}
	response.RespondJSON(w, http.StatusOK, strategies)
}

// CreateStrategy handles POST /api/strategy
func (h *PlanningHandler) CreateStrategy(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.CreateStrategyRequest](r)
	if err != nil {
		respondBadRequest(w, err)
		return
	}
	if err := validation.ValidateCreateStrategy(req); err != nil {
		respondValidation(w, err)
		return
	}

	strategy, err := h.strategyService.CreateStrategy(r.Context(), req)
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToRetrieveStrategies)
		return
	}
	response.RespondJSON(w, http.StatusCreated, strategy)
}

// GetStrategy handles GET /api/strategy/{uuid}
func (h *PlanningHandler) GetStrategy(w http.ResponseWriter, r *http.Request) {
	strategy, err := h.strategyService.GetStrategy(r.Context(), chi.URLParam(r, "uuid"))
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToRetrieveStrategies)
		return
	}
	response.RespondJSON(w, http.StatusOK, strategy)
}

// UpdateStrategy handles PUT /api/strategy/{uuid}. Absent fields are left unchanged.
func (h *PlanningHandler) UpdateStrategy(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.UpdateStrategyRequest](r)
	if err != nil {
		respondBadRequest(w, err)
		return
	}
	if err := validation.ValidateUpdateStrategy(req); err != nil {
		respondValidation(w, err)
		return
	}

	strategy, err := h.strategyService.UpdateStrategy(r.Context(), chi.URLParam(r, "uuid"), req)
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToRetrieveStrategies)
		return
	}
	response.RespondJSON(w, http.StatusOK, strategy)
}

// DeleteStrategy handles DELETE /api/strategy/{uuid}
func (h *PlanningHandler) DeleteStrategy(w http.ResponseWriter, r *http.Request) {
	if err := h.strategyService.DeleteStrategy(r.Context(), chi.URLParam(r, "uuid")); err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToRetrieveStrategies)
		return
	}
	response.RespondNoContent(w)
}

// StrategyStocks handles GET /api/strategy/{uuid}/stocks
func (h *PlanningHandler) StrategyStocks(w http.ResponseWriter, r *http.Request) {
	stocks, err := h.strategyService.GetStrategyStocks(r.Context(), chi.URLParam(r, "uuid"))
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToRetrieveStrategies)
		return
	}
	response.RespondJSON(w, http.StatusOK, stocks)
}

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

// UserHandler handles user registration and lookup.
type UserHandler struct {
	userService *service.UserService
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(userService *service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// CreateUser registers a user.
//
// Endpoint: POST /api/user
// Request Body: CreateUserRequest (username, email)
// Response: 201 Created with model.User
// Error: 400 Bad Request if validation fails
// Error: 409 Conflict if username or email is taken
func (h *UserHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.CreateUserRequest](r)
	if err != nil {
		respondBadRequest(w, err)
		return
	}

	if err := validation.ValidateCreateUser(req); err != nil {
		respondValidation(w, err)
		return
	}

	user, err := h.userService.CreateUser(r.Context(), req)
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToRetrieveUsers)
		return
	}

	response.RespondJSON(w, http.StatusCreated, user)
}

// Users lists all users.
//
// Endpoint: GET /api/user
func (h *UserHandler) Users(w http.ResponseWriter, r *http.Request) {
	users, err := h.userService.GetUsers(r.Context())
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToRetrieveUsers)
		return
	}

	response.RespondJSON(w, http.StatusOK, users)
}

// GetUser returns one user.
//
// Endpoint: GET /api/user/{uuid}
// Error: 404 Not Found if the user does not exist
func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	user, err := h.userService.GetUser(r.Context(), chi.URLParam(r, "uuid"))
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToRetrieveUsers)
		return
	}

	response.RespondJSON(w, http.StatusOK, user)
}

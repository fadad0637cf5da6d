package validation

import (
	"net/mail"
	"strings"

	"github.com/ndewijer/Stock-Trading-Simulator-Backend/internal/api/request"
)

func ValidateCreateUser(req request.CreateUserRequest) error {
	errors := make(map[string]string)

	username := strings.TrimSpace(req.Username)
	if username == "" {
		errors["username"] = "username is required"
	} else if len(username) > 80 {
		errors["username"] = "username must be 80 characters or less"
	}

	email := strings.TrimSpace(req.Email)
	if email == "" {
		errors["email"] = "email is required"
	} else if len(email) > 120 {
		errors["email"] = "email must be 120 characters or less"
	} else if addr, err := mail.ParseAddress(email); err != nil || addr.Address != email {
		errors["email"] = "email is not a valid address"
	}

	if len(errors) > 0 {
		return &Error{Fields: errors}
	}
	return nil
}

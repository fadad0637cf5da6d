package validation

import (
	"strings"

	"github.com/ndewijer/Stock-Trading-Simulator-Backend/internal/api/request"
)

func ValidateCreateGroup(req request.CreateGroupRequest) error {
	errors := make(map[string]string)

	if req.ID != nil {
		if err := ValidateUUID(*req.ID); err != nil {
			errors["id"] = "id must be a UUID"
		}
	}

	if strings.TrimSpace(req.Name) == "" {
		errors["name"] = "name is required"
	} else if len(req.Name) > 100 {
		errors["name"] = "name must be 100 characters or less"
	}

	if len(errors) > 0 {
		return &Error{Fields: errors}
	}
	return nil
}

// ValidateCreateTask validates a task creation request.
//
// Required fields:
//   - groupId: Must be a valid UUID
//   - name: 1 to 100 characters
//   - startDate, endDate: YYYY-MM-DD, start not after end
//   - estimatedEffort: Must not be negative
//   - weekdays: At least one day, each between 0 (Monday) and 6 (Sunday), no repeats
func ValidateCreateTask(req request.CreateTaskRequest) error {
	errors := make(map[string]string)

	if err := ValidateUUID(req.GroupID); err != nil {
		errors["groupId"] = "groupId must be a UUID"
	}

	if strings.TrimSpace(req.Name) == "" {
		errors["name"] = "name is required"
	} else if len(req.Name) > 100 {
		errors["name"] = "name must be 100 characters or less"
	}

	if _, _, err := ParseRange("startDate", req.StartDate, "endDate", req.EndDate); err != nil {
		mergeFields(errors, err)
	}

	if req.EstimatedEffort < 0 {
		errors["estimatedEffort"] = "estimatedEffort must not be negative"
	}

	if len(req.Weekdays) == 0 {
		errors["weekdays"] = "at least one weekday is required"
	} else {
		seen := make(map[int]bool, len(req.Weekdays))
		for _, d := range req.Weekdays {
			if d < 0 || d > 6 {
				errors["weekdays"] = "weekdays must be between 0 and 6"
				break
			}
			if seen[d] {
				errors["weekdays"] = "weekdays must not repeat"
				break
			}
			seen[d] = true
		}
	}

	if len(errors) > 0 {
		return &Error{Fields: errors}
	}
	return nil
}

func ValidateCreateStrategy(req request.CreateStrategyRequest) error {
	errors := make(map[string]string)

	if strings.TrimSpace(req.Name) == "" {
		errors["name"] = "name is required"
	} else if len(req.Name) > 100 {
		errors["name"] = "name must be 100 characters or less"
	}

	if len(req.Description) > 500 {
		errors["description"] = "description must be 500 characters or less"
	}

	if msg := validateStocksParameter(req.Parameters); msg != "" {
		errors["parameters"] = msg
	}

	if len(errors) > 0 {
		return &Error{Fields: errors}
	}
	return nil
}

func ValidateUpdateStrategy(req request.UpdateStrategyRequest) error {
	errors := make(map[string]string)

	if req.Name != nil {
		if strings.TrimSpace(*req.Name) == "" {
			errors["name"] = "name cannot be empty"
		} else if len(*req.Name) > 100 {
			errors["name"] = "name must be 100 characters or less"
		}
	}

	if req.Description != nil && len(*req.Description) > 500 {
		errors["description"] = "description must be 500 characters or less"
	}

	if msg := validateStocksParameter(req.Parameters); msg != "" {
		errors["parameters"] = msg
	}

	if len(errors) > 0 {
		return &Error{Fields: errors}
	}
	return nil
}

// validateStocksParameter checks that an optional "stocks" parameter is a list of strings.
func validateStocksParameter(params map[string]any) string {
	raw, ok := params["stocks"]
	if !ok {
		return ""
	}
	list, ok := raw.([]any)
	if !ok {
		return "stocks must be a list of symbols"
	}
	for _, v := range list {
		if s, ok := v.(string); !ok || strings.TrimSpace(s) == "" {
			return "stocks must be a list of symbols"
		}
	}
	return ""
}

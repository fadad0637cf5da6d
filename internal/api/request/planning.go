package request

type CreateGroupRequest struct {
	ID   *string `json:"id,omitempty"`
	Name string  `json:"name"`
}

type CreateTaskRequest struct {
	GroupID         string  `json:"groupId"`
	Name            string  `json:"name"`
	StartDate       string  `json:"startDate"`
	EndDate         string  `json:"endDate"`
	EstimatedEffort float64 `json:"estimatedEffort"`
	Weekdays        []int   `json:"weekdays"`
}

type CreateStrategyRequest struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Parameters  map[string]any `json:"parameters"`
}

// UpdateStrategyRequest replaces only the fields that are present.
type UpdateStrategyRequest struct {
	Name        *string        `json:"name,omitempty"`
	Description *string        `json:"description,omitempty"`
	Parameters  map[string]any `json:"parameters,omitempty"`
}

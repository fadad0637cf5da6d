package model

import "time"

// Group is a named trading group that tasks belong to.
type Group struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Task is a unit of work scheduled for a group over a date range.
// Weekdays lists the days (0 = Monday … 6 = Sunday) the effort is spread over.
type Task struct {
	ID              string    `json:"id"`
	GroupID         string    `json:"groupId"`
	Name            string    `json:"name"`
	StartDate       time.Time `json:"startDate"`
	EndDate         time.Time `json:"endDate"`
	EstimatedEffort float64   `json:"estimatedEffort"`
	Weekdays        []int     `json:"weekdays"`
}

// Strategy is a stored trading strategy definition with free-form parameters.
type Strategy struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Parameters  map[string]any `json:"parameters"`
	CreatedAt   time.Time      `json:"createdAt"`
}

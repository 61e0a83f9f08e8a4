package team

import "time"

// Team is a field crew tickets can be assigned to.
type Team struct {
	ID          string
	Name        string
	Description string
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// CreateInput captures data required to create a team.
type CreateInput struct {
	Name        string
	Description string
	IsActive    *bool
}

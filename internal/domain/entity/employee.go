package entity

import (
	"time"

	"github.com/google/uuid"
)

// Employee mirrors the HR directory entry the workflow authorizes against.
type Employee struct {
	ID           uuid.UUID  `json:"id"`
	HRIdentifier string     `json:"hr_identifier"`
	ManagerID    *uuid.UUID `json:"manager_id,omitempty"`
	Department   *string    `json:"department,omitempty"`
	Role         Role       `json:"role"`
	CreatedAt    time.Time  `json:"created_at"`
}

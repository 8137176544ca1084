package core

import "time"

type User struct {
	ID         string    `json:"id"`
	TenantID   string    `json:"-"`
	Name       string    `json:"name"`
	EmployeeID string    `json:"employeeId"`
	Email      *string   `json:"email,omitempty"`
	Position   string    `json:"position"`
	MFAEnabled bool      `json:"mfaEnabled"`
	CreatedAt  time.Time `json:"createdAt"`
}

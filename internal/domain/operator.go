package domain

import "time"

// Operator is a staff account allowed to use the system. Only authentication
// gating is enforced; there is no role hierarchy.
type Operator struct {
	ID           string
	Name         string
	Mail         string
	PasswordHash string
	Active       bool
	CreatedAt    time.Time
}

// Package models contains the domain models for the application.
package models

import (
	"fmt"
	"time"
)

// Role is the closed set of account roles.
type Role string

const (
	RoleClient  Role = "client"
	RoleRealtor Role = "realtor"
)

// ParseRole validates a role string against the closed set.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleClient:
		return RoleClient, nil
	case RoleRealtor:
		return RoleRealtor, nil
	default:
		return "", fmt.Errorf("unknown role: %q", s)
	}
}

// User represents a registered account (client or realtor).
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

package model

import (
	"time"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type User struct {
	ID             string     `json:"id"`
	Name           *string    `json:"name,omitempty"`
	Email          string     `json:"email"`
	HashedPassword string     `json:"-"` // Not exposed
	Role           string     `json:"role"`
	Birthday       *time.Time `json:"birthday,omitempty"`
	WeightKg       *float64   `json:"weight,omitempty"`
	HeightCm       *float64   `json:"height,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

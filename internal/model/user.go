package model

import (
	"time"
)

// User is the single local account of a profile
type User struct {
	ID        string    `json:"id" yaml:"id"`
	Name      string    `json:"name" yaml:"name"`
	Email     string    `json:"email" yaml:"email"`
	Avatar    string    `json:"avatar,omitempty" yaml:"avatar,omitempty"`
	CreatedAt time.Time `json:"createdAt" yaml:"createdAt"`
}

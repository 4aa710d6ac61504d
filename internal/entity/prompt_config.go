package entity

import (
	"time"

	"github.com/google/uuid"
)

// PromptConfig is an extraction template: a system/user prompt pair.
// At most one config is active across the whole store; the activation
// write path is the sole guardian of that invariant.
type PromptConfig struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	SystemPrompt string    `json:"system_prompt"`
	UserPrompt   string    `json:"user_prompt"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

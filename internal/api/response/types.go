package response

import (
	"time"

	"github.com/mcoot/mcregbot/internal/model"
)

// Binding represents a player binding in API responses
type Binding struct {
	Identity     string    `json:"identity"`
	PlayerName   string    `json:"player_name"`
	LastChangeAt time.Time `json:"last_change_at"`
	NextChangeAt time.Time `json:"next_change_at"`
	CreatedAt    time.Time `json:"created_at"`
}

// BindingFromModel converts a model.PlayerBinding to a response Binding
func BindingFromModel(b *model.PlayerBinding, cooldown time.Duration) Binding {
	return Binding{
		Identity:     string(b.Identity),
		PlayerName:   b.PlayerName,
		LastChangeAt: b.LastChangeAt,
		NextChangeAt: b.NextChangeAt(cooldown),
		CreatedAt:    b.CreatedAt,
	}
}

// Health is the health check response
type Health struct {
	Status string `json:"status"`
}

package redis

import (
	"fmt"

	"github.com/mcoot/mcregbot/internal/model"
)

// bindingKey returns the Redis key for a PlayerBinding
func bindingKey(prefix string, identity model.Identity) string {
	return fmt.Sprintf("%s:binding:%s", prefix, identity)
}

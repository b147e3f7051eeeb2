package bot

import (
	"fmt"
	"time"
)

// Commands understood by the dispatcher, without the leading slash
const (
	CommandStart      = "start"
	CommandRegister   = "register"
	CommandChangeNick = "change_nick"
	CommandMe         = "me"
)

// User-facing replies
const (
	ReplyStart             = "Hello! Use /register [nickname] to register"
	ReplyRegisterUsage     = "Use: /register [nickname]"
	ReplyChangeNickUsage   = "Use: /change_nick [new_nickname]"
	ReplyInvalidName       = "❌ Incorrect nickname! Allowed symbols: letters A-Z, numbers and _ (3-16 symbols)"
	ReplyAlreadyRegistered = "You are already registered! Use /change_nick [new_nickname] to change"
	ReplyNotRegistered     = "You are not registered yet! Use /register [nickname] to register"
	ReplyNameTaken         = "⚠️ This nickname is already taken"
	ReplyRotationBlocked   = "🚫 Nickname change is not available"
	ReplyRegistered        = "✅ Registration successful!"
	ReplyRotated           = "✅ Nickname successfully changed!"
	ReplyError             = "An error has occured. Try again later"
)

// cooldownReply renders the cooldown rejection for the configured period
func cooldownReply(cooldown time.Duration) string {
	if cooldown%time.Hour == 0 {
		return fmt.Sprintf("Nickname change is available once every %d hours", int(cooldown/time.Hour))
	}
	return fmt.Sprintf("Nickname change is available once every %s", cooldown)
}

const timeLayout = "2006-01-02 15:04 UTC"

func bindingReply(name string, lastChange, nextChange, now time.Time) string {
	next := "now"
	if now.Before(nextChange) {
		next = nextChange.Format(timeLayout)
	}
	return fmt.Sprintf("Your nickname: %s\nLast changed: %s\nNext change available: %s",
		name, lastChange.Format(timeLayout), next)
}

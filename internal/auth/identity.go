package auth

import "time"

// LoginClaims is a normalized, integrity-verified identity assertion from
// the Telegram login widget. It contains facts only, no decisions.
type LoginClaims struct {
	TelegramID string    // widget "id", unique per Telegram user
	FirstName  string    // display name, not security-relevant
	LastName   string    //
	Username   string    // optional @username
	PhotoURL   string    // optional avatar URL
	AuthDate   time.Time // when Telegram produced the assertion
}

// DisplayName returns the human-readable label for the claim holder.
func (c *LoginClaims) DisplayName() string {
	if c.LastName == "" {
		return c.FirstName
	}
	return c.FirstName + " " + c.LastName
}

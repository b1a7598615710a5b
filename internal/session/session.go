package session

import "time"

// Metadata travels with every issued session so downstream handlers can
// authorize without a second registry round-trip.
type Metadata struct {
	TelegramID string `json:"telegram_id"`
	Username   string `json:"username,omitempty"`
	FullName   string `json:"full_name,omitempty"`
	Role       string `json:"role"`
}

// Session is the minted credential pair plus its attached identity.
type Session struct {
	Subject      string
	AccessToken  string
	RefreshToken string
	ExpiresAt    time.Time // access token expiry
	Metadata     Metadata
}

// SubjectFor derives the stable account key for a Telegram identity.
// Deterministic on purpose: repeated logins for the same external id must
// resolve to the same subject, never a duplicate account.
func SubjectFor(telegramID string) string {
	return "tg:" + telegramID
}

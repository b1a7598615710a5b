package telegram

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"time"

	"github.com/geminitwinsolutions/doobie-division-app/internal/auth"
)

// Verifier authenticates login widget assertions against the bot token
// shared with Telegram. It is pure: no I/O, no shared mutable state, and
// the same assertion always yields the same verdict.
type Verifier struct {
	secret []byte // SHA-256 of the bot token, per the widget contract
	maxAge time.Duration
	now    func() time.Time
}

// NewVerifier derives the signing key from the bot token. maxAge bounds
// how old an assertion's auth_date may be; zero disables the check.
func NewVerifier(botToken string, maxAge time.Duration) *Verifier {
	v := &Verifier{
		maxAge: maxAge,
		now:    time.Now,
	}
	if botToken != "" {
		key := sha256.Sum256([]byte(botToken))
		v.secret = key[:]
	}
	return v
}

// Verify recomputes the HMAC-SHA-256 digest over the canonicalized
// assertion and compares it to the supplied hash. Every error path
// rejects; there is no accept-on-error branch.
func (v *Verifier) Verify(a Assertion) (*auth.LoginClaims, error) {
	if len(v.secret) == 0 {
		return nil, auth.ErrConfigMissing
	}
	if a["id"] == "" || a["hash"] == "" {
		return nil, auth.ErrMalformedAssertion
	}

	supplied, err := hex.DecodeString(a["hash"])
	if err != nil || len(supplied) != sha256.Size {
		return nil, auth.ErrIntegrityCheckFailed
	}

	mac := hmac.New(sha256.New, v.secret)
	mac.Write([]byte(a.checkString()))

	if !hmac.Equal(mac.Sum(nil), supplied) {
		return nil, auth.ErrIntegrityCheckFailed
	}

	authDate := parseAuthDate(a["auth_date"])
	if v.maxAge > 0 {
		if authDate.IsZero() || v.now().Sub(authDate) > v.maxAge {
			return nil, auth.ErrAssertionExpired
		}
	}

	return &auth.LoginClaims{
		TelegramID: a["id"],
		FirstName:  a["first_name"],
		LastName:   a["last_name"],
		Username:   a["username"],
		PhotoURL:   a["photo_url"],
		AuthDate:   authDate,
	}, nil
}

func parseAuthDate(raw string) time.Time {
	unix, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || unix <= 0 {
		return time.Time{}
	}
	return time.Unix(unix, 0)
}

package telegram

import (
	"net/url"
	"sort"
	"strings"

	"github.com/geminitwinsolutions/doobie-division-app/internal/auth"
)

// Assertion is the raw key/value claim set from the widget redirect.
// Every parameter participates in the integrity check, including ones this
// service does not otherwise use, because Telegram includes them in its
// own digest.
type Assertion map[string]string

// ParseAssertion flattens the redirect query parameters into an assertion.
// Repeated parameters keep the first value, matching the widget contract
// of one value per key.
func ParseAssertion(query url.Values) (Assertion, error) {
	a := make(Assertion, len(query))
	for key, values := range query {
		if len(values) > 0 {
			a[key] = values[0]
		}
	}

	if a["id"] == "" || a["hash"] == "" {
		return nil, auth.ErrMalformedAssertion
	}

	return a, nil
}

// checkString canonicalizes the assertion for signing: drop the hash field,
// render each remaining pair as "key=value", sort ascending, join with
// newlines. Field order in the input never affects the result.
func (a Assertion) checkString() string {
	lines := make([]string, 0, len(a))
	for key, value := range a {
		if key == "hash" {
			continue
		}
		lines = append(lines, key+"="+value)
	}
	sort.Strings(lines)
	return strings.Join(lines, "\n")
}

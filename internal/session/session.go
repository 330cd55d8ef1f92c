package session

import "strings"

// AuthState is the login state exposed to the rest of the storefront.
type AuthState struct {
	Email      string `json:"email"`
	IsLoggedIn bool   `json:"isLoggedIn"`
}

// Anonymous is the logged-out state.
var Anonymous = AuthState{}

// record is the shape persisted under the authData key. ExpirationTime is
// epoch milliseconds and lives only in storage, never on AuthState.
type record struct {
	Email          string `json:"email"`
	IsLoggedIn     bool   `json:"isLoggedIn"`
	Role           string `json:"role,omitempty"`
	ExpirationTime int64  `json:"expirationTime"`
}

// adminEmails is the fixed administrator allow-list; lookups are
// case-sensitive, matching the entries verbatim.
var adminEmails = []string{
	"David.Wallace@Dunder.com",
	"admin@Dunder.com",
}

// IsAdmin reports whether email looks like an administrator account: a
// case-insensitive "admin" prefix, or a verbatim allow-list entry. The prefix
// check is a weak display heuristic; authorization decisions come from the
// role returned by the auth collaborator at login, not from here.
func IsAdmin(email string) bool {
	if strings.HasPrefix(strings.ToLower(email), "admin") {
		return true
	}
	for _, admin := range adminEmails {
		if email == admin {
			return true
		}
	}
	return false
}

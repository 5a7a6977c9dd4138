package handlers

import (
	"net/http"
	"strings"
)

// HeaderAPIToken is the fallback credential header for clients that cannot
// set Authorization.
const HeaderAPIToken = "X-Shortcut-Api-Token"

// ExtractCredential pulls the Shortcut token off the request. A Bearer
// Authorization header takes precedence over X-Shortcut-Api-Token; an
// Authorization header in any other scheme is ignored.
func ExtractCredential(r *http.Request) string {
	const prefix = "Bearer "
	if auth := r.Header.Get("Authorization"); len(auth) > len(prefix) {
		if strings.EqualFold(auth[:len(prefix)], prefix) {
			return strings.TrimSpace(auth[len(prefix):])
		}
	}
	return strings.TrimSpace(r.Header.Get(HeaderAPIToken))
}

package shortcut

import "context"

// TokenValidator checks workspace API tokens against the live API by
// fetching the member they authenticate as. GET /member is the cheapest
// endpoint that requires a valid token.
type TokenValidator struct {
	client *Client
}

// NewTokenValidator creates a validator backed by the given client.
func NewTokenValidator(client *Client) *TokenValidator {
	return &TokenValidator{client: client}
}

// Validate returns the member the token belongs to, or an error if the API
// rejects it. Network failures and rejected tokens are both returned as
// errors; callers that need to tell them apart can unwrap an APIError.
func (v *TokenValidator) Validate(ctx context.Context, token string) (*CurrentMember, error) {
	return v.client.WithToken(token).GetCurrentMember(ctx)
}

type contextKey struct{}

var tokenKey contextKey

// ContextWithToken stashes a session's API token in the context so tool
// handlers can issue requests on the caller's behalf.
func ContextWithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenKey, token)
}

// TokenFromContext retrieves the API token stored by ContextWithToken.
// Returns an empty string when none is set.
func TokenFromContext(ctx context.Context) string {
	token, _ := ctx.Value(tokenKey).(string)
	return token
}

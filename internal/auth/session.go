package auth

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"time"
)

// sessionPayload is the admin session blob the site stores client-side and
// sends back base64-encoded in the X-Admin-Auth header.
type sessionPayload struct {
	Token     string `json:"token"`
	ExpiresAt int64  `json:"expiresAt"` // unix milliseconds
}

// SessionAuthorizer validates the expiring admin session token. Anything it
// cannot decode, and any token past its embedded expiry, is rejected.
//
// This check is only as strong as the client keeping the blob secret; it is
// kept for the file/redis deployments that have no identity provider. The
// Firebase authorizer is the server-verified option.
type SessionAuthorizer struct {
	now func() time.Time
}

func NewSessionAuthorizer() *SessionAuthorizer {
	return &SessionAuthorizer{now: time.Now}
}

func (a *SessionAuthorizer) IsAuthorized(ctx context.Context, credential string) bool {
	if credential == "" {
		return false
	}
	raw, err := base64.StdEncoding.DecodeString(credential)
	if err != nil {
		return false
	}
	var session sessionPayload
	if err := json.Unmarshal(raw, &session); err != nil {
		return false
	}
	return a.now().UnixMilli() <= session.ExpiresAt
}

// NewSessionCredential builds the base64 session blob. Used by the login
// flow and by tests.
func NewSessionCredential(token string, expiresAt time.Time) string {
	raw, _ := json.Marshal(sessionPayload{Token: token, ExpiresAt: expiresAt.UnixMilli()})
	return base64.StdEncoding.EncodeToString(raw)
}

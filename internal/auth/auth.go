// Package auth gates every mutating project operation behind an admin check.
package auth

import "context"

// Authorizer answers whether the caller presenting the given credential may
// perform mutating operations. Implementations never return an error: any
// internal failure resolves to false (fail-closed).
type Authorizer interface {
	IsAuthorized(ctx context.Context, credential string) bool
}

// AuthorizerFunc adapts a plain function to the Authorizer interface.
type AuthorizerFunc func(ctx context.Context, credential string) bool

func (f AuthorizerFunc) IsAuthorized(ctx context.Context, credential string) bool {
	return f(ctx, credential)
}

// AllowAll authorizes everything. Development and tests only.
func AllowAll() Authorizer {
	return AuthorizerFunc(func(context.Context, string) bool { return true })
}

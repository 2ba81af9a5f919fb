package ccd

import (
	"context"
	"strings"
)

// Tokens are the credentials sent with every store request.
type Tokens struct {
	// User is the caseworker's identity token.
	User string
	// Service is the calling service's token.
	Service string
}

// TokenSource supplies Tokens per request.
type TokenSource interface {
	Tokens(ctx context.Context) (Tokens, error)
}

// StaticTokens is a TokenSource returning fixed tokens.
type StaticTokens Tokens

func (s StaticTokens) Tokens(context.Context) (Tokens, error) { return Tokens(s), nil }

func bearer(token string) string {
	if token == "" || strings.HasPrefix(strings.ToLower(token), "bearer ") {
		return token
	}
	return "Bearer " + token
}

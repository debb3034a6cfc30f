package ports

import "context"

// LinkStore holds pending magic-link tokens between issuance and consumption.
// Tokens are single-use: Consume must atomically return the associated email
// and invalidate the token, so a second consumption fails.
type LinkStore interface {
	Save(ctx context.Context, token, email string) error
	// Consume returns the email bound to token, or domain.ErrLinkInvalid when
	// the token is unknown, expired, or already used.
	Consume(ctx context.Context, token string) (string, error)
}

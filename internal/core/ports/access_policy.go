package ports

import "context"

// AccessPolicy gates the passwordless sign-in flow. The same policy is
// evaluated when a link is requested and again when it is consumed.
// Both methods collapse every failure to a boolean decision; they never
// return an error (denial is silent by design).
type AccessPolicy interface {
	// ShouldIssueLink decides whether a verification email may be sent for
	// this address at all.
	ShouldIssueLink(ctx context.Context, email string) bool
	// ShouldCompleteSignIn decides whether a sign-in attempt that reached the
	// callback may proceed. It carries the first-acceptance side effects:
	// attaching the admin/doctor role and marking a pending invitation
	// accepted.
	ShouldCompleteSignIn(ctx context.Context, email string) bool
}

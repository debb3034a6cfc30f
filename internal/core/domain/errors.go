package domain

import "errors"

var ErrUserNotFound = errors.New("user not found")
var ErrUserExists = errors.New("user already exists")
var ErrRoleNotFound = errors.New("role not found")
var ErrRoleExists = errors.New("role already exists")
var ErrInvitationNotFound = errors.New("invitation not found")
var ErrInvitationExists = errors.New("invitation already exists")
var ErrInvalidEmail = errors.New("invalid email address")
var ErrLinkInvalid = errors.New("sign-in link is invalid or expired")
var ErrSignInDenied = errors.New("sign-in not permitted")
var ErrForbidden = errors.New("access forbidden")

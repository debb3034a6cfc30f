package service

import (
	"fmt"
	"net/url"
	"time"

	"github.com/clinicsuite/clinic-portal/internal/core/ports"
)

const emailShell = `
<div style="font-family: Arial, sans-serif; padding: 20px; max-width: 600px; margin: 0 auto; border: 1px solid #e0e0e0; border-radius: 5px;">
  <h2 style="color: #3182ce;">%s</h2>
  <p>%s</p>
  <p style="margin: 20px 0;">
    <a href="%s" style="background-color: #3182ce; color: white; padding: 10px 15px; text-decoration: none; border-radius: 4px; display: inline-block;">%s</a>
  </p>
  <p style="font-size: 0.8em; color: #666;">If you did not request this email, you can ignore it.</p>
</div>
`

// invitationMessage builds the notification sent when an admin invites a
// doctor. The link points at the login page with the address pre-filled.
func invitationMessage(to, from, baseURL string) ports.EmailMessage {
	link := fmt.Sprintf("%s/login?email=%s", baseURL, url.QueryEscape(to))
	const subject = "You have been invited to join as a doctor"
	return ports.EmailMessage{
		To:       to,
		From:     from,
		Subject:  subject,
		TextBody: fmt.Sprintf("You have been invited to join the clinic portal as a doctor. Visit the following link to sign in: %s", link),
		HTMLBody: fmt.Sprintf(emailShell, subject, "You have been invited to join the clinic portal as a doctor.", link, "Sign in now"),
	}
}

// signInMessage builds the magic-link email sent when a sign-in link is
// requested and the access policy allows it.
func signInMessage(to, from, link string, ttl time.Duration) ports.EmailMessage {
	const subject = "Sign in to your account"
	body := fmt.Sprintf("Click the following link to sign in: %s (valid for %.f minutes)", link, ttl.Minutes())
	return ports.EmailMessage{
		To:       to,
		From:     from,
		Subject:  subject,
		TextBody: body,
		HTMLBody: fmt.Sprintf(emailShell, subject, "Click the button below to sign in:", link, "Sign in"),
	}
}

package email

import (
	"bytes"
	"context"
)

// PasswordResetSubject is the subject line of reset emails
const PasswordResetSubject = "Reset your Stadium Dash password"

// PasswordResetHTML returns the HTML body for a reset email linking to link
func PasswordResetHTML(ctx context.Context, link string) (string, error) {
	var buf bytes.Buffer
	if err := passwordReset(link).Render(ctx, &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

package auth

import (
	"context"
	"errors"

	"google.golang.org/api/idtoken"

	"github.com/mcoot/stadiumdash/internal/model"
)

// GoogleVerifier validates Google ID tokens, such as the credential posted
// by Google Identity Services' sign-in button
type GoogleVerifier struct {
	clientID string
	validate func(ctx context.Context, idToken, audience string) (*idtoken.Payload, error)
}

// NewGoogleVerifier creates a verifier that accepts tokens issued for clientID
func NewGoogleVerifier(clientID string) *GoogleVerifier {
	return &GoogleVerifier{
		clientID: clientID,
		validate: idtoken.Validate,
	}
}

// ClientID returns the OAuth client ID tokens must be issued for
func (v *GoogleVerifier) ClientID() string {
	return v.clientID
}

// Verify checks the token signature, audience and expiry and extracts the identity
func (v *GoogleVerifier) Verify(ctx context.Context, credential string) (*model.FederatedIdentity, error) {
	if credential == "" {
		return nil, errors.New("empty credential")
	}

	payload, err := v.validate(ctx, credential, v.clientID)
	if err != nil {
		return nil, err
	}
	if payload.Subject == "" {
		return nil, errors.New("id token has no subject")
	}

	emailAddr, _ := payload.Claims["email"].(string)
	verified, _ := payload.Claims["email_verified"].(bool)

	return &model.FederatedIdentity{
		Provider:      model.ProviderGoogle,
		Subject:       payload.Subject,
		Email:         emailAddr,
		EmailVerified: verified,
	}, nil
}

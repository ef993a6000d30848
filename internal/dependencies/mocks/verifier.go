package mocks

import (
	"context"
	"errors"

	"github.com/mcoot/stadiumdash/internal/model"
)

// ErrUnknownCredential is returned by MockVerifier for unregistered credentials
var ErrUnknownCredential = errors.New("unknown credential")

// MockVerifier accepts a fixed set of federated credentials
type MockVerifier struct {
	Identities map[string]model.FederatedIdentity
}

// NewMockVerifier creates a MockVerifier with no known credentials
func NewMockVerifier() *MockVerifier {
	return &MockVerifier{Identities: make(map[string]model.FederatedIdentity)}
}

// Add registers a credential that verifies as the given identity
func (v *MockVerifier) Add(credential string, identity model.FederatedIdentity) {
	v.Identities[credential] = identity
}

// Verify returns the registered identity for credential
func (v *MockVerifier) Verify(_ context.Context, credential string) (*model.FederatedIdentity, error) {
	identity, ok := v.Identities[credential]
	if !ok {
		return nil, ErrUnknownCredential
	}
	return &identity, nil
}

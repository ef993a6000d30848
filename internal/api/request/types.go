package request

// CredentialsRequest is the request body for password sign-in and sign-up
type CredentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// FederatedRequest is the request body for signing in with a Google ID token
type FederatedRequest struct {
	Credential string `json:"credential"`
}

// ResetRequest is the request body for requesting a password reset email
type ResetRequest struct {
	Email string `json:"email"`
}

// ResetConfirmRequest is the request body for setting a new password
type ResetConfirmRequest struct {
	Token    string `json:"token"`
	Password string `json:"password"`
}

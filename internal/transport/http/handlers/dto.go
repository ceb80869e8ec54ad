package handlers

// CredentialsRequest — тело /auth/register и /auth/login.
type CredentialsRequest struct {
	Identifier string `json:"identifier"`
	Password   string `json:"password"`
}

// RegisterResponse — ответ /auth/register.
type RegisterResponse struct {
	IdentityID string `json:"identity_id"`
}

// RefreshRequest — тело /auth/refresh и /auth/logout.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// ChangePasswordRequest — тело /auth/password.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// PhotoResponse — ответ PUT /me/photo.
type PhotoResponse struct {
	PhotoURL string `json:"photo_url"`
}

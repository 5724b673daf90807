package forms

// LoginForm carries an already-issued token pair obtained client-side from
// the identity provider. Login sets cookies; it performs no credential check.
type LoginForm struct {
	AccessToken  string `form:"access_token" json:"access_token" binding:"required"`
	RefreshToken string `form:"refresh_token" json:"refresh_token" binding:"required"`
}

// RefreshForm is the optional request body for token refresh, used as a
// fallback when the refresh-token cookie is absent.
type RefreshForm struct {
	RefreshToken string `form:"refresh_token" json:"refresh_token"`
}

package auth

// TokenResponse is the body returned by login and refresh.
type TokenResponse struct {
	AuthToken string `json:"authToken"`
}

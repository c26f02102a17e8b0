package dto

// LoginRequest body para POST /auth/login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse token de acceso Bearer.
type LoginResponse struct {
	Token     string `json:"token"`
	TokenType string `json:"token_type"` // siempre "bearer"
}

package dto

// LoginRequest payload for POST /auth/login.
type LoginRequest struct {
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

// LoginData wraps the issued token.
type LoginData struct {
	AccessToken string `json:"access_token"`
}

// LoginResponse is the success envelope for login.
type LoginResponse struct {
	ResponseCode string    `json:"responseCode"`
	Message      string    `json:"message"`
	Data         LoginData `json:"data"`
}

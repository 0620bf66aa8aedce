// Package dto содержит объекты передачи данных HTTP слоя.
package dto

// CredentialsRequest - тело запросов регистрации и входа.
type CredentialsRequest struct {
	Email    string `json:"email" validate:"required,email,max=254"`
	Password string `json:"password" validate:"required,max=1024"`
}

// Response - общий ответ операций аутентификации.
type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Locked  bool   `json:"locked,omitempty"`
}

// AuthStatusResponse - ответ /auth/me.
type AuthStatusResponse struct {
	Authenticated bool `json:"authenticated"`
}

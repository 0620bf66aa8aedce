package entities

import "time"

// Policy - документ политик аутентификации. Значение неизменяемо после загрузки.
type Policy struct {
	Password     PasswordPolicy     `json:"password"`
	Registration RegistrationPolicy `json:"registration"`
	Login        LoginPolicy        `json:"login"`
}

// PasswordPolicy описывает требования к паролю. MaxLength == 0 - без ограничения.
type PasswordPolicy struct {
	MinLength        int  `json:"minLength"`
	MaxLength        int  `json:"maxLength,omitempty"`
	RequireUppercase bool `json:"requireUppercase"`
	RequireLowercase bool `json:"requireLowercase"`
	RequireNumber    bool `json:"requireNumber"`
	RequireSpecial   bool `json:"requireSpecial"`
}

// RegistrationPolicy ограничивает домены email. "*" снимает ограничение.
type RegistrationPolicy struct {
	AllowedEmailDomains []string `json:"allowedEmailDomains"`
}

// LoginPolicy задает порог неудачных попыток и длительность блокировки.
type LoginPolicy struct {
	MaxAttempts    int `json:"maxAttempts"`
	LockoutMinutes int `json:"lockoutMinutes"`
}

// LockoutWindow возвращает окно блокировки.
func (p LoginPolicy) LockoutWindow() time.Duration {
	return time.Duration(p.LockoutMinutes) * time.Minute
}

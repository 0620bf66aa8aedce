package services

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"

	"gochat/internal/chat/domain/entities"
)

// PolicyKey - ключ документа политик в хранилище ключ-значение.
const PolicyKey = "auth-policies"

// SpecialCharacters - символы, удовлетворяющие требованию RequireSpecial.
const SpecialCharacters = `!@#$%^&*()_+-=[]{};':"\|,.<>/?`

// Ошибки политик.
var (
	ErrPolicyUnavailable       = errors.New("auth policies unavailable")
	ErrPasswordPolicyViolation = errors.New("password does not satisfy policy")

	ErrPasswordTooShort     = fmt.Errorf("%w: too short", ErrPasswordPolicyViolation)
	ErrPasswordTooLong      = fmt.Errorf("%w: too long", ErrPasswordPolicyViolation)
	ErrPasswordNoUppercase  = fmt.Errorf("%w: uppercase letter required", ErrPasswordPolicyViolation)
	ErrPasswordNoLowercase  = fmt.Errorf("%w: lowercase letter required", ErrPasswordPolicyViolation)
	ErrPasswordNoNumber     = fmt.Errorf("%w: digit required", ErrPasswordPolicyViolation)
	ErrPasswordNoSpecial    = fmt.Errorf("%w: special character required", ErrPasswordPolicyViolation)
	errPolicyDocumentEmpty  = errors.New("policy document is empty")
	errPolicyDocumentBounds = errors.New("policy document out of range")
)

var lineComment = regexp.MustCompile(`(?m)//.*$`)

// ParsePolicy разбирает JSON документ политик. Строчные комментарии // допускаются.
// Любая ошибка оборачивает ErrPolicyUnavailable: значения по умолчанию не подставляются.
func ParsePolicy(raw []byte) (*entities.Policy, error) {
	cleaned := bytes.TrimSpace(lineComment.ReplaceAll(raw, nil))
	if len(cleaned) == 0 {
		return nil, fmt.Errorf("%w: %w", ErrPolicyUnavailable, errPolicyDocumentEmpty)
	}

	var policy entities.Policy
	if err := json.Unmarshal(cleaned, &policy); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPolicyUnavailable, err)
	}

	if err := validatePolicy(&policy); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPolicyUnavailable, err)
	}

	return &policy, nil
}

func validatePolicy(p *entities.Policy) error {
	switch {
	case p.Login.MaxAttempts < 1:
		return fmt.Errorf("%w: login.maxAttempts must be >= 1", errPolicyDocumentBounds)
	case p.Login.LockoutMinutes < 1:
		return fmt.Errorf("%w: login.lockoutMinutes must be >= 1", errPolicyDocumentBounds)
	case p.Password.MinLength < 0 || p.Password.MaxLength < 0:
		return fmt.Errorf("%w: password lengths must be non-negative", errPolicyDocumentBounds)
	case p.Password.MaxLength > 0 && p.Password.MaxLength < p.Password.MinLength:
		return fmt.Errorf("%w: password.maxLength below minLength", errPolicyDocumentBounds)
	}
	return nil
}

// ValidatePassword возвращает ошибку первого нарушенного правила.
// Сначала проверяются границы длины, затем классы символов.
func ValidatePassword(password string, policy entities.PasswordPolicy) error {
	length := utf8.RuneCountInString(password)
	switch {
	case length < policy.MinLength:
		return ErrPasswordTooShort
	case policy.MaxLength > 0 && length > policy.MaxLength:
		return ErrPasswordTooLong
	case policy.RequireUppercase && !strings.ContainsFunc(password, isASCIIUpper):
		return ErrPasswordNoUppercase
	case policy.RequireLowercase && !strings.ContainsFunc(password, isASCIILower):
		return ErrPasswordNoLowercase
	case policy.RequireNumber && !strings.ContainsFunc(password, isASCIIDigit):
		return ErrPasswordNoNumber
	case policy.RequireSpecial && !strings.ContainsAny(password, SpecialCharacters):
		return ErrPasswordNoSpecial
	}
	return nil
}

// IsPasswordValid сообщает, удовлетворяет ли пароль политике.
func IsPasswordValid(password string, policy entities.PasswordPolicy) bool {
	return ValidatePassword(password, policy) == nil
}

// IsEmailAllowed проверяет домен email по списку разрешенных без учета регистра.
func IsEmailAllowed(email string, allowedDomains []string) bool {
	if slices.Contains(allowedDomains, "*") {
		return true
	}
	domain := entities.EmailDomain(email)
	if domain == "" {
		return false
	}
	return slices.ContainsFunc(allowedDomains, func(allowed string) bool {
		return strings.EqualFold(strings.TrimSpace(allowed), domain)
	})
}

func isASCIIUpper(r rune) bool { return r <= unicode.MaxASCII && unicode.IsUpper(r) }
func isASCIILower(r rune) bool { return r <= unicode.MaxASCII && unicode.IsLower(r) }
func isASCIIDigit(r rune) bool { return r >= '0' && r <= '9' }

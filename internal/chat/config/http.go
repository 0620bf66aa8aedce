package config

import (
	"fmt"
	"time"
)

// HTTPConfig содержит настройки HTTP сервера.
type HTTPConfig struct {
	Host         string        `yaml:"host" env:"CHAT_HTTP_HOST" env-default:"0.0.0.0"`
	Port         int           `yaml:"port" env:"CHAT_HTTP_PORT" env-default:"8080"`
	ReadTimeout  time.Duration `yaml:"read_timeout" env:"CHAT_HTTP_READ_TIMEOUT" env-default:"5s"`
	WriteTimeout time.Duration `yaml:"write_timeout" env:"CHAT_HTTP_WRITE_TIMEOUT" env-default:"60s"`
	SecureCookie bool          `yaml:"secure_cookie" env:"CHAT_HTTP_SECURE_COOKIE" env-default:"true"`
}

// Address возвращает адрес HTTP сервера.
func (h *HTTPConfig) Address() string {
	return fmt.Sprintf("%s:%d", h.Host, h.Port)
}

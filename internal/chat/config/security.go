package config

import "time"

// SessionConfig содержит настройки сессионного cookie.
// Секрет обязателен: подписанный cookie без ключа не выдается.
type SessionConfig struct {
	Secret       string        `yaml:"secret" env:"CHAT_SESSION_SECRET" env-required:"true"`
	TTL          time.Duration `yaml:"ttl" env:"CHAT_SESSION_TTL" env-default:"168h"`
	AcceptLegacy bool          `yaml:"accept_legacy" env:"CHAT_SESSION_ACCEPT_LEGACY" env-default:"false"`
}

// CacheConfig задает срок жизни записей кэша.
type CacheConfig struct {
	DefaultTTL time.Duration `yaml:"default_ttl" env:"CHAT_CACHE_DEFAULT_TTL" env-default:"5m"`
}

// PolicyConfig задает интервал перечитывания документа политик. 0 - читать на каждый запрос.
type PolicyConfig struct {
	RefreshInterval time.Duration `yaml:"refresh_interval" env:"CHAT_POLICY_REFRESH_INTERVAL" env-default:"30s"`
}

// AgentConfig описывает внешний агентный рантайм и размыкатель цепи к нему.
type AgentConfig struct {
	URL              string        `yaml:"url" env:"CHAT_AGENT_URL" env-default:""`
	APIKey           string        `yaml:"api_key" env:"CHAT_OPENAI_API_KEY" env-default:""`
	BreakerThreshold int           `yaml:"breaker_threshold" env:"CHAT_AGENT_BREAKER_THRESHOLD" env-default:"5"`
	BreakerTimeout   time.Duration `yaml:"breaker_timeout" env:"CHAT_AGENT_BREAKER_TIMEOUT" env-default:"10s"`
	BreakerProbes    int           `yaml:"breaker_probes" env:"CHAT_AGENT_BREAKER_PROBES" env-default:"2"`
}

package config

import (
	"fmt"
	"time"

	"gochat/pkg/db/redis"
)

// RedisConfig содержит настройки хранилища ключ-значение.
type RedisConfig struct {
	Host            string        `yaml:"host" env:"CHAT_REDIS_HOST" env-default:"localhost"`
	Port            int           `yaml:"port" env:"CHAT_REDIS_PORT" env-default:"6379"`
	Password        string        `yaml:"password" env:"CHAT_REDIS_PASSWORD" env-default:""`
	DB              int           `yaml:"db" env:"CHAT_REDIS_DB" env-default:"0"`
	ConnectTimeout  time.Duration `yaml:"connect_timeout" env:"CHAT_REDIS_CONNECT_TIMEOUT" env-default:"5s"`
	ReadTimeout     time.Duration `yaml:"read_timeout" env:"CHAT_REDIS_READ_TIMEOUT" env-default:"3s"`
	WriteTimeout    time.Duration `yaml:"write_timeout" env:"CHAT_REDIS_WRITE_TIMEOUT" env-default:"3s"`
	PoolSize        int           `yaml:"pool_size" env:"CHAT_REDIS_POOL_SIZE" env-default:"10"`
	MinIdle         int           `yaml:"min_idle" env:"CHAT_REDIS_MIN_IDLE" env-default:"2"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" env:"CHAT_REDIS_IDLE_TIMEOUT" env-default:"5m"`
	MaxConnLifetime time.Duration `yaml:"max_conn_lifetime" env:"CHAT_REDIS_MAX_CONN_LIFETIME" env-default:"1h"`
}

// Address возвращает host:port.
func (r *RedisConfig) Address() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// ClientConfig переводит настройки в конфигурацию клиента.
func (r *RedisConfig) ClientConfig() *redis.Config {
	return &redis.Config{
		Host:            r.Host,
		Port:            r.Port,
		Password:        r.Password,
		DB:              r.DB,
		PoolSize:        r.PoolSize,
		MinIdle:         r.MinIdle,
		DialTimeout:     r.ConnectTimeout,
		ReadTimeout:     r.ReadTimeout,
		WriteTimeout:    r.WriteTimeout,
		IdleTimeout:     r.IdleTimeout,
		MaxConnLifetime: r.MaxConnLifetime,
	}
}

package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDSN(t *testing.T) {
	cfg := Config{Host: "db", Port: 3306, User: "sync", Password: "p@ss:word", Name: "vault", TimeoutSeconds: 5}

	dsn := DSN(cfg)
	assert.Equal(t, "sync:p%40ss%3Aword@tcp(db:3306)/vault?charset=utf8mb4&parseTime=True&loc=UTC&timeout=5s&readTimeout=5s&writeTimeout=5s", dsn)

	cfg.TimeoutSeconds = 0
	assert.Contains(t, DSN(cfg), "timeout=30s")
}

func TestConnect(t *testing.T) {
	t.Run("Invalid Connection", func(t *testing.T) {
		cfg := Config{
			Host:           "127.0.0.1",
			Port:           9999, // Unused port
			User:           "root",
			Password:       "wrongpassword",
			Name:           "vault",
			TimeoutSeconds: 1,
		}

		db, err := Connect(cfg)
		assert.Error(t, err)
		assert.Nil(t, db)
	})
}

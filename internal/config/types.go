package config

import (
	"time"

	"github.com/rs/zerolog"
)

type PngdecConfig struct {
	LogLevel        zerolog.Level
	VerifyChecksums bool
	S3              S3Config
}

type S3Config struct {
	Region       string
	Endpoint     string
	AccessKey    string
	SecretKey    string
	UsePathStyle bool

	// Fetch retries. MaxAttempts counts the first try.
	MaxAttempts int
	RetryMin    time.Duration
	RetryMax    time.Duration
}

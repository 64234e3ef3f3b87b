package config

import (
	"os"
	"strconv"
	"time"

	"github.com/fumiama/pngdec/oops"
	"github.com/rs/zerolog"
)

var Config = Default()

func Default() PngdecConfig {
	return PngdecConfig{
		LogLevel: zerolog.InfoLevel,
		S3: S3Config{
			Region:      "us-east-1",
			MaxAttempts: 4,
			RetryMin:    200 * time.Millisecond,
			RetryMax:    5 * time.Second,
		},
	}
}

const envPrefix = "PNGDEC_"

// LoadEnv overrides c with any PNGDEC_* environment variables that are set.
// Unset and empty variables leave the current value alone.
func (c *PngdecConfig) LoadEnv() error {
	if v, ok := lookup("LOG_LEVEL"); ok {
		level, err := zerolog.ParseLevel(v)
		if err != nil {
			return oops.New(err, "invalid %sLOG_LEVEL", envPrefix)
		}
		c.LogLevel = level
	}
	if err := envBool("VERIFY_CRC", &c.VerifyChecksums); err != nil {
		return err
	}

	envString("S3_REGION", &c.S3.Region)
	envString("S3_ENDPOINT", &c.S3.Endpoint)
	envString("S3_ACCESS_KEY", &c.S3.AccessKey)
	envString("S3_SECRET_KEY", &c.S3.SecretKey)
	if err := envBool("S3_PATH_STYLE", &c.S3.UsePathStyle); err != nil {
		return err
	}
	if v, ok := lookup("S3_MAX_ATTEMPTS"); ok {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return oops.New(err, "invalid %sS3_MAX_ATTEMPTS %q", envPrefix, v)
		}
		c.S3.MaxAttempts = n
	}
	if err := envDuration("S3_RETRY_MIN", &c.S3.RetryMin); err != nil {
		return err
	}
	if err := envDuration("S3_RETRY_MAX", &c.S3.RetryMax); err != nil {
		return err
	}
	return nil
}

func lookup(name string) (string, bool) {
	v, ok := os.LookupEnv(envPrefix + name)
	return v, ok && v != ""
}

func envString(name string, dst *string) {
	if v, ok := lookup(name); ok {
		*dst = v
	}
}

func envBool(name string, dst *bool) error {
	v, ok := lookup(name)
	if !ok {
		return nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return oops.New(err, "invalid %s%s", envPrefix, name)
	}
	*dst = b
	return nil
}

func envDuration(name string, dst *time.Duration) error {
	v, ok := lookup(name)
	if !ok {
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return oops.New(err, "invalid %s%s", envPrefix, name)
	}
	*dst = d
	return nil
}

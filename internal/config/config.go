package config

import (
	"errors"
	"os"
	"strconv"
	"strings"

	"github.com/dmorgan81/dreamwriter/internal/prompt"
)

type Config struct {
	OutDir   string
	LogLevel string

	Defaults prompt.Defaults

	DezgoKey      string
	DezgoKeyParam string
	DezgoURL      string
	DezgoModel    string

	Bucket       string
	BucketPrefix string
	Distribution string

	FeedBaseURL string
}

func Load() (Config, error) {
	cfg := Config{
		OutDir:   getEnv("OUTDIR", "outputs/img-samples"),
		LogLevel: strings.ToLower(getEnv("LOG_LEVEL", "info")),
		Defaults: prompt.Defaults{
			Steps:         getEnvInt("STEPS", 50),
			Width:         getEnvInt("WIDTH", 512),
			Height:        getEnvInt("HEIGHT", 512),
			CfgScale:      getEnvFloat("CFG_SCALE", 7.5),
			SamplerName:   getEnv("SAMPLER", "k_lms"),
			FullPrecision: getEnvBool("FULL_PRECISION", false),
		},
		DezgoKey:      getEnv("DEZGO_KEY", ""),
		DezgoKeyParam: getEnv("DEZGO_KEY_PARAM", ""),
		DezgoURL:      getEnv("DEZGO_URL", "https://api.dezgo.com/text2image"),
		DezgoModel:    getEnv("DEZGO_MODEL", ""),
		Bucket:        getEnv("BUCKET", ""),
		BucketPrefix:  getEnv("BUCKET_PREFIX", ""),
		Distribution:  getEnv("DISTRIBUTION", ""),
		FeedBaseURL:   getEnv("FEED_BASE_URL", "http://localhost/"),
	}

	switch {
	case cfg.Defaults.Steps < 1:
		return Config{}, errors.New("STEPS must be positive")
	case cfg.Defaults.Width < 1 || cfg.Defaults.Height < 1:
		return Config{}, errors.New("WIDTH and HEIGHT must be positive")
	case cfg.Distribution != "" && cfg.Bucket == "":
		return Config{}, errors.New("DISTRIBUTION requires BUCKET")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	parsed, err := strconv.Atoi(strings.TrimSpace(os.Getenv(key)))
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvFloat(key string, fallback float64) float64 {
	parsed, err := strconv.ParseFloat(strings.TrimSpace(os.Getenv(key)), 64)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvBool(key string, fallback bool) bool {
	parsed, err := strconv.ParseBool(strings.TrimSpace(os.Getenv(key)))
	if err != nil {
		return fallback
	}
	return parsed
}

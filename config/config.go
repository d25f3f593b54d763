package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port            int
	DataDir         string
	MaxUploadSizeMB int

	GCSBucketName   string
	GoogleProjectID string
	SpeechLocation  string
	SpeechEndpoint  string

	PollInterval    time.Duration
	MaxWait         time.Duration
	DefaultLanguage string
}

func Load() (*Config, error) {
	port, err := strconv.Atoi(getEnv("PORT", "8000"))
	if err != nil {
		return nil, fmt.Errorf("invalid PORT: %w", err)
	}

	maxUploadSizeMB, err := strconv.Atoi(getEnv("MAX_UPLOAD_SIZE_MB", "500"))
	if err != nil {
		return nil, fmt.Errorf("invalid MAX_UPLOAD_SIZE_MB: %w", err)
	}

	pollSeconds, err := strconv.Atoi(getEnv("POLL_INTERVAL_SECONDS", "10"))
	if err != nil {
		return nil, fmt.Errorf("invalid POLL_INTERVAL_SECONDS: %w", err)
	}

	// Default matches three times the 8 hour audio length cap of the batch
	// recognition API.
	maxWaitMinutes, err := strconv.Atoi(getEnv("MAX_WAIT_MINUTES", "1440"))
	if err != nil {
		return nil, fmt.Errorf("invalid MAX_WAIT_MINUTES: %w", err)
	}

	bucket := os.Getenv("GCS_BUCKET_NAME")
	if bucket == "" {
		return nil, fmt.Errorf("GCS_BUCKET_NAME is required")
	}

	projectID := os.Getenv("GOOGLE_PROJECT_ID")
	if projectID == "" {
		return nil, fmt.Errorf("GOOGLE_PROJECT_ID is required")
	}

	return &Config{
		Port:            port,
		DataDir:         getEnv("DATA_DIR", "./data"),
		MaxUploadSizeMB: maxUploadSizeMB,
		GCSBucketName:   bucket,
		GoogleProjectID: projectID,
		SpeechLocation:  getEnv("SPEECH_LOCATION", "us"),
		SpeechEndpoint:  getEnv("SPEECH_ENDPOINT", "us-speech.googleapis.com:443"),
		PollInterval:    time.Duration(pollSeconds) * time.Second,
		MaxWait:         time.Duration(maxWaitMinutes) * time.Minute,
		DefaultLanguage: getEnv("DEFAULT_LANGUAGE", "en-US"),
	}, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

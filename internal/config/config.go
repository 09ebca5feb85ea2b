package config

import (
	"fmt"
	"os"
	"strconv"

	"ocrapi/internal/logger"
)

// Engine names accepted for OCR_ENGINE.
const (
	EngineTesseract = "tesseract"
	EngineVision    = "vision"
)

type Config struct {
	// OCR Engine Configuration
	OCREngine      string
	OCRLanguage    string
	TessdataPrefix string

	// Worker Pool Configuration
	PoolSize      int
	QueueCapacity int

	// HTTP Server Configuration
	ServerAddr string

	// Logging Configuration
	LogLevel      string
	LogFormat     string
	LogTimeFormat string
	LogOutput     string
}

func Load() (*Config, error) {
	poolSize, err := getEnvInt("OCR_POOL_SIZE", 4)
	if err != nil {
		return nil, err
	}
	queueCapacity, err := getEnvInt("OCR_QUEUE_CAPACITY", 128)
	if err != nil {
		return nil, err
	}

	config := &Config{
		OCREngine:      getEnv("OCR_ENGINE", EngineTesseract),
		OCRLanguage:    getEnv("OCR_LANGUAGE", "eng"),
		TessdataPrefix: getEnv("TESSDATA_PREFIX", ""),
		PoolSize:       poolSize,
		QueueCapacity:  queueCapacity,
		ServerAddr:     getEnv("SERVER_ADDR", ":8080"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		LogFormat:      getEnv("LOG_FORMAT", "json"),
		LogTimeFormat:  getEnv("LOG_TIME_FORMAT", "2006-01-02T15:04:05Z07:00"),
		LogOutput:      getEnv("LOG_OUTPUT", "stdout"),
	}

	if err := config.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return config, nil
}

func (c *Config) validate() error {
	if c.OCREngine != EngineTesseract && c.OCREngine != EngineVision {
		return fmt.Errorf("OCR_ENGINE must be %q or %q, got %q", EngineTesseract, EngineVision, c.OCREngine)
	}
	if c.PoolSize < 1 {
		return fmt.Errorf("OCR_POOL_SIZE must be at least 1, got %d", c.PoolSize)
	}
	if c.QueueCapacity < 1 {
		return fmt.Errorf("OCR_QUEUE_CAPACITY must be at least 1, got %d", c.QueueCapacity)
	}
	if c.OCRLanguage == "" {
		return fmt.Errorf("OCR_LANGUAGE must not be empty")
	}
	return nil
}

// GetLoggerConfig returns a logger configuration from the main config
func (c *Config) GetLoggerConfig() logger.LogConfig {
	return logger.LogConfig{
		Level:      c.LogLevel,
		Format:     c.LogFormat,
		TimeFormat: c.LogTimeFormat,
		Output:     c.LogOutput,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer, got %q", key, value)
	}
	return n, nil
}

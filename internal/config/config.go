package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// ErrInvalidConfig is returned by Validate.
var ErrInvalidConfig = errors.New("invalid config")

var validate = validator.New()

// Config holds all configuration values.
type Config struct {
	// Inputs
	LexiconPath   string `validate:"required"`
	StopwordsPath string
	VocabPath     string

	// Analysis
	Role               string  `validate:"required"`
	Window             int     `validate:"min=1,max=1000"`
	Fallback           string  `validate:"oneof=omit recent center"`
	MinPolarity        float64 `validate:"min=0,max=1"`
	Tokenizer          string  `validate:"oneof=korean prose"`
	UnresolvedAsPerson bool

	// Logging
	LogFile  string
	LogLevel slog.Level

	// Relay
	ServerAddr string `validate:"required"`
	PublishURL string `validate:"omitempty,url"`
}

// Load reads configuration from environment variables, after loading a .env
// file from the working directory if there is one.
func Load() Config {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Debug("failed to load .env file", "error", err)
	}
	return FromEnv()
}

// FromEnv reads configuration from environment variables only.
func FromEnv() Config {
	return Config{
		LexiconPath:   getEnv("RELMAP_LEXICON", "SentiWord_info.json"),
		StopwordsPath: getEnv("RELMAP_STOPWORDS", ""),
		VocabPath:     getEnv("RELMAP_VOCAB", ""),

		Role:               getEnv("RELMAP_ROLE", "내담자"),
		Window:             getEnvInt("RELMAP_WINDOW", 3),
		Fallback:           strings.ToLower(getEnv("RELMAP_FALLBACK", "omit")),
		MinPolarity:        getEnvFloat("RELMAP_MIN_POLARITY", 0),
		Tokenizer:          strings.ToLower(getEnv("RELMAP_TOKENIZER", "korean")),
		UnresolvedAsPerson: getEnvBool("RELMAP_UNRESOLVED_AS_PERSON", false),

		LogFile:  getEnv("RELMAP_LOG_FILE", filepath.Join(os.TempDir(), "relmap.log")),
		LogLevel: parseLogLevel(getEnv("RELMAP_LOG_LEVEL", "INFO")),

		ServerAddr: getEnv("RELMAP_SERVER_ADDR", defaultServerAddr()),
		PublishURL: getEnv("RELMAP_PUBLISH_URL", ""),
	}
}

// Validate checks value ranges and enumerations.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, formatFieldError(fe))
			}
			return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(msgs, "; "))
		}
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}

func formatFieldError(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "min":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, fe.Param())
	case "url":
		return fmt.Sprintf("%s must be a URL", field)
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}

// defaultServerAddr honours PORT like most hosting platforms expect.
func defaultServerAddr() string {
	if port := os.Getenv("PORT"); port != "" {
		return ":" + port
	}
	return ":8081"
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	val, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return defaultVal
	}
	return val
}

func getEnvFloat(key string, defaultVal float64) float64 {
	val, err := strconv.ParseFloat(os.Getenv(key), 64)
	if err != nil {
		return defaultVal
	}
	return val
}

func getEnvBool(key string, defaultVal bool) bool {
	val, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return defaultVal
	}
	return val
}

func parseLogLevel(s string) slog.Level {
	switch strings.ToUpper(s) {
	case "DEBUG":
		return slog.LevelDebug
	case "INFO":
		return slog.LevelInfo
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// ParseLogLevel parses a level name, defaulting to INFO.
func ParseLogLevel(s string) slog.Level {
	return parseLogLevel(s)
}

package common

import (
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration
type Config struct {
	Header  HeaderConfig
	Table   TableConfig
	Valid   ValidationConfig
	Routing RoutingConfig
	LLM     LLMConfig
}

// HeaderConfig holds header extraction pipeline configuration
type HeaderConfig struct {
	TemplateThreshold    float64
	RegexThreshold       float64
	MLThreshold          float64
	LLMThreshold         float64
	LLMFallbackThreshold float64
	ProximityWindow      int
	EnableLLM            bool
}

// TableConfig holds table extraction configuration
type TableConfig struct {
	DistanceThreshold float64
	VerticalAlignment float64
	RowBucketHeight   float64
	MinTableCells     int
	MinRows           int
}

// ValidationConfig holds validation engine configuration
type ValidationConfig struct {
	AmountTolerance float64
}

// RoutingConfig holds confidence routing configuration
type RoutingConfig struct {
	DefaultRule string
}

// LLMConfig holds LLM backend configuration
type LLMConfig struct {
	Endpoint    string
	Model       string
	APIKey      string
	Temperature float64
	Timeout     time.Duration
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	return &Config{
		Header: HeaderConfig{
			TemplateThreshold:    getEnvAsFloat("HEADER_TEMPLATE_THRESHOLD", 0.5),
			RegexThreshold:       getEnvAsFloat("HEADER_REGEX_THRESHOLD", 0.4),
			MLThreshold:          getEnvAsFloat("HEADER_ML_THRESHOLD", 0.5),
			LLMThreshold:         getEnvAsFloat("HEADER_LLM_THRESHOLD", 0.6),
			LLMFallbackThreshold: getEnvAsFloat("HEADER_LLM_FALLBACK_THRESHOLD", 0.5),
			ProximityWindow:      getEnvAsInt("HEADER_PROXIMITY_WINDOW", 3),
			EnableLLM:            getEnvAsBool("HEADER_ENABLE_LLM", false),
		},
		Table: TableConfig{
			DistanceThreshold: getEnvAsFloat("TABLE_DISTANCE_THRESHOLD", 50.0),
			VerticalAlignment: getEnvAsFloat("TABLE_VERTICAL_ALIGNMENT", 10.0),
			RowBucketHeight:   getEnvAsFloat("TABLE_ROW_BUCKET_HEIGHT", 20.0),
			MinTableCells:     getEnvAsInt("TABLE_MIN_CELLS", 4),
			MinRows:           getEnvAsInt("TABLE_MIN_ROWS", 2),
		},
		Valid: ValidationConfig{
			AmountTolerance: getEnvAsFloat("AMOUNT_TOLERANCE", 0.05),
		},
		Routing: RoutingConfig{
			DefaultRule: getEnv("ROUTING_RULE", "default"),
		},
		LLM: LLMConfig{
			Endpoint:    getEnv("LLM_ENDPOINT", ""),
			Model:       getEnv("LLM_MODEL", "gpt-4o-mini"),
			APIKey:      getEnv("LLM_API_KEY", ""),
			Temperature: getEnvAsFloat("LLM_TEMPERATURE", 0.0),
			Timeout:     getEnvAsDuration("LLM_TIMEOUT", 45*time.Second),
		},
	}
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// Validate validates the loaded configuration
func (c *Config) Validate() error {
	if c.Header.TemplateThreshold < 0 || c.Header.TemplateThreshold > 1 {
		return NewAppError("CONFIG_ERROR", "HEADER_TEMPLATE_THRESHOLD must be in [0,1]", ErrInvalidInput)
	}
	if c.Header.LLMFallbackThreshold < 0 || c.Header.LLMFallbackThreshold > 1 {
		return NewAppError("CONFIG_ERROR", "HEADER_LLM_FALLBACK_THRESHOLD must be in [0,1]", ErrInvalidInput)
	}
	if c.Header.ProximityWindow < 0 {
		return NewAppError("CONFIG_ERROR", "HEADER_PROXIMITY_WINDOW must not be negative", ErrInvalidInput)
	}
	if c.Table.DistanceThreshold <= 0 {
		return NewAppError("CONFIG_ERROR", "TABLE_DISTANCE_THRESHOLD must be positive", ErrInvalidInput)
	}
	if c.Table.VerticalAlignment <= 0 {
		return NewAppError("CONFIG_ERROR", "TABLE_VERTICAL_ALIGNMENT must be positive", ErrInvalidInput)
	}
	if c.Valid.AmountTolerance < 0 {
		return NewAppError("CONFIG_ERROR", "AMOUNT_TOLERANCE must not be negative", ErrInvalidInput)
	}
	if c.Header.EnableLLM && c.LLM.Endpoint == "" && c.LLM.APIKey == "" {
		return NewAppError("CONFIG_ERROR", "LLM_ENDPOINT or LLM_API_KEY required when HEADER_ENABLE_LLM is set", ErrInvalidInput)
	}
	return nil
}

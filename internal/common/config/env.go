package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Storage backends
const (
	StorageDynamoDB = "dynamodb"
	StorageSQLite   = "sqlite"
)

// Config represents the application configuration
// This struct contains all configuration parameters for the application
type Config struct {
	// AWS-specific configuration
	AWSRegion         string
	DynamoDBTableName string
	UserPoolID        string

	// Environment and region info
	Environment string
	Region      string

	// StorageBackend is either "dynamodb" or "sqlite"
	StorageBackend string
	SQLitePath     string

	// Review session settings
	PageSize             int
	DefaultGiftAidStatus string
	ExportFilePrefix     string
	SessionTTL           time.Duration

	LogLevel string

	// Lambda detection flag (cached)
	isLambda bool
}

// LoadFromEnv loads the configuration from environment variables.
// CONFIG_FILE may point at a YAML file whose keys are the lower-cased variable names.
func LoadFromEnv() (*Config, error) {
	v := viper.New()

	v.SetDefault("environment", "dev")
	v.SetDefault("region", "uk")
	v.SetDefault("storage_backend", StorageDynamoDB)
	v.SetDefault("page_size", 10)
	v.SetDefault("default_gift_aid_status", "Non-Submitted")
	v.SetDefault("export_file_prefix", "Gift_Aid_Sales_Invoice_Transactions")
	v.SetDefault("session_ttl", "30m")
	v.SetDefault("log_level", "info")

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	cfg := &Config{
		DynamoDBTableName:    v.GetString("dynamodb_table_name"),
		UserPoolID:           v.GetString("user_pool_id"),
		Environment:          v.GetString("environment"),
		Region:               v.GetString("region"),
		StorageBackend:       strings.ToLower(v.GetString("storage_backend")),
		PageSize:             v.GetInt("page_size"),
		DefaultGiftAidStatus: v.GetString("default_gift_aid_status"),
		ExportFilePrefix:     v.GetString("export_file_prefix"),
		SessionTTL:           v.GetDuration("session_ttl"),
		LogLevel:             v.GetString("log_level"),
	}

	// AWS Region
	cfg.AWSRegion = v.GetString("aws_region")
	if cfg.AWSRegion == "" {
		// Default AWS regions based on our region code
		switch cfg.Region {
		case "us":
			cfg.AWSRegion = "us-west-2"
		case "jp":
			cfg.AWSRegion = "ap-northeast-1"
		default:
			cfg.AWSRegion = "eu-west-2"
		}
	}

	// Check if running in Lambda
	cfg.isLambda = v.GetString("aws_lambda_function_name") != ""

	cfg.SQLitePath = v.GetString("sqlite_path")
	if cfg.SQLitePath == "" {
		if cfg.isLambda {
			cfg.SQLitePath = "/mnt/efs/sqlite/giftaid.db" // EFS mount point
		} else {
			cfg.SQLitePath = "./data/giftaid.db" // Local development path
		}
	}

	switch cfg.StorageBackend {
	case StorageDynamoDB:
		if cfg.DynamoDBTableName == "" {
			return nil, errors.New("DYNAMODB_TABLE_NAME environment variable is required")
		}
	case StorageSQLite:
	default:
		return nil, fmt.Errorf("unsupported STORAGE_BACKEND %q", cfg.StorageBackend)
	}

	if cfg.PageSize <= 0 {
		return nil, fmt.Errorf("PAGE_SIZE must be positive, got %d", cfg.PageSize)
	}

	return cfg, nil
}

func (c *Config) IsProd() bool {
	return c.Environment == "prod"
}

// IsLambda returns true if the application is running in AWS Lambda
func (c *Config) IsLambda() bool {
	return c.isLambda
}

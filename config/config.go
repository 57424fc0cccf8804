package config

import (
	"os"
	"strconv"
	"time"
)

const (
	FAILURE_POLICY_DEGRADE   = "degrade"
	FAILURE_POLICY_FAIL_FAST = "fail-fast"

	INPUT_FORMAT_PLAIN    = "plain"
	INPUT_FORMAT_MARKDOWN = "markdown"
)

type CoreNLPConfig struct {
	URL      string
	Timeout  time.Duration
	Username string
	Password string
}

type ValkeyConfig struct {
	Address  string
	Password string
	UseTLS   bool
	TTL      time.Duration
}

type DynamoDBConfig struct {
	Table    string
	Endpoint string
	Region   string
}

type KafkaConfig struct {
	Broker       string
	GroupID      string
	RequestTopic string
	ResultTopic  string
}

type AppConfig struct {
	Env           string
	LogLevel      string
	FailurePolicy string
	InputFormat   string
	SettingsFile  string
	MetricsAddr   string

	CoreNLP  CoreNLPConfig
	Valkey   ValkeyConfig
	DynamoDB DynamoDBConfig
	Kafka    KafkaConfig
}

// Load reads the application configuration from the environment. Call
// LoadEnv first to pull in the .env file for the current APP_ENV.
func Load() AppConfig {
	return AppConfig{
		Env:           getEnv("APP_ENV", "dev"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		FailurePolicy: getEnv("FAILURE_POLICY", FAILURE_POLICY_DEGRADE),
		InputFormat:   getEnv("INPUT_FORMAT", INPUT_FORMAT_PLAIN),
		SettingsFile:  getEnv("SETTINGS_FILE", "config/settings.env"),
		MetricsAddr:   getEnv("METRICS_ADDR", ":9102"),
		CoreNLP: CoreNLPConfig{
			URL:      getEnv("CORENLP_URL", "http://localhost:9000"),
			Timeout:  getDuration("CORENLP_TIMEOUT", 120*time.Second),
			Username: os.Getenv("CORENLP_USERNAME"),
			Password: os.Getenv("CORENLP_PASSWORD"),
		},
		Valkey: ValkeyConfig{
			Address:  os.Getenv("VALKEY_INIT_ADDRESS"),
			Password: os.Getenv("VALKEY_PASSWORD"),
			UseTLS:   os.Getenv("VALKEY_TLS") == "true",
			TTL:      time.Duration(getInt("CACHE_TTL_SECONDS", 86400)) * time.Second,
		},
		DynamoDB: DynamoDBConfig{
			Table:    os.Getenv("DYNAMODB_TABLE"),
			Endpoint: os.Getenv("AWS_ENDPOINT"),
			Region:   getEnv("AWS_REGION", "us-west-2"),
		},
		Kafka: KafkaConfig{
			Broker:       getEnv("KAFKA_BROKER", "localhost:29092"),
			GroupID:      getEnv("KAFKA_CONSUMER_GROUP_ID", "corenlp-sentiment-worker"),
			RequestTopic: getEnv("KAFKA_REQUEST_TOPIC", "sentiment-request"),
			ResultTopic:  getEnv("KAFKA_RESULT_TOPIC", "sentiment-results"),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return defaultValue
}

func getInt(key string, defaultValue int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return v
}

// getDuration accepts Go durations ("90s") or a bare number of seconds.
func getDuration(key string, defaultValue time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(raw); err == nil {
		return time.Duration(secs) * time.Second
	}
	return defaultValue
}

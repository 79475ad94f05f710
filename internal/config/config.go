package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all runtime configuration loaded from environment variables.
type Config struct {
	AppPort   string
	AppEnv    string
	LogLevel  string
	LogFormat string // json | console

	AWSRegion      string
	AWSEndpointURL string // empty in prod, set to LocalStack URL in dev
	AWSAccessKeyID string
	AWSSecretKey   string
	DynamoTables   DynamoTables

	S3BucketName       string
	MediaPublicBaseURL string // prefix for public media URLs; derived from bucket when empty
	MaxUploadBytes     int64
	MaxJSONBytes       int64
	SNSTopicARN        string // optional; video.published events are skipped when empty

	AccessTokenSecret  string
	AccessTokenExpiry  time.Duration
	RefreshTokenSecret string
	RefreshTokenExpiry time.Duration

	AllowedOrigins []string // CORS allowed origins
	RateRPS        float64
	RateBurst      int
	TrustProxy     bool // honour X-Forwarded-For / X-Real-Ip from a fronting proxy
}

// DynamoTables holds the DynamoDB table name for each entity.
type DynamoTables struct {
	Users         string
	Uniques       string
	Sessions      string
	Videos        string
	Comments      string
	Likes         string
	Playlists     string
	Subscriptions string
	Tweets        string
}

// Load reads all configuration from environment variables.
func Load() *Config {
	return &Config{
		AppPort:   getEnv("APP_PORT", "8000"),
		AppEnv:    getEnv("APP_ENV", "development"),
		LogLevel:  strings.ToLower(getEnv("LOG_LEVEL", "info")),
		LogFormat: strings.ToLower(getEnv("LOG_FORMAT", "json")),

		AWSRegion:      getEnv("AWS_REGION", "us-east-1"),
		AWSEndpointURL: getEnv("AWS_ENDPOINT_URL", ""),
		AWSAccessKeyID: getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretKey:   getEnv("AWS_SECRET_ACCESS_KEY", ""),
		DynamoTables: DynamoTables{
			Users:         getEnv("DYNAMO_TABLE_USERS", "users"),
			Uniques:       getEnv("DYNAMO_TABLE_UNIQUES", "user_uniques"),
			Sessions:      getEnv("DYNAMO_TABLE_SESSIONS", "sessions"),
			Videos:        getEnv("DYNAMO_TABLE_VIDEOS", "videos"),
			Comments:      getEnv("DYNAMO_TABLE_COMMENTS", "comments"),
			Likes:         getEnv("DYNAMO_TABLE_LIKES", "likes"),
			Playlists:     getEnv("DYNAMO_TABLE_PLAYLISTS", "playlists"),
			Subscriptions: getEnv("DYNAMO_TABLE_SUBSCRIPTIONS", "subscriptions"),
			Tweets:        getEnv("DYNAMO_TABLE_TWEETS", "tweets"),
		},

		S3BucketName:       getEnv("S3_BUCKET_NAME", "video-api-media"),
		MediaPublicBaseURL: strings.TrimSuffix(getEnv("MEDIA_PUBLIC_BASE_URL", ""), "/"),
		MaxUploadBytes:     int64(getEnvInt("MAX_UPLOAD_MB", 512)) << 20,
		MaxJSONBytes:       int64(getEnvInt("MAX_JSON_KB", 1024)) << 10,
		SNSTopicARN:        getEnv("SNS_TOPIC_ARN", ""),

		AccessTokenSecret:  getEnv("ACCESS_TOKEN_SECRET", ""),
		AccessTokenExpiry:  getEnvDuration("ACCESS_TOKEN_EXPIRY", 24*time.Hour),
		RefreshTokenSecret: getEnv("REFRESH_TOKEN_SECRET", ""),
		RefreshTokenExpiry: getEnvDuration("REFRESH_TOKEN_EXPIRY", 10*24*time.Hour),

		AllowedOrigins: strings.Split(getEnv("ALLOWED_ORIGINS", "*"), ","),
		RateRPS:        getEnvFloat("RATE_RPS", 5),
		RateBurst:      getEnvInt("RATE_BURST", 10),
		TrustProxy:     getEnvBool("TRUST_PROXY", false),
	}
}

// IsProduction reports whether diagnostic details must be hidden from clients.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.AppEnv, "production")
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

// getEnvDuration accepts Go durations ("15m") as well as day counts ("10d").
func getEnvDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	if days, ok := strings.CutSuffix(v, "d"); ok {
		if n, err := strconv.Atoi(days); err == nil {
			return time.Duration(n) * 24 * time.Hour
		}
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	return fallback
}

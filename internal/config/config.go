package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const defaultSecret = "your-secret-key-change-in-production"

// Config 应用配置
type Config struct {
	Env       string
	AppSecret string
	Port      string
	LogFile   string

	// 存储
	DBDriver    string // sqlite | postgres
	DBPath      string
	DatabaseURL string

	// OMDb
	OMDbAPIKey  string
	OMDbBaseURL string
	OMDbTimeout time.Duration
	MediaType   string

	SessionIdle     time.Duration
	DetailCacheSize int
	DetailCacheTTL  time.Duration

	// 写操作鉴权
	WriteAuth   bool
	TokenExpiry time.Duration
}

// Load 加载配置
func Load() *Config {
	dbUser := getEnv("DB_USER", "postgres")
	dbPass := getEnv("DB_PASSWORD", "postgres")
	dbHost := getEnv("DB_HOST", "localhost")
	dbPort := getEnv("DB_PORT", "5432")
	dbName := getEnv("DB_NAME", "movielist")
	dbSSL := getEnv("DB_SSLMODE", "disable")

	dbURL := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		dbUser, dbPass, dbHost, dbPort, dbName, dbSSL)

	appSecret := getEnv("APP_SECRET", defaultSecret)
	if getEnv("APP_ENV", "development") == "production" && appSecret == defaultSecret {
		fmt.Println("【严重警告】生产环境正在使用默认密钥！请立即设置 APP_SECRET 环境变量。")
	}

	return &Config{
		Env:       getEnv("APP_ENV", "development"),
		AppSecret: appSecret,
		Port:      getEnv("PORT", "5005"),
		LogFile:   getEnv("LOG_FILE", ""),

		DBDriver:    strings.ToLower(getEnv("DB_DRIVER", "sqlite")),
		DBPath:      getEnv("DB_PATH", "movielist.sqlite3"),
		DatabaseURL: dbURL,

		OMDbAPIKey:  getEnv("OMDB_API_KEY", ""),
		OMDbBaseURL: getEnv("OMDB_BASE_URL", "https://www.omdbapi.com"),
		OMDbTimeout: time.Duration(getEnvInt("OMDB_TIMEOUT_SECONDS", 10)) * time.Second,
		MediaType:   getEnv("OMDB_MEDIA_TYPE", "movie"),

		SessionIdle:     time.Duration(getEnvInt("SESSION_IDLE_MINUTES", 30)) * time.Minute,
		DetailCacheSize: getEnvInt("DETAIL_CACHE_SIZE", 500),
		DetailCacheTTL:  time.Duration(getEnvInt("DETAIL_CACHE_TTL_MINUTES", 60)) * time.Minute,

		WriteAuth:   getEnvBool("WRITE_AUTH", false),
		TokenExpiry: time.Duration(getEnvInt("TOKEN_EXPIRY_HOURS", 72)) * time.Hour,
	}
}

// Validate 检查必填项
func (c *Config) Validate() error {
	if c.OMDbAPIKey == "" {
		return fmt.Errorf("OMDB_API_KEY 未设置")
	}
	switch c.DBDriver {
	case "sqlite", "postgres":
	default:
		return fmt.Errorf("不支持的 DB_DRIVER: %s", c.DBDriver)
	}
	return nil
}

// DSN 返回当前驱动使用的连接串
func (c *Config) DSN() string {
	if c.DBDriver == "postgres" {
		return c.DatabaseURL
	}
	return c.DBPath
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	v, err := strconv.Atoi(getEnv(key, ""))
	if err != nil || v <= 0 {
		return defaultValue
	}
	return v
}

func getEnvBool(key string, defaultValue bool) bool {
	v, err := strconv.ParseBool(getEnv(key, ""))
	if err != nil {
		return defaultValue
	}
	return v
}

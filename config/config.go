package config

import (
	"log"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/joho/godotenv"
)

type Config struct {
	Port          int    `env:"PORT" envDefault:"8080"`
	Dsn           string `env:"DSN" envDefault:"postgres://localhost:5432/hazardhub"`
	ServerBaseURL string `env:"SERVER_BASE_URL" envDefault:"http://localhost:8080"`

	JwtSecret  string `env:"JWT_SECRET"`
	JwtExpires string `env:"JWT_EXPIRES" envDefault:"24h"`

	MLBaseURL string        `env:"ML_BASE_URL" envDefault:"http://localhost:8000"`
	MLTimeout time.Duration `env:"ML_TIMEOUT" envDefault:"5s"`

	UploadDir string `env:"UPLOAD_DIR" envDefault:"uploads"`

	RedisAddr     string        `env:"REDIS_ADDR"`
	StatsCacheTTL time.Duration `env:"STATS_CACHE_TTL" envDefault:"30s"`

	RateLimitRPS   int `env:"RATE_LIMIT_RPS" envDefault:"10"`
	RateLimitBurst int `env:"RATE_LIMIT_BURST" envDefault:"20"`

	CloudinaryCloudName string `env:"CLOUDINARY_CLOUD_NAME"`
	CloudinaryAPIKey    string `env:"CLOUDINARY_API_KEY"`
	CloudinaryAPISecret string `env:"CLOUDINARY_API_SECRET"`

	GoogleClientID string `env:"GOOGLE_CLIENT_ID"`
}

func New() *Config {
	if loadErr := godotenv.Load(".env"); loadErr != nil {
		log.Printf("[Env]: unable to load .env file %v", loadErr)
	}

	var cfg Config

	if parseErr := env.Parse(&cfg); parseErr != nil {
		log.Printf("[Env]: failed to parse environment variables: %v", parseErr)
	}

	return &cfg
}

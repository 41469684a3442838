package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"
)

type Config struct {
	Server struct {
		Host           string   `yaml:"host"`
		Port           int      `yaml:"port"`
		Env            string   `yaml:"env"`
		FrontendURL    string   `yaml:"frontend_url"`    // Базовый URL админки (для ссылок в письмах)
		PublicURL      string   `yaml:"public_url"`      // Базовый URL самого API (для ссылки accept)
		AllowedOrigins []string `yaml:"allowed_origins"` // CORS
	} `yaml:"server"`

	Database struct {
		DSN string `yaml:"url"`
	} `yaml:"database"`

	Email struct {
		SMTPHost     string `yaml:"smtp_host"`
		SMTPPort     int    `yaml:"smtp_port"`
		SMTPUsername string `yaml:"smtp_user"`
		SMTPPassword string `yaml:"smtp_password"`
		FromEmail    string `yaml:"from_email"`
		FromName     string `yaml:"from_name"`
		UseTLS       bool   `yaml:"use_tls"`
		TemplatesDir string `yaml:"templates_dir"` // Пусто - встроенные шаблоны
	} `yaml:"email"`

	JWT struct {
		Secret string `yaml:"secret"`
		TTL    int    `yaml:"ttl"` // минуты
		Issuer string `yaml:"issuer"`
	} `yaml:"jwt"`

	Redis struct {
		Enabled  bool   `yaml:"enabled"`
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
	} `yaml:"redis"`

	Storage struct {
		Type       string `yaml:"type"`        // local, s3, cloudflare_r2
		BasePath   string `yaml:"base_path"`   // For local storage
		BaseURL    string `yaml:"base_url"`    // Public URL base
		Bucket     string `yaml:"bucket"`      // For S3/R2
		Region     string `yaml:"region"`      // For S3
		AccessKey  string `yaml:"access_key"`  // For S3/R2
		SecretKey  string `yaml:"secret_key"`  // For S3/R2
		Endpoint   string `yaml:"endpoint"`    // For R2 or custom S3
		UseSSL     bool   `yaml:"use_ssl"`     // For S3/R2
		PublicRead bool   `yaml:"public_read"` // Make files public
	} `yaml:"storage"`

	Upload struct {
		MaxSize      int64               `yaml:"max_size"`       // Max file size in bytes
		MaxVideoSize int64               `yaml:"max_video_size"` // Отдельный лимит для intro_video
		AllowedTypes map[string][]string `yaml:"allowed_types"`  // slot -> MIME types
	} `yaml:"upload"`

	Geocoder struct {
		Enabled        bool   `yaml:"enabled"`
		BaseURL        string `yaml:"base_url"`
		UserAgent      string `yaml:"user_agent"`
		TimeoutSeconds int    `yaml:"timeout_seconds"`
		CacheTTLHours  int    `yaml:"cache_ttl_hours"`
	} `yaml:"geocoder"`

	Invitation struct {
		TTLHours             int    `yaml:"ttl_hours"`
		AcceptRedirectURL    string `yaml:"accept_redirect_url"`
		SweepIntervalMinutes int    `yaml:"sweep_interval_minutes"`
	} `yaml:"invitation"`

	Dashboard struct {
		CacheTTLSeconds int `yaml:"cache_ttl_seconds"`
	} `yaml:"dashboard"`

	FirstAdminEmail    string `yaml:"first_admin_email"`
	FirstAdminPassword string `yaml:"first_admin_password"`
}

var AppConfig *Config

// LoadConfig читает .env, затем config.yaml. Если задан DATABASE_URL,
// yaml не читается и всё берется из переменных окружения.
func LoadConfig() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using environment variables")
	}

	var cfg Config

	if os.Getenv("DATABASE_URL") == "" {
		configPath := os.Getenv("CONFIG_PATH")
		if configPath == "" {
			configPath = "config/config.yaml"
		}
		log.Printf("Loading configuration from %s", configPath)

		f, err := os.Open(configPath)
		if err != nil {
			log.Fatalf("Failed to open config file at %s: %v", configPath, err)
		}
		defer f.Close()

		if err := yaml.NewDecoder(f).Decode(&cfg); err != nil {
			log.Fatalf("Failed to parse config file at %s: %v", configPath, err)
		}
	} else {
		log.Println("Loading configuration from environment variables")
		loadFromEnv(&cfg)
	}

	applyDefaults(&cfg)
	AppConfig = &cfg
}

func loadFromEnv(cfg *Config) {
	cfg.Database.DSN = os.Getenv("DATABASE_URL")

	cfg.Server.Host = os.Getenv("SERVER_HOST")
	cfg.Server.Port = envInt("SERVER_PORT", 3000)
	cfg.Server.Env = envStr("SERVER_ENV", "development")
	cfg.Server.FrontendURL = os.Getenv("FRONTEND_URL")
	cfg.Server.PublicURL = os.Getenv("PUBLIC_URL")
	if origins := os.Getenv("ALLOWED_ORIGINS"); origins != "" {
		cfg.Server.AllowedOrigins = strings.Split(origins, ",")
	}

	cfg.JWT.Secret = os.Getenv("JWT_SECRET")
	cfg.JWT.TTL = envInt("JWT_TTL_MINUTES", 0)
	cfg.JWT.Issuer = os.Getenv("JWT_ISSUER")

	cfg.Email.SMTPHost = os.Getenv("SMTP_HOST")
	cfg.Email.SMTPPort = envInt("SMTP_PORT", 587)
	cfg.Email.SMTPUsername = os.Getenv("SMTP_USER")
	cfg.Email.SMTPPassword = os.Getenv("SMTP_PASSWORD")
	cfg.Email.FromEmail = os.Getenv("MAIL_FROM_EMAIL")
	cfg.Email.FromName = os.Getenv("MAIL_FROM_NAME")
	cfg.Email.UseTLS = envBool("SMTP_TLS", true)
	cfg.Email.TemplatesDir = os.Getenv("TEMPLATES_DIR")

	cfg.Redis.Addr = os.Getenv("REDIS_ADDR")
	cfg.Redis.Enabled = cfg.Redis.Addr != ""
	cfg.Redis.Password = os.Getenv("REDIS_PASSWORD")
	cfg.Redis.DB = envInt("REDIS_DB", 0)

	cfg.Storage.Type = envStr("STORAGE_TYPE", "local")
	cfg.Storage.BasePath = os.Getenv("STORAGE_BASE_PATH")
	cfg.Storage.BaseURL = os.Getenv("STORAGE_BASE_URL")
	cfg.Storage.Bucket = os.Getenv("STORAGE_BUCKET")
	cfg.Storage.Region = os.Getenv("STORAGE_REGION")
	cfg.Storage.AccessKey = os.Getenv("STORAGE_ACCESS_KEY")
	cfg.Storage.SecretKey = os.Getenv("STORAGE_SECRET_KEY")
	cfg.Storage.Endpoint = os.Getenv("STORAGE_ENDPOINT")
	cfg.Storage.UseSSL = envBool("STORAGE_USE_SSL", true)

	cfg.Geocoder.Enabled = envBool("GEOCODER_ENABLED", false)
	cfg.Geocoder.BaseURL = os.Getenv("GEOCODER_URL")
	cfg.Geocoder.UserAgent = os.Getenv("GEOCODER_USER_AGENT")

	cfg.Invitation.AcceptRedirectURL = os.Getenv("INVITE_ACCEPT_URL")
	cfg.Invitation.TTLHours = envInt("INVITE_TTL_HOURS", 0)

	cfg.Dashboard.CacheTTLSeconds = envInt("DASHBOARD_CACHE_TTL", 0)

	cfg.FirstAdminEmail = os.Getenv("FIRST_ADMIN_EMAIL")
	cfg.FirstAdminPassword = os.Getenv("FIRST_ADMIN_PASSWORD")
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 3000
	}
	if cfg.Server.Env == "" {
		cfg.Server.Env = "development"
	}
	if cfg.Server.FrontendURL == "" {
		cfg.Server.FrontendURL = "https://app.pinkcollar.live"
	}
	if cfg.Server.PublicURL == "" {
		cfg.Server.PublicURL = "http://localhost:" + strconv.Itoa(cfg.Server.Port)
	}
	if cfg.JWT.TTL == 0 {
		cfg.JWT.TTL = 24 * 60
	}
	if cfg.JWT.Issuer == "" {
		cfg.JWT.Issuer = "pinkcollar"
	}
	if cfg.Email.FromEmail == "" {
		cfg.Email.FromEmail = "info@pinkcollar.live"
	}
	if cfg.Email.FromName == "" {
		cfg.Email.FromName = "Pink Collar Team"
	}
	if cfg.Storage.Type == "" {
		cfg.Storage.Type = "local"
	}
	if cfg.Storage.BasePath == "" {
		cfg.Storage.BasePath = "./uploads"
	}
	if cfg.Storage.BaseURL == "" && cfg.Storage.Type == "local" {
		cfg.Storage.BaseURL = "/files"
	}
	if cfg.Upload.MaxSize == 0 {
		cfg.Upload.MaxSize = 10 * 1024 * 1024
	}
	if cfg.Upload.MaxVideoSize == 0 {
		cfg.Upload.MaxVideoSize = 100 * 1024 * 1024
	}
	if len(cfg.Upload.AllowedTypes) == 0 {
		cfg.Upload.AllowedTypes = DefaultAttachmentTypes()
	}
	if cfg.Geocoder.BaseURL == "" {
		cfg.Geocoder.BaseURL = "https://nominatim.openstreetmap.org"
	}
	if cfg.Geocoder.UserAgent == "" {
		cfg.Geocoder.UserAgent = "pinkcollar-backend/1.0"
	}
	if cfg.Geocoder.TimeoutSeconds == 0 {
		cfg.Geocoder.TimeoutSeconds = 5
	}
	if cfg.Geocoder.CacheTTLHours == 0 {
		cfg.Geocoder.CacheTTLHours = 24 * 30
	}
	if cfg.Invitation.TTLHours == 0 {
		cfg.Invitation.TTLHours = 24
	}
	if cfg.Invitation.AcceptRedirectURL == "" {
		cfg.Invitation.AcceptRedirectURL = strings.TrimRight(cfg.Server.FrontendURL, "/") + "/accept-invite"
	}
	if cfg.Invitation.SweepIntervalMinutes == 0 {
		cfg.Invitation.SweepIntervalMinutes = 15
	}
	if cfg.Dashboard.CacheTTLSeconds == 0 {
		cfg.Dashboard.CacheTTLSeconds = 60
	}
}

func GetConfig() *Config {
	if AppConfig == nil {
		LoadConfig()
	}
	return AppConfig
}

func envStr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("Warning: %s=%q is not an integer, using %d", key, v, def)
		return def
	}
	return n
}

func envBool(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

package core

import (
	"log"
	"net"
	"net/mail"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Storage backends
const (
	StorageMemory = "memory"
	StorageSQL    = "sql"
	StorageDynamo = "dynamo"
)

type (
	Config struct {
		Env              string
		Build            string
		Debug            bool
		TestMode         bool
		AppName          string
		SecretKey        string
		WorkDir          string
		FrontendBaseURL  string
		DefaultFromEmail mail.Address
		TeamEmail        mail.Address
		SendgridApiKey   string
		RollbarToken     string
		Storage          string

		Server     serverConfig
		Database   databaseConfig
		Dynamo     dynamoConfig
		Auth       authConfig
		Salary     salaryConfig
		Submission submissionConfig
	}

	serverConfig struct {
		Host                      string
		DebugHost                 string
		ShutdownTimeout           time.Duration
		JWTExpirationDelta        time.Duration
		JWTRefreshExpirationDelta time.Duration
	}

	databaseConfig struct {
		Engine        string // postgres | sqlite3
		Host          string
		Port          int
		Name          string
		User          string
		Password      string
		AdminUser     string
		AdminPassword string
		DisableTLS    bool
		Path          string // sqlite3 only
	}

	dynamoConfig struct {
		Region            string
		Endpoint          string // e.g. http://localhost:8000 for dynamodb-local
		AccountsTable     string
		UsersTable        string
		ApplicationsTable string
		ContactTable      string
	}

	authConfig struct {
		PasswordMinLen        int
		PasswordMaxSimilarity float64
		MaxFailedAttempts     int
		LockoutWindow         time.Duration
		SessionReapInterval   time.Duration
	}

	salaryConfig struct {
		Delay time.Duration
	}

	submissionConfig struct {
		AutoCloseDelay time.Duration
	}
)

func (d databaseConfig) Address() string {
	return net.JoinHostPort(d.Host, strconv.Itoa(d.Port))
}

// NewConfig reads the configuration from the environment.
// Variables are prefixed with the value of ENV: DEV (local; default), TEST, QA, PROD.
// e.g.: DEV_DATABASE_HOST, PROD_SECRET_KEY
func NewConfig() *Config {
	v := viper.New()

	env := strings.ToUpper(os.Getenv("ENV"))
	if env == "" {
		env = "DEV"
	}

	// defaults
	v.SetTypeByDefaultValue(true)
	v.SetDefault("debug", env == "DEV" || env == "TEST")
	v.SetDefault("test_mode", env == "TEST")
	v.SetDefault("build", "dev")
	v.SetDefault("app_name", "StratosEdge")
	v.SetDefault("secret_key", "k2#9s!vq=7ph0_m8wz^d3e@lt$1yb6x(4rn&cj5uo*fa+i-g")
	v.SetDefault("frontend_base_url", "http://localhost:5173")
	v.SetDefault("default_from_email", "StratosEdge <noreply@localhost>")
	v.SetDefault("team_email", "StratosEdge Team <team@localhost>")
	v.SetDefault("sendgrid_api_key", "")
	v.SetDefault("rollbar_token", "")
	v.SetDefault("storage", StorageMemory)

	v.SetDefault("server_host", "0.0.0.0:8000")
	v.SetDefault("server_debug_host", "0.0.0.0:4000")
	v.SetDefault("server_shutdown_timeout", 5*time.Second)
	v.SetDefault("jwt_expiration_delta", 7*24*time.Hour)
	v.SetDefault("jwt_refresh_expiration_delta", 4*time.Hour)

	v.SetDefault("database_engine", "postgres")
	v.SetDefault("database_host", "localhost")
	v.SetDefault("database_port", 5432)
	v.SetDefault("database_name", "stratosedge")
	v.SetDefault("database_user", "stratosedge")
	v.SetDefault("database_password", "stratosedge")
	v.SetDefault("database_admin_user", "postgres")
	v.SetDefault("database_admin_password", "postgres")
	v.SetDefault("database_disable_tls", true)
	v.SetDefault("database_path", "stratosedge.db")

	v.SetDefault("dynamo_region", "ap-south-1")
	v.SetDefault("dynamo_endpoint", "")
	v.SetDefault("dynamo_accounts_table", "accounts")
	v.SetDefault("dynamo_users_table", "users")
	v.SetDefault("dynamo_applications_table", "applications")
	v.SetDefault("dynamo_contact_table", "contactSubmissions")

	v.SetDefault("auth_password_min_len", 6)
	v.SetDefault("auth_password_max_similarity", .7)
	v.SetDefault("auth_max_failed_attempts", 5)
	v.SetDefault("auth_lockout_window", 15*time.Minute)
	v.SetDefault("auth_session_reap_interval", 10*time.Minute)

	v.SetDefault("salary_delay", 1200*time.Millisecond)
	v.SetDefault("submission_auto_close_delay", 2*time.Second)

	v.SetEnvPrefix(env)

	// load .env if it exists (ignore if it does not)
	wd := Getwd()
	dotEnvPath := filepath.Join(wd, "config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			log.Fatalf("config.godotenv(%s): %v", dotEnvPath, err)
		}
	} else if !os.IsNotExist(err) {
		log.Fatalf("config.os.Stat(%s): %v", dotEnvPath, err)
	}
	v.AutomaticEnv()

	return &Config{
		Env:              env,
		Build:            v.GetString("build"),
		Debug:            v.GetBool("debug"),
		TestMode:         v.GetBool("test_mode"),
		AppName:          v.GetString("app_name"),
		SecretKey:        v.GetString("secret_key"),
		WorkDir:          wd,
		FrontendBaseURL:  v.GetString("frontend_base_url"),
		DefaultFromEmail: parseAddress(v.GetString("default_from_email")),
		TeamEmail:        parseAddress(v.GetString("team_email")),
		SendgridApiKey:   v.GetString("sendgrid_api_key"),
		RollbarToken:     v.GetString("rollbar_token"),
		Storage:          strings.ToLower(v.GetString("storage")),
		Server: serverConfig{
			Host:                      v.GetString("server_host"),
			DebugHost:                 v.GetString("server_debug_host"),
			ShutdownTimeout:           v.GetDuration("server_shutdown_timeout"),
			JWTExpirationDelta:        v.GetDuration("jwt_expiration_delta"),
			JWTRefreshExpirationDelta: v.GetDuration("jwt_refresh_expiration_delta"),
		},
		Database: databaseConfig{
			Engine:        v.GetString("database_engine"),
			Host:          v.GetString("database_host"),
			Port:          v.GetInt("database_port"),
			Name:          v.GetString("database_name"),
			User:          v.GetString("database_user"),
			Password:      v.GetString("database_password"),
			AdminUser:     v.GetString("database_admin_user"),
			AdminPassword: v.GetString("database_admin_password"),
			DisableTLS:    v.GetBool("database_disable_tls"),
			Path:          v.GetString("database_path"),
		},
		Dynamo: dynamoConfig{
			Region:            v.GetString("dynamo_region"),
			Endpoint:          v.GetString("dynamo_endpoint"),
			AccountsTable:     v.GetString("dynamo_accounts_table"),
			UsersTable:        v.GetString("dynamo_users_table"),
			ApplicationsTable: v.GetString("dynamo_applications_table"),
			ContactTable:      v.GetString("dynamo_contact_table"),
		},
		Auth: authConfig{
			PasswordMinLen:        v.GetInt("auth_password_min_len"),
			PasswordMaxSimilarity: v.GetFloat64("auth_password_max_similarity"),
			MaxFailedAttempts:     v.GetInt("auth_max_failed_attempts"),
			LockoutWindow:         v.GetDuration("auth_lockout_window"),
			SessionReapInterval:   v.GetDuration("auth_session_reap_interval"),
		},
		Salary: salaryConfig{
			Delay: v.GetDuration("salary_delay"),
		},
		Submission: submissionConfig{
			AutoCloseDelay: v.GetDuration("submission_auto_close_delay"),
		},
	}
}

func parseAddress(s string) mail.Address {
	addr, err := mail.ParseAddress(s)
	if err != nil {
		log.Fatalf("config.mail.ParseAddress(%s): %v", s, err)
	}
	return *addr
}

package core

import (
	"log"
	"net/mail"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"golang.org/x/crypto/bcrypt"
)

type (
	Config struct {
		AppName  string
		Env      string // DEV (default), TEST, QA, PROD
		Build    string
		Debug    bool
		TestMode bool
		WorkDir  string

		SecretKey        string
		AdminEmail       string
		AdminSecretHash  string // bcrypt hash of the fixed admin credential
		DefaultFromEmail mail.Address

		StoragePath string // durable client storage; ":memory:" for tests

		RollbarToken   string
		SendgridApiKey string

		Server       ServerConfig
		Notification NotificationConfig
		MockAPI      MockAPIConfig
	}

	ServerConfig struct {
		Addr               string
		ShutdownTimeout    time.Duration
		JWTExpirationDelta time.Duration
	}

	NotificationConfig struct {
		// ReminderScanInterval is the period of the background reminder scan.
		ReminderScanInterval time.Duration
		// ReminderWindowDays is the upper bound (inclusive) on days-until-event
		// for a reminder to be posted.
		ReminderWindowDays int
		// WelcomeDelay is how long after a session begins the one-shot
		// welcome notification is posted.
		WelcomeDelay time.Duration
	}

	MockAPIConfig struct {
		MinLatency time.Duration
		MaxLatency time.Duration
	}
)

// NewConfig loads the app configuration from defaults, an optional
// config/.env.<env> file and environment variables (prefixed with the env name).
func NewConfig() *Config {
	conf := viper.New()
	conf.SetTypeByDefaultValue(true)

	// defaults
	conf.SetDefault("debug", true)
	conf.SetDefault("appName", "LoggedIn")
	conf.SetDefault("build", "dev")
	conf.SetDefault("secretKey", "x0k$+2v!r)qnb&wz5=ju#ma7(h^c9(e*y14h@$gpd8tfsy")
	conf.SetDefault("adminEmail", "admin@sti.edu")
	// mock boundary only, see storage/mockapi
	conf.SetDefault("adminSecret", "admin123")
	conf.SetDefault("defaultFromEmail", "noreply@sti.edu")
	conf.SetDefault("storagePath", filepath.Join(Getwd(), "loggedin.db"))
	conf.SetDefault("rollbarToken", "")
	conf.SetDefault("sendgridApiKey", "")
	conf.SetDefault("serverAddr", ":8000")
	conf.SetDefault("serverShutdownTimeout", 5*time.Second)
	conf.SetDefault("jwtExpirationDelta", 7*24*time.Hour)
	conf.SetDefault("reminderScanInterval", time.Hour)
	conf.SetDefault("reminderWindowDays", 5)
	conf.SetDefault("welcomeDelay", 2*time.Second)
	conf.SetDefault("mockMinLatency", 600*time.Millisecond)
	conf.SetDefault("mockMaxLatency", 1200*time.Millisecond)

	env := strings.ToUpper(os.Getenv("ENV"))
	if env == "" {
		env = "DEV"
	}
	conf.SetEnvPrefix(env)

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
	conf.AutomaticEnv()

	return &Config{
		AppName:          conf.GetString("appName"),
		Env:              env,
		Build:            conf.GetString("build"),
		Debug:            conf.GetBool("debug"),
		TestMode:         env == "TEST",
		WorkDir:          wd,
		SecretKey:        conf.GetString("secretKey"),
		AdminEmail:       conf.GetString("adminEmail"),
		AdminSecretHash:  hashSecret(conf.GetString("adminSecret")),
		DefaultFromEmail: mail.Address{Name: conf.GetString("appName"), Address: conf.GetString("defaultFromEmail")},
		StoragePath:      conf.GetString("storagePath"),
		RollbarToken:     conf.GetString("rollbarToken"),
		SendgridApiKey:   conf.GetString("sendgridApiKey"),
		Server: ServerConfig{
			Addr:               conf.GetString("serverAddr"),
			ShutdownTimeout:    conf.GetDuration("serverShutdownTimeout"),
			JWTExpirationDelta: conf.GetDuration("jwtExpirationDelta"),
		},
		Notification: NotificationConfig{
			ReminderScanInterval: conf.GetDuration("reminderScanInterval"),
			ReminderWindowDays:   conf.GetInt("reminderWindowDays"),
			WelcomeDelay:         conf.GetDuration("welcomeDelay"),
		},
		MockAPI: MockAPIConfig{
			MinLatency: conf.GetDuration("mockMinLatency"),
			MaxLatency: conf.GetDuration("mockMaxLatency"),
		},
	}
}

// hashSecret derives the stored admin credential hash at startup so the
// mock identity boundary always compares against a valid bcrypt digest.
func hashSecret(secret string) string {
	hash, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("config.hashSecret: %v", err)
	}
	return string(hash)
}

// NewTestConfig returns a Config suitable for unit tests: in-memory storage,
// no external services, tiny delays.
func NewTestConfig() *Config {
	c := NewConfig()
	c.Debug = false
	c.TestMode = true
	c.StoragePath = ":memory:"
	c.Notification.WelcomeDelay = time.Millisecond
	c.Notification.ReminderScanInterval = 10 * time.Millisecond
	c.MockAPI.MinLatency = 0
	c.MockAPI.MaxLatency = time.Millisecond
	return c
}

package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v2"
)

type Config struct {
	Server struct {
		Host string `yaml:"host"`
		Port int    `yaml:"port"`
		Env  string `yaml:"env"`
	} `yaml:"server"`

	Database struct {
		// Empty DSN switches the engine to the in-memory store.
		DSN string `yaml:"url"`
	} `yaml:"database"`

	Email struct {
		// Provider: "smtp" (net/smtp with TLS) or "gomail"
		Provider     string `yaml:"provider"`
		SMTPHost     string `yaml:"smtp_host"`
		SMTPPort     int    `yaml:"smtp_port"`
		SMTPUsername string `yaml:"smtp_user"`
		SMTPPassword string `yaml:"smtp_password"`
		FromEmail    string `yaml:"from_email"`
		FromName     string `yaml:"from_name"`
		UseTLS       bool   `yaml:"use_tls"`
	} `yaml:"email"`

	Channels struct {
		SMSWebhookURL  string `yaml:"sms_webhook_url"`
		ChatWebhookURL string `yaml:"chat_webhook_url"`
	} `yaml:"channels"`

	Sweep struct {
		// Demo mode shrinks the escalation SLA window to one minute.
		Demo           bool `yaml:"demo"`
		RoutingTimeout int  `yaml:"routing_timeout_seconds"`
	} `yaml:"sweep"`

	Templates struct {
		Path string `yaml:"path"`
	} `yaml:"templates"`
}

var AppConfig *Config

func LoadConfig() {
	var cfg Config

	dbURL := os.Getenv("DATABASE_URL")
	serverEnv := os.Getenv("SERVER_ENV")
	portStr := os.Getenv("SERVER_PORT")

	if serverEnv == "" {
		log.Println("Loading configuration from config.yaml")

		configPath := os.Getenv("CONFIG_PATH")
		if configPath == "" {
			configPath = "config/config.yaml"
		}

		f, err := os.Open(configPath)
		if err != nil {
			log.Fatalf("Failed to open config file at %s: %v", configPath, err)
		}
		defer f.Close()

		decoder := yaml.NewDecoder(f)
		if err := decoder.Decode(&cfg); err != nil {
			log.Fatalf("Failed to parse config file at %s: %v", configPath, err)
		}

		AppConfig = &cfg
		return
	}

	log.Println("Loading configuration from ENVIRONMENT VARIABLES (test mode)")

	cfg.Database.DSN = dbURL
	cfg.Server.Env = serverEnv
	cfg.Server.Port, _ = strconv.Atoi(portStr)

	cfg.Email.Provider = "smtp"
	cfg.Email.SMTPHost = "smtp.test.com"
	cfg.Email.SMTPPort = 587
	cfg.Email.FromEmail = "payroll-alerts@annauniv.edu"
	cfg.Email.FromName = "Payroll Alerts"

	cfg.Sweep.Demo = true
	cfg.Templates.Path = ""

	AppConfig = &cfg
}

func GetConfig() *Config {
	if AppConfig == nil {
		LoadConfig()
	}
	return AppConfig
}

// RoutingTimeout returns the per-delivery timeout as a duration.
func (c *Config) RoutingTimeout() time.Duration {
	if c.Sweep.RoutingTimeout <= 0 {
		return 10 * time.Second
	}
	return time.Duration(c.Sweep.RoutingTimeout) * time.Second
}

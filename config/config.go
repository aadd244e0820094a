package config

import (
	"encoding/json"
	"errors"
	"log"
	"os"
	"time"
)

var (
	ErrInvalidConfig = errors.New("invalid config")
)

func New(loc string) (*Config, error) {
	var c Config

	f, err := os.Open(loc)
	if err != nil {
		log.Println("Config error", err)
		return nil, err
	}
	defer f.Close()

	if err := json.NewDecoder(f).Decode(&c); err != nil {
		log.Println("Config error", err)
		return nil, err
	}

	if c.DBPath == "" || c.DBName == "" {
		return nil, ErrInvalidConfig
	}

	c.setDefaults()

	return &c, nil
}

type Config struct {
	Host      string `json:"host"`
	Port      string `json:"port"`
	ServerURL string `json:"serverURL"`
	APIPath   string `json:"apiPath"`
	Sandbox   bool   `json:"sandbox"`

	DBPath string `json:"dbPath"`
	DBName string `json:"dbName"`

	// Emails with admin authority. Roles carried on query params are
	// presentation hints only and never consulted for access checks.
	AdminEmails []string `json:"adminEmails"`

	// First-boot password for the seeded admin account
	AdminPass string `json:"adminPass,omitempty"`

	Advisory struct {
		APIKey  string        `json:"apiKey"`
		Model   string        `json:"model"`
		Window  time.Duration `json:"window"`  // debounce quiet window
		Timeout time.Duration `json:"timeout"` // per-request deadline
	} `json:"advisory"`

	Bucket struct {
		User        string   `json:"user"`
		PendingUser string   `json:"pendingUser"`
		Login       string   `json:"login"`
		Token       string   `json:"token"`
		Influencer  string   `json:"influencer"`
		Campaign    string   `json:"campaign"`
		All         []string `json:"all"`
	} `json:"bucket"`
}

func (c *Config) setDefaults() {
	if c.Advisory.Model == "" {
		c.Advisory.Model = "gemini-2.0-flash"
	}
	if c.Advisory.Window == 0 {
		c.Advisory.Window = time.Second
	}
	if c.Advisory.Timeout == 0 {
		c.Advisory.Timeout = 10 * time.Second
	}
	if b := &c.Bucket; len(b.All) == 0 {
		b.User, b.PendingUser, b.Login, b.Token = "user", "pendingUser", "login", "token"
		b.Influencer, b.Campaign = "influencer", "campaign"
		b.All = []string{b.User, b.PendingUser, b.Login, b.Token, b.Influencer, b.Campaign}
	}
}

func (c *Config) IsAdminEmail(email string) bool {
	for _, e := range c.AdminEmails {
		if e == email {
			return true
		}
	}
	return false
}

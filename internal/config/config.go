// Package config loads and persists the control daemon's configuration.
//
// Files ending in .yaml or .yml are YAML; anything else is JSON.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"golang.org/x/exp/slices"
	"gopkg.in/yaml.v3"

	"gpiohal/gpio"
	"gpiohal/internal/auth"
)

// DefaultPath is used when no configuration file is named.
const DefaultPath = "gpiohal.json"

// User is an account allowed to use the control API.  Admin users may read
// the event log.
type User struct {
	Username     string `json:"username" yaml:"username"`
	PasswordHash string `json:"password_hash" yaml:"password_hash"`
	Admin        bool   `json:"admin" yaml:"admin"`
}

// PinAlias gives a pin a friendly name and, optionally, a direction applied
// when the daemon starts.
type PinAlias struct {
	Name      string `json:"name" yaml:"name"`
	Pin       string `json:"pin" yaml:"pin"`
	Direction string `json:"direction,omitempty" yaml:"direction,omitempty"`
}

// Config is the persisted daemon state.
type Config struct {
	HTTPPort int    `json:"http_port" yaml:"http_port"`
	CertFile string `json:"cert_file" yaml:"cert_file"`
	KeyFile  string `json:"key_file" yaml:"key_file"`
	LogFile  string `json:"log_file" yaml:"log_file"`

	// Platform overrides the detected platform descriptor when set.
	Platform      string `json:"platform,omitempty" yaml:"platform,omitempty"`
	NumberingMode string `json:"numbering_mode,omitempty" yaml:"numbering_mode,omitempty"`

	Pins  []PinAlias `json:"pins" yaml:"pins"`
	Users []User     `json:"users" yaml:"users"`
}

// Default returns the configuration written when none exists: a single
// admin user with password "admin", which should be changed immediately.
func Default() Config {
	return Config{
		HTTPPort: 8443,
		CertFile: "server.crt",
		KeyFile:  "server.key",
		LogFile:  "events.log",
		Pins:     []PinAlias{},
		Users: []User{
			{Username: "admin", PasswordHash: auth.HashPassword("admin"), Admin: true},
		},
	}
}

// Validate checks the fields the daemon relies on.
func (c Config) Validate() error {
	if c.HTTPPort <= 0 || c.HTTPPort > 65535 {
		return fmt.Errorf("http_port %d: %w", c.HTTPPort, gpio.ErrInvalidArgument)
	}
	seen := make(map[string]bool)
	for _, p := range c.Pins {
		if p.Name == "" || p.Pin == "" {
			return fmt.Errorf("pin alias %+v needs name and pin: %w", p, gpio.ErrInvalidArgument)
		}
		if seen[p.Name] {
			return fmt.Errorf("duplicate pin alias %q: %w", p.Name, gpio.ErrInvalidArgument)
		}
		seen[p.Name] = true
		if p.Direction != "" {
			if _, err := gpio.ParseDirection(p.Direction); err != nil {
				return fmt.Errorf("pin alias %q: %w", p.Name, err)
			}
		}
	}
	return nil
}

// Resolve maps an alias name to its pin.  Anything that is not an alias is
// returned as a pin identifier unchanged.
func (c Config) Resolve(name string) gpio.Pin {
	i := slices.IndexFunc(c.Pins, func(p PinAlias) bool { return p.Name == name })
	if i < 0 {
		return gpio.Pin(name)
	}
	return gpio.Pin(c.Pins[i].Pin)
}

// Manager guards a Config loaded from one file.  Call Save, or use Update,
// after any change so the file stays current.
type Manager struct {
	path   string
	mu     sync.RWMutex
	cfg    Config
	loaded bool
}

// NewManager returns a Manager for the file at path.
func NewManager(path string) *Manager {
	if path == "" {
		path = DefaultPath
	}
	return &Manager{path: path}
}

// Path returns the backing file.
func (m *Manager) Path() string { return m.path }

// Load reads the file.  If it does not exist, Default is written in its
// place.
func (m *Manager) Load() error {
	m.mu.Lock()
	if m.loaded {
		m.mu.Unlock()
		return nil
	}
	data, err := os.ReadFile(m.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			m.cfg = Default()
			m.loaded = true
			// Save takes the read lock.
			m.mu.Unlock()
			return m.Save()
		}
		m.mu.Unlock()
		return fmt.Errorf("unable to read config: %w", err)
	}
	var cfg Config
	if err := m.unmarshal(data, &cfg); err != nil {
		m.mu.Unlock()
		return fmt.Errorf("invalid %s: %w", filepath.Base(m.path), err)
	}
	if err := cfg.Validate(); err != nil {
		m.mu.Unlock()
		return err
	}
	m.cfg = cfg
	m.loaded = true
	m.mu.Unlock()
	return nil
}

// Save writes the configuration through a temporary file and rename.
func (m *Manager) Save() error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	data, err := m.marshal(m.cfg)
	if err != nil {
		return err
	}
	tmp := m.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, m.path)
}

// Get returns a copy of the configuration.  Slices are shared; treat the
// result as read-only.
func (m *Manager) Get() Config {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.cfg
}

// Update applies fn under the write lock and saves the result.  fn must not
// keep the pointer.  A result that fails Validate is discarded.
func (m *Manager) Update(fn func(*Config) error) error {
	m.mu.Lock()
	next := m.cfg
	next.Pins = slices.Clone(m.cfg.Pins)
	next.Users = slices.Clone(m.cfg.Users)
	if err := fn(&next); err != nil {
		m.mu.Unlock()
		return err
	}
	if err := next.Validate(); err != nil {
		m.mu.Unlock()
		return err
	}
	m.cfg = next
	m.mu.Unlock()
	return m.Save()
}

// FindUser returns the user named username and its index, or -1.
func (m *Manager) FindUser(username string) (User, int) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	i := slices.IndexFunc(m.cfg.Users, func(u User) bool { return u.Username == username })
	if i < 0 {
		return User{}, -1
	}
	return m.cfg.Users[i], i
}

// Authenticate returns the user if username and password match.
func (m *Manager) Authenticate(username, password string) (User, error) {
	user, i := m.FindUser(username)
	if i < 0 {
		return User{}, errors.New("invalid credentials")
	}
	if err := auth.CheckPassword(password, user.PasswordHash); err != nil {
		return User{}, errors.New("invalid credentials")
	}
	return user, nil
}

func (m *Manager) isYAML() bool {
	ext := strings.ToLower(filepath.Ext(m.path))
	return ext == ".yaml" || ext == ".yml"
}

func (m *Manager) marshal(cfg Config) ([]byte, error) {
	if m.isYAML() {
		return yaml.Marshal(cfg)
	}
	return json.MarshalIndent(cfg, "", "  ")
}

func (m *Manager) unmarshal(data []byte, cfg *Config) error {
	if m.isYAML() {
		return yaml.Unmarshal(data, cfg)
	}
	return json.Unmarshal(data, cfg)
}

package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/omar4-4mohsen/dates-monitor/assets"
	"github.com/omar4-4mohsen/dates-monitor/internal/domain"
	"github.com/omar4-4mohsen/dates-monitor/internal/pkg/filesystem"
	"github.com/omar4-4mohsen/dates-monitor/internal/ports"
)

// FileLoader loads YAML configuration from ~/.datesmon/config.yaml (overridable via DATESMON_CONFIG).
type FileLoader struct {
	overridePath string
}

// NewFileLoader builds a new loader.
func NewFileLoader(path string) *FileLoader {
	return &FileLoader{overridePath: path}
}

// Load implements ports.ConfigProvider: the file over the embedded defaults,
// then environment overrides. A missing file is created from the defaults.
func (l *FileLoader) Load(ctx context.Context) (domain.Config, error) {
	cfg, err := l.LoadFile(ctx)
	if err != nil {
		return domain.Config{}, err
	}
	if err := applyEnv(&cfg); err != nil {
		return domain.Config{}, err
	}
	return cfg, nil
}

// LoadFile returns what the file configures, without environment overrides.
// Anything that writes the file back starts from here.
func (l *FileLoader) LoadFile(context.Context) (domain.Config, error) {
	data, err := l.Raw()
	if err != nil {
		return domain.Config{}, err
	}
	cfg, err := Decode(data)
	if err != nil {
		return domain.Config{}, fmt.Errorf("parse %s: %w", l.resolvePath(), err)
	}
	return cfg, nil
}

// Raw returns the file contents, writing the embedded defaults first when
// the file does not exist yet.
func (l *FileLoader) Raw() ([]byte, error) {
	path := l.resolvePath()
	if err := ensureConfigDir(path); err != nil {
		return nil, fmt.Errorf("ensure config dir: %w", err)
	}
	data, err := os.ReadFile(path)
	if err == nil {
		return data, nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := l.WriteRaw(assets.DefaultConfigYAML); err != nil {
		return nil, fmt.Errorf("write default config: %w", err)
	}
	return assets.DefaultConfigYAML, nil
}

// WriteRaw replaces the file contents.
func (l *FileLoader) WriteRaw(data []byte) error {
	if err := ensureConfigDir(l.resolvePath()); err != nil {
		return err
	}
	return os.WriteFile(l.resolvePath(), data, domain.SecureFilePermissions)
}

// Path returns the resolved config file path.
func (l *FileLoader) Path() string {
	return l.resolvePath()
}

// Save writes the given config back to disk.
func (l *FileLoader) Save(cfg domain.Config) error {
	raw, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return l.WriteRaw(raw)
}

// Reset overwrites the config with defaults and returns the default snapshot.
func (l *FileLoader) Reset() (domain.Config, error) {
	if err := l.WriteRaw(assets.DefaultConfigYAML); err != nil {
		return domain.Config{}, err
	}
	return Defaults(), nil
}

// Backup copies the current config file to a timestamped backup.
func (l *FileLoader) Backup() (string, error) {
	path := l.resolvePath()
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	backup := fmt.Sprintf("%s.%s.bak", path, time.Now().Format("20060102T150405"))
	if err := os.WriteFile(backup, data, domain.SecureFilePermissions); err != nil {
		return "", err
	}
	return backup, nil
}

func (l *FileLoader) resolvePath() string {
	if l.overridePath != "" {
		return filesystem.ExpandPath(l.overridePath)
	}
	if custom := os.Getenv(domain.EnvConfigPath); custom != "" {
		return filesystem.ExpandPath(custom)
	}
	return filesystem.AppDir(domain.ConfigFileName)
}

func ensureConfigDir(path string) error {
	return os.MkdirAll(filepath.Dir(path), domain.DirectoryPermissions)
}

// Defaults returns the embedded default configuration.
func Defaults() domain.Config {
	cfg, err := embedded()
	if err != nil {
		// The embedded file is covered by tests.
		cfg = domain.Config{}
	}
	return finalize(cfg)
}

// Decode reads a config file's contents over the embedded defaults. Keys the
// file omits keep their default; keys it sets, zeros included, win.
func Decode(data []byte) (domain.Config, error) {
	cfg, err := embedded()
	if err != nil {
		return domain.Config{}, fmt.Errorf("embedded defaults: %w", err)
	}
	// The default path belongs to the default backend; finalize picks the
	// one matching whatever backend the file selects.
	cfg.Subscribers.Path = ""
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return domain.Config{}, err
	}
	return finalize(cfg), nil
}

func embedded() (domain.Config, error) {
	var cfg domain.Config
	err := yaml.Unmarshal(assets.DefaultConfigYAML, &cfg)
	return cfg, err
}

// finalize fills the values derived from other keys.
func finalize(cfg domain.Config) domain.Config {
	if cfg.ConfigFormatVersion == "" {
		cfg.ConfigFormatVersion = domain.ConfigFormatVersion
	}
	if cfg.Subscribers.Path == "" {
		cfg.Subscribers.Path = DefaultSubscriberPath(cfg.Subscribers.Backend)
	}
	cfg.Subscribers.Path = filesystem.ExpandPath(cfg.Subscribers.Path)
	return cfg
}

// DefaultSubscriberPath is where a file-backed store lives when no path is configured.
func DefaultSubscriberPath(backend string) string {
	if backend == domain.BackendSQLite {
		return filesystem.AppDir(domain.DefaultSubscriberDB)
	}
	return filesystem.AppDir(domain.DefaultSubscriberFile)
}

func applyEnv(cfg *domain.Config) error {
	raw := strings.TrimSpace(os.Getenv(domain.EnvOperatorID))
	if raw == "" {
		return nil
	}
	id, err := domain.ParseRecipientID(raw)
	if err != nil {
		return fmt.Errorf("%s: %w", domain.EnvOperatorID, err)
	}
	cfg.Telegram.OperatorID = id
	return nil
}

// TelegramToken reads the bot token from the environment variable named in cfg.
func TelegramToken(cfg domain.Config) string {
	return strings.TrimSpace(os.Getenv(cfg.Telegram.TokenEnv))
}

var _ ports.ConfigProvider = (*FileLoader)(nil)

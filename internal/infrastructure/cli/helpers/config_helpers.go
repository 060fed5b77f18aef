// Package helpers holds config plumbing shared by the cobra commands.
package helpers

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/omar4-4mohsen/dates-monitor/internal/app"
	configapp "github.com/omar4-4mohsen/dates-monitor/internal/application/config"
	"github.com/omar4-4mohsen/dates-monitor/internal/domain"
	configinfra "github.com/omar4-4mohsen/dates-monitor/internal/infrastructure/config"
)

// GetConfigLoader extracts the config loader from container with error handling
func GetConfigLoader(container *app.Container) (*configinfra.FileLoader, error) {
	if container.ConfigLoader == nil {
		return nil, fmt.Errorf("config loader unavailable")
	}
	return container.ConfigLoader, nil
}

// SaveConfigWithValidation validates and saves configuration with automatic backup
func SaveConfigWithValidation(container *app.Container, cfg domain.Config) error {
	loader, err := GetConfigLoader(container)
	if err != nil {
		return err
	}

	if err := configapp.Validate(cfg); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}

	if err := createBackupIfExists(loader); err != nil {
		return err
	}

	if err := loader.Save(cfg); err != nil {
		return fmt.Errorf("failed to save configuration: %w", err)
	}

	return nil
}

// createBackupIfExists creates a backup of the config file if it exists
func createBackupIfExists(loader *configinfra.FileLoader) error {
	_, err := os.Stat(loader.Path())
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	if _, err := loader.Backup(); err != nil {
		return fmt.Errorf("failed to create configuration backup: %w", err)
	}
	return nil
}

// ParseYAMLValue parses a string value as YAML, falling back to literal string
func ParseYAMLValue(input string) (interface{}, error) {
	var parsed interface{}
	if err := yaml.Unmarshal([]byte(input), &parsed); err != nil {
		return input, nil
	}
	if parsed == nil {
		return input, nil
	}
	return parsed, nil
}

// EditConfigFile applies edit to the config file's YAML tree and writes it
// back once the result decodes and validates. edit also receives the
// file-only config so it can derive new values from current ones. Comments
// survive, and environment overrides never reach the file.
func EditConfigFile(container *app.Container, edit func(doc *configinfra.Document, current domain.Config) error) error {
	loader, err := GetConfigLoader(container)
	if err != nil {
		return err
	}

	raw, err := loader.Raw()
	if err != nil {
		return err
	}
	current, err := configinfra.Decode(raw)
	if err != nil {
		return fmt.Errorf("parse %s: %w", loader.Path(), err)
	}
	doc, err := configinfra.ParseDocument(raw)
	if err != nil {
		return fmt.Errorf("parse %s: %w", loader.Path(), err)
	}
	if err := edit(doc, current); err != nil {
		return err
	}

	updated, err := doc.Bytes()
	if err != nil {
		return fmt.Errorf("render configuration: %w", err)
	}
	cfg, err := configinfra.Decode(updated)
	if err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}
	if err := configapp.Validate(cfg); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}

	if err := createBackupIfExists(loader); err != nil {
		return err
	}
	if err := loader.WriteRaw(updated); err != nil {
		return fmt.Errorf("failed to save configuration: %w", err)
	}
	return nil
}

// ParseRecipientArg parses a chat id given on the command line. Group chats
// have negative ids; zero is never valid.
func ParseRecipientArg(arg string) (domain.RecipientID, error) {
	id, err := domain.ParseRecipientID(strings.TrimSpace(arg))
	if err != nil {
		return 0, fmt.Errorf("invalid chat id %q: %w", arg, err)
	}
	if id == 0 {
		return 0, fmt.Errorf("invalid chat id %q: zero", arg)
	}
	return id, nil
}

package settings

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/subosito/gotenv"
)

var ErrNoSettingsFile = errors.New("settings file not found")

// Load reads settings saved by Save. A missing file yields the defaults.
func Load(path string) (Settings, error) {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		slog.Info("[Settings] No settings file, using defaults", slog.String("path", path))
		return Default(), nil
	}

	return Read(path)
}

// Read parses a settings file. Unlike Load, a missing file is an error.
func Read(path string) (Settings, error) {
	s := Default()

	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return s, fmt.Errorf("%w: %s", ErrNoSettingsFile, path)
	}

	env, err := gotenv.Read(path)
	if err != nil {
		return s, fmt.Errorf("failed to read settings %s: %w", path, err)
	}
	if err := s.Import(env); err != nil {
		return Default(), fmt.Errorf("failed to import settings %s: %w", path, err)
	}

	return s, nil
}

// Marshal renders the settings in the dotenv format Save writes.
func Marshal(s Settings) (string, error) {
	return gotenv.Marshal(gotenv.Env(s.Export()))
}

// Save writes the exported key/value pairs as a dotenv file.
func Save(path string, s Settings) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create settings dir: %w", err)
		}
	}
	if err := gotenv.Write(gotenv.Env(s.Export()), path); err != nil {
		return fmt.Errorf("failed to write settings %s: %w", path, err)
	}

	slog.Info("[Settings] Saved settings", slog.String("path", path))
	return nil
}

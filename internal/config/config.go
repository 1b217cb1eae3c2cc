package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
)

const (
	envDataDir = "PORTINTEL_DATA_DIR"
	envDBPath  = "PORTINTEL_DB_PATH"

	defaultDBName = "prices.db"
)

// Settings holds the user-editable configuration persisted as config.json in
// the data directory.
type Settings struct {
	DataDir         string  `json:"data_dir"`
	BenchmarkPct    float64 `json:"benchmark_pct"`
	PriceTTLSeconds int     `json:"price_ttl_seconds"`
}

var runtimeDataDir string

// SetRuntimeDataDir overrides the data directory for this process, taking
// precedence over env vars and config.json.
func SetRuntimeDataDir(dir string) {
	runtimeDataDir = dir
}

func defaults() Settings {
	return Settings{
		BenchmarkPct:    12,
		PriceTTLSeconds: 300,
	}
}

func appConfigDir() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		home, homeErr := os.UserHomeDir()
		if homeErr != nil {
			return "", homeErr
		}
		return filepath.Join(home, ".config", "portintel"), nil
	}
	return filepath.Join(configDir, "portintel"), nil
}

// GetDataDir resolves the data directory: runtime override, then env, then
// config.json, then the platform user-config dir. The directory is created
// if missing.
func GetDataDir() (string, error) {
	if runtimeDataDir != "" {
		return ensureDir(runtimeDataDir)
	}
	if envDir := strings.TrimSpace(os.Getenv(envDataDir)); envDir != "" {
		return ensureDir(envDir)
	}
	settings := Load()
	if settings.DataDir != "" {
		return ensureDir(settings.DataDir)
	}
	dir, err := appConfigDir()
	if err != nil {
		return "", err
	}
	return ensureDir(dir)
}

// GetDBPath resolves the price cache database path.
func GetDBPath() (string, error) {
	if envPath := strings.TrimSpace(os.Getenv(envDBPath)); envPath != "" {
		return envPath, nil
	}
	dataDir, err := GetDataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dataDir, defaultDBName), nil
}

// Load reads config.json from the resolved data directory, falling back to
// defaults on any problem.
func Load() Settings {
	settings := defaults()

	dir := runtimeDataDir
	if dir == "" {
		dir = strings.TrimSpace(os.Getenv(envDataDir))
	}
	if dir == "" {
		appDir, err := appConfigDir()
		if err != nil {
			return settings
		}
		dir = appDir
	}

	file, err := os.Open(filepath.Join(dir, "config.json"))
	if err != nil {
		return settings
	}
	defer file.Close()

	if err := json.NewDecoder(file).Decode(&settings); err != nil {
		return defaults()
	}
	if settings.BenchmarkPct <= 0 {
		settings.BenchmarkPct = 12
	}
	if settings.PriceTTLSeconds <= 0 {
		settings.PriceTTLSeconds = 300
	}
	return settings
}

// Save writes config.json into the given directory.
func Save(dir string, settings Settings) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(settings, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, "config.json"), data, 0o644)
}

func ensureDir(dir string) (string, error) {
	clean := filepath.Clean(dir)
	if err := os.MkdirAll(clean, 0o755); err != nil {
		return "", err
	}
	return clean, nil
}

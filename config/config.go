package config

import (
	"encoding/json"
	"log"
	"netflix-loader/dataset"
	"os"
	"path/filepath"
	"strconv"
)

const (
	DefaultDatasetID   = "bhargavchirumamilla/netflix-movies-and-tv-shows-till-2025"
	DefaultCSVFileName = "netflix_movies_detailed_up_to_2025.csv"
)

// Config holds the loader settings. Every field has a default, so the
// program runs without any environment at all.
type Config struct {
	// Dataset
	DatasetID   string
	CSVFileName string

	// Kaggle API
	APIURL         string
	CacheDir       string
	KaggleUsername string
	KaggleKey      string

	// Output
	DataPath     string
	ShowProgress bool
}

// Load reads configuration from environment variables or falls back to defaults
func Load() *Config {
	cfg := &Config{
		DatasetID:      getEnv("KAGGLE_DATASET", DefaultDatasetID),
		CSVFileName:    getEnv("KAGGLE_CSV_FILE", DefaultCSVFileName),
		APIURL:         getEnv("KAGGLE_API_URL", dataset.DefaultBaseURL),
		CacheDir:       getEnv("KAGGLEHUB_CACHE", defaultCacheDir()),
		KaggleUsername: os.Getenv("KAGGLE_USERNAME"),
		KaggleKey:      os.Getenv("KAGGLE_KEY"),
		DataPath:       getEnv("DATA_PATH", "."),
		ShowProgress:   getEnvBool("SHOW_PROGRESS", true),
	}

	if cfg.KaggleUsername == "" || cfg.KaggleKey == "" {
		if username, key, ok := readKaggleJSON(kaggleConfigDir()); ok {
			cfg.KaggleUsername, cfg.KaggleKey = username, key
		}
	}

	return cfg
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	if val := os.Getenv(key); val != "" {
		b, err := strconv.ParseBool(val)
		if err != nil {
			log.Printf("Invalid %s '%s', using default %t", key, val, defaultVal)
			return defaultVal
		}
		return b
	}
	return defaultVal
}

func defaultCacheDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".cache", "kagglehub")
	}
	return filepath.Join(home, ".cache", "kagglehub")
}

func kaggleConfigDir() string {
	if dir := os.Getenv("KAGGLE_CONFIG_DIR"); dir != "" {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".kaggle")
}

// readKaggleJSON reads the kaggle.json API token the Kaggle CLI stores
func readKaggleJSON(dir string) (username, key string, ok bool) {
	if dir == "" {
		return "", "", false
	}

	raw, err := os.ReadFile(filepath.Join(dir, "kaggle.json"))
	if err != nil {
		return "", "", false
	}

	var creds struct {
		Username string `json:"username"`
		Key      string `json:"key"`
	}
	if err := json.Unmarshal(raw, &creds); err != nil {
		log.Printf("Ignoring unreadable kaggle.json in %s: %v", dir, err)
		return "", "", false
	}

	if creds.Username == "" || creds.Key == "" {
		return "", "", false
	}
	return creds.Username, creds.Key, true
}

/*
Package config manages TOML config for the wordlex service.
*/
package config

import (
	"os"
	"path/filepath"
	"strconv"

	"github.com/wordlex/wordlex/internal/utils"
	"github.com/charmbracelet/log"
)

// Config holds the entire config structure.
type Config struct {
	Server   ServerConfig   `toml:"server"`
	Wordlist WordlistConfig `toml:"wordlist"`
	WordNet  WordNetConfig  `toml:"wordnet"`
}

// ServerConfig has HTTP listener and rate-limit options.
type ServerConfig struct {
	Host           string  `toml:"host"`
	Port           int     `toml:"port"`
	MaxPageSize    int     `toml:"max_page_size"`
	RateLimitRPS   float64 `toml:"rate_limit_rps"`
	RateLimitBurst int     `toml:"rate_limit_burst"`
}

// WordlistConfig points at the source wordlist and its on-disk index cache.
type WordlistConfig struct {
	Path      string `toml:"path"`
	MaxLen    int    `toml:"max_len"`
	CachePath string `toml:"cache_path"`
}

// WordNetConfig points at a WordNet distribution directory.
type WordNetConfig struct {
	Dir       string `toml:"dir"`
	LoadMode  string `toml:"load_mode"` // "owned" or "mmap"
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:           "127.0.0.1",
			Port:           8080,
			MaxPageSize:    100,
			RateLimitRPS:   5,
			RateLimitBurst: 20,
		},
		Wordlist: WordlistConfig{
			Path:      "data/wordlist.txt",
			MaxLen:    25,
			CachePath: "data/wordlist.cache",
		},
		WordNet: WordNetConfig{
			Dir:      "data/wordnet",
			LoadMode: "owned",
		},
	}
}

// GetConfigDir returns the config directory with fallback priority:
// 1. ~/.config/wordlex
// 2. ~/Library/Application Support/wordlex (macOS)
// 3. Current executable dir
func GetConfigDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		log.Errorf("Failed to get home directory: %v", err)
		execDir, execErr := utils.GetExecutableDir()
		if execErr != nil {
			return "", execErr
		}
		return execDir, nil
	}
	primaryPath := filepath.Join(homeDir, ".config", "wordlex")
	if result := utils.CheckDirStatus(primaryPath); result.Writable {
		return primaryPath, nil
	}
	macOSPath := filepath.Join(homeDir, "Library", "Application Support", "wordlex")
	if result := utils.CheckDirStatus(macOSPath); result.Writable {
		return macOSPath, nil
	}
	execDir, err := utils.GetExecutableDir()
	if err != nil {
		log.Errorf("Failed to get executable directory: %v", err)
		return "", err
	}
	return execDir, nil
}

// GetDefaultConfigPath returns the default path for config.toml.
func GetDefaultConfigPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "config.toml"), nil
}

// LoadConfigWithPriority loads config with priority:
// 1. Custom path from --config flag
// 2. Default path: [UserConfigDir]/wordlex/config.toml
// 3. Builtin defaults
// The result is then passed through ApplyEnvOverrides; max_page_size and
// cache_path have no environment override.
func LoadConfigWithPriority(customConfigPath string) (*Config, string, error) {
	var config *Config
	var err error

	if customConfigPath != "" {
		if _, statErr := os.Stat(customConfigPath); statErr == nil {
			config, err = LoadConfig(customConfigPath)
			if err != nil {
				log.Warnf("Failed to load custom config from %s: %v. Trying default path...", customConfigPath, err)
			} else {
				log.Debugf("Loaded config from custom path: %s", customConfigPath)
				ApplyEnvOverrides(config)
				return config, customConfigPath, nil
			}
		} else {
			log.Warnf("Custom config file not found at %s: %v. Trying default path...", customConfigPath, statErr)
		}
	}

	defaultPath, err := GetDefaultConfigPath()
	if err != nil {
		log.Warnf("Failed to determine default config path: %v. Using built-in defaults...", err)
		config = DefaultConfig()
		ApplyEnvOverrides(config)
		return config, "", nil
	}

	config, err = InitConfig(defaultPath)
	if err != nil {
		log.Warnf("Failed to load/create config at default path %s: %v. Using builtin defaults...", defaultPath, err)
		config = DefaultConfig()
		ApplyEnvOverrides(config)
		return config, "", nil
	}
	log.Debugf("Loaded config from default path: %s", defaultPath)
	ApplyEnvOverrides(config)
	return config, defaultPath, nil
}

// InitConfig loads config from file or creates default if missing.
func InitConfig(configPath string) (*Config, error) {
	configDir := filepath.Dir(configPath)

	if err := utils.EnsureDir(configDir); err != nil {
		log.Warnf("Failed to create config directory %s: %v. Using built-in defaults...", configDir, err)
		return DefaultConfig(), nil
	}

	if !utils.FileExists(configPath) {
		config := DefaultConfig()
		if err := SaveConfig(config, configPath); err != nil {
			log.Warnf("Failed to create default config file at %s: %v. Using built-in defaults...", configPath, err)
			return DefaultConfig(), nil
		}
		log.Debugf("Created default config file at: %s", configPath)
		return config, nil
	}

	config, err := LoadConfig(configPath)
	if err != nil {
		log.Warnf("Failed to load config from %s: %v. Using built-in defaults...", configPath, err)
		return DefaultConfig(), nil
	}
	return config, nil
}

// LoadConfig loads from a TOML file.
func LoadConfig(configPath string) (*Config, error) {
	config := DefaultConfig()

	if err := utils.LoadTOMLFile(configPath, config); err != nil {
		return tryPartialParse(configPath)
	}
	return config, nil
}

// tryPartialParse attempts to salvage a malformed TOML file section by
// section, falling back to defaults for anything that doesn't parse.
func tryPartialParse(configPath string) (*Config, error) {
	config := DefaultConfig()

	tempConfig, err := utils.ParseTOMLWithRecovery(configPath)
	if err != nil {
		log.Warnf("Could not parse any valid configuration from %s: %v. Using all defaults.", configPath, err)
		return config, nil
	}

	if serverSection, ok := utils.ExtractSection(tempConfig, "server"); ok {
		extractServerConfig(serverSection, &config.Server)
	}
	if wordlistSection, ok := utils.ExtractSection(tempConfig, "wordlist"); ok {
		extractWordlistConfig(wordlistSection, &config.Wordlist)
	}
	if wordnetSection, ok := utils.ExtractSection(tempConfig, "wordnet"); ok {
		extractWordNetConfig(wordnetSection, &config.WordNet)
	}
	return config, nil
}

func extractServerConfig(data map[string]any, server *ServerConfig) {
	if val, ok := data["host"].(string); ok {
		server.Host = val
	}
	if val, ok := utils.ExtractInt64(data, "port"); ok {
		server.Port = val
	}
	if val, ok := utils.ExtractInt64(data, "max_page_size"); ok {
		server.MaxPageSize = val
	}
	if val, ok := data["rate_limit_rps"].(float64); ok {
		server.RateLimitRPS = val
	}
	if val, ok := utils.ExtractInt64(data, "rate_limit_burst"); ok {
		server.RateLimitBurst = val
	}
}

func extractWordlistConfig(data map[string]any, wordlist *WordlistConfig) {
	if val, ok := data["path"].(string); ok {
		wordlist.Path = val
	}
	if val, ok := utils.ExtractInt64(data, "max_len"); ok {
		wordlist.MaxLen = val
	}
	if val, ok := data["cache_path"].(string); ok {
		wordlist.CachePath = val
	}
}

func extractWordNetConfig(data map[string]any, wordnet *WordNetConfig) {
	if val, ok := data["dir"].(string); ok {
		wordnet.Dir = val
	}
	if val, ok := data["load_mode"].(string); ok {
		wordnet.LoadMode = val
	}
}

// ApplyEnvOverrides overrides config fields from environment variables,
// mirroring original_source's env-var config loading at startup.
func ApplyEnvOverrides(c *Config) {
	if v := os.Getenv("HOST"); v != "" {
		c.Server.Host = v
	}
	if v := os.Getenv("PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Server.Port = n
		} else {
			log.Warnf("Ignoring invalid PORT=%q: %v", v, err)
		}
	}
	if v := os.Getenv("RATE_LIMIT_RPS"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			c.Server.RateLimitRPS = f
		} else {
			log.Warnf("Ignoring invalid RATE_LIMIT_RPS=%q: %v", v, err)
		}
	}
	if v := os.Getenv("RATE_LIMIT_BURST"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Server.RateLimitBurst = n
		} else {
			log.Warnf("Ignoring invalid RATE_LIMIT_BURST=%q: %v", v, err)
		}
	}
	if v := os.Getenv("WORDLIST_PATH"); v != "" {
		c.Wordlist.Path = v
	}
	if v := os.Getenv("MAX_LEN"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Wordlist.MaxLen = n
		} else {
			log.Warnf("Ignoring invalid MAX_LEN=%q: %v", v, err)
		}
	}
	if v := os.Getenv("WORDNET_DIR"); v != "" {
		c.WordNet.Dir = v
	}
	if v := os.Getenv("WORDNET_LOAD_MODE"); v != "" {
		c.WordNet.LoadMode = v
	}
}

// RebuildConfigFile force creates a new config.toml at the default path.
func RebuildConfigFile() error {
	defaultPath, err := GetDefaultConfigPath()
	if err != nil {
		return err
	}
	configDir := filepath.Dir(defaultPath)
	if err := utils.EnsureDir(configDir); err != nil {
		return err
	}
	config := DefaultConfig()
	return utils.SaveTOMLFile(config, defaultPath)
}

// GetActiveConfigPath returns the absolute path of the loaded config file.
func GetActiveConfigPath(configPath string) string {
	if configPath == "" {
		if defaultPath, err := GetDefaultConfigPath(); err == nil {
			return defaultPath
		}
		return "unknown"
	}
	return utils.GetAbsolutePath(configPath)
}

// SaveConfig saves into a TOML file.
func SaveConfig(config *Config, configPath string) error {
	return utils.SaveTOMLFile(config, configPath)
}

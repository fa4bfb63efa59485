package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/sdejongh/modnorris/internal/platform"
)

// fileConfig mirrors the server config file. Zero values mean "unset" so
// defaults and environment overrides can fill the gaps.
type fileConfig struct {
	Name             string      `yaml:"name" json:"name"`
	ServerType       string      `yaml:"server_type" json:"server_type"`
	MinecraftVersion string      `yaml:"minecraft_version" json:"minecraft_version"`
	DataDir          string      `yaml:"data_dir" json:"data_dir"`
	LogFile          string      `yaml:"log_file" json:"log_file"`
	DockerService    string      `yaml:"docker_service" json:"docker_service"`
	Rcon             *RconConfig `yaml:"rcon" json:"rcon"`
	APIUserAgent     string      `yaml:"api_user_agent" json:"api_user_agent"`
	CurseForgeAPIKey string      `yaml:"curseforge_api_key" json:"curseforge_api_key"`
	DownloadLimit    int64       `yaml:"download_rate_limit" json:"download_rate_limit"`
}

// envSettings are the MODNORRIS_* environment overrides. Pointer fields
// distinguish "unset" from explicit zero values.
type envSettings struct {
	ServerRoot       string `env:"SERVER_ROOT"`
	DataDir          string `env:"DATA_DIR"`
	LogFile          string `env:"LOG_FILE"`
	DockerService    string `env:"DOCKER_SERVICE"`
	RconEnabled      *bool  `env:"RCON_ENABLED"`
	RconHost         string `env:"RCON_HOST"`
	RconPort         *int   `env:"RCON_PORT"`
	RconPassword     string `env:"RCON_PASSWORD"`
	APIUserAgent     string `env:"API_USER_AGENT"`
	CurseForgeAPIKey string `env:"CURSEFORGE_API_KEY"`
	DownloadLimit    *int64 `env:"DOWNLOAD_RATE_LIMIT"`
}

// Load resolves the configuration for the server rooted at root.
// When root is empty the root is discovered: a config file in the current
// directory wins, then the per-user config, then the current directory.
func Load(root string) (*Config, error) {
	userCfg, err := LoadUserConfig()
	if err != nil {
		return nil, err
	}

	serverRoot, err := resolveInitialRoot(root, userCfg)
	if err != nil {
		return nil, err
	}

	// Optional .env next to the config file; missing is fine.
	envFile := filepath.Join(serverRoot, EnvFilename)
	if _, err := os.Stat(envFile); err == nil {
		if err := godotenv.Load(envFile); err != nil {
			return nil, &ConfigError{Message: fmt.Sprintf("failed to load %s", envFile), Err: err}
		}
	}

	var settings envSettings
	if err := env.ParseWithOptions(&settings, env.Options{Prefix: EnvPrefix}); err != nil {
		return nil, &ConfigError{Message: "failed to parse environment overrides", Err: err}
	}

	if settings.ServerRoot != "" {
		serverRoot = platform.Coerce(serverRoot, settings.ServerRoot)
	}

	fileCfg, err := loadFileConfig(serverRoot)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		ServerRoot:       serverRoot,
		DataDir:          platform.Coerce(serverRoot, firstNonEmpty(settings.DataDir, fileCfg.DataDir, defaultDataDir)),
		LogFile:          platform.Coerce(serverRoot, firstNonEmpty(settings.LogFile, fileCfg.LogFile, defaultLogFile)),
		DockerService:    firstNonEmpty(settings.DockerService, fileCfg.DockerService, defaultDockerService),
		Rcon:             mergeRcon(fileCfg.Rcon, settings),
		Name:             firstNonEmpty(fileCfg.Name, defaultName),
		ServerType:       firstNonEmpty(fileCfg.ServerType, defaultServerType),
		MinecraftVersion: firstNonEmpty(fileCfg.MinecraftVersion, defaultMCVersion),
		APIUserAgent:     firstNonEmpty(settings.APIUserAgent, fileCfg.APIUserAgent, defaultUserAgent),
		CurseForgeAPIKey: firstNonEmpty(settings.CurseForgeAPIKey, fileCfg.CurseForgeAPIKey),
		DownloadRateLimit: fileCfg.DownloadLimit,
	}
	if settings.DownloadLimit != nil {
		cfg.DownloadRateLimit = *settings.DownloadLimit
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// ConfigFilePath returns the config file found under root, preferring YAML
func ConfigFilePath(root string) (string, bool) {
	for _, name := range []string{ConfigFilenameYAML, ConfigFilenameJSON} {
		path := filepath.Join(root, name)
		if _, err := os.Stat(path); err == nil {
			return path, true
		}
	}
	return filepath.Join(root, ConfigFilenameYAML), false
}

func resolveInitialRoot(root string, userCfg *UserConfig) (string, error) {
	if root != "" {
		abs, err := filepath.Abs(platform.ExpandUser(root))
		if err != nil {
			return "", &ConfigError{Message: "failed to resolve server root", Err: err}
		}
		return abs, nil
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", &ConfigError{Message: "failed to resolve working directory", Err: err}
	}

	if _, found := ConfigFilePath(cwd); found {
		return cwd, nil
	}

	if userCfg.ServerRoot != "" {
		abs, err := filepath.Abs(platform.ExpandUser(userCfg.ServerRoot))
		if err != nil {
			return "", &ConfigError{Message: "failed to resolve configured server root", Err: err}
		}
		return abs, nil
	}

	return cwd, nil
}

func loadFileConfig(root string) (*fileConfig, error) {
	path, found := ConfigFilePath(root)
	if !found {
		return nil, &ConfigError{
			Message: fmt.Sprintf("could not find %s or %s in %s; run modnorris from your server root or pass --root",
				ConfigFilenameYAML, ConfigFilenameJSON, root),
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &ConfigError{Message: "failed to read config file", Err: err}
	}

	cfg := &fileConfig{}
	if filepath.Ext(path) == ".json" {
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, &ConfigError{Message: fmt.Sprintf("invalid JSON in %s", path), Err: err}
		}
		return cfg, nil
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, &ConfigError{Message: fmt.Sprintf("invalid YAML in %s", path), Err: err}
	}
	return cfg, nil
}

func mergeRcon(file *RconConfig, settings envSettings) RconConfig {
	rcon := DefaultRcon()
	if file != nil {
		rcon = *file
	}
	if settings.RconEnabled != nil {
		rcon.Enabled = *settings.RconEnabled
	}
	if settings.RconHost != "" {
		rcon.Host = settings.RconHost
	}
	if settings.RconPort != nil {
		rcon.Port = *settings.RconPort
	}
	if settings.RconPassword != "" {
		rcon.Password = settings.RconPassword
	}
	return rcon
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

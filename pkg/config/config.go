// Package config resolves the server configuration from the config file,
// environment overrides and the per-user config.
package config

const (
	// ConfigFilenameYAML is the preferred server config file name
	ConfigFilenameYAML = ".modnorris.yaml"
	// ConfigFilenameJSON is the alternative JSON server config file name
	ConfigFilenameJSON = ".modnorris.json"
	// EnvFilename is the optional dotenv file loaded from the server root
	EnvFilename = ".env"
	// EnvPrefix is the prefix of every environment override
	EnvPrefix = "MODNORRIS_"

	defaultName          = "default-server"
	defaultServerType    = "FABRIC"
	defaultMCVersion     = "1.21.1"
	defaultDataDir       = "data"
	defaultLogFile       = "data/logs/latest.log"
	defaultDockerService = "minecraft"
	defaultUserAgent     = "modnorris/dev"
)

// ConfigError is raised when configuration cannot be loaded
type ConfigError struct {
	Message string
	Err     error
}

func (e *ConfigError) Error() string {
	return e.Message
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// RconConfig holds the RCON console settings
type RconConfig struct {
	Enabled  bool   `yaml:"enabled" json:"enabled"`
	Host     string `yaml:"host" json:"host"`
	Port     int    `yaml:"port" json:"port"`
	Password string `yaml:"password" json:"password"`
}

// DefaultRcon returns the default RCON settings
func DefaultRcon() RconConfig {
	return RconConfig{
		Enabled:  true,
		Host:     "127.0.0.1",
		Port:     25575,
		Password: "rconpw",
	}
}

// Config is the fully resolved configuration handed to every command.
// The mod-management core treats it as read-only input.
type Config struct {
	ServerRoot       string
	DataDir          string
	LogFile          string
	DockerService    string
	Rcon             RconConfig
	Name             string
	ServerType       string
	MinecraftVersion string
	APIUserAgent     string
	CurseForgeAPIKey string
	// DownloadRateLimit caps mod download throughput in bytes per second.
	// Zero means unlimited.
	DownloadRateLimit int64
}

// Validate checks the resolved configuration
func (c *Config) Validate() error {
	if c.ServerRoot == "" {
		return &ConfigError{Message: "server_root: must not be empty"}
	}
	if c.DataDir == "" {
		return &ConfigError{Message: "data_dir: must not be empty"}
	}
	if c.Rcon.Port < 1 || c.Rcon.Port > 65535 {
		return &ConfigError{Message: "rcon.port: must be between 1 and 65535"}
	}
	if c.DownloadRateLimit < 0 {
		return &ConfigError{Message: "download_rate_limit: must not be negative"}
	}
	return nil
}

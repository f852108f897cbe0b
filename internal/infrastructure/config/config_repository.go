package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/manualhttp/manualhttp-go-client/internal/domain/model"
	"github.com/manualhttp/manualhttp-go-client/internal/domain/port"
)

// EnvPrefix prefixes environment overrides, e.g. MANUALHTTP_READ_TIMEOUT
const EnvPrefix = "MANUALHTTP"

// DefaultEnvFile is loaded into the environment when it exists
const DefaultEnvFile = ".env"

// Configuration keys
const (
	KeyConnectTimeout  = "connect_timeout"
	KeyReadTimeout     = "read_timeout"
	KeyWriteTimeout    = "write_timeout"
	KeyUserAgent       = "user_agent"
	KeyEncoding        = "encoding"
	KeyTLSVerify       = "tls_verify"
	KeyTLSMinVersion   = "tls_min_version"
	KeyFollowRedirects = "follow_redirects"
	KeyMaxRedirects    = "max_redirects"
	KeyAttachCookies   = "attach_cookies"
	KeyLogLevel        = "log_level"
	KeyLogFile         = "log_file"
)

// ConfigRepository is an implementation of port.ConfigRepository
type ConfigRepository struct {
	envFile string
}

// NewConfigRepository creates a new ConfigRepository instance
func NewConfigRepository() *ConfigRepository {
	return &ConfigRepository{envFile: DefaultEnvFile}
}

// NewConfigRepositoryWithEnvFile creates a ConfigRepository reading envFile instead of .env
func NewConfigRepositoryWithEnvFile(envFile string) *ConfigRepository {
	return &ConfigRepository{envFile: envFile}
}

// Load loads configuration from file, then applies environment overrides
func (r *ConfigRepository) Load(configPath string) (*model.Config, error) {
	if err := r.loadEnvFile(); err != nil {
		return nil, fmt.Errorf("error loading %s: %v", r.envFile, err)
	}

	v := newViper()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return r.load(v, configPath)
}

// LoadFile loads configuration from file only, without environment overrides
func (r *ConfigRepository) LoadFile(configPath string) (*model.Config, error) {
	return r.load(newViper(), configPath)
}

func (r *ConfigRepository) load(v *viper.Viper, configPath string) (*model.Config, error) {
	// If configPath is empty, look in the default location
	if configPath == "" {
		var err error
		configPath, err = r.GetDefaultPath()
		if err != nil {
			return nil, err
		}
	}

	if _, err := os.Stat(configPath); err == nil {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config file: %v", err)
		}
	}

	config := &model.Config{
		ConnectTimeout:  v.GetDuration(KeyConnectTimeout),
		ReadTimeout:     v.GetDuration(KeyReadTimeout),
		WriteTimeout:    v.GetDuration(KeyWriteTimeout),
		UserAgent:       v.GetString(KeyUserAgent),
		Encoding:        v.GetString(KeyEncoding),
		TLSVerify:       v.GetBool(KeyTLSVerify),
		TLSMinVersion:   v.GetString(KeyTLSMinVersion),
		FollowRedirects: v.GetBool(KeyFollowRedirects),
		MaxRedirects:    v.GetInt(KeyMaxRedirects),
		AttachCookies:   v.GetBool(KeyAttachCookies),
		LogLevel:        model.LogLevel(v.GetString(KeyLogLevel)),
		LogFile:         v.GetString(KeyLogFile),
	}
	if err := validate(config); err != nil {
		return nil, err
	}

	return config, nil
}

// Save saves configuration to file
func (r *ConfigRepository) Save(config *model.Config, configPath string) error {
	// If configPath is empty, use default location
	if configPath == "" {
		var err error
		configPath, err = r.GetDefaultPath()
		if err != nil {
			return err
		}
	}

	// Create directory if it doesn't exist
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("error creating config directory: %v", err)
	}

	v := viper.New()
	v.SetConfigFile(configPath)
	for key, value := range Values(config) {
		v.Set(key, value)
	}

	if err := v.WriteConfig(); err != nil {
		return fmt.Errorf("error saving configuration: %v", err)
	}

	return nil
}

// GetDefaultPath returns the default path for configuration file
func (r *ConfigRepository) GetDefaultPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("error getting home directory: %v", err)
	}

	return filepath.Join(homeDir, ".manualhttp", "config.yaml"), nil
}

// Values returns the configuration as the key/value pairs stored on disk
func Values(config *model.Config) map[string]interface{} {
	return map[string]interface{}{
		KeyConnectTimeout:  config.ConnectTimeout.String(),
		KeyReadTimeout:     config.ReadTimeout.String(),
		KeyWriteTimeout:    config.WriteTimeout.String(),
		KeyUserAgent:       config.UserAgent,
		KeyEncoding:        config.Encoding,
		KeyTLSVerify:       config.TLSVerify,
		KeyTLSMinVersion:   config.TLSMinVersion,
		KeyFollowRedirects: config.FollowRedirects,
		KeyMaxRedirects:    config.MaxRedirects,
		KeyAttachCookies:   config.AttachCookies,
		KeyLogLevel:        string(config.LogLevel),
		KeyLogFile:         config.LogFile,
	}
}

func (r *ConfigRepository) loadEnvFile() error {
	if r.envFile == "" {
		return nil
	}
	if _, err := os.Stat(r.envFile); err == nil {
		return godotenv.Load(r.envFile)
	}
	return nil
}

func newViper() *viper.Viper {
	v := viper.New()
	for key, value := range Values(model.NewConfig()) {
		v.SetDefault(key, value)
	}
	return v
}

func validate(config *model.Config) error {
	if config.ConnectTimeout < 0 || config.ReadTimeout < 0 || config.WriteTimeout < 0 {
		return errors.New("timeouts must not be negative")
	}
	if config.MaxRedirects < 0 {
		return errors.New("max_redirects must not be negative")
	}
	return nil
}

// Ensure ConfigRepository implements port.ConfigRepository
var _ port.ConfigRepository = (*ConfigRepository)(nil)

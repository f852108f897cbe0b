package service

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/manualhttp/manualhttp-go-client/internal/domain/model"
	"github.com/manualhttp/manualhttp-go-client/internal/domain/port"
	"github.com/manualhttp/manualhttp-go-client/internal/infrastructure/transport"
	"github.com/manualhttp/manualhttp-go-client/internal/infrastructure/wire"
)

// ConfigService is a service for managing configuration
type ConfigService struct {
	configRepo port.ConfigRepository
	logger     port.Logger
}

// NewConfigService creates a new ConfigService instance
func NewConfigService(configRepo port.ConfigRepository, logger port.Logger) *ConfigService {
	return &ConfigService{
		configRepo: configRepo,
		logger:     logger,
	}
}

// LoadConfig loads configuration from a file
func (s *ConfigService) LoadConfig(configPath string) (*model.Config, error) {
	// If configPath is empty, use the default path
	if configPath == "" {
		var err error
		configPath, err = s.configRepo.GetDefaultPath()
		if err != nil {
			return nil, fmt.Errorf("failed to get default path: %v", err)
		}
	}

	config, err := s.configRepo.Load(configPath)
	if err != nil {
		s.logger.Warn("Failed to load configuration from %s: %v", configPath, err)
		// Return default configuration if loading fails
		return model.NewConfig(), nil
	}

	s.logger.Debug("Configuration loaded from %s", configPath)

	return config, nil
}

// SaveConfig saves configuration to a file
func (s *ConfigService) SaveConfig(config *model.Config, configPath string) error {
	// If configPath is empty, use the default path
	if configPath == "" {
		var err error
		configPath, err = s.configRepo.GetDefaultPath()
		if err != nil {
			return fmt.Errorf("failed to get default path: %v", err)
		}
	}

	if err := s.configRepo.Save(config, configPath); err != nil {
		return fmt.Errorf("failed to save configuration: %v", err)
	}

	s.logger.Info("Configuration saved to %s", configPath)

	return nil
}

// UpdateValue changes one key in the stored configuration and saves it.
// Environment overrides in effect for this process are not written back.
func (s *ConfigService) UpdateValue(configPath, key, value string) (*model.Config, error) {
	if configPath == "" {
		var err error
		configPath, err = s.configRepo.GetDefaultPath()
		if err != nil {
			return nil, fmt.Errorf("failed to get default path: %v", err)
		}
	}

	config, err := s.configRepo.LoadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read stored configuration: %v", err)
	}

	if err := s.SetValue(config, key, value); err != nil {
		return nil, err
	}

	if err := s.SaveConfig(config, configPath); err != nil {
		return nil, err
	}

	return config, nil
}

// SetValue parses value and assigns it to the configuration key
func (s *ConfigService) SetValue(config *model.Config, key, value string) error {
	var err error
	switch key {
	case "connect_timeout":
		config.ConnectTimeout, err = parseTimeout(value)
	case "read_timeout":
		config.ReadTimeout, err = parseTimeout(value)
	case "write_timeout":
		config.WriteTimeout, err = parseTimeout(value)
	case "user_agent":
		config.UserAgent = value
	case "encoding":
		if _, err = wire.LookupEncoding(value); err == nil {
			config.Encoding = value
		}
	case "tls_verify":
		config.TLSVerify, err = strconv.ParseBool(value)
	case "tls_min_version":
		if _, err = transport.ParseTLSVersion(value); err == nil {
			config.TLSMinVersion = value
		}
	case "follow_redirects":
		config.FollowRedirects, err = strconv.ParseBool(value)
	case "max_redirects":
		var n int
		if n, err = strconv.Atoi(value); err == nil {
			if n < 0 {
				return fmt.Errorf("max_redirects must not be negative")
			}
			config.MaxRedirects = n
		}
	case "attach_cookies":
		config.AttachCookies, err = strconv.ParseBool(value)
	case "log_level":
		err = s.SetLogLevel(config, value)
	case "log_file":
		s.SetLogFile(config, value)
	default:
		return fmt.Errorf("unknown configuration key: %s", key)
	}
	if err != nil {
		return fmt.Errorf("invalid value for %s: %v", key, err)
	}
	return nil
}

// SetLogLevel sets the log level
func (s *ConfigService) SetLogLevel(config *model.Config, logLevel string) error {
	switch level := model.LogLevel(strings.ToLower(logLevel)); level {
	case model.LogLevelDebug, model.LogLevelInfo, model.LogLevelWarn, model.LogLevelError:
		config.LogLevel = level
		return nil
	default:
		return fmt.Errorf("unknown log level %q", logLevel)
	}
}

// SetLogFile sets the log file
func (s *ConfigService) SetLogFile(config *model.Config, logFile string) {
	config.LogFile = logFile
}

func parseTimeout(value string) (time.Duration, error) {
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, err
	}
	if d < 0 {
		return 0, fmt.Errorf("negative duration %s", value)
	}
	return d, nil
}

package di

import (
	"fmt"
	"io"
	"os"

	"github.com/manualhttp/manualhttp-go-client/internal/application/service"
	"github.com/manualhttp/manualhttp-go-client/internal/domain/model"
	domainservice "github.com/manualhttp/manualhttp-go-client/internal/domain/service"
	"github.com/manualhttp/manualhttp-go-client/internal/infrastructure/config"
	"github.com/manualhttp/manualhttp-go-client/internal/infrastructure/logger"
	"github.com/manualhttp/manualhttp-go-client/internal/infrastructure/transport"
)

// Container is a container for dependency injection
type Container struct {
	// Logger
	Logger *logger.Logger

	// Repositories
	ConfigRepository *config.ConfigRepository

	// Services
	ConfigService *service.ConfigService
	HTTPService   *service.HTTPService

	// Transport and orchestrator
	Dialer   *transport.Dialer
	Protocol *transport.Protocol

	// Config
	Config *model.Config

	// Out receives command reports
	Out io.Writer
}

// NewContainer creates a new Container instance
func NewContainer() *Container {
	return &Container{Out: os.Stdout}
}

// Initialize loads the configuration and sets up logging
func (c *Container) Initialize(configPath string) error {
	// Initialize logger
	c.Logger = logger.NewLogger(os.Stderr, string(model.LogLevelWarn))

	// Initialize config repository
	c.ConfigRepository = config.NewConfigRepository()

	// Initialize config service
	c.ConfigService = service.NewConfigService(c.ConfigRepository, c.Logger)

	// Load configuration
	var err error
	c.Config, err = c.ConfigService.LoadConfig(configPath)
	if err != nil {
		return err
	}

	// Set logger level based on configuration
	c.Logger.SetLevel(string(c.Config.LogLevel))

	// If log file is specified, log to both stderr and the file
	if c.Config.LogFile != "" {
		fileLogger, err := logger.NewTeeLogger(os.Stderr, c.Config.LogFile, string(c.Config.LogLevel))
		if err != nil {
			c.Logger.Error("Failed to create file logger: %v", err)
		} else {
			c.Logger = fileLogger
			c.Logger.Debug("Logs will also be written to file: %s", c.Config.LogFile)
		}
	}

	// Rebuild config service so it logs through the final logger
	c.ConfigService = service.NewConfigService(c.ConfigRepository, c.Logger)

	return nil
}

// InitializeClient builds the transport stack from the current configuration.
// Commands call it after applying their flag overrides to Config.
func (c *Container) InitializeClient() error {
	if c.Config == nil {
		return fmt.Errorf("configuration not loaded")
	}

	c.Dialer = transport.NewDialer(c.Logger)
	if c.Config.TLSVerify {
		c.Dialer.SetCertificateValidator(transport.SystemCertificateValidator(nil))
	}
	minVersion, err := transport.ParseTLSVersion(c.Config.TLSMinVersion)
	if err != nil {
		return err
	}
	c.Dialer.SetMinTLSVersion(minVersion)

	options, err := transport.OptionsFromConfig(c.Config)
	if err != nil {
		return err
	}

	c.Protocol = transport.NewProtocol(c.Dialer, domainservice.NewCookieStore(), c.Logger, options)
	c.HTTPService = service.NewHTTPService(c.Protocol, c.Logger, c.Out)

	return nil
}

// Close closes all resources
func (c *Container) Close() {
	// Close logger
	if c.Logger != nil {
		c.Logger.Close()
	}
}

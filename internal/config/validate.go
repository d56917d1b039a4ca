package config

import (
	"fmt"
	"strings"
)

// Validate reports configuration values that cannot be used at runtime.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		return fmt.Errorf("config: data_dir must not be empty")
	}
	if strings.TrimSpace(c.Paths.APIBind) == "" {
		return fmt.Errorf("config: api_bind must not be empty")
	}
	if len(c.Upload.AllowedExtensions) == 0 {
		return fmt.Errorf("config: allowed_extensions must not be empty")
	}
	for _, field := range []struct {
		name  string
		value int
	}{
		{"read_timeout", c.Server.ReadTimeout},
		{"write_timeout", c.Server.WriteTimeout},
		{"idle_timeout", c.Server.IdleTimeout},
		{"shutdown_timeout", c.Server.ShutdownTimeout},
	} {
		if field.value <= 0 {
			return fmt.Errorf("config: %s must be positive, got %d", field.name, field.value)
		}
	}
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("config: unsupported log format %q", c.Logging.Format)
	}
	return nil
}

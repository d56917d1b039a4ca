package config

import (
	"path/filepath"
	"strings"
)

// normalize expands path fields, fills derived defaults, and canonicalizes
// the upload extension allow-list.
func (c *Config) normalize() error {
	dataDir, err := expandPath(c.Paths.DataDir)
	if err != nil {
		return err
	}
	c.Paths.DataDir = dataDir

	if strings.TrimSpace(c.Paths.UploadDir) == "" {
		c.Paths.UploadDir = filepath.Join(c.Paths.DataDir, "uploads")
	} else {
		uploadDir, err := expandPath(c.Paths.UploadDir)
		if err != nil {
			return err
		}
		c.Paths.UploadDir = uploadDir
	}

	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = filepath.Join(c.Paths.DataDir, "logs")
	} else {
		logDir, err := expandPath(c.Paths.LogDir)
		if err != nil {
			return err
		}
		c.Paths.LogDir = logDir
	}

	c.Paths.APIBind = strings.TrimSpace(c.Paths.APIBind)

	if len(c.Upload.AllowedExtensions) == 0 {
		c.Upload.AllowedExtensions = defaultAllowedExtensions()
	}
	normalized := make([]string, 0, len(c.Upload.AllowedExtensions))
	for _, ext := range c.Upload.AllowedExtensions {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		normalized = append(normalized, ext)
	}
	c.Upload.AllowedExtensions = normalized

	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}

	return nil
}

package config

import (
	"fmt"
	"os"
	"strings"

	"cleanfolder/internal/category"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeCategories()
	c.normalizeNaming()
	c.normalizeWalk()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	if value, ok := os.LookupEnv(stateDirEnv); ok && strings.TrimSpace(value) != "" {
		c.Paths.StateDir = value
	}
	if strings.TrimSpace(c.Paths.StateDir) == "" {
		c.Paths.StateDir = defaultStateDir
	}
	var err error
	if c.Paths.StateDir, err = expandPath(strings.TrimSpace(c.Paths.StateDir)); err != nil {
		return fmt.Errorf("paths.state_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeCategories() {
	if c.Categories == nil {
		c.Categories = category.DefaultLists()
		return
	}
	for name, exts := range c.Categories {
		cleaned := make([]string, 0, len(exts))
		seen := make(map[string]struct{}, len(exts))
		for _, ext := range exts {
			ext = category.CanonicalExt(ext)
			if ext == "" {
				continue
			}
			if _, dup := seen[ext]; dup {
				continue
			}
			seen[ext] = struct{}{}
			cleaned = append(cleaned, ext)
		}
		c.Categories[name] = cleaned
	}
}

func (c *Config) normalizeNaming() {
	c.Naming.Collision = strings.ToLower(strings.TrimSpace(c.Naming.Collision))
	if c.Naming.Collision == "" {
		c.Naming.Collision = defaultCollision
	}
}

func (c *Config) normalizeWalk() {
	patterns := make([]string, 0, len(c.Walk.Ignore))
	for _, pattern := range c.Walk.Ignore {
		if pattern = strings.TrimSpace(pattern); pattern != "" {
			patterns = append(patterns, pattern)
		}
	}
	c.Walk.Ignore = patterns
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}

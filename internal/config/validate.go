package config

import (
	"fmt"

	"github.com/bmatcuk/doublestar/v4"

	"cleanfolder/internal/category"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateCategories(); err != nil {
		return err
	}
	if err := c.validateNaming(); err != nil {
		return err
	}
	if err := c.validateWalk(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateCategories() error {
	table, err := category.NewTable(c.Categories)
	if err != nil {
		return fmt.Errorf("categories: %w", err)
	}
	c.table = &table
	return nil
}

func (c *Config) validateNaming() error {
	switch c.Naming.Collision {
	case CollisionSuffix, CollisionFail:
		return nil
	default:
		return fmt.Errorf("naming.collision must be %q or %q, got %q", CollisionSuffix, CollisionFail, c.Naming.Collision)
	}
}

func (c *Config) validateWalk() error {
	for _, pattern := range c.Walk.Ignore {
		if !doublestar.ValidatePattern(pattern) {
			return fmt.Errorf("walk.ignore: invalid pattern %q", pattern)
		}
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be one of debug, info, warn, error, got %q", c.Logging.Level)
	}
	return nil
}

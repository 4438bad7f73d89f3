package config

import (
	"errors"
	"fmt"
	"net/url"
)

var (
	validSortKeys   = map[string]struct{}{"applied_date": {}, "skill_match": {}, "composite_score": {}, "name": {}, "experience": {}}
	validDirections = map[string]struct{}{"asc": {}, "desc": {}}
	validLogFormats = map[string]struct{}{"console": {}, "json": {}}
	validLogLevels  = map[string]struct{}{"debug": {}, "info": {}, "warn": {}, "error": {}}
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateRemote(); err != nil {
		return err
	}
	if err := c.validateBoard(); err != nil {
		return err
	}
	if err := c.validateStages(); err != nil {
		return err
	}
	if err := c.validateServer(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateRemote() error {
	if c.Remote.BaseURL != "" {
		parsed, err := url.Parse(c.Remote.BaseURL)
		if err != nil {
			return fmt.Errorf("remote.base_url: %w", err)
		}
		if parsed.Scheme != "http" && parsed.Scheme != "https" {
			return fmt.Errorf("remote.base_url must use http or https, got %q", c.Remote.BaseURL)
		}
		if parsed.Host == "" {
			return fmt.Errorf("remote.base_url must include a host, got %q", c.Remote.BaseURL)
		}
	}
	if c.Remote.ProbeTimeoutMS < 0 {
		return errors.New("remote.probe_timeout_ms must be positive")
	}
	if c.Remote.RequestTimeoutMS < 0 {
		return errors.New("remote.request_timeout_ms must be positive")
	}
	if c.Remote.PersistTimeoutMS < 0 {
		return errors.New("remote.persist_timeout_ms must be positive")
	}
	return nil
}

func (c *Config) validateBoard() error {
	if _, ok := validSortKeys[c.Board.DefaultSort]; !ok {
		return fmt.Errorf("board.default_sort: unsupported value %q", c.Board.DefaultSort)
	}
	if _, ok := validDirections[c.Board.DefaultDirection]; !ok {
		return fmt.Errorf("board.default_direction must be asc or desc, got %q", c.Board.DefaultDirection)
	}
	return nil
}

func (c *Config) validateStages() error {
	seen := make(map[string]struct{}, len(c.Stages))
	for i, def := range c.Stages {
		if def.ID == "" {
			return fmt.Errorf("stages[%d].id must be set", i)
		}
		if def.ID == "unknown" {
			return fmt.Errorf("stages[%d].id %q is reserved", i, def.ID)
		}
		if _, dup := seen[def.ID]; dup {
			return fmt.Errorf("stages[%d].id %q is duplicated", i, def.ID)
		}
		seen[def.ID] = struct{}{}
	}
	return nil
}

func (c *Config) validateServer() error {
	if c.Server.Bind == "" {
		return errors.New("server.bind must be set")
	}
	return nil
}

func (c *Config) validateLogging() error {
	if _, ok := validLogFormats[c.Logging.Format]; !ok {
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	if _, ok := validLogLevels[c.Logging.Level]; !ok {
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	return nil
}

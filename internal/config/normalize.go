package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	c.normalizeRemote()
	c.normalizeBoard()
	c.normalizeStages()
	if err := c.normalizeServer(); err != nil {
		return err
	}
	return c.normalizeLogging()
}

func (c *Config) normalizeRemote() {
	c.Remote.BaseURL = strings.TrimSpace(c.Remote.BaseURL)
	if c.Remote.BaseURL == "" {
		if value, ok := os.LookupEnv("TALENTFLOW_REMOTE_URL"); ok {
			c.Remote.BaseURL = strings.TrimSpace(value)
		}
	}
	c.Remote.BaseURL = strings.TrimRight(c.Remote.BaseURL, "/")
	c.Remote.APIToken = strings.TrimSpace(c.Remote.APIToken)
	if c.Remote.APIToken == "" {
		if value, ok := os.LookupEnv("TALENTFLOW_API_TOKEN"); ok {
			c.Remote.APIToken = strings.TrimSpace(value)
		}
	}
	if c.Remote.ProbeTimeoutMS == 0 {
		c.Remote.ProbeTimeoutMS = defaultProbeTimeoutMS
	}
	if c.Remote.RequestTimeoutMS == 0 {
		c.Remote.RequestTimeoutMS = defaultRequestTimeoutMS
	}
	if c.Remote.PersistTimeoutMS == 0 {
		c.Remote.PersistTimeoutMS = defaultPersistTimeoutMS
	}
}

func (c *Config) normalizeBoard() {
	c.Board.DefaultSort = strings.ToLower(strings.TrimSpace(c.Board.DefaultSort))
	if c.Board.DefaultSort == "" {
		c.Board.DefaultSort = defaultSort
	}
	c.Board.DefaultDirection = strings.ToLower(strings.TrimSpace(c.Board.DefaultDirection))
	if c.Board.DefaultDirection == "" {
		c.Board.DefaultDirection = defaultDirection
	}
}

func (c *Config) normalizeStages() {
	for i := range c.Stages {
		c.Stages[i].ID = strings.ToLower(strings.TrimSpace(c.Stages[i].ID))
		c.Stages[i].Label = strings.TrimSpace(c.Stages[i].Label)
		c.Stages[i].Color = strings.TrimSpace(c.Stages[i].Color)
		c.Stages[i].Icon = strings.TrimSpace(c.Stages[i].Icon)
	}
}

func (c *Config) normalizeServer() error {
	c.Server.Bind = strings.TrimSpace(c.Server.Bind)
	if c.Server.Bind == "" {
		c.Server.Bind = defaultServerBind
	}
	c.Server.APIToken = strings.TrimSpace(c.Server.APIToken)
	if c.Server.APIToken == "" {
		c.Server.APIToken = c.Remote.APIToken
	}
	if strings.TrimSpace(c.Server.DBPath) == "" {
		c.Server.DBPath = defaultServerDBPath
	}
	var err error
	if c.Server.DBPath, err = expandPath(c.Server.DBPath); err != nil {
		return fmt.Errorf("server.db_path: %w", err)
	}
	origins := make([]string, 0, len(c.Server.AllowedOrigins))
	for _, origin := range c.Server.AllowedOrigins {
		if trimmed := strings.TrimSpace(origin); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	c.Server.AllowedOrigins = origins
	return nil
}

func (c *Config) normalizeLogging() error {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	if strings.TrimSpace(c.Logging.Dir) == "" {
		c.Logging.Dir = defaultLogDir
	}
	var err error
	if c.Logging.Dir, err = expandPath(c.Logging.Dir); err != nil {
		return fmt.Errorf("logging.dir: %w", err)
	}
	return nil
}

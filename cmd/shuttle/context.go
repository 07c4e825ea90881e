package main

import (
	"fmt"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"shuttle/internal/config"
	"shuttle/internal/opensubtitles"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{
		configFlag: configFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

// subtitleClient builds an OpenSubtitles client from the loaded config.
// Returns an error when the integration is disabled or misconfigured.
func (c *commandContext) subtitleClient() (*opensubtitles.Client, *config.Config, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, nil, err
	}
	if !cfg.OpenSubtitles.Enabled {
		return nil, nil, fmt.Errorf("opensubtitles is disabled; set enabled = true in the [opensubtitles] config section")
	}
	client, err := opensubtitles.New(opensubtitles.Config{
		APIKey:    cfg.OpenSubtitles.APIKey,
		UserAgent: cfg.OpenSubtitles.UserAgent,
		UserToken: cfg.OpenSubtitles.UserToken,
		BaseURL:   cfg.OpenSubtitles.BaseURL,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("init opensubtitles client: %w", err)
	}
	return client, cfg, nil
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}

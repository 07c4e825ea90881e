package config

import (
	"errors"
	"fmt"
	"strings"

	"shuttle/internal/language"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateTranslation(); err != nil {
		return err
	}
	if err := c.validateLLM(); err != nil {
		return err
	}
	if err := c.validateOpenSubtitles(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateTranslation() error {
	if err := ensurePositiveMap(map[string]int{
		"translation.max_chunk_size":   c.Translation.MaxChunkSize,
		"translation.natural_break_ms": c.Translation.NaturalBreakMS,
		"translation.max_attempts":     c.Translation.MaxAttempts,
		"translation.retry_delay_ms":   c.Translation.RetryDelayMS,
	}); err != nil {
		return err
	}
	if c.Translation.ContextSize < 0 {
		return errors.New("translation.context_size must be >= 0")
	}
	if c.Translation.ContextSize >= c.Translation.MaxChunkSize {
		return errors.New("translation.context_size must be smaller than translation.max_chunk_size")
	}
	if src := c.Translation.SourceLanguage; src != "" && src != "auto" {
		if _, ok := language.Lookup(src); !ok {
			return fmt.Errorf("translation.source_language: unknown language %q", src)
		}
	}
	if target := c.Translation.TargetLanguage; target != "" {
		if _, ok := language.Lookup(target); !ok {
			return fmt.Errorf("translation.target_language: unknown language %q", target)
		}
	}
	return nil
}

func (c *Config) validateLLM() error {
	if strings.TrimSpace(c.LLM.BaseURL) == "" {
		return errors.New("llm.base_url must be set")
	}
	if strings.TrimSpace(c.LLM.Model) == "" {
		return errors.New("llm.model must be set")
	}
	if c.LLM.TimeoutSeconds <= 0 {
		return errors.New("llm.timeout_seconds must be positive")
	}
	return nil
}

func (c *Config) validateOpenSubtitles() error {
	if !c.OpenSubtitles.Enabled {
		return nil
	}
	if strings.TrimSpace(c.OpenSubtitles.APIKey) == "" {
		return errors.New("opensubtitles.api_key must be set when opensubtitles.enabled is true (or set SHUTTLE_OPENSUBTITLES_API_KEY)")
	}
	if strings.TrimSpace(c.OpenSubtitles.UserAgent) == "" {
		return errors.New("opensubtitles.user_agent must be set when opensubtitles.enabled is true")
	}
	if len(c.OpenSubtitles.Languages) == 0 {
		return errors.New("opensubtitles.languages must include at least one language when opensubtitles.enabled is true")
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
	case "debug", "info", "warn", "warning", "error":
		return nil
	default:
		return fmt.Errorf("logging.level must be debug, info, warn, or error, got %q", c.Logging.Level)
	}
}

func ensurePositiveMap(values map[string]int) error {
	for key, value := range values {
		if value <= 0 {
			return fmt.Errorf("%s must be positive", key)
		}
	}
	return nil
}

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"shuttle/internal/language"
)

func (c *Config) normalize() error {
	c.normalizeTranslation()
	c.normalizeLLM()
	c.normalizeOpenSubtitles()
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizeTranslation() {
	c.Translation.SourceLanguage = strings.TrimSpace(c.Translation.SourceLanguage)
	c.Translation.TargetLanguage = strings.TrimSpace(c.Translation.TargetLanguage)
	if c.Translation.MaxChunkSize <= 0 {
		c.Translation.MaxChunkSize = defaultMaxChunkSize
	}
	if c.Translation.ContextSize < 0 {
		c.Translation.ContextSize = defaultContextSize
	}
	if c.Translation.NaturalBreakMS <= 0 {
		c.Translation.NaturalBreakMS = defaultNaturalBreakMS
	}
	if c.Translation.MaxAttempts <= 0 {
		c.Translation.MaxAttempts = defaultMaxAttempts
	}
	if c.Translation.RetryDelayMS <= 0 {
		c.Translation.RetryDelayMS = defaultRetryDelayMS
	}
}

func (c *Config) normalizeLLM() {
	c.LLM.APIKey = strings.TrimSpace(c.LLM.APIKey)
	if c.LLM.APIKey == "" {
		if value, ok := os.LookupEnv("SHUTTLE_LLM_API_KEY"); ok {
			c.LLM.APIKey = strings.TrimSpace(value)
		} else if value, ok := os.LookupEnv("OPENROUTER_API_KEY"); ok {
			c.LLM.APIKey = strings.TrimSpace(value)
		}
	}
	c.LLM.BaseURL = strings.TrimSpace(c.LLM.BaseURL)
	if c.LLM.BaseURL == "" {
		c.LLM.BaseURL = defaultLLMBaseURL
	}
	c.LLM.Model = strings.TrimSpace(c.LLM.Model)
	if c.LLM.Model == "" {
		c.LLM.Model = defaultLLMModel
	}
	c.LLM.Referer = strings.TrimSpace(c.LLM.Referer)
	c.LLM.Title = strings.TrimSpace(c.LLM.Title)
	if c.LLM.TimeoutSeconds <= 0 {
		c.LLM.TimeoutSeconds = defaultLLMTimeoutSeconds
	}
}

func (c *Config) normalizeOpenSubtitles() {
	c.OpenSubtitles.APIKey = strings.TrimSpace(c.OpenSubtitles.APIKey)
	if c.OpenSubtitles.APIKey == "" {
		if value, ok := os.LookupEnv("SHUTTLE_OPENSUBTITLES_API_KEY"); ok {
			c.OpenSubtitles.APIKey = strings.TrimSpace(value)
		}
	}
	c.OpenSubtitles.UserAgent = strings.TrimSpace(c.OpenSubtitles.UserAgent)
	if c.OpenSubtitles.UserAgent == "" {
		c.OpenSubtitles.UserAgent = defaultOpenSubtitlesUserAgent
	}
	c.OpenSubtitles.UserToken = strings.TrimSpace(c.OpenSubtitles.UserToken)
	if c.OpenSubtitles.UserToken == "" {
		if value, ok := os.LookupEnv("SHUTTLE_OPENSUBTITLES_USER_TOKEN"); ok {
			c.OpenSubtitles.UserToken = strings.TrimSpace(value)
		}
	}
	c.OpenSubtitles.BaseURL = strings.TrimSpace(c.OpenSubtitles.BaseURL)
	normalized := language.NormalizeList(c.OpenSubtitles.Languages)
	if len(normalized) == 0 {
		normalized = []string{"en"}
	}
	c.OpenSubtitles.Languages = normalized
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.WorkDir) == "" {
		c.Paths.WorkDir = defaultWorkDir
	}
	if c.Paths.WorkDir, err = expandPath(c.Paths.WorkDir); err != nil {
		return fmt.Errorf("paths.work_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.JournalPath) == "" {
		c.Paths.JournalPath = filepath.Join(c.Paths.WorkDir, "journal.db")
	}
	if c.Paths.JournalPath, err = expandPath(c.Paths.JournalPath); err != nil {
		return fmt.Errorf("paths.journal_path: %w", err)
	}
	return nil
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}

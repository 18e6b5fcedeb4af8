package mpmedia

import (
	"fmt"
	"time"
)

const (
	defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"
	defaultReferer   = "https://mp.weixin.qq.com/"
	defaultTimeout   = 30 * time.Second
	defaultDelay     = 500 * time.Millisecond
)

// ArticlePrefix is the URL prefix every article reference must start with.
const ArticlePrefix = "https://mp.weixin.qq.com/"

// Naming decides how downloaded files are named.
type Naming string

const (
	// NamingIndexed names files as <prefix>_<index><ext>.
	NamingIndexed Naming = "indexed"
	// NamingOriginal reuses the basename from the URL path when it has
	// an extension, and falls back to NamingIndexed otherwise.
	NamingOriginal Naming = "original"
)

// Config is the shared configuration of Extractor and Downloader.
// It is copied on construction, so changing it afterwards has no effect.
type Config struct {
	UserAgent string
	Referer   string
	EnableLog bool

	RequestTimeout      time.Duration
	Delay               time.Duration // sleep between two downloads
	MaxRetries          int
	SkipTLSVerification bool

	SkipCovers  bool // don't look for data-cover images
	StyleImages bool // also collect url() from inline styles
	Naming      Naming
}

// DefaultConfig is the configuration used by the CLI.
var DefaultConfig = Config{
	UserAgent:      defaultUserAgent,
	Referer:        defaultReferer,
	EnableLog:      true,
	RequestTimeout: defaultTimeout,
	Delay:          defaultDelay,
	Naming:         NamingIndexed,
}

// Validate fills the empty fields with their defaults and makes sure
// the remaining values are usable. Delay is left untouched, so zero
// means no pause between downloads.
func (cfg *Config) Validate() error {
	if cfg.UserAgent == "" {
		cfg.UserAgent = defaultUserAgent
	}

	if cfg.Referer == "" {
		cfg.Referer = defaultReferer
	}

	if cfg.RequestTimeout == 0 {
		cfg.RequestTimeout = defaultTimeout
	}

	if cfg.Naming == "" {
		cfg.Naming = NamingIndexed
	}

	switch {
	case cfg.RequestTimeout < 0:
		return fmt.Errorf("request timeout must not be negative: %s", cfg.RequestTimeout)
	case cfg.Delay < 0:
		return fmt.Errorf("delay must not be negative: %s", cfg.Delay)
	case cfg.MaxRetries < 0:
		return fmt.Errorf("max retries must not be negative: %d", cfg.MaxRetries)
	case cfg.Naming != NamingIndexed && cfg.Naming != NamingOriginal:
		return fmt.Errorf("unknown naming strategy %q", cfg.Naming)
	}

	return nil
}

package convert

import (
	"fmt"
	"strings"
)

// Mode selects what a conversion produces.
type Mode string

const (
	// ModePlain strips links to URLs and removes all Markdown syntax.
	ModePlain Mode = "plain"
	// ModeURLs only rewrites link and image constructs to their URLs.
	ModeURLs Mode = "urls"
	// ModeExtract removes link constructs and reports them separately.
	ModeExtract Mode = "extract"
)

// ValidModes returns all valid mode strings.
func ValidModes() []string {
	return []string{string(ModePlain), string(ModeURLs), string(ModeExtract)}
}

// ParseMode converts a user supplied string into a Mode.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(strings.ToLower(strings.TrimSpace(s))); m {
	case ModePlain, ModeURLs, ModeExtract:
		return m, nil
	default:
		return "", fmt.Errorf("invalid mode %q; valid modes: %s", s, strings.Join(ValidModes(), ", "))
	}
}

// Default values for conversion options.
const (
	// DefaultConcurrency is the number of files converted in parallel.
	DefaultConcurrency = 8

	// DefaultMode is used when no mode is configured.
	DefaultMode = ModePlain
)

// Options configures a Converter.
type Options struct {
	Mode Mode

	// Concurrency is the number of workers reading and converting files.
	Concurrency int
}

// DefaultOptions returns the default configuration.
func DefaultOptions() Options {
	return Options{
		Mode:        DefaultMode,
		Concurrency: DefaultConcurrency,
	}
}

// WithMode sets the conversion mode. Empty modes are ignored.
func (o Options) WithMode(m Mode) Options {
	if m != "" {
		o.Mode = m
	}
	return o
}

// WithConcurrency sets the number of workers.
func (o Options) WithConcurrency(n int) Options {
	if n > 0 {
		o.Concurrency = n
	}
	return o
}

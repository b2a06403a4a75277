// Package filter drops extracted links that match ignore rules.
package filter

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/gobwas/glob"

	"github.com/leonardomso/mdstrip/internal/alttext"
)

// Rule types reported in IgnoreReason.Type.
const (
	RuleDomain  = "domain"
	RulePattern = "pattern"
	RuleRegex   = "regex"
)

// IgnoreReason describes why a link was dropped.
type IgnoreReason struct {
	Type string // RuleDomain, RulePattern or RuleRegex
	Rule string // The rule that matched
	URL  string
	Alt  string
	File string
}

// Config holds filter configuration.
type Config struct {
	Domains       []string // Domains to ignore (includes subdomains)
	GlobPatterns  []string // Glob patterns (e.g., "*.local/*")
	RegexPatterns []string // Regex patterns (e.g., ".*\\.internal\\..*")
}

// Filter decides which extracted links are kept.
// A nil *Filter keeps everything.
type Filter struct {
	domains map[string]bool
	globs   []namedGlob
	regexes []namedRegex
	ignored []IgnoreReason
}

type namedGlob struct {
	pattern glob.Glob
	source  string
}

type namedRegex struct {
	pattern *regexp.Regexp
	source  string
}

// New compiles cfg into a Filter.
// Returns an error if any pattern fails to compile.
func New(cfg Config) (*Filter, error) {
	f := &Filter{domains: map[string]bool{}}

	for _, d := range cfg.Domains {
		if d = strings.ToLower(strings.TrimSpace(d)); d != "" {
			f.domains[d] = true
		}
	}

	for _, p := range cfg.GlobPatterns {
		if p = strings.TrimSpace(p); p == "" {
			continue
		}
		g, err := glob.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("invalid glob pattern %q: %w", p, err)
		}
		f.globs = append(f.globs, namedGlob{pattern: g, source: p})
	}

	for _, p := range cfg.RegexPatterns {
		if p = strings.TrimSpace(p); p == "" {
			continue
		}
		r, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("invalid regex pattern %q: %w", p, err)
		}
		f.regexes = append(f.regexes, namedRegex{pattern: r, source: p})
	}

	return f, nil
}

// ShouldIgnore checks a link against the rules and records the first match.
// Check order (cheapest first): domain, glob, regex.
func (f *Filter) ShouldIgnore(link alttext.Link, file string) bool {
	if f == nil {
		return false
	}

	ruleType, rule, ok := f.match(link.URL)
	if !ok {
		return false
	}

	f.ignored = append(f.ignored, IgnoreReason{
		Type: ruleType,
		Rule: rule,
		URL:  link.URL,
		Alt:  link.Alt,
		File: file,
	})
	return true
}

// Keep returns the links of file that pass the filter, in order.
func (f *Filter) Keep(links []alttext.Link, file string) []alttext.Link {
	if f == nil || len(links) == 0 {
		return links
	}

	kept := make([]alttext.Link, 0, len(links))
	for _, l := range links {
		if !f.ShouldIgnore(l, file) {
			kept = append(kept, l)
		}
	}
	return kept
}

func (f *Filter) match(rawURL string) (ruleType, rule string, ok bool) {
	if d, ok := f.matchDomain(rawURL); ok {
		return RuleDomain, d, true
	}
	for _, g := range f.globs {
		if g.pattern.Match(rawURL) {
			return RulePattern, g.source, true
		}
	}
	for _, r := range f.regexes {
		if r.pattern.MatchString(rawURL) {
			return RuleRegex, r.source, true
		}
	}
	return "", "", false
}

// matchDomain matches the URL host against ignored domains and their subdomains.
// Relative URLs have no host and never match.
func (f *Filter) matchDomain(rawURL string) (string, bool) {
	if len(f.domains) == 0 {
		return "", false
	}

	parsed, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return "", false
	}
	host := strings.ToLower(parsed.Hostname())
	if host == "" {
		return "", false
	}

	if f.domains[host] {
		return host, true
	}
	for domain := range f.domains {
		if strings.HasSuffix(host, "."+domain) {
			return domain, true
		}
	}
	return "", false
}

// IgnoredCount returns the number of links that were dropped.
func (f *Filter) IgnoredCount() int {
	if f == nil {
		return 0
	}
	return len(f.ignored)
}

// Ignored returns every dropped link with its reason.
func (f *Filter) Ignored() []IgnoreReason {
	if f == nil {
		return nil
	}
	return f.ignored
}

// HasRules returns true if the filter has any rules defined.
func (f *Filter) HasRules() bool {
	if f == nil {
		return false
	}
	return len(f.domains) > 0 || len(f.globs) > 0 || len(f.regexes) > 0
}

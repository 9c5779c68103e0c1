// Package catalog holds the static pattern data used by the analyzers:
// tracker signatures, canned vulnerability tables, consent vendors and
// meaningless alternative-text patterns. The data is embedded as YAML and
// compiled once per process; the compiled Catalog is read-only.
package catalog

import (
	"embed"
	"fmt"
	"regexp"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed data/*.yaml
var dataFS embed.FS

// Tracker is one named third-party tool and the signatures that reveal it
type Tracker struct {
	Name     string
	Category string // analytics, advertising, social, other
	Patterns []*regexp.Regexp
}

// KnownVulnerability is a canned vulnerability record
type KnownVulnerability struct {
	Severity    string `yaml:"severity"`
	Description string `yaml:"description"`
}

// Security holds the platform vulnerability tables
type Security struct {
	Platform     string
	CurrentFloor string
	Versions     map[string][]KnownVulnerability
	Plugins      map[string]KnownVulnerability
}

// Privacy holds the keyword lists used for consent and policy detection
type Privacy struct {
	CookieKeywords []string
	AcceptWords    []string
	PrivacyWords   []string
	ConsentVendors []string
}

// Catalog is the compiled, read-only pattern data
type Catalog struct {
	Trackers       []Tracker
	Security       Security
	Privacy        Privacy
	MeaninglessAlt []*regexp.Regexp
}

// Raw YAML shapes

type yamlTrackers struct {
	Trackers []struct {
		Name     string   `yaml:"name"`
		Category string   `yaml:"category"`
		Patterns []string `yaml:"patterns"`
	} `yaml:"trackers"`
}

type yamlSecurity struct {
	Platform     string                          `yaml:"platform"`
	CurrentFloor string                          `yaml:"current_floor"`
	Versions     map[string][]KnownVulnerability `yaml:"versions"`
	Plugins      map[string]KnownVulnerability   `yaml:"plugins"`
}

type yamlPrivacy struct {
	CookieKeywords []string `yaml:"cookie_keywords"`
	AcceptWords    []string `yaml:"accept_words"`
	PrivacyWords   []string `yaml:"privacy_words"`
	ConsentVendors []string `yaml:"consent_vendors"`
}

type yamlAccessibility struct {
	MeaninglessAlt []string `yaml:"meaningless_alt"`
}

var validCategories = map[string]bool{
	"analytics":   true,
	"advertising": true,
	"social":      true,
	"other":       true,
}

var validSeverities = map[string]bool{
	"low":      true,
	"medium":   true,
	"high":     true,
	"critical": true,
}

var (
	defaultOnce    sync.Once
	defaultCatalog *Catalog
)

// Default returns the embedded catalog, compiling it on first use.
// It panics if the embedded data is invalid, like regexp.MustCompile.
func Default() *Catalog {
	defaultOnce.Do(func() {
		c, err := Load(dataFS)
		if err != nil {
			panic(fmt.Sprintf("catalog: invalid embedded data: %v", err))
		}
		defaultCatalog = c
	})
	return defaultCatalog
}

// fileReader is satisfied by embed.FS and fstest.MapFS
type fileReader interface {
	ReadFile(name string) ([]byte, error)
}

// Load parses and compiles the four catalog files from fsys
func Load(fsys fileReader) (*Catalog, error) {
	c := &Catalog{}

	var trackers yamlTrackers
	if err := decode(fsys, "data/trackers.yaml", &trackers); err != nil {
		return nil, err
	}
	for _, t := range trackers.Trackers {
		if t.Name == "" {
			return nil, fmt.Errorf("tracker without name")
		}
		if !validCategories[t.Category] {
			return nil, fmt.Errorf("tracker %q: unknown category %q", t.Name, t.Category)
		}
		patterns, err := compileAll(t.Patterns)
		if err != nil {
			return nil, fmt.Errorf("tracker %q: %w", t.Name, err)
		}
		c.Trackers = append(c.Trackers, Tracker{
			Name:     t.Name,
			Category: t.Category,
			Patterns: patterns,
		})
	}

	var sec yamlSecurity
	if err := decode(fsys, "data/security.yaml", &sec); err != nil {
		return nil, err
	}
	for version, vulns := range sec.Versions {
		for _, v := range vulns {
			if !validSeverities[v.Severity] {
				return nil, fmt.Errorf("version %s: unknown severity %q", version, v.Severity)
			}
		}
	}
	for slug, v := range sec.Plugins {
		if !validSeverities[v.Severity] {
			return nil, fmt.Errorf("plugin %s: unknown severity %q", slug, v.Severity)
		}
	}
	c.Security = Security{
		Platform:     sec.Platform,
		CurrentFloor: sec.CurrentFloor,
		Versions:     sec.Versions,
		Plugins:      sec.Plugins,
	}

	var priv yamlPrivacy
	if err := decode(fsys, "data/privacy.yaml", &priv); err != nil {
		return nil, err
	}
	c.Privacy = Privacy{
		CookieKeywords: lowerAll(priv.CookieKeywords),
		AcceptWords:    lowerAll(priv.AcceptWords),
		PrivacyWords:   lowerAll(priv.PrivacyWords),
		ConsentVendors: lowerAll(priv.ConsentVendors),
	}

	var acc yamlAccessibility
	if err := decode(fsys, "data/accessibility.yaml", &acc); err != nil {
		return nil, err
	}
	alt := make([]string, 0, len(acc.MeaninglessAlt))
	for _, p := range acc.MeaninglessAlt {
		alt = append(alt, "(?i)"+p)
	}
	patterns, err := compileAll(alt)
	if err != nil {
		return nil, fmt.Errorf("meaningless_alt: %w", err)
	}
	c.MeaninglessAlt = patterns

	return c, nil
}

func decode(fsys fileReader, name string, out interface{}) error {
	data, err := fsys.ReadFile(name)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", name, err)
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to parse %s: %w", name, err)
	}
	return nil
}

func compileAll(patterns []string) ([]*regexp.Regexp, error) {
	compiled := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %q: %w", p, err)
		}
		compiled = append(compiled, re)
	}
	return compiled, nil
}

func lowerAll(values []string) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = strings.ToLower(v)
	}
	return out
}

package checker

import (
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/olegrjumin/siteaudit/internal/catalog"
)

// platformSignal is one fingerprint of the platform. Obvious signals are the
// ones a site owner can easily remove; subtle ones usually survive hardening.
type platformSignal struct {
	Name    string
	Obvious bool
	Match   func(d *Document) bool
}

// PlatformDetection is the outcome of evaluating every platform signal
type PlatformDetection struct {
	Detected bool
	Hardened bool
	Method   string
	Fired    []string
}

var (
	generatorVersionRegex = regexp.MustCompile(`(?i)WordPress\s+(\d+(?:\.\d+){1,2})`)
	assetVersionRegex     = regexp.MustCompile(`^\d+(?:\.\d+){1,2}$`)
	pluginPathRegex       = regexp.MustCompile(`(?i)/plugins/([a-z0-9][a-z0-9._-]*)`)
	themePathRegex        = regexp.MustCompile(`(?i)/themes/([a-z0-9][a-z0-9._-]*)`)
	platformMentionRegex  = regexp.MustCompile(`(?i)wordpress`)
)

var bodyClassPrefixes = []string{"wp-", "page-template", "postid-", "page-id-"}

// platformSignals are evaluated in this order; the order fixes the
// detection-method label.
var platformSignals = []platformSignal{
	{
		Name:    "wp-content paths",
		Obvious: true,
		Match: func(d *Document) bool {
			return d.Find(`[src*="wp-content/"], [href*="wp-content/"]`).Length() > 0
		},
	},
	{
		Name:    "wp-includes paths",
		Obvious: true,
		Match: func(d *Document) bool {
			return d.Find(`[src*="wp-includes/"], [href*="wp-includes/"]`).Length() > 0
		},
	},
	{
		Name:    "meta generator",
		Obvious: true,
		Match: func(d *Document) bool {
			for _, content := range generatorContents(d) {
				if platformMentionRegex.MatchString(content) {
					return true
				}
			}
			return false
		},
	},
	{
		Name:    "admin bar",
		Obvious: true,
		Match: func(d *Document) bool {
			return d.Find("#wpadminbar").Length() > 0
		},
	},
	{
		Name:    "login form",
		Obvious: true,
		Match: func(d *Document) bool {
			return d.Find(`form[action*="wp-login.php"]`).Length() > 0
		},
	},
	{
		Name:    "pingback link",
		Obvious: false,
		Match: func(d *Document) bool {
			return d.Find(`link[rel="pingback"], link[href*="xmlrpc.php"]`).Length() > 0
		},
	},
	{
		Name:    "REST API link",
		Obvious: false,
		Match: func(d *Document) bool {
			return d.Find(`link[rel="https://api.w.org/"], link[href*="/wp-json/"]`).Length() > 0
		},
	},
	{
		Name:    "shortlink",
		Obvious: false,
		Match: func(d *Document) bool {
			return d.Find(`link[rel="shortlink"]`).Length() > 0
		},
	},
	{
		Name:    "body classes",
		Obvious: false,
		Match: func(d *Document) bool {
			for _, class := range strings.Fields(attrValue(d.Find("body").First(), "class")) {
				for _, prefix := range bodyClassPrefixes {
					if strings.HasPrefix(class, prefix) {
						return true
					}
				}
			}
			return false
		},
	},
	{
		Name:    "source mentions",
		Obvious: false,
		Match: func(d *Document) bool {
			for _, c := range d.Comments() {
				if platformMentionRegex.MatchString(c) {
					return true
				}
			}
			found := false
			d.Find("script:not([src])").EachWithBreak(func(_ int, s *goquery.Selection) bool {
				found = platformMentionRegex.MatchString(s.Text())
				return !found
			})
			return found
		},
	},
}

// DetectPlatform evaluates every signal and applies the decision rule:
// detected when any signal fires, hardened when only subtle ones fire.
func DetectPlatform(d *Document) PlatformDetection {
	var fired []string
	obvious, subtle := 0, 0

	for _, sig := range platformSignals {
		if !sig.Match(d) {
			continue
		}
		fired = append(fired, sig.Name)
		if sig.Obvious {
			obvious++
		} else {
			subtle++
		}
	}

	result := PlatformDetection{
		Detected: obvious+subtle > 0,
		Hardened: obvious == 0 && subtle > 0,
		Fired:    fired,
	}

	switch {
	case !result.Detected:
		result.Method = "Not detected"
	case result.Hardened:
		result.Method = "Hardened: " + strings.Join(fired, ", ")
	default:
		result.Method = "Standard: " + strings.Join(fired, ", ")
	}

	return result
}

// ExtractPlatformVersion returns the generator version, falling back to the
// ver= query parameter of core asset URLs. Returns "" when neither is present.
func ExtractPlatformVersion(d *Document) string {
	for _, content := range generatorContents(d) {
		if m := generatorVersionRegex.FindStringSubmatch(content); len(m) > 1 {
			return m[1]
		}
	}

	for _, asset := range d.assetURLs() {
		if !strings.Contains(asset, "wp-includes/") && !strings.Contains(asset, "wp-admin/") {
			continue
		}
		u, err := url.Parse(asset)
		if err != nil {
			continue
		}
		if v := u.Query().Get("ver"); assetVersionRegex.MatchString(v) {
			return v
		}
	}

	return ""
}

// generatorContents returns the content of every <meta name="generator"> tag
func generatorContents(d *Document) []string {
	var contents []string
	d.Find("meta[name]").Each(func(_ int, s *goquery.Selection) {
		if strings.EqualFold(attrValue(s, "name"), "generator") {
			contents = append(contents, attrValue(s, "content"))
		}
	})
	return contents
}

// ExtractComponents returns the unique plugin and theme slugs found in asset
// paths, in first-seen order
func ExtractComponents(d *Document) (plugins []Component, themes []Component) {
	plugins = []Component{}
	themes = []Component{}
	seenPlugins := make(map[string]bool)
	seenThemes := make(map[string]bool)

	for _, asset := range d.assetURLs() {
		if m := pluginPathRegex.FindStringSubmatch(asset); len(m) > 1 {
			slug := strings.ToLower(m[1])
			if !seenPlugins[slug] {
				seenPlugins[slug] = true
				plugins = append(plugins, Component{Name: displayName(slug), Slug: slug})
			}
		}
		if m := themePathRegex.FindStringSubmatch(asset); len(m) > 1 {
			slug := strings.ToLower(m[1])
			if !seenThemes[slug] {
				seenThemes[slug] = true
				themes = append(themes, Component{Name: displayName(slug), Slug: slug})
			}
		}
	}

	return plugins, themes
}

// displayName turns "contact-form-7" into "Contact Form 7"
func displayName(slug string) string {
	parts := strings.Split(slug, "-")
	words := make([]string, 0, len(parts))
	for _, p := range parts {
		if p == "" {
			continue
		}
		words = append(words, strings.ToUpper(p[:1])+p[1:])
	}
	return strings.Join(words, " ")
}

// FindVulnerabilities matches the detected version and plugins against the
// canned tables: exact versions, the current-release floor, deny-listed plugins
func FindVulnerabilities(version string, plugins []Component, sec catalog.Security) []Vulnerability {
	vulns := []Vulnerability{}
	core := sec.Platform + " core"

	if version != "" {
		for _, known := range sec.Versions[version] {
			vulns = append(vulns, Vulnerability{
				Component:   core,
				Version:     version,
				Severity:    Severity(known.Severity),
				Description: known.Description,
			})
		}

		if sec.CurrentFloor != "" && compareVersions(version, sec.CurrentFloor) < 0 {
			vulns = append(vulns, Vulnerability{
				Component:   core,
				Version:     version,
				Severity:    SeverityHigh,
				Description: fmt.Sprintf("%s %s is older than the supported release line (%s and later)", sec.Platform, version, sec.CurrentFloor),
			})
		}
	}

	for _, p := range plugins {
		if known, ok := sec.Plugins[p.Slug]; ok {
			vulns = append(vulns, Vulnerability{
				Component:   p.Name,
				Version:     p.Version,
				Severity:    Severity(known.Severity),
				Description: known.Description,
			})
		}
	}

	return vulns
}

// compareVersions compares dotted numeric versions; missing parts count as zero
func compareVersions(a, b string) int {
	pa := strings.Split(a, ".")
	pb := strings.Split(b, ".")
	n := len(pa)
	if len(pb) > n {
		n = len(pb)
	}
	for i := 0; i < n; i++ {
		var x, y int
		if i < len(pa) {
			x, _ = strconv.Atoi(pa[i])
		}
		if i < len(pb) {
			y, _ = strconv.Atoi(pb[i])
		}
		if x != y {
			if x < y {
				return -1
			}
			return 1
		}
	}
	return 0
}

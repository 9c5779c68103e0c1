package checker

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/olegrjumin/siteaudit/internal/catalog"
)

// GDPR score constants
const (
	missingBannerPenalty      = 30
	missingPolicyPenalty      = 20
	trackerWithoutConsentCost = 10
	maxTrackerWithoutConsent  = 30
)

// footerSelector matches the regions where a privacy link is expected
const footerSelector = `footer, [role="contentinfo"], #footer, .footer, .site-footer`

// Regex rule set used when only raw HTML is available
var (
	htmlCookieRegex         = regexp.MustCompile(`(?i)cookie`)
	htmlConsentContextRegex = regexp.MustCompile(`(?i)\b(consent|accept|agree|policy)\b`)
	htmlConsentIDRegex      = regexp.MustCompile(`(?i)(id|class)\s*=\s*["'][^"']*(cookie|consent|gdpr)[^"']*["']`)
	htmlPrivacyLinkRegex    = regexp.MustCompile(`(?i)<a\b[^>]*href\s*=\s*["'][^"']*(privacy|datenschutz|gdpr)`)
)

// AnalyzeGDPR runs consent banner, privacy policy and tracker detection
// Without a parsed document the banner falls back to the raw HTML rule set.
func AnalyzeGDPR(doc *Document, in Input) GDPRResult {
	cat := catalog.Default()

	result := GDPRResult{}
	if doc != nil {
		result.HasCookieBanner = DetectConsentBanner(doc, cat.Privacy)
		result.HasPrivacyPolicy, result.PrivacyPolicyInFooter = DetectPrivacyPolicy(doc, cat.Privacy)
		result.Trackers = DetectTrackers(doc.Source(), cat.Trackers)
	} else {
		result.HasCookieBanner = DetectConsentBannerHTML(in.HTML)
		result.HasPrivacyPolicy = htmlPrivacyLinkRegex.MatchString(in.HTML)
		result.Trackers = DetectTrackers(in.HTML, cat.Trackers)
	}

	result.Score = CalculateGDPRScore(result.HasCookieBanner, result.HasPrivacyPolicy, DetectedTrackers(result.Trackers))
	return result
}

// DetectConsentBanner reports whether the page shows a cookie consent mechanism
func DetectConsentBanner(doc *Document, priv catalog.Privacy) bool {
	// id or class mentioning a cookie keyword
	found := false
	doc.Find("[id], [class]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		idClass := strings.ToLower(attrValue(s, "id") + " " + attrValue(s, "class"))
		found = containsAny(idClass, priv.CookieKeywords)
		return !found
	})
	if found {
		return true
	}

	// element text with a cookie keyword next to an acceptance or privacy word
	context := append(append([]string{}, priv.AcceptWords...), "consent", "privacy")
	for _, text := range doc.ElementTexts() {
		lower := strings.ToLower(text)
		if containsAny(lower, priv.CookieKeywords) && containsAny(lower, context) {
			return true
		}
	}

	visible := strings.ToLower(doc.VisibleText())
	if strings.Contains(visible, "gdpr") || strings.Contains(visible, "privacy policy") {
		return true
	}

	// consent management platform scripts
	doc.Find("script[src]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		found = containsAny(strings.ToLower(attrValue(s, "src")), priv.ConsentVendors)
		return !found
	})
	return found
}

// DetectConsentBannerHTML is the regex rule set for raw HTML: an id/class
// naming cookies or consent, or "cookie" together with consent/accept/agree/policy
func DetectConsentBannerHTML(source string) bool {
	if htmlConsentIDRegex.MatchString(source) {
		return true
	}
	return htmlCookieRegex.MatchString(source) && htmlConsentContextRegex.MatchString(source)
}

// DetectPrivacyPolicy reports whether any link points at a privacy policy and
// whether such a link sits in the footer
func DetectPrivacyPolicy(doc *Document, priv catalog.Privacy) (found bool, inFooter bool) {
	doc.Find("a").Each(func(_ int, s *goquery.Selection) {
		target := strings.ToLower(attrValue(s, "href") + " " + s.Text())
		if !containsAny(target, priv.PrivacyWords) {
			return
		}
		found = true
		if s.Closest(footerSelector).Length() > 0 {
			inFooter = true
		}
	})
	return found, inFooter
}

// CalculateGDPRScore applies the consent, policy and tracker penalties.
// Trackers are only penalized when no consent banner exists.
func CalculateGDPRScore(hasBanner, hasPolicy bool, detectedTrackers int) int {
	score := 100
	if !hasBanner {
		score -= missingBannerPenalty
	}
	if !hasPolicy {
		score -= missingPolicyPenalty
	}
	if detectedTrackers > 0 && !hasBanner {
		penalty := detectedTrackers * trackerWithoutConsentCost
		if penalty > maxTrackerWithoutConsent {
			penalty = maxTrackerWithoutConsent
		}
		score -= penalty
	}
	return clampScore(score)
}

func containsAny(s string, needles []string) bool {
	for _, n := range needles {
		if n != "" && strings.Contains(s, n) {
			return true
		}
	}
	return false
}

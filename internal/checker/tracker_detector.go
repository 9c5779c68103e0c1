package checker

import "github.com/olegrjumin/siteaudit/internal/catalog"

// DetectTrackers scans the page source against every catalog tracker.
// Every catalog entry is returned, in catalog order, with Detected set.
func DetectTrackers(source string, trackers []catalog.Tracker) []Tracker {
	result := make([]Tracker, 0, len(trackers))

	for _, t := range trackers {
		detected := false
		for _, re := range t.Patterns {
			if re.MatchString(source) {
				detected = true
				break
			}
		}
		result = append(result, Tracker{
			Name:     t.Name,
			Category: t.Category,
			Detected: detected,
		})
	}

	return result
}

// DetectedTrackers counts trackers found on the page
func DetectedTrackers(trackers []Tracker) int {
	n := 0
	for _, t := range trackers {
		if t.Detected {
			n++
		}
	}
	return n
}

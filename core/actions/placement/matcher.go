package placement

import "strings"

// MatchRule narrows which window titles count as an application's main
// window. Splash screens and helper dialogs often carry the product name too,
// so a rule can demand a version marker in the title or a minimum length.
type MatchRule struct {
	// VersionMarkers, when non-empty, requires at least one of these
	// substrings to appear in the title alongside the application name.
	VersionMarkers []string
	// MinTitleLen, when positive, rejects titles shorter than this.
	MinTitleLen int
}

// noiseMarkers appear in transient windows that must never be placed.
var noiseMarkers = []string{"splash", "add-in", "updater", "installer"}

// defaultRules holds per-application overrides for applications whose startup
// sequence shows transient windows before the main one.
func defaultRules() map[string]MatchRule {
	return map[string]MatchRule{
		"autocad":          {VersionMarkers: []string{"202"}, MinTitleLen: 10},
		"civil 3d":         {VersionMarkers: []string{"202"}, MinTitleLen: 10},
		"autocad civil 3d": {VersionMarkers: []string{"202"}, MinTitleLen: 10},
		"solidworks":       {VersionMarkers: []string{"202"}, MinTitleLen: 10},
	}
}

// matchTitle reports whether a window title belongs to the application's main
// window under the given rule. Matching is case-insensitive.
func matchTitle(title, appName string, rule MatchRule) bool {
	lowerTitle := strings.ToLower(strings.TrimSpace(title))
	if lowerTitle == "" {
		return false
	}
	if !strings.Contains(lowerTitle, strings.ToLower(strings.TrimSpace(appName))) {
		return false
	}

	for _, marker := range noiseMarkers {
		if strings.Contains(lowerTitle, marker) {
			return false
		}
	}

	if rule.MinTitleLen > 0 && len(lowerTitle) < rule.MinTitleLen {
		return false
	}

	if len(rule.VersionMarkers) > 0 {
		found := false
		for _, marker := range rule.VersionMarkers {
			if strings.Contains(lowerTitle, strings.ToLower(marker)) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}

	return true
}

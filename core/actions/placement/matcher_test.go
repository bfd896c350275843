package placement

import "testing"

func TestMatchTitleSubstringIsEnoughForGeneralCase(t *testing.T) {
	if !matchTitle("Untitled - Notepad", "notepad", MatchRule{}) {
		t.Fatalf("expected case-insensitive substring match")
	}
}

func TestMatchTitleRejectsUnrelatedTitles(t *testing.T) {
	if matchTitle("Calculator", "notepad", MatchRule{}) {
		t.Fatalf("expected unrelated title to be rejected")
	}
}

func TestMatchTitleRejectsNoiseMarkers(t *testing.T) {
	if matchTitle("AutoCAD 2026 Splash", "autocad", MatchRule{}) {
		t.Fatalf("expected splash window to be rejected")
	}
	if matchTitle("SOLIDWORKS Add-In Manager 2026", "solidworks", MatchRule{}) {
		t.Fatalf("expected add-in window to be rejected")
	}
}

func TestMatchTitleRequiresVersionMarkerWhenRuleDemandsIt(t *testing.T) {
	rule := MatchRule{VersionMarkers: []string{"202"}, MinTitleLen: 10}

	if matchTitle("AutoCAD", "autocad", rule) {
		t.Fatalf("expected short generic title to be rejected")
	}
	if !matchTitle("AutoCAD 2026 - Drawing1.dwg", "autocad", rule) {
		t.Fatalf("expected versioned main window title to match")
	}
}

func TestMatchTitleEnforcesMinimumLength(t *testing.T) {
	rule := MatchRule{MinTitleLen: 15}

	if matchTitle("Word", "word", rule) {
		t.Fatalf("expected too-short title to be rejected")
	}
	if !matchTitle("Report.docx - Word", "word", rule) {
		t.Fatalf("expected long enough title to match")
	}
}

func TestMatchTitleRejectsEmptyTitles(t *testing.T) {
	if matchTitle("   ", "notepad", MatchRule{}) {
		t.Fatalf("expected blank title to be rejected")
	}
}

package launch

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestLookupIsCaseInsensitiveAndTrimmed(t *testing.T) {
	mapping := DefaultMapping()

	target, ok := mapping.Lookup("  NotePad ")
	if !ok {
		t.Fatalf("expected notepad to be mapped")
	}
	if target.Executable != "notepad.exe" {
		t.Fatalf("expected notepad.exe, got %q", target.Executable)
	}
}

func TestDefaultMappingKnowsProtocolTargets(t *testing.T) {
	target, ok := DefaultMapping().Lookup("whatsapp")
	if !ok {
		t.Fatalf("expected whatsapp to be mapped")
	}
	if !target.isProtocol() || target.Protocol != "whatsapp:" {
		t.Fatalf("expected whatsapp protocol target, got %+v", target)
	}
}

func TestLoadMappingMergesOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mapping.yaml")
	content := `
notepad: C:\custom\notepad2.exe
telegram: "tg:"
blender:
  - C:\Programs\Blender\blender.exe
  - --background
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write mapping file: %v", err)
	}

	mapping, err := LoadMapping(path)
	if err != nil {
		t.Fatalf("expected mapping to load, got %v", err)
	}

	if target, _ := mapping.Lookup("notepad"); target.Executable != `C:\custom\notepad2.exe` {
		t.Fatalf("expected notepad override, got %+v", target)
	}
	if target, _ := mapping.Lookup("telegram"); target.Protocol != "tg:" {
		t.Fatalf("expected telegram protocol entry, got %+v", target)
	}
	target, ok := mapping.Lookup("blender")
	if !ok {
		t.Fatalf("expected blender entry")
	}
	if target.Executable != `C:\Programs\Blender\blender.exe` || !reflect.DeepEqual(target.Args, []string{"--background"}) {
		t.Fatalf("expected blender executable with args, got %+v", target)
	}

	// Untouched defaults survive the merge.
	if _, ok := mapping.Lookup("chrome"); !ok {
		t.Fatalf("expected default chrome entry to survive")
	}
}

func TestLoadMappingMissingFileKeepsDefaults(t *testing.T) {
	mapping, err := LoadMapping(filepath.Join(t.TempDir(), "missing.yaml"))
	if err == nil {
		t.Fatalf("expected error for missing mapping file")
	}
	if _, ok := mapping.Lookup("notepad"); !ok {
		t.Fatalf("expected defaults to be returned alongside the error")
	}
}

func TestLoadMappingRejectsEmptyListEntry(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mapping.yaml")
	if err := os.WriteFile(path, []byte("broken: []\n"), 0o644); err != nil {
		t.Fatalf("failed to write mapping file: %v", err)
	}

	if _, err := LoadMapping(path); err == nil {
		t.Fatalf("expected error for empty list entry")
	}
}

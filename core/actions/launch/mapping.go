package launch

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Target is what a known application name resolves to: an executable
// (optionally with a fixed argument list) or a URI protocol handed to the OS
// shell handler.
type Target struct {
	Executable string
	Args       []string
	Protocol   string
}

func (t Target) isProtocol() bool { return t.Protocol != "" }

// Mapping maps lowercase trimmed application names to launch targets.
type Mapping map[string]Target

// Lookup is case-insensitive and trims the name the way users speak it.
func (m Mapping) Lookup(name string) (Target, bool) {
	target, ok := m[normalizeName(name)]
	return target, ok
}

func normalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// DefaultMapping covers the applications the assistant is expected to know
// out of the box; a YAML mapping file can extend or override it.
func DefaultMapping() Mapping {
	return Mapping{
		"autocad":         {Executable: `C:\Program Files\Autodesk\AutoCAD 2026\acad.exe`},
		"civil 3d":        {Executable: `C:\Program Files\Autodesk\AutoCAD 2026\acad.exe`, Args: []string{"/product", "C3D", "/language", "en-US"}},
		"autocad civil 3d": {Executable: `C:\Program Files\Autodesk\AutoCAD 2026\acad.exe`, Args: []string{"/product", "C3D", "/language", "en-US"}},
		"solidworks":      {Executable: `C:\Program Files\SOLIDWORKS Corp\SOLIDWORKS\SLDWORKS.exe`},
		"solidwork":       {Executable: `C:\Program Files\SOLIDWORKS Corp\SOLIDWORKS\SLDWORKS.exe`},
		"whatsapp":        {Protocol: "whatsapp:"},
		"chrome":          {Executable: "chrome.exe"},
		"google chrome":   {Executable: "chrome.exe"},
		"excel":           {Executable: "excel.exe"},
		"word":            {Executable: "winword.exe"},
		"powerpoint":      {Executable: "powerpnt.exe"},
		"notepad":         {Executable: "notepad.exe"},
		"calculator":      {Executable: "calc.exe"},
		"vlc":             {Executable: "vlc.exe"},
		"spotify":         {Executable: "spotify.exe"},
		"browser":         {Executable: "chrome.exe"},
		"code":            {Executable: "code.exe"},
		"visual studio code": {Executable: "code.exe"},
	}
}

// LoadMapping reads a YAML mapping file where each value is either a single
// string (executable path, or protocol when it ends with ':') or a list of
// strings (executable followed by its arguments), and merges it over the
// default mapping.
func LoadMapping(path string) (Mapping, error) {
	mapping := DefaultMapping()

	data, err := os.ReadFile(path)
	if err != nil {
		return mapping, fmt.Errorf("failed to read mapping file: %w", err)
	}

	var raw map[string]mappingEntry
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return mapping, fmt.Errorf("failed to parse mapping file: %w", err)
	}

	for name, entry := range raw {
		mapping[normalizeName(name)] = entry.target
	}

	return mapping, nil
}

type mappingEntry struct {
	target Target
}

func (e *mappingEntry) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		var value string
		if err := node.Decode(&value); err != nil {
			return err
		}
		if strings.HasSuffix(value, ":") {
			e.target = Target{Protocol: value}
		} else {
			e.target = Target{Executable: value}
		}
		return nil

	case yaml.SequenceNode:
		var values []string
		if err := node.Decode(&values); err != nil {
			return err
		}
		if len(values) == 0 {
			return fmt.Errorf("mapping entry must not be an empty list")
		}
		e.target = Target{Executable: values[0], Args: values[1:]}
		return nil
	}

	return fmt.Errorf("mapping entry must be a string or a list of strings")
}

//go:build !windows

package placement

import "fmt"

// UnsupportedDesktop is the non-Windows placeholder; window placement only
// exists on Windows.
type UnsupportedDesktop struct{}

func NewDesktop() *UnsupportedDesktop { return &UnsupportedDesktop{} }

func (d *UnsupportedDesktop) Monitors() ([]Rect, error) {
	return nil, fmt.Errorf("window placement is only supported on windows")
}

func (d *UnsupportedDesktop) Windows() ([]Window, error) {
	return nil, fmt.Errorf("window placement is only supported on windows")
}

func (d *UnsupportedDesktop) Minimized(uintptr) bool { return false }

func (d *UnsupportedDesktop) Restore(uintptr) error {
	return fmt.Errorf("window placement is only supported on windows")
}

func (d *UnsupportedDesktop) MoveResize(uintptr, Rect) error {
	return fmt.Errorf("window placement is only supported on windows")
}

func (d *UnsupportedDesktop) Maximize(uintptr) error {
	return fmt.Errorf("window placement is only supported on windows")
}

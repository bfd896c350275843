//go:build !windows

package launch

import "fmt"

// UnsupportedSystem is the non-Windows placeholder; every call reports that
// native launching is unavailable so the resolver fails cleanly.
type UnsupportedSystem struct{}

func NewSystem() *UnsupportedSystem { return &UnsupportedSystem{} }

func (s *UnsupportedSystem) StartFile(string) error {
	return fmt.Errorf("application launching is only supported on windows")
}

func (s *UnsupportedSystem) StartProcess(string, ...string) error {
	return fmt.Errorf("application launching is only supported on windows")
}

func (s *UnsupportedSystem) OpenURI(string) error {
	return fmt.Errorf("application launching is only supported on windows")
}

func (s *UnsupportedSystem) ShellStart(string) error {
	return fmt.Errorf("application launching is only supported on windows")
}

func (s *UnsupportedSystem) FindInstalledApp(string) (string, error) {
	return "", fmt.Errorf("application launching is only supported on windows")
}

func (s *UnsupportedSystem) LaunchAppID(string) error {
	return fmt.Errorf("application launching is only supported on windows")
}

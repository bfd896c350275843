//go:build windows

package launch

import (
	"encoding/csv"
	"fmt"
	"os/exec"
	"strings"
	"syscall"
)

// WindowsSystem launches through cmd's start builtin, direct process spawns,
// and the Start Menu application index (Get-StartApps).
type WindowsSystem struct{}

func NewSystem() *WindowsSystem { return &WindowsSystem{} }

func (s *WindowsSystem) StartFile(path string) error {
	return s.runHidden("cmd", "/C", "start", "", path)
}

func (s *WindowsSystem) StartProcess(exe string, args ...string) error {
	cmd := exec.Command(exe, args...)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to spawn %s: %w", exe, err)
	}
	// The process is intentionally not waited on; reaping is left to the OS.
	go func() { _ = cmd.Wait() }()
	return nil
}

func (s *WindowsSystem) OpenURI(uri string) error {
	return s.runHidden("cmd", "/C", "start", "", uri)
}

func (s *WindowsSystem) ShellStart(command string) error {
	return s.runHidden("cmd", "/C", "start", "", command)
}

// FindInstalledApp asks the Start Menu index for installed applications and
// picks the first display name containing the requested name.
func (s *WindowsSystem) FindInstalledApp(name string) (string, error) {
	out, err := exec.Command("powershell", "-NoProfile", "-Command",
		"Get-StartApps | ConvertTo-Csv -NoTypeInformation").Output()
	if err != nil {
		return "", fmt.Errorf("failed to query installed applications: %w", err)
	}

	records, err := csv.NewReader(strings.NewReader(string(out))).ReadAll()
	if err != nil {
		return "", fmt.Errorf("failed to parse installed applications: %w", err)
	}

	needle := strings.ToLower(strings.TrimSpace(name))
	for i, record := range records {
		if i == 0 || len(record) < 2 {
			continue // header row
		}
		displayName, appID := record[0], record[1]
		if strings.Contains(strings.ToLower(displayName), needle) {
			return appID, nil
		}
	}

	return "", fmt.Errorf("no installed application matches %q", name)
}

func (s *WindowsSystem) LaunchAppID(appID string) error {
	cmd := exec.Command("explorer.exe", `shell:AppsFolder\`+appID)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to launch app id %s: %w", appID, err)
	}
	go func() { _ = cmd.Wait() }()
	return nil
}

func (s *WindowsSystem) runHidden(name string, args ...string) error {
	cmd := exec.Command(name, args...)
	cmd.SysProcAttr = &syscall.SysProcAttr{HideWindow: true}
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s failed: %w", name, err)
	}
	return nil
}

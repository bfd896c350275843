//go:build windows

package placement

import (
	"fmt"
	"syscall"
	"unsafe"

	"golang.org/x/sys/windows"
)

var (
	user32                  = windows.NewLazySystemDLL("user32.dll")
	procEnumWindows         = user32.NewProc("EnumWindows")
	procGetWindowTextW      = user32.NewProc("GetWindowTextW")
	procIsWindowVisible     = user32.NewProc("IsWindowVisible")
	procIsIconic            = user32.NewProc("IsIconic")
	procShowWindow          = user32.NewProc("ShowWindow")
	procMoveWindow          = user32.NewProc("MoveWindow")
	procEnumDisplayMonitors = user32.NewProc("EnumDisplayMonitors")
	procGetMonitorInfoW     = user32.NewProc("GetMonitorInfoW")
)

const (
	swRestore  = 9
	swMaximize = 3
)

type winRect struct {
	Left, Top, Right, Bottom int32
}

type monitorInfo struct {
	Size    uint32
	Monitor winRect
	Work    winRect
	Flags   uint32
}

// WindowsDesktop talks to user32 directly; the win32 window model has no
// wrapper in the ecosystem worth the dependency.
type WindowsDesktop struct{}

func NewDesktop() *WindowsDesktop { return &WindowsDesktop{} }

func (d *WindowsDesktop) Monitors() ([]Rect, error) {
	var monitors []Rect

	callback := syscall.NewCallback(func(hMonitor, hdc, lprc, lparam uintptr) uintptr {
		var info monitorInfo
		info.Size = uint32(unsafe.Sizeof(info))
		ret, _, _ := procGetMonitorInfoW.Call(hMonitor, uintptr(unsafe.Pointer(&info)))
		if ret != 0 {
			monitors = append(monitors, Rect{
				X:      int(info.Work.Left),
				Y:      int(info.Work.Top),
				Width:  int(info.Work.Right - info.Work.Left),
				Height: int(info.Work.Bottom - info.Work.Top),
			})
		}
		return 1 // continue enumeration
	})

	ret, _, err := procEnumDisplayMonitors.Call(0, 0, callback, 0)
	if ret == 0 {
		return nil, fmt.Errorf("failed to enumerate monitors: %w", err)
	}
	return monitors, nil
}

func (d *WindowsDesktop) Windows() ([]Window, error) {
	var found []Window

	callback := syscall.NewCallback(func(hwnd, lparam uintptr) uintptr {
		visible, _, _ := procIsWindowVisible.Call(hwnd)
		if visible == 0 {
			return 1
		}

		buf := make([]uint16, 512)
		length, _, _ := procGetWindowTextW.Call(hwnd, uintptr(unsafe.Pointer(&buf[0])), uintptr(len(buf)))
		if length == 0 {
			return 1
		}

		found = append(found, Window{
			Handle: hwnd,
			Title:  windows.UTF16ToString(buf[:length]),
		})
		return 1
	})

	ret, _, err := procEnumWindows.Call(callback, 0)
	if ret == 0 {
		return nil, fmt.Errorf("failed to enumerate windows: %w", err)
	}
	return found, nil
}

func (d *WindowsDesktop) Minimized(handle uintptr) bool {
	ret, _, _ := procIsIconic.Call(handle)
	return ret != 0
}

func (d *WindowsDesktop) Restore(handle uintptr) error {
	procShowWindow.Call(handle, swRestore)
	return nil
}

func (d *WindowsDesktop) MoveResize(handle uintptr, bounds Rect) error {
	ret, _, err := procMoveWindow.Call(
		handle,
		uintptr(bounds.X), uintptr(bounds.Y),
		uintptr(bounds.Width), uintptr(bounds.Height),
		1, // repaint
	)
	if ret == 0 {
		return fmt.Errorf("failed to move window: %w", err)
	}
	return nil
}

func (d *WindowsDesktop) Maximize(handle uintptr) error {
	procShowWindow.Call(handle, swMaximize)
	return nil
}

//go:build linux && !pico

package common

import (
	"fmt"
	"os"
	"time"

	"golang.org/x/sys/unix"
)

// LinuxWatchdog drives a kernel watchdog device such as /dev/watchdog
type LinuxWatchdog struct {
	f *os.File
}

// OpenWatchdog opens the device. The kernel starts the watchdog on open.
func OpenWatchdog(device string) (*LinuxWatchdog, error) {
	f, err := os.OpenFile(device, os.O_WRONLY, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to open watchdog %s: %w", device, err)
	}
	return &LinuxWatchdog{f: f}, nil
}

func (obj *LinuxWatchdog) Arm(timeout time.Duration) error {
	secs := int((timeout + time.Second - 1) / time.Second)
	err := unix.IoctlSetPointerInt(int(obj.f.Fd()), unix.WDIOC_SETTIMEOUT, secs)
	if err != nil {
		return fmt.Errorf("failed to set watchdog timeout to %ds: %w", secs, err)
	}
	return nil
}

func (obj *LinuxWatchdog) Feed() error {
	err := unix.IoctlSetInt(int(obj.f.Fd()), unix.WDIOC_KEEPALIVE, 0)
	if err != nil {
		return fmt.Errorf("failed to feed watchdog: %w", err)
	}
	return nil
}

// Close disarms the watchdog with the magic close character and releases the device
func (obj *LinuxWatchdog) Close() error {
	_, err := obj.f.Write([]byte("V"))
	if err != nil {
		obj.f.Close()
		return fmt.Errorf("failed to disarm watchdog: %w", err)
	}
	return obj.f.Close()
}

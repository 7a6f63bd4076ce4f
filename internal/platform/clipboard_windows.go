//go:build windows

package platform

import (
	"fmt"
	"time"
	"unsafe"

	"golang.org/x/sys/windows"
)

const (
	cfHDROP      = 15
	gmemMoveable = 0x0002
	gmemZeroInit = 0x0040
)

var (
	user32   = windows.NewLazySystemDLL("user32.dll")
	kernel32 = windows.NewLazySystemDLL("kernel32.dll")

	procOpenClipboard    = user32.NewProc("OpenClipboard")
	procCloseClipboard   = user32.NewProc("CloseClipboard")
	procEmptyClipboard   = user32.NewProc("EmptyClipboard")
	procSetClipboardData = user32.NewProc("SetClipboardData")

	procGlobalAlloc  = kernel32.NewProc("GlobalAlloc")
	procGlobalLock   = kernel32.NewProc("GlobalLock")
	procGlobalUnlock = kernel32.NewProc("GlobalUnlock")
	procGlobalFree   = kernel32.NewProc("GlobalFree")
)

// setFileDrop hands payload to the clipboard as CF_HDROP. On success the
// clipboard owns the memory.
func setFileDrop(payload []byte) error {
	h, _, err := procGlobalAlloc.Call(gmemMoveable|gmemZeroInit, uintptr(len(payload)))
	if h == 0 {
		return fmt.Errorf("GlobalAlloc: %w", err)
	}
	owned := false
	defer func() {
		if !owned {
			_, _, _ = procGlobalFree.Call(h)
		}
	}()

	ptr, _, err := procGlobalLock.Call(h)
	if ptr == 0 {
		return fmt.Errorf("GlobalLock: %w", err)
	}
	copy(unsafe.Slice((*byte)(unsafe.Pointer(ptr)), len(payload)), payload)
	_, _, _ = procGlobalUnlock.Call(h)

	if err := openClipboard(); err != nil {
		return err
	}
	defer func() { _, _, _ = procCloseClipboard.Call() }()

	if r, _, err := procEmptyClipboard.Call(); r == 0 {
		return fmt.Errorf("EmptyClipboard: %w", err)
	}
	if r, _, err := procSetClipboardData.Call(cfHDROP, h); r == 0 {
		return fmt.Errorf("SetClipboardData: %w", err)
	}
	owned = true
	return nil
}

// openClipboard retries briefly; another application may hold it.
func openClipboard() error {
	var err error
	for range 10 {
		var r uintptr
		if r, _, err = procOpenClipboard.Call(0); r != 0 {
			return nil
		}
		time.Sleep(20 * time.Millisecond)
	}
	return fmt.Errorf("OpenClipboard: %w", err)
}

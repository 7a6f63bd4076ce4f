//go:build windows

package provider

import (
	"fmt"
	"strings"
	"unsafe"

	"github.com/ebitengine/purego"
	"golang.org/x/sys/windows"
)

// dll binds Everything.dll through purego. BOOL values travel as int32.
type dll struct {
	handle windows.Handle

	setSearchW                               func(*uint16)
	setMax                                   func(uint32)
	setRequestFlags                          func(uint32)
	queryW                                   func(int32) int32
	getLastError                             func() uint32
	getNumResults                            func() uint32
	isFolderResult                           func(uint32) int32
	isFileResult                             func(uint32) int32
	getResultHighlightedFileNameW            func(uint32) unsafe.Pointer
	getResultHighlightedFullPathAndFileNameW func(uint32) unsafe.Pointer
	reset                                    func()
}

func openLibrary(path string) (library, error) {
	handle, err := windows.LoadLibrary(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}

	d := &dll{handle: handle}
	symbols := []struct {
		name string
		fn   any
	}{
		{"Everything_SetSearchW", &d.setSearchW},
		{"Everything_SetMax", &d.setMax},
		{"Everything_SetRequestFlags", &d.setRequestFlags},
		{"Everything_QueryW", &d.queryW},
		{"Everything_GetLastError", &d.getLastError},
		{"Everything_GetNumResults", &d.getNumResults},
		{"Everything_IsFolderResult", &d.isFolderResult},
		{"Everything_IsFileResult", &d.isFileResult},
		{"Everything_GetResultHighlightedFileNameW", &d.getResultHighlightedFileNameW},
		{"Everything_GetResultHighlightedFullPathAndFileNameW", &d.getResultHighlightedFullPathAndFileNameW},
		{"Everything_Reset", &d.reset},
	}

	for _, sym := range symbols {
		addr, err := windows.GetProcAddress(handle, sym.name)
		if err != nil {
			_ = windows.FreeLibrary(handle)
			return nil, fmt.Errorf("missing symbol %s: %w", sym.name, err)
		}
		purego.RegisterFunc(sym.fn, addr)
	}

	return d, nil
}

func (d *dll) SetSearch(text string) {
	p, err := windows.UTF16PtrFromString(strings.ReplaceAll(text, "\x00", ""))
	if err != nil {
		return
	}
	d.setSearchW(p)
}

func (d *dll) SetMax(n uint32)              { d.setMax(n) }
func (d *dll) SetRequestFlags(flags uint32) { d.setRequestFlags(flags) }
func (d *dll) LastError() uint32            { return d.getLastError() }
func (d *dll) NumResults() uint32           { return d.getNumResults() }
func (d *dll) IsFolderResult(i uint32) bool { return d.isFolderResult(i) != 0 }
func (d *dll) IsFileResult(i uint32) bool   { return d.isFileResult(i) != 0 }
func (d *dll) Reset()                       { d.reset() }

func (d *dll) Query(wait bool) bool {
	var w int32
	if wait {
		w = 1
	}
	return d.queryW(w) != 0
}

func (d *dll) HighlightedFileName(i uint32) string {
	return windows.UTF16PtrToString((*uint16)(d.getResultHighlightedFileNameW(i)))
}

func (d *dll) HighlightedFullPath(i uint32) string {
	return windows.UTF16PtrToString((*uint16)(d.getResultHighlightedFullPathAndFileNameW(i)))
}

package provider

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/Aman-CERP/everyfind/internal/errors"
)

// Request flags understood by Everything_SetRequestFlags.
const (
	requestFileName                    = 0x00000001
	requestPath                        = 0x00000002
	requestFullPathAndFileName         = 0x00000004
	requestHighlightedFileName         = 0x00002000
	requestHighlightedPath             = 0x00004000
	requestHighlightedFullPathFileName = 0x00008000

	requestFlags = requestFileName | requestPath | requestFullPathAndFileName |
		requestHighlightedFileName | requestHighlightedPath | requestHighlightedFullPathFileName
)

// Everything_GetLastError codes.
const (
	sdkOK uint32 = iota
	sdkErrorMemory
	sdkErrorIPC
	sdkErrorRegisterClassEx
	sdkErrorCreateWindow
	sdkErrorCreateThread
	sdkErrorInvalidIndex
	sdkErrorInvalidCall
	sdkErrorInvalidRequest
	sdkErrorInvalidParameter
)

var sdkErrorNames = map[uint32]string{
	sdkErrorMemory:           "EVERYTHING_ERROR_MEMORY",
	sdkErrorIPC:              "EVERYTHING_ERROR_IPC",
	sdkErrorRegisterClassEx:  "EVERYTHING_ERROR_REGISTERCLASSEX",
	sdkErrorCreateWindow:     "EVERYTHING_ERROR_CREATEWINDOW",
	sdkErrorCreateThread:     "EVERYTHING_ERROR_CREATETHREAD",
	sdkErrorInvalidIndex:     "EVERYTHING_ERROR_INVALIDINDEX",
	sdkErrorInvalidCall:      "EVERYTHING_ERROR_INVALIDCALL",
	sdkErrorInvalidRequest:   "EVERYTHING_ERROR_INVALIDREQUEST",
	sdkErrorInvalidParameter: "EVERYTHING_ERROR_INVALIDPARAMETER",
}

// library is the subset of the Everything SDK the client drives.
type library interface {
	SetSearch(text string)
	SetMax(n uint32)
	SetRequestFlags(flags uint32)
	Query(wait bool) bool
	LastError() uint32
	NumResults() uint32
	IsFolderResult(i uint32) bool
	IsFileResult(i uint32) bool
	HighlightedFileName(i uint32) string
	HighlightedFullPath(i uint32) string
	Reset()
}

// Everything searches the local Everything engine through its SDK.
// The SDK keeps its query state in process globals, so calls are serialized.
type Everything struct {
	mu     sync.Mutex
	lib    library
	logger *slog.Logger
}

// LoadEverything loads the SDK library at path. On failure the caller
// should fall back to Offline so every search reports unavailable.
func LoadEverything(path string, logger *slog.Logger) (*Everything, error) {
	lib, err := openLibrary(path)
	if err != nil {
		return nil, errors.New(errors.ErrCodeSDKLoadFailed, "failed to load Everything SDK", err).
			WithDetail("path", path).
			WithSuggestion("Check that the EverythingSDK directory ships with the plugin")
	}
	return newEverything(lib, logger), nil
}

func newEverything(lib library, logger *slog.Logger) *Everything {
	if logger == nil {
		logger = slog.Default()
	}
	return &Everything{lib: lib, logger: logger}
}

// Search implements Client. The engine call itself cannot be interrupted, so
// cancellation is observed before it, after it and before every result row.
func (e *Everything) Search(ctx context.Context, text string, limit int) ([]Match, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if limit <= 0 {
		return nil, nil
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	e.lib.SetSearch(text)
	e.lib.SetRequestFlags(requestFlags)
	e.lib.SetMax(uint32(limit))

	if !e.lib.Query(true) {
		code := e.lib.LastError()
		if code == sdkErrorIPC {
			return nil, Unavailable(fmt.Errorf("%s", sdkErrorNames[code]))
		}
		return nil, sdkFault(code)
	}
	defer e.lib.Reset()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	n := e.lib.NumResults()
	if int(n) > limit {
		n = uint32(limit)
	}

	matches := make([]Match, 0, n)
	for i := uint32(0); i < n; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		name, nameSpans := ParseHighlighted(e.lib.HighlightedFileName(i))
		fullPath, pathSpans := ParseHighlighted(e.lib.HighlightedFullPath(i))

		m := Match{
			Name:           name,
			FullPath:       fullPath,
			NameHighlights: nameSpans,
			PathHighlights: pathSpans,
		}
		switch {
		case e.lib.IsFolderResult(i):
			m.Kind = KindFolder
		case e.lib.IsFileResult(i):
			m.Kind = KindFile
		default:
			// Volumes and other entries carry no file actions
			e.logger.Debug("skipping non file result", slog.String("path", fullPath))
			continue
		}
		matches = append(matches, m)
	}

	return matches, nil
}

func sdkFault(code uint32) error {
	name, ok := sdkErrorNames[code]
	if !ok {
		name = fmt.Sprintf("EVERYTHING_ERROR_%d", code)
	}
	return errors.New(errors.ErrCodeProviderFault, "Everything query failed: "+name, nil).
		WithDetail("sdk_error", name)
}

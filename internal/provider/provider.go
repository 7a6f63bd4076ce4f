// Package provider defines the contract over the external file index and
// its two implementations: the Everything SDK binding and a JSON-RPC client
// for index services reachable over a unix socket.
package provider

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"

	"github.com/Aman-CERP/everyfind/internal/errors"
)

// Kind is the filesystem type of a match.
type Kind int

const (
	// KindUnknown is never returned by a provider; it marks a zero Match.
	KindUnknown Kind = iota
	KindFile
	KindFolder
)

// String returns the wire name of the kind.
func (k Kind) String() string {
	switch k {
	case KindFile:
		return "file"
	case KindFolder:
		return "folder"
	default:
		return "unknown"
	}
}

// ParseKind parses a wire name. Unknown names are an error.
func ParseKind(s string) (Kind, error) {
	switch s {
	case "file":
		return KindFile, nil
	case "folder":
		return KindFolder, nil
	default:
		return KindUnknown, fmt.Errorf("unknown match kind %q", s)
	}
}

// MarshalJSON encodes the kind by name.
func (k Kind) MarshalJSON() ([]byte, error) {
	return json.Marshal(k.String())
}

// UnmarshalJSON decodes a kind name, rejecting unknown values.
func (k *Kind) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseKind(s)
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// Match is one raw hit from the index. Highlight offsets are rune offsets
// into Name and FullPath respectively.
type Match struct {
	Name           string `json:"name"`
	FullPath       string `json:"full_path"`
	NameHighlights []int  `json:"name_highlights,omitempty"`
	PathHighlights []int  `json:"path_highlights,omitempty"`
	Kind           Kind   `json:"kind"`
}

// Clone returns a copy that shares no slices with m.
func (m Match) Clone() Match {
	m.NameHighlights = append([]int(nil), m.NameHighlights...)
	m.PathHighlights = append([]int(nil), m.PathHighlights...)
	return m
}

// Client searches the external index. The returned order is authoritative
// relevance order and callers must not re-sort it. Cancelling ctx abandons
// the search; a cancelled search returns ctx.Err().
type Client interface {
	Search(ctx context.Context, text string, limit int) ([]Match, error)
}

// ErrUnavailable is matched (via errors.Is) by every failure caused by the
// engine or its IPC endpoint not being reachable.
var ErrUnavailable = errors.New(errors.ErrCodeProviderUnavailable, "search engine is not running", nil)

// ErrUnsupportedPlatform is returned when the native engine cannot exist on
// this operating system.
var ErrUnsupportedPlatform = stderrors.New("the Everything SDK is only available on Windows")

// Unavailable wraps cause as an unavailability error.
func Unavailable(cause error) error {
	return errors.New(errors.ErrCodeProviderUnavailable, "search engine is not running", cause)
}

// Fault wraps cause as a provider fault: any failure other than
// unavailability or cancellation.
func Fault(message string, cause error) error {
	return errors.New(errors.ErrCodeProviderFault, message, cause)
}

// IsUnavailable reports whether err means the engine could not be reached.
func IsUnavailable(err error) bool {
	return stderrors.Is(err, ErrUnavailable)
}

// Offline is a Client whose every search fails as unavailable. It stands in
// for a provider that could not be loaded at init.
type Offline struct {
	Cause error
}

// Search implements Client.
func (o Offline) Search(ctx context.Context, _ string, _ int) ([]Match, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return nil, Unavailable(o.Cause)
}

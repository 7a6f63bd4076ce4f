package result

import (
	"encoding/json"
	stderrors "errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Aman-CERP/everyfind/internal/action"
	"github.com/Aman-CERP/everyfind/internal/config"
	"github.com/Aman-CERP/everyfind/internal/errors"
	"github.com/Aman-CERP/everyfind/internal/provider"
	"github.com/Aman-CERP/everyfind/internal/resources"
	"github.com/Aman-CERP/everyfind/internal/rpc"
)

func sampleMatch() provider.Match {
	return provider.Match{
		Name:           "report.pdf",
		FullPath:       "/a/b/report.pdf",
		NameHighlights: []int{0, 1, 2},
		PathHighlights: []int{5, 6, 7},
		Kind:           provider.KindFile,
	}
}

func TestFormat_ScoresFollowIndex(t *testing.T) {
	// Given: the default cap of 30
	s := config.NewSettings()

	// When: two matches are formatted at indices 0 and 1
	first := Format("report.pdf", sampleMatch(), 0, s)
	second := Format("report.pdf", sampleMatch(), 1, s)

	// Then: scores are 30 and 29
	assert.Equal(t, 30, first.Score)
	assert.Equal(t, 29, second.Score)
}

func TestFormat_ScoresStrictlyDecrease(t *testing.T) {
	s := config.NewSettings()
	s.MaxSearchCount = 7

	prev := s.MaxSearchCount + 1
	for i := 0; i < s.MaxSearchCount; i++ {
		r := Format("x", sampleMatch(), i, s)
		assert.Equal(t, s.MaxSearchCount-i, r.Score)
		assert.Less(t, r.Score, prev)
		prev = r.Score
	}
}

func TestFormat_WorkingDir(t *testing.T) {
	tests := []struct {
		name   string
		useLoc bool
		want   string
	}{
		{"enabled uses parent directory", true, filepath.Dir("/a/b/c.txt")},
		{"disabled leaves it unset", false, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := config.NewSettings()
			s.UseLocationAsWorkingDir = tt.useLoc
			m := provider.Match{Name: "c.txt", FullPath: "/a/b/c.txt", Kind: provider.KindFile}

			r := Format("c", m, 0, s)

			assert.Equal(t, tt.want, r.WorkingDir)
			assert.Equal(t, action.Launch("/a/b/c.txt", tt.want), r.Action)
		})
	}
}

func TestFormat_CopiesDisplayFields(t *testing.T) {
	m := sampleMatch()
	r := Format("rep", m, 0, config.NewSettings())

	assert.Equal(t, "report.pdf", r.Title)
	assert.Equal(t, "/a/b/report.pdf", r.Subtitle)
	assert.Equal(t, []int{0, 1, 2}, r.TitleHighlights)
	assert.Equal(t, []int{5, 6, 7}, r.SubtitleHighlights)
	assert.Equal(t, "/a/b/report.pdf", r.Icon)
}

func TestFormat_SourceRoundTrip(t *testing.T) {
	m := sampleMatch()

	r := Format("rep", m, 0, config.NewSettings())
	got, ok := r.Source()

	require.True(t, ok)
	assert.Equal(t, m, got)
}

func TestFormat_SourceIsPrivate(t *testing.T) {
	m := sampleMatch()
	r := Format("rep", m, 0, config.NewSettings())

	// Mutating the input, the row's highlights or a returned source
	// must not reach the stored match.
	m.NameHighlights[0] = 99
	r.TitleHighlights[1] = 98
	got, _ := r.Source()
	got.PathHighlights[0] = 97

	again, ok := r.Source()
	require.True(t, ok)
	assert.Equal(t, sampleMatch(), again)
}

func TestUnavailable(t *testing.T) {
	r := Unavailable(resources.Default())

	assert.Equal(t, "Everything is not running", r.Title)
	assert.Equal(t, IconWarning, r.Icon)
	assert.Empty(t, r.TitleHighlights)
	assert.Empty(t, r.SubtitleHighlights)
	assert.False(t, r.HasSource())
	assert.Equal(t, action.KindNone, r.Action.Kind)
}

func TestDiagnostic(t *testing.T) {
	err := errors.New(errors.ErrCodeProviderFault, "bad response", stderrors.New("eof")).
		WithDetail("sdk_error", "EVERYTHING_ERROR_INVALIDCALL")

	r := Diagnostic(resources.Default(), err)

	assert.Equal(t, "Query error", r.Title)
	assert.Equal(t, "bad response: eof", r.Subtitle)
	assert.Equal(t, IconError, r.Icon)
	assert.False(t, r.HasSource())
	assert.Equal(t, action.KindCopyDiagnostic, r.Action.Kind)
	assert.Contains(t, r.Action.Text, "bad response")
	assert.Contains(t, r.Action.Text, "sdk_error: EVERYTHING_ERROR_INVALIDCALL")
	assert.Contains(t, r.Action.Text, "caused by [1]: eof")
}

func TestDiagnostic_SubtitleCarriesRemoteCause(t *testing.T) {
	// Given: an index service fault wrapping the service's own error
	remote := &rpc.Error{Code: -32000, Message: "index is corrupted"}
	err := provider.Fault("index service search failed", remote)

	// When: formatting the row
	r := Diagnostic(resources.Default(), err)

	// Then: the subtitle shows the real failure without the error code
	assert.Equal(t, "index service search failed: rpc error -32000: index is corrupted", r.Subtitle)
	assert.NotContains(t, r.Subtitle, errors.ErrCodeProviderFault)
	assert.Contains(t, r.Action.Text, "code: "+errors.ErrCodeProviderFault)
}

func TestDTO_PreservesSource(t *testing.T) {
	s := config.NewSettings()
	s.UseLocationAsWorkingDir = true
	r := Format("rep", sampleMatch(), 3, s)

	data, err := json.Marshal(ToDTOs([]Result{r, Unavailable(resources.Default())}))
	require.NoError(t, err)

	var dtos []DTO
	require.NoError(t, json.Unmarshal(data, &dtos))
	back := FromDTOs(dtos)
	require.Len(t, back, 2)

	got, ok := back[0].Source()
	require.True(t, ok)
	assert.Equal(t, sampleMatch(), got)
	assert.Equal(t, r.Score, back[0].Score)
	assert.Equal(t, r.Action, back[0].Action)
	assert.Equal(t, r.WorkingDir, back[0].WorkingDir)

	assert.False(t, back[1].HasSource())
}

func TestForPath(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		kind     provider.Kind
		wantName string
	}{
		{"unix file", "/home/u/a.txt", provider.KindFile, "a.txt"},
		{"windows file", `C:\Users\u\a.txt`, provider.KindFile, "a.txt"},
		{"trailing separator", `C:\Users\u\Docs\`, provider.KindFolder, "Docs"},
		{"bare name", "plain", provider.KindFile, "plain"},
		{"root", "/", provider.KindFolder, "/"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := ForPath(tt.path, tt.kind)

			assert.Equal(t, tt.wantName, r.Title)
			assert.Equal(t, tt.path, r.Subtitle)
			assert.Equal(t, action.Launch(tt.path, ""), r.Action)

			m, ok := r.Source()
			require.True(t, ok)
			assert.Equal(t, tt.wantName, m.Name)
			assert.Equal(t, tt.path, m.FullPath)
			assert.Equal(t, tt.kind, m.Kind)
		})
	}
}

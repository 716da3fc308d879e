package export

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/laskinner/dag-tui/entity"
)

func testSnapshot() Snapshot {
	return Snapshot{
		Causes: []entity.Cause{
			{ID: "c1", Title: "disk failure", Probability: 40, Severity: 3, Causes: []string{"o1"}},
			{ID: "c2", Title: "power loss", Probability: 60, Severity: 7, Causes: []string{"o1"}},
		},
		Outcomes: []entity.Outcome{
			{ID: "o1", Title: "data loss", Probability: 50, Severity: 7, CausedBy: []string{"c1", "c2"}},
		},
	}
}

func TestFormatIsValid(t *testing.T) {
	tests := []struct {
		format Format
		want   bool
	}{
		{FormatJSON, true},
		{FormatYAML, true},
		{FormatText, true},
		{Format("xml"), false},
		{Format(""), false},
	}

	for _, tt := range tests {
		t.Run(string(tt.format), func(t *testing.T) {
			if got := tt.format.IsValid(); got != tt.want {
				t.Errorf("IsValid() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFormatFileExtension(t *testing.T) {
	tests := []struct {
		format Format
		want   string
	}{
		{FormatJSON, ".json"},
		{FormatYAML, ".yaml"},
		{FormatText, ".txt"},
		{Format("xml"), ""},
	}

	for _, tt := range tests {
		if got := tt.format.FileExtension(); got != tt.want {
			t.Errorf("FileExtension(%s) = %q, want %q", tt.format, got, tt.want)
		}
	}
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("yaml")
	require.NoError(t, err)
	assert.Equal(t, FormatYAML, f)

	_, err = ParseFormat("xml")
	assert.Error(t, err)
}

func TestAllFormats(t *testing.T) {
	formats := AllFormats()
	assert.Len(t, formats, 3)
	for _, f := range formats {
		assert.True(t, f.IsValid())
	}
}

func TestWriteJSONRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatJSON, testSnapshot()))

	var decoded Snapshot
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, testSnapshot(), decoded)
}

func TestWriteYAMLRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatYAML, testSnapshot()))

	var decoded Snapshot
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, testSnapshot(), decoded)
}

func TestWriteText(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatText, testSnapshot()))
	out := buf.String()

	assert.Contains(t, out, "[c1] disk failure (p=40%, s=3)")
	assert.Contains(t, out, "-> data loss [o1]")
	assert.Contains(t, out, "[o1] data loss (p=50%, s=7, Medium)")
	assert.Contains(t, out, "<- disk failure [c1]")
	assert.Contains(t, out, "<- power loss [c2]")
}

func TestWriteTextUnresolvedReference(t *testing.T) {
	snap := Snapshot{
		Outcomes: []entity.Outcome{
			{ID: "o1", Title: "data loss", CausedBy: []string{"ghost"}},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatText, snap))
	assert.Contains(t, buf.String(), "<- (unresolved) [ghost]")
}

func TestWriteInvalidFormat(t *testing.T) {
	err := Write(&bytes.Buffer{}, Format("xml"), testSnapshot())
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "invalid export format"))
}

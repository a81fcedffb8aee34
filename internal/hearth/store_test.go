package hearth

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Another0Noob/hearth-import/internal/match"
)

func TestEntryFromData(t *testing.T) {
	tests := []struct {
		name   string
		data   map[string]any
		want   match.Entry[string]
		wantOK bool
	}{
		{
			name:   "named item",
			data:   map[string]any{"name": "Cordless Drill ", "userId": "u1"},
			want:   match.Entry[string]{Name: "Cordless Drill ", Reference: "doc1"},
			wantOK: true,
		},
		{name: "missing name", data: map[string]any{"userId": "u1"}},
		{name: "blank name", data: map[string]any{"name": "  "}},
		{name: "non-string name", data: map[string]any{"name": 42}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := entryFromData("doc1", tt.data)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestOpenRequiresUser(t *testing.T) {
	_, err := Open(context.Background(), Options{ProjectID: "p"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "user id")
}

func TestClientOptions(t *testing.T) {
	key := filepath.Join(t.TempDir(), "sa.json")
	require.NoError(t, os.WriteFile(key, []byte(`{}`), 0o600))

	tests := []struct {
		name string
		path string
		want int
	}{
		{name: "no path", path: "", want: 0},
		{name: "existing file", path: key, want: 1},
		{name: "missing file falls back", path: filepath.Join(t.TempDir(), "missing.json"), want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Len(t, clientOptions(tt.path), tt.want)
		})
	}
}

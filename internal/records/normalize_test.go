package records

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/atcnagpur/contentadmin/internal/models"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSchema = Schema{
	Fields: []Field{
		{Name: "title", Aliases: []string{"title", "name"}},
		{Name: "position", Aliases: []string{"position", "category"}},
	},
	Media:   []string{"image", "image_url"},
	Visible: []string{"appearance", "Status", "status"},
}

func decode(t *testing.T, s string) map[string]any {
	t.Helper()
	dec := json.NewDecoder(strings.NewReader(s))
	dec.UseNumber()
	raw := make(map[string]any)
	require.NoError(t, dec.Decode(&raw))
	return raw
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want models.Record
	}{
		{
			name: "primary aliases",
			raw:  `{"id": 4, "title": "Collector", "position": "IAS", "image": "a.png", "appearance": "Y"}`,
			want: models.Record{
				ID:      4,
				Fields:  map[string]string{"title": "Collector", "position": "IAS"},
				Media:   models.MediaRef{URL: "a.png"},
				Visible: true,
			},
		},
		{
			name: "secondary aliases and extra keys dropped",
			raw:  `{"id": "9", "name": "Minister", "category": "State", "image_url": "b.jpg", "status": "N", "created_at": "2024-01-01"}`,
			want: models.Record{
				ID:      9,
				Fields:  map[string]string{"title": "Minister", "position": "State"},
				Media:   models.MediaRef{URL: "b.jpg"},
				Visible: false,
			},
		},
		{
			name: "first present alias wins",
			raw:  `{"id": 1, "title": "", "name": "ignored", "Status": "y", "status": "N"}`,
			want: models.Record{
				ID:      1,
				Fields:  map[string]string{"title": "", "position": ""},
				Visible: true,
			},
		},
		{
			name: "null counts as present",
			raw:  `{"id": 2, "title": null, "name": "ignored"}`,
			want: models.Record{
				ID:     2,
				Fields: map[string]string{"title": "", "position": ""},
			},
		},
		{
			name: "numeric field values",
			raw:  `{"id": 3, "position": 12}`,
			want: models.Record{
				ID:     3,
				Fields: map[string]string{"title": "", "position": "12"},
			},
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			got, err := Normalize(decode(t, tt.raw), testSchema, true)
			require.NoError(t, err)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Normalize() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestNormalize_Visibility(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want bool
	}{
		{name: "appearance string one", raw: `{"id": 1, "appearance": "1"}`, want: true},
		{name: "appearance numeric one", raw: `{"id": 1, "appearance": 1}`, want: true},
		{name: "appearance upper Y", raw: `{"id": 1, "appearance": "Y"}`, want: true},
		{name: "Status lower y", raw: `{"id": 1, "Status": "y"}`, want: true},
		{name: "status N", raw: `{"id": 1, "status": "N"}`, want: false},
		{name: "status zero", raw: `{"id": 1, "status": 0}`, want: false},
		{name: "boolean is not trusted", raw: `{"id": 1, "appearance": true}`, want: false},
		{name: "word yes", raw: `{"id": 1, "appearance": "yes"}`, want: false},
		{name: "absent defaults to hidden", raw: `{"id": 1}`, want: false},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			got, err := Normalize(decode(t, tt.raw), testSchema, true)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.Visible)
		})
	}
}

func TestNormalize_Identity(t *testing.T) {
	tests := []struct {
		name      string
		raw       string
		requireID bool
		wantErr   bool
	}{
		{name: "missing id on existing record", raw: `{"title": "x"}`, requireID: true, wantErr: true},
		{name: "null id", raw: `{"id": null}`, requireID: true, wantErr: true},
		{name: "fractional id", raw: `{"id": 1.5}`, requireID: true, wantErr: true},
		{name: "garbage id", raw: `{"id": "abc"}`, requireID: true, wantErr: true},
		{name: "draft without id", raw: `{"title": "x"}`, requireID: false, wantErr: false},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			_, err := Normalize(decode(t, tt.raw), testSchema, tt.requireID)
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, ErrNormalization)
			var nerr *NormalizationError
			require.ErrorAs(t, err, &nerr)
			assert.Equal(t, []string{"id"}, nerr.Keys)
		})
	}
}

func TestNormalizeList(t *testing.T) {
	items := []map[string]any{
		decode(t, `{"id": 1, "title": "a"}`),
		decode(t, `{"title": "b"}`),
	}
	_, err := NormalizeList(items, testSchema)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "item 1")

	got, err := NormalizeList(items[:1], testSchema)
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestOverlay(t *testing.T) {
	base := models.Record{
		ID:      3,
		Fields:  map[string]string{"title": "old", "position": "kept"},
		Media:   models.MediaRef{URL: "old.png"},
		Visible: true,
	}

	got := Overlay(base, decode(t, `{"id": 99, "name": "new", "image_url": "new.png"}`), testSchema)

	assert.Equal(t, int64(3), got.ID)
	assert.Equal(t, "new", got.Fields["title"])
	assert.Equal(t, "kept", got.Fields["position"])
	assert.Equal(t, "new.png", got.Media.URL)
	assert.True(t, got.Visible)
	assert.Equal(t, "old", base.Fields["title"], "base must not be mutated")
}

func TestField_WireName(t *testing.T) {
	assert.Equal(t, "title_eng", Field{Name: "title", Aliases: []string{"title_eng", "title"}}.WireName())
	assert.Equal(t, "name", Field{Name: "title", Aliases: []string{"title"}, Wire: "name"}.WireName())
	assert.Equal(t, "link", Field{Name: "link"}.WireName())
}

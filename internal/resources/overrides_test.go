package resources

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/atcnagpur/contentadmin/internal/config"
	"github.com/atcnagpur/contentadmin/internal/records"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const heroOverrides = `
resources:
  hero-notifications:
    title: Latest notifications
    fields:
      title:
        aliases: [heading]
        wire: title_eng
        adaptive: false
    visible: [is_visible]
    required: [title]
`

func TestDecodeOverrides(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    int
		wantErr bool
	}{
		{name: "empty document", input: "", want: 0},
		{name: "hero section", input: heroOverrides, want: 1},
		{name: "unknown key", input: "resources:\n  photos:\n    colour: red\n", wantErr: true},
		{name: "not yaml", input: "resources: [", wantErr: true},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			o, err := DecodeOverrides(strings.NewReader(tt.input))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Len(t, o.Resources, tt.want)
		})
	}
}

func TestLoadOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "overrides.yaml")
	require.NoError(t, os.WriteFile(path, []byte(heroOverrides), 0o600))

	o, err := LoadOverrides(path)
	require.NoError(t, err)
	assert.Contains(t, o.Resources, "hero-notifications")

	_, err = LoadOverrides(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestOverrides_Apply(t *testing.T) {
	o, err := DecodeOverrides(strings.NewReader(heroOverrides))
	require.NoError(t, err)

	defaults := Defaults()
	descs, err := o.Apply(defaults)
	require.NoError(t, err)
	require.Len(t, descs, len(defaults))

	d, ok := Find(descs, "hero-notifications")
	require.True(t, ok)
	assert.Equal(t, "Latest notifications", d.Sync.Title)
	assert.Equal(t, []string{"title"}, d.Sync.Required)
	assert.Equal(t, []string{"Status", "status", "is_visible"}, d.Sync.Schema.Visible)

	title, ok := d.Sync.Schema.Field("title")
	require.True(t, ok)
	assert.Equal(t, []string{"title", "title_eng", "heading"}, title.Aliases)
	assert.Equal(t, "title_eng", title.WireName())
	assert.False(t, title.Adaptive)

	// the other hero sections share nothing with the overridden one
	other, _ := Find(descs, "hero-important-links")
	otherTitle, _ := other.Sync.Schema.Field("title")
	assert.Equal(t, []string{"title", "title_eng"}, otherTitle.Aliases)
	assert.True(t, otherTitle.Adaptive)

	orig, _ := Find(defaults, "hero-notifications")
	origTitle, _ := orig.Sync.Schema.Field("title")
	assert.Equal(t, records.Field{Name: "title", Aliases: []string{"title", "title_eng"}, Adaptive: true}, origTitle)
}

func TestOverrides_ApplyUnknown(t *testing.T) {
	tests := []struct {
		name string
		o    Overrides
	}{
		{
			name: "resource",
			o:    Overrides{Resources: map[string]ResourceOverride{"banners": {Title: "x"}}},
		},
		{
			name: "field",
			o: Overrides{Resources: map[string]ResourceOverride{
				"photos": {Fields: map[string]FieldOverride{"caption": {Wire: "caption"}}},
			}},
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.o.Apply(Defaults())
			assert.ErrorIs(t, err, ErrUnknownOverride)
		})
	}
}

func TestFromConfig(t *testing.T) {
	cfg := config.Default()

	reg, err := FromConfig(cfg, nil, zap.L().Sugar())
	require.NoError(t, err)
	assert.Len(t, reg.Names(), 9)

	cfg.OverridesPath = filepath.Join(t.TempDir(), "overrides.yaml")
	require.NoError(t, os.WriteFile(cfg.OverridesPath, []byte(heroOverrides), 0o600))
	reg, err = FromConfig(cfg, nil, zap.L().Sugar())
	require.NoError(t, err)
	s, _ := reg.Lookup("hero-notifications")
	assert.Equal(t, "Latest notifications", s.Config().Title)

	require.NoError(t, os.WriteFile(cfg.OverridesPath, []byte("resources:\n  banners: {}\n"), 0o600))
	_, err = FromConfig(cfg, nil, zap.L().Sugar())
	assert.ErrorIs(t, err, ErrUnknownOverride)
}

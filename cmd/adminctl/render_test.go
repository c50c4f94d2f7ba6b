package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/atcnagpur/contentadmin/internal/models"
	"github.com/atcnagpur/contentadmin/internal/records"
	"github.com/atcnagpur/contentadmin/internal/synchronizer"
	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assertAligned(t *testing.T, out string) {
	t.Helper()
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.NotEmpty(t, lines)
	for _, l := range lines {
		assert.Equal(t, lipgloss.Width(lines[0]), lipgloss.Width(l), "line %q", l)
	}
}

func TestPrintSummary(t *testing.T) {
	out := &bytes.Buffer{}
	printSummary(out, []models.ResourceSummary{
		{Name: "scroller-texts", Title: "Scrolling texts", Total: 12, Visible: 3, State: "idle"},
		{Name: "gallery", Title: "Gallery", State: "error", Message: "backend unreachable"},
	})

	assert.Equal(t, []string{"NAME", "TITLE", "TOTAL", "VISIBLE", "STATE"}, tableRow(out.String(), "NAME"))
	assert.Equal(t, []string{"scroller-texts", "Scrolling texts", "12", "3", "idle"}, tableRow(out.String(), "scroller-texts"))
	assert.Equal(t, []string{"gallery", "Gallery", "0", "0", "error: backend unreachable"}, tableRow(out.String(), "gallery"))
	assertAligned(t, out.String())
}

func TestPrintRecords(t *testing.T) {
	cfg := synchronizer.Config{
		Schema: records.Schema{
			Fields: []records.Field{{Name: "title"}},
			Media:  []string{"image_url"},
		},
	}

	tests := []struct {
		name string
		list []models.Record
		want map[string][]string
	}{
		{
			name: "badges and media",
			list: []models.Record{
				{ID: 2, Fields: map[string]string{"title": "Camp"}, Media: models.MediaRef{URL: "uploads/2.jpg"}, Visible: true},
				{ID: 10, Fields: map[string]string{"title": "Hostel"}, Media: models.MediaRef{URL: "uploads/10.jpg"}},
			},
			want: map[string][]string{
				"ID": {"ID", "TITLE", "MEDIA", "STATUS"},
				"2":  {"2", "Camp", "uploads/2.jpg", "Visible"},
				"10": {"10", "Hostel", "uploads/10.jpg", "Hidden"},
			},
		},
		{
			name: "long values are cut",
			list: []models.Record{
				{ID: 1, Fields: map[string]string{"title": strings.Repeat("a", 60)}, Visible: true},
			},
			want: map[string][]string{
				"1": {"1", strings.Repeat("a", maxCellWidth-1) + "…", "Visible"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := &bytes.Buffer{}
			printRecords(out, cfg, tt.list)

			for key, want := range tt.want {
				assert.Equal(t, want, tableRow(out.String(), key))
			}
			assertAligned(t, out.String())
		})
	}
}

func TestPrintRecordsEmpty(t *testing.T) {
	out := &bytes.Buffer{}
	printRecords(out, synchronizer.Config{}, nil)
	assert.Equal(t, "no records\n", out.String())
}

package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/atcnagpur/contentadmin/internal/models"
	"github.com/atcnagpur/contentadmin/internal/synchronizer"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

const maxCellWidth = 40

var (
	cellStyle    = lipgloss.NewStyle().Padding(0, 1)
	headerStyle  = cellStyle.Bold(true)
	visibleStyle = cellStyle.Foreground(lipgloss.Color("42"))
	hiddenStyle  = cellStyle.Foreground(lipgloss.Color("214"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	mutedStyle   = lipgloss.NewStyle().Faint(true)
)

func badge(visible bool) string {
	if visible {
		return "Visible"
	}
	return "Hidden"
}

func badgeStyle(visible bool) lipgloss.Style {
	if visible {
		return visibleStyle
	}
	return hiddenStyle
}

func printOK(w io.Writer, msg string) {
	fmt.Fprintln(w, successStyle.Render("✔ "+msg))
}

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(mutedStyle).
		Headers(headers...)
}

func printSummary(w io.Writer, summary []models.ResourceSummary) {
	rows := make([][]string, 0, len(summary))
	for _, s := range summary {
		state := s.State
		if s.Message != "" {
			state += ": " + truncate(s.Message)
		}
		rows = append(rows, []string{s.Name, s.Title, strconv.Itoa(s.Total), strconv.Itoa(s.Visible), state})
	}

	t := newTable("NAME", "TITLE", "TOTAL", "VISIBLE", "STATE").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case col == 4 && summary[row].Message != "":
				return errorStyle.Padding(0, 1)
			default:
				return cellStyle
			}
		})
	fmt.Fprintln(w, t.Render())
}

// printRecords renders one row per record, fields in schema order, with the
// visibility badge last.
func printRecords(w io.Writer, cfg synchronizer.Config, list []models.Record) {
	if len(list) == 0 {
		fmt.Fprintln(w, mutedStyle.Render("no records"))
		return
	}

	names := cfg.Schema.FieldNames()
	withMedia := len(cfg.Schema.Media) > 0

	header := append([]string{"ID"}, upper(names)...)
	if withMedia {
		header = append(header, "MEDIA")
	}
	header = append(header, "STATUS")
	badgeCol := len(header) - 1

	rows := make([][]string, 0, len(list))
	for _, rec := range list {
		row := []string{strconv.FormatInt(rec.ID, 10)}
		for _, name := range names {
			row = append(row, truncate(rec.Fields[name]))
		}
		if withMedia {
			row = append(row, truncate(rec.Media.URL))
		}
		row = append(row, badge(rec.Visible))
		rows = append(rows, row)
	}

	t := newTable(header...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case col == badgeCol:
				return badgeStyle(list[row].Visible)
			default:
				return cellStyle
			}
		})
	fmt.Fprintln(w, t.Render())
}

func upper(names []string) []string {
	result := make([]string, len(names))
	for i, n := range names {
		result[i] = strings.ToUpper(n)
	}
	return result
}

func truncate(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	r := []rune(s)
	if len(r) <= maxCellWidth {
		return s
	}
	return string(r[:maxCellWidth-1]) + "…"
}

package main

import (
	"bufio"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/atcnagpur/contentadmin/internal/models"
	"github.com/atcnagpur/contentadmin/internal/synchronizer"
	"github.com/spf13/cobra"
)

var errBadAssignment = errors.New("expected key=value")

func (c *cli) resourcesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "resources",
		Short: "Load every list and show its counters",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			err := c.registry.LoadAll(cmd.Context())
			printSummary(cmd.OutOrStdout(), c.registry.Summary())
			return err
		},
	}
}

func (c *cli) listCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list <resource>",
		Short: "Show the records of one list, visible ones first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := c.loaded(cmd, args[0])
			if err != nil {
				return err
			}
			printRecords(cmd.OutOrStdout(), s.Config(), s.Records())
			return nil
		},
	}
}

type draftFlags struct {
	set      []string
	hidden   bool
	visible  bool
	file     string
	mediaURL string
}

func (f *draftFlags) register(cmd *cobra.Command, withVisible bool) {
	cmd.Flags().StringArrayVar(&f.set, "set", nil, "field value as key=value, repeatable")
	cmd.Flags().BoolVar(&f.hidden, "hidden", false, "hide the record on the site")
	cmd.Flags().StringVar(&f.file, "file", "", "image file to upload")
	cmd.Flags().StringVar(&f.mediaURL, "media-url", "", "image URL already hosted by the backend")
	cmd.MarkFlagsMutuallyExclusive("file", "media-url")
	if withVisible {
		cmd.Flags().BoolVar(&f.visible, "visible", false, "show the record on the site")
		cmd.MarkFlagsMutuallyExclusive("hidden", "visible")
	}
}

func (f *draftFlags) draft(cmd *cobra.Command) (models.Draft, error) {
	d := models.Draft{Fields: make(map[string]string, len(f.set))}
	for _, kv := range f.set {
		key, value, ok := strings.Cut(kv, "=")
		if !ok || strings.TrimSpace(key) == "" {
			return models.Draft{}, fmt.Errorf("%w: %q", errBadAssignment, kv)
		}
		d.Fields[strings.TrimSpace(key)] = value
	}

	switch {
	case cmd.Flags().Changed("hidden"):
		visible := !f.hidden
		d.Visible = &visible
	case cmd.Flags().Changed("visible"):
		visible := f.visible
		d.Visible = &visible
	}

	if f.mediaURL != "" {
		d.Media.URL = f.mediaURL
	}
	if f.file != "" {
		file, err := readPendingFile(f.file)
		if err != nil {
			return models.Draft{}, err
		}
		d.Media.File = file
	}

	return d, nil
}

func readPendingFile(path string) (*models.PendingFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading image: %w", err)
	}

	contentType := mime.TypeByExtension(filepath.Ext(path))
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}

	return &models.PendingFile{
		Name:        filepath.Base(path),
		ContentType: contentType,
		Data:        data,
	}, nil
}

func (c *cli) createCmd() *cobra.Command {
	flags := &draftFlags{}
	cmd := &cobra.Command{
		Use:   "create <resource>",
		Short: "Add a record",
		Example: `  adminctl create scroller-texts --set text="Admissions open"
  adminctl create scroller-images --set title=Campus --file campus.jpg --hidden`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := flags.draft(cmd)
			if err != nil {
				return err
			}
			s, err := c.loaded(cmd, args[0])
			if err != nil {
				return err
			}
			if err := s.Create(cmd.Context(), d); err != nil {
				return errors.New(synchronizer.Message(err))
			}
			printOK(cmd.OutOrStdout(), "record created")
			printRecords(cmd.OutOrStdout(), s.Config(), s.Records())
			return nil
		},
	}
	flags.register(cmd, false)
	return cmd
}

func (c *cli) updateCmd() *cobra.Command {
	flags := &draftFlags{}
	cmd := &cobra.Command{
		Use:   "update <resource> <id>",
		Short: "Edit a record; fields that are not set keep their value",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[1])
			if err != nil {
				return err
			}
			d, err := flags.draft(cmd)
			if err != nil {
				return err
			}
			s, err := c.loaded(cmd, args[0])
			if err != nil {
				return err
			}
			if err := s.Update(cmd.Context(), id, d); err != nil {
				return errors.New(synchronizer.Message(err))
			}
			printOK(cmd.OutOrStdout(), fmt.Sprintf("record %d updated", id))
			printRecords(cmd.OutOrStdout(), s.Config(), s.Records())
			return nil
		},
	}
	flags.register(cmd, true)
	return cmd
}

func (c *cli) deleteCmd() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "delete <resource> <id>",
		Short: "Delete a record after confirmation",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[1])
			if err != nil {
				return err
			}
			s, err := c.loaded(cmd, args[0])
			if err != nil {
				return err
			}

			deleted := false
			confirm := func(rec models.Record) bool {
				deleted = yes || askConfirm(cmd, s.Config(), rec)
				return deleted
			}
			if err := s.Delete(cmd.Context(), id, confirm); err != nil {
				return errors.New(synchronizer.Message(err))
			}

			if deleted {
				printOK(cmd.OutOrStdout(), fmt.Sprintf("record %d deleted", id))
			} else {
				fmt.Fprintln(cmd.OutOrStdout(), mutedStyle.Render("nothing deleted"))
			}
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "do not ask for confirmation")
	return cmd
}

func askConfirm(cmd *cobra.Command, cfg synchronizer.Config, rec models.Record) bool {
	out := cmd.OutOrStdout()
	printRecords(out, cfg, []models.Record{rec})
	fmt.Fprintf(out, "Delete record %d from %s? [y/N] ", rec.ID, cfg.Name)

	answer, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && answer == "" {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true
	default:
		return false
	}
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid record id %q", s)
	}
	return id, nil
}

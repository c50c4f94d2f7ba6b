package main

import (
	"fmt"
	"net/http"
	"time"

	"github.com/atcnagpur/contentadmin/internal/config"
	"github.com/atcnagpur/contentadmin/internal/logger"
	"github.com/atcnagpur/contentadmin/internal/resources"
	"github.com/atcnagpur/contentadmin/internal/synchronizer"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const defaultTimeout = 30 * time.Second

type cli struct {
	cfg      *config.ServerConfig
	timeout  time.Duration
	logger   *zap.SugaredLogger
	registry *resources.Registry
}

func newRootCmd() *cobra.Command {
	c := &cli{cfg: config.Default()}
	c.cfg.LogLevel = "warn"

	root := &cobra.Command{
		Use:   "adminctl",
		Short: "Manage the public site's content lists",
		Long: `adminctl lists, creates, edits and deletes the records behind the
public site (hero links, scrollers, photos, features, gallery, community
sliders) through the site's PHP API.`,
		SilenceUsage:      true,
		PersistentPreRunE: c.setup,
	}

	f := root.PersistentFlags()
	f.StringVarP(&c.cfg.BackendURL, "backend", "b", c.cfg.BackendURL, "content API base URL")
	f.StringVarP(&c.cfg.GalleryBackendURL, "gallery", "g", c.cfg.GalleryBackendURL, "gallery API base URL")
	f.StringVarP(&c.cfg.OverridesPath, "overrides", "r", "", "resource overrides YAML file")
	f.StringVarP(&c.cfg.LogLevel, "log-level", "l", c.cfg.LogLevel, "log level")
	f.DurationVar(&c.timeout, "timeout", defaultTimeout, "backend request timeout")

	root.AddCommand(
		c.resourcesCmd(),
		c.listCmd(),
		c.createCmd(),
		c.updateCmd(),
		c.deleteCmd(),
	)

	return root
}

func (c *cli) setup(_ *cobra.Command, _ []string) error {
	if err := config.ApplyEnv(c.cfg); err != nil {
		return err
	}

	log, err := logger.NewLogger(c.cfg.LogLevel)
	if err != nil {
		return err
	}
	c.logger = log

	c.registry, err = resources.FromConfig(c.cfg, &http.Client{Timeout: c.timeout}, log)
	return err
}

// loaded returns the named resource after a fresh load.
func (c *cli) loaded(cmd *cobra.Command, name string) (*synchronizer.Synchronizer, error) {
	s, ok := c.registry.Lookup(name)
	if !ok {
		return nil, fmt.Errorf("unknown resource %q, run \"adminctl resources\" for the list", name)
	}
	if err := s.Load(cmd.Context()); err != nil {
		return nil, fmt.Errorf("error loading %s: %s", name, synchronizer.Message(err))
	}
	return s, nil
}

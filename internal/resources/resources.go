// Package resources declares every manageable content list of the site and
// builds a synchronizer for each of them.
package resources

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/atcnagpur/contentadmin/internal/config"
	"github.com/atcnagpur/contentadmin/internal/models"
	"github.com/atcnagpur/contentadmin/internal/records"
	"github.com/atcnagpur/contentadmin/internal/synchronizer"
	"github.com/atcnagpur/contentadmin/internal/transport"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type Host int

const (
	HostBackend Host = iota
	HostGallery
)

const loadAllLimit = 4

type Descriptor struct {
	Sync      synchronizer.Config
	Host      Host
	Endpoints map[transport.Action]transport.Endpoint
}

func (d Descriptor) Name() string {
	return d.Sync.Name
}

// AdapterFactory builds the transport for one descriptor.
type AdapterFactory func(d Descriptor) (transport.Adapter, error)

// HTTPAdapters returns the factory used in production: every descriptor talks
// to its backend host over client.
func HTTPAdapters(cfg *config.ServerConfig, client *http.Client, logger *zap.SugaredLogger) AdapterFactory {
	return func(d Descriptor) (transport.Adapter, error) {
		base := cfg.BackendURL
		if d.Host == HostGallery {
			base = cfg.GalleryBackendURL
		}
		return transport.NewHTTPAdapter(client, base, d.Endpoints, logger.Named("transport").With("resource", d.Name()))
	}
}

// FromConfig builds the registry of the built-in descriptors, adjusted by
// the overrides file when one is configured.
func FromConfig(cfg *config.ServerConfig, client *http.Client, logger *zap.SugaredLogger) (*Registry, error) {
	descs := Defaults()
	if cfg.OverridesPath != "" {
		o, err := LoadOverrides(cfg.OverridesPath)
		if err != nil {
			return nil, err
		}
		if descs, err = o.Apply(descs); err != nil {
			return nil, fmt.Errorf("error applying overrides: %w", err)
		}
		logger.Infow("resource overrides applied", "path", cfg.OverridesPath, "resources", len(o.Resources))
	}

	return NewRegistry(descs, HTTPAdapters(cfg, client, logger), logger)
}

type Registry struct {
	order []string
	syncs map[string]*synchronizer.Synchronizer
}

func NewRegistry(descs []Descriptor, factory AdapterFactory, logger *zap.SugaredLogger) (*Registry, error) {
	r := &Registry{
		order: make([]string, 0, len(descs)),
		syncs: make(map[string]*synchronizer.Synchronizer, len(descs)),
	}

	for _, d := range descs {
		if _, dup := r.syncs[d.Name()]; dup {
			return nil, fmt.Errorf("duplicate resource %q", d.Name())
		}
		adapter, err := factory(d)
		if err != nil {
			return nil, fmt.Errorf("error building transport for %s: %w", d.Name(), err)
		}
		r.order = append(r.order, d.Name())
		r.syncs[d.Name()] = synchronizer.New(d.Sync, adapter, logger.Named("synchronizer"))
	}

	return r, nil
}

func (r *Registry) Names() []string {
	names := make([]string, len(r.order))
	copy(names, r.order)
	return names
}

func (r *Registry) Lookup(name string) (*synchronizer.Synchronizer, bool) {
	s, ok := r.syncs[name]
	return s, ok
}

// LoadAll refreshes every resource concurrently and returns the first
// failure. A failing resource keeps its previous records and does not cancel
// the others.
func (r *Registry) LoadAll(ctx context.Context) error {
	var g errgroup.Group
	g.SetLimit(loadAllLimit)

	for _, name := range r.order {
		s := r.syncs[name]
		g.Go(func() error {
			if err := s.Load(ctx); err != nil {
				return fmt.Errorf("%s: %w", s.Config().Name, err)
			}
			return nil
		})
	}

	return g.Wait()
}

func (r *Registry) Summary() []models.ResourceSummary {
	result := make([]models.ResourceSummary, 0, len(r.order))
	for _, name := range r.order {
		s := r.syncs[name]
		list := s.Records()
		status := s.Status()
		result = append(result, models.ResourceSummary{
			Name:    name,
			Title:   s.Config().Title,
			Total:   len(list),
			Visible: records.CountVisible(list),
			State:   status.State.String(),
			Message: status.Message,
		})
	}
	return result
}

// ConfirmDelete finishes the pending deletion identified by token in
// whichever resource issued it.
func (r *Registry) ConfirmDelete(ctx context.Context, token string) error {
	for _, name := range r.order {
		err := r.syncs[name].ConfirmDelete(ctx, token)
		if errors.Is(err, synchronizer.ErrUnknownToken) {
			continue
		}
		return err
	}
	return synchronizer.ErrUnknownToken
}

func (r *Registry) CancelDelete(token string) error {
	for _, name := range r.order {
		if err := r.syncs[name].CancelDelete(token); err == nil {
			return nil
		}
	}
	return synchronizer.ErrUnknownToken
}

// Find returns the descriptor with the given name.
func Find(descs []Descriptor, name string) (Descriptor, bool) {
	for _, d := range descs {
		if d.Name() == name {
			return d, true
		}
	}
	return Descriptor{}, false
}

// Package synchronizer keeps an in-memory list of records consistent with the
// remote content API across load, create, update and delete.
package synchronizer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/atcnagpur/contentadmin/internal/models"
	"github.com/atcnagpur/contentadmin/internal/records"
	"github.com/atcnagpur/contentadmin/internal/transport"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// MediaField may appear in Config.Required to demand an image.
const MediaField = "media"

type ReconcileMode int

const (
	// ReconcileEcho applies the object echoed by the server and falls back to
	// a full load when the server does not echo one.
	ReconcileEcho ReconcileMode = iota
	// ReconcileReload always follows a successful write with a full load.
	ReconcileReload
)

// Wire holds the backend key names that are not plain schema fields.
type Wire struct {
	Visible       string
	File          string
	MediaURL      string
	ExistingMedia string
}

type Config struct {
	Name       string
	Title      string
	Schema     records.Schema
	Required   []string
	ListKey    string
	CreatedKey string
	UpdatedKey string
	Reconcile  ReconcileMode
	Wire       Wire
}

type State int

const (
	StateIdle State = iota
	StateLoading
	StateError
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateError:
		return "error"
	default:
		return "idle"
	}
}

type Status struct {
	State   State
	Message string
}

type Synchronizer struct {
	cfg     Config
	adapter transport.Adapter
	logger  *zap.SugaredLogger

	mu      sync.Mutex
	records []models.Record
	status  Status
	loadSeq uint64
	// loadPending is set while the most recently issued load is running.
	loadPending bool
	mutating    bool
	pending     map[string]int64
}

func New(cfg Config, adapter transport.Adapter, logger *zap.SugaredLogger) *Synchronizer {
	return &Synchronizer{
		cfg:     cfg,
		adapter: adapter,
		logger:  logger.With("resource", cfg.Name),
		records: make([]models.Record, 0),
		pending: make(map[string]int64),
	}
}

func (s *Synchronizer) Config() Config {
	return s.cfg
}

// Records returns a copy of the current list in display order.
func (s *Synchronizer) Records() []models.Record {
	s.mu.Lock()
	defer s.mu.Unlock()

	result := make([]models.Record, 0, len(s.records))
	for _, rec := range s.records {
		result = append(result, rec.Clone())
	}
	return result
}

func (s *Synchronizer) Record(id int64) (models.Record, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := records.IndexOf(s.records, id)
	if idx < 0 {
		return models.Record{}, false
	}
	return s.records[idx].Clone(), true
}

func (s *Synchronizer) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// Load replaces the list with the server's. A failed load keeps the previous
// records. Only the most recently issued load may update state; earlier ones
// return ErrStaleResponse.
func (s *Synchronizer) Load(ctx context.Context) error {
	s.mu.Lock()
	s.loadSeq++
	seq := s.loadSeq
	s.loadPending = true
	s.status = Status{State: StateLoading}
	s.mu.Unlock()

	list, err := s.fetch(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	if seq != s.loadSeq {
		s.logger.Debugw("discarding stale load", "seq", seq, "latest", s.loadSeq)
		return ErrStaleResponse
	}
	s.loadPending = false
	if err != nil {
		s.status = Status{State: StateError, Message: Message(err)}
		s.logger.Errorw("load failed", "error", err)
		return err
	}

	s.records = list
	s.status = s.settled()
	return nil
}

func (s *Synchronizer) fetch(ctx context.Context) ([]models.Record, error) {
	env, err := s.adapter.Do(ctx, transport.ActionList, transport.Request{})
	if err != nil {
		return nil, &NetworkError{Op: "load", Err: err}
	}
	if !env.OK() {
		return nil, newServerError("load", env)
	}

	items, err := env.Items(s.cfg.ListKey)
	if err != nil {
		return nil, &ServerError{Op: "load", StatusCode: env.StatusCode, Message: err.Error()}
	}

	list, err := records.NormalizeList(items, s.cfg.Schema)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}

	return records.SortByVisibility(s.dedupe(list)), nil
}

func (s *Synchronizer) dedupe(list []models.Record) []models.Record {
	seen := make(map[int64]struct{}, len(list))
	result := make([]models.Record, 0, len(list))
	for _, rec := range list {
		if _, ok := seen[rec.ID]; ok {
			s.logger.Warnw("dropping duplicate record from server", "id", rec.ID)
			continue
		}
		seen[rec.ID] = struct{}{}
		result = append(result, rec)
	}
	return result
}

// Create validates the draft locally, sends it and inserts the echoed
// record. Without an echo the list is reloaded.
func (s *Synchronizer) Create(ctx context.Context, d models.Draft) error {
	if err := s.validate(d.Fields, d.Media.IsPending() || s.sendsMediaURL(d)); err != nil {
		s.fail(err)
		return err
	}
	if err := s.begin(); err != nil {
		return err
	}

	env, err := s.adapter.Do(ctx, transport.ActionCreate, transport.Request{Payload: s.buildPayload(d, nil)})
	if err != nil {
		return s.end(&NetworkError{Op: "create", Err: err})
	}
	if !env.OK() {
		return s.end(newServerError("create", env))
	}

	if s.cfg.Reconcile == ReconcileEcho && s.cfg.CreatedKey != "" {
		if obj, ok := env.Object(s.cfg.CreatedKey); ok {
			rec, err := records.Normalize(obj, s.cfg.Schema, true)
			if err == nil {
				s.insert(rec)
				s.logger.Infow("record created", "id", rec.ID)
				return s.end(nil)
			}
			s.logger.Warnw("echoed record cannot be normalized, reloading", "error", err)
		}
	}

	_ = s.end(nil)
	return s.reconcile(ctx, "create")
}

// Update sends the draft for an existing record. Media the draft does not
// replace is forwarded so the backend keeps it.
func (s *Synchronizer) Update(ctx context.Context, id int64, d models.Draft) error {
	prev, ok := s.Record(id)
	if !ok {
		err := &NotFoundError{Resource: s.cfg.Name, ID: id}
		s.fail(err)
		return err
	}

	merged := s.merge(prev, d)
	if err := s.validate(merged.Fields, d.Media.IsPending() || merged.Media.URL != ""); err != nil {
		s.fail(err)
		return err
	}
	if err := s.begin(); err != nil {
		return err
	}

	env, err := s.adapter.Do(ctx, transport.ActionUpdate, transport.Request{ID: id, Payload: s.buildPayload(d, &prev)})
	if err != nil {
		return s.end(&NetworkError{Op: "update", Err: err})
	}
	if !env.OK() {
		return s.end(newServerError("update", env))
	}

	reload := s.cfg.Reconcile == ReconcileReload
	echoedMedia := false
	if s.cfg.UpdatedKey != "" {
		if obj, ok := env.Object(s.cfg.UpdatedKey); ok {
			merged = records.Overlay(merged, obj, s.cfg.Schema)
			echoedMedia = hasAny(obj, s.cfg.Schema.Media)
		}
	}
	if d.Media.IsPending() && !echoedMedia {
		// the stored URL of the uploaded file is only known to the server
		reload = true
	}

	if !reload {
		s.mu.Lock()
		if idx := records.IndexOf(s.records, id); idx >= 0 {
			s.records[idx] = merged
			s.records = records.SortByVisibility(s.records)
		}
		s.mu.Unlock()
		s.logger.Infow("record updated", "id", id)
		return s.end(nil)
	}

	_ = s.end(nil)
	return s.reconcile(ctx, "update")
}

// Delete asks confirm before removing the record. A declined or nil confirm
// is a no-op.
func (s *Synchronizer) Delete(ctx context.Context, id int64, confirm func(models.Record) bool) error {
	rec, ok := s.Record(id)
	if !ok {
		err := &NotFoundError{Resource: s.cfg.Name, ID: id}
		s.fail(err)
		return err
	}
	if confirm == nil || !confirm(rec) {
		s.logger.Debugw("delete declined", "id", id)
		return nil
	}

	return s.remove(ctx, id, "")
}

// RequestDelete starts the two-step delete and returns the token that
// ConfirmDelete or CancelDelete expects.
func (s *Synchronizer) RequestDelete(id int64) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if records.IndexOf(s.records, id) < 0 {
		err := &NotFoundError{Resource: s.cfg.Name, ID: id}
		s.status = Status{State: StateError, Message: err.Error()}
		return "", err
	}

	token := uuid.NewString()
	s.pending[token] = id
	return token, nil
}

// ConfirmDelete consumes the token once the delete is under way. A busy
// synchronizer leaves the token valid for a retry.
func (s *Synchronizer) ConfirmDelete(ctx context.Context, token string) error {
	s.mu.Lock()
	id, ok := s.pending[token]
	s.mu.Unlock()

	if !ok {
		return ErrUnknownToken
	}

	return s.remove(ctx, id, token)
}

func (s *Synchronizer) CancelDelete(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.pending[token]; !ok {
		return ErrUnknownToken
	}
	delete(s.pending, token)
	return nil
}

func (s *Synchronizer) remove(ctx context.Context, id int64, token string) error {
	if _, ok := s.Record(id); !ok {
		s.dropToken(token)
		err := &NotFoundError{Resource: s.cfg.Name, ID: id}
		s.fail(err)
		return err
	}
	if err := s.begin(); err != nil {
		return err
	}
	s.dropToken(token)

	env, err := s.adapter.Do(ctx, transport.ActionDelete, transport.Request{ID: id})
	if err != nil {
		return s.end(&NetworkError{Op: "delete", Err: err})
	}
	if !env.OK() {
		return s.end(newServerError("delete", env))
	}

	s.mu.Lock()
	if idx := records.IndexOf(s.records, id); idx >= 0 {
		s.records = append(s.records[:idx:idx], s.records[idx+1:]...)
	}
	for token, pendingID := range s.pending {
		if pendingID == id {
			delete(s.pending, token)
		}
	}
	s.mu.Unlock()
	s.logger.Infow("record deleted", "id", id)

	_ = s.end(nil)
	if s.cfg.Reconcile == ReconcileReload {
		return s.reconcile(ctx, "delete")
	}
	return nil
}

func (s *Synchronizer) reconcile(ctx context.Context, op string) error {
	err := s.Load(ctx)
	if err == nil || errors.Is(err, ErrStaleResponse) {
		return nil
	}
	return fmt.Errorf("%s succeeded but reload failed: %w", op, err)
}

func (s *Synchronizer) insert(rec models.Record) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if idx := records.IndexOf(s.records, rec.ID); idx >= 0 {
		s.records[idx] = rec
	} else {
		s.records = append(s.records, rec)
	}
	s.records = records.SortByVisibility(s.records)
}

func (s *Synchronizer) begin() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.mutating {
		return ErrBusy
	}
	s.mutating = true
	s.status = Status{State: StateLoading}
	return nil
}

func (s *Synchronizer) end(err error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.mutating = false
	if err != nil {
		s.status = Status{State: StateError, Message: Message(err)}
		s.logger.Errorw("change failed", "error", err)
		return err
	}
	s.status = s.settled()
	return nil
}

// settled is the status after a successful step; it stays loading while a
// load or a mutation is still in flight. Callers hold mu.
func (s *Synchronizer) settled() Status {
	if s.loadPending || s.mutating {
		return Status{State: StateLoading}
	}
	return Status{State: StateIdle}
}

func (s *Synchronizer) dropToken(token string) {
	if token == "" {
		return
	}
	s.mu.Lock()
	delete(s.pending, token)
	s.mu.Unlock()
}

func (s *Synchronizer) fail(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status = Status{State: StateError, Message: Message(err)}
}

func (s *Synchronizer) validate(fields map[string]string, hasMedia bool) error {
	for _, name := range s.cfg.Required {
		if name == MediaField {
			if !hasMedia {
				return &ValidationError{Resource: s.cfg.Name, Field: name}
			}
			continue
		}
		if strings.TrimSpace(fields[name]) == "" {
			return &ValidationError{Resource: s.cfg.Name, Field: name}
		}
	}
	return nil
}

func newServerError(op string, env *transport.Envelope) *ServerError {
	return &ServerError{
		Op:         op,
		StatusCode: env.StatusCode,
		Message:    serverMessage(env.Message, env.StatusCode),
		NonJSON:    env.NonJSON,
	}
}

func hasAny(raw map[string]any, keys []string) bool {
	for _, k := range keys {
		if _, ok := raw[k]; ok {
			return true
		}
	}
	return false
}

package synchronizer

import (
	"github.com/atcnagpur/contentadmin/internal/models"
	"github.com/atcnagpur/contentadmin/internal/records"
	"github.com/atcnagpur/contentadmin/internal/transport"
)

const defaultFileKey = "file"

// buildPayload renders d in wire names. prev is nil for create; for update
// every value the draft leaves out is taken from prev, and the current media
// URL is always forwarded unless a new file replaces it.
func (s *Synchronizer) buildPayload(d models.Draft, prev *models.Record) transport.Payload {
	p := transport.Payload{}

	for _, f := range s.cfg.Schema.Fields {
		v, ok := d.Fields[f.Name]
		if !ok && prev != nil {
			v = prev.Fields[f.Name]
		}
		p.Set(s.wireKey(f, prev), v)
	}

	visible := true
	if prev != nil {
		visible = prev.Visible
	}
	if d.Visible != nil {
		visible = *d.Visible
	}
	if s.cfg.Wire.Visible != "" {
		p.Set(s.cfg.Wire.Visible, models.VisibilityFlag(visible))
	}

	mediaURL := d.Media.URL
	if mediaURL == "" && prev != nil {
		mediaURL = prev.Media.URL
	}

	if d.Media.IsPending() {
		p.File = d.Media.File
		p.FileKey = s.cfg.Wire.File
		if p.FileKey == "" {
			p.FileKey = defaultFileKey
		}
	} else if s.cfg.Wire.MediaURL != "" {
		p.Set(s.cfg.Wire.MediaURL, mediaURL)
	}

	if prev != nil && s.cfg.Wire.ExistingMedia != "" {
		p.Set(s.cfg.Wire.ExistingMedia, prev.Media.URL)
	}

	return p
}

// wireKey is the key a field is sent under. An adaptive field keeps the alias
// the record was read with; a new record follows the records already loaded.
func (s *Synchronizer) wireKey(f records.Field, prev *models.Record) string {
	if !f.Adaptive {
		return f.WireName()
	}
	if prev != nil {
		if key, ok := prev.WireKeys[f.Name]; ok {
			return key
		}
		return f.WireName()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, rec := range s.records {
		if key, ok := rec.WireKeys[f.Name]; ok {
			return key
		}
	}
	return f.WireName()
}

// sendsMediaURL reports whether a URL given in a draft reaches the backend.
func (s *Synchronizer) sendsMediaURL(d models.Draft) bool {
	return !d.Media.IsPending() && d.Media.URL != "" && s.cfg.Wire.MediaURL != ""
}

// merge applies the draft to prev the way a successful update would.
func (s *Synchronizer) merge(prev models.Record, d models.Draft) models.Record {
	rec := prev.Clone()
	for k, v := range d.Fields {
		if _, known := rec.Fields[k]; known {
			rec.Fields[k] = v
		}
	}
	if d.Visible != nil {
		rec.Visible = *d.Visible
	}
	if s.sendsMediaURL(d) {
		rec.Media = models.MediaRef{URL: d.Media.URL}
	}
	return rec
}

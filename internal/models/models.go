package models

const (
	FlagVisible = "Y"
	FlagHidden  = "N"
)

type PendingFile struct {
	Name        string
	ContentType string
	Data        []byte
}

// MediaRef points either to an image already stored by the backend (URL)
// or to a local file that still has to be uploaded (File).
type MediaRef struct {
	URL  string      `json:"url,omitempty"`
	File *PendingFile `json:"-"`
}

func (m MediaRef) IsPending() bool {
	return m.File != nil
}

func (m MediaRef) IsZero() bool {
	return m.URL == "" && m.File == nil
}

type Record struct {
	ID      int64             `json:"id"`
	Fields  map[string]string `json:"fields"`
	Media   MediaRef          `json:"media"`
	Visible bool              `json:"visible"`
	// WireKeys remembers, per adaptive field, the backend key the value was
	// read from.
	WireKeys map[string]string `json:"-"`
}

func (r Record) Clone() Record {
	fields := make(map[string]string, len(r.Fields))
	for k, v := range r.Fields {
		fields[k] = v
	}
	r.Fields = fields

	if r.WireKeys != nil {
		keys := make(map[string]string, len(r.WireKeys))
		for k, v := range r.WireKeys {
			keys[k] = v
		}
		r.WireKeys = keys
	}
	return r
}

func (r Record) Flag() string {
	return VisibilityFlag(r.Visible)
}

// Draft carries the user's input for create and update. A nil Visible keeps
// the previous value on update and defaults to visible on create. Fields
// absent from the map keep their previous value on update.
type Draft struct {
	Fields  map[string]string
	Media   MediaRef
	Visible *bool
}

func VisibilityFlag(visible bool) string {
	if visible {
		return FlagVisible
	}
	return FlagHidden
}

type ResourceSummary struct {
	Name    string `json:"name"`
	Title   string `json:"title"`
	Total   int    `json:"total"`
	Visible int    `json:"visible"`
	State   string `json:"state"`
	Message string `json:"message,omitempty"`
}

type SummaryRes struct {
	Success   bool              `json:"success"`
	Message   string            `json:"message,omitempty"`
	Resources []ResourceSummary `json:"resources"`
}

type RecordsRes struct {
	Success bool     `json:"success"`
	Message string   `json:"message,omitempty"`
	State   string   `json:"state"`
	Records []Record `json:"records"`
}

type DraftReq struct {
	Fields   map[string]string `json:"fields"`
	Visible  *bool             `json:"visible"`
	MediaURL string            `json:"media_url"`
}

type DeleteTokenRes struct {
	Success bool   `json:"success"`
	Token   string `json:"token"`
}

type MessageRes struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

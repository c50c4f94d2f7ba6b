// Package records turns raw backend objects into canonical records and keeps
// record lists in display order.
package records

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/atcnagpur/contentadmin/internal/models"
)

var ErrNormalization = errors.New("normalization failed")

type NormalizationError struct {
	Keys []string
}

func (e *NormalizationError) Error() string {
	return fmt.Sprintf("record has no identity field (tried %s)", strings.Join(e.Keys, ", "))
}

func (e *NormalizationError) Unwrap() error {
	return ErrNormalization
}

// Field is one canonical attribute of a resource. Aliases are probed in
// order; the first one becomes the wire name unless Wire is set. An Adaptive
// field is written back under the alias it was read from.
type Field struct {
	Name     string   `yaml:"name"`
	Aliases  []string `yaml:"aliases"`
	Wire     string   `yaml:"wire"`
	Adaptive bool     `yaml:"adaptive"`
}

func (f Field) WireName() string {
	if f.Wire != "" {
		return f.Wire
	}
	if len(f.Aliases) > 0 {
		return f.Aliases[0]
	}
	return f.Name
}

type Schema struct {
	ID      []string
	Fields  []Field
	Media   []string
	Visible []string
}

func (s Schema) idKeys() []string {
	if len(s.ID) == 0 {
		return []string{"id"}
	}
	return s.ID
}

func (s Schema) FieldNames() []string {
	names := make([]string, 0, len(s.Fields))
	for _, f := range s.Fields {
		names = append(names, f.Name)
	}
	return names
}

func (s Schema) Field(name string) (Field, bool) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// Normalize builds a canonical record from raw. Keys not named by the schema
// are dropped. With requireID an object lacking a usable id is rejected.
func Normalize(raw map[string]any, schema Schema, requireID bool) (models.Record, error) {
	rec := models.Record{Fields: make(map[string]string, len(schema.Fields))}

	if v, ok := probe(raw, schema.idKeys()); ok {
		if id, ok := parseID(v); ok {
			rec.ID = id
		} else if requireID {
			return models.Record{}, &NormalizationError{Keys: schema.idKeys()}
		}
	} else if requireID {
		return models.Record{}, &NormalizationError{Keys: schema.idKeys()}
	}

	for _, f := range schema.Fields {
		key, v, ok := probeKey(raw, aliasesOf(f))
		rec.Fields[f.Name] = stringify(v)
		if ok && f.Adaptive {
			rec = withWireKey(rec, f.Name, key)
		}
	}

	if v, ok := probe(raw, schema.Media); ok {
		rec.Media = models.MediaRef{URL: stringify(v)}
	}

	v, _ := probe(raw, schema.Visible)
	rec.Visible = ParseVisible(v)

	return rec, nil
}

// NormalizeList normalizes every object of a list payload.
func NormalizeList(items []map[string]any, schema Schema) ([]models.Record, error) {
	result := make([]models.Record, 0, len(items))
	for idx, item := range items {
		rec, err := Normalize(item, schema, true)
		if err != nil {
			return nil, fmt.Errorf("item %d: %w", idx, err)
		}
		result = append(result, rec)
	}

	return result, nil
}

// Overlay copies onto base only the attributes present in raw. The id of
// base is kept.
func Overlay(base models.Record, raw map[string]any, schema Schema) models.Record {
	rec := base.Clone()
	for _, f := range schema.Fields {
		if key, v, ok := probeKey(raw, aliasesOf(f)); ok {
			rec.Fields[f.Name] = stringify(v)
			if f.Adaptive {
				rec = withWireKey(rec, f.Name, key)
			}
		}
	}
	if v, ok := probe(raw, schema.Media); ok {
		rec.Media = models.MediaRef{URL: stringify(v)}
	}
	if v, ok := probe(raw, schema.Visible); ok {
		rec.Visible = ParseVisible(v)
	}

	return rec
}

// ParseVisible accepts "Y", "y", 1 and "1" as visible. Anything else,
// booleans included, is hidden.
func ParseVisible(v any) bool {
	switch t := v.(type) {
	case string:
		return t == "Y" || t == "y" || t == "1"
	case json.Number:
		return t.String() == "1"
	case float64:
		return t == 1
	case int:
		return t == 1
	case int64:
		return t == 1
	default:
		return false
	}
}

func aliasesOf(f Field) []string {
	if len(f.Aliases) == 0 {
		return []string{f.Name}
	}
	return f.Aliases
}

func probe(raw map[string]any, keys []string) (any, bool) {
	_, v, ok := probeKey(raw, keys)
	return v, ok
}

func probeKey(raw map[string]any, keys []string) (string, any, bool) {
	for _, k := range keys {
		if v, ok := raw[k]; ok {
			return k, v, true
		}
	}
	return "", nil, false
}

func withWireKey(rec models.Record, field, key string) models.Record {
	if rec.WireKeys == nil {
		rec.WireKeys = make(map[string]string)
	}
	rec.WireKeys[field] = key
	return rec
}

func parseID(v any) (int64, bool) {
	switch t := v.(type) {
	case json.Number:
		id, err := t.Int64()
		return id, err == nil
	case float64:
		if t != math.Trunc(t) {
			return 0, false
		}
		return int64(t), true
	case int:
		return int64(t), true
	case int64:
		return t, true
	case string:
		id, err := strconv.ParseInt(strings.TrimSpace(t), 10, 64)
		return id, err == nil
	default:
		return 0, false
	}
}

func stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case json.Number:
		return t.String()
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case bool:
		return strconv.FormatBool(t)
	default:
		return fmt.Sprint(t)
	}
}

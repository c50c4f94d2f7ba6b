package resources

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/atcnagpur/contentadmin/internal/records"
	"gopkg.in/yaml.v3"
)

var ErrUnknownOverride = errors.New("override names an unknown resource or field")

// Overrides adapt the built-in descriptors to a backend that drifted: new
// aliases are probed after the built-in ones, wire names and required
// fields are replaced.
type Overrides struct {
	Resources map[string]ResourceOverride `yaml:"resources"`
}

type ResourceOverride struct {
	Title    string                   `yaml:"title"`
	Fields   map[string]FieldOverride `yaml:"fields"`
	Media    []string                 `yaml:"media"`
	Visible  []string                 `yaml:"visible"`
	Required []string                 `yaml:"required"`
}

type FieldOverride struct {
	Aliases  []string `yaml:"aliases"`
	Wire     string   `yaml:"wire"`
	Adaptive *bool    `yaml:"adaptive"`
}

func LoadOverrides(path string) (*Overrides, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("error opening overrides file: %w", err)
	}
	defer f.Close()

	return DecodeOverrides(f)
}

func DecodeOverrides(r io.Reader) (*Overrides, error) {
	o := &Overrides{}
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(o); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("error decoding overrides: %w", err)
	}
	return o, nil
}

// Apply returns copies of descs with o applied.
func (o *Overrides) Apply(descs []Descriptor) ([]Descriptor, error) {
	for name := range o.Resources {
		if _, ok := Find(descs, name); !ok {
			return nil, fmt.Errorf("%w: resource %q", ErrUnknownOverride, name)
		}
	}

	result := make([]Descriptor, 0, len(descs))
	for _, d := range descs {
		ro, ok := o.Resources[d.Name()]
		if !ok {
			result = append(result, d)
			continue
		}

		schema := d.Sync.Schema
		fields := make([]records.Field, len(schema.Fields))
		copy(fields, schema.Fields)

		for fieldName, fo := range ro.Fields {
			idx := fieldIndex(fields, fieldName)
			if idx < 0 {
				return nil, fmt.Errorf("%w: field %q of %q", ErrUnknownOverride, fieldName, d.Name())
			}
			fields[idx].Aliases = appendUnique(fields[idx].Aliases, fo.Aliases...)
			if fo.Wire != "" {
				fields[idx].Wire = fo.Wire
			}
			if fo.Adaptive != nil {
				fields[idx].Adaptive = *fo.Adaptive
			}
		}

		schema.Fields = fields
		schema.Media = appendUnique(schema.Media, ro.Media...)
		schema.Visible = appendUnique(schema.Visible, ro.Visible...)
		d.Sync.Schema = schema

		if ro.Title != "" {
			d.Sync.Title = ro.Title
		}
		if ro.Required != nil {
			d.Sync.Required = append([]string(nil), ro.Required...)
		}

		result = append(result, d)
	}

	return result, nil
}

func fieldIndex(fields []records.Field, name string) int {
	for idx, f := range fields {
		if f.Name == name {
			return idx
		}
	}
	return -1
}

func appendUnique(dst []string, values ...string) []string {
	result := make([]string, len(dst), len(dst)+len(values))
	copy(result, dst)
	for _, v := range values {
		found := false
		for _, existing := range result {
			if existing == v {
				found = true
				break
			}
		}
		if !found {
			result = append(result, v)
		}
	}
	return result
}

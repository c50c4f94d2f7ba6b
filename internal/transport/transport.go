// Package transport translates synchronizer actions into requests against
// the PHP content API and decodes its response envelope.
package transport

import (
	"context"
	"net/url"

	"github.com/atcnagpur/contentadmin/internal/models"
)

type Action string

const (
	ActionList   Action = "list"
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

type Encoding int

const (
	EncodingNone Encoding = iota
	EncodingJSON
	EncodingMultipart
	EncodingForm
)

func (e Encoding) String() string {
	switch e {
	case EncodingJSON:
		return "json"
	case EncodingMultipart:
		return "multipart"
	case EncodingForm:
		return "form"
	default:
		return "none"
	}
}

// Tunnel names the body field a POST-only endpoint reads the logical
// operation from.
type Tunnel int

const (
	TunnelNone Tunnel = iota
	TunnelMethodField
	TunnelActionField
)

const (
	methodFieldKey = "_method"
	actionFieldKey = "action"
)

type Endpoint struct {
	Method string
	// Path is resolved against the adapter's base URL and may carry a query.
	Path  string
	Query url.Values
	// IDParam, when set, adds the record id to the query string.
	IDParam string
	// IDField, when set, adds the record id to the body.
	IDField     string
	Encoding    Encoding
	Tunnel      Tunnel
	TunnelValue string
}

type Field struct {
	Key   string
	Value string
}

// Payload is the ordered wire form of a draft.
type Payload struct {
	Values  []Field
	File    *models.PendingFile
	FileKey string
}

func (p *Payload) Set(key, value string) {
	for idx := range p.Values {
		if p.Values[idx].Key == key {
			p.Values[idx].Value = value
			return
		}
	}
	p.Values = append(p.Values, Field{Key: key, Value: value})
}

func (p Payload) Get(key string) (string, bool) {
	for _, f := range p.Values {
		if f.Key == key {
			return f.Value, true
		}
	}
	return "", false
}

type Request struct {
	ID      int64
	Payload Payload
}

//go:generate mockgen -destination=mocks/mock_adapter.go -package=mocks . Adapter
type Adapter interface {
	Do(ctx context.Context, action Action, req Request) (*Envelope, error)
}

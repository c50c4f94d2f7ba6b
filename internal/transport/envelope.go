package transport

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// Envelope is the uniform {success, message, ...payload} response body.
type Envelope struct {
	Success    bool
	Message    string
	StatusCode int
	// NonJSON is set when the server answered with something other than JSON.
	NonJSON bool
	Raw     map[string]any
	Body    string
}

// OK reports a 2xx response whose envelope says success.
func (e *Envelope) OK() bool {
	return e.Success && e.StatusCode >= http.StatusOK && e.StatusCode < http.StatusMultipleChoices
}

// Lookup resolves a dotted key such as "data.importantLinks".
func (e *Envelope) Lookup(key string) (any, bool) {
	if e.Raw == nil || key == "" {
		return nil, false
	}

	var cur any = e.Raw
	for _, part := range strings.Split(key, ".") {
		obj, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		cur, ok = obj[part]
		if !ok {
			return nil, false
		}
	}

	return cur, true
}

// Items returns the list stored under key. A missing or null list is empty.
func (e *Envelope) Items(key string) ([]map[string]any, error) {
	v, ok := e.Lookup(key)
	if !ok || v == nil {
		return []map[string]any{}, nil
	}

	list, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("payload %q is %T, not a list", key, v)
	}

	result := make([]map[string]any, 0, len(list))
	for idx, item := range list {
		obj, ok := item.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("payload %q item %d is %T, not an object", key, idx, item)
		}
		result = append(result, obj)
	}

	return result, nil
}

// Object returns the object echoed under key, if any.
func (e *Envelope) Object(key string) (map[string]any, bool) {
	v, ok := e.Lookup(key)
	if !ok {
		return nil, false
	}
	obj, ok := v.(map[string]any)
	return obj, ok && obj != nil
}

// DecodeEnvelope never fails on unexpected content: a body that is not JSON
// becomes an unsuccessful envelope carrying the raw text.
func DecodeEnvelope(res *http.Response) (*Envelope, error) {
	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("error reading response body: %w", err)
	}

	env := &Envelope{StatusCode: res.StatusCode}

	if !strings.Contains(res.Header.Get("Content-Type"), "application/json") {
		env.NonJSON = true
		env.Body = string(body)
		env.Message = fmt.Sprintf("Non-JSON response (%d)", res.StatusCode)
		return env, nil
	}

	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	raw := make(map[string]any)
	if err := dec.Decode(&raw); err != nil {
		env.NonJSON = true
		env.Body = string(body)
		env.Message = fmt.Sprintf("Malformed JSON response (%d)", res.StatusCode)
		return env, nil
	}

	env.Raw = raw
	if ok, isBool := raw["success"].(bool); isBool {
		env.Success = ok
	}
	if msg, ok := raw["message"].(string); ok {
		env.Message = msg
	}

	return env, nil
}

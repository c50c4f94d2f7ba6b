package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

const (
	applicationJSON = "application/json"
	formURLEncoded  = "application/x-www-form-urlencoded"
	contentType     = "Content-Type"
)

var (
	ErrNoEndpoint      = errors.New("no endpoint configured for action")
	ErrFileUnsupported = errors.New("file upload requires multipart encoding")
)

type HTTPAdapter struct {
	client    *http.Client
	base      *url.URL
	endpoints map[Action]Endpoint
	logger    *zap.SugaredLogger
}

func NewHTTPAdapter(
	client *http.Client,
	baseURL string,
	endpoints map[Action]Endpoint,
	logger *zap.SugaredLogger,
) (*HTTPAdapter, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("error parsing backend URL %q: %w", baseURL, err)
	}
	if client == nil {
		client = http.DefaultClient
	}

	return &HTTPAdapter{
		client:    client,
		base:      base,
		endpoints: endpoints,
		logger:    logger,
	}, nil
}

func (a *HTTPAdapter) Do(ctx context.Context, action Action, req Request) (*Envelope, error) {
	ep, ok := a.endpoints[action]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNoEndpoint, action)
	}

	httpReq, err := a.buildRequest(ctx, ep, req)
	if err != nil {
		return nil, err
	}

	a.logger.Debugw("backend request",
		"action", action,
		"method", httpReq.Method,
		"url", httpReq.URL.String(),
		"encoding", ep.Encoding.String(),
	)

	res, err := a.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%s request failed: %w", action, err)
	}
	defer res.Body.Close()

	env, err := DecodeEnvelope(res)
	if err != nil {
		return nil, err
	}

	a.logger.Debugw("backend response",
		"action", action,
		"status", env.StatusCode,
		"success", env.Success,
		"non_json", env.NonJSON,
	)

	return env, nil
}

func (a *HTTPAdapter) buildRequest(ctx context.Context, ep Endpoint, req Request) (*http.Request, error) {
	target, err := a.resolve(ep, req.ID)
	if err != nil {
		return nil, err
	}

	if req.Payload.File != nil && ep.Encoding != EncodingMultipart {
		return nil, ErrFileUnsupported
	}

	var (
		body        io.Reader
		bodyType    string
		tunnelKey   string
		tunnelValue = ep.TunnelValue
	)
	switch ep.Tunnel {
	case TunnelMethodField:
		tunnelKey = methodFieldKey
	case TunnelActionField:
		tunnelKey = actionFieldKey
	}

	switch ep.Encoding {
	case EncodingJSON:
		obj := make(map[string]any, len(req.Payload.Values)+2)
		for _, f := range req.Payload.Values {
			obj[f.Key] = f.Value
		}
		if tunnelKey != "" {
			obj[tunnelKey] = tunnelValue
		}
		if ep.IDField != "" && req.ID != 0 {
			obj[ep.IDField] = req.ID
		}
		data, err := json.Marshal(obj)
		if err != nil {
			return nil, fmt.Errorf("error encoding JSON body: %w", err)
		}
		body, bodyType = bytes.NewReader(data), applicationJSON

	case EncodingMultipart:
		buf := &bytes.Buffer{}
		mw := multipart.NewWriter(buf)
		if tunnelKey != "" {
			if err := mw.WriteField(tunnelKey, tunnelValue); err != nil {
				return nil, fmt.Errorf("error writing multipart field: %w", err)
			}
		}
		if ep.IDField != "" && req.ID != 0 {
			if err := mw.WriteField(ep.IDField, strconv.FormatInt(req.ID, 10)); err != nil {
				return nil, fmt.Errorf("error writing multipart field: %w", err)
			}
		}
		for _, f := range req.Payload.Values {
			if err := mw.WriteField(f.Key, f.Value); err != nil {
				return nil, fmt.Errorf("error writing multipart field: %w", err)
			}
		}
		if file := req.Payload.File; file != nil {
			part, err := mw.CreateFormFile(req.Payload.FileKey, file.Name)
			if err != nil {
				return nil, fmt.Errorf("error creating multipart file part: %w", err)
			}
			if _, err := part.Write(file.Data); err != nil {
				return nil, fmt.Errorf("error writing multipart file part: %w", err)
			}
		}
		if err := mw.Close(); err != nil {
			return nil, fmt.Errorf("error closing multipart body: %w", err)
		}
		body, bodyType = buf, mw.FormDataContentType()

	case EncodingForm:
		form := url.Values{}
		if tunnelKey != "" {
			form.Set(tunnelKey, tunnelValue)
		}
		if ep.IDField != "" && req.ID != 0 {
			form.Set(ep.IDField, strconv.FormatInt(req.ID, 10))
		}
		for _, f := range req.Payload.Values {
			form.Set(f.Key, f.Value)
		}
		body, bodyType = strings.NewReader(form.Encode()), formURLEncoded
	}

	method := ep.Method
	if method == "" {
		method = http.MethodGet
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}
	if bodyType != "" {
		httpReq.Header.Set(contentType, bodyType)
	}
	httpReq.Header.Set("Accept", applicationJSON)

	return httpReq, nil
}

func (a *HTTPAdapter) resolve(ep Endpoint, id int64) (string, error) {
	ref, err := url.Parse(ep.Path)
	if err != nil {
		return "", fmt.Errorf("error parsing endpoint path %q: %w", ep.Path, err)
	}
	target := a.base.ResolveReference(ref)

	q := target.Query()
	for k, vs := range ep.Query {
		for _, v := range vs {
			q.Add(k, v)
		}
	}
	if ep.IDParam != "" && id != 0 {
		q.Set(ep.IDParam, strconv.FormatInt(id, 10))
	}
	target.RawQuery = q.Encode()

	return target.String(), nil
}

package app

import (
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/atcnagpur/contentadmin/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

const (
	formVisible  = "visible"
	formMediaURL = "media_url"
	formFile     = "file"

	maxUploadSize = 16 << 20
)

// bindDraft reads a draft either from a JSON DraftReq or from a multipart
// form whose plain values are the record fields.
func bindDraft(c *gin.Context) (models.Draft, error) {
	if c.ContentType() == binding.MIMEMultipartPOSTForm {
		return bindMultipartDraft(c)
	}

	var req models.DraftReq
	if err := c.ShouldBindJSON(&req); err != nil {
		return models.Draft{}, fmt.Errorf("error decoding draft: %w", err)
	}

	draft := models.Draft{
		Fields:  req.Fields,
		Visible: req.Visible,
		Media:   models.MediaRef{URL: strings.TrimSpace(req.MediaURL)},
	}
	if draft.Fields == nil {
		draft.Fields = make(map[string]string)
	}
	return draft, nil
}

func bindMultipartDraft(c *gin.Context) (models.Draft, error) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadSize)
	form, err := c.MultipartForm()
	if err != nil {
		return models.Draft{}, fmt.Errorf("error parsing multipart draft: %w", err)
	}

	draft := models.Draft{Fields: make(map[string]string, len(form.Value))}
	for key, values := range form.Value {
		if len(values) == 0 {
			continue
		}
		switch key {
		case formVisible:
			visible, err := strconv.ParseBool(values[0])
			if err != nil {
				return models.Draft{}, errInvalidVisible
			}
			draft.Visible = &visible
		case formMediaURL:
			draft.Media.URL = strings.TrimSpace(values[0])
		default:
			draft.Fields[key] = values[0]
		}
	}

	files := form.File[formFile]
	if len(files) == 0 {
		return draft, nil
	}

	header := files[0]
	f, err := header.Open()
	if err != nil {
		return models.Draft{}, fmt.Errorf("error opening upload: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return models.Draft{}, fmt.Errorf("error reading upload: %w", err)
	}

	draft.Media = models.MediaRef{File: &models.PendingFile{
		Name:        header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Data:        data,
	}}
	return draft, nil
}

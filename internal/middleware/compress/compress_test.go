package compress

import (
	"compress/gzip"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompress(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(Compress())
	r.GET("/json", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"success": true})
	})
	r.GET("/text", func(c *gin.Context) {
		c.String(http.StatusOK, "pong")
	})

	type args struct {
		path           string
		acceptEncoding string
		wantEncoding   string
		wantBody       string
	}
	tests := []struct {
		name string
		args args
	}{
		{
			name: "json compressed",
			args: args{path: "/json", acceptEncoding: "gzip, deflate", wantEncoding: "gzip", wantBody: `{"success":true}`},
		},
		{
			name: "json without gzip support",
			args: args{path: "/json", wantBody: `{"success":true}`},
		},
		{
			name: "text untouched",
			args: args{path: "/text", acceptEncoding: "gzip", wantBody: "pong"},
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.args.path, nil)
			if tt.args.acceptEncoding != "" {
				req.Header.Set("Accept-Encoding", tt.args.acceptEncoding)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, tt.args.wantEncoding, w.Header().Get("Content-Encoding"))

			var body io.Reader = w.Body
			if tt.args.wantEncoding == "gzip" {
				zr, err := gzip.NewReader(w.Body)
				require.NoError(t, err)
				defer zr.Close()
				body = zr
			}
			data, err := io.ReadAll(body)
			require.NoError(t, err)
			assert.Equal(t, tt.args.wantBody, string(data))
		})
	}
}

package request

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/wardenbot/warden/pkg/logging"
)

func TestNotFoundHandler(t *testing.T) {
	// Setup logger
	l, err := logging.CommonLogger(logging.NewConfig(`tests`))
	require.NoError(t, err, "Failed to create logger")

	tests := []struct {
		name   string
		w      *httptest.ResponseRecorder
		r      *http.Request
		status int
		want   string
	}{
		{
			name:   "NotFound",
			w:      httptest.NewRecorder(),
			r:      httptest.NewRequest(http.MethodGet, "/", nil),
			status: http.StatusNotFound,
			want:   "{\"Message\":\"Not found\"}\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			NotFoundHandler(l).ServeHTTP(tt.w, tt.r)
			require.Equal(t, tt.status, tt.w.Code)
			require.Equal(t, tt.want, tt.w.Body.String())
		})
	}
}

func TestMethodNotAllowedHandler(t *testing.T) {
	l, err := logging.CommonLogger(logging.NewConfig(`tests`))
	require.NoError(t, err, "Failed to create logger")

	tests := []struct {
		name   string
		w      *httptest.ResponseRecorder
		r      *http.Request
		status int
		want   string
	}{
		{
			name:   "MethodNotAllowed",
			w:      httptest.NewRecorder(),
			r:      httptest.NewRequest(http.MethodPost, "/", nil),
			status: http.StatusMethodNotAllowed,
			want:   "{\"Message\":\"Method not allowed\"}\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			MethodNotAllowedHandler(l).ServeHTTP(tt.w, tt.r)
			require.Equal(t, tt.status, tt.w.Code)
			require.Equal(t, tt.want, tt.w.Body.String())
		})
	}
}

func TestClientWriter_StatusCode(t *testing.T) {
	tests := []struct {
		name  string
		write func(w *ClientWriter)
		want  int
	}{
		{
			name:  "Explicit",
			write: func(w *ClientWriter) { w.WriteHeader(http.StatusTeapot) },
			want:  http.StatusTeapot,
		},
		{
			name:  "ImplicitOnWrite",
			write: func(w *ClientWriter) { _, _ = w.Write([]byte("ok")) },
			want:  http.StatusOK,
		},
		{
			name:  "Untouched",
			write: func(w *ClientWriter) {},
			want:  http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cw := NewClientWriter(httptest.NewRecorder())
			tt.write(cw)
			require.Equal(t, tt.want, cw.StatusCode())
		})
	}
}

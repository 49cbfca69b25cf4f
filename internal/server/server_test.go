// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/apa-generator/internal/docx"
	"github.com/pdiddy/apa-generator/internal/documents"
	"github.com/pdiddy/apa-generator/pkg/types"
)

func newTestServer(t *testing.T, cfg types.ServerConfig) *Server {
	t.Helper()
	cfg.Mode = "test"
	logger, _ := test.NewNullLogger()
	s, err := New(cfg, documents.NewService(logger), logger, "v1.2.3")
	require.NoError(t, err)
	return s
}

func do(t *testing.T, s *Server, method, path string, body []byte, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	return w
}

func exampleBody(t *testing.T, mutate func(*types.DocumentConfig)) []byte {
	t.Helper()
	cfg := documents.ExampleConfig()
	if mutate != nil {
		mutate(&cfg)
	}
	data, err := json.Marshal(cfg)
	require.NoError(t, err)
	return data
}

func TestHealth(t *testing.T) {
	w := do(t, newTestServer(t, types.DefaultAppConfig().Server), http.MethodGet, "/health", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "v1.2.3", body["version"])
	_, err := uuid.Parse(w.Header().Get(RequestIDHeader))
	assert.NoError(t, err)
}

func TestRequestIDEchoed(t *testing.T) {
	id := uuid.NewString()
	w := do(t, newTestServer(t, types.DefaultAppConfig().Server), http.MethodGet, "/health", nil,
		map[string]string{RequestIDHeader: id})
	assert.Equal(t, id, w.Header().Get(RequestIDHeader))

	w = do(t, newTestServer(t, types.DefaultAppConfig().Server), http.MethodGet, "/health", nil,
		map[string]string{RequestIDHeader: "not-a-uuid"})
	assert.NotEqual(t, "not-a-uuid", w.Header().Get(RequestIDHeader))
}

func TestGenerate(t *testing.T) {
	s := newTestServer(t, types.DefaultAppConfig().Server)
	w := do(t, s, http.MethodPost, "/documents/generate", exampleBody(t, nil), nil)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, docx.MIMEType, w.Header().Get("Content-Type"))
	assert.Equal(t,
		`attachment; filename="the_impact_of_sleep_on_academic_performance_apa.docx"; `+
			`filename*=UTF-8''the_impact_of_sleep_on_academic_performance_apa.docx`,
		w.Header().Get("Content-Disposition"))
	assert.Equal(t, []byte("PK"), w.Body.Bytes()[:2])
	assert.Equal(t, "1", w.Header().Get(WarningsHeader), "the example book has no DOI")
}

func TestGenerateContentDisposition(t *testing.T) {
	tests := []struct {
		title string
		want  string
	}{
		{
			title: "García Study",
			want:  `attachment; filename="garcía_study_apa.docx"; filename*=UTF-8''garc%C3%ADa_study_apa.docx`,
		},
		{
			title: `A "Quoted" Study; Part 1`,
			want:  `attachment; filename="a_quoted_study;_part_1_apa.docx"; filename*=UTF-8''a_%22quoted%22_study%3B_part_1_apa.docx`,
		},
	}
	s := newTestServer(t, types.DefaultAppConfig().Server)
	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			w := do(t, s, http.MethodPost, "/documents/generate", exampleBody(t, func(c *types.DocumentConfig) {
				c.Title = tt.title
			}), nil)
			require.Equal(t, http.StatusOK, w.Code, w.Body.String())
			assert.Equal(t, tt.want, w.Header().Get("Content-Disposition"))
		})
	}
}

func TestEncodeExtValue(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "plain_name-1.docx", want: "plain_name-1.docx"},
		{in: "a b", want: "a%20b"},
		{in: "x,y=z:@", want: "x%2Cy%3Dz%3A%40"},
		{in: "ñ", want: "%C3%B1"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, encodeExtValue(tt.in), tt.in)
	}
}

func TestGenerateValidationError(t *testing.T) {
	s := newTestServer(t, types.DefaultAppConfig().Server)
	w := do(t, s, http.MethodPost, "/documents/generate", exampleBody(t, func(c *types.DocumentConfig) {
		c.Title = "ab"
		c.CoverPage.Type = "fancy"
	}), nil)

	require.Equal(t, http.StatusBadRequest, w.Code)
	var body errorBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "validation failed", body.Error)
	assert.Contains(t, body.Details, "title: must be at least 3 characters")
	assert.Contains(t, body.Details, "coverPage.type: must be one of: student, professional")
}

func TestGenerateMalformedJSON(t *testing.T) {
	s := newTestServer(t, types.DefaultAppConfig().Server)
	w := do(t, s, http.MethodPost, "/documents/generate", []byte(`{"title":`), nil)
	require.Equal(t, http.StatusBadRequest, w.Code)

	var body errorBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "invalid request body", body.Error)
	assert.NotEmpty(t, body.Details)
}

func TestGenerateTimeout(t *testing.T) {
	cfg := types.DefaultAppConfig().Server
	cfg.GenerateTimeout = time.Nanosecond
	s := newTestServer(t, cfg)
	w := do(t, s, http.MethodPost, "/documents/generate", exampleBody(t, nil), nil)
	// Generation may still beat a one-nanosecond deadline.
	if w.Code != http.StatusOK {
		assert.Equal(t, http.StatusGatewayTimeout, w.Code)
		assert.Contains(t, w.Body.String(), "timed out")
	}
}

func TestSampleDocument(t *testing.T) {
	w := do(t, newTestServer(t, types.DefaultAppConfig().Server), http.MethodGet, "/documents/test", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, `attachment; filename="test_apa.docx"; filename*=UTF-8''test_apa.docx`,
		w.Header().Get("Content-Disposition"))
	assert.Equal(t, docx.MIMEType, w.Header().Get("Content-Type"))
}

func TestCORS(t *testing.T) {
	cfg := types.DefaultAppConfig().Server
	cfg.CORSOrigins = []string{"https://app.example"}
	s := newTestServer(t, cfg)

	w := do(t, s, http.MethodOptions, "/documents/generate", nil, map[string]string{"Origin": "https://app.example"})
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "https://app.example", w.Header().Get("Access-Control-Allow-Origin"))

	w = do(t, s, http.MethodGet, "/health", nil, map[string]string{"Origin": "https://evil.example"})
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORSConfig(t *testing.T) {
	tests := []struct {
		name    string
		origins []string
		origin  string
		wantErr bool
		want    string
	}{
		{name: "any origin", origin: "https://app.example", want: "*"},
		{name: "listed origin", origins: []string{"https://app.example"}, origin: "https://app.example", want: "https://app.example"},
		{name: "origin without scheme", origins: []string{"app.example"}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, _ := test.NewNullLogger()
			cfg := types.DefaultAppConfig().Server
			cfg.Mode = "test"
			cfg.CORSOrigins = tt.origins
			s, err := New(cfg, documents.NewService(logger), logger, "v1.2.3")
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)

			w := do(t, s, http.MethodGet, "/health", nil, map[string]string{"Origin": tt.origin})
			assert.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, tt.want, w.Header().Get("Access-Control-Allow-Origin"))
			assert.Contains(t, w.Header().Get("Access-Control-Expose-Headers"), "Content-Disposition")
		})
	}
}

func TestAddr(t *testing.T) {
	s := newTestServer(t, types.ServerConfig{Host: "127.0.0.1", Port: 8080})
	assert.Equal(t, "127.0.0.1:8080", s.Addr())
}

package testutil

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/furnitureops/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// HTTPTestCase drives one handler invocation.
// Body is JSON encoded when set. Setup runs after the request is built and
// before the handler, which is where tenant ids and path params go.
type HTTPTestCase struct {
	Name           string
	Method         string
	Path           string
	Body           any
	Headers        map[string]string
	ExpectedStatus int
	Setup          func(t *testing.T, tc *TestContext)
	Validate       func(t *testing.T, tc *TestContext)
}

// RunHTTPTestCases runs every case as a subtest against handler.
func RunHTTPTestCases(t *testing.T, handler gin.HandlerFunc, cases []HTTPTestCase) {
	t.Helper()
	for _, tc := range cases {
		t.Run(tc.Name, func(t *testing.T) {
			runHTTPTestCase(t, handler, tc)
		})
	}
}

func runHTTPTestCase(t *testing.T, handler gin.HandlerFunc, hc HTTPTestCase) {
	t.Helper()

	method := hc.Method
	if method == "" {
		method = http.MethodGet
	}
	path := hc.Path
	if path == "" {
		path = "/"
	}

	var body io.Reader
	if hc.Body != nil {
		raw, err := json.Marshal(hc.Body)
		require.NoError(t, err)
		body = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, body)
	if hc.Body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range hc.Headers {
		req.Header.Set(k, v)
	}

	tc := NewTestContext(req)
	if hc.Setup != nil {
		hc.Setup(t, tc)
	}
	handler(tc.Context)

	if hc.ExpectedStatus != 0 {
		assert.Equal(t, hc.ExpectedStatus, tc.Recorder.Code, "body: %s", tc.Recorder.Body.String())
	}
	if hc.Validate != nil {
		hc.Validate(t, tc)
	}
}

// DecodeResponse parses the {success,data}/{error} envelope.
func DecodeResponse(t *testing.T, tc *TestContext) dto.Response {
	t.Helper()
	var resp dto.Response
	require.NoError(t, json.Unmarshal(tc.Recorder.Body.Bytes(), &resp), "body: %s", tc.Recorder.Body.String())
	return resp
}

// DecodeData asserts a success envelope and decodes its data field into T.
func DecodeData[T any](t *testing.T, tc *TestContext) T {
	t.Helper()
	var envelope struct {
		Success bool `json:"success"`
		Data    T    `json:"data"`
	}
	require.NoError(t, json.Unmarshal(tc.Recorder.Body.Bytes(), &envelope), "body: %s", tc.Recorder.Body.String())
	require.True(t, envelope.Success, "body: %s", tc.Recorder.Body.String())
	return envelope.Data
}

// AssertErrorResponse checks for an error envelope carrying code.
func AssertErrorResponse(t *testing.T, tc *TestContext, code string) {
	t.Helper()
	resp := DecodeResponse(t, tc)
	assert.False(t, resp.Success)
	require.NotNil(t, resp.Error, "expected an error object")
	assert.Equal(t, code, resp.Error.Code)
}

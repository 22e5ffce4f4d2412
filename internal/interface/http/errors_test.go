package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Gitsandu/taskmanagementBackend/internal/application"
	"github.com/Gitsandu/taskmanagementBackend/internal/domain/apperror"
)

func TestStatusFor(t *testing.T) {
	cases := map[apperror.Kind]int{
		apperror.KindValidation:      http.StatusBadRequest,
		apperror.KindUnauthenticated: http.StatusUnauthorized,
		apperror.KindForbidden:       http.StatusForbidden,
		apperror.KindNotFound:        http.StatusNotFound,
		apperror.KindConflict:        http.StatusConflict,
		apperror.KindInternal:        http.StatusInternalServerError,
	}
	for k, want := range cases {
		assert.Equal(t, want, StatusFor(k), k.String())
	}
}

func TestWriteError(t *testing.T) {
	gin.SetMode(gin.TestMode)
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	run := func(err error) (int, map[string]any) {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
		writeError(c, logger, err)
		var body map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		return w.Code, body
	}

	code, body := run(apperror.Validation("bad", map[string]string{"days": "must be an integer"}))
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "bad", body["message"])
	assert.Equal(t, map[string]any{"days": "must be an integer"}, body["error"])

	code, body = run(apperror.Internal("query tasks", errors.New("pq: password=hunter2")))
	assert.Equal(t, http.StatusInternalServerError, code)
	assert.Equal(t, "internal server error", body["message"])
	assert.NotContains(t, body, "error")

	code, _ = run(errors.New("untyped"))
	assert.Equal(t, http.StatusInternalServerError, code)
}

func TestDaysParam(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cases := []struct {
		query   string
		want    int
		wantErr bool
	}{
		{"", application.DefaultWindowDays, false},
		{"?days=30", 30, false},
		{"?days=0", 0, false},
		{"?days=abc", 0, true},
		{"?days=", 0, true},
		{"?days=1.5", 0, true},
	}
	for _, tc := range cases {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest(http.MethodGet, "/x"+tc.query, nil)
		got, err := daysParam(c)
		if tc.wantErr {
			assert.True(t, apperror.Is(err, apperror.KindValidation), tc.query)
			continue
		}
		require.NoError(t, err, tc.query)
		assert.Equal(t, tc.want, got, tc.query)
	}
}

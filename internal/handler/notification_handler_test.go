package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/quocanhngo/pushreg/internal/model"
	"github.com/quocanhngo/pushreg/internal/repository"
	"github.com/quocanhngo/pushreg/internal/service"
	"github.com/quocanhngo/pushreg/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const registerPath = "/api/notifications/register"

func init() {
	gin.SetMode(gin.TestMode)
}

func newEngine(store service.TokenStore) *gin.Engine {
	h := NewNotificationHandler(service.NewNotificationService(store))
	r := gin.New()
	r.POST(registerPath, h.Register)
	return r
}

func postJSON(t *testing.T, r http.Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, registerPath, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRegister_Scenario(t *testing.T) {
	repo := repository.NewNotificationTokenRepository(testutil.NewDB(t))
	r := newEngine(repo)
	ctx := context.Background()

	w := postJSON(t, r, `{"deviceId":"dev-1","token":"tok-A","platform":"ios"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var first model.RegisterTokenResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &first))
	assert.True(t, first.Success)
	assert.Equal(t, "tok-A", first.Data.Token)

	w = postJSON(t, r, `{"deviceId":"dev-1","token":"tok-B","platform":"ios"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var second model.RegisterTokenResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &second))
	assert.Equal(t, first.Data.ID, second.Data.ID)
	assert.Equal(t, "tok-B", second.Data.Token)

	stored, err := repo.FindByDeviceID(ctx, "dev-1")
	require.NoError(t, err)
	assert.Equal(t, "tok-B", stored.Token)

	w = postJSON(t, r, `{"deviceId":"dev-2","token":"","platform":"android"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	count, err := repo.CountByDeviceID(ctx, "dev-2")
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestRegister_ResponseShape(t *testing.T) {
	r := newEngine(repository.NewNotificationTokenRepository(testutil.NewDB(t)))

	w := postJSON(t, r, `{"deviceId":"dev-1","token":"tok-A","platform":"android"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.JSONEq(t, `true`, string(body["success"]))

	var data map[string]any
	require.NoError(t, json.Unmarshal(body["data"], &data))
	keys := make([]string, 0, len(data))
	for k := range data {
		keys = append(keys, k)
	}
	assert.ElementsMatch(t, []string{"id", "deviceId", "token", "platform", "createdAt", "updatedAt"}, keys)
	assert.Equal(t, "dev-1", data["deviceId"])
	assert.Equal(t, "android", data["platform"])
}

func TestRegister_ValidationLeavesStoreUntouched(t *testing.T) {
	cases := map[string]string{
		"deviceId omitted": `{"token":"tok","platform":"ios"}`,
		"deviceId empty":   `{"deviceId":"","token":"tok","platform":"ios"}`,
		"token omitted":    `{"deviceId":"dev-x","platform":"ios"}`,
		"token empty":      `{"deviceId":"dev-x","token":"","platform":"ios"}`,
		"platform omitted": `{"deviceId":"dev-x","token":"tok"}`,
		"platform empty":   `{"deviceId":"dev-x","token":"tok","platform":""}`,
	}

	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			repo := repository.NewNotificationTokenRepository(testutil.NewDB(t))
			r := newEngine(repo)

			w := postJSON(t, r, body)
			assert.Equal(t, http.StatusBadRequest, w.Code)

			var resp model.ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, errMissingFields, resp.Error)

			count, err := repo.Count(context.Background())
			require.NoError(t, err)
			assert.Zero(t, count)
		})
	}
}

func TestRegister_MalformedBody(t *testing.T) {
	r := newEngine(repository.NewNotificationTokenRepository(testutil.NewDB(t)))

	w := postJSON(t, r, `{"deviceId":`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"Invalid request body"}`, w.Body.String())
}

type failingStore struct{}

func (failingStore) Upsert(ctx context.Context, deviceID, token, platform string) (*model.NotificationToken, error) {
	return nil, errors.New("pq: relation \"notification_tokens\" does not exist")
}

func TestRegister_PersistenceFailureIsGeneric(t *testing.T) {
	r := newEngine(failingStore{})

	w := postJSON(t, r, `{"deviceId":"dev-1","token":"tok-A","platform":"ios"}`)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"Failed to register push notification token"}`, w.Body.String())
	assert.NotContains(t, w.Body.String(), "relation")
}

type pingerFunc func(ctx context.Context) error

func (f pingerFunc) Ping(ctx context.Context) error { return f(ctx) }

func TestHealth(t *testing.T) {
	tests := []struct {
		name     string
		pingErr  error
		wantCode int
		wantDB   string
	}{
		{"database up", nil, http.StatusOK, "up"},
		{"database down", errors.New("dial tcp: refused"), http.StatusServiceUnavailable, "down"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHealthHandler("pushreg-api", pingerFunc(func(context.Context) error { return tt.pingErr }))
			r := gin.New()
			r.GET("/health", h.Check)

			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

			assert.Equal(t, tt.wantCode, w.Code)
			var resp model.HealthResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, tt.wantDB, resp.Database)
			assert.Equal(t, "pushreg-api", resp.Service)
		})
	}
}

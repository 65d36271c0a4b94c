package httptransport

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"lvlhub-server-go/internal/app"
	platformtesting "lvlhub-server-go/internal/platform/testing"
)

func setupAPI(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := platformtesting.SetupTestConfig(t)
	logger := platformtesting.SetupTestLogger(t)
	t.Cleanup(func() {
		_ = logger.Close()
	})

	platform, err := app.New(app.Options{Config: cfg, Logger: logger})
	if err != nil {
		t.Fatalf("New platform: %v", err)
	}
	t.Cleanup(func() {
		_ = platform.Close()
	})

	router, err := Build(Options{Config: cfg, Logger: logger})
	if err != nil {
		t.Fatalf("Build router: %v", err)
	}
	svc, err := NewService(platform, logger)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	if err := svc.Register(context.Background(), router.API); err != nil {
		t.Fatalf("Register routes: %v", err)
	}
	return router.Engine
}

func doJSON(t *testing.T, engine *gin.Engine, method, path, token string, body any) (*httptest.ResponseRecorder, APIResponse) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	var resp APIResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
	return rec, resp
}

func registerAndLogin(t *testing.T, engine *gin.Engine) string {
	t.Helper()

	rec, _ := doJSON(t, engine, http.MethodPost, "/api/users", "", gin.H{
		"username":   "alice",
		"secret":     "secure_password",
		"suite_type": "personal",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("register user: status %d body %s", rec.Code, rec.Body.String())
	}

	rec, resp := doJSON(t, engine, http.MethodPost, "/api/session", "", gin.H{
		"username": "alice",
		"secret":   "secure_password",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create session: status %d body %s", rec.Code, rec.Body.String())
	}
	data := resp.Data.(map[string]any)
	token, _ := data["token"].(string)
	if token == "" {
		t.Fatalf("missing token in response: %+v", resp)
	}
	return token
}

func TestCreateSessionEndpoint(t *testing.T) {
	engine := setupAPI(t)
	token := registerAndLogin(t, engine)
	if token == "" {
		t.Fatalf("expected token")
	}

	rec, _ := doJSON(t, engine, http.MethodPost, "/api/session", "", gin.H{
		"username": "alice",
		"secret":   "wrong_password",
	})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for bad credentials, got %d", rec.Code)
	}
}

func TestProcessRequestEndpoint(t *testing.T) {
	engine := setupAPI(t)
	token := registerAndLogin(t, engine)

	rec, resp := doJSON(t, engine, http.MethodPost, "/api/request", token, gin.H{
		"type": "recommendation",
		"parameters": gin.H{
			"context": "work",
			"limit":   5,
		},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("process request: status %d body %s", rec.Code, rec.Body.String())
	}
	if !resp.Success {
		t.Fatalf("expected success envelope: %+v", resp)
	}
}

func TestProcessRequestRejectsGarbageToken(t *testing.T) {
	engine := setupAPI(t)
	registerAndLogin(t, engine)

	rec, _ := doJSON(t, engine, http.MethodPost, "/api/request", "garbage", gin.H{
		"type": "recommendation",
	})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for garbage token, got %d", rec.Code)
	}
}

func TestProcessRequestUnknownType(t *testing.T) {
	engine := setupAPI(t)
	token := registerAndLogin(t, engine)

	rec, _ := doJSON(t, engine, http.MethodPost, "/api/request", token, gin.H{
		"type": "telemetry",
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown type, got %d", rec.Code)
	}
}

func TestSessionRefreshAndRevokeEndpoints(t *testing.T) {
	engine := setupAPI(t)
	token := registerAndLogin(t, engine)

	rec, resp := doJSON(t, engine, http.MethodPost, "/api/session/refresh", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("refresh: status %d body %s", rec.Code, rec.Body.String())
	}
	refreshed := resp.Data.(map[string]any)["token"].(string)

	// The old token no longer works.
	rec, _ = doJSON(t, engine, http.MethodPost, "/api/request", token, gin.H{
		"type": "recommendation",
	})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for stale token, got %d", rec.Code)
	}

	rec, _ = doJSON(t, engine, http.MethodDelete, "/api/session", refreshed, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("revoke: status %d body %s", rec.Code, rec.Body.String())
	}
	rec, _ = doJSON(t, engine, http.MethodPost, "/api/request", refreshed, gin.H{
		"type": "recommendation",
	})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 after revoke, got %d", rec.Code)
	}
}

func TestSuitesEndpoint(t *testing.T) {
	engine := setupAPI(t)

	rec, resp := doJSON(t, engine, http.MethodGet, "/api/suites", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("suites: status %d", rec.Code)
	}
	data := resp.Data.(map[string]any)
	suites, ok := data["suites"].(map[string]any)
	if !ok || len(suites) != 8 {
		t.Fatalf("expected 8 suites, got %+v", data["suites"])
	}
}

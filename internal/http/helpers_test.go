package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/mongodb"

	"github.com/plateful/plateful/internal/config"
	api "github.com/plateful/plateful/internal/http"
	"github.com/plateful/plateful/internal/log"
	"github.com/plateful/plateful/internal/mail"
	"github.com/plateful/plateful/internal/media"
	"github.com/plateful/plateful/internal/payment"
	"github.com/plateful/plateful/internal/queue"
	"github.com/plateful/plateful/internal/repo"
)

type testEnv struct {
	T      *testing.T
	Ctx    context.Context
	Mongo  *mongodb.MongoDBContainer
	Store  *repo.Store
	Cfg    *config.Config
	Router *gin.Engine
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ctx := context.Background()

	mc, err := mongodb.RunContainer(ctx,
		testcontainers.WithImage("mongo:6"),
	)
	if err != nil {
		t.Fatalf("mongo container: %v", err)
	}

	uri, err := mc.ConnectionString(ctx)
	if err != nil {
		t.Fatalf("mongo uri: %v", err)
	}

	if _, err := log.Init(false); err != nil {
		t.Fatalf("log init: %v", err)
	}

	store, err := repo.NewStore(ctx, uri, "plateful_test")
	if err != nil {
		t.Fatalf("store: %v", err)
	}
	if err := store.EnsureIndexes(ctx); err != nil {
		t.Fatal(err)
	}

	cfg := &config.Config{
		AppEnv:          "test",
		JWTSecret:       "test-secret",
		SessionTTLDays:  1,
		FrontendURL:     "http://localhost:3000",
		RateLimitPerMin: 1000,
	}

	// redis nil -> rate limiting passes through; stripe unused in these tests
	h := api.NewHandler(cfg, store, nil, mail.DevMailer{}, media.Disabled{}, payment.New("", ""), queue.NewNoop())

	gin.SetMode(gin.TestMode)
	return &testEnv{
		T:      t,
		Ctx:    ctx,
		Mongo:  mc,
		Store:  store,
		Cfg:    cfg,
		Router: api.NewRouter(h),
	}
}

func (e *testEnv) Close() {
	if e.Store != nil {
		_ = e.Store.Close(e.Ctx)
	}
	if e.Mongo != nil {
		_ = e.Mongo.Terminate(e.Ctx)
	}
}

func (e *testEnv) do(method, path, body string, cookies []*http.Cookie) *httptest.ResponseRecorder {
	e.T.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	e.Router.ServeHTTP(w, req)
	return w
}

func sessionCookieOf(t *testing.T, w *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, ck := range w.Result().Cookies() {
		if ck.Name == "token" && ck.Value != "" {
			return ck
		}
	}
	t.Fatalf("no session cookie in response")
	return nil
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var m map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &m); err != nil {
		t.Fatalf("decode body: %v; body=%s", err, w.Body.String())
	}
	return m
}

// signupAndLogin creates a fresh account and returns its session cookie.
func (e *testEnv) signupAndLogin(email, password string) *http.Cookie {
	e.T.Helper()
	w := e.do("POST", "/api/v1/user/signup",
		`{"fullname":"Test User","email":"`+email+`","password":"`+password+`","contact":"5551112222"}`, nil)
	if w.Code != http.StatusCreated {
		e.T.Fatalf("signup: %d %s", w.Code, w.Body.String())
	}
	return sessionCookieOf(e.T, w)
}

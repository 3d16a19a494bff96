package echoapi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"

	"github.com/stiedu/loggedin/core"
	"github.com/stiedu/loggedin/core/notification"
	"github.com/stiedu/loggedin/core/session"
	toastsvc "github.com/stiedu/loggedin/services/toast"
	"github.com/stiedu/loggedin/storage/localstore"
	"github.com/stiedu/loggedin/storage/mockapi"
	testutil "github.com/stiedu/loggedin/tests"
)

var errMissingToken = httpErr{Error: "missing or malformed jwt"}

type testEnv struct {
	conf     *core.Config
	sessions *session.Store
	engine   *notification.Engine
	api      *mockapi.API
	hub      *toastsvc.Hub
}

func setup(t *testing.T) (Server, *testEnv) {
	t.Helper()
	conf := core.NewTestConfig()
	logger := testutil.NewLogger()

	ls, err := localstore.Open(conf.StoragePath)
	if err != nil {
		t.Fatalf("localstore.Open(): %v", err)
	}
	t.Cleanup(func() { _ = ls.Close() })

	api := mockapi.New(conf)
	hub := toastsvc.NewHub(logger)
	engine := notification.NewEngine(ls, logger, conf.Notification.WelcomeDelay)
	engine.AddToaster(hub)
	sessions := session.NewStore(mockapi.NewDirectory(api), ls, logger)
	sessions.TokenFunc = TokenFunc(conf)

	validate, trans := testutil.NewValidator()

	app := NewServer("", Deps{
		Conf:           conf,
		Logger:         logger,
		Store:          sessions,
		Engine:         engine,
		EventSvc:       api,
		Hub:            hub,
		Validate:       validate,
		Translator:     trans,
		DisableReqLogs: true,
	})
	return app, &testEnv{conf: conf, sessions: sessions, engine: engine, api: api, hub: hub}
}

type httpErr struct {
	Error string `json:"error"`
}

type httpTest struct {
	name     string
	method   string
	path     string
	body     []byte
	token    string
	wantCode int
	wantData []byte
}

func newAuthRequest(method, path, token string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	return req, rec
}

func newRequest(method, path string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	return newAuthRequest(method, path, "", data...)
}

func getToken(t *testing.T, conf *core.Config, ident session.Identity) string {
	token, err := GenerateToken(conf, GetIdentityClaims(conf, ident))
	if err != nil {
		t.Fatalf("getToken(): %v", err)
	}
	return token
}

func studentToken(t *testing.T, conf *core.Config) string {
	return getToken(t, conf, session.Identity{
		ID:        "42",
		Name:      "Jane Smith",
		Email:     "jane@sti.edu",
		Role:      session.RoleStudent,
		StudentID: "STI-23456",
	})
}

func adminToken(t *testing.T, conf *core.Config) string {
	return getToken(t, conf, session.Identity{
		ID:    "1",
		Name:  "Admin User",
		Email: conf.AdminEmail,
		Role:  session.RoleAdmin,
	})
}

func marchallObj(t *testing.T, obj interface{}) []byte {
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marchallObj(): %v", err)
	}
	return data
}

func unmarchallObj(t *testing.T, rec *httptest.ResponseRecorder, obj interface{}) {
	if err := json.Unmarshal(rec.Body.Bytes(), obj); err != nil {
		t.Fatalf("unmarchallObj(): %v: %s", err, rec.Body.String())
	}
}

func jsonBytesEqual(b1, b2 []byte) (bool, error) {
	var j1, j2 interface{}
	if err := json.Unmarshal(b1, &j1); err != nil {
		return false, err
	}
	if err := json.Unmarshal(b2, &j2); err != nil {
		return false, err
	}
	return reflect.DeepEqual(j1, j2), nil
}

func checkCodeAndData(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	t.Helper()
	if rec.Code != tt.wantCode {
		t.Errorf("failed! code = %v; wantCode %v", rec.Code, tt.wantCode)
	}
	if tt.wantData == nil {
		return
	}
	ok, err := jsonBytesEqual(rec.Body.Bytes(), tt.wantData)
	if err != nil {
		t.Errorf("jsonBytesEqual() failed to compare; err %v", err)
	}
	if !ok {
		t.Errorf("failed! data = %v; wantData %v", rec.Body.String(), string(tt.wantData))
	}
}

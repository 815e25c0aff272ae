package echoapi

import (
	"bytes"
	"encoding/json"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/trezcool/idara/core"
	"github.com/trezcool/idara/core/activity"
	"github.com/trezcool/idara/core/catalog"
	emailsvc "github.com/trezcool/idara/services/email"
	logsvc "github.com/trezcool/idara/services/logger"
	uploadsvc "github.com/trezcool/idara/services/upload"
	inmemdb "github.com/trezcool/idara/storage/inmem"
)

type httpTest struct {
	name     string
	method   string
	path     string
	body     []byte
	token    string
	wantCode int
}

func setup(t *testing.T) (Server, *activity.Service) {
	t.Helper()

	registry, err := catalog.NewRegistry()
	require.NoError(t, err)

	db := inmemdb.NewDB()
	svc := activity.NewService(registry, inmemdb.NewActivityRepository(db), emailsvc.NewConsoleServiceMock())

	uploadDir := t.TempDir()
	origDir := core.Conf.Upload.Dir
	core.Conf.Upload.Dir = uploadDir
	t.Cleanup(func() { core.Conf.Upload.Dir = origDir })

	srv := NewServer(
		&Options{
			DisableReqLogs: true,
			ActivitySvc:    svc,
			UploadSvc:      uploadsvc.NewDiskService(core.Conf),
			Logger:         logsvc.NewStdLogger(log.New(os.Stdout, "TEST : ", log.LstdFlags)),
		},
		nil,
	)
	return srv, svc
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

func getToken(t *testing.T, email string) string {
	t.Helper()
	token, err := GenerateToken(NewSessionClaims(email, ""))
	if err != nil {
		t.Fatalf("getToken() failed: %v", err)
	}
	return token
}

func marshallObj(t *testing.T, obj interface{}) []byte {
	t.Helper()
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marshallObj() failed: %v", err)
	}
	return data
}

func decodeList(t *testing.T, rec *httptest.ResponseRecorder) ([]activity.Record, activity.Pagination) {
	t.Helper()
	var res struct {
		Success    bool                `json:"success"`
		Data       []activity.Record   `json:"data"`
		Pagination activity.Pagination `json:"pagination"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	require.True(t, res.Success)
	return res.Data, res.Pagination
}

func decodeData(t *testing.T, rec *httptest.ResponseRecorder) activity.Record {
	t.Helper()
	var res struct {
		Success bool            `json:"success"`
		Data    activity.Record `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	require.True(t, res.Success)
	return res.Data
}

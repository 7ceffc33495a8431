package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"fabworks-backend/config"
	"fabworks-backend/internal/db"
	"fabworks-backend/internal/model"
	"fabworks-backend/internal/store"
	"fabworks-backend/internal/upload"
)

func init() {
	gin.SetMode(gin.TestMode)
}

const (
	testAdminUser = "admin"
	testAdminPass = "factory-floor-1"
)

// dispatchRecorder stands in for the notification worker pool.
type dispatchRecorder struct {
	mu  sync.Mutex
	ids []uint
}

func (d *dispatchRecorder) Dispatch(quotationID uint) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.ids = append(d.ids, quotationID)
}

func (d *dispatchRecorder) dispatched() []uint {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]uint(nil), d.ids...)
}

// newTestServer wires a full router against an isolated in-memory database
// with the admin account seeded.
func newTestServer(t *testing.T) (*gin.Engine, store.Store, *dispatchRecorder) {
	t.Helper()

	dsn := "file:" + strings.ReplaceAll(t.Name(), "/", "_") + "?mode=memory&cache=shared"
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.Migrate(gdb))

	cfg := &config.Config{}
	cfg.Server.RateLimitPerSec = 1000
	cfg.Server.RateLimitBurst = 1000
	cfg.Server.CacheTTLSeconds = 60
	cfg.Auth.JWTSecret = "test-secret"
	cfg.Auth.TokenTTL = time.Hour
	cfg.Auth.AdminUsername = testAdminUser
	cfg.Auth.AdminPassword = testAdminPass
	cfg.Upload.Dir = t.TempDir()
	cfg.Upload.MaxFileSize = 1 << 20
	cfg.Upload.MaxFileCount = 3

	require.NoError(t, db.Seed(gdb, &cfg.Auth))

	saver, err := upload.NewSaver(cfg.Upload.Dir, cfg.Upload.MaxFileSize)
	require.NoError(t, err)

	s := store.NewGormStore(gdb)
	rec := &dispatchRecorder{}
	r := NewRouter(s, cfg, saver, rec)

	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	return r, s, rec
}

// doJSON performs a request with an optional JSON body and bearer token.
func doJSON(r *gin.Engine, method, path, token string, body any) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		b, _ := json.Marshal(body)
		reader = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body), "body: %s", w.Body.String())
	return body
}

// login authenticates as the seeded admin and returns the bearer token.
func login(t *testing.T, r *gin.Engine) string {
	t.Helper()
	w := doJSON(r, http.MethodPost, "/api/auth/login", "", gin.H{
		"username": testAdminUser,
		"password": testAdminPass,
	})
	require.Equal(t, http.StatusOK, w.Code, "login failed: %s", w.Body.String())
	token, _ := decodeBody(t, w)["token"].(string)
	require.NotEmpty(t, token)
	return token
}

type formFile struct {
	Name        string
	ContentType string
	Content     string
}

// multipartRequest builds a quote submission with form fields and files.
func multipartRequest(t *testing.T, path string, fields map[string]string, files []formFile) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	for _, f := range files {
		h := textproto.MIMEHeader{}
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="files"; filename="%s"`, f.Name))
		h.Set("Content-Type", f.ContentType)
		part, err := mw.CreatePart(h)
		require.NoError(t, err)
		_, err = part.Write([]byte(f.Content))
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

// seedCatalog inserts one active service used by the quotation tests.
func seedCatalog(t *testing.T, s store.Store) *model.Service {
	t.Helper()
	svc := &model.Service{
		Name:     "FDM Printing",
		Category: model.Category3DPrinting,
		Material: "PLA+",
		Price:    15,
		Unit:     "per part",
		Active:   true,
	}
	require.NoError(t, s.DB().Create(svc).Error)
	return svc
}

func quoteFields() map[string]string {
	return map[string]string{
		"customerName":  "Alice Smith",
		"customerEmail": "alice@example.com",
		"customerPhone": "555-0100",
		"serviceType":   model.Category3DPrinting,
		"material":      "PLA+",
		"quantity":      "5",
	}
}

func stlFile(name string) formFile {
	return formFile{Name: name, ContentType: "application/octet-stream", Content: "solid part\nendsolid part\n"}
}

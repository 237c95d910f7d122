package v1_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go-dreamjob-backend/config"
	"go-dreamjob-backend/internal/delivery/http/middleware"
	v1 "go-dreamjob-backend/internal/delivery/http/v1"
	"go-dreamjob-backend/internal/domain"
	"go-dreamjob-backend/internal/repository/memory"
	"go-dreamjob-backend/internal/storage"
	"go-dreamjob-backend/internal/usecase"
	"go-dreamjob-backend/pkg/metrics"
	"go-dreamjob-backend/pkg/security"
	"go-dreamjob-backend/pkg/security/antivirus"
	"go-dreamjob-backend/pkg/validation"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var pdfContent = []byte("%PDF-1.4\n1 0 obj\n<< /Type /Catalog >>\nendobj\n")

type envelope struct {
	Success   bool            `json:"success"`
	Message   string          `json:"message"`
	Data      json.RawMessage `json:"data"`
	RequestID string          `json:"request_id"`
}

type testServer struct {
	router *gin.Engine
	blobs  *storage.MemoryStore
	cookie *http.Cookie
	csrf   *http.Cookie
	token  string
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)
	ctx := context.Background()

	validate := validation.New()
	secLog := security.NewSecurityLogger(zap.NewNop(), "dreamjob", "test")

	candidates := memory.NewCandidateRepository()
	vacancies := memory.NewVacancyRepository()
	cities := memory.NewCityRepository()
	require.NoError(t, memory.SeedCities(ctx, cities))

	blobs := storage.NewMemoryStore()
	files := usecase.NewFileUsecase(memory.NewFileRepository(), blobs, antivirus.NewNoOpScanner())
	sessions := security.NewSessionManager("test-secret", time.Hour)
	users := usecase.NewUserUsecase(memory.NewUserRepository(), nil, sessions, secLog, validate)

	_, err := users.Register(ctx, domain.User{Email: "hr@dreamjob.example", Name: "Olga", Password: "secret123"})
	require.NoError(t, err)

	router := v1.NewRouter(v1.RouterDeps{
		CandidateUC:    usecase.NewCandidateUsecase(candidates, files, validate),
		VacancyUC:      usecase.NewVacancyUsecase(vacancies, files, validate),
		CityUC:         usecase.NewCityUsecase(cities),
		UserUC:         users,
		ExportUC:       usecase.NewExportUsecase(candidates, vacancies, cities),
		HealthUC:       usecase.NewHealthUsecase(nil),
		Files:          files,
		Sessions:       sessions,
		SecurityLogger: secLog,
		Metrics:        metrics.New(),
		Config:         &config.Config{Environment: "test", UploadMaxBytes: 64 << 10},
	})

	s := &testServer{router: router, blobs: blobs}
	s.login(t)
	return s
}

func (s *testServer) login(t *testing.T) {
	t.Helper()
	w := s.do(httptest.NewRequest(http.MethodPost, "/v1/users/login",
		strings.NewReader(`{"email":"HR@dreamjob.example","password":"secret123"}`)), "application/json", false)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	for _, c := range w.Result().Cookies() {
		switch c.Name {
		case security.SessionCookieName:
			s.cookie = c
		case middleware.CSRFTokenCookieName:
			s.csrf = c
		}
	}
	require.NotNil(t, s.cookie)
	require.NotNil(t, s.csrf)

	var session domain.Session
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &session))
	s.token = session.Token
}

func (s *testServer) do(req *http.Request, contentType string, authed bool) *httptest.ResponseRecorder {
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if authed && s.cookie != nil {
		req.AddCookie(s.cookie)
		req.AddCookie(s.csrf)
		req.Header.Set(middleware.CSRFTokenHeaderName, s.csrf.Value)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *testServer) get(path string) *httptest.ResponseRecorder {
	return s.do(httptest.NewRequest(http.MethodGet, path, nil), "", true)
}

func (s *testServer) form(method, path string, fields map[string]string, filename string, content []byte) *httptest.ResponseRecorder {
	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	for k, v := range fields {
		_ = mw.WriteField(k, v)
	}
	if filename != "" {
		part, _ := mw.CreateFormFile("file", filename)
		_, _ = part.Write(content)
	}
	_ = mw.Close()
	return s.do(httptest.NewRequest(method, path, body), mw.FormDataContentType(), true)
}

func decode(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return env
}

func decodeCandidate(t *testing.T, w *httptest.ResponseRecorder) domain.Candidate {
	t.Helper()
	var c domain.Candidate
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &c))
	return c
}

func TestAuthRequired(t *testing.T) {
	s := newTestServer(t)

	w := s.do(httptest.NewRequest(http.MethodGet, "/v1/candidates", nil), "", false)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.False(t, decode(t, w).Success)

	req := httptest.NewRequest(http.MethodGet, "/v1/candidates", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	w = s.do(req, "", false)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	req = httptest.NewRequest(http.MethodGet, "/v1/candidates", nil)
	req.Header.Set("Authorization", "Bearer "+s.token)
	w = s.do(req, "", false)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, decode(t, w).RequestID)
}

func TestCSRFOnCookieWrites(t *testing.T) {
	s := newTestServer(t)
	body := `{"title":"Senior Go Developer"}`

	req := httptest.NewRequest(http.MethodPost, "/v1/vacancies", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.AddCookie(s.cookie)
	req.AddCookie(s.csrf)
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)

	req = httptest.NewRequest(http.MethodPost, "/v1/vacancies", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.token)
	w = httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusCreated, w.Code, w.Body.String())
}

func TestUserEndpoints(t *testing.T) {
	s := newTestServer(t)

	t.Run("Register duplicate email", func(t *testing.T) {
		w := s.do(httptest.NewRequest(http.MethodPost, "/v1/users/register",
			strings.NewReader(`{"email":"hr@dreamjob.example","name":"Olga","password":"secret123"}`)), "application/json", false)
		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("Login with wrong password", func(t *testing.T) {
		w := s.do(httptest.NewRequest(http.MethodPost, "/v1/users/login",
			strings.NewReader(`{"email":"hr@dreamjob.example","password":"nope-nope"}`)), "application/json", false)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "Invalid email or password", decode(t, w).Message)
	})

	t.Run("Me", func(t *testing.T) {
		w := s.get("/v1/users/me")
		require.Equal(t, http.StatusOK, w.Code)
		var user domain.User
		require.NoError(t, json.Unmarshal(decode(t, w).Data, &user))
		assert.Equal(t, "hr@dreamjob.example", user.Email)
		assert.NotContains(t, w.Body.String(), "password")
	})

	t.Run("Logout clears the cookie", func(t *testing.T) {
		w := s.do(httptest.NewRequest(http.MethodPost, "/v1/users/logout", nil), "", true)
		require.Equal(t, http.StatusOK, w.Code)
		cookies := w.Result().Cookies()
		require.Len(t, cookies, 2)
		for _, c := range cookies {
			assert.True(t, c.MaxAge < 0, c.Name)
		}
	})
}

func TestCandidateLifecycle(t *testing.T) {
	s := newTestServer(t)

	w := s.form(http.MethodPost, "/v1/candidates",
		map[string]string{"name": "Ivan Petrov", "description": "Go developer", "city_id": "1"},
		"cv.pdf", pdfContent)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decodeCandidate(t, w)
	require.NotZero(t, created.ID)
	require.NotZero(t, created.FileID)
	assert.False(t, created.CreationDate.IsZero())

	w = s.get(fmt.Sprintf("/v1/files/%d", created.FileID))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, pdfContent, w.Body.Bytes())
	assert.Contains(t, w.Header().Get("Content-Disposition"), "cv.pdf")

	t.Run("Update without a file keeps the attachment", func(t *testing.T) {
		w := s.form(http.MethodPut, fmt.Sprintf("/v1/candidates/%d", created.ID),
			map[string]string{"name": "Ivan Petrov", "description": "Senior Go developer", "city_id": "2"}, "", nil)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		updated := decodeCandidate(t, w)
		assert.Equal(t, created.FileID, updated.FileID)
		assert.Equal(t, "Senior Go developer", updated.Description)
		assert.True(t, created.CreationDate.Equal(updated.CreationDate))
	})

	t.Run("Update with a file replaces the attachment", func(t *testing.T) {
		next := append([]byte{}, pdfContent...)
		next = append(next, []byte("% v2\n")...)
		w := s.form(http.MethodPut, fmt.Sprintf("/v1/candidates/%d", created.ID),
			map[string]string{"name": "Ivan Petrov"}, "cv2.pdf", next)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		updated := decodeCandidate(t, w)
		assert.NotEqual(t, created.FileID, updated.FileID)

		assert.Equal(t, http.StatusNotFound, s.get(fmt.Sprintf("/v1/files/%d", created.FileID)).Code)
		assert.Equal(t, next, s.get(fmt.Sprintf("/v1/files/%d", updated.FileID)).Body.Bytes())
		assert.Equal(t, 1, s.blobs.Len())
	})

	t.Run("Delete removes the candidate and its file", func(t *testing.T) {
		w := s.do(httptest.NewRequest(http.MethodDelete, fmt.Sprintf("/v1/candidates/%d", created.ID), nil), "", true)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, 0, s.blobs.Len())

		w = s.do(httptest.NewRequest(http.MethodDelete, fmt.Sprintf("/v1/candidates/%d", created.ID), nil), "", true)
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "Candidate with the given id was not found", decode(t, w).Message)
	})

	t.Run("Unknown and malformed ids", func(t *testing.T) {
		w := s.get("/v1/candidates/999")
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "Candidate with the given id was not found", decode(t, w).Message)

		w = s.form(http.MethodPut, "/v1/candidates/999", map[string]string{"name": "Nobody Here"}, "", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)

		assert.Equal(t, http.StatusBadRequest, s.get("/v1/candidates/abc").Code)
	})
}

func TestCandidateUploadRejected(t *testing.T) {
	s := newTestServer(t)

	t.Run("Disallowed extension", func(t *testing.T) {
		w := s.form(http.MethodPost, "/v1/candidates", map[string]string{"name": "Ivan Petrov"}, "run.exe", []byte("MZ\x90\x00"))
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Too large", func(t *testing.T) {
		big := append([]byte{}, pdfContent...)
		big = append(big, bytes.Repeat([]byte("a"), 65<<10)...)
		w := s.form(http.MethodPost, "/v1/candidates", map[string]string{"name": "Ivan Petrov"}, "big.pdf", big)
		assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	})

	t.Run("Invalid name", func(t *testing.T) {
		w := s.form(http.MethodPost, "/v1/candidates", map[string]string{"name": "I"}, "cv.pdf", pdfContent)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	w := s.get("/v1/candidates")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, string(decode(t, w).Data))
	assert.Equal(t, 0, s.blobs.Len())
}

func TestVacancyJSONWithoutFile(t *testing.T) {
	s := newTestServer(t)

	w := s.do(httptest.NewRequest(http.MethodPost, "/v1/vacancies",
		strings.NewReader(`{"title":"Middle Go Developer","description":"Payments team","visible":true,"city_id":3}`)), "application/json", true)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var vacancy domain.Vacancy
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &vacancy))
	assert.True(t, vacancy.Visible)
	assert.Zero(t, vacancy.FileID)

	w = s.get(fmt.Sprintf("/v1/vacancies/%d", vacancy.ID))
	assert.Equal(t, http.StatusOK, w.Code)

	w = s.get("/v1/vacancies/12345")
	assert.Equal(t, "Vacancy with the given id was not found", decode(t, w).Message)

	w = s.get("/v1/vacancies/export")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", w.Header().Get("Content-Type"))
	assert.Equal(t, []byte("PK"), w.Body.Bytes()[:2])
}

func TestCitiesHealthAndMetrics(t *testing.T) {
	s := newTestServer(t)

	w := s.get("/v1/cities")
	require.Equal(t, http.StatusOK, w.Code)
	var cities []domain.City
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &cities))
	require.Len(t, cities, 3)
	assert.Equal(t, "Moscow", cities[0].Name)

	assert.Equal(t, http.StatusNotFound, s.get("/v1/cities/77").Code)

	w = s.do(httptest.NewRequest(http.MethodGet, "/v1/health", nil), "", false)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))

	w = s.do(httptest.NewRequest(http.MethodGet, "/metrics", nil), "", false)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "dreamjob_http_requests_total")
}

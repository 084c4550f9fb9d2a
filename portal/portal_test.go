package portal_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/colegioing/go-portal-client/portal"
	"github.com/colegioing/go-portal-client/session"
)

const (
	testUsername   = "5421"
	testPassword   = "secret123"
	testSigningKey = "fixture-signing-key"
	testSubjectID  = 5
	testRole       = "Usuario"
)

// backendFixture fakes the portal backend: the two token endpoints plus a
// protected news feed. It tracks call counts so tests can assert the refresh
// protocol's exact behaviour.
type backendFixture struct {
	t      *testing.T
	store  *session.MemoryStore
	client *portal.Client
	server *httptest.Server

	loginCalls   atomic.Int32
	refreshCalls atomic.Int32
	newsCalls    atomic.Int32

	mu             sync.Mutex
	validAccess    string // the access token the backend currently accepts
	refreshToken   string // the refresh token the backend currently accepts
	nextAccess     string // handed out by the next successful refresh
	rotatedRefresh string // when set, the refresh response rotates the refresh token

	refreshStatus int           // 0 means success
	refreshDelay  time.Duration // simulated exchange latency

	// When true, a successful refresh hands out a token the protected
	// endpoints still reject; used to exercise the bounded-retry path.
	refreshDoesNotAuthorize bool

	// When holdRejections is non-nil, every 401 response first signals
	// rejectionArrived and then blocks until holdRejections is closed. Tests
	// use this to line up concurrent auth rejections.
	holdRejections   chan struct{}
	rejectionArrived chan struct{}
}

func newBackendFixture(t *testing.T) *backendFixture {
	t.Helper()

	f := &backendFixture{
		t:            t,
		store:        session.NewMemoryStore(),
		validAccess:  mintAccess(t, time.Now().Add(15*time.Minute)),
		refreshToken: "refresh-token-1",
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /token/", f.handleLogin)
	mux.HandleFunc("POST /token/refresh/", f.handleRefresh)
	mux.HandleFunc("GET /news/news/{$}", f.protected(f.handleNewsList))
	mux.HandleFunc("GET /jobs/job/{$}", f.protected(f.handleJobsList))
	mux.HandleFunc("GET /regulation/{$}", f.protected(f.handleRegulationList))
	mux.HandleFunc("GET /users/details/{id}/", f.protected(f.handleMemberDetails))
	mux.HandleFunc("POST /civil_salary/aranceles/calculate-arancel/", f.protected(f.handleArancel))
	mux.HandleFunc("POST /pdfs/pdf-presigned-url/", f.protected(f.handlePresignPDF))
	mux.HandleFunc("PUT /upload/{id}", f.handleUploadPut)

	f.server = httptest.NewServer(mux)
	t.Cleanup(f.server.Close)

	client, err := portal.New(f.server.URL+"/", f.store)
	require.NoError(t, err)
	f.client = client

	return f
}

// mintAccess creates a signed access token with the fixture's claim set.
func mintAccess(t *testing.T, expiry time.Time) string {
	t.Helper()

	token := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, jwtlib.MapClaims{
		"user_id":  testSubjectID,
		"rol":      testRole,
		"username": "jperez",
		"exp":      expiry.Unix(),
	})
	signed, err := token.SignedString([]byte(testSigningKey))
	require.NoError(t, err)
	return signed
}

// seedSession stores a pair the backend will reject, forcing the first
// authenticated call into the 401-recovery path.
func (f *backendFixture) seedStaleSession() session.TokenPair {
	f.t.Helper()

	pair := session.TokenPair{
		Access:  mintAccess(f.t, time.Now().Add(-time.Minute)),
		Refresh: f.currentRefreshToken(),
	}
	require.NoError(f.t, f.store.Set(f.t.Context(), pair))
	return pair
}

// seedValidSession stores the pair the backend currently accepts.
func (f *backendFixture) seedValidSession() session.TokenPair {
	f.t.Helper()

	f.mu.Lock()
	pair := session.TokenPair{Access: f.validAccess, Refresh: f.refreshToken}
	f.mu.Unlock()
	require.NoError(f.t, f.store.Set(f.t.Context(), pair))
	return pair
}

func (f *backendFixture) currentValidAccess() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.validAccess
}

func (f *backendFixture) currentRefreshToken() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.refreshToken
}

func (f *backendFixture) handleLogin(w http.ResponseWriter, r *http.Request) {
	f.loginCalls.Add(1)
	require.NotEmpty(f.t, r.Header.Get("X-Request-Id"))
	require.NoError(f.t, r.ParseForm())

	if r.PostForm.Get("username") != testUsername || r.PostForm.Get("password") != testPassword {
		http.Error(w, `{"detail":"Usuario o contraseña incorrectos"}`, http.StatusUnauthorized)
		return
	}

	f.mu.Lock()
	access, refresh := f.validAccess, f.refreshToken
	f.mu.Unlock()

	writeJSON(w, map[string]string{"access": access, "refresh": refresh, "rol": testRole})
}

func (f *backendFixture) handleRefresh(w http.ResponseWriter, r *http.Request) {
	f.refreshCalls.Add(1)
	require.NotEmpty(f.t, r.Header.Get("X-Request-Id"))

	f.mu.Lock()
	delay := f.refreshDelay
	f.mu.Unlock()
	if delay > 0 {
		time.Sleep(delay)
	}

	require.NoError(f.t, r.ParseForm())

	f.mu.Lock()
	defer f.mu.Unlock()

	if f.refreshStatus != 0 {
		http.Error(w, `{"detail":"Token is invalid or expired"}`, f.refreshStatus)
		return
	}
	if r.PostForm.Get("refresh") != f.refreshToken {
		http.Error(w, `{"detail":"Token is invalid or expired"}`, http.StatusUnauthorized)
		return
	}

	if f.nextAccess == "" {
		// One second longer than the fixture's initial token so the minted
		// JWT is never byte-identical to validAccess (exp has second
		// granularity and the claims are otherwise the same).
		f.nextAccess = mintAccess(f.t, time.Now().Add(15*time.Minute+time.Second))
	}
	issued := f.nextAccess
	f.nextAccess = ""
	if !f.refreshDoesNotAuthorize {
		f.validAccess = issued
	}

	body := map[string]string{"access": issued}
	if f.rotatedRefresh != "" {
		f.refreshToken = f.rotatedRefresh
		f.rotatedRefresh = ""
		body["refresh"] = f.refreshToken
	}
	writeJSON(w, body)
}

// protected wraps a handler with the backend's bearer check.
func (f *backendFixture) protected(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer "+f.currentValidAccess() {
			f.mu.Lock()
			hold, arrived := f.holdRejections, f.rejectionArrived
			f.mu.Unlock()
			if hold != nil {
				arrived <- struct{}{}
				<-hold
			}
			http.Error(w, `{"detail":"Given token not valid"}`, http.StatusUnauthorized)
			return
		}
		next(w, r)
	}
}

func (f *backendFixture) handleNewsList(w http.ResponseWriter, r *http.Request) {
	f.newsCalls.Add(1)
	writeJSON(w, []map[string]any{
		{"id": 1, "titulo": "Asamblea ordinaria", "resumen": "Convocatoria", "fecha_publicacion": "2026-02-01T10:00:00Z"},
	})
}

func (f *backendFixture) handleJobsList(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, []map[string]any{{
		"id":                3,
		"titulo":            "Residente de obra",
		"nombre_empresa":    "Constructora Andina",
		"ubicacion":         "Cochabamba",
		"salario":           "a convenir",
		"tipo_contrato":     "plazo fijo",
		"estado":            "publicado",
		"fecha_publicacion": "2026-03-15T09:00:00Z",
	}})
}

func (f *backendFixture) handleRegulationList(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, []map[string]any{{
		"id":                2,
		"nombre":            "Estatuto orgánico",
		"descripcion":       "Estatuto vigente de la institución",
		"categoria":         "estatuto",
		"estado":            "publicado",
		"fecha_publicacion": "2026-01-20T08:00:00Z",
		"pdf":               "estatuto.pdf",
	}})
}

func (f *backendFixture) handleMemberDetails(w http.ResponseWriter, r *http.Request) {
	require.Equal(f.t, "5", r.PathValue("id"))
	writeJSON(w, map[string]any{
		"rnic":              testUsername,
		"nombre":            "Juana Perez",
		"fecha_inscripcion": "2019-05-02",
		"departamento":      "Cochabamba",
		"especialidad":      "estructuras",
		"celular":           "70711223",
		"registro_empleado": "RE-114",
		"estado":            "activo",
		"certificaciones":   []string{"SSOMA"},
		"mail":              "jperez@example.org",
		"rol":               testRole,
	})
}

func (f *backendFixture) handleArancel(w http.ResponseWriter, r *http.Request) {
	var input map[string]any
	require.NoError(f.t, json.NewDecoder(r.Body).Decode(&input))
	require.Contains(f.t, input, "antiguedad")
	writeJSON(w, map[string]float64{"mensual": 12480.5, "hora": 52.002, "dia": 416.017})
}

func (f *backendFixture) handlePresignPDF(w http.ResponseWriter, r *http.Request) {
	var req map[string]string
	require.NoError(f.t, json.NewDecoder(r.Body).Decode(&req))
	require.NotEmpty(f.t, req["file_name"])
	require.Equal(f.t, "application/pdf", req["content_type"])

	writeJSON(w, map[string]string{
		"upload_url": f.server.URL + "/upload/pdf-77",
		"pdf_id":     "pdf-77",
	})
}

func (f *backendFixture) handleUploadPut(w http.ResponseWriter, r *http.Request) {
	// Presigned PUTs carry their own authorization, never the bearer token.
	require.Empty(f.t, r.Header.Get("Authorization"))
	w.WriteHeader(http.StatusOK)
}

// holdAuthRejections arranges for the next n auth rejections to block until
// release is closed, so tests can overlap them deliberately.
func (f *backendFixture) holdAuthRejections() (arrived chan struct{}, release chan struct{}) {
	arrived = make(chan struct{}, 16)
	release = make(chan struct{})
	f.mu.Lock()
	f.holdRejections = release
	f.rejectionArrived = arrived
	f.mu.Unlock()
	return arrived, release
}

// faultyStore wraps a MemoryStore and fails selected operations, standing in
// for an IO-backed store hitting transient errors.
type faultyStore struct {
	*session.MemoryStore
	getErr error
	setErr error
}

func (s *faultyStore) Get(ctx context.Context) (session.TokenPair, bool, error) {
	if s.getErr != nil {
		return session.TokenPair{}, false, s.getErr
	}
	return s.MemoryStore.Get(ctx)
}

func (s *faultyStore) Set(ctx context.Context, pair session.TokenPair) error {
	if s.setErr != nil {
		return s.setErr
	}
	return s.MemoryStore.Set(ctx, pair)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

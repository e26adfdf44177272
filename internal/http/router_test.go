package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/sisexp/api/internal/config"
	"github.com/sisexp/api/internal/expediente"
	"github.com/sisexp/api/internal/repo"
	"github.com/sisexp/api/internal/service"
)

const cookieName = "sisexp_session"

type stubAuth struct {
	sessions  map[string]*service.Session
	loggedOut []string
}

func newStubAuth() *stubAuth {
	return &stubAuth{sessions: map[string]*service.Session{
		"tok-admin": {UsuarioID: 1, Username: "admin", Nombre: "Admin", Apellido: "User", Rol: repo.RolAdmin},
		"tok-ana":   {UsuarioID: 2, Username: "ana", Nombre: "Ana", Apellido: "Paz", Rol: repo.RolUsuario},
	}}
}

func (s *stubAuth) Login(ctx context.Context, username, password string) (*service.LoginResult, error) {
	if username != "admin" || password != "admin" {
		return nil, service.ErrInvalidCredentials
	}
	sess := s.sessions["tok-admin"]
	return &service.LoginResult{Token: "tok-admin", Expires: time.Now().Add(time.Hour), Perfil: sess.Perfil()}, nil
}

func (s *stubAuth) Logout(ctx context.Context, token string) error {
	s.loggedOut = append(s.loggedOut, token)
	return nil
}

func (s *stubAuth) Session(ctx context.Context, token string) (*service.Session, error) {
	if sess, ok := s.sessions[token]; ok {
		return sess, nil
	}
	return nil, service.ErrNoSession
}

// memExpedientes guarda expedientes en memoria detrás del servicio real.
type memExpedientes struct {
	rows   map[int64]expediente.NewExpediente
	nextID int64
	fail   error
}

func (m *memExpedientes) List(ctx context.Context, f expediente.Filter) ([]expediente.Row, int64, error) {
	if m.fail != nil {
		return nil, 0, m.fail
	}
	return nil, int64(len(m.rows)), nil
}

func (m *memExpedientes) Get(ctx context.Context, id int64) (expediente.Row, error) {
	e, ok := m.rows[id]
	if !ok {
		return expediente.Row{}, expediente.ErrNotFound
	}
	return expediente.Row{ID: id, Estado: e.Estado, Fecha: e.Fecha.Format(expediente.FechaLayout), CasoID: e.CasoID}, nil
}

func (m *memExpedientes) Insert(ctx context.Context, e expediente.NewExpediente) (int64, error) {
	if m.fail != nil {
		return 0, m.fail
	}
	m.nextID++
	m.rows[m.nextID] = e
	return m.nextID, nil
}

func (m *memExpedientes) Update(ctx context.Context, id int64, c expediente.Changes) error {
	if _, ok := m.rows[id]; !ok {
		return expediente.ErrNotFound
	}
	return nil
}

func (m *memExpedientes) Delete(ctx context.Context, id int64) error {
	if _, ok := m.rows[id]; !ok {
		return expediente.ErrNotFound
	}
	delete(m.rows, id)
	return nil
}

type allRefs struct{}

func (allRefs) Exists(ctx context.Context, tabla repo.Tabla, id int64) (bool, error) {
	return id < 100, nil
}

type stubCatalogos struct{}

func (stubCatalogos) ListAseguradoras(ctx context.Context) ([]repo.Aseguradora, error) {
	return []repo.Aseguradora{{ID: 1, NombreAseguradora: "Seguros Andinos"}}, nil
}

func (stubCatalogos) ListJuzgados(ctx context.Context) ([]repo.Juzgado, error) { return nil, nil }

func (stubCatalogos) ListCasos(ctx context.Context) ([]repo.Caso, error) { return nil, nil }

func (stubCatalogos) ListUsuarios(ctx context.Context) ([]repo.UsuarioResumen, error) {
	return []repo.UsuarioResumen{{ID: 1, Nombre: "Admin", Apellido: "User", Username: "admin", Rol: repo.RolAdmin}}, nil
}

type stubPinger struct{ err error }

func (s stubPinger) Ping(ctx context.Context) error { return s.err }

type fixture struct {
	handler http.Handler
	auth    *stubAuth
	store   *memExpedientes
	db      *stubPinger
}

func newFixture() *fixture {
	f := &fixture{
		auth:  newStubAuth(),
		store: &memExpedientes{rows: make(map[int64]expediente.NewExpediente)},
		db:    &stubPinger{},
	}
	h := &Handler{
		cfg:         &config.Config{SessionCookie: cookieName},
		db:          f.db,
		auth:        f.auth,
		expedientes: expediente.NewService(f.store, allRefs{}),
		catalogos:   stubCatalogos{},
	}
	f.handler = h.routes()
	return f
}

func (f *fixture) do(method, path, token, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.AddCookie(&http.Cookie{Name: cookieName, Value: token})
	}
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return body
}

func expectError(t *testing.T, rec *httptest.ResponseRecorder, status int, message string) {
	t.Helper()
	if rec.Code != status {
		t.Fatalf("expected %d, got %d (%s)", status, rec.Code, rec.Body.String())
	}
	body := decode(t, rec)
	if body["error"] != message || len(body) != 1 {
		t.Fatalf("unexpected error body %v", body)
	}
}

const validBody = `{"aseguradora_id":1,"usuario_id":2,"juzgado_id":1,"caso_id":1,"estado":"Pendiente","fecha":"2024-05-10"}`

func TestUnauthenticatedListReturns401(t *testing.T) {
	f := newFixture()
	expectError(t, f.do(http.MethodGet, "/expedientes", "", ""), http.StatusUnauthorized, "No autenticado")
	expectError(t, f.do(http.MethodGet, "/aseguradoras", "expirado", ""), http.StatusUnauthorized, "No autenticado")
}

func TestNonAdminWritesReturn403(t *testing.T) {
	f := newFixture()
	expectError(t, f.do(http.MethodPost, "/expedientes", "tok-ana", validBody), http.StatusForbidden, "No autorizado")
	expectError(t, f.do(http.MethodPut, "/expedientes/1", "tok-ana", `{"estado":"Cerrado"}`), http.StatusForbidden, "No autorizado")
	expectError(t, f.do(http.MethodDelete, "/expedientes/1", "tok-ana", ""), http.StatusForbidden, "No autorizado")
	if len(f.store.rows) != 0 {
		t.Fatal("expected no writes")
	}
}

func TestLogin(t *testing.T) {
	f := newFixture()

	rec := f.do(http.MethodPost, "/login", "", `{"username":"admin","pass":"admin"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var cookie *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == cookieName {
			cookie = c
		}
	}
	if cookie == nil || cookie.Value != "tok-admin" || !cookie.HttpOnly {
		t.Fatalf("unexpected cookie %+v", cookie)
	}

	body := decode(t, rec)
	usuario, _ := body["usuario"].(map[string]any)
	if body["mensaje"] != "Login correcto" || usuario["rol"] != "admin" || usuario["username"] != "admin" {
		t.Fatalf("unexpected body %v", body)
	}
}

func TestLoginRejects(t *testing.T) {
	f := newFixture()
	expectError(t, f.do(http.MethodPost, "/login", "", `{"username":"admin","pass":"mal"}`), http.StatusUnauthorized, "Credenciales inválidas")
	expectError(t, f.do(http.MethodPost, "/login", "", `{"username":"admin"}`), http.StatusBadRequest, "username y pass son obligatorios")
	expectError(t, f.do(http.MethodPost, "/login", "", `{`), http.StatusBadRequest, "JSON inválido")
}

func TestLogoutClearsCookie(t *testing.T) {
	f := newFixture()

	rec := f.do(http.MethodPost, "/logout", "tok-ana", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if body := decode(t, rec); body["mensaje"] != "Logout correcto" {
		t.Fatalf("unexpected body %v", body)
	}
	if len(f.auth.loggedOut) != 1 || f.auth.loggedOut[0] != "tok-ana" {
		t.Fatalf("expected session removed, got %v", f.auth.loggedOut)
	}
	cookies := rec.Result().Cookies()
	if len(cookies) != 1 || cookies[0].MaxAge >= 0 {
		t.Fatalf("expected expired cookie, got %+v", cookies)
	}

	if rec := f.do(http.MethodPost, "/logout", "", ""); rec.Code != http.StatusOK {
		t.Fatalf("logout without session must succeed, got %d", rec.Code)
	}
}

func TestMe(t *testing.T) {
	f := newFixture()

	body := decode(t, f.do(http.MethodGet, "/me", "", ""))
	if body["autenticado"] != false || body["usuario"] != nil {
		t.Fatalf("unexpected anonymous body %v", body)
	}

	body = decode(t, f.do(http.MethodGet, "/me", "tok-ana", ""))
	usuario, _ := body["usuario"].(map[string]any)
	if body["autenticado"] != true || usuario["rol"] != "usuario" || usuario["apellido"] != "Paz" {
		t.Fatalf("unexpected body %v", body)
	}
}

func TestCreateDeleteThenGet(t *testing.T) {
	f := newFixture()

	rec := f.do(http.MethodPost, "/expedientes", "tok-admin", validBody)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d (%s)", rec.Code, rec.Body.String())
	}
	body := decode(t, rec)
	if body["mensaje"] != "Expediente creado" || body["id"] != float64(1) {
		t.Fatalf("unexpected body %v", body)
	}

	rec = f.do(http.MethodGet, "/expedientes/1", "tok-ana", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if row := decode(t, rec); row["fecha"] != "2024-05-10" || row["estado"] != "Pendiente" {
		t.Fatalf("unexpected row %v", row)
	}

	rec = f.do(http.MethodDelete, "/expedientes/1", "tok-admin", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if body := decode(t, rec); body["mensaje"] != "Expediente eliminado" {
		t.Fatalf("unexpected body %v", body)
	}

	expectError(t, f.do(http.MethodGet, "/expedientes/1", "tok-ana", ""), http.StatusNotFound, "Expediente no encontrado")
	expectError(t, f.do(http.MethodDelete, "/expedientes/1", "tok-admin", ""), http.StatusNotFound, "Expediente no encontrado")
}

func TestWriteValidationErrors(t *testing.T) {
	f := newFixture()
	f.store.rows[1] = expediente.NewExpediente{}

	tests := []struct {
		name    string
		method  string
		path    string
		body    string
		status  int
		message string
	}{
		{"estado", http.MethodPost, "/expedientes", strings.Replace(validBody, "Pendiente", "Abierto", 1),
			http.StatusBadRequest, "Estado inválido. Use: Pendiente | En Curso | Cerrado"},
		{"fecha", http.MethodPost, "/expedientes", strings.Replace(validBody, "2024-05-10", "2024-02-30", 1),
			http.StatusBadRequest, "Formato de fecha inválido. Use YYYY-MM-DD"},
		{"faltantes", http.MethodPost, "/expedientes", `{"estado":"Pendiente"}`,
			http.StatusBadRequest, "Campos obligatorios: aseguradora_id, usuario_id, juzgado_id, caso_id, estado, fecha"},
		{"referencia", http.MethodPost, "/expedientes", strings.Replace(validBody, `"caso_id":1`, `"caso_id":500`, 1),
			http.StatusBadRequest, "caso_id no existe"},
		{"sin cambios", http.MethodPut, "/expedientes/1", `{}`,
			http.StatusBadRequest, "Sin cambios"},
		{"cuerpo vacío", http.MethodPut, "/expedientes/1", "",
			http.StatusBadRequest, "Sin cambios"},
		{"estado null", http.MethodPut, "/expedientes/1", `{"estado":null}`,
			http.StatusBadRequest, "Sin cambios"},
		{"update inexistente", http.MethodPut, "/expedientes/77", `{"estado":"Cerrado"}`,
			http.StatusNotFound, "Expediente no encontrado"},
		{"id no numérico", http.MethodPut, "/expedientes/abc", `{"estado":"Cerrado"}`,
			http.StatusNotFound, "Expediente no encontrado"},
		{"json", http.MethodPost, "/expedientes", `{"aseguradora_id":"uno"}`,
			http.StatusBadRequest, "JSON inválido"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			expectError(t, f.do(tc.method, tc.path, "tok-admin", tc.body), tc.status, tc.message)
		})
	}
	if len(f.store.rows) != 1 {
		t.Fatalf("row count changed: %d", len(f.store.rows))
	}
}

func TestListExpedientes(t *testing.T) {
	f := newFixture()

	rec := f.do(http.MethodGet, "/expedientes?page=2&page_size=10", "tok-ana", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := decode(t, rec)
	data, ok := body["data"].([]any)
	if !ok || len(data) != 0 || body["page"] != float64(2) || body["page_size"] != float64(10) {
		t.Fatalf("unexpected body %v", body)
	}

	expectError(t, f.do(http.MethodGet, "/expedientes?estado=Abierto", "tok-ana", ""),
		http.StatusBadRequest, "Estado inválido. Use: Pendiente | En Curso | Cerrado")
	expectError(t, f.do(http.MethodGet, "/expedientes?fecha_hasta=2024-13-01", "tok-ana", ""),
		http.StatusBadRequest, "fecha_hasta inválida. Use YYYY-MM-DD")
	expectError(t, f.do(http.MethodGet, "/expedientes?page=9223372036854775807&page_size=50", "tok-ana", ""),
		http.StatusBadRequest, "page inválido")
}

func TestStorageErrorsAreSanitized(t *testing.T) {
	f := newFixture()
	f.store.fail = errors.New(`ERROR: relation "expediente" does not exist`)

	expectError(t, f.do(http.MethodGet, "/expedientes", "tok-ana", ""), http.StatusInternalServerError, "error de base de datos")
	expectError(t, f.do(http.MethodPost, "/expedientes", "tok-admin", validBody), http.StatusInternalServerError, "error de base de datos")
}

func TestCatalogos(t *testing.T) {
	f := newFixture()

	rec := f.do(http.MethodGet, "/juzgados", "tok-ana", "")
	if rec.Code != http.StatusOK || strings.TrimSpace(rec.Body.String()) != "[]" {
		t.Fatalf("expected empty array, got %d %q", rec.Code, rec.Body.String())
	}

	rec = f.do(http.MethodGet, "/usuarios", "tok-ana", "")
	if strings.Contains(rec.Body.String(), "pass") {
		t.Fatalf("usuarios must not expose credentials: %s", rec.Body.String())
	}
	var usuarios []map[string]any
	if err := json.NewDecoder(rec.Body).Decode(&usuarios); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(usuarios) != 1 || usuarios[0]["username"] != "admin" {
		t.Fatalf("unexpected usuarios %v", usuarios)
	}
}

func TestStatus(t *testing.T) {
	f := newFixture()

	body := decode(t, f.do(http.MethodGet, "/status", "", ""))
	if body["status"] != "ok" || body["db"] != "conectada" {
		t.Fatalf("unexpected body %v", body)
	}

	f.db.err = errors.New("connection refused")
	rec := f.do(http.MethodGet, "/status", "", "")
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	if body := decode(t, rec); body["status"] != "error" || body["db_error"] != "connection refused" {
		t.Fatalf("unexpected body %v", body)
	}
}

func TestIndexRedirects(t *testing.T) {
	f := newFixture()

	if rec := f.do(http.MethodGet, "/", "", ""); rec.Code != http.StatusFound || rec.Header().Get("Location") != "/login-ui" {
		t.Fatalf("unexpected anonymous redirect %d %q", rec.Code, rec.Header().Get("Location"))
	}
	if rec := f.do(http.MethodGet, "/", "tok-ana", ""); rec.Code != http.StatusFound || rec.Header().Get("Location") != "/ui" {
		t.Fatalf("unexpected session redirect %d %q", rec.Code, rec.Header().Get("Location"))
	}
}

func TestPagesServeHTML(t *testing.T) {
	f := newFixture()

	for _, path := range []string{"/login-ui", "/ui"} {
		rec := f.do(http.MethodGet, path, "", "")
		if rec.Code != http.StatusOK || !strings.HasPrefix(rec.Header().Get("Content-Type"), "text/html") {
			t.Fatalf("%s: unexpected response %d %q", path, rec.Code, rec.Header().Get("Content-Type"))
		}
	}
}

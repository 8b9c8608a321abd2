package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/andrewpaige1/flashcard-saas/auth"
	"github.com/andrewpaige1/flashcard-saas/checkout"
	"github.com/andrewpaige1/flashcard-saas/collections"
	"github.com/andrewpaige1/flashcard-saas/common"
	"github.com/andrewpaige1/flashcard-saas/config"
	"github.com/andrewpaige1/flashcard-saas/middleware"
	"github.com/andrewpaige1/flashcard-saas/models"
	"github.com/andrewpaige1/flashcard-saas/store"
)

var testAuth = config.Auth{Mode: config.AuthModeHS256, Secret: "handler-secret", Issuer: "flashcard-saas"}

// ---- fakes ----

type fakeGenerator struct {
	cards []models.Card
	err   error
	calls int
	text  string
}

func (f *fakeGenerator) Generate(_ context.Context, text string) ([]models.Card, error) {
	f.calls++
	f.text = text
	return f.cards, f.err
}

type fakeCollections struct {
	saveErr error
	list    []models.CollectionIndexEntry
	listErr error
	cards   []models.Card
	getErr  error

	savedUser string
	savedName string
	saved     []models.Card
}

func (f *fakeCollections) Save(_ context.Context, userID, name string, cards []models.Card) error {
	f.savedUser, f.savedName, f.saved = userID, name, cards
	return f.saveErr
}

func (f *fakeCollections) List(context.Context, string) ([]models.CollectionIndexEntry, error) {
	return f.list, f.listErr
}

func (f *fakeCollections) Get(context.Context, string, string) ([]models.Card, error) {
	return f.cards, f.getErr
}

type fakeCheckout struct {
	origin  string
	id      string
	err     error
	session *checkout.Session
}

func (f *fakeCheckout) CreateSession(_ context.Context, origin string) (string, error) {
	f.origin = origin
	return f.id, f.err
}

func (f *fakeCheckout) GetSession(_ context.Context, id string) (*checkout.Session, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.session, nil
}

// ---- helpers ----

func newServer(t *testing.T, h *Handler) http.Handler {
	t.Helper()
	if h.Log == nil {
		h.Log = zap.NewNop()
	}
	ensure, err := middleware.EnsureValidToken(testAuth, h.Log)
	require.NoError(t, err)
	return ensure(h.Routes())
}

func tokenFor(t *testing.T, subject string) string {
	t.Helper()
	token, err := auth.NewIssuer(testAuth).CreateToken(subject)
	require.NoError(t, err)
	return token
}

func do(t *testing.T, srv http.Handler, method, target, subject string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if s, ok := body.(string); ok {
			buf.WriteString(s)
		} else {
			require.NoError(t, json.NewEncoder(&buf).Encode(body))
		}
	}
	req := httptest.NewRequest(method, target, &buf)
	if subject != "" {
		req.Header.Set("Authorization", "Bearer "+tokenFor(t, subject))
	}
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	return v
}

// ---- generation ----

func TestGenerateFlashcards_Success(t *testing.T) {
	gen := &fakeGenerator{cards: []models.Card{{Front: "H2O", Back: "Water"}}}
	srv := newServer(t, &Handler{Generator: gen})

	rec := do(t, srv, http.MethodPost, "/api/generate", "u1", map[string]string{"text": "chemistry"})

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	resp := decode[flashcardsResponse](t, rec)
	assert.Equal(t, []models.Card{{Front: "H2O", Back: "Water"}}, resp.Flashcards)
	assert.Equal(t, "chemistry", gen.text)
}

func TestGenerateFlashcards_EmptyTextNeverReachesGenerator(t *testing.T) {
	gen := &fakeGenerator{}
	srv := newServer(t, &Handler{Generator: gen})

	for _, text := range []string{"", "   \n\t"} {
		rec := do(t, srv, http.MethodPost, "/api/generate", "u1", map[string]string{"text": text})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	}
	assert.Zero(t, gen.calls)
}

func TestGenerateFlashcards_RequiresSession(t *testing.T) {
	gen := &fakeGenerator{}
	srv := newServer(t, &Handler{Generator: gen})

	rec := do(t, srv, http.MethodPost, "/api/generate", "", map[string]string{"text": "chemistry"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Zero(t, gen.calls)
}

func TestGenerateFlashcards_Failures(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		message string
	}{
		{name: "transport", err: fmt.Errorf("%w: timeout", common.ErrGenerationFailed), message: "error occurred while generating"},
		{name: "parse", err: fmt.Errorf("%w: not json", common.ErrGenerationParse), message: "could not be read"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newServer(t, &Handler{Generator: &fakeGenerator{err: tt.err}})

			rec := do(t, srv, http.MethodPost, "/api/generate", "u1", map[string]string{"text": "x"})
			assert.Equal(t, http.StatusBadGateway, rec.Code)
			assert.Contains(t, decode[map[string]string](t, rec)["error"], tt.message)
		})
	}
}

func TestGenerateFlashcards_BadBody(t *testing.T) {
	srv := newServer(t, &Handler{Generator: &fakeGenerator{}})

	rec := do(t, srv, http.MethodPost, "/api/generate", "u1", "{not json")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

// ---- collections ----

func TestCreateCollection_PassesUserAndCards(t *testing.T) {
	col := &fakeCollections{}
	srv := newServer(t, &Handler{Collections: col})
	cards := []models.Card{{Front: "H2O", Back: "Water"}}

	rec := do(t, srv, http.MethodPost, "/api/collections", "u1", createCollectionRequest{Name: "Biology", Flashcards: cards})

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "Biology", decode[collectionResponse](t, rec).Name)
	assert.Equal(t, "u1", col.savedUser)
	assert.Equal(t, "Biology", col.savedName)
	assert.Equal(t, cards, col.saved)
}

func TestCollections_ErrorMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "duplicate", err: common.ErrAlreadyExists, want: http.StatusConflict},
		{name: "invalid", err: fmt.Errorf("%w: name required", common.ErrInvalidInput), want: http.StatusBadRequest},
		{name: "store down", err: errors.New("dial tcp: refused"), want: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newServer(t, &Handler{Collections: &fakeCollections{saveErr: tt.err}})
			rec := do(t, srv, http.MethodPost, "/api/collections", "u1",
				createCollectionRequest{Name: "Biology", Flashcards: []models.Card{{Front: "q", Back: "a"}}})
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestCreateCollection_RejectsUnknownFields(t *testing.T) {
	srv := newServer(t, &Handler{Collections: &fakeCollections{}})

	rec := do(t, srv, http.MethodPost, "/api/collections", "u1", `{"name":"x","flashcards":[],"owner":"u2"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateCollection_RejectsOversizedBody(t *testing.T) {
	col := &fakeCollections{}
	srv := newServer(t, &Handler{Collections: col})
	big := `{"name":"Huge","flashcards":[{"front":"` + strings.Repeat("q", maxCollectionBody) + `","back":"a"}]}`

	rec := do(t, srv, http.MethodPost, "/api/collections", "u1", big)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, col.savedName)
}

func TestGetCollection_NotFound(t *testing.T) {
	srv := newServer(t, &Handler{Collections: &fakeCollections{getErr: common.ErrNotFound}})

	rec := do(t, srv, http.MethodGet, "/api/collections/Nope", "u1", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListCollections_EmptyIsArray(t *testing.T) {
	srv := newServer(t, &Handler{Collections: &fakeCollections{list: []models.CollectionIndexEntry{}}})

	rec := do(t, srv, http.MethodGet, "/api/collections", "u1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"collections":[]}`, rec.Body.String())
}

// TestCollections_EndToEnd wires the real service and gorm store.
func TestCollections_EndToEnd(t *testing.T) {
	db, err := config.OpenDatabase(config.Store{Driver: config.StoreSQLite, DSN: "file:handlers_e2e?mode=memory&cache=shared"})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	srv := newServer(t, &Handler{Collections: collections.NewService(store.NewGormStore(db), nil)})
	cards := []models.Card{{Front: "H2O", Back: "Water"}, {Front: "O2", Back: "Oxygen"}}

	rec := do(t, srv, http.MethodPost, "/api/collections", "u1", createCollectionRequest{Name: "Bio Chem", Flashcards: cards})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = do(t, srv, http.MethodPost, "/api/collections", "u1", createCollectionRequest{Name: "Bio Chem", Flashcards: cards[:1]})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = do(t, srv, http.MethodGet, "/api/collections", "u1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []models.CollectionIndexEntry{{Name: "Bio Chem"}}, decode[collectionsResponse](t, rec).Collections)

	rec = do(t, srv, http.MethodGet, "/api/collections/"+url.PathEscape("Bio Chem"), "u1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.ElementsMatch(t, cards, decode[collectionResponse](t, rec).Flashcards)

	// another user cannot see it
	rec = do(t, srv, http.MethodGet, "/api/collections/"+url.PathEscape("Bio Chem"), "u2", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

// ---- checkout ----

func TestCreateCheckoutSession_UsesAllowedOrigin(t *testing.T) {
	co := &fakeCheckout{id: "cs_test_1"}
	srv := newServer(t, &Handler{Checkout: co, AllowedOrigins: []string{"http://localhost:3000", "https://cards.example.com"}})

	req := httptest.NewRequest(http.MethodPost, "/api/checkout_sessions", nil)
	req.Header.Set("Authorization", "Bearer "+tokenFor(t, "u1"))
	req.Header.Set("Origin", "https://cards.example.com")
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "cs_test_1", decode[map[string]string](t, rec)["id"])
	assert.Equal(t, "https://cards.example.com", co.origin)
}

func TestCreateCheckoutSession_IgnoresForeignOrigin(t *testing.T) {
	co := &fakeCheckout{id: "cs_test_1"}
	srv := newServer(t, &Handler{Checkout: co, AllowedOrigins: []string{"http://localhost:3000"}})

	req := httptest.NewRequest(http.MethodPost, "/api/checkout_sessions", nil)
	req.Header.Set("Authorization", "Bearer "+tokenFor(t, "u1"))
	req.Header.Set("Origin", "https://evil.example.com")
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "http://localhost:3000", co.origin)
}

func TestCheckoutSession_RequiresSession(t *testing.T) {
	co := &fakeCheckout{id: "cs_test_1"}
	srv := newServer(t, &Handler{Checkout: co})

	rec := do(t, srv, http.MethodPost, "/api/checkout_sessions", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Empty(t, co.origin)
}

func TestCreateCheckoutSession_Failure(t *testing.T) {
	srv := newServer(t, &Handler{Checkout: &fakeCheckout{err: errors.New("stripe down")}})

	rec := do(t, srv, http.MethodPost, "/api/checkout_sessions", "u1", nil)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestGetCheckoutSession(t *testing.T) {
	co := &fakeCheckout{session: &checkout.Session{ID: "cs_1", Status: "complete", PaymentStatus: "paid"}}
	srv := newServer(t, &Handler{Checkout: co})

	rec := do(t, srv, http.MethodGet, "/api/checkout_sessions", "u1", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, srv, http.MethodGet, "/api/checkout_sessions?session_id=cs_1", "u1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"id":"cs_1","status":"complete","payment_status":"paid"}`, rec.Body.String())
}

// ---- dev token & health ----

func TestIssueDevToken(t *testing.T) {
	col := &fakeCollections{list: []models.CollectionIndexEntry{{Name: "Biology"}}}
	srv := newServer(t, &Handler{Collections: col, TokenIssuer: auth.NewIssuer(testAuth)})

	rec := do(t, srv, http.MethodPost, "/api/dev/token", "", map[string]string{"subject": "dev-user"})
	require.Equal(t, http.StatusOK, rec.Code)
	token := decode[map[string]string](t, rec)["token"]
	require.NotEmpty(t, token)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, middleware.AuthCookieName, cookies[0].Name)
	assert.Equal(t, int(auth.NewIssuer(testAuth).TTL().Seconds()), cookies[0].MaxAge)

	req := httptest.NewRequest(http.MethodGet, "/api/collections", nil)
	req.AddCookie(cookies[0])
	rec = httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "Biology"))
}

func TestIssueDevToken_DisabledWithoutIssuer(t *testing.T) {
	srv := newServer(t, &Handler{})

	rec := do(t, srv, http.MethodPost, "/api/dev/token", "", map[string]string{"subject": "dev-user"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHealth(t *testing.T) {
	srv := newServer(t, &Handler{})

	rec := do(t, srv, http.MethodGet, "/healthz", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

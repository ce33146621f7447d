package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	middleware "github.com/Skotchmaster/shop_cart/pkg/middleware/auth"
	"github.com/Skotchmaster/shop_cart/pkg/tokens"
	"github.com/Skotchmaster/shop_cart/services/cart/internal/models"
	"github.com/Skotchmaster/shop_cart/services/cart/internal/notify"
	"github.com/Skotchmaster/shop_cart/services/cart/internal/service"
	"github.com/Skotchmaster/shop_cart/services/cart/internal/storage"
	"github.com/Skotchmaster/shop_cart/services/cart/internal/transport"
)

var secret = []byte("test-secret")

type stubCatalog struct {
	mu       sync.Mutex
	products map[int]models.Product
	stock    map[int]int
	stockErr error
}

func (s *stubCatalog) GetProduct(_ context.Context, id int) (*models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.products[id]
	if !ok {
		return nil, errors.New("no such product")
	}
	return &p, nil
}

func (s *stubCatalog) GetStock(_ context.Context, id int) (*models.Stock, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stockErr != nil {
		return nil, s.stockErr
	}
	return &models.Stock{ID: id, Amount: s.stock[id]}, nil
}

type fixture struct {
	e        *echo.Echo
	catalog  *stubCatalog
	recorder *notify.Recorder
	carts    *service.Registry
	token    string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	cat := &stubCatalog{
		products: map[int]models.Product{
			1: {ID: 1, Title: "Tênis de Caminhada Leve Confortável", Price: 179.9, Image: "https://example.com/1.jpg"},
			2: {ID: 2, Title: "Tênis VR Caminhada Confortável Detalhes Couro Masculino", Price: 139.9, Image: "https://example.com/2.jpg"},
		},
		stock: map[int]int{1: 3, 2: 5},
	}
	rec := &notify.Recorder{}

	reg := service.NewRegistry(service.RegistryOptions{
		Store:    storage.NewMemoryStore(),
		Catalog:  cat,
		Notifier: rec,
		Locale:   language.BrazilianPortuguese,
	})

	e := echo.New()
	Register(e, &Deps{
		CartHandler: &CartHTTP{Carts: reg},
		JWTSecret:   secret,
	})

	token, err := tokens.NewAccessToken("42", "user", time.Now().Add(time.Hour), secret)
	require.NoError(t, err)

	return &fixture{e: e, catalog: cat, recorder: rec, carts: reg, token: token}
}

func (f *fixture) do(t *testing.T, method, path, body string, header map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if f.token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+f.token)
	}
	for k, v := range header {
		req.Header.Set(k, v)
	}

	rec := httptest.NewRecorder()
	f.e.ServeHTTP(rec, req)
	return rec
}

func decodeSnapshot(t *testing.T, rec *httptest.ResponseRecorder) models.Snapshot {
	t.Helper()
	var snap models.Snapshot
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &snap))
	return snap
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) transport.ErrorResponse {
	t.Helper()
	var resp transport.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestHealth(t *testing.T) {
	f := newFixture(t)

	assert.Equal(t, http.StatusOK, f.do(t, http.MethodGet, "/health/live", "", nil).Code)
	assert.Equal(t, http.StatusOK, f.do(t, http.MethodGet, "/health/ready", "", nil).Code)
}

func TestReadyReportsDependencyFailure(t *testing.T) {
	e := echo.New()
	Register(e, &Deps{
		CartHandler: &CartHTTP{},
		Ready:       func() error { return errors.New("redis down") },
	})

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestAddProductFlow(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodPost, "/cart/products", `{"product_id":1}`, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	snap := decodeSnapshot(t, rec)
	assert.Equal(t, "user:42", snap.Owner)
	assert.Equal(t, uint64(1), snap.Version)
	require.Len(t, snap.Items, 1)
	assert.Equal(t, 1, snap.Items[0].Amount)
	assert.Equal(t, 179.9, snap.Items[0].Price)

	rec = f.do(t, http.MethodPost, "/cart/products", `{"product_id":1}`, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 2, decodeSnapshot(t, rec).Items[0].Amount)

	rec = f.do(t, http.MethodGet, "/cart", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	got := decodeSnapshot(t, rec)
	assert.Equal(t, uint64(2), got.Version)
	assert.Equal(t, 2, got.Items[0].Amount)
}

func TestAddProductOutOfStock(t *testing.T) {
	f := newFixture(t)
	f.catalog.stock[1] = 0

	rec := f.do(t, http.MethodPost, "/cart/products", `{"product_id":1}`, nil)
	require.Equal(t, http.StatusConflict, rec.Code)

	resp := decodeError(t, rec)
	assert.Equal(t, string(notify.KindInsufficientStock), resp.Error)
	assert.Equal(t, "Quantidade solicitada fora de estoque", resp.Message)
	require.NotNil(t, resp.Cart)
	assert.Empty(t, resp.Cart.Items)
	assert.Equal(t, []notify.Kind{notify.KindInsufficientStock}, f.recorder.Kinds())
}

func TestAddProductBadRequests(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		name string
		body string
	}{
		{name: "malformed json", body: `{"product_id":`},
		{name: "missing id", body: `{}`},
		{name: "negative id", body: `{"product_id":-3}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := f.do(t, http.MethodPost, "/cart/products", tt.body, nil)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
	assert.Empty(t, f.recorder.All())
}

func TestAddProductCatalogFailureIsInternal(t *testing.T) {
	f := newFixture(t)
	f.catalog.stockErr = errors.New("connection refused")

	rec := f.do(t, http.MethodPost, "/cart/products", `{"product_id":1}`, map[string]string{"Accept-Language": "en-US,en;q=0.9"})
	require.Equal(t, http.StatusInternalServerError, rec.Code)

	resp := decodeError(t, rec)
	assert.Equal(t, string(notify.KindAddFailed), resp.Error)
	assert.Equal(t, "Failed to add product", resp.Message)
}

func TestRemoveProduct(t *testing.T) {
	f := newFixture(t)

	require.Equal(t, http.StatusOK, f.do(t, http.MethodPost, "/cart/products", `{"product_id":1}`, nil).Code)
	require.Equal(t, http.StatusOK, f.do(t, http.MethodPost, "/cart/products", `{"product_id":2}`, nil).Code)

	rec := f.do(t, http.MethodDelete, "/cart/products/1", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	snap := decodeSnapshot(t, rec)
	require.Len(t, snap.Items, 1)
	assert.Equal(t, 2, snap.Items[0].ID)

	rec = f.do(t, http.MethodDelete, "/cart/products/1", "", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
	resp := decodeError(t, rec)
	assert.Equal(t, string(notify.KindRemoveFailed), resp.Error)
	assert.Equal(t, "Erro na remoção do produto", resp.Message)
	assert.Len(t, resp.Cart.Items, 1)

	assert.Equal(t, http.StatusBadRequest, f.do(t, http.MethodDelete, "/cart/products/abc", "", nil).Code)
	assert.Equal(t, http.StatusBadRequest, f.do(t, http.MethodDelete, "/cart/products/0", "", nil).Code)
}

func TestUpdateProductAmount(t *testing.T) {
	f := newFixture(t)
	require.Equal(t, http.StatusOK, f.do(t, http.MethodPost, "/cart/products", `{"product_id":1}`, nil).Code)

	t.Run("within stock", func(t *testing.T) {
		rec := f.do(t, http.MethodPatch, "/cart/products/1", `{"amount":3}`, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, 3, decodeSnapshot(t, rec).Items[0].Amount)
	})

	t.Run("above stock", func(t *testing.T) {
		rec := f.do(t, http.MethodPatch, "/cart/products/1", `{"amount":4}`, nil)
		require.Equal(t, http.StatusConflict, rec.Code)
		resp := decodeError(t, rec)
		assert.Equal(t, 3, resp.Cart.Items[0].Amount)
	})

	t.Run("zero is ignored", func(t *testing.T) {
		before := len(f.recorder.All())
		rec := f.do(t, http.MethodPatch, "/cart/products/1", `{"amount":0}`, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, 3, decodeSnapshot(t, rec).Items[0].Amount)
		assert.Len(t, f.recorder.All(), before)
	})

	t.Run("not in cart", func(t *testing.T) {
		rec := f.do(t, http.MethodPatch, "/cart/products/2", `{"amount":1}`, nil)
		require.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, string(notify.KindUpdateFailed), decodeError(t, rec).Error)
	})

	t.Run("bad body", func(t *testing.T) {
		rec := f.do(t, http.MethodPatch, "/cart/products/1", `{"amount":"many"}`, nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestOwnersAreIsolated(t *testing.T) {
	f := newFixture(t)
	require.Equal(t, http.StatusOK, f.do(t, http.MethodPost, "/cart/products", `{"product_id":1}`, nil).Code)

	other, err := tokens.NewAccessToken("7", "user", time.Now().Add(time.Hour), secret)
	require.NoError(t, err)
	f.token = other

	rec := f.do(t, http.MethodGet, "/cart", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	snap := decodeSnapshot(t, rec)
	assert.Equal(t, "user:7", snap.Owner)
	assert.Empty(t, snap.Items)
}

func TestAnonymousSessionCart(t *testing.T) {
	f := newFixture(t)
	f.token = ""

	rec := f.do(t, http.MethodPost, "/cart/products", `{"product_id":2}`, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var session *http.Cookie
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == middleware.SessionCookie {
			session = ck
		}
	}
	require.NotNil(t, session)
	assert.Equal(t, "session:"+session.Value, decodeSnapshot(t, rec).Owner)

	rec = f.do(t, http.MethodGet, "/cart", "", map[string]string{"Cookie": session.Name + "=" + session.Value})
	require.Equal(t, http.StatusOK, rec.Code)
	snap := decodeSnapshot(t, rec)
	require.Len(t, snap.Items, 1)
	assert.Equal(t, 2, snap.Items[0].ID)
}

func TestInvalidTokenIsRejected(t *testing.T) {
	f := newFixture(t)
	f.token = "not-a-jwt"

	rec := f.do(t, http.MethodGet, "/cart", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestGetCartWithoutSessionKeepsNothing(t *testing.T) {
	f := newFixture(t)
	f.token = ""

	for i := 0; i < 200; i++ {
		rec := f.do(t, http.MethodGet, "/cart", "", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Empty(t, decodeSnapshot(t, rec).Items)
	}
	assert.Equal(t, 0, f.carts.Len())
}

func TestNotificationUsesRequestLocale(t *testing.T) {
	f := newFixture(t)
	f.catalog.stock[1] = 0

	rec := f.do(t, http.MethodPost, "/cart/products", `{"product_id":1}`, map[string]string{"Accept-Language": "en"})
	require.Equal(t, http.StatusConflict, rec.Code)

	resp := decodeError(t, rec)
	all := f.recorder.All()
	require.Len(t, all, 1)
	assert.Equal(t, "Requested quantity is out of stock", resp.Message)
	assert.Equal(t, resp.Message, all[0].Message)
}

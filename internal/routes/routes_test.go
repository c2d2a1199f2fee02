package routes

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"catalog-browser/internal/client"
	"catalog-browser/internal/handlers"
	"catalog-browser/internal/models"
	"catalog-browser/internal/session"
	"catalog-browser/internal/view"
)

type stubSource struct {
	products    []models.Product
	names       []string
	productsErr error
}

func (s *stubSource) FetchProducts(ctx context.Context) ([]models.Product, error) {
	if s.productsErr != nil {
		return nil, s.productsErr
	}
	return s.products, nil
}

func (s *stubSource) FetchProductByID(ctx context.Context, id int) (*models.Product, error) {
	if s.productsErr != nil {
		return nil, s.productsErr
	}
	for _, p := range s.products {
		if p.ID == id {
			p := p
			return &p, nil
		}
	}
	return nil, client.ErrNotFound
}

func (s *stubSource) FetchCategoryNames(ctx context.Context) ([]string, error) {
	return s.names, nil
}

func (s *stubSource) FetchCategories(ctx context.Context) ([]models.Category, error) {
	categories := make([]models.Category, 0, len(s.names))
	for i, n := range s.names {
		categories = append(categories, models.Category{ID: i + 1, Name: n})
	}
	return categories, nil
}

type recordingMirror struct {
	products   []models.Product
	categories []models.Category
}

func (m *recordingMirror) ReplaceAll(ctx context.Context, products []models.Product, categories []models.Category) error {
	m.products = products
	m.categories = categories
	return nil
}

func newStub() *stubSource {
	return &stubSource{
		products: []models.Product{
			{ID: 1, Title: "Banana", Description: "Yellow fruit", Price: 10, Category: models.Category{ID: 1, Name: "Fruit"}},
			{ID: 2, Title: "Apple Juice", Description: "Fresh pressed", Price: 5, Category: models.Category{ID: 2, Name: "Drinks"}},
		},
		names: []string{"Drinks", "Fruit"},
	}
}

func newRouter(t *testing.T, src *stubSource, mirror handlers.Mirror) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := session.NewStore(time.Minute)
	t.Cleanup(store.Close)

	d := Deps{
		Catalog: handlers.NewCatalogHandler(src),
		Browse:  handlers.NewBrowseHandler(src, store),
	}
	if mirror != nil {
		d.Mirror = handlers.NewMirrorHandler(src, mirror)
	}

	router := gin.New()
	RegisterRoutes(router, d)
	return router
}

func do(t *testing.T, router *gin.Engine, method, target string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func titles(products []models.Product) []string {
	out := make([]string, 0, len(products))
	for _, p := range products {
		out = append(out, p.Title)
	}
	return out
}

func TestHealth(t *testing.T) {
	router := newRouter(t, newStub(), nil)

	w := do(t, router, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestListProducts(t *testing.T) {
	router := newRouter(t, newStub(), nil)

	testCases := []struct {
		name  string
		query url.Values
		want  []string
	}{
		{name: "defaults", query: url.Values{}, want: []string{"Apple Juice", "Banana"}},
		{name: "search", query: url.Values{"q": {"ban"}}, want: []string{"Banana"}},
		{name: "price high", query: url.Values{"sort": {"price-high"}}, want: []string{"Banana", "Apple Juice"}},
		{name: "min price", query: url.Values{"min_price": {"6"}, "max_price": {"100"}}, want: []string{"Banana"}},
		{name: "category", query: url.Values{"category": {"Drinks"}}, want: []string{"Apple Juice"}},
		{name: "unknown sort", query: url.Values{"sort": {"popular"}}, want: []string{"Apple Juice", "Banana"}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			w := do(t, router, http.MethodGet, "/v1/products?"+tc.query.Encode(), nil)
			require.Equal(t, http.StatusOK, w.Code)

			resp := decode[handlers.ProductListResponse](t, w)
			assert.Equal(t, tc.want, titles(resp.Products))
			assert.Equal(t, 2, resp.Total)
			assert.Equal(t, 10.0, resp.MaxPrice)
		})
	}
}

func TestListProducts_InvalidPrice(t *testing.T) {
	router := newRouter(t, newStub(), nil)

	w := do(t, router, http.MethodGet, "/v1/products?min_price=-1", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, router, http.MethodGet, "/v1/products?max_price=cheap", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListProducts_UpstreamFailure(t *testing.T) {
	src := newStub()
	src.productsErr = &client.NetworkError{Op: "GET", URL: "/products", Err: errors.New("refused")}
	router := newRouter(t, src, nil)

	w := do(t, router, http.MethodGet, "/v1/products", nil)
	assert.Equal(t, http.StatusBadGateway, w.Code)
}

func TestGetProduct(t *testing.T) {
	router := newRouter(t, newStub(), nil)

	w := do(t, router, http.MethodGet, "/v1/products/2", nil)
	require.Equal(t, http.StatusOK, w.Code)
	p := decode[models.Product](t, w)
	assert.Equal(t, "Apple Juice", p.Title)

	w = do(t, router, http.MethodGet, "/v1/products/77", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "product not found", decode[map[string]string](t, w)["error"])

	w = do(t, router, http.MethodGet, "/v1/products/abc", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListCategories(t *testing.T) {
	router := newRouter(t, newStub(), nil)

	w := do(t, router, http.MethodGet, "/v1/categories", nil)
	require.Equal(t, http.StatusOK, w.Code)
	resp := decode[map[string][]string](t, w)
	assert.Equal(t, []string{"Drinks", "Fruit"}, resp["categories"])
}

type sessionCreated struct {
	SessionID string            `json:"session_id"`
	View      view.ListSnapshot `json:"view"`
}

func TestSessionFlow(t *testing.T) {
	router := newRouter(t, newStub(), nil)

	w := do(t, router, http.MethodPost, "/v1/sessions", nil)
	require.Equal(t, http.StatusCreated, w.Code)
	created := decode[sessionCreated](t, w)
	require.NotEmpty(t, created.SessionID)
	assert.Equal(t, view.ListReady, created.View.State)
	assert.Equal(t, 10.0, created.View.Criteria.PriceMax)
	base := "/v1/sessions/" + created.SessionID

	w = do(t, router, http.MethodPatch, base+"/criteria", map[string]interface{}{
		"search": "ban",
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"Banana"}, titles(decode[view.ListSnapshot](t, w).Products))

	// Criteria persist across requests.
	w = do(t, router, http.MethodPatch, base+"/criteria", map[string]interface{}{
		"sort": "price-high",
	})
	require.Equal(t, http.StatusOK, w.Code)
	snap := decode[view.ListSnapshot](t, w)
	assert.Equal(t, "ban", snap.Criteria.Search)
	assert.Equal(t, models.SortByPriceDesc, snap.Criteria.Sort)

	w = do(t, router, http.MethodPatch, base+"/criteria", map[string]interface{}{
		"search":    "",
		"price_min": 6,
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"Banana"}, titles(decode[view.ListSnapshot](t, w).Products))

	w = do(t, router, http.MethodPost, base+"/clear", nil)
	require.Equal(t, http.StatusOK, w.Code)
	snap = decode[view.ListSnapshot](t, w)
	assert.Equal(t, []string{"Apple Juice", "Banana"}, titles(snap.Products))
	assert.Equal(t, models.FilterCriteria{
		Category: models.CategoryAll,
		PriceMax: 10,
		Sort:     models.SortByName,
	}, snap.Criteria)

	w = do(t, router, http.MethodGet, base, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = do(t, router, http.MethodGet, base+"/products/1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	detail := decode[view.DetailSnapshot](t, w)
	assert.Equal(t, view.DetailLoaded, detail.State)
	assert.Equal(t, "Banana", detail.Product.Title)

	w = do(t, router, http.MethodGet, base+"/products/42", nil)
	require.Equal(t, http.StatusNotFound, w.Code)
	detail = decode[view.DetailSnapshot](t, w)
	assert.Equal(t, view.DetailNotFound, detail.State)
	assert.Nil(t, detail.Product)

	w = do(t, router, http.MethodDelete, base, nil)
	require.Equal(t, http.StatusOK, w.Code)
	w = do(t, router, http.MethodGet, base, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSession_InvalidCriteria(t *testing.T) {
	router := newRouter(t, newStub(), nil)

	created := decode[sessionCreated](t, do(t, router, http.MethodPost, "/v1/sessions", nil))
	base := "/v1/sessions/" + created.SessionID

	w := do(t, router, http.MethodPatch, base+"/criteria", map[string]interface{}{"price_max": -1})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, router, http.MethodPatch, base+"/criteria", map[string]interface{}{"price_min": "cheap"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Unknown sort keys are not an error; they sort by name.
	w = do(t, router, http.MethodPatch, base+"/criteria", map[string]interface{}{"sort": "rating"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, models.SortByName, decode[view.ListSnapshot](t, w).Criteria.Sort)
}

func TestSession_FailedLoadIsSurfaced(t *testing.T) {
	src := newStub()
	src.productsErr = errors.New("upstream down")
	router := newRouter(t, src, nil)

	w := do(t, router, http.MethodPost, "/v1/sessions", nil)
	require.Equal(t, http.StatusCreated, w.Code)
	created := decode[sessionCreated](t, w)
	assert.Equal(t, view.ListReady, created.View.State)
	assert.Empty(t, created.View.Products)
	assert.Equal(t, "upstream down", created.View.Error)
}

func TestSession_Unknown(t *testing.T) {
	router := newRouter(t, newStub(), nil)

	for _, r := range []struct{ method, path string }{
		{http.MethodGet, "/v1/sessions/nope"},
		{http.MethodPost, "/v1/sessions/nope/clear"},
		{http.MethodGet, "/v1/sessions/nope/products/1"},
		{http.MethodDelete, "/v1/sessions/nope"},
	} {
		w := do(t, router, r.method, r.path, nil)
		assert.Equal(t, http.StatusNotFound, w.Code, r.path)
	}
}

func TestMirrorSync(t *testing.T) {
	mirror := &recordingMirror{}
	router := newRouter(t, newStub(), mirror)

	w := do(t, router, http.MethodPost, "/v1/mirror/sync", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, mirror.products, 2)
	assert.Len(t, mirror.categories, 2)
}

func TestMirrorSync_NotMountedWithoutMirror(t *testing.T) {
	router := newRouter(t, newStub(), nil)

	w := do(t, router, http.MethodPost, "/v1/mirror/sync", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestMirrorSync_UpstreamFailureLeavesMirror(t *testing.T) {
	src := newStub()
	src.productsErr = &client.NetworkError{Op: "GET", URL: "/products", Err: errors.New("refused")}
	mirror := &recordingMirror{}
	router := newRouter(t, src, mirror)

	w := do(t, router, http.MethodPost, "/v1/mirror/sync", nil)
	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Nil(t, mirror.products)
}

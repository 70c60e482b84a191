package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"storefront-admin/internal/domain"
	"storefront-admin/internal/middleware"
	"storefront-admin/internal/security"
	"storefront-admin/internal/service"
	"storefront-admin/internal/testutil"
)

const testCSRFToken = "test-csrf-token"

// fakeSessions is an in-memory SessionManager that remembers one login.
type fakeSessions struct {
	testutil.MockSessionReader
	loggedOut bool
}

func (f *fakeSessions) Login(w http.ResponseWriter, identity domain.Identity) (*domain.Session, error) {
	f.Session = testutil.NewTestSession(testutil.WithSessionIdentity(&identity))
	http.SetCookie(w, &http.Cookie{Name: "session", Value: "signed-token", Path: "/"})
	return f.Session, nil
}

func (f *fakeSessions) Logout(w http.ResponseWriter) {
	f.Session = nil
	f.loggedOut = true
	http.SetCookie(w, &http.Cookie{Name: "session", Value: "", Path: "/", MaxAge: -1})
}

type testEnv struct {
	products   *testutil.MockProductRepository
	categories *testutil.MockCategoryRepository
	orders     *testutil.MockOrderRepository
	customers  *testutil.MockCustomerRepository
	reviews    *testutil.MockReviewRepository
	assets     *testutil.MockAssetUploader
	events     *testutil.MockEventPublisher
	sessions   *fakeSessions
	router     http.Handler
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	env := &testEnv{
		products:   testutil.NewMockProductRepository(),
		categories: testutil.NewMockCategoryRepository(),
		orders:     testutil.NewMockOrderRepository(),
		customers:  &testutil.MockCustomerRepository{},
		reviews:    &testutil.MockReviewRepository{},
		assets:     &testutil.MockAssetUploader{},
		events:     testutil.NewMockEventPublisher(),
		sessions:   &fakeSessions{},
	}

	credentials := &testutil.MockCredentialChecker{Email: "admin@example.com", Password: "correct horse"}
	catalog := service.NewCatalogService(env.products, env.categories, env.assets, env.events)
	orders := service.NewOrderService(env.orders, env.products, env.customers, env.events)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	env.router = NewRouter(RouterConfig{
		Auth:           NewAuthHandler(credentials, env.sessions),
		Catalog:        NewCatalogHandler(catalog),
		Orders:         NewOrderHandler(orders),
		Customers:      NewCustomerHandler(service.NewCustomerService(env.customers), service.NewReviewService(env.reviews, env.events)),
		Pages:          NewPages(t.TempDir()),
		Sessions:       env.sessions,
		Tokens:         security.NewTokenManager(),
		Store:          stubPinger{},
		AllowedOrigins: []string{"http://localhost:3000"},
		OpenAPI:        middleware.OpenAPIValidatorConfig{Enabled: false},
		AuthLimiter:    middleware.NewRateLimiter(ctx, 100, 100),
		APILimiter:     middleware.NewRateLimiter(ctx, 100, 100),
	})
	return env
}

// signIn gives the env a live admin session.
func (e *testEnv) signIn() {
	e.sessions.Session = testutil.NewTestSession(testutil.WithCSRFToken(testCSRFToken))
}

func (e *testEnv) serve(req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

// serveWithCSRF sends req with the session CSRF token.
func (e *testEnv) serveWithCSRF(req *http.Request) *httptest.ResponseRecorder {
	req.Header.Set(middleware.CSRFHeader, testCSRFToken)
	return e.serve(req)
}

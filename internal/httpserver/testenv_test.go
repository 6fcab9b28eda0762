package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/ovolkov/marketplace/internal/models"
	"github.com/ovolkov/marketplace/internal/repo"
	"github.com/ovolkov/marketplace/internal/service"
)

type publishedEvent struct {
	Topic string
	Key   string
	Event any
}

type stubPublisher struct {
	published []publishedEvent
}

func (s *stubPublisher) PublishEvent(ctx context.Context, topic, key string, event any) error {
	s.published = append(s.published, publishedEvent{Topic: topic, Key: key, Event: event})
	return nil
}

type testEnv struct {
	T        *testing.T
	E        *echo.Echo
	Repo     *repo.GormRepo
	Orders   *OrderHTTP
	Products *ProductHTTP
	Auth     *AuthHTTP
	Pub      *stubPublisher
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(
		&models.User{}, &models.Product{}, &models.Order{}, &models.OrderItem{},
	))
	t.Cleanup(func() { _ = sqlDB.Close() })

	r := repo.New(db)
	orderSvc := &service.OrderService{Repo: r}
	catalogSvc := &service.CatalogService{Repo: r, Orders: orderSvc}
	productSvc := &service.ProductService{Repo: r}
	authSvc := &service.AuthService{Repo: r, JWTSecret: []byte("test-jwt-secret")}
	pub := &stubPublisher{}

	return &testEnv{
		T:        t,
		E:        echo.New(),
		Repo:     r,
		Orders:   &OrderHTTP{Svc: orderSvc, Catalog: catalogSvc, Producer: pub},
		Products: &ProductHTTP{Svc: productSvc, Catalog: catalogSvc, Producer: pub},
		Auth:     &AuthHTTP{Svc: authSvc},
		Pub:      pub,
	}
}

func (env *testEnv) doJSONRequest(method, path string, body any) (*httptest.ResponseRecorder, echo.Context) {
	var buf bytes.Buffer
	if body != nil {
		require.NoError(env.T, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := env.E.NewContext(req, rec)
	return rec, c
}

func (env *testEnv) asUser(c echo.Context, u *models.User) {
	c.Set("user_id", u.ID.String())
	c.Set("role", u.Role)
}

func (env *testEnv) createUser(name, role string) *models.User {
	env.T.Helper()
	u := &models.User{Name: name, Email: name + "@example.com", PasswordHash: "x", Role: role}
	require.NoError(env.T, env.Repo.DB.Create(u).Error)
	return u
}

func (env *testEnv) createProduct(sellerID uuid.UUID, name string, price float64) *models.Product {
	env.T.Helper()
	p := &models.Product{Name: name, Price: price, Image: "i.png", Category: "c", SellerID: sellerID}
	require.NoError(env.T, env.Repo.DB.Create(p).Error)
	return p
}

func httpStatusOf(t *testing.T, err error) int {
	t.Helper()
	var he *echo.HTTPError
	require.ErrorAs(t, err, &he)
	return he.Code
}

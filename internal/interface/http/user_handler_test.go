package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	userapp "github.com/oksasatya/user-orders-api/internal/application"
	"github.com/oksasatya/user-orders-api/internal/domain/entity"
	repo "github.com/oksasatya/user-orders-api/internal/domain/repository"
	"github.com/oksasatya/user-orders-api/pkg/validation"
)

// memRepo is a minimal in-memory gateway for handler tests.
type memRepo struct {
	users map[int]*entity.User
}

func newMemRepo() *memRepo { return &memRepo{users: make(map[int]*entity.User)} }

func (m *memRepo) visible(id int) *entity.User {
	u, ok := m.users[id]
	if !ok || u.IsDeleted {
		return nil
	}
	return u
}

func (m *memRepo) Exists(_ context.Context, id int) (bool, error) {
	return m.visible(id) != nil, nil
}

func (m *memRepo) FindConflict(_ context.Context, id int, username, email string) (bool, error) {
	for _, u := range m.users {
		if !u.IsDeleted && (u.UserID == id || u.Username == username || u.Email == email) {
			return true, nil
		}
	}
	return false, nil
}

func (m *memRepo) Create(_ context.Context, u *entity.User) error {
	cp := *u
	m.users[u.UserID] = &cp
	return nil
}

func (m *memRepo) ListAll(_ context.Context) ([]entity.User, error) {
	var out []entity.User
	for _, u := range m.users {
		if !u.IsDeleted {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (m *memRepo) GetByUserID(_ context.Context, id int) (*entity.User, error) {
	u := m.visible(id)
	if u == nil {
		return nil, repo.ErrNotFound
	}
	cp := *u
	cp.Password = ""
	return &cp, nil
}

func (m *memRepo) Update(_ context.Context, id int, patch repo.UserUpdate) (*entity.User, error) {
	u := m.visible(id)
	if u == nil {
		return nil, repo.ErrNotFound
	}
	if patch.Username != nil {
		u.Username = *patch.Username
	}
	if patch.Password != nil {
		u.Password = *patch.Password
	}
	if patch.FullName != nil {
		u.FullName = *patch.FullName
	}
	if patch.Age != nil {
		u.Age = *patch.Age
	}
	if patch.Email != nil {
		u.Email = *patch.Email
	}
	if patch.IsActive != nil {
		u.IsActive = *patch.IsActive
	}
	if patch.Hobbies != nil {
		u.Hobbies = *patch.Hobbies
	}
	if patch.Address != nil {
		u.Address = *patch.Address
	}
	cp := *u
	return &cp, nil
}

func (m *memRepo) SoftDelete(_ context.Context, id int) error {
	u := m.visible(id)
	if u == nil {
		return repo.ErrNotFound
	}
	u.IsDeleted = true
	return nil
}

func (m *memRepo) AppendOrder(_ context.Context, id int, order entity.Order) (*entity.User, error) {
	u := m.visible(id)
	if u == nil {
		return nil, repo.ErrNotFound
	}
	u.Orders = append(u.Orders, order)
	cp := *u
	return &cp, nil
}

func (m *memRepo) ListOrders(_ context.Context, id int) ([]entity.Order, error) {
	u := m.visible(id)
	if u == nil {
		return nil, repo.ErrNotFound
	}
	if u.Orders == nil {
		return []entity.Order{}, nil
	}
	return u.Orders, nil
}

var _ repo.UserRepository = (*memRepo)(nil)

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code        string      `json:"code"`
		Description interface{} `json:"description"`
	} `json:"error"`
}

func setupRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	validation.Init()

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	svc := userapp.NewService(newMemRepo(), nil, logger, 4, 0)
	h := NewUserHandler(svc, logger)

	r := gin.New()
	users := r.Group("/api/users")
	users.POST("", h.Create)
	users.GET("", h.List)
	users.GET("/:userId", h.Get)
	users.PUT("/:userId", h.Update)
	users.DELETE("/:userId", h.Delete)
	users.PUT("/:userId/orders", h.AppendOrder)
	users.GET("/:userId/orders", h.ListOrders)
	users.GET("/:userId/orders/total-price", h.TotalPrice)
	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	var env envelope
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &env))
	return rr, env
}

func validUserPayload() map[string]interface{} {
	return map[string]interface{}{
		"userId":   1,
		"username": "abc",
		"password": "pw",
		"fullName": map[string]string{"firstName": "Abc", "lastName": "X"},
		"age":      30,
		"email":    "a@b.com",
		"isActive": true,
		"hobbies":  []string{"x"},
		"address":  map[string]string{"street": "s", "city": "c", "country": "k"},
		"orders":   []interface{}{},
	}
}

func TestCreateAndGetUser(t *testing.T) {
	r := setupRouter()

	rr, env := doJSON(t, r, http.MethodPost, "/api/users", validUserPayload())
	require.Equal(t, http.StatusOK, rr.Code)
	require.True(t, env.Success)

	var data map[string]interface{}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	require.Equal(t, "abc", data["username"])
	_, hasPassword := data["password"]
	require.False(t, hasPassword, "password must never appear in a response")

	rr, env = doJSON(t, r, http.MethodGet, "/api/users/1", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	require.NoError(t, json.Unmarshal(env.Data, &data))
	require.Equal(t, "abc", data["username"])
	_, hasPassword = data["password"]
	require.False(t, hasPassword)
}

func TestCreateRejectsUncapitalizedFirstName(t *testing.T) {
	r := setupRouter()

	payload := validUserPayload()
	payload["fullName"] = map[string]string{"firstName": "john", "lastName": "X"}

	rr, env := doJSON(t, r, http.MethodPost, "/api/users", payload)
	require.Equal(t, http.StatusBadRequest, rr.Code)
	require.False(t, env.Success)
	require.NotNil(t, env.Error)
	require.Equal(t, "VALIDATION_ERROR", env.Error.Code)

	details, ok := env.Error.Description.(map[string]interface{})
	require.True(t, ok)
	require.Contains(t, details, "firstName")
}

func TestCreateDuplicateConflicts(t *testing.T) {
	r := setupRouter()

	rr, _ := doJSON(t, r, http.MethodPost, "/api/users", validUserPayload())
	require.Equal(t, http.StatusOK, rr.Code)

	rr, env := doJSON(t, r, http.MethodPost, "/api/users", validUserPayload())
	require.Equal(t, http.StatusConflict, rr.Code)
	require.Equal(t, "USER_EXISTS", env.Error.Code)
}

func TestGetMissingUser(t *testing.T) {
	r := setupRouter()

	rr, env := doJSON(t, r, http.MethodGet, "/api/users/99", nil)
	require.Equal(t, http.StatusNotFound, rr.Code)
	require.Equal(t, "USER_NOT_FOUND", env.Error.Code)
}

func TestNonNumericUserID(t *testing.T) {
	r := setupRouter()

	rr, env := doJSON(t, r, http.MethodGet, "/api/users/abc", nil)
	require.Equal(t, http.StatusNotFound, rr.Code)
	require.Equal(t, "USER_NOT_FOUND", env.Error.Code)
}

func TestUpdateUser(t *testing.T) {
	r := setupRouter()

	rr, _ := doJSON(t, r, http.MethodPost, "/api/users", validUserPayload())
	require.Equal(t, http.StatusOK, rr.Code)

	rr, env := doJSON(t, r, http.MethodPut, "/api/users/1", map[string]interface{}{"age": 31})
	require.Equal(t, http.StatusOK, rr.Code)

	var data map[string]interface{}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	require.Equal(t, float64(31), data["age"])
	require.Equal(t, "abc", data["username"])

	rr, env = doJSON(t, r, http.MethodPut, "/api/users/1", map[string]interface{}{"email": "not-an-email"})
	require.Equal(t, http.StatusBadRequest, rr.Code)
	require.Equal(t, "VALIDATION_ERROR", env.Error.Code)
}

func TestDeleteFlow(t *testing.T) {
	r := setupRouter()

	rr, _ := doJSON(t, r, http.MethodPost, "/api/users", validUserPayload())
	require.Equal(t, http.StatusOK, rr.Code)

	rr, env := doJSON(t, r, http.MethodDelete, "/api/users/1", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	require.True(t, env.Success)

	rr, _ = doJSON(t, r, http.MethodGet, "/api/users/1", nil)
	require.Equal(t, http.StatusNotFound, rr.Code)

	rr, _ = doJSON(t, r, http.MethodDelete, "/api/users/1", nil)
	require.Equal(t, http.StatusNotFound, rr.Code)
}

func TestOrderFlow(t *testing.T) {
	r := setupRouter()

	rr, _ := doJSON(t, r, http.MethodPost, "/api/users", validUserPayload())
	require.Equal(t, http.StatusOK, rr.Code)

	order := map[string]interface{}{"productName": "Widget", "price": 10, "quantity": 3}
	rr, env := doJSON(t, r, http.MethodPut, "/api/users/1/orders", order)
	require.Equal(t, http.StatusOK, rr.Code)
	require.True(t, env.Success)

	rr, env = doJSON(t, r, http.MethodGet, "/api/users/1/orders", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var ordersData struct {
		Orders []entity.Order `json:"orders"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &ordersData))
	require.Len(t, ordersData.Orders, 1)
	require.Equal(t, "Widget", ordersData.Orders[0].ProductName)

	rr, env = doJSON(t, r, http.MethodGet, "/api/users/1/orders/total-price", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var totalData struct {
		TotalPrice float64 `json:"totalPrice"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &totalData))
	require.Equal(t, 30.0, totalData.TotalPrice)
}

func TestAppendOrderRequiresAllFields(t *testing.T) {
	r := setupRouter()

	rr, _ := doJSON(t, r, http.MethodPost, "/api/users", validUserPayload())
	require.Equal(t, http.StatusOK, rr.Code)

	// missing price and quantity must be rejected, not stored empty
	rr, env := doJSON(t, r, http.MethodPut, "/api/users/1/orders", map[string]interface{}{"productName": "Widget"})
	require.Equal(t, http.StatusBadRequest, rr.Code)
	require.Equal(t, "VALIDATION_ERROR", env.Error.Code)
}

func TestZeroPriceOrderAllowed(t *testing.T) {
	r := setupRouter()

	rr, _ := doJSON(t, r, http.MethodPost, "/api/users", validUserPayload())
	require.Equal(t, http.StatusOK, rr.Code)

	order := map[string]interface{}{"productName": "Freebie", "price": 0, "quantity": 1}
	rr, _ = doJSON(t, r, http.MethodPut, "/api/users/1/orders", order)
	require.Equal(t, http.StatusOK, rr.Code)
}

package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"greenbasket/internal/app/grocery/entity"
	"greenbasket/internal/app/grocery/storage"
)

const testJWTSecret = "test-secret"

func setupTestRouter() *gin.Engine {
	handler, _, _ := setupTestHandler()
	authMiddleware := NewAuthMiddleware(testJWTSecret)
	return SetupRoutes(handler, authMiddleware)
}

func signTestToken(t *testing.T) string {
	t.Helper()

	claims := JWTClaims{
		UserID: "user-1",
		Email:  "user@example.com",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(testJWTSecret))
	require.NoError(t, err)
	return signed
}

func TestRouter_HealthIsPublic(t *testing.T) {
	router := setupTestRouter()

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "grocery-service")
}

func TestRouter_MetricsIsPublic(t *testing.T) {
	router := setupTestRouter()

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRouter_CategoriesRequireAuth(t *testing.T) {
	router := setupTestRouter()

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/categories", nil))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRouter_InvalidToken(t *testing.T) {
	router := setupTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/categories", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRouter_ValidTokenPassesThrough(t *testing.T) {
	handler, store, _ := setupTestHandler()
	authMiddleware := NewAuthMiddleware(testJWTSecret)
	router := SetupRoutes(handler, authMiddleware)

	store.On("FetchCategories", mock.Anything).
		Return([]entity.Category{}, storage.OutcomePrimary, nil)

	req := httptest.NewRequest(http.MethodGet, "/categories", nil)
	req.Header.Set("Authorization", "Bearer "+signTestToken(t))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	store.AssertExpectations(t)
}

package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"volunteer-hub/backend/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const testSecret = "test-secret"

func createTestToken(role string, expiresAt time.Time, issuer string) (string, error) {
	claims := jwt.MapClaims{
		"user_id": "test-user-123",
		"role":    role,
		"exp":     expiresAt.Unix(),
		"iss":     issuer,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(testSecret))
}

func protectedRouter(config middleware.AuthzConfig) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(middleware.AuthzMiddleware(config))
	router.GET("/protected", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"user_id": c.GetString("user_id"),
			"role":    c.GetString("user_role"),
		})
	})
	return router
}

func TestAuthzMiddleware_NoToken(t *testing.T) {
	router := protectedRouter(middleware.AuthzConfig{JWTSecret: testSecret})

	req, _ := http.NewRequest("GET", "/protected", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("Expected status %d, got %d", http.StatusUnauthorized, w.Code)
	}
}

func TestAuthzMiddleware_NotBearer(t *testing.T) {
	router := protectedRouter(middleware.AuthzConfig{JWTSecret: testSecret})

	req, _ := http.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("Expected status %d, got %d", http.StatusUnauthorized, w.Code)
	}
}

func TestAuthzMiddleware_InvalidToken(t *testing.T) {
	router := protectedRouter(middleware.AuthzConfig{JWTSecret: testSecret})

	req, _ := http.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer invalid_token")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("Expected status %d, got %d", http.StatusUnauthorized, w.Code)
	}
}

func TestAuthzMiddleware_WrongSignature(t *testing.T) {
	claims := jwt.MapClaims{
		"user_id": "test-user-123",
		"role":    "volunteer",
		"exp":     time.Now().Add(time.Hour).Unix(),
		"iss":     "volunteer-hub-backend",
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("a-different-secret"))
	if err != nil {
		t.Fatal("Failed to create test token:", err)
	}

	router := protectedRouter(middleware.AuthzConfig{JWTSecret: testSecret})

	req, _ := http.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("Expected status %d, got %d", http.StatusUnauthorized, w.Code)
	}
}

func TestAuthzMiddleware_ExpiredToken(t *testing.T) {
	token, err := createTestToken("volunteer", time.Now().Add(-time.Hour), "volunteer-hub-backend")
	if err != nil {
		t.Fatal("Failed to create test token:", err)
	}

	router := protectedRouter(middleware.AuthzConfig{JWTSecret: testSecret})

	req, _ := http.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("Expected status %d, got %d", http.StatusUnauthorized, w.Code)
	}
}

func TestAuthzMiddleware_WrongIssuer(t *testing.T) {
	token, err := createTestToken("volunteer", time.Now().Add(time.Hour), "someone-else")
	if err != nil {
		t.Fatal("Failed to create test token:", err)
	}

	router := protectedRouter(middleware.AuthzConfig{JWTSecret: testSecret})

	req, _ := http.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("Expected status %d, got %d", http.StatusUnauthorized, w.Code)
	}
}

func TestAuthzMiddleware_ValidTokenNoRoleGate(t *testing.T) {
	token, err := createTestToken("volunteer", time.Now().Add(time.Hour), "volunteer-hub-backend")
	if err != nil {
		t.Fatal("Failed to create test token:", err)
	}

	router := protectedRouter(middleware.AuthzConfig{JWTSecret: testSecret})

	req, _ := http.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status %d, got %d", http.StatusOK, w.Code)
	}
}

func TestAuthzMiddleware_RoleGateRejectsVolunteer(t *testing.T) {
	token, err := createTestToken("volunteer", time.Now().Add(time.Hour), "volunteer-hub-backend")
	if err != nil {
		t.Fatal("Failed to create test token:", err)
	}

	router := protectedRouter(middleware.AuthzConfig{JWTSecret: testSecret, Role: "admin"})

	req, _ := http.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusForbidden {
		t.Errorf("Expected status %d, got %d", http.StatusForbidden, w.Code)
	}
}

func TestAuthzMiddleware_RoleGateAllowsAdmin(t *testing.T) {
	token, err := createTestToken("admin", time.Now().Add(time.Hour), "volunteer-hub-backend")
	if err != nil {
		t.Fatal("Failed to create test token:", err)
	}

	router := protectedRouter(middleware.AuthzConfig{JWTSecret: testSecret, Role: "admin"})

	req, _ := http.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status %d, got %d", http.StatusOK, w.Code)
	}
}

func TestAuthzMiddleware_WebmasterPassesAdminGate(t *testing.T) {
	token, err := createTestToken("webmaster", time.Now().Add(time.Hour), "volunteer-hub-backend")
	if err != nil {
		t.Fatal("Failed to create test token:", err)
	}

	router := protectedRouter(middleware.AuthzConfig{JWTSecret: testSecret, Role: "admin"})

	req, _ := http.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status %d, got %d", http.StatusOK, w.Code)
	}
}

func TestAuthzMiddleware_AdminCannotPassWebmasterGate(t *testing.T) {
	token, err := createTestToken("admin", time.Now().Add(time.Hour), "volunteer-hub-backend")
	if err != nil {
		t.Fatal("Failed to create test token:", err)
	}

	router := protectedRouter(middleware.AuthzConfig{JWTSecret: testSecret, Role: "webmaster"})

	req, _ := http.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusForbidden {
		t.Errorf("Expected status %d, got %d", http.StatusForbidden, w.Code)
	}
}

func TestAuthzMiddleware_SetsClaimsOnContext(t *testing.T) {
	token, err := createTestToken("volunteer", time.Now().Add(time.Hour), "volunteer-hub-backend")
	if err != nil {
		t.Fatal("Failed to create test token:", err)
	}

	router := protectedRouter(middleware.AuthzConfig{JWTSecret: testSecret})

	req, _ := http.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status %d, got %d", http.StatusOK, w.Code)
	}

	body := w.Body.String()
	if body != `{"role":"volunteer","user_id":"test-user-123"}` {
		t.Errorf("Unexpected context claims payload: %s", body)
	}
}

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

var testSecret = []byte("test-secret")

func init() {
	gin.SetMode(gin.TestMode)
}

func testKeyfunc(token *jwt.Token) (interface{}, error) {
	return testSecret, nil
}

func signToken(t *testing.T, claims CustomClaims, secret []byte) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	if err != nil {
		t.Fatal(err)
	}
	return token
}

func newAuthRouter() *gin.Engine {
	router := gin.New()
	router.Use(newAuthHandlerWithKeyfunc(testKeyfunc).AuthMiddleware())
	router.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })
	router.GET("/whoami", func(c *gin.Context) {
		scopes, _ := c.Get(ContextScopesKey)
		c.JSON(http.StatusOK, gin.H{"user": c.GetString(ContextUserIDKey), "scopes": scopes})
	})
	return router
}

func TestAuthMiddleware(t *testing.T) {
	valid := CustomClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-42",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		Scopes: "stories:write stories:read",
	}
	expired := valid
	expired.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Hour))

	cases := []struct {
		name   string
		path   string
		header string
		status int
	}{
		{name: "health is public", path: "/health", status: http.StatusOK},
		{name: "missing header", path: "/whoami", status: http.StatusUnauthorized},
		{name: "valid token", path: "/whoami", header: "Bearer " + signToken(t, valid, testSecret), status: http.StatusOK},
		{name: "expired token", path: "/whoami", header: "Bearer " + signToken(t, expired, testSecret), status: http.StatusUnauthorized},
		{name: "wrong key", path: "/whoami", header: "Bearer " + signToken(t, valid, []byte("other")), status: http.StatusUnauthorized},
		{name: "garbage", path: "/whoami", header: "Bearer not-a-token", status: http.StatusUnauthorized},
	}
	router := newAuthRouter()
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tc.path, nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)
			if rec.Code != tc.status {
				t.Errorf("status = %d, want %d (%s)", rec.Code, tc.status, rec.Body.String())
			}
		})
	}
}

func TestAuthMiddleware_SetsClaims(t *testing.T) {
	token := signToken(t, CustomClaims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: "user-42"},
		Scopes:           "stories:write stories:read",
	}, testSecret)

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	newAuthRouter().ServeHTTP(rec, req)

	want := `{"scopes":["stories:write","stories:read"],"user":"user-42"}`
	if rec.Body.String() != want {
		t.Errorf("body = %s, want %s", rec.Body.String(), want)
	}
}

func TestRateLimitMiddleware(t *testing.T) {
	router := gin.New()
	router.Use(RateLimitMiddleware(0.001, 2))
	router.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })
	router.POST("/stories", func(c *gin.Context) { c.Status(http.StatusCreated) })

	statuses := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/stories", nil))
		statuses = append(statuses, rec.Code)
	}
	if statuses[0] != http.StatusCreated || statuses[1] != http.StatusCreated || statuses[2] != http.StatusTooManyRequests {
		t.Errorf("statuses = %v, want burst of two then 429", statuses)
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("health should bypass the limiter, got %d", rec.Code)
	}
}

func TestSSEMiddleware(t *testing.T) {
	router := gin.New()
	router.GET("/stream", SSEMiddleware(), func(c *gin.Context) {
		c.SSEvent("caption", "hello")
	})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/stream", nil))

	if got := rec.Header().Get("Content-Type"); got != "text/event-stream" {
		t.Errorf("content type = %q", got)
	}
	if got := rec.Header().Get("Cache-Control"); got != "no-cache" {
		t.Errorf("cache control = %q", got)
	}
}

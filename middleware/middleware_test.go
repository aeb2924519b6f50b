package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"campus-canteen/helpers"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestAuthentication(t *testing.T) {
	tokens := helpers.NewTokens("s3cret", time.Hour)
	admin, _, _ := tokens.GenerateAllTokens("a@campus.edu", "Abel", "u1", "ADMIN")
	staff, _, _ := tokens.GenerateAllTokens("s@campus.edu", "Sami", "u2", "STAFF")

	r := gin.New()
	r.GET("/admin", Authentication(tokens), RequireRole("ADMIN"), func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString("uid"))
	})

	tests := []struct {
		name   string
		header string
		query  string
		status int
	}{
		{"no token", "", "", http.StatusUnauthorized},
		{"bad token", "junk", "", http.StatusUnauthorized},
		{"staff", staff, "", http.StatusForbidden},
		{"admin header", admin, "", http.StatusOK},
		{"admin query", "", admin, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			target := "/admin"
			if tt.query != "" {
				target += "?token=" + tt.query
			}
			req := httptest.NewRequest(http.MethodGet, target, nil)
			if tt.header != "" {
				req.Header.Set("token", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			if w.Code != tt.status {
				t.Errorf("status = %d, want %d (%s)", w.Code, tt.status, w.Body.String())
			}
			if tt.status == http.StatusOK && w.Body.String() != "u1" {
				t.Errorf("uid = %q", w.Body.String())
			}
		})
	}
}

type userCount int64

func (n userCount) CountUsers(context.Context) (int64, error) { return int64(n), nil }

func TestOpenWhileNoUsers(t *testing.T) {
	tokens := helpers.NewTokens("s3cret", time.Hour)
	admin, _, _ := tokens.GenerateAllTokens("a@campus.edu", "Abel", "u1", "ADMIN")
	staff, _, _ := tokens.GenerateAllTokens("s@campus.edu", "Sami", "u2", "STAFF")

	tests := []struct {
		name      string
		users     userCount
		token     string
		status    int
		bootstrap bool
	}{
		{"first account", 0, "", http.StatusOK, true},
		{"anonymous later", 1, "", http.StatusUnauthorized, false},
		{"staff later", 1, staff, http.StatusForbidden, false},
		{"admin later", 3, admin, http.StatusOK, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			r.POST("/signup", OpenWhileNoUsers(tt.users, tokens, "ADMIN"), func(c *gin.Context) {
				if c.GetBool(BootstrapKey) != tt.bootstrap {
					t.Errorf("bootstrap = %v, want %v", c.GetBool(BootstrapKey), tt.bootstrap)
				}
				c.Status(http.StatusOK)
			})
			req := httptest.NewRequest(http.MethodPost, "/signup", nil)
			if tt.token != "" {
				req.Header.Set("token", tt.token)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			if w.Code != tt.status {
				t.Errorf("status = %d, want %d (%s)", w.Code, tt.status, w.Body.String())
			}
		})
	}
}

func TestRequestID(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, c.GetString("request_id")) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	if uuid.Validate(w.Body.String()) != nil {
		t.Errorf("generated id %q is not a uuid", w.Body.String())
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Header().Get(RequestIDHeader) != "abc-123" {
		t.Errorf("echoed id = %q", w.Header().Get(RequestIDHeader))
	}
}

func TestStudentSession(t *testing.T) {
	r := gin.New()
	r.Use(StudentSession(false))
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, SessionID(c)) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	first := w.Body.String()
	if uuid.Validate(first) != nil {
		t.Fatalf("session id %q is not a uuid", first)
	}
	if !strings.Contains(w.Header().Get("Set-Cookie"), SessionCookie+"="+first) {
		t.Errorf("cookie = %q", w.Header().Get("Set-Cookie"))
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: first})
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Body.String() != first {
		t.Errorf("session changed: %q -> %q", first, w.Body.String())
	}

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: "forged"})
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Body.String() == "forged" {
		t.Error("non-uuid session accepted")
	}
}

func TestMetricsRecordsRoute(t *testing.T) {
	r := gin.New()
	r.Use(Metrics())
	r.GET("/orders/:order_id", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/orders/7", nil))
	if w.Code != http.StatusNoContent {
		t.Errorf("status = %d", w.Code)
	}
}

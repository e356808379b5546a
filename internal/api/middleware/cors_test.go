package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func corsRequest(t *testing.T, allowOrigins []string, method, origin string) *httptest.ResponseRecorder {
	t.Helper()
	r := gin.New()
	r.Use(CORS(allowOrigins))
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(method, "/ping", nil)
	if origin != "" {
		req.Header.Set("Origin", origin)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCORS(t *testing.T) {
	allowed := []string{"https://codyssey.dev"}

	t.Run("白名单来源下发凭证", func(t *testing.T) {
		w := corsRequest(t, allowed, http.MethodGet, "https://codyssey.dev")
		if got := w.Header().Get("Access-Control-Allow-Origin"); got != "https://codyssey.dev" {
			t.Errorf("Allow-Origin 期望回显来源，实际 %q", got)
		}
		if w.Header().Get("Access-Control-Allow-Credentials") != "true" {
			t.Error("白名单来源应下发 Allow-Credentials")
		}
		if got := w.Header().Get("Access-Control-Expose-Headers"); got != corsExposeHeaders {
			t.Errorf("Expose-Headers 期望 %q，实际 %q", corsExposeHeaders, got)
		}
	})

	t.Run("未知来源不放行", func(t *testing.T) {
		w := corsRequest(t, allowed, http.MethodGet, "https://evil.example")
		if got := w.Header().Get("Access-Control-Allow-Origin"); got != "" {
			t.Errorf("未知来源不应下发 Allow-Origin，实际 %q", got)
		}
	})

	t.Run("通配配置放行任意来源但不下发凭证", func(t *testing.T) {
		w := corsRequest(t, []string{"*"}, http.MethodGet, "https://anywhere.example")
		if got := w.Header().Get("Access-Control-Allow-Origin"); got != "*" {
			t.Errorf("Allow-Origin 期望 *，实际 %q", got)
		}
		if w.Header().Get("Access-Control-Allow-Credentials") != "" {
			t.Error("通配来源不应下发 Allow-Credentials")
		}
	})

	t.Run("预检请求返回 204", func(t *testing.T) {
		w := corsRequest(t, allowed, http.MethodOptions, "https://codyssey.dev")
		if w.Code != http.StatusNoContent {
			t.Errorf("期望 204，实际 %d", w.Code)
		}
	})
}

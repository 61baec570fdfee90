package router

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func newJSONRequestContext(t *testing.T, body string) *gin.Context {
	t.Helper()
	gin.SetMode(gin.TestMode)

	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodPost, "/auth/signin", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Request.RemoteAddr = "203.0.113.7:40000"
	return c
}

func TestKeyByIPAndJSONFieldCombinesEmailAndIP(t *testing.T) {
	c := newJSONRequestContext(t, `{"email":"  Buyer@Shop.Example  ","password":"x"}`)

	key := KeyByIPAndJSONField("email")(c)
	if key != "buyer@shop.example|203.0.113.7" {
		t.Fatalf("key want buyer@shop.example|203.0.113.7 got %s", key)
	}

	// 提取字段后 body 必须还原，后续 BindJSON 依赖它
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		t.Fatalf("read body after key extraction failed: %v", err)
	}
	if !strings.Contains(string(body), "Buyer@Shop.Example") {
		t.Fatalf("request body not restored: %s", string(body))
	}
}

func TestKeyByIPAndJSONFieldFallsBackToIP(t *testing.T) {
	c := newJSONRequestContext(t, `{"password":"x"}`)

	key := KeyByIPAndJSONField("email")(c)
	if key != "203.0.113.7" {
		t.Fatalf("missing field should fall back to client IP, got %s", key)
	}
}

func TestRateLimitMiddlewarePassThroughWithoutRedis(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(RateLimitMiddleware(nil, RateLimitRule{WindowSeconds: 60, MaxRequests: 1}, KeyByIP))
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	// 无 Redis 时限流直接放行，连续请求都应成功
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
		if w.Code != http.StatusOK {
			t.Fatalf("request %d status want 200 got %d", i, w.Code)
		}
	}
}

func TestToInt64(t *testing.T) {
	cases := []struct {
		name  string
		input interface{}
		want  int64
		ok    bool
	}{
		{name: "int64", input: int64(7), want: 7, ok: true},
		{name: "int", input: int(42), want: 42, ok: true},
		{name: "uint16", input: uint16(9), want: 9, ok: true},
		{name: "float64 truncates", input: float64(3.7), want: 3, ok: true},
		{name: "string rejected", input: "7", want: 0, ok: false},
		{name: "nil rejected", input: nil, want: 0, ok: false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := toInt64(tc.input)
			if ok != tc.ok {
				t.Fatalf("ok want %v got %v", tc.ok, ok)
			}
			if got != tc.want {
				t.Fatalf("value want %d got %d", tc.want, got)
			}
		})
	}
}

package http

import (
	nethttp "net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestNewHttpServer_Healthz(t *testing.T) {
	gin.SetMode(gin.TestMode)

	s := NewHttpServer(":0", nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(nethttp.MethodGet, "/healthz", nil)
	s.Handler().ServeHTTP(w, req)

	if w.Code != nethttp.StatusOK {
		t.Fatalf("unexpected status code: got=%d want=%d", w.Code, nethttp.StatusOK)
	}
	if w.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Fatalf("应带 CORS 头")
	}
}

func TestNewHttpServer_预检请求直接返回(t *testing.T) {
	gin.SetMode(gin.TestMode)
	s := NewHttpServer(":0", nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(nethttp.MethodOptions, "/api/town", nil)
	s.Handler().ServeHTTP(w, req)

	if w.Code != nethttp.StatusNoContent {
		t.Fatalf("预检应返回 204, got=%d", w.Code)
	}
}

type pingModule struct{}

func (pingModule) HttpRegister(g *gin.RouterGroup) {
	g.GET("/ping", func(c *gin.Context) { c.String(nethttp.StatusOK, "pong") })
}

func TestRegister_挂到前缀分组(t *testing.T) {
	gin.SetMode(gin.TestMode)
	s := NewHttpServer(":0", nil)
	s.Register("/api", pingModule{})

	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, httptest.NewRequest(nethttp.MethodGet, "/api/ping", nil))
	if w.Code != nethttp.StatusOK || w.Body.String() != "pong" {
		t.Fatalf("got=%d %q", w.Code, w.Body.String())
	}
}

package http

import (
	nethttp "net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"Settlers/internal/shared/security"
	"Settlers/internal/shared/transport/http/middleware"
	"Settlers/modules/kit/logx"
)

func TestNewHttpServer_Healthz(t *testing.T) {
	gin.SetMode(gin.TestMode)

	s := NewHttpServer(":0", gin.New(), nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(nethttp.MethodGet, "/healthz", nil)
	s.Handler().ServeHTTP(w, req)

	assert.Equal(t, nethttp.StatusOK, w.Code)
}

func TestAccessLog_从响应体取业务码(t *testing.T) {
	gin.SetMode(gin.TestMode)
	core, logs := observer.New(zapcore.DebugLevel)
	s := NewHttpServer(":0", gin.New(), logx.NewZapLogger(zap.New(core)))
	s.Group().GET("/x", func(c *gin.Context) {
		c.JSON(nethttp.StatusOK, gin.H{"code": 409, "msg": "stale"})
	})

	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, httptest.NewRequest(nethttp.MethodGet, "/x", nil))

	entries := logs.FilterField(zap.Int("biz_code", 409)).All()
	require.Len(t, entries, 1)
	assert.Equal(t, zapcore.WarnLevel, entries[0].Level)
}

func TestAuth_没有token被拒绝(t *testing.T) {
	gin.SetMode(gin.TestMode)
	t.Setenv("JWT_SECRET", "secret")
	s := NewHttpServer(":0", gin.New(), nil)
	g := s.Group().Group("/api", middleware.Auth("s-1"))
	g.GET("/ping", func(c *gin.Context) { c.JSON(nethttp.StatusOK, gin.H{"code": 0}) })

	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, httptest.NewRequest(nethttp.MethodGet, "/api/ping", nil))
	assert.JSONEq(t, `{"code":401,"msg":"missing token"}`, w.Body.String())

	other, err := security.Award("ops", "s-2", 0)
	require.NoError(t, err)
	req := httptest.NewRequest(nethttp.MethodGet, "/api/ping", nil)
	req.Header.Set("Authorization", "Bearer "+other)
	w = httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	assert.JSONEq(t, `{"code":403,"msg":"session not allowed"}`, w.Body.String())

	ok, err := security.Award("ops", "s-1", 0)
	require.NoError(t, err)
	req = httptest.NewRequest(nethttp.MethodGet, "/api/ping", nil)
	req.Header.Set("Authorization", "Bearer "+ok)
	w = httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	assert.JSONEq(t, `{"code":0}`, w.Body.String())
}

func TestAccessLog_记录操作者且不记录探活(t *testing.T) {
	gin.SetMode(gin.TestMode)
	t.Setenv("JWT_SECRET", "secret")
	core, logs := observer.New(zapcore.DebugLevel)
	s := NewHttpServer(":0", gin.New(), logx.NewZapLogger(zap.New(core)))
	g := s.Group().Group("/api", middleware.Auth("s-1"))
	g.POST("/lost", func(c *gin.Context) { c.JSON(nethttp.StatusOK, gin.H{"code": 0}) })

	s.Handler().ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(nethttp.MethodGet, "/healthz", nil))
	assert.Zero(t, logs.Len())

	token, err := security.Award("ops", "s-1", 0)
	require.NoError(t, err)
	req := httptest.NewRequest(nethttp.MethodPost, "/api/lost", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	s.Handler().ServeHTTP(httptest.NewRecorder(), req)

	entries := logs.FilterField(zap.String("operator", "ops")).All()
	require.Len(t, entries, 1)
	assert.Equal(t, zapcore.InfoLevel, entries[0].Level)
}

func TestAccessLog_非JSON响应按状态码判定(t *testing.T) {
	gin.SetMode(gin.TestMode)
	core, logs := observer.New(zapcore.DebugLevel)
	s := NewHttpServer(":0", gin.New(), logx.NewZapLogger(zap.New(core)))
	s.Group().GET("/boom", func(c *gin.Context) { c.String(nethttp.StatusInternalServerError, "boom") })

	s.Handler().ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(nethttp.MethodGet, "/boom", nil))

	entries := logs.FilterField(zap.Int("biz_code", 500)).All()
	require.Len(t, entries, 1)
	assert.Equal(t, zapcore.ErrorLevel, entries[0].Level)
}

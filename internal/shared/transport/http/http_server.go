package http

import (
	"context"
	"errors"
	nethttp "net/http"
	"time"

	"github.com/gin-gonic/gin"

	"TownBuilder/internal/shared/transport/http/middleware"
	"TownBuilder/modules/kit/logx"
)

type Server struct {
	engine *gin.Engine
	srv    *nethttp.Server
}

// NewHttpServer 挂好 Recovery、Cors、访问日志与 /healthz。
func NewHttpServer(addr string, logger logx.Logger) *Server {
	if logger == nil {
		logger = logx.Nop()
	}
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(middleware.Cors())
	engine.Use(middleware.AccessLog(logger))
	engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(nethttp.StatusOK, gin.H{"status": "ok"})
	})

	return &Server{
		engine: engine,
		srv: &nethttp.Server{
			Addr:              addr,
			Handler:           engine,
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       15 * time.Second,
			WriteTimeout:      15 * time.Second,
			IdleTimeout:       60 * time.Second,
		},
	}
}

// Start 阻塞直到 Shutdown；正常关闭返回 nil。
func (s *Server) Start() error {
	if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, nethttp.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) Handler() nethttp.Handler {
	return s.engine
}

// Registrar 由业务模块实现，把自己的路由挂到 /api 分组下。
type Registrar interface {
	HttpRegister(g *gin.RouterGroup)
}

func (s *Server) Register(prefix string, regs ...Registrar) {
	g := s.engine.Group(prefix)
	for _, r := range regs {
		r.HttpRegister(g)
	}
}

package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/apache/ambari-config-initializer/internal/derive"
	"github.com/apache/ambari-config-initializer/pkg/deriver"
	"github.com/apache/ambari-config-initializer/pkg/siteconfig"
	"github.com/apache/ambari-config-initializer/pkg/topology"
)

type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func BuildResponse(code int, message string, data interface{}) Response {
	return Response{Code: code, Message: message, Data: data}
}

// DeriveRequest POST /api/v1/derive 的请求体
type DeriveRequest struct {
	Topology     *topology.Topology        `json:"topology"`
	Properties   []*deriver.ConfigProperty `json:"properties"`
	Dependencies deriver.Dependencies      `json:"dependencies"`
}

type RuleInfo struct {
	Name       string   `json:"name"`
	Filename   string   `json:"filename,omitempty"`
	Kind       string   `json:"kind"`
	Components []string `json:"components,omitempty"`
}

type APIServer struct {
	engine   *gin.Engine
	addr     string
	registry *deriver.Registry
	runner   *derive.Runner
	logger   *logrus.Logger
	srv      *http.Server
}

func NewAPIServer(addr string, registry *deriver.Registry, logger *logrus.Logger) *APIServer {
	if logger == nil {
		logger = logrus.New()
		logger.SetLevel(logrus.InfoLevel)
	}
	if registry == nil {
		registry = deriver.DefaultRegistry()
	}

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery(), requestLogger(logger))

	s := &APIServer{
		engine:   engine,
		addr:     addr,
		registry: registry,
		runner:   derive.NewRunner(deriver.NewDeriver(registry, logger), logger),
		logger:   logger,
	}
	s.registryApi()
	return s
}

// Handler 返回 HTTP 处理器，便于测试
func (s *APIServer) Handler() http.Handler {
	return s.engine
}

// Run 启动服务，ctx 取消后优雅退出
func (s *APIServer) Run(ctx context.Context) error {
	s.srv = &http.Server{Addr: s.addr, Handler: s.engine}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Infof("API server listening on %s", s.addr)
		errCh <- s.srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.logger.Info("Shutting down API server...")
		return s.srv.Shutdown(shutdownCtx)
	}
}

func (s *APIServer) registryApi() {
	s.engine.GET("/healthz", s.handleHealth)

	v1 := s.engine.Group("/api/v1")
	v1.GET("/rules", s.handleListRules)
	v1.POST("/derive", s.handleDerive)
}

func (s *APIServer) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, BuildResponse(http.StatusOK, "ok", nil))
}

func (s *APIServer) handleListRules(c *gin.Context) {
	rules := s.registry.Rules()
	infos := make([]RuleInfo, 0, len(rules))
	for _, r := range rules {
		infos = append(infos, RuleInfo{
			Name:       r.Name,
			Filename:   r.Filename,
			Kind:       r.Strategy.Kind().String(),
			Components: r.Strategy.Components(),
		})
	}
	c.JSON(http.StatusOK, BuildResponse(http.StatusOK, "ok", infos))
}

func (s *APIServer) handleDerive(c *gin.Context) {
	var req DeriveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, BuildResponse(http.StatusBadRequest, "input is not valid: "+err.Error(), nil))
		return
	}
	if req.Topology == nil {
		c.JSON(http.StatusBadRequest, BuildResponse(http.StatusBadRequest, "topology is required", nil))
		return
	}
	for i, p := range req.Properties {
		if p == nil || p.Name == "" {
			c.JSON(http.StatusBadRequest, BuildResponse(http.StatusBadRequest,
				fmt.Sprintf("property[%d]: name is required", i), nil))
			return
		}
	}

	doc := &siteconfig.Document{Dependencies: req.Dependencies, Properties: req.Properties}
	result := s.runner.Run(req.Topology, doc, false)
	c.JSON(http.StatusOK, BuildResponse(http.StatusOK, "ok", result))
}

func requestLogger(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.WithFields(logrus.Fields{
			"method":  c.Request.Method,
			"path":    c.Request.URL.Path,
			"status":  c.Writer.Status(),
			"latency": time.Since(start).String(),
		}).Debug("request")
	}
}

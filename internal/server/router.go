// internal/server/router.go
//
// HTTP 路由註冊。同一組端點同時掛在 /api/v1 與根路徑 /。
package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-kit/log/level"
)

// Router 建立並回傳整個 HTTP 處理鏈。
func (s *Server) Router() http.Handler {
	r := gin.New()
	r.HandleMethodNotAllowed = true
	r.Use(gin.Recovery(), s.accessLog())
	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, errorBody{Error: "no such route", Kind: "not_found"})
	})
	r.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, errorBody{Error: "method not allowed", Kind: "method_not_allowed"})
	})

	s.routes(r.Group("/api/v1"))
	s.routes(r.Group("/"))
	return r
}

func (s *Server) routes(g *gin.RouterGroup) {
	// 健康檢查
	g.GET("/health", s.health)

	//   GET  /accounts                    → 列出帳戶
	//   POST /accounts                    → 開戶
	//   GET  /accounts/:id                → 單一帳戶
	//   GET  /accounts/:id/transactions   → 交易明細
	//   POST /accounts/:id/transactions   → 入帳
	//   POST /accounts/:id/assessments    → 月結（利息與手續費）
	g.GET("/accounts", s.listAccounts)
	g.POST("/accounts", s.openAccount)
	g.GET("/accounts/:id", s.getAccount)
	g.GET("/accounts/:id/transactions", s.listTransactions)
	g.POST("/accounts/:id/transactions", s.addTransaction)
	g.POST("/accounts/:id/assessments", s.assess)

	// 快照
	g.POST("/snapshot", s.saveSnapshot)
	g.POST("/snapshot/load", s.loadSnapshot)
}

// accessLog 以 go-kit logger 記錄每個請求。
func (s *Server) accessLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		begin := time.Now()
		c.Next()
		level.Debug(s.logger).Log(
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"took", time.Since(begin),
		)
	}
}

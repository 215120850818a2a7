// internal/server/handler.go
//
// Package server 提供 HTTP 介面。每個 handler 只負責：
//  1. 解析請求
//  2. 呼叫 service 執行操作
//  3. 回傳 JSON
//  4. 成功變更狀態後呼叫 persist 鉤子
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"

	"bankapp/internal/ledger"
	"bankapp/internal/money"
	"bankapp/internal/service"
)

// Server 為 HTTP 層：
// - svc：帳戶操作。
// - persist：持久化鉤子，可為 nil；每次成功變更後觸發。
type Server struct {
	svc     service.Service
	persist func(context.Context) error
	logger  log.Logger
}

// NewServer 建立 HTTP 伺服器。logger 為 nil 時不輸出日誌。
func NewServer(svc service.Service, persist func(context.Context) error, logger log.Logger) *Server {
	if logger == nil {
		logger = log.NewNopLogger()
	}
	return &Server{svc: svc, persist: persist, logger: logger}
}

func (s *Server) afterMutation(ctx context.Context) {
	if s.persist == nil {
		return
	}
	if err := s.persist(ctx); err != nil {
		level.Warn(s.logger).Log("msg", "persist failed", "err", err)
	}
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) listAccounts(c *gin.Context) {
	accounts, err := s.svc.Summary(c.Request.Context())
	if err != nil {
		writeErr(c, err)
		return
	}
	c.JSON(http.StatusOK, accounts)
}

func (s *Server) openAccount(c *gin.Context) {
	var req struct {
		Type string `json:"type"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		writeErr(c, fmt.Errorf("%w: %v", errBadRequest, err))
		return
	}
	v, err := ledger.ParseVariant(req.Type)
	if err != nil {
		writeErr(c, fmt.Errorf("%w: %v", errBadRequest, err))
		return
	}
	a, err := s.svc.OpenAccount(c.Request.Context(), v)
	if err != nil {
		writeErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, a)
	s.afterMutation(c.Request.Context())
}

func (s *Server) getAccount(c *gin.Context) {
	a, err := s.svc.Account(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeErr(c, err)
		return
	}
	c.JSON(http.StatusOK, a)
}

func (s *Server) listTransactions(c *gin.Context) {
	txs, err := s.svc.Transactions(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeErr(c, err)
		return
	}
	c.JSON(http.StatusOK, viewTransactions(txs))
}

// addTransaction 接受 {"amount": "12.50" 或 12.5, "date": "2024-01-10"}。
func (s *Server) addTransaction(c *gin.Context) {
	var req struct {
		Amount json.RawMessage `json:"amount"`
		Date   string          `json:"date"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		writeErr(c, fmt.Errorf("%w: %v", errBadRequest, err))
		return
	}
	if len(req.Amount) == 0 || string(req.Amount) == "null" {
		writeErr(c, fmt.Errorf("%w: amount is required", money.ErrInvalidAmount))
		return
	}
	var amount money.Money
	if err := json.Unmarshal(req.Amount, &amount); err != nil {
		writeErr(c, err)
		return
	}
	date, err := ledger.ParseDate(req.Date)
	if err != nil {
		writeErr(c, err)
		return
	}
	a, err := s.svc.AddTransaction(c.Request.Context(), c.Param("id"), amount, date)
	if err != nil {
		writeErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, a)
	s.afterMutation(c.Request.Context())
}

// assess 只要利息或手續費至少入帳一筆就持久化，即使另一項被拒。
// 兩項都被拒（或帳戶沒有交易）時帳本不變，不觸發 persist。
func (s *Server) assess(c *gin.Context) {
	ctx := c.Request.Context()
	id := c.Param("id")
	before, _ := s.svc.Account(ctx, id)
	a, err := s.svc.AssessInterestAndFees(ctx, id)
	if a.ID != "" && a.Transactions > before.Transactions {
		defer s.afterMutation(ctx)
	}
	if err != nil {
		writeErr(c, err)
		return
	}
	c.JSON(http.StatusOK, a)
}

func (s *Server) saveSnapshot(c *gin.Context) {
	meta, err := s.svc.Save(c.Request.Context())
	if err != nil {
		writeErr(c, err)
		return
	}
	c.JSON(http.StatusOK, meta)
}

func (s *Server) loadSnapshot(c *gin.Context) {
	meta, err := s.svc.Load(c.Request.Context())
	if err != nil {
		writeErr(c, err)
		return
	}
	c.JSON(http.StatusOK, meta)
}

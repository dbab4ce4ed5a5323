// Package api
package api

import (
	"context"
	"math/big"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/M-QiiQ/TMU-AI-DAO/dashboard"
	"github.com/M-QiiQ/TMU-AI-DAO/db"
	"github.com/M-QiiQ/TMU-AI-DAO/metrics"
	"github.com/M-QiiQ/TMU-AI-DAO/types"
)

// Dashboard is the controller surface the handlers drive.
type Dashboard interface {
	Snapshot() dashboard.Snapshot
	SetDraft(draft types.ProposalDraft)
	Submit(ctx context.Context, draft types.ProposalDraft) (*big.Int, error)
	Refresh(ctx context.Context) error
}

type Server struct {
	dashboard Dashboard
	journal   db.Journal
	metrics   *metrics.Collector
	limiter   *rate.Limiter

	logger *zap.Logger
}

func NewServer(d Dashboard) *Server {
	return &Server{
		dashboard: d,
		logger:    zap.NewNop(),
	}
}

func (s *Server) SetLogger(logger *zap.Logger) *Server {
	s.logger = logger
	return s
}

func (s *Server) SetJournal(journal db.Journal) *Server {
	s.journal = journal
	return s
}

func (s *Server) SetMetrics(collector *metrics.Collector) *Server {
	s.metrics = collector
	return s
}

// SetSubmitLimit throttles submit routes to limit requests per second. A limit of zero
// disables throttling.
func (s *Server) SetSubmitLimit(limit float64, burst int) *Server {
	if limit <= 0 {
		s.limiter = nil
		return s
	}
	if burst < 1 {
		burst = 1
	}
	s.limiter = rate.NewLimiter(rate.Limit(limit), burst)
	return s
}

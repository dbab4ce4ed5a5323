// Package api
package api

import (
	"github.com/labstack/echo"
	"go.uber.org/zap"

	"github.com/M-QiiQ/TMU-AI-DAO/types"
	"github.com/M-QiiQ/TMU-AI-DAO/view"
)

type balanceResponse struct {
	Principal string `json:"principal,omitempty"`
	Balance   string `json:"balance"`
}

type submitResult struct {
	ProposalID string              `json:"proposalId,omitempty"`
	Proposals  []view.ProposalRow  `json:"proposals"`
	Draft      types.ProposalDraft `json:"draft"`
}

func (s *Server) Balance(c echo.Context) error {
	snapshot := s.dashboard.Snapshot()
	resp := &balanceResponse{Balance: view.BalanceString(snapshot.Balance)}
	if snapshot.Connected {
		resp.Principal = snapshot.Principal.Hex()
	}
	return OK.SetData(resp).Build(c)
}

func (s *Server) Proposals(c echo.Context) error {
	page := view.NewPage(s.dashboard.Snapshot())
	return OK.SetData(page.Proposals).Build(c)
}

func (s *Server) SubmitProposal(c echo.Context) error {
	lgr := s.logger.With(zap.String("method", "SubmitProposal"))
	var draft types.ProposalDraft
	if err := c.Bind(&draft); err != nil {
		lgr.Warn("cannot bind draft", zap.Error(err))
		return Invalid.Build(c)
	}
	if err := draft.Validate(); err != nil {
		s.dashboard.SetDraft(draft)
		return Invalid.SetData(err.Error()).Build(c)
	}

	id, err := s.dashboard.Submit(c.Request().Context(), draft)
	if err != nil {
		lgr.Warn("submit failed", zap.Error(err))
		return submitResponse(err).SetData(err.Error()).Build(c)
	}

	snapshot := s.dashboard.Snapshot()
	result := &submitResult{
		Proposals: view.NewPage(snapshot).Proposals,
		Draft:     snapshot.Draft,
	}
	if id != nil {
		result.ProposalID = id.String()
	}
	return OK.SetData(result).Build(c)
}

func (s *Server) Draft(c echo.Context) error {
	return OK.SetData(s.dashboard.Snapshot().Draft).Build(c)
}

func (s *Server) UpdateDraft(c echo.Context) error {
	var draft types.ProposalDraft
	if err := c.Bind(&draft); err != nil {
		s.logger.Warn("cannot bind draft", zap.Error(err))
		return Invalid.Build(c)
	}
	s.dashboard.SetDraft(draft)
	return OK.SetData(s.dashboard.Snapshot().Draft).Build(c)
}

func (s *Server) Refresh(c echo.Context) error {
	if err := s.dashboard.Refresh(c.Request().Context()); err != nil {
		return submitResponse(err).Build(c)
	}
	return s.ServerStatus(c)
}

func (s *Server) Submissions(c echo.Context) error {
	if s.journal == nil {
		return StorageUnavailable.Build(c)
	}
	pagination, page, limit := getPagingOption(c)
	submissions, total, err := s.journal.Submissions(c.Request().Context(), pagination)
	if err != nil {
		s.logger.Warn("cannot load submissions", zap.Error(err))
		return InternalServer.Build(c)
	}
	return OK.SetData(PagingResponse{
		Pagination: Pagination{
			Page:  page,
			Limit: limit,
			Total: total,
		},
		Data: submissions,
	}).Build(c)
}

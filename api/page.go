// Package api
package api

import (
	"net/http"

	"github.com/labstack/echo"
	"go.uber.org/zap"

	"github.com/M-QiiQ/TMU-AI-DAO/types"
	"github.com/M-QiiQ/TMU-AI-DAO/view"
)

const alertInvalidDraft = "Title and description are required and the duration must be at least one second."

func (s *Server) Index(c echo.Context) error {
	return c.Render(http.StatusOK, "dashboard", view.NewPage(s.dashboard.Snapshot()))
}

// SubmitForm handles the HTML form. Success redirects back to the page; a failure
// re-renders it with the entered values and an alert.
func (s *Server) SubmitForm(c echo.Context) error {
	lgr := s.logger.With(zap.String("method", "SubmitForm"))
	var draft types.ProposalDraft
	if err := c.Bind(&draft); err != nil {
		lgr.Warn("cannot bind form", zap.Error(err))
		return s.renderAlert(c, http.StatusBadRequest, alertInvalidDraft)
	}
	s.dashboard.SetDraft(draft)
	if err := draft.Validate(); err != nil {
		return s.renderAlert(c, http.StatusBadRequest, alertInvalidDraft)
	}

	if _, err := s.dashboard.Submit(c.Request().Context(), draft); err != nil {
		lgr.Error("submitProposal error", zap.Error(err))
		resp := submitResponse(err)
		alert := view.AlertSubmitFailed
		if resp == &Pending {
			alert = view.AlertSubmitPending
		}
		return s.renderAlert(c, resp.StatusCode, alert)
	}
	return c.Redirect(http.StatusSeeOther, "/")
}

func (s *Server) renderAlert(c echo.Context, status int, msg string) error {
	page := view.NewPage(s.dashboard.Snapshot()).WithAlert(msg)
	return c.Render(status, "dashboard", page)
}

// Package api
package api

import (
	"github.com/labstack/echo"
)

// RestServer define all API expose
type RestServer interface {
	// Page
	Index(c echo.Context) error
	SubmitForm(c echo.Context) error

	// General
	Ping(c echo.Context) error
	ServerStatus(c echo.Context) error

	// Dashboard
	Balance(c echo.Context) error
	Proposals(c echo.Context) error
	SubmitProposal(c echo.Context) error
	Draft(c echo.Context) error
	UpdateDraft(c echo.Context) error
	Refresh(c echo.Context) error

	// Journal
	Submissions(c echo.Context) error
}

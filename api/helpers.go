// Package api
package api

import (
	"github.com/labstack/echo"
	"github.com/pkg/errors"

	"github.com/M-QiiQ/TMU-AI-DAO/types"
	"github.com/M-QiiQ/TMU-AI-DAO/utils"
)

const defaultPageLimit = 25

func getPagingOption(c echo.Context) (*types.Pagination, int, int) {
	page := int(utils.StrToUint64(c.QueryParam("page")))
	if page < 1 {
		page = 1
	}
	limit := int(utils.StrToUint64(c.QueryParam("limit")))
	if limit == 0 {
		limit = defaultPageLimit
	}
	pagination := &types.Pagination{
		Skip:  (page - 1) * limit,
		Limit: limit,
	}
	pagination.Sanitize()
	return pagination, page, pagination.Limit
}

// submitResponse maps a submit error to its response.
func submitResponse(err error) *EchoResponse {
	switch errors.Cause(err) {
	case types.ErrInvalidDraft:
		return &Invalid
	case types.ErrSubmitInFlight, types.ErrDuplicateSubmission:
		return &Conflict
	case types.ErrNotConnected:
		return &NotConnected
	case types.ErrTxPending:
		return &Pending
	}
	return &SubmitFailed
}

/*
 *  Copyright 2018 KardiaChain
 *  This file is part of the go-kardia library.
 *
 *  The go-kardia library is free software: you can redistribute it and/or modify
 *  it under the terms of the GNU Lesser General Public License as published by
 *  the Free Software Foundation, either version 3 of the License, or
 *  (at your option) any later version.
 *
 *  The go-kardia library is distributed in the hope that it will be useful,
 *  but WITHOUT ANY WARRANTY; without even the implied warranty of
 *  MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
 *  GNU Lesser General Public License for more details.
 *
 *  You should have received a copy of the GNU Lesser General Public License
 *  along with the go-kardia library. If not, see <http://www.gnu.org/licenses/>.
 */
// Package api
package api

import (
	"net/http"

	"github.com/labstack/echo"
)

var (
	OK                 = EchoResponse{StatusCode: http.StatusOK, Code: 1000, Msg: "Success"}
	InternalServer     = EchoResponse{StatusCode: http.StatusInternalServerError, Code: 1100, Msg: "Server busy..."}
	Invalid            = EchoResponse{StatusCode: http.StatusBadRequest, Code: 1101, Msg: "Bad request"}
	Conflict           = EchoResponse{StatusCode: http.StatusConflict, Code: 1102, Msg: "Submission already in progress or done"}
	NotConnected       = EchoResponse{StatusCode: http.StatusServiceUnavailable, Code: 1103, Msg: "Not connected to the network"}
	SubmitFailed       = EchoResponse{StatusCode: http.StatusBadGateway, Code: 1104, Msg: "Failed to submit proposal"}
	TooManyRequests    = EchoResponse{StatusCode: http.StatusTooManyRequests, Code: 1105, Msg: "Too many requests"}
	StorageUnavailable = EchoResponse{StatusCode: http.StatusServiceUnavailable, Code: 1106, Msg: "Submission journal disabled"}
	Pending            = EchoResponse{StatusCode: http.StatusAccepted, Code: 1107, Msg: "Proposal sent, not yet confirmed"}
)

type Pagination struct {
	Page  int    `json:"page"`
	Limit int    `json:"limit"`
	Total uint64 `json:"total"`
}

type PagingResponse struct {
	Pagination
	Data interface{} `json:"data"`
}

type EchoResponse struct {
	StatusCode int         `json:"-"`
	Code       int         `json:"code"`
	Msg        string      `json:"msg"`
	Data       interface{} `json:"data,omitempty"`
}

// SetData returns a copy of r carrying data.
func (r EchoResponse) SetData(data interface{}) *EchoResponse {
	r.Data = data
	return &r
}

func (r *EchoResponse) Build(c echo.Context) error {
	return c.JSON(r.StatusCode, r)
}

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

package api

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/labstack/echo"
	"github.com/labstack/echo/middleware"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/M-QiiQ/TMU-AI-DAO/view"
)

const shutdownTimeout = 10 * time.Second

type restDefinition struct {
	method      string
	path        string
	fn          func(c echo.Context) error
	middlewares []echo.MiddlewareFunc
}

func bind(e *echo.Echo, srv RestServer, limiter *rate.Limiter) {
	throttled := []echo.MiddlewareFunc{throttle(limiter)}

	pages := []restDefinition{
		{
			method: echo.GET,
			path:   "/",
			fn:     srv.Index,
		},
		{
			method:      echo.POST,
			path:        "/",
			fn:          srv.SubmitForm,
			middlewares: throttled,
		},
	}
	for _, api := range pages {
		e.Add(api.method, api.path, api.fn, api.middlewares...)
	}

	apis := []restDefinition{
		{
			method:      echo.GET,
			path:        "/ping",
			fn:          srv.Ping,
			middlewares: nil,
		},
		{
			method:      echo.GET,
			path:        "/status",
			fn:          srv.ServerStatus,
			middlewares: nil,
		},
		{
			method: echo.GET,
			path:   "/balance",
			fn:     srv.Balance,
		},
		{
			method: echo.GET,
			path:   "/proposals",
			fn:     srv.Proposals,
		},
		{
			method: echo.POST,
			// Body: {"title": "", "description": "", "duration": 60, "key": ""}
			path:        "/proposals",
			fn:          srv.SubmitProposal,
			middlewares: throttled,
		},
		{
			method: echo.GET,
			path:   "/draft",
			fn:     srv.Draft,
		},
		{
			method: echo.PUT,
			path:   "/draft",
			fn:     srv.UpdateDraft,
		},
		{
			method: echo.POST,
			path:   "/refresh",
			fn:     srv.Refresh,
		},
		{
			method: echo.GET,
			// Query params: ?page=1&limit=25
			path: "/submissions",
			fn:   srv.Submissions,
		},
	}
	v1Gr := e.Group("/api/v1")
	for _, api := range apis {
		v1Gr.Add(api.method, api.path, api.fn, api.middlewares...)
	}
}

// throttle rejects requests above the limiter's rate. A nil limiter lets everything through.
func throttle(limiter *rate.Limiter) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if limiter != nil && !limiter.Allow() {
				return TooManyRequests.Build(c)
			}
			return next(c)
		}
	}
}

type pageRenderer struct{}

func (pageRenderer) Render(w io.Writer, name string, data interface{}, c echo.Context) error {
	page, ok := data.(*view.Page)
	if !ok {
		return errors.Errorf("cannot render %s: unexpected %T", name, data)
	}
	return view.RenderHTML(w, page)
}

// NewEcho builds the router with every route of srv bound.
func NewEcho(srv *Server) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Renderer = pageRenderer{}

	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	e.Use(middleware.Gzip())
	e.Use(requestLogger(srv.logger))

	bind(e, srv, srv.limiter)
	if srv.metrics != nil {
		e.GET("/metrics", echo.WrapHandler(srv.metrics.Handler()))
	}
	return e
}

// Start serves srv on port until ctx is cancelled, then shuts down gracefully.
func Start(ctx context.Context, srv *Server, port string) error {
	e := NewEcho(srv)
	errCh := make(chan error, 1)
	go func() {
		srv.logger.Info("API server", zap.String("port", port))
		errCh <- e.Start(port)
	}()

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			return errors.Wrap(err, "cannot start echo server")
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	srv.logger.Info("Shutting down API server")
	return e.Shutdown(shutdownCtx)
}

func requestLogger(logger *zap.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}
			logger.Debug("request",
				zap.String("method", c.Request().Method),
				zap.String("uri", c.Request().RequestURI),
				zap.Int("status", c.Response().Status),
				zap.Duration("latency", time.Since(start)))
			return nil
		}
	}
}

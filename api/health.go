// Package api
package api

import (
	"github.com/labstack/echo"

	"github.com/M-QiiQ/TMU-AI-DAO/cfg"
)

type statusResponse struct {
	Version   string `json:"version"`
	Phase     string `json:"phase"`
	Connected bool   `json:"connected"`
	Trusted   bool   `json:"trusted"`
	Principal string `json:"principal,omitempty"`
}

func (s *Server) Ping(c echo.Context) error {
	type pingStat struct {
		Version string `json:"version"`
	}
	stats := &pingStat{Version: cfg.ServerVersion}
	return OK.SetData(stats).Build(c)
}

func (s *Server) ServerStatus(c echo.Context) error {
	snapshot := s.dashboard.Snapshot()
	status := &statusResponse{
		Version:   cfg.ServerVersion,
		Phase:     snapshot.Phase.String(),
		Connected: snapshot.Connected,
		Trusted:   snapshot.Trusted,
	}
	if snapshot.Connected {
		status.Principal = snapshot.Principal.Hex()
	}
	return OK.SetData(status).Build(c)
}

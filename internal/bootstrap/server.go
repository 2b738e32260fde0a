package bootstrap

import (
	"github.com/raqolbi/hello-api/internal/commons"
	"github.com/raqolbi/hello-api/internal/server"
)

// Server runs the HTTP server manager as a launcher app.
type Server struct {
	manager *server.ServerManager
}

// NewServer wraps manager.
func NewServer(manager *server.ServerManager) *Server {
	return &Server{manager: manager}
}

// Run implements commons.App.
func (s *Server) Run(_ *commons.Launcher) error {
	return s.manager.StartWithGracefulShutdownWithError()
}

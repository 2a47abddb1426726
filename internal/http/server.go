package http

import (
	"github.com/gin-gonic/gin"
)

// Server wraps the gin engine behind the app's route table.
type Server struct {
	Engine *gin.Engine
}

func NewServer(cfg RouterConfig) *Server {
	return &Server{Engine: NewRouter(cfg)}
}

func (s *Server) Run(address string) error {
	return s.Engine.Run(address)
}

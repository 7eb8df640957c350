package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Server HTTP server config
type Server struct {
	Host            string
	Port            int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

// Addr returns host:port.
func (s *Server) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

func getServerConfig(v *viper.Viper) *Server {
	return &Server{
		Host:            getStringOrDefault(v, "server.host", "0.0.0.0"),
		Port:            getIntOrDefault(v, "server.port", 8080),
		ReadTimeout:     getDurationOrDefault(v, "server.read_timeout", 10*time.Second),
		WriteTimeout:    getDurationOrDefault(v, "server.write_timeout", 10*time.Second),
		ShutdownTimeout: getDurationOrDefault(v, "server.shutdown_timeout", 5*time.Second),
	}
}

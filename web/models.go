/* models.go
 * Contains the configuration and server structs for the read-only tournament view server
 * Authors: Zachary Bower
 */

package web

import (
	"swiss-td/engine"

	"golang.org/x/time/rate"
)

// Config holds the configuration for the web server
type Config struct {
	Addr string
	API  *engine.API
}

// Server is the HTTP server that exposes read-only JSON views of the engine state
type Server struct {
	api     *engine.API
	limiter *rate.Limiter
}

// NewServer builds a Server with a shared request rate limiter
func NewServer(api *engine.API) *Server {
	return &Server{
		api:     api,
		limiter: rate.NewLimiter(rate.Limit(5), 10),
	}
}

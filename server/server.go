package server

import (
	"context"
	"net/http"
)

type Server interface {
	Handle(method string, path string, handler http.Handler)
	Handler() http.Handler
	// Run serves until ctx is done, then drains in-flight requests.
	Run(ctx context.Context) error
}

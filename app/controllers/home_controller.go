// Package controllers holds the HTTP handlers. Controllers stay thin: bind,
// call a repository or service, serialize the outcome.
package controllers

import (
	"net/http"

	"github.com/nikhilrana/saman/pkg/response"
)

// HomeController serves the unauthenticated liveness probe.
type HomeController struct{}

func NewHomeController() *HomeController {
	return &HomeController{}
}

// Index answers the smoke-test greeting.
func (c *HomeController) Index(w http.ResponseWriter, r *http.Request) {
	response.Text(w, http.StatusOK, "Hello")
}

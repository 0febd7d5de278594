package main

import (
	"net/http"
	"slices"

	"github.com/gorilla/handlers"
)

// corsHandler allows the estimator API from origins. Browsers refuse
// credentialed responses with a wildcard origin, so the session cookie is
// only shared cross-origin when origins are listed explicitly.
func corsHandler(origins []string) func(http.Handler) http.Handler {
	opts := []handlers.CORSOption{
		handlers.AllowedOrigins(origins),
		handlers.AllowedMethods([]string{"GET", "POST", "PUT", "OPTIONS"}),
		handlers.AllowedHeaders([]string{"Content-Type"}),
	}
	if !slices.Contains(origins, "*") {
		opts = append(opts, handlers.AllowCredentials())
	}
	return handlers.CORS(opts...)
}

package handler

import (
	"net/http"

	"github.com/gorilla/mux"
)

// NewRouter registers the API routes. protect wraps the routes that need an operator token.
func NewRouter(h *Handler, protect mux.MiddlewareFunc, middlewares ...mux.MiddlewareFunc) *mux.Router {
	r := mux.NewRouter()
	r.Use(middlewares...)

	// Public routes
	r.HandleFunc("/tools", h.ListTools).Methods(http.MethodGet)
	r.HandleFunc("/tools/{name}", h.CallTool).Methods(http.MethodPost)
	r.HandleFunc("/key-rate", h.KeyRate).Methods(http.MethodGet)
	r.HandleFunc("/login", h.Login).Methods(http.MethodPost)

	// Protected routes
	authRouter := r.PathPrefix("/recommendations").Subrouter()
	authRouter.Use(protect)
	authRouter.HandleFunc("/email", h.EmailRecommendation).Methods(http.MethodPost)

	return r
}

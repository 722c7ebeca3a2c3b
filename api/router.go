package api

import (
	"net/http"

	contractx "github.com/tanpawarit/hcp-crm-assistant/agent/contract"
)

// NewRouter wires the endpoints and middleware.
func NewRouter(cfg Config, service contractx.ChatService) http.Handler {
	chat := NewChatHandler(service)

	mux := http.NewServeMux()
	mux.HandleFunc("POST /chat", chat.Chat)
	mux.HandleFunc("GET /healthz", Health)

	return Logging(CORS(cfg.AllowedOrigins)(mux))
}

// NewServer returns an http.Server for handler with the configured timeouts.
func NewServer(cfg Config, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:         cfg.Addr,
		Handler:      handler,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
}

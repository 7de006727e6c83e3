package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"notigate/internal/constants"
	"notigate/internal/metrics"
	"notigate/internal/middleware"
	"notigate/internal/models"
	"notigate/internal/privacy"
	"notigate/internal/service"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

const maxWebhookBody = constants.MaxWebhookBodyBytes

type Server struct {
	router    *mux.Router
	logger    *logrus.Logger
	messenger *service.Messenger
	resolver  *service.NameResolver
	registry  *metrics.Registry
	cfg       *models.Config
	server    *http.Server
}

func NewServer(cfg *models.Config, messenger *service.Messenger, resolver *service.NameResolver, registry *metrics.Registry, logger *logrus.Logger) *Server {
	s := &Server{
		router:    mux.NewRouter(),
		logger:    logger,
		messenger: messenger,
		resolver:  resolver,
		registry:  registry,
		cfg:       cfg,
	}

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.router.Use(middleware.Observability(s.logger, s.registry))

	s.router.HandleFunc("/health", s.handleHealth()).Methods(http.MethodGet)
	s.router.HandleFunc("/metrics", s.handleMetrics()).Methods(http.MethodGet)

	telegram := s.router.PathPrefix("/webhook/telegram").Subrouter()
	telegram.Use(middleware.WebhookObservability(s.logger, s.registry, "telegram"))
	telegram.HandleFunc("", s.handleTelegramWebhook()).Methods(http.MethodPost)

	whatsapp := s.router.PathPrefix("/webhook/whatsapp").Subrouter()
	whatsapp.Use(middleware.WebhookObservability(s.logger, s.registry, "whatsapp"))
	whatsapp.HandleFunc("", s.handleWhatsAppVerification()).Methods(http.MethodGet)
	whatsapp.HandleFunc("", s.handleWhatsAppWebhook()).Methods(http.MethodPost)

	api := s.router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/send", s.handleSend()).Methods(http.MethodPost)
	api.HandleFunc("/resolve", s.handleResolve()).Methods(http.MethodPost)
}

func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) Start() error {
	s.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", s.cfg.Server.Port),
		Handler:      s.router,
		ReadTimeout:  time.Duration(s.cfg.Server.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(s.cfg.Server.WriteTimeoutSec) * time.Second,
		IdleTimeout:  time.Duration(s.cfg.Server.IdleTimeoutSec) * time.Second,
	}

	s.logger.Infof("Starting server on port %d", s.cfg.Server.Port)
	return s.server.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

func (s *Server) handleHealth() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	}
}

// handleWhatsAppVerification answers the Graph API webhook subscribe
// handshake by echoing hub.challenge when the verify token matches.
func (s *Server) handleWhatsAppVerification() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()
		mode := query.Get("hub.mode")
		token := query.Get("hub.verify_token")
		challenge := query.Get("hub.challenge")

		if mode != "subscribe" || s.cfg.WhatsApp.WebhookSecret == "" || token != s.cfg.WhatsApp.WebhookSecret {
			s.logger.Warn("WhatsApp webhook verification rejected")
			w.WriteHeader(http.StatusForbidden)
			return
		}

		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(challenge))
	}
}

func (s *Server) handleTelegramWebhook() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, err := verifyTelegramSecret(r, s.cfg.Telegram.WebhookSecret)
		if err != nil {
			s.logger.WithError(err).Warn("Rejected Telegram webhook")
			w.WriteHeader(http.StatusUnauthorized)
			return
		}

		s.handleInbound(r.Context(), models.PlatformTelegram, body)
		w.WriteHeader(http.StatusOK)
	}
}

func (s *Server) handleWhatsAppWebhook() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, err := verifyWhatsAppSignature(r, s.cfg.WhatsApp.WebhookSecret)
		if err != nil {
			s.logger.WithError(err).Warn("Rejected WhatsApp webhook")
			w.WriteHeader(http.StatusUnauthorized)
			return
		}

		s.handleInbound(r.Context(), models.PlatformWhatsApp, body)
		w.WriteHeader(http.StatusOK)
	}
}

// handleInbound normalizes an authenticated webhook body. Payloads
// that do not yield an event are acknowledged and dropped; the
// platform never sees a processing error.
func (s *Server) handleInbound(ctx context.Context, platform models.Platform, body []byte) {
	event := s.messenger.HandleWebhook(platform, body)
	if event == nil {
		return
	}

	s.logger.WithFields(logrus.Fields{
		service.LogFieldPlatform:  string(event.Platform),
		service.LogFieldSenderID:  privacy.MaskChatID(event.SenderID),
		service.LogFieldChatID:    privacy.MaskChatID(event.ChatID),
		service.LogFieldDirection: "incoming",
	}).Info("Inbound message received")
}

package http

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"instapay-callback/internal/config"
	"instapay-callback/internal/domain/model"
	"instapay-callback/internal/infra/logging"
	"instapay-callback/internal/infra/metrics"
	"instapay-callback/internal/infra/security"
	"instapay-callback/internal/usecase"
)

const maxPayloadBytes = 1 << 20

// TokenParser validates a bearer token including its time claims.
type TokenParser interface {
	Parse(token string) (*security.AccessClaims, error)
}

// Pinger is anything /health can probe.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Option func(*Server)

// WithTokenParser enables expiry enforcement on bearer tokens when the
// callback config asks for it.
func WithTokenParser(p TokenParser) Option { return func(s *Server) { s.tokens = p } }

func WithRateLimiter(l Limiter) Option { return func(s *Server) { s.limiter = l } }

// WithHealthCheck adds a named dependency to /health.
func WithHealthCheck(name string, p Pinger) Option {
	return func(s *Server) { s.health[name] = p }
}

// Server exposes the gateway callback endpoints over HTTP.
type Server struct {
	cfg       *config.Config
	callbacks usecase.CallbackUseCase
	tokens    TokenParser
	limiter   Limiter
	health    map[string]Pinger
	log       *zerolog.Logger
	server    *http.Server
}

func NewServer(cfg *config.Config, callbacks usecase.CallbackUseCase, logger *zerolog.Logger, opts ...Option) *Server {
	if logger == nil {
		logger = logging.Nop()
	}
	s := &Server{
		cfg:       cfg,
		callbacks: callbacks,
		health:    make(map[string]Pinger),
		log:       logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Router builds the handler tree. Exposed for tests.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(TraceID(), RequestLog(s.log), Recover(s.log))

	r.Get("/health", s.handleHealthCheck)
	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	r.Group(func(r chi.Router) {
		r.Use(
			Timeout(s.cfg.Server.WriteTimeout),
			RateLimit(s.limiter, s.cfg.Server.RateLimit, s.log),
		)
		r.Post(model.EndpointGetTokenPath, s.handleCallback)

		r.Group(func(r chi.Router) {
			r.Use(s.requireToken)
			r.Post(model.EndpointServiceResponsesPath, s.handleCallback)
			r.Post(model.EndpointServiceRequestsPath, s.handleCallback)
		})
	})

	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		flow, _ := usecase.Route(r.URL.Path)
		metrics.ObserveCallback(string(flow), "method_not_allowed", 0)
		writeTransportError(w, http.StatusMethodNotAllowed, "Method Not Allowed", "Only POST method is allowed")
	})
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeTransportError(w, http.StatusNotFound, "Not Found", "Unknown endpoint")
	})
	return r
}

func (s *Server) Start() error {
	s.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", s.cfg.Server.Port),
		Handler:      s.Router(),
		ReadTimeout:  s.cfg.Server.ReadTimeout,
		WriteTimeout: s.cfg.Server.WriteTimeout,
	}

	s.log.Info().Int("port", s.cfg.Server.Port).Msg("callback server listening")
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

func (s *Server) handleHealthCheck(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	status := http.StatusOK
	checks := make(map[string]string, len(s.health))
	for name, p := range s.health {
		if err := p.Ping(ctx); err != nil {
			logging.With(r.Context(), s.log).Warn().Err(err).Str("dependency", name).Msg("health check failed")
			checks[name] = "down"
			status = http.StatusServiceUnavailable
			continue
		}
		checks[name] = "up"
	}
	writeJSON(w, status, map[string]any{"status": http.StatusText(status), "checks": checks})
}

func (s *Server) handleCallback(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	endpoint := r.URL.Path
	flow, _ := usecase.Route(endpoint)
	l := logging.With(r.Context(), s.log)

	payload, err := decodePayload(w, r)
	if err != nil {
		l.Warn().Err(err).Msg("invalid callback payload")
		s.observe(flow, "bad_request", start)
		writeTransportError(w, http.StatusBadRequest, "Bad Request", "Invalid JSON")
		return
	}

	env, err := s.callbacks.Dispatch(r.Context(), endpoint, payload)
	if err != nil {
		l.Error().Err(err).Msg("callback failed")
		s.observe(flow, "fatal", start)
		writeTransportError(w, http.StatusInternalServerError, "Internal Server Error", err.Error())
		return
	}

	if env.Outcome == model.OutcomeRejected {
		metrics.IncInwardRejection(string(env.ReasonCode))
	}
	s.observe(flow, string(env.Outcome), start)
	writeJSON(w, http.StatusOK, env)
}

// requireToken guards the service endpoints with the bearer token issued by
// GetToken, when the callback config asks for it.
func (s *Server) requireToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.cfg.Callback.RequireToken {
			next.ServeHTTP(w, r)
			return
		}

		token, ok := bearerToken(r)
		if ok {
			if s.cfg.Callback.EnforceExpiry && s.tokens != nil {
				_, err := s.tokens.Parse(token)
				ok = err == nil
			} else {
				ok = s.callbacks.VerifyToken(token)
			}
		}
		if !ok {
			flow, _ := usecase.Route(r.URL.Path)
			logging.With(r.Context(), s.log).Warn().
				Str("token", logging.Redact(token, s.cfg.Runtime.Dev)).
				Msg("callback rejected: bad bearer token")
			metrics.ObserveCallback(string(flow), "unauthorized", 0)
			writeTransportError(w, http.StatusUnauthorized, "Unauthorized", "Invalid or missing token")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) observe(flow usecase.Flow, outcome string, start time.Time) {
	metrics.ObserveCallback(string(flow), outcome, time.Since(start).Seconds())
}

func bearerToken(r *http.Request) (string, bool) {
	parts := strings.Fields(r.Header.Get("Authorization"))
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", false
	}
	return parts[1], true
}

// decodePayload reads a JSON object, keeping numbers exact. A JSON null
// decodes to an empty payload.
func decodePayload(w http.ResponseWriter, r *http.Request) (model.Payload, error) {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxPayloadBytes))
	dec.UseNumber()
	var p model.Payload
	if err := dec.Decode(&p); err != nil {
		return nil, err
	}
	if p == nil {
		p = model.Payload{}
	}
	return p, nil
}

func writeTransportError(w http.ResponseWriter, status int, text, message string) {
	writeJSON(w, status, model.Envelope{
		Code:    fmt.Sprintf("%d", status),
		Status:  text,
		Message: message,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

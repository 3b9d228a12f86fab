package web

import (
	"crypto/subtle"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/oklog/ulid/v2"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"app-access-server/internal/infra/logging"
	"app-access-server/internal/usecase"
)

// Header names of the two trust domains. The service caller (bot) issues
// codes and administers payments; the client caller (installed app) redeems
// codes and validates sessions.
const (
	headerBotSecret = "X-Bot-Secret"
	headerAppSecret = "X-App-Secret"
)

type Server struct {
	authUC    usecase.AuthUseCase
	subUC     usecase.SubscriptionUseCase
	payUC     usecase.PaymentUseCase
	botSecret string
	appSecret string
	log       *zerolog.Logger
}

func NewServer(
	authUC usecase.AuthUseCase,
	subUC usecase.SubscriptionUseCase,
	payUC usecase.PaymentUseCase,
	botSecret, appSecret string,
	logger *zerolog.Logger,
) *Server {
	compLog := logger.With().Str("component", "web").Logger()
	return &Server{
		authUC:    authUC,
		subUC:     subUC,
		payUC:     payUC,
		botSecret: botSecret,
		appSecret: appSecret,
		log:       &compLog,
	}
}

// Router builds the full route tree.
func (s *Server) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(s.requestID)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	// Client trust domain: the installed application.
	r.Group(func(r chi.Router) {
		r.Use(s.requireSecret(headerAppSecret, s.appSecret, "APP_SECRET"))
		r.Post("/verify", s.handleVerify)
		r.Post("/validate", s.handleValidate)
	})

	// Service trust domain: the bot and its admins.
	r.Group(func(r chi.Router) {
		r.Use(s.requireSecret(headerBotSecret, s.botSecret, "BOT_SECRET"))
		r.Post("/issue", s.handleIssue)

		r.Route("/api/v1", func(r chi.Router) {
			r.Post("/payments", s.handlePaymentCreate)
			r.Get("/payments", s.handlePaymentList)
			r.Get("/payments/{id}", s.handlePaymentGet)
			r.Post("/payments/{id}/screenshot", s.handlePaymentScreenshot)
			r.Post("/payments/{id}/approve", s.handlePaymentApprove)
			r.Post("/payments/{id}/reject", s.handlePaymentReject)

			r.Get("/subscriptions/expiring", s.handleSubscriptionExpiring)
			r.Get("/subscriptions/{user}", s.handleSubscriptionStatus)
		})
	})

	return r
}

// requireSecret authenticates one trust domain. A server whose secret is not
// configured fails closed with 500; a caller with a missing or wrong secret
// gets 401 before any handler runs.
func (s *Server) requireSecret(header, secret, name string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if secret == "" {
				s.log.Error().Str("secret", name).Msg("shared secret is not configured")
				writeDetail(w, http.StatusInternalServerError, name+" not configured")
				return
			}
			given := r.Header.Get(header)
			if subtle.ConstantTimeCompare([]byte(given), []byte(secret)) != 1 {
				writeDetail(w, http.StatusUnauthorized, "unauthorized")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// requestID threads a fresh ULID through the request context for log
// correlation and echoes it back to the caller.
func (s *Server) requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := ulid.Make().String()
		ctx := logging.WithReqID(r.Context(), id)
		w.Header().Set("X-Request-Id", id)

		start := time.Now()
		next.ServeHTTP(w, r.WithContext(ctx))
		logging.With(ctx, s.log).Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Dur("duration", time.Since(start)).
			Msg("request")
	})
}

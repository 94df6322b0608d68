package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"minifignet/internal/crafting"
	"minifignet/internal/database"
	"minifignet/internal/friendship"
	"minifignet/internal/handler"
	"minifignet/internal/inventory"
	"minifignet/internal/logger"
	"minifignet/internal/messaging"
	"minifignet/internal/metrics"
	"minifignet/internal/user"
	"minifignet/internal/votes"
)

// Services bundles everything the router dispatches to.
type Services struct {
	User       user.Service
	Inventory  inventory.Service
	Crafting   crafting.Service
	Votes      votes.Service
	Friendship friendship.Service
	Messaging  messaging.Service
}

type Server struct {
	httpServer *http.Server
	dbPool     database.Pool
}

// NewServer creates a new Server instance
func NewServer(port int, apiKey string, trustedProxies []string, dbPool database.Pool, services Services) *Server {
	r := chi.NewRouter()

	// Middleware stack, outermost first.
	detector := NewSuspiciousActivityDetector()

	r.Use(SecurityHeadersMiddleware())
	r.Use(AuthMiddleware(apiKey, trustedProxies, detector))
	r.Use(RateLimitMiddleware(trustedProxies, detector))
	r.Use(RequestSizeLimitMiddleware(1 << 20)) // 1MB limit
	r.Use(metrics.Middleware)
	r.Use(loggingMiddleware)

	// Health check routes (unversioned)
	r.Get("/healthz", handler.HandleHealthz())
	r.Get("/readyz", handler.HandleReadyz(dbPool))

	// Metrics endpoint (public, for Prometheus scraping)
	r.Handle("/metrics", promhttp.Handler())

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/user", func(r chi.Router) {
			r.Post("/register", handler.HandleRegisterUser(services.User))
		})

		r.Route("/inventory", func(r chi.Router) {
			r.Get("/", handler.HandleGetInventory(services.Inventory))
			r.Post("/add", handler.HandleAddItem(services.Inventory))
			r.Post("/remove", handler.HandleRemoveItem(services.Inventory))
		})

		r.Post("/craft", handler.HandleCraft(services.Crafting))

		r.Route("/votes", func(r chi.Router) {
			r.Get("/", handler.HandleGetVotes(services.Votes))
			r.Post("/spend", handler.HandleSpendVotes(services.Votes))
		})

		r.Route("/friends", func(r chi.Router) {
			r.Get("/", handler.HandleListFriends(services.Friendship))
			r.Post("/request", handler.HandleFriendRequest(services.Friendship))
			r.Post("/accept", handler.HandleFriendAccept(services.Friendship))
			r.Post("/block", handler.HandleFriendBlock(services.Friendship))
		})

		r.Route("/messages", func(r chi.Router) {
			r.Get("/", handler.HandleListInbox(services.Messaging))
			r.Post("/send", handler.HandleSendMessage(services.Messaging))
			r.Post("/open", handler.HandleOpenMessage(services.Messaging))
			r.Post("/delete", handler.HandleDeleteMessage(services.Messaging))
			r.Post("/detach", handler.HandleDetachAttachments(services.Messaging))
			r.Post("/easy-reply", handler.HandleEasyReply(services.Messaging))
		})
	})

	return &Server{
		httpServer: &http.Server{
			Addr:              fmt.Sprintf(":%d", port),
			Handler:           r,
			ReadHeaderTimeout: 5 * time.Second,
		},
		dbPool: dbPool,
	}
}

// responseWriter wraps http.ResponseWriter to capture the status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
	written    bool
}

func newResponseWriter(w http.ResponseWriter) *responseWriter {
	return &responseWriter{
		ResponseWriter: w,
		statusCode:     http.StatusOK,
	}
}

func (rw *responseWriter) WriteHeader(statusCode int) {
	if !rw.written {
		rw.statusCode = statusCode
		rw.written = true
		rw.ResponseWriter.WriteHeader(statusCode)
	}
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	if !rw.written {
		rw.WriteHeader(http.StatusOK)
	}
	return rw.ResponseWriter.Write(b)
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		// Health and metrics probes would drown out real traffic.
		if strings.HasPrefix(r.URL.Path, "/healthz") ||
			strings.HasPrefix(r.URL.Path, "/readyz") ||
			strings.HasPrefix(r.URL.Path, "/metrics") {
			next.ServeHTTP(w, r)
			return
		}

		requestID := logger.GenerateRequestID()
		ctx := logger.WithRequestID(r.Context(), requestID)
		r = r.WithContext(ctx)

		log := logger.FromContext(ctx)
		log.Info(LogMsgRequestStarted,
			"method", r.Method,
			"path", r.URL.Path,
			"remote_addr", r.RemoteAddr,
			"content_length", r.ContentLength,
			"user_agent", r.UserAgent())

		rw := newResponseWriter(w)
		next.ServeHTTP(rw, r)

		duration := time.Since(start)
		log.Info(LogMsgRequestCompleted,
			"method", r.Method,
			"path", r.URL.Path,
			"status", rw.statusCode,
			"duration_ms", duration.Milliseconds())
	})
}

// Start starts the server
func (s *Server) Start() error {
	slog.Default().Info(LogMsgServerStarting, "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Stop stops the server gracefully
func (s *Server) Stop(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

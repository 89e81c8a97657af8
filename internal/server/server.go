package server

import (
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"clientdocs/internal/docstore"
	"clientdocs/internal/store"
)

const (
	apiTokenEnvKey       = "CLIENTDOCS_API_TOKEN"
	adminTokenEnvKey     = "CLIENTDOCS_ADMIN_TOKEN"
	adminTokenHashEnvKey = "CLIENTDOCS_ADMIN_TOKEN_HASH"
	allowRemoteEnvKey    = "CLIENTDOCS_ALLOW_REMOTE"

	readHeaderTimeout = 5 * time.Second
	readTimeout       = 30 * time.Second
	writeTimeout      = 60 * time.Second
	idleTimeout       = 60 * time.Second

	sweepConcurrencyLimit  = 1
	uploadConcurrencyLimit = 8
)

// Options carries server tunables that are not services.
type Options struct {
	DBPath             string
	BlobBackend        string
	MaxUploadBytes     int64
	MultipartMaxMemory int64
}

// Server wraps HTTP handlers for the clientdocs API.
type Server struct {
	addr           string
	docs           *docstore.DocStore
	store          store.UploadStore
	opts           Options
	logger         *slog.Logger
	apiToken       string
	adminToken     string
	adminTokenHash string
	sweepLimiter   chan struct{}
	uploadLimiter  chan struct{}
}

// New creates a new server instance.
func New(addr string, docs *docstore.DocStore, uploadStore store.UploadStore, opts Options, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.MaxUploadBytes <= 0 {
		opts.MaxUploadBytes = defaultUploadMaxBody
	}
	if opts.MultipartMaxMemory <= 0 {
		opts.MultipartMaxMemory = defaultMultipartMemory
	}

	return &Server{
		addr:           addr,
		docs:           docs,
		store:          uploadStore,
		opts:           opts,
		logger:         logger,
		apiToken:       strings.TrimSpace(os.Getenv(apiTokenEnvKey)),
		adminToken:     strings.TrimSpace(os.Getenv(adminTokenEnvKey)),
		adminTokenHash: strings.TrimSpace(os.Getenv(adminTokenHashEnvKey)),
		sweepLimiter:   make(chan struct{}, sweepConcurrencyLimit),
		uploadLimiter:  make(chan struct{}, uploadConcurrencyLimit),
	}
}

// ListenAndServe starts the HTTP server.
func (s *Server) ListenAndServe() error {
	s.log().Info("starting server", "addr", s.addr)
	server := &http.Server{
		Addr:              s.addr,
		Handler:           s.routes(),
		ReadHeaderTimeout: readHeaderTimeout,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
	}

	return server.ListenAndServe()
}

// ListenAddr converts a base API URL into a listen address.
func ListenAddr(apiURL string) (string, error) {
	if apiURL == "" {
		return "", fmt.Errorf("api url is required")
	}
	if u, err := url.Parse(apiURL); err == nil && u.Host != "" {
		host := u.Hostname()
		if !isAllowedListenHost(host) {
			return "", fmt.Errorf("remote listen host %q requires %s=true", host, allowRemoteEnvKey)
		}
		return u.Host, nil
	}

	host, _, err := net.SplitHostPort(apiURL)
	if err == nil && !isAllowedListenHost(host) {
		return "", fmt.Errorf("remote listen host %q requires %s=true", host, allowRemoteEnvKey)
	}

	return apiURL, nil
}

func isAllowedListenHost(host string) bool {
	if host == "" {
		return true
	}
	if strings.EqualFold(strings.TrimSpace(os.Getenv(allowRemoteEnvKey)), "true") {
		return true
	}
	if host == "localhost" {
		return true
	}
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}

func (s *Server) acquireLimiter(limiter chan struct{}, w http.ResponseWriter, r *http.Request, name string) bool {
	if limiter == nil {
		return true
	}
	select {
	case limiter <- struct{}{}:
		return true
	default:
		err := apiError{
			status:  http.StatusTooManyRequests,
			code:    "resource_exhausted",
			errCode: ErrCodeResourceExhausted,
			err:     fmt.Errorf("too many concurrent %s requests", name),
		}
		s.writeErrorReq(w, r, http.StatusTooManyRequests, err)
		return false
	}
}

func (s *Server) releaseLimiter(limiter chan struct{}) {
	if limiter == nil {
		return
	}
	select {
	case <-limiter:
	default:
	}
}

func (s *Server) log() *slog.Logger {
	if s != nil && s.logger != nil {
		return s.logger
	}
	return slog.Default()
}

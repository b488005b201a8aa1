package server

import (
	"bytes"
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/tartampluch/go-tet/internal/config"
	"github.com/tartampluch/go-tet/internal/engine"
	"github.com/tartampluch/go-tet/internal/lunar"
)

// cacheItem stores the rendered calendar and its metadata for HTTP caching.
type cacheItem struct {
	data         []byte
	etag         string
	lastModified string // RFC1123 format required by HTTP headers
}

// CountdownSource exposes the countdown reported by /api/countdown.
type CountdownSource interface {
	Countdown() *engine.Countdown
}

// CalendarServer serves the Tết ICS feed and a small JSON API on localhost.
type CalendarServer struct {
	// cache uses atomic.Pointer for lock-free reads: the feed is read often
	// and only replaced when it is regenerated.
	cache atomic.Pointer[cacheItem]
	token atomic.Pointer[string]

	Port   string
	Source CountdownSource
}

// NewCalendarServer creates a new instance of the server.
func NewCalendarServer(port string) *CalendarServer {
	return &CalendarServer{
		Port: port,
	}
}

// SetToken sets the access token required on the feed routes. Empty disables the check.
func (s *CalendarServer) SetToken(token string) {
	s.token.Store(&token)
}

// Handler builds the router.
func (s *CalendarServer) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(requestLogger)

	r.Get(config.RouteHealth, handleHealth)

	r.Group(func(r chi.Router) {
		r.Use(s.requireToken)
		// Method filtering happens in the handler to answer 405 with an Allow header.
		r.HandleFunc(config.RouteRoot, s.handleCalendarRequest)
		r.HandleFunc(config.RouteFeed, s.handleCalendarRequest)
	})

	r.Route(config.RouteAPI, func(r chi.Router) {
		r.Get(config.RouteYears, handleYears)
		r.Get(config.RouteYear, handleYear)
		r.Get(config.RouteCountdown, s.handleCountdown)
	})

	return r
}

// Start initializes the HTTP server and blocks until the context is cancelled.
func (s *CalendarServer) Start(ctx context.Context) error {
	if s.Port == "" {
		return errors.New(config.ErrPortRequired)
	}

	srv := &http.Server{
		Addr:         config.LocalhostBindAddr + config.AddrSeparator + s.Port,
		Handler:      s.Handler(),
		ReadTimeout:  config.ServerReadTimeout,
		WriteTimeout: config.ServerWriteTimeout,
		IdleTimeout:  config.ServerIdleTimeout,
	}

	serverError := make(chan error, config.ChannelBufferSize)

	go func() {
		slog.Info(config.MsgServerListen,
			config.LogKeyComponent, config.CompServer,
			config.LogKeyPort, s.Port,
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverError <- err
		}
	}()

	select {
	case <-ctx.Done():
		slog.Info(config.MsgServerStop, config.LogKeyComponent, config.CompServer)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), config.ShutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("%s: %w", config.ErrServerShutdown, err)
		}
		return nil

	case err := <-serverError:
		return fmt.Errorf("%s: %w", config.ErrServerStartup, err)
	}
}

// Update atomically replaces the served calendar.
func (s *CalendarServer) Update(data []byte) {
	hash := sha256.Sum256(data)
	etag := fmt.Sprintf(config.FormatETag, hex.EncodeToString(hash[:]))

	s.cache.Store(&cacheItem{
		data:         data,
		etag:         etag,
		lastModified: time.Now().UTC().Format(http.TimeFormat),
	})

	slog.Debug(config.MsgCacheUpdated,
		config.LogKeyComponent, config.CompServer,
		config.LogKeySizeBytes, len(data),
		config.LogKeyETag, etag,
	)
}

// requireToken rejects feed requests without the configured token.
func (s *CalendarServer) requireToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if want := s.token.Load(); want != nil && *want != "" {
			got := r.URL.Query().Get(config.QueryToken)
			if subtle.ConstantTimeCompare([]byte(got), []byte(*want)) != 1 {
				slog.Warn(config.MsgTokenRejected,
					config.LogKeyComponent, config.CompServer,
					config.LogKeyPath, r.URL.Path,
				)
				http.Error(w, config.HTTPMsgUnauthorized, http.StatusUnauthorized)
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}

// handleCalendarRequest serves the ICS content with HTTP caching support.
func (s *CalendarServer) handleCalendarRequest(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set(config.HeaderAllow, config.AllowedMethods)
		http.Error(w, config.HTTPMsgMethodNotAll, http.StatusMethodNotAllowed)
		return
	}

	item := s.cache.Load()
	if item == nil {
		w.Header().Set(config.HeaderRetryAfter, config.RetryAfterSeconds)
		http.Error(w, config.HTTPMsgInitializing, http.StatusServiceUnavailable)
		return
	}

	w.Header().Set(config.HeaderContentType, config.MimeTextCalendar)
	w.Header().Set(config.HeaderXContentType, config.MimeNoSniff)
	w.Header().Set(config.HeaderCacheControl, config.CacheControlPrivate)
	w.Header().Set(config.HeaderETag, item.etag)
	w.Header().Set(config.HeaderLastModified, item.lastModified)

	if match := r.Header.Get(config.HeaderIfNoneMatch); match == item.etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	if since := r.Header.Get(config.HeaderIfModifiedSince); since != "" {
		if clientTime, err := time.Parse(http.TimeFormat, since); err == nil {
			if serverTime, err := time.Parse(http.TimeFormat, item.lastModified); err == nil {
				if !serverTime.After(clientTime) {
					w.WriteHeader(http.StatusNotModified)
					return
				}
			}
		}
	}

	if r.Method == http.MethodGet {
		if _, err := io.Copy(w, bytes.NewReader(item.data)); err != nil {
			slog.Error(config.ErrWriteResp,
				config.LogKeyComponent, config.CompServer,
				config.LogKeyError, err,
			)
		}
	}
}

type yearsResponse struct {
	Years []int `json:"years"`
}

type yearResponse struct {
	Year    int    `json:"year"`
	Date    string `json:"date"`
	Weekday string `json:"weekday"`
}

type errorResponse struct {
	Error          string `json:"error"`
	SupportedYears []int  `json:"supported_years,omitempty"`
}

type countdownResponse struct {
	Target string `json:"target"`
	State  string `json:"state"`
	engine.Snapshot
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{config.JSONKeyStatus: config.HealthOK})
}

func handleYears(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, yearsResponse{Years: lunar.AvailableYears()})
}

func handleYear(w http.ResponseWriter, r *http.Request) {
	year, err := strconv.Atoi(chi.URLParam(r, config.ParamYear))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: config.ErrYearParam})
		return
	}

	date, err := lunar.TetDate(year)
	if err != nil {
		var nf *lunar.YearNotFoundError
		resp := errorResponse{Error: err.Error()}
		if errors.As(err, &nf) {
			resp.SupportedYears = nf.Supported
		}
		writeJSON(w, http.StatusNotFound, resp)
		return
	}

	writeJSON(w, http.StatusOK, yearResponse{
		Year:    year,
		Date:    date.Format(config.DateFormatISO),
		Weekday: date.Weekday().String(),
	})
}

func (s *CalendarServer) handleCountdown(w http.ResponseWriter, _ *http.Request) {
	var c *engine.Countdown
	if s.Source != nil {
		c = s.Source.Countdown()
	}
	if c == nil {
		w.Header().Set(config.HeaderRetryAfter, config.RetryAfterSeconds)
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: config.HTTPMsgNoCountdown})
		return
	}

	writeJSON(w, http.StatusOK, countdownResponse{
		Target:   c.Target.Format(time.RFC3339),
		State:    c.State().String(),
		Snapshot: c.Snapshot(),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set(config.HeaderContentType, config.MimeJSON)
	w.Header().Set(config.HeaderXContentType, config.MimeNoSniff)
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error(config.ErrWriteResp,
			config.LogKeyComponent, config.CompServer,
			config.LogKeyError, err,
		)
	}
}

// requestLogger logs each request at debug level with its status and duration.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		slog.Debug(config.MsgRequestServed,
			config.LogKeyComponent, config.CompServer,
			config.LogKeyMethod, r.Method,
			config.LogKeyPath, r.URL.Path,
			config.LogKeyStatus, ww.Status(),
			config.LogKeyDuration, time.Since(start).Milliseconds(),
		)
	})
}

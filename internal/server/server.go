// Package server exposes glyph engines over HTTP. Each session is an
// independent engine driven by its own goroutine.
package server

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"glyphmap/internal/geom"
	"glyphmap/internal/glyph"
	"glyphmap/internal/raster"
)

// MaxTicks bounds the ticks one advance request may run.
const MaxTicks = 1000

// Server holds the shared dataset and the live sessions.
type Server struct {
	records  []glyph.Record
	stats    glyph.Stats
	canvas   glyph.Canvas
	backdrop []geom.Polygon
	store    *Store
	log      *slog.Logger

	maxSessions int
	idle        time.Duration

	renderMu sync.Mutex
	renderer *raster.Renderer
}

// Option configures a Server.
type Option func(*Server)

func WithCanvas(c glyph.Canvas) Option       { return func(s *Server) { s.canvas = c } }
func WithBackdrop(p []geom.Polygon) Option   { return func(s *Server) { s.backdrop = p } }
func WithLogger(l *slog.Logger) Option       { return func(s *Server) { s.log = l } }
func WithRenderer(r *raster.Renderer) Option { return func(s *Server) { s.renderer = r } }

// WithMaxSessions caps the number of live sessions.
func WithMaxSessions(n int) Option { return func(s *Server) { s.maxSessions = n } }

// WithIdleTimeout sets how long Serve keeps an unused session. Zero or
// less disables expiry.
func WithIdleTimeout(d time.Duration) Option { return func(s *Server) { s.idle = d } }

// New creates a server for an ingested dataset.
func New(records []glyph.Record, stats glyph.Stats, opts ...Option) *Server {
	s := &Server{
		records: records,
		stats:   stats,
		canvas:  glyph.DefaultCanvas(),
		log:     glyph.Logger(),
		idle:    DefaultIdleTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.store = NewStore(func() *glyph.Engine {
		return glyph.NewEngine(s.records, s.stats, glyph.WithCanvas(s.canvas), glyph.WithLogger(s.log))
	}, s.maxSessions)
	return s
}

// Store returns the session store.
func (s *Server) Store() *Store { return s.store }

// Close ends every session.
func (s *Server) Close() { s.store.Close() }

// Router builds the gin engine.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(s.log))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "records": len(s.records), "sessions": s.store.Len()})
	})

	api := r.Group("/api/v1")
	{
		sessions := api.Group("/sessions")
		{
			sessions.POST("", s.createSession)
			sessions.GET("/:id", s.withSession, s.getSession)
			sessions.DELETE("/:id", s.deleteSession)
			sessions.POST("/:id/advance", s.withSession, s.advance)
			sessions.GET("/:id/frame.png", s.withSession, s.framePNG)
			sessions.POST("/:id/commands/:name", s.withSession, s.command)
		}
	}
	return r
}

// Serve runs the router on addr until ctx is done.
func (s *Server) Serve(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s.Router(), ReadHeaderTimeout: 10 * time.Second}
	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	s.log.Info("server: listening", "addr", addr, "records", len(s.records))
	if s.idle > 0 {
		go s.expire(ctx)
	}
	select {
	case err := <-errc:
		s.Close()
		return err
	case <-ctx.Done():
	}
	shutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	err := srv.Shutdown(shutdown)
	s.Close()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// expire drops idle sessions until ctx is done.
func (s *Server) expire(ctx context.Context) {
	every := min(s.idle/2, time.Minute)
	if every <= 0 {
		every = s.idle
	}
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case now := <-t.C:
			if n := s.store.Expire(now, s.idle); n > 0 {
				s.log.Info("server: sessions expired", "count", n, "live", s.store.Len())
			}
		case <-ctx.Done():
			return
		}
	}
}

// sessionInfo is the JSON view of a session.
type sessionInfo struct {
	ID      string      `json:"id"`
	Created time.Time   `json:"created"`
	Records int         `json:"records"`
	State   glyph.State `json:"state"`
}

const sessionKey = "session"

func (s *Server) withSession(c *gin.Context) {
	sess, ok := s.store.Get(c.Param("id"))
	if !ok {
		fail(c, http.StatusNotFound, "session not found")
		return
	}
	c.Set(sessionKey, sess)
	c.Next()
}

func session(c *gin.Context) *Session { return c.MustGet(sessionKey).(*Session) }

// do runs fn on the session and writes an error reply when it could not.
func (s *Server) do(c *gin.Context, sess *Session, fn func(*glyph.Engine)) bool {
	if err := sess.Do(c.Request.Context(), fn); err != nil {
		if errors.Is(err, ErrSessionClosed) {
			fail(c, http.StatusNotFound, "session not found")
		} else {
			fail(c, http.StatusServiceUnavailable, err.Error())
		}
		return false
	}
	return true
}

func (s *Server) info(c *gin.Context, sess *Session) (sessionInfo, bool) {
	in := sessionInfo{ID: sess.ID, Created: sess.Created}
	ok := s.do(c, sess, func(e *glyph.Engine) {
		in.Records = e.Len()
		in.State = e.State()
	})
	return in, ok
}

func (s *Server) createSession(c *gin.Context) {
	sess, err := s.store.Create()
	if err != nil {
		s.log.Warn("server: session refused", "err", err, "live", s.store.Len())
		fail(c, http.StatusServiceUnavailable, err.Error())
		return
	}
	s.log.Debug("server: session created", "id", sess.ID)
	if in, ok := s.info(c, sess); ok {
		c.JSON(http.StatusCreated, Response{Code: 0, Message: "created", Data: in})
	}
}

func (s *Server) getSession(c *gin.Context) {
	if in, ok := s.info(c, session(c)); ok {
		success(c, in)
	}
}

func (s *Server) deleteSession(c *gin.Context) {
	if !s.store.Delete(c.Param("id")) {
		fail(c, http.StatusNotFound, "session not found")
		return
	}
	success(c, nil)
}

func ticks(c *gin.Context) (int, bool) {
	n := 1
	if q := c.Query("ticks"); q != "" {
		v, err := strconv.Atoi(q)
		if err != nil || v < 1 || v > MaxTicks {
			fail(c, http.StatusBadRequest, "ticks must be an integer in [1, "+strconv.Itoa(MaxTicks)+"]")
			return 0, false
		}
		n = v
	}
	return n, true
}

func step(e *glyph.Engine, n int) glyph.Frame {
	var f glyph.Frame
	for range n {
		f = e.Step()
	}
	return f
}

func (s *Server) advance(c *gin.Context) {
	n, ok := ticks(c)
	if !ok {
		return
	}
	var f glyph.Frame
	if s.do(c, session(c), func(e *glyph.Engine) { f = step(e, n) }) {
		success(c, f)
	}
}

func (s *Server) framePNG(c *gin.Context) {
	if s.renderer == nil {
		fail(c, http.StatusNotImplemented, "rendering disabled")
		return
	}
	n, ok := ticks(c)
	if !ok {
		return
	}
	var f glyph.Frame
	if !s.do(c, session(c), func(e *glyph.Engine) { f = step(e, n) }) {
		return
	}
	var buf bytes.Buffer
	s.renderMu.Lock()
	err := s.renderer.WritePNG(&buf, f, s.backdrop)
	s.renderMu.Unlock()
	if err != nil {
		_ = c.Error(err)
		fail(c, http.StatusInternalServerError, err.Error())
		return
	}
	c.Data(http.StatusOK, "image/png", buf.Bytes())
}

var commands = map[string]func(*glyph.Engine){
	"sort":   (*glyph.Engine).AdvanceSortKey,
	"layout": (*glyph.Engine).AdvanceLayoutMode,
	"color":  (*glyph.Engine).AdvanceColorIndex,
	"shape":  (*glyph.Engine).ToggleShapeStyle,
}

func (s *Server) command(c *gin.Context) {
	name := c.Param("name")
	cmd, ok := commands[name]
	if !ok {
		fail(c, http.StatusBadRequest, "unknown command: "+name)
		return
	}
	var st glyph.State
	if s.do(c, session(c), func(e *glyph.Engine) {
		cmd(e)
		st = e.State()
	}) {
		success(c, st)
	}
}

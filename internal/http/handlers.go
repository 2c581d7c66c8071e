package httpx

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"films-htmx/backend/internal/apidoc"
	"films-htmx/backend/internal/db"
	"films-htmx/backend/internal/film"
	"films-htmx/backend/internal/render"
)

const specPath = "/swagger/openapi.json"

// Pinger is the slice of *pgxpool.Pool the handlers use.
type Pinger interface {
	Ping(ctx context.Context) error
}

// PageRenderer renders a named HTML template to bytes.
type PageRenderer interface {
	Render(name string, data any) ([]byte, error)
}

type Options struct {
	Log        *zap.Logger
	DB         Pinger // nil disables the database health check
	Pages      PageRenderer
	Films      []film.Film
	StaticDir  string
	CORSOrigin string
	// Registry receives the HTTP metrics and is served on /metrics. A fresh
	// registry is created when nil.
	Registry *prometheus.Registry
}

type Server struct {
	R   *gin.Engine
	DB  Pinger
	Now func() time.Time

	log   *zap.Logger
	pages PageRenderer
	films []film.Film
	docs  *apidoc.Doc
}

type indexPage struct {
	Title string
	Films []film.Film
}

func NewServer(opts Options) (*Server, error) {
	if opts.Log == nil {
		opts.Log = zap.NewNop()
	}
	if opts.Registry == nil {
		opts.Registry = prometheus.NewRegistry()
	}
	if opts.Pages == nil {
		pages, err := render.New()
		if err != nil {
			return nil, err
		}
		opts.Pages = pages
	}
	docs, err := apidoc.Load(specPath)
	if err != nil {
		return nil, err
	}
	metrics, err := newHTTPMetrics(opts.Registry)
	if err != nil {
		return nil, err
	}

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	// Recovery sits inside Logger and metrics so a panicking request is still
	// logged and counted as a 500.
	r.Use(RequestID(), Logger(opts.Log), metrics.middleware(), Recovery(opts.Log))
	if opts.CORSOrigin != "" {
		r.Use(CORS(opts.CORSOrigin))
	}

	s := &Server{
		R:     r,
		DB:    opts.DB,
		Now:   time.Now,
		log:   opts.Log,
		pages: opts.Pages,
		films: opts.Films,
		docs:  docs,
	}

	r.GET("/", s.index)
	r.GET("/api/hello", s.hello)
	if opts.StaticDir != "" {
		r.Static("/static", opts.StaticDir)
	}
	r.GET("/swagger", s.swaggerUI)
	r.GET(specPath, s.openAPI)
	r.GET("/health", s.health)
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(opts.Registry, promhttp.HandlerOpts{})))

	return s, nil
}

func (s *Server) hello(c *gin.Context) {
	name, ok := c.GetQuery("name")
	if !ok || name == "" {
		c.String(http.StatusOK, "hello!")
		return
	}
	c.String(http.StatusOK, "hello, %s!", name)
}

func (s *Server) index(c *gin.Context) {
	body, err := s.pages.Render("index.html", indexPage{Title: "Film list", Films: s.films})
	if err != nil {
		s.log.Error("render index page",
			zap.String("request_id", c.GetString(requestIDKey)),
			zap.Error(err))
		c.String(http.StatusInternalServerError, "internal server error")
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", body)
}

func (s *Server) swaggerUI(c *gin.Context) {
	c.Data(http.StatusOK, "text/html; charset=utf-8", s.docs.UI)
}

func (s *Server) openAPI(c *gin.Context) {
	c.JSON(http.StatusOK, s.docs.Spec)
}

func (s *Server) health(c *gin.Context) {
	if s.DB == nil {
		c.JSON(http.StatusOK, gin.H{"ok": true, "time": s.Now().UTC(), "database": "disabled"})
		return
	}
	ctx, cancel := context.WithTimeout(c.Request.Context(), db.AcquireTimeout)
	defer cancel()
	if err := s.DB.Ping(ctx); err != nil {
		s.log.Warn("database ping failed", zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{"ok": false, "time": s.Now().UTC(), "database": "unreachable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "time": s.Now().UTC(), "database": "ok"})
}

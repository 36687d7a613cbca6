// Package server serves the pre-rendered chart over HTTP. Every request
// decodes its own assignment from the query string; the server holds no
// per-user state.
package server

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/h0rv/shuhan/internal/chamber"
	"github.com/h0rv/shuhan/internal/chart"
	"github.com/h0rv/shuhan/internal/config"
	"github.com/h0rv/shuhan/internal/domain"
	"github.com/h0rv/shuhan/internal/logging"
	"github.com/h0rv/shuhan/internal/querystate"
	"github.com/h0rv/shuhan/internal/render"
	"github.com/h0rv/shuhan/internal/share"
	"github.com/h0rv/shuhan/internal/simulator"
)

const shutdownTimeout = 5 * time.Second

// Title is the page and chart title.
const Title = "首班指名シミュレータ"

// Server renders charts for HTTP clients.
type Server struct {
	catalog *chamber.Catalog
	cfg     *config.Config
	logger  *log.Logger
	router  chi.Router
}

// New creates a server for cat configured by cfg.
func New(cat *chamber.Catalog, cfg *config.Config, logger *log.Logger) *Server {
	s := &Server{catalog: cat, cfg: cfg, logger: logger}
	s.router = s.routes()
	return s
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(withLogger(s.logger))
	r.Use(middleware.Recoverer)
	r.Use(legacyRedirect(s.cfg.Server.CanonicalHost, s.cfg.Server.LegacyHosts))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
	r.Get("/", s.handlePage)
	r.Get("/chart.svg", s.handleSVG)
	r.Route("/api", func(r chi.Router) {
		r.Get("/chart", s.handleChart)
		r.Get("/chambers", s.handleChambers)
	})
	return r
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Server.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("failed to serve: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		s.logger.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}

// session builds a per-request session from the g parameter, with any swap
// already committed.
func (s *Server) session(r *http.Request) *simulator.Session {
	logger := logging.FromContext(r.Context())
	sess := simulator.FromQuery(s.catalog, r.URL.Query().Get(querystate.Param), logger)
	sess.Settle()
	return sess
}

func (s *Server) chamberFor(r *http.Request) (*domain.Chamber, error) {
	id := r.URL.Query().Get("chamber")
	if id == "" {
		id = s.cfg.Chamber
	}
	return s.catalog.Chamber(id)
}

// secondary returns the first chamber other than ch, if any.
func (s *Server) secondary(ch *domain.Chamber) *domain.Chamber {
	for _, c := range s.catalog.Chambers {
		if c.ID != ch.ID {
			return c
		}
	}
	return nil
}

func (s *Server) svgFor(sess *simulator.Session, ch *domain.Chamber) []byte {
	opts := []render.Option{}
	if sec := s.secondary(ch); sec != nil {
		opts = append(opts, render.WithSecondary(sess.View(sec)))
	}
	return render.SVG(sess.View(ch), opts...)
}

func (s *Server) handleSVG(w http.ResponseWriter, r *http.Request) {
	ch, err := s.chamberFor(r)
	if err != nil {
		errorJSON(w, r, http.StatusNotFound, err.Error())
		return
	}
	sess := s.session(r)

	w.Header().Set("Content-Type", "image/svg+xml")
	w.Header().Set("Cache-Control", "public, max-age=300")
	_, _ = w.Write(s.svgFor(sess, ch))
}

var pageTemplate = template.Must(template.New("page").Parse(`<!doctype html>
<html lang="ja">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.Title}}{{if .Coalition}} | {{.Coalition}}{{end}}</title>
<meta property="og:title" content="{{.Title}}">
<meta property="og:description" content="{{.Coalition}}">
<meta property="og:url" content="{{.PageURL}}">
</head>
<body>
<header><h1>{{.Title}}</h1></header>
<main>
{{.Chart}}
</main>
<footer><a href="{{.ShareURL}}" rel="noopener">共有する</a></footer>
</body>
</html>
`))

type pageData struct {
	Title     string
	Coalition string
	PageURL   string
	ShareURL  string
	Chart     template.HTML
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	ch, err := s.chamberFor(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	sess := s.session(r)
	view := sess.View(ch)
	pageURL := share.PageURL(s.cfg.SiteURL, sess.Encode())

	data := pageData{
		Title:     Title,
		Coalition: view.CoalitionName,
		PageURL:   pageURL,
		ShareURL:  share.IntentLink(view.CoalitionName, pageURL),
		// Output of render.SVG escapes every text node.
		Chart: template.HTML(s.svgFor(sess, ch)),
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pageTemplate.Execute(w, data); err != nil {
		logging.FromContext(r.Context()).Error("failed to render page", "err", err)
	}
}

type partyResponse struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	ShortName       string   `json:"short_name"`
	Seats           int      `json:"seats"`
	Color           string   `json:"color"`
	Height          float64  `json:"height"`
	CenterFromTop   float64  `json:"center_from_top"`
	Compact         bool     `json:"compact"`
	TooltipTop      *float64 `json:"tooltip_top,omitempty"`
	ConnectorOffset *float64 `json:"connector_offset,omitempty"`
}

type groupResponse struct {
	ID      domain.GroupID  `json:"id"`
	Name    string          `json:"name"`
	Total   int             `json:"total"`
	Parties []partyResponse `json:"parties"`
}

type chartResponse struct {
	State         string          `json:"state"`
	Chamber       string          `json:"chamber"`
	Total         int             `json:"total"`
	Majority      int             `json:"majority"`
	StackHeight   float64         `json:"stack_height"`
	CoalitionName string          `json:"coalition_name"`
	MajorityGap   int             `json:"majority_gap"`
	ShareURL      string          `json:"share_url"`
	Groups        []groupResponse `json:"groups"`
}

func newChartResponse(v chart.View, state, shareURL string) chartResponse {
	resp := chartResponse{
		State:         state,
		Chamber:       v.Chamber.ID,
		Total:         v.Chamber.Total,
		Majority:      v.Chamber.Majority,
		StackHeight:   v.StackHeight,
		CoalitionName: v.CoalitionName,
		MajorityGap:   v.MajorityGap,
		ShareURL:      shareURL,
		Groups:        make([]groupResponse, 0, len(v.Columns)),
	}
	for _, col := range v.Columns {
		g := groupResponse{ID: col.ID, Name: col.Name, Total: col.Total, Parties: make([]partyResponse, 0, len(col.Segments))}
		for _, seg := range col.Segments {
			p := partyResponse{
				ID:            seg.Party.ID,
				Name:          seg.Party.Name,
				ShortName:     seg.Party.ShortName,
				Seats:         seg.Party.Seats,
				Color:         seg.Party.Color,
				Height:        seg.Height,
				CenterFromTop: seg.CenterFromTop,
				Compact:       seg.Compact,
			}
			if seg.HasTooltip {
				top, off := seg.TooltipTop, seg.ConnectorOffset
				p.TooltipTop, p.ConnectorOffset = &top, &off
			}
			g.Parties = append(g.Parties, p)
		}
		resp.Groups = append(resp.Groups, g)
	}
	return resp
}

func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	ch, err := s.chamberFor(r)
	if err != nil {
		errorJSON(w, r, http.StatusNotFound, err.Error())
		return
	}
	sess := s.session(r)
	view := sess.View(ch)
	encoded := sess.Encode()
	shareURL := share.IntentLink(view.CoalitionName, share.PageURL(s.cfg.SiteURL, encoded))

	jsonResponse(w, r, http.StatusOK, newChartResponse(view, encoded, shareURL))
}

type chamberResponse struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Total    int    `json:"total"`
	Majority int    `json:"majority"`
	Parties  int    `json:"parties"`
}

func (s *Server) handleChambers(w http.ResponseWriter, r *http.Request) {
	out := make([]chamberResponse, 0, len(s.catalog.Chambers))
	for _, ch := range s.catalog.Chambers {
		out = append(out, chamberResponse{ID: ch.ID, Name: ch.Name, Total: ch.Total, Majority: ch.Majority, Parties: len(ch.Parties)})
	}
	jsonResponse(w, r, http.StatusOK, out)
}

// Package server exposes the practice session over HTTP: a static UI, the
// dataset images, and a small JSON API for drawing and revealing cards.
package server

import (
	"io/fs"
	"net/http"
	"sync"

	"github.com/kpauljoseph/rockdeck/internal/credits"
	"github.com/kpauljoseph/rockdeck/internal/deck"
	"github.com/kpauljoseph/rockdeck/internal/rockinfo"
	"github.com/kpauljoseph/rockdeck/pkg/logger"
)

type Server struct {
	addr       string
	datasetDir string
	collection string

	// session is nil until the manifest has loaded; every API handler
	// treats that as the not-ready state.
	mu      sync.Mutex
	session *deck.Session

	catalog *rockinfo.Catalog
	credits *credits.Table
	logger  *logger.Logger
}

type Options struct {
	Addr       string
	DatasetDir string
	Collection string
	Session    *deck.Session
	Catalog    *rockinfo.Catalog
	Credits    *credits.Table
	Logger     *logger.Logger
}

func New(opts Options) *Server {
	return &Server{
		addr:       opts.Addr,
		datasetDir: opts.DatasetDir,
		collection: opts.Collection,
		session:    opts.Session,
		catalog:    opts.Catalog,
		credits:    opts.Credits,
		logger:     opts.Logger,
	}
}

// Handler builds the full route table. Split from Start so tests can drive
// it through httptest.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	static, err := fs.Sub(staticFiles, "web/static")
	if err != nil {
		// The UI is compiled in; failing to root it means a broken build.
		s.logger.Warn("embedded UI unavailable, serving API only: %v", err)
	} else {
		mux.Handle("/", http.FileServer(http.FS(static)))
	}

	// Dataset images live on disk next to the manifest.
	prefix := "/" + s.collection + "/"
	mux.Handle(prefix, http.StripPrefix(prefix, http.FileServer(http.Dir(s.datasetDir))))

	mux.HandleFunc("/api/state", s.handleState)
	mux.HandleFunc("/api/next", s.handleNext)
	mux.HandleFunc("/api/reveal", s.handleReveal)
	mux.HandleFunc("/api/selection", s.handleSelection)
	mux.HandleFunc("/api/credits", s.handleCredits)

	return mux
}

func (s *Server) Start() error {
	s.logger.Info("RockDeck serving on http://localhost%s", s.addr)
	return http.ListenAndServe(s.addr, s.Handler())
}

// Package autoforms serves list, add, edit, archive and delete pages for
// declaratively configured forms.
package autoforms

import (
	"context"
	"errors"
	"io/fs"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/autoforms/autoforms/logger"
	"github.com/autoforms/autoforms/render"
	"github.com/autoforms/autoforms/schema"
	"github.com/autoforms/autoforms/session"
	"github.com/autoforms/autoforms/store"
)

// Config server config
type Config struct {
	// Store persistence engine, a memory store when nil
	Store store.Store
	// Sessions session store, a memory store when nil
	Sessions session.Store
	// Logger
	Logger logger.Interface
	// StaticDir files here replace the embedded stylesheet and icons
	StaticDir string
	// Templates *.html files here replace the embedded page templates
	Templates fs.FS
	// UploadDir file fields are saved here, only the file name is stored when empty
	UploadDir string
	// NowFunc the function to be used when creating a new timestamp
	NowFunc func() time.Time
}

// Server registered forms and their routes
type Server struct {
	*Config

	renderer *render.Renderer
	router   *mux.Router
	forms    []*schema.Form
	serving  bool
}

// New creates a server, forms are added with AddForm before Handler is called
func New(config *Config) (*Server, error) {
	if config == nil {
		config = &Config{}
	}

	if config.Store == nil {
		config.Store = store.NewMemoryStore()
	}

	if config.Sessions == nil {
		config.Sessions = session.NewMemoryStore(session.Options{})
	}

	if config.Logger == nil {
		config.Logger = logger.Default
	}

	if config.NowFunc == nil {
		config.NowFunc = func() time.Time { return time.Now().UTC() }
	}

	renderer, err := render.New(config.Templates)
	if err != nil {
		return nil, err
	}

	s := &Server{Config: config, renderer: renderer, router: mux.NewRouter()}
	s.router.Use(s.logRequests)
	s.routeAssets()
	return s, nil
}

// Forms registered forms in registration order
func (s *Server) Forms() []*schema.Form {
	return append([]*schema.Form(nil), s.forms...)
}

// AddForm validates form and exposes its routes, it fails with a schema ConfigError
func (s *Server) AddForm(form *schema.Form) error {
	if s.serving {
		return ErrServing
	}

	if form == nil {
		return &schema.ConfigError{Kind: schema.MissingField, Message: "nil form"}
	}

	if err := form.Validate(); err != nil {
		return err
	}

	for _, registered := range s.forms {
		if registered.Path == form.Path {
			return &schema.ConfigError{Kind: schema.InvalidPath, Form: form.TableName, Message: "path " + form.Path + " is already registered"}
		}
	}

	s.forms = append(s.forms, form)
	s.routeForm(form)
	return nil
}

// Migrate creates the table of every registered form and the users table
func (s *Server) Migrate(ctx context.Context) error {
	layouts := make([]*schema.Layout, 0, len(s.forms))
	for _, form := range s.forms {
		layouts = append(layouts, form.Layout())
	}
	return s.Store.Migrate(ctx, layouts...)
}

// Handler routes of every registered form, no form can be added afterwards
func (s *Server) Handler() http.Handler {
	s.serving = true
	return s.router
}

// ListenAndServe serves Handler on addr until ctx is done or the listener fails
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	done := make(chan error, 1)
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		done <- srv.Shutdown(shutdownCtx)
	}()

	s.Logger.Info(ctx, "autoforms listening on "+addr)
	if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return <-done
}

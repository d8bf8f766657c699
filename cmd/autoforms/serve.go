package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/autoforms/autoforms"
	"github.com/autoforms/autoforms/config"
	"github.com/autoforms/autoforms/store"
)

func newServeCmd() *cobra.Command {
	var addr string
	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Migrate the form tables and start the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			file, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if addr != "" {
				file.Server.Addr = addr
			}

			server, cleanup, err := wireServer(file)
			if err != nil {
				return fmt.Errorf("server not wired: %w", err)
			}
			defer cleanup()

			if err := server.Migrate(cmd.Context()); err != nil {
				return fmt.Errorf("migrating: %w", err)
			}
			return server.ListenAndServe(cmd.Context(), file.Server.Addr)
		},
	}
	serveCmd.Flags().StringVar(&addr, "addr", "", "Listen address, overrides server.addr")
	return serveCmd
}

// wireServer builds the logger, store and sessions of file and registers its forms
func wireServer(file *config.File) (*autoforms.Server, func(), error) {
	log, err := file.Logger()
	if err != nil {
		return nil, nil, err
	}

	db, err := store.New(file.Store(log))
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		if closer, ok := db.(interface{ Close() error }); ok {
			if err := closer.Close(); err != nil {
				fmt.Fprintln(os.Stderr, "closing store:", err)
			}
		}
	}

	sessions, err := file.Sessions()
	if err != nil {
		cleanup()
		return nil, nil, err
	}

	cfg := &autoforms.Config{
		Store:     db,
		Sessions:  sessions,
		Logger:    log,
		StaticDir: file.Server.StaticDir,
		UploadDir: file.Server.UploadDir,
	}
	if file.Server.Templates != "" {
		cfg.Templates = os.DirFS(file.Server.Templates)
	}

	server, err := autoforms.New(cfg)
	if err != nil {
		cleanup()
		return nil, nil, err
	}

	forms, err := file.Schemas()
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	for _, form := range forms {
		if err := server.AddForm(form); err != nil {
			cleanup()
			return nil, nil, err
		}
	}
	return server, cleanup, nil
}

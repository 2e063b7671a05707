package main

import (
	"context"
	"errors"
	"net/http"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/Gobd/apidoc"
	"github.com/Gobd/apidoc/openapi"
	"github.com/getkin/kin-openapi/openapi3"
	"github.com/go-chi/chi/v5"
	"github.com/rs/cors"
	"github.com/spf13/cobra"
)

const specURL = "/openapi"

func newServeCmd(a *app) *cobra.Command {
	var (
		addr  string
		watch bool
	)
	cmd := &cobra.Command{
		Use:   "serve FILE",
		Short: "Serve a document with an API reference page",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			file := args[0]

			var current atomic.Pointer[openapi3.T]
			doc, err := openapi.ReadFile(ctx, file)
			if err != nil {
				return err
			}
			current.Store(doc)

			if watch {
				w, err := watchFile(file)
				if err != nil {
					a.logger.Warn("unable to watch file", "file", file, "error", err)
				} else {
					defer w.Close()
					go reload(ctx, a, file, w, &current)
				}
			}

			srv := &http.Server{
				Addr:              addr,
				Handler:           docsRouter(a, &current),
				ReadHeaderTimeout: 10 * time.Second,
			}
			go func() {
				<-ctx.Done()
				shutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				_ = srv.Shutdown(shutdown)
			}()

			a.logger.Info("serving document", "file", filepath.Base(file), "url", "http://"+addr+specURL+".html")
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "localhost:8080", "listen address")
	cmd.Flags().BoolVar(&watch, "watch", false, "reload the document when the file changes")
	return cmd
}

func docsRouter(a *app, current *atomic.Pointer[openapi3.T]) http.Handler {
	load := func(context.Context) (*openapi3.T, error) { return current.Load(), nil }
	spec := cors.AllowAll().Handler(apidoc.SpecHandler(specURL+".json", load, a.logger))

	r := chi.NewRouter()
	for _, ext := range []string{".json", ".yaml", ".html"} {
		r.Method(http.MethodGet, specURL+ext, spec)
	}
	r.Get("/", func(w http.ResponseWriter, req *http.Request) {
		http.Redirect(w, req, specURL+".html", http.StatusFound)
	})
	return r
}

func reload(ctx context.Context, a *app, file string, w *watcher, current *atomic.Pointer[openapi3.T]) {
	for {
		select {
		case <-ctx.Done():
			return
		case err := <-w.Updates():
			if err != nil {
				a.logger.Error("watch", "file", file, "error", err)
				continue
			}
			doc, err := openapi.ReadFile(ctx, file)
			if err != nil {
				a.logger.Error("keeping previous document", "file", file, "error", err)
				continue
			}
			current.Store(doc)
			a.logger.Info("reloaded document", "file", file)
		}
	}
}

package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/patentlens/patentlens/internal/analysis"
	"github.com/patentlens/patentlens/internal/history"
	"github.com/patentlens/patentlens/internal/httpserver"
	"github.com/patentlens/patentlens/internal/llm"
)

func main() {
	var (
		addr     = flag.String("addr", ":8090", "Listen address")
		webDir   = flag.String("web-dir", "", "Directory containing web UI files (default: web/ relative to binary)")
		dbPath   = flag.String("db", "./patentlens.db", "SQLite database for analysis history (empty to disable)")
		provider = flag.String("provider", "gemini", "Model provider: gemini or anthropic")
		model    = flag.String("model", "", "Model identifier override")
	)
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	caller := newCaller(ctx, *provider, *model)
	pipeline := analysis.NewPipeline(caller)

	var store *history.Store
	if strings.TrimSpace(*dbPath) != "" {
		var err error
		store, err = history.Open(*dbPath)
		if err != nil {
			log.Fatalf("open history store: %v", err)
		}
		defer store.Close()
	}

	web := *webDir
	if web == "" {
		exe, _ := os.Executable()
		web = filepath.Join(filepath.Dir(exe), "..", "..", "web")
		if _, err := os.Stat(web); err != nil {
			web = "web"
		}
	}

	handler := httpserver.NewServer(pipeline, store, web)

	log.Printf("patentlens listening on %s (analysis enabled: %v)", *addr, pipeline.Enabled())
	srv := &http.Server{Addr: *addr, Handler: handler}
	go func() {
		<-ctx.Done()
		srv.Close()
	}()
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal(err)
	}
}

// newCaller builds the configured provider. A missing credential is not
// fatal: the service runs with analysis disabled and the UI stays
// viewable, matching the interactive use case.
func newCaller(ctx context.Context, provider, model string) llm.Caller {
	switch strings.ToLower(strings.TrimSpace(provider)) {
	case "anthropic":
		caller, err := llm.NewAnthropicCallerFromEnv()
		if err != nil {
			log.Printf("warning: analysis disabled: %v", err)
			return nil
		}
		return caller
	case "gemini", "":
		caller, err := llm.NewGeminiCallerFromEnv(ctx, model)
		if err != nil {
			log.Printf("warning: analysis disabled: %v", err)
			return nil
		}
		return caller
	default:
		log.Printf("warning: unknown provider %q, analysis disabled", provider)
		return nil
	}
}

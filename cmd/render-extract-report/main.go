package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/patentlens/patentlens/internal/recovery"
	"github.com/patentlens/patentlens/internal/report"
)

func main() {
	out := flag.String("out", "", "Output PDF path (default: <input-base>_report.pdf)")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: render-extract-report [flags] <structured_data.json>")
		flag.PrintDefaults()
		os.Exit(2)
	}
	path := flag.Arg(0)

	blob, err := os.ReadFile(path)
	if err != nil {
		log.Fatalf("read %s: %v", path, err)
	}
	var rec recovery.Record
	if err := json.Unmarshal(blob, &rec); err != nil {
		log.Fatalf("decode %s: %v", path, err)
	}

	dest := *out
	if dest == "" {
		dest = strings.TrimSuffix(path, filepath.Ext(path)) + "_report.pdf"
	}

	pdf, err := report.NewChromiumPDFRenderer().Render(context.Background(), report.BuildMarkdown(rec))
	if err != nil {
		log.Fatalf("render report: %v", err)
	}
	if err := os.WriteFile(dest, pdf, 0o644); err != nil {
		log.Fatalf("write %s: %v", dest, err)
	}
	log.Printf("wrote %s", dest)
}

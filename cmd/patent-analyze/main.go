package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/patentlens/patentlens/internal/analysis"
	"github.com/patentlens/patentlens/internal/export"
	"github.com/patentlens/patentlens/internal/llm"
)

func main() {
	var (
		provider = flag.String("provider", "gemini", "Model provider: gemini or anthropic")
		model    = flag.String("model", "", "Model identifier override")
		outDir   = flag.String("out-dir", "", "Output directory (default: alongside the input)")
		xlsx     = flag.Bool("xlsx", false, "Also write an XLSX export of the record")
	)
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: patent-analyze [flags] <patent.pdf>")
		flag.PrintDefaults()
		os.Exit(2)
	}
	path := flag.Arg(0)

	data, err := os.ReadFile(path)
	if err != nil {
		log.Fatalf("read %s: %v", path, err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	caller, err := newCaller(ctx, *provider, *model)
	if err != nil {
		log.Fatalf("configure model: %v", err)
	}

	filename := filepath.Base(path)
	log.Printf("analyzing %s, this can take several minutes", filename)
	res := analysis.NewPipeline(caller).Run(ctx, data, filename)
	for _, w := range res.Warnings {
		log.Printf("warning: %s", w)
	}

	dir := *outDir
	if dir == "" {
		dir = filepath.Dir(path)
	}
	base := strings.TrimSuffix(filename, filepath.Ext(filename))

	jsonPath := filepath.Join(dir, base+"_structured_data.json")
	blob, err := marshalRecord(res.Record)
	if err != nil {
		log.Fatalf("encode record: %v", err)
	}
	if err := os.WriteFile(jsonPath, blob, 0o644); err != nil {
		log.Fatalf("write %s: %v", jsonPath, err)
	}
	log.Printf("wrote %s", jsonPath)

	if *xlsx {
		xlsxPath := filepath.Join(dir, base+"_structured_data.xlsx")
		wb, err := export.RecordXLSX(res.Record)
		if err != nil {
			log.Fatalf("build workbook: %v", err)
		}
		if err := os.WriteFile(xlsxPath, wb, 0o644); err != nil {
			log.Fatalf("write %s: %v", xlsxPath, err)
		}
		log.Printf("wrote %s", xlsxPath)
	}

	if res.Failed {
		log.Fatalf("analysis failed: %v", res.Record["error"])
	}
}

// marshalRecord keeps non-ASCII text readable in the output file.
func marshalRecord(rec any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(rec); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func newCaller(ctx context.Context, provider, model string) (llm.Caller, error) {
	switch strings.ToLower(strings.TrimSpace(provider)) {
	case "anthropic":
		return llm.NewAnthropicCallerFromEnv()
	case "gemini", "":
		return llm.NewGeminiCallerFromEnv(ctx, model)
	default:
		return nil, fmt.Errorf("unknown provider %q", provider)
	}
}

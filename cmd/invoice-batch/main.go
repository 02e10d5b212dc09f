package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/joseph-ayodele/invoice-pipeline/internal/async"
	"github.com/joseph-ayodele/invoice-pipeline/internal/common"
	"github.com/joseph-ayodele/invoice-pipeline/internal/export"
	"github.com/joseph-ayodele/invoice-pipeline/internal/llm"
	"github.com/joseph-ayodele/invoice-pipeline/internal/llm/openai"
	"github.com/joseph-ayodele/invoice-pipeline/internal/ocr"
	"github.com/joseph-ayodele/invoice-pipeline/internal/pipeline"
	"github.com/joseph-ayodele/invoice-pipeline/internal/routing"
)

// printError prints an error message to stderr, falling back to stdout if stderr fails
func printError(format string, args ...interface{}) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		fmt.Printf(format, args...)
	}
}

func main() {
	var (
		dir       = flag.String("dir", "", "directory of OCR JSON documents to process (required)")
		out       = flag.String("out", "", "output XLSX file path (optional, defaults to parent directory)")
		decisions = flag.String("decisions", "", "optional JSON file to write routing decisions to")
		rule      = flag.String("rule", "", "routing rule name (overrides ROUTING_RULE)")
		workers   = flag.Int("workers", 1, "number of concurrent pipeline workers")
	)
	flag.Parse()

	if *dir == "" {
		printError("Error: --dir is required\n")
		os.Exit(1)
	}
	if *out == "" {
		*out = filepath.Join(filepath.Dir(*dir), "invoices.xlsx")
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	ctx := context.Background()

	cfg := common.LoadConfig()
	if *rule != "" {
		cfg.Routing.DefaultRule = *rule
	}
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	// Fail fast on an unknown rule name before reading any documents.
	router := routing.NewService(nil, routing.NewCounter(), logger)
	if _, err := router.Store().Get(cfg.Routing.DefaultRule); err != nil {
		logger.Error("unknown routing rule", "rule", cfg.Routing.DefaultRule, "error", err)
		os.Exit(1)
	}

	var llmClient llm.Client
	if cfg.Header.EnableLLM && cfg.LLM.APIKey != "" {
		llmClient = openai.NewClient(openai.Config{
			Model:       cfg.LLM.Model,
			APIKey:      cfg.LLM.APIKey,
			BaseURL:     cfg.LLM.Endpoint,
			Temperature: float32(cfg.LLM.Temperature),
			Timeout:     cfg.LLM.Timeout,
		}, logger)
		logger.Info("OpenAI client initialized", "model", cfg.LLM.Model)
	} else if cfg.Header.EnableLLM {
		logger.Warn("LLM stage enabled but no API key configured, stage will be skipped")
	}

	docs, err := loadDocuments(*dir)
	if err != nil {
		logger.Error("failed to load documents", "dir", *dir, "error", err)
		os.Exit(1)
	}
	if len(docs) == 0 {
		logger.Error("no OCR JSON documents found", "dir", *dir)
		os.Exit(1)
	}
	logger.Info("documents loaded", "dir", *dir, "count", len(docs))

	processor := pipeline.NewProcessor(cfg, llmClient, router, logger)
	results := runBatch(ctx, processor, docs, *workers, logger)

	processed, failures := 0, 0
	for _, r := range results {
		if r.Failed {
			failures++
		} else {
			processed++
		}
	}

	if *decisions != "" {
		if err := writeDecisions(*decisions, results); err != nil {
			logger.Error("failed to write decisions file", "path", *decisions, "error", err)
			os.Exit(1)
		}
	}

	logger.Info("exporting to XLSX", "output", *out)
	xlsxBytes, err := export.NewService(logger).ExportResultsXLSX(results)
	if err != nil {
		logger.Error("failed to export results", "error", err)
		os.Exit(1)
	}
	if err := os.WriteFile(*out, xlsxBytes, 0644); err != nil {
		logger.Error("failed to write output file", "error", err)
		os.Exit(1)
	}

	logger.Info("batch processing complete",
		"documents", len(docs),
		"processed", processed,
		"failures", failures,
		"output_file", *out)

	fmt.Printf("Batch processing complete!\n")
	fmt.Printf("- Documents: %d\n", len(docs))
	fmt.Printf("- Processed: %d\n", processed)
	fmt.Printf("- Failures: %d\n", failures)
	fmt.Printf("- Output: %s\n", *out)
}

// runBatch processes documents sequentially, or through the worker queue when
// more than one worker is requested. Results come back in document order
// either way.
func runBatch(ctx context.Context, processor *pipeline.Processor, docs []*ocr.Document, workers int, logger *slog.Logger) []*pipeline.Result {
	if workers <= 1 {
		return processor.ProcessBatch(ctx, docs)
	}

	var mu sync.Mutex
	byID := make(map[string]*pipeline.Result, len(docs))
	queue := async.NewDocumentQueue(processor, func(r *pipeline.Result) {
		mu.Lock()
		byID[r.DocumentID] = r
		mu.Unlock()
	}, logger, async.WithWorkers(workers))

	for _, doc := range docs {
		_ = queue.Enqueue(ctx, async.NewJob(doc))
	}
	queue.Shutdown(ctx)

	results := make([]*pipeline.Result, len(docs))
	for i, doc := range docs {
		if r, ok := byID[doc.ID]; ok {
			results[i] = r
		} else {
			results[i] = &pipeline.Result{DocumentID: doc.ID, Failed: true, Error: "no result produced"}
		}
	}
	return results
}

// loadDocuments reads every *.json file in dir as an OCR document, sorted by
// name for deterministic batch order.
func loadDocuments(dir string) ([]*ocr.Document, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var paths []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		paths = append(paths, filepath.Join(dir, e.Name()))
	}
	sort.Strings(paths)

	docs := make([]*ocr.Document, 0, len(paths))
	for _, p := range paths {
		doc, err := ocr.LoadDocument(p)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

func writeDecisions(path string, results []*pipeline.Result) error {
	type entry struct {
		DocumentID string  `json:"document_id"`
		Status     string  `json:"status"`
		Confidence float64 `json:"confidence"`
		Error      string  `json:"error,omitempty"`
	}
	out := make([]entry, 0, len(results))
	for _, r := range results {
		e := entry{DocumentID: r.DocumentID, Confidence: r.Confidence, Error: r.Error}
		if r.Decision != nil {
			e.Status = string(r.Decision.Status)
		}
		out = append(out, e)
	}
	b, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0644)
}

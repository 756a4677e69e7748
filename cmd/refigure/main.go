// Command refigure extracts the figures and tables from a batch of HTML
// documents and reassembles them into a single output document. It runs
// either as a one-shot file converter or as an upload HTTP service.
package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strings"

	"github.com/tsawler/refigure"
	"github.com/tsawler/refigure/htmldoc"
	"github.com/tsawler/refigure/render"
)

func main() {
	serve := flag.Bool("serve", false, "run as an HTTP upload service")
	out := flag.String("o", "figures_and_tables.html", "output file (file mode)")
	png := flag.Bool("png", false, "render a PNG proof sheet instead of HTML")
	workers := flag.Int("workers", 1, "concurrent document extraction workers")
	structured := flag.Bool("structured-tables", false, "render tables as grids instead of rasterizing")
	flag.Parse()

	var renderer render.Renderer = render.NewHTMLRenderer()
	if *png {
		renderer = render.NewRasterRenderer()
	}

	batch := refigure.NewBatch(htmldoc.Opener(), htmldoc.TableDetector()).
		Renderer(renderer).
		Workers(*workers).
		ForceRasterizeAllTables(!*structured)

	if *serve {
		runServer(batch, renderer.ContentType())
		return
	}
	runFiles(batch, flag.Args(), *out)
}

// runFiles processes the named files and writes the rendered output.
func runFiles(batch *refigure.Batch, paths []string, out string) {
	if len(paths) == 0 {
		log.Fatal("no input files; usage: refigure [flags] file.html ...")
	}

	docs := make([][]byte, 0, len(paths))
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			log.Fatalf("reading %s: %v", path, err)
		}
		docs = append(docs, data)
	}

	result, warnings, err := batch.Process(docs...)
	if err != nil {
		log.Fatalf("processing: %v", err)
	}
	for _, w := range warnings {
		log.Printf("warning: %s", w)
	}

	if err := os.WriteFile(out, result, 0o644); err != nil {
		log.Fatalf("writing %s: %v", out, err)
	}
	log.Printf("wrote %s (%d bytes)", out, len(result))
}

// server handles document uploads.
type server struct {
	batch       *refigure.Batch
	contentType string
}

func runServer(batch *refigure.Batch, contentType string) {
	s := &server{batch: batch, contentType: contentType}

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	mux.HandleFunc("/upload", s.handleUpload)

	port := strings.TrimSpace(os.Getenv("PORT"))
	if port == "" {
		port = "8000"
	}
	addr := ":" + port
	log.Printf("refigure listening on %s", addr)
	log.Fatal(http.ListenAndServe(addr, mux))
}

// handleUpload accepts one or more documents in the multipart field
// "docFile" and responds with the reassembled document, or a JSON error.
func (s *server) handleUpload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "POST required")
		return
	}
	if err := r.ParseMultipartForm(64 << 20); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart request")
		return
	}

	files := r.MultipartForm.File["docFile"]
	if len(files) == 0 {
		writeError(w, http.StatusBadRequest, "no file part in the request")
		return
	}

	docs := make([][]byte, 0, len(files))
	for _, fh := range files {
		f, err := fh.Open()
		if err != nil {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("reading upload %s", fh.Filename))
			return
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("reading upload %s", fh.Filename))
			return
		}
		docs = append(docs, data)
	}

	result, warnings, err := s.batch.Process(docs...)
	for _, warning := range warnings {
		log.Printf("warning: %s", warning)
	}
	if err != nil {
		if errors.Is(err, refigure.ErrNoContent) {
			writeError(w, http.StatusBadRequest, "no images or tables found in the uploaded document(s)")
			return
		}
		log.Printf("upload processing failed: %v", err)
		writeError(w, http.StatusInternalServerError, "processing failed")
		return
	}

	w.Header().Set("Content-Type", s.contentType)
	w.Header().Set("Content-Disposition", `attachment; filename="figures_and_tables"`)
	w.WriteHeader(http.StatusOK)
	w.Write(result)
}

// writeError sends a structured error response.
func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

package handler

import (
	"context"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/Rrens/hospital-chat/internal/api/response"
	"github.com/Rrens/hospital-chat/internal/ingest"
	"github.com/Rrens/hospital-chat/internal/retrieval"
	"github.com/rs/zerolog/log"
)

// maxUploadSize bounds document uploads to 20MB
const maxUploadSize = 20 << 20

// CacheInvalidator drops cached retrieval contexts after a reindex
type CacheInvalidator interface {
	Invalidate(ctx context.Context) (int64, error)
}

// DocumentHandler manages the knowledge-base documents backing retrieval
type DocumentHandler struct {
	dir      string
	splitter *ingest.Splitter
	indexer  retrieval.Indexer
	cache    CacheInvalidator
}

// NewDocumentHandler creates a new document handler. cache may be nil when
// no context cache is configured.
func NewDocumentHandler(dir string, splitter *ingest.Splitter, indexer retrieval.Indexer, cache CacheInvalidator) *DocumentHandler {
	// Ensure the document directory exists
	os.MkdirAll(dir, 0755)
	return &DocumentHandler{dir: dir, splitter: splitter, indexer: indexer, cache: cache}
}

// Upload stores a new knowledge-base document and reindexes immediately
func (h *DocumentHandler) Upload(w http.ResponseWriter, r *http.Request) {
	r.ParseMultipartForm(maxUploadSize)

	file, header, err := r.FormFile("file")
	if err != nil {
		response.BadRequest(w, "no file uploaded")
		return
	}
	defer file.Close()

	ext := strings.ToLower(filepath.Ext(header.Filename))
	allowedExts := map[string]bool{".csv": true, ".txt": true, ".md": true}
	if !allowedExts[ext] {
		response.BadRequest(w, "invalid file type. Allowed: .csv, .txt, .md")
		return
	}

	destPath := filepath.Join(h.dir, filepath.Base(header.Filename))
	dst, err := os.Create(destPath)
	if err != nil {
		response.InternalError(w, "failed to save file")
		return
	}
	defer dst.Close()

	if _, err := io.Copy(dst, file); err != nil {
		response.InternalError(w, "failed to save file")
		return
	}

	log.Info().Str("file", header.Filename).Int64("size", header.Size).Msg("document uploaded")

	h.Reload(w, r)
}

// List returns the source documents currently on disk
func (h *DocumentHandler) List(w http.ResponseWriter, r *http.Request) {
	entries, err := os.ReadDir(h.dir)
	if err != nil {
		response.InternalError(w, "failed to read document directory")
		return
	}

	docs := []map[string]any{}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		docs = append(docs, map[string]any{
			"name":     entry.Name(),
			"size":     info.Size(),
			"modified": info.ModTime(),
			"type":     filepath.Ext(entry.Name()),
		})
	}

	response.OK(w, map[string]any{
		"documents": docs,
		"indexed":   h.indexer.Count(),
	})
}

// Reload re-reads the document directory, rebuilds the retrieval index, and
// drops any cached contexts built from the old index.
func (h *DocumentHandler) Reload(w http.ResponseWriter, r *http.Request) {
	docs, err := ingest.LoadDir(h.dir)
	if err != nil {
		response.InternalError(w, "failed to load documents: "+err.Error())
		return
	}

	chunks := h.splitter.Split(docs)
	if err := h.indexer.Index(r.Context(), chunks); err != nil {
		response.InternalError(w, "failed to index documents: "+err.Error())
		return
	}

	if h.cache != nil {
		if dropped, err := h.cache.Invalidate(r.Context()); err != nil {
			log.Warn().Err(err).Msg("failed to invalidate context cache after reindex")
		} else {
			log.Info().Int64("dropped", dropped).Msg("context cache invalidated")
		}
	}

	log.Info().Int("documents", len(docs)).Int("chunks", len(chunks)).Msg("knowledge base reloaded")

	response.OK(w, map[string]any{
		"documents": len(docs),
		"chunks":    len(chunks),
		"indexed":   h.indexer.Count(),
	})
}

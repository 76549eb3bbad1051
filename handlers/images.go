package handlers

import (
	"bytes"
	"errors"
	"io"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// sniffLen is how much of an upstream body is inspected before it is forwarded.
const sniffLen = 3072

var imageSizes = []string{"w92", "w154", "w185", "w200", "w300", "w342", "w500", "w780", "w1280", "original"}

// ImageHandler proxies poster and backdrop images from the image CDN and
// refuses anything that is not an image.
type ImageHandler struct {
	origin     string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewImageHandler proxies to the CDN of imageBaseURL ("https://image.tmdb.org/t/p/w500").
func NewImageHandler(imageBaseURL string, httpClient *http.Client, logger *zap.Logger) *ImageHandler {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	origin := strings.TrimRight(imageBaseURL, "/")
	if i := strings.LastIndex(origin, "/"); i > len("https://") {
		origin = origin[:i]
	}
	return &ImageHandler{origin: origin, httpClient: httpClient, logger: logger.Named("images")}
}

func (h *ImageHandler) Serve(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	size, file := vars["size"], vars["path"]
	if !slices.Contains(imageSizes, size) {
		http.Error(w, "unsupported size", http.StatusBadRequest)
		return
	}
	if file == "" || strings.Contains(file, "..") || strings.Contains(file, "/") {
		http.Error(w, "invalid path", http.StatusBadRequest)
		return
	}

	req, err := http.NewRequestWithContext(r.Context(), http.MethodGet, h.origin+"/"+size+"/"+file, nil)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	resp, err := h.httpClient.Do(req)
	if err != nil {
		h.logger.Warn("fetch image", zap.String("path", file), zap.Error(err))
		http.Error(w, "image unavailable", http.StatusBadGateway)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		http.Error(w, "image unavailable", http.StatusBadGateway)
		return
	}

	head := make([]byte, sniffLen)
	n, err := io.ReadFull(resp.Body, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		http.Error(w, "image unavailable", http.StatusBadGateway)
		return
	}
	head = head[:n]

	mtype := mimetype.Detect(head)
	if !strings.HasPrefix(mtype.String(), "image/") {
		h.logger.Warn("upstream returned non-image", zap.String("path", file), zap.String("type", mtype.String()))
		http.Error(w, "not an image", http.StatusBadGateway)
		return
	}

	w.Header().Set("Content-Type", mtype.String())
	w.Header().Set("Cache-Control", "public, max-age=86400")
	w.WriteHeader(http.StatusOK)
	_, _ = io.Copy(w, io.MultiReader(bytes.NewReader(head), resp.Body))
}

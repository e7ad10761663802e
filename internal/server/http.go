package server

import (
	"fmt"
	"io"
	"log"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/goccy/go-json"
	"github.com/karupanerura/calculator/internal/batch"
	"github.com/karupanerura/calculator/internal/format"
)

const basePath = "/v1/evaluations"

// MaxEvaluations is how many recent evaluations are kept in memory.
const MaxEvaluations = 30

var pathRegexp = regexp.MustCompile(`^/v1/evaluations(/[^/]+)?$`)

type evaluation struct {
	ID         string    `json:"id"`
	CreateTime time.Time `json:"createTime"`
	*batch.Record
}

type httpHandler struct {
	options format.Options
	idBase  uint64

	mu          sync.RWMutex
	evaluations []*evaluation // newest first
}

func (h *httpHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if !pathRegexp.MatchString(r.URL.Path) {
		http.Error(w, "Not Found", http.StatusNotFound)
		return
	}

	if r.URL.Path == basePath {
		switch r.Method {
		case http.MethodGet:
			h.listEvaluations(w, r)
			return

		case http.MethodPost:
			h.createEvaluation(w, r)
			return

		case http.MethodDelete:
			h.clearEvaluations(w, r)
			return

		default:
			http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
			return
		}
	}

	id := strings.TrimPrefix(r.URL.Path, basePath+"/")
	switch r.Method {
	case http.MethodGet:
		h.getEvaluation(w, r, id)
		return

	default:
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}
}

func (h *httpHandler) createEvaluation(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var body any
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		log.Printf("failed to decode request body: %v", err)
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	entry, err := batch.DecodeEntry(body)
	if err != nil {
		log.Printf("invalid evaluation request: %v", err)
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	ev := &evaluation{
		ID:         fmt.Sprintf("%012x", atomic.AddUint64(&h.idBase, 1)),
		CreateTime: time.Now().UTC(),
		Record:     entry.Evaluate().Record(h.options),
	}

	h.mu.Lock()
	h.evaluations = append([]*evaluation{ev}, h.evaluations...)
	if len(h.evaluations) > MaxEvaluations {
		h.evaluations = h.evaluations[:MaxEvaluations]
	}
	h.mu.Unlock()

	if err := resJSON(w, http.StatusOK, ev); err != nil {
		log.Printf("failed to write response: %v", err)
	}
}

func (h *httpHandler) listEvaluations(w http.ResponseWriter, r *http.Request) {
	h.mu.RLock()
	results := append([]*evaluation{}, h.evaluations...)
	h.mu.RUnlock()

	if err := resJSON(w, http.StatusOK, map[string][]*evaluation{"evaluations": results}); err != nil {
		log.Printf("failed to write response: %v", err)
	}
}

func (h *httpHandler) getEvaluation(w http.ResponseWriter, r *http.Request, id string) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, ev := range h.evaluations {
		if ev.ID == id {
			if err := resJSON(w, http.StatusOK, ev); err != nil {
				log.Printf("failed to write response: %v", err)
			}
			return
		}
	}
	http.Error(w, "Not Found", http.StatusNotFound)
}

func (h *httpHandler) clearEvaluations(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	h.evaluations = nil
	h.mu.Unlock()

	w.WriteHeader(http.StatusNoContent)
}

func NewHTTPHandler(options format.Options) http.Handler {
	return &httpHandler{options: options}
}

func resJSON(w http.ResponseWriter, status int, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("json.MarshalIndent: %w", err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Length", strconv.Itoa(len(b)+1))
	w.WriteHeader(status)

	if _, err = w.Write(b); err != nil {
		return fmt.Errorf("w.Write: %w", err)
	}
	if _, err = io.WriteString(w, "\n"); err != nil {
		return fmt.Errorf("io.WriteString: %w", err)
	}
	return nil
}

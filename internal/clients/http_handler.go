package clients

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/contaflow/backoffice/internal/domain"
	"github.com/contaflow/backoffice/internal/repository"
)

// Handler exposes a paginated client listing.
type Handler struct {
	repo repository.ClientRepository
}

// NewHTTPHandler wraps the client repository with a GET endpoint.
func NewHTTPHandler(repo repository.ClientRepository) http.Handler {
	return &Handler{repo: repo}
}

type listResponse struct {
	Clients    []domain.Client `json:"clients"`
	TotalCount int             `json:"totalCount"`
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	list, totalCount, err := h.repo.List(r.Context(), limit, offset)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(listResponse{Clients: list, TotalCount: totalCount})
}

package fakeapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/mytherion/client/types"
)

const maxPageSize = 100

type contextKey string

const contextSubjectKey contextKey = "sub"

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
}

func userIDFromContext(ctx context.Context) (int64, error) {
	subject, ok := ctx.Value(contextSubjectKey).(string)
	if !ok {
		return 0, errors.New("missing subject")
	}
	id, err := strconv.ParseInt(strings.TrimSpace(subject), 10, 64)
	if err != nil || id < 1 {
		return 0, errors.New("invalid subject")
	}
	return id, nil
}

func writeJSON(w http.ResponseWriter, status int, value any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(value)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, ErrorResponse{Error: message})
}

func decodeJSON(r *http.Request, dst any) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(dst)
}

// parseID reads a positive identifier from the named path parameter.
func parseID(r *http.Request, param string) (int64, error) {
	raw := strings.TrimSpace(chi.URLParam(r, param))
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 1 {
		return 0, errors.New("invalid id")
	}
	return id, nil
}

// parsePagination reads zero-based page and size query parameters.
func parsePagination(r *http.Request) (int, int, error) {
	page := types.DefaultPage
	size := types.DefaultPageSize
	query := r.URL.Query()

	if raw := strings.TrimSpace(query.Get("page")); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			return 0, 0, errors.New("invalid page")
		}
		page = parsed
	}
	if raw := strings.TrimSpace(query.Get("size")); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			return 0, 0, errors.New("invalid size")
		}
		size = min(parsed, maxPageSize)
	}
	return page, size, nil
}

// paginate cuts one page out of items.
func paginate[T any](items []T, page, size int) types.Page[T] {
	total := len(items)
	totalPages := (total + size - 1) / size

	start := min(page*size, total)
	end := min(start+size, total)
	content := make([]T, end-start)
	copy(content, items[start:end])

	return types.Page[T]{
		Content:       content,
		Pageable:      types.Pageable{PageNumber: page, PageSize: size},
		TotalElements: int64(total),
		TotalPages:    totalPages,
	}
}

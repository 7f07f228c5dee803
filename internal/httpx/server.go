package httpx

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/ariefcatur/go-pos-engine.git/internal/backend"
	"github.com/ariefcatur/go-pos-engine.git/internal/pos"
)

func NewRouter(extra ...func(http.Handler) http.Handler) *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Logger)
	r.Use(middleware.Timeout(15 * time.Second))
	r.Use(extra...)
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	return r
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErr(w http.ResponseWriter, err error) {
	writeJSON(w, statusFor(err), map[string]string{"error": err.Error()})
}

// statusFor memetakan error domain ke kode HTTP; selain yang dikenal,
// anggap kegagalan kolaborator eksternal.
func statusFor(err error) int {
	switch {
	case errors.Is(err, pos.ErrEmptyCart),
		errors.Is(err, pos.ErrInvalidPayment),
		errors.Is(err, pos.ErrUnbalancedSplit),
		errors.Is(err, pos.ErrQuantityExceedsStock),
		errors.Is(err, pos.ErrNegativeStartingCash):
		return http.StatusBadRequest
	case errors.Is(err, pos.ErrCartNotEmpty),
		errors.Is(err, pos.ErrShiftAlreadyOpen),
		errors.Is(err, pos.ErrHeldOrderClosed),
		errors.Is(err, pos.ErrNoActiveShift):
		return http.StatusConflict
	case errors.Is(err, pos.ErrLineNotFound),
		errors.Is(err, pos.ErrHeldOrderNotFound):
		return http.StatusNotFound
	case errors.Is(err, backend.ErrInvalidPIN),
		errors.Is(err, pos.ErrNoEmployee):
		return http.StatusUnauthorized
	default:
		return http.StatusBadGateway
	}
}

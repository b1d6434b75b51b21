package handlers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	qrcode "github.com/skip2/go-qrcode"

	"scrawl/internal/game"
)

// QRHandler serves a scannable join link for a game, for handing a lobby to
// players on phones.
type QRHandler struct {
	store   *game.Store
	baseURL string
}

// NewQRHandler creates a QR handler. baseURL overrides the link origin when
// the server sits behind a proxy; empty means derive it from the request.
func NewQRHandler(store *game.Store, baseURL string) *QRHandler {
	return &QRHandler{store: store, baseURL: strings.TrimRight(baseURL, "/")}
}

func (h *QRHandler) RegisterRoutes(r chi.Router) {
	r.Get("/api/games/{id}/qr", h.qr)
}

func (h *QRHandler) qr(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, ok := h.store.Get(id); !ok {
		http.NotFound(w, r)
		return
	}
	png, err := qrcode.Encode(h.joinURL(r, id), qrcode.Medium, 256)
	if err != nil {
		http.Error(w, "failed to encode", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	_, _ = w.Write(png)
}

func (h *QRHandler) joinURL(r *http.Request, gameID string) string {
	base := h.baseURL
	if base == "" {
		scheme := "http"
		if r.TLS != nil {
			scheme = "https"
		}
		base = scheme + "://" + r.Host
	}
	return base + "/join/" + gameID
}

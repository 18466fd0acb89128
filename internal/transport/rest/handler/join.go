package handler

import (
	"log"
	"net/http"
	"strings"

	"github.com/skip2/go-qrcode"
)

const qrSize = 256

// JoinHandler serves the registration QR code shown on the lobby screen
type JoinHandler struct {
	publicURL string
}

// NewJoinHandler creates a new join handler. publicURL is where players reach the client.
func NewJoinHandler(publicURL string) *JoinHandler {
	return &JoinHandler{publicURL: strings.TrimRight(publicURL, "/")}
}

// JoinURL is the address encoded in the QR code
func (h *JoinHandler) JoinURL() string {
	return h.publicURL + "/register"
}

// QRCode handles GET /v1/join-qr.png
func (h *JoinHandler) QRCode(w http.ResponseWriter, r *http.Request) {
	png, err := qrcode.Encode(h.JoinURL(), qrcode.Medium, qrSize)
	if err != nil {
		log.Printf("[API] ERROR: Failed to generate QR code: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to generate QR code")
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-cache")
	w.Write(png)
}

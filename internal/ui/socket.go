package ui

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/kartoza/house-predictor/internal/models"
	"go.uber.org/zap"
)

// handleSocket streams predictions for the live form. Each text message
// {"data": [8 numbers]} is answered with {"data": ["..."]} or {"error": "..."}.
func (h *Handler) handleSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written an HTTP error
		h.logger.Debug("websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()
	conn.SetReadLimit(maxMessageBytes)

	for {
		var req models.FormRequest
		if err := conn.ReadJSON(&req); err != nil {
			if !isDecodeError(err) {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
					h.logger.Debug("websocket closed", zap.Error(err))
				}
				return
			}
			// malformed message, the connection stays usable
			if werr := conn.WriteJSON(models.FormResponse{Error: "invalid message: " + err.Error()}); werr != nil {
				return
			}
			continue
		}

		var resp models.FormResponse
		text, err := h.predictData(r.Context(), req.Data)
		if err != nil {
			resp.Error = err.Error()
		} else {
			resp.Data = []string{text}
		}

		if err := conn.WriteJSON(resp); err != nil {
			h.logger.Debug("websocket write failed", zap.Error(err))
			return
		}
	}
}

func isDecodeError(err error) bool {
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	return errors.As(err, &syntaxErr) || errors.As(err, &typeErr) || errors.Is(err, io.ErrUnexpectedEOF)
}

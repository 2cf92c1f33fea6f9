package api

import (
	"encoding/json"
	"fmt"
	"html"
	"net/http"
	"strings"

	"finbot/pkg/finbot"
)

const sendConfirmation = "已發送 Telegram 通知"

func (h *handler) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// report handles GET/POST /. It always answers 200; quote, analysis and
// delivery failures degrade the report content instead of failing the request.
func (h *handler) report(w http.ResponseWriter, r *http.Request) {
	result := h.core.BuildReport(r.Context())

	if r.URL.Query().Get("send") == "true" {
		if err := h.core.Notify(r.Context(), result.Text); err != nil {
			h.logger.Error("telegram notification failed", "err", err)
		}
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, sendConfirmation)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	fmt.Fprintf(w, "<pre>%s</pre>", html.EscapeString(result.Text))
}

func (h *handler) reportJSON(w http.ResponseWriter, r *http.Request) {
	writeSuccess(w, h.core.BuildReport(r.Context()))
}

// notify delivers an arbitrary message to the configured chat. Unlike the
// report route, delivery problems surface here as structured errors.
func (h *handler) notify(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, finbot.WrapError(finbot.ErrCodeInvalidInput, "decode request body", err))
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		writeErrorResponse(w, http.StatusBadRequest, finbot.NewError(finbot.ErrCodeInvalidInput, "text is required"))
		return
	}

	if err := h.core.Notify(r.Context(), req.Text); err != nil {
		writeErrorResponse(w, http.StatusInternalServerError, err)
		return
	}
	writeSuccess(w, map[string]string{"status": "sent"})
}

package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/finboard/finboard/internal/observability"
	"github.com/finboard/finboard/internal/schema"
	"github.com/finboard/finboard/internal/translate"
)

type chatRequest struct {
	Message string           `json:"message"`
	History []translate.Turn `json:"history"`
	Table   string           `json:"table"`
}

func handleChat(deps Dependencies, w http.ResponseWriter, r *http.Request) {
	if deps.Translator == nil || deps.Store == nil {
		writeError(r.Context(), w, http.StatusNotImplemented, "CHAT_NOT_CONFIGURED", "chat dependencies are not configured", false, nil)
		return
	}
	if err := requireRole(r, "analyst"); err != nil {
		writeError(r.Context(), w, http.StatusForbidden, "FORBIDDEN", err.Error(), false, nil)
		return
	}

	var req chatRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(r.Context(), w, http.StatusBadRequest, "INVALID_JSON", "invalid chat request body", false, map[string]any{"details": err.Error()})
		return
	}

	started := time.Now()
	result, err := deps.Translator.Translate(r.Context(), translate.Request{
		Message: strings.TrimSpace(req.Message),
		History: req.History,
		Table:   schema.Normalize(req.Table),
	})
	if err != nil {
		var serviceErr *translate.ServiceError
		var parseErr *translate.ParseError
		switch {
		case errors.Is(err, translate.ErrEmptyConversation):
			observability.ObserveTranslation("empty", time.Since(started))
			writeError(r.Context(), w, http.StatusBadRequest, "MESSAGE_REQUIRED", "message or history is required", false, nil)
		case errors.As(err, &serviceErr):
			observability.ObserveTranslation("service_error", time.Since(started))
			writeError(r.Context(), w, http.StatusBadGateway, "TRANSLATE_UPSTREAM", "completion service request failed", true, map[string]any{
				"status":  serviceErr.Status,
				"details": serviceErr.Message,
			})
		case errors.As(err, &parseErr):
			observability.ObserveTranslation("parse_error", time.Since(started))
			writeError(r.Context(), w, http.StatusBadGateway, "TRANSLATE_PARSE", "completion service returned an unparseable reply", true, map[string]any{"raw": parseErr.Raw})
		default:
			observability.ObserveTranslation("error", time.Since(started))
			writeError(r.Context(), w, http.StatusBadGateway, "TRANSLATE_FAILED", "failed to translate request", true, map[string]any{"details": err.Error()})
		}
		return
	}
	observability.ObserveTranslation("ok", time.Since(started))

	data := deps.Store.FetchByDescriptor(r.Context(), result.Descriptor)
	observability.ObserveStoreFetch(string(result.Table), data.OK(), len(data.Rows))

	writeJSON(w, http.StatusOK, map[string]any{
		"reply":      result.Reply,
		"table":      result.Table,
		"descriptor": result.Descriptor,
		"data":       data,
	})
}

package ui

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"annexval/domain/coercion"
	apperrors "annexval/internal/errors"
)

// coercionBody is the JSON shape of a fix submission.
type coercionBody struct {
	Field  string `json:"field"`
	Target string `json:"target"`
	Format string `json:"format,omitempty"`
}

// handleApplyCoercion applies one column fix and returns the fresh report.
func (a *App) handleApplyCoercion(w http.ResponseWriter, r *http.Request) {
	session, err := a.sessionFromRequest(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var body coercionBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, apperrors.InvalidInput(fmt.Sprintf("request body: %v", err)))
		return
	}
	if body.Field == "" {
		writeError(w, apperrors.InvalidInput("field is required"))
		return
	}
	target, err := coercion.ParseTargetType(body.Target)
	if err != nil {
		writeError(w, apperrors.InvalidInput(err.Error()))
		return
	}

	result, report, err := a.manager.ApplyCoercion(r.Context(), session.ID(), coercion.Request{
		Field:  body.Field,
		Target: target,
		Format: body.Format,
	})
	if err != nil {
		log.Printf("[API] Coercion of %q failed: %v", body.Field, err)
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, coercionResponse{Result: result, Report: report})
}

// handleConfirmFix accepts a pending fix. The data does not change, so the
// current report is returned as-is.
func (a *App) handleConfirmFix(w http.ResponseWriter, r *http.Request) {
	session, err := a.sessionFromRequest(r)
	if err != nil {
		writeError(w, err)
		return
	}

	field := fieldParam(r)
	if err := session.ConfirmFix(field); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"field":  field,
		"status": "confirmed",
		"report": session.Report(),
	})
}

// handleAbandonFix rolls a pending fix back and returns the fresh report.
func (a *App) handleAbandonFix(w http.ResponseWriter, r *http.Request) {
	session, err := a.sessionFromRequest(r)
	if err != nil {
		writeError(w, err)
		return
	}

	field := fieldParam(r)
	report, err := a.manager.AbandonFix(r.Context(), session.ID(), field)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"field":  field,
		"status": "abandoned",
		"report": report,
	})
}

// handleResetSession discards every coercion on the session.
func (a *App) handleResetSession(w http.ResponseWriter, r *http.Request) {
	session, err := a.sessionFromRequest(r)
	if err != nil {
		writeError(w, err)
		return
	}

	report, err := a.manager.Reset(r.Context(), session.ID())
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status": "reset",
		"report": report,
	})
}

// handleExportSession downloads the current snapshot as an xlsx workbook.
// Outstanding findings never block an export.
func (a *App) handleExportSession(w http.ResponseWriter, r *http.Request) {
	session, err := a.sessionFromRequest(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var buf bytes.Buffer
	if err := session.Export(r.Context(), a.exporter, &buf); err != nil {
		log.Printf("[API] Export of session %s failed: %v", session.ID(), err)
		writeError(w, err)
		return
	}

	filename := fmt.Sprintf("validated_data_%s.xlsx", session.ID())
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	if _, err := w.Write(buf.Bytes()); err != nil {
		log.Printf("[API] Export write failed: %v", err)
	}
}

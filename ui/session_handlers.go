package ui

import (
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"annexval/app"
	"annexval/domain/core"
	"annexval/domain/rules"
	apperrors "annexval/internal/errors"
)

// handleListSheets inspects an uploaded workbook and returns its sheet
// names, so a client can offer a sheet picker before opening a session.
func (a *App) handleListSheets(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, a.maxUploadBytes)
	if err := r.ParseMultipartForm(a.maxUploadBytes); err != nil {
		writeError(w, apperrors.InvalidInput(fmt.Sprintf("multipart form: %v", err)))
		return
	}

	file, err := openUpload(r, "workbook")
	if err != nil {
		writeError(w, err)
		return
	}
	defer file.Close()

	sheets, err := a.reader.SheetNames(r.Context(), file)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"sheets": sheets})
}

// handleCreateSession opens a validation session from an uploaded rules
// workbook and dataset workbook. Sheet names are optional; the first sheet
// is used when none is given, and the state master is skipped entirely
// when no sheet is named.
func (a *App) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, a.maxUploadBytes)
	if err := r.ParseMultipartForm(a.maxUploadBytes); err != nil {
		writeError(w, apperrors.InvalidInput(fmt.Sprintf("multipart form: %v", err)))
		return
	}

	rulesFile, err := openUpload(r, "rules")
	if err != nil {
		writeError(w, err)
		return
	}
	defer rulesFile.Close()

	datasetFile, err := openUpload(r, "dataset")
	if err != nil {
		writeError(w, err)
		return
	}
	defer datasetFile.Close()

	ctx := r.Context()

	ruleTable, err := a.reader.LoadRuleTable(ctx, rulesFile, r.FormValue("rules_sheet"))
	if err != nil {
		writeError(w, err)
		return
	}
	spec, err := rules.Compile(ruleTable)
	if err != nil {
		writeError(w, err)
		return
	}

	states := rules.NewStateMaster(nil)
	if sheet := strings.TrimSpace(r.FormValue("states_sheet")); sheet != "" {
		if _, err := rulesFile.Seek(0, io.SeekStart); err != nil {
			writeError(w, err)
			return
		}
		states, err = a.reader.LoadStateMaster(ctx, rulesFile, sheet)
		if err != nil {
			writeError(w, err)
			return
		}
	}

	data, err := a.reader.LoadDataset(ctx, datasetFile)
	if err != nil {
		writeError(w, err)
		return
	}

	session, err := a.manager.Create(ctx, spec, states, data)
	if err != nil {
		log.Printf("[API] Session create rejected: %v", err)
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, sessionResponse{
		Session: session.Status(),
		States:  states.Names(),
		Report:  session.Report(),
	})
}

func (a *App) handleGetSession(w http.ResponseWriter, r *http.Request) {
	session, err := a.sessionFromRequest(r)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, sessionResponse{
		Session: session.Status(),
		States:  session.StateMaster().Names(),
		Report:  session.Report(),
	})
}

func (a *App) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	id, err := core.ParseSessionID(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, apperrors.InvalidInput(err.Error()))
		return
	}
	if err := a.manager.Delete(id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleGetReport serves the current report as json, markdown or html.
func (a *App) handleGetReport(w http.ResponseWriter, r *http.Request) {
	session, err := a.sessionFromRequest(r)
	if err != nil {
		writeError(w, err)
		return
	}

	report := session.Report()
	switch format := r.URL.Query().Get("format"); format {
	case "", "json":
		writeJSON(w, http.StatusOK, report)
	case "md", "markdown":
		w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
		w.Write(a.renderer.RenderMarkdown(report))
	case "html":
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write(a.renderer.RenderHTML(report))
	default:
		writeError(w, apperrors.InvalidInput(fmt.Sprintf("unknown report format %q", format)))
	}
}

// handleGetProfile returns column profiles for the current snapshot.
func (a *App) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	session, err := a.sessionFromRequest(r)
	if err != nil {
		writeError(w, err)
		return
	}

	profiles, err := a.profiler.ProfileTable(r.Context(), session.Snapshot())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"profiles": profiles})
}

// handlePreviewFix shows the head of a pending fix's before/after columns
// plus the column's current statistical profile.
func (a *App) handlePreviewFix(w http.ResponseWriter, r *http.Request) {
	session, err := a.sessionFromRequest(r)
	if err != nil {
		writeError(w, err)
		return
	}

	field := fieldParam(r)
	n := app.DefaultPreviewRows
	if raw := r.URL.Query().Get("rows"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			writeError(w, apperrors.InvalidInput(fmt.Sprintf("invalid rows value %q", raw)))
			return
		}
		n = parsed
	}

	preview, err := session.Preview(field, n)
	if err != nil {
		writeError(w, err)
		return
	}

	profile, err := a.profiler.ProfileColumn(r.Context(), session.Snapshot(), field)
	if err != nil {
		log.Printf("[API] Profile for field %q failed: %v", field, err)
		profile = nil
	}

	writeJSON(w, http.StatusOK, previewResponse{Preview: preview, Profile: profile})
}

func (a *App) sessionFromRequest(r *http.Request) (*app.DatasetSession, error) {
	id, err := core.ParseSessionID(chi.URLParam(r, "id"))
	if err != nil {
		return nil, apperrors.InvalidInput(err.Error())
	}
	return a.manager.Get(id)
}

// fieldParam reads the {field} path segment. Column names may carry spaces,
// so the segment arrives percent-encoded.
func fieldParam(r *http.Request) string {
	raw := chi.URLParam(r, "field")
	if field, err := url.PathUnescape(raw); err == nil {
		return field
	}
	return raw
}

func openUpload(r *http.Request, field string) (multipart.File, error) {
	file, header, err := r.FormFile(field)
	if err != nil {
		return nil, apperrors.InvalidInput(fmt.Sprintf("missing %q upload", field))
	}
	if !strings.HasSuffix(strings.ToLower(header.Filename), ".xlsx") {
		file.Close()
		return nil, apperrors.InvalidInput(fmt.Sprintf("%q must be an .xlsx workbook", header.Filename))
	}
	return file, nil
}

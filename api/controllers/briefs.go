package controllers

import (
	"encoding/json"
	"mime"
	"net/http"
	"strings"

	"github.com/adforge/adforge-backend/api/responses"
	"github.com/adforge/adforge-backend/api/validators"
	"github.com/adforge/adforge-backend/internal/briefs"
	"github.com/adforge/adforge-backend/internal/ideas"
	pkgerrors "github.com/adforge/adforge-backend/pkg/errors"
	"github.com/adforge/adforge-backend/pkg/logger"
)

type briefCreateRequest struct {
	Brand           *string  `json:"brand,omitempty"`
	ProductName     *string  `json:"product_name,omitempty"`
	Content         string   `json:"content,omitempty"`
	CampaignMessage string   `json:"campaign_message" validate:"required,max=500"`
	Regions         []string `json:"regions" validate:"required,min=1"`
	Demographics    []string `json:"demographics" validate:"required,min=1"`
}

func (r briefCreateRequest) toInput() briefs.CreateInput {
	return briefs.CreateInput{
		Brand:           r.Brand,
		ProductName:     r.ProductName,
		Content:         r.Content,
		CampaignMessage: r.CampaignMessage,
		Regions:         r.Regions,
		Demographics:    r.Demographics,
	}
}

// BriefList returns briefs newest first.
func BriefList(svc briefs.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, err := validators.ParsePagination(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		rows, err := svc.List(r.Context(), page)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, rows)
	}
}

// BriefCreate accepts a JSON submission or a multipart form carrying a brief
// document.
func BriefCreate(svc briefs.Service, maxUploadMB int, logg *logger.Logger) http.HandlerFunc {
	maxMemory := int64(maxUploadMB) * 1024 * 1024
	return func(w http.ResponseWriter, r *http.Request) {
		input, err := parseBriefCreate(r, maxMemory)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		brief, err := svc.Create(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, brief)
	}
}

func parseBriefCreate(r *http.Request, maxMemory int64) (briefs.CreateInput, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if !strings.HasPrefix(mediaType, "multipart/") {
		var payload briefCreateRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			return briefs.CreateInput{}, err
		}
		return payload.toInput(), nil
	}

	if err := r.ParseMultipartForm(maxMemory); err != nil {
		return briefs.CreateInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid multipart form")
	}

	input := briefs.CreateInput{
		Content:         r.FormValue("content"),
		CampaignMessage: r.FormValue("campaign_message"),
	}
	if v := r.FormValue("brand"); v != "" {
		input.Brand = &v
	}
	if v := r.FormValue("product_name"); v != "" {
		input.ProductName = &v
	}

	var err error
	if input.Regions, err = parseJSONList(r.FormValue("regions")); err != nil {
		return briefs.CreateInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid regions")
	}
	if input.Demographics, err = parseJSONList(r.FormValue("demographics")); err != nil {
		return briefs.CreateInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid demographics")
	}

	file, header, err := r.FormFile("file")
	if err == nil {
		defer file.Close()
		input.Document = &briefs.DocumentInput{Filename: header.Filename, Body: file}
	} else if err != http.ErrMissingFile {
		return briefs.CreateInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid file upload")
	}
	return input, nil
}

// parseJSONList accepts a JSON array string; a bare comma-separated list is
// tolerated for hand-written requests.
func parseJSONList(raw string) ([]string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	if strings.HasPrefix(raw, "[") {
		var out []string
		if err := json.Unmarshal([]byte(raw), &out); err != nil {
			return nil, err
		}
		return out, nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out, nil
}

// BriefGet returns one brief.
func BriefGet(svc briefs.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.PathUUID(r, "briefId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		brief, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, brief)
	}
}

// BriefDelete removes a brief and its whole descendant tree.
func BriefDelete(svc briefs.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.PathUUID(r, "briefId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.Delete(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

// BriefIdeas lists a brief's ideas.
func BriefIdeas(briefSvc briefs.Service, ideaSvc ideas.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.PathUUID(r, "briefId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if _, err := briefSvc.Get(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		rows, err := ideaSvc.ListByBrief(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, rows)
	}
}

// BriefExecute runs idea generation for a brief, streaming progress as
// server-sent events. Errors before the first event become a regular error
// response; once the stream is open the executor reports failures in-band.
func BriefExecute(exec *briefs.Executor, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.PathUUID(r, "briefId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		flusher, ok := w.(http.Flusher)
		if !ok {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.New(pkgerrors.CodeInternal, "streaming unsupported by this connection"))
			return
		}

		streaming := false
		emit := func(event briefs.Event) error {
			if !streaming {
				w.Header().Set("Content-Type", "text/event-stream")
				w.Header().Set("Cache-Control", "no-cache")
				w.Header().Set("Connection", "keep-alive")
				w.Header().Set("X-Accel-Buffering", "no")
				w.WriteHeader(http.StatusOK)
				streaming = true
			}
			data, err := json.Marshal(event)
			if err != nil {
				return err
			}
			if _, err := w.Write([]byte("data: " + string(data) + "\n\n")); err != nil {
				return err
			}
			flusher.Flush()
			return nil
		}

		if err := exec.Execute(r.Context(), id, emit); err != nil {
			if !streaming {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			logg.Error(r.Context(), "execution stream interrupted", err)
		}
	}
}

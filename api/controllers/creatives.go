package controllers

import (
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/adforge/adforge-backend/api/responses"
	"github.com/adforge/adforge-backend/api/validators"
	"github.com/adforge/adforge-backend/internal/creatives"
	"github.com/adforge/adforge-backend/pkg/enums"
	pkgerrors "github.com/adforge/adforge-backend/pkg/errors"
	"github.com/adforge/adforge-backend/pkg/logger"
)

// CreativeList returns the approval queue, optionally filtered by status.
func CreativeList(svc creatives.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, err := validators.ParsePagination(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var status *enums.CreativeStatus
		if raw := strings.TrimSpace(r.URL.Query().Get("status")); raw != "" {
			parsed, err := enums.ParseCreativeStatus(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w,
					pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status filter"))
				return
			}
			status = &parsed
		}

		rows, err := svc.List(r.Context(), status, page)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, rows)
	}
}

// CreativeGet returns one creative with its approval.
func CreativeGet(svc creatives.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.PathUUID(r, "creativeId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		creative, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, creative)
	}
}

// CreativeFile streams the rendered artifact.
func CreativeFile(svc creatives.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.PathUUID(r, "creativeId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		rc, creative, err := svc.OpenFile(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		defer rc.Close()

		w.Header().Set("Content-Type", creative.MimeType)
		if creative.SizeBytes > 0 {
			w.Header().Set("Content-Length", strconv.FormatInt(creative.SizeBytes, 10))
		}
		if _, err := io.Copy(w, rc); err != nil {
			logg.Error(r.Context(), "creative artifact stream failed", err)
		}
	}
}

// CreativeRegenerate renders a replacement artifact and resets the approval.
func CreativeRegenerate(svc creatives.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.PathUUID(r, "creativeId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		creative, err := svc.Regenerate(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, creative)
	}
}

// CreativeDelete removes one creative.
func CreativeDelete(svc creatives.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.PathUUID(r, "creativeId")
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

// CreativeDeleteByIdea removes every creative under an idea.
func CreativeDeleteByIdea(svc creatives.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.PathUUID(r, "ideaId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.DeleteByIdea(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

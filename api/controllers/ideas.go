package controllers

import (
	"net/http"

	"github.com/adforge/adforge-backend/api/responses"
	"github.com/adforge/adforge-backend/api/validators"
	"github.com/adforge/adforge-backend/internal/creatives"
	"github.com/adforge/adforge-backend/internal/ideas"
	"github.com/adforge/adforge-backend/pkg/logger"
)

// IdeaGet returns one idea.
func IdeaGet(svc ideas.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.PathUUID(r, "ideaId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		idea, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, idea)
	}
}

// IdeaRegenerate swaps the idea's content in place and bumps its generation
// counter.
func IdeaRegenerate(svc ideas.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.PathUUID(r, "ideaId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		idea, err := svc.Regenerate(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, idea)
	}
}

// IdeaDuplicate clones the idea into an independent sibling.
func IdeaDuplicate(svc ideas.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.PathUUID(r, "ideaId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		idea, err := svc.Duplicate(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, idea)
	}
}

// IdeaDelete removes an idea and its creatives.
func IdeaDelete(svc ideas.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.PathUUID(r, "ideaId")
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

// IdeaGenerateCreatives renders the full aspect-ratio batch for an idea.
func IdeaGenerateCreatives(svc creatives.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.PathUUID(r, "ideaId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		rows, err := svc.GenerateForIdea(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, rows)
	}
}

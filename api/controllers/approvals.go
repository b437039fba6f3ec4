package controllers

import (
	"net/http"

	"github.com/adforge/adforge-backend/api/responses"
	"github.com/adforge/adforge-backend/api/validators"
	"github.com/adforge/adforge-backend/internal/approvals"
	"github.com/adforge/adforge-backend/pkg/logger"
)

// ApprovalApproveCreative toggles the creative-approval flag.
func ApprovalApproveCreative(svc approvals.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.PathUUID(r, "creativeId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		approval, err := svc.ToggleCreativeApproval(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, approval)
	}
}

// ApprovalApproveRegional toggles the regional-approval flag.
func ApprovalApproveRegional(svc approvals.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.PathUUID(r, "creativeId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		approval, err := svc.ToggleRegionalApproval(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, approval)
	}
}

// ApprovalDeploy marks the creative live once its approvals are in place.
func ApprovalDeploy(svc approvals.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.PathUUID(r, "creativeId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		approval, err := svc.Deploy(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, approval)
	}
}

package controllers

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/adforge/adforge-backend/api/responses"
	"github.com/adforge/adforge-backend/api/validators"
	"github.com/adforge/adforge-backend/internal/assets"
	"github.com/adforge/adforge-backend/pkg/enums"
	pkgerrors "github.com/adforge/adforge-backend/pkg/errors"
	"github.com/adforge/adforge-backend/pkg/logger"
)

// AssetList returns assets, optionally filtered by type.
func AssetList(svc assets.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, err := validators.ParsePagination(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var assetType *enums.AssetType
		if raw := strings.TrimSpace(r.URL.Query().Get("type")); raw != "" {
			parsed, err := enums.ParseAssetType(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w,
					pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid asset type"))
				return
			}
			assetType = &parsed
		}

		rows, err := svc.List(r.Context(), assetType, page)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, rows)
	}
}

// AssetUpload accepts a multipart brand or product image.
func AssetUpload(svc assets.Service, maxUploadMB int, logg *logger.Logger) http.HandlerFunc {
	maxMemory := int64(maxUploadMB) * 1024 * 1024
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(maxMemory); err != nil {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid multipart form"))
			return
		}

		assetType, err := enums.ParseAssetType(r.FormValue("asset_type"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid asset type"))
			return
		}

		file, header, err := r.FormFile("file")
		if err != nil {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.Wrap(pkgerrors.CodeValidation, err, "file is required"))
			return
		}
		defer file.Close()

		var colors []string
		if raw := strings.TrimSpace(r.FormValue("brand_colors")); raw != "" {
			if err := json.Unmarshal([]byte(raw), &colors); err != nil {
				responses.WriteError(r.Context(), logg, w,
					pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid brand colors"))
				return
			}
		}

		asset, err := svc.Upload(r.Context(), assets.UploadInput{
			AssetType:   assetType,
			Filename:    header.Filename,
			MimeType:    header.Header.Get("Content-Type"),
			SizeBytes:   header.Size,
			Body:        file,
			BrandColors: colors,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, asset)
	}
}

// AssetGet returns one asset record.
func AssetGet(svc assets.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.PathUUID(r, "assetId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		asset, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, asset)
	}
}

// AssetFile streams the stored image.
func AssetFile(svc assets.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.PathUUID(r, "assetId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		rc, asset, err := svc.OpenFile(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		defer rc.Close()

		w.Header().Set("Content-Type", asset.MimeType)
		if asset.SizeBytes > 0 {
			w.Header().Set("Content-Length", strconv.FormatInt(asset.SizeBytes, 10))
		}
		if _, err := io.Copy(w, rc); err != nil {
			logg.Error(r.Context(), "asset artifact stream failed", err)
		}
	}
}

// AssetDelete removes an asset record and its artifact.
func AssetDelete(svc assets.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.PathUUID(r, "assetId")
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

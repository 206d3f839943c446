/*
Package handler provides the HTTP handlers and routing setup for the PulseChat server.

This file contains the presign endpoints backing IMAGE and FILE messages:
clients upload and fetch media directly against object storage, and messages
carry only the object key.
*/
package handler

import (
	"net/http"
	"path/filepath"
	"strings"

	"pulsechat/internal/app/storage"
	"pulsechat/internal/pkg/auth/jwt"
	"pulsechat/internal/pkg/errs"
	"pulsechat/internal/pkg/logx"
	"pulsechat/internal/pkg/randx"
	"pulsechat/internal/pkg/req"
	"pulsechat/internal/pkg/resp"
)

type presignUploadInput struct {
	FileName string `json:"fileName"`
	MimeType string `json:"mimeType"`
	FileSize int64  `json:"fileSize"`
}

// HandlePresignUpload issues a short-lived upload URL for a media message.
// The returned key becomes the message content for IMAGE/FILE sends.
func HandlePresignUpload(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := jwt.UserIDFromContext(r.Context())

		var input presignUploadInput
		if customErr := req.BindJSON(r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		if customErr := storage.ValidateFileSize(input.FileSize); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		if customErr := storage.ValidateFileType(input.FileName, input.MimeType); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		key := randx.FileKey(userID, strings.ToLower(filepath.Ext(input.FileName)))

		url, err := deps.StorageService.PresignUpload(
			r.Context(),
			key,
			strings.ToLower(input.MimeType),
			input.FileSize,
			storage.PresignedURLDuration,
		)
		if err != nil {
			logx.Error(err, "Failed to presign upload", "user_id", userID)
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		resp.RespondSuccess(w, r, map[string]any{
			"key":       key,
			"uploadUrl": url,
			"expiresIn": int(storage.PresignedURLDuration.Seconds()),
		})
	}
}

// HandlePresignDownload issues a short-lived download URL for a stored object.
func HandlePresignDownload(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		key := r.URL.Query().Get("key")
		if key == "" || strings.Contains(key, "..") {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidParams))
			return
		}

		url, err := deps.StorageService.PresignDownload(r.Context(), key, storage.PresignedURLDuration)
		if err != nil {
			logx.Error(err, "Failed to presign download", "key", key)
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		resp.RespondSuccess(w, r, map[string]any{
			"downloadUrl": url,
			"expiresIn":   int(storage.PresignedURLDuration.Seconds()),
		})
	}
}

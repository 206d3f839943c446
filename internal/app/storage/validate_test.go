package storage

import (
	"testing"

	"pulsechat/internal/pkg/errs"
)

func TestValidateFileSize(t *testing.T) {
	tests := []struct {
		name     string
		size     int64
		wantCode int
	}{
		{name: "one byte", size: 1},
		{name: "at limit", size: MaxFileSize},
		{name: "zero", size: 0, wantCode: errs.ErrInvalidParams},
		{name: "negative", size: -5, wantCode: errs.ErrInvalidParams},
		{name: "over limit", size: MaxFileSize + 1, wantCode: errs.ErrFileSizeTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateFileSize(tt.size)
			if tt.wantCode == 0 {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || err.Code != tt.wantCode {
				t.Errorf("error = %v, want code %d", err, tt.wantCode)
			}
		})
	}
}

func TestValidateFileType(t *testing.T) {
	tests := []struct {
		name     string
		fileName string
		mimeType string
		ok       bool
	}{
		{name: "jpeg", fileName: "photo.jpg", mimeType: "image/jpeg", ok: true},
		{name: "jpeg alt ext", fileName: "photo.jpeg", mimeType: "image/jpeg", ok: true},
		{name: "uppercase mime", fileName: "photo.png", mimeType: "IMAGE/PNG", ok: true},
		{name: "uppercase ext", fileName: "NOTES.TXT", mimeType: "text/plain", ok: true},
		{name: "pdf", fileName: "doc.pdf", mimeType: "application/pdf", ok: true},
		{name: "disallowed mime", fileName: "run.exe", mimeType: "application/octet-stream"},
		{name: "mismatched ext", fileName: "photo.png", mimeType: "image/jpeg"},
		{name: "no extension", fileName: "photo", mimeType: "image/png"},
		{name: "svg not allowed", fileName: "pic.svg", mimeType: "image/svg+xml"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateFileType(tt.fileName, tt.mimeType)
			if tt.ok && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			if !tt.ok && (err == nil || err.Code != errs.ErrFileTypeInvalid) {
				t.Errorf("error = %v, want code %d", err, errs.ErrFileTypeInvalid)
			}
		})
	}
}

package handler

import (
	"fmt"
	"mime/multipart"
	"os"
	"path/filepath"

	"krushak/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// imageContentTypes are the accepted gallery image types.
var imageContentTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
}

// videoContentTypes are the accepted demo video types.
var videoContentTypes = map[string]bool{
	"video/mp4":  true,
	"video/webm": true,
}

// spoolUpload saves a multipart file to a local temp path. Ownership of the
// temp file passes to the service layer, which removes it after upload.
func spoolUpload(c *gin.Context, fh *multipart.FileHeader) (*service.Upload, error) {
	tempPath := filepath.Join(os.TempDir(), uuid.NewString()+filepath.Ext(fh.Filename))
	if err := c.SaveUploadedFile(fh, tempPath); err != nil {
		return nil, fmt.Errorf("failed to spool upload: %w", err)
	}

	return &service.Upload{
		TempPath:    tempPath,
		Filename:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
	}, nil
}

// spoolUploads spools a batch, cleaning up already-spooled files on failure.
func spoolUploads(c *gin.Context, fhs []*multipart.FileHeader) ([]service.Upload, error) {
	uploads := make([]service.Upload, 0, len(fhs))
	for _, fh := range fhs {
		u, err := spoolUpload(c, fh)
		if err != nil {
			for _, spooled := range uploads {
				os.Remove(spooled.TempPath)
			}
			return nil, err
		}
		uploads = append(uploads, *u)
	}
	return uploads, nil
}

func validContentTypes(fhs []*multipart.FileHeader, allowed map[string]bool) bool {
	for _, fh := range fhs {
		if !allowed[fh.Header.Get("Content-Type")] {
			return false
		}
	}
	return true
}

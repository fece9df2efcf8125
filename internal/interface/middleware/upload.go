package middleware

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/coursebay/lms-backend/pkg/response"
)

// Context keys populated by Upload.
const (
	CtxUploadPathKey = "uploadPath"
	CtxUploadNameKey = "uploadName"
)

var allowedUploadExts = map[string]struct{}{
	".jpg":  {},
	".jpeg": {},
	".png":  {},
	".webp": {},
	".mp4":  {},
	".mkv":  {},
}

// Upload accepts a single multipart file for the named field, restricts it by
// extension and size, and stores it to a temporary local path pending the
// external upload. The file is optional; handlers decide whether a missing
// upload is an error.
func Upload(field, dir string, maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		fh, err := c.FormFile(field)
		if err != nil {
			// No file in the request; continue without one.
			c.Next()
			return
		}

		ext := strings.ToLower(filepath.Ext(fh.Filename))
		if _, ok := allowedUploadExts[ext]; !ok {
			resp := response.Error[any](c, http.StatusBadRequest, "Unsupported file type! "+ext, nil)
			c.AbortWithStatusJSON(resp.Status, resp)
			return
		}
		if maxBytes > 0 && fh.Size > maxBytes {
			resp := response.Error[any](c, http.StatusBadRequest, "File too large", nil)
			c.AbortWithStatusJSON(resp.Status, resp)
			return
		}

		if err := os.MkdirAll(dir, 0o755); err != nil {
			resp := response.Error[any](c, http.StatusInternalServerError, "failed to store upload", nil)
			c.AbortWithStatusJSON(resp.Status, resp)
			return
		}
		dst := filepath.Join(dir, uuid.NewString()+ext)
		if err := c.SaveUploadedFile(fh, dst); err != nil {
			resp := response.Error[any](c, http.StatusInternalServerError, "failed to store upload", nil)
			c.AbortWithStatusJSON(resp.Status, resp)
			return
		}

		c.Set(CtxUploadPathKey, dst)
		c.Set(CtxUploadNameKey, fh.Filename)
		c.Next()

		// Services remove the file once the hosted upload lands; a handler
		// that failed before reaching the service leaves it behind.
		if c.Writer.Status() >= http.StatusBadRequest {
			_ = os.Remove(dst)
		}
	}
}

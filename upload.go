package autoforms

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/autoforms/autoforms/schema"
)

// upload stores the file posted for field, it returns the stored reference and
// whether a file was posted at all
func (s *Server) upload(c *Context, field *schema.Field) (string, bool, error) {
	form := c.Request.MultipartForm
	if form == nil || len(form.File[field.Name]) == 0 {
		return "", false, nil
	}

	header := form.File[field.Name][0]
	name := filepath.Base(header.Filename)
	ext := strings.ToLower(filepath.Ext(name))

	if len(field.AllowedExtensions) > 0 && !allowedExtension(field.AllowedExtensions, ext) {
		return "", true, fmt.Errorf("%s must be one of %s", field.InputLabel, strings.Join(field.AllowedExtensions, ", "))
	}

	if s.UploadDir == "" {
		return name, true, nil
	}

	src, err := header.Open()
	if err != nil {
		return "", true, err
	}
	defer src.Close()

	stored := uuid.NewString() + ext
	dst, err := os.OpenFile(filepath.Join(s.UploadDir, stored), os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		c.Error("saving upload", err)
		return "", true, fmt.Errorf("%s could not be saved", field.InputLabel)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		c.Error("saving upload", err)
		return "", true, fmt.Errorf("%s could not be saved", field.InputLabel)
	}
	return stored, true, nil
}

func allowedExtension(allowed []string, ext string) bool {
	for _, a := range allowed {
		if !strings.HasPrefix(a, ".") {
			a = "." + a
		}
		if strings.EqualFold(a, ext) {
			return true
		}
	}
	return false
}

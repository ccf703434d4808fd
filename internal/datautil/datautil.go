// Package datautil handles the binary image field: size display, upload
// loading and inline rendering.
package datautil

import (
	"encoding/base64"
	"fmt"
	"html/template"
	"io"
	"mime/multipart"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/gabriel-vasile/mimetype"
)

// MaxFileSize caps uploads loaded into a form.
const MaxFileSize = 5 << 20

type FileLoadError struct {
	Key     string
	Message string
}

func (e *FileLoadError) Error() string { return e.Message }

// ByteSize formats a payload length the way the views show it, e.g. "12,345 bytes".
func ByteSize(b []byte) string {
	return humanize.Comma(int64(len(b))) + " bytes"
}

// LoadFile reads an uploaded file and sniffs its content type. With
// isImage set, anything that is not an image is rejected.
func LoadFile(fh *multipart.FileHeader, isImage bool) ([]byte, string, error) {
	if fh == nil {
		return nil, "", &FileLoadError{Key: "not.blob", Message: "Base64 data was not set as file could not be extracted from passed parameter"}
	}
	if fh.Size > MaxFileSize {
		return nil, "", &FileLoadError{Key: "too.large", Message: fmt.Sprintf("File is too large (%s, max %s)", humanize.Comma(fh.Size)+" bytes", humanize.Comma(MaxFileSize)+" bytes")}
	}
	f, err := fh.Open()
	if err != nil {
		return nil, "", &FileLoadError{Key: "not.opened", Message: "File could not be opened: " + err.Error()}
	}
	defer func() { _ = f.Close() }()

	data, err := io.ReadAll(io.LimitReader(f, MaxFileSize+1))
	if err != nil {
		return nil, "", &FileLoadError{Key: "not.read", Message: "File could not be read: " + err.Error()}
	}
	if len(data) == 0 {
		return nil, "", &FileLoadError{Key: "empty", Message: "File is empty"}
	}
	ct := mimetype.Detect(data).String()
	if isImage && !strings.HasPrefix(ct, "image/") {
		return nil, "", &FileLoadError{Key: "not.image", Message: fmt.Sprintf("File was expected to be an image but was found to be '%s'", ct)}
	}
	return data, ct, nil
}

// DataURL inlines a payload for an <img src>.
func DataURL(contentType string, b []byte) template.URL {
	if len(b) == 0 {
		return ""
	}
	if contentType == "" {
		contentType = mimetype.Detect(b).String()
	}
	return template.URL("data:" + contentType + ";base64," + base64.StdEncoding.EncodeToString(b))
}

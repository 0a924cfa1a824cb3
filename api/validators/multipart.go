package validators

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"strings"

	pkgerrors "github.com/mesafood/mesafood-backend/pkg/errors"
	"github.com/mesafood/mesafood-backend/pkg/types"
)

// IsMultipart reports whether the request carries a multipart form body.
func IsMultipart(r *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil {
		return false
	}
	return strings.HasPrefix(mediaType, "multipart/")
}

// ParseMultipartForm parses the form while enforcing the configured upload cap.
// maxUploadMB bounds the in-memory form size and every individual file part.
func ParseMultipartForm(r *http.Request, maxUploadMB int) error {
	if maxUploadMB <= 0 {
		maxUploadMB = 10
	}
	if err := r.ParseMultipartForm(int64(maxUploadMB) << 20); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid multipart body")
	}
	return nil
}

// FormFile extracts a single optional file part. A missing part returns
// (nil, nil) so callers can treat the upload as absent.
func FormFile(r *http.Request, field string, maxUploadMB int) (*types.Upload, error) {
	file, header, err := r.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, fmt.Sprintf("invalid file field %q", field))
	}
	defer file.Close()

	return readUpload(file, header, maxUploadMB)
}

// FormFiles extracts every file uploaded under the field. An absent field
// yields an empty slice.
func FormFiles(r *http.Request, field string, maxUploadMB int) ([]types.Upload, error) {
	if r.MultipartForm == nil {
		return nil, nil
	}
	headers := r.MultipartForm.File[field]
	uploads := make([]types.Upload, 0, len(headers))
	for _, header := range headers {
		file, err := header.Open()
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, fmt.Sprintf("invalid file field %q", field))
		}
		upload, err := readUpload(file, header, maxUploadMB)
		file.Close()
		if err != nil {
			return nil, err
		}
		uploads = append(uploads, *upload)
	}
	return uploads, nil
}

func readUpload(file multipart.File, header *multipart.FileHeader, maxUploadMB int) (*types.Upload, error) {
	if maxUploadMB <= 0 {
		maxUploadMB = 10
	}
	limit := int64(maxUploadMB) << 20
	if header.Size > limit {
		return nil, pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("file %q exceeds the %dMB upload limit", header.Filename, maxUploadMB))
	}

	data, err := io.ReadAll(io.LimitReader(file, limit+1))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "read uploaded file")
	}
	if int64(len(data)) > limit {
		return nil, pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("file %q exceeds the %dMB upload limit", header.Filename, maxUploadMB))
	}
	if len(data) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("file %q is empty", header.Filename))
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}

	return &types.Upload{
		FileName:    SanitizeString(header.Filename, 255),
		ContentType: contentType,
		Data:        data,
	}, nil
}

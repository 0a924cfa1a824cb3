package validators

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/mesafood/mesafood-backend/pkg/errors"
)

func multipartRequest(t *testing.T, build func(form *multipart.Writer)) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	form := multipart.NewWriter(&buf)
	build(form)
	require.NoError(t, form.Close())

	req := httptest.NewRequest(http.MethodPost, "/", &buf)
	req.Header.Set("Content-Type", form.FormDataContentType())
	return req
}

func TestFormFileReadsUpload(t *testing.T) {
	req := multipartRequest(t, func(form *multipart.Writer) {
		part, err := form.CreateFormFile("img", "photo.png")
		require.NoError(t, err)
		_, err = part.Write([]byte("png-data"))
		require.NoError(t, err)
	})
	require.NoError(t, ParseMultipartForm(req, 10))

	upload, err := FormFile(req, "img", 10)
	require.NoError(t, err)
	require.NotNil(t, upload)
	assert.Equal(t, "photo.png", upload.FileName)
	assert.Equal(t, []byte("png-data"), upload.Data)
	assert.NotEmpty(t, upload.ContentType)
}

func TestFormFileMissingIsNil(t *testing.T) {
	req := multipartRequest(t, func(form *multipart.Writer) {
		require.NoError(t, form.WriteField("name", "no file here"))
	})
	require.NoError(t, ParseMultipartForm(req, 10))

	upload, err := FormFile(req, "img", 10)
	require.NoError(t, err)
	assert.Nil(t, upload)
}

func TestFormFilesCollectsEveryPart(t *testing.T) {
	req := multipartRequest(t, func(form *multipart.Writer) {
		for _, name := range []string{"a.png", "b.png", "c.png"} {
			part, err := form.CreateFormFile("imgs", name)
			require.NoError(t, err)
			_, err = part.Write([]byte(name))
			require.NoError(t, err)
		}
	})
	require.NoError(t, ParseMultipartForm(req, 10))

	uploads, err := FormFiles(req, "imgs", 10)
	require.NoError(t, err)
	require.Len(t, uploads, 3)
	assert.Equal(t, "b.png", uploads[1].FileName)
}

func TestFormFileRejectsEmptyUpload(t *testing.T) {
	req := multipartRequest(t, func(form *multipart.Writer) {
		_, err := form.CreateFormFile("img", "empty.png")
		require.NoError(t, err)
	})
	require.NoError(t, ParseMultipartForm(req, 10))

	_, err := FormFile(req, "img", 10)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
}

func TestIsMultipart(t *testing.T) {
	jsonReq := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("{}"))
	jsonReq.Header.Set("Content-Type", "application/json")
	assert.False(t, IsMultipart(jsonReq))

	formReq := multipartRequest(t, func(form *multipart.Writer) {
		require.NoError(t, form.WriteField("k", "v"))
	})
	assert.True(t, IsMultipart(formReq))
}

func TestDecodeJSONBodyValidatesTags(t *testing.T) {
	type payload struct {
		Email string `json:"email" validate:"required,email"`
	}

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"email":"nope"}`))
	req.Header.Set("Content-Type", "application/json")

	var dest payload
	err := DecodeJSONBody(req, &dest)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
}

func TestDecodeJSONBodyRejectsUnknownFields(t *testing.T) {
	type payload struct {
		Name string `json:"name"`
	}

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"x","surprise":true}`))
	req.Header.Set("Content-Type", "application/json")

	var dest payload
	err := DecodeJSONBody(req, &dest)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
}

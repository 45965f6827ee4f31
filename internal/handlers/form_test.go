package handlers

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hmusa/medcatalog-backend/internal/apperr"
)

type formFile struct {
	field       string
	name        string
	contentType string
	content     []byte
}

func multipartRequest(t *testing.T, fields map[string]string, files ...formFile) *http.Request {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	for key, value := range fields {
		require.NoError(t, writer.WriteField(key, value))
	}
	for _, f := range files {
		header := textproto.MIMEHeader{}
		header.Set("Content-Disposition", `form-data; name="`+f.field+`"; filename="`+f.name+`"`)
		header.Set("Content-Type", f.contentType)
		part, err := writer.CreatePart(header)
		require.NoError(t, err)
		_, err = part.Write(f.content)
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/devices", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	require.NoError(t, parseMultipart(req))
	return req
}

func TestFormStringPtrAbsentVersusEmpty(t *testing.T) {
	req := multipartRequest(t, map[string]string{"description": ""})

	// An empty field clears the value; an absent field leaves it alone.
	desc := formStringPtr(req, "description")
	require.NotNil(t, desc)
	assert.Equal(t, "", *desc)

	assert.Nil(t, formStringPtr(req, "name"))
}

func TestFormIDList(t *testing.T) {
	req := multipartRequest(t, map[string]string{
		"distributors": `["665f1f77bcf86cd799439011"]`,
	})

	ids, err := formIDList(req, "distributors")
	require.NoError(t, err)
	assert.Equal(t, []string{"665f1f77bcf86cd799439011"}, ids)

	ids, err = formIDList(req, "missing")
	require.NoError(t, err)
	assert.Nil(t, ids)
}

func TestFormIDListMalformed(t *testing.T) {
	req := multipartRequest(t, map[string]string{"distributors": "not-json"})

	_, err := formIDList(req, "distributors")
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}

func TestFormIDListPtrDistinguishesAbsent(t *testing.T) {
	req := multipartRequest(t, map[string]string{"distributors": "[]"})

	ids, err := formIDListPtr(req, "distributors")
	require.NoError(t, err)
	require.NotNil(t, ids)
	assert.Empty(t, *ids)

	ids, err = formIDListPtr(req, "missing")
	require.NoError(t, err)
	assert.Nil(t, ids)
}

func TestFormBoolPtr(t *testing.T) {
	req := multipartRequest(t, map[string]string{"has_agreement": "true", "has_agent": "yes"})

	v, err := formBoolPtr(req, "has_agreement")
	require.NoError(t, err)
	require.NotNil(t, v)
	assert.True(t, *v)

	_, err = formBoolPtr(req, "has_agent")
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	v, err = formBoolPtr(req, "missing")
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestFormFloatPtr(t *testing.T) {
	req := multipartRequest(t, map[string]string{"price": "1999.5", "wholesale_price": "cheap"})

	v, err := formFloatPtr(req, "price")
	require.NoError(t, err)
	require.NotNil(t, v)
	assert.Equal(t, 1999.5, *v)

	_, err = formFloatPtr(req, "wholesale_price")
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}

func TestFormImageAcceptsAllowedTypes(t *testing.T) {
	req := multipartRequest(t, nil, formFile{
		field: "image", name: "scan.png", contentType: "image/png", content: []byte("png-bytes"),
	})

	fileHeader, err := formImage(req)
	require.NoError(t, err)
	require.NotNil(t, fileHeader)
	assert.Equal(t, "scan.png", fileHeader.Filename)
}

func TestFormImageRejectsWrongContentType(t *testing.T) {
	req := multipartRequest(t, nil, formFile{
		field: "image", name: "notes.pdf", contentType: "application/pdf", content: []byte("%PDF"),
	})

	_, err := formImage(req)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}

func TestFormImageAbsent(t *testing.T) {
	req := multipartRequest(t, map[string]string{"name": "MRI Scanner"})

	fileHeader, err := formImage(req)
	require.NoError(t, err)
	assert.Nil(t, fileHeader)
}

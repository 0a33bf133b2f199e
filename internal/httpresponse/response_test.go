package httpresponse

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWriteResponseWithStatus(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteResponseWithStatus(rec, http.StatusCreated, map[string]string{"message": "ok"})

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"message":"ok"}`, rec.Body.String())
}

func TestWriteErrorWithStatus(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteErrorWithStatus(rec, http.StatusNotFound, "User not found")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"detail":"User not found"}`, rec.Body.String())
}

func TestWriteResponseUnencodable(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteResponseWithStatus(rec, http.StatusOK, map[string]any{"bad": make(chan int)})

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, INTERNALERRORJSON, rec.Body.String())
}

package httpresponse

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// ErrorResponse is the error body the frontend reads: {"detail": "..."}.
type ErrorResponse struct {
	Detail string `json:"detail"`
}

const INTERNALERRORJSON = "{\"detail\": \"Internal server error\"}"

const MALFORMEDJSON_errorDesc = "Invalid JSON body"

func WriteResponseWithStatus(w http.ResponseWriter, status int, body any) {
	jsonByte, err := json.Marshal(body)
	if err != nil {
		WriteInternalErrorResponse(w)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(jsonByte)
}

func WriteErrorWithStatus(w http.ResponseWriter, status int, detail string) {
	WriteResponseWithStatus(w, status, ErrorResponse{Detail: detail})
}

func WriteInternalErrorResponse(w http.ResponseWriter) {
	// implementation similar to http.Error, only difference is the Content-type
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusInternalServerError)
	_, _ = fmt.Fprintln(w, INTERNALERRORJSON)
}

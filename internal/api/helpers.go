package api

import (
	"encoding/json"
	stderrors "errors"
	"io"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/vytor/neuroprofile/internal/errors"
	"github.com/vytor/neuroprofile/internal/ingest"
	"github.com/vytor/neuroprofile/internal/logger"
	"github.com/vytor/neuroprofile/internal/models"
)

const multipartMemory = 32 << 20

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.FromContext(r.Context()).Error("failed to encode response: %v", err)
	}
}

// readRecording decodes a session document sent either as the raw request body
// or as the "file" field of a multipart form.
func readRecording(r *http.Request) (models.Recording, error) {
	body, closeFn, err := uploadBody(r)
	if err != nil {
		return models.Recording{}, err
	}
	defer closeFn()
	return ingest.Decode(body)
}

func uploadBody(r *http.Request) (io.Reader, func(), error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType != "multipart/form-data" {
		return r.Body, func() {}, nil
	}

	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if stderrors.As(err, &tooLarge) {
			return nil, nil, err
		}
		return nil, nil, errors.NewBadRequestError("invalid multipart form: " + err.Error())
	}
	file, _, err := r.FormFile("file")
	if err != nil {
		return nil, nil, errors.NewValidationError("file", "multipart upload needs a file field")
	}
	return file, func() { _ = file.Close() }, nil
}

func parseSessionFilter(r *http.Request) (models.SessionFilter, error) {
	q := r.URL.Query()
	filter := models.SessionFilter{
		Status:   strings.ToLower(strings.TrimSpace(q.Get("status"))),
		OrderDir: strings.ToUpper(q.Get("order")),
	}

	var err error
	if filter.Limit, err = queryInt(q.Get("limit")); err != nil {
		return filter, errors.NewValidationError("limit", "must be an integer")
	}
	if filter.Offset, err = queryInt(q.Get("offset")); err != nil {
		return filter, errors.NewValidationError("offset", "must be an integer")
	}
	if filter.OrderDir != "" && filter.OrderDir != "ASC" && filter.OrderDir != "DESC" {
		return filter, errors.NewValidationError("order", "must be asc or desc")
	}
	return filter, nil
}

func queryInt(v string) (int, error) {
	if v == "" {
		return 0, nil
	}
	return strconv.Atoi(v)
}

func queryBool(v string) bool {
	b, _ := strconv.ParseBool(v)
	return b
}

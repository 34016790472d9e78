// Package handlers provides HTTP request handlers for the meterexporter API.
// This file contains the decoding, validation and response helpers shared by
// the ingestion handlers.
package handlers

import (
	"bytes"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/anstrom/meterexporter/internal/api/middleware"
	"github.com/anstrom/meterexporter/internal/errors"
)

// maxRequestSize bounds the body of an ingestion request.
const maxRequestSize = 1 << 20

const contentTypeText = "text/plain; charset=utf-8"

// newValidator returns a validator that reports fields by their JSON names.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// decodePayload reads a JSON object from the request body into dest and
// checks that every required field is present. An empty body decodes as an
// empty object so that it is reported as missing fields.
func decodePayload(r *http.Request, v *validator.Validate, dest interface{}) error {
	var body []byte
	if r.Body != nil {
		var err error
		body, err = io.ReadAll(http.MaxBytesReader(nil, r.Body, maxRequestSize))
		if err != nil {
			var maxErr *http.MaxBytesError
			if stderrors.As(err, &maxErr) {
				return errors.WrapInvalidBodyError(fmt.Errorf("request body too large (max %d bytes)", maxErr.Limit))
			}
			return errors.WrapInvalidBodyError(err)
		}
	}

	if len(bytes.TrimSpace(body)) > 0 {
		if err := json.Unmarshal(body, dest); err != nil {
			return errors.WrapInvalidBodyError(err)
		}
	}

	return validatePresence(v, dest)
}

// validatePresence converts validator failures into a MISSING_FIELD error.
func validatePresence(v *validator.Validate, dest interface{}) error {
	err := v.Struct(dest)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !stderrors.As(err, &verrs) {
		return errors.WrapInvalidBodyError(err)
	}

	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fe.Field())
	}
	return errors.NewMissingFieldError(fields...)
}

// writeText writes a plain-text response with the given status code.
func writeText(w http.ResponseWriter, statusCode int, msg string) {
	w.Header().Set("Content-Type", contentTypeText)
	w.WriteHeader(statusCode)
	_, _ = io.WriteString(w, msg)
}

// writeRecordError maps an ingestion error to its HTTP response.
func writeRecordError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	requestID := middleware.GetRequestID(r)

	switch errors.GetCode(err) {
	case errors.CodeMissingField:
		logger.Debug("Rejected reading with missing fields",
			"request_id", requestID,
			"path", r.URL.Path,
			"fields", errors.MissingFields(err))
		writeText(w, http.StatusBadRequest,
			"Missing required fields: "+strings.Join(errors.MissingFields(err), ", "))
	case errors.CodeInvalidBody:
		logger.Debug("Rejected undecodable reading",
			"request_id", requestID,
			"path", r.URL.Path,
			"error", err)
		msg := "Invalid JSON body"
		if cause := stderrors.Unwrap(err); cause != nil {
			msg += ": " + cause.Error()
		}
		writeText(w, http.StatusBadRequest, msg)
	default:
		logger.Error("Failed to record reading",
			"request_id", requestID,
			"path", r.URL.Path,
			"error", err)
		writeText(w, http.StatusInternalServerError, "Failed to record reading")
	}
}

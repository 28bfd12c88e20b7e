// Copyright (c) 2026 BCR. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package request provides utilities for extracting data from HTTP requests.

It abstracts away the underlying router's parameter extraction and common
body decoding patterns, ensuring consistent error handling and type safety.
*/
package requestutil

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/bcr-api/bcr/internal/platform/apperr"
	"github.com/bcr-api/bcr/internal/platform/ctxutil"
	"github.com/bcr-api/bcr/internal/platform/sec"
	"github.com/bcr-api/bcr/internal/platform/validate"
)

// maxBodyBytes caps JSON request bodies.
const maxBodyBytes = 1 << 20

var errNoAuthUser = errors.New("request: no authenticated user in context")

/*
DecodeJSON reads the request body and decodes it into the target structure.

Returns:
  - error: a 422 ValidationError if decoding fails, otherwise nil
*/
func DecodeJSON(writer http.ResponseWriter, request *http.Request, target any) error {
	body := http.MaxBytesReader(writer, request.Body, maxBodyBytes)
	if err := json.NewDecoder(body).Decode(target); err != nil {
		return validate.InvalidJSON(err)
	}
	return nil
}

/*
Int64Param parses a named numeric URL parameter.

The boolean is false when the parameter is missing or not a positive integer.
*/
func Int64Param(request *http.Request, name string) (int64, bool) {
	value, err := strconv.ParseInt(chi.URLParam(request, name), 10, 64)
	if err != nil || value <= 0 {
		return 0, false
	}
	return value, true
}

/*
RequiredUser returns the verified token payload of the current request.

Returns:
  - error: a 401 InvalidTokenError if the request did not pass the authorize guard
*/
func RequiredUser(request *http.Request) (*sec.TokenPayload, error) {
	payload := ctxutil.GetAuthUser(request.Context())
	if payload == nil {
		return nil, apperr.InvalidToken(errNoAuthUser)
	}
	return payload, nil
}

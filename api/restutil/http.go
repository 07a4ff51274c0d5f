// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package restutil

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/gorilla/schema"

	"github.com/betcoin/pollbet/poll"
	"github.com/betcoin/pollbet/view"
)

type httpError struct {
	cause  error
	status int
}

func (e *httpError) Error() string {
	return e.cause.Error()
}

// BadRequest convenience method to create http bad request error.
func BadRequest(cause error) error {
	return &httpError{
		cause:  cause,
		status: http.StatusBadRequest,
	}
}

// HandlerFunc like http.HandlerFunc, bu it returns an error.
// If the returned error is httpError type, httpError.status will be responded,
// otherwise http.StatusInternalServerError responded.
type HandlerFunc func(http.ResponseWriter, *http.Request) error

// WrapHandlerFunc convert HandlerFunc to http.HandlerFunc.
func WrapHandlerFunc(f HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := f(w, r)
		if err != nil {
			if he, ok := err.(*httpError); ok {
				if he.cause != nil {
					http.Error(w, he.cause.Error(), he.status)
				} else {
					w.WriteHeader(he.status)
				}
			} else {
				http.Error(w, err.Error(), http.StatusInternalServerError)
			}
		}
	}
}

// content types
const (
	JSONContentType = "application/json; charset=utf-8"
)

// ParseJSON parse a JSON object using strict mode.
func ParseJSON(r io.Reader, v any) error {
	decoder := json.NewDecoder(r)
	decoder.DisallowUnknownFields()
	return decoder.Decode(v)
}

// WriteJSONStatus responds an object in JSON encoding with the given status.
func WriteJSONStatus(w http.ResponseWriter, status int, obj any) error {
	w.Header().Set("Content-Type", JSONContentType)
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(obj)
}

var queryDecoder = func() *schema.Decoder {
	d := schema.NewDecoder()
	d.IgnoreUnknownKeys(true)
	return d
}()

// ParseQuery decodes the url query of r into v, a pointer to a struct with schema tags.
func ParseQuery(r *http.Request, v any) error {
	if err := queryDecoder.Decode(v, r.URL.Query()); err != nil {
		return BadRequest(err)
	}
	return nil
}

// StatusOf maps an error kind to the http status responded with its view model.
func StatusOf(kind poll.Kind) int {
	switch kind {
	case poll.InvalidInput, poll.InvalidOption:
		return http.StatusBadRequest
	case poll.NotFound:
		return http.StatusNotFound
	case poll.PollClosed, poll.Rejected:
		return http.StatusConflict
	case poll.SubmissionRejected:
		return http.StatusUnprocessableEntity
	case poll.NetworkError:
		return http.StatusBadGateway
	case poll.Timeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// WriteModel responds a view model, with okStatus when ready and the status of
// its failure kind otherwise.
func WriteModel[T any](w http.ResponseWriter, m view.Model[T], okStatus int) error {
	status := okStatus
	if m.IsError() {
		status = StatusOf(m.Kind())
	}
	return WriteJSONStatus(w, status, m)
}

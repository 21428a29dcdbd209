// Package rest implementa el remote store contra la API HTTP (cmd/api).
// La identidad viaja en los headers del httpclient; el servidor decide el
// owner, así que los parámetros de owner acá son sólo informativos.
package rest

import (
	"errors"
	"net/http"
	"net/url"
	"strings"

	"pet-care-log/internal/platform/httpclient"
	"pet-care-log/internal/ports/store"
)

// Identity arma los headers de identidad: token si hay, si no el header de dev.
func Identity(c *httpclient.Client, userID, token string) {
	if c.Headers == nil {
		c.Headers = map[string]string{}
	}
	if strings.TrimSpace(token) != "" {
		c.Headers["Authorization"] = "Bearer " + strings.TrimSpace(token)
		return
	}
	if strings.TrimSpace(userID) != "" {
		c.Headers["X-Debug-User-ID"] = strings.TrimSpace(userID)
	}
}

// mapErr traduce status HTTP a los errores del store. El resto pasa tal cual.
func mapErr(err error) error {
	if err == nil {
		return nil
	}
	switch httpclient.StatusOf(err) {
	case http.StatusNotFound:
		return store.ErrNotFound
	case http.StatusConflict:
		return store.ErrConflict
	}
	var he *httpclient.HTTPError
	if errors.As(err, &he) && he.Body != "" {
		// lo que ve el usuario es el mensaje del servidor
		return &serverError{status: he.StatusCode, msg: he.Body, err: err}
	}
	return err
}

type serverError struct {
	status int
	msg    string
	err    error
}

func (e *serverError) Error() string { return e.msg }
func (e *serverError) Unwrap() error { return e.err }

func escape(seg string) string {
	return url.PathEscape(strings.TrimSpace(seg))
}

// ErrUnsupported: la API no expone esa operación.
var ErrUnsupported = errors.New("rest: operation not supported")

type errUnsupported string

func (e errUnsupported) Error() string        { return "rest: " + string(e) + " not supported" }
func (e errUnsupported) Is(target error) bool { return target == ErrUnsupported }

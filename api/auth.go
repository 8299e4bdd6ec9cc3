package api

/*
 * Dual-licensed under Apache-2.0 and MIT.
 *
 * You can get a copy of the Apache License at
 *
 * http://www.apache.org/licenses/LICENSE-2.0
 *
 * You can also get a copy of the MIT License at
 *
 * http://opensource.org/licenses/MIT
 *
 * @wcgcyx - https://github.com/wcgcyx
 */

import (
	"crypto/subtle"
	"fmt"
	"net/http"
	"strings"
)

// AuthHandler guards one API route with its own bearer token.
type AuthHandler struct {
	// route is the path served, for logging.
	route string

	// token is the only token accepted on the route.
	token string

	// Next serves authorised calls.
	Next http.HandlerFunc
}

// ServeHTTP is used to serve HTTP.
//
// @input - response writer, http request.
func (h *AuthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	token, err := bearerToken(r)
	if err != nil {
		log.Warnf("Reject call to %v from %s: %v", h.route, r.RemoteAddr, err.Error())
		http.Error(w, err.Error(), http.StatusUnauthorized)
		return
	}
	if subtle.ConstantTimeCompare([]byte(token), []byte(h.token)) != 1 {
		log.Warnf("Reject call to %v from %s: token not allowed on this route", h.route, r.RemoteAddr)
		http.Error(w, "token not allowed", http.StatusUnauthorized)
		return
	}
	h.Next(w, r)
}

// bearerToken gets the token of a call, from the Authorization header or,
// for websocket clients that cannot set headers, from the token query parameter.
//
// @input - http request.
//
// @output - token, error.
func bearerToken(r *http.Request) (string, error) {
	header := r.Header.Get("Authorization")
	if header == "" {
		token := r.URL.Query().Get("token")
		if token == "" {
			return "", fmt.Errorf("empty token")
		}
		return token, nil
	}
	token := strings.TrimPrefix(header, "Bearer ")
	if token == header {
		return "", fmt.Errorf("missing Bearer prefix in auth header")
	}
	if token == "" {
		return "", fmt.Errorf("empty token")
	}
	return token, nil
}

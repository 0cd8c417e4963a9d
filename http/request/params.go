package request

import (
	"net"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"
)

// RouteInt64Param returns an URL route parameter as int64.
func RouteInt64Param(r *http.Request, param string) int64 {
	vars := mux.Vars(r)
	value, err := strconv.ParseInt(vars[param], 10, 64)
	if err != nil || value < 0 {
		return 0
	}
	return value
}

// QueryInt64Param returns a query string parameter as int64.
func QueryInt64Param(r *http.Request, param string, defaultValue int64) int64 {
	value, err := strconv.ParseInt(r.URL.Query().Get(param), 10, 64)
	if err != nil {
		return defaultValue
	}
	return value
}

// FindClientIP returns the real client IP, honoring the usual proxy
// headers before falling back to the remote address.
func FindClientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		parts := strings.Split(forwarded, ",")
		return strings.TrimSpace(parts[0])
	}
	if realIP := r.Header.Get("X-Real-Ip"); realIP != "" {
		return strings.TrimSpace(realIP)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

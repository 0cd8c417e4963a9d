package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/niktanya/telegram-book-bot/http/request"
	"github.com/niktanya/telegram-book-bot/http/response"
	"github.com/niktanya/telegram-book-bot/log"
)

type Middleware struct {
	adminToken string
}

func NewMiddleware(adminToken string) *Middleware {
	return &Middleware{adminToken: adminToken}
}

func (m *Middleware) HandleCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type, Accept")
		if r.Method == http.MethodOptions {
			w.Header().Set("Access-Control-Max-Age", "7200")
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (m *Middleware) LoggingRequest(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log.Debug("Incoming request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.String("client_ip", request.ClientIP(r)))
		next.ServeHTTP(w, r)
	})
}

// AuthenticationInterceptor requires the configured admin bearer
// token on every request.
func (m *Middleware) AuthenticationInterceptor(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := getAccessToken(r)
		if token == "" || subtle.ConstantTimeCompare([]byte(token), []byte(m.adminToken)) != 1 {
			log.Debug("[API] Rejecting request with bad admin token",
				zap.String("client_ip", request.ClientIP(r)),
				zap.String("user_agent", r.UserAgent()))
			response.Unauthorized(w, r)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func getAccessToken(r *http.Request) string {
	authorizationHeader := r.Header.Get("Authorization")
	if authorizationHeader != "" {
		splitToken := strings.Split(authorizationHeader, "Bearer ")
		if len(splitToken) == 2 {
			return splitToken[1]
		}
	}
	return ""
}

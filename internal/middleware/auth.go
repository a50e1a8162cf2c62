package middleware

import (
	"crypto/subtle"
	"log/slog"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	models "wikipress/internal/domain/models/wiki"
	"wikipress/internal/httputil"
)

// editClaims is the JWT payload issued to editor clients. A token is only as
// good as its "edit" claim; identity is informational.
type editClaims struct {
	Edit bool `json:"edit"`
	jwt.RegisteredClaims
}

// Auth resolves the request's caller from the Authorization header and stores
// it in the context. Two credential forms are accepted: the static API token
// (full editor access) and an HS256 JWT carrying an "edit" claim. Missing or
// invalid credentials degrade to the anonymous caller rather than rejecting
// the request, because read endpoints serve public content without auth.
func Auth(apiToken, jwtSecret string, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			caller := resolveCaller(r, apiToken, jwtSecret, logger)
			next.ServeHTTP(w, httputil.WithCaller(r, caller))
		})
	}
}

func resolveCaller(r *http.Request, apiToken, jwtSecret string, logger *slog.Logger) models.Caller {
	header := r.Header.Get("Authorization")
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || token == "" {
		return models.Anonymous
	}

	if apiToken != "" && subtle.ConstantTimeCompare([]byte(token), []byte(apiToken)) == 1 {
		return models.Caller{Editor: true, Subject: "api-token"}
	}

	if jwtSecret != "" {
		claims := &editClaims{}
		parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
			return []byte(jwtSecret), nil
		}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}))
		if err == nil && parsed.Valid && claims.Edit {
			return models.Caller{Editor: true, Subject: claims.Subject}
		}
		if err != nil {
			logger.Debug("rejected bearer token", "error", err)
		}
	}

	return models.Anonymous
}

package api

import (
	"context"
	"net/http"

	"garage/internal/repository"
)

const sessionCookie = "garage_session"

type sessionKey struct{}

// SessionMiddleware attaches the visitor's estimator session to the request,
// starting one and setting the cookie when none is live.
func SessionMiddleware(repo *repository.SessionRepository) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := ""
			if c, err := r.Cookie(sessionCookie); err == nil {
				id = c.Value
			}
			sess, created := repo.GetOrCreate(id)
			if created {
				http.SetCookie(w, &http.Cookie{
					Name:     sessionCookie,
					Value:    sess.ID,
					Path:     "/",
					HttpOnly: true,
					SameSite: http.SameSiteLaxMode,
				})
			}
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), sessionKey{}, sess)))
		})
	}
}

func sessionFrom(r *http.Request) *repository.Session {
	sess, _ := r.Context().Value(sessionKey{}).(*repository.Session)
	return sess
}

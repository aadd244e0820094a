package misc

import (
	"net/http"
	"time"
)

// SetCookie writes a session cookie; a non-positive age expires it
// immediately.
func SetCookie(w http.ResponseWriter, domain, name, value string, secure bool, age time.Duration) {
	c := &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		Domain:   domain,
		HttpOnly: true,
		Secure:   secure,
	}
	if age > 0 {
		c.Expires = time.Now().Add(age)
	} else {
		c.MaxAge = -1
	}
	http.SetCookie(w, c)
}

// RefreshCookie re-issues an incoming cookie with a fresh expiry; a cookie
// the request never carried is left alone.
func RefreshCookie(w http.ResponseWriter, r *http.Request, domain, name string, age time.Duration) {
	c, err := r.Cookie(name)
	if err != nil {
		return
	}
	c.Path, c.Domain = "/", domain
	c.Expires = time.Now().Add(age)
	http.SetCookie(w, c)
}

func GetCookie(r *http.Request, name string) string {
	c, err := r.Cookie(name)
	if err != nil {
		return ""
	}
	return c.Value
}

func DeleteCookie(w http.ResponseWriter, domain, name string, secure bool) {
	SetCookie(w, domain, name, "", secure, -1)
}

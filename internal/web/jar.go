package web

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/SicilyCialo/kannacs/internal/storage"
)

// RequestJar reads cookies from an incoming request and writes Set-Cookie
// headers on the response. Writes are visible to later reads in the same
// request.
type RequestJar struct {
	r       *http.Request
	w       http.ResponseWriter
	secure  bool
	now     func() time.Time
	overlay map[string]*string // nil means removed
}

func NewRequestJar(w http.ResponseWriter, r *http.Request, secure bool) *RequestJar {
	return &RequestJar{r: r, w: w, secure: secure, now: time.Now, overlay: map[string]*string{}}
}

func (j *RequestJar) Get(_ context.Context, name string) (string, bool, error) {
	if v, ok := j.overlay[name]; ok {
		if v == nil {
			return "", false, nil
		}
		return *v, true, nil
	}
	c, err := j.r.Cookie(name)
	if errors.Is(err, http.ErrNoCookie) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	v, err := url.QueryUnescape(c.Value)
	if err != nil {
		return "", false, fmt.Errorf("unescape cookie %s: %w", name, err)
	}
	return v, true, nil
}

func (j *RequestJar) Set(_ context.Context, name, value string, expires time.Time) error {
	maxAge := int(expires.Sub(j.now()) / time.Second)
	if maxAge <= 0 {
		return j.Remove(context.Background(), name)
	}
	escaped := url.QueryEscape(value)
	if n := len(name) + len(escaped); n > storage.MaxCookieBytes {
		return fmt.Errorf("%w: %s needs %d bytes", storage.ErrValueTooLarge, name, n)
	}
	http.SetCookie(j.w, &http.Cookie{
		Name:     name,
		Value:    escaped,
		Path:     "/",
		Expires:  expires.UTC(),
		MaxAge:   maxAge,
		Secure:   j.secure,
		SameSite: http.SameSiteLaxMode,
	})
	v := value
	j.overlay[name] = &v
	return nil
}

func (j *RequestJar) Remove(_ context.Context, names ...string) error {
	for _, name := range names {
		http.SetCookie(j.w, &http.Cookie{
			Name:     name,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			Secure:   j.secure,
			SameSite: http.SameSiteLaxMode,
		})
		j.overlay[name] = nil
	}
	return nil
}

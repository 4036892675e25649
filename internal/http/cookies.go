package httpx

import "net/http"

// sessionCookieName identifies the browser session the credential slots are
// keyed under. The cookie carries an opaque id, never a token.
const sessionCookieName = "sid"

const sessionCookieMaxAge = 8 * 60 * 60

func sessionIDFromRequest(r *http.Request) (string, bool) {
	c, err := r.Cookie(sessionCookieName)
	if err != nil || c.Value == "" {
		return "", false
	}
	return c.Value, true
}

func setSessionCookie(w http.ResponseWriter, sid, domain string) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    sid,
		Path:     "/",
		Domain:   domain,
		MaxAge:   sessionCookieMaxAge,
		HttpOnly: true,
		Secure:   domain != "",
		SameSite: http.SameSiteLaxMode,
	})
}

func clearSessionCookie(w http.ResponseWriter, domain string) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		Domain:   domain,
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   domain != "",
		SameSite: http.SameSiteLaxMode,
	})
}

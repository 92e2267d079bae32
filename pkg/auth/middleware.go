package auth

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"foundernet/pkg/response"
)

const principalKey = "auth.principal"

// Principal is the authenticated caller.
type Principal struct {
	UUID string
	Role string
}

func (p Principal) IsAdmin() bool { return p.Role == "admin" }

func SetPrincipal(c *gin.Context, p Principal) {
	c.Set(principalKey, p)
}

func CurrentPrincipal(c *gin.Context) (Principal, bool) {
	v, ok := c.Get(principalKey)
	if !ok {
		return Principal{}, false
	}
	p, ok := v.(Principal)
	return p, ok
}

// CookieSettings controls the session cookie carrying the token for browser clients.
type CookieSettings struct {
	Name   string
	Secure bool
	Domain string
}

type Middleware struct {
	tokens *TokenManager
	cookie CookieSettings
}

func NewMiddleware(tokens *TokenManager, cookie CookieSettings) *Middleware {
	if cookie.Name == "" {
		cookie.Name = "fn_auth"
	}
	return &Middleware{tokens: tokens, cookie: cookie}
}

// Required rejects requests without a valid token.
func (m *Middleware) Required() gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := m.authenticate(c)
		if !ok {
			response.Abort(c, http.StatusUnauthorized, "unauthorized")
			return
		}
		SetPrincipal(c, p)
		c.Next()
	}
}

// Optional attaches the principal when a valid token is present and never rejects.
func (m *Middleware) Optional() gin.HandlerFunc {
	return func(c *gin.Context) {
		if p, ok := m.authenticate(c); ok {
			SetPrincipal(c, p)
		}
		c.Next()
	}
}

// RequireRole must run after Required.
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := CurrentPrincipal(c)
		if !ok {
			response.Abort(c, http.StatusUnauthorized, "unauthorized")
			return
		}
		for _, r := range roles {
			if p.Role == r {
				c.Next()
				return
			}
		}
		response.Abort(c, http.StatusForbidden, "forbidden")
	}
}

func (m *Middleware) authenticate(c *gin.Context) (Principal, bool) {
	token := m.tokenFromRequest(c)
	if token == "" {
		return Principal{}, false
	}
	claims, err := m.tokens.Parse(token)
	if err != nil {
		return Principal{}, false
	}
	return Principal{UUID: claims.UserUUID, Role: claims.Role}, true
}

// tokenFromRequest checks the bearer header, then the cookie, then ?token= (websocket clients).
func (m *Middleware) tokenFromRequest(c *gin.Context) string {
	if h := c.GetHeader("Authorization"); h != "" && strings.HasPrefix(strings.ToLower(h), "bearer ") {
		return strings.TrimSpace(h[len("Bearer "):])
	}
	if v, err := c.Cookie(m.cookie.Name); err == nil && v != "" {
		return v
	}
	return c.Query("token")
}

func (m *Middleware) SetCookie(c *gin.Context, token string, expiresAt time.Time) {
	maxAge := int(time.Until(expiresAt).Seconds())
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(m.cookie.Name, token, maxAge, "/", m.cookie.Domain, m.cookie.Secure, true)
}

func (m *Middleware) ClearCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(m.cookie.Name, "", -1, "/", m.cookie.Domain, m.cookie.Secure, true)
}

func (m *Middleware) Tokens() *TokenManager { return m.tokens }

// CanActFor reports whether the caller may modify resources owned by ownerUUID.
func CanActFor(c *gin.Context, ownerUUID string) bool {
	p, ok := CurrentPrincipal(c)
	if !ok {
		return false
	}
	return p.UUID == ownerUUID || p.IsAdmin()
}

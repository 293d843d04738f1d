package devserver

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/apiclient/logger"
	"github.com/kbukum/apiclient/observability"
)

// EchoResponse is the body returned by /api/echo.
type EchoResponse struct {
	Method        string              `json:"method"`
	Path          string              `json:"path"`
	ContentType   string              `json:"content_type,omitempty"`
	Authorization string              `json:"authorization,omitempty"`
	RequestID     string              `json:"request_id,omitempty"`
	Form          map[string][]string `json:"form,omitempty"`
	Query         map[string][]string `json:"query,omitempty"`
	Cookies       map[string]string   `json:"cookies,omitempty"`
}

func (s *Server) registerRoutes(api *gin.RouterGroup) {
	api.POST("/login", s.login)
	api.POST("/logout", s.logout)
	api.GET("/me", s.me)
	api.Any("/echo", s.echo)
	api.Any("/status/:code", s.status)
	api.GET("/health", s.health)
}

// login issues a signed session token and a session cookie. Form field
// "user" is required.
func (s *Server) login(c *gin.Context) {
	user := c.PostForm("user")
	if user == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user is required"})
		return
	}
	token, err := s.sessions.issue(user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.SetCookie(s.config.SessionCookie, token, 0, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"user": user, "token": token})
}

// logout revokes the presented token. /api/me answers 403 for it afterwards.
func (s *Server) logout(c *gin.Context) {
	token := c.GetHeader("Authorization")
	if token == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
		return
	}
	if err := s.sessions.revoke(token); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
		return
	}
	c.SetCookie(s.config.SessionCookie, "", -1, "/", "", false, true)
	c.Status(http.StatusNoContent)
}

// me answers 401 for missing or foreign tokens and 403 for expired or
// revoked ones.
func (s *Server) me(c *gin.Context) {
	token := c.GetHeader("Authorization")
	if token == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
		return
	}
	claims, err := s.sessions.verify(token)
	switch {
	case errors.Is(err, errTokenExpired), errors.Is(err, errTokenRevoked):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case err != nil:
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
	default:
		session, _ := c.Cookie(s.config.SessionCookie)
		c.JSON(http.StatusOK, gin.H{"user": claims.Subject, "token": token, "session": session != ""})
	}
}

func (s *Server) echo(c *gin.Context) {
	resp := EchoResponse{
		Method:        c.Request.Method,
		Path:          c.Request.URL.Path,
		ContentType:   c.ContentType(),
		Authorization: c.GetHeader("Authorization"),
		Query:         c.Request.URL.Query(),
		Cookies:       make(map[string]string),
	}
	if id, ok := c.Get(logger.FieldRequestID); ok {
		resp.RequestID, _ = id.(string)
	}
	if err := c.Request.ParseForm(); err == nil && len(c.Request.PostForm) > 0 {
		resp.Form = c.Request.PostForm
	}
	for _, ck := range c.Request.Cookies() {
		resp.Cookies[ck.Name] = ck.Value
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) status(c *gin.Context) {
	code, err := strconv.Atoi(c.Param("code"))
	if err != nil || code < 200 || code > 599 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "code must be an HTTP status between 200 and 599"})
		return
	}
	c.JSON(code, gin.H{"status": code, "text": http.StatusText(code)})
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, observability.NewServiceHealth("apiclient-devserver", s.version))
}

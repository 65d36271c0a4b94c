package httptransport

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"lvlhub-server-go/internal/app"
	"lvlhub-server-go/internal/domain/dispatch"
	"lvlhub-server-go/internal/domain/identity"
	identitymodel "lvlhub-server-go/internal/domain/identity/model"
	"lvlhub-server-go/internal/domain/session"
	platformerrors "lvlhub-server-go/internal/platform/errors"
	"lvlhub-server-go/internal/platform/logging"
)

// Service binds the platform facade to HTTP routes.
type Service struct {
	platform *app.Platform
	logger   *logging.Logger
}

// NewService creates the HTTP binding over the platform facade.
func NewService(platform *app.Platform, logger *logging.Logger) (*Service, error) {
	if platform == nil {
		return nil, platformerrors.New(platformerrors.KindTransport, "http.new", "platform is required")
	}
	if logger == nil {
		return nil, platformerrors.New(platformerrors.KindTransport, "http.new", "logger is required")
	}
	return &Service{platform: platform, logger: logger}, nil
}

// Register binds the API routes.
func (s *Service) Register(_ context.Context, router *gin.RouterGroup) error {
	router.GET("/healthz", s.handleHealth)
	router.GET("/suites", s.handleSuites)

	router.POST("/users", s.handleRegisterUser)

	router.POST("/session", s.handleCreateSession)
	router.POST("/session/refresh", s.handleRefreshSession)
	router.DELETE("/session", s.handleRevokeSession)

	router.POST("/request", s.handleProcessRequest)

	s.logger.Info("HTTP API routes registered")
	return nil
}

func (s *Service) handleHealth(c *gin.Context) {
	stats, err := s.platform.Stats(c.Request.Context())
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "stats unavailable", nil)
		return
	}
	RespondSuccess(c, http.StatusOK, stats, "")
}

func (s *Service) handleSuites(c *gin.Context) {
	RespondSuccess(c, http.StatusOK, gin.H{
		"suites":        s.platform.SuiteCatalog(),
		"request_types": s.platform.RequestTypes(),
	}, "")
}

type registerUserRequest struct {
	UserID       string         `json:"user_id"`
	Username     string         `json:"username" binding:"required"`
	Secret       string         `json:"secret" binding:"required"`
	SuiteType    string         `json:"suite_type" binding:"required"`
	Demographics map[string]any `json:"demographics"`
	Preferences  map[string]any `json:"preferences"`
}

func (s *Service) handleRegisterUser(c *gin.Context) {
	var req registerUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid request body", nil)
		return
	}

	ident, err := s.platform.RegisterUser(c.Request.Context(), identity.RegisterParams{
		UserID:       req.UserID,
		Username:     req.Username,
		Secret:       req.Secret,
		SuiteType:    identitymodel.SuiteType(req.SuiteType),
		Demographics: req.Demographics,
		Preferences:  req.Preferences,
	})
	if err != nil {
		if errors.Is(err, identity.ErrAlreadyRegistered) {
			RespondError(c, http.StatusConflict, "username already registered", nil)
			return
		}
		RespondError(c, http.StatusBadRequest, err.Error(), nil)
		return
	}
	RespondSuccess(c, http.StatusCreated, ident, "user registered")
}

type createSessionRequest struct {
	UserID   string `json:"user_id"`
	Username string `json:"username" binding:"required"`
	Secret   string `json:"secret" binding:"required"`
}

func (s *Service) handleCreateSession(c *gin.Context) {
	var req createSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid request body", nil)
		return
	}

	token, err := s.platform.CreateSession(c.Request.Context(), req.UserID, app.Credentials{
		Username: req.Username,
		Secret:   req.Secret,
	})
	if err != nil {
		s.respondDomainError(c, err)
		return
	}
	RespondSuccess(c, http.StatusCreated, gin.H{"token": token}, "session created")
}

func (s *Service) handleRefreshSession(c *gin.Context) {
	token, ok := bearerToken(c)
	if !ok {
		RespondError(c, http.StatusUnauthorized, "missing bearer token", nil)
		return
	}
	refreshed, err := s.platform.RefreshSession(c.Request.Context(), token)
	if err != nil {
		s.respondDomainError(c, err)
		return
	}
	RespondSuccess(c, http.StatusOK, gin.H{"token": refreshed}, "session refreshed")
}

func (s *Service) handleRevokeSession(c *gin.Context) {
	token, ok := bearerToken(c)
	if !ok {
		RespondError(c, http.StatusUnauthorized, "missing bearer token", nil)
		return
	}
	if err := s.platform.RevokeSession(c.Request.Context(), token); err != nil {
		s.respondDomainError(c, err)
		return
	}
	RespondSuccess(c, http.StatusOK, nil, "session revoked")
}

func (s *Service) handleProcessRequest(c *gin.Context) {
	token, ok := bearerToken(c)
	if !ok {
		RespondError(c, http.StatusUnauthorized, "missing bearer token", nil)
		return
	}

	var req dispatch.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid request body", nil)
		return
	}

	result, err := s.platform.ProcessRequest(c.Request.Context(), token, req)
	if err != nil {
		s.respondDomainError(c, err)
		return
	}
	RespondSuccess(c, http.StatusOK, result, "")
}

// respondDomainError maps domain sentinels onto HTTP statuses. Auth and
// session failures share 401 so callers cannot probe token state.
func (s *Service) respondDomainError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, identity.ErrInvalidCredentials):
		RespondError(c, http.StatusUnauthorized, "invalid credentials", nil)
	case errors.Is(err, session.ErrSessionNotFound),
		errors.Is(err, session.ErrSessionExpired),
		errors.Is(err, session.ErrSessionRevoked):
		RespondError(c, http.StatusUnauthorized, err.Error(), nil)
	case errors.Is(err, dispatch.ErrUnknownType):
		RespondError(c, http.StatusBadRequest, err.Error(), nil)
	case errors.Is(err, dispatch.ErrHandlerTimeout):
		RespondError(c, http.StatusGatewayTimeout, err.Error(), nil)
	case errors.Is(err, dispatch.ErrHandlerFailed):
		RespondError(c, http.StatusBadGateway, err.Error(), nil)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		RespondError(c, http.StatusRequestTimeout, "request cancelled", nil)
	default:
		s.logger.Error("unhandled API error: %v", err)
		RespondError(c, http.StatusInternalServerError, "internal error", nil)
	}
}

func bearerToken(c *gin.Context) (string, bool) {
	header := c.GetHeader("Authorization")
	if header == "" {
		return "", false
	}
	token := strings.TrimPrefix(header, "Bearer ")
	if token == header || token == "" {
		return "", false
	}
	return token, true
}

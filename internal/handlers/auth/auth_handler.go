// internal/handlers/auth/auth_handler.go
package auth

import (
	"net/http"

	"tracksafe-service/internal/domain/auth"
	"tracksafe-service/internal/middleware"
	xerrors "tracksafe-service/internal/pkg/errors"
	"tracksafe-service/internal/pkg/response"
	authUsecase "tracksafe-service/internal/service/auth"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type AuthHandler struct {
	authService *authUsecase.AuthService
	logger      *zap.Logger
}

func NewAuthHandler(authService *authUsecase.AuthService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		logger:      logger,
	}
}

// ========== Registration ==========

// Register handles account signup (public endpoint)
func (h *AuthHandler) Register(c *gin.Context) {
	var req auth.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request", err)
		return
	}

	// Set IP and User-Agent
	req.IPAddress = c.ClientIP()
	req.UserAgent = c.GetHeader("User-Agent")

	loginResp, err := h.authService.Register(c.Request.Context(), &req)
	if err != nil {
		h.logger.Error("registration failed",
			zap.String("email", req.Email),
			zap.Error(err),
		)
		switch {
		case xerrors.Is(err, xerrors.ErrDuplicateEntry):
			response.Error(c, http.StatusConflict, "email already registered", err)
		case xerrors.Is(err, xerrors.ErrProfileWriteFailed):
			// Account exists but the profile is missing. The client is told
			// explicitly so it can retry the profile write.
			response.Error(c, http.StatusInternalServerError, "account created but profile write failed", err)
		default:
			response.Error(c, http.StatusBadRequest, "registration failed", err)
		}
		return
	}

	response.Success(c, http.StatusCreated, "registration successful", loginResp)
}

// ========== Login ==========

// Login handles user login
func (h *AuthHandler) Login(c *gin.Context) {
	var req auth.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request", err)
		return
	}

	// Set IP and User-Agent
	req.IPAddress = c.ClientIP()
	req.UserAgent = c.GetHeader("User-Agent")

	loginResp, err := h.authService.Login(c.Request.Context(), &req)
	if err != nil {
		h.logger.Error("login failed",
			zap.String("email", req.Email),
			zap.String("ip", req.IPAddress),
			zap.Error(err),
		)
		if xerrors.Is(err, xerrors.ErrRateLimited) {
			response.Error(c, http.StatusTooManyRequests, "too many login attempts", err)
			return
		}
		response.Error(c, http.StatusUnauthorized, "login failed", err)
		return
	}

	h.logger.Info("user logged in",
		zap.String("account_id", loginResp.User.AccountID),
		zap.String("email", loginResp.User.Email),
	)

	response.Success(c, http.StatusOK, "login successful", loginResp)
}

// ========== Logout ==========

// Logout handles user logout (requires auth)
func (h *AuthHandler) Logout(c *gin.Context) {
	accountID := middleware.MustGetAccountID(c)
	jti := middleware.MustGetJTI(c)

	if err := h.authService.Logout(c.Request.Context(), accountID, jti); err != nil {
		// A dead session is not the caller's problem: report success so
		// the client can finish clearing local state.
		h.logger.Error("logout failed",
			zap.String("account_id", accountID),
			zap.Error(err),
		)
	}

	response.Success(c, http.StatusOK, "logout successful", nil)
}

// LogoutAll handles logging out all sessions (requires auth)
func (h *AuthHandler) LogoutAll(c *gin.Context) {
	accountID := middleware.MustGetAccountID(c)

	if err := h.authService.LogoutAllSessions(c.Request.Context(), accountID); err != nil {
		response.Error(c, http.StatusInternalServerError, "logout all failed", err)
		return
	}

	response.Success(c, http.StatusOK, "all sessions logged out", nil)
}

// ========== Session ==========

// Session answers a restore probe with the authenticated user's identity
func (h *AuthHandler) Session(c *gin.Context) {
	accountID := middleware.MustGetAccountID(c)
	jti := middleware.MustGetJTI(c)

	info, err := h.authService.GetSessionInfo(c.Request.Context(), accountID, jti)
	if err != nil {
		response.Error(c, http.StatusUnauthorized, "session expired", err)
		return
	}

	response.Success(c, http.StatusOK, "session active", info)
}

// ========== Profile ==========

// GetProfile returns the authenticated user's profile
func (h *AuthHandler) GetProfile(c *gin.Context) {
	accountID := middleware.MustGetAccountID(c)

	profile, err := h.authService.GetProfile(c.Request.Context(), accountID)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "failed to get profile", err)
		return
	}

	response.Success(c, http.StatusOK, "profile retrieved", profile)
}

// UpdateProfile applies a partial profile update
func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	accountID := middleware.MustGetAccountID(c)

	var patch auth.ProfilePatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request", err)
		return
	}
	if patch.Empty() {
		response.Error(c, http.StatusBadRequest, "no fields to update", nil)
		return
	}

	profile, err := h.authService.UpdateProfile(c.Request.Context(), accountID, patch)
	if err != nil {
		h.logger.Error("profile update failed",
			zap.String("account_id", accountID),
			zap.Error(err),
		)
		response.Error(c, http.StatusInternalServerError, "profile update failed", err)
		return
	}

	response.Success(c, http.StatusOK, "profile updated", profile)
}

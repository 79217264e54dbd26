package handlers

import (
	"net/http"
	"time"

	"hostelhub/internal/caching"
	"hostelhub/internal/common"
	"hostelhub/internal/models"
	"hostelhub/internal/repositories"
	"hostelhub/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"
)

// Login attempts per client IP before the endpoint starts refusing.
const (
	loginRateLimit  = 10
	loginRateWindow = time.Minute
)

// AuthHandlers handles registration, login, token refresh and password
// changes.
type AuthHandlers struct {
	authService services.AuthService
	userRepo    repositories.UserRepository
	hostelRepo  repositories.HostelRepository
	cacheSvc    caching.CacheService
}

func NewAuthHandlers(authService services.AuthService, userRepo repositories.UserRepository, hostelRepo repositories.HostelRepository, cacheSvc caching.CacheService) *AuthHandlers {
	return &AuthHandlers{
		authService: authService,
		userRepo:    userRepo,
		hostelRepo:  hostelRepo,
		cacheSvc:    cacheSvc,
	}
}

// Register handles POST /v1/auth/register: creates a staff login under
// an existing hostel, identified by its code. Tenant logins are created
// through tenant onboarding instead.
func (h *AuthHandlers) Register(c echo.Context) error {
	ctx := c.Request().Context()

	var req struct {
		HostelCode string `json:"hostel_code"`
		Name       string `json:"name"`
		Email      string `json:"email"`
		Phone      string `json:"phone"`
		Password   string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	if req.HostelCode == "" || req.Name == "" || req.Email == "" || req.Password == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Hostel code, name, email and password are required")
	}
	if len(req.Password) < 8 {
		return echo.NewHTTPError(http.StatusBadRequest, "Password must be at least 8 characters")
	}

	hostel, err := h.hostelRepo.GetByCode(ctx, req.HostelCode)
	if err != nil {
		return handleServiceError(c, err)
	}

	if existing, err := h.userRepo.GetByEmail(ctx, req.Email); err == nil && existing != nil {
		return echo.NewHTTPError(http.StatusConflict, "User already exists")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to hash password")
	}

	user := &models.User{
		ID:           uuid.New(),
		HostelID:     hostel.ID,
		Email:        req.Email,
		PasswordHash: string(hashed),
		Name:         req.Name,
		Phone:        req.Phone,
		Role:         models.RoleStaff,
	}
	if err := h.userRepo.Create(ctx, user); err != nil {
		return handleServiceError(c, err)
	}

	tokens, err := h.authService.GenerateTokens(ctx, user)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to generate tokens")
	}

	return c.JSON(http.StatusCreated, map[string]interface{}{
		"tokens": tokens,
		"user":   user,
	})
}

// Login handles POST /v1/auth/login
func (h *AuthHandlers) Login(c echo.Context) error {
	// Throttle per client IP. Fails open when redis is unavailable so an
	// outage never locks everyone out.
	limited, err := h.cacheSvc.IsRateLimited(c.Request().Context(), "login:"+c.RealIP(), loginRateLimit, loginRateWindow)
	if err == nil && limited {
		return echo.NewHTTPError(http.StatusTooManyRequests, "Too many login attempts, try again later")
	}

	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	if req.Email == "" || req.Password == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Email and password are required")
	}

	tokens, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return handleServiceError(c, err)
	}
	return c.JSON(http.StatusOK, tokens)
}

// Refresh handles POST /v1/auth/refresh
func (h *AuthHandlers) Refresh(c echo.Context) error {
	var req struct {
		RefreshToken string `json:"refresh_token"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	if req.RefreshToken == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Refresh token is required")
	}

	tokens, err := h.authService.RefreshToken(c.Request().Context(), req.RefreshToken)
	if err != nil {
		return handleServiceError(c, err)
	}
	return c.JSON(http.StatusOK, tokens)
}

// Logout handles POST /v1/auth/logout
func (h *AuthHandlers) Logout(c echo.Context) error {
	var req struct {
		RefreshToken string `json:"refresh_token"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	if req.RefreshToken != "" {
		if err := h.authService.RevokeRefreshToken(c.Request().Context(), req.RefreshToken); err != nil {
			return handleServiceError(c, err)
		}
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Logged out"})
}

// ChangePassword handles POST /v1/auth/change-password
func (h *AuthHandlers) ChangePassword(c echo.Context) error {
	ctx := c.Request().Context()
	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	var req struct {
		CurrentPassword string `json:"current_password"`
		NewPassword     string `json:"new_password"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	if err := h.authService.ChangePassword(ctx, userID, req.CurrentPassword, req.NewPassword); err != nil {
		return handleServiceError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Password updated"})
}

package handler

import (
    "github.com/labstack/echo/v4"

    "github.com/iliyamo/advisor-booking/internal/repository"
    "github.com/iliyamo/advisor-booking/internal/service"
    "github.com/iliyamo/advisor-booking/internal/utils"
)

// AuthHandler implements admin registration and login.  A successful
// login yields an HS256 access token for the management endpoints.
type AuthHandler struct {
    admins     *repository.AdminRepo
    jwtSecret  string
    ttlMin     int
    bcryptCost int
}

// NewAuthHandler constructs an AuthHandler with the signing secret, token
// TTL in minutes and bcrypt cost from configuration.
func NewAuthHandler(admins *repository.AdminRepo, jwtSecret string, ttlMin, bcryptCost int) *AuthHandler {
    return &AuthHandler{admins: admins, jwtSecret: jwtSecret, ttlMin: ttlMin, bcryptCost: bcryptCost}
}

// credentialsRequest is the JSON body shared by register and login.
type credentialsRequest struct {
    Email    string `json:"email"`
    Password string `json:"password"`
}

// Register creates a new admin account.  The email is normalized before
// storage and must be unique; a duplicate comes back as a 409.
// POST /api/auth/register
func (h *AuthHandler) Register(c echo.Context) error {
    var req credentialsRequest
    if err := c.Bind(&req); err != nil {
        return respondInvalid(c, "malformed request body")
    }
    email := service.NormalizeEmail(req.Email)
    if !service.ValidEmail(email) {
        return respondInvalid(c, "email is not a valid email address")
    }
    if len(req.Password) < 8 {
        return respondInvalid(c, "password must be at least 8 characters")
    }

    hash, err := utils.HashPassword(req.Password, h.bcryptCost)
    if err != nil {
        return respondError(c, err)
    }
    id, err := h.admins.Create(c.Request().Context(), email, hash)
    if err != nil {
        return respondError(c, err)
    }
    return respondCreated(c, "admin created", echo.Map{"id": id, "email": email})
}

// Login verifies admin credentials and returns a signed access token.
// A lookup miss and a wrong password produce the same response so the
// endpoint does not reveal which emails exist.
// POST /api/auth/login
func (h *AuthHandler) Login(c echo.Context) error {
    var req credentialsRequest
    if err := c.Bind(&req); err != nil {
        return respondInvalid(c, "malformed request body")
    }
    email := service.NormalizeEmail(req.Email)
    admin, err := h.admins.GetByEmail(c.Request().Context(), email)
    if err != nil {
        return respondError(c, err)
    }
    if !utils.VerifyPassword(admin.PasswordHash, req.Password) {
        return respondError(c, repository.ErrInvalidCredentials)
    }

    tok, err := utils.NewAccessToken(h.jwtSecret, admin.ID, admin.Email, h.ttlMin)
    if err != nil {
        return respondError(c, err)
    }
    return respondOK(c, "login successful", echo.Map{
        "token":      tok.Token,
        "expires_at": tok.Exp,
        "admin":      echo.Map{"id": admin.ID, "email": admin.Email},
    })
}

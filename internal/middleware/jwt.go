package middleware // declare the middleware package; contains reusable HTTP middleware functions

import (
    "net/http" // HTTP status codes for responses
    "strings"  // string utilities for prefix checking and trimming

    "github.com/golang-jwt/jwt/v5" // JWT library for parsing and validating tokens
    "github.com/labstack/echo/v4"  // Echo framework used for defining middleware and handlers
)

// AdminAuth returns an Echo middleware that validates a Bearer access token
// and injects the token's subject and email claims into the request context.
// The provided secret must match the one used when issuing tokens.  This
// middleware wraps the admin routes so that handlers can identify the
// authenticated admin via `c.Get("admin_id")` and `c.Get("admin_email")`.
func AdminAuth(secret string) echo.MiddlewareFunc {
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            // A valid header starts with "Bearer " followed by the JWT.
            auth := c.Request().Header.Get("Authorization")
            if !strings.HasPrefix(auth, "Bearer ") {
                return c.JSON(http.StatusUnauthorized, echo.Map{
                    "success": false, "error": "missing bearer token", "code": "UNAUTHORIZED",
                })
            }
            raw := strings.TrimPrefix(auth, "Bearer ")

            // Parse with HS256 and our secret.  The callback checks that the
            // algorithm matches what we issue; anything else is rejected.
            tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
                if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
                    return nil, echo.ErrUnauthorized
                }
                return []byte(secret), nil
            })
            if err != nil || !tok.Valid {
                return c.JSON(http.StatusUnauthorized, echo.Map{
                    "success": false, "error": "invalid token", "code": "UNAUTHORIZED",
                })
            }

            claims, ok := tok.Claims.(jwt.MapClaims)
            if !ok {
                return c.JSON(http.StatusUnauthorized, echo.Map{
                    "success": false, "error": "invalid claims", "code": "UNAUTHORIZED",
                })
            }

            // Handlers read these with c.Get(); type assertions are left to
            // the consumers.
            c.Set("admin_id", claims["sub"])
            c.Set("admin_email", claims["email"])
            return next(c)
        }
    }
}

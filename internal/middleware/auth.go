package middleware

import (
	"net/http"
	"strings"

	"github.com/naluwan/bttdb-schedule/internal/schedule"
	"github.com/naluwan/bttdb-schedule/pkg/jwtutil"
	"github.com/naluwan/bttdb-schedule/pkg/logger"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// AuthMiddleware validates the bearer token and stores the acting employee's
// identity in the context. When the tenant middleware has already resolved
// the company, a token issued for a different company is rejected.
func AuthMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		log := logger.FromContext(c)

		// Get the Authorization header
		authHeader := c.Request().Header.Get("Authorization")
		if authHeader == "" {
			log.Warn("Missing Authorization header")
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing authorization token"})
		}

		// Check if it's a Bearer token
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			log.Warn("Invalid Authorization header format")
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid authorization format, expected Bearer token"})
		}

		// Validate the token
		claims, err := jwtutil.ValidateToken(parts[1])
		if err != nil {
			log.Warn("Invalid JWT token", zap.Error(err))
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid or expired token"})
		}

		if companyID, ok := GetCompanyIDFromContext(c); ok && claims.CompanyID != companyID {
			log.Warn("Token issued for another company",
				zap.Uint("token_company_id", claims.CompanyID),
				zap.Uint("path_company_id", companyID))
			return c.JSON(http.StatusForbidden, echo.Map{"error": "token not valid for this company"})
		}

		// Store user info in context for later use
		c.Set("user_id", claims.UserID)
		c.Set("email", claims.Email)
		c.Set("user_role", claims.Role)

		// Token is valid, proceed with the request
		return next(c)
	}
}

// GetActorFromContext returns the authenticated employee as a schedule actor.
func GetActorFromContext(c echo.Context) (schedule.Actor, bool) {
	userID, ok := c.Get("user_id").(uint)
	if !ok {
		return schedule.Actor{}, false
	}
	role, _ := c.Get("user_role").(string)
	return schedule.Actor{EmployeeID: userID, Role: role}, true
}

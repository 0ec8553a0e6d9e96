package middleware

import (
	"errors"
	"net/http"

	"github.com/naluwan/bttdb-schedule/internal/model"
	"github.com/naluwan/bttdb-schedule/pkg/database"
	"github.com/naluwan/bttdb-schedule/pkg/logger"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// TenantMiddleware resolves the :company path parameter to a company record
// and stores it in the context. Unknown slugs fail with 404 before any
// handler runs.
func TenantMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		log := logger.FromContext(c)

		slug := c.Param("company")
		if slug == "" {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "company not found"})
		}

		var company model.Company
		result := database.GetDB().Where("slug = ?", slug).First(&company)
		if result.Error != nil {
			if errors.Is(result.Error, gorm.ErrRecordNotFound) {
				log.Warn("Unknown company slug", zap.String("slug", slug))
				return c.JSON(http.StatusNotFound, echo.Map{"error": "company not found"})
			}
			log.Error("Failed to resolve company", zap.String("slug", slug), zap.Error(result.Error))
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to resolve company"})
		}

		c.Set("company", company)
		c.Set("company_id", company.ID)
		return next(c)
	}
}

// GetCompanyIDFromContext retrieves the resolved company ID from the context
func GetCompanyIDFromContext(c echo.Context) (uint, bool) {
	companyID, ok := c.Get("company_id").(uint)
	return companyID, ok
}

// GetCompanyFromContext retrieves the resolved company from the context
func GetCompanyFromContext(c echo.Context) (model.Company, bool) {
	company, ok := c.Get("company").(model.Company)
	return company, ok
}

package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jayambe/books/internal/analytics"
)

// GetCustomerAnalyticsCSV streams the per-customer receivables rollup as a
// CSV download. ?sep= selects the delimiter for spreadsheet locales that
// expect semicolons or tabs.
func (s *Server) GetCustomerAnalyticsCSV(c *gin.Context) {
	rows, err := s.analyticsSvc.CustomerRollup(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	out, err := analytics.RenderCSV(rows, analytics.DelimiterFor(c.Query("sep")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="receivables-by-customer.csv"`)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", out)
}

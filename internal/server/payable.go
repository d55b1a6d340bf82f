package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	payabledomain "github.com/jayambe/books/internal/payable/domain"
)

func (s *Server) CreatePayable(c *gin.Context) {
	var req payabledomain.CreatePayableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.payableSvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListPayables(c *gin.Context) {
	payables, err := s.payableSvc.List(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": payables})
}

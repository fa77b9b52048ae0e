package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/spendwise/banktext-backend/internal/api/dto"
	"github.com/spendwise/banktext-backend/internal/infrastructure/config"
)

// listInstitutions returns the registered institutions in resolution
// order.
func (s *Server) listInstitutions(c *gin.Context) {
	c.JSON(http.StatusOK, dto.InstitutionsResponse{
		Institutions: s.registry.Names(),
	})
}

// addInstitution appends a custom institution to the registry. New
// entries apply to the next message; no redeploy needed.
func (s *Server) addInstitution(c *gin.Context) {
	var req dto.InstitutionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.BadRequestError(err.Error()))
		return
	}

	entry, err := config.InstitutionConfig{
		Name:         req.Name,
		Identifier:   req.Identifier,
		AccountLabel: req.AccountLabel,
		Expense:      req.Expense,
		Income:       req.Income,
		Transfer:     req.Transfer,
	}.ToEntry()
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.ValidationError(err.Error()))
		return
	}

	if err := s.registry.Append(entry); err != nil {
		c.JSON(http.StatusBadRequest, dto.ValidationError(err.Error()))
		return
	}

	s.logger.Info("institution registered", "name", entry.Name)
	c.JSON(http.StatusCreated, gin.H{"name": entry.Name})
}

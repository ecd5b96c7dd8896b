package handler

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/westcoast-edu/education-api/internal/models"
	"github.com/westcoast-edu/education-api/internal/service"
	appErrors "github.com/westcoast-edu/education-api/pkg/errors"
	"github.com/westcoast-edu/education-api/pkg/response"
)

type skillService interface {
	List(ctx context.Context) ([]models.Skill, error)
	Create(ctx context.Context, req service.SkillRequest) (*models.Skill, error)
	Update(ctx context.Context, id string, req service.SkillRequest) (*models.Skill, error)
	Delete(ctx context.Context, id string) error
}

// SkillHandler exposes skill endpoints.
type SkillHandler struct {
	skills skillService
}

// NewSkillHandler constructs SkillHandler.
func NewSkillHandler(skills skillService) *SkillHandler {
	return &SkillHandler{skills: skills}
}

// List godoc
// @Summary List skills
// @Tags Skills
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /skills [get]
func (h *SkillHandler) List(c *gin.Context) {
	skills, err := h.skills.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, skills)
}

// Create godoc
// @Summary Create skill
// @Tags Skills
// @Accept json
// @Produce json
// @Param payload body service.SkillRequest true "Skill payload"
// @Success 201 {object} response.Envelope
// @Router /skills [post]
func (h *SkillHandler) Create(c *gin.Context) {
	var req service.SkillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	skill, err := h.skills.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, skill, fmt.Sprintf("%s/%s", c.Request.URL.Path, skill.ID))
}

// Update godoc
// @Summary Rename skill
// @Tags Skills
// @Accept json
// @Produce json
// @Param id path string true "Skill ID"
// @Param payload body service.SkillRequest true "Skill payload"
// @Success 200 {object} response.Envelope
// @Router /skills/{id} [put]
func (h *SkillHandler) Update(c *gin.Context) {
	var req service.SkillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	skill, err := h.skills.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, skill)
}

// Delete godoc
// @Summary Delete skill
// @Tags Skills
// @Param id path string true "Skill ID"
// @Success 204
// @Router /skills/{id} [delete]
func (h *SkillHandler) Delete(c *gin.Context) {
	if err := h.skills.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

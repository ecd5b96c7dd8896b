package handler

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/westcoast-edu/education-api/internal/models"
	"github.com/westcoast-edu/education-api/internal/service"
	appErrors "github.com/westcoast-edu/education-api/pkg/errors"
	"github.com/westcoast-edu/education-api/pkg/response"
)

type courseService interface {
	List(ctx context.Context) ([]models.CourseListItem, error)
	Get(ctx context.Context, id string) (*models.CourseDetail, error)
	GetByNumber(ctx context.Context, number int) (*models.Course, error)
	GetByTitle(ctx context.Context, title string) (*models.Course, error)
	GetByStartDate(ctx context.Context, startDate time.Time) (*models.Course, error)
	Create(ctx context.Context, req service.CreateCourseRequest) (*models.Course, error)
	Update(ctx context.Context, id string, req service.UpdateCourseRequest) (*models.Course, error)
	MarkFull(ctx context.Context, id string) error
	MarkCompleted(ctx context.Context, id string) error
	AssignTeacher(ctx context.Context, courseID, teacherID string) error
	Delete(ctx context.Context, id string) error
}

type rosterExporter interface {
	Roster(ctx context.Context, courseID, format string) (*service.RosterExport, error)
}

// CourseHandler exposes course endpoints.
type CourseHandler struct {
	courses courseService
	exports rosterExporter
}

// NewCourseHandler constructs CourseHandler.
func NewCourseHandler(courses courseService, exports rosterExporter) *CourseHandler {
	return &CourseHandler{courses: courses, exports: exports}
}

// List godoc
// @Summary List courses
// @Tags Courses
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /courses [get]
func (h *CourseHandler) List(c *gin.Context) {
	courses, err := h.courses.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, courses)
}

// Get godoc
// @Summary Get course detail
// @Tags Courses
// @Produce json
// @Param id path string true "Course ID"
// @Success 200 {object} response.Envelope
// @Router /courses/{id} [get]
func (h *CourseHandler) Get(c *gin.Context) {
	course, err := h.courses.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, course)
}

// Search godoc
// @Summary Look up a course by natural key
// @Tags Courses
// @Produce json
// @Param number query int false "Course number"
// @Param title query string false "Exact title"
// @Param startDate query string false "Start date (YYYY-MM-DD)"
// @Success 200 {object} response.Envelope
// @Router /courses/search [get]
func (h *CourseHandler) Search(c *gin.Context) {
	ctx := c.Request.Context()
	switch {
	case c.Query("number") != "":
		number, err := strconv.Atoi(c.Query("number"))
		if err != nil {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "course number must be an integer"))
			return
		}
		course, err := h.courses.GetByNumber(ctx, number)
		if err != nil {
			response.Error(c, err)
			return
		}
		response.JSON(c, http.StatusOK, course)
	case c.Query("title") != "":
		course, err := h.courses.GetByTitle(ctx, c.Query("title"))
		if err != nil {
			response.Error(c, err)
			return
		}
		response.JSON(c, http.StatusOK, course)
	case c.Query("startDate") != "":
		startDate, err := time.Parse("2006-01-02", c.Query("startDate"))
		if err != nil {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "startDate must be formatted YYYY-MM-DD"))
			return
		}
		course, err := h.courses.GetByStartDate(ctx, startDate)
		if err != nil {
			response.Error(c, err)
			return
		}
		response.JSON(c, http.StatusOK, course)
	default:
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "one of number, title or startDate is required"))
	}
}

// Create godoc
// @Summary Create course
// @Tags Courses
// @Accept json
// @Produce json
// @Param payload body service.CreateCourseRequest true "Course payload"
// @Success 201 {object} response.Envelope
// @Router /courses [post]
func (h *CourseHandler) Create(c *gin.Context) {
	var req service.CreateCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	course, err := h.courses.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, course, fmt.Sprintf("%s/%s", c.Request.URL.Path, course.ID))
}

// Update godoc
// @Summary Update course
// @Tags Courses
// @Accept json
// @Produce json
// @Param id path string true "Course ID"
// @Param payload body service.UpdateCourseRequest true "Course payload"
// @Success 200 {object} response.Envelope
// @Router /courses/{id} [put]
func (h *CourseHandler) Update(c *gin.Context) {
	var req service.UpdateCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	course, err := h.courses.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, course)
}

// MarkFull godoc
// @Summary Mark course as full
// @Tags Courses
// @Param id path string true "Course ID"
// @Success 204
// @Router /courses/{id}/full [patch]
func (h *CourseHandler) MarkFull(c *gin.Context) {
	if err := h.courses.MarkFull(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// MarkCompleted godoc
// @Summary Mark course as completed
// @Tags Courses
// @Param id path string true "Course ID"
// @Success 204
// @Router /courses/{id}/completed [patch]
func (h *CourseHandler) MarkCompleted(c *gin.Context) {
	if err := h.courses.MarkCompleted(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// AssignTeacher godoc
// @Summary Assign a teacher to a course
// @Tags Courses
// @Param id path string true "Course ID"
// @Param teacherId path string true "Teacher ID"
// @Success 204
// @Router /courses/{id}/teacher/{teacherId} [put]
func (h *CourseHandler) AssignTeacher(c *gin.Context) {
	if err := h.courses.AssignTeacher(c.Request.Context(), c.Param("id"), c.Param("teacherId")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Delete godoc
// @Summary Delete course
// @Tags Courses
// @Param id path string true "Course ID"
// @Success 204
// @Router /courses/{id} [delete]
func (h *CourseHandler) Delete(c *gin.Context) {
	if err := h.courses.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// ExportRoster godoc
// @Summary Export the course roster
// @Tags Courses
// @Produce text/csv
// @Produce application/pdf
// @Param id path string true "Course ID"
// @Param format query string false "csv or pdf" default(csv)
// @Success 200
// @Router /courses/{id}/roster/export [get]
func (h *CourseHandler) ExportRoster(c *gin.Context) {
	roster, err := h.exports.Roster(c.Request.Context(), c.Param("id"), c.Query("format"))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", roster.Filename))
	c.Data(http.StatusOK, roster.ContentType, roster.Content)
}

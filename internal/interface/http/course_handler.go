package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/coursebay/lms-backend/internal/application"
	"github.com/coursebay/lms-backend/internal/interface/middleware"
	"github.com/coursebay/lms-backend/pkg/apperror"
	"github.com/coursebay/lms-backend/pkg/response"
	"github.com/coursebay/lms-backend/pkg/validation"
)

type CourseHandler struct {
	Svc    *application.CourseService
	Logger *logrus.Logger
}

func NewCourseHandler(svc *application.CourseService, logger *logrus.Logger) *CourseHandler {
	return &CourseHandler{Svc: svc, Logger: logger}
}

type createCourseRequest struct {
	Title       string `form:"title" json:"title" binding:"required,min=8,max=60"`
	Description string `form:"description" json:"description" binding:"required,min=8,max=100"`
	Category    string `form:"category" json:"category" binding:"required"`
	CreatedBy   string `form:"createdBy" json:"createdBy" binding:"required"`
}

type updateCourseRequest struct {
	Title       string `form:"title" json:"title" binding:"omitempty,min=8,max=60"`
	Description string `form:"description" json:"description" binding:"omitempty,min=8,max=100"`
	Category    string `form:"category" json:"category"`
	CreatedBy   string `form:"createdBy" json:"createdBy"`
}

type addLectureRequest struct {
	Title       string `form:"title" json:"title" binding:"required"`
	Description string `form:"description" json:"description" binding:"required"`
}

// List GET /api/v1/course
func (h *CourseHandler) List(c *gin.Context) error {
	courses, err := h.Svc.List(c.Request.Context())
	if err != nil {
		return err
	}
	response.Success(c, http.StatusOK, courses, "All the courses")
	return nil
}

// Search GET /api/v1/course/search?q=
func (h *CourseHandler) Search(c *gin.Context) error {
	q := c.Query("q")
	if q == "" {
		return apperror.BadRequest("query parameter q is required")
	}
	size, _ := strconv.Atoi(c.DefaultQuery("size", "10"))
	hits, err := h.Svc.Search(c.Request.Context(), q, size)
	if err != nil {
		return err
	}
	response.Success(c, http.StatusOK, hits, "Search results")
	return nil
}

// GetLectures GET /api/v1/course/:id (auth + subscriber gate)
func (h *CourseHandler) GetLectures(c *gin.Context) error {
	course, err := h.Svc.GetLectures(c.Request.Context(), c.Param("id"))
	if err != nil {
		return err
	}
	response.Success(c, http.StatusOK, gin.H{"lectures": course.Lectures}, "Course lectures fetched successfully")
	return nil
}

// Create POST /api/v1/course (ADMIN, multipart with thumbnail)
func (h *CourseHandler) Create(c *gin.Context) error {
	var req createCourseRequest
	if err := c.ShouldBind(&req); err != nil {
		return apperror.Validation(validation.ToDetails(err))
	}
	course, err := h.Svc.Create(c.Request.Context(), application.CreateCourseInput{
		Title:         req.Title,
		Description:   req.Description,
		Category:      req.Category,
		CreatedBy:     req.CreatedBy,
		ThumbnailPath: c.GetString(middleware.CtxUploadPathKey),
	})
	if err != nil {
		return err
	}
	response.Success(c, http.StatusCreated, course, "Course created successfully")
	return nil
}

// Update PUT /api/v1/course/:id (ADMIN, multipart, optional thumbnail)
func (h *CourseHandler) Update(c *gin.Context) error {
	var req updateCourseRequest
	if err := c.ShouldBind(&req); err != nil {
		return apperror.Validation(validation.ToDetails(err))
	}
	course, err := h.Svc.Update(c.Request.Context(), c.Param("id"), application.UpdateCourseInput{
		Title:         req.Title,
		Description:   req.Description,
		Category:      req.Category,
		CreatedBy:     req.CreatedBy,
		ThumbnailPath: c.GetString(middleware.CtxUploadPathKey),
	})
	if err != nil {
		return err
	}
	response.Success(c, http.StatusOK, course, "Course updated successfully")
	return nil
}

// Delete DELETE /api/v1/course/:id (ADMIN)
func (h *CourseHandler) Delete(c *gin.Context) error {
	if err := h.Svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		return err
	}
	response.Success[any](c, http.StatusOK, nil, "Course removed successfully")
	return nil
}

// AddLecture POST /api/v1/course/:id (ADMIN, multipart with lecture video)
func (h *CourseHandler) AddLecture(c *gin.Context) error {
	var req addLectureRequest
	if err := c.ShouldBind(&req); err != nil {
		return apperror.Validation(validation.ToDetails(err))
	}
	course, err := h.Svc.AddLecture(c.Request.Context(), c.Param("id"), application.AddLectureInput{
		Title:       req.Title,
		Description: req.Description,
		VideoPath:   c.GetString(middleware.CtxUploadPathKey),
	})
	if err != nil {
		return err
	}
	response.Success(c, http.StatusOK, course, "Lecture added successfully")
	return nil
}

// RemoveLecture DELETE /api/v1/course/:id/lectures/:lectureId (ADMIN)
func (h *CourseHandler) RemoveLecture(c *gin.Context) error {
	course, err := h.Svc.RemoveLecture(c.Request.Context(), c.Param("id"), c.Param("lectureId"))
	if err != nil {
		return err
	}
	response.Success(c, http.StatusOK, course, "Lecture removed successfully")
	return nil
}

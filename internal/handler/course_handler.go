package handler

import (
	"errors"
	"net/http"
	"strconv"

	"tutorbay/internal/middleware"
	"tutorbay/internal/models"
	"tutorbay/internal/repository"
	"tutorbay/pkg/response"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type CourseHandler struct {
	courseRepo  *repository.CourseRepository
	serviceRepo *repository.ServiceRepository
}

func NewCourseHandler(courseRepo *repository.CourseRepository, serviceRepo *repository.ServiceRepository) *CourseHandler {
	return &CourseHandler{courseRepo: courseRepo, serviceRepo: serviceRepo}
}

func (h *CourseHandler) List(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	list, err := h.courseRepo.ListPublished(limit, offset)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "list failed", "INTERNAL_SERVER_ERROR")
		return
	}
	response.OK(c, http.StatusOK, "courses", gin.H{"courses": list})
}

func (h *CourseHandler) Get(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid course id", "BAD_REQUEST")
		return
	}
	course, err := h.courseRepo.GetByID(uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.Error(c, http.StatusNotFound, "course not found", "NOT_FOUND")
			return
		}
		response.Error(c, http.StatusInternalServerError, "lookup failed", "INTERNAL_SERVER_ERROR")
		return
	}
	response.OK(c, http.StatusOK, "course", course)
}

type createCourseRequest struct {
	Title       string `json:"title" binding:"required,max=255"`
	Description string `json:"description"`
	PriceCents  int64  `json:"price_cents" binding:"required,min=1"`
	Published   bool   `json:"published"`
}

// Create adds a course owned by the authenticated tutor.
func (h *CourseHandler) Create(c *gin.Context) {
	tutorID := middleware.GetUserID(c)
	var req createCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, err.Error(), "BAD_REQUEST")
		return
	}
	course := &models.Course{
		TutorID:     tutorID,
		Title:       req.Title,
		Description: req.Description,
		PriceCents:  req.PriceCents,
		Currency:    "NGN",
		Published:   req.Published,
	}
	if err := h.courseRepo.Create(course); err != nil {
		response.Error(c, http.StatusInternalServerError, "create failed", "INTERNAL_SERVER_ERROR")
		return
	}
	response.OK(c, http.StatusCreated, "course created", course)
}

func (h *CourseHandler) ListServices(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	list, err := h.serviceRepo.ListActive(limit, offset)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "list failed", "INTERNAL_SERVER_ERROR")
		return
	}
	response.OK(c, http.StatusOK, "services", gin.H{"services": list})
}

func (h *CourseHandler) GetService(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid service id", "BAD_REQUEST")
		return
	}
	svc, err := h.serviceRepo.GetByID(uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.Error(c, http.StatusNotFound, "service not found", "NOT_FOUND")
			return
		}
		response.Error(c, http.StatusInternalServerError, "lookup failed", "INTERNAL_SERVER_ERROR")
		return
	}
	response.OK(c, http.StatusOK, "service", svc)
}

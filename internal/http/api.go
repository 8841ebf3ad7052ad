package http

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"registration-mailer/internal/domain"
	"registration-mailer/internal/service"
)

const successMessage = "Data received and processed successfully"

// Handler wires HTTP routes to domain services.
type Handler struct {
	registrations  service.RegistrationService
	allowedOrigins []string
	logger         logrus.FieldLogger
}

func NewHandler(registrations service.RegistrationService, allowedOrigins []string, logger logrus.FieldLogger) *Handler {
	if logger == nil {
		logger = logrus.New()
	}
	return &Handler{
		registrations:  registrations,
		allowedOrigins: allowedOrigins,
		logger:         logger,
	}
}

func (h *Handler) RegisterRoutes(router *gin.Engine) {
	router.Use(requestLogger(h.logger))
	router.Use(corsMiddleware(h.allowedOrigins))

	api := router.Group("/api")
	{
		api.POST("/submit", h.submit)
		api.GET("/health", func(ctx *gin.Context) {
			ctx.JSON(http.StatusOK, gin.H{"ok": "ok"})
		})
	}
}

type submitRequest struct {
	FirstName string `json:"firstName" binding:"required"`
	LastName  string `json:"lastName" binding:"required"`
	DOB       string `json:"dob" binding:"required,datetime=2006-01-02"`
	Email     string `json:"email" binding:"required,email"`
}

type statusResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

func corsMiddleware(origins []string) gin.HandlerFunc {
	allowAll := len(origins) == 0
	allowed := make(map[string]struct{}, len(origins))
	for _, o := range origins {
		o = strings.TrimSpace(o)
		if o == "*" {
			allowAll = true
		}
		allowed[o] = struct{}{}
	}

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		switch {
		case allowAll:
			c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		case origin != "":
			if _, ok := allowed[origin]; ok {
				c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
			}
			c.Writer.Header().Add("Vary", "Origin")
		}
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Accept")
		c.Writer.Header().Set("Access-Control-Expose-Headers", "X-Request-ID")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

func requestLogger(logger logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.WithFields(logrus.Fields{
			"method":   c.Request.Method,
			"path":     c.Request.URL.Path,
			"status":   c.Writer.Status(),
			"duration": time.Since(start).String(),
		}).Info("request")
	}
}

func (h *Handler) submit(c *gin.Context) {
	var req submitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, statusResponse{Status: "error", Message: err.Error()})
		return
	}

	receipt, err := h.registrations.Submit(c.Request.Context(), domain.RegistrationForm{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		DOB:       req.DOB,
		Email:     req.Email,
	})
	if err != nil {
		status := statusFor(err)
		msg := err.Error()
		if status == http.StatusInternalServerError {
			h.logger.WithError(err).Error("submission failed")
			msg = "internal server error"
		}
		c.JSON(status, statusResponse{Status: "error", Message: msg})
		return
	}

	c.Header("X-Request-ID", receipt.ID.String())
	c.JSON(http.StatusOK, statusResponse{Status: "success", Message: successMessage})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrConfig):
		return http.StatusInternalServerError
	case errors.Is(err, domain.ErrInvalidInput), errors.Is(err, domain.ErrInvalidDate):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrDelivery):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrAuth), errors.Is(err, domain.ErrTransport):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

package http

import (
	"net/http"

	"adminhub/internal/domain"
	"adminhub/internal/services"

	"github.com/gin-gonic/gin"
)

func (h *Handler) ListNotifications(c *gin.Context) {
	list, err := h.svc.Notifications.ListNotifications(c.Request.Context(), callerID(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"notifications": list})
}

func (h *Handler) CreateNotification(c *gin.Context) {
	var req CreateNotificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	n, err := h.svc.Notifications.CreateNotification(c.Request.Context(), services.NotificationInput{
		UserID:  req.UserID,
		Title:   req.Title,
		Message: req.Message,
		Type:    req.Type,
		Link:    req.Link,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"notification": n})
}

func (h *Handler) MarkNotification(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	var req MarkNotificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	n, err := h.svc.Notifications.MarkNotification(c.Request.Context(), callerID(c), id, *req.IsRead)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"notification": n})
}

func (h *Handler) DeleteNotification(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	if err := h.svc.Notifications.DeleteNotification(c.Request.Context(), callerID(c), id); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *Handler) GetSettings(c *gin.Context) {
	s, err := h.svc.Settings.GetSettings(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"settings": s})
}

func (h *Handler) UpdateSettings(c *gin.Context) {
	var patch domain.SettingsPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		badRequest(c, err)
		return
	}
	s, err := h.svc.Settings.UpdateSettings(c.Request.Context(), patch)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"settings": s})
}

func (h *Handler) ListEmployees(c *gin.Context) {
	list, err := h.svc.Employees.ListEmployees(c.Request.Context(), domain.UserFilter{
		Department: c.Query("department"),
		Search:     c.Query("search"),
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"employees": list})
}

func (h *Handler) GetEmployee(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	u, err := h.svc.Employees.GetEmployee(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"employee": u})
}

func employeeInput(c *gin.Context) services.EmployeeInput {
	return services.EmployeeInput{
		Name:       c.PostForm("name"),
		Email:      c.PostForm("email"),
		Password:   c.PostForm("password"),
		Role:       domain.Role(c.PostForm("role")),
		Department: c.PostForm("department"),
		Position:   c.PostForm("position"),
		Phone:      c.PostForm("phone"),
	}
}

func (h *Handler) CreateEmployee(c *gin.Context) {
	if err := parseForm(c); err != nil {
		badRequest(c, err)
		return
	}
	img, done, err := formImage(c)
	if err != nil {
		badRequest(c, err)
		return
	}
	defer done()

	u, err := h.svc.Employees.CreateEmployee(c.Request.Context(), employeeInput(c), img)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"employee": u})
}

func (h *Handler) UpdateEmployee(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	if err := parseForm(c); err != nil {
		badRequest(c, err)
		return
	}
	img, done, err := formImage(c)
	if err != nil {
		badRequest(c, err)
		return
	}
	defer done()

	u, err := h.svc.Employees.UpdateEmployee(c.Request.Context(), id, employeeInput(c), img)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"employee": u})
}

func (h *Handler) DeleteEmployee(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	if err := h.svc.Employees.DeleteEmployee(c.Request.Context(), id); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *Handler) GetProfile(c *gin.Context) {
	u, err := h.svc.Employees.GetProfile(c.Request.Context(), callerID(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": u})
}

func (h *Handler) UpdateProfile(c *gin.Context) {
	if err := parseForm(c); err != nil {
		badRequest(c, err)
		return
	}
	img, done, err := formImage(c)
	if err != nil {
		badRequest(c, err)
		return
	}
	defer done()

	u, err := h.svc.Employees.UpdateProfile(c.Request.Context(), callerID(c), services.ProfileInput{
		Name:            c.PostForm("name"),
		Email:           c.PostForm("email"),
		Phone:           c.PostForm("phone"),
		CurrentPassword: c.PostForm("currentPassword"),
		NewPassword:     c.PostForm("newPassword"),
	}, img)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": u})
}

func (h *Handler) ChangePassword(c *gin.Context) {
	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if err := h.svc.Employees.ChangePassword(c.Request.Context(), callerID(c), req.CurrentPassword, req.NewPassword); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

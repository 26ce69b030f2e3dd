package handler

import (
	"net/http"

	"travelquote_backend/internal/identity/repository"
	"travelquote_backend/internal/identity/service"
	"travelquote_backend/internal/identity/transport"
	"travelquote_backend/internal/tenant"
	"travelquote_backend/platform/httpkit"
	"travelquote_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
	msgInvalidAgencyID  = "invalid agency id"
)

type Handler struct {
	svc *service.Service
	val *validator.Validator
}

func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/agencies", h.CreateAgency)
	rg.GET("/agencies", h.ListAgencies)
	rg.GET("/agencies/:agencyID", h.GetAgency)
	rg.PATCH("/agencies/:agencyID", h.UpdateAgency)
	rg.GET("/agencies/:agencyID/settings", h.GetSettings)
	rg.PUT("/agencies/:agencyID/settings", h.UpdateSettings)
	rg.POST("/agencies/:agencyID/logo/presign", h.PresignLogo)
	rg.POST("/agencies/:agencyID/logo", h.SetLogo)
	rg.GET("/agencies/:agencyID/logo/download", h.GetLogoDownload)
	rg.DELETE("/agencies/:agencyID/logo", h.DeleteLogo)
	rg.POST("/users", h.CreateUser)
	rg.GET("/users", h.ListUsers)
	rg.PATCH("/users/:userID", h.UpdateUser)
}

func (h *Handler) actor(c *gin.Context) (tenant.Actor, bool) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return tenant.Actor{}, false
	}
	return tenant.ActorFromIdentity(identity), true
}

func agencyIDParam(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("agencyID"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidAgencyID, nil)
		return uuid.UUID{}, false
	}
	return id, true
}

func (h *Handler) CreateAgency(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}

	var req transport.CreateAgencyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	var phone *string
	if req.Phone != "" {
		phone = &req.Phone
	}

	agency, err := h.svc.CreateAgency(c.Request.Context(), actor, req.Name, req.Email, phone)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.JSON(c, http.StatusCreated, toAgencyResponse(agency))
}

func (h *Handler) ListAgencies(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}

	agencies, err := h.svc.ListAgencies(c.Request.Context(), actor)
	if httpkit.HandleError(c, err) {
		return
	}

	out := make([]transport.AgencyResponse, 0, len(agencies))
	for _, a := range agencies {
		out = append(out, toAgencyResponse(a))
	}
	httpkit.OK(c, out)
}

func (h *Handler) GetAgency(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	agencyID, ok := agencyIDParam(c)
	if !ok {
		return
	}

	agency, err := h.svc.GetAgency(c.Request.Context(), actor, agencyID)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, toAgencyResponse(agency))
}

func (h *Handler) UpdateAgency(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	agencyID, ok := agencyIDParam(c)
	if !ok {
		return
	}

	var req transport.UpdateAgencyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	agency, err := h.svc.UpdateAgency(c.Request.Context(), actor, agencyID, repository.AgencyUpdate{
		Name:  req.Name,
		Email: req.Email,
		Phone: req.Phone,
	})
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, toAgencyResponse(agency))
}

func (h *Handler) GetSettings(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	agencyID, ok := agencyIDParam(c)
	if !ok {
		return
	}

	settings, err := h.svc.GetSettings(c.Request.Context(), actor, agencyID)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, transport.AgencySettingsResponse{
		AgencyID:  settings.AgencyID.String(),
		Settings:  settings.Settings,
		UpdatedAt: settings.UpdatedAt,
	})
}

func (h *Handler) UpdateSettings(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	agencyID, ok := agencyIDParam(c)
	if !ok {
		return
	}

	var req transport.UpdateAgencySettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	settings, err := h.svc.UpdateSettings(c.Request.Context(), actor, agencyID, req.Settings)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, transport.AgencySettingsResponse{
		AgencyID:  settings.AgencyID.String(),
		Settings:  settings.Settings,
		UpdatedAt: settings.UpdatedAt,
	})
}

func (h *Handler) PresignLogo(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	agencyID, ok := agencyIDParam(c)
	if !ok {
		return
	}

	var req transport.PresignLogoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	presigned, err := h.svc.PresignLogoUpload(c.Request.Context(), actor, agencyID, req.FileName, req.ContentType, req.SizeBytes)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, transport.PresignLogoResponse{
		UploadURL: presigned.URL,
		FileKey:   presigned.FileKey,
		ExpiresAt: presigned.ExpiresAt.Format("2006-01-02T15:04:05Z07:00"),
	})
}

func (h *Handler) SetLogo(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	agencyID, ok := agencyIDParam(c)
	if !ok {
		return
	}

	var req transport.SetLogoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	agency, err := h.svc.SetLogo(c.Request.Context(), actor, agencyID, req.FileKey, req.FileName, req.ContentType, req.SizeBytes)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, toAgencyResponse(agency))
}

func (h *Handler) GetLogoDownload(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	agencyID, ok := agencyIDParam(c)
	if !ok {
		return
	}

	presigned, err := h.svc.PresignLogoDownload(c.Request.Context(), actor, agencyID)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, transport.LogoDownloadResponse{
		DownloadURL: presigned.URL,
		ExpiresAt:   presigned.ExpiresAt.Format("2006-01-02T15:04:05Z07:00"),
	})
}

func (h *Handler) DeleteLogo(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	agencyID, ok := agencyIDParam(c)
	if !ok {
		return
	}

	if err := h.svc.DeleteLogo(c.Request.Context(), actor, agencyID); httpkit.HandleError(c, err) {
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *Handler) CreateUser(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}

	var req transport.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	var targetAgency *uuid.UUID
	if req.AgencyID != nil {
		id, err := uuid.Parse(*req.AgencyID)
		if err != nil {
			httpkit.Error(c, http.StatusBadRequest, msgInvalidAgencyID, nil)
			return
		}
		targetAgency = &id
	}

	user, err := h.svc.CreateUser(c.Request.Context(), actor, targetAgency, req.Email, req.Name, req.Password, req.Role)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.JSON(c, http.StatusCreated, toUserResponse(user))
}

func (h *Handler) ListUsers(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}

	var targetAgency *uuid.UUID
	if raw := c.Query("agencyId"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			httpkit.Error(c, http.StatusBadRequest, msgInvalidAgencyID, nil)
			return
		}
		targetAgency = &id
	}

	users, err := h.svc.ListUsers(c.Request.Context(), actor, targetAgency)
	if httpkit.HandleError(c, err) {
		return
	}

	out := make([]transport.UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, toUserResponse(u))
	}
	httpkit.OK(c, out)
}

func (h *Handler) UpdateUser(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}

	userID, err := uuid.Parse(c.Param("userID"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid user id", nil)
		return
	}

	var req transport.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	user, err := h.svc.UpdateUser(c.Request.Context(), actor, userID, repository.UserUpdate{
		Name:   req.Name,
		Role:   req.Role,
		Active: req.Active,
	})
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, toUserResponse(user))
}

func toAgencyResponse(a repository.Agency) transport.AgencyResponse {
	return transport.AgencyResponse{
		ID:              a.ID.String(),
		Name:            a.Name,
		Email:           a.Email,
		Phone:           a.Phone,
		LogoFileKey:     a.LogoFileKey,
		LogoFileName:    a.LogoFileName,
		LogoContentType: a.LogoContentType,
		LogoSizeBytes:   a.LogoSizeBytes,
		CreatedAt:       a.CreatedAt,
		UpdatedAt:       a.UpdatedAt,
	}
}

func toUserResponse(u repository.User) transport.UserResponse {
	var agencyID *string
	if u.AgencyID != nil {
		id := u.AgencyID.String()
		agencyID = &id
	}
	return transport.UserResponse{
		ID:        u.ID.String(),
		AgencyID:  agencyID,
		Email:     u.Email,
		Name:      u.Name,
		Role:      u.Role,
		Active:    u.Active,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

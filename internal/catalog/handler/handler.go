package handler

import (
	"net/http"

	"travelquote_backend/internal/catalog/repository"
	"travelquote_backend/internal/catalog/service"
	"travelquote_backend/internal/catalog/transport"
	"travelquote_backend/internal/tenant"
	"travelquote_backend/platform/httpkit"
	"travelquote_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
	msgInvalidServiceID = "invalid service id"
)

type Handler struct {
	svc *service.Service
	val *validator.Validator
}

func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/catalog/services", h.Create)
	rg.GET("/catalog/services", h.List)
	rg.GET("/catalog/services/:serviceID", h.Get)
	rg.PATCH("/catalog/services/:serviceID", h.Update)
	rg.POST("/catalog/services/:serviceID/photos/presign", h.PresignPhoto)
	rg.POST("/catalog/services/:serviceID/photos", h.AddPhoto)
	rg.GET("/catalog/services/:serviceID/photos", h.ListPhotos)
	rg.GET("/catalog/services/:serviceID/photos/:photoID/download", h.GetPhotoDownload)
	rg.DELETE("/catalog/services/:serviceID/photos/:photoID", h.DeletePhoto)
}

func (h *Handler) actor(c *gin.Context) (tenant.Actor, bool) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return tenant.Actor{}, false
	}
	return tenant.ActorFromIdentity(identity), true
}

func serviceIDParam(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("serviceID"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidServiceID, nil)
		return uuid.UUID{}, false
	}
	return id, true
}

func (h *Handler) Create(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}

	var req transport.CreateServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	input := service.CreateServiceInput{
		Type:       req.Type,
		Name:       req.Name,
		City:       req.City,
		PriceCents: req.PriceCents,
		Attributes: req.Attributes,
	}
	if req.AgencyID != nil {
		id, err := uuid.Parse(*req.AgencyID)
		if err != nil {
			httpkit.Error(c, http.StatusBadRequest, "invalid agency id", nil)
			return
		}
		input.AgencyID = &id
	}

	record, err := h.svc.Create(c.Request.Context(), actor, input)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.JSON(c, http.StatusCreated, toServiceResponse(record))
}

func (h *Handler) List(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}

	var targetAgency *uuid.UUID
	if raw := c.Query("agencyId"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			httpkit.Error(c, http.StatusBadRequest, "invalid agency id", nil)
			return
		}
		targetAgency = &id
	}

	var serviceType *string
	if raw := c.Query("type"); raw != "" {
		serviceType = &raw
	}

	records, err := h.svc.List(c.Request.Context(), actor, targetAgency, serviceType)
	if httpkit.HandleError(c, err) {
		return
	}

	out := make([]transport.ServiceResponse, 0, len(records))
	for _, record := range records {
		out = append(out, toServiceResponse(record))
	}
	httpkit.OK(c, out)
}

func (h *Handler) Get(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	serviceID, ok := serviceIDParam(c)
	if !ok {
		return
	}

	record, err := h.svc.Get(c.Request.Context(), actor, serviceID)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, toServiceResponse(record))
}

func (h *Handler) Update(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	serviceID, ok := serviceIDParam(c)
	if !ok {
		return
	}

	var req transport.UpdateServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	record, err := h.svc.Update(c.Request.Context(), actor, serviceID, repository.ServiceUpdate{
		Name:       req.Name,
		City:       req.City,
		PriceCents: req.PriceCents,
		Attributes: req.Attributes,
		Active:     req.Active,
	})
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, toServiceResponse(record))
}

func (h *Handler) PresignPhoto(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	serviceID, ok := serviceIDParam(c)
	if !ok {
		return
	}

	var req transport.PresignPhotoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	presigned, err := h.svc.PresignPhotoUpload(c.Request.Context(), actor, serviceID, req.FileName, req.ContentType, req.SizeBytes)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, transport.PresignPhotoResponse{
		UploadURL: presigned.URL,
		FileKey:   presigned.FileKey,
		ExpiresAt: presigned.ExpiresAt,
	})
}

func (h *Handler) AddPhoto(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	serviceID, ok := serviceIDParam(c)
	if !ok {
		return
	}

	var req transport.AddPhotoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	photo, err := h.svc.AddPhoto(c.Request.Context(), actor, serviceID, req.FileKey, req.FileName, req.ContentType, req.SizeBytes)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.JSON(c, http.StatusCreated, toPhotoResponse(photo))
}

func (h *Handler) ListPhotos(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	serviceID, ok := serviceIDParam(c)
	if !ok {
		return
	}

	photos, err := h.svc.ListPhotos(c.Request.Context(), actor, serviceID)
	if httpkit.HandleError(c, err) {
		return
	}

	out := make([]transport.PhotoResponse, 0, len(photos))
	for _, photo := range photos {
		out = append(out, toPhotoResponse(photo))
	}
	httpkit.OK(c, out)
}

func (h *Handler) GetPhotoDownload(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	serviceID, ok := serviceIDParam(c)
	if !ok {
		return
	}
	photoID, err := uuid.Parse(c.Param("photoID"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid photo id", nil)
		return
	}

	presigned, err := h.svc.PresignPhotoDownload(c.Request.Context(), actor, serviceID, photoID)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, transport.PhotoDownloadResponse{
		DownloadURL: presigned.URL,
		ExpiresAt:   presigned.ExpiresAt,
	})
}

func (h *Handler) DeletePhoto(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	serviceID, ok := serviceIDParam(c)
	if !ok {
		return
	}
	photoID, err := uuid.Parse(c.Param("photoID"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid photo id", nil)
		return
	}

	if err := h.svc.DeletePhoto(c.Request.Context(), actor, serviceID, photoID); httpkit.HandleError(c, err) {
		return
	}

	c.Status(http.StatusNoContent)
}

func toServiceResponse(s repository.Service) transport.ServiceResponse {
	return transport.ServiceResponse{
		ID:         s.ID.String(),
		AgencyID:   s.AgencyID.String(),
		Type:       s.Type,
		Name:       s.Name,
		City:       s.City,
		PriceCents: s.PriceCents,
		Attributes: s.Attributes,
		Active:     s.Active,
		CreatedAt:  s.CreatedAt,
		UpdatedAt:  s.UpdatedAt,
	}
}

func toPhotoResponse(p repository.Photo) transport.PhotoResponse {
	return transport.PhotoResponse{
		ID:          p.ID.String(),
		ServiceID:   p.ServiceID.String(),
		FileKey:     p.FileKey,
		FileName:    p.FileName,
		ContentType: p.ContentType,
		SizeBytes:   p.SizeBytes,
		CreatedAt:   p.CreatedAt,
	}
}

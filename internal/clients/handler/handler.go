package handler

import (
	"net/http"

	"travelquote_backend/internal/clients/repository"
	"travelquote_backend/internal/clients/service"
	"travelquote_backend/internal/clients/transport"
	"travelquote_backend/internal/tenant"
	"travelquote_backend/platform/httpkit"
	"travelquote_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
	msgInvalidClientID  = "invalid client id"
)

type Handler struct {
	svc *service.Service
	val *validator.Validator
}

func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/clients", h.Create)
	rg.GET("/clients", h.List)
	rg.GET("/clients/:clientID", h.Get)
	rg.PATCH("/clients/:clientID", h.Update)
	rg.DELETE("/clients/:clientID", h.Delete)
}

func (h *Handler) actor(c *gin.Context) (tenant.Actor, bool) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return tenant.Actor{}, false
	}
	return tenant.ActorFromIdentity(identity), true
}

func clientIDParam(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("clientID"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidClientID, nil)
		return uuid.UUID{}, false
	}
	return id, true
}

func (h *Handler) Create(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}

	var req transport.CreateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	input := service.CreateClientInput{
		Name:  req.Name,
		Email: req.Email,
		Phone: req.Phone,
		Notes: req.Notes,
	}
	if req.AgencyID != nil {
		id, err := uuid.Parse(*req.AgencyID)
		if err != nil {
			httpkit.Error(c, http.StatusBadRequest, "invalid agency id", nil)
			return
		}
		input.AgencyID = &id
	}

	client, err := h.svc.Create(c.Request.Context(), actor, input)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.JSON(c, http.StatusCreated, toClientResponse(client))
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

	clients, err := h.svc.List(c.Request.Context(), actor, targetAgency)
	if httpkit.HandleError(c, err) {
		return
	}

	out := make([]transport.ClientResponse, 0, len(clients))
	for _, client := range clients {
		out = append(out, toClientResponse(client))
	}
	httpkit.OK(c, out)
}

func (h *Handler) Get(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	clientID, ok := clientIDParam(c)
	if !ok {
		return
	}

	client, err := h.svc.Get(c.Request.Context(), actor, clientID)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, toClientResponse(client))
}

func (h *Handler) Update(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	clientID, ok := clientIDParam(c)
	if !ok {
		return
	}

	var req transport.UpdateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	client, err := h.svc.Update(c.Request.Context(), actor, clientID, repository.ClientUpdate{
		Name:  req.Name,
		Email: req.Email,
		Phone: req.Phone,
		Notes: req.Notes,
	})
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, toClientResponse(client))
}

func (h *Handler) Delete(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	clientID, ok := clientIDParam(c)
	if !ok {
		return
	}

	if err := h.svc.Delete(c.Request.Context(), actor, clientID); httpkit.HandleError(c, err) {
		return
	}

	c.Status(http.StatusNoContent)
}

func toClientResponse(client repository.Client) transport.ClientResponse {
	return transport.ClientResponse{
		ID:        client.ID.String(),
		AgencyID:  client.AgencyID.String(),
		Name:      client.Name,
		Email:     client.Email,
		Phone:     client.Phone,
		Notes:     client.Notes,
		CreatedAt: client.CreatedAt,
		UpdatedAt: client.UpdatedAt,
	}
}

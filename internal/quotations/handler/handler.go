package handler

import (
	"net/http"
	"time"

	"travelquote_backend/internal/quotations/domain"
	"travelquote_backend/internal/quotations/repository"
	"travelquote_backend/internal/quotations/service"
	"travelquote_backend/internal/quotations/transport"
	"travelquote_backend/internal/tenant"
	"travelquote_backend/platform/httpkit"
	"travelquote_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	msgInvalidRequest     = "invalid request"
	msgValidationFailed   = "validation failed"
	msgInvalidQuotationID = "invalid quotation id"

	dateLayout = "2006-01-02"
)

type Handler struct {
	svc *service.Service
	val *validator.Validator
}

func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/quotations", h.Create)
	rg.GET("/quotations", h.List)
	rg.GET("/quotations/:quotationID", h.Get)
	rg.PATCH("/quotations/:quotationID/status", h.UpdateStatus)
	rg.DELETE("/quotations/:quotationID", h.Delete)
	rg.POST("/quotations/:quotationID/share-link", h.CreateShareLink)

	rg.GET("/quotations/:quotationID/items", h.ListItems)
	rg.POST("/quotations/:quotationID/items", h.AddItem)
	rg.PATCH("/quotations/:quotationID/items/:itemID", h.UpdateItem)
	rg.DELETE("/quotations/:quotationID/items/:itemID", h.RemoveItem)

	rg.GET("/quotations/:quotationID/days", h.ListDays)
	rg.POST("/quotations/:quotationID/days", h.AddDay)
	rg.PATCH("/quotations/:quotationID/days/:dayID", h.UpdateDay)
	rg.DELETE("/quotations/:quotationID/days/:dayID", h.RemoveDay)
	rg.POST("/quotations/:quotationID/days/compact", h.CompactDays)
}

func (h *Handler) actor(c *gin.Context) (tenant.Actor, bool) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return tenant.Actor{}, false
	}
	return tenant.ActorFromIdentity(identity), true
}

func quotationIDParam(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("quotationID"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidQuotationID, nil)
		return uuid.UUID{}, false
	}
	return id, true
}

func uuidParam(c *gin.Context, name, msg string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msg, nil)
		return uuid.UUID{}, false
	}
	return id, true
}

func (h *Handler) Create(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}

	var req transport.CreateQuotationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	clientID, err := uuid.Parse(req.ClientID)
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid client id", nil)
		return
	}
	startDate, err := time.Parse(dateLayout, req.StartDate)
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid start date", nil)
		return
	}
	endDate, err := time.Parse(dateLayout, req.EndDate)
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid end date", nil)
		return
	}

	input := service.CreateInput{
		ClientID:    clientID,
		Destination: req.Destination,
		StartDate:   startDate,
		EndDate:     endDate,
		Party:       domain.Party{Adults: req.Adults, Children: req.Children, Infants: req.Infants},
	}
	if req.AgencyID != nil {
		id, err := uuid.Parse(*req.AgencyID)
		if err != nil {
			httpkit.Error(c, http.StatusBadRequest, "invalid agency id", nil)
			return
		}
		input.AgencyID = &id
	}

	quotation, err := h.svc.Create(c.Request.Context(), actor, input)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.JSON(c, http.StatusCreated, toQuotationResponse(quotation))
}

func (h *Handler) List(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}

	var req transport.ListQuotationsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	input := service.ListInput{Page: req.Page, PageSize: req.PageSize}
	if req.AgencyID != "" {
		id, err := uuid.Parse(req.AgencyID)
		if err != nil {
			httpkit.Error(c, http.StatusBadRequest, "invalid agency id", nil)
			return
		}
		input.AgencyID = &id
	}
	if req.ClientID != "" {
		id, err := uuid.Parse(req.ClientID)
		if err != nil {
			httpkit.Error(c, http.StatusBadRequest, "invalid client id", nil)
			return
		}
		input.ClientID = &id
	}
	if req.Status != "" {
		status := domain.Status(req.Status)
		input.Status = &status
	}

	out, err := h.svc.List(c.Request.Context(), actor, input)
	if httpkit.HandleError(c, err) {
		return
	}

	items := make([]transport.QuotationSummaryResponse, 0, len(out.Items))
	for _, summary := range out.Items {
		items = append(items, transport.QuotationSummaryResponse{
			QuotationResponse: toQuotationResponse(summary.Quotation),
			ItemCount:         summary.ItemCount,
		})
	}
	httpkit.OK(c, transport.ListQuotationsResponse{
		Items:      items,
		Total:      out.Total,
		Page:       out.Page,
		PageSize:   out.PageSize,
		TotalPages: out.TotalPages,
	})
}

func (h *Handler) Get(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	quotationID, ok := quotationIDParam(c)
	if !ok {
		return
	}

	quotation, err := h.svc.Get(c.Request.Context(), actor, quotationID)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, toQuotationResponse(quotation))
}

func (h *Handler) UpdateStatus(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	quotationID, ok := quotationIDParam(c)
	if !ok {
		return
	}

	var req transport.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	quotation, err := h.svc.Transition(c.Request.Context(), actor, quotationID, domain.Status(req.Status))
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, toQuotationResponse(quotation))
}

func (h *Handler) Delete(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	quotationID, ok := quotationIDParam(c)
	if !ok {
		return
	}

	if err := h.svc.Delete(c.Request.Context(), actor, quotationID); httpkit.HandleError(c, err) {
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *Handler) CreateShareLink(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	quotationID, ok := quotationIDParam(c)
	if !ok {
		return
	}

	url, err := h.svc.CreateShareLink(c.Request.Context(), actor, quotationID)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.JSON(c, http.StatusCreated, transport.ShareLinkResponse{URL: url})
}

func (h *Handler) ListItems(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	quotationID, ok := quotationIDParam(c)
	if !ok {
		return
	}

	items, err := h.svc.ListItems(c.Request.Context(), actor, quotationID)
	if httpkit.HandleError(c, err) {
		return
	}

	out := make([]transport.ItemResponse, 0, len(items))
	for _, item := range items {
		out = append(out, toItemResponse(item))
	}
	httpkit.OK(c, out)
}

func (h *Handler) AddItem(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	quotationID, ok := quotationIDParam(c)
	if !ok {
		return
	}

	var req transport.AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	serviceID, err := uuid.Parse(req.ServiceID)
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid service id", nil)
		return
	}

	item, err := h.svc.AddItem(c.Request.Context(), actor, quotationID, service.ItemInput{
		Ref:         domain.ServiceRef{Type: domain.ServiceType(req.ServiceType), ID: serviceID},
		Description: req.Description,
		PriceCents:  req.PriceCents,
		SortOrder:   req.SortOrder,
	})
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.JSON(c, http.StatusCreated, toItemResponse(item))
}

func (h *Handler) UpdateItem(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	quotationID, ok := quotationIDParam(c)
	if !ok {
		return
	}
	itemID, ok := uuidParam(c, "itemID", "invalid item id")
	if !ok {
		return
	}

	var req transport.UpdateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	item, err := h.svc.UpdateItem(c.Request.Context(), actor, quotationID, itemID, repository.ItemUpdate{
		Description: req.Description,
		PriceCents:  req.PriceCents,
	})
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, toItemResponse(item))
}

func (h *Handler) RemoveItem(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	quotationID, ok := quotationIDParam(c)
	if !ok {
		return
	}
	itemID, ok := uuidParam(c, "itemID", "invalid item id")
	if !ok {
		return
	}

	if err := h.svc.RemoveItem(c.Request.Context(), actor, quotationID, itemID); httpkit.HandleError(c, err) {
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *Handler) ListDays(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	quotationID, ok := quotationIDParam(c)
	if !ok {
		return
	}

	days, err := h.svc.ListDays(c.Request.Context(), actor, quotationID)
	if httpkit.HandleError(c, err) {
		return
	}

	out := make([]transport.DayResponse, 0, len(days))
	for _, day := range days {
		out = append(out, toDayResponse(day))
	}
	httpkit.OK(c, out)
}

func (h *Handler) AddDay(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	quotationID, ok := quotationIDParam(c)
	if !ok {
		return
	}

	var req transport.AddDayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	day, err := h.svc.AddDay(c.Request.Context(), actor, quotationID, service.DayInput{
		DayNumber:       req.DayNumber,
		Headline:        req.Headline,
		Description:     req.Description,
		DurationMinutes: req.DurationMinutes,
		Notes:           req.Notes,
		Images:          req.Images,
	})
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.JSON(c, http.StatusCreated, toDayResponse(day))
}

func (h *Handler) UpdateDay(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	quotationID, ok := quotationIDParam(c)
	if !ok {
		return
	}
	dayID, ok := uuidParam(c, "dayID", "invalid day id")
	if !ok {
		return
	}

	var req transport.UpdateDayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	day, err := h.svc.UpdateDay(c.Request.Context(), actor, quotationID, dayID, repository.DayUpdate{
		DayNumber:       req.DayNumber,
		Headline:        req.Headline,
		Description:     req.Description,
		DurationMinutes: req.DurationMinutes,
		Notes:           req.Notes,
		Images:          req.Images,
	})
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, toDayResponse(day))
}

func (h *Handler) RemoveDay(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	quotationID, ok := quotationIDParam(c)
	if !ok {
		return
	}
	dayID, ok := uuidParam(c, "dayID", "invalid day id")
	if !ok {
		return
	}

	if err := h.svc.RemoveDay(c.Request.Context(), actor, quotationID, dayID); httpkit.HandleError(c, err) {
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *Handler) CompactDays(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	quotationID, ok := quotationIDParam(c)
	if !ok {
		return
	}

	days, err := h.svc.CompactDays(c.Request.Context(), actor, quotationID)
	if httpkit.HandleError(c, err) {
		return
	}

	out := make([]transport.DayResponse, 0, len(days))
	for _, day := range days {
		out = append(out, toDayResponse(day))
	}
	httpkit.OK(c, out)
}

func toQuotationResponse(q repository.Quotation) transport.QuotationResponse {
	return transport.QuotationResponse{
		ID:          q.ID.String(),
		AgencyID:    q.AgencyID.String(),
		ClientID:    q.ClientID.String(),
		Destination: q.Destination,
		StartDate:   q.StartDate.Format(dateLayout),
		EndDate:     q.EndDate.Format(dateLayout),
		Adults:      q.Adults,
		Children:    q.Children,
		Infants:     q.Infants,
		Status:      string(q.Status),
		TotalCents:  q.TotalCents,
		CreatedAt:   q.CreatedAt,
		UpdatedAt:   q.UpdatedAt,
	}
}

func toItemResponse(item repository.Item) transport.ItemResponse {
	return transport.ItemResponse{
		ID:          item.ID.String(),
		ServiceType: string(item.ServiceType),
		ServiceID:   item.ServiceID.String(),
		Description: item.Description,
		PriceCents:  item.PriceCents,
		SortOrder:   item.SortOrder,
		CreatedAt:   item.CreatedAt,
	}
}

func toDayResponse(day repository.Day) transport.DayResponse {
	return transport.DayResponse{
		ID:              day.ID.String(),
		DayNumber:       day.DayNumber,
		Headline:        day.Headline,
		Description:     day.Description,
		DurationMinutes: day.DurationMinutes,
		Notes:           day.Notes,
		Images:          day.Images,
		CreatedAt:       day.CreatedAt,
		UpdatedAt:       day.UpdatedAt,
	}
}

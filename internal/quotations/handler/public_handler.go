package handler

import (
	"net/http"

	"travelquote_backend/internal/quotations/service"
	"travelquote_backend/internal/quotations/transport"
	"travelquote_backend/platform/httpkit"

	"github.com/gin-gonic/gin"
	qrcode "github.com/skip2/go-qrcode"
)

const qrSizePixels = 256

// PublicHandler serves unauthenticated share-link views. The token is
// the capability; there is no identity on these routes.
type PublicHandler struct {
	svc *service.Service
}

func NewPublicHandler(svc *service.Service) *PublicHandler {
	return &PublicHandler{svc: svc}
}

func (h *PublicHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/:token", h.GetQuotation)
	rg.GET("/:token/qr", h.GetQR)
}

// GetQuotation handles GET /api/v1/public/quotations/:token
func (h *PublicHandler) GetQuotation(c *gin.Context) {
	token := c.Param("token")
	if token == "" {
		httpkit.Error(c, http.StatusBadRequest, "token is required", nil)
		return
	}

	view, err := h.svc.GetPublic(c.Request.Context(), token)
	if httpkit.HandleError(c, err) {
		return
	}

	items := make([]transport.ItemResponse, 0, len(view.Items))
	for _, item := range view.Items {
		items = append(items, toItemResponse(item))
	}
	days := make([]transport.DayResponse, 0, len(view.Days))
	for _, day := range view.Days {
		days = append(days, toDayResponse(day))
	}

	q := view.Quotation
	httpkit.OK(c, transport.PublicQuotationResponse{
		Destination: q.Destination,
		StartDate:   q.StartDate.Format(dateLayout),
		EndDate:     q.EndDate.Format(dateLayout),
		Adults:      q.Adults,
		Children:    q.Children,
		Infants:     q.Infants,
		Status:      string(q.Status),
		TotalCents:  q.TotalCents,
		Items:       items,
		Days:        days,
	})
}

// GetQR renders the share URL as a PNG QR code. The token is validated
// before encoding so dead links never get a code.
func (h *PublicHandler) GetQR(c *gin.Context) {
	token := c.Param("token")
	if token == "" {
		httpkit.Error(c, http.StatusBadRequest, "token is required", nil)
		return
	}

	if _, err := h.svc.GetPublic(c.Request.Context(), token); httpkit.HandleError(c, err) {
		return
	}

	png, err := qrcode.Encode(h.svc.PublicURL(token), qrcode.Medium, qrSizePixels)
	if err != nil {
		httpkit.Error(c, http.StatusInternalServerError, "QR generation failed", nil)
		return
	}

	c.Data(http.StatusOK, "image/png", png)
}

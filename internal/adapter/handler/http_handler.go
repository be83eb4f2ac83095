package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/M-Marcel/marketplace-contract/internal/core/domain"
	"github.com/M-Marcel/marketplace-contract/internal/core/service"
)

type HTTPHandler struct {
	registry    *service.ItemRegistry
	settlement  *service.SaleSettlement
	fulfillment *service.OrderFulfillment
}

func NewHTTPHandler(registry *service.ItemRegistry, settlement *service.SaleSettlement, fulfillment *service.OrderFulfillment) *HTTPHandler {
	return &HTTPHandler{
		registry:    registry,
		settlement:  settlement,
		fulfillment: fulfillment,
	}
}

// Register mounts all marketplace routes.
func (h *HTTPHandler) Register(r *gin.Engine) {
	r.GET("/health", h.HealthCheck)

	api := r.Group("/api")
	{
		api.POST("/items", h.CreateItem)
		api.GET("/items", h.ListItems)
		api.GET("/items/:id", h.GetItem)
		api.POST("/purchase", h.Purchase)
		api.GET("/items-sold", h.ItemsSold)
		api.GET("/service-fee", h.ServiceFee)
		api.PUT("/service-fee", h.SetServiceFee)
		api.POST("/offers", h.CreateOffer)
		api.GET("/offers/:id", h.GetOffer)
		api.POST("/offers/:id/fulfill", h.FulfillOffer)
		api.POST("/offers/:id/cancel", h.CancelOffer)
	}
}

type CreateItemRequest struct {
	Seller          string `json:"seller" binding:"required"`
	RoyaltyReceiver string `json:"royalty_receiver"`
	Price           int64  `json:"price" binding:"required"`
	Quantity        int64  `json:"quantity" binding:"required"`
	RoyaltyBps      int64  `json:"royalty_bps"`
	MetadataURI     string `json:"metadata_uri"`
}

type PurchaseHTTPRequest struct {
	RequestID   string `json:"request_id"`
	Buyer       string `json:"buyer" binding:"required"`
	ItemID      uint64 `json:"item_id"`
	Quantity    int64  `json:"quantity"`
	Price       int64  `json:"price"`
	RoyaltyBps  int64  `json:"royalty_bps"`
	MetadataURI string `json:"metadata_uri"`
	Payment     int64  `json:"payment" binding:"required"`
}

type SetServiceFeeRequest struct {
	Caller string `json:"caller" binding:"required"`
	Bps    *int64 `json:"bps" binding:"required"`
}

type CreateOfferRequest struct {
	Owner string `json:"owner" binding:"required"`
}

type OfferActionRequest struct {
	Caller string `json:"caller" binding:"required"`
}

func (h *HTTPHandler) CreateItem(c *gin.Context) {
	var req CreateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request format", "details": err.Error()})
		return
	}

	item, err := h.registry.CreateItem(req.Seller, req.RoyaltyReceiver, req.Price, req.Quantity, req.RoyaltyBps, req.MetadataURI)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, itemResponse(item))
}

func (h *HTTPHandler) GetItem(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	item, err := h.registry.GetItem(id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, itemResponse(item))
}

func (h *HTTPHandler) ListItems(c *gin.Context) {
	items := h.registry.ListItems()
	out := make([]gin.H, 0, len(items))
	for _, item := range items {
		out = append(out, itemResponse(item))
	}
	c.JSON(http.StatusOK, gin.H{"items": out})
}

func (h *HTTPHandler) Purchase(c *gin.Context) {
	var req PurchaseHTTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request format", "details": err.Error()})
		return
	}
	if req.RequestID == "" {
		req.RequestID = uuid.New().String()
	}

	receipt, err := h.settlement.BuyItemCopy(c.Request.Context(), service.PurchaseRequest{
		RequestID:        req.RequestID,
		Buyer:            req.Buyer,
		ItemID:           req.ItemID,
		Quantity:         req.Quantity,
		PriceClaim:       req.Price,
		RoyaltyBpsClaim:  req.RoyaltyBps,
		MetadataURIClaim: req.MetadataURI,
		Payment:          req.Payment,
	})
	if err != nil {
		log.Warn().Err(err).Str("request_id", req.RequestID).Uint64("item_id", req.ItemID).Msg("purchase rejected")
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"receipt_id":         receipt.ID,
		"item_id":            receipt.ItemID,
		"buyer":              receipt.Buyer,
		"quantity":           receipt.Quantity,
		"paid_amount":        receipt.PaidAmount,
		"seller_amount":      receipt.SellerAmount,
		"royalty_amount":     receipt.RoyaltyAmount,
		"service_fee_amount": receipt.ServiceFeeAmount,
		"remaining_quantity": receipt.RemainingQuantity,
	})
}

func (h *HTTPHandler) ItemsSold(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"items_sold": h.registry.ItemsSold()})
}

func (h *HTTPHandler) ServiceFee(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"service_fee_bps": h.settlement.ServiceFee()})
}

func (h *HTTPHandler) SetServiceFee(c *gin.Context) {
	var req SetServiceFeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request format", "details": err.Error()})
		return
	}

	if err := h.settlement.SetServiceFee(req.Caller, *req.Bps); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"service_fee_bps": h.settlement.ServiceFee()})
}

func (h *HTTPHandler) CreateOffer(c *gin.Context) {
	var req CreateOfferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request format", "details": err.Error()})
		return
	}

	offer, err := h.fulfillment.CreateOffer(req.Owner)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, offerResponse(offer))
}

func (h *HTTPHandler) GetOffer(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	offer, err := h.fulfillment.GetOffer(id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, offerResponse(offer))
}

func (h *HTTPHandler) FulfillOffer(c *gin.Context) {
	h.offerTransition(c, h.fulfillment.FulfillOffer)
}

func (h *HTTPHandler) CancelOffer(c *gin.Context) {
	h.offerTransition(c, h.fulfillment.CancelOffer)
}

func (h *HTTPHandler) offerTransition(c *gin.Context, transition func(uint64, string) error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	var req OfferActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request format", "details": err.Error()})
		return
	}

	if err := transition(id, req.Caller); err != nil {
		respondError(c, err)
		return
	}

	offer, err := h.fulfillment.GetOffer(id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, offerResponse(offer))
}

func (h *HTTPHandler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func itemResponse(item domain.Item) gin.H {
	return gin.H{
		"item_id":          item.ID,
		"seller":           item.Seller,
		"royalty_receiver": item.RoyaltyReceiver,
		"price":            item.Price,
		"quantity":         item.Quantity,
		"initial_quantity": item.InitialQuantity,
		"royalty_bps":      item.RoyaltyBps,
		"metadata_uri":     item.MetadataURI,
		"total_sold":       item.TotalSold,
	}
}

func offerResponse(offer domain.Offer) gin.H {
	return gin.H{
		"offer_id":  offer.ID,
		"owner":     offer.Owner,
		"state":     offer.State,
		"fulfiller": offer.Fulfiller,
	}
}

func respondError(c *gin.Context, err error) {
	c.JSON(statusFromError(err), gin.H{"error": err.Error()})
}

func statusFromError(err error) int {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrSoldOut):
		return http.StatusGone
	case errors.Is(err, domain.ErrIncorrectPayment):
		return http.StatusPaymentRequired
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrInvalidState),
		errors.Is(err, domain.ErrDuplicateRequest):
		return http.StatusConflict
	case errors.Is(err, domain.ErrInvalidPrice),
		errors.Is(err, domain.ErrInvalidQuantity),
		errors.Is(err, domain.ErrInvalidRoyalty),
		errors.Is(err, domain.ErrInvalidFee),
		errors.Is(err, domain.ErrFeeOverflow):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

package http

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v76"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/plateful/plateful/internal/domain"
	"github.com/plateful/plateful/internal/log"
	"github.com/plateful/plateful/internal/queue"
)

// GetOrders godoc
// @Summary List the authenticated user's orders
// @Tags order
// @Security SessionCookie
// @Produce json
// @Success 200 {object} map[string]any
// @Router /api/v1/order [get]
func (h *Handler) GetOrders(c *gin.Context) {
	uid, ok := authUserID(c)
	if !ok {
		fail(c, http.StatusUnauthorized, "user not authenticated")
		return
	}
	orders, err := h.Store.ListOrdersByUser(c.Request.Context(), uid)
	if err != nil {
		fail(c, http.StatusInternalServerError, "internal server error")
		return
	}
	if orders == nil {
		orders = []domain.Order{}
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "orders": orders})
}

type checkoutItem struct {
	MenuID   string `json:"menu_id"`
	Quantity int    `json:"quantity"`
}

type checkoutReq struct {
	RestaurantID string                 `json:"restaurant_id"`
	Delivery     domain.DeliveryDetails `json:"delivery_details"`
	CartItems    []checkoutItem         `json:"cart_items"`
}

// CreateCheckoutSession godoc
// @Summary Create a Stripe checkout session for the cart
// @Tags order
// @Security SessionCookie
// @Accept json
// @Produce json
// @Param payload body checkoutReq true "cart"
// @Success 200 {object} map[string]any
// @Failure 400 {object} map[string]any
// @Router /api/v1/order/checkout/create-checkout-session [post]
func (h *Handler) CreateCheckoutSession(c *gin.Context) {
	uid, ok := authUserID(c)
	if !ok {
		fail(c, http.StatusUnauthorized, "user not authenticated")
		return
	}
	var in checkoutReq
	if err := c.ShouldBindJSON(&in); err != nil || len(in.CartItems) == 0 {
		fail(c, http.StatusBadRequest, "cart items are required")
		return
	}
	if strings.TrimSpace(in.Delivery.Name) == "" || strings.TrimSpace(in.Delivery.Address) == "" ||
		strings.TrimSpace(in.Delivery.Email) == "" || strings.TrimSpace(in.Delivery.City) == "" {
		fail(c, http.StatusBadRequest, "delivery details are required")
		return
	}
	restID, err := primitive.ObjectIDFromHex(in.RestaurantID)
	if err != nil {
		fail(c, http.StatusBadRequest, "invalid restaurant id")
		return
	}
	r, err := h.Store.FindRestaurantByID(c.Request.Context(), restID)
	if err != nil {
		fail(c, http.StatusInternalServerError, "internal server error")
		return
	}
	if r == nil {
		fail(c, http.StatusNotFound, "restaurant not found")
		return
	}

	// prices come from the menu collection, not from the client
	var (
		items []domain.CartItem
		total int64
	)
	for _, ci := range in.CartItems {
		if ci.Quantity <= 0 {
			fail(c, http.StatusBadRequest, "quantity must be positive")
			return
		}
		menuID, err := primitive.ObjectIDFromHex(ci.MenuID)
		if err != nil {
			fail(c, http.StatusBadRequest, "invalid menu id in cart")
			return
		}
		m, err := h.Store.FindMenuByID(c.Request.Context(), menuID)
		if err != nil {
			fail(c, http.StatusInternalServerError, "internal server error")
			return
		}
		if m == nil || m.RestaurantID != restID {
			fail(c, http.StatusBadRequest, "menu item not found on this restaurant")
			return
		}
		items = append(items, domain.CartItem{
			MenuID:   m.ID,
			Name:     m.Name,
			ImageURL: m.ImageURL,
			Price:    m.Price,
			Quantity: ci.Quantity,
		})
		total += m.Price * int64(ci.Quantity)
	}

	// the order is written first so a paid session always has a record
	// to confirm; an unpaid pending order is harmless
	o := &domain.Order{
		UserID:       uid,
		RestaurantID: restID,
		Items:        items,
		Delivery:     in.Delivery,
		TotalAmount:  total,
		Status:       domain.OrderPending,
	}
	if err := h.Store.CreateOrder(c.Request.Context(), o); err != nil {
		fail(c, http.StatusInternalServerError, "internal server error")
		return
	}

	base := strings.TrimRight(h.Cfg.FrontendURL, "/")
	sess, err := h.Pay.CreateCheckoutSession(o.ID.Hex(), items, base+"/order/status", base+"/cart")
	if err != nil {
		log.Errorf("stripe checkout session for order %s: %v", o.ID.Hex(), err)
		fail(c, http.StatusInternalServerError, "failed to create checkout session")
		return
	}
	if err := h.Store.SetOrderSession(c.Request.Context(), o.ID, sess.ID); err != nil {
		fail(c, http.StatusInternalServerError, "internal server error")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "session": gin.H{"id": sess.ID, "url": sess.URL}})
}

// StripeWebhook godoc
// @Summary Stripe payment confirmation callback
// @Tags order
// @Accept json
// @Produce json
// @Success 200 {object} map[string]any
// @Failure 400 {object} map[string]any
// @Router /api/v1/order/webhook [post]
func (h *Handler) StripeWebhook(c *gin.Context) {
	payload, err := c.GetRawData()
	if err != nil {
		fail(c, http.StatusBadRequest, "invalid payload")
		return
	}
	event, err := h.Pay.VerifyWebhook(payload, c.GetHeader("Stripe-Signature"))
	if err != nil {
		log.Errorf("stripe webhook verify: %v", err)
		fail(c, http.StatusBadRequest, "invalid signature")
		return
	}

	if event.Type == "checkout.session.completed" {
		var sess stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &sess); err != nil {
			fail(c, http.StatusBadRequest, "invalid event payload")
			return
		}
		o, err := h.Store.ConfirmOrderBySession(c.Request.Context(), sess.ID)
		if err != nil {
			fail(c, http.StatusInternalServerError, "internal server error")
			return
		}
		if o != nil {
			go h.Events.Publish(context.WithoutCancel(c.Request.Context()), queue.Exchange, "order.placed",
				queue.OrderPlaced{OrderID: o.ID, UserID: o.UserID, RestaurantID: o.RestaurantID, TotalAmount: o.TotalAmount},
				c.GetString("X-Request-ID"))
		}
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// GetRestaurantOrders godoc
// @Summary List orders for the admin's restaurant
// @Tags order
// @Security SessionCookie
// @Produce json
// @Success 200 {object} map[string]any
// @Failure 404 {object} map[string]any
// @Router /api/v1/order/restaurant [get]
func (h *Handler) GetRestaurantOrders(c *gin.Context) {
	uid, ok := authUserID(c)
	if !ok {
		fail(c, http.StatusUnauthorized, "user not authenticated")
		return
	}
	r, err := h.Store.FindRestaurantByOwner(c.Request.Context(), uid)
	if err != nil {
		fail(c, http.StatusInternalServerError, "internal server error")
		return
	}
	if r == nil {
		fail(c, http.StatusNotFound, "restaurant not found")
		return
	}
	orders, err := h.Store.ListOrdersByRestaurant(c.Request.Context(), r.ID)
	if err != nil {
		fail(c, http.StatusInternalServerError, "internal server error")
		return
	}
	if orders == nil {
		orders = []domain.Order{}
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "orders": orders})
}

type orderStatusReq struct {
	Status string `json:"status"`
}

// UpdateOrderStatus godoc
// @Summary Update the status of an order on the admin's restaurant
// @Tags order
// @Security SessionCookie
// @Accept json
// @Produce json
// @Param id path string true "order id"
// @Param payload body orderStatusReq true "new status"
// @Success 200 {object} map[string]any
// @Failure 400 {object} map[string]any
// @Router /api/v1/order/{id}/status [put]
func (h *Handler) UpdateOrderStatus(c *gin.Context) {
	uid, ok := authUserID(c)
	if !ok {
		fail(c, http.StatusUnauthorized, "user not authenticated")
		return
	}
	orderID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		fail(c, http.StatusBadRequest, "invalid order id")
		return
	}
	var in orderStatusReq
	if err := c.ShouldBindJSON(&in); err != nil || !domain.ValidOrderStatus(in.Status) {
		fail(c, http.StatusBadRequest, "invalid order status")
		return
	}

	r, err := h.Store.FindRestaurantByOwner(c.Request.Context(), uid)
	if err != nil {
		fail(c, http.StatusInternalServerError, "internal server error")
		return
	}
	if r == nil {
		fail(c, http.StatusNotFound, "restaurant not found")
		return
	}

	o, err := h.Store.UpdateOrderStatus(c.Request.Context(), orderID, r.ID, domain.OrderStatus(in.Status))
	if err != nil {
		fail(c, http.StatusInternalServerError, "internal server error")
		return
	}
	if o == nil {
		fail(c, http.StatusNotFound, "order not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Status updated", "order": o})
}

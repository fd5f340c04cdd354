package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/plateful/plateful/internal/domain"
	"github.com/plateful/plateful/internal/log"
	"github.com/plateful/plateful/internal/repo"
)

type restaurantReq struct {
	Name         string   `json:"name"`
	City         string   `json:"city"`
	Country      string   `json:"country"`
	DeliveryTime int      `json:"delivery_time"`
	Cuisines     []string `json:"cuisines"`
	Image        string   `json:"image"` // data URI, optional
}

// CreateRestaurant godoc
// @Summary Create a restaurant (one per user, promotes owner to admin)
// @Tags restaurant
// @Security SessionCookie
// @Accept json
// @Produce json
// @Param payload body restaurantReq true "restaurant"
// @Success 201 {object} map[string]any
// @Failure 400 {object} map[string]any
// @Router /api/v1/restaurant [post]
func (h *Handler) CreateRestaurant(c *gin.Context) {
	uid, ok := authUserID(c)
	if !ok {
		fail(c, http.StatusUnauthorized, "user not authenticated")
		return
	}
	var in restaurantReq
	if err := c.ShouldBindJSON(&in); err != nil {
		fail(c, http.StatusBadRequest, "invalid json")
		return
	}
	if strings.TrimSpace(in.Name) == "" || strings.TrimSpace(in.City) == "" ||
		strings.TrimSpace(in.Country) == "" || in.DeliveryTime <= 0 {
		fail(c, http.StatusBadRequest, "name, city, country and delivery time are required")
		return
	}

	imageURL := ""
	if in.Image != "" {
		url, err := h.Media.UploadImage(c.Request.Context(), in.Image, "plateful/restaurants")
		if err != nil {
			log.Errorf("restaurant image upload: %v", err)
			fail(c, http.StatusBadRequest, "failed to upload restaurant image")
			return
		}
		imageURL = url
	}

	r := &domain.Restaurant{
		OwnerID:      uid,
		Name:         strings.TrimSpace(in.Name),
		City:         strings.TrimSpace(in.City),
		Country:      strings.TrimSpace(in.Country),
		DeliveryTime: in.DeliveryTime,
		Cuisines:     in.Cuisines,
		ImageURL:     imageURL,
	}
	if err := h.Store.CreateRestaurant(c.Request.Context(), r); err != nil {
		if err == repo.ErrRestaurantExists {
			fail(c, http.StatusBadRequest, "restaurant already exists for this user")
			return
		}
		fail(c, http.StatusInternalServerError, "internal server error")
		return
	}

	if err := h.Store.SetAdmin(c.Request.Context(), uid); err != nil {
		log.Errorf("promote owner %s to admin: %v", uid.Hex(), err)
	}

	c.JSON(http.StatusCreated, gin.H{
		"success":    true,
		"message":    "Restaurant created successfully",
		"restaurant": r,
	})
}

// GetOwnRestaurant godoc
// @Summary Get the authenticated admin's restaurant with its menus
// @Tags restaurant
// @Security SessionCookie
// @Produce json
// @Success 200 {object} map[string]any
// @Failure 404 {object} map[string]any
// @Router /api/v1/restaurant [get]
func (h *Handler) GetOwnRestaurant(c *gin.Context) {
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
	menus, err := h.Store.ListMenusByRestaurant(c.Request.Context(), r.ID)
	if err != nil {
		fail(c, http.StatusInternalServerError, "internal server error")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "restaurant": r, "menus": menus})
}

// UpdateRestaurant godoc
// @Summary Update the authenticated admin's restaurant
// @Tags restaurant
// @Security SessionCookie
// @Accept json
// @Produce json
// @Param payload body restaurantReq true "fields to update"
// @Success 200 {object} map[string]any
// @Failure 400 {object} map[string]any
// @Router /api/v1/restaurant [put]
func (h *Handler) UpdateRestaurant(c *gin.Context) {
	uid, ok := authUserID(c)
	if !ok {
		fail(c, http.StatusUnauthorized, "user not authenticated")
		return
	}
	var in restaurantReq
	if err := c.ShouldBindJSON(&in); err != nil {
		fail(c, http.StatusBadRequest, "invalid json")
		return
	}

	fields := bson.M{}
	if strings.TrimSpace(in.Name) != "" {
		fields["name"] = strings.TrimSpace(in.Name)
	}
	if strings.TrimSpace(in.City) != "" {
		fields["city"] = strings.TrimSpace(in.City)
	}
	if strings.TrimSpace(in.Country) != "" {
		fields["country"] = strings.TrimSpace(in.Country)
	}
	if in.DeliveryTime > 0 {
		fields["delivery_time"] = in.DeliveryTime
	}
	if in.Cuisines != nil {
		fields["cuisines"] = in.Cuisines
	}
	if in.Image != "" {
		url, err := h.Media.UploadImage(c.Request.Context(), in.Image, "plateful/restaurants")
		if err != nil {
			log.Errorf("restaurant image upload: %v", err)
			fail(c, http.StatusBadRequest, "failed to upload restaurant image")
			return
		}
		fields["image_url"] = url
	}
	if len(fields) == 0 {
		fail(c, http.StatusBadRequest, "nothing to update")
		return
	}

	r, err := h.Store.UpdateRestaurant(c.Request.Context(), uid, fields)
	if err != nil {
		fail(c, http.StatusInternalServerError, "internal server error")
		return
	}
	if r == nil {
		fail(c, http.StatusNotFound, "restaurant not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Restaurant updated", "restaurant": r})
}

// GetRestaurant godoc
// @Summary Public restaurant detail with menus
// @Tags restaurant
// @Produce json
// @Param id path string true "restaurant id"
// @Success 200 {object} map[string]any
// @Failure 404 {object} map[string]any
// @Router /api/v1/restaurant/{id} [get]
func (h *Handler) GetRestaurant(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		fail(c, http.StatusBadRequest, "invalid restaurant id")
		return
	}
	r, err := h.Store.FindRestaurantByID(c.Request.Context(), id)
	if err != nil {
		fail(c, http.StatusInternalServerError, "internal server error")
		return
	}
	if r == nil {
		fail(c, http.StatusNotFound, "restaurant not found")
		return
	}
	menus, err := h.Store.ListMenusByRestaurant(c.Request.Context(), r.ID)
	if err != nil {
		fail(c, http.StatusInternalServerError, "internal server error")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "restaurant": r, "menus": menus})
}

// SearchRestaurants godoc
// @Summary Search restaurants by name, city, country or cuisine
// @Tags restaurant
// @Produce json
// @Param query path string true "search text"
// @Param cuisines query string false "comma-separated cuisine filter"
// @Success 200 {object} map[string]any
// @Router /api/v1/restaurant/search/{query} [get]
func (h *Handler) SearchRestaurants(c *gin.Context) {
	query := strings.TrimSpace(c.Param("query"))
	var cuisines []string
	if raw := c.Query("cuisines"); raw != "" {
		for _, cu := range strings.Split(raw, ",") {
			if cu = strings.TrimSpace(cu); cu != "" {
				cuisines = append(cuisines, cu)
			}
		}
	}
	out, err := h.Store.SearchRestaurants(c.Request.Context(), query, cuisines)
	if err != nil {
		fail(c, http.StatusInternalServerError, "internal server error")
		return
	}
	if out == nil {
		out = []domain.Restaurant{}
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": out})
}

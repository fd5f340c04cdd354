package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/plateful/plateful/internal/domain"
	"github.com/plateful/plateful/internal/log"
)

type menuReq struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       int64  `json:"price"` // minor units
	Image       string `json:"image"` // data URI, optional
}

// AddMenu godoc
// @Summary Add a menu item to the admin's restaurant
// @Tags menu
// @Security SessionCookie
// @Accept json
// @Produce json
// @Param payload body menuReq true "menu item"
// @Success 201 {object} map[string]any
// @Failure 400 {object} map[string]any
// @Router /api/v1/menu [post]
func (h *Handler) AddMenu(c *gin.Context) {
	uid, ok := authUserID(c)
	if !ok {
		fail(c, http.StatusUnauthorized, "user not authenticated")
		return
	}
	var in menuReq
	if err := c.ShouldBindJSON(&in); err != nil {
		fail(c, http.StatusBadRequest, "invalid json")
		return
	}
	if strings.TrimSpace(in.Name) == "" || in.Price <= 0 {
		fail(c, http.StatusBadRequest, "name and a positive price are required")
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

	imageURL := ""
	if in.Image != "" {
		url, err := h.Media.UploadImage(c.Request.Context(), in.Image, "plateful/menus")
		if err != nil {
			log.Errorf("menu image upload: %v", err)
			fail(c, http.StatusBadRequest, "failed to upload menu image")
			return
		}
		imageURL = url
	}

	m := &domain.Menu{
		RestaurantID: r.ID,
		Name:         strings.TrimSpace(in.Name),
		Description:  in.Description,
		Price:        in.Price,
		ImageURL:     imageURL,
	}
	if err := h.Store.AddMenu(c.Request.Context(), m); err != nil {
		fail(c, http.StatusInternalServerError, "internal server error")
		return
	}
	if err := h.Store.PushMenu(c.Request.Context(), r.ID, m.ID); err != nil {
		log.Errorf("push menu %s to restaurant %s: %v", m.ID.Hex(), r.ID.Hex(), err)
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "message": "Menu added successfully", "menu": m})
}

// EditMenu godoc
// @Summary Edit a menu item on the admin's restaurant
// @Tags menu
// @Security SessionCookie
// @Accept json
// @Produce json
// @Param id path string true "menu id"
// @Param payload body menuReq true "fields to update"
// @Success 200 {object} map[string]any
// @Failure 400 {object} map[string]any
// @Router /api/v1/menu/{id} [put]
func (h *Handler) EditMenu(c *gin.Context) {
	uid, ok := authUserID(c)
	if !ok {
		fail(c, http.StatusUnauthorized, "user not authenticated")
		return
	}
	menuID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		fail(c, http.StatusBadRequest, "invalid menu id")
		return
	}
	var in menuReq
	if err := c.ShouldBindJSON(&in); err != nil {
		fail(c, http.StatusBadRequest, "invalid json")
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

	fields := bson.M{}
	if strings.TrimSpace(in.Name) != "" {
		fields["name"] = strings.TrimSpace(in.Name)
	}
	if in.Description != "" {
		fields["description"] = in.Description
	}
	if in.Price > 0 {
		fields["price"] = in.Price
	}
	if in.Image != "" {
		url, err := h.Media.UploadImage(c.Request.Context(), in.Image, "plateful/menus")
		if err != nil {
			log.Errorf("menu image upload: %v", err)
			fail(c, http.StatusBadRequest, "failed to upload menu image")
			return
		}
		fields["image_url"] = url
	}
	if len(fields) == 0 {
		fail(c, http.StatusBadRequest, "nothing to update")
		return
	}

	m, err := h.Store.UpdateMenu(c.Request.Context(), menuID, r.ID, fields)
	if err != nil {
		fail(c, http.StatusInternalServerError, "internal server error")
		return
	}
	if m == nil {
		fail(c, http.StatusNotFound, "menu not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Menu updated", "menu": m})
}

package http

import (
	"net/http"
	"strconv"
	"strings"

	"adminhub/internal/domain"
	"adminhub/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

func (h *Handler) ListProducts(c *gin.Context) {
	categoryID, err := queryUint(c, "category")
	if err != nil {
		badRequest(c, err)
		return
	}
	page, err := h.svc.Catalog.ListProducts(c.Request.Context(), domain.ProductFilter{
		CategoryID: categoryID,
		Status:     domain.StockStatus(c.Query("status")),
		Search:     c.Query("search"),
		Page:       queryInt(c, "page"),
		Limit:      queryInt(c, "limit"),
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *Handler) GetProduct(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	p, err := h.svc.Catalog.GetProduct(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"product": p})
}

// productInput parses the product form. Price and stock are required on
// both create and update; a blank value is rejected instead of becoming 0.
func productInput(c *gin.Context) (services.ProductInput, error) {
	in := services.ProductInput{
		Name:        c.PostForm("name"),
		SKU:         c.PostForm("sku"),
		Description: c.PostForm("description"),
	}
	price, err := decimal.NewFromString(strings.TrimSpace(c.PostForm("price")))
	if err != nil {
		return in, errInvalid("price")
	}
	in.Price = price
	if in.CategoryID, err = formUint(c, "category"); err != nil {
		return in, err
	}
	if in.Stock, err = formRequiredInt(c, "stock"); err != nil {
		return in, err
	}
	return in, nil
}

func (h *Handler) CreateProduct(c *gin.Context) {
	if err := parseForm(c); err != nil {
		badRequest(c, err)
		return
	}
	in, err := productInput(c)
	if err != nil {
		badRequest(c, err)
		return
	}
	img, done, err := formImage(c)
	if err != nil {
		badRequest(c, err)
		return
	}
	defer done()

	p, err := h.svc.Catalog.CreateProduct(c.Request.Context(), in, img)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"product": p})
}

func (h *Handler) UpdateProduct(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	if err := parseForm(c); err != nil {
		badRequest(c, err)
		return
	}
	in, err := productInput(c)
	if err != nil {
		badRequest(c, err)
		return
	}
	img, done, err := formImage(c)
	if err != nil {
		badRequest(c, err)
		return
	}
	defer done()

	p, err := h.svc.Catalog.UpdateProduct(c.Request.Context(), id, in, img)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"product": p})
}

func (h *Handler) DeleteProduct(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	if err := h.svc.Catalog.DeleteProduct(c.Request.Context(), id); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *Handler) ListCategories(c *gin.Context) {
	f := domain.CategoryFilter{Search: c.Query("search")}
	switch parent := strings.TrimSpace(c.Query("parentId")); parent {
	case "":
	case "null":
		f.TopLevel = true
	default:
		id, err := strconv.ParseUint(parent, 10, 64)
		if err != nil {
			badRequest(c, errInvalid("parentId"))
			return
		}
		f.ParentID = &id
	}
	if raw := c.Query("isActive"); raw != "" {
		active := raw == "true"
		f.IsActive = &active
	}

	categories, err := h.svc.Categories.ListCategories(c.Request.Context(), f)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"categories": categories})
}

func (h *Handler) GetCategory(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	cat, err := h.svc.Categories.GetCategory(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"category": cat})
}

func categoryInput(c *gin.Context) (services.CategoryInput, error) {
	in := services.CategoryInput{
		Name:        c.PostForm("name"),
		Slug:        c.PostForm("slug"),
		Description: c.PostForm("description"),
		IsActive:    c.PostForm("isActive") == "true",
	}
	var err error
	in.ParentID, err = formOptionalUint(c, "parentCategory")
	return in, err
}

func (h *Handler) CreateCategory(c *gin.Context) {
	if err := parseForm(c); err != nil {
		badRequest(c, err)
		return
	}
	in, err := categoryInput(c)
	if err != nil {
		badRequest(c, err)
		return
	}
	img, done, err := formImage(c)
	if err != nil {
		badRequest(c, err)
		return
	}
	defer done()

	cat, err := h.svc.Categories.CreateCategory(c.Request.Context(), in, img)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"category": cat})
}

func (h *Handler) UpdateCategory(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	if err := parseForm(c); err != nil {
		badRequest(c, err)
		return
	}
	in, err := categoryInput(c)
	if err != nil {
		badRequest(c, err)
		return
	}
	img, done, err := formImage(c)
	if err != nil {
		badRequest(c, err)
		return
	}
	defer done()

	cat, err := h.svc.Categories.UpdateCategory(c.Request.Context(), id, in, img)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"category": cat})
}

func (h *Handler) DeleteCategory(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	if err := h.svc.Categories.DeleteCategory(c.Request.Context(), id); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

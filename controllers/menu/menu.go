package menuControllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/dineflow/ordering-api/catalog"
	"github.com/dineflow/ordering-api/models"
)

// GET /menu/products
func GetProducts(menu catalog.MenuCatalog) gin.HandlerFunc {
	return func(c *gin.Context) {
		products, err := menu.ListProducts(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch products"})
			return
		}
		c.JSON(http.StatusOK, products)
	}
}

// GET /menu/products/:id
func GetProductByID(menu catalog.MenuCatalog) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID"})
			return
		}

		product, err := menu.ProductByID(c.Request.Context(), uint(id))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve product"})
			return
		}
		if product == nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			return
		}
		c.JSON(http.StatusOK, product)
	}
}

// GET /menu/categories
func GetCategories(menu catalog.MenuCatalog) gin.HandlerFunc {
	return func(c *gin.Context) {
		categories, err := menu.ListCategories(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch categories"})
			return
		}
		c.JSON(http.StatusOK, categories)
	}
}

// GET /menu/products/:id/addons
// Lists the add-ons actually eligible for the product, so the client never
// offers a customization that reconciliation would drop.
func GetProductAddOns(menu catalog.MenuCatalog, addons catalog.AddOnCatalog) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID"})
			return
		}

		product, err := menu.ProductByID(c.Request.Context(), uint(id))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve product"})
			return
		}
		if product == nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			return
		}

		available, err := addons.ListAvailable(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch add-ons"})
			return
		}

		eligible := make([]models.AddOn, 0)
		for _, a := range available {
			if a.EligibleFor(product) {
				eligible = append(eligible, a)
			}
		}
		c.JSON(http.StatusOK, eligible)
	}
}

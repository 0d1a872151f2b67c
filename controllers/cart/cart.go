package cartControllers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/dineflow/ordering-api/auth"
	"github.com/dineflow/ordering-api/cart"
	"github.com/dineflow/ordering-api/catalog"
	"github.com/dineflow/ordering-api/models"
)

type OptionInput struct {
	ID    string            `json:"id" binding:"required"`
	Name  string            `json:"name"`
	Price string            `json:"price"` // decimal string, defaults to 0
	Kind  models.OptionKind `json:"kind"`
}

func (in OptionInput) toModel() (models.SelectedOption, error) {
	price := decimal.Zero
	if in.Price != "" {
		var err error
		price, err = decimal.NewFromString(in.Price)
		if err != nil {
			return models.SelectedOption{}, fmt.Errorf("option %s: invalid price %q", in.ID, in.Price)
		}
	}
	return models.SelectedOption{ID: in.ID, Name: in.Name, Price: price, Kind: in.Kind}, nil
}

type AddItemInput struct {
	ProductID uint          `json:"product_id" binding:"required"`
	Quantity  int           `json:"quantity" binding:"required,min=1"`
	Options   []OptionInput `json:"options"`
}

type UpdateQuantityInput struct {
	Quantity int `json:"quantity" binding:"required"`
}

// POST /user/cart/items
func AddItem(carts *cart.Manager, menu catalog.MenuCatalog) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := auth.CurrentUser(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		var input AddItemInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		product, err := menu.ProductByID(c.Request.Context(), input.ProductID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to validate product"})
			return
		}
		if product == nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Product does not exist"})
			return
		}

		options, err := parseOptions(input.Options)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		line := carts.ForUser(user.ID).AddItem(cart.AddSpec{
			ProductID:          product.ID,
			ProductName:        product.Name,
			ProductDescription: product.Description,
			BasePrice:          product.BasePrice,
			ImageURL:           product.ImageURL,
			SelectedOptions:    options,
			Quantity:           input.Quantity,
		})
		c.JSON(http.StatusCreated, line)
	}
}

// PATCH /user/cart/items/:lineID
func UpdateQuantity(carts *cart.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := auth.CurrentUser(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		var input UpdateQuantityInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		store := carts.ForUser(user.ID)
		store.UpdateQuantity(c.Param("lineID"), input.Quantity)
		c.JSON(http.StatusOK, store.Snapshot())
	}
}

// DELETE /user/cart/items/:lineID
func RemoveItem(carts *cart.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := auth.CurrentUser(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		store := carts.ForUser(user.ID)
		store.RemoveItem(c.Param("lineID"))
		c.JSON(http.StatusOK, store.Snapshot())
	}
}

// DELETE /user/cart
func ClearCart(carts *cart.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := auth.CurrentUser(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		carts.ForUser(user.ID).Clear()
		c.JSON(http.StatusOK, gin.H{"message": "Cart cleared"})
	}
}

// GET /user/cart
func GetCart(carts *cart.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := auth.CurrentUser(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		c.JSON(http.StatusOK, carts.ForUser(user.ID).Snapshot())
	}
}

func parseOptions(inputs []OptionInput) ([]models.SelectedOption, error) {
	options := make([]models.SelectedOption, 0, len(inputs))
	for _, in := range inputs {
		opt, err := in.toModel()
		if err != nil {
			return nil, err
		}
		options = append(options, opt)
	}
	return options, nil
}

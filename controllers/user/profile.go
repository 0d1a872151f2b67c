package userControllers

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/dineflow/ordering-api/auth"
	"github.com/dineflow/ordering-api/kvstore"
	"github.com/dineflow/ordering-api/models"
)

// GET /user/addresses
func GetAddresses(kv kvstore.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := auth.CurrentUser(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		addresses, err := loadAddresses(c, kv, user.ID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch addresses"})
			return
		}
		c.JSON(http.StatusOK, addresses)
	}
}

// POST /user/addresses
func SaveAddress(kv kvstore.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := auth.CurrentUser(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		var addr models.Address
		if err := c.ShouldBindJSON(&addr); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}
		if !addr.Complete() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Address must include street, city and postal code"})
			return
		}
		if addr.Label == "" {
			addr.Label = uuid.NewString()
		}

		addresses, err := loadAddresses(c, kv, user.ID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch addresses"})
			return
		}

		// Same label overwrites the saved entry.
		replaced := false
		for i := range addresses {
			if addresses[i].Label == addr.Label {
				addresses[i] = addr
				replaced = true
				break
			}
		}
		if !replaced {
			addresses = append(addresses, addr)
		}

		if err := storeJSON(c, kv, kvstore.UserKey(user.ID, kvstore.KeyAddresses), addresses); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save address"})
			return
		}
		c.JSON(http.StatusCreated, addr)
	}
}

// DELETE /user/addresses/:label
func DeleteAddress(kv kvstore.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := auth.CurrentUser(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		label := c.Param("label")

		addresses, err := loadAddresses(c, kv, user.ID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch addresses"})
			return
		}

		kept := addresses[:0]
		for _, a := range addresses {
			if a.Label != label {
				kept = append(kept, a)
			}
		}
		if len(kept) == len(addresses) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Address not found"})
			return
		}

		if err := storeJSON(c, kv, kvstore.UserKey(user.ID, kvstore.KeyAddresses), kept); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete address"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Address deleted"})
	}
}

type SaveCardInput struct {
	Number string `json:"number" binding:"required"`
	Holder string `json:"holder" binding:"required"`
	Expiry string `json:"expiry" binding:"required"` // MM/YY
}

// GET /user/cards
func GetCards(kv kvstore.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := auth.CurrentUser(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		cards, err := loadCards(c, kv, user.ID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch cards"})
			return
		}
		c.JSON(http.StatusOK, cards)
	}
}

// POST /user/cards
// Stores only the masked tail; the full number never reaches persistence.
func SaveCard(kv kvstore.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := auth.CurrentUser(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		var input SaveCardInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		number := strings.ReplaceAll(input.Number, " ", "")
		if len(number) < 13 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid card number"})
			return
		}
		if _, err := time.Parse("01/06", input.Expiry); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Expiry must be MM/YY"})
			return
		}

		card := models.SavedCard{
			ID:     uuid.NewString(),
			Holder: input.Holder,
			Last4:  number[len(number)-4:],
			Expiry: input.Expiry,
		}

		cards, err := loadCards(c, kv, user.ID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch cards"})
			return
		}
		cards = append(cards, card)

		if err := storeJSON(c, kv, kvstore.UserKey(user.ID, kvstore.KeyCards), cards); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save card"})
			return
		}
		c.JSON(http.StatusCreated, card)
	}
}

func loadAddresses(c *gin.Context, kv kvstore.Store, userID string) ([]models.Address, error) {
	var out []models.Address
	err := loadJSON(c, kv, kvstore.UserKey(userID, kvstore.KeyAddresses), &out)
	return out, err
}

func loadCards(c *gin.Context, kv kvstore.Store, userID string) ([]models.SavedCard, error) {
	var out []models.SavedCard
	err := loadJSON(c, kv, kvstore.UserKey(userID, kvstore.KeyCards), &out)
	return out, err
}

func loadJSON(c *gin.Context, kv kvstore.Store, key string, dest any) error {
	raw, err := kv.Get(c.Request.Context(), key)
	if err == kvstore.ErrNotFound {
		return nil
	}
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, dest)
}

func storeJSON(c *gin.Context, kv kvstore.Store, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return kv.Set(c.Request.Context(), key, raw)
}

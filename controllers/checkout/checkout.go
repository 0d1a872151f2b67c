package checkoutControllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dineflow/ordering-api/auth"
	"github.com/dineflow/ordering-api/backend"
	"github.com/dineflow/ordering-api/checkout"
)

// POST /user/checkout
// Runs the cart through reconciliation and assembly. Validation problems
// come back as 400 with the failing field; submission failures keep the
// cart intact and map their cause class onto a status code so the client
// can decide whether a retry makes sense.
func ProceedToCheckout(asm *checkout.Assembler) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := auth.CurrentUser(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		var f checkout.Fulfillment
		if err := c.ShouldBindJSON(&f); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		result, err := asm.Submit(c.Request.Context(), checkout.Customer{
			ID:    user.ID,
			Name:  user.Name,
			Email: user.Email,
			Phone: user.Phone,
		}, f)
		if err != nil {
			status, body := classifyError(err)
			c.JSON(status, body)
			return
		}

		c.JSON(http.StatusCreated, result)
	}
}

func classifyError(err error) (int, gin.H) {
	var verr *checkout.ValidationError
	if errors.As(err, &verr) {
		return http.StatusBadRequest, gin.H{
			"error": verr.Message,
			"field": verr.Field,
			"kind":  "validation",
		}
	}

	var serr *backend.SubmissionError
	if errors.As(err, &serr) {
		body := gin.H{
			"error": "Order submission failed",
			"kind":  "submission",
			"class": string(serr.Class),
		}
		switch serr.Class {
		case backend.ClassAuth:
			return http.StatusUnauthorized, body
		case backend.ClassBusiness:
			return http.StatusUnprocessableEntity, body
		case backend.ClassNetwork:
			return http.StatusBadGateway, body
		default:
			return http.StatusInternalServerError, body
		}
	}

	return http.StatusInternalServerError, gin.H{"error": err.Error()}
}

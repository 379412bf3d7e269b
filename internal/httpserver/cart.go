package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/makuzaza/rss-ecomm-task/internal/cart"
	"github.com/makuzaza/rss-ecomm-task/internal/domain"
)

type cartResponse struct {
	ID            string                `json:"id,omitempty"`
	Version       int                   `json:"version,omitempty"`
	Currency      string                `json:"currency,omitempty"`
	TotalCents    int64                 `json:"totalCents"`
	ItemCount     int                   `json:"itemCount"`
	Items         []cart.Item           `json:"items"`
	DiscountCodes []domain.DiscountCode `json:"discountCodes,omitempty"`
}

type addItemRequest struct {
	ProductID string `json:"productId" binding:"required"`
	VariantID int    `json:"variantId"`
	Quantity  int    `json:"quantity"`
}

type quantityRequest struct {
	Quantity int `json:"quantity"`
}

type discountCodeRequest struct {
	Code string `json:"code" binding:"required"`
}

func registerCartRoutes(api *gin.RouterGroup, sess SessionController) {
	api.GET("/cart", reloadCartHandler(sess))
	api.DELETE("/cart", clearCartHandler(sess))
	api.POST("/cart/items", addItemHandler(sess))
	api.PATCH("/cart/items/:id", changeQuantityHandler(sess))
	api.DELETE("/cart/items/:id", removeItemHandler(sess))
	api.POST("/cart/discount-codes", applyDiscountHandler(sess))
	api.DELETE("/cart/discount-codes", removeAllDiscountsHandler(sess))
	api.DELETE("/cart/discount-codes/:id", removeDiscountHandler(sess))
}

func cartView(ctrl *cart.Controller) cartResponse {
	view := cartResponse{
		ItemCount: ctrl.ItemCount(),
		Items:     ctrl.Items(),
	}
	if view.Items == nil {
		view.Items = []cart.Item{}
	}
	if current := ctrl.Cart(); current != nil {
		view.ID = current.ID
		view.Version = current.Version
		view.Currency = current.Currency
		view.TotalCents = current.TotalCents
		view.DiscountCodes = current.DiscountCodes
	}
	return view
}

func reloadCartHandler(sess SessionController) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctrl := sess.Cart()
		if _, err := ctrl.Reload(c.Request.Context()); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, cartView(ctrl))
	}
}

func clearCartHandler(sess SessionController) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctrl := sess.Cart()
		if _, err := ctrl.Clear(c.Request.Context()); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, cartView(ctrl))
	}
}

func addItemHandler(sess SessionController) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req addItemRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "productId is required")
			return
		}
		if req.VariantID == 0 {
			req.VariantID = 1
		}
		if req.Quantity == 0 {
			req.Quantity = 1
		}
		ctrl := sess.Cart()
		if _, err := ctrl.AddLineItem(c.Request.Context(), req.ProductID, req.VariantID, req.Quantity); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, cartView(ctrl))
	}
}

func changeQuantityHandler(sess SessionController) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req quantityRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "quantity is required")
			return
		}
		ctrl := sess.Cart()
		if _, err := ctrl.ChangeQuantity(c.Request.Context(), c.Param("id"), req.Quantity); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, cartView(ctrl))
	}
}

func removeItemHandler(sess SessionController) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctrl := sess.Cart()
		if _, err := ctrl.RemoveLineItem(c.Request.Context(), c.Param("id")); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, cartView(ctrl))
	}
}

func applyDiscountHandler(sess SessionController) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req discountCodeRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "code is required")
			return
		}
		ctrl := sess.Cart()
		if _, err := ctrl.ApplyDiscountCode(c.Request.Context(), req.Code); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, cartView(ctrl))
	}
}

func removeDiscountHandler(sess SessionController) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctrl := sess.Cart()
		if _, err := ctrl.RemoveDiscountCode(c.Request.Context(), c.Param("id")); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, cartView(ctrl))
	}
}

func removeAllDiscountsHandler(sess SessionController) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctrl := sess.Cart()
		if _, err := ctrl.RemoveAllDiscountCodes(c.Request.Context()); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, cartView(ctrl))
	}
}

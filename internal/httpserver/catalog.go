package httpserver

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/makuzaza/rss-ecomm-task/internal/domain"
	"github.com/makuzaza/rss-ecomm-task/internal/platform"
)

func registerCatalogRoutes(api *gin.RouterGroup, sess SessionController) {
	api.GET("/products", listProductsHandler(sess))
	api.GET("/products/:key", productByKeyHandler(sess))
	api.GET("/categories", listCategoriesHandler(sess))
}

func parseProductQuery(c *gin.Context) platform.ProductQuery {
	q := platform.ProductQuery{
		Limit:      intQuery(c, "limit", 20),
		Offset:     intQuery(c, "offset", 0),
		Text:       c.Query("text"),
		CategoryID: c.Query("category"),
	}
	if sort := c.QueryArray("sort"); len(sort) > 0 {
		q.Sort = sort
	}
	q.MinPriceCents = int64(intQuery(c, "minPrice", 0))
	q.MaxPriceCents = int64(intQuery(c, "maxPrice", 0))
	q.DiscountOnly = c.Query("discounted") == "true"
	return q
}

func intQuery(c *gin.Context, key string, def int) int {
	v := c.Query(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func listProductsHandler(sess SessionController) gin.HandlerFunc {
	return func(c *gin.Context) {
		q := parseProductQuery(c)
		client := sess.Client()

		// The search endpoint handles full-text queries; plain
		// listings go through the projection endpoint.
		fetch := client.Products
		if q.Text != "" {
			fetch = client.Search
		}
		products, total, err := fetch(c.Request.Context(), q)
		if err != nil {
			respondError(c, err)
			return
		}
		if products == nil {
			products = []domain.Product{}
		}
		c.JSON(http.StatusOK, gin.H{
			"products": products,
			"total":    total,
			"limit":    q.Limit,
			"offset":   q.Offset,
		})
	}
}

func productByKeyHandler(sess SessionController) gin.HandlerFunc {
	return func(c *gin.Context) {
		product, err := sess.Client().ProductByKey(c.Request.Context(), c.Param("key"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, product)
	}
}

func listCategoriesHandler(sess SessionController) gin.HandlerFunc {
	return func(c *gin.Context) {
		categories, err := sess.Client().Categories(c.Request.Context(), intQuery(c, "limit", 50))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"categories": categories})
	}
}

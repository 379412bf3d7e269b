package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/makuzaza/rss-ecomm-task/internal/domain"
	"github.com/makuzaza/rss-ecomm-task/internal/platform"
	"github.com/makuzaza/rss-ecomm-task/internal/session"
)

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type registerRequest struct {
	Email                  string           `json:"email" binding:"required"`
	Password               string           `json:"password" binding:"required"`
	FirstName              string           `json:"firstName"`
	LastName               string           `json:"lastName"`
	DateOfBirth            string           `json:"dateOfBirth"`
	Addresses              []addressRequest `json:"addresses"`
	DefaultShippingAddress *int             `json:"defaultShippingAddress"`
	DefaultBillingAddress  *int             `json:"defaultBillingAddress"`
}

type addressRequest struct {
	FirstName  string `json:"firstName"`
	LastName   string `json:"lastName"`
	Country    string `json:"country"`
	StreetName string `json:"streetName"`
	PostalCode string `json:"postalCode"`
	City       string `json:"city"`
	Email      string `json:"email"`
}

type profileRequest struct {
	FirstName   *string `json:"firstName"`
	LastName    *string `json:"lastName"`
	Email       *string `json:"email"`
	DateOfBirth *string `json:"dateOfBirth"`
}

type passwordRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required"`
}

func registerSessionRoutes(api *gin.RouterGroup, sess SessionController) {
	api.GET("/session", sessionStateHandler(sess))
	api.POST("/session/login", loginHandler(sess))
	api.POST("/session/logout", logoutHandler(sess))
	api.POST("/session/register", registerHandler(sess))
	api.POST("/session/refresh", refreshHandler(sess))
	api.GET("/me", profileHandler(sess))
	api.PATCH("/me", updateProfileHandler(sess))
	api.POST("/me/addresses", addAddressHandler(sess))
	api.PUT("/me/addresses/:id", changeAddressHandler(sess))
	api.DELETE("/me/addresses/:id", removeAddressHandler(sess))
	api.POST("/me/password", changePasswordHandler(sess))
}

func sessionState(sess SessionController) gin.H {
	state := gin.H{
		"state":         sess.State().String(),
		"authenticated": sess.IsAuthenticated(),
	}
	if customer := sess.CurrentCustomer(); customer != nil {
		state["customer"] = customer
	}
	if err := sess.Err(); err != nil {
		state["error"] = err.Error()
	}
	return state
}

func sessionStateHandler(sess SessionController) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, sessionState(sess))
	}
}

func loginHandler(sess SessionController) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req loginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "email and password are required")
			return
		}
		if err := sess.Login(c.Request.Context(), req.Email, req.Password); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, sessionState(sess))
	}
}

func logoutHandler(sess SessionController) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := sess.Logout(c.Request.Context()); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, sessionState(sess))
	}
}

func registerHandler(sess SessionController) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req registerRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "email and password are required")
			return
		}
		in := session.RegisterInput{
			Email:                  req.Email,
			Password:               req.Password,
			FirstName:              req.FirstName,
			LastName:               req.LastName,
			DateOfBirth:            req.DateOfBirth,
			DefaultShippingAddress: req.DefaultShippingAddress,
			DefaultBillingAddress:  req.DefaultBillingAddress,
		}
		for _, a := range req.Addresses {
			in.Addresses = append(in.Addresses, platform.AddressDraft(a))
		}
		if err := sess.Register(c.Request.Context(), in); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, sessionState(sess))
	}
}

func refreshHandler(sess SessionController) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := sess.RefreshToken(c.Request.Context()); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, sessionState(sess))
	}
}

func profileHandler(sess SessionController) gin.HandlerFunc {
	return func(c *gin.Context) {
		customer := sess.CurrentCustomer()
		if customer == nil {
			respondError(c, domain.ErrUnauthorized)
			return
		}
		c.JSON(http.StatusOK, customer)
	}
}

func updateProfileHandler(sess SessionController) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req profileRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "invalid profile payload")
			return
		}
		var actions []platform.CustomerAction
		if req.FirstName != nil {
			actions = append(actions, platform.SetFirstName(*req.FirstName))
		}
		if req.LastName != nil {
			actions = append(actions, platform.SetLastName(*req.LastName))
		}
		if req.Email != nil {
			actions = append(actions, platform.ChangeEmail(*req.Email))
		}
		if req.DateOfBirth != nil {
			actions = append(actions, platform.SetDateOfBirth(*req.DateOfBirth))
		}
		if len(actions) == 0 {
			badRequest(c, "nothing to update")
			return
		}
		customer, err := sess.UpdateProfile(c.Request.Context(), actions...)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, customer)
	}
}

func addAddressHandler(sess SessionController) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req addressRequest
		if err := c.ShouldBindJSON(&req); err != nil || req.Country == "" {
			badRequest(c, "address with country is required")
			return
		}
		customer, err := sess.UpdateProfile(c.Request.Context(), platform.AddAddress(platform.AddressDraft(req)))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, customer)
	}
}

func changeAddressHandler(sess SessionController) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req addressRequest
		if err := c.ShouldBindJSON(&req); err != nil || req.Country == "" {
			badRequest(c, "address with country is required")
			return
		}
		customer, err := sess.UpdateProfile(c.Request.Context(),
			platform.ChangeAddress(c.Param("id"), platform.AddressDraft(req)))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, customer)
	}
}

func removeAddressHandler(sess SessionController) gin.HandlerFunc {
	return func(c *gin.Context) {
		customer, err := sess.UpdateProfile(c.Request.Context(), platform.RemoveAddress(c.Param("id")))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, customer)
	}
}

func changePasswordHandler(sess SessionController) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req passwordRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "currentPassword and newPassword are required")
			return
		}
		if err := sess.ChangePassword(c.Request.Context(), req.CurrentPassword, req.NewPassword); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, sessionState(sess))
	}
}

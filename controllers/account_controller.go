package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/surajacharya12/E-commerce-web-sub000/models"
	"github.com/surajacharya12/E-commerce-web-sub000/services"
)

type AccountController struct {
	accounts services.AccountService
}

func NewAccountController(accounts services.AccountService) *AccountController {
	return &AccountController{accounts: accounts}
}

func (h *AccountController) Login(c *gin.Context) {
	s, ok := currentSession(c)
	if !ok {
		return
	}
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidBody(c)
		return
	}
	session, err := h.accounts.Login(c.Request.Context(), s.Auth, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"session": session, "cart": cartBody(s.Cart.Cart())})
}

func (h *AccountController) Logout(c *gin.Context) {
	s, ok := currentSession(c)
	if !ok {
		return
	}
	if err := h.accounts.Logout(c.Request.Context(), s.Auth); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"session": s.Auth.Session()})
}

// Session reports who the caller's session is signed in as.
func (h *AccountController) Session(c *gin.Context) {
	s, ok := currentSession(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"session": s.Auth.Session()})
}

func (h *AccountController) Register(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidBody(c)
		return
	}
	user, err := h.accounts.Register(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"user": user, "redirect": "/signin"})
}

func (h *AccountController) SendResetCode(c *gin.Context) {
	var req models.ForgotPasswordSendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidBody(c)
		return
	}
	if err := h.accounts.SendResetCode(c.Request.Context(), req); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Verification code sent"})
}

func (h *AccountController) VerifyResetCode(c *gin.Context) {
	var req models.ForgotPasswordVerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidBody(c)
		return
	}
	if err := h.accounts.VerifyResetCode(c.Request.Context(), req); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Code verified"})
}

func (h *AccountController) ResetPassword(c *gin.Context) {
	var req models.ForgotPasswordResetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidBody(c)
		return
	}
	if err := h.accounts.ResetPassword(c.Request.Context(), req); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Password updated", "redirect": "/signin"})
}

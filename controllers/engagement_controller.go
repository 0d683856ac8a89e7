package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/surajacharya12/E-commerce-web-sub000/models"
	"github.com/surajacharya12/E-commerce-web-sub000/services"
)

// EngagementController serves chat, reviews, the wishlist and notifications.
type EngagementController struct {
	chats         services.ChatService
	reviews       services.ReviewService
	wishlist      services.WishlistService
	notifications services.NotificationService
}

func NewEngagementController(chats services.ChatService, reviews services.ReviewService, wishlist services.WishlistService, notifications services.NotificationService) *EngagementController {
	return &EngagementController{
		chats:         chats,
		reviews:       reviews,
		wishlist:      wishlist,
		notifications: notifications,
	}
}

type startChatRequest struct {
	Subject string `json:"subject"`
	Message string `json:"message"`
}

type chatMessageRequest struct {
	Message string `json:"message"`
}

type reviewRequest struct {
	Rating int    `json:"rating"`
	Review string `json:"review"`
}

func (h *EngagementController) StartChat(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var req startChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidBody(c)
		return
	}
	chat, err := h.chats.Start(c.Request.Context(), userID, req.Subject, req.Message)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, chat)
}

func (h *EngagementController) ListChats(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	chats, err := h.chats.List(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"chats": chats})
}

func (h *EngagementController) GetChat(c *gin.Context) {
	chat, err := h.chats.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, chat)
}

func (h *EngagementController) SendMessage(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var req chatMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidBody(c)
		return
	}
	chat, err := h.chats.Send(c.Request.Context(), c.Param("id"), userID, req.Message)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, chat)
}

// Reviews is public: anyone may read a product's ratings.
func (h *EngagementController) Reviews(c *gin.Context) {
	summary, err := h.reviews.Summary(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (h *EngagementController) SubmitReview(c *gin.Context) {
	s, ok := currentSession(c)
	if !ok {
		return
	}
	var req reviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidBody(c)
		return
	}
	rating := models.Rating{
		ProductID: c.Param("id"),
		UserID:    s.Auth.UserID(),
		Rating:    req.Rating,
		Review:    req.Review,
	}
	if user := s.Auth.Session().User; user != nil {
		rating.UserName = user.Name
	}
	created, err := h.reviews.Submit(c.Request.Context(), rating)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *EngagementController) Wishlist(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	favorites, err := h.wishlist.List(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"favorites": favorites})
}

func (h *EngagementController) RemoveFavorite(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	favorites, err := h.wishlist.Remove(c.Request.Context(), userID, c.Param("product_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"favorites": favorites})
}

func (h *EngagementController) Notifications(c *gin.Context) {
	notifications, err := h.notifications.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"notifications": notifications})
}

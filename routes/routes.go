package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/surajacharya12/E-commerce-web-sub000/controllers"
	"github.com/surajacharya12/E-commerce-web-sub000/middleware"
)

// Controllers groups the storefront handlers.
type Controllers struct {
	Account    *controllers.AccountController
	Cart       *controllers.CartController
	Checkout   *controllers.CheckoutController
	Orders     *controllers.OrderController
	Engagement *controllers.EngagementController
}

// RegisterRoutes mounts the storefront API. sessions must be the middleware
// returned by middleware.Session.
func RegisterRoutes(r *gin.Engine, ctrl Controllers, sessions gin.HandlerFunc) {
	r.GET("/health", controllers.Health)

	// Public routes - any session, signed in or not
	public := r.Group("/storefront", sessions)
	{
		public.GET("/auth/session", ctrl.Account.Session)
		public.POST("/auth/login", ctrl.Account.Login)
		public.POST("/auth/register", ctrl.Account.Register)
		public.POST("/auth/logout", ctrl.Account.Logout)
		public.POST("/auth/forgot-password/send-code", ctrl.Account.SendResetCode)
		public.POST("/auth/forgot-password/verify-code", ctrl.Account.VerifyResetCode)
		public.POST("/auth/forgot-password/reset", ctrl.Account.ResetPassword)

		public.GET("/products/:id/reviews", ctrl.Engagement.Reviews)
		public.GET("/notifications", ctrl.Engagement.Notifications)
	}

	// Protected routes - require a signed-in session
	protected := r.Group("/storefront", sessions, middleware.RequireLogin())
	{
		// Cart
		protected.GET("/cart", ctrl.Cart.Get)
		protected.DELETE("/cart", ctrl.Cart.Clear)
		protected.POST("/cart/items", ctrl.Cart.Add)
		protected.GET("/cart/items/:product_id", ctrl.Cart.Item)
		protected.PUT("/cart/items/:product_id", ctrl.Cart.Update)
		protected.DELETE("/cart/items/:product_id", ctrl.Cart.Remove)

		// Checkout wizard
		protected.POST("/checkout/cart", ctrl.Checkout.StartCart)
		protected.POST("/checkout/buy-now", ctrl.Checkout.StartBuyNow)
		protected.GET("/checkout", ctrl.Checkout.State)
		protected.DELETE("/checkout", ctrl.Checkout.Cancel)
		protected.POST("/checkout/delivery", ctrl.Checkout.SelectDelivery)
		protected.GET("/checkout/stores", ctrl.Checkout.Stores)
		protected.POST("/checkout/stores/retry", ctrl.Checkout.RetryStores)
		protected.POST("/checkout/store", ctrl.Checkout.SelectStore)
		protected.POST("/checkout/payment", ctrl.Checkout.SelectPayment)
		protected.POST("/checkout/back", ctrl.Checkout.Back)
		protected.POST("/checkout/coupon", ctrl.Checkout.ApplyCoupon)
		protected.DELETE("/checkout/coupon", ctrl.Checkout.RemoveCoupon)
		protected.POST("/checkout/submit", ctrl.Checkout.Submit)

		// Orders, receipt and printable slip
		protected.GET("/orders", ctrl.Orders.List)
		protected.GET("/orders/:id", ctrl.Orders.Get)
		protected.POST("/orders/:id/cancel", ctrl.Orders.Cancel)
		protected.GET("/orders/:id/receipt", ctrl.Orders.Receipt)
		protected.GET("/orders/:id/slip", ctrl.Orders.Slip)

		// Chat
		protected.POST("/chats", ctrl.Engagement.StartChat)
		protected.GET("/chats", ctrl.Engagement.ListChats)
		protected.GET("/chats/:id", ctrl.Engagement.GetChat)
		protected.POST("/chats/:id/messages", ctrl.Engagement.SendMessage)

		// Reviews and wishlist
		protected.POST("/products/:id/reviews", ctrl.Engagement.SubmitReview)
		protected.GET("/wishlist", ctrl.Engagement.Wishlist)
		protected.DELETE("/wishlist/:product_id", ctrl.Engagement.RemoveFavorite)
	}
}

package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"maitred/internal/advice"
	"maitred/internal/auth"
	"maitred/internal/monitoring"
	"maitred/internal/pos"
	"maitred/internal/store"
)

// Options wires the server's collaborators. Advisor may be nil, which
// disables the advice endpoint. Health may be nil; a fresh tracker is used
// then.
type Options struct {
	Store         *store.Store
	Issuer        *auth.TokenIssuer
	Sessions      auth.SessionStore
	Advisor       *advice.Advisor
	Health        *monitoring.Health
	PublicBaseURL string
}

// Server exposes the HTTP surface: REST handlers, the websocket live feed
// and the metrics endpoint.
type Server struct {
	Router *gin.Engine

	store    *store.Store
	issuer   *auth.TokenIssuer
	sessions auth.SessionStore
	advisor  *advice.Advisor
	health   *monitoring.Health
	baseURL  string

	orders *pos.OrderService
	tables *pos.TableService
	menu   *pos.MenuService
	stock  *pos.StockService
	staff  *pos.StaffService
}

// NewServer builds the router and all route groups.
func NewServer(opts Options) *Server {
	if opts.Health == nil {
		opts.Health = monitoring.NewHealth()
	}
	s := &Server{
		Router:   gin.Default(),
		store:    opts.Store,
		issuer:   opts.Issuer,
		sessions: opts.Sessions,
		advisor:  opts.Advisor,
		health:   opts.Health,
		baseURL:  opts.PublicBaseURL,
		orders:   pos.NewOrderService(opts.Store),
		tables:   pos.NewTableService(opts.Store, opts.PublicBaseURL),
		menu:     pos.NewMenuService(opts.Store),
		stock:    pos.NewStockService(opts.Store),
		staff:    pos.NewStaffService(opts.Store),
	}
	s.setupRoutes()
	return s
}

// setupRoutes configures all API endpoints.
func (s *Server) setupRoutes() {
	s.Router.Use(monitoring.Middleware())

	s.Router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, s.health.Snapshot())
	})
	s.Router.GET("/metrics", monitoring.Handler())

	// the live feed authenticates via query parameter; browsers cannot set
	// headers on websocket dials
	s.Router.GET("/ws", s.HandleLiveFeed)

	v1 := s.Router.Group("/api/v1")

	// open endpoints: account bootstrap and demo data
	v1.POST("/signup", s.SignUp)
	v1.POST("/login", s.Login)
	v1.GET("/seed", s.Seed)

	authed := v1.Group("")
	authed.Use(auth.Middleware(s.issuer, s.sessions))
	{
		authed.POST("/logout", s.Logout)

		orders := authed.Group("/orders")
		{
			orders.GET("", s.ListOrders)
			orders.GET("/:id", s.GetOrder)
			orders.POST("", auth.Require(auth.PermPOS), s.CreateOrder)
			orders.POST("/:id/start-cooking", auth.Require(auth.PermKitchen), s.StartCooking)
			orders.POST("/:id/mark-done", auth.Require(auth.PermKitchen), s.MarkDone)
		}

		tables := authed.Group("/tables")
		{
			tables.GET("", s.ListTables)
			tables.GET("/:id", s.GetTable)
			tables.POST("", auth.Require(auth.PermTables), s.CreateTable)
			tables.PUT("/:id", auth.Require(auth.PermTables), s.UpdateTable)
			tables.DELETE("/:id", auth.Require(auth.PermTables), s.DeleteTable)
			tables.POST("/:id/mark-paid", auth.Require(auth.PermBilling), s.MarkTablePaid)
		}

		menu := authed.Group("/menu")
		{
			menu.GET("", s.ListMenu)
			menu.GET("/:id", s.GetMenuItem)
			menu.POST("", auth.Require(auth.PermMenuEdit), s.CreateMenuItem)
			menu.PUT("/:id", auth.Require(auth.PermMenuEdit), s.UpdateMenuItem)
			menu.DELETE("/:id", auth.Require(auth.PermMenuEdit), s.DeleteMenuItem)
			menu.GET("/:id/recipe", auth.Require(auth.PermMenuEdit), s.GetRecipe)
		}

		stock := authed.Group("/stock")
		{
			stock.GET("", s.ListStock)
			stock.POST("", auth.Require(auth.PermStockEdit), s.CreateStockItem)
			stock.PUT("/:id", auth.Require(auth.PermStockEdit), s.UpdateStockItem)
			stock.DELETE("/:id", auth.Require(auth.PermStockEdit), s.DeleteStockItem)
		}

		staff := authed.Group("/staff")
		{
			staff.GET("", auth.Require(auth.PermStaff), s.ListStaff)
			staff.PUT("/:id/role", auth.Require(auth.PermStaff), s.ChangeRole)
		}

		authed.POST("/advice", auth.Require(auth.PermAdvice), s.Advice)
	}
}

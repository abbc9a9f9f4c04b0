package router

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/criollos/pos-backend/controllers"
	"github.com/criollos/pos-backend/database"
	"github.com/criollos/pos-backend/middlewares"
	"github.com/criollos/pos-backend/services"
)

func SetupRouter(db *gorm.DB, settlement *services.SettlementService) *gin.Engine {
	r := gin.Default()

	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddlewares())
	r.Use(middlewares.LoggerMiddleware())
	// Registered before any route so it actually wraps them all.
	r.Use(middlewares.NewRateLimiter(50, 1).RateLimit())

	var schema *database.Schema
	if settlement != nil {
		schema = settlement.Schema
	}

	userCtrl := controllers.NewUserController(db)
	productCtrl := controllers.NewProductController(db, schema)
	categoryCtrl := controllers.NewCategoryController(db)
	tableCtrl := controllers.NewTableController(db)
	orderCtrl := controllers.NewOrderController(db)
	saleCtrl := controllers.NewSaleController(db, settlement)
	reportCtrl := controllers.NewReportController(db)
	dashboardCtrl := controllers.NewDashboardController(db)
	settingsCtrl := controllers.NewSettingsController(db)

	// ----------------------------------------------------------------
	//                      PUBLIC ROUTES
	// ----------------------------------------------------------------
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})

	// Rate limited login/register
	public := r.Group("/api/auth")
	public.Use(middlewares.NewStrictRateLimiter())
	{
		public.POST("/register", userCtrl.Register)
		public.POST("/login", userCtrl.Login)
	}

	// ----------------------------------------------------------------
	//                      AUTHENTICATED ROUTES
	// ----------------------------------------------------------------
	api := r.Group("/api")
	api.Use(middlewares.AuthMiddleware())

	// PROFILE
	api.GET("/profile", userCtrl.GetProfile)
	api.PATCH("/profile/password", userCtrl.ChangePassword)

	// USERS (admin)
	users := api.Group("/users", middlewares.RequireRoles("admin"))
	{
		users.GET("", userCtrl.GetAllUsers)
		users.PATCH("/:user_id", userCtrl.UpdateUser)
	}

	// CATEGORIES
	api.GET("/categories", categoryCtrl.GetAllCategories)
	categories := api.Group("/categories", middlewares.RequireRoles("admin"))
	{
		categories.POST("", categoryCtrl.CreateCategory)
		categories.PATCH("/:category_id", categoryCtrl.UpdateCategory)
		categories.DELETE("/:category_id", categoryCtrl.DeleteCategory)
	}

	// PRODUCTS
	api.GET("/products", productCtrl.GetAllProducts)
	api.GET("/products/:product_id", productCtrl.GetProductByID)
	products := api.Group("/products", middlewares.RequireRoles("admin"))
	{
		products.POST("", productCtrl.CreateProduct)
		products.PATCH("/:product_id", productCtrl.UpdateProduct)
		products.DELETE("/:product_id", productCtrl.DeleteProduct)
		products.POST("/:product_id/stock", productCtrl.AdjustStock)
	}

	// TABLES
	api.GET("/tables", tableCtrl.GetAllTables)
	api.GET("/tables/:table_id", tableCtrl.GetTableByID)
	api.PATCH("/tables/:table_id", tableCtrl.UpdateTable)
	tables := api.Group("/tables", middlewares.RequireRoles("admin"))
	{
		tables.POST("", tableCtrl.CreateTable)
		tables.DELETE("/:table_id", tableCtrl.DeleteTable)
	}

	// ORDERS (waiter, cashier; admin passes every role check)
	orders := api.Group("/orders", middlewares.RequireRoles("waiter", "cashier"))
	{
		orders.GET("", orderCtrl.GetAllOrders)
		orders.GET("/:order_id", orderCtrl.GetOrderByID)
		orders.POST("", orderCtrl.CreateOrder)
		orders.PATCH("/:order_id/status", orderCtrl.UpdateOrderStatus)
		orders.POST("/:order_id/items", orderCtrl.AddItems)
	}

	// SALES (cashier)
	sales := api.Group("/sales", middlewares.RequireRoles("cashier"))
	{
		sales.GET("", saleCtrl.GetAllSales)
		sales.GET("/:sale_id", saleCtrl.GetSaleByID)
		sales.POST("/from-order", saleCtrl.CreateFromOrder)
		sales.POST("/:sale_id/void", saleCtrl.VoidSale)
	}

	// REPORTS (cashier)
	reports := api.Group("/reports", middlewares.RequireRoles("cashier"))
	{
		reports.GET("/daily", reportCtrl.DailySales)
		reports.GET("/period", reportCtrl.PeriodSales)
		reports.GET("/top-products", reportCtrl.TopProducts)
		reports.GET("/cash-close", reportCtrl.CashClose)
		reports.GET("/inventory", reportCtrl.InventoryStatus)
		reports.GET("/weekly", reportCtrl.WeeklySales)
	}

	// DASHBOARD (admin)
	dashboard := api.Group("/dashboard", middlewares.RequireRoles("admin"))
	{
		dashboard.GET("/stats", dashboardCtrl.GetStats)
		dashboard.GET("/sales-by-hour", dashboardCtrl.GetSalesByHour)
		dashboard.GET("/popular-products", dashboardCtrl.GetPopularProducts)
		dashboard.GET("/recent-orders", dashboardCtrl.GetRecentOrders)
		dashboard.GET("/tables", dashboardCtrl.GetTableOverview)
	}

	// SETTINGS
	api.GET("/settings", settingsCtrl.GetSettings)
	api.PATCH("/settings", middlewares.RequireRoles("admin"), settingsCtrl.UpdateSettings)

	return r
}

package api

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/codyseavey/card-vault/internal/api/handlers"
	"github.com/codyseavey/card-vault/internal/mockgen"
	"github.com/codyseavey/card-vault/internal/scanner"
	"github.com/codyseavey/card-vault/internal/vault"
)

func SetupRouter(vaultService *vault.Service, marketWorker *mockgen.MarketWorker, scanService *scanner.Service, allowedOrigins []string) *gin.Engine {
	router := gin.Default()

	config := cors.DefaultConfig()
	config.AllowOrigins = allowedOrigins
	config.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	config.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization"}
	config.AllowCredentials = false // Explicitly set
	router.Use(cors.New(config))

	router.Use(metricsMiddleware())

	// Initialize handlers
	vaultHandler := handlers.NewVaultHandler(vaultService)
	marketHandler := handlers.NewMarketHandler(marketWorker)
	scanHandler := handlers.NewScanHandler(scanService)
	chartHandler := handlers.NewChartHandler()

	// API routes
	api := router.Group("/api")
	{
		// Vault routes
		vaultRoutes := api.Group("/vault")
		{
			vaultRoutes.GET("", vaultHandler.ListCards)
			vaultRoutes.POST("", vaultHandler.AddCard)
			vaultRoutes.DELETE("", vaultHandler.ClearVault)
			vaultRoutes.GET("/stats", vaultHandler.GetStats)
			vaultRoutes.GET("/search", vaultHandler.SearchCards)
			vaultRoutes.GET("/filter", vaultHandler.FilterCards)
			vaultRoutes.GET("/export", vaultHandler.ExportVault)
			vaultRoutes.POST("/import", vaultHandler.ImportVault)
			vaultRoutes.POST("/refresh", vaultHandler.RefreshCards)
			vaultRoutes.GET("/:id", vaultHandler.GetCard)
			vaultRoutes.PUT("/:id", vaultHandler.UpdateCard)
			vaultRoutes.DELETE("/:id", vaultHandler.DeleteCard)
		}

		// Market routes
		market := api.Group("/market")
		{
			market.GET("", marketHandler.GetSnapshot)
			market.POST("/refresh", marketHandler.RefreshSnapshot)
		}

		// Scan routes
		scan := api.Group("/scan")
		{
			scan.POST("/identify", scanHandler.Identify)
		}

		// Chart routes
		charts := api.Group("/charts")
		{
			charts.POST("/radar", chartHandler.Radar)
		}
	}

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// Prometheus metrics
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return router
}

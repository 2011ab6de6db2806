package main

import (
	"context"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/gearhub/gearhub-backend/controllers"
	"github.com/gearhub/gearhub-backend/database"
	"github.com/gearhub/gearhub-backend/logger"
	"github.com/gearhub/gearhub-backend/middleware"
	"github.com/gearhub/gearhub-backend/services"
	"github.com/gearhub/gearhub-backend/store"
	"github.com/gearhub/gearhub-backend/utils"
)

func main() {
	dotenvErr := godotenv.Load()
	logger.Init(os.Getenv("APP_ENV"))
	defer logger.Sync()
	if dotenvErr != nil {
		logger.Get().Info("No .env file found, using system environment variables")
	}

	ctx := context.Background()
	if err := database.EnsureIndexes(ctx); err != nil {
		logger.Get().Fatalw("ensure indexes", "error", err)
	}
	if err := utils.SeedAdminUser(ctx, database.OpenCollection("users")); err != nil {
		logger.Get().Fatalw("seed admin user", "error", err)
	}

	categoryStore := store.NewMongoCategoryStore(database.OpenCollection("categories"))
	productStore := store.NewMongoProductStore(database.OpenCollection("products"))
	userStore := store.NewMongoUserStore(database.OpenCollection("users"))

	categorySvc := services.NewCategoryService(categoryStore)
	productSvc := services.NewProductService(productStore, categoryStore, userStore)

	r := gin.New()
	r.Use(cors.New(corsConfig()))
	r.Use(middleware.RequestLogging())
	r.Use(gin.Recovery())

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	r.POST("/auth/login", controllers.Login(userStore))
	r.POST("/auth/refresh", controllers.Refresh(userStore))
	r.POST("/auth/logout", controllers.Logout())

	// category reads are public; mutations require an admin
	r.GET("/categories", controllers.GetCategories(categorySvc))
	r.GET("/categories/count", controllers.CountCategories(categorySvc))
	r.GET("/categories/search", controllers.SearchCategories(categorySvc))
	r.GET("/categories/:id", controllers.GetCategory(categorySvc))

	categoryAdmin := r.Group("/categories")
	categoryAdmin.Use(middleware.AuthMiddleware(), middleware.AdminMiddleware())
	{
		categoryAdmin.POST("", controllers.AddCategory(categorySvc))
		categoryAdmin.PUT("/:id", controllers.UpdateCategory(categorySvc))
		categoryAdmin.DELETE("/:id", controllers.DeleteCategory(categorySvc))
	}

	products := r.Group("/products")
	products.Use(middleware.AuthMiddleware())
	{
		products.POST("", controllers.CreateProduct(productSvc))
		products.GET("", controllers.GetProducts(productSvc))
		products.GET("/search", controllers.SearchProducts(productSvc))
		products.PUT("/:id", controllers.UpdateProduct(productSvc))
		products.DELETE("/:id", controllers.DeleteProduct(productSvc))
	}

	admin := r.Group("/admin")
	admin.Use(middleware.AuthMiddleware(), middleware.AdminMiddleware())
	{
		admin.GET("/products", controllers.AdminGetProducts(productSvc))
		admin.PATCH("/products/:id/status", controllers.UpdateProductStatus(productSvc))

		admin.POST("/users", controllers.CreateUser(userStore))
		admin.POST("/users/me/password", controllers.ChangeMyPassword(userStore))
	}

	if err := r.Run(); err != nil {
		logger.Get().Fatalw("server stopped", "error", err)
	}
}

func corsConfig() cors.Config {
	allowedOrigins := map[string]bool{}
	for _, origin := range strings.Split(os.Getenv("ALLOWED_ORIGINS"), ",") {
		origin = strings.TrimSpace(origin)
		if origin != "" {
			allowedOrigins[origin] = true
		}
	}

	return cors.Config{
		AllowOriginFunc: func(origin string) bool {
			return allowedOrigins[origin]
		},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
}

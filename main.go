package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/dineflow/ordering-api/backend"
	"github.com/dineflow/ordering-api/cart"
	"github.com/dineflow/ordering-api/catalog"
	"github.com/dineflow/ordering-api/checkout"
	"github.com/dineflow/ordering-api/config"
	"github.com/dineflow/ordering-api/kvstore"
	"github.com/dineflow/ordering-api/lifecycle"
	"github.com/dineflow/ordering-api/models"
	"github.com/dineflow/ordering-api/routes"
)

func main() {
	log.Println("✅ Starting ordering API...")

	// Load environment variables
	_ = godotenv.Load()
	cfg := config.Load()

	// Init DB
	db := initDatabase(cfg)

	// Auto-migrate all tables
	if err := db.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Product{},
		&models.AddOn{},
		&models.Order{},
		&models.OrderItem{},
		&models.StatusEvent{},
	); err != nil {
		log.Fatalf("❌ AutoMigrate failed: %v", err)
	}

	// Key-value store: redis when configured, in-memory otherwise
	kv := initKVStore(cfg)

	// Wire the ordering core
	carts := cart.NewManager()
	cat := catalog.NewGormCatalog(db)
	orderBackend := backend.NewGormBackend(db)
	lc := lifecycle.NewService(orderBackend, cfg.CancelWindow, routes.Feed.Broadcast)
	assembler := checkout.NewAssembler(carts, cat, cat, orderBackend, kv, cfg)

	// Gin setup
	r := gin.Default()

	// CORS settings
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-API-KEY"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Setup routes
	routes.SetupRoutes(r, routes.Deps{
		DB:        db,
		Cfg:       cfg,
		Carts:     carts,
		Menu:      cat,
		AddOns:    cat,
		Backend:   orderBackend,
		KV:        kv,
		Assembler: assembler,
		Lifecycle: lc,
	})

	// Start server
	log.Printf("🚀 Server running on port %s...", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatalf("❌ Failed to start server: %v", err)
	}
}

// initDatabase sets up the GORM DB connection
func initDatabase(cfg config.Config) *gorm.DB {
	if cfg.DatabaseURL != "" {
		db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{})
		if err != nil {
			log.Fatalf("❌ DB connection failed: %v", err)
		}
		return db
	}

	host := os.Getenv("DB_HOST")
	port := os.Getenv("DB_PORT")
	user := os.Getenv("DB_USER")
	password := os.Getenv("DB_PASSWORD")
	dbname := os.Getenv("DB_NAME")

	dsn := fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		host, user, password, dbname, port,
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("❌ Failed to connect DB: %v", err)
	}
	return db
}

// initKVStore picks the persistence capability for saved addresses, cards
// and the local order cache.
func initKVStore(cfg config.Config) kvstore.Store {
	if cfg.RedisAddr == "" {
		log.Println("⚠️ REDIS_ADDR not set, using in-memory key-value store")
		return kvstore.NewMemoryStore()
	}
	rs := kvstore.NewRedisStore(cfg.RedisAddr)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rs.Ping(ctx); err != nil {
		log.Fatalf("❌ Redis connection failed: %v", err)
	}
	return rs
}

package main

import (
	"log"
	"os"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/sithumisanilka/Technova/cache"
	kafkax "github.com/sithumisanilka/Technova/kafka"
	"github.com/sithumisanilka/Technova/middleware"
	"github.com/sithumisanilka/Technova/repository"
	"github.com/sithumisanilka/Technova/routes"
	"github.com/sithumisanilka/Technova/service"
)

func initDB() *gorm.DB {
	host := getEnv("DB_HOST", "localhost")
	port := getEnv("DB_PORT", "5432")
	user := getEnv("DB_USER", "postgres")
	pass := getEnv("DB_PASS", "postgres")
	name := getEnv("DB_NAME", "technova")

	dsn := "host=" + host + " user=" + user + " password=" + pass + " dbname=" + name + " port=" + port + " sslmode=disable TimeZone=UTC"
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		log.Fatal("failed to connect db:", err)
	}

	if err := repository.AutoMigrate(db); err != nil {
		log.Fatal("failed to migrate:", err)
	}
	return db
}

func main() {
	db := initDB()
	store := repository.NewGormStore(db)

	var orderCache *cache.OrderCache
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		rdb, err := cache.Connect(addr)
		if err != nil {
			log.Println("redis unavailable, running without order cache:", err)
		} else {
			orderCache = cache.NewOrderCache(rdb)
		}
	}

	var producer *kafkax.Producer
	if broker := os.Getenv("KAFKA_BROKER"); broker != "" {
		p, err := kafkax.NewProducer(broker)
		if err != nil {
			log.Println("kafka unavailable, running without events:", err)
		} else {
			producer = p
			defer producer.Close()
		}
	}

	notifier := service.NewNotificationService(nil, producer, os.Getenv("ADMIN_EMAIL"))
	carts := service.NewCartService(store)
	orders := service.NewOrderService(store, orderCache, notifier)
	payments := service.NewPaymentService(store, notifier)

	app := fiber.New()
	app.Use(logger.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	auth := middleware.AuthRequired(os.Getenv("USER_SERVICE_URL"))
	routes.RegisterCartRoutes(app, carts, auth)
	routes.RegisterOrderRoutes(app, orders, auth)
	routes.RegisterPaymentRoutes(app, payments, auth)

	port := getEnv("PORT", "3000")
	log.Println("HTTP server running on port " + port)
	if err := app.Listen(":" + port); err != nil {
		log.Fatal("fiber error:", err)
	}
}

func getEnv(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

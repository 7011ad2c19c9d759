package main

import (
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	httpapi "foodorder/internal/api/http"
	"foodorder/internal/cart"
	"foodorder/internal/config"
	"foodorder/internal/events"
	"foodorder/internal/service"
	"foodorder/internal/storage"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading configuration from environment")
	}

	db := config.MustInitPostgres()
	defer db.Close()

	repo := storage.NewPostgresRepository(db)
	if err := repo.EnsureSchema(); err != nil {
		log.Fatal("Failed to ensure schema:", err)
	}

	rdb := config.MustInitRedis()
	cartStore := cart.NewRedisStore(rdb, 7*24*time.Hour)

	var publisher service.EventPublisher
	if broker := os.Getenv("KAFKA_BROKER"); broker != "" {
		producer := events.NewProducer(config.NewKafkaWriter("foodorder_events"))
		defer producer.Close()
		publisher = producer
	}

	baseURL := os.Getenv("PUBLIC_BASE_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}

	files := &storage.DiskStore{
		Dir:     os.Getenv("UPLOAD_DIR"),
		BaseURL: baseURL + "/uploads",
	}

	dishSvc := service.NewDishService(repo, publisher)
	orderSvc := service.NewOrderService(repo, service.DefaultQRGenerator{BaseURL: baseURL}, publisher)
	cartSvc := service.NewCartService(cartStore, repo)

	handler := httpapi.NewHandler(dishSvc, orderSvc, cartSvc, files)
	router := httpapi.NewRouter(handler, files.Dir)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	httpapi.StartServer(":"+port, router)
}

package main // Entry point package

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/advisor-booking/internal/config"
	"github.com/iliyamo/advisor-booking/internal/database"
	"github.com/iliyamo/advisor-booking/internal/handler"
	"github.com/iliyamo/advisor-booking/internal/middleware"
	"github.com/iliyamo/advisor-booking/internal/notify"
	"github.com/iliyamo/advisor-booking/internal/queue"
	"github.com/iliyamo/advisor-booking/internal/repository"
	"github.com/iliyamo/advisor-booking/internal/router"
	"github.com/iliyamo/advisor-booking/internal/scheduler"
	"github.com/iliyamo/advisor-booking/internal/service"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, using process environment")
	}
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database connection failed: %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := database.EnsureSchema(ctx, db); err != nil {
		cancel()
		log.Fatalf("schema bootstrap failed: %v", err)
	}
	cancel()

	// Mail transport: publish to RabbitMQ when configured, otherwise log
	// the messages so local development works without a broker.
	var notifier notify.Notifier
	if cfg.AMQPURL != "" {
		notifier = notify.NewAMQPNotifier(cfg.AMQPURL)
		go func() {
			if err := queue.StartMailConsumer(); err != nil {
				log.Printf("mail consumer stopped: %v", err)
			}
		}()
	} else {
		notifier = notify.NewLogNotifier()
		log.Println("RABBITMQ_URL not set, mail dispatch logs to stdout")
	}

	gateway := repository.NewGateway(db)
	advisors := repository.NewAdvisorRepo(db)
	slots := repository.NewSlotRepo(db)
	bookings := repository.NewBookingRepo(db)
	emails := repository.NewEmailLogRepo(db)
	admins := repository.NewAdminRepo(db)

	bookingSvc := service.NewBookingService(gateway, notifier)
	reminderSvc := service.NewReminderService(gateway, notifier, service.SystemClock{})

	sched := scheduler.New(reminderSvc, service.SystemClock{},
		time.Duration(cfg.ReminderInterval)*time.Minute)
	if cfg.SchedulerAuto {
		sched.Start()
	}
	defer sched.Stop()

	e := echo.New()
	e.HideBanner = true

	// Rate limiting and response caching sit on the public group only;
	// both degrade to pass-through when Redis is unreachable.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable, rate limiting and caching disabled")
	}
	publicMW := []echo.MiddlewareFunc{
		middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb),
		middleware.NewRedisCache(config.LoadCacheConfig(), rdb),
	}

	router.RegisterRoutes(e)
	router.RegisterPublic(e, handler.NewBookingHandler(advisors, slots, bookings, bookingSvc), publicMW...)
	router.RegisterAuth(e, handler.NewAuthHandler(admins, cfg.JWTSecret, cfg.AccessTTLMin, cfg.BcryptCost))
	router.RegisterAdmin(e, handler.NewAdminHandler(bookings, emails, gateway, bookingSvc),
		handler.NewReminderHandler(sched), cfg.JWTSecret)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}

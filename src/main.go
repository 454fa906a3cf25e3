package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/swagger"
	"github.com/hibiken/asynq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	_ "github.com/pratamabintang/khs-assesment-sub001/docs"
	"github.com/pratamabintang/khs-assesment-sub001/src/config"
	"github.com/pratamabintang/khs-assesment-sub001/src/controllers"
	"github.com/pratamabintang/khs-assesment-sub001/src/database"
	"github.com/pratamabintang/khs-assesment-sub001/src/jobs"
	"github.com/pratamabintang/khs-assesment-sub001/src/logger"
	"github.com/pratamabintang/khs-assesment-sub001/src/routes"
	"github.com/pratamabintang/khs-assesment-sub001/src/seeder"
	"github.com/pratamabintang/khs-assesment-sub001/src/services/answers"
	"github.com/pratamabintang/khs-assesment-sub001/src/services/autofill"
	"github.com/pratamabintang/khs-assesment-sub001/src/services/directory"
	"github.com/pratamabintang/khs-assesment-sub001/src/services/entries"
	"github.com/pratamabintang/khs-assesment-sub001/src/services/surveys"
	"github.com/pratamabintang/khs-assesment-sub001/src/utils"
)

// @title        KHS Assessment API
// @version      1.0
// @description  Monthly employee assessment entries, answer documents and auto-fill jobs.
// @BasePath     /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
// @description                 Type "Bearer" followed by a space and the JWT.
func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("❌ %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.AppMode)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// เชื่อมต่อกับ MongoDB (เก็บคำตอบ)
	mongoClient, err := database.ConnectMongoDB(ctx, cfg.MongoURI, log)
	if err != nil {
		log.Fatal("Error connecting to MongoDB", "error", err)
	}
	defer func() {
		_ = mongoClient.Disconnect(context.Background())
	}()
	submissions := mongoClient.Database(cfg.MongoDB).Collection(database.SubmissionCollectionName)
	if err := database.EnsureSubmissionIndexes(ctx, submissions); err != nil {
		log.Warn("⚠️ could not create submission indexes", "error", err)
	}

	// ฐานข้อมูลเชิงสัมพันธ์ (slot รายเดือน, พนักงาน, แบบประเมิน)
	db, err := database.OpenSQL(cfg.DBDriver, cfg.DBDSN)
	if err != nil {
		log.Fatal("Error connecting to the SQL database", "error", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		log.Fatal("Auto migration failed", "error", err)
	}

	// Redis / Asynq เป็น optional
	rdb, err := database.InitRedis(ctx, cfg.RedisURI)
	if err != nil {
		log.Fatal("Error connecting to Redis", "error", err)
	}
	asynqClient := database.InitAsynq(cfg.RedisURI)
	if !cfg.RedisEnabled() {
		log.Warn("⚠️ REDIS_URI not set: scheduler, job queue, auto-fill lock and token blacklist are disabled")
	}

	// Services
	directorySvc := directory.NewService(db, log)
	surveySvc := surveys.NewService(db, log)
	if cfg.SeedSampleData {
		if err := seeder.SeedSampleSurveys(ctx, surveySvc, log); err != nil {
			log.Warn("⚠️ sample data seeding failed", "error", err)
		}
	}
	entryRepo := entries.NewRepository(db, log)
	entrySvc := entries.NewService(entryRepo, directorySvc, surveySvc, log)
	store := answers.NewMongoStore(submissions, log)
	answerSvc := answers.NewService(store, entryRepo, directorySvc, surveySvc, log)

	var locker autofill.Locker = autofill.NopLocker{}
	if rdb != nil {
		locker = autofill.NewRedisLocker(rdb)
	}
	autoFillSvc := autofill.NewService(entryRepo, store, surveySvc, locker, autofill.Options{
		Location: cfg.Location(),
		Sentinel: cfg.AutoFillText,
	}, log)

	var queue controllers.Enqueuer
	if asynqClient != nil {
		queue = asynqClient
		defer asynqClient.Close()
	}

	// สร้าง app instance
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return utils.HandleError(c, err)
		},
	})

	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     "GET,POST,PUT,PATCH,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: false, // ❌ ต้องเป็น false ถ้าใช้ "*"
	}))

	// เปิดใช้งาน Swagger ที่ URL /swagger
	app.Get("/swagger/*", swagger.HandlerDefault)
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	// รวม routes จากแต่ละ module
	routes.InitRoutes(app, routes.Deps{
		JWTSecret:   []byte(cfg.JWTSecret),
		Blacklist:   utils.NewTokenBlacklist(rdb),
		Entries:     entrySvc,
		Submissions: answerSvc,
		Directory:   directorySvc,
		Surveys:     surveySvc,
		AutoFill:    autoFillSvc,
		Queue:       queue,
	})

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("Server is running", "port", cfg.AppPort)
		return app.Listen(":" + cfg.AppPort)
	})

	var (
		worker    *asynq.Server
		scheduler *asynq.Scheduler
	)
	if cfg.RedisEnabled() {
		worker = asynq.NewServer(asynq.RedisClientOpt{Addr: cfg.RedisURI}, asynq.Config{
			Concurrency: 5,
			Logger:      log.SugaredLogger,
		})
		mux := asynq.NewServeMux()
		jobs.RegisterHandlers(mux, jobs.NewHandlers(autoFillSvc, entrySvc, log))
		if err := worker.Start(mux); err != nil {
			log.Fatal("Asynq worker failed to start", "error", err)
		}

		scheduler = jobs.NewScheduler(cfg.RedisURI, cfg.Location())
		ids, err := jobs.RegisterSchedules(scheduler, jobs.ScheduleConfig{
			AutoFillCron:    cfg.AutoFillCron,
			AssignCron:      cfg.AssignCron,
			ReconcileCron:   cfg.ReconcileCron,
			DefaultSurveyID: cfg.DefaultSurveyID,
		})
		if err != nil {
			log.Fatal("Invalid job schedule", "error", err)
		}
		if err := scheduler.Start(); err != nil {
			log.Fatal("Asynq scheduler failed to start", "error", err)
		}
		log.Info("✅ background jobs scheduled", "entries", len(ids), "timezone", cfg.ScheduleTZ)
	}

	g.Go(func() error {
		<-gctx.Done()
		log.Info("Shutting down...")
		if scheduler != nil {
			scheduler.Shutdown()
		}
		if worker != nil {
			worker.Shutdown()
		}
		return app.ShutdownWithTimeout(10 * time.Second)
	})

	if err := g.Wait(); err != nil {
		log.Error("server stopped", "error", err)
	}
}

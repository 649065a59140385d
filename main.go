package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"baequest_server/config"
	"baequest_server/middleware"
	"baequest_server/routes"
	"baequest_server/services"
	"baequest_server/socket"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/gorilla/mux"
	"github.com/rs/cors"
)

func main() {
	cfg := config.Load()

	// Initialize DynamoDB client and service
	log.Println("Initializing DynamoDB client...")
	dynamoClient := services.InitializeDynamoDBClient()
	dynamoService := &services.DynamoService{Client: dynamoClient}
	log.Println("DynamoDB client initialized.")

	// SMS goes out through SNS when an origination number is configured;
	// without one the notifier stays a no-op.
	var notifier services.SNSNotifier
	if cfg.SMSOriginationNumber != "" {
		awsCfg, err := awsconfig.LoadDefaultConfig(context.TODO(), awsconfig.WithRegion(cfg.AWSRegion))
		if err != nil {
			log.Fatalf("Failed to load AWS config: %v", err)
		}
		notifier = services.SNSNotifier{
			Client:            sns.NewFromConfig(awsCfg),
			OriginationNumber: cfg.SMSOriginationNumber,
		}
	}

	// Initialize Services
	userProfileService := &services.UserProfileService{Dynamo: dynamoService}
	eventService := &services.EventService{Dynamo: dynamoService}
	presenceService := &services.PresenceService{Dynamo: dynamoService}

	emailSender := &services.SMTPEmailSender{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUsername,
		Password: cfg.SMTPPassword,
		From:     cfg.SMTPFrom,
	}
	feedbackService := &services.FeedbackService{
		Dynamo:      dynamoService,
		Profiles:    userProfileService,
		Email:       emailSender,
		FrontendURL: cfg.FrontendURL,
	}

	// Initialize the Socket.IO server
	socketServer := socket.NewSocketServer()
	go func() {
		if err := socketServer.Serve(); err != nil {
			log.Fatalf("Socket.IO server error: %v", err)
		}
	}()
	defer socketServer.Close()
	broadcaster := &socket.RoomBroadcaster{Server: socketServer}

	tasks := &services.Background{}
	checkinService := &services.CheckinService{
		Gatherings:      eventService,
		Presence:        presenceService,
		Profiles:        userProfileService,
		Feedback:        feedbackService,
		Broadcast:       broadcaster,
		Notifier:        &notifier,
		Tasks:           tasks,
		CheckinRadiusKm: cfg.CheckinRadiusKm,
	}
	lifecycleService := &services.LifecycleService{
		Gatherings:  eventService,
		Presence:    presenceService,
		Broadcast:   broadcaster,
		SweepWindow: cfg.SweepInterval,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Background jobs: expiry sweep on an interval, blanket auto-checkout
	// once a day in the small hours.
	sweeper := &services.IntervalJob{
		Name:     "event-expiry-sweep",
		Interval: cfg.SweepInterval,
		Run:      lifecycleService.SweepExpired,
	}
	sweeper.Start(ctx)
	defer sweeper.Stop()

	autoCheckout := &services.DailyJob{
		Name: "daily-auto-checkout",
		Hour: cfg.AutoCheckoutHour,
		Run:  lifecycleService.AutoCheckoutAll,
	}
	autoCheckout.Start(ctx)
	defer autoCheckout.Stop()

	// Initialize the router
	r := mux.NewRouter()

	// Register a welcome route
	r.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintln(w, "Welcome to BaeQuest")
	}).Methods("GET")

	// Register a health check endpoint
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		response := map[string]string{"status": "healthy"}
		json.NewEncoder(w).Encode(response)
	}).Methods("GET")

	r.Handle("/socket.io/", socketServer)

	// Register routes
	auth := middleware.Auth(cfg.JWTSecret)
	routes.RegisterUserProfileRoutes(r, userProfileService, auth)
	routes.RegisterEventRoutes(r, checkinService, eventService, auth)
	routes.RegisterPlaceRoutes(r, checkinService, auth)
	routes.RegisterFeedbackRoutes(r, feedbackService)

	// Add CORS middleware
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	}).Handler(r)

	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: corsHandler,
	}

	go func() {
		log.Printf("Starting server on port %s...\n", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}
	tasks.Wait()
	log.Println("Server stopped.")
}

package main

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"famhub_server/config"
	"famhub_server/routes"
	"famhub_server/services"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/rs/cors"
)

func main() {
	// .env is optional; real deployments inject the environment directly.
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using process environment")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize DynamoDB client and service
	log.Println("Initializing DynamoDB client...")
	dynamoClient := services.InitializeDynamoDBClient()
	dynamoService := &services.DynamoService{Client: dynamoClient}
	log.Println("DynamoDB client initialized.")

	// Initialize Services
	tokenService := &services.DecisionTokenService{Secret: []byte(cfg.DecisionTokenSecret)}
	membershipService := &services.MembershipService{Dynamo: dynamoService}
	directoryService := &services.DirectoryService{Dynamo: dynamoService}
	inviteService := &services.PendingInviteService{
		Dynamo:      dynamoService,
		Memberships: membershipService,
		Directory:   directoryService,
		Tokens:      tokenService,
	}
	decisionService := &services.DecisionService{
		Dynamo:      dynamoService,
		Invites:     inviteService,
		Memberships: membershipService,
		Tokens:      tokenService,
		GracePeriod: time.Duration(cfg.InviteGraceDays) * 24 * time.Hour,
	}

	// Initialize the router
	r := mux.NewRouter()

	// Register a welcome route
	r.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintln(w, "Welcome to FamHub")
	}).Methods("GET")

	// Register a health check endpoint
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		response := map[string]string{"status": "healthy"}
		json.NewEncoder(w).Encode(response)
	}).Methods("GET")

	// Register routes
	routes.RegisterInvitationRoutes(r, inviteService, decisionService)

	// Add CORS middleware
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"}, // Adjust for specific domains if needed
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization", "X-Member-Id", "X-Member-Email", "X-Member-Phone", "X-Decision-Source"},
		AllowCredentials: true,
	}).Handler(r)

	// Start the HTTP server
	log.Printf("Starting server on port %s...\n", cfg.Port)
	log.Fatal(http.ListenAndServe(":"+cfg.Port, corsHandler))
}

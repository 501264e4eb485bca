package main

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/kamwana/chamameet/internal/config"
	"github.com/kamwana/chamameet/internal/database"
	postgresrepo "github.com/kamwana/chamameet/internal/repository/postgres"
	"github.com/kamwana/chamameet/internal/service"
	"github.com/kamwana/chamameet/internal/transport/http/handlers"
	"github.com/kamwana/chamameet/internal/transport/http/middleware"
	"github.com/kamwana/chamameet/internal/transport/ws"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	cfg := config.Load()

	// Database
	if err := database.Migrate(cfg); err != nil {
		log.Fatal(err)
	}
	pool, err := database.Connect(cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer pool.Close()
	log.Println("Connected to database")

	// Repositories
	meetingRepo := postgresrepo.NewMeetingRepo(pool)
	memberRepo := postgresrepo.NewMemberRepo(pool)

	// Services
	directory := service.NewDirectoryService(memberRepo, 512, 5*time.Minute)

	// WebSocket hub
	hub := ws.NewHub(directory)
	go hub.Run()
	notifier := ws.NewHubNotifier(hub)

	sessionService := service.NewSessionService(meetingRepo, directory, notifier)
	meetingService := service.NewMeetingService(meetingRepo, sessionService, notifier)
	minutesService := service.NewMinutesService(meetingRepo, directory)

	// Handlers
	meetingHandler := handlers.NewMeetingHandler(meetingService, sessionService)
	sessionHandler := handlers.NewSessionHandler(sessionService)
	minutesHandler := handlers.NewMinutesHandler(minutesService, meetingService)
	memberHandler := handlers.NewMemberHandler(directory)

	// Auth middleware
	auth := middleware.Auth(cfg.JWTSecret)

	// Routes
	mux := http.NewServeMux()

	// Public
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status": "ok"}`))
	})
	mux.Handle("GET /metrics", promhttp.Handler())
	mux.HandleFunc("GET /ws", ws.ServeWS(hub, cfg.JWTSecret))

	// Protected - Meetings
	mux.Handle("POST /api/v1/meetings", auth(http.HandlerFunc(meetingHandler.Create)))
	mux.Handle("GET /api/v1/meetings", auth(http.HandlerFunc(meetingHandler.List)))
	mux.Handle("GET /api/v1/meetings/live", auth(http.HandlerFunc(meetingHandler.Live)))
	mux.Handle("GET /api/v1/meetings/{id}", auth(http.HandlerFunc(meetingHandler.Get)))
	mux.Handle("PATCH /api/v1/meetings/{id}", auth(http.HandlerFunc(meetingHandler.Update)))
	mux.Handle("POST /api/v1/meetings/{id}/attendees", auth(http.HandlerFunc(meetingHandler.AddAttendee)))
	mux.Handle("DELETE /api/v1/meetings/{id}/attendees/{mid}", auth(http.HandlerFunc(meetingHandler.RemoveAttendee)))
	mux.Handle("POST /api/v1/meetings/{id}/end", auth(http.HandlerFunc(sessionHandler.End)))

	// Protected - Live session
	mux.Handle("GET /api/v1/meetings/{id}/session", auth(http.HandlerFunc(sessionHandler.Get)))
	mux.Handle("POST /api/v1/meetings/{id}/session/join", auth(http.HandlerFunc(sessionHandler.Join)))
	mux.Handle("POST /api/v1/meetings/{id}/session/leave", auth(http.HandlerFunc(sessionHandler.Leave)))
	mux.Handle("POST /api/v1/meetings/{id}/session/mute", auth(http.HandlerFunc(sessionHandler.ToggleMute)))
	mux.Handle("POST /api/v1/meetings/{id}/session/video", auth(http.HandlerFunc(sessionHandler.ToggleVideo)))
	mux.Handle("POST /api/v1/meetings/{id}/session/recording/start", auth(http.HandlerFunc(sessionHandler.StartRecording)))
	mux.Handle("POST /api/v1/meetings/{id}/session/recording/stop", auth(http.HandlerFunc(sessionHandler.StopRecording)))
	mux.Handle("PATCH /api/v1/meetings/{id}/session/notes", auth(http.HandlerFunc(sessionHandler.UpdateNotes)))

	// Protected - Minutes
	mux.Handle("POST /api/v1/meetings/{id}/minutes", auth(http.HandlerFunc(minutesHandler.Generate)))
	mux.Handle("GET /api/v1/meetings/{id}/minutes", auth(http.HandlerFunc(minutesHandler.Get)))

	// Protected - Member directory
	mux.Handle("GET /api/v1/members", auth(http.HandlerFunc(memberHandler.List)))

	// Start server with CORS and metrics
	addr := fmt.Sprintf(":%s", cfg.ServerPort)
	log.Printf("Starting server on %s", addr)
	log.Fatal(http.ListenAndServe(addr, middleware.CORS(middleware.Metrics()(mux))))
}

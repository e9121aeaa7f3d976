package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/gorilla/mux"
	"gorm.io/gorm"

	"github.com/quetzal-chat/quetzal/internal/config"
	"github.com/quetzal-chat/quetzal/internal/domain"
	"github.com/quetzal-chat/quetzal/internal/handlers"
	"github.com/quetzal-chat/quetzal/internal/middleware"
	"github.com/quetzal-chat/quetzal/internal/ratelimit"
	"github.com/quetzal-chat/quetzal/internal/repository/conversation"
	"github.com/quetzal-chat/quetzal/internal/repository/knowledge"
	"github.com/quetzal-chat/quetzal/internal/repository/message"
	"github.com/quetzal-chat/quetzal/internal/repository/user"
	"github.com/quetzal-chat/quetzal/internal/services"
	"github.com/quetzal-chat/quetzal/internal/services/ai"
)

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Accept")
		w.Header().Set("Access-Control-Max-Age", "86400")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func newProvider(ctx context.Context, cfg *config.Config) (ai.Provider, error) {
	aiConfig := ai.DefaultConfig()
	aiConfig.Provider = cfg.AIProvider
	aiConfig.GeminiAPIKey = cfg.GeminiAPIKey
	aiConfig.GeminiModel = cfg.GeminiModel
	aiConfig.OpenAIAPIKey = cfg.OpenAIAPIKey
	aiConfig.OpenAIBaseURL = cfg.OpenAIBaseURL
	aiConfig.OpenAIModel = cfg.OpenAIModel

	if err := aiConfig.Validate(); err != nil {
		return nil, err
	}

	if aiConfig.Provider == ai.ProviderOpenAI {
		return ai.NewOpenAIProvider(aiConfig)
	}
	return ai.NewGeminiProvider(ctx, aiConfig)
}

func main() {
	cfg := config.Load()

	db, err := gorm.Open(sqlite.Open(cfg.DatabasePath), &gorm.Config{})
	if err != nil {
		log.Fatalf("DB Error: %v", err)
	}

	if err := db.AutoMigrate(
		&domain.User{},
		&domain.Conversation{},
		&domain.Message{},
		&domain.KnowledgeFact{},
	); err != nil {
		log.Fatalf("DB Migration Error: %v", err)
	}

	if err := os.MkdirAll(cfg.UploadDir, 0o755); err != nil {
		log.Fatalf("Upload dir error: %v", err)
	}

	// --- Repositories ---
	userRepo := user.NewGormUserRepository(db)
	conversationRepo := conversation.NewConversationRepository(db)
	messageRepo := message.NewMessageRepository(db)
	knowledgeRepo := knowledge.NewKnowledgeRepository(db)

	if err := knowledge.EnsureSeeded(context.Background(), knowledgeRepo); err != nil {
		log.Fatalf("Knowledge seed error: %v", err)
	}

	// --- Services ---
	provider, err := newProvider(context.Background(), cfg)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize AI provider: %v", err)
	}

	logger := services.NewLogger("quetzal")
	resolverService := services.NewResolverService(knowledgeRepo, provider, logger)
	conversationService := services.NewConversationService(conversationRepo, messageRepo, userRepo, logger)
	userService := services.NewUserService(userRepo, logger)

	// --- Handlers ---
	authHandler := handlers.NewAuthHandler(userService)
	chatHandler := handlers.NewChatHandler(resolverService, cfg.UploadDir, logger)
	conversationHandler := handlers.NewConversationHandler(conversationService)

	// --- Rate limiters (AI-backed endpoints only) ---
	chatLimiterConfig := ratelimit.DefaultChatConfig()
	chatLimiterConfig.MaxRequests = cfg.ChatRateLimit
	imageLimiterConfig := ratelimit.DefaultImageConfig()
	imageLimiterConfig.MaxRequests = cfg.ImageRateLimit

	chatLimiter := ratelimit.NewMemoryLimiter(chatLimiterConfig)
	imageLimiter := ratelimit.NewMemoryLimiter(imageLimiterConfig)
	defer chatLimiter.Stop()
	defer imageLimiter.Stop()

	// --- Router Setup ---
	r := mux.NewRouter()
	r.Use(corsMiddleware)
	r.Use(middleware.RecoverPanic(logger))
	r.Use(middleware.LoggingMiddleware(logger))

	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	}).Methods("GET")

	r.Handle("/chat",
		middleware.RateLimitMiddleware(chatLimiter, "chat")(
			http.HandlerFunc(chatHandler.HandleChat))).Methods("POST")
	r.Handle("/analyze-image",
		middleware.RateLimitMiddleware(imageLimiter, "analyze-image")(
			http.HandlerFunc(chatHandler.HandleAnalyzeImage))).Methods("POST")

	r.HandleFunc("/register", authHandler.Register).Methods("POST")
	r.HandleFunc("/login", authHandler.Login).Methods("POST")

	r.HandleFunc("/conversations", conversationHandler.CreateConversation).Methods("POST")
	r.HandleFunc("/conversations", conversationHandler.ListConversations).Methods("GET")
	r.HandleFunc("/conversations/{id:[0-9]+}", conversationHandler.DeleteConversation).Methods("DELETE")
	r.HandleFunc("/messages", conversationHandler.AppendMessage).Methods("POST")
	r.HandleFunc("/messages/{id:[0-9]+}", conversationHandler.ListMessages).Methods("GET")

	// --- Server Configuration ---
	port := ":" + cfg.ServerPort
	srv := &http.Server{
		Addr:    port,
		Handler: r,
	}

	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Printf("Quetzal agronomy assistant")
	log.Printf("Server starting on port %s (provider: %s)", port, cfg.AIProvider)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server startup failed: %v", err)
		}
	}()

	// --- Graceful Shutdown ---
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	log.Println("Shutting down server gracefully...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Shutdown error: %v", err)
	}
	log.Println("Server stopped.")
}

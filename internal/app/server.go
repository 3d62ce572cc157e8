package app

import (
	"log"
	"net/http"
	"time"
	"tush00nka/bbbab_chats/internal/handler"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	httpSwagger "github.com/swaggo/http-swagger"
)

type Server struct {
	router *mux.Router
}

func NewServer(chatHandler *handler.ChatHandler, messageHandler *handler.MessageHandler, reactionHandler *handler.ReactionHandler) *Server {
	router := mux.NewRouter()

	// Routes
	chatHandler.RegisterRoutes(router)
	messageHandler.RegisterRoutes(router)
	reactionHandler.RegisterRoutes(router)
	router.HandleFunc("/ping", handler.Ping).Methods("GET", "OPTIONS")

	// Настройка Swagger
	swaggerHandler := httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"), // Важно: относительный путь
	)

	router.PathPrefix("/swagger/").Handler(swaggerHandler)

	// Явно обслуживаем doc.json
	router.HandleFunc("/swagger/doc.json", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, "./docs/swagger.json")
	})

	return &Server{router: router}
}

func (s *Server) Run(port string) {
	cors := handlers.CORS(
		handlers.AllowedOrigins([]string{"*"}),
		handlers.AllowedMethods([]string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}),
		handlers.AllowedHeaders([]string{"Content-Type", "Authorization", "X-User-Id", "X-Requested-With"}),
	)

	srv := &http.Server{
		Handler:      cors(s.router),
		Addr:         ":" + port,
		WriteTimeout: 15 * time.Second,
		ReadTimeout:  15 * time.Second,
	}

	log.Printf("Server starting on port %s", port)
	log.Fatal(srv.ListenAndServe())
}

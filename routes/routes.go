package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/suryaKurella/badminton-tournament-software-sub001/handlers"
)

// SetupRoutes mounts every endpoint of the bracket engine on the router.
func SetupRoutes(
	router *chi.Mux,
	corsOrigins []string,
	bracketHandler *handlers.BracketHandler,
	matchHandler *handlers.MatchHandler,
	webSocketHandler *handlers.WebSocketHandler,
) {
	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.RealIP)
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)

	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   corsOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	router.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	router.Route("/tournaments/{tournamentID}", func(r chi.Router) {
		r.Route("/bracket", func(r chi.Router) {
			r.Post("/", bracketHandler.GenerateBracket)
			r.Get("/", bracketHandler.GetBracket)
		})
		r.Post("/group-stage/complete", bracketHandler.CompleteGroupStage)
		r.Get("/standings", bracketHandler.GetGroupStandings)
		r.Get("/leaderboard", bracketHandler.GetLeaderboard)
		r.Get("/matches", matchHandler.ListMatches)
	})

	router.Route("/matches/{matchID}", func(r chi.Router) {
		r.Post("/start", matchHandler.StartMatch)
		r.Post("/points", matchHandler.RecordPoint)
		r.Post("/points/undo", matchHandler.UndoLastPoint)
		r.Post("/breaks", matchHandler.RecordBreak)
		r.Post("/cancel", matchHandler.CancelMatch)
		r.Post("/walkover", matchHandler.CompleteByWalkover)
		r.Post("/advance", matchHandler.AdvanceWinner)
		r.Get("/events", matchHandler.ListEvents)
	})

	router.Get("/ws/tournaments/{tournamentID}", webSocketHandler.ServeWs)
}

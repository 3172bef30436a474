package routes

import (
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/kartia-app/kartia-server/handlers"
	"github.com/kartia-app/kartia-server/middleware"
)

func SetupRoutes(
	router *chi.Mux,
	jwtSecret string,
	authHandler *handlers.AuthHandler,
	userHandler *handlers.UserHandler,
	championshipHandler *handlers.ChampionshipHandler,
	teamHandler *handlers.TeamHandler,
	garageHandler *handlers.GarageHandler,
) {
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	router.Post("/auth/register", authHandler.Register)
	router.Post("/auth/login", authHandler.Login)
	router.Post("/auth/forgot-password", authHandler.ForgotPassword)
	router.Post("/auth/reset-password", authHandler.ResetPassword)

	router.Group(func(r chi.Router) {
		r.Use(middleware.Authenticate(jwtSecret))

		r.Route("/users", func(r chi.Router) {
			r.Get("/me", userHandler.GetMe)
			r.Put("/me", userHandler.UpdateMe)
			r.Delete("/me", userHandler.DeleteMe)
			r.Post("/me/avatar", userHandler.UploadAvatar)
			r.Get("/{userID}", userHandler.GetByID)
		})

		r.Route("/championships", func(r chi.Router) {
			r.Get("/", championshipHandler.List)
			r.Post("/", championshipHandler.Create)
			r.Post("/join", championshipHandler.Join)
			r.Get("/{championshipID}", championshipHandler.Get)
			r.Get("/{championshipID}/standings", championshipHandler.Standings)
			r.Post("/{championshipID}/races", championshipHandler.RecordRace)
			r.Post("/{championshipID}/leave", championshipHandler.Leave)
			r.Delete("/{championshipID}", championshipHandler.Delete)
		})

		r.Route("/teams", func(r chi.Router) {
			r.Get("/", teamHandler.List)
			r.Post("/", teamHandler.Create)
			r.Get("/my", teamHandler.MyTeam)
			r.Get("/{teamID}", teamHandler.Get)
			r.Post("/{teamID}/join-requests", teamHandler.RequestJoin)
			r.Post("/{teamID}/join-requests/{userID}/accept", teamHandler.AcceptRequest)
			r.Post("/{teamID}/join-requests/{userID}/reject", teamHandler.RejectRequest)
			r.Post("/{teamID}/leave", teamHandler.Leave)
			r.Post("/{teamID}/icon", teamHandler.UploadIcon)
			r.Delete("/{teamID}", teamHandler.Delete)
		})

		r.Route("/garage", func(r chi.Router) {
			r.Route("/notes", func(r chi.Router) {
				r.Get("/", garageHandler.ListNotes)
				r.Post("/", garageHandler.AddNote)
				r.Delete("/{index}", garageHandler.RemoveNote)
			})
			r.Route("/laps", func(r chi.Router) {
				r.Get("/", garageHandler.ListLaps)
				r.Post("/", garageHandler.AddLap)
				r.Get("/best", garageHandler.BestLap)
				r.Delete("/{lapID}", garageHandler.RemoveLap)
			})
			r.Route("/videos", func(r chi.Router) {
				r.Get("/", garageHandler.ListVideos)
				r.Post("/", garageHandler.UploadVideo)
				r.Delete("/{videoID}", garageHandler.RemoveVideo)
			})
		})
	})
}

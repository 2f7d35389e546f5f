package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/stackit-qa/stackit-api/internal/api"
	apiMiddleware "github.com/stackit-qa/stackit-api/internal/api/middleware"
)

// setupRouter creates and configures the application router with all routes
// and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.TraceMiddleware)

	authHandler := api.NewAuthHandler(app.profileService, app.jwtService)
	questionHandler := api.NewQuestionHandler(app.questionService, app.answerService)
	answerHandler := api.NewAnswerHandler(app.answerService)
	notificationHandler := api.NewNotificationHandler(app.notificationService)
	authMiddleware := apiMiddleware.NewAuthMiddleware(app.jwtService)

	r.Route("/api", func(r chi.Router) {
		// Authentication endpoints (public)
		r.Post("/auth/register", authHandler.Register)
		r.Post("/auth/login", authHandler.Login)

		// Public read endpoints
		r.Get("/questions", questionHandler.List)
		r.Get("/questions/{questionID}", questionHandler.Get)
		r.Get("/questions/{questionID}/answers", answerHandler.List)
		r.Get("/answers", answerHandler.ListByAuthor)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)

			r.Post("/questions", questionHandler.Create)
			r.Put("/questions/{questionID}", questionHandler.Update)
			r.Delete("/questions/{questionID}", questionHandler.Delete)

			r.Post("/questions/{questionID}/answers", answerHandler.Create)
			r.Post("/questions/{questionID}/answers/{answerID}/accept", answerHandler.Accept)
			r.Delete("/questions/{questionID}/answers/{answerID}/accept", answerHandler.Unaccept)
			r.Post("/answers/{answerID}/vote", answerHandler.Vote)
			r.Put("/answers/{answerID}", answerHandler.Update)
			r.Delete("/answers/{answerID}", answerHandler.Delete)

			r.Get("/notifications", notificationHandler.List)
			r.Get("/notifications/unread-count", notificationHandler.UnreadCount)
			r.Post("/notifications/{notificationID}/read", notificationHandler.MarkRead)
			r.Post("/notifications/read-all", notificationHandler.MarkAllRead)
		})
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("failed to write health check response", "error", err)
		}
	})

	return r
}

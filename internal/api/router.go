package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/studybuddy/backend/internal/api/handlers"
	"github.com/studybuddy/backend/internal/api/middleware"
	"github.com/studybuddy/backend/internal/auth"
	"github.com/studybuddy/backend/internal/cache"
	"github.com/studybuddy/backend/internal/chat"
	"github.com/studybuddy/backend/internal/config"
	"github.com/studybuddy/backend/internal/document"
	"github.com/studybuddy/backend/internal/llm"
	"github.com/studybuddy/backend/internal/queue"
	"github.com/studybuddy/backend/internal/storage"
	"github.com/studybuddy/backend/internal/study"
)

type Router struct {
	mux      *chi.Mux
	db       *pgxpool.Pool
	redis    *redis.Client
	cfg      *config.Config
	sessions *auth.Manager
	provider llm.Provider
}

func NewRouter(db *pgxpool.Pool, rdb *redis.Client, cfg *config.Config, provider llm.Provider) *Router {
	return &Router{
		mux:      chi.NewRouter(),
		db:       db,
		redis:    rdb,
		cfg:      cfg,
		sessions: auth.NewManager(cfg.Auth),
		provider: provider,
	}
}

func (rt *Router) Setup() http.Handler {
	r := rt.mux

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logging)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.CORS([]string{"*"}))

	rl := middleware.NewRateLimiter(100, 200)
	r.Use(rl.Limit)

	// Health endpoints (no auth)
	health := handlers.NewHealthHandler(rt.db, rt.redis)
	r.Get("/healthz", health.Healthz)
	r.Get("/readyz", health.Readyz)

	// Services
	users := auth.NewUserStore(rt.db)
	queueClient := queue.NewClient(rt.cfg.Redis)
	progressSvc := study.NewProgressService(rt.db, cache.NewCache(rt.redis))
	store := storage.NewSupabaseStore(rt.cfg.Storage.SupabaseURL, rt.cfg.Storage.SupabaseKey)
	docSvc := document.NewService(rt.db, store, progressSvc, rt.cfg.Storage.Bucket)
	chatSvc := chat.NewService(chat.NewStore(rt.db), rt.provider, progressSvc, rt.cfg.LLM)
	examSvc := study.NewExamService(rt.db, queueClient)
	studySvc := study.NewSessionService(rt.db, progressSvc)

	authH := handlers.NewAuthHandler(users, rt.sessions)
	r.Route("/api/auth", func(r chi.Router) {
		r.Post("/register", authH.Register)
		r.Post("/login", authH.Login)
		r.Post("/logout", authH.Logout)
	})

	// Everything else requires a session cookie
	authMW := auth.NewMiddleware(rt.sessions)
	r.Route("/api", func(r chi.Router) {
		r.Use(authMW.Authenticate)

		r.Get("/auth/me", authH.Me)

		docH := handlers.NewDocumentHandler(docSvc)
		r.Route("/documents", func(r chi.Router) {
			r.Post("/", docH.Upload)
			r.Get("/", docH.List)
			r.Get("/{id}", docH.Get)
			r.Delete("/{id}", docH.Delete)
		})

		chatH := handlers.NewChatHandler(chatSvc)
		r.Post("/chat", chatH.Send)
		r.Route("/sessions", func(r chi.Router) {
			r.Get("/", chatH.ListSessions)
			r.Post("/", chatH.CreateSession)
			r.Get("/{id}", chatH.GetSession)
			r.Delete("/{id}", chatH.DeleteSession)
			r.Get("/{id}/messages", chatH.Messages)
			r.Patch("/{id}/document", chatH.UpdateAttachment)
		})

		examH := handlers.NewExamHandler(examSvc)
		r.Route("/exams", func(r chi.Router) {
			r.Post("/", examH.Create)
			r.Get("/", examH.List)
			r.Get("/{id}", examH.Get)
			r.Put("/{id}", examH.Update)
			r.Delete("/{id}", examH.Delete)
		})

		studyH := handlers.NewStudySessionHandler(studySvc)
		r.Route("/study-sessions", func(r chi.Router) {
			r.Post("/", studyH.Start)
			r.Get("/", studyH.List)
			r.Post("/{id}/complete", studyH.Complete)
			r.Delete("/{id}", studyH.Delete)
		})

		progressH := handlers.NewProgressHandler(progressSvc)
		r.Route("/progress", func(r chi.Router) {
			r.Get("/", progressH.List)
			r.Get("/stats", progressH.Stats)
		})
	})

	return r
}

package app

import (
	"aiexchange/internal/app/deps"
	"aiexchange/internal/app/services"
	"aiexchange/internal/http/handlers/auth"
	loginwithemail "aiexchange/internal/http/handlers/auth/log_in_with_email"
	requestpasswordreset "aiexchange/internal/http/handlers/auth/request_password_reset"
	resetpassword "aiexchange/internal/http/handlers/auth/reset_password"
	verifyresetcode "aiexchange/internal/http/handlers/auth/verify_reset_code"
	me "aiexchange/internal/http/handlers/user/me"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func InitHttpServer(deps *deps.Deps, s *services.Services) *http.Server {
	router := NewRouter(deps, s)
	address := fmt.Sprintf("0.0.0.0:%d", deps.Config.Port)

	return &http.Server{
		Handler:           router,
		Addr:              address,
		ReadHeaderTimeout: 10 * time.Second,
	}
}

func NewRouter(deps *deps.Deps, s *services.Services) http.Handler {
	isTestMode := deps.Config.IsTestMode

	authRouter := chi.NewRouter()
	authRouter.Use(httprate.LimitByIP(deps.Config.AuthRequestsPerMinuteByIP, time.Minute))
	authRouter.Method(http.MethodPost, "/login", loginwithemail.New(s.LogInWithEmail))
	authRouter.Method(
		http.MethodPost,
		"/forgot-password",
		requestpasswordreset.New(s.RequestPasswordReset, isTestMode),
	)
	authRouter.Method(http.MethodPost, "/reset-password/verify", verifyresetcode.New(s.VerifyResetCode))
	authRouter.Method(http.MethodPost, "/reset-password", resetpassword.New(s.ResetPassword))

	profileRouter := chi.NewRouter()
	profileRouter.Use(auth.SetAuthTokenToContext)
	profileRouter.Method(http.MethodGet, "/me", me.New(s.GetCurrentUser))

	router := chi.NewRouter()
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   deps.Config.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		ExposedHeaders:   []string{requestpasswordreset.TEST_CODE_HEADER},
		AllowCredentials: false,
		MaxAge:           300, // Maximum value not ignored by any of major browsers
	}))
	router.Mount("/auth", authRouter)
	router.Mount("/profile", profileRouter)
	router.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.MetricsRegistry, promhttp.HandlerOpts{}))
	router.Get("/healthz", func(rw http.ResponseWriter, r *http.Request) {
		rw.WriteHeader(http.StatusOK)
	})

	return router
}

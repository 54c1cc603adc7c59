package services

import (
	"aiexchange/internal/app/deps"
	drl "aiexchange/internal/core/domain/rate_limiter"
	"aiexchange/internal/core/services"
	"aiexchange/internal/core/services/auth"
	createuser "aiexchange/internal/core/services/create_user"
	getcurrentuser "aiexchange/internal/core/services/get_current_user"
	issueresetcode "aiexchange/internal/core/services/issue_reset_code"
	loginwithemail "aiexchange/internal/core/services/log_in_with_email"
	purgeresetrequests "aiexchange/internal/core/services/purge_reset_requests"
	ratelimiting "aiexchange/internal/core/services/rate_limiting"
	requestpasswordreset "aiexchange/internal/core/services/request_password_reset"
	resetpassword "aiexchange/internal/core/services/reset_password"
	verifyresetcode "aiexchange/internal/core/services/verify_reset_code"
	"aiexchange/internal/implementations/metrics"
)

type Services struct {
	IssueResetCode       services.Service[issueresetcode.Input, issueresetcode.Result]
	RequestPasswordReset services.Service[requestpasswordreset.Input, requestpasswordreset.Result]
	VerifyResetCode      services.Service[verifyresetcode.Input, verifyresetcode.Result]
	ResetPassword        services.Service[resetpassword.Input, resetpassword.Result]
	PurgeResetRequests   services.Service[purgeresetrequests.Input, purgeresetrequests.Result]

	CreateUser     services.Service[createuser.Input, createuser.Result]
	LogInWithEmail services.Service[loginwithemail.Input, loginwithemail.Result]
	GetCurrentUser services.Service[getcurrentuser.Input, getcurrentuser.Result]
}

func InitServices(deps *deps.Deps) *Services {
	s := &Services{}

	s.IssueResetCode = metrics.WithMetrics(
		deps.Metrics,
		"issue_reset_code",
		issueresetcode.New(
			deps.Logger,
			deps.UnitOfWork,
			deps.CodeGenerator,
			deps.NotificationDispatcher,
			deps.Config.PasswordResetCodeTTL,
			deps.Now,
		),
	)
	s.RequestPasswordReset = metrics.WithMetrics(
		deps.Metrics,
		"request_password_reset",
		ratelimiting.New(
			deps.Logger,
			deps.RateLimiter,
			drl.PerMinute(3),
			requestpasswordreset.New(deps.Logger, deps.UserRepository, s.IssueResetCode),
		),
	)
	s.VerifyResetCode = metrics.WithMetrics(
		deps.Metrics,
		"verify_reset_code",
		ratelimiting.New(
			deps.Logger,
			deps.RateLimiter,
			drl.PerMinute(5),
			verifyresetcode.New(deps.Logger, deps.UserRepository, deps.ResetRequestRepository, deps.Now),
		),
	)
	s.ResetPassword = metrics.WithMetrics(
		deps.Metrics,
		"reset_password",
		ratelimiting.New(
			deps.Logger,
			deps.RateLimiter,
			drl.PerMinute(5),
			resetpassword.New(deps.Logger, deps.UnitOfWork, deps.PasswordHasher, deps.Now),
		),
	)
	s.PurgeResetRequests = metrics.WithMetrics(
		deps.Metrics,
		"purge_reset_requests",
		purgeresetrequests.New(
			deps.Logger,
			deps.ResetRequestRepository,
			deps.Config.PasswordResetRetentionDays,
			deps.Now,
		),
	)

	s.CreateUser = createuser.New(deps.Logger, deps.UnitOfWork, deps.PasswordHasher, deps.Now)
	s.LogInWithEmail = metrics.WithMetrics(
		deps.Metrics,
		"log_in_with_email",
		ratelimiting.New(
			deps.Logger,
			deps.RateLimiter,
			drl.PerMinute(5),
			loginwithemail.New(deps.Logger, deps.UserRepository, deps.PasswordHasher, deps.AccessTokenManager),
		),
	)
	s.GetCurrentUser = auth.WithAuthentication[getcurrentuser.Input, getcurrentuser.Result](
		deps.UserRepository,
		deps.AccessTokenManager,
		getcurrentuser.New(),
	)

	return s
}

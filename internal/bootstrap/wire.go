package bootstrap

import (
	"context"
	"net/http"
	"time"

	"github.com/universitas/manuales-backend/internal/application/assistant"
	"github.com/universitas/manuales-backend/internal/application/auth"
	"github.com/universitas/manuales-backend/internal/application/forms"
	"github.com/universitas/manuales-backend/internal/config"
	"github.com/universitas/manuales-backend/internal/domain"
	"github.com/universitas/manuales-backend/internal/infrastructure/dialogflow"
	"github.com/universitas/manuales-backend/internal/infrastructure/googlesheets"
	"github.com/universitas/manuales-backend/internal/infrastructure/mail"
	"github.com/universitas/manuales-backend/internal/infrastructure/security"
	"github.com/universitas/manuales-backend/internal/infrastructure/sheetrepo"
	"github.com/universitas/manuales-backend/internal/logger"
	"github.com/universitas/manuales-backend/internal/spreadsheet"
	http_handlers "github.com/universitas/manuales-backend/internal/transport/http/handlers"
	"github.com/universitas/manuales-backend/internal/transport/http/middleware"
	"github.com/universitas/manuales-backend/internal/transport/http/response"
	"github.com/universitas/manuales-backend/internal/transport/http/router"
)

/*
========================
 Public entry (prod)
========================
*/

func NewServer() (*http.Server, func(), error) {
	return newServer(defaultDeps())
}

// NewServerWithDeps allows injecting dependencies for testing
func NewServerWithDeps(deps Deps) (*http.Server, func(), error) {
	return newServer(deps)
}

/*
========================
 Dependency injection
========================
*/

type Deps struct {
	LoadConfig func() (*config.Config, error)

	// NewStore opens one spreadsheet as a record store; it is called once
	// for the main spreadsheet and once more if a separate chat-transcript
	// spreadsheet is configured.
	NewStore func(ctx context.Context, credentialsFile, spreadsheetID string) (spreadsheet.Store, error)

	NewDetector func(ctx context.Context, credentialsFile string, cfg dialogflow.Config) (assistant.IntentDetector, error)

	NewMailer func(cfg mail.Config) (auth.MailSender, error)

	NewRouter func(router.Deps) (http.Handler, error)
}

func defaultDeps() Deps {
	return Deps{
		LoadConfig: config.Load,
		NewStore: func(ctx context.Context, credentialsFile, spreadsheetID string) (spreadsheet.Store, error) {
			return googlesheets.New(ctx, credentialsFile, spreadsheetID)
		},
		NewDetector: func(ctx context.Context, credentialsFile string, cfg dialogflow.Config) (assistant.IntentDetector, error) {
			return dialogflow.New(ctx, credentialsFile, cfg)
		},
		NewMailer: func(cfg mail.Config) (auth.MailSender, error) {
			return mail.NewSMTPSender(cfg)
		},
		NewRouter: router.New,
	}
}

/*
========================
 Core bootstrap logic
========================
*/

func newServer(deps Deps) (*http.Server, func(), error) {
	// 0) config
	cfg, err := deps.LoadConfig()
	if err != nil {
		return nil, nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	// 1) spreadsheet store + repos
	store, err := deps.NewStore(ctx, cfg.CredentialsFile, cfg.SpreadsheetID)
	if err != nil {
		return nil, nil, err
	}

	userRepo := sheetrepo.NewUserRepo(store, cfg.LoginSheet)
	if err := userRepo.ValidateSchema(ctx); err != nil {
		// A renamed or reordered column would silently corrupt writes;
		// refuse to start instead.
		return nil, nil, err
	}
	formRepo := sheetrepo.NewFormRepo(store)

	// 2) security
	logger.Logger.Info().Str("issuer", cfg.JWTIssuer).Msg("initializing jwt signer")
	hasher := security.NewBcryptHasher(cfg.BcryptCost)
	signer := security.NewJWTSigner(cfg.JWTSecret, cfg.JWTIssuer)
	tokens := security.NewTokenGenerator()

	// 3) mail
	mailer, err := deps.NewMailer(mail.Config{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUsername,
		Password: cfg.SMTPPassword,
		From:     cfg.FromEmail,
		FromName: cfg.FromName,
	})
	if err != nil {
		return nil, nil, err
	}

	// 4) services
	authSvc := auth.NewService(userRepo, hasher, signer, tokens, mailer, auth.Config{
		SessionTokenTTL:    cfg.SessionTTL,
		ScopedTokenTTL:     cfg.ScopedTTL,
		ProfileTokenTTL:    cfg.ProfileTTL,
		ActivationTokenTTL: cfg.ActivationTokenTTL,
		ResetCodeTTL:       cfg.ResetCodeTTL,
		DeletionTokenTTL:   cfg.DeletionTokenTTL,
		BaseURL:            cfg.BaseURL,
	})

	formsSvc := forms.NewService(formRepo, forms.DefaultRegistry())

	// 5) assistant (optional)
	var assistSvc *assistant.Service
	if cfg.AssistantEnabled() {
		detector, err := deps.NewDetector(ctx, cfg.CredentialsFile, dialogflow.Config{
			ProjectID:    cfg.DialogflowProjectID,
			Location:     cfg.DialogflowLocation,
			AgentID:      cfg.DialogflowAgentID,
			LanguageCode: cfg.DialogflowLanguage,
		})
		if err != nil {
			return nil, nil, err
		}

		var transcript assistant.TranscriptLog
		if cfg.ChatSpreadsheetID != "" {
			chatStore, err := deps.NewStore(ctx, cfg.CredentialsFile, cfg.ChatSpreadsheetID)
			if err != nil {
				return nil, nil, err
			}
			transcript = sheetrepo.NewChatLog(chatStore, cfg.ChatSheet)
		} else {
			logger.Logger.Info().Msg("chat transcript disabled; no CHAT_SPREADSHEET_ID")
		}

		assistSvc = assistant.NewService(detector, transcript)
	} else {
		logger.Logger.Info().Msg("assistant disabled; dialogflow not configured")
	}

	// 6) handlers + middleware
	authH := http_handlers.NewAuthHandler(authSvc)
	userH := http_handlers.NewUserHandler(authSvc)
	formsH := http_handlers.NewFormsHandler(formsSvc)
	redirectH := http_handlers.NewRedirectHandler(authSvc, cfg.AppScheme, cfg.FallbackURL)
	healthH := http_handlers.NewHealthHandler(userRepo)

	authMW := middleware.Auth(signer, response.WriteError)
	optionalMW := middleware.OptionalAuth(signer, response.WriteError)
	adminMW := middleware.RequireAtLeast(domain.RoleAdmin, response.WriteError)

	routerDeps := router.Deps{
		Health:         healthH,
		Auth:           authH,
		User:           userH,
		Forms:          formsH,
		Redirect:       redirectH,
		AuthMW:         authMW,
		OptionalAuthMW: optionalMW,
		AdminMW:        adminMW,
	}
	if assistSvc != nil {
		routerDeps.Assistant = http_handlers.NewAssistantHandler(assistSvc)
	}

	handler, err := deps.NewRouter(routerDeps)
	if err != nil {
		return nil, nil, err
	}

	srv := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      handler,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	cleanup := func() {
		if assistSvc != nil {
			// Let in-flight transcript appends finish.
			assistSvc.Wait()
		}
	}

	return srv, cleanup, nil
}

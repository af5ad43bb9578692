package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "servihub/docs" // generated swagger registration
	"servihub/internal/adapter/http/handlers"
	"servihub/internal/adapter/persistence/repository"
	"servihub/internal/config"
	"servihub/internal/domain/entities"
	"servihub/internal/infrastructure/database"
	"servihub/internal/infrastructure/email"
	"servihub/internal/infrastructure/payments"
	"servihub/internal/usecase"
	"servihub/internal/usecase/interfaces"
)

var router = gin.Default()

// Run will start the server
func Run() {
	setMiddlewares()

	// Swagger documentation endpoint
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	getRoutes()

	if err := router.Run(":" + config.ServerPort()); err != nil {
		log.Fatal().Err(err).Msg("failed to start the application")
	}
}

func getRoutes() {
	dbCfg, err := config.LoadDBConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid database configuration")
	}
	db, err := database.NewGormDB(dbCfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	if err := entities.AutoMigrate(db); err != nil {
		log.Fatal().Err(err).Msg("database migration failed")
	}

	// Payout columns are probed once at startup. A schema behind on
	// migrations degrades payouts to a logged warning instead of failing
	// acceptance and review flows.
	caps := usecase.SchemaCapabilities{
		PayoutColumns: db.Migrator().HasColumn(&entities.Proposal{}, "PayoutStatus") &&
			db.Migrator().HasColumn(&entities.Proposal{}, "PayoutAmount"),
	}
	if !caps.PayoutColumns {
		log.Warn().Msg("proposal payout columns missing, payouts disabled until migration")
	}

	txManager := repository.NewGormTxManager(db)
	requestRepo := repository.NewServiceRequestGormRepository(db)
	leadRepo := repository.NewLeadGormRepository(db)
	proposalRepo := repository.NewProposalGormRepository(db)
	workOrderRepo := repository.NewWorkOrderGormRepository(db)
	reviewRepo := repository.NewReviewGormRepository(db)
	businessRepo := repository.NewBusinessGormRepository(db)
	profileRepo := repository.NewProviderProfileGormRepository(db)
	userRepo := repository.NewUserGormRepository(db)

	var paymentGateway interfaces.IPaymentGateway
	mpGateway, err := payments.NewMercadoPagoGateway(config.MercadoPagoAccessToken())
	if err != nil {
		log.Warn().Err(err).Msg("mercado pago gateway not configured")
	} else {
		paymentGateway = mpGateway
	}

	mailer := email.NewSMTPMailer(config.LoadSMTPConfig())

	benefits := usecase.NewSubscriptionBenefitsResolver(db)
	rankingUseCase := usecase.NewRankingUseCase(businessRepo, profileRepo, leadRepo, requestRepo, benefits)
	payoutUseCase := usecase.NewPayoutUseCase(proposalRepo, requestRepo, userRepo, mailer, caps)
	requestUseCase := usecase.NewRequestUseCase(txManager, requestRepo, businessRepo, workOrderRepo, rankingUseCase, payoutUseCase)
	proposalUseCase := usecase.NewProposalUseCase(requestRepo, proposalRepo, leadRepo, userRepo, paymentGateway)
	acceptanceUseCase := usecase.NewAcceptanceUseCase(txManager, requestRepo, proposalRepo, leadRepo, workOrderRepo, profileRepo, userRepo, paymentGateway, mailer)
	reviewUseCase := usecase.NewReviewUseCase(txManager, requestRepo, reviewRepo, businessRepo, profileRepo, payoutUseCase)

	requestHandler := handlers.NewServiceRequestHandler(requestUseCase)
	proposalHandler := handlers.NewProposalHandler(proposalUseCase)
	acceptanceHandler := handlers.NewAcceptanceHandler(acceptanceUseCase)
	reviewHandler := handlers.NewReviewHandler(reviewUseCase)

	v1 := router.Group("/v1")
	addPingRoutes(v1)
	addMarketplaceRoutes(v1, requestHandler, proposalHandler, acceptanceHandler, reviewHandler)
}

func setMiddlewares() {
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		log.Error().Interface("panic", recovered).Msg("recovered from panic")
		c.AbortWithStatus(500)
	}))
}

package routes

import (
	"github.com/go-redis/redis/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"maintenance-system/internal/controllers"
	"maintenance-system/internal/listeners"
	"maintenance-system/internal/repositories"
	"maintenance-system/internal/services"
	"maintenance-system/pkg/config"
	"maintenance-system/pkg/eventbus"
	"maintenance-system/pkg/filestorage"
	"maintenance-system/pkg/middleware"
	"maintenance-system/pkg/service"
)

type Loggers struct {
	Main        *zap.Logger
	Auth        *zap.Logger
	Equipment   *zap.Logger
	Maintenance *zap.Logger
	User        *zap.Logger
}

func InitRouter(e *echo.Echo, dbConn *pgxpool.Pool, redisClient *redis.Client, jwtSvc service.JWTService, loggers *Loggers, cfg *config.Config) {
	loggers.Main.Info("InitRouter: Начало создания маршрутов")

	// --- 0. ОБЩИЕ КОМПОНЕНТЫ ---
	api := e.Group("/api")
	fileStorage, err := filestorage.NewLocalFileStorage(cfg.Storage.UploadDir)
	if err != nil {
		loggers.Main.Fatal("не удалось создать файловое хранилище", zap.Error(err))
	}
	txManager := repositories.NewTxManager(dbConn)
	bus := eventbus.New(loggers.Main)

	// --- 1. РЕПОЗИТОРИИ ---
	userRepo := repositories.NewUserRepository(dbConn, loggers.User)
	cacheRepo := repositories.NewRedisCacheRepository(redisClient)
	equipmentRepo := repositories.NewEquipmentRepository(dbConn)
	usageRepo := repositories.NewUsageRepository(dbConn)
	maintenanceRepo := repositories.NewMaintenanceRepository(dbConn)
	purchaseRepo := repositories.NewPurchaseRepository(dbConn)
	reportRepo := repositories.NewReportRepository(dbConn, loggers.Main)

	// --- 2. СЕРВИСЫ ---
	permissionService := services.NewPermissionService(userRepo, cacheRepo, cfg.Auth.PermissionsCacheTTL, loggers.Auth)
	authService := services.NewAuthService(userRepo, jwtSvc, loggers.Auth)
	equipmentService := services.NewEquipmentService(equipmentRepo, usageRepo, txManager, fileStorage, bus, loggers.Equipment)
	maintenanceService := services.NewMaintenanceService(maintenanceRepo, equipmentRepo, txManager, bus, loggers.Maintenance)
	procurementService := services.NewProcurementService(purchaseRepo, txManager, bus, loggers.Main)
	userService := services.NewUserService(userRepo, permissionService, loggers.User)
	reportService := services.NewReportService(reportRepo, loggers.Main)
	dashboardService := services.NewDashboardService(equipmentRepo, maintenanceRepo, purchaseRepo, loggers.Main)

	// Слушатели событий: уведомления о завершённых ТО, просрочке и закупках.
	listeners.RegisterNotificationListeners(bus, loggers.Main)

	authMW := middleware.NewAuthMiddleware(jwtSvc, permissionService, loggers.Auth)

	// --- 3. КОНТРОЛЛЕРЫ ---
	authController := controllers.NewAuthController(authService, loggers.Auth)
	equipmentController := controllers.NewEquipmentController(equipmentService, loggers.Equipment)
	maintenanceController := controllers.NewMaintenanceController(maintenanceService, loggers.Maintenance)
	purchaseController := controllers.NewPurchaseController(procurementService, loggers.Main)
	userController := controllers.NewUserController(userService, loggers.User)
	reportController := controllers.NewReportController(reportService, loggers.Main)
	dashboardController := controllers.NewDashboardController(dashboardService, loggers.Main)

	// --- 4. РОУТЕРЫ ---
	secureGroup := api.Group("", authMW.Auth)

	runAuthRouter(api, authController, authMW)
	runEquipmentRouter(secureGroup, equipmentController, authMW)
	runMaintenanceRouter(secureGroup, maintenanceController, authMW)
	runPurchaseRouter(secureGroup, purchaseController, authMW)
	runUserRouter(secureGroup, userController, authMW)
	runReportRouter(secureGroup, reportController, authMW)
	runDashboardRouter(secureGroup, dashboardController, authMW)

	loggers.Main.Info("InitRouter: Создание маршрутов завершено")
}

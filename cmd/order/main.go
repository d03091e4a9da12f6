// OrderService 主程序
// 功能：商品目录、梯度报价、下单、发起支付、取消订单
// 架构：DDD + gin HTTP API + gRPC 健康检查 + Kafka 领域事件
package main

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	catalogapp "github.com/lootea/commerce/internal/catalog/application"
	catalogmysql "github.com/lootea/commerce/internal/catalog/infrastructure/persistence/mysql"
	catalogredis "github.com/lootea/commerce/internal/catalog/infrastructure/persistence/redis"
	cataloghttp "github.com/lootea/commerce/internal/catalog/interfaces/http"
	inventorymessaging "github.com/lootea/commerce/internal/inventory/infrastructure/messaging"
	inventorymysql "github.com/lootea/commerce/internal/inventory/infrastructure/persistence/mysql"
	orderapp "github.com/lootea/commerce/internal/order/application"
	ordermessaging "github.com/lootea/commerce/internal/order/infrastructure/messaging"
	ordermysql "github.com/lootea/commerce/internal/order/infrastructure/persistence/mysql"
	orderhttp "github.com/lootea/commerce/internal/order/interfaces/http"
	"github.com/lootea/commerce/internal/payment/gateway/comgate"
	"github.com/lootea/commerce/pkg/cache"
	"github.com/lootea/commerce/pkg/config"
	"github.com/lootea/commerce/pkg/db"
	"github.com/lootea/commerce/pkg/logger"
	"github.com/lootea/commerce/pkg/metrics"
	"github.com/lootea/commerce/pkg/middleware"
	"github.com/lootea/commerce/pkg/mq"
	"github.com/lootea/commerce/pkg/ratelimit"
	"github.com/lootea/commerce/pkg/trace"
	"github.com/lootea/commerce/pkg/utils"
)

func main() {
	// 1. 加载配置
	configPath := "configs/order/config.toml"
	if p := os.Getenv("LOOTEA_CONFIG"); p != "" {
		configPath = p
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// 2. 初始化日志
	if err := logger.Init(logger.Config{
		Level:      cfg.Logger.Level,
		Format:     cfg.Logger.Format,
		Output:     cfg.Logger.Output,
		FilePath:   cfg.Logger.FilePath,
		MaxSize:    cfg.Logger.MaxSize,
		MaxBackups: cfg.Logger.MaxBackups,
		MaxAge:     cfg.Logger.MaxAge,
		Compress:   cfg.Logger.Compress,
		WithCaller: cfg.Logger.WithCaller,
	}); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	logger.Info(ctx, "Starting OrderService",
		"service", cfg.ServiceName,
		"version", cfg.Version,
		"environment", cfg.Environment,
	)

	// 3. 初始化追踪
	if cfg.Tracing.Enabled {
		shutdown, err := trace.InitTracer(cfg.ServiceName, cfg.Tracing.CollectorEndpoint)
		if err != nil {
			logger.Error(ctx, "Failed to initialize tracer", "error", err)
		} else {
			defer func() {
				if err := shutdown(context.Background()); err != nil {
					logger.Error(ctx, "Failed to shutdown tracer", "error", err)
				}
			}()
			logger.Info(ctx, "Tracer initialized", "endpoint", cfg.Tracing.CollectorEndpoint)
		}
	}

	// 4. 初始化数据库
	database, err := db.Init(db.Config{
		Driver:             cfg.Database.Driver,
		DSN:                cfg.Database.DSN,
		MaxOpenConns:       cfg.Database.MaxOpenConns,
		MaxIdleConns:       cfg.Database.MaxIdleConns,
		ConnMaxLifetime:    cfg.Database.ConnMaxLifetime,
		LogEnabled:         cfg.Database.LogEnabled,
		SlowQueryThreshold: cfg.Database.SlowQueryThreshold,
	})
	if err != nil {
		logger.Fatal(ctx, "Failed to initialize database", "error", err)
	}
	defer database.Close()

	// 5. 初始化 Redis
	redisCache, err := cache.New(cache.Config{
		Host:         cfg.Redis.Host,
		Port:         cfg.Redis.Port,
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.DB,
		MaxPoolSize:  cfg.Redis.MaxPoolSize,
		ConnTimeout:  cfg.Redis.ConnTimeout,
		ReadTimeout:  cfg.Redis.ReadTimeout,
		WriteTimeout: cfg.Redis.WriteTimeout,
	})
	if err != nil {
		logger.Fatal(ctx, "Failed to initialize Redis", "error", err)
	}
	defer redisCache.Close()

	rateLimiter := ratelimit.NewRedisRateLimiter(redisCache.GetClient())

	// 6. 初始化指标
	metricsInstance := metrics.New("order")
	if err := metricsInstance.Register(); err != nil {
		logger.Fatal(ctx, "Failed to register metrics", "error", err)
	}
	if cfg.Metrics.Enabled {
		if err := metrics.StartHTTPServer(cfg.Metrics.Port, cfg.Metrics.Path); err != nil {
			logger.Fatal(ctx, "Failed to start metrics HTTP server", "error", err)
		}
	}

	// 7. 初始化 Kafka 生产者
	producer, err := mq.NewProducer(mq.KafkaConfig{
		Brokers:      cfg.Kafka.Brokers,
		MaxRetries:   cfg.Kafka.MaxRetries,
		RetryBackoff: cfg.Kafka.RetryBackoff,
	})
	if err != nil {
		logger.Fatal(ctx, "Failed to create Kafka producer", "error", err)
	}
	defer producer.Close()

	idGen := utils.NewSnowflakeID(1)
	eventPublisher := ordermessaging.NewKafkaEventPublisher(producer, idGen)
	lowStockNotifier := inventorymessaging.NewKafkaLowStockNotifier(producer, metricsInstance)

	// 8. 初始化仓储与台账
	productRepo := catalogredis.NewCachedProductRepository(
		catalogmysql.NewProductRepository(database.DB),
		redisCache,
	)
	orderRepo := ordermysql.NewOrderRepository(database)
	stockLedger := inventorymysql.NewStockLedger(database.DB, lowStockNotifier)

	// 9. 初始化支付网关客户端
	gateway, err := comgate.NewClient(comgate.Config{
		BaseURL:        cfg.Comgate.BaseURL,
		MerchantID:     cfg.Comgate.MerchantID,
		Secret:         cfg.Comgate.Secret,
		TestMode:       cfg.Comgate.TestMode,
		ConnectTimeout: time.Duration(cfg.Comgate.ConnectTimeout) * time.Second,
		ReadTimeout:    time.Duration(cfg.Comgate.ReadTimeout) * time.Second,
	})
	if err != nil {
		logger.Fatal(ctx, "Failed to create Comgate client", "error", err)
	}

	// 10. 初始化应用服务
	orderCommands := orderapp.NewOrderCommandService(
		orderRepo, productRepo, stockLedger, gateway, eventPublisher, metricsInstance)
	orderQueries := orderapp.NewOrderQueryService(orderRepo)
	productService := catalogapp.NewProductService(productRepo)

	// 11. 创建 HTTP / gRPC 服务器
	httpServer := createHTTPServer(cfg, orderCommands, orderQueries, productService, rateLimiter)
	grpcServer, healthServer := createGRPCServer()
	healthServer.SetServingStatus(cfg.ServiceName, healthpb.HealthCheckResponse_SERVING)

	go func() {
		addr := fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port)
		logger.Info(ctx, "Starting HTTP server", "addr", addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal(ctx, "HTTP server error", "error", err)
		}
	}()

	go func() {
		addr := fmt.Sprintf("%s:%d", cfg.GRPC.Host, cfg.GRPC.Port)
		listener, err := net.Listen("tcp", addr)
		if err != nil {
			logger.Fatal(ctx, "Failed to listen on gRPC address", "error", err)
		}
		logger.Info(ctx, "Starting gRPC health server", "addr", addr)
		if err := grpcServer.Serve(listener); err != nil {
			logger.Fatal(ctx, "gRPC server error", "error", err)
		}
	}()

	// 12. 优雅关停
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	logger.Info(ctx, "Shutting down OrderService")
	healthServer.SetServingStatus(cfg.ServiceName, healthpb.HealthCheckResponse_NOT_SERVING)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error(ctx, "HTTP server shutdown error", "error", err)
	}
	grpcServer.GracefulStop()

	logger.Info(ctx, "OrderService stopped")
}

// createHTTPServer 创建 HTTP 服务器
func createHTTPServer(
	cfg *config.Config,
	orderCommands *orderapp.OrderCommandService,
	orderQueries *orderapp.OrderQueryService,
	productService *catalogapp.ProductService,
	rateLimiter ratelimit.RateLimiter,
) *http.Server {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	router.Use(otelgin.Middleware(cfg.ServiceName))
	router.Use(middleware.GinLoggingMiddleware())
	router.Use(middleware.GinRecoveryMiddleware())
	router.Use(middleware.GinCORSMiddleware())
	if cfg.RateLimit.Enabled {
		router.Use(middleware.RateLimitMiddleware(rateLimiter, cfg.RateLimit))
	}

	api := router.Group("/api/v1")
	orderhttp.NewOrderHandler(orderCommands, orderQueries).RegisterRoutes(api)
	cataloghttp.NewProductHandler(productService).RegisterRoutes(api)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"service":   cfg.ServiceName,
			"timestamp": time.Now().Unix(),
		})
	})

	return &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeout) * time.Second,
	}
}

// createGRPCServer 创建 gRPC 服务器，只承载标准健康检查
func createGRPCServer() (*grpc.Server, *health.Server) {
	server := grpc.NewServer()
	healthServer := health.NewServer()
	healthpb.RegisterHealthServer(server, healthServer)
	return server, healthServer
}

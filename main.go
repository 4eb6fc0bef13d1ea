package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/beka-birhanu/vinom-maze/api"
	api_i "github.com/beka-birhanu/vinom-maze/api/i"
	"github.com/beka-birhanu/vinom-maze/api/identity"
	mazeapi "github.com/beka-birhanu/vinom-maze/api/maze"
	"github.com/beka-birhanu/vinom-maze/config"
	operator "github.com/beka-birhanu/vinom-maze/identity"
	logger "github.com/beka-birhanu/vinom-maze/infrastruture/log"
	"github.com/beka-birhanu/vinom-maze/infrastruture/repo"
	"github.com/beka-birhanu/vinom-maze/infrastruture/sortedstorage"
	"github.com/beka-birhanu/vinom-maze/infrastruture/token"
	"github.com/beka-birhanu/vinom-maze/service"
	"github.com/beka-birhanu/vinom-maze/service/i"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const eventKeyPrefix = "maze"

// Global variables for dependencies
var (
	mongoClient    *mongo.Client
	redisClient    *redis.Client
	runRepo        i.RunRepo
	eventQueue     i.SortedQueue
	eventRecorder  *service.EventRecorder
	engine         *service.Engine
	mazeController api_i.Controller
	jwtTokenizer   i.Tokenizer
	authService    i.Authenticator
	authController api_i.Controller
	router         *api.Router
	appLogger      *logger.Logger
)

func newLogger(name, color string) *logger.Logger {
	l, err := logger.New(name, color, os.Stdout)
	if err != nil {
		appLogger.Error(fmt.Sprintf("Creating %s logger: %v", name, err))
		os.Exit(1)
	}
	return l
}

func initMongo(ctx context.Context) {
	uri := fmt.Sprintf("mongodb://%s:%s@%s:%v", config.Envs.DBUser, config.Envs.DBPassword, config.Envs.DBHost, config.Envs.DBPort)

	clientOptions := options.Client().ApplyURI(uri)
	var err error
	mongoClient, err = mongo.Connect(ctx, clientOptions)
	if err != nil {
		appLogger.Error(fmt.Sprintf("Failed to connect to MongoDB: %v", err))
		os.Exit(1)
	}
	if err = mongoClient.Ping(ctx, nil); err != nil {
		appLogger.Error(fmt.Sprintf("MongoDB ping failed: %v", err))
		os.Exit(1)
	}
	appLogger.Info("Connected to MongoDB")
}

func initRunRepo(client *mongo.Client) {
	runRepo = repo.NewRunRepo(client, config.Envs.DBName, "runs")
	appLogger.Info("Run repository initialized")
}

func initRedis(ctx context.Context) {
	redisClient = redis.NewClient(&redis.Options{
		Addr: fmt.Sprintf("%s:%d", config.Envs.RedisHost, config.Envs.RedisPort),
	})
	if err := redisClient.Ping(ctx).Err(); err != nil {
		appLogger.Error(fmt.Sprintf("Redis ping failed: %v", err))
		os.Exit(1)
	}
	appLogger.Info("Connected to Redis")
}

func initEventRecorder() {
	var err error
	eventQueue, err = sortedstorage.NewRedisSortedQueue(redisClient, config.Envs.EventTTLSeconds)
	if err != nil {
		appLogger.Error(fmt.Sprintf("Creating event queue: %v", err))
		os.Exit(1)
	}

	eventRecorder, err = service.NewEventRecorder(eventQueue, newLogger("EVENTS", config.ColorCyan), eventKeyPrefix, 0)
	if err != nil {
		appLogger.Error(fmt.Sprintf("Creating event recorder: %v", err))
		os.Exit(1)
	}
	appLogger.Info("Event recorder initialized")
}

func initEngine() {
	var err error
	engine, err = service.NewEngine(service.EngineConfig{
		MinSize:      config.Envs.MazeMinSize,
		MaxSize:      config.Envs.MazeMaxSize,
		DelayEnabled: config.Envs.MazeDelayEnabled,
		StepDelay:    time.Duration(config.Envs.MazeStepDelayMS) * time.Millisecond,
		Recorder:     eventRecorder,
		Runs:         runRepo,
		Logger:       newLogger("ENGINE", config.ColorBlue),
	})
	if err != nil {
		appLogger.Error(fmt.Sprintf("Creating maze engine: %v", err))
		os.Exit(1)
	}
	appLogger.Info("Maze engine initialized")
}

func initMazeController() {
	var err error
	mazeController, err = mazeapi.NewMazeController(mazeapi.Config{
		Engine:      engine,
		Runs:        runRepo,
		Events:      eventRecorder,
		DefaultSize: config.Envs.MazeDefaultSize,
		MinSize:     config.Envs.MazeMinSize,
		MaxSize:     config.Envs.MazeMaxSize,
	})
	if err != nil {
		appLogger.Error(fmt.Sprintf("Creating maze controller: %v", err))
		os.Exit(1)
	}
	appLogger.Info("Maze controller initialized")
}

func initJWTTokenizer() {
	var err error
	jwtTokenizer, err = token.NewJwtService(config.Envs.JWTSecret, config.Envs.JWTIssuer)
	if err != nil {
		appLogger.Error(fmt.Sprintf("Creating JWT tokenizer: %v", err))
		os.Exit(1)
	}
	appLogger.Info("JWT Tokenizer initialized")
}

func initAuthService() {
	op, err := operator.NewOperator(config.Envs.OperatorName, config.Envs.OperatorKeyHash)
	if err != nil {
		appLogger.Error(fmt.Sprintf("Loading operator: %v", err))
		os.Exit(1)
	}

	authService, err = service.NewAuthService(op, jwtTokenizer, 0)
	if err != nil {
		appLogger.Error(fmt.Sprintf("Creating auth service: %v", err))
		os.Exit(1)
	}
	appLogger.Info("Auth service initialized")
}

func initAuthController() {
	authController = identity.NewIdentityServer(authService)
	appLogger.Info("Auth controller initialized")
}

func initRouter(t i.Tokenizer) {
	router = api.NewRouter(api.Config{
		Addr:                    fmt.Sprintf("%s:%v", config.Envs.HostIP, config.Envs.RESTPort),
		BaseURL:                 "/api",
		GinMode:                 config.Envs.GinMode,
		Controllers:             []api_i.Controller{authController, mazeController},
		AuthorizationMiddleware: identity.Authoriz(t),
		Logger:                  newLogger("HTTP", config.ColorMagenta),
	})
	appLogger.Info("Router initialized")
}

func main() {
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel() // Ensure the context is always canceled

	// Initialize dependencies
	appLogger, _ = logger.New("APP", config.ColorGreen, os.Stdout)
	defer func() {
		_ = appLogger.Sync()
	}()

	initMongo(ctx)
	defer func() {
		_ = mongoClient.Disconnect(context.Background())
	}()

	initRunRepo(mongoClient)
	initRedis(ctx)
	defer redisClient.Close()

	initEventRecorder()
	defer eventRecorder.Close()

	initEngine()
	defer engine.Cancel()

	initMazeController()
	initJWTTokenizer()
	initAuthService()
	initAuthController()
	initRouter(jwtTokenizer)

	// Run HTTP server
	if err := router.Run(); err != nil {
		appLogger.Error(fmt.Sprintf("Starting server: %v", err))
		os.Exit(1)
	}
}

package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/beka-birhanu/mazeflood/api"
	api_i "github.com/beka-birhanu/mazeflood/api/i"
	"github.com/beka-birhanu/mazeflood/api/identity"
	mazeapi "github.com/beka-birhanu/mazeflood/api/maze"
	"github.com/beka-birhanu/mazeflood/config"
	"github.com/beka-birhanu/mazeflood/infrastruture/cache"
	"github.com/beka-birhanu/mazeflood/infrastruture/lock"
	"github.com/beka-birhanu/mazeflood/infrastruture/memory"
	"github.com/beka-birhanu/mazeflood/infrastruture/pbwire"
	"github.com/beka-birhanu/mazeflood/infrastruture/repo"
	"github.com/beka-birhanu/mazeflood/infrastruture/token"
	"github.com/beka-birhanu/mazeflood/logger"
	"github.com/beka-birhanu/mazeflood/service"
	"github.com/beka-birhanu/mazeflood/service/i"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Global variables for dependencies
var (
	mongoClient     *mongo.Client
	redisClient     *redis.Client
	editorRepo      i.EditorRepo
	mazeRepo        i.MazeRepo
	solutionEncoder *pbwire.Encoder
	solutionCache   i.SolutionCache
	mazeLocker      i.Locker
	jwtTokenizer    i.Tokenizer
	authService     i.Authenticator
	mazeService     *service.MazeService
	authController  api_i.Controller
	mazeController  api_i.Controller
	router          *api.Router
	appLogger       *logger.Logger
)

func fatal(format string, args ...any) {
	appLogger.Error(fmt.Sprintf(format, args...))
	os.Exit(1)
}

func newLogger(prefix, color string) *logger.Logger {
	l, err := logger.New(prefix, color, os.Stdout)
	if err != nil {
		fatal("Creating %s logger: %v", prefix, err)
	}
	return l
}

func initMongo(ctx context.Context) {
	uri := fmt.Sprintf("mongodb://%s:%s@%s:%v", config.Envs.DBUser, config.Envs.DBPassword, config.Envs.DBHost, config.Envs.DBPort)

	clientOptions := options.Client().ApplyURI(uri)
	var err error
	mongoClient, err = mongo.Connect(ctx, clientOptions)
	if err != nil {
		fatal("Failed to connect to MongoDB: %v", err)
	}
	if err = mongoClient.Ping(ctx, nil); err != nil {
		fatal("MongoDB ping failed: %v", err)
	}
	appLogger.Info("Connected to MongoDB")
}

func initRedis(ctx context.Context) {
	redisClient = redis.NewClient(&redis.Options{
		Addr:     config.Envs.RedisAddr,
		Password: config.Envs.RedisPassword,
		DB:       config.Envs.RedisDB,
	})
	if err := redisClient.Ping(ctx).Err(); err != nil {
		fatal("Redis ping failed: %v", err)
	}
	appLogger.Info("Connected to Redis")
}

func initRepos(ctx context.Context) {
	editors := repo.NewEditorRepo(mongoClient, config.Envs.DBName, "editors")
	if err := editors.EnsureIndexes(ctx); err != nil {
		fatal("Creating editor indexes: %v", err)
	}
	mazes := repo.NewMazeRepo(mongoClient, config.Envs.DBName, "mazes")
	if err := mazes.EnsureIndexes(ctx); err != nil {
		fatal("Creating maze indexes: %v", err)
	}
	editorRepo, mazeRepo = editors, mazes
	appLogger.Info("Repositories initialized")
}

func initRedisBackends() {
	solutionCache = cache.NewRedisSolutionCache(redisClient, solutionEncoder, config.Envs.SolutionTTLSeconds)
	mazeLocker = lock.NewRedisLocker(redisClient, config.Envs.LockExpirySeconds)
	appLogger.Info("Solution cache and maze locker initialized")
}

func initMemoryBackends() {
	editorRepo = memory.NewEditorRepo()
	mazeRepo = memory.NewMazeRepo()
	solutionCache = memory.NewSolutionCache(time.Duration(config.Envs.SolutionTTLSeconds) * time.Second)
	mazeLocker = memory.NewLocker()
	appLogger.Warning("Using in-memory storage; nothing survives a restart")
}

func initJWTTokenizer() {
	jwtTokenizer = token.NewJwtService(config.Envs.JWTSecret, config.Envs.JWTIssuer)
	appLogger.Info("JWT Tokenizer initialized")
}

func initAuthService() {
	var err error
	authService, err = service.NewAuthService(editorRepo, jwtTokenizer, newLogger("AUTH", logger.ColorCyan))
	if err != nil {
		fatal("Creating auth service: %v", err)
	}
	appLogger.Info("Auth service initialized")
}

func initMazeService() {
	var err error
	mazeService, err = service.NewMazeService(&service.MazeServiceConfig{
		Repo:   mazeRepo,
		Cache:  solutionCache,
		Locker: mazeLocker,
		Logger: newLogger("MAZE", logger.ColorPurple),
	})
	if err != nil {
		fatal("Creating maze service: %v", err)
	}
	appLogger.Info("Maze service initialized")
}

func initControllers() {
	authController = identity.NewIdentityServer(authService)

	var err error
	mazeController, err = mazeapi.NewMazeController(mazeService, mazeService, solutionEncoder)
	if err != nil {
		fatal("Creating maze controller: %v", err)
	}
	appLogger.Info("Controllers initialized")
}

func initRouter(t i.Tokenizer) {
	router = api.NewRouter(api.Config{
		Addr:                    fmt.Sprintf("%s:%v", config.Envs.HostIP, config.Envs.RESTPort),
		BaseURL:                 "/api",
		GinMode:                 config.Envs.GinMode,
		Controllers:             []api_i.Controller{authController, mazeController},
		AuthorizationMiddleware: identity.Authoriz(t),
	})
	appLogger.Info("Router initialized")
}

func main() {
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	var err error
	appLogger, err = logger.New("APP", logger.ColorGreen, os.Stdout)
	if err != nil {
		fmt.Fprintf(os.Stderr, "creating logger: %v\n", err)
		os.Exit(1)
	}

	solutionEncoder = pbwire.NewEncoder()

	switch config.Envs.Storage {
	case config.StorageMemory:
		initMemoryBackends()
	default:
		initMongo(ctx)
		defer func() {
			_ = mongoClient.Disconnect(context.Background())
		}()
		initRedis(ctx)
		defer redisClient.Close()

		initRepos(ctx)
		initRedisBackends()
	}

	initJWTTokenizer()
	initAuthService()
	initMazeService()
	initControllers()
	initRouter(jwtTokenizer)

	// Run HTTP server
	if err := router.Run(); err != nil {
		appLogger.Error(fmt.Sprintf("Starting server: %v", err))
		os.Exit(1)
	}
}

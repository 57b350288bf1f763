package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/gin-gonic/gin"
	_ "github.com/go-sql-driver/mysql"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	esRepo "github.com/hualinpp/threadhub/internal/repository/elasticsearch"
	mysqlRepo "github.com/hualinpp/threadhub/internal/repository/mysql"
	redisRepo "github.com/hualinpp/threadhub/internal/repository/redis"
	"github.com/hualinpp/threadhub/internal/rest"
	"github.com/hualinpp/threadhub/internal/rest/middleware"
	"github.com/hualinpp/threadhub/internal/usecase/hot"
	"github.com/hualinpp/threadhub/internal/usecase/post"
	"github.com/hualinpp/threadhub/internal/usecase/search"
	"github.com/hualinpp/threadhub/internal/workers"
)

const (
	defaultTimeout      = 30
	defaultAddress      = ":9090"
	defaultCacheDB      = 0
	dbMaxRetry          = 10
	dbRetryIntervalSec  = 2
	searchMaxRetries    = 3
	searchBackoffBase   = time.Second
	hotRefreshIntervalH = 24
)

func init() {
	err := godotenv.Load()
	if err != nil {
		log.Fatal("Error loading .env file")
	}
}

func main() {
	//prepare database
	dbHost := os.Getenv("DATABASE_HOST")
	dbPort := os.Getenv("DATABASE_PORT")
	dbUser := os.Getenv("DATABASE_USER")
	dbPass := os.Getenv("DATABASE_PASS")
	dbName := os.Getenv("DATABASE_NAME")
	connection := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s", dbUser, dbPass, dbHost, dbPort, dbName)
	val := url.Values{}
	val.Add("parseTime", "1")
	val.Add("loc", "Asia/Shanghai")
	dsn := fmt.Sprintf("%s?%s", connection, val.Encode())

	var (
		db  *gorm.DB
		err error
	)

	for i := range dbMaxRetry {
		db, err = gorm.Open(mysql.Open(dsn), &gorm.Config{TranslateError: true})
		if err != nil {
			log.Printf("failed to open connection to database (attempt %d/%d): %v", i+1, dbMaxRetry, err)
		} else {
			sqlDB, err := db.DB()
			if err != nil {
				log.Printf("failed to get sql.DB from gorm.DB (attempt %d/%d): %v", i+1, dbMaxRetry, err)
				continue
			}
			err = sqlDB.Ping()
			if err == nil {
				break
			}
			log.Printf("failed to ping database (attempt %d/%d): %v", i+1, dbMaxRetry, err)
			_ = sqlDB.Close()
		}

		time.Sleep(dbRetryIntervalSec * time.Second)
	}

	if err != nil {
		log.Fatal("could not connect to database after retries:", err)
	}

	defer func() {
		sqlDB, err := db.DB()
		if err != nil {
			log.Fatal("got error when getting sql.DB from gorm.DB", err)
		}
		if err := sqlDB.Close(); err != nil {
			log.Fatal("got error when closing the DB connection", err)
		}
	}()

	// prepare cache
	cacheHost := os.Getenv("CACHE_HOST")
	cachePort := os.Getenv("CACHE_PORT")
	cachePass := os.Getenv("CACHE_PASS")
	cacheDBStr := os.Getenv("CACHE_DB")
	cacheDB, err := strconv.Atoi(cacheDBStr)
	if err != nil {
		log.Println("failed to parse cacheDB, using default cacheDB")
		cacheDB = defaultCacheDB
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cacheHost + ":" + cachePort,
		Password: cachePass,
		DB:       cacheDB,
	})
	defer func() {
		err = client.Close()
		if err != nil {
			log.Fatal("got error when closing the cache connection", err)
		}
	}()

	_, err = client.Ping(context.Background()).Result()
	if err != nil {
		log.Fatal("failed to open connection to cache", err)
		return
	}

	// prepare search index client; the service keeps running without it
	esAddr := os.Getenv("ELASTICSEARCH_ADDR")
	if esAddr == "" {
		esAddr = "http://localhost:9200"
	}
	esClient, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: []string{esAddr},
		Username:  os.Getenv("ELASTICSEARCH_USER"),
		Password:  os.Getenv("ELASTICSEARCH_PASS"),
	})
	if err != nil {
		log.Fatal("failed to build elasticsearch client: ", err)
	}

	// prepare gin
	route := gin.Default()
	route.Use(middleware.CORS())
	timeoutStr := os.Getenv("CONTEXT_TIMEOUT")
	timeout, err := strconv.Atoi(timeoutStr)
	if err != nil {
		log.Println("failed to parse timeout, using default timeout")
		timeout = defaultTimeout
	}
	timeoutContext := time.Duration(timeout) * time.Second
	route.Use(middleware.SetRequestContextWithTimeout(timeoutContext))

	// Prepare Repository
	store := mysqlRepo.NewStore(db)
	if err := store.Migrate(); err != nil {
		log.Fatal("failed to migrate database schema: ", err)
	}
	hotCache := redisRepo.NewHotPostCache(client)
	searchIndex := esRepo.NewSearchIndex(esClient)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Build service Layer
	searchSvc := search.NewService(searchIndex, store, searchBackoffBase)
	go searchSvc.Bootstrap(ctx, searchMaxRetries)

	search_syncer := workers.NewSyncSearchWorker(searchIndex, searchSvc)
	go search_syncer.Start(ctx)

	postSvc := post.NewService(store, search_syncer)
	hotSvc := hot.NewService(store, hotCache)

	hot_refresher := workers.NewHotRefreshWorker(hotSvc, hotRefreshIntervalH*time.Hour)
	go hot_refresher.Start(ctx)

	postHandler := rest.NewPostHandler(postSvc, hotSvc)
	searchHandler := rest.NewSearchHandler(searchSvc)

	jwtSecret := os.Getenv("JWT_SECRET")
	authMiddleware := middleware.AuthMiddleware(jwtSecret)

	// Register routes
	route.GET("/posts", postHandler.FetchPosts)
	route.GET("/posts/hot", postHandler.FetchHot)
	route.GET("/posts/:id", postHandler.GetByID)

	route.GET("/search/posts", searchHandler.SearchPosts)
	route.GET("/search/users", searchHandler.SearchUsers)

	authorized := route.Group("/")
	authorized.Use(authMiddleware)
	{
		authorized.POST("/posts", postHandler.Store)
		authorized.PUT("/posts/:id", postHandler.Update)
		authorized.DELETE("/posts/:id", postHandler.Delete)
		authorized.POST("/posts/:id/like", postHandler.Like)
		authorized.DELETE("/posts/:id/like", postHandler.Unlike)
		authorized.POST("/posts/:id/comments", postHandler.CreateComment)
	}

	// Start Server
	address := os.Getenv("SERVER_ADDRESS")
	if address == "" {
		address = defaultAddress
	}
	srv := &http.Server{
		Addr:    address,
		Handler: route,
	}
	go func() {
		log.Printf("Server is running on %s\n", address)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err) // nolint
		}
	}()

	// shutdown
	<-ctx.Done()
	log.Println("Shutdown signal received, stopping server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal("Server forced to shutdown: ", err)
	}

	log.Println("Waiting for worker to cleanup...")
	time.Sleep(2 * time.Second)

	log.Println("Server exiting")
}

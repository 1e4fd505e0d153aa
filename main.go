package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"newswire/cache"
	"newswire/config"
	"newswire/models"
	"newswire/providers"
	"newswire/providers/guardian"
	"newswire/providers/newsapi"
	"newswire/providers/nytimes"
	"newswire/services"
	"newswire/storage"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var scrapedArticlesCounter prometheus.Counter

func init() {
	scrapedArticlesCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "scraped_articles_total",
			Help: "Total number of articles scraped from all news providers.",
		},
	)
	prometheus.MustRegister(scrapedArticlesCounter)
}

// tokenAuthMiddleware prüft das Bearer-Token gegen die user_tokens-Tabelle
// und hinterlegt den authentifizierten Benutzer im Kontext.
func tokenAuthMiddleware(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token := strings.TrimPrefix(header, "Bearer ")
		if token == "" || token == header {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthenticated"})
			return
		}

		var userToken models.UserToken
		if err := db.Preload("User").Where("token = ?", token).First(&userToken).Error; err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthenticated"})
			return
		}

		c.Set("authUser", userToken.User)
		c.Set("authToken", token)
		c.Next()
	}
}

// currentUser holt den authentifizierten Benutzer aus dem Gin-Kontext.
func currentUser(c *gin.Context) *models.User {
	user, _ := c.MustGet("authUser").(*models.User)
	return user
}

func main() {
	logging, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("can't initialize zap logger: %v", err)
	}
	defer logging.Sync()

	cfg, err := config.Load()
	if err != nil {
		logging.Fatal("Config load error", zap.Error(err))
	}

	// Setup Database Connection
	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		logging.Fatal("Failed to connect to database", zap.Error(err))
	}
	logging.Info("Successfully connected to articles database.")

	logging.Info("Running database auto-migration...")
	db.AutoMigrate(&models.Source{}, &models.Category{}, &models.Article{},
		&models.User{}, &models.UserToken{}, &models.UserPreference{})

	// Setup Cache
	redisCache, err := cache.NewRedisCache(cfg, logging)
	if err != nil {
		logging.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	logging.Info("Successfully connected to Redis cache.")

	// Setup Providers
	store := storage.NewStore(db)
	enabledProviders := buildProviders(cfg, store, logging)
	if len(enabledProviders) == 0 {
		logging.Fatal("No valid providers enabled. Check ENABLED_PROVIDERS in .env")
	}

	// Setup Services
	ingestService := services.NewIngestService(cfg, logging, enabledProviders, redisCache, newReportClient(cfg, logging))
	articleService := services.NewArticleService(db, redisCache, logging)
	preferenceService := services.NewPreferenceService(db, redisCache, logging)

	// Setup Router
	router := gin.Default()
	router.Use(gin.Recovery())
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Setup Routes
	setupAuthRoutes(router, db, logging)
	protected := router.Group("/", tokenAuthMiddleware(db))
	setupArticleRoutes(protected, articleService, logging)
	setupPreferenceRoutes(protected, articleService, preferenceService, logging)
	setupScrapeRoutes(protected, ingestService)

	// Setup Cron
	cronScheduler := cron.New()
	cronScheduler.AddFunc(cfg.CronSchedule, func() {
		logging.Info("Running scheduled scrape job...")
		report, err := ingestService.RunJob(context.Background())
		if err != nil {
			logging.Error("Scheduled scrape job failed", zap.Error(err))
			return
		}
		scrapedArticlesCounter.Add(float64(report.Total))
	})
	cronScheduler.Start()

	logging.Info("Starting server", zap.String("port", cfg.HTTPPort))
	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadTimeout:       30 * time.Second,
		ReadHeaderTimeout: 15 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	if err := srv.ListenAndServe(); err != nil {
		logging.Fatal("Failed to run server", zap.Error(err))
	}
}

// newReportClient baut den S3-Client für das Run-Report-Archiv; nil, wenn
// kein Bucket konfiguriert ist.
func newReportClient(cfg *config.Config, logging *zap.Logger) *s3.Client {
	if cfg.ReportS3Bucket == "" {
		return nil
	}
	client, err := storage.NewS3Client(cfg)
	if err != nil {
		logging.Warn("S3 client creation failed, run reports disabled", zap.Error(err))
		return nil
	}
	return client
}

// buildProviders baut die Provider-Liste in der Reihenfolge aus
// ENABLED_PROVIDERS. Die Reihenfolge ist deterministisch für Logs und Tests.
func buildProviders(cfg *config.Config, store providers.ArticleStore, logging *zap.Logger) []providers.Provider {
	var enabled []providers.Provider
	names := strings.Split(cfg.EnabledProviders, ",")
	for _, name := range names {
		switch strings.TrimSpace(name) {
		case "newsapi":
			enabled = append(enabled, newsapi.NewFetcher(cfg, store, logging))
		case "guardian":
			enabled = append(enabled, guardian.NewFetcher(cfg, store, logging))
		case "nytimes":
			enabled = append(enabled, nytimes.NewFetcher(cfg, store, logging))
		default:
			logging.Warn("Unknown provider in config", zap.String("provider_name", name))
		}
	}
	logging.Info("Active providers loaded", zap.Strings("providers", names))
	return enabled
}

func setupAuthRoutes(router *gin.Engine, db *gorm.DB, log *zap.Logger) {
	router.POST("/register", func(c *gin.Context) {
		var req struct {
			Name     string `json:"name" binding:"required"`
			Email    string `json:"email" binding:"required,email"`
			Password string `json:"password" binding:"required,min=8"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Invalid registration data"})
			return
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to register user"})
			return
		}

		user := models.User{Name: req.Name, Email: req.Email, PasswordHash: string(hash)}
		if err := db.Create(&user).Error; err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Email is already taken"})
			return
		}

		token := models.UserToken{UserID: user.ID, Token: uuid.NewString()}
		if err := db.Create(&token).Error; err != nil {
			log.Error("Failed to issue token on register", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to register user"})
			return
		}

		c.JSON(http.StatusCreated, gin.H{"user": user, "token": token.Token})
	})

	router.POST("/login", func(c *gin.Context) {
		var req struct {
			Email    string `json:"email" binding:"required,email"`
			Password string `json:"password" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Invalid credentials"})
			return
		}

		var user models.User
		if err := db.Where("email = ?", req.Email).First(&user).Error; err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
			return
		}
		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
			return
		}

		token := models.UserToken{UserID: user.ID, Token: uuid.NewString()}
		if err := db.Create(&token).Error; err != nil {
			log.Error("Failed to issue token on login", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to log in"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"user": user, "token": token.Token})
	})

	authed := router.Group("/", tokenAuthMiddleware(db))
	authed.POST("/logout", func(c *gin.Context) {
		token := c.MustGet("authToken").(string)
		db.Where("token = ?", token).Delete(&models.UserToken{})
		c.JSON(http.StatusOK, gin.H{"message": "Logged out."})
	})
	authed.GET("/user", func(c *gin.Context) {
		c.JSON(http.StatusOK, currentUser(c))
	})
}

func setupArticleRoutes(rg *gin.RouterGroup, articles *services.ArticleService, log *zap.Logger) {
	// Suche und Filterung über den vollständigen Parametersatz; die Seite
	// wird unter dem Hash genau dieses Parametersatzes gecacht.
	rg.GET("/articles", func(c *gin.Context) {
		var filter services.SearchFilter
		if err := c.ShouldBindQuery(&filter); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters"})
			return
		}

		page, err := articles.Search(c.Request.Context(), filter)
		if err != nil {
			log.Error("Article search failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
			return
		}
		c.JSON(http.StatusOK, page)
	})
}

func setupPreferenceRoutes(rg *gin.RouterGroup, articles *services.ArticleService, prefs *services.PreferenceService, log *zap.Logger) {
	rg.GET("/preferences", func(c *gin.Context) {
		user := currentUser(c)
		pref, err := prefs.Get(c.Request.Context(), user.ID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusOK, gin.H{
					"message": "No preferences set for this user.",
					"preferences": gin.H{
						"preferred_sources":    []uint{},
						"preferred_categories": []uint{},
						"preferred_authors":    []string{},
					},
				})
				return
			}
			log.Error("Failed to load preferences", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
			return
		}
		c.JSON(http.StatusOK, pref)
	})

	rg.POST("/preferences", func(c *gin.Context) {
		var input services.PreferenceInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Invalid request body"})
			return
		}

		user := currentUser(c)
		pref, err := prefs.Save(c.Request.Context(), user.ID, input)
		if err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"message":     "Preferences saved successfully.",
			"preferences": pref,
		})
	})

	rg.GET("/feed", func(c *gin.Context) {
		var filter services.SearchFilter
		if err := c.ShouldBindQuery(&filter); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters"})
			return
		}

		user := currentUser(c)
		page, personalized, err := articles.Feed(c.Request.Context(), user.ID, filter)
		if err != nil {
			log.Error("Feed query failed", zap.Uint("user_id", user.ID), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
			return
		}
		if !personalized {
			c.JSON(http.StatusOK, gin.H{
				"message":  "No preferences set, returning general feed.",
				"articles": page,
			})
			return
		}
		c.JSON(http.StatusOK, page)
	})

	rg.GET("/sources", func(c *gin.Context) {
		sources, err := articles.Sources(c.Request.Context())
		if err != nil {
			log.Error("Failed to load sources", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
			return
		}
		c.JSON(http.StatusOK, sources)
	})

	rg.GET("/categories", func(c *gin.Context) {
		categories, err := articles.Categories(c.Request.Context())
		if err != nil {
			log.Error("Failed to load categories", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
			return
		}
		c.JSON(http.StatusOK, categories)
	})

	rg.GET("/authors", func(c *gin.Context) {
		authors, err := articles.Authors(c.Request.Context())
		if err != nil {
			log.Error("Failed to load authors", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
			return
		}
		c.JSON(http.StatusOK, authors)
	})
}

func setupScrapeRoutes(rg *gin.RouterGroup, ingest *services.IngestService) {
	rg.POST("/scrape", func(c *gin.Context) {
		go func() {
			report, err := ingest.RunJob(context.Background())
			if err != nil {
				ingest.Logger.Error("Async scrape job failed", zap.Error(err))
				return
			}
			scrapedArticlesCounter.Add(float64(report.Total))
		}()
		c.JSON(http.StatusAccepted, gin.H{"message": "News scraping triggered."})
	})
}

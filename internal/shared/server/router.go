package server

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"

	"recruiting-backend/internal/analyses"
	"recruiting-backend/internal/assessments"
	"recruiting-backend/internal/bigfive"
	"recruiting-backend/internal/documents"
	"recruiting-backend/internal/jobs"
	"recruiting-backend/internal/llm"
	"recruiting-backend/internal/llm/openai"
	"recruiting-backend/internal/services/health"
	"recruiting-backend/internal/shared/config"
	"recruiting-backend/internal/shared/metrics"
	"recruiting-backend/internal/shared/server/middleware"
	"recruiting-backend/internal/shared/server/respond"
	"recruiting-backend/internal/shared/storage/db"
	"recruiting-backend/internal/shared/storage/object"
	localstore "recruiting-backend/internal/shared/storage/object/local"
	s3store "recruiting-backend/internal/shared/storage/object/s3"
)

// NewRouter constructs the Gin engine with middleware and routes registered.
// It fails when the question pool or position catalogue cannot be loaded;
// everything else degrades (memory repos without a database, placeholder LLM
// without credentials).
func NewRouter(cfg config.Config) (*gin.Engine, error) {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(cfg.CORSAllowOrigin),
		middleware.Session(),
		middleware.RateLimit(rateLimitConfig()),
	)

	// Static catalogues
	questions, err := bigfive.LoadQuestions(cfg.QuestionsPath)
	if err != nil {
		return nil, fmt.Errorf("load questions: %w", err)
	}
	catalog, err := jobs.Load(cfg.JobRequirementsPath)
	if err != nil {
		return nil, fmt.Errorf("load job requirements: %w", err)
	}
	defaultPositionID := cfg.DefaultPositionID
	if defaultPositionID == "" {
		if positions := catalog.List(); len(positions) > 0 {
			defaultPositionID = positions[0].ID
		}
	}

	// Storage
	store := newObjectStore(cfg)
	var sqlDB *sql.DB
	if cfg.DatabaseURL != "" {
		dbConn, err := db.Connect(context.Background(), cfg.DatabaseURL, db.OptionsFromEnv(db.DefaultServerOptions()))
		if err != nil {
			log.Printf("failed to connect database, falling back to memory: %v", err)
		} else {
			if err := db.RunMigrations(context.Background(), dbConn); err != nil {
				log.Printf("failed to run migrations, falling back to memory: %v", err)
				dbConn = nil
			}
		}
		sqlDB = dbConn
	}

	var docRepo documents.DocumentsRepo
	var analysisRepo analyses.Repo
	var assessmentRepo assessments.Repo
	if sqlDB != nil {
		docRepo = &documents.PGRepo{DB: sqlDB}
		analysisRepo = &analyses.PGRepo{DB: sqlDB}
		assessmentRepo = &assessments.PGRepo{DB: sqlDB}
	} else {
		docRepo = documents.NewMemoryRepo()
		analysisRepo = analyses.NewMemoryRepo()
		assessmentRepo = assessments.NewMemoryRepo()
	}

	// Services
	docSvc := &documents.Service{Store: store, Repo: docRepo}
	assessmentSvc := &assessments.Service{
		Repo:              assessmentRepo,
		Questions:         questions,
		Catalog:           catalog,
		DefaultPositionID: defaultPositionID,
	}
	analysisSvc := &analyses.Service{
		Repo:              analysisRepo,
		DocRepo:           docRepo,
		Store:             store,
		LLM:               newLLMClient(cfg),
		Catalog:           catalog,
		Fit:               assessmentSvc,
		Provider:          cfg.LLMProvider,
		Model:             cfg.LLMModel,
		DefaultPositionID: defaultPositionID,
		CVWeight:          cfg.CVWeight,
		PersonalityWeight: cfg.PersonalityWeight,
	}

	healthSvc := health.NewService()

	api := r.Group("/api/v1")
	api.GET("/health", func(c *gin.Context) {
		respond.JSON(c, http.StatusOK, healthSvc.Status())
	})
	api.GET("/positions", func(c *gin.Context) {
		respond.JSON(c, http.StatusOK, catalog.List())
	})
	documents.NewHandler(docSvc).RegisterRoutes(api)
	analyses.NewHandler(analysisSvc).RegisterRoutes(api)
	assessments.NewHandler(assessmentSvc).RegisterRoutes(api)
	if cfg.Env == "dev" {
		r.GET("/metrics", metrics.Handler())
	}

	return r, nil
}

func newObjectStore(cfg config.Config) object.ObjectStore {
	if cfg.ObjectStoreType == "s3" {
		store, err := s3store.New(context.Background(), cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix, cfg.SSEKMSKeyID)
		if err != nil {
			log.Printf("failed to init s3 store, falling back to local: %v", err)
		} else {
			return store
		}
	}
	return localstore.New(cfg.LocalStoreDir)
}

func newLLMClient(cfg config.Config) llm.Client {
	client, err := openai.NewClient(os.Getenv("OPENAI_API_KEY"), cfg.LLMModel)
	if err != nil {
		log.Printf("llm client unavailable, analyses will fail until configured: %v", err)
		return llm.PlaceholderClient{}
	}
	return client
}

// rateLimitConfig keeps analysis polling permissive while bounding everything
// else per session.
func rateLimitConfig() middleware.RateLimitConfig {
	return middleware.RateLimitConfig{
		DefaultGroup: "DEFAULT",
		GroupFor: func(c *gin.Context) string {
			if c.Request.Method == http.MethodGet && c.FullPath() == "/api/v1/analyses/:id" {
				return "POLLING"
			}
			return "DEFAULT"
		},
		Rules: map[string]middleware.RateLimitRule{
			"DEFAULT": {Rate: 5, Burst: 20},
			"POLLING": {Rate: 10, Burst: 30},
		},
	}
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}

package api

import (
	"github.com/gin-gonic/gin"
	"github.com/shopvine/shopvine/internal/api/handler"
	"github.com/shopvine/shopvine/internal/api/middleware"
	"github.com/shopvine/shopvine/internal/config"
	"github.com/shopvine/shopvine/internal/repository"
	"github.com/shopvine/shopvine/internal/service"
)

// RouterDeps holds the dependencies the router wires into handlers.
type RouterDeps struct {
	Config     *config.Config
	Workspaces *repository.WorkspaceRepository
	Posts      *repository.PostRepository
	Rights     *repository.RightsRequestRepository
	Logs       *repository.ImportLogRepository
	Imports    *service.ImportService
}

// NewRouter creates the Gin engine with all routes and middleware configured.
// Parameters:
//   - deps: wired repositories and services.
// Returns:
//   - *gin.Engine: configured router.
func NewRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(deps.Config.Server.Mode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.Logger())
	r.Use(middleware.CORS(middleware.CORSConfig{
		AllowedOrigins:  deps.Config.Server.CORS.AllowedOrigins,
		AllowAllOrigins: deps.Config.Server.CORS.AllowAllOrigins,
	}))

	healthHandler := handler.NewHealthHandler()
	importHandler := handler.NewImportHandler(deps.Imports, deps.Config.Import.MaxBatchRows)
	importLogHandler := handler.NewImportLogHandler(deps.Logs)
	postHandler := handler.NewPostHandler(deps.Posts)
	rightsHandler := handler.NewRightsHandler(deps.Rights)

	r.GET("/health", healthHandler.Health)

	v1 := r.Group("/api/v1")
	v1.Use(middleware.APIKeyAuth(deps.Workspaces))

	// writes require an editor or owner key; reads need any valid key
	writes := v1.Group("")
	writes.Use(middleware.RequireWriter())
	if deps.Config.RateLimit.Enabled {
		limiter := middleware.NewRateLimiter(deps.Config.RateLimit.RPS, deps.Config.RateLimit.Burst)
		writes.Use(limiter.Middleware())
	}
	writes.POST("/imports", importHandler.CreateImport)
	writes.POST("/imports/batch", importHandler.CreateBatch)
	writes.POST("/imports/csv", importHandler.CreateCSV)
	writes.PATCH("/rights-requests/:id", rightsHandler.UpdateStatus)

	v1.GET("/imports", importLogHandler.ListRuns)
	v1.GET("/imports/:id", importLogHandler.GetRun)
	v1.GET("/posts", postHandler.List)
	v1.GET("/posts/:id", postHandler.Get)
	v1.GET("/rights-requests", rightsHandler.List)
	v1.GET("/rights-requests/:id", rightsHandler.Get)

	return r
}

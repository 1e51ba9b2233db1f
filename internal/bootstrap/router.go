package bootstrap

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	httpapi "github.com/takdev/portfolio-backend/internal/api/http"
	"github.com/takdev/portfolio-backend/internal/api/http/middleware"
	"github.com/takdev/portfolio-backend/internal/auth"
	projectshttp "github.com/takdev/portfolio-backend/internal/projects/http"
	"github.com/takdev/portfolio-backend/internal/projects/repository"
	"github.com/takdev/portfolio-backend/internal/visitors"
)

type RouterDeps struct {
	ServiceName string
	Version     string
	Repo        *repository.Repository
	Recorder    *visitors.Recorder
	Authorizer  auth.Authorizer
}

func BuildRouter(dep RouterDeps) *gin.Engine {
	r := gin.Default()

	// the site is served from a different origin than the API; the admin
	// header must be allowed through preflight
	corsCfg := cors.DefaultConfig()
	corsCfg.AllowAllOrigins = true
	corsCfg.AllowHeaders = append(corsCfg.AllowHeaders, "X-Admin-Auth", "Authorization", "X-Request-Id")
	r.Use(cors.New(corsCfg))

	healthHandler := httpapi.NewHealthHandler(dep.ServiceName, dep.Version, dep.Repo)
	healthHandler.RegisterRoutes(r)

	api := r.Group("/api")
	api.Use(middleware.RequestIDMiddleware())

	projectsHandler := projectshttp.New(dep.Repo)
	projectsHandler.Register(api.Group("/projects"), dep.Authorizer)

	if dep.Recorder != nil {
		visitorsHandler := visitors.NewHandler(dep.Recorder)
		visitorsHandler.Register(api.Group("/visitors"), dep.Authorizer)
	}

	return r
}

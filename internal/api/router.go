package api

import (
	"net/http"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/nekogravitycat/escape-room-backend/internal/auth"
	"github.com/nekogravitycat/escape-room-backend/internal/booking"
	bookingHttp "github.com/nekogravitycat/escape-room-backend/internal/booking/http"
	"github.com/nekogravitycat/escape-room-backend/internal/organization"
	orgHttp "github.com/nekogravitycat/escape-room-backend/internal/organization/http"
	"github.com/nekogravitycat/escape-room-backend/internal/photo"
	photoHttp "github.com/nekogravitycat/escape-room-backend/internal/photo/http"
	"github.com/nekogravitycat/escape-room-backend/internal/room"
	roomHttp "github.com/nekogravitycat/escape-room-backend/internal/room/http"
	"github.com/nekogravitycat/escape-room-backend/internal/user"
	userHttp "github.com/nekogravitycat/escape-room-backend/internal/user/http"
)

// Config carries everything the router needs to assemble the HTTP surface.
type Config struct {
	IsProduction bool
	// ProdOrigins is a comma-separated allowlist for CORS in production.
	// Development allows all origins.
	ProdOrigins string

	UserService    user.Service
	OrgService     organization.Service
	RoomService    room.Service
	BookingService booking.Service
	PhotoService   photo.Service
	JWTManager     *auth.JWTManager
	Logger         zerolog.Logger
}

// NewRouter assembles middleware and registers every module's routes under
// /api/v1.
func NewRouter(cfg Config) *gin.Engine {
	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(RequestLogger(cfg.Logger), gin.Recovery())
	r.Use(cors.New(corsConfig(cfg)))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	authMiddleware := auth.Required(cfg.JWTManager)

	userHandler := userHttp.NewHandler(cfg.UserService, cfg.JWTManager)
	orgHandler := orgHttp.NewHandler(cfg.OrgService)
	roomHandler := roomHttp.NewHandler(cfg.RoomService)
	bookingHandler := bookingHttp.NewHandler(cfg.BookingService)
	photoHandler := photoHttp.NewHandler(cfg.PhotoService)

	v1 := r.Group("/api/v1")
	{
		userHttp.RegisterRoutes(v1, userHandler, authMiddleware)
		orgHttp.RegisterRoutes(v1, orgHandler, authMiddleware)
		roomHttp.RegisterRoutes(v1, roomHandler, authMiddleware)
		bookingHttp.RegisterRoutes(v1, bookingHandler, authMiddleware)
		photoHttp.RegisterRoutes(v1, photoHandler, authMiddleware)
	}

	return r
}

func corsConfig(cfg Config) cors.Config {
	c := cors.DefaultConfig()
	c.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	c.AllowHeaders = []string{"Origin", "Content-Type", "Authorization"}

	if cfg.IsProduction && cfg.ProdOrigins != "" {
		c.AllowOrigins = strings.Split(cfg.ProdOrigins, ",")
	} else {
		c.AllowAllOrigins = true
	}
	return c
}

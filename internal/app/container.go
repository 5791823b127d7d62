package app

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/nekogravitycat/escape-room-backend/internal/api"
	"github.com/nekogravitycat/escape-room-backend/internal/auth"
	"github.com/nekogravitycat/escape-room-backend/internal/booking"
	"github.com/nekogravitycat/escape-room-backend/internal/organization"
	"github.com/nekogravitycat/escape-room-backend/internal/payment"
	"github.com/nekogravitycat/escape-room-backend/internal/photo"
	"github.com/nekogravitycat/escape-room-backend/internal/pkg/clock"
	"github.com/nekogravitycat/escape-room-backend/internal/pkg/storage"
	"github.com/nekogravitycat/escape-room-backend/internal/room"
	"github.com/nekogravitycat/escape-room-backend/internal/user"
)

// Config holds the dependencies and settings required to start the
// application. Clock and Gateway are optional; tests inject fakes, production
// gets the defaults.
type Config struct {
	IsProduction bool
	ProdOrigins  string
	DBPool       *pgxpool.Pool
	JWTSecret    string
	JWTTTL       time.Duration
	BcryptCost   int
	StorageDir   string
	Logger       zerolog.Logger
	Clock        clock.Clock
	Gateway      payment.Gateway
}

// Container holds the initialized components that are needed externally.
type Container struct {
	Router     *gin.Engine
	JWTManager *auth.JWTManager
}

// NewContainer wires repositories, services and the router.
func NewContainer(cfg Config) (*Container, error) {
	if cfg.Clock == nil {
		cfg.Clock = clock.System{}
	}
	if cfg.Gateway == nil {
		cfg.Gateway = payment.NewStripeGateway(cfg.Logger)
	}

	passwordHasher := auth.NewBcryptHasher(cfg.BcryptCost)
	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTTTL)

	store, err := storage.NewLocal(cfg.StorageDir)
	if err != nil {
		return nil, fmt.Errorf("init photo storage failed: %w", err)
	}

	userRepo := user.NewPgxRepository(cfg.DBPool)
	userService := user.NewService(userRepo, passwordHasher)

	orgRepo := organization.NewPgxRepository(cfg.DBPool)
	orgService := organization.NewService(orgRepo, userService)

	roomRepo := room.NewPgxRepository(cfg.DBPool)
	roomService := room.NewService(roomRepo, orgService)

	bookingRepo := booking.NewPgxRepository(cfg.DBPool)
	bookingService := booking.NewService(bookingRepo, roomService, orgService, cfg.Gateway, cfg.Clock, cfg.Logger)

	photoRepo := photo.NewPgxRepository(cfg.DBPool)
	photoService := photo.NewService(photoRepo, store, roomService, orgService, cfg.Clock, cfg.Logger)

	router := api.NewRouter(api.Config{
		IsProduction:   cfg.IsProduction,
		ProdOrigins:    cfg.ProdOrigins,
		UserService:    userService,
		OrgService:     orgService,
		RoomService:    roomService,
		BookingService: bookingService,
		PhotoService:   photoService,
		JWTManager:     jwtManager,
		Logger:         cfg.Logger,
	})

	return &Container{
		Router:     router,
		JWTManager: jwtManager,
	}, nil
}

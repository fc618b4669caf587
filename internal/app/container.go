package app

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"

	"github.com/nekogravitycat/resource-booking-backend/internal/api"
	"github.com/nekogravitycat/resource-booking-backend/internal/clock"
	"github.com/nekogravitycat/resource-booking-backend/internal/reservation"
	"github.com/nekogravitycat/resource-booking-backend/internal/resource"
)

// Config holds the dependencies and settings required to start the application.
type Config struct {
	IsProduction bool
	ProdOrigins  string
	// DBPool selects the Postgres repository. When nil, reservations are kept in memory.
	DBPool    *pgxpool.Pool
	Resources []string
	Clock     clock.Clock
	Location  *time.Location
	Logger    *logrus.Logger
}

// Container holds the initialized components that are needed externally.
type Container struct {
	Router *gin.Engine
}

// NewContainer initializes all modules and returns the container.
func NewContainer(cfg Config) (*Container, error) {
	if cfg.Clock == nil {
		cfg.Clock = clock.System()
	}
	if cfg.Location == nil {
		cfg.Location = time.Local
	}
	if cfg.Logger == nil {
		cfg.Logger = logrus.StandardLogger()
	}
	if len(cfg.Resources) == 0 {
		cfg.Resources = resource.DefaultNames
	}

	// Resource Module
	resRepo, err := resource.NewStaticRepository(cfg.Resources)
	if err != nil {
		return nil, err
	}
	resService := resource.NewService(resRepo)

	// Reservation Module
	var reservationRepo reservation.Repository
	if cfg.DBPool != nil {
		reservationRepo = reservation.NewPgxRepository(cfg.DBPool)
	} else {
		reservationRepo = reservation.NewMemoryRepository()
	}
	reservationService := reservation.NewService(reservationRepo, resService, cfg.Logger)

	// Router
	router := api.NewRouter(api.Config{
		IsProduction:       cfg.IsProduction,
		ProdOrigins:        cfg.ProdOrigins,
		ResService:         resService,
		ReservationService: reservationService,
		Clock:              cfg.Clock,
		Location:           cfg.Location,
		Logger:             cfg.Logger,
	})

	return &Container{
		Router: router,
	}, nil
}

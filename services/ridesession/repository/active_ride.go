package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/piresc/ridetracker/internal/pkg/constants"
	"github.com/piresc/ridetracker/internal/pkg/database"
	"github.com/piresc/ridetracker/internal/pkg/logger"
	"github.com/piresc/ridetracker/internal/pkg/models"
	nrpkg "github.com/piresc/ridetracker/internal/pkg/newrelic"
	"github.com/piresc/ridetracker/services/ridesession"
)

// DefaultActiveRideTTL bounds how long a forgotten pointer survives
const DefaultActiveRideTTL = 24 * time.Hour

// clearScript deletes the pointer only while it still names the given ride
var clearScript = redis.NewScript(`
if redis.call("HGET", KEYS[1], ARGV[1]) == ARGV[2] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

type activeRideRepo struct {
	redisClient *database.RedisClient
	key         string
	ttl         time.Duration
}

// NewActiveRideRepository stores the active ride pointer in a Redis hash
// keyed by the local user
func NewActiveRideRepository(cfg *models.Config, redisClient *database.RedisClient) ridesession.ActiveRideRepo {
	ttl := cfg.Redis.KeyTTL
	if ttl <= 0 {
		ttl = DefaultActiveRideTTL
	}
	return &activeRideRepo{
		redisClient: redisClient,
		key:         fmt.Sprintf(constants.KeyActiveRide, cfg.App.UserID),
		ttl:         ttl,
	}
}

func (r *activeRideRepo) Save(ctx context.Context, ride models.ActiveRide) error {
	err := nrpkg.WithSegment(ctx, "Redis/SaveActiveRide", func() error {
		return r.redisClient.HSetWithTTL(ctx, r.key, r.ttl,
			constants.FieldRideID, ride.RideID,
			constants.FieldRole, string(ride.Role),
			constants.FieldStatus, string(ride.Status),
			constants.FieldUpdatedAt, models.FormatTimestamp(ride.UpdatedAt),
		)
	})
	if err != nil {
		return fmt.Errorf("failed to save active ride: %w", err)
	}
	return nil
}

func (r *activeRideRepo) Get(ctx context.Context) (*models.ActiveRide, error) {
	var fields map[string]string
	err := nrpkg.WithSegment(ctx, "Redis/GetActiveRide", func() error {
		var err error
		fields, err = r.redisClient.HGetAll(ctx, r.key)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get active ride: %w", err)
	}
	if fields[constants.FieldRideID] == "" {
		return nil, models.ErrNoActiveRide
	}

	ride := &models.ActiveRide{
		RideID: fields[constants.FieldRideID],
		Role:   models.Role(fields[constants.FieldRole]),
		Status: models.RideStatus(fields[constants.FieldStatus]),
	}
	if raw := fields[constants.FieldUpdatedAt]; raw != "" {
		updatedAt, err := models.ParseTimestamp(raw)
		if err != nil {
			logger.Warn("Invalid active ride timestamp", logger.RideID(ride.RideID), logger.Err(err))
		}
		ride.UpdatedAt = updatedAt
	}
	return ride, nil
}

func (r *activeRideRepo) Clear(ctx context.Context, rideID string) error {
	err := nrpkg.WithSegment(ctx, "Redis/ClearActiveRide", func() error {
		err := clearScript.Run(ctx, r.redisClient.Client, []string{r.key}, constants.FieldRideID, rideID).Err()
		if err == redis.Nil {
			return nil
		}
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to clear active ride: %w", err)
	}
	return nil
}

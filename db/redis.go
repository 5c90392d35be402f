// db/redis.go
package db

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	logger "github.com/gatewise/gatewise/logging"
	"github.com/gatewise/gatewise/model"
)

var RedisClient *redis.Client

func InitRedis() error {
	RedisClient = redis.NewClient(&redis.Options{
		Addr:         viper.GetString("redis.addr"),
		Password:     viper.GetString("redis.password"),
		DB:           viper.GetInt("redis.db"),
		DialTimeout:  viper.GetDuration("redis.dialTimeout"),
		ReadTimeout:  viper.GetDuration("redis.readTimeout"),
		WriteTimeout: viper.GetDuration("redis.writeTimeout"),
		PoolSize:     viper.GetInt("redis.poolSize"),
		PoolTimeout:  viper.GetDuration("redis.poolTimeout"),
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := RedisClient.Ping(ctx).Result()
	if err != nil {
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}

	logger.Info("Successfully connected to Redis")
	return nil
}

func CloseRedis() {
	if RedisClient != nil {
		if err := RedisClient.Close(); err != nil {
			logger.Error("Error closing Redis connection", zap.Error(err))
		}
	}
}

func cacheSet(ctx context.Context, key string, value interface{}) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", key, err)
	}

	defaultTTL := viper.GetDuration("redis.defaultCacheTTL")
	if err := RedisClient.Set(ctx, key, payload, defaultTTL).Err(); err != nil {
		return fmt.Errorf("failed to cache %s: %w", key, err)
	}

	logger.Debug("Cached value", zap.String("key", key))
	return nil
}

func cacheGet(ctx context.Context, key string, out interface{}) (bool, error) {
	payload, err := RedisClient.Get(ctx, key).Result()
	if err == redis.Nil {
		logger.Debug("Cache miss", zap.String("key", key))
		return false, nil
	} else if err != nil {
		return false, fmt.Errorf("failed to read %s from cache: %w", key, err)
	}

	if err := json.Unmarshal([]byte(payload), out); err != nil {
		return false, fmt.Errorf("failed to unmarshal %s: %w", key, err)
	}

	return true, nil
}

func cacheDelete(ctx context.Context, key string) error {
	if err := RedisClient.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("failed to delete %s from cache: %w", key, err)
	}
	logger.Debug("Cache entry deleted", zap.String("key", key))
	return nil
}

func CachePerson(ctx context.Context, person *model.Person) error {
	return cacheSet(ctx, fmt.Sprintf("person:%s:%s", person.TenantID, person.ID), person)
}

func GetCachedPerson(ctx context.Context, tenantID, personID string) (*model.Person, error) {
	var person model.Person
	found, err := cacheGet(ctx, fmt.Sprintf("person:%s:%s", tenantID, personID), &person)
	if err != nil || !found {
		return nil, err
	}
	return &person, nil
}

func CacheEquipment(ctx context.Context, eq *model.Equipment) error {
	return cacheSet(ctx, fmt.Sprintf("equipment:%s:%s", eq.TenantID, eq.ID), eq)
}

func GetCachedEquipment(ctx context.Context, tenantID, equipmentID string) (*model.Equipment, error) {
	var eq model.Equipment
	found, err := cacheGet(ctx, fmt.Sprintf("equipment:%s:%s", tenantID, equipmentID), &eq)
	if err != nil || !found {
		return nil, err
	}
	return &eq, nil
}

func DeleteCachedEquipment(ctx context.Context, tenantID, equipmentID string) error {
	return cacheDelete(ctx, fmt.Sprintf("equipment:%s:%s", tenantID, equipmentID))
}

func CacheAccessPoint(ctx context.Context, point *model.AccessPoint) error {
	return cacheSet(ctx, fmt.Sprintf("accesspoint:%s:%s", point.TenantID, point.ID), point)
}

func GetCachedAccessPoint(ctx context.Context, tenantID, accessPointID string) (*model.AccessPoint, error) {
	var point model.AccessPoint
	found, err := cacheGet(ctx, fmt.Sprintf("accesspoint:%s:%s", tenantID, accessPointID), &point)
	if err != nil || !found {
		return nil, err
	}
	return &point, nil
}

func CacheLastAccessRelease(ctx context.Context, release *model.AccessRelease) error {
	return cacheSet(ctx, fmt.Sprintf("accessrelease:last:%s:%s", release.TenantID, release.PersonID), release)
}

func GetCachedLastAccessRelease(ctx context.Context, tenantID, personID string) (*model.AccessRelease, error) {
	var release model.AccessRelease
	found, err := cacheGet(ctx, fmt.Sprintf("accessrelease:last:%s:%s", tenantID, personID), &release)
	if err != nil || !found {
		return nil, err
	}
	return &release, nil
}

func DeleteCachedLastAccessRelease(ctx context.Context, tenantID, personID string) error {
	return cacheDelete(ctx, fmt.Sprintf("accessrelease:last:%s:%s", tenantID, personID))
}

func RateLimit(ctx context.Context, key string, limit int, per time.Duration) (bool, error) {
	pipe := RedisClient.Pipeline()
	now := time.Now().UnixNano()
	key = fmt.Sprintf("ratelimit:%s", key)

	pipe.ZRemRangeByScore(ctx, key, "0", fmt.Sprintf("%d", now-(per.Nanoseconds())))
	pipe.ZAdd(ctx, key, redis.Z{Score: float64(now), Member: now})
	pipe.ZCard(ctx, key)
	pipe.Expire(ctx, key, per)

	cmds, err := pipe.Exec(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to execute rate limit commands: %w", err)
	}

	count := cmds[2].(*redis.IntCmd).Val()
	allowed := count <= int64(limit)
	logger.Debug("Rate limit check",
		zap.String("key", key),
		zap.Int64("count", count),
		zap.Int("limit", limit),
		zap.Bool("allowed", allowed))
	return allowed, nil
}

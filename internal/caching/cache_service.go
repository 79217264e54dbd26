package caching

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"hostelhub/internal/models"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

type CacheService interface {
	// Room caching
	GetRoom(ctx context.Context, hostelID, roomID uuid.UUID) (*models.Room, error)
	SetRoom(ctx context.Context, hostelID uuid.UUID, room *models.Room, ttl time.Duration) error
	DeleteRoom(ctx context.Context, hostelID, roomID uuid.UUID) error

	// Weekly menu caching
	GetMenuWeek(ctx context.Context, hostelID uuid.UUID) ([]*models.Menu, error)
	SetMenuWeek(ctx context.Context, hostelID uuid.UUID, menus []*models.Menu, ttl time.Duration) error
	DeleteMenuWeek(ctx context.Context, hostelID uuid.UUID) error

	// Fee breakdown caching
	GetFeeBreakdown(ctx context.Context, hostelID uuid.UUID) ([]*models.FeeComponent, error)
	SetFeeBreakdown(ctx context.Context, hostelID uuid.UUID, components []*models.FeeComponent, ttl time.Duration) error
	DeleteFeeBreakdown(ctx context.Context, hostelID uuid.UUID) error

	// Cache invalidation
	InvalidateHostelCache(ctx context.Context, hostelID uuid.UUID) error

	// Rate limiting
	IsRateLimited(ctx context.Context, key string, limit int, window time.Duration) (bool, error)

	// Generic string operations for token management
	SetString(ctx context.Context, key string, value string, ttl time.Duration) error
	GetString(ctx context.Context, key string) (string, error)
	Delete(ctx context.Context, key string) error
}

type redisCacheService struct {
	client *redis.Client
}

func NewRedisCacheService(addr, password string, db int) CacheService {
	parsedAddr := addr
	if strings.HasPrefix(addr, "redis://") || strings.HasPrefix(addr, "rediss://") {
		if hostPort := strings.TrimPrefix(strings.TrimPrefix(addr, "redis://"), "rediss://"); hostPort != addr {
			parsedAddr = hostPort
		}
	}

	client := redis.NewClient(&redis.Options{
		Addr:     parsedAddr,
		Password: password,
		DB:       db,
	})

	if pingErr := client.Ping(context.Background()).Err(); pingErr != nil {
		log.Printf("WARN: Redis ping failed on initialization: %v (address: %s)", pingErr, parsedAddr)
	}

	return &redisCacheService{client: client}
}

func (r *redisCacheService) GetRoom(ctx context.Context, hostelID, roomID uuid.UUID) (*models.Room, error) {
	key := fmt.Sprintf("hostelhub:room:%s:%s", hostelID.String(), roomID.String())
	data, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil // cache miss
		}
		return nil, err
	}

	var room models.Room
	if err := json.Unmarshal(data, &room); err != nil {
		return nil, err
	}
	return &room, nil
}

func (r *redisCacheService) SetRoom(ctx context.Context, hostelID uuid.UUID, room *models.Room, ttl time.Duration) error {
	key := fmt.Sprintf("hostelhub:room:%s:%s", hostelID.String(), room.ID.String())
	data, err := json.Marshal(room)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, key, data, ttl).Err()
}

func (r *redisCacheService) DeleteRoom(ctx context.Context, hostelID, roomID uuid.UUID) error {
	key := fmt.Sprintf("hostelhub:room:%s:%s", hostelID.String(), roomID.String())
	return r.client.Del(ctx, key).Err()
}

func (r *redisCacheService) GetMenuWeek(ctx context.Context, hostelID uuid.UUID) ([]*models.Menu, error) {
	key := fmt.Sprintf("hostelhub:menu:%s", hostelID.String())
	data, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil // cache miss
		}
		return nil, err
	}

	var menus []*models.Menu
	if err := json.Unmarshal(data, &menus); err != nil {
		return nil, err
	}
	return menus, nil
}

func (r *redisCacheService) SetMenuWeek(ctx context.Context, hostelID uuid.UUID, menus []*models.Menu, ttl time.Duration) error {
	key := fmt.Sprintf("hostelhub:menu:%s", hostelID.String())
	data, err := json.Marshal(menus)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, key, data, ttl).Err()
}

func (r *redisCacheService) DeleteMenuWeek(ctx context.Context, hostelID uuid.UUID) error {
	key := fmt.Sprintf("hostelhub:menu:%s", hostelID.String())
	return r.client.Del(ctx, key).Err()
}

func (r *redisCacheService) GetFeeBreakdown(ctx context.Context, hostelID uuid.UUID) ([]*models.FeeComponent, error) {
	key := fmt.Sprintf("hostelhub:fees:%s", hostelID.String())
	data, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil // cache miss
		}
		return nil, err
	}

	var components []*models.FeeComponent
	if err := json.Unmarshal(data, &components); err != nil {
		return nil, err
	}
	return components, nil
}

func (r *redisCacheService) SetFeeBreakdown(ctx context.Context, hostelID uuid.UUID, components []*models.FeeComponent, ttl time.Duration) error {
	key := fmt.Sprintf("hostelhub:fees:%s", hostelID.String())
	data, err := json.Marshal(components)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, key, data, ttl).Err()
}

func (r *redisCacheService) DeleteFeeBreakdown(ctx context.Context, hostelID uuid.UUID) error {
	key := fmt.Sprintf("hostelhub:fees:%s", hostelID.String())
	return r.client.Del(ctx, key).Err()
}

func (r *redisCacheService) InvalidateHostelCache(ctx context.Context, hostelID uuid.UUID) error {
	pattern := fmt.Sprintf("hostelhub:*%s*", hostelID.String())
	keys, err := r.client.Keys(ctx, pattern).Result()
	if err != nil {
		return err
	}

	if len(keys) > 0 {
		return r.client.Del(ctx, keys...).Err()
	}
	return nil
}

func (r *redisCacheService) IsRateLimited(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	cacheKey := fmt.Sprintf("hostelhub:ratelimit:%s", key)
	count, err := r.client.Incr(ctx, cacheKey).Result()
	if err != nil {
		return true, err
	}

	// Set expiry on first request
	if count == 1 {
		r.client.Expire(ctx, cacheKey, window)
	}

	return count > int64(limit), nil
}

func (r *redisCacheService) SetString(ctx context.Context, key string, value string, ttl time.Duration) error {
	return r.client.Set(ctx, key, value, ttl).Err()
}

func (r *redisCacheService) GetString(ctx context.Context, key string) (string, error) {
	val, err := r.client.Get(ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			return "", nil // cache miss
		}
		return "", err
	}
	return val, nil
}

func (r *redisCacheService) Delete(ctx context.Context, key string) error {
	return r.client.Del(ctx, key).Err()
}

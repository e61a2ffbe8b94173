package caching

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"moldmes/internal/models"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "moldmes"

// allInventoryGenKey is bumped by InvalidateAllInventory. It lives outside the
// inventory key space so the invalidation scan never removes it.
const allInventoryGenKey = keyPrefix + ":inventory-gen:all"

// Fill is the invalidation state observed before a cache-miss read of the
// database. SetInventory only stores a row whose Fill is still current.
type Fill struct {
	Material int64
	All      int64
}

// CacheService holds the read-side inventory projection. The database stays
// the source of truth; callers treat every error here as a miss.
//
// A miss is filled in three steps: BeginFill, read the database, then
// SetInventory with the Fill from the first step. Any DeleteInventory or
// InvalidateAllInventory in between makes SetInventory a no-op, so a row read
// before a commit can never be stored after that commit's invalidation.
type CacheService interface {
	GetInventory(ctx context.Context, materialID uuid.UUID) (*models.Inventory, error)
	BeginFill(ctx context.Context, materialID uuid.UUID) (Fill, error)
	SetInventory(ctx context.Context, inventory *models.Inventory, fill Fill) (bool, error)
	DeleteInventory(ctx context.Context, materialID uuid.UUID) error
	InvalidateAllInventory(ctx context.Context) error
	Ping(ctx context.Context) error
}

type redisCacheService struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisCacheService(addr, password string, db int, ttl time.Duration) CacheService {
	// Accept redis://host:port as well as host:port
	parsedAddr := strings.TrimPrefix(strings.TrimPrefix(addr, "redis://"), "rediss://")

	client := redis.NewClient(&redis.Options{
		Addr:     parsedAddr,
		Password: password,
		DB:       db,
	})
	return &redisCacheService{client: client, ttl: ttl}
}

func inventoryKey(materialID uuid.UUID) string {
	return fmt.Sprintf("%s:inventory:%s", keyPrefix, materialID.String())
}

func inventoryGenKey(materialID uuid.UUID) string {
	return fmt.Sprintf("%s:inventory-gen:%s", keyPrefix, materialID.String())
}

// KEYS: row, material generation, global generation.
// ARGV: payload, expected material generation, expected global generation, ttl ms.
var setIfUnchanged = redis.NewScript(`
local material = redis.call('GET', KEYS[2]) or '0'
local all = redis.call('GET', KEYS[3]) or '0'
if material ~= ARGV[2] or all ~= ARGV[3] then
	return 0
end
if tonumber(ARGV[4]) > 0 then
	redis.call('SET', KEYS[1], ARGV[1], 'PX', ARGV[4])
else
	redis.call('SET', KEYS[1], ARGV[1])
end
return 1
`)

func (r *redisCacheService) GetInventory(ctx context.Context, materialID uuid.UUID) (*models.Inventory, error) {
	data, err := r.client.Get(ctx, inventoryKey(materialID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil // cache miss
		}
		return nil, err
	}

	var inventory models.Inventory
	if err := json.Unmarshal(data, &inventory); err != nil {
		return nil, err
	}
	return &inventory, nil
}

func (r *redisCacheService) BeginFill(ctx context.Context, materialID uuid.UUID) (Fill, error) {
	values, err := r.client.MGet(ctx, inventoryGenKey(materialID), allInventoryGenKey).Result()
	if err != nil {
		return Fill{}, err
	}
	material, err := parseGeneration(values[0])
	if err != nil {
		return Fill{}, err
	}
	all, err := parseGeneration(values[1])
	if err != nil {
		return Fill{}, err
	}
	return Fill{Material: material, All: all}, nil
}

func parseGeneration(v interface{}) (int64, error) {
	switch g := v.(type) {
	case nil:
		return 0, nil
	case string:
		return strconv.ParseInt(g, 10, 64)
	default:
		return 0, fmt.Errorf("unexpected generation value %T", v)
	}
}

func (r *redisCacheService) SetInventory(ctx context.Context, inventory *models.Inventory, fill Fill) (bool, error) {
	data, err := json.Marshal(inventory)
	if err != nil {
		return false, err
	}
	keys := []string{inventoryKey(inventory.MaterialID), inventoryGenKey(inventory.MaterialID), allInventoryGenKey}
	stored, err := setIfUnchanged.Run(ctx, r.client, keys,
		data,
		strconv.FormatInt(fill.Material, 10),
		strconv.FormatInt(fill.All, 10),
		r.ttl.Milliseconds(),
	).Int()
	if err != nil {
		return false, err
	}
	return stored == 1, nil
}

// DeleteInventory bumps the material generation before dropping the row, in
// one MULTI, so no fill that started earlier can land afterwards.
func (r *redisCacheService) DeleteInventory(ctx context.Context, materialID uuid.UUID) error {
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, inventoryGenKey(materialID))
		pipe.Del(ctx, inventoryKey(materialID))
		return nil
	})
	return err
}

func (r *redisCacheService) InvalidateAllInventory(ctx context.Context) error {
	if err := r.client.Incr(ctx, allInventoryGenKey).Err(); err != nil {
		return err
	}

	iter := r.client.Scan(ctx, 0, keyPrefix+":inventory:*", 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return err
	}

	if len(keys) > 0 {
		return r.client.Del(ctx, keys...).Err()
	}
	return nil
}

func (r *redisCacheService) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

type noopCacheService struct{}

// NewNoopCacheService is used when no Redis address is configured.
func NewNoopCacheService() CacheService {
	return noopCacheService{}
}

func (noopCacheService) GetInventory(context.Context, uuid.UUID) (*models.Inventory, error) {
	return nil, nil
}
func (noopCacheService) BeginFill(context.Context, uuid.UUID) (Fill, error) { return Fill{}, nil }
func (noopCacheService) SetInventory(context.Context, *models.Inventory, Fill) (bool, error) {
	return false, nil
}
func (noopCacheService) DeleteInventory(context.Context, uuid.UUID) error { return nil }
func (noopCacheService) InvalidateAllInventory(context.Context) error     { return nil }
func (noopCacheService) Ping(context.Context) error                       { return nil }

package repositories

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"sync/atomic"
	"time"

	"booking-api/config"
	"booking-api/domain"

	"github.com/bradfitz/gomemcache/memcache"
	"github.com/karlseguin/ccache/v3"
	"go.uber.org/zap"
)

const generationKey = "listings:generation"

// CacheRepository cachea páginas de búsqueda de listings en dos niveles
type CacheRepository interface {
	Get(key string) ([]domain.Listing, int, bool)
	Set(key string, listings []domain.Listing, total int)
	Delete(key string)
	// Key arma la clave incluyendo la generación actual
	Key(query string) string
	// Invalidate descarta todas las páginas cacheadas
	Invalidate()
}

// cacheData representa los datos almacenados en caché
type cacheData struct {
	Listings []domain.Listing `json:"listings"`
	Total    int              `json:"total"`
}

// cacheRepository implementa CacheRepository: ccache local + Memcached compartido
type cacheRepository struct {
	localCache      *ccache.Cache[*cacheData]
	memcachedClient *memcache.Client
	localTTL        time.Duration
	remoteTTL       time.Duration
	generation      atomic.Uint64
	log             *zap.Logger
}

// NewCacheRepository crea una nueva instancia de CacheRepository.
// Si memcachedHost está vacío solo se usa el caché local.
func NewCacheRepository(memcachedHost string, settings config.CacheSettings, log *zap.Logger) CacheRepository {
	localCache := ccache.New(ccache.Configure[*cacheData]().MaxSize(settings.MaxSize))

	var client *memcache.Client
	if memcachedHost != "" {
		client = memcache.New(memcachedHost)
		client.Timeout = 200 * time.Millisecond
		log.Info("cache repository initialized with memcached", zap.String("host", memcachedHost))
	} else {
		log.Info("cache repository initialized without memcached")
	}

	return &cacheRepository{
		localCache:      localCache,
		memcachedClient: client,
		localTTL:        settings.LocalTTL,
		remoteTTL:       settings.RemoteTTL,
		log:             log,
	}
}

// Key usa la generación de Memcached si está disponible, para que todas las
// instancias vean la misma invalidación
func (r *cacheRepository) Key(query string) string {
	return fmt.Sprintf("listings:%d:%s", r.currentGeneration(), query)
}

func (r *cacheRepository) currentGeneration() uint64 {
	local := r.generation.Load()
	if r.memcachedClient == nil {
		return local
	}

	item, err := r.memcachedClient.Get(generationKey)
	if err != nil {
		return local
	}
	remote, err := strconv.ParseUint(string(item.Value), 10, 64)
	if err != nil {
		return local
	}
	if remote > local {
		r.generation.Store(remote)
		return remote
	}
	return local
}

// Get obtiene datos del caché (primero local, luego Memcached)
func (r *cacheRepository) Get(key string) ([]domain.Listing, int, bool) {
	// 1. Buscar en caché local primero
	item := r.localCache.Get(key)
	if item != nil && !item.Expired() {
		data := item.Value()
		r.log.Debug("cache hit (local)", zap.String("key", key))
		return data.Listings, data.Total, true
	}

	if r.memcachedClient == nil {
		return nil, 0, false
	}

	// 2. Si no está en local, buscar en Memcached
	memcachedItem, err := r.memcachedClient.Get(key)
	if err != nil {
		if !errors.Is(err, memcache.ErrCacheMiss) {
			r.log.Warn("error getting from memcached", zap.String("key", key), zap.Error(err))
		}
		return nil, 0, false
	}

	// 3. Parsear datos de Memcached
	var data cacheData
	if err := json.Unmarshal(memcachedItem.Value, &data); err != nil {
		r.log.Warn("error unmarshaling cache data", zap.String("key", key), zap.Error(err))
		return nil, 0, false
	}

	// 4. Guardar en caché local para próximas consultas
	r.localCache.Set(key, &data, r.localTTL)
	r.log.Debug("cache hit (memcached)", zap.String("key", key))

	return data.Listings, data.Total, true
}

// Set guarda datos en ambos niveles de caché
func (r *cacheRepository) Set(key string, listings []domain.Listing, total int) {
	data := &cacheData{
		Listings: listings,
		Total:    total,
	}

	r.localCache.Set(key, data, r.localTTL)

	if r.memcachedClient == nil {
		return
	}

	jsonData, err := json.Marshal(data)
	if err != nil {
		r.log.Warn("error marshaling cache data", zap.String("key", key), zap.Error(err))
		return
	}

	// Memcached usa segundos
	err = r.memcachedClient.Set(&memcache.Item{
		Key:        key,
		Value:      jsonData,
		Expiration: int32(r.remoteTTL.Seconds()),
	})
	if err != nil {
		r.log.Warn("error setting cache in memcached", zap.String("key", key), zap.Error(err))
	}
}

// Delete elimina datos de ambos niveles de caché
func (r *cacheRepository) Delete(key string) {
	r.localCache.Delete(key)

	if r.memcachedClient == nil {
		return
	}
	if err := r.memcachedClient.Delete(key); err != nil && !errors.Is(err, memcache.ErrCacheMiss) {
		r.log.Warn("error deleting from memcached", zap.String("key", key), zap.Error(err))
	}
}

// Invalidate sube la generación: las claves viejas dejan de usarse y expiran solas
func (r *cacheRepository) Invalidate() {
	next := r.generation.Add(1)
	r.localCache.Clear()

	if r.memcachedClient == nil {
		return
	}

	remote, err := r.memcachedClient.Increment(generationKey, 1)
	if err == nil {
		if remote > next {
			r.generation.Store(remote)
		}
		return
	}
	if !errors.Is(err, memcache.ErrCacheMiss) {
		r.log.Warn("error incrementing cache generation", zap.Error(err))
		return
	}

	// Primera invalidación: la clave de generación todavía no existe
	err = r.memcachedClient.Add(&memcache.Item{
		Key:   generationKey,
		Value: []byte(strconv.FormatUint(next, 10)),
	})
	if err != nil && !errors.Is(err, memcache.ErrNotStored) {
		r.log.Warn("error storing cache generation", zap.Error(err))
	}
}

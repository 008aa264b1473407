package visibility

import (
	"context"
	"errors"
	"sync"

	"github.com/redis/go-redis/v9"

	"war-map/internal/logger"
)

// ErrNotFound：存储中没有保存过状态
var ErrNotFound = errors.New("visibility state not found")

// StateStore：导出后的状态文本的持久化
type StateStore interface {
	Load(ctx context.Context) ([]byte, error)
	Save(ctx context.Context, data []byte) error
	Clear(ctx context.Context) error
}

// DefaultKey：Redis 中的状态键
const DefaultKey = "warmap:visibility"

// RedisStore：以单个字符串键保存状态，无过期
type RedisStore struct {
	rdb *redis.Client
	key string
}

func NewRedisStore(rdb *redis.Client, key string) *RedisStore {
	if key == "" {
		key = DefaultKey
	}
	return &RedisStore{rdb: rdb, key: key}
}

func (s *RedisStore) Load(ctx context.Context) ([]byte, error) {
	b, err := s.rdb.Get(ctx, s.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	return b, err
}

func (s *RedisStore) Save(ctx context.Context, data []byte) error {
	return s.rdb.Set(ctx, s.key, data, 0).Err()
}

func (s *RedisStore) Clear(ctx context.Context) error {
	return s.rdb.Del(ctx, s.key).Err()
}

// MemoryStore：进程内存储，未配置 Redis 时使用
type MemoryStore struct {
	mu   sync.Mutex
	data []byte
}

func (m *MemoryStore) Load(context.Context) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.data == nil {
		return nil, ErrNotFound
	}
	return append([]byte(nil), m.data...), nil
}

func (m *MemoryStore) Save(_ context.Context, data []byte) error {
	m.mu.Lock()
	m.data = append([]byte(nil), data...)
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) Clear(context.Context) error {
	m.mu.Lock()
	m.data = nil
	m.mu.Unlock()
	return nil
}

// 文档注释：从存储恢复状态
// 约束：存储为空或内容损坏时返回默认状态；只有存储本身的错误才返回 error（此时同样返回默认状态，调用方可降级继续）。
func Restore(ctx context.Context, store StateStore, defaults []string) (*State, error) {
	st := NewState(defaults)
	data, err := store.Load(ctx)
	if errors.Is(err, ErrNotFound) {
		return st, nil
	}
	if err != nil {
		return st, err
	}
	if err := st.Import(data); err != nil {
		logger.L().Warn("visibility_restore_invalid", "err", err)
	}
	return st, nil
}

// Persist：导出并保存
func Persist(ctx context.Context, store StateStore, st *State) error {
	data, err := st.Export()
	if err != nil {
		return err
	}
	return store.Save(ctx, data)
}

package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"gochat/internal/chat/domain/entities"
	"gochat/internal/chat/domain/services"
	"gochat/internal/chat/ports/cache"
	"gochat/pkg/logger"
)

const (
	methodLoadPolicy = "LoadPolicy"
	methodPutPolicy  = "PutPolicy"

	msgPolicyLoaded  = "auth policies loaded"
	msgPolicyStored  = "auth policies stored"
	msgPolicyMissing = "auth policies not found in store"
	msgPolicyInvalid = "auth policies document rejected"

	errCtxReadingPolicy = "reading policy document"
	errCtxWritingPolicy = "writing policy document"
)

var errPolicyNotFound = fmt.Errorf("%w: document not found", services.ErrPolicyUnavailable)

// PolicyStore загружает документ политик из хранилища ключ-значение.
// Разобранный документ переиспользуется не дольше refresh; refresh == 0 - чтение на каждый запрос.
type PolicyStore struct {
	store   cache.Store
	refresh time.Duration

	mu       sync.RWMutex
	policy   *entities.Policy
	loadedAt time.Time
}

// NewPolicyStore создает хранилище политик.
func NewPolicyStore(store cache.Store, refresh time.Duration) *PolicyStore {
	return &PolicyStore{
		store:   store,
		refresh: refresh,
	}
}

// Load возвращает действующий документ. Отсутствующий или некорректный документ
// дает ошибку, оборачивающую services.ErrPolicyUnavailable.
func (p *PolicyStore) Load(ctx context.Context) (*entities.Policy, error) {
	if policy, ok := p.fresh(); ok {
		return policy, nil
	}

	log := logger.Log(ctx).With(zap.String("method", methodLoadPolicy))

	raw, found, err := p.store.Get(ctx, services.PolicyKey)
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %w", errCtxReadingPolicy, services.ErrPolicyUnavailable, err)
	}
	if !found {
		log.Error(ctx, msgPolicyMissing)
		return nil, errPolicyNotFound
	}

	policy, err := services.ParsePolicy([]byte(raw))
	if err != nil {
		log.Error(ctx, msgPolicyInvalid, zap.Error(err))
		return nil, err
	}

	p.remember(policy)
	log.Debug(ctx, msgPolicyLoaded)
	return policy, nil
}

// Put проверяет и сохраняет документ бессрочно.
func (p *PolicyStore) Put(ctx context.Context, raw []byte) (*entities.Policy, error) {
	policy, err := services.ParsePolicy(raw)
	if err != nil {
		return nil, err
	}

	if err := p.store.Set(ctx, services.PolicyKey, string(raw), cache.NoExpiry); err != nil {
		return nil, fmt.Errorf("%s: %w", errCtxWritingPolicy, err)
	}

	p.remember(policy)
	logger.Log(ctx).Info(ctx, msgPolicyStored, zap.String("method", methodPutPolicy))
	return policy, nil
}

// Raw возвращает документ в том виде, в каком он хранится.
func (p *PolicyStore) Raw(ctx context.Context) (string, error) {
	raw, found, err := p.store.Get(ctx, services.PolicyKey)
	if err != nil {
		return "", fmt.Errorf("%s: %w", errCtxReadingPolicy, err)
	}
	if !found {
		return "", errPolicyNotFound
	}
	return raw, nil
}

func (p *PolicyStore) fresh() (*entities.Policy, bool) {
	if p.refresh <= 0 {
		return nil, false
	}

	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.policy == nil || time.Since(p.loadedAt) >= p.refresh {
		return nil, false
	}
	return p.policy, true
}

func (p *PolicyStore) remember(policy *entities.Policy) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.policy = policy
	p.loadedAt = time.Now()
}

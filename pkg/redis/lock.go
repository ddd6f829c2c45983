package redis

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// 토큰이 일치할 때만 삭제 (다른 인스턴스가 재획득한 락을 지우지 않도록)
var unlockScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// Lock SET NX 기반 단일 키 분산 락
type Lock struct {
	client *redis.Client
	key    string
	ttl    time.Duration
	token  string
}

// NewLock 생성자. client가 nil이면 항상 획득에 성공한다 (단일 인스턴스 모드).
func NewLock(client *redis.Client, key string, ttl time.Duration) *Lock {
	return &Lock{client: client, key: key, ttl: ttl}
}

// TryLock 락 획득 시도. 이미 다른 소유자가 있으면 false.
func (l *Lock) TryLock(ctx context.Context) (bool, error) {
	if l.client == nil {
		return true, nil
	}
	token := uuid.NewString()
	ok, err := l.client.SetNX(ctx, l.key, token, l.ttl).Result()
	if err != nil {
		return false, err
	}
	if ok {
		l.token = token
	}
	return ok, nil
}

// Unlock 보유 중인 락 해제
func (l *Lock) Unlock(ctx context.Context) error {
	if l.client == nil || l.token == "" {
		return nil
	}
	err := unlockScript.Run(ctx, l.client, []string{l.key}, l.token).Err()
	l.token = ""
	return err
}

package repository

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/redis/go-redis/v9"

	"github.com/agrimech/crm-service/internal/domain"
)

// Fixed keys for the lead/demo blob store. Records are whole JSON arrays
// with no versioning; a shape change invalidates previously stored blobs.
const (
	leadsKey = "crm:leads"
	demosKey = "crm:demos"
)

// CRMStore persists leads and demo schedules as opaque JSON blobs,
// last write wins.
type CRMStore interface {
	Leads(ctx context.Context) ([]domain.Lead, error)
	SaveLeads(ctx context.Context, leads []domain.Lead) error
	Demos(ctx context.Context) ([]domain.DemoSchedule, error)
	SaveDemos(ctx context.Context, demos []domain.DemoSchedule) error
}

type redisCRMStore struct {
	client *redis.Client
}

// NewCRMStore creates a Redis-backed store.
func NewCRMStore(client *redis.Client) CRMStore {
	return &redisCRMStore{client: client}
}

func (s *redisCRMStore) Leads(ctx context.Context) ([]domain.Lead, error) {
	var leads []domain.Lead
	if err := s.load(ctx, leadsKey, &leads); err != nil {
		return nil, err
	}
	if leads == nil {
		leads = []domain.Lead{}
	}
	return leads, nil
}

func (s *redisCRMStore) SaveLeads(ctx context.Context, leads []domain.Lead) error {
	return s.save(ctx, leadsKey, leads)
}

func (s *redisCRMStore) Demos(ctx context.Context) ([]domain.DemoSchedule, error) {
	var demos []domain.DemoSchedule
	if err := s.load(ctx, demosKey, &demos); err != nil {
		return nil, err
	}
	if demos == nil {
		demos = []domain.DemoSchedule{}
	}
	return demos, nil
}

func (s *redisCRMStore) SaveDemos(ctx context.Context, demos []domain.DemoSchedule) error {
	return s.save(ctx, demosKey, demos)
}

func (s *redisCRMStore) load(ctx context.Context, key string, dest any) error {
	raw, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil
		}
		return err
	}
	return json.Unmarshal(raw, dest)
}

func (s *redisCRMStore) save(ctx context.Context, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, key, raw, 0).Err()
}

package redisx

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/ariefcatur/go-pos-engine.git/internal/pos"
)

// Store: state kerja terminal yang ringan di redis: snapshot cart, cache
// shift aktif, status charge terakhir. Semuanya bisa dibangun ulang dari
// backend; redis di sini cuma mempercepat restart dan layar status.
type Store struct{ R *redis.Client }

func (s *Store) SaveCartSnapshot(ctx context.Context, snap pos.CartSnapshot) error {
	b, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	return s.R.Set(ctx, fmt.Sprintf(KeyCartSnapshot, snap.OutletID), b, 0).Err()
}

// LoadCartSnapshot: (nil, nil) jika belum ada snapshot.
func (s *Store) LoadCartSnapshot(ctx context.Context, outletID string) (*pos.CartSnapshot, error) {
	b, err := s.R.Get(ctx, fmt.Sprintf(KeyCartSnapshot, outletID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var snap pos.CartSnapshot
	if err := json.Unmarshal(b, &snap); err != nil {
		return nil, err
	}
	return &snap, nil
}

func (s *Store) SaveActiveShift(ctx context.Context, outletID string, sh *pos.Shift) error {
	key := fmt.Sprintf(KeyActiveShift, outletID)
	if sh == nil {
		return s.R.Del(ctx, key).Err()
	}
	b, err := json.Marshal(sh)
	if err != nil {
		return err
	}
	return s.R.Set(ctx, key, b, TTLActiveShift).Err()
}

func (s *Store) ClearActiveShift(ctx context.Context, outletID string) error {
	return s.R.Del(ctx, fmt.Sprintf(KeyActiveShift, outletID)).Err()
}

func (s *Store) SetChargeStatus(ctx context.Context, saleID, status string) error {
	return s.R.Set(ctx, fmt.Sprintf(KeyChargeStatus, saleID), status, TTLChargeStatus).Err()
}

// ChargeStatus: ("", nil) jika belum pernah ada status tercatat.
func (s *Store) ChargeStatus(ctx context.Context, saleID string) (string, error) {
	v, err := s.R.Get(ctx, fmt.Sprintf(KeyChargeStatus, saleID)).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	return v, err
}

func (s *Store) SaveLastSyncReport(ctx context.Context, outletID string, report any) error {
	b, err := json.Marshal(report)
	if err != nil {
		return err
	}
	return s.R.Set(ctx, fmt.Sprintf(KeySyncLastPass, outletID), b, 0).Err()
}

func (s *Store) LastSyncReport(ctx context.Context, outletID string) (json.RawMessage, error) {
	b, err := s.R.Get(ctx, fmt.Sprintf(KeySyncLastPass, outletID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	return b, err
}

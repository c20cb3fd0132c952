package memory

import (
	"context"
	"time"
)

func (r *Repository) AcquireLease(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	r.leaseMu.Lock()
	defer r.leaseMu.Unlock()

	now := r.now()
	if expiry, held := r.leases[key]; held && now.Before(expiry) {
		return false, nil
	}
	r.leases[key] = now.Add(ttl)
	return true, nil
}

func (r *Repository) ReleaseLease(ctx context.Context, key string) error {
	r.leaseMu.Lock()
	defer r.leaseMu.Unlock()

	delete(r.leases, key)
	return nil
}

package memory

import "context"

func (r *Repository) IsBanned(ctx context.Context, walletAddress string) (bool, error) {
	r.banMu.RLock()
	defer r.banMu.RUnlock()

	_, banned := r.bans[walletAddress]
	return banned, nil
}

func (r *Repository) AddBan(ctx context.Context, walletAddress string) error {
	r.banMu.Lock()
	defer r.banMu.Unlock()

	r.bans[walletAddress] = struct{}{}
	return nil
}

func (r *Repository) RemoveBan(ctx context.Context, walletAddress string) error {
	r.banMu.Lock()
	defer r.banMu.Unlock()

	delete(r.bans, walletAddress)
	return nil
}

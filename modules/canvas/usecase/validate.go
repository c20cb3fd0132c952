package usecase

import (
	"regexp"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/pixelgrid-network/pixelgrid/common/errs"
)

var (
	walletAddressPattern = regexp.MustCompile(`^0x[0-9a-f]{40}$`)
	hexColorPattern      = regexp.MustCompile(`^#[0-9a-f]{6}$`)
)

// NormalizeWalletAddress lowercases and validates a wallet address. The
// lowercased form is the identity key everywhere in the system.
func NormalizeWalletAddress(walletAddress string) (string, error) {
	normalized := strings.ToLower(strings.TrimSpace(walletAddress))
	if !walletAddressPattern.MatchString(normalized) {
		return "", errors.Wrapf(errs.InvalidArgument, "invalid wallet address %q", walletAddress)
	}
	return normalized, nil
}

// normalizeColor lowercases and validates a hex color.
func normalizeColor(color string) (string, error) {
	normalized := strings.ToLower(strings.TrimSpace(color))
	if !hexColorPattern.MatchString(normalized) {
		return "", errors.Wrapf(errs.InvalidArgument, "invalid color %q, expected hex like #ff0000", color)
	}
	return normalized, nil
}

func (u *Usecase) validateCoord(x, y int) error {
	if x < 0 || x >= u.grid.Width || y < 0 || y >= u.grid.Height {
		return errors.Wrapf(errs.InvalidArgument, "coordinate (%d, %d) is outside the %dx%d canvas", x, y, u.grid.Width, u.grid.Height)
	}
	return nil
}

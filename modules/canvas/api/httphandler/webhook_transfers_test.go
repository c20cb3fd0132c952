package httphandler

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/pixelgrid-network/pixelgrid/common/errs"
	"github.com/pixelgrid-network/pixelgrid/modules/canvas/config"
	"github.com/stretchr/testify/assert"
)

func signBody(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

func TestVerifySignature(t *testing.T) {
	t.Parallel()

	const secret = "topsecret"
	body := []byte(`{"transfers":[{"from":"0xaa","to":"0xbb"}]}`)

	handler := &HttpHandler{conf: config.Config{
		Webhook: config.Webhook{Secret: secret},
	}}

	t.Run("accepts valid signature", func(t *testing.T) {
		t.Parallel()
		err := handler.verifySignature(body, signBody(secret, body))
		assert.NoError(t, err)
	})

	t.Run("rejects wrong secret", func(t *testing.T) {
		t.Parallel()
		err := handler.verifySignature(body, signBody("wrong", body))
		assert.True(t, errors.Is(err, errs.InvalidSignature))
	})

	t.Run("rejects tampered body", func(t *testing.T) {
		t.Parallel()
		sig := signBody(secret, body)
		tampered := append([]byte{}, body...)
		tampered[10] ^= 0xff
		err := handler.verifySignature(tampered, sig)
		assert.True(t, errors.Is(err, errs.InvalidSignature))
	})

	t.Run("rejects missing signature", func(t *testing.T) {
		t.Parallel()
		err := handler.verifySignature(body, "")
		assert.True(t, errors.Is(err, errs.InvalidSignature))
	})

	t.Run("rejects non-hex signature", func(t *testing.T) {
		t.Parallel()
		err := handler.verifySignature(body, "not-hex")
		assert.True(t, errors.Is(err, errs.InvalidSignature))
	})

	t.Run("rejects when secret unconfigured", func(t *testing.T) {
		t.Parallel()
		unconfigured := &HttpHandler{conf: config.Config{}}
		err := unconfigured.verifySignature(body, signBody(secret, body))
		assert.True(t, errors.Is(err, errs.InvalidSignature))
	})
}

package oracle

import (
	"context"
	"net/url"

	"github.com/cockroachdb/errors"
	"github.com/pixelgrid-network/pixelgrid/common/errs"
	"github.com/pixelgrid-network/pixelgrid/modules/canvas/config"
	"github.com/pixelgrid-network/pixelgrid/pkg/httpclient"
	"github.com/shopspring/decimal"
	"github.com/valyala/fasthttp"
)

var _ Contract = (*Client)(nil)

// Client queries an HTTP balance oracle for holdings of the governed token.
type Client struct {
	client       *httpclient.Client
	tokenAddress string
}

func NewClient(conf config.Oracle) (*Client, error) {
	if conf.URL == "" {
		return nil, errors.Wrap(errs.InvalidArgument, "oracle url is required")
	}
	if conf.TokenAddress == "" {
		return nil, errors.Wrap(errs.InvalidArgument, "oracle token address is required")
	}

	headers := make(map[string]string)
	if conf.APIKey != "" {
		headers["Authorization"] = "Bearer " + conf.APIKey
	}
	httpClient, err := httpclient.New(conf.URL, httpclient.Config{
		Headers: headers,
		Timeout: conf.Timeout,
	})
	if err != nil {
		return nil, errors.Wrap(err, "can't create oracle http client")
	}

	return &Client{
		client:       httpClient,
		tokenAddress: conf.TokenAddress,
	}, nil
}

type balanceResult struct {
	WalletAddress string          `json:"wallet_address"`
	TokenAddress  string          `json:"token_address"`
	Balance       decimal.Decimal `json:"balance"`
}

func (c *Client) GetTokenBalance(ctx context.Context, walletAddress string) (decimal.Decimal, error) {
	query := url.Values{}
	query.Set("wallet", walletAddress)
	query.Set("token", c.tokenAddress)

	resp, err := c.client.Get(ctx, "/v1/balance", httpclient.RequestOptions{
		Query: query,
	})
	if err != nil {
		return decimal.Zero, errors.Wrap(errs.Unavailable, err.Error())
	}
	if resp.StatusCode() != fasthttp.StatusOK {
		return decimal.Zero, errors.Wrapf(errs.Unavailable, "oracle returned status %d", resp.StatusCode())
	}

	var result balanceResult
	if err := resp.UnmarshalBody(&result); err != nil {
		return decimal.Zero, errors.Wrap(err, "can't unmarshal oracle response")
	}
	if result.Balance.IsNegative() {
		return decimal.Zero, errors.Wrapf(errs.InternalError, "oracle returned negative balance %s", result.Balance)
	}
	return result.Balance, nil
}

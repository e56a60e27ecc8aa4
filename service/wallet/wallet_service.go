package wallet

import (
	"context"

	"lendpool/core"
	"lendpool/pkg/resthttp"

	"github.com/fox-one/pkg/logger"
	uuidutil "github.com/fox-one/pkg/uuid"
	"github.com/go-resty/resty/v2"
	"github.com/shopspring/decimal"
)

type walletService struct {
	client *resty.Client
}

// New new token transfer service talking to the custody wallet gateway
func New(cfg *core.Config) core.ITokenTransferService {
	return &walletService{
		client: resthttp.NewClient(cfg.Wallet.EndPoint),
	}
}

type transferRequest struct {
	AssetID string          `json:"asset_id"`
	UserID  string          `json:"user_id"`
	Amount  decimal.Decimal `json:"amount"`
}

func (s *walletService) TransferIn(ctx context.Context, assetID, from string, amount decimal.Decimal) error {
	return s.post(ctx, "/api/v1/transfers/in", &transferRequest{
		AssetID: assetID,
		UserID:  from,
		Amount:  amount,
	})
}

func (s *walletService) TransferOut(ctx context.Context, assetID, to string, amount decimal.Decimal) error {
	return s.post(ctx, "/api/v1/transfers/out", &transferRequest{
		AssetID: assetID,
		UserID:  to,
		Amount:  amount,
	})
}

func (s *walletService) post(ctx context.Context, url string, req *transferRequest) error {
	resp, err := resthttp.WithRequestID(ctx, s.client, uuidutil.New()).
		SetBody(req).
		Post(url)
	if err != nil {
		logger.FromContext(ctx).WithError(err).Errorln("wallet: transfer", req.AssetID, req.Amount)
		return core.ErrTransferFailed
	}

	if err := resthttp.DecodeResponse(resp, nil); err != nil {
		logger.FromContext(ctx).WithError(err).Errorln("wallet: transfer rejected")
		return core.ErrTransferFailed
	}

	return nil
}

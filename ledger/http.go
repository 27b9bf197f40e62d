package ledger

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// HTTPClient talks to a ledger gateway over JSON/HTTP. The gateway is
// expected to expose the following endpoints:
//
//   POST /wallets                     {owners, threshold}                  -> {address}
//   GET  /wallets/{address}                                                -> {owners, threshold, balance}
//   POST /wallets/{address}/execute   {txIndex, destination, value, data}  -> {txHash}
//
// A definitive execution failure is reported by the gateway with status
// 422 and a JSON body containing the failure reason. Any transport
// error or 5xx response is treated as the ledger being unavailable.
type HTTPClient struct {
	client   *http.Client
	endpoint string
}

var _ Client = (*HTTPClient)(nil)

// NewHTTPClient returns a client for the gateway at the given endpoint.
func NewHTTPClient(endpoint string) *HTTPClient {
	client := &http.Client{
		Timeout: time.Minute,
	}
	return &HTTPClient{
		client:   client,
		endpoint: strings.TrimSuffix(endpoint, "/"),
	}
}

type provisionRequest struct {
	Owners    []string `json:"owners"`
	Threshold int      `json:"threshold"`
}

type provisionResponse struct {
	Address string `json:"address"`
}

type walletStateResponse struct {
	Owners    []string `json:"owners"`
	Threshold int      `json:"threshold"`
	Balance   string   `json:"balance"`
}

type executeRequest struct {
	TxIndex     uint64 `json:"txIndex"`
	Destination string `json:"destination"`
	Value       int64  `json:"value"`
	Data        []byte `json:"data,omitempty"`
}

type executeResponse struct {
	TxHash string `json:"txHash"`
	Error  string `json:"error"`
}

// ProvisionWallet deploys a new multisig contract via the gateway.
func (c *HTTPClient) ProvisionWallet(ctx context.Context, owners []string, threshold int) (string, error) {
	var out provisionResponse
	req := provisionRequest{Owners: owners, Threshold: threshold}
	if err := c.post(ctx, c.endpoint+"/wallets", &req, &out); err != nil {
		return "", err
	}
	if out.Address == "" {
		return "", errors.Wrap(ErrLedgerUnavailable, "gateway returned no address")
	}
	return out.Address, nil
}

// ReadWalletState returns the contract state at the given address.
func (c *HTTPClient) ReadWalletState(ctx context.Context, address string) (*WalletState, error) {
	req, err := http.NewRequest(http.MethodGet, fmt.Sprintf("%s/wallets/%s", c.endpoint, address), nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.client.Do(req.WithContext(ctx))
	if err != nil {
		return nil, errors.Wrap(ErrLedgerUnavailable, err.Error())
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.Wrapf(ErrLedgerUnavailable, "gateway returned status %d", resp.StatusCode)
	}

	var state walletStateResponse
	if err := json.NewDecoder(resp.Body).Decode(&state); err != nil {
		return nil, errors.Wrap(ErrLedgerUnavailable, err.Error())
	}
	return &WalletState{
		Owners:    state.Owners,
		Threshold: state.Threshold,
		Balance:   state.Balance,
	}, nil
}

// ExecuteTransaction submits the transaction for execution by the
// contract at the given address.
func (c *HTTPClient) ExecuteTransaction(ctx context.Context, address string, txIndex uint64, destination string, value int64, data []byte) (string, error) {
	payload, err := json.Marshal(&executeRequest{
		TxIndex:     txIndex,
		Destination: destination,
		Value:       value,
		Data:        data,
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequest(http.MethodPost, fmt.Sprintf("%s/wallets/%s/execute", c.endpoint, address), bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req.WithContext(ctx))
	if err != nil {
		return "", errors.Wrap(ErrLedgerUnavailable, err.Error())
	}
	defer resp.Body.Close()

	var out executeResponse
	decodeErr := json.NewDecoder(resp.Body).Decode(&out)

	switch {
	case resp.StatusCode == http.StatusUnprocessableEntity:
		reason := "rejected by ledger"
		if decodeErr == nil && out.Error != "" {
			reason = out.Error
		}
		return "", &ExecutionError{Reason: reason}
	case resp.StatusCode != http.StatusOK:
		return "", errors.Wrapf(ErrLedgerUnavailable, "gateway returned status %d", resp.StatusCode)
	case decodeErr != nil:
		return "", errors.Wrap(ErrLedgerUnavailable, decodeErr.Error())
	case out.TxHash == "":
		return "", errors.Wrap(ErrLedgerUnavailable, "gateway returned no transaction hash")
	}
	return out.TxHash, nil
}

func (c *HTTPClient) post(ctx context.Context, url string, body, out interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req.WithContext(ctx))
	if err != nil {
		return errors.Wrap(ErrLedgerUnavailable, err.Error())
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return errors.Wrapf(ErrLedgerUnavailable, "gateway returned status %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.Wrap(ErrLedgerUnavailable, err.Error())
	}
	return nil
}

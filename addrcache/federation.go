package addrcache

import (
	"context"
	"fmt"
	"net/http"

	"github.com/stellar/go/clients/federation"
	"github.com/stellar/go/clients/horizonclient"
	"github.com/stellar/go/clients/stellartoml"
	proto "github.com/stellar/go/protocols/federation"
)

var _ Resolver = &FederationResolver{}

// FederationClient is the part of the stellar/go federation client used to
// resolve addresses.
type FederationClient interface {
	LookupByAddress(addy string) (*proto.NameResponse, error)
}

// FederationResolver implements Resolver by querying the federation server
// of the address's home domain.
type FederationResolver struct {
	Client FederationClient
}

// NewFederationResolver returns a resolver that finds federation servers
// through the stellar.toml of each domain and uses horizonURL to look up the
// home domain of accounts. A nil httpClient uses http.DefaultClient.
func NewFederationResolver(horizonURL string, httpClient *http.Client) *FederationResolver {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &FederationResolver{
		Client: &federation.Client{
			HTTP:        httpClient,
			Horizon:     &horizonclient.Client{HorizonURL: horizonURL, HTTP: httpClient},
			StellarTOML: &stellartoml.Client{HTTP: httpClient},
		},
	}
}

// Resolve looks up the account ID of a federation address. The federation
// client is not context aware, and the lookup is abandoned, not cancelled,
// when ctx is done.
func (r *FederationResolver) Resolve(ctx context.Context, address string) (string, error) {
	type result struct {
		resp *proto.NameResponse
		err  error
	}
	done := make(chan result, 1)
	go func() {
		resp, err := r.Client.LookupByAddress(address)
		done <- result{resp, err}
	}()
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res := <-done:
		if res.err != nil {
			return "", fmt.Errorf("looking up federation address %s: %w", address, res.err)
		}
		if res.resp == nil || res.resp.AccountID == "" {
			return "", fmt.Errorf("looking up federation address %s: %w", address, ErrNotFound)
		}
		return res.resp.AccountID, nil
	}
}

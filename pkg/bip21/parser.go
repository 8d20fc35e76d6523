// Package bip21 implements the BIP 21 payment URI format.
//
// BIP 21 defines the standard URI scheme for Bitcoin payment requests,
// encoding a recipient address and optional amount, label and message in a
// URI that can be shared via QR codes, links, or text:
//
//	bitcoin:<address>?amount=<btc>&label=<label>&message=<message>
//
// Parsed requests convert directly into template outputs, so a payment URI
// can be committed into a CTV covenant.
//
// See: https://github.com/bitcoin/bips/blob/master/bip-0021.mediawiki
package bip21

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/btcsuite/btcd/btcutil"

	"github.com/suffix-labs/bitcoin-ctv/pkg/template"
)

// PaymentRequest represents a parsed BIP 21 payment request.
type PaymentRequest struct {
	Address string          // Bitcoin address (base58 or bech32)
	Amount  *btcutil.Amount // Requested amount (nil = payer specifies)
	Label   *string         // Optional label for the recipient
	Message *string         // Optional message to display to the payer
}

// Parse parses a BIP 21 payment URI.
//
// The "bitcoin:" prefix is optional. Unknown parameters are ignored except
// for required ("req-") parameters, which BIP 21 mandates rejecting when
// not understood.
func Parse(uri string) (*PaymentRequest, error) {
	rest := strings.TrimPrefix(uri, "bitcoin:")

	address, query, _ := strings.Cut(rest, "?")
	if address == "" {
		return nil, fmt.Errorf("payment URI has no address")
	}

	params, err := url.ParseQuery(query)
	if err != nil {
		return nil, fmt.Errorf("failed to parse query: %w", err)
	}

	req := &PaymentRequest{Address: address}

	for key := range params {
		if strings.HasPrefix(key, "req-") {
			return nil, fmt.Errorf("unsupported required parameter %q", key)
		}
	}

	if amountStr := params.Get("amount"); amountStr != "" {
		amount, err := parseAmount(amountStr)
		if err != nil {
			return nil, fmt.Errorf("invalid amount: %w", err)
		}
		req.Amount = &amount
	}

	if label := params.Get("label"); label != "" {
		req.Label = &label
	}

	if message := params.Get("message"); message != "" {
		req.Message = &message
	}

	return req, nil
}

// parseAmount parses a BTC amount string ("1.5", "0.00000001", "21") into
// satoshis. Amounts must be non-negative.
func parseAmount(amountStr string) (btcutil.Amount, error) {
	value, err := strconv.ParseFloat(amountStr, 64)
	if err != nil {
		return 0, fmt.Errorf("not a valid number: %w", err)
	}
	if value < 0 {
		return 0, fmt.Errorf("amount cannot be negative")
	}
	return btcutil.NewAmount(value)
}

// Encode creates a BIP 21 URI from the request. Inverse of Parse.
func (r *PaymentRequest) Encode() string {
	uri := "bitcoin:" + r.Address

	params := url.Values{}
	if r.Amount != nil {
		params.Add("amount", formatAmount(*r.Amount))
	}
	if r.Label != nil {
		params.Add("label", *r.Label)
	}
	if r.Message != nil {
		params.Add("message", *r.Message)
	}

	if len(params) > 0 {
		uri += "?" + params.Encode()
	}
	return uri
}

// TemplateOutput converts the request into a committed template output. A
// request without an amount cannot be committed, since the covenant must
// pin every output value.
func (r *PaymentRequest) TemplateOutput() (template.Output, error) {
	if r.Amount == nil {
		return template.Output{}, fmt.Errorf("payment request has no amount to commit")
	}
	return template.Output{
		Address: r.Address,
		Amount:  int64(*r.Amount),
	}, nil
}

// formatAmount renders satoshis as a decimal BTC string without trailing
// zeros.
func formatAmount(amount btcutil.Amount) string {
	str := strconv.FormatFloat(amount.ToBTC(), 'f', 8, 64)
	str = strings.TrimRight(str, "0")
	str = strings.TrimRight(str, ".")
	return str
}

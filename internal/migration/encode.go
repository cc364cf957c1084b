package migration

import (
	"encoding/base64"
	"net/url"

	"github.com/desertthunder/otpx/internal/models"
	"google.golang.org/protobuf/encoding/protowire"
)

// Encode serializes p into an export line accepted by [Decode].
//
// Dropped records are not encoded; accounts with an empty secret are written as-is
// so [Decode] reports them the same way the exporter's output would.
func Encode(p *models.Payload) string {
	var b []byte
	for _, account := range p.Accounts {
		params := marshalParameters(account)
		b = protowire.AppendTag(b, payloadOTPParameters, protowire.BytesType)
		b = protowire.AppendBytes(b, params)
		wipe(params)
	}

	for _, field := range []struct {
		num protowire.Number
		val int
	}{
		{payloadVersion, p.Version},
		{payloadBatchSize, p.BatchSize},
		{payloadBatchIndex, p.BatchIndex},
		{payloadBatchID, p.BatchID},
	} {
		if field.val == 0 {
			continue
		}
		b = protowire.AppendTag(b, field.num, protowire.VarintType)
		b = protowire.AppendVarint(b, uint64(int64(int32(field.val))))
	}

	data := base64.StdEncoding.EncodeToString(b)
	wipe(b)

	return Scheme + "://offline?" + DataParam + "=" + url.QueryEscape(data)
}

func marshalParameters(a models.Account) []byte {
	var b []byte
	if len(a.Secret) > 0 {
		b = protowire.AppendTag(b, paramSecret, protowire.BytesType)
		b = protowire.AppendBytes(b, a.Secret)
	}
	if a.Name != "" {
		b = protowire.AppendTag(b, paramName, protowire.BytesType)
		b = protowire.AppendString(b, a.Name)
	}
	if a.Issuer != "" {
		b = protowire.AppendTag(b, paramIssuer, protowire.BytesType)
		b = protowire.AppendString(b, a.Issuer)
	}

	for _, field := range []struct {
		num protowire.Number
		val uint64
	}{
		{paramAlgorithm, uint64(a.Algorithm)},
		{paramDigits, uint64(a.Digits)},
		{paramType, uint64(a.Type)},
		{paramCounter, a.Counter},
	} {
		if field.val == 0 {
			continue
		}
		b = protowire.AppendTag(b, field.num, protowire.VarintType)
		b = protowire.AppendVarint(b, field.val)
	}

	return b
}

package migration

import (
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"net/url"
	"strings"

	"github.com/desertthunder/otpx/internal/models"
	"google.golang.org/protobuf/encoding/protowire"
)

const (
	// Scheme is the only URI scheme accepted for export lines. Matching is case-sensitive.
	Scheme = "otpauth-migration"
	// Prefix is the marker some QR scanner apps put in front of the decoded text.
	Prefix = "QR-Code:"
	// DataParam is the query parameter carrying the base64 payload.
	DataParam = "data"
)

// Field numbers of MigrationPayload.
const (
	payloadOTPParameters protowire.Number = 1
	payloadVersion       protowire.Number = 2
	payloadBatchSize     protowire.Number = 3
	payloadBatchIndex    protowire.Number = 4
	payloadBatchID       protowire.Number = 5
)

// Field numbers of MigrationPayload.OtpParameters.
const (
	paramSecret    protowire.Number = 1
	paramName      protowire.Number = 2
	paramIssuer    protowire.Number = 3
	paramAlgorithm protowire.Number = 4
	paramDigits    protowire.Number = 5
	paramType      protowire.Number = 6
	paramCounter   protowire.Number = 7
)

// Decode parses one export line into its accounts, in container order.
//
// Records without a secret are left out of [models.Payload.Accounts] and reported in
// [models.Payload.Dropped]; any other problem fails the whole line with a [*FormatError].
func Decode(line string) (*models.Payload, error) {
	raw, err := extractData(line)
	if err != nil {
		return nil, err
	}

	data, err := base64.StdEncoding.DecodeString(strings.ReplaceAll(raw, " ", "+"))
	if err != nil {
		return nil, newFormatError(ErrBadEncoding, "data is not standard base64", err)
	}
	defer wipe(data)

	return unmarshalPayload(data)
}

// extractData validates the scheme and returns the first data query value.
func extractData(line string) (string, error) {
	s := strings.TrimPrefix(strings.TrimSpace(line), Prefix)

	scheme, _, found := strings.Cut(s, ":")
	if !found {
		return "", newFormatError(ErrUnsupportedScheme, "no scheme", nil)
	}
	if scheme != Scheme {
		return "", newFormatError(ErrUnsupportedScheme, fmt.Sprintf("%q", truncate(scheme, 32)), nil)
	}

	u, err := url.Parse(s)
	if err != nil {
		return "", newFormatError(ErrMissingField, "cannot parse URI", err)
	}

	// ParseQuery keeps every well-formed pair even when it reports an error
	values, qerr := url.ParseQuery(u.RawQuery)
	data := values[DataParam]
	if len(data) == 0 || data[0] == "" {
		return "", newFormatError(ErrMissingField, DataParam, qerr)
	}

	return data[0], nil
}

func unmarshalPayload(b []byte) (*models.Payload, error) {
	payload := &models.Payload{}
	record := 0

	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return nil, malformed("payload tag", protowire.ParseError(n))
		}
		b = b[n:]

		switch {
		case num == payloadOTPParameters && typ == protowire.BytesType:
			v, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return nil, malformed("otp_parameters", protowire.ParseError(n))
			}
			b = b[n:]

			account, err := unmarshalParameters(v)
			if err != nil {
				return nil, err
			}
			if len(account.Secret) == 0 {
				payload.Dropped = append(payload.Dropped, &FormatError{
					Kind:   ErrMissingSecret,
					Detail: fmt.Sprintf("account %q", account.Name),
					Record: record,
				})
			} else {
				payload.Accounts = append(payload.Accounts, account)
			}
			record++

		case num >= payloadVersion && num <= payloadBatchID && typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return nil, malformed("payload metadata", protowire.ParseError(n))
			}
			b = b[n:]

			switch num {
			case payloadVersion:
				payload.Version = int(int32(v))
			case payloadBatchSize:
				payload.BatchSize = int(int32(v))
			case payloadBatchIndex:
				payload.BatchIndex = int(int32(v))
			case payloadBatchID:
				payload.BatchID = int(int32(v))
			}

		case num >= payloadOTPParameters && num <= payloadBatchID:
			return nil, malformed(fmt.Sprintf("field %d has wire type %d", num, typ), nil)

		default:
			n := protowire.ConsumeFieldValue(num, typ, b)
			if n < 0 {
				return nil, malformed(fmt.Sprintf("unknown field %d", num), protowire.ParseError(n))
			}
			b = b[n:]
		}
	}

	return payload, nil
}

func unmarshalParameters(b []byte) (models.Account, error) {
	var account models.Account

	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return account, malformed("otp_parameters tag", protowire.ParseError(n))
		}
		b = b[n:]

		switch {
		case num >= paramSecret && num <= paramIssuer && typ == protowire.BytesType:
			v, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return account, malformed(fmt.Sprintf("otp_parameters field %d", num), protowire.ParseError(n))
			}
			b = b[n:]

			switch num {
			case paramSecret:
				account.Secret = append([]byte(nil), v...)
			case paramName:
				account.Name = string(v)
			case paramIssuer:
				account.Issuer = string(v)
			}

		case num >= paramAlgorithm && num <= paramCounter && typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return account, malformed(fmt.Sprintf("otp_parameters field %d", num), protowire.ParseError(n))
			}
			b = b[n:]

			switch num {
			case paramAlgorithm:
				account.Algorithm = models.Algorithm(int32(v))
			case paramDigits:
				account.Digits = models.DigitCount(int32(v))
			case paramType:
				account.Type = models.OTPType(int32(v))
			case paramCounter:
				account.Counter = v
			}

		case num >= paramSecret && num <= paramCounter:
			return account, malformed(fmt.Sprintf("otp_parameters field %d has wire type %d", num, typ), nil)

		default:
			n := protowire.ConsumeFieldValue(num, typ, b)
			if n < 0 {
				return account, malformed(fmt.Sprintf("otp_parameters unknown field %d", num), protowire.ParseError(n))
			}
			b = b[n:]
		}
	}

	return account, nil
}

func malformed(detail string, cause error) *FormatError {
	return newFormatError(ErrMalformedPayload, detail, cause)
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "…"
}

// wipe zeroes decoded payload bytes, which still hold every secret of the line.
func wipe(b []byte) {
	if len(b) == 0 {
		return
	}
	subtle.ConstantTimeCopy(1, b, make([]byte, len(b)))
}

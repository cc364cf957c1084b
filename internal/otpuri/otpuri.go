// Package otpuri builds single-account otpauth:// enrollment URIs from decoded migration records.
//
// The canonical shape is
//
//	otpauth://totp/<name>?secret=<base32>&issuer=<issuer>
//
// The issuer key is always present, even when empty, because some importers require it.
package otpuri

import (
	"crypto/subtle"
	"encoding/base32"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/desertthunder/otpx/internal/models"
	"github.com/pquerna/otp"
)

// Options controls optional URI parameters.
type Options struct {
	// Enrich emits algorithm and digits when the record carries them, and writes HOTP
	// records as otpauth://hotp with their counter.
	Enrich bool
	// OmitPadding strips base32 "=" padding from the secret.
	OmitPadding bool
}

// Builder converts accounts to enrollment URIs.
type Builder struct {
	opts Options
}

// NewBuilder creates a [Builder] with the given options.
func NewBuilder(opts Options) *Builder {
	return &Builder{opts: opts}
}

// Build returns the enrollment URI for account. The secret must be non-empty, which [migration.Decode] guarantees.
func (b *Builder) Build(account models.Account) string {
	kind := "totp"
	if b.opts.Enrich && account.Type == models.TypeHOTP {
		kind = "hotp"
	}

	var sb strings.Builder
	sb.WriteString("otpauth://")
	sb.WriteString(kind)
	sb.WriteString("/")
	sb.WriteString(url.PathEscape(account.Name))
	sb.WriteString("?secret=")
	sb.WriteString(url.QueryEscape(b.encodeSecret(account.Secret)))
	sb.WriteString("&issuer=")
	sb.WriteString(url.QueryEscape(account.Issuer))

	if b.opts.Enrich {
		if account.Algorithm != models.AlgorithmUnspecified {
			sb.WriteString("&algorithm=")
			sb.WriteString(account.Algorithm.String())
		}
		if digits := account.Digits.Int(); digits != 0 {
			sb.WriteString("&digits=")
			sb.WriteString(strconv.Itoa(digits))
		}
		if kind == "hotp" {
			sb.WriteString("&counter=")
			sb.WriteString(strconv.FormatUint(account.Counter, 10))
		}
	}

	return sb.String()
}

// Entry builds the presenter entry for account.
func (b *Builder) Entry(account models.Account) models.Entry {
	return models.Entry{Name: account.Name, Issuer: account.Issuer, URI: b.Build(account)}
}

func (b *Builder) encodeSecret(secret []byte) string {
	if b.opts.OmitPadding {
		return base32.StdEncoding.WithPadding(base32.NoPadding).EncodeToString(secret)
	}
	return base32.StdEncoding.EncodeToString(secret)
}

// Check parses uri the way authenticator apps do and verifies that its secret decodes back to secret.
func Check(uri string, secret []byte) error {
	key, err := otp.NewKeyFromURL(uri)
	if err != nil {
		return fmt.Errorf("failed to parse enrollment URI: %w", err)
	}

	if key.Type() != "totp" && key.Type() != "hotp" {
		return fmt.Errorf("unexpected OTP type %q", key.Type())
	}

	encoded := strings.ToUpper(strings.TrimRight(key.Secret(), "="))
	decoded, err := base32.StdEncoding.WithPadding(base32.NoPadding).DecodeString(encoded)
	if err != nil {
		return fmt.Errorf("secret is not base32: %w", err)
	}

	if subtle.ConstantTimeCompare(decoded, secret) != 1 {
		return fmt.Errorf("secret does not round-trip")
	}

	return nil
}

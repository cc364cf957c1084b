// package models defines the data model for the otpx migration assistant
package models

import "crypto/subtle"

// Algorithm is the HMAC hash an account was enrolled with.
type Algorithm int

const (
	AlgorithmUnspecified Algorithm = iota
	AlgorithmSHA1
	AlgorithmSHA256
	AlgorithmSHA512
	AlgorithmMD5
)

func (a Algorithm) String() string {
	switch a {
	case AlgorithmSHA1:
		return "SHA1"
	case AlgorithmSHA256:
		return "SHA256"
	case AlgorithmSHA512:
		return "SHA512"
	case AlgorithmMD5:
		return "MD5"
	default:
		return "unspecified"
	}
}

// DigitCount is the exported code length enumeration.
type DigitCount int

const (
	DigitsUnspecified DigitCount = iota
	DigitsSix
	DigitsEight
)

// Int returns the number of digits, or 0 when unspecified.
func (d DigitCount) Int() int {
	switch d {
	case DigitsSix:
		return 6
	case DigitsEight:
		return 8
	default:
		return 0
	}
}

func (d DigitCount) String() string {
	switch d {
	case DigitsSix:
		return "6"
	case DigitsEight:
		return "8"
	default:
		return "unspecified"
	}
}

// OTPType distinguishes counter-based from time-based accounts.
type OTPType int

const (
	TypeUnspecified OTPType = iota
	TypeHOTP
	TypeTOTP
)

func (t OTPType) String() string {
	switch t {
	case TypeHOTP:
		return "hotp"
	case TypeTOTP:
		return "totp"
	default:
		return "unspecified"
	}
}

// Account holds one account's exported parameters.
//
// Secret is shared-secret key material and must never be logged or persisted.
type Account struct {
	Name      string
	Issuer    string
	Secret    []byte
	Algorithm Algorithm
	Digits    DigitCount
	Type      OTPType
	Counter   uint64
}

// Label returns "Issuer (Name)" when an issuer is present, otherwise the name.
func (a Account) Label() string {
	if a.Issuer == "" || a.Issuer == a.Name {
		return a.Name
	}
	return a.Issuer + " (" + a.Name + ")"
}

// Wipe zeroes the secret in place.
func (a *Account) Wipe() {
	if len(a.Secret) == 0 {
		return
	}
	zero := make([]byte, len(a.Secret))
	subtle.ConstantTimeCopy(1, a.Secret, zero)
	a.Secret = nil
}

// Payload is one decoded migration container.
type Payload struct {
	Accounts   []Account // Records in container order
	Dropped    []error   // Per-record errors for records that were skipped
	Version    int
	BatchSize  int
	BatchIndex int
	BatchID    int
}

// Wipe zeroes every account secret in the payload.
func (p *Payload) Wipe() {
	for i := range p.Accounts {
		p.Accounts[i].Wipe()
	}
}

// Entry is the unit handed to the presenter: a display name and its enrollment URI.
type Entry struct {
	Name   string
	Issuer string
	URI    string
}

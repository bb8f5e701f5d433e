package booking

import (
	"crypto/rand"
	"math/big"
)

const (
	BookingCodePrefix  = "S8-"
	bookingCodeLength  = 6
	referralCodeLength = 8
	codeAlphabet       = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

// CodeGenerator produces candidate codes; uniqueness is checked by the caller.
type CodeGenerator interface {
	BookingCode() (string, error)
	ReferralCode() (string, error)
}

// RandomCodes draws codes from crypto/rand.
type RandomCodes struct{}

// BookingCode returns a code of the form S8-XXXXXX (uppercase alphanumeric).
func (RandomCodes) BookingCode() (string, error) {
	s, err := randomString(bookingCodeLength)
	if err != nil {
		return "", err
	}
	return BookingCodePrefix + s, nil
}

func (RandomCodes) ReferralCode() (string, error) {
	return randomString(referralCodeLength)
}

func randomString(n int) (string, error) {
	base := big.NewInt(int64(len(codeAlphabet)))
	b := make([]byte, n)
	for i := range b {
		idx, err := rand.Int(rand.Reader, base)
		if err != nil {
			return "", err
		}
		b[i] = codeAlphabet[idx.Int64()]
	}
	return string(b), nil
}

// UniqueCode draws from next until exists reports the candidate free, at most attempts times.
func UniqueCode(attempts int, next func() (string, error), exists func(string) (bool, error)) (string, error) {
	if attempts <= 0 {
		attempts = 1
	}
	for i := 0; i < attempts; i++ {
		code, err := next()
		if err != nil {
			return "", err
		}
		taken, err := exists(code)
		if err != nil {
			return "", err
		}
		if !taken {
			return code, nil
		}
	}
	return "", ErrCodeExhausted
}

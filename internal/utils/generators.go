package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"time"
)

// GenerateOrderNumber builds a human-readable order number for callers
// that do not supply their own.
func GenerateOrderNumber() string {
	timestamp := time.Now().Format("20060102")
	randomNum, _ := rand.Int(rand.Reader, big.NewInt(9999))
	return fmt.Sprintf("ORD-%s-%04d", timestamp, randomNum.Int64())
}

// NormalizePhone strips formatting characters so that conversation lookups
// by phone number are stable across providers.
func NormalizePhone(phone string) string {
	replacer := strings.NewReplacer(" ", "", "-", "", "(", "", ")", "", "+", "")
	return replacer.Replace(phone)
}

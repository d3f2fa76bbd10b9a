package utils

import (
	"crypto/rand"
	"math/big"
	"strings"
)

const (
	CategoryBuffet = "BUF"
	CategorySingle = "SP"
)

const tokenAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
const tokenLength = 6

// GenerateOrderID produces a "<TAG>-<TOKEN>" order id where TOKEN is six
// uppercase base36 characters. No uniqueness check is made against existing
// rows; the token space makes collisions negligible.
func GenerateOrderID(category string) string {
	var sb strings.Builder
	sb.WriteString(category)
	sb.WriteByte('-')

	max := big.NewInt(int64(len(tokenAlphabet)))
	for i := 0; i < tokenLength; i++ {
		n, _ := rand.Int(rand.Reader, max)
		sb.WriteByte(tokenAlphabet[n.Int64()])
	}
	return sb.String()
}

// CategoryOf derives the order category back from the id prefix. Ids that
// carry neither known prefix report an empty category.
func CategoryOf(orderID string) string {
	switch {
	case strings.HasPrefix(orderID, CategoryBuffet+"-"):
		return CategoryBuffet
	case strings.HasPrefix(orderID, CategorySingle+"-"):
		return CategorySingle
	default:
		return ""
	}
}

// GenerateSessionToken returns a 32-character token for admin sessions.
func GenerateSessionToken() string {
	var sb strings.Builder
	max := big.NewInt(int64(len(tokenAlphabet)))
	for i := 0; i < 32; i++ {
		n, _ := rand.Int(rand.Reader, max)
		sb.WriteByte(tokenAlphabet[n.Int64()])
	}
	return sb.String()
}

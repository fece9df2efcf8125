package payment

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// Signature computes the hex HMAC-SHA256 over "paymentID|subscriptionID".
// The processor signs the same message with the shared key secret.
func Signature(paymentID, subscriptionID, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(paymentID + "|" + subscriptionID))
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifySignature checks the supplied signature in constant time.
func VerifySignature(paymentID, subscriptionID, secret, signature string) bool {
	expected := Signature(paymentID, subscriptionID, secret)
	return hmac.Equal([]byte(expected), []byte(signature))
}

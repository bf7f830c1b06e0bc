package rpc

import (
	"strings"

	"github.com/mdp/qrterminal/v3"
)

// GenerateQRCode renders text as a half-block terminal QR code
func GenerateQRCode(text string) string {
	if text == "" {
		return ""
	}
	var b strings.Builder
	qrterminal.GenerateHalfBlock(text, qrterminal.L, &b)
	return b.String()
}

// ExplorerTxURL links a transaction id on the network's block explorer
func ExplorerTxURL(explorer, txID string) string {
	if explorer == "" || txID == "" {
		return ""
	}
	return strings.TrimRight(explorer, "/") + "/tx/" + txID
}

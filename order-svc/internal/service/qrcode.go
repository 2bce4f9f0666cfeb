package service

import (
	"fmt"

	"github.com/skip2/go-qrcode"
)

type QRGenerator interface {
	Generate(orderID int64) ([]byte, error)
}

// DefaultQRGenerator encodes a link to the public tracking page of an order.
type DefaultQRGenerator struct {
	BaseURL string
}

func (g DefaultQRGenerator) TrackingURL(orderID int64) string {
	return fmt.Sprintf("%s/track.html?order_id=%d", g.BaseURL, orderID)
}

func (g DefaultQRGenerator) Generate(orderID int64) ([]byte, error) {
	return qrcode.Encode(g.TrackingURL(orderID), qrcode.Medium, 256)
}

// Package slip renders a transfer receipt image: participant names with
// masked account numbers, the transaction id, the amount, a zero fee
// line and a QR code pointing back at the transaction lookup endpoint.
package slip

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"strings"
	"time"

	qrcode "github.com/skip2/go-qrcode"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/jumpogpo/bank-manager-api/db"
)

const (
	slipWidth  = 480
	slipHeight = 640
	qrSize     = 160
	margin     = 35
)

type Renderer struct {
	BankName string
	// BaseURL is the public root of the API; the QR code encodes
	// BaseURL + "/transaction/" + transaction id.
	BaseURL string
}

// Render draws the slip for a committed transfer. The caller has already
// validated that the record is a transfer; deleted participants are
// passed as zero accounts and render with blank names.
func (r Renderer) Render(transaction db.Transaction, deducted, received db.Account) (image.Image, error) {
	if transaction.Action != db.ActionTransfer {
		return nil, fmt.Errorf("slip: not a transfer transaction: %q", transaction.Action)
	}

	img := image.NewRGBA(image.Rect(0, 0, slipWidth, slipHeight))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)

	drawText(img, margin, 45, r.BankName+" Bank")
	drawText(img, margin, 75, "Transfer successful")
	drawText(img, margin, 95, formatTimestamp(transaction.Timestamp))

	drawText(img, margin, 150, "From")
	drawText(img, margin+15, 175, participantName(deducted))
	drawText(img, margin+15, 195, MaskAccountID(transaction.DeductedAccountID))

	drawText(img, margin, 240, "To")
	drawText(img, margin+15, 265, participantName(received))
	drawText(img, margin+15, 285, MaskAccountID(transaction.ReceivedAccountID))

	drawText(img, margin, 340, "Transaction ID")
	drawText(img, margin+15, 365, transaction.TransactionID)

	drawText(img, margin, 410, "Amount")
	drawText(img, margin+15, 435, FormatAmount(transaction.Amount)+" THB")

	drawText(img, margin, 480, "Fee")
	drawText(img, margin+15, 505, "0.00 THB")

	qr, err := qrcode.New(fmt.Sprintf("%s/transaction/%s", strings.TrimSuffix(r.BaseURL, "/"), transaction.TransactionID), qrcode.Low)
	if err != nil {
		return nil, fmt.Errorf("slip: qr code: %w", err)
	}
	qrRect := image.Rect(slipWidth-qrSize-margin, slipHeight-qrSize-margin, slipWidth-margin, slipHeight-margin)
	draw.Draw(img, qrRect, qr.Image(qrSize), image.Point{}, draw.Over)

	drawText(img, margin, slipHeight-margin-70, "Scan to verify")

	return img, nil
}

func drawText(img *image.RGBA, x, y int, text string) {
	drawer := font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(color.Black),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(x, y),
	}
	drawer.DrawString(text)
}

func participantName(account db.Account) string {
	return strings.TrimSpace(account.FirstName + " " + account.LastName)
}

// MaskAccountID keeps digits 5..8 of the zero-padded 10-digit account
// number visible and masks the rest.
func MaskAccountID(accountID int64) string {
	padded := fmt.Sprintf("%010d", accountID)
	return fmt.Sprintf("xxx-x-x%s-x", padded[4:8])
}

// FormatAmount renders the amount with digit grouping and two decimals,
// e.g. 1234500 -> "1,234,500.00".
func FormatAmount(amount int64) string {
	printer := message.NewPrinter(language.English)
	return printer.Sprintf("%.2f", float64(amount))
}

func formatTimestamp(stored string) string {
	parsed, err := time.Parse(db.TimestampLayout, stored)
	if err != nil {
		return stored
	}
	return parsed.Format("02 Jan 06 15:04")
}

package commands

import (
	"fmt"
	"os"
	"time"

	"github.com/mdp/qrterminal/v3"
)

// Half-block characters give a QR code that is readable at terminal size.
const (
	blackWhite = "▄"
	blackBlack = " "
	whiteBlack = "▀"
	whiteWhite = "█"
)

// printBanner shows the QR code, the entry URL, and the expiry so the user
// can get a phone onto the page.
func printBanner(entryURL string, expiresAt time.Time, exitOnComplete bool) {
	fmt.Println("\nScan this QR code to open the page on your local network:")
	fmt.Println()

	qrterminal.GenerateWithConfig(entryURL, qrterminal.Config{
		Level:          qrterminal.M,
		Writer:         os.Stdout,
		HalfBlocks:     true,
		BlackChar:      blackBlack,
		WhiteBlackChar: whiteBlack,
		WhiteChar:      whiteWhite,
		BlackWhiteChar: blackWhite,
		QuietZone:      1,
	})

	fmt.Printf("\nURL: %s\n", entryURL)
	fmt.Printf("Expires at (UTC): %s\n", expiresAt.UTC().Format(time.RFC3339))
	if exitOnComplete {
		fmt.Println("The server exits after the first completed transfer.")
	}
	fmt.Println("Press Ctrl+C to stop the server.")
}

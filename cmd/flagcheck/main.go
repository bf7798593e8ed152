// Command flagcheck is a throwaway harness for eyeballing the country
// flag rendering in a terminal. It prints each code next to its flag.
//
//	go run ./cmd/flagcheck [CODE ...]
package main

import (
	"fmt"
	"os"

	"github.com/mkerrall/waypost/internal/view"
)

var defaultCodes = []string{"US", "GB", "DE", "FR", "JP", "BR", "AU", "ZA", "nl", "xx", "u"}

func main() {
	codes := os.Args[1:]
	if len(codes) == 0 {
		codes = defaultCodes
	}

	for _, code := range codes {
		flag := view.Flag(code)
		if flag == "" {
			flag = "(no flag)"
		}
		fmt.Printf("%-4s %s\n", code, flag)
	}

	fmt.Println()
	fmt.Println("combined:", view.CountryFlags(codes))
}

// Command genhash prints the bcrypt hash stored in users.password, for
// provisioning accounts directly in the database.
//
//	go run ./scripts/genhash.go 'secret123'
package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"go-dreamjob-backend/pkg/security"
)

func main() {
	password := ""
	if len(os.Args) > 1 {
		password = os.Args[1]
	} else {
		line, _ := bufio.NewReader(os.Stdin).ReadString('\n')
		password = strings.TrimRight(line, "\r\n")
	}

	hash, err := security.HashPassword(password)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
	fmt.Println(hash)
}

// Command chatbtc is a terminal chat client for Bitcoin questions.
package main

import "github.com/diogo/chatbtc/internal/commands"

func main() {
	commands.Execute()
}

// Package consts contains constants for the relay domain
package consts

// Command represents a bot command
type Command struct {
	Name        string
	Description string
}

// Bot commands
var (
	CommandStart = Command{Name: "start", Description: "Petunjuk penggunaan"}
	CommandHelp  = Command{Name: "help", Description: "Bantuan singkat"}
)

// AllCommands contains all available bot commands for menu registration
var AllCommands = []Command{
	CommandStart,
	CommandHelp,
}

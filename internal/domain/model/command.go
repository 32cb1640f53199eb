package model

import "strings"

// Command is one of the bot commands.
type Command int

const (
	CommandHelp Command = iota + 1
	CommandStart
)

type commandInfo struct {
	cmd         Command
	name        string
	description string
}

// order matters: it is the order of the help text and of the client menu
var commands = []commandInfo{
	{CommandHelp, "help", "Display this text"},
	{CommandStart, "start", "Start"},
}

const commandsHeader = "These commands are supported:"

// LookupCommand finds a command by its keyword, ignoring case.
func LookupCommand(name string) (Command, bool) {
	for _, c := range commands {
		if strings.EqualFold(c.name, name) {
			return c.cmd, true
		}
	}
	return 0, false
}

func (c Command) String() string {
	for _, ci := range commands {
		if ci.cmd == c {
			return ci.name
		}
	}
	return "unknown"
}

// CommandDescription is a (name, description) pair for menus.
type CommandDescription struct {
	Name        string
	Description string
}

// CommandDescriptions lists every command in menu order.
func CommandDescriptions() []CommandDescription {
	out := make([]CommandDescription, 0, len(commands))
	for _, c := range commands {
		out = append(out, CommandDescription{Name: c.name, Description: c.description})
	}
	return out
}

// HelpText renders the reply to /help.
func HelpText() string {
	var b strings.Builder
	b.WriteString(commandsHeader)
	b.WriteString("\n\n")
	for i, c := range commands {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString("/" + c.name + " — " + c.description)
	}
	return b.String()
}

package usecase

import (
	"strings"

	"tg-config-bot/internal/domain"
	"tg-config-bot/internal/domain/model"
)

// ParseCommand parses a message text against the bot's command grammar.
//
// The first word must start with "/". An "@botname" suffix is stripped when it
// names this bot; any other or empty suffix is an unknown command. The keyword is
// case-insensitive and anything after the first word is ignored, so
// "/start payload" is still Start.
func ParseCommand(text, botUsername string) (model.Command, error) {
	fields := strings.Fields(text)
	if len(fields) == 0 || !strings.HasPrefix(fields[0], "/") {
		return 0, domain.ErrNotCommand
	}

	name := strings.TrimPrefix(fields[0], "/")
	if at := strings.IndexByte(name, '@'); at >= 0 {
		target := name[at+1:]
		name = name[:at]
		if target == "" || !strings.EqualFold(target, strings.TrimPrefix(botUsername, "@")) {
			return 0, domain.ErrUnknownCommand
		}
	}

	cmd, ok := model.LookupCommand(name)
	if !ok {
		return 0, domain.ErrUnknownCommand
	}
	return cmd, nil
}

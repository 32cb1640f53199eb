package application

import (
	"context"

	"tg-config-bot/internal/domain/model"
	"tg-config-bot/internal/domain/ports/adapter"
)

type commandHandler func(ctx context.Context, msg model.Message) error

// commandRoutes defines all available bot commands and their handlers.
func (b *BotFacade) commandRoutes() map[model.Command]commandHandler {
	return map[model.Command]commandHandler{
		model.CommandHelp:  b.handleHelpCommand,
		model.CommandStart: b.handleStartCommand,
	}
}

// handleHelpCommand sends the description of all commands.
func (b *BotFacade) handleHelpCommand(ctx context.Context, msg model.Message) error {
	return b.send(ctx, adapter.SendMessageParams{ChatID: msg.ChatID, Text: model.HelpText()})
}

// handleStartCommand sends the action keyboard.
func (b *BotFacade) handleStartCommand(ctx context.Context, msg model.Message) error {
	return b.send(ctx, adapter.SendMessageParams{
		ChatID:   msg.ChatID,
		Text:     promptChooseAction,
		Keyboard: model.BuildKeyboard(),
	})
}

package model

// Button is an inline keyboard button that sends Data back as a callback.
type Button struct {
	Text string
	Data string
}

// Keyboard is an ordered list of button rows.
type Keyboard [][]Button

const (
	ActionNewConfig   = "Новый конфиг"
	ActionListConfigs = "Список конфигов"
)

var keyboardActions = []string{ActionNewConfig, ActionListConfigs}

// BuildKeyboard returns the action keyboard: one button per row,
// label and callback payload identical.
func BuildKeyboard() Keyboard {
	kb := make(Keyboard, 0, len(keyboardActions))
	for _, action := range keyboardActions {
		kb = append(kb, []Button{{Text: action, Data: action}})
	}
	return kb
}

//go:build !integration

package telegram

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/go-cmp/cmp"

	"tg-config-bot/internal/domain"
	"tg-config-bot/internal/domain/model"
	"tg-config-bot/internal/domain/ports/adapter"
	"tg-config-bot/internal/infra/logging"
)

const testToken = "123456:TEST"

// apiCall is one request received by the fake Bot API.
type apiCall struct {
	Method string
	Params map[string]string
}

// fakeAPI is a minimal Bot API server answering with canned results.
type fakeAPI struct {
	mu      sync.Mutex
	calls   []apiCall
	results map[string]string // method -> raw JSON result
	errors  map[string]string // method -> error description
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{
		results: map[string]string{
			"getMe":       `{"id":42,"is_bot":true,"first_name":"Config","username":"config_bot"}`,
			"sendMessage": `{"message_id":7,"date":0,"chat":{"id":555,"type":"private"}}`,
		},
		errors: map[string]string{},
	}
}

func (f *fakeAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	parts := strings.Split(strings.TrimPrefix(r.URL.Path, "/"), "/")
	if len(parts) != 2 || parts[0] != "bot"+testToken {
		http.NotFound(w, r)
		return
	}
	method := parts[1]
	_ = r.ParseForm()
	params := map[string]string{}
	for k := range r.PostForm {
		params[k] = r.PostForm.Get(k)
	}

	f.mu.Lock()
	if method != "getMe" {
		f.calls = append(f.calls, apiCall{Method: method, Params: params})
	}
	desc, failed := f.errors[method]
	result, ok := f.results[method]
	f.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	if failed {
		_, _ = w.Write([]byte(`{"ok":false,"error_code":400,"description":` + quote(desc) + `}`))
		return
	}
	if !ok {
		result = "true"
	}
	_, _ = w.Write([]byte(`{"ok":true,"result":` + result + `}`))
}

func (f *fakeAPI) Calls() []apiCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]apiCall(nil), f.calls...)
}

// pick keeps only the given keys that are present in params.
func pick(params map[string]string, keys ...string) map[string]string {
	out := map[string]string{}
	for _, k := range keys {
		if v, ok := params[k]; ok {
			out[k] = v
		}
	}
	return out
}

func quote(s string) string {
	b, _ := json.Marshal(s)
	return string(b)
}

func newTestAdapter(t *testing.T, api *fakeAPI) *RealTelegramBotAdapter {
	t.Helper()
	srv := httptest.NewServer(api)
	t.Cleanup(srv.Close)

	a, err := NewRealTelegramBotAdapterWithClient(testToken, srv.URL+"/bot%s/%s", srv.Client(), logging.Nop())
	if err != nil {
		t.Fatalf("NewRealTelegramBotAdapterWithClient failed: %v", err)
	}
	return a
}

func TestNewRealTelegramBotAdapter(t *testing.T) {
	a := newTestAdapter(t, newFakeAPI())
	if got := a.Username(); got != "config_bot" {
		t.Errorf("Username() = %q, want config_bot", got)
	}

	if _, err := NewRealTelegramBotAdapterWithClient(" ", "http://unused/bot%s/%s", http.DefaultClient, logging.Nop()); !errors.Is(err, domain.ErrInvalidArgument) {
		t.Errorf("empty token error = %v, want ErrInvalidArgument", err)
	}
}

func TestGetChatMember(t *testing.T) {
	tests := []struct {
		name   string
		chat   model.ChatRef
		status string
		want   model.MembershipStatus
		params map[string]string
	}{
		{
			name:   "numeric chat",
			chat:   model.ChatRef{ID: -100123},
			status: "kicked",
			want:   model.MembershipBanned,
			params: map[string]string{"chat_id": "-100123", "user_id": "77"},
		},
		{
			name:   "public username",
			chat:   model.ChatRef{Username: "@configs"},
			status: "creator",
			want:   model.MembershipOwner,
			params: map[string]string{"chat_id": "@configs", "user_id": "77"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := newFakeAPI()
			api.results["getChatMember"] = `{"user":{"id":77,"is_bot":false,"first_name":"A"},"status":"` + tt.status + `"}`
			a := newTestAdapter(t, api)

			got, err := a.GetChatMember(context.Background(), tt.chat, 77)
			if err != nil {
				t.Fatalf("GetChatMember failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("status = %v, want %v", got, tt.want)
			}
			if diff := cmp.Diff(tt.params, api.Calls()[0].Params); diff != "" {
				t.Errorf("params mismatch (-want +got):\n%s", diff)
			}
		})
	}

	t.Run("api error is returned", func(t *testing.T) {
		api := newFakeAPI()
		api.errors["getChatMember"] = "Bad Request: chat not found"
		a := newTestAdapter(t, api)

		_, err := a.GetChatMember(context.Background(), model.ChatRef{ID: -1}, 77)
		var apiErr *tgbotapi.Error
		if !errors.As(err, &apiErr) || apiErr.Code != 400 {
			t.Errorf("error = %v, want a Bot API 400", err)
		}
	})
}

func TestSendMessageWithKeyboard(t *testing.T) {
	api := newFakeAPI()
	a := newTestAdapter(t, api)

	err := a.SendMessage(context.Background(), adapter.SendMessageParams{
		ChatID:   555,
		Text:     "Выберите действие:",
		Keyboard: model.BuildKeyboard(),
	})
	if err != nil {
		t.Fatalf("SendMessage failed: %v", err)
	}

	call := api.Calls()[0]
	if call.Method != "sendMessage" || call.Params["chat_id"] != "555" || call.Params["text"] != "Выберите действие:" {
		t.Fatalf("unexpected call %+v", call)
	}
	var markup struct {
		InlineKeyboard [][]struct {
			Text         string `json:"text"`
			CallbackData string `json:"callback_data"`
		} `json:"inline_keyboard"`
	}
	if err := json.Unmarshal([]byte(call.Params["reply_markup"]), &markup); err != nil {
		t.Fatalf("reply_markup is not JSON: %v", err)
	}
	var got model.Keyboard
	for _, row := range markup.InlineKeyboard {
		var r []model.Button
		for _, b := range row {
			r = append(r, model.Button{Text: b.Text, Data: b.CallbackData})
		}
		got = append(got, r)
	}
	if diff := cmp.Diff(model.BuildKeyboard(), got); diff != "" {
		t.Errorf("keyboard mismatch (-want +got):\n%s", diff)
	}
}

func TestEditMessageText(t *testing.T) {
	t.Run("regular message", func(t *testing.T) {
		api := newFakeAPI()
		a := newTestAdapter(t, api)

		err := a.EditMessageText(context.Background(), adapter.EditMessageParams{
			Message: &model.MessageRef{ChatID: 555, MessageID: 9},
			Text:    "You chose: Новый конфиг",
		})
		if err != nil {
			t.Fatalf("EditMessageText failed: %v", err)
		}
		want := map[string]string{"chat_id": "555", "message_id": "9", "text": "You chose: Новый конфиг"}
		if diff := cmp.Diff(want, pick(api.Calls()[0].Params, "chat_id", "message_id", "inline_message_id", "text")); diff != "" {
			t.Errorf("params mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("inline message", func(t *testing.T) {
		api := newFakeAPI()
		a := newTestAdapter(t, api)

		err := a.EditMessageText(context.Background(), adapter.EditMessageParams{InlineMessageID: "AgAAA", Text: "You chose: x"})
		if err != nil {
			t.Fatalf("EditMessageText failed: %v", err)
		}
		want := map[string]string{"inline_message_id": "AgAAA", "text": "You chose: x"}
		if diff := cmp.Diff(want, pick(api.Calls()[0].Params, "chat_id", "message_id", "inline_message_id", "text")); diff != "" {
			t.Errorf("params mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("no target", func(t *testing.T) {
		api := newFakeAPI()
		a := newTestAdapter(t, api)

		err := a.EditMessageText(context.Background(), adapter.EditMessageParams{Text: "x"})
		if !errors.Is(err, domain.ErrInvalidArgument) {
			t.Errorf("error = %v, want ErrInvalidArgument", err)
		}
		if len(api.Calls()) != 0 {
			t.Errorf("expected no API calls, got %d", len(api.Calls()))
		}
	})
}

func TestAnswerInlineQuery(t *testing.T) {
	api := newFakeAPI()
	a := newTestAdapter(t, api)

	err := a.AnswerInlineQuery(context.Background(), "q1", []adapter.InlineArticle{{
		ID: "choose_action", Title: "Выберите действие", MessageText: "Выберите действие:", Keyboard: model.BuildKeyboard(),
	}})
	if err != nil {
		t.Fatalf("AnswerInlineQuery failed: %v", err)
	}

	call := api.Calls()[0]
	if call.Method != "answerInlineQuery" || call.Params["inline_query_id"] != "q1" {
		t.Fatalf("unexpected call %+v", call)
	}
	var results []struct {
		Type    string `json:"type"`
		ID      string `json:"id"`
		Title   string `json:"title"`
		Content struct {
			Text string `json:"message_text"`
		} `json:"input_message_content"`
		Markup *struct {
			Rows [][]json.RawMessage `json:"inline_keyboard"`
		} `json:"reply_markup"`
	}
	if err := json.Unmarshal([]byte(call.Params["results"]), &results); err != nil {
		t.Fatalf("results is not JSON: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	r := results[0]
	if r.Type != "article" || r.ID != "choose_action" || r.Title != "Выберите действие" || r.Content.Text != "Выберите действие:" {
		t.Errorf("unexpected article %+v", r)
	}
	if r.Markup == nil || len(r.Markup.Rows) != 2 {
		t.Errorf("expected a two-row keyboard, got %+v", r.Markup)
	}

	t.Run("empty answer sends an empty list", func(t *testing.T) {
		api := newFakeAPI()
		a := newTestAdapter(t, api)

		if err := a.AnswerInlineQuery(context.Background(), "q2", nil); err != nil {
			t.Fatalf("AnswerInlineQuery failed: %v", err)
		}
		if got := api.Calls()[0].Params["results"]; got != "[]" {
			t.Errorf("results = %q, want []", got)
		}
	})
}

func TestAnswerCallbackQueryError(t *testing.T) {
	api := newFakeAPI()
	api.errors["answerCallbackQuery"] = "Bad Request: query is too old"
	a := newTestAdapter(t, api)

	if err := a.AnswerCallbackQuery(context.Background(), "cb1"); err == nil {
		t.Fatal("expected error")
	}
	if got := api.Calls()[0].Params["callback_query_id"]; got != "cb1" {
		t.Errorf("callback_query_id = %q", got)
	}
}

func TestSetCommandsAndWebhook(t *testing.T) {
	api := newFakeAPI()
	a := newTestAdapter(t, api)
	ctx := context.Background()

	if err := a.SetCommands(ctx, model.CommandDescriptions()); err != nil {
		t.Fatalf("SetCommands failed: %v", err)
	}
	if err := a.SetWebhook(ctx, "https://bot.example.com/telegram", "s3cret"); err != nil {
		t.Fatalf("SetWebhook failed: %v", err)
	}
	if err := a.DeleteWebhook(ctx); err != nil {
		t.Fatalf("DeleteWebhook failed: %v", err)
	}

	calls := api.Calls()
	var methods []string
	for _, c := range calls {
		methods = append(methods, c.Method)
	}
	if diff := cmp.Diff([]string{"setMyCommands", "setWebhook", "deleteWebhook"}, methods); diff != "" {
		t.Fatalf("methods mismatch (-want +got):\n%s", diff)
	}

	var commands []struct {
		Command     string `json:"command"`
		Description string `json:"description"`
	}
	if err := json.Unmarshal([]byte(calls[0].Params["commands"]), &commands); err != nil {
		t.Fatalf("commands is not JSON: %v", err)
	}
	if len(commands) != 2 || commands[0].Command != "help" || commands[1].Command != "start" {
		t.Errorf("unexpected commands %+v", commands)
	}

	want := map[string]string{
		"url":             "https://bot.example.com/telegram",
		"secret_token":    "s3cret",
		"allowed_updates": `["message","callback_query","inline_query"]`,
	}
	if diff := cmp.Diff(want, calls[1].Params); diff != "" {
		t.Errorf("setWebhook params mismatch (-want +got):\n%s", diff)
	}
}

func TestStartPolling(t *testing.T) {
	api := newFakeAPI()
	api.results["getUpdates"] = `[
		{"update_id":1,"message":{"message_id":3,"date":0,"chat":{"id":555,"type":"private"},"from":{"id":77,"first_name":"A"},"text":"/start"}},
		{"update_id":2,"edited_message":{"message_id":3,"date":0,"chat":{"id":555,"type":"private"},"text":"x"}}
	]`
	a := newTestAdapter(t, api)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	got := make(chan model.Event, 1)
	err := a.StartPolling(ctx, func(ctx context.Context, ev model.Event) error {
		got <- ev
		cancel()
		return nil
	})
	if err != nil {
		t.Fatalf("StartPolling returned %v", err)
	}

	ev := <-got
	if ev.Kind != model.EventMessage || ev.Message.Text != "/start" || ev.Message.From.ID != 77 {
		t.Errorf("unexpected event %+v", ev)
	}
}

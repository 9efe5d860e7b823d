package telegram

import (
	"fmt"
	"time"

	"referat-bot/internal/models"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

type TelegramClient struct {
	bot *tgbotapi.BotAPI
}

func NewTelegramClient(token string) (*TelegramClient, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("ошибка создания telegram клиента: %w", err)
	}

	return &TelegramClient{
		bot: bot,
	}, nil
}

// SendMessage отправляет простое текстовое сообщение
func (t *TelegramClient) SendMessage(chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	_, err := t.bot.Send(msg)
	return err
}

// SendHTMLMessage отправляет HTML-сообщение и возвращает его ID
func (t *TelegramClient) SendHTMLMessage(chatID int64, text string) (int, error) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML

	sentMsg, err := t.bot.Send(msg)
	if err != nil {
		return 0, err
	}

	return sentMsg.MessageID, nil
}

// SendMessageWithKeyboard отправляет HTML-сообщение с reply-клавиатурой
func (t *TelegramClient) SendMessageWithKeyboard(chatID int64, text string, keyboard tgbotapi.ReplyKeyboardMarkup) (int, error) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.ReplyMarkup = keyboard

	sentMsg, err := t.bot.Send(msg)
	if err != nil {
		return 0, err
	}

	return sentMsg.MessageID, nil
}

// SendMessageWithInlineKeyboard отправляет HTML-сообщение с инлайн-кнопками
func (t *TelegramClient) SendMessageWithInlineKeyboard(chatID int64, text string, keyboard tgbotapi.InlineKeyboardMarkup) (int, error) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.ReplyMarkup = keyboard

	sentMsg, err := t.bot.Send(msg)
	if err != nil {
		return 0, err
	}

	return sentMsg.MessageID, nil
}

// EditMessageText заменяет текст (и при необходимости кнопки) уже
// отправленного сообщения
func (t *TelegramClient) EditMessageText(chatID int64, messageID int, text string, keyboard *tgbotapi.InlineKeyboardMarkup) error {
	editMsg := tgbotapi.NewEditMessageText(chatID, messageID, text)
	editMsg.ParseMode = tgbotapi.ModeHTML
	editMsg.ReplyMarkup = keyboard

	_, err := t.bot.Send(editMsg)
	return err
}

// DeleteMessage удаляет сообщение из чата
func (t *TelegramClient) DeleteMessage(chatID int64, messageID int) error {
	_, err := t.bot.Request(tgbotapi.NewDeleteMessage(chatID, messageID))
	return err
}

// AnswerCallback отвечает на нажатие инлайн-кнопки. При alert=true
// пользователь видит всплывающее окно вместо короткой подсказки.
func (t *TelegramClient) AnswerCallback(callbackID string, text string, alert bool) error {
	callback := tgbotapi.NewCallback(callbackID, text)
	callback.ShowAlert = alert

	_, err := t.bot.Request(callback)
	return err
}

// GetChatUsername возвращает username чата (для подписи "кто принял заказ")
func (t *TelegramClient) GetChatUsername(chatID int64) (string, error) {
	chat, err := t.bot.GetChat(tgbotapi.ChatInfoConfig{
		ChatConfig: tgbotapi.ChatConfig{ChatID: chatID},
	})
	if err != nil {
		return "", err
	}

	return chat.UserName, nil
}

// StartBot запускает получение обновлений и раскладывает их по двум
// каналам: обычные сообщения и нажатия инлайн-кнопок.
func (t *TelegramClient) StartBot() (chan models.Message, chan models.CallbackQuery, error) {
	// Удаляем вебхук перед запуском Long Polling
	if _, err := t.bot.Request(tgbotapi.DeleteWebhookConfig{}); err != nil {
		return nil, nil, err
	}

	// Пауза для стабилизации соединения
	time.Sleep(1 * time.Second)

	messages := make(chan models.Message)
	callbackQueries := make(chan models.CallbackQuery)

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := t.bot.GetUpdatesChan(u)

	go func() {
		for update := range updates {
			if update.Message != nil {
				fullName := update.Message.From.FirstName
				if update.Message.From.LastName != "" {
					fullName += " " + update.Message.From.LastName
				}

				msg := models.Message{
					ChatID:    update.Message.Chat.ID,
					MessageID: update.Message.MessageID,
					Text:      update.Message.Text,
					Username:  update.Message.From.UserName,
					FullName:  fullName,
				}
				if update.Message.Contact != nil {
					msg.Contact = &models.Contact{
						PhoneNumber: update.Message.Contact.PhoneNumber,
					}
				}

				messages <- msg
			}

			if update.CallbackQuery != nil {
				userName := update.CallbackQuery.From.FirstName
				if update.CallbackQuery.From.LastName != "" {
					userName += " " + update.CallbackQuery.From.LastName
				}

				callbackQueries <- models.CallbackQuery{
					ID:        update.CallbackQuery.ID,
					UserID:    update.CallbackQuery.From.ID,
					UserName:  userName,
					UserLogin: update.CallbackQuery.From.UserName,
					ChatID:    update.CallbackQuery.Message.Chat.ID,
					MessageID: update.CallbackQuery.Message.MessageID,
					Data:      update.CallbackQuery.Data,
				}
			}
		}
	}()

	return messages, callbackQueries, nil
}

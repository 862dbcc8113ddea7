package telegram

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	app "step-bot/internal/application"
	"step-bot/internal/container"
	"step-bot/internal/domain/entity"
)

const (
	msgStart = `👋 Привет! Я бот для анализа STEP-файлов (ISO 10303-21).

📎 Отправьте мне файл .step или .stp, и я определю габариты детали, отверстия, скругления и фаски.

📋 Команды:
/check — начать анализ файла
/history — последние анализы
/drawing — предложения по чертежу для последнего анализа
/help — справка
/cancel — отменить текущую операцию`

	msgHelp = `ℹ️ Как пользоваться ботом:

1️⃣ Отправьте STEP-файл документом
2️⃣ Бот проанализирует геометрию
3️⃣ Вы получите габариты и список найденных элементов

💡 Элементы определяются по ключевым словам файла, а не по точной модели:
скругления и фаски — это подсказка, а не гарантия.

📋 Команды:
/check — начать анализ
/history — последние анализы
/drawing — предложения по чертежу
/cancel — отменить операцию`

	msgAwaitingFile     = "📎 Отправьте STEP-файл (.step или .stp) документом."
	msgCancelled        = "❌ Операция отменена. Отправьте /check для нового анализа."
	msgSendFile         = "📎 Пожалуйста, отправьте STEP-файл документом."
	msgUnknownCommand   = "❓ Неизвестная команда. Используйте /help для справки."
	msgProcessing       = "⏳ Анализирую файл..."
	msgBusy             = "⏳ Предыдущий файл ещё обрабатывается, подождите."
	msgProcessingError  = "⚠️ Не удалось обработать файл. Попробуйте ещё раз."
	msgFileTooLarge     = "⚠️ Файл слишком большой."
	msgUnsupportedFile  = "⚠️ Это не STEP-файл. Поддерживаются .step и .stp."
	msgNoHistory        = "🗂 История пуста. Отправьте STEP-файл для анализа."
	msgNoAnalysis       = "🗂 Сначала отправьте STEP-файл для анализа."
	msgNoGeometry       = "⚠️ В последнем файле нет геометрии, чертёж предложить нельзя."
	msgDrawingDisabled  = "⚠️ Предложения по чертежу не настроены."
	msgDrawingRequested = "⏳ Запрашиваю предложения по чертежу..."
	msgDrawingError     = "⚠️ Не удалось получить предложения по чертежу."

	historyLimit = 5
)

// Bot представляет Telegram-бота
type Bot struct {
	api      *tgbotapi.BotAPI
	users    *app.UserService
	analyses *app.AnalysisService
	logger   *slog.Logger
}

// NewBot создаёт нового бота
func NewBot(token string, c *container.Container, logger *slog.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}

	logger.Info("authorized on telegram", "account", api.Self.UserName)

	return &Bot{
		api:      api,
		users:    c.UserService,
		analyses: c.AnalysisService,
		logger:   logger,
	}, nil
}

// Run запускает основной цикл обработки сообщений до отмены контекста
func (b *Bot) Run(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)
	defer b.api.StopReceivingUpdates()

	for {
		select {
		case <-ctx.Done():
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			if update.Message == nil {
				continue
			}
			b.handleMessage(ctx, update.Message)
		}
	}
}

// handleMessage обрабатывает входящее сообщение
func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	user, err := b.users.Get(ctx, msg.From.ID, msg.Chat.ID)
	if err != nil {
		b.logger.Error("get user", "user_id", msg.From.ID, "error", err)
		return
	}

	// Обработка команд
	if msg.IsCommand() {
		b.handleCommand(ctx, msg, user)
		return
	}

	// Обработка документа
	if msg.Document != nil {
		b.handleDocument(ctx, msg, user)
		return
	}

	// Текстовое сообщение (не команда)
	b.sendMessage(msg.Chat.ID, msgSendFile)
}

// handleCommand обрабатывает команды бота
func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message, user *entity.User) {
	switch msg.Command() {
	case "start":
		if _, err := b.users.Cancel(ctx, user.ID, msg.Chat.ID); err != nil {
			b.logStateError(user, err)
		}
		b.sendMessage(msg.Chat.ID, msgStart)

	case "help":
		b.sendMessage(msg.Chat.ID, msgHelp)

	case "check":
		if _, err := b.users.BeginCheck(ctx, user.ID, msg.Chat.ID); err != nil {
			b.logStateError(user, err)
		}
		b.sendMessage(msg.Chat.ID, msgAwaitingFile)

	case "cancel":
		if _, err := b.users.Cancel(ctx, user.ID, msg.Chat.ID); err != nil {
			b.logStateError(user, err)
		}
		b.sendMessage(msg.Chat.ID, msgCancelled)

	case "history":
		records, err := b.analyses.History(ctx, user.ID, historyLimit)
		if err != nil {
			b.logger.Error("load history", "user_id", user.ID, "error", err)
			b.sendMessage(msg.Chat.ID, msgProcessingError)
			return
		}
		b.sendHTML(msg.Chat.ID, formatHistory(records))

	case "drawing":
		b.handleDrawing(ctx, msg, user)

	default:
		b.sendMessage(msg.Chat.ID, msgUnknownCommand)
	}
}

// handleDocument скачивает STEP-файл и отправляет результат анализа.
// Файл принимается в любом состоянии, кроме processing: /check только подсказывает, что отправить.
func (b *Bot) handleDocument(ctx context.Context, msg *tgbotapi.Message, user *entity.User) {
	if user.Busy() {
		b.sendMessage(msg.Chat.ID, msgBusy)
		return
	}

	doc := msg.Document
	if err := b.analyses.CheckUpload(doc.FileName, doc.FileSize); err != nil {
		b.replyUploadError(msg.Chat.ID, err)
		return
	}

	b.sendMessage(msg.Chat.ID, msgProcessing)

	data, err := b.downloadFile(ctx, doc.FileID)
	if err != nil {
		b.logger.Error("download document", "user_id", user.ID, "file", doc.FileName, "error", err)
		b.sendMessage(msg.Chat.ID, msgProcessingError)
		return
	}

	rec, err := b.analyses.AcceptFile(ctx, user.ID, msg.Chat.ID, doc.FileName, data)
	if err != nil {
		b.replyUploadError(msg.Chat.ID, err)
		return
	}

	b.sendHTML(msg.Chat.ID, formatAnalysis(rec))
}

func (b *Bot) handleDrawing(ctx context.Context, msg *tgbotapi.Message, user *entity.User) {
	b.sendMessage(msg.Chat.ID, msgDrawingRequested)

	drawing, err := b.analyses.SuggestLatest(ctx, user.ID)
	switch {
	case err == nil:
		b.sendHTML(msg.Chat.ID, formatDrawing(drawing))
	case errors.Is(err, app.ErrNoAnalysis):
		b.sendMessage(msg.Chat.ID, msgNoAnalysis)
	case errors.Is(err, entity.ErrNoGeometryFound):
		b.sendMessage(msg.Chat.ID, msgNoGeometry)
	case errors.Is(err, app.ErrSuggesterNotConfigured):
		b.sendMessage(msg.Chat.ID, msgDrawingDisabled)
	default:
		b.logger.Error("suggest drawing", "user_id", user.ID, "error", err)
		b.sendMessage(msg.Chat.ID, msgDrawingError)
	}
}

func (b *Bot) replyUploadError(chatID int64, err error) {
	switch {
	case errors.Is(err, app.ErrFileTooLarge):
		b.sendMessage(chatID, msgFileTooLarge)
	case errors.Is(err, app.ErrUnsupportedFile):
		b.sendMessage(chatID, msgUnsupportedFile)
	default:
		b.logger.Error("analyse document", "chat_id", chatID, "error", err)
		b.sendMessage(chatID, msgProcessingError)
	}
}

func (b *Bot) logStateError(user *entity.User, err error) {
	b.logger.Error("save user state", "user_id", user.ID, "error", err)
}

// downloadFile скачивает файл из Telegram
func (b *Bot) downloadFile(ctx context.Context, fileID string) ([]byte, error) {
	file, err := b.api.GetFile(tgbotapi.FileConfig{FileID: fileID})
	if err != nil {
		return nil, fmt.Errorf("get file: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, file.Link(b.api.Token), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download file: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("download file: status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	return data, nil
}

// sendMessage отправляет текстовое сообщение
func (b *Bot) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := b.api.Send(msg); err != nil {
		b.logger.Error("send message", "chat_id", chatID, "error", err)
	}
}

// sendHTML отправляет сообщение с HTML-разметкой
func (b *Bot) sendHTML(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	if _, err := b.api.Send(msg); err != nil {
		b.logger.Error("send message", "chat_id", chatID, "error", err)
	}
}

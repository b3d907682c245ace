package telegram

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	app "cook-bot/internal/application"
	"cook-bot/internal/domain/entity"
	"cook-bot/internal/domain/port"
)

const (
	msgStart = `👋 Привет! Я помогаю разогреть еду.

📸 Пришлите фото блюда: я узнаю продукт, спрошу у ИИ температуру и время и передам их печи.

📋 Команды:
/status — состояние печи и последний результат
/help — справка`

	msgHelp = `ℹ️ Как пользоваться ботом:

1️⃣ Отправьте фото блюда
2️⃣ Бот найдёт продукт на снимке
3️⃣ Вы получите фото с рамками и инструкции, а печь — команды TEMP и TIME

💡 Рекомендации:
• Блюдо должно занимать большую часть кадра
• Снимайте при хорошем освещении

📋 Команды:
/status — состояние печи`

	msgSendPhoto       = "📸 Пожалуйста, отправьте фото блюда."
	msgUnknownCommand  = "❓ Неизвестная команда. Используйте /help для справки."
	msgProcessing      = "⏳ Обрабатываю изображение..."
	msgProcessingError = "⚠️ Не удалось обработать изображение. Попробуйте сделать другое фото."

	maxCaption = 1024
)

// Bot представляет Telegram-бота
type Bot struct {
	api      *tgbotapi.BotAPI
	pipeline *app.CookingPipeline
	history  port.OutcomeRepository
	logger   *zap.Logger
}

// NewBot создаёт нового бота
func NewBot(token string, pipeline *app.CookingPipeline, history port.OutcomeRepository, logger *zap.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	logger.Info("Authorized on account", zap.String("username", api.Self.UserName))

	return &Bot{
		api:      api,
		pipeline: pipeline,
		history:  history,
		logger:   logger.Named("telegram"),
	}, nil
}

// Run запускает основной цикл обработки сообщений.
// Сообщения обрабатываются по одному, поэтому кадры в пайплайн идут последовательно.
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
	if msg.IsCommand() {
		b.handleCommand(ctx, msg)
		return
	}

	if len(msg.Photo) > 0 {
		b.handlePhoto(ctx, msg)
		return
	}

	b.sendMessage(msg.Chat.ID, msgSendPhoto)
}

// handleCommand обрабатывает команды бота
func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message) {
	switch msg.Command() {
	case "start":
		b.sendMessage(msg.Chat.ID, msgStart)

	case "help":
		b.sendMessage(msg.Chat.ID, msgHelp)

	case "status":
		var latest *entity.FrameResult
		if b.history != nil {
			var err error
			if latest, err = b.history.Latest(ctx); err != nil {
				b.logger.Warn("Failed to read history", zap.Error(err))
			}
		}
		link := b.pipeline.Link()
		b.sendMessage(msg.Chat.ID, formatStatus(link.State(), link.Port(), latest))

	default:
		b.sendMessage(msg.Chat.ID, msgUnknownCommand)
	}
}

// handlePhoto прогоняет фото через пайплайн и отвечает картинкой с рамками и инструкциями
func (b *Bot) handlePhoto(ctx context.Context, msg *tgbotapi.Message) {
	b.sendMessage(msg.Chat.ID, msgProcessing)

	// Получаем файл с максимальным разрешением
	photo := msg.Photo[len(msg.Photo)-1]

	imageData, err := b.downloadFile(photo.FileID)
	if err != nil {
		b.logger.Error("Error downloading photo", zap.Error(err))
		b.sendMessage(msg.Chat.ID, msgProcessingError)
		return
	}

	result, err := b.pipeline.Process(ctx, imageData)
	if err != nil {
		b.logger.Error("Error processing photo", zap.Error(err))
		b.sendMessage(msg.Chat.ID, msgProcessingError)
		return
	}

	b.sendPhoto(msg.Chat.ID, result.Annotated, result.Instructions)
	if summary := formatDispatch(result); summary != "" {
		b.sendMessage(msg.Chat.ID, summary)
	}
}

// downloadFile скачивает файл из Telegram
func (b *Bot) downloadFile(fileID string) ([]byte, error) {
	file, err := b.api.GetFile(tgbotapi.FileConfig{FileID: fileID})
	if err != nil {
		return nil, fmt.Errorf("get file: %w", err)
	}

	fileURL := file.Link(b.api.Token)

	resp, err := http.Get(fileURL)
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
		b.logger.Error("Error sending message", zap.Error(err))
	}
}

// sendPhoto отправляет картинку с подписью; слишком длинная подпись уходит отдельным сообщением
func (b *Bot) sendPhoto(chatID int64, image []byte, caption string) {
	photo := tgbotapi.NewPhoto(chatID, tgbotapi.FileBytes{Name: "frame.jpg", Bytes: image})
	if len([]rune(caption)) <= maxCaption {
		photo.Caption = caption
	}
	if _, err := b.api.Send(photo); err != nil {
		b.logger.Error("Error sending photo", zap.Error(err))
		b.sendMessage(chatID, caption)
		return
	}
	if photo.Caption == "" && caption != "" {
		b.sendMessage(chatID, caption)
	}
}

// formatStatus собирает ответ на /status
func formatStatus(state entity.LinkState, portName string, latest *entity.FrameResult) string {
	var sb strings.Builder

	switch state {
	case entity.LinkConnected:
		fmt.Fprintf(&sb, "🔌 Печь подключена (%s)\n", portName)
	case entity.LinkDegraded:
		fmt.Fprintf(&sb, "⚠️ Печь подключена (%s), но не подтвердила последнюю команду\n", portName)
	case entity.LinkConnecting:
		sb.WriteString("⏳ Подключаюсь к печи...\n")
	default:
		sb.WriteString("❌ Печь не подключена, команды не отправляются\n")
	}

	if latest == nil {
		sb.WriteString("📭 Кадров ещё не было")
		return sb.String()
	}

	fmt.Fprintf(&sb, "🕒 Последний кадр: %s\n", latest.ProcessedAt.Format("15:04:05"))
	if latest.Label != "" {
		fmt.Fprintf(&sb, "🍽 Продукт: %s\n", latest.Label)
	}
	sb.WriteString(latest.Instructions)
	return strings.TrimRight(sb.String(), "\n")
}

// formatDispatch описывает, какие команды дошли до печи
func formatDispatch(result *entity.FrameResult) string {
	if result.Status != entity.FrameDispatched {
		return ""
	}
	if len(result.Dispatches) == 0 {
		return "🤷 В ответе ИИ не нашлось ни температуры, ни времени."
	}

	lines := make([]string, 0, len(result.Dispatches))
	for _, d := range result.Dispatches {
		if d.Acknowledged {
			lines = append(lines, fmt.Sprintf("✅ %s", d.Command))
		} else {
			lines = append(lines, fmt.Sprintf("❌ %s (%s)", d.Command, d.Error))
		}
	}
	return strings.Join(lines, "\n")
}

package bot

import (
	"context"
	"errors"
	"fmt"
	"html"
	"math/rand"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"

	"github.com/Vinnycalora/Reliabot/internal/clock"
	"github.com/Vinnycalora/Reliabot/internal/model"
	"github.com/Vinnycalora/Reliabot/internal/service"
)

var affirmations = []string{
	"You are enough, exactly as you are. 💛",
	"Progress over perfection. 🌱",
	"You can begin again, any moment. 🌀",
	"Your effort matters more than the result. 🎯",
	"You're not behind. You're on your own path. 🌄",
}

var panicMessages = []string{
	"Pause. Inhale for 4… hold… exhale for 4. You're okay. One step at a time. 🧘",
	"Overwhelm means your brain needs a moment. Let's take that moment now. ✋",
	"You are safe. You don't have to solve everything right now. One task, one breath.",
}

var refocusPrompts = []string{
	"Let's pause the scroll. What's one small thing you can do next? 🎯",
	"You can't do everything, but you *can* do something. Let's start. 💪",
	"Set a 5-minute timer. Try one task. Then reassess. That's enough. ⏳",
}

const reviewPrompt = "📝 <b>Weekly Review</b>\n" +
	"- What did I follow through on?\n" +
	"- What got in the way?\n" +
	"- What's one thing I'm proud of?\n" +
	"- What do I want to try next week?"

const buddyMessage = "👋 Hey buddy! Just checking in. How are you feeling today? What's one thing you're working on?"

const checkInMessage = "👋 Daily check-in! How are you feeling today? What's one thing you want to accomplish?"

// Bot is the Telegram adapter: it parses chat identity into the opaque
// user id, dispatches commands to the core services and renders results
// as chat messages. It also delivers the daily check-in DMs, so it
// satisfies service.Notifier.
type Bot struct {
	api       *tgbotapi.BotAPI
	tasks     *service.TaskService
	streaks   *service.StreakService
	analytics *service.AnalyticsService
	clock     clock.Clock
	log       zerolog.Logger
}

func New(token string, tasks *service.TaskService, streaks *service.StreakService, analytics *service.AnalyticsService, clk clock.Clock, log zerolog.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("create bot api: %w", err)
	}

	log.Info().Str("account", api.Self.UserName).Msg("bot authorized")

	return &Bot{
		api:       api,
		tasks:     tasks,
		streaks:   streaks,
		analytics: analytics,
		clock:     clk,
		log:       log,
	}, nil
}

// Start begins polling updates until ctx is cancelled.
func (b *Bot) Start(ctx context.Context) error {
	updateConfig := tgbotapi.NewUpdate(0)
	updateConfig.Timeout = 60
	updates := b.api.GetUpdatesChan(updateConfig)

	b.log.Info().Msg("start polling updates")

	go func() {
		<-ctx.Done()
		b.api.StopReceivingUpdates()
	}()

	for update := range updates {
		if update.Message == nil || update.Message.From == nil {
			continue
		}
		if update.Message.Chat == nil || !update.Message.Chat.IsPrivate() {
			continue
		}
		if !update.Message.IsCommand() {
			if err := b.sendText(update.Message.Chat.ID, "I didn't catch that. Try /guide for the command list."); err != nil {
				b.log.Error().Err(err).Msg("send reply")
			}
			continue
		}
		if err := b.handleCommand(ctx, update.Message); err != nil {
			b.log.Error().Err(err).Str("command", update.Message.Command()).Msg("handle command")
		}
	}

	return nil
}

// SendDailyCheckIn implements service.Notifier. The opaque user id is the
// Telegram chat id in string form.
func (b *Bot) SendDailyCheckIn(ctx context.Context, userID string) error {
	chatID, err := strconv.ParseInt(userID, 10, 64)
	if err != nil {
		return fmt.Errorf("parse user id %q: %w", userID, err)
	}

	done := make(chan error, 1)
	go func() {
		done <- b.sendText(chatID, checkInMessage)
	}()
	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message) error {
	b.log.Info().Int64("from", msg.From.ID).Str("command", msg.Command()).Msg("command received")

	switch msg.Command() {
	case "start":
		return b.sendText(msg.Chat.ID, "👋 Hi! I'm Reliabot — I help you follow through.\nAdd a task with /addtask, mark it done with /done, and check /guide for everything else.")
	case "guide", "help":
		return b.handleGuide(msg)
	case "addtask":
		return b.handleAddTask(ctx, msg)
	case "progress", "tasks":
		return b.handleProgress(ctx, msg)
	case "done":
		return b.handleDone(ctx, msg)
	case "listdone":
		return b.handleListDone(ctx, msg)
	case "clearcompleted":
		return b.handleClearCompleted(ctx, msg)
	case "summary":
		return b.handleSummary(ctx, msg)
	case "streak":
		return b.handleStreak(ctx, msg)
	case "setreminder":
		return b.handleSetReminder(ctx, msg)
	case "stopreminder":
		return b.handleStopReminder(ctx, msg)
	case "affirmation":
		return b.sendText(msg.Chat.ID, pick(affirmations))
	case "panic":
		return b.sendText(msg.Chat.ID, pick(panicMessages))
	case "refocus":
		return b.sendText(msg.Chat.ID, pick(refocusPrompts))
	case "review":
		return b.sendText(msg.Chat.ID, reviewPrompt)
	case "buddy":
		return b.sendText(msg.Chat.ID, buddyMessage)
	default:
		return b.sendText(msg.Chat.ID, "Unknown command. Check /guide.")
	}
}

func (b *Bot) handleGuide(msg *tgbotapi.Message) error {
	text := "<b>✅ Task & Goal Tracking</b>\n" +
		"/addtask — add a task\n" +
		"/progress — view open tasks\n" +
		"/done — mark a task done (by number or text)\n" +
		"/listdone — view completed tasks\n" +
		"/clearcompleted — clear completed tasks\n" +
		"/summary — weekly summary of accomplishments\n" +
		"/streak — daily check-in streak\n" +
		"/review — weekly review prompt\n\n" +
		"<b>🧠 Focus & Encouragement</b>\n" +
		"/affirmation — positive self-affirmation\n" +
		"/panic — calming messages for overwhelm\n" +
		"/refocus — get back on track\n" +
		"/buddy — daily encouragement\n\n" +
		"<b>🤝 Accountability</b>\n" +
		"/setreminder — set daily reminder hour (0–23)\n" +
		"/stopreminder — disable the daily reminder\n" +
		"(The daily DM check-in runs automatically.)"
	return b.sendText(msg.Chat.ID, text)
}

func (b *Bot) handleAddTask(ctx context.Context, msg *tgbotapi.Message) error {
	name := strings.TrimSpace(msg.CommandArguments())
	if name == "" {
		return b.sendText(msg.Chat.ID, "Tell me the task: /addtask write the report")
	}

	userID := identity(msg.From)
	task, err := b.tasks.Add(ctx, userID, userID, service.TaskInput{Name: name})
	if err != nil {
		return b.replyError(msg.Chat.ID, err)
	}
	return b.sendText(msg.Chat.ID, fmt.Sprintf("✅ Task #%d added: %s", task.ID, escape(task.Name)))
}

func (b *Bot) handleProgress(ctx context.Context, msg *tgbotapi.Message) error {
	userID := identity(msg.From)
	tasks, err := b.tasks.List(ctx, userID, userID)
	if err != nil {
		return b.replyError(msg.Chat.ID, err)
	}

	var open []model.Task
	for _, task := range tasks {
		if !task.Completed {
			open = append(open, task)
		}
	}
	if len(open) == 0 {
		return b.sendText(msg.Chat.ID, "You haven't added any open tasks yet. Use /addtask to start!")
	}

	var builder strings.Builder
	builder.WriteString("📋 <b>Your tasks</b>\n")
	for _, task := range open {
		builder.WriteString(fmt.Sprintf("• #%d %s\n", task.ID, escape(task.Name)))
	}
	return b.sendText(msg.Chat.ID, strings.TrimSpace(builder.String()))
}

func (b *Bot) handleDone(ctx context.Context, msg *tgbotapi.Message) error {
	args := strings.TrimSpace(msg.CommandArguments())
	if args == "" {
		return b.sendText(msg.Chat.ID, "Which task? /done 3 or /done write the report")
	}

	sel := service.TaskSelector{Name: args}
	if id, err := strconv.ParseUint(args, 10, 64); err == nil {
		sel = service.TaskSelector{ID: uint(id)}
	}

	userID := identity(msg.From)
	changed, err := b.tasks.Complete(ctx, userID, userID, sel)
	if err != nil {
		return b.replyError(msg.Chat.ID, err)
	}
	if !changed {
		return b.sendText(msg.Chat.ID, "⚠️ Couldn't find that task. Check /progress to see your list.")
	}
	return b.sendText(msg.Chat.ID, fmt.Sprintf("🎉 Task marked as done: %s", escape(args)))
}

func (b *Bot) handleListDone(ctx context.Context, msg *tgbotapi.Message) error {
	userID := identity(msg.From)
	completed, err := b.tasks.ListCompleted(ctx, userID, userID)
	if err != nil {
		return b.replyError(msg.Chat.ID, err)
	}
	if len(completed) == 0 {
		return b.sendText(msg.Chat.ID, "You haven't completed any tasks yet.")
	}

	var builder strings.Builder
	builder.WriteString("✅ <b>Completed tasks</b>\n")
	for _, task := range completed {
		date := ""
		if task.CompletedDate != nil {
			date = fmt.Sprintf(" (%s)", *task.CompletedDate)
		}
		builder.WriteString(fmt.Sprintf("• %s%s\n", escape(task.Name), date))
	}
	return b.sendText(msg.Chat.ID, strings.TrimSpace(builder.String()))
}

func (b *Bot) handleClearCompleted(ctx context.Context, msg *tgbotapi.Message) error {
	userID := identity(msg.From)
	if err := b.tasks.ClearCompleted(ctx, userID, userID); err != nil {
		return b.replyError(msg.Chat.ID, err)
	}
	return b.sendText(msg.Chat.ID, "🗑️ Your completed tasks list has been cleared.")
}

func (b *Bot) handleSummary(ctx context.Context, msg *tgbotapi.Message) error {
	userID := identity(msg.From)
	summary, err := b.analytics.Summary(ctx, userID, b.clock.Now())
	if err != nil {
		return b.replyError(msg.Chat.ID, err)
	}
	return b.sendText(msg.Chat.ID, fmt.Sprintf(
		"📈 This week you completed %d task(s).\n🔥 Your current streak is %d day(s). Great work!",
		summary.CompletedThisWeek, summary.Streak))
}

func (b *Bot) handleStreak(ctx context.Context, msg *tgbotapi.Message) error {
	userID := identity(msg.From)
	streak, err := b.streaks.CheckIn(ctx, userID, b.clock.Now())
	if err != nil {
		return b.replyError(msg.Chat.ID, err)
	}
	return b.sendText(msg.Chat.ID, fmt.Sprintf("🔥 Your current streak is %d day(s)!", streak))
}

func (b *Bot) handleSetReminder(ctx context.Context, msg *tgbotapi.Message) error {
	args := strings.TrimSpace(msg.CommandArguments())
	hour, err := strconv.Atoi(args)
	if err != nil {
		return b.sendText(msg.Chat.ID, "Give me an hour in 24h format: /setreminder 9")
	}

	userID := identity(msg.From)
	if err := b.tasks.SetReminder(ctx, userID, userID, hour); err != nil {
		return b.replyError(msg.Chat.ID, err)
	}
	return b.sendText(msg.Chat.ID, fmt.Sprintf("✅ Daily check-in reminder set to %02d:00.", hour))
}

func (b *Bot) handleStopReminder(ctx context.Context, msg *tgbotapi.Message) error {
	userID := identity(msg.From)
	if err := b.tasks.ClearReminder(ctx, userID, userID); err != nil {
		return b.replyError(msg.Chat.ID, err)
	}
	return b.sendText(msg.Chat.ID, "🔕 Daily check-in reminder disabled.")
}

func (b *Bot) replyError(chatID int64, err error) error {
	var validation *service.ValidationError
	if errors.As(err, &validation) {
		return b.sendText(chatID, fmt.Sprintf("⛔ %s", escape(validation.Error())))
	}
	b.log.Error().Err(err).Msg("command failed")
	return b.sendText(chatID, "Something went wrong on my side. Please try again in a bit.")
}

func (b *Bot) sendText(chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	_, err := b.api.Send(msg)
	return err
}

func identity(from *tgbotapi.User) string {
	return strconv.FormatInt(from.ID, 10)
}

func escape(s string) string {
	return html.EscapeString(strings.TrimSpace(s))
}

func pick(options []string) string {
	return options[rand.Intn(len(options))]
}

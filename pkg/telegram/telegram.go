package telegram

import (
	"context"

	"github.com/akarakai/imgpdf/pkg/assembler"
	"github.com/akarakai/imgpdf/pkg/downloader"
	"github.com/akarakai/imgpdf/pkg/logger"
	"github.com/akarakai/imgpdf/pkg/repository"
	"github.com/akarakai/imgpdf/pkg/session"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

type Service struct {
	bot      *bot.Bot
	db       repository.Database
	sessions *SessionStore
	fetcher  *downloader.Downloader
}

// NewTelegramService connects to the bot API. db may be nil, exports are
// then not recorded.
func NewTelegramService(apiKey string, db repository.Database, asm *assembler.Assembler, maxFileSize int64) (*Service, error) {
	b, err := bot.New(apiKey)
	if err != nil {
		return nil, err
	}

	var history repository.ExportRepo
	if db != nil {
		history = db.GetExportRepo()
	}
	return &Service{
		bot: b,
		db:  db,
		sessions: NewSessionStore(func() *session.Session {
			return session.New(session.SourceTelegram, asm, history)
		}),
		fetcher: downloader.New(maxFileSize),
	}, nil
}

// Start registers the handlers and polls for updates until ctx is done.
func (t *Service) Start(ctx context.Context) {
	t.bot.RegisterHandler(bot.HandlerTypeMessageText, "start", bot.MatchTypeCommand, infoHandler)

	t.bot.RegisterHandler(bot.HandlerTypeMessageText, "info", bot.MatchTypeCommand, infoHandler)

	t.bot.RegisterHandler(bot.HandlerTypeMessageText, "help", bot.MatchTypeCommand, infoHandler)

	t.bot.RegisterHandler(bot.HandlerTypeMessageText, "list", bot.MatchTypeCommand,
		func(ctx context.Context, b *bot.Bot, update *models.Update) {
			listHandler(ctx, b, update, t.sessions)
		})

	t.bot.RegisterHandler(bot.HandlerTypeMessageText, "remove", bot.MatchTypeCommand,
		func(ctx context.Context, b *bot.Bot, update *models.Update) {
			removeHandler(ctx, b, update, t.sessions)
		})

	t.bot.RegisterHandler(bot.HandlerTypeMessageText, "move", bot.MatchTypeCommand,
		func(ctx context.Context, b *bot.Bot, update *models.Update) {
			moveHandler(ctx, b, update, t.sessions)
		})

	t.bot.RegisterHandler(bot.HandlerTypeMessageText, "clear", bot.MatchTypeCommand,
		func(ctx context.Context, b *bot.Bot, update *models.Update) {
			clearHandler(ctx, b, update, t.sessions)
		})

	t.bot.RegisterHandler(bot.HandlerTypeMessageText, "pdf", bot.MatchTypeCommand,
		func(ctx context.Context, b *bot.Bot, update *models.Update) {
			pdfHandler(ctx, b, update, t.sessions)
		})

	t.bot.RegisterHandler(bot.HandlerTypeMessageText, "history", bot.MatchTypeCommand,
		func(ctx context.Context, b *bot.Bot, update *models.Update) {
			historyHandler(ctx, b, update, t.sessions, t.db)
		})

	t.bot.RegisterHandlerMatchFunc(isMediaMessage,
		func(ctx context.Context, b *bot.Bot, update *models.Update) {
			mediaHandler(ctx, b, update, t.sessions, t.fetcher)
		})

	logger.Log.Infof("starting the bot")
	t.bot.Start(ctx)
}

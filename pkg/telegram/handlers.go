package telegram

import (
	"context"
	"fmt"
	"time"

	"github.com/akarakai/imgpdf/pkg/downloader"
	"github.com/akarakai/imgpdf/pkg/intake"
	"github.com/akarakai/imgpdf/pkg/logger"
	"github.com/akarakai/imgpdf/pkg/model"
	"github.com/akarakai/imgpdf/pkg/repository"
	"github.com/akarakai/imgpdf/pkg/session"
	"github.com/akarakai/imgpdf/pkg/sink"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

func infoHandler(ctx context.Context, b *bot.Bot, update *models.Update) {
	const welcomeMsg = `Welcome to imgpdf!
Send me images, as photos or as files, and I will put them together in one PDF.
Every image gets its own page, in the order of your list.

Commands:
/info - Show this help message
/list - Show your images in page order
/remove N - Remove image N
/move FROM TO - Move image FROM so that it becomes image TO
/clear - Remove all images
/pdf - Create the PDF and send it here
/history - Show the PDFs created in this chat
`
	sendMessage(ctx, b, update.Message.Chat.ID, welcomeMsg, nil)
}

// /list handler
func listHandler(ctx context.Context, b *bot.Bot, update *models.Update, sessions *SessionStore) {
	chatID := model.ChatID(update.Message.Chat.ID)
	sendMessage(ctx, b, int64(chatID), listReply(sessions.Get(chatID)), nil)
	logger.Log.Infow("image list sent to user", "chat_id", chatID)
}

// /remove handler
func removeHandler(ctx context.Context, b *bot.Bot, update *models.Update, sessions *SessionStore) {
	chatID := model.ChatID(update.Message.Chat.ID)
	sendMessage(ctx, b, int64(chatID), removeReply(sessions.Get(chatID), update.Message.Text), nil)
}

// /move handler
func moveHandler(ctx context.Context, b *bot.Bot, update *models.Update, sessions *SessionStore) {
	chatID := model.ChatID(update.Message.Chat.ID)
	sendMessage(ctx, b, int64(chatID), moveReply(sessions.Get(chatID), update.Message.Text), nil)
}

// /clear handler
func clearHandler(ctx context.Context, b *bot.Bot, update *models.Update, sessions *SessionStore) {
	chatID := model.ChatID(update.Message.Chat.ID)
	sessions.Get(chatID).Images.Clear()
	logger.Log.Infow("image list cleared", "chat_id", chatID)
	removeKeyboardFromUser(ctx, b, int64(chatID), "All images removed. Send new images to start again.")
}

// /pdf handler
// the document itself is the delivery, the list is kept so the user can
// reorder and export again
func pdfHandler(ctx context.Context, b *bot.Bot, update *models.Update, sessions *SessionStore) {
	chatID := model.ChatID(update.Message.Chat.ID)
	sess := sessions.Get(chatID)
	if sess.Images.Len() == 0 {
		sendMessage(ctx, b, int64(chatID), session.UserMessage(model.ErrEmptyDocument), nil)
		return
	}

	_, err := b.SendChatAction(ctx, &bot.SendChatActionParams{
		ChatID: int64(chatID),
		Action: models.ChatActionUploadDocument,
	})
	if err != nil {
		logger.Log.Debugw("could not send chat action", "err", err)
	}

	persister := sink.Persister{
		Fallback: documentSaver{sender: b, chatID: int64(chatID)},
	}
	report, err := sess.Export(ctx, persister)
	if err != nil {
		logger.Log.Errorw("error when exporting the pdf", "err", err, "chat_id", chatID)
		sendMessage(ctx, b, int64(chatID), session.UserMessage(err), nil)
		return
	}
	logger.Log.Infow("pdf sent successfully", "chat_id", chatID, "pages", report.PageCount, "sizeBytes", report.ByteSize)
	removeKeyboardFromUser(ctx, b, int64(chatID), pdfReply(report))
}

// /history handler
func historyHandler(ctx context.Context, b *bot.Bot, update *models.Update, sessions *SessionStore, db repository.Database) {
	chatID := model.ChatID(update.Message.Chat.ID)
	if db == nil {
		sendMessage(ctx, b, int64(chatID), "History is not available on this bot.", nil)
		return
	}
	sess, ok := sessions.Lookup(chatID)
	if !ok {
		sendMessage(ctx, b, int64(chatID), historyReply(nil, time.Now()), nil)
		return
	}
	exports, err := db.GetExportRepo().FindExportsOfSession(sess.ID)
	if err != nil {
		logger.Log.Errorw("error when finding exports", "err", err)
		sendMessage(ctx, b, int64(chatID), "there was an error, could not find the history of this chat", nil)
		return
	}
	sendMessage(ctx, b, int64(chatID), historyReply(exports, time.Now()), nil)
}

func isMediaMessage(update *models.Update) bool {
	if update.Message == nil {
		return false
	}
	return len(update.Message.Photo) > 0 || update.Message.Document != nil
}

// photos and documents
// the file is downloaded from the bot api and added to the end of the list
func mediaHandler(ctx context.Context, b *bot.Bot, update *models.Update, sessions *SessionStore, fetcher *downloader.Downloader) {
	if update.Message == nil {
		logger.Log.Error("Update message is nil")
		return
	}
	chatID := model.ChatID(update.Message.Chat.ID)
	ref, ok := mediaOf(update.Message)
	if !ok {
		return
	}
	logger.Log.Infow("new image", "chat_id", chatID, "name", ref.name, "type", ref.contentType)

	if !intake.IsImageType(ref.contentType) {
		sendMessage(ctx, b, int64(chatID), session.UserMessage(model.ErrUnsupportedType), nil)
		return
	}
	if fetcher.MaxBytes > 0 && ref.size > fetcher.MaxBytes {
		sendMessage(ctx, b, int64(chatID), fmt.Sprintf("%s is too big, the limit is %s.",
			ref.name, model.FormatByteSize(fetcher.MaxBytes)), nil)
		return
	}

	c, err := fetchMedia(ctx, b, fetcher, ref)
	if err != nil {
		logger.Log.Errorw("error when downloading the file", "err", err, "chat_id", chatID)
		sendMessage(ctx, b, int64(chatID), "Could not download the image, please send it again.", nil)
		return
	}

	sendMessage(ctx, b, int64(chatID), addReply(sessions.Get(chatID), c), createActionKeyboard())
}

func fetchMedia(ctx context.Context, b *bot.Bot, fetcher *downloader.Downloader, ref mediaRef) (intake.Candidate, error) {
	f, err := b.GetFile(ctx, &bot.GetFileParams{FileID: ref.fileID})
	if err != nil {
		return intake.Candidate{}, err
	}
	c, err := fetcher.Fetch(ctx, b.FileDownloadLink(f))
	if err != nil {
		return intake.Candidate{}, err
	}
	// the file server does not know the original name or type
	c.Name = ref.name
	c.ContentType = ref.contentType
	return c, nil
}

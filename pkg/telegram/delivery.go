package telegram

import (
	"bytes"
	"context"
	"fmt"

	"github.com/akarakai/imgpdf/pkg/intake"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

type documentSender interface {
	SendDocument(ctx context.Context, params *bot.SendDocumentParams) (*models.Message, error)
}

// documentSaver is the download of a chat: the PDF is sent back as a document.
type documentSaver struct {
	sender documentSender
	chatID int64
}

func (d documentSaver) Save(ctx context.Context, data []byte, suggestedName string) (string, error) {
	_, err := d.sender.SendDocument(ctx, &bot.SendDocumentParams{
		ChatID: d.chatID,
		Document: &models.InputFileUpload{
			Filename: suggestedName,
			Data:     bytes.NewReader(data),
		},
	})
	if err != nil {
		return "", fmt.Errorf("error sending pdf: %w", err)
	}
	return fmt.Sprintf("telegram:%d/%s", d.chatID, suggestedName), nil
}

// mediaRef points to an uploaded file before it is downloaded.
type mediaRef struct {
	fileID      string
	name        string
	contentType string
	size        int64
}

// mediaOf picks the largest size of a photo, or the document as sent.
func mediaOf(msg *models.Message) (mediaRef, bool) {
	if len(msg.Photo) > 0 {
		best := msg.Photo[0]
		for _, p := range msg.Photo[1:] {
			if p.Width*p.Height > best.Width*best.Height {
				best = p
			}
		}
		return mediaRef{
			fileID:      best.FileID,
			name:        best.FileUniqueID + ".jpg",
			contentType: "image/jpeg",
			size:        int64(best.FileSize),
		}, true
	}

	if doc := msg.Document; doc != nil {
		name := doc.FileName
		if name == "" {
			name = doc.FileUniqueID
		}
		contentType := doc.MimeType
		if contentType == "" {
			contentType = intake.DeclaredType(name, nil)
		}
		return mediaRef{
			fileID:      doc.FileID,
			name:        name,
			contentType: contentType,
			size:        int64(doc.FileSize),
		}, true
	}
	return mediaRef{}, false
}

package telegram

import (
	"fmt"
	"strings"
	"time"

	"github.com/akarakai/imgpdf/pkg/intake"
	"github.com/akarakai/imgpdf/pkg/logger"
	"github.com/akarakai/imgpdf/pkg/model"
	"github.com/akarakai/imgpdf/pkg/session"
)

// The replies below only touch the session, the handlers send them.

func listReply(sess *session.Session) string {
	snap := sess.Images.Snapshot()
	if len(snap) == 0 {
		return "Your list is empty. Send me some images first."
	}
	rows := make([]string, 0, len(snap))
	for i, r := range snap {
		rows = append(rows, fmt.Sprintf("%d. %s (%dx%d, %s)", i+1, r.ID, r.PixelWidth, r.PixelHeight, model.FormatByteSize(r.ByteSize)))
	}
	return strings.Join(rows, "\n")
}

func addReply(sess *session.Session, c intake.Candidate) string {
	pos, added, err := sess.Images.Add(c)
	switch {
	case err != nil:
		logger.Log.Debugw("image rejected", "name", c.Name, "err", err)
		return session.UserMessage(err)
	case pos < 0:
		return fmt.Sprintf("%s is already being added.", c.Name)
	case !added:
		return fmt.Sprintf("%s is already image %d.", c.Name, pos+1)
	}
	return fmt.Sprintf("Added %s as image %d. Send more images or /pdf when you are done.", c.Name, pos+1)
}

func removeReply(sess *session.Session, text string) string {
	args, err := parseMessage("/remove", text)
	if err != nil {
		return "to remove an image, use /remove N"
	}
	pos, err := parsePositions(args, 1)
	if err != nil {
		logger.Log.Debugw("error in message of user", "err", err)
		return "to remove an image, use /remove N, where N is its number in /list"
	}
	rec, err := sess.Images.RemoveAt(pos[0])
	if err != nil {
		return session.UserMessage(err)
	}
	left := sess.Images.Len()
	return fmt.Sprintf("Removed %s. %d image%s left.", rec.ID, left, pluralS(left))
}

func moveReply(sess *session.Session, text string) string {
	args, err := parseMessage("/move", text)
	if err != nil {
		return "to move an image, use /move FROM TO"
	}
	pos, err := parsePositions(args, 2)
	if err != nil {
		logger.Log.Debugw("error in message of user", "err", err)
		return "to move an image, use /move FROM TO, for example /move 3 1 makes image 3 the first page"
	}
	if err := sess.Images.MoveTo(pos[0], pos[1]); err != nil {
		return session.UserMessage(err)
	}
	return listReply(sess)
}

func pdfReply(r *session.Report) string {
	return fmt.Sprintf("Here is your PDF: %d page%s, %s.", r.PageCount, pluralS(r.PageCount), model.FormatByteSize(int64(r.ByteSize)))
}

func historyReply(exports []model.Export, now time.Time) string {
	if len(exports) == 0 {
		return "No PDFs created in this chat yet."
	}
	rows := make([]string, 0, len(exports))
	for i, e := range exports {
		rows = append(rows, fmt.Sprintf("%d. %s\n%d page%s, %s, %s", i+1, e.FileName,
			e.PageCount, pluralS(e.PageCount), model.FormatByteSize(e.ByteSize), formatExportTime(e.CreatedAt, now)))
	}
	return strings.Join(rows, "\n\n")
}

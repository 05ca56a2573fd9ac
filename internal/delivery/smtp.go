package delivery

import (
	"context"
	"encoding/base64"
	"fmt"
	"mime/multipart"
	"net/smtp"
	"net/textproto"
	"os"
	"strings"

	"github.com/rs/zerolog"

	"github.com/44frames/stage-vision/internal/types"
)

// MaxAttachmentBytes is the largest archive that gets attached
// directly; bigger archives are mentioned in the body instead.
const MaxAttachmentBytes = 25 << 20

// SMTPConfig holds the outbound mail settings.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// SMTPCourier delivers the archive by email over SMTP with STARTTLS.
type SMTPCourier struct {
	cfg    SMTPConfig
	logger zerolog.Logger
}

// NewSMTPCourier creates an SMTP courier.
func NewSMTPCourier(cfg SMTPConfig, logger zerolog.Logger) *SMTPCourier {
	return &SMTPCourier{cfg: cfg, logger: logger}
}

// Send emails the delivery to the job's contact. The archive is
// attached when it fits under the attachment limit.
func (c *SMTPCourier) Send(_ context.Context, job *types.Job, archivePath string, summary Summary) error {
	attach := true
	if info, err := os.Stat(archivePath); err != nil {
		return fmt.Errorf("failed to stat archive: %w", err)
	} else if info.Size() >= MaxAttachmentBytes {
		c.logger.Warn().Str("job_id", job.ID).Int64("bytes", info.Size()).Msg("archive too large to attach")
		attach = false
	}

	msg, err := buildMessage(c.cfg.From, job, archivePath, summary, attach)
	if err != nil {
		return err
	}

	addr := fmt.Sprintf("%s:%d", c.cfg.Host, c.cfg.Port)
	var auth smtp.Auth
	if c.cfg.Username != "" && c.cfg.Password != "" {
		auth = smtp.PlainAuth("", c.cfg.Username, c.cfg.Password, c.cfg.Host)
	}

	// smtp.SendMail negotiates STARTTLS when the server offers it.
	if err := smtp.SendMail(addr, auth, c.cfg.From, []string{job.Contact.Email}, msg); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	c.logger.Info().Str("job_id", job.ID).Str("to", job.Contact.Email).Msg("delivery email sent")
	return nil
}

// buildMessage assembles a multipart MIME message with a plain-text
// body and, optionally, the zip attachment.
func buildMessage(from string, job *types.Job, archivePath string, summary Summary, attach bool) ([]byte, error) {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("From: %s\r\n", from))
	sb.WriteString(fmt.Sprintf("To: %s\r\n", job.Contact.Email))
	sb.WriteString(fmt.Sprintf("Subject: Your Stage Vision Photos Are Ready! | %s\r\n", job.Address))
	sb.WriteString("MIME-Version: 1.0\r\n")

	body := textBody(job, summary, attach)

	if !attach {
		sb.WriteString("Content-Type: text/plain; charset=utf-8\r\n\r\n")
		sb.WriteString(body)
		return []byte(sb.String()), nil
	}

	mw := multipart.NewWriter(&sb)
	sb.WriteString(fmt.Sprintf("Content-Type: multipart/mixed; boundary=%s\r\n\r\n", mw.Boundary()))

	textPart, err := mw.CreatePart(textproto.MIMEHeader{
		"Content-Type": {"text/plain; charset=utf-8"},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build message body: %w", err)
	}
	fmt.Fprint(textPart, body)

	data, err := os.ReadFile(archivePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read archive: %w", err)
	}
	zipPart, err := mw.CreatePart(textproto.MIMEHeader{
		"Content-Type":              {"application/zip"},
		"Content-Transfer-Encoding": {"base64"},
		"Content-Disposition":       {fmt.Sprintf("attachment; filename=staged_photos_%s.zip", job.ID)},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build attachment: %w", err)
	}
	fmt.Fprint(zipPart, base64.StdEncoding.EncodeToString(data))

	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize message: %w", err)
	}
	return []byte(sb.String()), nil
}

func textBody(job *types.Job, summary Summary, attach bool) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Hi %s,\r\n\r\n", job.Contact.Name)
	fmt.Fprintf(&sb, "Great news! Your virtually staged photos for %s are ready.\r\n\r\n", job.Address)
	fmt.Fprintf(&sb, "Style Applied: %s\r\n\r\n", job.Style.DisplayName())
	fmt.Fprintf(&sb, "Your %d photo(s) have been professionally transformed with virtual staging - empty rooms are furnished and occupied spaces are decluttered and refreshed, with original architecture and room dimensions preserved.\r\n\r\n", summary.Succeeded)
	if summary.Failed > 0 {
		fmt.Fprintf(&sb, "Note: %d photo(s) could not be processed and are not included in this delivery.\r\n\r\n", summary.Failed)
	}
	if attach {
		sb.WriteString("Your staged photos are attached to this email.\r\n\r\n")
	} else {
		sb.WriteString("Your staged photos are too large to attach; we will follow up with a download link.\r\n\r\n")
	}
	sb.WriteString("Thank you for choosing Stage Vision!\r\n")
	return sb.String()
}

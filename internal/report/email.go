package report

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"html"
	"mime/multipart"
	"net/smtp"
	"net/textproto"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/mateobel/convoscan/internal/config"
	"github.com/mateobel/convoscan/internal/models"
)

// Mailer sends the run digest over SMTP. The send function is injectable
// for tests; the zero value is not usable, construct with NewMailer.
type Mailer struct {
	cfg  config.EmailConfig
	send func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

func NewMailer(cfg config.EmailConfig) *Mailer {
	return &Mailer{cfg: cfg, send: smtp.SendMail}
}

// Send mails the digest to the configured recipient, attaching the ledger
// file when attachPath names a readable file. Missing credentials skip the
// send with a warning instead of failing the run.
func (m *Mailer) Send(s Summary, attachPath string) error {
	if !m.cfg.Configured() {
		logrus.Warn("email credentials not configured, skipping summary email")
		return nil
	}

	subject := fmt.Sprintf("Convocatorias %s: %d nuevas, %d cierran pronto",
		s.GeneratedOn.Format("2006-01-02"), len(s.New), len(s.Upcoming))

	msg, err := m.buildMessage(subject, htmlBody(s), attachPath)
	if err != nil {
		return fmt.Errorf("building email: %w", err)
	}

	addr := m.cfg.SMTPHost + ":" + m.cfg.SMTPPort
	auth := smtp.PlainAuth("", m.cfg.Sender, m.cfg.Password, m.cfg.SMTPHost)
	if err := m.send(addr, auth, m.cfg.Sender, []string{m.cfg.Recipient}, msg); err != nil {
		return fmt.Errorf("sending email: %w", err)
	}

	logrus.WithField("recipient", m.cfg.Recipient).Info("summary email sent")
	return nil
}

func (m *Mailer) buildMessage(subject, body, attachPath string) ([]byte, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	fmt.Fprintf(&buf, "From: %s\r\n", m.cfg.Sender)
	fmt.Fprintf(&buf, "To: %s\r\n", m.cfg.Recipient)
	fmt.Fprintf(&buf, "Subject: %s\r\n", subject)
	fmt.Fprintf(&buf, "MIME-Version: 1.0\r\n")
	fmt.Fprintf(&buf, "Content-Type: multipart/mixed; boundary=%s\r\n\r\n", w.Boundary())

	hdr := textproto.MIMEHeader{}
	hdr.Set("Content-Type", "text/html; charset=utf-8")
	part, err := w.CreatePart(hdr)
	if err != nil {
		return nil, err
	}
	if _, err := part.Write([]byte(body)); err != nil {
		return nil, err
	}

	if attachPath != "" {
		if err := attachFile(w, attachPath); err != nil {
			logrus.WithFields(logrus.Fields{"path": attachPath, "error": err}).
				Warn("could not attach ledger file, sending without it")
		}
	}

	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func attachFile(w *multipart.Writer, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	hdr := textproto.MIMEHeader{}
	hdr.Set("Content-Type", "text/csv; charset=utf-8")
	hdr.Set("Content-Transfer-Encoding", "base64")
	hdr.Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filepath.Base(path)))

	part, err := w.CreatePart(hdr)
	if err != nil {
		return err
	}
	_, err = part.Write([]byte(base64.StdEncoding.EncodeToString(data)))
	return err
}

func htmlBody(s Summary) string {
	var b bytes.Buffer

	fmt.Fprintf(&b, "<h2>Resumen de convocatorias, %s</h2>", s.GeneratedOn.Format("2006-01-02"))
	fmt.Fprintf(&b, "<p>Total registradas: <b>%d</b>. Nuevas en esta corrida: <b>%d</b>.</p>",
		s.Total, len(s.New))
	fmt.Fprintf(&b, "<p>Relevancia alta: %d, media: %d, baja: %d.</p>",
		s.ByRelevance[models.RelevanceHigh], s.ByRelevance[models.RelevanceMedium],
		s.ByRelevance[models.RelevanceLow])

	if len(s.Upcoming) > 0 {
		fmt.Fprintf(&b, "<h3>Cierran en los próximos %d días</h3>", upcomingWindowDays)
		writeRecordTable(&b, s, s.Upcoming)
	}
	if len(s.New) > 0 {
		b.WriteString("<h3>Nuevas oportunidades</h3>")
		writeRecordTable(&b, s, s.New)
	}
	if len(s.Upcoming) == 0 && len(s.New) == 0 {
		b.WriteString("<p>Sin novedades ni cierres próximos.</p>")
	}
	return b.String()
}

func writeRecordTable(b *bytes.Buffer, s Summary, records []models.Opportunity) {
	b.WriteString(`<table border="1" cellpadding="4" cellspacing="0">`)
	b.WriteString("<tr><th>Título</th><th>Entidad</th><th>Cierre</th><th>Días</th><th>Relevancia</th><th>Monto</th></tr>")
	for _, rec := range records {
		closes, days := "", ""
		if rec.ClosesOn != nil {
			closes = rec.ClosesOn.Format("2006-01-02")
			days = fmt.Sprintf("%d", s.DaysLeft(rec))
		}
		title := html.EscapeString(rec.Title)
		if rec.URL != "" {
			title = fmt.Sprintf(`<a href="%s">%s</a>`, html.EscapeString(rec.URL), title)
		}
		fmt.Fprintf(b, "<tr><td>%s</td><td>%s</td><td>%s</td><td>%s</td><td>%s</td><td>%s</td></tr>",
			title, html.EscapeString(rec.Entity), closes, days,
			html.EscapeString(string(rec.Relevance)), html.EscapeString(rec.Amount))
	}
	b.WriteString("</table>")
}

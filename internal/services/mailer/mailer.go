// Package mailer реализует отправку писем пользователям.
// Единственное письмо системы — ссылка для сброса пароля.
package mailer

import (
	"fmt"
	"log/slog"
	"mime/multipart"
	"net/textproto"
	"strings"

	"github.com/magabrotheeeer/home-inventory/internal/lib/sl"
	"github.com/magabrotheeeer/home-inventory/internal/lib/smtp"
)

// Mailer отправляет письма через SMTP транспорт.
type Mailer struct {
	transport smtp.TransportInterface
	log       *slog.Logger
	baseURL   string
}

// New создает новый экземпляр Mailer.
func New(transport smtp.TransportInterface, log *slog.Logger, baseURL string) *Mailer {
	return &Mailer{
		transport: transport,
		log:       log,
		baseURL:   baseURL,
	}
}

// SendPasswordReset отправляет письмо со ссылкой для сброса пароля.
// Ссылка содержит токен и действительна до истечения его срока.
func (m *Mailer) SendPasswordReset(email, name, resetToken string) error {
	link := m.baseURL + "/reset-password?token=" + resetToken

	subject := "Восстановление пароля Home Inventory"
	textBody := fmt.Sprintf(`Здравствуйте, %s!

Мы получили запрос на сброс пароля вашей учетной записи.
Чтобы задать новый пароль, перейдите по ссылке: %s

Ссылка действительна в течение одного часа. Если вы не запрашивали
сброс пароля, просто проигнорируйте это письмо.`, name, link)

	htmlBody := fmt.Sprintf(`<html><body>
<p>Здравствуйте, %s!</p>
<p>Мы получили запрос на сброс пароля вашей учетной записи.</p>
<p><a href="%s">Задать новый пароль</a></p>
<p>Ссылка действительна в течение одного часа. Если вы не запрашивали
сброс пароля, просто проигнорируйте это письмо.</p>
</body></html>`, name, link)

	return m.sendEmail([]string{email}, subject, textBody, htmlBody)
}

// sendEmail собирает multipart/alternative письмо (текст + HTML) и отправляет его.
func (m *Mailer) sendEmail(to []string, subject, textBody, htmlBody string) error {
	var body strings.Builder
	mw := multipart.NewWriter(&body)

	headers := strings.Join([]string{
		"From: " + m.transport.GetSMTPUser(),
		"To: " + strings.Join(to, ";"),
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: multipart/alternative; boundary=" + mw.Boundary(),
		"",
		"",
	}, "\r\n")

	textPart, err := mw.CreatePart(textproto.MIMEHeader{
		"Content-Type": {"text/plain; charset=\"UTF-8\""},
	})
	if err != nil {
		return fmt.Errorf("failed to create text part: %w", err)
	}
	if _, err = textPart.Write([]byte(textBody)); err != nil {
		return fmt.Errorf("failed to write text part: %w", err)
	}

	htmlPart, err := mw.CreatePart(textproto.MIMEHeader{
		"Content-Type": {"text/html; charset=\"UTF-8\""},
	})
	if err != nil {
		return fmt.Errorf("failed to create html part: %w", err)
	}
	if _, err = htmlPart.Write([]byte(htmlBody)); err != nil {
		return fmt.Errorf("failed to write html part: %w", err)
	}
	if err = mw.Close(); err != nil {
		return fmt.Errorf("failed to finish multipart body: %w", err)
	}

	msg := headers + body.String()

	client, err := m.transport.Connect()
	if err != nil {
		m.log.Error("failed to connect to SMTP server", sl.Err(err))
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	if err := client.Mail(m.transport.GetSMTPUser()); err != nil {
		m.log.Error("failed to set MAIL FROM", slog.String("from", m.transport.GetSMTPUser()), sl.Err(err))
		return err
	}

	for _, addr := range to {
		if err := client.Rcpt(addr); err != nil {
			m.log.Error("failed to set RCPT TO", slog.String("recipient", addr), sl.Err(err))
			return err
		}
	}

	wc, err := client.Data()
	if err != nil {
		m.log.Error("failed to get data writer", sl.Err(err))
		return err
	}

	if _, err = wc.Write([]byte(msg)); err != nil {
		m.log.Error("failed to write email body", sl.Err(err))
		return err
	}

	if err = wc.Close(); err != nil {
		m.log.Error("failed to close data writer", sl.Err(err))
		return err
	}

	if err = client.Quit(); err != nil {
		m.log.Error("failed to quit SMTP client", sl.Err(err))
		return err
	}

	m.log.Info("email sent successfully", slog.Any("to", to))
	return nil
}

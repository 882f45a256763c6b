package notifier

import (
	"bytes"
	"fmt"
	"html/template"
	"log"
	"netflix-loader/storage"
	"os"
	"time"

	gomail "gopkg.in/mail.v2"
)

// EmailNotifier mails a summary after each load
type EmailNotifier struct {
	smtpHost       string
	smtpPort       int
	senderEmail    string
	senderPass     string
	recipientEmail string
	htmlTemplate   *template.Template
}

// EmailConfig contains configuration for email notifications
type EmailConfig struct {
	SMTPHost       string
	SMTPPort       int
	SenderEmail    string
	SenderPassword string
	RecipientEmail string
}

// Enabled reports whether enough is configured to send mail
func (c EmailConfig) Enabled() bool {
	return c.SMTPHost != "" && c.RecipientEmail != ""
}

const summaryTemplate = `
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>Netflix Loader - Load Complete</title>
    <style>
        body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; max-width: 800px; margin: 0 auto; }
        h1 { color: #e50914; }
        table { border-collapse: collapse; margin-bottom: 20px; }
        th { background-color: #f4f4f4; text-align: left; padding: 10px; }
        td { padding: 10px; border-bottom: 1px solid #ddd; }
        .count { font-weight: bold; color: #e50914; }
        .footer { font-size: 12px; color: #666; margin-top: 50px; text-align: center; }
    </style>
</head>
<body>
    <h1>Netflix Loader - Load Complete</h1>
    <p>Dataset <b>{{.DatasetID}}</b> was loaded on {{.Date}}.</p>

    <table>
        <tr><th>Source file</th><td>{{.SourceFile}}</td></tr>
        <tr><th>Database</th><td>{{.DBPath}}</td></tr>
        <tr><th>Rows read</th><td class="count">{{.Read}}</td></tr>
        <tr><th>Rows inserted</th><td>{{.Inserted}}</td></tr>
        <tr><th>Duplicate show_id skipped</th><td>{{.Skipped}}</td></tr>
        {{if .Stats}}
        <tr><th>Movies</th><td>{{index .Stats "movies"}}</td></tr>
        <tr><th>TV Shows</th><td>{{index .Stats "tv_shows"}}</td></tr>
        {{end}}
    </table>

    <div class="footer">
        <p>This is an automated email from Netflix Loader. Please do not reply.</p>
    </div>
</body>
</html>
`

// NewEmailNotifier creates a new email notifier
func NewEmailNotifier(config EmailConfig) (*EmailNotifier, error) {
	tmpl, err := template.New("email").Parse(summaryTemplate)
	if err != nil {
		return nil, fmt.Errorf("failed to parse email template: %w", err)
	}

	return &EmailNotifier{
		smtpHost:       config.SMTPHost,
		smtpPort:       config.SMTPPort,
		senderEmail:    config.SenderEmail,
		senderPass:     config.SenderPassword,
		recipientEmail: config.RecipientEmail,
		htmlTemplate:   tmpl,
	}, nil
}

// GetEmailConfigFromEnv loads email configuration from environment variables
func GetEmailConfigFromEnv() EmailConfig {
	smtpPort := 587
	if portStr := os.Getenv("EMAIL_SMTP_PORT"); portStr != "" {
		if p, err := fmt.Sscanf(portStr, "%d", &smtpPort); err != nil || p != 1 {
			log.Printf("Invalid SMTP port '%s', using default 587", portStr)
			smtpPort = 587
		}
	}

	return EmailConfig{
		SMTPHost:       os.Getenv("EMAIL_SMTP_HOST"),
		SMTPPort:       smtpPort,
		SenderEmail:    os.Getenv("EMAIL_SENDER"),
		SenderPassword: os.Getenv("EMAIL_PASSWORD"),
		RecipientEmail: os.Getenv("EMAIL_RECIPIENT"),
	}
}

// buildMessage renders the summary into a multipart message
func (n *EmailNotifier) buildMessage(result storage.LoadResult, now time.Time) (*gomail.Message, error) {
	data := struct {
		storage.LoadResult
		Date    string
		Skipped int
	}{
		LoadResult: result,
		Date:       now.Format("January 2, 2006 at 3:04 PM"),
		Skipped:    result.Skipped(),
	}

	var emailBody bytes.Buffer
	if err := n.htmlTemplate.Execute(&emailBody, data); err != nil {
		return nil, fmt.Errorf("failed to render email template: %w", err)
	}

	m := gomail.NewMessage()
	m.SetHeader("From", n.senderEmail)
	m.SetHeader("To", n.recipientEmail)
	m.SetHeader("Subject", fmt.Sprintf("Netflix Loader: %d rows loaded from %s", result.Read, result.DatasetID))

	plainText := fmt.Sprintf(
		"Netflix Loader - Load Complete\n\n"+
			"Dataset %s loaded on %s.\n"+
			"Rows read: %d\nRows inserted: %d\nDuplicate show_id skipped: %d\n\n"+
			"Database: %s\n\n"+
			"This is an automated email from Netflix Loader. Please do not reply.",
		result.DatasetID, data.Date, result.Read, result.Inserted, data.Skipped, result.DBPath)

	m.SetBody("text/plain", plainText)
	m.AddAlternative("text/html", emailBody.String())

	return m, nil
}

// NotifyLoadComplete sends the summary of a finished load
func (n *EmailNotifier) NotifyLoadComplete(result storage.LoadResult) error {
	if n.recipientEmail == "" {
		log.Println("No recipient email configured, skipping notification")
		return nil
	}

	m, err := n.buildMessage(result, time.Now())
	if err != nil {
		return err
	}

	d := gomail.NewDialer(n.smtpHost, n.smtpPort, n.senderEmail, n.senderPass)

	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	log.Printf("Load summary sent to %s", n.recipientEmail)
	return nil
}

package notify

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"net"
	"net/smtp"
	"strconv"
	"strings"
	"time"
)

//go:embed templates/*.html
var templateFS embed.FS

// MailerConfig holds SMTP settings and branding.
type MailerConfig struct {
	Host        string
	Port        int
	Username    string
	Password    string
	From        string
	FromName    string
	FrontendURL string
	Brand       string
}

type mailContent struct {
	subject    string
	title      string
	accent     string
	codeLabel  string
	disclaimer string
}

var contents = map[Kind]mailContent{
	KindWelcome: {
		subject:    "Welcome - Verify Your Email",
		title:      "Welcome!",
		accent:     "#f7931e",
		codeLabel:  "Your verification code:",
		disclaimer: "If you did not sign up, you can safely ignore this email.",
	},
	KindVerification: {
		subject:    "Email Verification",
		title:      "Email Verification",
		accent:     "#00bfff",
		codeLabel:  "Your verification code:",
		disclaimer: "If you did not sign up, you can safely ignore this email.",
	},
	KindPasswordReset: {
		subject:    "Password Reset",
		title:      "Password Reset Request",
		accent:     "#f44336",
		codeLabel:  "Your reset code:",
		disclaimer: "If you did not request a password reset, you can safely ignore this email.",
	},
}

type sendFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// Mailer renders a Message and sends it over SMTP. smtp.SendMail upgrades to
// STARTTLS when the server offers it.
type Mailer struct {
	cfg       MailerConfig
	templates map[Kind]*template.Template
	send      sendFunc
	now       func() time.Time
}

func NewMailer(cfg MailerConfig) (*Mailer, error) {
	if cfg.Brand == "" {
		cfg.Brand = "Pasar"
	}
	templates := make(map[Kind]*template.Template, len(contents))
	for kind := range contents {
		tmpl, err := template.ParseFS(templateFS, "templates/layout.html", "templates/"+string(kind)+".html")
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s template: %w", kind, err)
		}
		templates[kind] = tmpl
	}
	return &Mailer{cfg: cfg, templates: templates, send: smtp.SendMail, now: time.Now}, nil
}

// Render produces the subject and HTML body for msg.
func (m *Mailer) Render(msg Message) (subject, body string, err error) {
	content, ok := contents[msg.Kind]
	if !ok {
		return "", "", fmt.Errorf("unknown notification kind %q", msg.Kind)
	}

	var buf bytes.Buffer
	err = m.templates[msg.Kind].ExecuteTemplate(&buf, "layout", map[string]interface{}{
		"Title":      content.title,
		"Accent":     template.CSS(content.accent),
		"CodeLabel":  content.codeLabel,
		"Disclaimer": content.disclaimer,
		"Name":       msg.Data[DataName],
		"Code":       msg.Data[DataCode],
		"LoginURL":   strings.TrimRight(m.cfg.FrontendURL, "/") + "/login",
		"Year":       m.now().Year(),
		"Brand":      m.cfg.Brand,
	})
	if err != nil {
		return "", "", fmt.Errorf("failed to render %s template: %w", msg.Kind, err)
	}
	return content.subject, buf.String(), nil
}

// Deliver renders and sends msg.
func (m *Mailer) Deliver(_ context.Context, msg Message) error {
	if strings.ContainsAny(msg.To, "\r\n") {
		return fmt.Errorf("invalid recipient %q", msg.To)
	}
	subject, body, err := m.Render(msg)
	if err != nil {
		return err
	}

	from := m.cfg.From
	if m.cfg.FromName != "" {
		from = fmt.Sprintf("%s <%s>", m.cfg.FromName, m.cfg.From)
	}
	raw := strings.Join([]string{
		"From: " + from,
		"To: " + msg.To,
		"Subject: " + subject,
		"MIME-Version: 1.0",
		`Content-Type: text/html; charset="UTF-8"`,
		"",
		body,
	}, "\r\n")

	var auth smtp.Auth
	if m.cfg.Username != "" {
		auth = smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
	}
	addr := net.JoinHostPort(m.cfg.Host, strconv.Itoa(m.cfg.Port))
	if err := m.send(addr, auth, m.cfg.From, []string{msg.To}, []byte(raw)); err != nil {
		return fmt.Errorf("failed to send %s mail to %s: %w", msg.Kind, msg.To, err)
	}
	return nil
}

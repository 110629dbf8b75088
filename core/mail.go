package core

import (
	"bytes"
	"embed"
	htmltmpl "html/template"
	"net/mail"
	"path"
	"sync"
	texttmpl "text/template"

	"github.com/pkg/errors"
)

//go:embed assets/templates/email
var emailTemplatesFS embed.FS

var (
	textTemplates *texttmpl.Template
	htmlTemplates *htmltmpl.Template
	tmplInit      sync.Once
)

type (
	Attachment struct {
		Content     *bytes.Buffer
		ContentType string
		Filename    string
	}

	EmailMessage struct {
		To          []mail.Address
		Cc          []mail.Address
		Bcc         []mail.Address
		Subject     string
		BodyStr     string // simple text/plain, non-templated content
		Attachments []Attachment

		// templated contents
		TemplateName string // without ext
		TemplateData interface{}
		TextContent  string
		HTMLContent  string
	}

	ContextData struct {
		FrontendBaseURL string
		Data            interface{}
	}

	// EmailService is any service that can send emails
	EmailService interface {
		// SendMessages sends messages concurrently
		SendMessages(messages ...*EmailMessage)
	}
)

// ParseEmailTemplates parses all embedded email templates once.
func ParseEmailTemplates(logger Logger) {
	tmplInit.Do(func() {
		var err error
		textTemplates, err = texttmpl.ParseFS(emailTemplatesFS, "assets/templates/email/*.txt")
		if err != nil {
			logger.Fatal("parsing text email templates", err)
		}
		htmlTemplates, err = htmltmpl.ParseFS(emailTemplatesFS, "assets/templates/email/*.html")
		if err != nil {
			logger.Fatal("parsing html email templates", err)
		}
	})
}

func (m *EmailMessage) getContextData(frontendBaseURL string) ContextData {
	return ContextData{
		FrontendBaseURL: frontendBaseURL,
		Data:            m.TemplateData,
	}
}

// Render resolves TextContent and HTMLContent from either BodyStr or the
// named templates.
func (m *EmailMessage) Render(frontendBaseURL string) error {
	if m.BodyStr != "" {
		m.TextContent = m.BodyStr
		return nil
	}
	if m.TemplateName == "" {
		return nil
	}

	data := m.getContextData(frontendBaseURL)

	if textTemplates != nil {
		if tmpl := textTemplates.Lookup(m.TemplateName + ".txt"); tmpl != nil {
			var buff bytes.Buffer
			if err := tmpl.Execute(&buff, data); err != nil {
				return errors.Wrap(err, "executing "+path.Join("email", m.TemplateName+".txt"))
			}
			m.TextContent = buff.String()
		}
	}
	if htmlTemplates != nil {
		if tmpl := htmlTemplates.Lookup(m.TemplateName + ".html"); tmpl != nil {
			var buff bytes.Buffer
			if err := tmpl.Execute(&buff, data); err != nil {
				return errors.Wrap(err, "executing "+path.Join("email", m.TemplateName+".html"))
			}
			m.HTMLContent = buff.String()
		}
	}
	return nil
}

func (m *EmailMessage) HasRecipients() bool {
	return len(m.To) > 0 || len(m.Cc) > 0 || len(m.Bcc) > 0
}

func (m *EmailMessage) HasContent() bool {
	return m.TextContent != "" || m.HTMLContent != ""
}

func (m *EmailMessage) HasAttachments() bool {
	return len(m.Attachments) > 0
}

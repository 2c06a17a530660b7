package service

import (
	"bytes"
	"fmt"
	htmltemplate "html/template"
	"strings"
	texttemplate "text/template"
	"unicode"

	"github.com/uncodesociety/signup-api/internal/models"
)

const registrationEmailHTML = `<div style="font-family: 'Inter', Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 40px 20px;">
  <h1 style="color: #1e293b; font-size: 24px; margin-bottom: 24px;">Nieuwe Les Aanmelding</h1>
  <div style="background: #f0f9ff; border-radius: 12px; padding: 24px; margin-bottom: 24px;">
    <h2 style="color: #0ea5e9; font-size: 18px; margin: 0 0 16px 0;">Deelnemer Informatie</h2>
    <table style="width: 100%; border-collapse: collapse;">
      {{template "row" (row "Naam" .FullName)}}
      {{template "row" (row "Leeftijd" (printf "%d jaar" .Age))}}
      {{template "row" (row "E-mail" .Email)}}
    </table>
  </div>
  <div style="background: #f0f9ff; border-radius: 12px; padding: 24px;">
    <h2 style="color: #0ea5e9; font-size: 18px; margin: 0 0 16px 0;">Les Details</h2>
    <table style="width: 100%; border-collapse: collapse;">
      {{template "row" (row "Les" .LessonTitle)}}
      {{template "row" (row "Taal" .LessonLanguage)}}
      {{template "row" (row "Niveau" .LessonLevel)}}
    </table>
  </div>
  <p style="color: #94a3b8; font-size: 12px; margin-top: 24px; text-align: center;">
    Dit bericht is automatisch verstuurd via Uncode Society.
  </p>
</div>
{{define "row"}}<tr>
        <td style="padding: 8px 0; color: #64748b; font-size: 14px;">{{.Label}}:</td>
        <td style="padding: 8px 0; color: #1e293b; font-weight: 600; font-size: 14px;">{{.Value}}</td>
      </tr>{{end}}`

const registrationEmailText = `Nieuwe Les Aanmelding

Deelnemer Informatie
Naam: {{.FullName}}
Leeftijd: {{.Age}} jaar
E-mail: {{.Email}}

Les Details
Les: {{.LessonTitle}}
Taal: {{.LessonLanguage}}
Niveau: {{.LessonLevel}}

Dit bericht is automatisch verstuurd via Uncode Society.
`

type emailRow struct {
	Label string
	Value string
}

var emailFuncs = htmltemplate.FuncMap{
	"row": func(label, value string) emailRow { return emailRow{Label: label, Value: value} },
}

var (
	registrationHTMLTemplate = htmltemplate.Must(htmltemplate.New("registration").Funcs(emailFuncs).Parse(registrationEmailHTML))
	registrationTextTemplate = texttemplate.Must(texttemplate.New("registration").Parse(registrationEmailText))
)

type registrationEmail struct {
	Subject string
	HTML    string
	Text    string
}

func composeRegistrationEmail(n models.RegistrationNotification) (registrationEmail, error) {
	var html, text bytes.Buffer
	if err := registrationHTMLTemplate.Execute(&html, n); err != nil {
		return registrationEmail{}, fmt.Errorf("render registration html: %w", err)
	}
	if err := registrationTextTemplate.Execute(&text, n); err != nil {
		return registrationEmail{}, fmt.Errorf("render registration text: %w", err)
	}
	return registrationEmail{
		Subject: fmt.Sprintf("Nieuwe Aanmelding: %s - %s", singleLine(n.FullName), singleLine(n.LessonTitle)),
		HTML:    html.String(),
		Text:    text.String(),
	}, nil
}

// singleLine keeps user input from spilling into additional header lines.
func singleLine(s string) string {
	return strings.Join(strings.FieldsFunc(s, func(r rune) bool {
		return unicode.IsControl(r) || unicode.IsSpace(r)
	}), " ")
}

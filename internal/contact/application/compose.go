package application

import (
	"bytes"
	"errors"
	"fmt"
	htmltemplate "html/template"
	"strings"
	texttemplate "text/template"
	"time"

	"github.com/baumsteiger-allgaeu/site/api/internal/contact/domain"
)

// PhoneNotProvided is rendered in place of a missing phone number.
const PhoneNotProvided = "Nicht angegeben"

const subjectPrefix = "Neue Kontaktanfrage von "

const textTemplate = `Neue Kontaktanfrage über die Website

Name: {{.Name}}
E-Mail: {{.Email}}
Telefon: {{.PhoneLabel}}

Nachricht:
{{.Message}}

---
Diese Nachricht wurde über das Kontaktformular auf baumsteiger-allgaeu.de gesendet.`

const htmlTemplate = `<!DOCTYPE html>
<html lang="de">
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>Neue Kontaktanfrage</title>
</head>
<body style="margin: 0; padding: 0; font-family: 'Segoe UI', Tahoma, Geneva, Verdana, sans-serif; background-color: #f4f4f0; color: #333;">
  <table role="presentation" style="width: 100%; border-collapse: collapse;">
    <tr>
      <td style="padding: 40px 20px;">
        <table role="presentation" style="max-width: 600px; margin: 0 auto; background-color: #ffffff; border-radius: 16px; overflow: hidden;">
          <tr>
            <td style="background: #2d5a27; padding: 32px 40px; text-align: center;">
              <h1 style="margin: 0; color: #ffffff; font-size: 24px; font-weight: 700;">Baumsteiger Allgäu</h1>
              <p style="margin: 8px 0 0; color: #ffffff; font-size: 14px;">Neue Kontaktanfrage über die Website</p>
            </td>
          </tr>
          <tr>
            <td style="padding: 40px;">
              <h2 style="margin: 0 0 20px; color: #2d5a27; font-size: 18px;">Kontaktdaten</h2>
              <table role="presentation" style="width: 100%;">
                <tr>
                  <td style="width: 100px; color: #666; font-size: 14px; vertical-align: top;">Name:</td>
                  <td style="color: #333; font-size: 14px; font-weight: 600;">{{.Name}}</td>
                </tr>
                <tr>
                  <td style="width: 100px; color: #666; font-size: 14px; vertical-align: top;">E-Mail:</td>
                  <td style="color: #333; font-size: 14px;"><a href="mailto:{{.Email}}" style="color: #2d5a27; font-weight: 600;">{{.Email}}</a></td>
                </tr>
                <tr>
                  <td style="width: 100px; color: #666; font-size: 14px; vertical-align: top;">Telefon:</td>
                  <td style="color: #333; font-size: 14px; font-weight: 600;">{{if .Phone}}<a href="tel:{{.PhoneDial}}" style="color: #2d5a27;">{{.Phone}}</a>{{else}}<span style="color: #999;">{{.PhoneLabel}}</span>{{end}}</td>
                </tr>
              </table>
              <h2 style="margin: 24px 0 16px; color: #2d5a27; font-size: 18px;">Nachricht</h2>
              <div style="border: 1px solid #e8ebe6; border-radius: 12px; padding: 20px; line-height: 1.7; color: #444; font-size: 15px;">
                {{range $i, $line := .MessageLines}}{{if $i}}<br>{{end}}{{$line}}{{end}}
              </div>
              <div style="margin-top: 32px; text-align: center;">
                <a href="mailto:{{.Email}}?subject={{.ReplySubject}}" style="display: inline-block; background: #2d5a27; color: #ffffff; text-decoration: none; padding: 14px 32px; border-radius: 8px; font-weight: 600; font-size: 14px;">Jetzt antworten</a>
              </div>
            </td>
          </tr>
          <tr>
            <td style="background-color: #f4f4f0; padding: 24px 40px; text-align: center; border-top: 1px solid #e8ebe6;">
              <p style="margin: 0; color: #666; font-size: 12px;">Diese Nachricht wurde über das Kontaktformular auf <a href="https://www.baumsteiger-allgaeu.de" style="color: #2d5a27;">baumsteiger-allgaeu.de</a> gesendet.</p>
              <p style="margin: 12px 0 0; color: #999; font-size: 11px;">© {{.Year}} Baumsteiger Allgäu – Raphael Bernhardt</p>
            </td>
          </tr>
        </table>
      </td>
    </tr>
  </table>
</body>
</html>`

var (
	textBody = texttemplate.Must(texttemplate.New("contact.txt").Parse(textTemplate))
	htmlBody = htmltemplate.Must(htmltemplate.New("contact.html").Parse(htmlTemplate))
)

type messageView struct {
	domain.Submission
	PhoneLabel   string
	PhoneDial    string
	MessageLines []string
	ReplySubject string
	Year         int
}

// ComposeMessage renders the notification the business receives for one
// submission. Replies go straight to the visitor.
func ComposeMessage(sub domain.Submission, from Mailbox, to string) (OutboundMessage, error) {
	if strings.TrimSpace(from.Address) == "" {
		return OutboundMessage{}, errors.New("sender address is empty")
	}
	if strings.TrimSpace(to) == "" {
		return OutboundMessage{}, errors.New("recipient address is empty")
	}

	view := messageView{
		Submission:   sub,
		PhoneLabel:   PhoneNotProvided,
		MessageLines: strings.Split(strings.ReplaceAll(sub.Message, "\r\n", "\n"), "\n"),
		ReplySubject: "Re: Ihre Anfrage bei Baumsteiger Allgäu",
		Year:         time.Now().Year(),
	}
	if sub.HasPhone() {
		view.PhoneLabel = sub.Phone
		view.PhoneDial = strings.Join(strings.Fields(sub.Phone), "")
	}

	var text bytes.Buffer
	if err := textBody.Execute(&text, view); err != nil {
		return OutboundMessage{}, fmt.Errorf("render text body: %w", err)
	}
	var html bytes.Buffer
	if err := htmlBody.Execute(&html, view); err != nil {
		return OutboundMessage{}, fmt.Errorf("render html body: %w", err)
	}

	return OutboundMessage{
		From:     from,
		To:       []string{to},
		ReplyTo:  sub.Email,
		Subject:  subjectPrefix + sub.Name,
		TextBody: text.String(),
		HTMLBody: html.String(),
	}, nil
}

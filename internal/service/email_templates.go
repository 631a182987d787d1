package service

import (
	"bytes"
	"fmt"
	"html/template"
)

type emailData struct {
	AppName  string
	Username string
	URL      string
	Expiry   string
}

var confirmEmailTemplate = template.Must(template.New("confirm").Parse(`<!DOCTYPE html>
<html>
<body>
<p>Dear {{.Username}},</p>
<p>Welcome to {{.AppName}}! To confirm your account please click on the following link:</p>
<p><a href="{{.URL}}">{{.URL}}</a></p>
<p>This link expires in {{.Expiry}} and can only be used once.</p>
<p>If you didn't sign up, you can safely ignore this email.</p>
<p>Best,<br>The {{.AppName}} Team</p>
</body>
</html>`))

var resetPasswordTemplate = template.Must(template.New("reset").Parse(`<!DOCTYPE html>
<html>
<body>
<p>Dear {{.Username}},</p>
<p>To reset your password click on the following link:</p>
<p><a href="{{.URL}}">{{.URL}}</a></p>
<p>This link expires in {{.Expiry}} and can only be used once.</p>
<p>If you didn't request a password reset, you can safely ignore this email. Your password won't be changed.</p>
<p>Best,<br>The {{.AppName}} Team</p>
</body>
</html>`))

func confirmEmailContent(data emailData) (string, string, error) {
	subject := "Confirm your email"
	body, err := execute(confirmEmailTemplate, data)
	return subject, body, err
}

func resetPasswordEmailContent(data emailData) (string, string, error) {
	subject := fmt.Sprintf("Reset your password for %s", data.AppName)
	body, err := execute(resetPasswordTemplate, data)
	return subject, body, err
}

func execute(t *template.Template, data emailData) (string, error) {
	var buf bytes.Buffer
	err := t.Execute(&buf, data)
	if err != nil {
		return "", fmt.Errorf("failed to render %s email: %w", t.Name(), err)
	}
	return buf.String(), nil
}

package passwordreset

import (
	"bytes"
	"html/template"
	"time"
)

var resetCodeTemplate = template.Must(template.New("reset_code").Parse(`<!DOCTYPE html>
<html>
<body style="font-family: sans-serif;">
  <h2>{{.AppName}} password reset</h2>
  <p>Use this code to reset your password:</p>
  <p style="font-size: 28px; letter-spacing: 6px;"><strong>{{.Code}}</strong></p>
  <p>The code expires in {{.ExpiryMinutes}} minutes. If you did not ask for a reset, you can ignore this email.</p>
</body>
</html>`))

var resetSuccessTemplate = template.Must(template.New("reset_success").Parse(`<!DOCTYPE html>
<html>
<body style="font-family: sans-serif;">
  <h2>Your {{.AppName}} password was changed</h2>
  <p>The password for {{.Email}} was updated. If this wasn't you, contact the studio right away.</p>
</body>
</html>`))

type emailData struct {
	AppName       string
	Email         string
	Code          string
	ExpiryMinutes int
}

func renderResetCodeEmail(appName, code string, expiry time.Duration) (string, error) {
	return render(resetCodeTemplate, emailData{
		AppName:       appName,
		Code:          code,
		ExpiryMinutes: int(expiry.Round(time.Minute) / time.Minute),
	})
}

func renderResetSuccessEmail(appName, email string) (string, error) {
	return render(resetSuccessTemplate, emailData{AppName: appName, Email: email})
}

func render(tmpl *template.Template, data emailData) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

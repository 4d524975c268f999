package contact

import (
	"bytes"
	"html/template"
)

var enquiryTemplate = template.Must(template.New("enquiry").Parse(`<!DOCTYPE html>
<html>
<body style="font-family: sans-serif;">
  <h2>New {{.Request.Type}} enquiry</h2>
  <table cellpadding="4">
    <tr><td><strong>Name</strong></td><td>{{.Request.Name}}</td></tr>
    <tr><td><strong>Email</strong></td><td>{{.Request.Email}}</td></tr>
    {{- if .Request.Phone}}
    <tr><td><strong>Phone</strong></td><td>{{.Request.Phone}}</td></tr>
    {{- end}}
    {{- if .Request.Service}}
    <tr><td><strong>Service</strong></td><td>{{.Request.Service}}</td></tr>
    {{- end}}
    {{- if .Request.PreferredDate}}
    <tr><td><strong>Preferred date</strong></td><td>{{.Request.PreferredDate}}</td></tr>
    {{- end}}
  </table>
  <p style="white-space: pre-wrap;">{{.Request.Message}}</p>
  <p style="color: #888;">Sent from the {{.AppName}} website. Reply to this email to answer.</p>
</body>
</html>`))

var autoReplyTemplate = template.Must(template.New("auto_reply").Parse(`<!DOCTYPE html>
<html>
<body style="font-family: sans-serif;">
  <h2>Thanks, {{.Request.Name}}</h2>
  <p>We received your {{.Request.Type}} enquiry and will get back to you soon.</p>
  <p style="white-space: pre-wrap; color: #555;">{{.Request.Message}}</p>
  <p>{{.AppName}}</p>
</body>
</html>`))

type emailData struct {
	AppName string
	Request Request
}

func renderEnquiry(appName string, req Request) (string, error) {
	return render(enquiryTemplate, emailData{AppName: appName, Request: req})
}

func renderAutoReply(appName string, req Request) (string, error) {
	return render(autoReplyTemplate, emailData{AppName: appName, Request: req})
}

func render(tmpl *template.Template, data emailData) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

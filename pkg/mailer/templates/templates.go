package templates

import (
	"bytes"
	"fmt"
	"html/template"
)

// Welcome is the only mail this app sends today.
const Welcome = "welcome"

var tmpls = template.Must(template.New("mail").Parse(`
{{define "welcome"}}
<html>
<body style="font-family: Arial, Helvetica, sans-serif; color: #1f2933;">
  <h2>Welcome to {{.AppName}}, {{.FirstName}}!</h2>
  <p>Your account <strong>{{.Username}}</strong> is ready. You can start
  tracking your time right away.</p>
  <p style="color: #7b8794; font-size: 12px;">If you did not create this
  account, you can ignore this email.</p>
</body>
</html>
{{end}}
`))

// Subject returns the subject line for a known template name.
func Subject(name string) string {
	switch name {
	case Welcome:
		return "Welcome to Timewise"
	default:
		return "Notification"
	}
}

// RenderHTML renders a named template with the given data.
func RenderHTML(name string, data map[string]any) (string, error) {
	var buf bytes.Buffer
	if err := tmpls.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("render %s: %w", name, err)
	}
	return buf.String(), nil
}

package notifications

import (
	"bytes"
	"fmt"
	htmltemplate "html/template"
	"strconv"
	texttemplate "text/template"
	"time"

	"github.com/diwise/iot-machine-alerts/pkg/types"
)

type Message struct {
	Subject string
	Text    string
	HTML    string
}

var severityColors = map[types.Severity]string{
	types.SeverityCritical: "#ef4444",
	types.SeverityHigh:     "#f97316",
	types.SeverityMedium:   "#eab308",
	types.SeverityLow:      "#22c55e",
}

type view struct {
	Severity  string
	Color     string
	AlertType string
	Machine   string
	Message   string
	Value     string
	Threshold string
	Time      string
}

const textBody = `{{.Severity}} alert: {{.AlertType}}

{{.Message}}

Machine:   {{.Machine}}
Value:     {{.Value}}
Threshold: {{.Threshold}}
Time:      {{.Time}}
`

const htmlBody = `<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; background: #111827; color: #fff; padding: 20px;">
  <div style="max-width: 600px; margin: 0 auto; background: #1f2937; border-radius: 12px; overflow: hidden;">
    <div style="background: {{.Color}}; padding: 20px; text-align: center;">
      <h1 style="margin: 0; font-size: 24px;">{{.Severity}} Alert</h1>
    </div>
    <div style="padding: 30px;">
      <h2>{{.AlertType}}</h2>
      <p style="color: #9ca3af;">{{.Message}}</p>
      <p><b>Machine</b><br>{{.Machine}}</p>
      <p><b>Current Value</b><br>{{.Value}}</p>
      <p><b>Threshold</b><br>{{.Threshold}}</p>
      <p><b>Time</b><br>{{.Time}}</p>
    </div>
  </div>
</body>
</html>
`

var (
	textTmpl = texttemplate.Must(texttemplate.New("text").Parse(textBody))
	htmlTmpl = htmltemplate.Must(htmltemplate.New("html").Parse(htmlBody))
)

// Render builds the notification for an alert. Numbers are rounded for display only.
func Render(alert types.Alert) (Message, error) {
	machine := alert.MachineName
	if machine == "" {
		machine = alert.MachineID
	}

	v := view{
		Severity:  alert.Severity.String(),
		Color:     severityColors[alert.Severity],
		AlertType: alert.AlertType,
		Machine:   machine,
		Message:   alert.Message,
		Value:     withUnit(alert.Value, alert.Unit),
		Threshold: withUnit(alert.Threshold, alert.Unit),
		Time:      alert.OccurredAt.UTC().Format(time.RFC1123),
	}

	var text, html bytes.Buffer

	if err := textTmpl.Execute(&text, v); err != nil {
		return Message{}, fmt.Errorf("failed to render text body: %w", err)
	}
	if err := htmlTmpl.Execute(&html, v); err != nil {
		return Message{}, fmt.Errorf("failed to render html body: %w", err)
	}

	return Message{
		Subject: fmt.Sprintf("[%s] %s - %s", v.Severity, alert.AlertType, machine),
		Text:    text.String(),
		HTML:    html.String(),
	}, nil
}

func withUnit(v float64, unit string) string {
	s := strconv.FormatFloat(v, 'f', 2, 64)
	if unit == "" {
		return s
	}
	return s + " " + unit
}

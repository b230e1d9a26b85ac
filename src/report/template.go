package report

import (
	"fmt"
	"html/template"
	"strings"

	"stock-digest/src/models"
)

// -----------------------------------------------------------------------------
// HTML email rendering
// -----------------------------------------------------------------------------

var funcMap = template.FuncMap{
	"money":    func(v float64) string { return fmt.Sprintf("%.2f", v) },
	"percent":  func(v float64) string { return fmt.Sprintf("%.2f", v) },
	"signed":   signed,
	"billions": func(v float64) string { return fmt.Sprintf("%.2f", v/1e9) },
	"commas":   commas,
	"longDate": func(r models.MReport) string { return r.GeneratedAt.Format("Monday, January 2, 2006") },
	"clock":    func(r models.MReport) string { return r.GeneratedAt.Format("3:04:05 PM MST") },
	"newsDate": func(a models.MNewsArticle) string { return a.PublishedAt.Format("Jan 2, 2006") },
}

func signed(v float64) string {
	if v >= 0 {
		return fmt.Sprintf("+%.2f", v)
	}
	return fmt.Sprintf("%.2f", v)
}

// commas renders an integer with thousands separators.
func commas(v int64) string {
	s := fmt.Sprintf("%d", v)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	var b strings.Builder
	lead := len(s) % 3
	if lead > 0 {
		b.WriteString(s[:lead])
	}
	for i := lead; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}
	out := b.String()
	if neg {
		out = "-" + out
	}
	return out
}

var emailTmpl = template.Must(template.New("email").Funcs(funcMap).Parse(`<!DOCTYPE html>
<html>
<head>
  <meta charset="UTF-8">
  <style>
    body { font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, Arial, sans-serif; line-height: 1.6; color: #333; max-width: 800px; margin: 0 auto; padding: 20px; }
    h1 { color: #2c3e50; border-bottom: 3px solid #3498db; padding-bottom: 10px; }
    h2 { color: #34495e; margin-top: 30px; }
    .header { background: linear-gradient(135deg, #667eea 0%, #764ba2 100%); color: white; padding: 30px; border-radius: 10px; margin-bottom: 30px; }
    .summary-box { background: #f8f9fa; padding: 20px; border-radius: 8px; margin: 20px 0; }
    .stock-card { border: 1px solid #ddd; padding: 15px; margin: 10px 0; border-radius: 5px; background-color: white; }
    .stock-error { border: 1px solid #f56565; padding: 15px; margin: 10px 0; border-radius: 5px; background-color: #fed7d7; }
    .news-item { border-left: 3px solid #007bff; padding-left: 15px; margin: 15px 0; }
    .footer { margin-top: 40px; padding-top: 20px; border-top: 1px solid #ddd; text-align: center; color: #666; font-size: 0.9em; }
  </style>
</head>
<body>
  <div class="header">
    <h1 style="color: white; border: none; margin: 0;">&#128200; Daily Stock Report</h1>
    <p style="margin: 10px 0 0 0; opacity: 0.9;">{{longDate .}}</p>
  </div>

  <div class="summary-box">
    <h2>Market Overview</h2>
    {{if eq .Summary.Tracked 0}}
    <p>No market data available.</p>
    {{else}}
    <p><strong>Today's Summary:</strong></p>
    <ul>
      <li>&#128202; Tracking {{.Summary.Tracked}} stocks</li>
      <li>&#128994; Gainers: {{.Summary.Gainers}}</li>
      <li>&#128308; Losers: {{.Summary.Losers}}</li>
      {{if gt .Summary.Unchanged 0}}<li>&#9898; Unchanged: {{.Summary.Unchanged}}</li>{{end}}
      {{with .Summary.BiggestGainer}}<li>&#128640; Biggest Gainer: {{.Symbol}} ({{signed .ChangePercent}}%)</li>{{end}}
      {{with .Summary.BiggestLoser}}<li>&#128201; Biggest Loser: {{.Symbol}} ({{signed .ChangePercent}}%)</li>{{end}}
    </ul>
    {{end}}
  </div>

  <h2>Stock Performance</h2>
  {{range .Quotes}}
  {{if .Error}}
  <div class="stock-error">
    <h3>&#10060; {{.Symbol}}</h3>
    <p style="color: #c53030;">Error: {{.Message}}</p>
  </div>
  {{else}}
  <div class="stock-card">
    <h3 style="margin-top: 0;">{{if ge .Change 0.0}}&#128994;{{else}}&#128308;{{end}} {{.Symbol}} - {{.Name}}</h3>
    <p><strong>Current Price:</strong> ${{money .Price}}</p>
    <p><strong>Change:</strong> ${{signed .Change}} ({{signed .ChangePercent}}%)</p>
    <p><strong>Day Range:</strong> ${{money .DayLow}} - ${{money .DayHigh}}</p>
    <p><strong>Volume:</strong> {{commas .Volume}}</p>
    <p><strong>Market Cap:</strong> ${{billions .MarketCap}}B</p>
    <p><strong>52 Week Range:</strong> ${{money .FiftyTwoWeekLow}} - ${{money .FiftyTwoWeekHigh}}</p>
  </div>
  {{end}}
  {{end}}

  <h2>Latest News</h2>
  {{if not .Articles}}
  <p>No recent news available.</p>
  {{end}}
  {{range .Articles}}
  <div class="news-item">
    <h4 style="margin: 5px 0;">{{.Title}}</h4>
    <p style="color: #666; font-size: 0.9em;"><strong>{{.Symbol}}</strong> | {{.Source}} | {{newsDate .}}</p>
    <p style="margin: 10px 0;">{{if .Description}}{{.Description}}{{else}}No description available.{{end}}</p>
    <a href="{{.URL}}" style="color: #007bff; text-decoration: none;">Read more &rarr;</a>
  </div>
  {{end}}

  <div class="footer">
    <p>This is an automated daily stock report.</p>
    <p>Generated at {{clock .}}</p>
  </div>
</body>
</html>
`))

// -----------------------------------------------------------------------------

// Render produces the HTML email body for a composed report.
func Render(r models.MReport) (string, error) {
	var b strings.Builder
	if err := emailTmpl.Execute(&b, r); err != nil {
		return "", fmt.Errorf("render report: %w", err)
	}
	return b.String(), nil
}

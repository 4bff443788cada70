package health

import (
	"encoding/json"
	"fmt"
	"strings"
)

// RenderDashboardHTML returns the HTML status page for GET /.
func RenderDashboardHTML(health CollectResult) string {
	b, _ := json.Marshal(health)
	jsonStr := string(b)
	// Escape for embedding in a JS template literal
	jsonStr = strings.ReplaceAll(jsonStr, "\\", "\\\\")
	jsonStr = strings.ReplaceAll(jsonStr, "`", "\\`")
	jsonStr = strings.ReplaceAll(jsonStr, "$", "\\$")

	headline := "All Systems Operational"
	if health.Status != "ok" {
		headline = "Service Degraded"
	}

	depRows := ""
	for name, dep := range health.Dependencies {
		pill := "ok"
		if dep.Status != "connected" {
			pill = "err"
		}
		depRows += fmt.Sprintf(`<div class="row"><span>%s</span><span class="pill %s"><span class="dot"></span>%s</span></div>`, name, pill, dep.Status)
	}

	return fmt.Sprintf(`<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <title>D'ONGs · API Status</title>
  <meta name="viewport" content="width=device-width, initial-scale=1" />
  <style>
    :root { --primary: #2563EB; --dark: #1F2937; --bg: #F8F9FA; --muted: #64748b; }
    * { box-sizing: border-box; }
    body { background: var(--bg); color: var(--dark); font-family: -apple-system, 'Segoe UI', Roboto, sans-serif; margin: 0; min-height: 100vh; display: flex; align-items: center; justify-content: center; }
    .container { width: 100%%; max-width: 900px; padding: 20px; }
    h1 { font-size: clamp(28px, 5vw, 44px); font-weight: 800; letter-spacing: -1px; text-align: center; margin: 0 0 8px 0; }
    .subtext { font-size: 15px; color: var(--muted); text-align: center; margin-bottom: 28px; }
    .card { background: #fff; border-radius: 20px; box-shadow: 0 20px 60px -20px rgba(37, 99, 235, 0.15); overflow: hidden; }
    .grid { display: grid; grid-template-columns: repeat(3, 1fr); }
    .col { padding: 32px; border-right: 1px solid rgba(0,0,0,0.04); }
    .col:last-child { border-right: none; }
    .label { text-transform: uppercase; font-size: 11px; font-weight: 800; letter-spacing: 2px; color: #94a3b8; margin-bottom: 18px; }
    .big { font-size: clamp(22px, 3vw, 36px); font-weight: 800; margin-bottom: 8px; }
    .row { display: flex; justify-content: space-between; align-items: center; padding: 7px 0; border-bottom: 1px solid rgba(0,0,0,0.03); font-size: 14px; font-weight: 600; }
    .row:last-child { border-bottom: none; }
    .pill { padding: 4px 10px; border-radius: 9px; font-size: 11px; font-weight: 800; display: flex; align-items: center; gap: 7px; }
    .ok { background: rgba(37, 99, 235, 0.08); color: var(--primary); }
    .err { background: rgba(239, 68, 68, 0.08); color: #EF4444; }
    .dot { width: 7px; height: 7px; border-radius: 50%%; background: currentColor; }
    @media (max-width: 760px) { .grid { grid-template-columns: 1fr; } .col { border-right: none; border-bottom: 1px solid rgba(0,0,0,0.04); } }
  </style>
</head>
<body>
  <div class="container">
    <h1>%s</h1>
    <p class="subtext">D'ONGs donation-management API</p>
    <div class="card">
      <div class="grid">
        <div class="col">
          <div class="label">Traffic</div>
          <div class="big" id="total-req">%d</div>
          <div class="row"><span>Success rate</span><span>%s%%</span></div>
          <div class="row"><span>Failed</span><span>%d</span></div>
          <div class="row"><span>Avg response</span><span>%v ms</span></div>
        </div>
        <div class="col">
          <div class="label">Runtime</div>
          <div class="big">%ds</div>
          <div class="row"><span>Heap used</span><span>%d MB</span></div>
          <div class="row"><span>Platform</span><span>%s</span></div>
          <div class="row"><span>Go</span><span>%s</span></div>
        </div>
        <div class="col">
          <div class="label">Dependencies</div>
          %s
        </div>
      </div>
    </div>
  </div>
  <script>window.__health = JSON.parse(`+"`%s`"+`);</script>
</body>
</html>`,
		headline,
		health.Traffic.TotalRequests, health.Traffic.SuccessRate, health.Traffic.FailedCount, health.Traffic.AvgResponseTime,
		health.Runtime.UptimeSeconds, health.Runtime.Memory.HeapUsed, health.Runtime.Platform, health.Runtime.GoVersion,
		depRows, jsonStr)
}

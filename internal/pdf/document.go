// Package pdf turns a markdown lesson plan into a printable A4 document.
package pdf

import (
	"bytes"
	"fmt"
	"html/template"
	"regexp"
	"strings"
	"time"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// PlanInfo is the header block printed above the plan.
type PlanInfo struct {
	Ano   string
	Tema  string
	Nivel string
	Data  string
}

var (
	gradeRe = regexp.MustCompile(`(?i)(\d+\s*[º°]\s*ano|ensino\s+médio)`)
	topicRe = []*regexp.Regexp{
		regexp.MustCompile(`(?i)tema[*:\s]+([^\n]+)`),
		regexp.MustCompile(`(?i)habilidade[*:\s]+([^\n]+)`),
		regexp.MustCompile(`(?i)conteúdo[*:\s]+([^\n]+)`),
	}
	levelRe = []*regexp.Regexp{
		regexp.MustCompile(`(?i)nível de dificuldade[*:\s]+([^\n]+)`),
		regexp.MustCompile(`(?i)nível[*:\s]+([^\n]+)`),
	}
	titleRe = regexp.MustCompile(`(?m)^#{1,3}\s*Plano de Aula:\s*(.+)$`)
)

// ExtractInfo reads the header fields out of a generated plan.
func ExtractInfo(content string, now time.Time) PlanInfo {
	info := PlanInfo{Data: now.Format("02/01/2006")}
	if m := gradeRe.FindStringSubmatch(content); m != nil {
		info.Ano = m[1]
	}
	if m := titleRe.FindStringSubmatch(content); m != nil {
		info.Tema = cleanValue(m[1])
	} else {
		info.Tema = firstMatch(topicRe, content)
	}
	info.Nivel = firstMatch(levelRe, content)
	return info
}

func firstMatch(res []*regexp.Regexp, content string) string {
	for _, re := range res {
		if m := re.FindStringSubmatch(content); m != nil {
			return cleanValue(m[1])
		}
	}
	return ""
}

func cleanValue(s string) string {
	return strings.TrimSpace(strings.Trim(strings.TrimSpace(s), "*_"))
}

var markdown = goldmark.New(goldmark.WithExtensions(extension.GFM))

// BuildDocument renders the plan and its header into a standalone HTML page.
func BuildDocument(content string, info PlanInfo) (string, error) {
	var body bytes.Buffer
	if err := markdown.Convert([]byte(content), &body); err != nil {
		return "", fmt.Errorf("converting markdown: %w", err)
	}

	var out bytes.Buffer
	err := pageTemplate.Execute(&out, struct {
		Info PlanInfo
		Body template.HTML
	}{info, template.HTML(body.String())})
	if err != nil {
		return "", fmt.Errorf("executing page template: %w", err)
	}
	return out.String(), nil
}

var pageTemplate = template.Must(template.New("plano").Parse(pageHTML))

const pageHTML = `<!DOCTYPE html>
<html lang="pt-BR">
<head>
<meta charset="UTF-8">
<title>Plano de Aula - {{or .Info.Ano "Educação Básica"}}</title>
<style>
@page { size: A4; margin: 2cm; }
body { font-family: 'Segoe UI', Tahoma, Geneva, Verdana, sans-serif; line-height: 1.6; color: #333; margin: 0; }
.header { text-align: center; border-bottom: 3px solid #4A90E2; padding-bottom: 20px; margin-bottom: 30px; }
.header h1 { color: #4A90E2; font-size: 28px; margin: 0 0 10px 0; }
.subtitle { color: #666; font-size: 16px; }
.info-grid { display: grid; grid-template-columns: 1fr 1fr; gap: 20px; background: #f8f9fa; padding: 20px; border-radius: 8px; }
.info-label { font-weight: 600; color: #4A90E2; font-size: 14px; }
.content { font-size: 14px; line-height: 1.8; }
.content h2 { color: #4A90E2; font-size: 18px; border-bottom: 2px solid #e9ecef; }
.content h3 { color: #495057; font-size: 16px; }
.content strong { color: #4A90E2; }
.footer { margin-top: 40px; padding-top: 20px; border-top: 1px solid #e9ecef; text-align: center; color: #666; font-size: 12px; }
@media print { body { -webkit-print-color-adjust: exact; print-color-adjust: exact; } }
</style>
</head>
<body>
<div class="header">
  <h1>Plano de Aula</h1>
  <div class="subtitle">Assistente Pedagógico Ane</div>
</div>
<div class="info-grid">
  <div><div class="info-label">Ano Escolar</div><div>{{or .Info.Ano "Não especificado"}}</div></div>
  <div><div class="info-label">Tema/Habilidade</div><div>{{or .Info.Tema "Não especificado"}}</div></div>
  <div><div class="info-label">Nível de Dificuldade</div><div>{{or .Info.Nivel "Médio"}}</div></div>
  <div><div class="info-label">Data de Criação</div><div>{{.Info.Data}}</div></div>
</div>
<div class="content">
{{.Body}}
</div>
<div class="footer">Plano de aula gerado pela Ane, assistente pedagógica.</div>
</body>
</html>`

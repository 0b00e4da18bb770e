package dialogue

import "strings"

type commandKind int

const (
	commandNone commandKind = iota
	commandExit
	commandPDF
)

func (k commandKind) String() string {
	switch k {
	case commandExit:
		return "exit"
	case commandPDF:
		return "pdf"
	default:
		return "none"
	}
}

type commandRule struct {
	name  string
	kind  commandKind
	match func(text string, ws []string) bool
}

var (
	exitWords   = []string{"sair", "cancelar", "parar", "reiniciar", "recomecar", "volta", "voltar"}
	exitPhrases = []string{"comecar de novo", "comecar denovo", "sair daqui", "cancelar tudo"}

	pdfPhrases = []string{
		"gerar pdf", "gera o pdf", "gere o pdf", "gerar o pdf",
		"baixar pdf", "baixar o pdf", "baixar plano", "baixar o plano",
		"exportar pdf", "exportar para pdf", "download do plano", "plano em pdf",
	}
	generateVerbs = []string{"gerar", "gera", "gere", "criar", "cria", "crie", "fazer", "faz", "faca"}
	sendVerbs     = []string{
		"baixar", "baixa", "baixe", "download", "exportar", "exporta", "exporte",
		"enviar", "envia", "envie", "mandar", "manda", "mande", "imprimir",
	}
)

// commandRules are checked in order on normalized text; the first match wins.
// Exit always beats PDF.
var commandRules = []commandRule{
	{"exit-word", commandExit, func(text string, _ []string) bool {
		bare := strings.Trim(text, " .!?")
		for _, w := range exitWords {
			if bare == w {
				return true
			}
		}
		return false
	}},
	{"exit-phrase", commandExit, func(text string, _ []string) bool {
		return containsAny(text, exitPhrases...)
	}},
	{"pdf-phrase", commandPDF, func(text string, _ []string) bool {
		return containsAny(text, pdfPhrases...)
	}},
	{"pdf-verb", commandPDF, func(_ string, ws []string) bool {
		return hasAnyWord(ws, "pdf") && (hasAnyWord(ws, sendVerbs...) || hasAnyWord(ws, generateVerbs...))
	}},
	// "gerar um plano" asks for a new plan, so only delivery verbs count here.
	{"plan-delivery", commandPDF, func(_ string, ws []string) bool {
		return hasAnyWord(ws, "plano") && hasAnyWord(ws, sendVerbs...)
	}},
}

// detectCommand returns the first rule that matches the message.
func detectCommand(text string) (commandKind, string) {
	ws := words(text)
	for _, r := range commandRules {
		if r.match(text, ws) {
			return r.kind, r.name
		}
	}
	return commandNone, ""
}

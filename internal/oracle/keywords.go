package oracle

import (
	"strings"

	"github.com/felipe-codebit/prototipo-zap/internal/dialogue"
	"github.com/felipe-codebit/prototipo-zap/internal/session"
)

type intentKeywords struct {
	intent   session.Intent
	keywords []string
}

// keywordTable is ordered: on equal scores the earlier intent wins.
var keywordTable = []intentKeywords{
	{session.IntentLessonPlan, []string{"plano", "aula", "atividade", "ensinar", "criar", "preparar", "lecionar", "lição", "conteúdo", "matéria"}},
	{session.IntentQuestion, []string{"dúvida", "duvida", "ajuda", "explica", "como", "não entendo", "pergunta", "questão", "esclarecer"}},
	{session.IntentWeeklySchedule, []string{"semana", "semanal", "planejamento", "organizar", "cronograma", "agenda", "planejar"}},
	{session.IntentGreeting, []string{"oi", "olá", "ola", "bom dia", "boa tarde", "boa noite", "eae", "o que você faz", "funcionalidades"}},
	{session.IntentFarewell, []string{"tchau", "obrigado", "obrigada", "valeu", "até logo", "até mais", "bye"}},
	{session.IntentExit, []string{"sair", "cancelar", "parar", "reiniciar", "começar de novo", "recomeçar", "voltar"}},
	{session.IntentContinue, []string{"ok", "sim", "vamos", "continuar", "pode ser", "beleza", "certo", "perfeito", "ótimo", "legal", "bora", "exato"}},
	{session.IntentRevisePlan, []string{"alterar", "mudar", "trocar", "modificar", "ajustar", "revisar", "atualizar", "dificuldade", "fácil", "difícil", "facil", "dificil"}},
	{session.IntentPedagogicReflection, []string{"refletir", "reflexão", "reflexao", "minha prática", "minha turma", "engajamento", "desmotivad"}},
}

// KeywordClassify scores each intent by the share of its keywords found in
// the message. No hit at all is unclear with confidence 0.
func KeywordClassify(message string) dialogue.Classification {
	msg := strings.ToLower(strings.TrimSpace(message))
	best := dialogue.Classification{Intent: session.IntentUnclear}
	for _, row := range keywordTable {
		hits := 0
		for _, k := range row.keywords {
			if strings.Contains(msg, k) {
				hits++
			}
		}
		score := float64(hits) / float64(len(row.keywords))
		if score > best.Confidence {
			best = dialogue.Classification{Intent: row.intent, Confidence: score}
		}
	}
	return best
}

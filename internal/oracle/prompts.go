package oracle

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/felipe-codebit/prototipo-zap/internal/dialogue"
	"github.com/felipe-codebit/prototipo-zap/internal/llm"
	"github.com/felipe-codebit/prototipo-zap/internal/session"
)

const classifierSystemPrompt = `Você é um classificador de intenções preciso e conservador.`

const classifierPromptTemplate = `Você é um classificador de intenções para um assistente educacional. Analise a mensagem do professor e determine a intenção.

INTENÇÕES POSSÍVEIS:
- plano_aula: quer criar ou elaborar planos de aula ("quero um plano de aula", "criar aula sobre...")
- tira_duvidas: tem dúvidas educacionais, quer explicações
- planejamento_semanal: quer organizar ou planejar a semana de trabalho
- continuar: respostas afirmativas (sim, ok, vamos) ou quer continuar algo
- saudacao: cumprimentos, perguntas sobre funcionalidades ("o que você faz?")
- despedida: agradecimentos ou despedidas
- sair: quer cancelar ou reiniciar a conversa
- revisar_plano: quer alterar um plano já gerado ("mais fácil", "mudar o ano", "trocar o tema")
- reflexao_pedagogica: quer refletir sobre a prática, a turma ou a própria aula
- unclear: não foi possível identificar

Pedidos de gerar, baixar ou exportar PDF são "unclear" com confiança baixa.
%s
Mensagem atual do professor: "%s"

Responda APENAS com JSON no formato {"intent": "nome_da_intencao", "confidence": 0.0}.
Confiança de 0.0 a 1.0; use valores altos apenas quando tiver certeza.`

const extractorSystemPrompt = `Você extrai dados estruturados de mensagens de professores. Nunca invente valores: deixe vazio o que não estiver na mensagem.`

const lessonExtractTemplate = `Extraia da mensagem os dados de um plano de aula e responda APENAS com JSON:

{"ano": "", "tema": "", "habilidadeBNCC": "", "nivelDificuldade": ""}

- ano: ano escolar como "5º ano" ou "Ensino Médio"
- tema: assunto da aula
- habilidadeBNCC: código da habilidade, como "EF05MA03"
- nivelDificuldade: "facil", "medio" ou "dificil"

Dados já coletados: %s

Mensagem: "%s"`

const weeklyExtractTemplate = `Extraia da mensagem os dados de um planejamento semanal e responda APENAS com JSON:

{"dataInicio": "", "dataFim": "", "atividades": [], "materias": []}

Dados já coletados: %s

Mensagem: "%s"`

const personaPrompt = `Você é a Ane, uma assistente educacional entusiasta e motivadora, especializada em ajudar professores.
Seja calorosa, empática e propositiva. Use linguagem natural e emojis com moderação.
Responda em português brasileiro. Suas especialidades são planos de aula, tira-dúvidas e planejamento semanal.`

// situationPrompts tell the generator what each reply must accomplish.
var situationPrompts = map[dialogue.Situation]string{
	dialogue.SituationGreeting:       "Cumprimente o professor com entusiasmo e apresente as 3 funcionalidades: planos de aula, tira-dúvidas e planejamento semanal. Termine perguntando por onde começar.",
	dialogue.SituationFarewell:       "O professor está se despedindo. Agradeça e deseje boas aulas em poucas frases.",
	dialogue.SituationExit:           "O professor pediu para recomeçar. Confirme que a tarefa anterior foi limpa, mostre as 3 funcionalidades e pergunte por onde começar.",
	dialogue.SituationUnclear:        "Você não entendeu o pedido. Diga isso com leveza e redirecione para as 3 funcionalidades.",
	dialogue.SituationNegation:       "O professor recusou a sugestão. Aceite sem insistir e diga que está à disposição.",
	dialogue.SituationContinueNoTask: "O professor quer continuar, mas não há tarefa em andamento. Pergunte com qual das 3 funcionalidades ele quer seguir.",
	dialogue.SituationQuestion:       "Responda à dúvida do professor de forma prática e fundamentada, com exemplos concretos. Termine perguntando se há mais alguma dúvida.",
	dialogue.SituationReflection:     "O professor quer refletir sobre a prática pedagógica. Acolha, faça perguntas que aprofundem a reflexão e ofereça uma ou duas ideias práticas.",
	dialogue.SituationAskGrade:       "Peça, em uma ou duas frases, o ano escolar do plano de aula (1º ao 9º ano ou ensino médio).",
	dialogue.SituationAskTopic:       "Peça, em uma ou duas frases, o tema ou a habilidade da BNCC que o plano vai trabalhar.",
	dialogue.SituationAskStartDate:   "Peça, em uma ou duas frases, a partir de quando o planejamento semanal deve começar.",
	dialogue.SituationPlanDone:       "O plano de aula acabou de ser entregue. Em uma ou duas frases, celebre e ofereça PDF, ajustes ou um novo plano. Não repita o plano.",
	dialogue.SituationScheduleDone:   "O planejamento semanal acabou de ser entregue. Em uma ou duas frases, celebre e sugira criar um plano de aula para alguma atividade. Não repita o planejamento.",
	dialogue.SituationReviseNoChange: "O professor quer revisar o plano mas não disse o quê. Pergunte o que mudar: ano, tema ou nível de dificuldade (fácil, médio ou difícil).",
	dialogue.SituationRevisionDone:   "O plano revisado acabou de ser entregue. Confirme a alteração em uma frase. Não repita o plano.",
	dialogue.SituationPDFReady:       "O PDF do plano está pronto. Em uma frase, sugira um próximo passo: ajustar o plano ou criar outro para outra turma.",
}

const lessonPlanTemplate = `Crie um plano de aula completo com base nas seguintes informações:
- Ano escolar: %s
- Tema/Habilidade BNCC: %s
- Nível de dificuldade: %s

Comece com o título "### Plano de Aula: <tema>" e inclua:
1. Objetivo geral
2. Objetivos específicos
3. Conteúdo principal
4. Metodologia de ensino
5. Recursos necessários
6. Atividades práticas
7. Avaliação
8. Duração estimada

Seja detalhado e prático, com sugestões que o professor possa aplicar imediatamente.`

const weeklyScheduleTemplate = `Crie um planejamento semanal organizado com base nas seguintes informações:
- Data de início: %s
- Data de fim: %s
- Atividades: %s
- Matérias: %s

Inclua cronograma diário, distribuição das atividades, tempo estimado para cada tarefa,
prioridades e dicas de organização. Seja prático e realista.`

func buildClassifyMessages(req dialogue.ClassifyRequest) []llm.Message {
	var b strings.Builder
	if len(req.History) > 0 {
		b.WriteString("\nContexto das últimas mensagens:\n")
		writeHistory(&b, req.History)
	}
	if req.CurrentIntent != session.IntentNone {
		fmt.Fprintf(&b, "\nIntenção atual: %s\n", req.CurrentIntent)
	}
	return []llm.Message{
		{Role: llm.RoleSystem, Content: classifierSystemPrompt},
		{Role: llm.RoleUser, Content: fmt.Sprintf(classifierPromptTemplate, b.String(), req.Message)},
	}
}

func buildExtractMessages(req dialogue.ExtractRequest) []llm.Message {
	var prompt string
	if req.Intent == session.IntentWeeklySchedule {
		prompt = fmt.Sprintf(weeklyExtractTemplate, toJSON(req.Collected.Weekly), req.Message)
	} else {
		prompt = fmt.Sprintf(lessonExtractTemplate, toJSON(req.Collected.Lesson), req.Message)
	}
	return []llm.Message{
		{Role: llm.RoleSystem, Content: extractorSystemPrompt},
		{Role: llm.RoleUser, Content: prompt},
	}
}

func buildLessonPlanMessages(s session.LessonPlanSlots) []llm.Message {
	topic := s.Tema
	if topic == "" {
		topic = s.HabilidadeBNCC
	}
	return []llm.Message{
		{Role: llm.RoleSystem, Content: "Você é especialista em educação e pedagogia e cria planos de aula detalhados e práticos, em markdown."},
		{Role: llm.RoleUser, Content: fmt.Sprintf(lessonPlanTemplate, s.Ano, topic, s.NivelDificuldade)},
	}
}

func buildWeeklyScheduleMessages(s session.WeeklyScheduleSlots) []llm.Message {
	return []llm.Message{
		{Role: llm.RoleSystem, Content: "Você é especialista em organização e produtividade docente e cria planejamentos semanais eficazes, em markdown."},
		{Role: llm.RoleUser, Content: fmt.Sprintf(weeklyScheduleTemplate,
			s.DataInicio,
			orUnspecified(s.DataFim),
			orUnspecified(strings.Join(s.Atividades, ", ")),
			orUnspecified(strings.Join(s.Materias, ", ")),
		)},
	}
}

func buildReplyMessages(situation dialogue.Situation, gc dialogue.GenerationContext) []llm.Message {
	var b strings.Builder
	b.WriteString(situationPrompts[situation])
	b.WriteString("\n\n")
	if !gc.Data.Empty() {
		fmt.Fprintf(&b, "Dados já coletados: %s\n\n", toJSON(gc.Data))
	}
	if len(gc.History) > 0 {
		b.WriteString("Histórico recente da conversa:\n")
		writeHistory(&b, gc.History)
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "Mensagem atual: %s", gc.Message)
	return []llm.Message{
		{Role: llm.RoleSystem, Content: personaPrompt},
		{Role: llm.RoleUser, Content: b.String()},
	}
}

func writeHistory(b *strings.Builder, history []session.Message) {
	for _, m := range history {
		who := "Professor"
		if m.Sender == session.SenderBot {
			who = "Assistente"
		}
		fmt.Fprintf(b, "%s: %s\n", who, m.Text)
	}
}

func toJSON(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		return "{}"
	}
	return string(data)
}

func orUnspecified(s string) string {
	if s == "" {
		return "Não especificado"
	}
	return s
}

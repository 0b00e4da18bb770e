package dialogue

// Situation tags what a generated text is for.
type Situation string

const (
	SituationGreeting        Situation = "saudacao"
	SituationFarewell        Situation = "despedida"
	SituationExit            Situation = "sair"
	SituationUnclear         Situation = "unclear_intent"
	SituationNegation        Situation = "negacao"
	SituationContinueNoTask  Situation = "continuar_sem_contexto"
	SituationQuestion        Situation = "tira_duvidas"
	SituationReflection      Situation = "reflexao_pedagogica"
	SituationAskGrade        Situation = "pergunta_ano"
	SituationAskTopic        Situation = "pergunta_tema"
	SituationAskStartDate    Situation = "pergunta_data_inicio"
	SituationLessonPlan      Situation = "plano_aula"
	SituationWeeklySchedule  Situation = "planejamento_semanal"
	SituationPlanDone        Situation = "plano_concluido"
	SituationScheduleDone    Situation = "planejamento_concluido"
	SituationReviseNoChange  Situation = "revisao_sem_alteracao"
	SituationRevisionDone    Situation = "revisao_concluida"
	SituationPDFReady        Situation = "pdf_pronto"
)

// PlanCompletionMarker separates a generated lesson plan from the closing
// remarks in the bot message. PDF lookups cut the history text here.
const PlanCompletionMarker = "Prontinho! Seu plano de aula está pronto."

// ScheduleCompletionMarker plays the same role for weekly schedules.
const ScheduleCompletionMarker = "Prontinho! Seu planejamento semanal está pronto."

const menu = `🎯 **Criar planos de aula personalizados**
❓ **Tirar dúvidas sobre educação**
📅 **Planejar sua semana de trabalho**`

const (
	apologyText = "Desculpe, ocorreu um erro ao processar sua mensagem. Pode tentar novamente?"

	pdfNoPlanText = `📄 Ainda não encontrei nenhum plano de aula para transformar em PDF.

Que tal criarmos um agora? É só me dizer o ano escolar e o tema que você quer trabalhar! 😊`

	pdfReadyText = "📄 Seu PDF está pronto! Use o link para baixar o plano de aula."

	reviseNoPlanText = `✏️ Para revisar um plano, primeiro preciso criar um!

Me conta para qual ano escolar e sobre qual tema você quer o plano de aula, e depois ajustamos juntos o que for preciso. 😊`

	lessonPlanFailedText     = "Desculpe, ocorreu um erro ao gerar o plano de aula. Pode tentar novamente?"
	weeklyScheduleFailedText = "Desculpe, ocorreu um erro ao gerar o planejamento semanal. Pode tentar novamente?"

	exitMarkerText = "[Usuário solicitou reiniciar conversa]"
)

// fallbacks is the canned text for every situation whose generation failed.
// Artifact situations are absent: a failed plan is never replaced by copy.
var fallbacks = map[Situation]string{
	SituationGreeting: "Oi! 👋 Que alegria te encontrar aqui! Sou a Ane, sua assistente educacional.\n\nPosso te ajudar com:\n\n" + menu + "\n\nPor onde começamos? 😊",

	SituationFarewell: "Foi incrível trabalhar com você! 🌟 Volte sempre que quiser, estarei aqui para mais planos de aula, dúvidas ou planejamentos.\n\nBoa aula e muito sucesso! 📚✨",

	SituationExit: "🔄 Perfeito! Vamos recomeçar do zero!\n\nAs informações da tarefa anterior foram limpas. Posso te ajudar com:\n\n" + menu + "\n\nPor onde você gostaria de começar agora? ✨",

	SituationUnclear: "Hmm, não consegui entender exatamente o que você precisa! 🤔\n\nSou especialista em:\n\n" + menu + "\n\nQual dessas opções te interessa agora? 😊",

	SituationNegation: "Tudo bem! Não tem problema nenhum. 😊\n\nQuando quiser, estarei aqui para te ajudar com:\n\n" + menu,

	SituationContinueNoTask: "😊 Vejo que você quer continuar, mas preciso saber com o quê!\n\n" + menu + "\n\nQual desses te interessa mais agora? ✨",

	SituationQuestion: "Desculpe, não consegui responder agora. Pode reformular sua dúvida?",

	SituationReflection: "Que reflexão importante! 💭 Me conta um pouco mais sobre a situação da sua turma para pensarmos juntos.",

	SituationAskGrade: "🎯 Vamos criar um plano de aula incrível! Para começar, me conta: para qual ano escolar será esse plano? (1º ao 9º ano, ou ensino médio)",

	SituationAskTopic: "✨ Perfeito! Agora me conta: qual tema você quer abordar ou qual habilidade da BNCC vamos trabalhar?",

	SituationAskStartDate: "🗓️ Vamos organizar sua semana! A partir de quando começamos? Desta segunda-feira, da próxima semana ou de uma data específica?",

	SituationPlanDone: "✨ Espero que seus alunos adorem essas atividades! Quer o plano em PDF, ajustar alguma coisa ou criar outro?",

	SituationScheduleDone: "🚀 Com essa organização sua semana vai ser muito mais tranquila! Quer criar um plano de aula para alguma dessas atividades?",

	SituationReviseNoChange: "✏️ Claro! O que você gostaria de mudar no plano? Posso ajustar o ano, o tema ou o nível de dificuldade (fácil, médio ou difícil).",

	SituationRevisionDone: "✅ Pronto, ajustei o plano como você pediu!",

	SituationPDFReady: "Se quiser, posso ajustar o plano ou criar um novo para outra turma. 😊",
}

// Fallback returns the canned text for situation.
func Fallback(situation Situation) string {
	if text, ok := fallbacks[situation]; ok {
		return text
	}
	return apologyText
}

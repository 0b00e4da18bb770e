package dialogue

import (
	"regexp"
	"strings"

	"github.com/felipe-codebit/prototipo-zap/internal/session"
)

// Labels reported by the missing-field functions.
const (
	FieldGrade     = "ano"
	FieldTopic     = "tema ou habilidade BNCC"
	FieldStartDate = "data de início"
)

// DefaultDifficulty is used when the teacher never says how hard the plan should be.
const DefaultDifficulty = "medio"

// Values stored in Context.WaitingFor.
const (
	waitGrade      = "ano"
	waitTopic      = "tema"
	waitDifficulty = "dificuldade"
	waitStartDate  = "data_inicio"
	waitRevision   = "revisao"
)

// MissingLessonPlanFields lists what a lesson plan still needs, grade first.
func MissingLessonPlanFields(s session.LessonPlanSlots) []string {
	var missing []string
	if strings.TrimSpace(s.Ano) == "" {
		missing = append(missing, FieldGrade)
	}
	if strings.TrimSpace(s.Tema) == "" && strings.TrimSpace(s.HabilidadeBNCC) == "" {
		missing = append(missing, FieldTopic)
	}
	return missing
}

// MissingWeeklyScheduleFields lists what a weekly schedule still needs.
func MissingWeeklyScheduleFields(s session.WeeklyScheduleSlots) []string {
	if strings.TrimSpace(s.DataInicio) == "" {
		return []string{FieldStartDate}
	}
	return nil
}

type fieldQuestion struct {
	waitingFor string
	situation  Situation
}

var questions = map[string]fieldQuestion{
	FieldGrade:     {waitGrade, SituationAskGrade},
	FieldTopic:     {waitTopic, SituationAskTopic},
	FieldStartDate: {waitStartDate, SituationAskStartDate},
}

// difficultyFromText maps keywords onto facil/medio/dificil. ok is false when
// nothing matched.
func difficultyFromText(norm string) (level string, ok bool) {
	norm = strings.ReplaceAll(norm, "ensino medio", "")
	switch {
	case containsAny(norm, "facil", "simples", "basico", "introdut"):
		return "facil", true
	case containsAny(norm, "dificil", "avancado", "desafiador", "complexo"):
		return "dificil", true
	case containsAny(norm, "medio", "intermediario", "normal"):
		return "medio", true
	}
	return "", false
}

var (
	levelWords      = `facil|dificil|medio|simples|basico|avancado|desafiador|complexo|intermediario`
	comparativeCue  = regexp.MustCompile(`\b(?:mais|menos)\s+(?:` + levelWords + `)\b`)
	bareLevelAnswer = regexp.MustCompile(`^(?:` + levelWords + `)[.!]*$`)
)

// explicitDifficulty reads a level only when the message is about difficulty
// ("nível difícil", "mais fácil", a bare "fácil"), so topics such as
// "números complexos" keep the default level.
func explicitDifficulty(norm string) (string, bool) {
	norm = strings.TrimSpace(norm)
	if !containsAny(norm, "nivel", "dificuldade") &&
		!comparativeCue.MatchString(norm) &&
		!bareLevelAnswer.MatchString(norm) {
		return "", false
	}
	return difficultyFromText(norm)
}

var gradePattern = regexp.MustCompile(`(\d{1,2})\s*(?:º|°|o|ª)?\s*ano`)

// gradeFromText finds "5º ano"-like mentions or high school.
func gradeFromText(norm string) (string, bool) {
	if m := gradePattern.FindStringSubmatch(norm); m != nil {
		return m[1] + "º ano", true
	}
	if strings.Contains(norm, "ensino medio") {
		return "Ensino Médio", true
	}
	return "", false
}

// applyDirectAnswer fills the field a pending question asked for with the raw
// reply when the extractor found nothing for it.
func applyDirectAnswer(u session.LessonPlanSlots, waitingFor, raw string) session.LessonPlanSlots {
	answer := strings.TrimRight(strings.TrimSpace(raw), ".!?")
	if answer == "" {
		return u
	}
	switch waitingFor {
	case waitGrade:
		if u.Ano == "" {
			u.Ano = answer
		}
	case waitTopic:
		if u.Tema == "" && u.HabilidadeBNCC == "" {
			u.Tema = answer
		}
	case waitDifficulty:
		if u.NivelDificuldade == "" {
			level, ok := difficultyFromText(normalize(raw))
			if !ok {
				level = DefaultDifficulty
			}
			u.NivelDificuldade = level
		}
	}
	return u
}

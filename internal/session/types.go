package session

import "time"

// Intent is the closed set of conversational goals the assistant understands.
type Intent string

const (
	IntentNone                Intent = ""
	IntentLessonPlan          Intent = "plano_aula"
	IntentQuestion            Intent = "tira_duvidas"
	IntentWeeklySchedule      Intent = "planejamento_semanal"
	IntentGreeting            Intent = "saudacao"
	IntentFarewell            Intent = "despedida"
	IntentExit                Intent = "sair"
	IntentContinue            Intent = "continuar"
	IntentRevisePlan          Intent = "revisar_plano"
	IntentPedagogicReflection Intent = "reflexao_pedagogica"
	IntentUnclear             Intent = "unclear"
)

// Intents lists every known intent, in the order classifiers should see them.
var Intents = []Intent{
	IntentLessonPlan,
	IntentQuestion,
	IntentWeeklySchedule,
	IntentGreeting,
	IntentFarewell,
	IntentExit,
	IntentContinue,
	IntentRevisePlan,
	IntentPedagogicReflection,
	IntentUnclear,
}

// ParseIntent maps a raw label onto an Intent. Unknown labels become unclear.
func ParseIntent(s string) Intent {
	for _, in := range Intents {
		if string(in) == s {
			return in
		}
	}
	return IntentUnclear
}

// IsTask reports whether the intent drives a slot-filling task.
func (i Intent) IsTask() bool {
	return i == IntentLessonPlan || i == IntentWeeklySchedule
}

type Sender string

const (
	SenderUser Sender = "user"
	SenderBot  Sender = "bot"
)

type MessageType string

const (
	MessageText  MessageType = "text"
	MessageAudio MessageType = "audio"
	MessageVideo MessageType = "video"
)

// Message is one turn in the conversation history.
type Message struct {
	ID        string      `json:"id"`
	Text      string      `json:"text"`
	Sender    Sender      `json:"sender"`
	Timestamp time.Time   `json:"timestamp"`
	Type      MessageType `json:"type"`
	AudioURL  string      `json:"audioUrl,omitempty"`
	VideoURL  string      `json:"videoUrl,omitempty"`
}

// LessonPlanSlots are the fields collected for a plano_aula request.
type LessonPlanSlots struct {
	Ano              string `json:"ano,omitempty"`
	Tema             string `json:"tema,omitempty"`
	HabilidadeBNCC   string `json:"habilidadeBNCC,omitempty"`
	NivelDificuldade string `json:"nivelDificuldade,omitempty"`
}

func (s LessonPlanSlots) empty() bool {
	return s == LessonPlanSlots{}
}

// Merge returns s with every non-empty field of u applied.
func (s LessonPlanSlots) Merge(u LessonPlanSlots) LessonPlanSlots {
	if u.Ano != "" {
		s.Ano = u.Ano
	}
	if u.Tema != "" {
		s.Tema = u.Tema
	}
	if u.HabilidadeBNCC != "" {
		s.HabilidadeBNCC = u.HabilidadeBNCC
	}
	if u.NivelDificuldade != "" {
		s.NivelDificuldade = u.NivelDificuldade
	}
	return s
}

// WeeklyScheduleSlots are the fields collected for a planejamento_semanal request.
type WeeklyScheduleSlots struct {
	DataInicio string   `json:"dataInicio,omitempty"`
	DataFim    string   `json:"dataFim,omitempty"`
	Atividades []string `json:"atividades,omitempty"`
	Materias   []string `json:"materias,omitempty"`
}

func (s WeeklyScheduleSlots) empty() bool {
	return s.DataInicio == "" && s.DataFim == "" && len(s.Atividades) == 0 && len(s.Materias) == 0
}

// Merge returns s with every non-empty field of u applied.
func (s WeeklyScheduleSlots) Merge(u WeeklyScheduleSlots) WeeklyScheduleSlots {
	if u.DataInicio != "" {
		s.DataInicio = u.DataInicio
	}
	if u.DataFim != "" {
		s.DataFim = u.DataFim
	}
	if len(u.Atividades) > 0 {
		s.Atividades = append([]string(nil), u.Atividades...)
	}
	if len(u.Materias) > 0 {
		s.Materias = append([]string(nil), u.Materias...)
	}
	return s
}

func (s WeeklyScheduleSlots) clone() WeeklyScheduleSlots {
	s.Atividades = append([]string(nil), s.Atividades...)
	s.Materias = append([]string(nil), s.Materias...)
	return s
}

// ArtifactKey names one generated artifact kept across resets.
type ArtifactKey string

const (
	ArtifactPlanContent     ArtifactKey = "lastPlanoContent"
	ArtifactPlanData        ArtifactKey = "lastPlanoData"
	ArtifactScheduleContent ArtifactKey = "lastPlanejamentoContent"
	ArtifactScheduleData    ArtifactKey = "lastPlanejamentoData"
)

// AllArtifacts is the preserve set used by every reset the assistant performs.
var AllArtifacts = []ArtifactKey{
	ArtifactPlanContent,
	ArtifactPlanData,
	ArtifactScheduleContent,
	ArtifactScheduleData,
}

// Artifacts holds the last generated plan and schedule.
type Artifacts struct {
	LastPlanoContent        string               `json:"lastPlanoContent,omitempty"`
	LastPlanoData           *LessonPlanSlots     `json:"lastPlanoData,omitempty"`
	LastPlanejamentoContent string               `json:"lastPlanejamentoContent,omitempty"`
	LastPlanejamentoData    *WeeklyScheduleSlots `json:"lastPlanejamentoData,omitempty"`
}

func (a Artifacts) clone() Artifacts {
	if a.LastPlanoData != nil {
		d := *a.LastPlanoData
		a.LastPlanoData = &d
	}
	if a.LastPlanejamentoData != nil {
		d := a.LastPlanejamentoData.clone()
		a.LastPlanejamentoData = &d
	}
	return a
}

// keep returns a copy holding only the listed artifacts.
func (a Artifacts) keep(keys []ArtifactKey) Artifacts {
	var out Artifacts
	for _, k := range keys {
		switch k {
		case ArtifactPlanContent:
			out.LastPlanoContent = a.LastPlanoContent
		case ArtifactPlanData:
			out.LastPlanoData = a.LastPlanoData
		case ArtifactScheduleContent:
			out.LastPlanejamentoContent = a.LastPlanejamentoContent
		case ArtifactScheduleData:
			out.LastPlanejamentoData = a.LastPlanejamentoData
		}
	}
	return out
}

// CollectedData is everything gathered during the conversation: the slots of
// the tasks in progress plus the artifacts already produced.
type CollectedData struct {
	Lesson    LessonPlanSlots     `json:"lesson"`
	Weekly    WeeklyScheduleSlots `json:"weekly"`
	Artifacts Artifacts           `json:"artifacts"`
}

// HasSlots reports whether any task slot has been filled.
func (d CollectedData) HasSlots() bool {
	return !d.Lesson.empty() || !d.Weekly.empty()
}

// Empty reports whether nothing at all was collected.
func (d CollectedData) Empty() bool {
	return !d.HasSlots() && d.Artifacts == Artifacts{}
}

// Set assigns a field by its wire name. It returns false for unknown keys.
func (d *CollectedData) Set(key, value string) bool {
	switch key {
	case "ano":
		d.Lesson.Ano = value
	case "tema":
		d.Lesson.Tema = value
	case "habilidadeBNCC":
		d.Lesson.HabilidadeBNCC = value
	case "nivelDificuldade":
		d.Lesson.NivelDificuldade = value
	case "dataInicio":
		d.Weekly.DataInicio = value
	case "dataFim":
		d.Weekly.DataFim = value
	case string(ArtifactPlanContent):
		d.Artifacts.LastPlanoContent = value
	case string(ArtifactScheduleContent):
		d.Artifacts.LastPlanejamentoContent = value
	default:
		return false
	}
	return true
}

func (d CollectedData) clone() CollectedData {
	d.Weekly = d.Weekly.clone()
	d.Artifacts = d.Artifacts.clone()
	return d
}

// Context is the full conversational state of one session.
type Context struct {
	SessionID        string        `json:"sessionId"`
	CurrentIntent    Intent        `json:"currentIntent"`
	IntentConfidence float64       `json:"intentConfidence"`
	Data             CollectedData `json:"collectedData"`
	History          []Message     `json:"conversationHistory"`
	LastActivity     time.Time     `json:"lastActivity"`
	WaitingFor       string        `json:"waitingFor,omitempty"`
	LastBotQuestion  string        `json:"lastBotQuestion,omitempty"`
}

func (c *Context) clone() Context {
	out := *c
	out.Data = c.Data.clone()
	out.History = append([]Message(nil), c.History...)
	return out
}

// RecentHistory returns at most n of the latest messages.
func (c Context) RecentHistory(n int) []Message {
	if len(c.History) <= n {
		return c.History
	}
	return c.History[len(c.History)-n:]
}

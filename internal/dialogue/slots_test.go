package dialogue

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/felipe-codebit/prototipo-zap/internal/session"
)

func TestMissingLessonPlanFields(t *testing.T) {
	tests := []struct {
		name  string
		slots session.LessonPlanSlots
		want  []string
	}{
		{"empty", session.LessonPlanSlots{}, []string{FieldGrade, FieldTopic}},
		{"grade only", session.LessonPlanSlots{Ano: "5º ano"}, []string{FieldTopic}},
		{"skill instead of topic", session.LessonPlanSlots{Ano: "5º ano", HabilidadeBNCC: "EF05MA03"}, nil},
		{"blank grade", session.LessonPlanSlots{Ano: "  ", Tema: "frações"}, []string{FieldGrade}},
		{"complete", session.LessonPlanSlots{Ano: "5º ano", Tema: "frações"}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, MissingLessonPlanFields(tt.slots)); diff != "" {
				t.Errorf("missing fields (-want +got):\n%s", diff)
			}
		})
	}
}

func TestMissingWeeklyScheduleFields(t *testing.T) {
	if got := MissingWeeklyScheduleFields(session.WeeklyScheduleSlots{}); len(got) != 1 || got[0] != FieldStartDate {
		t.Errorf("got %v", got)
	}
	if got := MissingWeeklyScheduleFields(session.WeeklyScheduleSlots{DataInicio: "segunda"}); got != nil {
		t.Errorf("got %v", got)
	}
}

func TestDifficultyFromText(t *testing.T) {
	tests := []struct {
		msg    string
		want   string
		wantOK bool
	}{
		{"deixa mais fácil", "facil", true},
		{"algo mais desafiador", "dificil", true},
		{"nível intermediário", "medio", true},
		{"plano para o ensino médio", "", false},
		{"sobre frações", "", false},
	}
	for _, tt := range tests {
		got, ok := difficultyFromText(normalize(tt.msg))
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("difficultyFromText(%q) = %q, %v", tt.msg, got, ok)
		}
	}
}

func TestExplicitDifficulty(t *testing.T) {
	tests := []struct {
		msg    string
		want   string
		wantOK bool
	}{
		{"números complexos", "", false},
		{"introdução às frações", "", false},
		{"frações para o ensino médio", "", false},
		{"frações, nível difícil", "dificil", true},
		{"mais fácil", "facil", true},
		{"Fácil!", "facil", true},
		{"dificuldade intermediária", "medio", true},
	}
	for _, tt := range tests {
		got, ok := explicitDifficulty(normalize(tt.msg))
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("explicitDifficulty(%q) = %q, %v", tt.msg, got, ok)
		}
	}
}

func TestGradeFromText(t *testing.T) {
	tests := []struct {
		msg  string
		want string
	}{
		{"para o 5º ano", "5º ano"},
		{"turma do 9 ano", "9º ano"},
		{"3o ano", "3º ano"},
		{"ensino médio", "Ensino Médio"},
		{"frações", ""},
	}
	for _, tt := range tests {
		got, _ := gradeFromText(normalize(tt.msg))
		if got != tt.want {
			t.Errorf("gradeFromText(%q) = %q, want %q", tt.msg, got, tt.want)
		}
	}
}

func TestApplyDirectAnswer(t *testing.T) {
	got := applyDirectAnswer(session.LessonPlanSlots{}, waitTopic, "sistema solar.")
	if got.Tema != "sistema solar" {
		t.Errorf("Tema = %q", got.Tema)
	}

	got = applyDirectAnswer(session.LessonPlanSlots{Ano: "4º ano"}, waitGrade, "quinto")
	if got.Ano != "4º ano" {
		t.Errorf("extracted grade was overwritten: %q", got.Ano)
	}

	got = applyDirectAnswer(session.LessonPlanSlots{}, waitDifficulty, "tanto faz")
	if got.NivelDificuldade != DefaultDifficulty {
		t.Errorf("NivelDificuldade = %q", got.NivelDificuldade)
	}

	if got := applyDirectAnswer(session.LessonPlanSlots{}, waitTopic, "  "); got.Tema != "" {
		t.Errorf("blank answer stored: %q", got.Tema)
	}
}

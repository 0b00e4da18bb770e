package dialogue

import (
	"context"
	"encoding/json"
	"strings"

	"go.uber.org/zap"

	"github.com/felipe-codebit/prototipo-zap/internal/archive"
	"github.com/felipe-codebit/prototipo-zap/internal/session"
)

func (c *Controller) handleLessonPlan(ctx context.Context, t turnState) (Reply, error) {
	cur := c.store.GetOrCreate(t.id)
	found := c.extract(ctx, cur, t.text, session.IntentLessonPlan).Lesson
	if t.answering != "" {
		found = applyDirectAnswer(found, t.answering, t.text)
	}
	if lvl, ok := explicitDifficulty(t.norm); ok && found.NivelDificuldade == "" {
		found.NivelDificuldade = lvl
	}
	slots := c.store.MergeLessonSlots(t.id, found)
	if t.answering != "" {
		c.store.ClearWaitingFor(t.id)
	}

	missing := MissingLessonPlanFields(slots)
	t.log.Info("data_collection",
		zap.String("intent", string(session.IntentLessonPlan)),
		zap.Strings("missing", missing),
	)
	if len(missing) > 0 {
		return c.askFor(ctx, t, missing[0]), nil
	}
	return c.completeLessonPlan(ctx, t, slots, SituationPlanDone)
}

func (c *Controller) handleWeeklySchedule(ctx context.Context, t turnState) (Reply, error) {
	cur := c.store.GetOrCreate(t.id)
	found := c.extract(ctx, cur, t.text, session.IntentWeeklySchedule).Weekly
	if t.answering == waitStartDate && found.DataInicio == "" {
		found.DataInicio = strings.TrimRight(strings.TrimSpace(t.text), ".!?")
	}
	slots := c.store.MergeWeeklySlots(t.id, found)
	if t.answering != "" {
		c.store.ClearWaitingFor(t.id)
	}

	missing := MissingWeeklyScheduleFields(slots)
	t.log.Info("data_collection",
		zap.String("intent", string(session.IntentWeeklySchedule)),
		zap.Strings("missing", missing),
	)
	if len(missing) > 0 {
		return c.askFor(ctx, t, missing[0]), nil
	}

	gc := c.generationContext(t)
	gc.Weekly = slots
	schedule, err := c.generator.Generate(ctx, SituationWeeklySchedule, gc)
	if err != nil || strings.TrimSpace(schedule) == "" {
		t.log.Error("schedule generation failed", zap.Error(err))
		return Reply{Text: weeklyScheduleFailedText}, nil
	}

	c.store.SaveWeeklySchedule(t.id, schedule, slots)
	c.archiveArtifact(ctx, t, archive.KindWeeklySchedule, schedule, slots)
	c.store.ResetKeepingHistory(t.id, session.AllArtifacts...)

	closing := c.say(ctx, SituationScheduleDone, gc)
	return Reply{Text: deliver(schedule, ScheduleCompletionMarker, closing)}, nil
}

// askFor asks for one missing field and remembers the question.
func (c *Controller) askFor(ctx context.Context, t turnState, field string) Reply {
	q := questions[field]
	gc := c.generationContext(t)
	gc.Field = field
	text := c.say(ctx, q.situation, gc)
	c.store.SetWaitingFor(t.id, q.waitingFor, text)
	return Reply{Text: text}
}

// completeLessonPlan generates, stores and delivers a plan. On generation
// failure the collected slots stay so the teacher can simply retry.
func (c *Controller) completeLessonPlan(ctx context.Context, t turnState, slots session.LessonPlanSlots, closingSituation Situation) (Reply, error) {
	if slots.NivelDificuldade == "" {
		slots.NivelDificuldade = DefaultDifficulty
	}
	gc := c.generationContext(t)
	gc.Lesson = slots

	plan, err := c.generator.Generate(ctx, SituationLessonPlan, gc)
	if err != nil || strings.TrimSpace(plan) == "" {
		t.log.Error("lesson plan generation failed", zap.Error(err))
		return Reply{Text: lessonPlanFailedText}, nil
	}

	c.store.SaveLessonPlan(t.id, plan, slots)
	c.archiveArtifact(ctx, t, archive.KindLessonPlan, plan, slots)
	c.store.ResetKeepingHistory(t.id, session.AllArtifacts...)

	closing := c.say(ctx, closingSituation, gc)
	return Reply{Text: deliver(plan, PlanCompletionMarker, closing)}, nil
}

func deliver(artifact, marker, closing string) string {
	return strings.TrimSpace(artifact) + "\n\n---\n\n" + marker + "\n\n" + closing
}

func (c *Controller) archiveArtifact(ctx context.Context, t turnState, kind archive.Kind, content string, data any) {
	if c.artifacts == nil {
		return
	}
	raw, err := json.Marshal(data)
	if err != nil {
		t.log.Warn("encoding artifact data", zap.Error(err))
		raw = nil
	}
	rec := &archive.Record{SessionID: t.id, Kind: kind, Content: content, Data: raw}
	if err := c.artifacts.Save(ctx, rec); err != nil {
		t.log.Warn("archiving artifact failed", zap.String("kind", string(kind)), zap.Error(err))
	}
}

// handleRevisePlan regenerates the last plan with the changes the teacher asked for.
func (c *Controller) handleRevisePlan(ctx context.Context, t turnState) (Reply, error) {
	if _, ok := c.LatestPlan(ctx, t.id); !ok {
		return Reply{Text: reviseNoPlanText}, nil
	}
	cur := c.store.GetOrCreate(t.id)

	var base session.LessonPlanSlots
	if cur.Data.Artifacts.LastPlanoData != nil {
		base = *cur.Data.Artifacts.LastPlanoData
	}

	var delta session.LessonPlanSlots
	if lvl, ok := difficultyFromText(t.norm); ok {
		delta.NivelDificuldade = lvl
	}
	if grade, ok := gradeFromText(t.norm); ok {
		delta.Ano = grade
	}
	found := c.extract(ctx, cur, t.text, session.IntentLessonPlan).Lesson
	delta.Tema = found.Tema
	delta.HabilidadeBNCC = found.HabilidadeBNCC

	if delta == (session.LessonPlanSlots{}) {
		gc := c.generationContext(t)
		gc.Lesson = base
		text := c.say(ctx, SituationReviseNoChange, gc)
		c.store.SetWaitingFor(t.id, waitRevision, text)
		return Reply{Text: text}, nil
	}

	merged := base.Merge(delta)
	if delta.Tema != "" && delta.HabilidadeBNCC == "" {
		merged.HabilidadeBNCC = ""
	}
	// A plan recovered from history carries no slot data; collect it first.
	if missing := MissingLessonPlanFields(merged); len(missing) > 0 {
		t.log.Info("plan_revision_incomplete", zap.Strings("missing", missing))
		c.store.ClearWaitingFor(t.id)
		c.store.UpdateIntent(t.id, session.IntentLessonPlan, cur.IntentConfidence)
		c.store.MergeLessonSlots(t.id, merged)
		return c.askFor(ctx, t, missing[0]), nil
	}

	t.log.Info("plan_revision",
		zap.String("ano", merged.Ano),
		zap.String("tema", merged.Tema),
		zap.String("nivel", merged.NivelDificuldade),
	)
	c.store.ClearWaitingFor(t.id)
	return c.completeLessonPlan(ctx, t, merged, SituationRevisionDone)
}

package schedule

import (
	"time"

	"github.com/m04kA/SMC-SalonScheduling/internal/domain"
)

// DayInput исходные данные рабочего дня сотрудника
type DayInput struct {
	Date      time.Time                 // Полночь в часовом поясе салона
	Default   *domain.DefaultShift      // nil, если шаблон на день недели не задан
	Overrides []domain.ScheduleOverride // В порядке создания
	Flexible  []domain.FlexibleShift    // Только одобренные
}

// WindowSource источник рабочих окон.
// ok=false означает, что источник не определяет результат и решение переходит к следующему.
type WindowSource func(in DayInput) (windows []domain.Interval, ok bool)

// Resolver упорядоченный конвейер источников рабочего времени:
// базовые источники (первый определившийся), добавочные окна, вычитаемые блокировки
type Resolver struct {
	base      []WindowSource
	additive  []WindowSource
	carveOuts []WindowSource
}

// NewResolver создает конвейер по умолчанию:
// override -> шаблон недели, затем одобренные гибкие смены, затем BLOCK и DAY_OFF
func NewResolver() *Resolver {
	return &Resolver{
		base:      []WindowSource{OverrideSource, DefaultShiftSource},
		additive:  []WindowSource{FlexibleShiftSource},
		carveOuts: []WindowSource{BlockingOverrideSource},
	}
}

// Resolve возвращает отсортированные непересекающиеся рабочие окна в пределах дня
func (r *Resolver) Resolve(in DayInput) []domain.Interval {
	day := domain.DayBounds(in.Date)

	var windows []domain.Interval
	for _, source := range r.base {
		if w, ok := source(in); ok {
			windows = append(windows, w...)
			break
		}
	}
	for _, source := range r.additive {
		w, _ := source(in)
		windows = append(windows, w...)
	}

	var blocked []domain.Interval
	for _, source := range r.carveOuts {
		w, _ := source(in)
		blocked = append(blocked, w...)
	}

	clipped := make([]domain.Interval, 0, len(windows))
	for _, w := range windows {
		if c, ok := w.Clip(day); ok {
			clipped = append(clipped, c)
		}
	}
	return domain.SubtractIntervals(clipped, blocked)
}

// OverrideSource последний WORK или DAY_OFF на весь день заменяет шаблон недели.
// DAY_OFF с интервалом не заменяет шаблон, а вычитается из него.
func OverrideSource(in DayInput) ([]domain.Interval, bool) {
	var latest *domain.ScheduleOverride
	for i := range in.Overrides {
		o := &in.Overrides[i]
		if o.Kind == domain.OverrideWork || (o.Kind == domain.OverrideDayOff && !o.HasWindow()) {
			latest = o
		}
	}
	if latest == nil {
		return nil, false
	}
	if latest.Kind == domain.OverrideDayOff {
		return []domain.Interval{}, true
	}
	return []domain.Interval{latest.Window()}, true
}

// DefaultShiftSource окно из шаблона недели; всегда определяет результат
func DefaultShiftSource(in DayInput) ([]domain.Interval, bool) {
	if in.Default == nil {
		return []domain.Interval{}, true
	}
	w, ok := in.Default.WindowOn(in.Date)
	if !ok {
		return []domain.Interval{}, true
	}
	return []domain.Interval{w}, true
}

// FlexibleShiftSource окна одобренных гибких смен
func FlexibleShiftSource(in DayInput) ([]domain.Interval, bool) {
	windows := make([]domain.Interval, 0, len(in.Flexible))
	for _, f := range in.Flexible {
		if f.IsApproved() {
			windows = append(windows, f.Interval())
		}
	}
	return windows, true
}

// BlockingOverrideSource интервалы BLOCK и DAY_OFF, которые нужно вычесть.
// DAY_OFF, созданный раньше последнего WORK, перекрыт этим WORK.
func BlockingOverrideSource(in DayInput) ([]domain.Interval, bool) {
	var blocks, daysOff []domain.Interval
	for _, o := range in.Overrides {
		switch o.Kind {
		case domain.OverrideWork:
			daysOff = nil
		case domain.OverrideDayOff:
			daysOff = append(daysOff, o.Window())
		case domain.OverrideBlock:
			blocks = append(blocks, o.Window())
		}
	}
	return append(blocks, daysOff...), true
}

// GenerateSlots нарезает свободные окна на слоты длительностью duration с шагом step
// от начала каждого окна. Слоты, начинающиеся раньше notBefore, не возвращаются.
func GenerateSlots(free []domain.Interval, duration, step time.Duration, notBefore time.Time) []domain.Slot {
	slots := make([]domain.Slot, 0)
	if duration <= 0 || step <= 0 {
		return slots
	}
	for _, w := range free {
		for start := w.Start; !start.Add(duration).After(w.End); start = start.Add(step) {
			if start.Before(notBefore) {
				continue
			}
			slots = append(slots, domain.Slot{Start: start, End: start.Add(duration)})
		}
	}
	return slots
}

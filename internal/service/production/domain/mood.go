package domain

import "time"

// Mood 是面板和标签上展示的菌包“心情”
type Mood string

const (
	MoodHappy   Mood = "happy"
	MoodSleepy  Mood = "sleepy"
	MoodGrowing Mood = "growing"
	MoodProud   Mood = "proud"
	MoodSick    Mood = "sick"
	MoodGone    Mood = "gone"
)

func (m Mood) Valid() bool {
	switch m {
	case MoodHappy, MoodSleepy, MoodGrowing, MoodProud, MoodSick, MoodGone:
		return true
	}
	return false
}

// MoodFacts 是心情规则可以读取的事实
type MoodFacts struct {
	Status  BatchStatus
	AgeDays int
	Units   int
	Strain  string
}

func FactsOf(b *Batch, now time.Time) MoodFacts {
	return MoodFacts{Status: b.Status, AgeDays: b.AgeDays(now), Units: b.Units, Strain: b.Strain}
}

// MoodEngine 根据事实推导心情
type MoodEngine interface {
	Evaluate(facts MoodFacts) (Mood, error)
}

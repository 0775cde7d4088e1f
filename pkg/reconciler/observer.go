package reconciler

import (
	"time"

	"github.com/agentstation/amjd/pkg/sources"
)

// Observer is notified as a run progresses.
type Observer interface {
	SourceProcessed(id sources.ID, stats SourceStats)
	SourceMissing(id sources.ID)
	RunFinished(records int, duration time.Duration)
}

type nopObserver struct{}

func (nopObserver) SourceProcessed(sources.ID, SourceStats) {}
func (nopObserver) SourceMissing(sources.ID)                {}
func (nopObserver) RunFinished(int, time.Duration)          {}

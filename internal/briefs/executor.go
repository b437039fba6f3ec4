package briefs

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/adforge/adforge-backend/internal/generation"
	"github.com/adforge/adforge-backend/internal/ideas"
	"github.com/adforge/adforge-backend/pkg/db/models"
	pkgerrors "github.com/adforge/adforge-backend/pkg/errors"
	"github.com/adforge/adforge-backend/pkg/logger"
)

// EventType tags a single message in the execution stream.
type EventType string

const (
	EventInit     EventType = "init"
	EventIdea     EventType = "idea"
	EventError    EventType = "error"
	EventComplete EventType = "complete"
	EventFatal    EventType = "fatal"
)

// Event is one streamed execution update. Fields are populated per type:
// init carries the plan, idea the persisted row, error the failed pair.
type Event struct {
	Type         EventType    `json:"type"`
	Regions      []string     `json:"regions,omitempty"`
	Demographics []string     `json:"demographics,omitempty"`
	Total        int          `json:"total,omitempty"`
	Idea         *models.Idea `json:"idea,omitempty"`
	Region       string       `json:"region,omitempty"`
	Demographic  string       `json:"demographic,omitempty"`
	Message      string       `json:"error,omitempty"`
}

// EmitFunc delivers one event to the stream consumer. A returned error means
// the consumer is gone and the producer should stop.
type EmitFunc func(Event) error

type briefReader interface {
	Get(ctx context.Context, id uuid.UUID) (*models.Brief, error)
}

type queueClearer interface {
	ClearAll(ctx context.Context) (int, error)
}

type ideaCreator interface {
	Create(ctx context.Context, input ideas.CreateInput) (*models.Idea, error)
}

type textGenerator interface {
	GenerateIdea(ctx context.Context, req generation.IdeaRequest) (*generation.IdeaResult, error)
}

// Executor drives a brief through idea generation. One execution at a time
// system-wide; the queue clear makes overlapping runs mutually destructive,
// so a redis lock turns the second caller away with a conflict.
type Executor struct {
	briefs    briefReader
	creatives queueClearer
	ideas     ideaCreator
	gen       textGenerator
	newLock   func() ExecutionLock
	logg      *logger.Logger
}

// NewExecutor constructs a brief executor. newLock produces a fresh lock
// handle per run.
func NewExecutor(briefs briefReader, creatives queueClearer, ideaSvc ideaCreator, gen textGenerator, newLock func() ExecutionLock, logg *logger.Logger) (*Executor, error) {
	if briefs == nil || creatives == nil || ideaSvc == nil || gen == nil {
		return nil, fmt.Errorf("executor dependencies required")
	}
	if newLock == nil {
		return nil, fmt.Errorf("lock factory required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &Executor{
		briefs:    briefs,
		creatives: creatives,
		ideas:     ideaSvc,
		gen:       gen,
		newLock:   newLock,
		logg:      logg,
	}, nil
}

// Execute generates one idea per (region, demographic) pair of the brief,
// pushing events to emit as they happen. Regions iterate in list order with
// demographics nested inside, sequentially. A failed pair emits an error
// event and the run continues; a failure before the loop emits a single
// fatal event. Lock contention and a missing brief are reported as returned
// errors since no stream output has been produced yet.
func (e *Executor) Execute(ctx context.Context, briefID uuid.UUID, emit EmitFunc) error {
	lock := e.newLock()
	ok, err := lock.Acquire(ctx)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "acquire execution lock")
	}
	if !ok {
		return pkgerrors.New(pkgerrors.CodeConflict, "a brief execution is already in progress")
	}
	defer func() {
		if err := lock.Release(ctx); err != nil {
			e.logg.Error(ctx, "release execution lock failed", err)
		}
	}()

	brief, err := e.briefs.Get(ctx, briefID)
	if err != nil {
		return err
	}

	ctx = e.logg.WithBriefID(ctx, brief.ID.String())

	cleared, err := e.creatives.ClearAll(ctx)
	if err != nil {
		e.logg.Error(ctx, "queue clear failed", err)
		return emit(Event{Type: EventFatal, Message: "failed to clear the approval queue"})
	}
	e.logg.Info(e.logg.WithField(ctx, "cleared", cleared), "approval queue cleared")

	total := len(brief.Regions) * len(brief.Demographics)
	if err := emit(Event{
		Type:         EventInit,
		Regions:      brief.Regions,
		Demographics: brief.Demographics,
		Total:        total,
	}); err != nil {
		return err
	}

	for _, region := range brief.Regions {
		for _, demographic := range brief.Demographics {
			if err := e.executePair(ctx, brief, region, demographic, emit); err != nil {
				return err
			}
		}
	}

	return emit(Event{Type: EventComplete})
}

// executePair generates and persists one idea. Generation or persistence
// failures become error events; only a dead consumer propagates up.
func (e *Executor) executePair(ctx context.Context, brief *models.Brief, region, demographic string, emit EmitFunc) error {
	result, err := e.gen.GenerateIdea(ctx, generation.IdeaRequest{
		BriefContent:    brief.Content,
		CampaignMessage: brief.CampaignMessage,
		Region:          region,
		Demographic:     demographic,
	})
	if err != nil {
		e.logg.Error(e.logg.WithFields(ctx, map[string]any{"region": region, "demographic": demographic}),
			"idea generation failed", err)
		return emit(Event{Type: EventError, Region: region, Demographic: demographic, Message: err.Error()})
	}

	idea, err := e.ideas.Create(ctx, ideas.CreateInput{
		BriefID:      brief.ID,
		Region:       region,
		Demographic:  demographic,
		Content:      result.Content,
		LanguageCode: result.LanguageCode,
	})
	if err != nil {
		e.logg.Error(e.logg.WithFields(ctx, map[string]any{"region": region, "demographic": demographic}),
			"idea persistence failed", err)
		return emit(Event{Type: EventError, Region: region, Demographic: demographic, Message: err.Error()})
	}

	return emit(Event{Type: EventIdea, Idea: idea})
}

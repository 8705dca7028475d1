package service

import (
	"context"

	pkgerrors "github.com/alejandrobg101/Syllabus-Chatbot/pkg/errors"
)

// RequisiteGraphGuard decides whether a requisite edge may be written.
// Checks run in this order: both courses exist, the pair is not stored yet,
// the edge is not a self-reference, and for prerequisites the reverse
// prerequisite is not stored. Only two-course cycles are detected.
type RequisiteGraphGuard struct{}

// NewRequisiteGraphGuard creates a RequisiteGraphGuard
func NewRequisiteGraphGuard() *RequisiteGraphGuard {
	return &RequisiteGraphGuard{}
}

// ValidateEdge checks classID ← reqID. It reads from store only.
func (g *RequisiteGraphGuard) ValidateEdge(ctx context.Context, store SchedulingStore, classID, reqID int64, prereq bool) error {
	for _, id := range []int64{classID, reqID} {
		ok, err := store.CourseExists(ctx, id)
		if err != nil {
			return err
		}
		if !ok {
			return pkgerrors.New(pkgerrors.KindForeignKeyMissing, "course %d", id)
		}
	}

	dup, err := store.EdgeExists(ctx, classID, reqID)
	if err != nil {
		return err
	}
	if dup {
		return pkgerrors.New(pkgerrors.KindDuplicateEdge, "%d → %d", classID, reqID)
	}

	if classID == reqID {
		return pkgerrors.New(pkgerrors.KindSelfReferenceNotAllowed, "course %d", classID)
	}

	if !prereq {
		return nil
	}
	cycle, err := g.HasImmediateCycle(ctx, store, classID, reqID)
	if err != nil {
		return err
	}
	if cycle {
		return pkgerrors.New(pkgerrors.KindCycleNotAllowed, "%d is already a prerequisite of %d", classID, reqID)
	}
	return nil
}

// HasImmediateCycle reports whether adding reqID as a prerequisite of
// classID would close a two-course loop, i.e. classID is already a
// prerequisite of reqID. Longer cycles are not detected.
func (g *RequisiteGraphGuard) HasImmediateCycle(ctx context.Context, store SchedulingStore, classID, reqID int64) (bool, error) {
	return store.ReverseEdgeExists(ctx, reqID, classID)
}

package service

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/alejandrobg101/Syllabus-Chatbot/config"
	"github.com/alejandrobg101/Syllabus-Chatbot/internal/model"
	pkgerrors "github.com/alejandrobg101/Syllabus-Chatbot/pkg/errors"
)

// SectionPlacement the fields of a proposed or edited section
type SectionPlacement struct {
	CourseID  int64
	RoomID    int64
	MeetingID int64
	Semester  string
	Year      string
	Capacity  int
}

// SectionPlacementValidator decides whether a section may be written.
// It only reads from the store it is given and keeps no state between calls.
//
// Checks run in this order and the first failure is returned:
//  1. course, room and meeting exist       → foreign_key_missing
//  2. capacity fits the room               → capacity_exceeded
//  3. semester and year are well formed    → invalid_format
//  4. no other section clashes in the room → scheduling_conflict
type SectionPlacementValidator struct {
	policy string
}

// NewSectionPlacementValidator policy is config.ConflictPolicyExact or
// config.ConflictPolicyOverlap; anything else falls back to exact.
func NewSectionPlacementValidator(policy string) *SectionPlacementValidator {
	if policy != config.ConflictPolicyOverlap {
		policy = config.ConflictPolicyExact
	}
	return &SectionPlacementValidator{policy: policy}
}

// Policy returns the conflict policy in use.
func (v *SectionPlacementValidator) Policy() string {
	return v.policy
}

// ValidateNew checks a section that does not exist yet.
func (v *SectionPlacementValidator) ValidateNew(ctx context.Context, store SchedulingStore, p SectionPlacement) error {
	return v.validate(ctx, store, 0, p)
}

// ValidateUpdate checks new field values for sectionID. The section is
// excluded from its own conflict set, so an unchanged edit always passes
// the conflict check.
func (v *SectionPlacementValidator) ValidateUpdate(ctx context.Context, store SchedulingStore, sectionID int64, p SectionPlacement) error {
	ok, err := store.SectionExists(ctx, sectionID)
	if err != nil {
		return err
	}
	if !ok {
		return pkgerrors.New(pkgerrors.KindNotFound, "section %d", sectionID)
	}
	return v.validate(ctx, store, sectionID, p)
}

func (v *SectionPlacementValidator) validate(ctx context.Context, store SchedulingStore, excludeID int64, p SectionPlacement) error {
	// ── 1. references ──
	refs := []struct {
		name   string
		id     int64
		exists func(context.Context, int64) (bool, error)
	}{
		{"course", p.CourseID, store.CourseExists},
		{"room", p.RoomID, store.RoomExists},
		{"meeting", p.MeetingID, store.MeetingExists},
	}
	for _, ref := range refs {
		ok, err := ref.exists(ctx, ref.id)
		if err != nil {
			return err
		}
		if !ok {
			return pkgerrors.New(pkgerrors.KindForeignKeyMissing, "%s %d", ref.name, ref.id)
		}
	}

	// ── 2. capacity ──
	roomCap, err := store.RoomCapacity(ctx, p.RoomID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.KindCapacityExceeded, "room %d does not exist", p.RoomID)
		}
		return err
	}
	if p.Capacity > roomCap {
		return pkgerrors.New(pkgerrors.KindCapacityExceeded, "requested %d, room %d holds %d", p.Capacity, p.RoomID, roomCap)
	}

	// ── 3. term format ──
	if !model.ValidSemester(p.Semester) {
		return pkgerrors.New(pkgerrors.KindInvalidFormat, "semester %q", p.Semester)
	}
	if !model.ValidYear(p.Year) {
		return pkgerrors.New(pkgerrors.KindInvalidFormat, "year %q", p.Year)
	}

	// ── 4. room/time conflict ──
	var conflicts []int64
	if v.policy == config.ConflictPolicyOverlap {
		conflicts, err = v.overlapping(ctx, store, excludeID, p)
	} else {
		conflicts, err = v.sameCode(ctx, store, excludeID, p)
	}
	if err != nil {
		return err
	}
	if len(conflicts) > 0 {
		return pkgerrors.Conflict(conflicts)
	}
	return nil
}

// sameCode treats two sections as clashing when their day-pattern codes are equal.
func (v *SectionPlacementValidator) sameCode(ctx context.Context, store SchedulingStore, excludeID int64, p SectionPlacement) ([]int64, error) {
	sections, err := store.FindConflictingSections(ctx, excludeID, p.RoomID, p.MeetingID, p.Semester, p.Year)
	if err != nil {
		return nil, err
	}
	return sectionIDs(sections), nil
}

// overlapping treats two sections as clashing when their meetings share a
// weekday and their time ranges intersect.
func (v *SectionPlacementValidator) overlapping(ctx context.Context, store SchedulingStore, excludeID int64, p SectionPlacement) ([]int64, error) {
	proposed, err := store.GetMeeting(ctx, p.MeetingID)
	if err != nil {
		return nil, err
	}
	sections, err := store.ListRoomTermSections(ctx, p.RoomID, p.Semester, p.Year, excludeID)
	if err != nil {
		return nil, err
	}

	var ids []int64
	for i := range sections {
		m := sections[i].Meeting
		if m == nil {
			if m, err = store.GetMeeting(ctx, sections[i].MeetingID); err != nil {
				return nil, err
			}
		}
		if proposed.Overlaps(m) {
			ids = append(ids, sections[i].SectionID)
		}
	}
	return ids, nil
}

func sectionIDs(sections []model.Section) []int64 {
	if len(sections) == 0 {
		return nil
	}
	ids := make([]int64, len(sections))
	for i := range sections {
		ids[i] = sections[i].SectionID
	}
	return ids
}

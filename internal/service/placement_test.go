package service

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/alejandrobg101/Syllabus-Chatbot/config"
	"github.com/alejandrobg101/Syllabus-Chatbot/internal/repository"
	pkgerrors "github.com/alejandrobg101/Syllabus-Chatbot/pkg/errors"
)

// ── test helpers ──

// placementFixture: room 10 (capacity 30) hosts section 500 for course 1 on
// meeting 20 (MJ 09:00-10:20), Fall 2025.
func placementFixture() (*memDB, SchedulingStore) {
	db := newMemDB()
	db.addCourse(1, "4020")
	db.addCourse(2, "4050")
	db.addRoom(10, 30)
	db.addRoom(11, 40)
	db.addMeeting(20, "MJ", "09:00:00", "10:20:00")
	db.addMeeting(21, "LWV", "09:00:00", "10:20:00")
	db.addMeeting(22, "MJ", "13:00:00", "14:20:00")
	db.addMeeting(23, "LMV", "09:30:00", "10:20:00")
	db.addMeeting(24, "MJ", "10:00:00", "11:15:00")
	db.addMeeting(25, "MJ", "09:00:00", "10:20:00")
	db.addSection(500, 1, 10, 20, "Fall", "2025", 25)
	return db, repository.NewStore(newMockRepository(db))
}

func proposal(meetingID int64) SectionPlacement {
	return SectionPlacement{CourseID: 2, RoomID: 10, MeetingID: meetingID, Semester: "Fall", Year: "2025", Capacity: 20}
}

func assertKind(t *testing.T, err error, want pkgerrors.Kind) {
	t.Helper()
	kind, ok := pkgerrors.KindOf(err)
	if !ok || kind != want {
		t.Fatalf("expected %s, got %v", want, err)
	}
}

type failingStore struct {
	SchedulingStore
	err error
}

func (f failingStore) RoomCapacity(context.Context, int64) (int, error) { return 0, f.err }

func (f failingStore) EdgeExists(context.Context, int64, int64) (bool, error) { return false, f.err }

// ── exact policy ──

func TestPlacement_SameDayPatternSameTermConflicts(t *testing.T) {
	_, store := placementFixture()
	v := NewSectionPlacementValidator(config.ConflictPolicyExact)

	err := v.ValidateNew(context.Background(), store, proposal(25))
	if !errors.Is(err, pkgerrors.ErrSchedulingConflict) {
		t.Fatalf("expected ErrSchedulingConflict, got %v", err)
	}
	var ve *pkgerrors.ValidationError
	if !errors.As(err, &ve) || !reflect.DeepEqual(ve.ConflictIDs, []int64{500}) {
		t.Errorf("expected conflict with section 500, got %v", err)
	}
}

func TestPlacement_DifferentDayPatternAccepted(t *testing.T) {
	_, store := placementFixture()
	v := NewSectionPlacementValidator(config.ConflictPolicyExact)

	if err := v.ValidateNew(context.Background(), store, proposal(21)); err != nil {
		t.Errorf("LWV next to MJ should be accepted, got %v", err)
	}
}

func TestPlacement_ExactPolicyComparesCodesOnly(t *testing.T) {
	_, store := placementFixture()
	v := NewSectionPlacementValidator(config.ConflictPolicyExact)

	// same code at a different hour still clashes under the exact policy
	if err := v.ValidateNew(context.Background(), store, proposal(22)); !errors.Is(err, pkgerrors.ErrSchedulingConflict) {
		t.Errorf("expected conflict for equal codes, got %v", err)
	}
	// LMV and LWV name the same weekdays but are different codes
	if err := v.ValidateNew(context.Background(), store, proposal(23)); err != nil {
		t.Errorf("expected LMV to pass next to MJ, got %v", err)
	}
}

func TestPlacement_OtherTermOrRoomAccepted(t *testing.T) {
	_, store := placementFixture()
	v := NewSectionPlacementValidator(config.ConflictPolicyExact)

	cases := map[string]SectionPlacement{
		"other semester": {CourseID: 2, RoomID: 10, MeetingID: 25, Semester: "Spring", Year: "2025", Capacity: 20},
		"other year":     {CourseID: 2, RoomID: 10, MeetingID: 25, Semester: "Fall", Year: "2026", Capacity: 20},
		"other room":     {CourseID: 2, RoomID: 11, MeetingID: 25, Semester: "Fall", Year: "2025", Capacity: 20},
	}
	for name, p := range cases {
		if err := v.ValidateNew(context.Background(), store, p); err != nil {
			t.Errorf("%s: expected Ok, got %v", name, err)
		}
	}
}

// ── capacity ──

func TestPlacement_CapacityExceeded(t *testing.T) {
	_, store := placementFixture()
	v := NewSectionPlacementValidator(config.ConflictPolicyExact)

	p := proposal(21)
	p.Capacity = 35
	assertKind(t, v.ValidateNew(context.Background(), store, p), pkgerrors.KindCapacityExceeded)

	p.Capacity = 30
	if err := v.ValidateNew(context.Background(), store, p); err != nil {
		t.Errorf("capacity equal to the room should pass, got %v", err)
	}
}

func TestPlacement_MissingRoomCapacityIsCapacityExceeded(t *testing.T) {
	_, store := placementFixture()
	v := NewSectionPlacementValidator(config.ConflictPolicyExact)

	// the room passes the existence check but its capacity lookup misses
	store = capacityMissStore{SchedulingStore: store}
	assertKind(t, v.ValidateNew(context.Background(), store, proposal(21)), pkgerrors.KindCapacityExceeded)
}

type capacityMissStore struct{ SchedulingStore }

func (capacityMissStore) RoomCapacity(ctx context.Context, id int64) (int, error) {
	return repository.NewStore(newMockRepository(newMemDB())).RoomCapacity(ctx, id)
}

// ── references and format ──

func TestPlacement_ForeignKeyMissing(t *testing.T) {
	_, store := placementFixture()
	v := NewSectionPlacementValidator(config.ConflictPolicyExact)

	for name, p := range map[string]SectionPlacement{
		"course":  {CourseID: 99, RoomID: 10, MeetingID: 21, Semester: "Fall", Year: "2025"},
		"room":    {CourseID: 2, RoomID: 99, MeetingID: 21, Semester: "Fall", Year: "2025"},
		"meeting": {CourseID: 2, RoomID: 10, MeetingID: 99, Semester: "Fall", Year: "2025"},
	} {
		err := v.ValidateNew(context.Background(), store, p)
		if !errors.Is(err, pkgerrors.ErrForeignKeyMissing) {
			t.Errorf("%s: expected ErrForeignKeyMissing, got %v", name, err)
		}
	}
}

func TestPlacement_InvalidFormat(t *testing.T) {
	_, store := placementFixture()
	v := NewSectionPlacementValidator(config.ConflictPolicyExact)

	for _, tc := range []struct{ semester, year string }{
		{"Summer", "2025"},
		{"fall", "2025"},
		{"Fall", "25"},
		{"Fall", "20a5"},
		{"Fall", "20255"},
	} {
		p := proposal(21)
		p.Semester, p.Year = tc.semester, tc.year
		err := v.ValidateNew(context.Background(), store, p)
		if !errors.Is(err, pkgerrors.ErrInvalidFormat) {
			t.Errorf("%s/%s: expected ErrInvalidFormat, got %v", tc.semester, tc.year, err)
		}
	}
}

func TestPlacement_CheckOrder(t *testing.T) {
	_, store := placementFixture()
	v := NewSectionPlacementValidator(config.ConflictPolicyExact)
	ctx := context.Background()

	// missing course wins over capacity, format and conflict
	p := SectionPlacement{CourseID: 99, RoomID: 10, MeetingID: 25, Semester: "Summer", Year: "25", Capacity: 99}
	assertKind(t, v.ValidateNew(ctx, store, p), pkgerrors.KindForeignKeyMissing)

	// capacity wins over format and conflict
	p.CourseID = 2
	assertKind(t, v.ValidateNew(ctx, store, p), pkgerrors.KindCapacityExceeded)

	// format wins over conflict
	p.Capacity = 10
	assertKind(t, v.ValidateNew(ctx, store, p), pkgerrors.KindInvalidFormat)

	p.Semester, p.Year = "Fall", "2025"
	assertKind(t, v.ValidateNew(ctx, store, p), pkgerrors.KindSchedulingConflict)
}

// ── updates ──

func TestPlacement_UpdateDoesNotConflictWithItself(t *testing.T) {
	_, store := placementFixture()
	v := NewSectionPlacementValidator(config.ConflictPolicyExact)

	unchanged := SectionPlacement{CourseID: 1, RoomID: 10, MeetingID: 20, Semester: "Fall", Year: "2025", Capacity: 25}
	if err := v.ValidateUpdate(context.Background(), store, 500, unchanged); err != nil {
		t.Errorf("a no-op edit must pass, got %v", err)
	}
}

func TestPlacement_UpdateIntoClashConflicts(t *testing.T) {
	db, store := placementFixture()
	db.addSection(501, 2, 11, 25, "Fall", "2025", 10)
	v := NewSectionPlacementValidator(config.ConflictPolicyExact)

	moved := SectionPlacement{CourseID: 2, RoomID: 10, MeetingID: 25, Semester: "Fall", Year: "2025", Capacity: 10}
	assertKind(t, v.ValidateUpdate(context.Background(), store, 501, moved), pkgerrors.KindSchedulingConflict)
}

func TestPlacement_UpdateNotFound(t *testing.T) {
	_, store := placementFixture()
	v := NewSectionPlacementValidator(config.ConflictPolicyExact)

	p := SectionPlacement{CourseID: 99, RoomID: 99, MeetingID: 99}
	if err := v.ValidateUpdate(context.Background(), store, 999, p); !errors.Is(err, pkgerrors.ErrNotFound) {
		t.Errorf("expected ErrNotFound before other checks, got %v", err)
	}
}

// ── overlap policy ──

func TestPlacement_OverlapPolicy(t *testing.T) {
	_, store := placementFixture()
	v := NewSectionPlacementValidator(config.ConflictPolicyOverlap)
	ctx := context.Background()

	cases := []struct {
		name      string
		meetingID int64
		conflict  bool
	}{
		{"identical slot", 25, true},
		{"same days later in the day", 22, false},
		{"same days overlapping hour", 24, true},
		{"disjoint weekdays", 21, false},
	}
	for _, tc := range cases {
		err := v.ValidateNew(ctx, store, proposal(tc.meetingID))
		if got := errors.Is(err, pkgerrors.ErrSchedulingConflict); got != tc.conflict {
			t.Errorf("%s: conflict = %v (err %v), want %v", tc.name, got, err, tc.conflict)
		}
	}
}

func TestPlacement_OverlapPolicyResolvesAlias(t *testing.T) {
	db, store := placementFixture()
	db.addSection(502, 1, 11, 21, "Fall", "2025", 10) // LWV 09:00-10:20 in room 11
	v := NewSectionPlacementValidator(config.ConflictPolicyOverlap)

	p := SectionPlacement{CourseID: 2, RoomID: 11, MeetingID: 23, Semester: "Fall", Year: "2025", Capacity: 10}
	assertKind(t, v.ValidateNew(context.Background(), store, p), pkgerrors.KindSchedulingConflict)
}

func TestNewSectionPlacementValidator_UnknownPolicyFallsBackToExact(t *testing.T) {
	if got := NewSectionPlacementValidator("fuzzy").Policy(); got != config.ConflictPolicyExact {
		t.Errorf("expected exact, got %s", got)
	}
}

// ── store failures ──

func TestPlacement_StoreFailurePropagates(t *testing.T) {
	_, store := placementFixture()
	boom := errors.New("connection reset")
	v := NewSectionPlacementValidator(config.ConflictPolicyExact)

	err := v.ValidateNew(context.Background(), failingStore{SchedulingStore: store, err: boom}, proposal(21))
	if !errors.Is(err, boom) {
		t.Fatalf("expected store error, got %v", err)
	}
	if pkgerrors.IsValidation(err) {
		t.Error("store failures must not be reported as validation kinds")
	}
}

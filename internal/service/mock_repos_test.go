package service

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"gorm.io/gorm"

	"github.com/alejandrobg101/Syllabus-Chatbot/internal/model"
	"github.com/alejandrobg101/Syllabus-Chatbot/internal/repository"
)

// memDB backs every mock repository so cross-table queries see the same rows.
type memDB struct {
	mu         sync.Mutex
	courses    map[int64]*model.Course
	rooms      map[int64]*model.Room
	meetings   map[int64]*model.Meeting
	sections   map[int64]*model.Section
	requisites map[[2]int64]*model.Requisite
	nextID     int64
	locks      []string

	// onSectionRead runs once, after the next section read returns its row
	// and before the caller continues.
	onSectionRead func()
}

func newMemDB() *memDB {
	return &memDB{
		courses:    make(map[int64]*model.Course),
		rooms:      make(map[int64]*model.Room),
		meetings:   make(map[int64]*model.Meeting),
		sections:   make(map[int64]*model.Section),
		requisites: make(map[[2]int64]*model.Requisite),
		nextID:     100,
	}
}

func (m *memDB) id() int64 {
	m.nextID++
	return m.nextID
}

// newMockRepository assembles the aggregate without a database, so
// Transaction runs its callback directly.
func newMockRepository(db *memDB) *repository.Repository {
	return &repository.Repository{
		Course:    &mockCourseRepo{db},
		Room:      &mockRoomRepo{db},
		Meeting:   &mockMeetingRepo{db},
		Section:   &mockSectionRepo{db},
		Requisite: &mockRequisiteRepo{db},
		Lock:      &mockLockRepo{db},
	}
}

// ── Mock CourseRepository ──

type mockCourseRepo struct{ db *memDB }

func (m *mockCourseRepo) Create(_ context.Context, c *model.Course) error {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	for _, other := range m.db.courses {
		if other.Code == c.Code {
			return repository.ErrUniqueViolation
		}
	}
	if c.CourseID == 0 {
		c.CourseID = m.db.id()
	}
	cp := *c
	m.db.courses[c.CourseID] = &cp
	return nil
}

func (m *mockCourseRepo) GetByID(_ context.Context, id int64) (*model.Course, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	if c, ok := m.db.courses[id]; ok {
		cp := *c
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockCourseRepo) GetByCode(_ context.Context, code string) (*model.Course, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	for _, c := range m.db.courses {
		if c.Code == code {
			cp := *c
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockCourseRepo) List(_ context.Context) ([]model.Course, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	var result []model.Course
	for _, c := range m.db.courses {
		result = append(result, *c)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CourseID < result[j].CourseID })
	return result, nil
}

func (m *mockCourseRepo) Update(_ context.Context, c *model.Course) error {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	cp := *c
	m.db.courses[c.CourseID] = &cp
	return nil
}

func (m *mockCourseRepo) Delete(_ context.Context, id int64) error {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	delete(m.db.courses, id)
	return nil
}

func (m *mockCourseRepo) Exists(_ context.Context, id int64) (bool, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	_, ok := m.db.courses[id]
	return ok, nil
}

func (m *mockCourseRepo) IsReferenced(_ context.Context, id int64) (bool, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	for _, s := range m.db.sections {
		if s.CourseID == id {
			return true, nil
		}
	}
	for k := range m.db.requisites {
		if k[0] == id || k[1] == id {
			return true, nil
		}
	}
	return false, nil
}

// ── Mock RoomRepository ──

type mockRoomRepo struct{ db *memDB }

func (m *mockRoomRepo) Create(_ context.Context, r *model.Room) error {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	if r.RoomID == 0 {
		r.RoomID = m.db.id()
	}
	cp := *r
	m.db.rooms[r.RoomID] = &cp
	return nil
}

func (m *mockRoomRepo) GetByID(_ context.Context, id int64) (*model.Room, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	if r, ok := m.db.rooms[id]; ok {
		cp := *r
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockRoomRepo) GetByLocation(_ context.Context, building, number string) (*model.Room, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	for _, r := range m.db.rooms {
		if r.Building == building && r.RoomNumber == number {
			cp := *r
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockRoomRepo) List(_ context.Context) ([]model.Room, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	var result []model.Room
	for _, r := range m.db.rooms {
		result = append(result, *r)
	}
	return result, nil
}

func (m *mockRoomRepo) Update(_ context.Context, r *model.Room) error {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	cp := *r
	m.db.rooms[r.RoomID] = &cp
	return nil
}

func (m *mockRoomRepo) Delete(_ context.Context, id int64) error {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	delete(m.db.rooms, id)
	return nil
}

func (m *mockRoomRepo) Exists(_ context.Context, id int64) (bool, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	_, ok := m.db.rooms[id]
	return ok, nil
}

func (m *mockRoomRepo) Capacity(_ context.Context, id int64) (int, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	if r, ok := m.db.rooms[id]; ok {
		return r.Capacity, nil
	}
	return 0, gorm.ErrRecordNotFound
}

func (m *mockRoomRepo) IsReferenced(_ context.Context, id int64) (bool, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	for _, s := range m.db.sections {
		if s.RoomID == id {
			return true, nil
		}
	}
	return false, nil
}

// ── Mock MeetingRepository ──

type mockMeetingRepo struct{ db *memDB }

func (m *mockMeetingRepo) Create(_ context.Context, mt *model.Meeting) error {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	if mt.MeetingID == 0 {
		mt.MeetingID = m.db.id()
	}
	cp := *mt
	m.db.meetings[mt.MeetingID] = &cp
	return nil
}

func (m *mockMeetingRepo) GetByID(_ context.Context, id int64) (*model.Meeting, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	if mt, ok := m.db.meetings[id]; ok {
		cp := *mt
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockMeetingRepo) List(_ context.Context) ([]model.Meeting, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	var result []model.Meeting
	for _, mt := range m.db.meetings {
		result = append(result, *mt)
	}
	return result, nil
}

func (m *mockMeetingRepo) Update(_ context.Context, mt *model.Meeting) error {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	cp := *mt
	m.db.meetings[mt.MeetingID] = &cp
	return nil
}

func (m *mockMeetingRepo) Delete(_ context.Context, id int64) error {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	delete(m.db.meetings, id)
	return nil
}

func (m *mockMeetingRepo) Exists(_ context.Context, id int64) (bool, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	_, ok := m.db.meetings[id]
	return ok, nil
}

func (m *mockMeetingRepo) CourseCodeTaken(_ context.Context, code string, excludeID int64) (bool, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	for _, mt := range m.db.meetings {
		if mt.CourseCode == code && mt.MeetingID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockMeetingRepo) IsReferenced(_ context.Context, id int64) (bool, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	for _, s := range m.db.sections {
		if s.MeetingID == id {
			return true, nil
		}
	}
	return false, nil
}

// ── Mock SectionRepository ──

type mockSectionRepo struct{ db *memDB }

func (m *mockSectionRepo) Create(_ context.Context, s *model.Section) error {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	if s.SectionID == 0 {
		s.SectionID = m.db.id()
	}
	cp := *s
	cp.Course, cp.Meeting, cp.Room = nil, nil, nil
	m.db.sections[s.SectionID] = &cp
	return nil
}

func (m *mockSectionRepo) GetByID(_ context.Context, id int64) (*model.Section, error) {
	m.db.mu.Lock()
	s, ok := m.db.sections[id]
	if !ok {
		m.db.mu.Unlock()
		return nil, gorm.ErrRecordNotFound
	}
	row := m.db.loaded(s)
	hook := m.db.onSectionRead
	m.db.onSectionRead = nil
	m.db.mu.Unlock()

	if hook != nil {
		hook()
	}
	return row, nil
}

func (m *mockSectionRepo) List(_ context.Context, f repository.SectionFilter) ([]model.Section, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	var result []model.Section
	for _, s := range m.db.sortedSections() {
		if f.RoomID > 0 && s.RoomID != f.RoomID {
			continue
		}
		if f.CourseID > 0 && s.CourseID != f.CourseID {
			continue
		}
		if f.MeetingID > 0 && s.MeetingID != f.MeetingID {
			continue
		}
		if f.Semester != "" && s.Semester != f.Semester {
			continue
		}
		if f.Year != "" && s.Year != f.Year {
			continue
		}
		result = append(result, *s)
	}
	return result, nil
}

func (m *mockSectionRepo) Update(_ context.Context, s *model.Section) error {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	cp := *s
	cp.Course, cp.Meeting, cp.Room = nil, nil, nil
	m.db.sections[s.SectionID] = &cp
	return nil
}

func (m *mockSectionRepo) Delete(_ context.Context, id int64) error {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	delete(m.db.sections, id)
	return nil
}

func (m *mockSectionRepo) Exists(_ context.Context, id int64) (bool, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	_, ok := m.db.sections[id]
	return ok, nil
}

func (m *mockSectionRepo) FindConflicting(_ context.Context, excludeID, roomID, meetingID int64, semester, year string) ([]model.Section, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	proposed, ok := m.db.meetings[meetingID]
	if !ok {
		return nil, nil
	}
	var result []model.Section
	for _, s := range m.db.sortedSections() {
		if s.SectionID == excludeID || s.RoomID != roomID || s.Semester != semester || s.Year != year {
			continue
		}
		if mt, ok := m.db.meetings[s.MeetingID]; ok && mt.Days == proposed.Days {
			result = append(result, *s)
		}
	}
	return result, nil
}

func (m *mockSectionRepo) ListByRoomTerm(_ context.Context, roomID int64, semester, year string, excludeID int64) ([]model.Section, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	var result []model.Section
	for _, s := range m.db.sortedSections() {
		if s.SectionID == excludeID || s.RoomID != roomID || s.Semester != semester || s.Year != year {
			continue
		}
		cp := *s
		if mt, ok := m.db.meetings[s.MeetingID]; ok {
			mcp := *mt
			cp.Meeting = &mcp
		}
		result = append(result, cp)
	}
	return result, nil
}

func (m *mockSectionRepo) ListByTerm(_ context.Context, semester, year string) ([]model.Section, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	var result []model.Section
	for _, s := range m.db.sortedSections() {
		if s.Semester == semester && s.Year == year {
			result = append(result, *m.db.loaded(s))
		}
	}
	return result, nil
}

func (m *mockSectionRepo) MaxCapacityInRoom(_ context.Context, roomID int64) (int, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	capacity := 0
	for _, s := range m.db.sections {
		if s.RoomID == roomID && s.Capacity > capacity {
			capacity = s.Capacity
		}
	}
	return capacity, nil
}

// caller holds mu
func (m *memDB) sortedSections() []*model.Section {
	list := make([]*model.Section, 0, len(m.sections))
	for _, s := range m.sections {
		list = append(list, s)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].SectionID < list[j].SectionID })
	return list
}

// caller holds mu
func (m *memDB) loaded(s *model.Section) *model.Section {
	cp := *s
	if c, ok := m.courses[s.CourseID]; ok {
		ccp := *c
		cp.Course = &ccp
	}
	if mt, ok := m.meetings[s.MeetingID]; ok {
		mcp := *mt
		cp.Meeting = &mcp
	}
	if r, ok := m.rooms[s.RoomID]; ok {
		rcp := *r
		cp.Room = &rcp
	}
	return &cp
}

// ── Mock RequisiteRepository ──

type mockRequisiteRepo struct{ db *memDB }

func (m *mockRequisiteRepo) Create(_ context.Context, r *model.Requisite) error {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	key := [2]int64{r.ClassID, r.ReqID}
	if _, ok := m.db.requisites[key]; ok {
		return repository.ErrUniqueViolation
	}
	cp := *r
	m.db.requisites[key] = &cp
	return nil
}

func (m *mockRequisiteRepo) Get(_ context.Context, classID, reqID int64) (*model.Requisite, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	if r, ok := m.db.requisites[[2]int64{classID, reqID}]; ok {
		cp := *r
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockRequisiteRepo) ListByClass(_ context.Context, classID int64) ([]model.Requisite, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	var result []model.Requisite
	for k, r := range m.db.requisites {
		if k[0] == classID {
			result = append(result, *r)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ReqID < result[j].ReqID })
	return result, nil
}

func (m *mockRequisiteRepo) Delete(_ context.Context, classID, reqID int64) error {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	delete(m.db.requisites, [2]int64{classID, reqID})
	return nil
}

func (m *mockRequisiteRepo) Exists(_ context.Context, classID, reqID int64) (bool, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	_, ok := m.db.requisites[[2]int64{classID, reqID}]
	return ok, nil
}

func (m *mockRequisiteRepo) PrereqExists(_ context.Context, classID, reqID int64) (bool, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	r, ok := m.db.requisites[[2]int64{classID, reqID}]
	return ok && r.Prereq, nil
}

// ── Mock LockRepository ──

type mockLockRepo struct{ db *memDB }

func (m *mockLockRepo) AdvisoryXactLock(_ context.Context, key string) error {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	m.db.locks = append(m.db.locks, key)
	return nil
}

// ── seed helpers ──

func (m *memDB) addCourse(id int64, code string) {
	m.courses[id] = &model.Course{CourseID: id, Name: "CIIC", Code: code, Term: model.TermFirstSemester, Years: model.YearsEveryYear, Credits: 3}
}

func (m *memDB) addRoom(id int64, capacity int) {
	m.rooms[id] = &model.Room{RoomID: id, Building: "Stefani", RoomNumber: fmt.Sprintf("S%d", id), Capacity: capacity}
}

func (m *memDB) addMeeting(id int64, days model.DayPattern, start, end string) {
	m.meetings[id] = &model.Meeting{MeetingID: id, CourseCode: fmt.Sprintf("M%d", id), Days: days, StartTime: start, EndTime: end}
}

func (m *memDB) addSection(id, courseID, roomID, meetingID int64, semester, year string, capacity int) {
	m.sections[id] = &model.Section{SectionID: id, CourseID: courseID, RoomID: roomID, MeetingID: meetingID, Semester: semester, Year: year, Capacity: capacity}
}

func (m *memDB) addEdge(classID, reqID int64, prereq bool) {
	m.requisites[[2]int64{classID, reqID}] = &model.Requisite{ClassID: classID, ReqID: reqID, Prereq: prereq}
}

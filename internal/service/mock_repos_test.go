package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"gorm.io/gorm"

	"studio-booking/internal/model"
	"studio-booking/internal/repository"
	pkgerrors "studio-booking/pkg/errors"
)

// ── 共享内存存储 ──
// 预约与课程的冲突检查需要同时看到两张表，因此放在同一个 store 中

type mockStore struct {
	users    map[int64]*model.User
	rooms    map[int64]*model.Room
	bookings map[int64]*model.Booking
	classes  map[int64]*model.Class
	students map[int64]*model.Student
	nextID   int64
	// plainUpdates 记录未经占用检查的预约保存次数
	plainUpdates int
}

func newMockStore() *mockStore {
	return &mockStore{
		users:    make(map[int64]*model.User),
		rooms:    make(map[int64]*model.Room),
		bookings: make(map[int64]*model.Booking),
		classes:  make(map[int64]*model.Class),
		students: make(map[int64]*model.Student),
	}
}

func (s *mockStore) id() int64 {
	s.nextID++
	return s.nextID
}

// newMockRepository 组装基于同一 store 的 Repository
func newMockRepository(store *mockStore) *repository.Repository {
	return &repository.Repository{
		User:    &mockUserRepo{store},
		Room:    &mockRoomRepo{store},
		Booking: &mockBookingRepo{store},
		Class:   &mockClassRepo{store},
		Student: &mockStudentRepo{store},
	}
}

func (s *mockStore) occupied(roomID int64, start, end time.Time, excludeBooking, excludeClass int64) error {
	room, ok := s.rooms[roomID]
	if !ok || !room.IsActive {
		return pkgerrors.ErrRoomUnavailable
	}
	for _, b := range s.bookings {
		if b.ID == excludeBooking || b.RoomID != roomID || b.Status != model.BookingStatusConfirmed {
			continue
		}
		if model.Overlaps(start, end, b.StartTime, b.EndTime) {
			return pkgerrors.ErrSlotConflict
		}
	}
	for _, c := range s.classes {
		if c.ID == excludeClass || c.RoomID != roomID || c.Status != model.ClassStatusScheduled {
			continue
		}
		if model.Overlaps(start, end, c.StartTime, c.EndTime) {
			return pkgerrors.ErrSlotConflict
		}
	}
	return nil
}

func page[T any](all []T, offset, limit int) []T {
	if offset >= len(all) {
		return nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end]
}

// ── Mock UserRepository ──

type mockUserRepo struct{ s *mockStore }

func (m *mockUserRepo) Create(_ context.Context, user *model.User) error {
	user.ID = m.s.id()
	m.s.users[user.ID] = user
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id int64) (*model.User, error) {
	if u, ok := m.s.users[id]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range m.s.users {
		if strings.EqualFold(u.Email, email) {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) Update(_ context.Context, user *model.User) error {
	m.s.users[user.ID] = user
	return nil
}

func (m *mockUserRepo) List(_ context.Context, offset, limit int) ([]model.User, error) {
	var all []model.User
	for _, u := range m.s.users {
		all = append(all, *u)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	return page(all, offset, limit), nil
}

// ── Mock RoomRepository ──

type mockRoomRepo struct{ s *mockStore }

func (m *mockRoomRepo) Create(_ context.Context, room *model.Room) error {
	room.ID = m.s.id()
	m.s.rooms[room.ID] = room
	return nil
}

func (m *mockRoomRepo) GetByID(_ context.Context, id int64) (*model.Room, error) {
	if r, ok := m.s.rooms[id]; ok {
		cp := *r
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockRoomRepo) List(_ context.Context, includeInactive bool, offset, limit int) ([]model.Room, error) {
	var all []model.Room
	for _, r := range m.s.rooms {
		if r.IsActive || includeInactive {
			all = append(all, *r)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	return page(all, offset, limit), nil
}

func (m *mockRoomRepo) Update(_ context.Context, room *model.Room) error {
	cp := *room
	m.s.rooms[room.ID] = &cp
	return nil
}

func (m *mockRoomRepo) Deactivate(_ context.Context, id int64) error {
	if r, ok := m.s.rooms[id]; ok {
		r.IsActive = false
	}
	return nil
}

func (m *mockRoomRepo) Count(_ context.Context) (int64, error) {
	return int64(len(m.s.rooms)), nil
}

// ── Mock BookingRepository ──

type mockBookingRepo struct{ s *mockStore }

func (m *mockBookingRepo) Create(_ context.Context, b *model.Booking) error {
	if err := m.s.occupied(b.RoomID, b.StartTime, b.EndTime, 0, 0); err != nil {
		return err
	}
	b.ID = m.s.id()
	b.CreatedAt = time.Now()
	m.s.bookings[b.ID] = b
	return nil
}

func (m *mockBookingRepo) GetByID(_ context.Context, id int64) (*model.Booking, error) {
	b, ok := m.s.bookings[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *b
	cp.Room = m.s.rooms[b.RoomID]
	return &cp, nil
}

func (m *mockBookingRepo) ListByUser(_ context.Context, userID int64, offset, limit int) ([]model.Booking, error) {
	var all []model.Booking
	for _, b := range m.s.bookings {
		if b.UserID == userID {
			cp := *b
			cp.Room = m.s.rooms[b.RoomID]
			all = append(all, cp)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].StartTime.After(all[j].StartTime) })
	return page(all, offset, limit), nil
}

func (m *mockBookingRepo) List(_ context.Context, offset, limit int) ([]model.Booking, error) {
	var all []model.Booking
	for _, b := range m.s.bookings {
		cp := *b
		cp.Room = m.s.rooms[b.RoomID]
		cp.User = m.s.users[b.UserID]
		all = append(all, cp)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].StartTime.After(all[j].StartTime) })
	return page(all, offset, limit), nil
}

func (m *mockBookingRepo) ListConfirmedInRange(_ context.Context, roomID int64, from, to time.Time) ([]model.Booking, error) {
	var out []model.Booking
	for _, b := range m.s.bookings {
		if b.RoomID == roomID && b.Status == model.BookingStatusConfirmed && model.Overlaps(b.StartTime, b.EndTime, from, to) {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (m *mockBookingRepo) Update(_ context.Context, b *model.Booking) error {
	m.s.plainUpdates++
	cp := *b
	cp.Room, cp.User = nil, nil
	m.s.bookings[b.ID] = &cp
	return nil
}

func (m *mockBookingRepo) Reschedule(_ context.Context, b *model.Booking) error {
	if err := m.s.occupied(b.RoomID, b.StartTime, b.EndTime, b.ID, 0); err != nil {
		return err
	}
	cp := *b
	cp.Room, cp.User = nil, nil
	m.s.bookings[b.ID] = &cp
	return nil
}

func (m *mockBookingRepo) CompleteEnded(_ context.Context, now time.Time) (int64, error) {
	var n int64
	for _, b := range m.s.bookings {
		if b.Status == model.BookingStatusConfirmed && !b.EndTime.After(now) {
			b.Status = model.BookingStatusCompleted
			n++
		}
	}
	return n, nil
}

// ── Mock ClassRepository ──

type mockClassRepo struct{ s *mockStore }

func (m *mockClassRepo) Create(_ context.Context, c *model.Class) error {
	if err := m.s.occupied(c.RoomID, c.StartTime, c.EndTime, 0, 0); err != nil {
		return err
	}
	c.ID = m.s.id()
	m.s.classes[c.ID] = c
	return nil
}

func (m *mockClassRepo) GetByID(_ context.Context, id int64) (*model.Class, error) {
	c, ok := m.s.classes[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *c
	cp.Room = m.s.rooms[c.RoomID]
	return &cp, nil
}

func (m *mockClassRepo) List(_ context.Context, offset, limit int) ([]model.Class, error) {
	var all []model.Class
	for _, c := range m.s.classes {
		all = append(all, *c)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].StartTime.Before(all[j].StartTime) })
	return page(all, offset, limit), nil
}

func (m *mockClassRepo) ListByRoom(_ context.Context, roomID int64, from, to *time.Time) ([]model.Class, error) {
	var out []model.Class
	for _, c := range m.s.classes {
		if c.RoomID != roomID {
			continue
		}
		if from != nil && c.StartTime.Before(*from) {
			continue
		}
		if to != nil && c.EndTime.After(*to) {
			continue
		}
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartTime.Before(out[j].StartTime) })
	return out, nil
}

func (m *mockClassRepo) ListScheduledInRange(_ context.Context, roomID int64, from, to time.Time) ([]model.Class, error) {
	var out []model.Class
	for _, c := range m.s.classes {
		if c.RoomID == roomID && c.Status == model.ClassStatusScheduled && model.Overlaps(c.StartTime, c.EndTime, from, to) {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (m *mockClassRepo) Update(_ context.Context, c *model.Class) error {
	if c.Status == model.ClassStatusScheduled {
		if err := m.s.occupied(c.RoomID, c.StartTime, c.EndTime, 0, c.ID); err != nil {
			return err
		}
	}
	cp := *c
	cp.Room = nil
	m.s.classes[c.ID] = &cp
	return nil
}

func (m *mockClassRepo) Delete(_ context.Context, id int64) error {
	delete(m.s.classes, id)
	return nil
}

func (m *mockClassRepo) CompleteEnded(_ context.Context, now time.Time) (int64, error) {
	var n int64
	for _, c := range m.s.classes {
		if c.Status == model.ClassStatusScheduled && !c.EndTime.After(now) {
			c.Status = model.ClassStatusCompleted
			n++
		}
	}
	return n, nil
}

// ── Mock StudentRepository ──

type mockStudentRepo struct{ s *mockStore }

func (m *mockStudentRepo) Create(_ context.Context, st *model.Student) error {
	st.ID = m.s.id()
	cp := *st
	cp.Room = nil
	m.s.students[st.ID] = &cp
	return nil
}

func (m *mockStudentRepo) GetByID(_ context.Context, id int64) (*model.Student, error) {
	st, ok := m.s.students[id]
	if !ok || !st.IsActive {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *st
	cp.Room = m.s.rooms[st.RoomID]
	return &cp, nil
}

func (m *mockStudentRepo) filter(keep func(*model.Student) bool) []model.Student {
	var out []model.Student
	for _, st := range m.s.students {
		if st.IsActive && keep(st) {
			cp := *st
			cp.Room = m.s.rooms[st.RoomID]
			out = append(out, cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (m *mockStudentRepo) List(_ context.Context, offset, limit int) ([]model.Student, error) {
	return page(m.filter(func(*model.Student) bool { return true }), offset, limit), nil
}

func (m *mockStudentRepo) ListByRoom(_ context.Context, roomID int64) ([]model.Student, error) {
	return m.filter(func(st *model.Student) bool { return st.RoomID == roomID }), nil
}

func (m *mockStudentRepo) ListByRoomWeekday(_ context.Context, roomID int64, weekday int) ([]model.Student, error) {
	return m.filter(func(st *model.Student) bool { return st.RoomID == roomID && st.Weekday == weekday }), nil
}

func (m *mockStudentRepo) ListByEmail(_ context.Context, email string) ([]model.Student, error) {
	return m.filter(func(st *model.Student) bool {
		return st.Email != nil && strings.EqualFold(*st.Email, email)
	}), nil
}

func (m *mockStudentRepo) Update(_ context.Context, st *model.Student) error {
	cp := *st
	cp.Room = nil
	m.s.students[st.ID] = &cp
	return nil
}

func (m *mockStudentRepo) Deactivate(_ context.Context, id int64) error {
	if st, ok := m.s.students[id]; ok {
		st.IsActive = false
	}
	return nil
}

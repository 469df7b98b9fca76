package service

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"smart-class-flow/backend/internal/authz"
	"smart-class-flow/backend/internal/model"
	"smart-class-flow/backend/internal/repository"
)

// ── 测试用角色查询器 ──

// stubRoleChecker 内存角色表，替代数据库子查询
type stubRoleChecker struct {
	roles map[string]string // identityID → role
}

func (s *stubRoleChecker) HasAnyRole(_ context.Context, identityID string, roles ...string) (bool, error) {
	actual, ok := s.roles[identityID]
	if !ok {
		return false, nil
	}
	for _, r := range roles {
		if r == actual {
			return true, nil
		}
	}
	return false, nil
}

// newTestAuthorizer 构造基于内存角色表的策略引擎
func newTestAuthorizer(roles map[string]string) *authz.Authorizer {
	return authz.NewWithRoleChecker(&stubRoleChecker{roles: roles})
}

// uniqueViolation 模拟 Postgres 唯一约束冲突
func uniqueViolation(constraint string) error {
	return &pgconn.PgError{Code: "23505", ConstraintName: constraint}
}

// ── Mock IdentityRepository ──

// mockIdentityRepo 持有 profiles 引用，Create 时复刻模型钩子的档案生成
type mockIdentityRepo struct {
	identities map[string]*model.Identity
	byEmail    map[string]*model.Identity
	profiles   *mockProfileRepo
	seq        int
}

func newMockIdentityRepo(profiles *mockProfileRepo) *mockIdentityRepo {
	return &mockIdentityRepo{
		identities: make(map[string]*model.Identity),
		byEmail:    make(map[string]*model.Identity),
		profiles:   profiles,
	}
}

func (m *mockIdentityRepo) Create(_ context.Context, identity *model.Identity) error {
	if _, exists := m.byEmail[identity.Email]; exists {
		return uniqueViolation("identities_email_key")
	}
	if identity.IdentityID == "" {
		m.seq++
		identity.IdentityID = fmt.Sprintf("id-%03d", m.seq)
	}
	m.identities[identity.IdentityID] = identity
	m.byEmail[identity.Email] = identity

	// 复刻 AfterCreate 钩子：同一"事务"内生成档案
	name := identity.Email
	if identity.MetaName != nil && *identity.MetaName != "" {
		name = *identity.MetaName
	}
	return m.profiles.create(&model.Profile{
		ProfileID:  "prof-" + identity.IdentityID,
		IdentityID: identity.IdentityID,
		Name:       name,
		Email:      identity.Email,
		Role:       model.RoleStudent,
	})
}

func (m *mockIdentityRepo) GetByID(_ context.Context, id string) (*model.Identity, error) {
	identity, ok := m.identities[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	// 复刻 Preload("Profile")
	if p, err := m.profiles.GetByIdentityID(context.Background(), id); err == nil {
		identity.Profile = p
	}
	return identity, nil
}

func (m *mockIdentityRepo) GetByEmail(_ context.Context, email string) (*model.Identity, error) {
	if identity, ok := m.byEmail[email]; ok {
		return identity, nil
	}
	return nil, gorm.ErrRecordNotFound
}

// ── Mock ProfileRepository ──

type mockProfileRepo struct {
	profiles map[string]*model.Profile // profileID → profile
}

func newMockProfileRepo() *mockProfileRepo {
	return &mockProfileRepo{profiles: make(map[string]*model.Profile)}
}

func (m *mockProfileRepo) create(profile *model.Profile) error {
	for _, p := range m.profiles {
		if p.IdentityID == profile.IdentityID {
			return uniqueViolation("profiles_identity_id_key")
		}
	}
	m.profiles[profile.ProfileID] = profile
	return nil
}

func (m *mockProfileRepo) GetByID(_ context.Context, id string) (*model.Profile, error) {
	if p, ok := m.profiles[id]; ok {
		return p, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockProfileRepo) GetByIdentityID(_ context.Context, identityID string) (*model.Profile, error) {
	for _, p := range m.profiles {
		if p.IdentityID == identityID {
			return p, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockProfileRepo) List(_ context.Context, offset, limit int) ([]model.Profile, int64, error) {
	var all []model.Profile
	for _, p := range m.profiles {
		all = append(all, *p)
	}
	total := int64(len(all))
	if offset >= len(all) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

func (m *mockProfileRepo) Update(_ context.Context, profile *model.Profile) error {
	m.profiles[profile.ProfileID] = profile
	return nil
}

// ── Mock ClassroomRepository ──

type mockClassroomRepo struct {
	classrooms map[string]*model.Classroom
}

func newMockClassroomRepo() *mockClassroomRepo {
	return &mockClassroomRepo{classrooms: make(map[string]*model.Classroom)}
}

func (m *mockClassroomRepo) Create(_ context.Context, classroom *model.Classroom) error {
	for _, c := range m.classrooms {
		if c.Name == classroom.Name {
			return uniqueViolation("classrooms_name_key")
		}
	}
	if classroom.ClassroomID == "" {
		classroom.ClassroomID = "cls-" + classroom.Name
	}
	m.classrooms[classroom.ClassroomID] = classroom
	return nil
}

func (m *mockClassroomRepo) GetByID(_ context.Context, id string) (*model.Classroom, error) {
	if c, ok := m.classrooms[id]; ok {
		return c, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockClassroomRepo) List(_ context.Context, includeUnavailable bool) ([]model.Classroom, error) {
	var result []model.Classroom
	for _, c := range m.classrooms {
		if !includeUnavailable && !c.IsAvailable {
			continue
		}
		result = append(result, *c)
	}
	return result, nil
}

func (m *mockClassroomRepo) Update(_ context.Context, classroom *model.Classroom) error {
	m.classrooms[classroom.ClassroomID] = classroom
	return nil
}

func (m *mockClassroomRepo) Delete(_ context.Context, id string) error {
	delete(m.classrooms, id)
	return nil
}

// ── Mock CourseRepository ──

type mockCourseRepo struct {
	courses map[string]*model.Course
}

func newMockCourseRepo() *mockCourseRepo {
	return &mockCourseRepo{courses: make(map[string]*model.Course)}
}

func (m *mockCourseRepo) Create(_ context.Context, course *model.Course) error {
	for _, c := range m.courses {
		if c.Code == course.Code {
			return uniqueViolation("courses_code_key")
		}
	}
	if course.CourseID == "" {
		course.CourseID = "crs-" + course.Code
	}
	m.courses[course.CourseID] = course
	return nil
}

func (m *mockCourseRepo) GetByID(_ context.Context, id string) (*model.Course, error) {
	if c, ok := m.courses[id]; ok {
		return c, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockCourseRepo) GetByCode(_ context.Context, code string) (*model.Course, error) {
	for _, c := range m.courses {
		if c.Code == code {
			return c, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockCourseRepo) List(_ context.Context, department string) ([]model.Course, error) {
	var result []model.Course
	for _, c := range m.courses {
		if department != "" && c.Department != department {
			continue
		}
		result = append(result, *c)
	}
	return result, nil
}

func (m *mockCourseRepo) Update(_ context.Context, course *model.Course) error {
	m.courses[course.CourseID] = course
	return nil
}

func (m *mockCourseRepo) Delete(_ context.Context, id string) error {
	delete(m.courses, id)
	return nil
}

// ── Mock TimetableRepository ──

// mockTimetableRepo 可选持有课程/档案/教室引用，复刻外键校验与预加载
type mockTimetableRepo struct {
	entries    map[string]*model.TimetableEntry
	courses    *mockCourseRepo
	profiles   *mockProfileRepo
	classrooms *mockClassroomRepo
	seq        int
}

func newMockTimetableRepo(courses *mockCourseRepo, profiles *mockProfileRepo, classrooms *mockClassroomRepo) *mockTimetableRepo {
	return &mockTimetableRepo{
		entries:    make(map[string]*model.TimetableEntry),
		courses:    courses,
		profiles:   profiles,
		classrooms: classrooms,
	}
}

// fkViolation 模拟 Postgres 外键约束冲突
func fkViolation(constraint string) error {
	return &pgconn.PgError{Code: "23503", ConstraintName: constraint}
}

func (m *mockTimetableRepo) checkRefs(entry *model.TimetableEntry) error {
	if m.courses != nil {
		if _, ok := m.courses.courses[entry.CourseID]; !ok {
			return fkViolation("timetable_entries_course_id_fkey")
		}
	}
	if m.profiles != nil {
		if _, ok := m.profiles.profiles[entry.FacultyID]; !ok {
			return fkViolation("timetable_entries_faculty_id_fkey")
		}
	}
	if m.classrooms != nil {
		if _, ok := m.classrooms.classrooms[entry.ClassroomID]; !ok {
			return fkViolation("timetable_entries_classroom_id_fkey")
		}
	}
	return nil
}

func (m *mockTimetableRepo) Create(_ context.Context, entry *model.TimetableEntry) error {
	if err := m.checkRefs(entry); err != nil {
		return err
	}
	if entry.EntryID == "" {
		m.seq++
		entry.EntryID = fmt.Sprintf("tt-%03d", m.seq)
	}
	m.entries[entry.EntryID] = entry
	return nil
}

func (m *mockTimetableRepo) GetByID(_ context.Context, id string) (*model.TimetableEntry, error) {
	entry, ok := m.entries[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	m.preload(entry)
	return entry, nil
}

func (m *mockTimetableRepo) preload(entry *model.TimetableEntry) {
	if m.courses != nil {
		entry.Course = m.courses.courses[entry.CourseID]
	}
	if m.profiles != nil {
		entry.Faculty = m.profiles.profiles[entry.FacultyID]
	}
	if m.classrooms != nil {
		entry.Classroom = m.classrooms.classrooms[entry.ClassroomID]
	}
}

func (m *mockTimetableRepo) List(_ context.Context, filter repository.TimetableFilter) ([]model.TimetableEntry, error) {
	var result []model.TimetableEntry
	for _, e := range m.entries {
		if filter.DayOfWeek != "" && e.DayOfWeek != filter.DayOfWeek {
			continue
		}
		if filter.FacultyID != "" && e.FacultyID != filter.FacultyID {
			continue
		}
		m.preload(e)
		result = append(result, *e)
		if filter.Limit > 0 && len(result) >= filter.Limit {
			break
		}
	}
	return result, nil
}

func (m *mockTimetableRepo) Update(_ context.Context, entry *model.TimetableEntry) error {
	if err := m.checkRefs(entry); err != nil {
		return err
	}
	m.entries[entry.EntryID] = entry
	return nil
}

func (m *mockTimetableRepo) Delete(_ context.Context, id string) error {
	delete(m.entries, id)
	return nil
}

// ── Mock FeedbackRepository ──

type mockFeedbackRepo struct {
	items map[string]*model.Feedback
	seq   int
}

func newMockFeedbackRepo() *mockFeedbackRepo {
	return &mockFeedbackRepo{items: make(map[string]*model.Feedback)}
}

func (m *mockFeedbackRepo) Create(_ context.Context, feedback *model.Feedback) error {
	if feedback.FeedbackID == "" {
		m.seq++
		feedback.FeedbackID = fmt.Sprintf("fb-%03d", m.seq)
	}
	m.items[feedback.FeedbackID] = feedback
	return nil
}

func (m *mockFeedbackRepo) GetByID(_ context.Context, id string) (*model.Feedback, error) {
	if f, ok := m.items[id]; ok {
		return f, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockFeedbackRepo) ListByIdentity(_ context.Context, identityID string, offset, limit int) ([]model.Feedback, int64, error) {
	var all []model.Feedback
	for _, f := range m.items {
		if f.IdentityID == identityID {
			all = append(all, *f)
		}
	}
	return pageFeedback(all, offset, limit)
}

func (m *mockFeedbackRepo) ListAll(_ context.Context, offset, limit int) ([]model.Feedback, int64, error) {
	var all []model.Feedback
	for _, f := range m.items {
		all = append(all, *f)
	}
	return pageFeedback(all, offset, limit)
}

func pageFeedback(all []model.Feedback, offset, limit int) ([]model.Feedback, int64, error) {
	total := int64(len(all))
	if offset >= len(all) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

func (m *mockFeedbackRepo) Update(_ context.Context, feedback *model.Feedback) error {
	m.items[feedback.FeedbackID] = feedback
	return nil
}

// ── 聚合构造 ──

// testRepos 测试用聚合，暴露各 mock 以便测试直接填充数据
type testRepos struct {
	repo       *repository.Repository
	identities *mockIdentityRepo
	profiles   *mockProfileRepo
	classrooms *mockClassroomRepo
	courses    *mockCourseRepo
	timetable  *mockTimetableRepo
	feedback   *mockFeedbackRepo
}

func newTestRepos() *testRepos {
	profiles := newMockProfileRepo()
	identities := newMockIdentityRepo(profiles)
	classrooms := newMockClassroomRepo()
	courses := newMockCourseRepo()
	timetable := newMockTimetableRepo(courses, profiles, classrooms)
	feedback := newMockFeedbackRepo()

	return &testRepos{
		repo: &repository.Repository{
			Identity:  identities,
			Profile:   profiles,
			Classroom: classrooms,
			Course:    courses,
			Timetable: timetable,
			Feedback:  feedback,
		},
		identities: identities,
		profiles:   profiles,
		classrooms: classrooms,
		courses:    courses,
		timetable:  timetable,
		feedback:   feedback,
	}
}

// addProfile 直接写入一条档案（绕过注册流程）
func (r *testRepos) addProfile(identityID, name, role string) *model.Profile {
	p := &model.Profile{
		ProfileID:  "prof-" + identityID,
		IdentityID: identityID,
		Name:       name,
		Email:      identityID + "@example.edu",
		Role:       role,
	}
	r.profiles.profiles[p.ProfileID] = p
	return p
}

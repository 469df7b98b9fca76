package service

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"smart-class-flow/backend/internal/authz"
	"smart-class-flow/backend/internal/dto"
	"smart-class-flow/backend/internal/model"
)

// ── 测试辅助 ──

func setupTestTimetableService() (TimetableService, *testRepos) {
	repos := newTestRepos()
	az := newTestAuthorizer(map[string]string{
		"id-admin":   model.RoleAdmin,
		"id-faculty": model.RoleFaculty,
		"id-student": model.RoleStudent,
	})
	svc := NewTimetableService(repos.repo, az, zap.NewNop())
	return svc, repos
}

// seedTimetableRefs 填充课程安排需要引用的课程/教师/教室
func seedTimetableRefs(repos *testRepos) {
	repos.courses.courses["crs-1"] = &model.Course{
		CourseID: "crs-1", Code: "CS101", Name: "计算机科学导论", Credits: 3,
	}
	repos.profiles.profiles["prof-faculty"] = &model.Profile{
		ProfileID: "prof-faculty", IdentityID: "id-faculty", Name: "Dr. Lee",
		Email: "lee@example.edu", Role: model.RoleFaculty,
	}
	repos.classrooms.classrooms["cls-1"] = &model.Classroom{
		ClassroomID: "cls-1", Name: "Room A-101", Capacity: 40, IsAvailable: true,
	}
}

func validCreateRequest() *dto.CreateTimetableEntryRequest {
	return &dto.CreateTimetableEntryRequest{
		CourseID:    "crs-1",
		FacultyID:   "prof-faculty",
		ClassroomID: "cls-1",
		DayOfWeek:   "Monday",
		StartTime:   "09:00",
		EndTime:     "10:30",
	}
}

// ── Create 测试 ──

func TestTimetableService_Create_AdminSuccess(t *testing.T) {
	svc, repos := setupTestTimetableService()
	seedTimetableRefs(repos)

	result, err := svc.Create(context.Background(), "id-admin", validCreateRequest())
	if err != nil {
		t.Fatalf("管理员创建课程安排应成功: %v", err)
	}
	if result.DayOfWeek != "Monday" {
		t.Errorf("期望DayOfWeek=Monday，实际=%s", result.DayOfWeek)
	}
	if result.CourseCode != "CS101" {
		t.Errorf("期望联表带出课程代码CS101，实际=%s", result.CourseCode)
	}
	if result.FacultyName != "Dr. Lee" {
		t.Errorf("期望联表带出教师名Dr. Lee，实际=%s", result.FacultyName)
	}
	if result.RoomName != "Room A-101" {
		t.Errorf("期望联表带出教室名Room A-101，实际=%s", result.RoomName)
	}
}

func TestTimetableService_Create_FacultyAllowed(t *testing.T) {
	svc, repos := setupTestTimetableService()
	seedTimetableRefs(repos)

	// 课表维护放行管理员与教师两种角色
	if _, err := svc.Create(context.Background(), "id-faculty", validCreateRequest()); err != nil {
		t.Fatalf("教师创建课程安排应成功: %v", err)
	}
}

func TestTimetableService_Create_StudentDenied(t *testing.T) {
	svc, repos := setupTestTimetableService()
	seedTimetableRefs(repos)

	_, err := svc.Create(context.Background(), "id-student", validCreateRequest())
	if !errors.Is(err, authz.ErrDenied) {
		t.Errorf("学生创建课程安排应被拒绝，实际: %v", err)
	}
}

func TestTimetableService_Create_EndBeforeStart(t *testing.T) {
	svc, repos := setupTestTimetableService()
	seedTimetableRefs(repos)

	req := validCreateRequest()
	req.StartTime = "09:00"
	req.EndTime = "08:00"

	_, err := svc.Create(context.Background(), "id-admin", req)
	if !errors.Is(err, ErrInvalidTimeRange) {
		t.Errorf("结束早于开始应返回 ErrInvalidTimeRange，实际: %v", err)
	}
}

func TestTimetableService_Create_EqualStartEnd(t *testing.T) {
	svc, repos := setupTestTimetableService()
	seedTimetableRefs(repos)

	req := validCreateRequest()
	req.StartTime = "09:00"
	req.EndTime = "09:00"

	_, err := svc.Create(context.Background(), "id-admin", req)
	if !errors.Is(err, ErrInvalidTimeRange) {
		t.Errorf("开始等于结束应返回 ErrInvalidTimeRange，实际: %v", err)
	}
}

func TestTimetableService_Create_InvalidDay(t *testing.T) {
	svc, repos := setupTestTimetableService()
	seedTimetableRefs(repos)

	req := validCreateRequest()
	req.DayOfWeek = "Funday"

	_, err := svc.Create(context.Background(), "id-admin", req)
	if !errors.Is(err, ErrInvalidDayOfWeek) {
		t.Errorf("非法星期应返回 ErrInvalidDayOfWeek，实际: %v", err)
	}
}

func TestTimetableService_Create_InvalidClock(t *testing.T) {
	svc, repos := setupTestTimetableService()
	seedTimetableRefs(repos)

	req := validCreateRequest()
	req.StartTime = "9 am"

	_, err := svc.Create(context.Background(), "id-admin", req)
	if !errors.Is(err, ErrInvalidClock) {
		t.Errorf("非法时间格式应返回 ErrInvalidClock，实际: %v", err)
	}
}

func TestTimetableService_Create_MissingReference(t *testing.T) {
	svc, repos := setupTestTimetableService()
	seedTimetableRefs(repos)

	req := validCreateRequest()
	req.CourseID = "crs-unknown"

	_, err := svc.Create(context.Background(), "id-admin", req)
	if !errors.Is(err, ErrEntryRefMissing) {
		t.Errorf("引用不存在的课程应返回 ErrEntryRefMissing，实际: %v", err)
	}
}

// ── List 测试 ──

func TestTimetableService_List_FilterByDay(t *testing.T) {
	svc, repos := setupTestTimetableService()
	seedTimetableRefs(repos)

	for _, day := range []string{"Monday", "Tuesday"} {
		req := validCreateRequest()
		req.DayOfWeek = day
		if _, err := svc.Create(context.Background(), "id-admin", req); err != nil {
			t.Fatalf("创建失败: %v", err)
		}
	}

	result, err := svc.List(context.Background(), &dto.TimetableListRequest{DayOfWeek: "Monday"})
	if err != nil {
		t.Fatalf("List 应成功: %v", err)
	}
	if len(result) != 1 || result[0].DayOfWeek != "Monday" {
		t.Errorf("期望仅返回周一的安排，实际=%+v", result)
	}
}

func TestTimetableService_List_InvalidDayRejected(t *testing.T) {
	svc, _ := setupTestTimetableService()

	_, err := svc.List(context.Background(), &dto.TimetableListRequest{DayOfWeek: "Someday"})
	if !errors.Is(err, ErrInvalidDayOfWeek) {
		t.Errorf("非法星期过滤应返回 ErrInvalidDayOfWeek，实际: %v", err)
	}
}

// ── Update 测试 ──

func TestTimetableService_Update_RevalidatesSlot(t *testing.T) {
	svc, repos := setupTestTimetableService()
	seedTimetableRefs(repos)

	created, err := svc.Create(context.Background(), "id-admin", validCreateRequest())
	if err != nil {
		t.Fatalf("创建失败: %v", err)
	}

	// 只改结束时间也要和既有开始时间联合校验
	end := "08:30"
	_, err = svc.Update(context.Background(), "id-admin", created.ID, &dto.UpdateTimetableEntryRequest{
		EndTime: &end,
	})
	if !errors.Is(err, ErrInvalidTimeRange) {
		t.Errorf("更新后的时段非法应返回 ErrInvalidTimeRange，实际: %v", err)
	}
}

func TestTimetableService_Update_Success(t *testing.T) {
	svc, repos := setupTestTimetableService()
	seedTimetableRefs(repos)

	created, err := svc.Create(context.Background(), "id-admin", validCreateRequest())
	if err != nil {
		t.Fatalf("创建失败: %v", err)
	}

	day := "Friday"
	result, err := svc.Update(context.Background(), "id-faculty", created.ID, &dto.UpdateTimetableEntryRequest{
		DayOfWeek: &day,
	})
	if err != nil {
		t.Fatalf("Update 应成功: %v", err)
	}
	if result.DayOfWeek != "Friday" {
		t.Errorf("期望DayOfWeek=Friday，实际=%s", result.DayOfWeek)
	}
}

// ── Delete 测试 ──

func TestTimetableService_Delete_StudentDenied(t *testing.T) {
	svc, repos := setupTestTimetableService()
	seedTimetableRefs(repos)

	created, err := svc.Create(context.Background(), "id-admin", validCreateRequest())
	if err != nil {
		t.Fatalf("创建失败: %v", err)
	}

	err = svc.Delete(context.Background(), "id-student", created.ID)
	if !errors.Is(err, authz.ErrDenied) {
		t.Errorf("学生删除课程安排应被拒绝，实际: %v", err)
	}
}

func TestTimetableService_Delete_NotFound(t *testing.T) {
	svc, _ := setupTestTimetableService()

	err := svc.Delete(context.Background(), "id-admin", "nonexistent")
	if !errors.Is(err, ErrEntryNotFound) {
		t.Errorf("期望 ErrEntryNotFound，实际: %v", err)
	}
}

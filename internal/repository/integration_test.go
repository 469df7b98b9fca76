//go:build integration

package repository_test

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"smart-class-flow/backend/pkg/database"
	pkgerrors "smart-class-flow/backend/pkg/errors"

	"smart-class-flow/backend/internal/model"
	"smart-class-flow/backend/internal/repository"
)

// ═══════════════════════════════════════════════════════════
// Test Setup
// ═══════════════════════════════════════════════════════════

var testDB *gorm.DB

func TestMain(m *testing.M) {
	dsn := os.Getenv("TEST_DATABASE_DSN")
	if dsn == "" {
		dsn = "host=localhost port=5433 user=scf password=scf_password dbname=smart_class_flow_test sslmode=disable TimeZone=UTC"
	}

	var err error
	testDB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "无法连接测试数据库: %v\n", err)
		os.Exit(1)
	}

	// 用线上同一套嵌入迁移建表，保证测试库与生产 schema 一致
	// (级联删除和 CHECK 约束只存在于迁移脚本里，AutoMigrate 建不出来)
	sqlDB, err := testDB.DB()
	if err != nil {
		fmt.Fprintf(os.Stderr, "获取底层连接失败: %v\n", err)
		os.Exit(1)
	}
	if err := database.RunMigrations(sqlDB, zap.NewNop()); err != nil {
		fmt.Fprintf(os.Stderr, "执行迁移失败: %v\n", err)
		os.Exit(1)
	}

	code := m.Run()
	os.Exit(code)
}

// uniq 生成唯一后缀避免跨用例冲突
func uniq() string {
	return fmt.Sprintf("%d", time.Now().UnixNano())
}

// setupTestData 创建基础测试数据并返回清理函数
func setupTestData(t *testing.T) (identity *model.Identity, course *model.Course, classroom *model.Classroom, cleanup func()) {
	t.Helper()
	ctx := context.Background()

	suffix := uniq()
	identity = &model.Identity{
		Email:        fmt.Sprintf("faculty%s@example.edu", suffix),
		PasswordHash: "$2a$10$placeholder",
	}
	if err := testDB.WithContext(ctx).Create(identity).Error; err != nil {
		t.Fatalf("创建身份失败: %v", err)
	}

	course = &model.Course{
		Code:    "T" + suffix[len(suffix)-8:],
		Name:    "测试课程",
		Credits: 3,
	}
	if err := testDB.WithContext(ctx).Create(course).Error; err != nil {
		t.Fatalf("创建课程失败: %v", err)
	}

	classroom = &model.Classroom{
		Name:        "测试教室-" + suffix,
		Capacity:    40,
		Equipment:   []string{"projector"},
		IsAvailable: true,
	}
	if err := testDB.WithContext(ctx).Create(classroom).Error; err != nil {
		t.Fatalf("创建教室失败: %v", err)
	}

	cleanup = func() {
		testDB.Where("course_id = ?", course.CourseID).Delete(&model.TimetableEntry{})
		testDB.Where("classroom_id = ?", classroom.ClassroomID).Delete(&model.Classroom{})
		testDB.Where("course_id = ?", course.CourseID).Delete(&model.Course{})
		testDB.Where("identity_id = ?", identity.IdentityID).Delete(&model.Feedback{})
		testDB.Where("identity_id = ?", identity.IdentityID).Delete(&model.Profile{})
		testDB.Where("identity_id = ?", identity.IdentityID).Delete(&model.Identity{})
	}
	return identity, course, classroom, cleanup
}

// ═══════════════════════════════════════════════════════════
// 身份 → 档案钩子
// ═══════════════════════════════════════════════════════════

func TestIdentityCreate_MaterializesProfile(t *testing.T) {
	identity, _, _, cleanup := setupTestData(t)
	defer cleanup()

	repo := repository.NewProfileRepo(testDB)
	profile, err := repo.GetByIdentityID(context.Background(), identity.IdentityID)
	if err != nil {
		t.Fatalf("身份创建后应自动生成档案: %v", err)
	}
	if profile.Role != model.RoleStudent {
		t.Errorf("档案默认角色应为 student，实际=%s", profile.Role)
	}
	if profile.Name != identity.Email {
		t.Errorf("未填显示名时档案名应回退为邮箱，实际=%s", profile.Name)
	}
}

func TestIdentityCreate_MetaNamePreferred(t *testing.T) {
	ctx := context.Background()
	name := "Dr. Lee"
	identity := &model.Identity{
		Email:        fmt.Sprintf("lee%s@example.edu", uniq()),
		PasswordHash: "$2a$10$placeholder",
		MetaName:     &name,
	}
	if err := testDB.WithContext(ctx).Create(identity).Error; err != nil {
		t.Fatalf("创建身份失败: %v", err)
	}
	defer func() {
		testDB.Where("identity_id = ?", identity.IdentityID).Delete(&model.Profile{})
		testDB.Where("identity_id = ?", identity.IdentityID).Delete(&model.Identity{})
	}()

	var profile model.Profile
	if err := testDB.Where("identity_id = ?", identity.IdentityID).First(&profile).Error; err != nil {
		t.Fatalf("查询档案失败: %v", err)
	}
	if profile.Name != "Dr. Lee" {
		t.Errorf("档案名应优先取显示名，实际=%s", profile.Name)
	}
}

func TestIdentityCreate_DuplicateEmail(t *testing.T) {
	identity, _, _, cleanup := setupTestData(t)
	defer cleanup()

	dup := &model.Identity{
		Email:        identity.Email,
		PasswordHash: "$2a$10$placeholder",
	}
	err := testDB.Create(dup).Error
	if !pkgerrors.IsUniqueViolation(err) {
		t.Errorf("重复邮箱应触发唯一约束冲突，实际: %v", err)
	}
}

// ═══════════════════════════════════════════════════════════
// CHECK 约束
// ═══════════════════════════════════════════════════════════

func TestClassroom_CapacityCheck(t *testing.T) {
	classroom := &model.Classroom{
		Name:      "非法容量-" + uniq(),
		Capacity:  -5,
		Equipment: []string{},
	}
	err := testDB.Create(classroom).Error
	if !pkgerrors.IsCheckViolation(err) {
		t.Errorf("容量为负应触发 CHECK 冲突，实际: %v", err)
		testDB.Where("classroom_id = ?", classroom.ClassroomID).Delete(&model.Classroom{})
	}
}

func TestCourse_CreditsCheck(t *testing.T) {
	course := &model.Course{
		Code:    "NEG" + uniq()[:10],
		Name:    "非法学分",
		Credits: -1,
	}
	err := testDB.Create(course).Error
	if !pkgerrors.IsCheckViolation(err) {
		t.Errorf("学分为负应触发 CHECK 冲突，实际: %v", err)
		testDB.Where("course_id = ?", course.CourseID).Delete(&model.Course{})
	}
}

// ═══════════════════════════════════════════════════════════
// 课程安排与级联删除
// ═══════════════════════════════════════════════════════════

func TestTimetable_CascadeOnCourseDelete(t *testing.T) {
	identity, course, classroom, cleanup := setupTestData(t)
	defer cleanup()

	ctx := context.Background()
	var profile model.Profile
	if err := testDB.Where("identity_id = ?", identity.IdentityID).First(&profile).Error; err != nil {
		t.Fatalf("查询档案失败: %v", err)
	}

	repo := repository.NewTimetableRepo(testDB)
	entry := &model.TimetableEntry{
		CourseID:    course.CourseID,
		FacultyID:   profile.ProfileID,
		ClassroomID: classroom.ClassroomID,
		DayOfWeek:   "Monday",
		StartTime:   "09:00",
		EndTime:     "10:30",
	}
	if err := repo.Create(ctx, entry); err != nil {
		t.Fatalf("创建课程安排失败: %v", err)
	}

	// 删除被引用的课程，安排应随之消失
	if err := testDB.Where("course_id = ?", course.CourseID).Delete(&model.Course{}).Error; err != nil {
		t.Fatalf("删除课程失败: %v", err)
	}

	if _, err := repo.GetByID(ctx, entry.EntryID); err == nil {
		t.Error("课程删除后其安排应被级联删除")
	}
}

func TestTimetable_ListPreloadsAssociations(t *testing.T) {
	identity, course, classroom, cleanup := setupTestData(t)
	defer cleanup()

	ctx := context.Background()
	var profile model.Profile
	if err := testDB.Where("identity_id = ?", identity.IdentityID).First(&profile).Error; err != nil {
		t.Fatalf("查询档案失败: %v", err)
	}

	repo := repository.NewTimetableRepo(testDB)
	entry := &model.TimetableEntry{
		CourseID:    course.CourseID,
		FacultyID:   profile.ProfileID,
		ClassroomID: classroom.ClassroomID,
		DayOfWeek:   "Wednesday",
		StartTime:   "14:00",
		EndTime:     "15:30",
	}
	if err := repo.Create(ctx, entry); err != nil {
		t.Fatalf("创建课程安排失败: %v", err)
	}

	entries, err := repo.List(ctx, repository.TimetableFilter{FacultyID: profile.ProfileID})
	if err != nil {
		t.Fatalf("List 失败: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("期望1条安排，实际=%d", len(entries))
	}
	got := entries[0]
	if got.Course == nil || got.Course.Code != course.Code {
		t.Error("List 应预加载课程关联")
	}
	if got.Faculty == nil || got.Faculty.ProfileID != profile.ProfileID {
		t.Error("List 应预加载教师档案关联")
	}
	if got.Classroom == nil || got.Classroom.Name != classroom.Name {
		t.Error("List 应预加载教室关联")
	}
}

func TestTimetable_ListWeekdayOrder(t *testing.T) {
	identity, course, classroom, cleanup := setupTestData(t)
	defer cleanup()

	ctx := context.Background()
	var profile model.Profile
	if err := testDB.Where("identity_id = ?", identity.IdentityID).First(&profile).Error; err != nil {
		t.Fatalf("查询档案失败: %v", err)
	}

	repo := repository.NewTimetableRepo(testDB)
	// 故意先插 Friday 再插 Monday，按字母序 Friday 会排前面
	for _, day := range []string{"Friday", "Monday", "Wednesday"} {
		entry := &model.TimetableEntry{
			CourseID:    course.CourseID,
			FacultyID:   profile.ProfileID,
			ClassroomID: classroom.ClassroomID,
			DayOfWeek:   day,
			StartTime:   "09:00",
			EndTime:     "10:30",
		}
		if err := repo.Create(ctx, entry); err != nil {
			t.Fatalf("创建 %s 课程安排失败: %v", day, err)
		}
	}

	entries, err := repo.List(ctx, repository.TimetableFilter{FacultyID: profile.ProfileID})
	if err != nil {
		t.Fatalf("List 失败: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("期望3条安排，实际=%d", len(entries))
	}
	want := []string{"Monday", "Wednesday", "Friday"}
	for i, day := range want {
		if entries[i].DayOfWeek != day {
			t.Errorf("第%d条期望 %s，实际=%s", i+1, day, entries[i].DayOfWeek)
		}
	}
}

// ═══════════════════════════════════════════════════════════
// 审计时间戳
// ═══════════════════════════════════════════════════════════

func TestFeedback_UpdatedAtRefreshes(t *testing.T) {
	identity, _, _, cleanup := setupTestData(t)
	defer cleanup()

	ctx := context.Background()
	repo := repository.NewFeedbackRepo(testDB)

	feedback := &model.Feedback{
		IdentityID: identity.IdentityID,
		Title:      "标题",
		Message:    "内容",
		Status:     model.FeedbackPending,
	}
	if err := repo.Create(ctx, feedback); err != nil {
		t.Fatalf("创建反馈失败: %v", err)
	}
	created := feedback.UpdatedAt

	time.Sleep(10 * time.Millisecond)

	feedback.Status = model.FeedbackReviewed
	if err := repo.Update(ctx, feedback); err != nil {
		t.Fatalf("更新反馈失败: %v", err)
	}

	var reloaded model.Feedback
	if err := testDB.Where("feedback_id = ?", feedback.FeedbackID).First(&reloaded).Error; err != nil {
		t.Fatalf("重查反馈失败: %v", err)
	}
	if !reloaded.UpdatedAt.After(created) {
		t.Error("更新后 updated_at 应晚于创建时刻")
	}
}

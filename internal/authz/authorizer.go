package authz

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"smart-class-flow/backend/internal/model"
)

// ErrDenied 策略拒绝：没有任何策略谓词放行该操作
var ErrDenied = errors.New("无权限执行该操作")

// Action 操作类型
type Action string

const (
	ActionSelect Action = "select"
	ActionInsert Action = "insert"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// Resource 受控资源（按表划分）
type Resource string

const (
	ResourceProfiles   Resource = "profiles"
	ResourceClassrooms Resource = "classrooms"
	ResourceCourses    Resource = "courses"
	ResourceTimetable  Resource = "timetable"
	ResourceFeedback   Resource = "feedback"
)

// Row 行级信息，归属类谓词据此判断行的所有者
type Row struct {
	OwnerIdentityID string
}

// RoleChecker 实时角色查询
//
// 角色必须在每次鉴权时查询 profiles 表，而不是缓存在会话或 Token 中：
// 管理员改动某身份的角色后，下一次请求立即生效。
type RoleChecker interface {
	HasAnyRole(ctx context.Context, identityID string, roles ...string) (bool, error)
}

// dbRoleChecker 基于 profiles 表的存在性查询实现 RoleChecker
type dbRoleChecker struct {
	db *gorm.DB
}

func (c *dbRoleChecker) HasAnyRole(ctx context.Context, identityID string, roles ...string) (bool, error) {
	if identityID == "" {
		return false, nil
	}
	var exists bool
	err := c.db.WithContext(ctx).
		Raw("SELECT EXISTS (SELECT 1 FROM profiles WHERE identity_id = ? AND role IN ?)", identityID, roles).
		Scan(&exists).Error
	if err != nil {
		return false, err
	}
	return exists, nil
}

// predicate 策略谓词：对一个请求身份 + 行信息给出允许/拒绝
type predicate func(ctx context.Context, identityID string, row Row) (bool, error)

// Authorizer 行级授权策略层
//
// 每张表的每种操作注册零或多个策略谓词，任一谓词为真即放行（OR 语义）；
// 未注册任何谓词的操作一律拒绝。
type Authorizer struct {
	roles    RoleChecker
	policies map[Resource]map[Action][]predicate
}

// New 创建基于数据库实时角色查询的 Authorizer
func New(db *gorm.DB) *Authorizer {
	return NewWithRoleChecker(&dbRoleChecker{db: db})
}

// NewWithRoleChecker 使用自定义 RoleChecker 创建 Authorizer（测试用）
func NewWithRoleChecker(rc RoleChecker) *Authorizer {
	a := &Authorizer{
		roles:    rc,
		policies: make(map[Resource]map[Action][]predicate),
	}

	// ── 档案：目录公开可读，仅本人可建/改 ──
	a.register(ResourceProfiles, ActionSelect, allowAll)
	a.register(ResourceProfiles, ActionInsert, isOwner)
	a.register(ResourceProfiles, ActionUpdate, isOwner)

	// ── 教室 / 课程：公开可读，仅管理员可写 ──
	adminOnly := a.hasRole(model.RoleAdmin)
	for _, res := range []Resource{ResourceClassrooms, ResourceCourses} {
		a.register(res, ActionSelect, allowAll)
		a.register(res, ActionInsert, adminOnly)
		a.register(res, ActionUpdate, adminOnly)
		a.register(res, ActionDelete, adminOnly)
	}

	// ── 课程安排：公开可读，管理员或教师可写 ──
	adminOrFaculty := a.hasRole(model.RoleAdmin, model.RoleFaculty)
	a.register(ResourceTimetable, ActionSelect, allowAll)
	a.register(ResourceTimetable, ActionInsert, adminOrFaculty)
	a.register(ResourceTimetable, ActionUpdate, adminOrFaculty)
	a.register(ResourceTimetable, ActionDelete, adminOrFaculty)

	// ── 反馈：本人或管理员可读（两条策略取 OR），仅本人可建 ──
	a.register(ResourceFeedback, ActionSelect, isOwner)
	a.register(ResourceFeedback, ActionSelect, adminOnly)
	a.register(ResourceFeedback, ActionInsert, isOwner)
	a.register(ResourceFeedback, ActionUpdate, isOwner)
	a.register(ResourceFeedback, ActionUpdate, adminOnly)

	return a
}

func (a *Authorizer) register(res Resource, act Action, p predicate) {
	if a.policies[res] == nil {
		a.policies[res] = make(map[Action][]predicate)
	}
	a.policies[res][act] = append(a.policies[res][act], p)
}

// Authorize 鉴权入口：任一谓词为真即放行，否则返回 ErrDenied
func (a *Authorizer) Authorize(ctx context.Context, identityID string, res Resource, act Action, row Row) error {
	for _, p := range a.policies[res][act] {
		ok, err := p(ctx, identityID, row)
		if err != nil {
			return err
		}
		if ok {
			return nil
		}
	}
	return ErrDenied
}

// CanReadAllFeedback 反馈读取范围：管理员可读全量，否则仅本人的行
// 列表查询用本方法将 select 策略落为行过滤条件
func (a *Authorizer) CanReadAllFeedback(ctx context.Context, identityID string) (bool, error) {
	return a.roles.HasAnyRole(ctx, identityID, model.RoleAdmin)
}

// ── 谓词 ──

func allowAll(context.Context, string, Row) (bool, error) {
	return true, nil
}

func isOwner(_ context.Context, identityID string, row Row) (bool, error) {
	return identityID != "" && identityID == row.OwnerIdentityID, nil
}

// hasRole 生成实时角色谓词：每次调用都重新查询 profiles 表
func (a *Authorizer) hasRole(roles ...string) predicate {
	return func(ctx context.Context, identityID string, _ Row) (bool, error) {
		return a.roles.HasAnyRole(ctx, identityID, roles...)
	}
}

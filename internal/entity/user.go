package entity

import (
	"regexp"
	"time"
)

// 系统角色为封闭枚举，对应实习管理中的各类参与方
const (
	UserRoleAdmin         = "ADMIN"
	UserRoleEduSecretary  = "EDU_SECRETARY"
	UserRoleCompanyMgr    = "COMPANY_MGR"
	UserRoleStudent       = "STUDENT"
	UserRoleLeadTeacher   = "LEAD_TEACHER"
	UserRoleCompanyMentor = "COMPANY_MENTOR"
	UserRoleExpert        = "EXPERT"
)

var allRoles = map[string]struct{}{
	UserRoleAdmin:         {},
	UserRoleEduSecretary:  {},
	UserRoleCompanyMgr:    {},
	UserRoleStudent:       {},
	UserRoleLeadTeacher:   {},
	UserRoleCompanyMentor: {},
	UserRoleExpert:        {},
}

// ValidRole reports whether role is a member of the closed role enumeration.
func ValidRole(role string) bool {
	_, ok := allRoles[role]
	return ok
}

// 手机号：11 位大陆手机号，或 10-15 位数字号码
var phonePattern = regexp.MustCompile(`^1\d{10}$|^\d{10,15}$`)

// ValidPhone reports whether phone matches the accepted number formats.
func ValidPhone(phone string) bool {
	return phonePattern.MatchString(phone)
}

// DbUser represents a persisted user account.
type DbUser struct {
	ID           uint      `gorm:"primarykey" json:"id"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	Username     string    `gorm:"column:username;type:varchar(255);uniqueIndex;not null" json:"username"`
	PasswordHash string    `gorm:"column:password_hash;type:varchar(255);not null" json:"-"`
	Role         string    `gorm:"column:role;type:varchar(50);index;not null" json:"role"`
	Phone        string    `gorm:"column:phone;type:varchar(20)" json:"phone"`
	MustResetPwd bool      `gorm:"column:must_reset_pwd;not null;default:false" json:"must_reset_pwd"`
}

// TableName overrides default pluralised name.
func (DbUser) TableName() string {
	return "users"
}

// UserSummary is a lightweight user description returned to clients.
type UserSummary struct {
	ID           uint      `json:"id"`
	Username     string    `json:"username"`
	Role         string    `json:"role"`
	Phone        string    `json:"phone"`
	MustResetPwd bool      `json:"must_reset_pwd"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type AuthLoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required,min=6"`
}

type AuthLoginResponse struct {
	Token        string    `json:"token"`
	ExpiresAt    time.Time `json:"expires_at"`
	MustResetPwd bool      `json:"must_reset_pwd"`
}

// FirstSetupRequest 首次登录设置：改密码 + 绑定手机号
type FirstSetupRequest struct {
	NewPassword string `json:"new_password" binding:"required,min=8"`
	Phone       string `json:"phone" binding:"required"`
}

type UserCreateRequest struct {
	Username        string `json:"username" binding:"required"`
	Role            string `json:"role" binding:"required"`
	InitialPassword string `json:"initial_password" binding:"required,min=8"`
}

type UserCreateResponse struct {
	ID uint `json:"id"`
}

type UserListResponse struct {
	Users []UserSummary `json:"users"`
}

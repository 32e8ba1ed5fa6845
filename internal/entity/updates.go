package entity

// UserUpdates 用户更新字段
type UserUpdates struct {
	PasswordHash *string
	Phone        *string
	MustResetPwd *bool
}

// ToMap 转换为 GORM 更新 map（内部使用）
func (u UserUpdates) ToMap() map[string]interface{} {
	updates := make(map[string]interface{})
	if u.PasswordHash != nil {
		updates["password_hash"] = *u.PasswordHash
	}
	if u.Phone != nil {
		updates["phone"] = *u.Phone
	}
	if u.MustResetPwd != nil {
		updates["must_reset_pwd"] = *u.MustResetPwd
	}
	return updates
}

// IsEmpty 检查是否没有任何更新字段
func (u UserUpdates) IsEmpty() bool {
	return len(u.ToMap()) == 0
}

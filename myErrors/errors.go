package myErrors

import (
	"errors"
	"fmt"
)

// ErrCacheMiss 表示在缓存层未找到对应的键值
var ErrCacheMiss = errors.New("cache: key not found (miss)")

// 业务错误分类。调用方通过 errors.Is 判断类别，不依赖错误文案。
var (
	// ErrValidation 必填字段缺失或格式非法。
	ErrValidation = errors.New("validation error")
	// ErrConflict 唯一性冲突：账号重复、重复的待处理举报、重复处理举报。
	ErrConflict = errors.New("conflict error")
	// ErrNotFound 引用的实体不存在。
	ErrNotFound = errors.New("not found error")
	// ErrAuth 凭证不匹配。
	ErrAuth = errors.New("auth error")
	// ErrPermission 角色或归属校验失败（包括未登录）。
	ErrPermission = errors.New("permission error")
	// ErrSelfDelete 管理员试图删除自己当前登录的账号。
	ErrSelfDelete = errors.New("self delete error")
)

// ErrDuplicateReport 同一举报人对同一帖子已有待处理举报。它同时属于 ErrConflict。
var ErrDuplicateReport = fmt.Errorf("duplicate pending report: %w", ErrConflict)

// BizError 携带面向用户的提示文案，Unwrap 返回错误类别。
type BizError struct {
	Kind    error
	Message string
}

func (e *BizError) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *BizError) Unwrap() error {
	return e.Kind
}

// New 构造一个业务错误。
func New(kind error, message string) error {
	return &BizError{Kind: kind, Message: message}
}

// Message 提取面向用户的文案；非业务错误返回兜底文案。
func Message(err error) string {
	var biz *BizError
	if errors.As(err, &biz) {
		return biz.Message
	}
	if err == nil {
		return ""
	}
	return "系统繁忙，请稍后再试"
}

// IsBusiness 判断错误是否属于预期内的业务规则拒绝。
func IsBusiness(err error) bool {
	var biz *BizError
	return errors.As(err, &biz)
}

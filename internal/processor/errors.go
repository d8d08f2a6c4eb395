package processor

import (
	"errors"
	"fmt"
)

// 定义基础错误类型
var (
	// ErrInvalidInput 简历或JD文本缺失/为空，直接返回调用方，不重试。
	ErrInvalidInput = errors.New("输入文本为空或无效")
	// ErrUnsupportedFormat 原位改写只接受PDF。
	ErrUnsupportedFormat = errors.New("不支持的文件格式")
)

// PipelineError 带操作上下文的流水线错误。
type PipelineError struct {
	Op      string
	BaseErr error
	Detail  string
}

func (e *PipelineError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s (操作:%s): %s", e.BaseErr, e.Op, e.Detail)
	}
	return fmt.Sprintf("%s (操作:%s)", e.BaseErr, e.Op)
}

func (e *PipelineError) Unwrap() error {
	return e.BaseErr
}

// Is 实现 errors.Is 接口以支持错误比较
func (e *PipelineError) Is(target error) bool {
	return errors.Is(e.BaseErr, target)
}

// 错误构造函数
func NewInvalidInputError(op, detail string) error {
	return &PipelineError{Op: op, BaseErr: ErrInvalidInput, Detail: detail}
}

func NewUnsupportedFormatError(op, detail string) error {
	return &PipelineError{Op: op, BaseErr: ErrUnsupportedFormat, Detail: detail}
}

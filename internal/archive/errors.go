package archive

import (
	"errors"
	"fmt"
)

var (
	// ErrParse 日期或 Feed 文档格式错误。
	ErrParse = errors.New("解析失败")
	// ErrStructure Feed 缺少必需的字段。
	ErrStructure = errors.New("Feed 结构错误")
)

// ParseError 文本无法解析。
type ParseError struct {
	What  string
	Value string
	Err   error
}

func (e *ParseError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("解析 %s 失败: %v", e.What, e.Err)
	}
	return fmt.Sprintf("解析 %s 失败 (%q): %v", e.What, e.Value, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

func (e *ParseError) Is(target error) bool { return target == ErrParse }

// StructuralError 缺少必需字段，不做默认值推断。
type StructuralError struct {
	What  string
	Entry string
}

func (e *StructuralError) Error() string {
	if e.Entry == "" {
		return fmt.Sprintf("缺少字段 %s", e.What)
	}
	return fmt.Sprintf("条目 %s 缺少字段 %s", e.Entry, e.What)
}

func (e *StructuralError) Is(target error) bool { return target == ErrStructure }

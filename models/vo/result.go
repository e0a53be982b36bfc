package vo

import "github.com/Xushengqwer/fruitmaster_service/myErrors"

// Result 是面向调用方（界面层）的统一返回结构。
// - 业务规则拒绝不会以 panic 或裸错误的形式抛出，调用方只需判断 Success。
type Result[T any] struct {
	Success bool   `json:"success"`
	Data    T      `json:"data,omitempty"`
	Message string `json:"message,omitempty"`

	err error
}

// Ok 构造成功结果。
func Ok[T any](data T) Result[T] {
	return Result[T]{Success: true, Data: data}
}

// Fail 构造失败结果，Message 取业务错误的提示文案。
func Fail[T any](err error) Result[T] {
	return Result[T]{Success: false, Message: myErrors.Message(err), err: err}
}

// Err 返回失败原因，成功时为 nil。界面桥据此选择 HTTP 状态码。
func (r Result[T]) Err() error {
	return r.err
}

// From 根据 err 是否为 nil 选择 Ok 或 Fail。
func From[T any](data T, err error) Result[T] {
	if err != nil {
		return Fail[T](err)
	}
	return Ok(data)
}

// Empty 用于不携带数据的操作。
type Empty struct{}

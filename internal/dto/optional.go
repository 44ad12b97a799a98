// Package dto はAPIの入出力形式とエンティティとの相互変換を提供する。
package dto

import (
	"bytes"
	"encoding/json"
)

// Optional はJSONフィールドの有無を区別するラッパー。
// フィールドが省略された場合はSetがfalse、nullが指定された場合はSetとNullがtrueになる。
type Optional[T any] struct {
	Set   bool
	Null  bool
	Value T
}

// Some は値が指定されたOptionalを返す。
func Some[T any](v T) Optional[T] {
	return Optional[T]{Set: true, Value: v}
}

// Null はnullが指定されたOptionalを返す。
func Null[T any]() Optional[T] {
	return Optional[T]{Set: true, Null: true}
}

// UnmarshalJSON はjson.Unmarshalerを実装する。
// フィールドが存在する場合のみ呼ばれるため、呼ばれた時点でSetをtrueにする。
func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	o.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		o.Null = true
		var zero T
		o.Value = zero
		return nil
	}
	o.Null = false
	return json.Unmarshal(data, &o.Value)
}

// Present は値付きで指定されているかどうかを返す。
func (o Optional[T]) Present() bool {
	return o.Set && !o.Null
}

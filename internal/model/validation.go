package model

import (
	"errors"
	"fmt"
	"reflect"
	"unicode"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
)

// validate はパッケージ全体で共有するバリデータ。
// validator.Validateは構造体ごとのキャッシュを持ち、並行利用に対して安全である。
var validate = validator.New()

// Validate は構造体のvalidateタグを検証する。
// 違反がある場合はフィールド名（先頭小文字）ごとのメッセージを持つ*APIErrorを返す。
func Validate(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("failed to validate %T: %w", v, err)
	}

	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[lowerFirst(fe.Field())] = fieldMessage(fe)
	}
	return NewValidationError(fields)
}

// fieldMessage はバリデーションタグに対応するメッセージを返す。
func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "必須項目です。"
	case "email":
		return "メールアドレスの形式が正しくありません。"
	case "min":
		if isNumeric(fe.Kind()) {
			return fmt.Sprintf("%s以上の値を入力してください。", fe.Param())
		}
		return fmt.Sprintf("%s文字以上で入力してください。", fe.Param())
	case "max":
		if isNumeric(fe.Kind()) {
			return fmt.Sprintf("%s以下の値を入力してください。", fe.Param())
		}
		return fmt.Sprintf("%s文字以内で入力してください。", fe.Param())
	default:
		return "値が正しくありません。"
	}
}

func isNumeric(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

func lowerFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToLower(r)) + s[size:]
}

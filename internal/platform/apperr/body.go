package apperr

import "errors"

// ErrorDTO is the JSON error envelope every handler returns.
type ErrorDTO struct {
	Error struct {
		Code    Code   `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func Body(code Code, msg string) ErrorDTO {
	var d ErrorDTO
	d.Error.Code = code
	d.Error.Message = msg
	return d
}

func FromErr(err error) ErrorDTO {
	var e *Error
	if errors.As(err, &e) {
		return Body(e.Code, e.Message)
	}
	return Body(CodeStorage, err.Error())
}

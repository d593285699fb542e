package cramomatic

import "errors"

var (
	ErrUnknownItem     = errors.New("unknown item")
	ErrUnknownType     = errors.New("unknown type")
	ErrScoreOutOfRange = errors.New("score out of range")
	ErrInvalidData     = errors.New("invalid table data")
	ErrInvalidSlot     = errors.New("invalid slot")
)

package deck

import (
	"fmt"
	"net/http"
)

// Error is a structured failure from the deck and trade engine. Code is the
// machine-readable failure kind.
type Error struct {
	HTTP    int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("%v: %v", e.Code, e.Message)
}

// Is matches any *Error carrying the same Code, so errors.Is works against
// the package sentinels regardless of message.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code
}

// Errorf returns a copy of kind with a specific message.
func Errorf(kind error, format string, args ...interface{}) error {
	k, ok := kind.(*Error)
	if !ok {
		return fmt.Errorf(format, args...)
	}
	return &Error{HTTP: k.HTTP, Code: k.Code, Message: fmt.Sprintf(format, args...)}
}

var (
	ErrIncompleteSelection error = &Error{
		HTTP:    http.StatusBadRequest,
		Code:    "IncompleteSelection",
		Message: "a required selection is missing",
	}
	ErrDuplicateCard error = &Error{
		HTTP:    http.StatusBadRequest,
		Code:    "DuplicateCard",
		Message: "a card was selected more than once",
	}
	ErrCategoryMismatch error = &Error{
		HTTP:    http.StatusBadRequest,
		Code:    "CategoryMismatch",
		Message: "a card does not belong to the category it was chosen for",
	}
	ErrInvalidStat error = &Error{
		HTTP:    http.StatusBadRequest,
		Code:    "InvalidStat",
		Message: "stat values must be between 0 and 5",
	}

	// ErrInsufficientCard is returned when a trade needs a card that is not
	// available, either in the ranger's deck or in the reward pool.
	ErrInsufficientCard error = &Error{
		HTTP:    http.StatusConflict,
		Code:    "InsufficientCard",
		Message: "the card is not available",
	}
	ErrAlreadyReverted error = &Error{
		HTTP:    http.StatusConflict,
		Code:    "AlreadyReverted",
		Message: "trade is already reverted",
	}
	ErrNotFound error = &Error{
		HTTP:    http.StatusNotFound,
		Code:    "NotFound",
		Message: "not found",
	}
	ErrCampaignFull error = &Error{
		HTTP:    http.StatusConflict,
		Code:    "CampaignFull",
		Message: "campaign already has the maximum number of rangers",
	}
	ErrInvalidProgress error = &Error{
		HTTP:    http.StatusBadRequest,
		Code:    "InvalidProgress",
		Message: "mission progress is out of range",
	}
	ErrDayNotActive error = &Error{
		HTTP:    http.StatusConflict,
		Code:    "DayNotActive",
		Message: "day is not active",
	}

	// ErrInvalidTradeState means a stored trade history projects to a
	// negative card quantity. It is never caused by a single request.
	ErrInvalidTradeState error = &Error{
		HTTP:    http.StatusInternalServerError,
		Code:    "InvalidTradeState",
		Message: "trade history is inconsistent",
	}
)

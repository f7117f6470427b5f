package api

import (
	"time"

	"github.com/oapi-codegen/runtime/types"
)

type ErrorCode string

const (
	InputValidationError ErrorCode = "InputValidationError"
	NotFound             ErrorCode = "NotFound"
	MethodNotAllowed     ErrorCode = "MethodNotAllowed"
	InternalError        ErrorCode = "InternalError"
)

type Error struct {
	Message string    `json:"message"`
	Code    ErrorCode `json:"code"`
}

type JoinRequest struct {
	Name     string `json:"name"`
	Mail     string `json:"mail"`
	Phone    string `json:"phone,omitempty"`
	Interest string `json:"interest,omitempty"`
	Note     string `json:"note,omitempty"`
}

type JoinResponse struct {
	Ok    bool    `json:"ok"`
	Sent  *bool   `json:"sent,omitempty"`
	Error *string `json:"error,omitempty"`
}

type MailtoResponse struct {
	Url string `json:"url"`
}

type Event struct {
	Id           string     `json:"id"`
	Title        string     `json:"title"`
	Date         types.Date `json:"date"`
	StartTime    string     `json:"startTime"`
	EndTime      string     `json:"endTime"`
	TimeZone     string     `json:"timeZone"`
	Location     string     `json:"location,omitempty"`
	Details      string     `json:"details,omitempty"`
	CalendarLink string     `json:"calendarLink"`
	IcsPath      string     `json:"icsPath"`
}

type EventsResponse struct {
	Data []Event `json:"data"`
}

type Session struct {
	Date  types.Date `json:"date"`
	Start time.Time  `json:"start"`
	End   time.Time  `json:"end"`
}

type EducationSchedule struct {
	Title    string       `json:"title"`
	Location string       `json:"location,omitempty"`
	TimeZone string       `json:"timeZone,omitempty"`
	Sessions []Session    `json:"sessions"`
	Skipped  []types.Date `json:"skipped"`
}

type SiteInfo struct {
	Name      string   `json:"name"`
	Email     string   `json:"email"`
	City      string   `json:"city,omitempty"`
	Instagram string   `json:"instagram,omitempty"`
	TimeZone  string   `json:"timeZone"`
	Interests []string `json:"interests"`
}

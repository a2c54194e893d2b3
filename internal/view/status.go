package view

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Kind names the entity a status belongs to; the same word can render differently per entity.
type Kind string

const (
	KindTodo     Kind = "todo"
	KindRequest  Kind = "request"
	KindMeeting  Kind = "meeting"
	KindAsset    Kind = "asset"
	KindVisitor  Kind = "visitor"
	KindPipeline Kind = "pipeline"
	KindCategory Kind = "category"
)

// Badge is how a status is shown.
type Badge struct {
	Label string `json:"label"`
	Color string `json:"color"`
	Icon  string `json:"icon"`
}

var badges = map[Kind]map[string]Badge{
	KindTodo: {
		"not_started": {"Not Started", "gray", "circle"},
		"in_progress": {"In Progress", "blue", "play"},
		"checking":    {"Checking", "yellow", "search"},
		"evaluating":  {"Evaluating", "purple", "clipboard-check"},
		"reworked":    {"Rework", "orange", "rotate-ccw"},
		"completed":   {"Completed", "green", "check-circle"},
	},
	KindRequest: {
		"pending":      {"Pending", "yellow", "clock"},
		"approved":     {"Approved", "green", "check-circle"},
		"rejected":     {"Rejected", "red", "x-circle"},
		"procurement":  {"In Procurement", "blue", "shopping-cart"},
		"not_received": {"Not Received", "yellow", "clock"},
		"completed":    {"Completed", "green", "check-circle"},
	},
	KindMeeting: {
		"scheduled": {"Scheduled", "blue", "calendar"},
		"ongoing":   {"Ongoing", "green", "play"},
		"ended":     {"Ended", "gray", "check-circle"},
	},
	KindAsset: {
		"not_received":      {"Not Received", "yellow", "clock"},
		"received":          {"Received", "green", "check-circle"},
		"needs_repair":      {"Needs Repair", "orange", "alert-triangle"},
		"needs_replacement": {"Needs Replacement", "red", "refresh-cw"},
		"procurement":       {"In Procurement", "blue", "shopping-cart"},
		"repairing":         {"Repairing", "orange", "wrench"},
		"replacing":         {"Replacing", "purple", "refresh-cw"},
	},
	KindVisitor: {
		"checked_in":  {"Checked In", "green", "log-in"},
		"checked_out": {"Checked Out", "gray", "log-out"},
	},
	KindPipeline: {
		"procurement":  {"Awaiting Purchase", "blue", "shopping-cart"},
		"not_received": {"Awaiting Receipt", "yellow", "clock"},
		"received":     {"Received", "green", "check-circle"},
		"repairing":    {"Repairing", "orange", "wrench"},
		"replacing":    {"Replacing", "purple", "refresh-cw"},
		"completed":    {"Completed", "green", "check-circle"},
	},
	KindCategory: {
		"IT Equipment":     {"IT Equipment", "blue", "monitor"},
		"Office Furniture": {"Office Furniture", "purple", "armchair"},
		"Office Supplies":  {"Office Supplies", "green", "paperclip"},
		"Maintenance":      {"Maintenance", "orange", "wrench"},
	},
}

// Status looks up the badge for status. Unknown values get a gray badge with a humanized label.
func Status(kind Kind, status string) Badge {
	if b, ok := badges[kind][status]; ok {
		return b
	}
	return Badge{Label: Humanize(status), Color: "gray", Icon: "package"}
}

// Humanize turns snake_case into Title Case.
func Humanize(s string) string {
	if s == "" {
		return "Unknown"
	}
	words := strings.Fields(strings.ReplaceAll(s, "_", " "))
	for i, w := range words {
		r, size := utf8.DecodeRuneInString(w)
		words[i] = string(unicode.ToUpper(r)) + w[size:]
	}
	return strings.Join(words, " ")
}

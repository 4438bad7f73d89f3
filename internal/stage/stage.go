package stage

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Kind tags a stage with the metadata row it draws defaults from.
type Kind int

const (
	KindCustom Kind = iota
	KindApplied
	KindReviewed
	KindInterviewScheduled
	KindSelected
	KindOffered
	KindRejected
)

// Default stage ids.
const (
	Applied            = "applied"
	Reviewed           = "reviewed"
	InterviewScheduled = "interview_scheduled"
	Selected           = "selected"
	Offered            = "offered"
	Rejected           = "rejected"
)

// Unknown is the reserved bucket for applications whose status matches no
// registered stage.
const Unknown = "unknown"

// Stage is one column of the pipeline board.
type Stage struct {
	ID          string
	Label       string
	Color       string
	Icon        string
	Kind        Kind
	Destructive bool
}

type metadata struct {
	color       string
	icon        string
	destructive bool
}

var kindMetadata = map[Kind]metadata{
	KindCustom:             {color: "gray", icon: "circle"},
	KindApplied:            {color: "blue", icon: "inbox"},
	KindReviewed:           {color: "purple", icon: "eye"},
	KindInterviewScheduled: {color: "yellow", icon: "calendar"},
	KindSelected:           {color: "green", icon: "check-circle"},
	KindOffered:            {color: "emerald", icon: "gift"},
	KindRejected:           {color: "red", icon: "x-circle", destructive: true},
}

var kindByID = map[string]Kind{
	Applied:            KindApplied,
	Reviewed:           KindReviewed,
	InterviewScheduled: KindInterviewScheduled,
	Selected:           KindSelected,
	Offered:            KindOffered,
	Rejected:           KindRejected,
}

// String returns the kind's lowercase name.
func (k Kind) String() string {
	for id, kind := range kindByID {
		if kind == k {
			return id
		}
	}
	return "custom"
}

// resolve fills blank display fields from the Kind table.
func (s Stage) resolve() Stage {
	s.ID = strings.TrimSpace(s.ID)
	if s.Kind == KindCustom {
		if kind, ok := kindByID[s.ID]; ok {
			s.Kind = kind
		}
	}
	meta := kindMetadata[s.Kind]
	if strings.TrimSpace(s.Label) == "" {
		s.Label = cases.Title(language.English).String(strings.ReplaceAll(s.ID, "_", " "))
	}
	if s.Color == "" {
		s.Color = meta.color
	}
	if s.Icon == "" {
		s.Icon = meta.icon
	}
	s.Destructive = s.Destructive || meta.destructive
	return s
}

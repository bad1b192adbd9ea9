package models

import "fmt"

// Category classifies a complaint. The set is closed; submissions with an
// unknown category are rejected at validation time.
type Category string

const (
	CategoryPothole     Category = "pothole"
	CategoryGarbage     Category = "garbage"
	CategoryStreetlight Category = "streetlight"
	CategoryTraffic     Category = "traffic"
	CategorySidewalk    Category = "sidewalk"
	CategoryDrainage    Category = "drainage"
	CategoryElectricity Category = "electricity"
	CategoryWater       Category = "water"
	CategoryOther       Category = "other"
)

// Categories lists every valid complaint category.
var Categories = []Category{
	CategoryPothole, CategoryGarbage, CategoryStreetlight,
	CategoryTraffic, CategorySidewalk, CategoryDrainage,
	CategoryElectricity, CategoryWater, CategoryOther,
}

// ParseCategory validates a raw category string.
func ParseCategory(s string) (Category, error) {
	for _, c := range Categories {
		if string(c) == s {
			return c, nil
		}
	}
	return "", fmt.Errorf("invalid category %q", s)
}

// Status is the complaint lifecycle state. Transitions are unrestricted:
// admins may move a complaint between any two states, including backward.
type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in_progress"
	StatusResolved   Status = "resolved"
	StatusClosed     Status = "closed"
)

// Statuses lists every valid complaint status.
var Statuses = []Status{StatusPending, StatusInProgress, StatusResolved, StatusClosed}

// ParseStatus validates a raw status string.
func ParseStatus(s string) (Status, error) {
	for _, st := range Statuses {
		if string(st) == s {
			return st, nil
		}
	}
	return "", fmt.Errorf("invalid status %q", s)
}

// Priority ranks a complaint for triage.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

// Priorities lists every valid priority.
var Priorities = []Priority{PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent}

// ParsePriority validates a raw priority string. "emergency" is accepted as
// a legacy alias for urgent so existing clients keep working.
func ParsePriority(s string) (Priority, error) {
	if s == "emergency" {
		return PriorityUrgent, nil
	}
	for _, p := range Priorities {
		if string(p) == s {
			return p, nil
		}
	}
	return "", fmt.Errorf("invalid priority %q", s)
}

// Department is the municipal unit a complaint is assigned to.
type Department string

const (
	DeptSanitation  Department = "sanitation"
	DeptRoads       Department = "roads"
	DeptElectricity Department = "electricity"
	DeptWater       Department = "water"
	DeptTraffic     Department = "traffic"
	DeptGeneral     Department = "general"
)

// Departments lists every valid department.
var Departments = []Department{
	DeptSanitation, DeptRoads, DeptElectricity,
	DeptWater, DeptTraffic, DeptGeneral,
}

// ParseDepartment validates a raw department string.
func ParseDepartment(s string) (Department, error) {
	for _, d := range Departments {
		if string(d) == s {
			return d, nil
		}
	}
	return "", fmt.Errorf("invalid department %q", s)
}

// categoryDepartments is the fixed routing table applied once at
// submission. An explicit transfer may override it later.
var categoryDepartments = map[Category]Department{
	CategoryPothole:     DeptRoads,
	CategorySidewalk:    DeptRoads,
	CategoryGarbage:     DeptSanitation,
	CategoryStreetlight: DeptElectricity,
	CategoryElectricity: DeptElectricity,
	CategoryWater:       DeptWater,
	CategoryDrainage:    DeptWater,
	CategoryTraffic:     DeptTraffic,
	CategoryOther:       DeptGeneral,
}

// DefaultDepartment returns the department responsible for a category.
func DefaultDepartment(c Category) Department {
	if d, ok := categoryDepartments[c]; ok {
		return d
	}
	return DeptGeneral
}

// VoteType is the direction of a citizen vote on a complaint.
type VoteType string

const (
	VoteUp   VoteType = "upvote"
	VoteDown VoteType = "downvote"
)

// ParseVoteType validates a raw vote type string.
func ParseVoteType(s string) (VoteType, error) {
	switch VoteType(s) {
	case VoteUp, VoteDown:
		return VoteType(s), nil
	}
	return "", fmt.Errorf("invalid vote type %q", s)
}

// Role is a user's access level.
type Role string

const (
	RoleCitizen Role = "citizen"
	RoleAdmin   Role = "admin"
)

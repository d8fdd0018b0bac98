// Package model contains domain models passed between layers.
package model

import "strings"

// Role is the closed set of player roles shared by both sources.
type Role int

// Known roles, ordered from goalkeeper to forward.
const (
	RoleUnknown Role = iota
	RoleGoalkeeper
	RoleDefender
	RoleMidfielder
	RoleForward
)

// Roles lists the known roles in ladder order.
var Roles = []Role{RoleGoalkeeper, RoleDefender, RoleMidfielder, RoleForward}

var roleSynonyms = map[string]Role{
	"p":              RoleGoalkeeper,
	"por":            RoleGoalkeeper,
	"portiere":       RoleGoalkeeper,
	"portieri":       RoleGoalkeeper,
	"gk":             RoleGoalkeeper,
	"goalkeeper":     RoleGoalkeeper,
	"d":              RoleDefender,
	"dif":            RoleDefender,
	"difensore":      RoleDefender,
	"difensori":      RoleDefender,
	"def":            RoleDefender,
	"defender":       RoleDefender,
	"c":              RoleMidfielder,
	"cen":            RoleMidfielder,
	"centrocampista": RoleMidfielder,
	"centrocampisti": RoleMidfielder,
	"mid":            RoleMidfielder,
	"midfielder":     RoleMidfielder,
	"a":              RoleForward,
	"att":            RoleForward,
	"attaccante":     RoleForward,
	"attaccanti":     RoleForward,
	"fwd":            RoleForward,
	"forward":        RoleForward,
}

// ParseRole maps a source role code (P, POR, DIF, C, ATT, ...) to a Role.
// Unrecognized codes yield RoleUnknown.
func ParseRole(code string) Role {
	return roleSynonyms[strings.ToLower(strings.TrimSpace(code))]
}

// String returns the configuration key of the role.
func (r Role) String() string {
	switch r {
	case RoleGoalkeeper:
		return "goalkeeper"
	case RoleDefender:
		return "defender"
	case RoleMidfielder:
		return "midfielder"
	case RoleForward:
		return "forward"
	default:
		return "unknown"
	}
}

// Code returns the single-letter code used by fantacalcio lists.
func (r Role) Code() string {
	switch r {
	case RoleGoalkeeper:
		return "P"
	case RoleDefender:
		return "D"
	case RoleMidfielder:
		return "C"
	case RoleForward:
		return "A"
	default:
		return "?"
	}
}

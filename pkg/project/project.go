package project

import "strings"

// AbsencePrefix is the project-code convention marking absence projects.
// A project with code ABSENCES-{TEAM} holds vacation/leave rows rather
// than committed work; the code is the only discriminator.
const AbsencePrefix = "ABSENCES-"

type Project struct {
	ID   string
	Code string
	Name string
	Team string
}

// IsAbsenceCode reports whether a project code follows the
// ABSENCES-{TEAM} convention.
func IsAbsenceCode(code string) bool {
	return strings.HasPrefix(code, AbsencePrefix)
}

// AbsenceCode builds the absence project code for a team.
func AbsenceCode(team string) string {
	return AbsencePrefix + strings.ToUpper(team)
}

// IsAbsence reports whether every assignment of this project counts as
// absence instead of committed work.
func (p Project) IsAbsence() bool {
	return IsAbsenceCode(p.Code)
}

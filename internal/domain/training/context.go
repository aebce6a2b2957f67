// Package training holds the read-side model of missions and curriculum
// modules. The records are owned by the upstream platform backend; this
// service only reads them to ground recipe generation and ranking.
package training

import "strings"

// Context is the unified shape of a mission or curriculum module as consumed
// by the prompt builder. Mission instructions and module descriptions map to
// Instructions; required skills and learning objectives map to Skills.
type Context struct {
	ID             string   `json:"id"`
	Type           string   `json:"type"`
	Title          string   `json:"title"`
	Instructions   string   `json:"instructions"`
	Skills         []string `json:"skills"`
	CommonFailures []string `json:"common_failures"`
}

// Summary renders the context as the structured text block embedded into
// prompts. Pure formatting, no side effects.
func (c Context) Summary() string {
	var b strings.Builder
	b.WriteString("Title: " + c.Title + "\n")
	b.WriteString("Instructions: " + c.Instructions + "\n")
	if len(c.Skills) > 0 {
		b.WriteString("Required skills: " + strings.Join(c.Skills, ", ") + "\n")
	}
	if len(c.CommonFailures) > 0 {
		b.WriteString("Common failures: " + strings.Join(c.CommonFailures, ", ") + "\n")
	}
	return b.String()
}

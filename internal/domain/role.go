package domain

import "fmt"

type Role int

const (
	RoleUser Role = iota + 1
	RoleAssistant
	RoleSystem
)

func (r Role) String() string {
	switch r {
	case RoleUser:
		return "user"
	case RoleAssistant:
		return "assistant"
	case RoleSystem:
		return "system"
	default:
		return fmt.Sprintf("role(%d)", int(r))
	}
}

// WireName is the spelling of r expected by p. It is the only place role
// names diverge between providers.
func (r Role) WireName(p Provider) string {
	switch p.Family() {
	case FamilyClaude:
		switch r {
		case RoleUser:
			return "user"
		case RoleAssistant:
			return "assistant"
		case RoleSystem:
			return "system"
		}
	case FamilyChatGPT:
		switch r {
		case RoleUser:
			return "user"
		case RoleAssistant:
			return "assistant"
		case RoleSystem:
			return "developer"
		}
	case FamilyGemini:
		switch r {
		case RoleUser:
			return "user"
		case RoleAssistant:
			return "model"
		case RoleSystem:
			return "system"
		}
	}
	panic(fmt.Sprintf("domain: no wire name for role %s on %s", r, p.Family()))
}

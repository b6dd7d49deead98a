package domain

// Message is one conversational turn in provider-agnostic form.
type Message struct {
	Role    Role
	Content string
}

func FromUser(content string) Message {
	return Message{Role: RoleUser, Content: content}
}

func FromAssistant(content string) Message {
	return Message{Role: RoleAssistant, Content: content}
}

func FromSystem(content string) Message {
	return Message{Role: RoleSystem, Content: content}
}

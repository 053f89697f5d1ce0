package conversation

// State is the ordered conversation history. It only grows by appending;
// readers get copies so committed entries cannot be edited in place.
type State struct {
	messages []Message
}

// NewState returns a state seeded with the given messages.
func NewState(seed ...Message) *State {
	s := &State{}
	s.Append(seed...)
	return s
}

// Append adds messages to the end of the history.
func (s *State) Append(msgs ...Message) {
	for _, m := range msgs {
		s.messages = append(s.messages, m.clone())
	}
}

// Len returns the number of messages.
func (s *State) Len() int {
	return len(s.messages)
}

// Messages returns a copy of the full history.
func (s *State) Messages() []Message {
	out := make([]Message, len(s.messages))
	for i, m := range s.messages {
		out[i] = m.clone()
	}
	return out
}

// Last returns the most recent message.
func (s *State) Last() (Message, bool) {
	if len(s.messages) == 0 {
		return Message{}, false
	}
	return s.messages[len(s.messages)-1].clone(), true
}

// Fork returns an independent copy that can be extended without touching s.
func (s *State) Fork() *State {
	return &State{messages: s.Messages()}
}

// PendingToolCalls returns the IDs of the latest tool-call request that have
// no matching tool result after it.
func (s *State) PendingToolCalls() []string {
	idx := -1
	for i := len(s.messages) - 1; i >= 0; i-- {
		if s.messages[i].IsToolCallRequest() {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil
	}

	answered := make(map[string]bool)
	for _, m := range s.messages[idx+1:] {
		if m.Kind == KindToolResult {
			answered[m.ToolCallID] = true
		}
	}

	var pending []string
	for _, call := range s.messages[idx].ToolCalls {
		if !answered[call.ID] {
			pending = append(pending, call.ID)
		}
	}
	return pending
}

package protocol

// EndSession has an empty payload. Frame type 99, sent by either role.
type EndSession struct{}

func (EndSession) Marshal() []byte { return nil }
